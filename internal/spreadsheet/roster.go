// Package spreadsheet reads class rosters from and writes lab statistics to
// Excel workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"lab-go/internal/lab"
)

// MaxRosterRows caps the data rows accepted from one roster file.
const MaxRosterRows = 1000

// ErrTooManyRows is returned when a roster exceeds MaxRosterRows.
// It wraps lab.ErrInvalidInput.
var ErrTooManyRows = fmt.Errorf("%w: roster has more than %d rows", lab.ErrInvalidInput, MaxRosterRows)

// ReadRoster reads the first sheet of an Excel workbook. The first row is the
// header; every later non-empty row becomes a lab.Row keyed by header text.
// Cells are trimmed and blank cells are left out of the row.
// A sheet without data rows is lab.ErrNoData.
func ReadRoster(r io.Reader) ([]lab.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets: %w", lab.ErrNoData)
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(cells) < 2 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, lab.ErrNoData)
	}

	header := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		header[i] = strings.TrimSpace(h)
	}

	var rows []lab.Row
	for _, line := range cells[1:] {
		row := lab.Row{}
		for i, v := range line {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				row[header[i]] = v
			}
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, lab.ErrNoData)
	}
	if len(rows) > MaxRosterRows {
		return nil, ErrTooManyRows
	}
	return rows, nil
}
