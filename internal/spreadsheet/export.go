package spreadsheet

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lab-go/internal/lab"
)

const (
	sheetViolations = "Thống kê vi phạm"
	sheetMachines   = "Thống kê máy tính"
	sheetTeaching   = "Lịch sử tiết dạy"

	dateLayout     = "02/01/2006"
	dateTimeLayout = "15:04 02/01/2006"

	// Machine details start below the summary block.
	machineDetailRow = 9
)

// Statistics is the data written by ExportStatistics.
type Statistics struct {
	Violations []lab.ViolationRecord
	Machines   []lab.Machine
	Logs       []lab.TeacherLog
	Location   *time.Location // times are shown in this zone; nil means local
}

// ExportFilename is the suggested file name for an export made at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("ThongKe_PhongMay_%s.xlsx", now.Format("02-01-2006"))
}

// ExportStatistics writes a three-sheet workbook: the violation ledger, the
// machine summary and inventory, and the teaching log.
func ExportStatistics(w io.Writer, st Statistics) error {
	loc := st.Location
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	sw := sheetWriter{f: f, headerStyle: headerStyle}
	if err := sw.violations(st.Violations, loc); err != nil {
		return err
	}
	if err := sw.machines(st.Machines); err != nil {
		return err
	}
	if err := sw.teaching(st.Logs); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(sheetViolations); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

type sheetWriter struct {
	f           *excelize.File
	headerStyle int
}

// table writes header at row start and returns the first data row.
func (sw sheetWriter) table(sheet string, start int, header []string, widths []float64) (int, error) {
	cell, err := excelize.CoordinatesToCellName(1, start)
	if err != nil {
		return 0, err
	}
	values := make([]any, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := sw.f.SetSheetRow(sheet, cell, &values); err != nil {
		return 0, fmt.Errorf("writing %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), start)
	if err := sw.f.SetCellStyle(sheet, cell, last, sw.headerStyle); err != nil {
		return 0, fmt.Errorf("styling %s header: %w", sheet, err)
	}
	for i, width := range widths {
		col := colName(i)
		if err := sw.f.SetColWidth(sheet, col, col, width); err != nil {
			return 0, fmt.Errorf("sizing %s columns: %w", sheet, err)
		}
	}
	return start + 1, nil
}

func (sw sheetWriter) row(sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := sw.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func (sw sheetWriter) violations(records []lab.ViolationRecord, loc *time.Location) error {
	if _, err := sw.f.NewSheet(sheetViolations); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	row, err := sw.table(sheetViolations, 1,
		[]string{"STT", "Lớp", "Họ tên học sinh", "Loại vi phạm", "Điểm trừ", "Mã máy", "Thời gian", "Ghi chú", "Giáo viên"},
		[]float64{5, 10, 25, 20, 10, 10, 20, 30, 15},
	)
	if err != nil {
		return err
	}
	for i, v := range records {
		err := sw.row(sheetViolations, row+i,
			i+1, v.Class, v.StudentName, v.ViolationName, v.Points, v.ComputerID,
			v.Date.In(loc).Format(dateTimeLayout), v.Note, v.TeacherName,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sw sheetWriter) machines(machines []lab.Machine) error {
	if _, err := sw.f.NewSheet(sheetMachines); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	var working, maintenance, broken int
	for _, m := range machines {
		switch m.Status {
		case lab.StatusWorking:
			working++
		case lab.StatusMaintenance:
			maintenance++
		case lab.StatusBroken, lab.StatusRepairing:
			broken++
		}
	}

	summary := [][]any{
		{"TỔNG HỢP TRẠNG THÁI MÁY TÍNH"},
		{"Tổng số máy", len(machines)},
		{"Máy hoạt động tốt", working},
		{"Máy đang bảo trì", maintenance},
		{"Máy hỏng/sửa chữa", broken},
		{},
		{"CHI TIẾT TỪNG MÁY"},
	}
	for i, values := range summary {
		if len(values) == 0 {
			continue
		}
		if err := sw.row(sheetMachines, i+1, values...); err != nil {
			return err
		}
	}
	for _, cell := range []string{"A1", "A7"} {
		if err := sw.f.SetCellStyle(sheetMachines, cell, cell, sw.headerStyle); err != nil {
			return fmt.Errorf("styling %s: %w", sheetMachines, err)
		}
	}

	row, err := sw.table(sheetMachines, machineDetailRow,
		[]string{"STT", "Mã máy", "Tên máy", "Vị trí", "Trạng thái", "Cấu hình", "HS được gán"},
		[]float64{5, 10, 15, 20, 15, 20, 25},
	)
	if err != nil {
		return err
	}
	for i, m := range machines {
		err := sw.row(sheetMachines, row+i,
			i+1, m.ID, m.Name, m.Location, m.Status.Label(), m.Specs, m.AssignedStudentName,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (sw sheetWriter) teaching(logs []lab.TeacherLog) error {
	if _, err := sw.f.NewSheet(sheetTeaching); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	row, err := sw.table(sheetTeaching, 1,
		[]string{"STT", "Ngày", "Tiết", "Lớp", "HS có mặt", "Tổng HS", "Nội dung bài dạy", "Ghi chú", "Giáo viên"},
		[]float64{5, 12, 10, 10, 10, 10, 40, 25, 15},
	)
	if err != nil {
		return err
	}
	for i, l := range logs {
		err := sw.row(sheetTeaching, row+i,
			i+1, logDate(l.Date), l.Period, l.Class, l.StudentPresent, l.StudentTotal,
			l.LessonContent, l.Note, l.TeacherName,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// logDate renders a YYYY-MM-DD log date as dd/mm/yyyy, or returns it unchanged
// if it does not parse.
func logDate(s string) string {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return d.Format(dateLayout)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}
