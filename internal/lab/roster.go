package lab

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one record of an uploaded roster: column header to cell value.
// Values are loosely typed (spreadsheet readers may yield numbers or text).
type Row map[string]any

// RosterField is a logical column of a roster.
type RosterField string

const (
	FieldSequence RosterField = "sequence"
	FieldName     RosterField = "name"
	FieldCode     RosterField = "code"
)

// HeaderAliases lists, per logical field, the accepted column headers in
// priority order. The first alias with a non-blank value wins.
var HeaderAliases = map[RosterField][]string{
	FieldSequence: {"STT", "stt", "Stt", "No", "No."},
	FieldName:     {"Họ và tên", "Họ tên", "Name", "Full Name", "name", "Tên"},
	FieldCode:     {"Mã HS", "Code", "Student ID"},
}

// Lookup resolves field against the row using HeaderAliases.
// ok is false when no alias carries a non-blank value.
func (r Row) Lookup(field RosterField) (string, bool) {
	for _, header := range HeaderAliases[field] {
		v, present := r[header]
		if !present || v == nil {
			continue
		}
		text := strings.TrimSpace(fmt.Sprint(v))
		if text != "" {
			return text, true
		}
	}
	return "", false
}

// SeatHint returns the machine id a row asks for: the row's sequence number
// when it starts with an integer, otherwise its 1-based position.
// Zero and negative numbers give ids such as M00 and M-2 that match no machine.
func SeatHint(sequence string, position int) string {
	if n, ok := leadingInt(sequence); ok {
		return MachineID(n)
	}
	return MachineID(position)
}

// leadingInt parses the integer prefix of s ("12", "12.0", "7a" all parse).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ImportResult summarises a roster import.
type ImportResult struct {
	Class    string
	Imported int
	Skipped  int // rows without a name
	Replaced int // students of the class removed before the import
}

// ImportRoster replaces every student of targetClass with the students in rows.
// The import is destructive for that class and leaves other classes alone.
// Rows without a name are dropped. Each accepted student carries the seat hint
// derived from its sequence number so the next activation is explicit.
// An empty rows slice is ErrNoData and mutates nothing.
func (s *LabService) ImportRoster(rows []Row, targetClass string) (*ImportResult, error) {
	if err := requireText("target class", targetClass); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("importing roster for %s: %w", targetClass, ErrNoData)
	}

	existing, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Class: targetClass}
	retained := make([]Student, 0, len(existing)+len(rows))
	for _, st := range existing {
		if st.Class == targetClass {
			result.Replaced++
			continue
		}
		retained = append(retained, st)
	}

	stamp := s.clock.Now().UnixMilli()
	for i, row := range rows {
		name, ok := row.Lookup(FieldName)
		if !ok {
			result.Skipped++
			continue
		}
		sequence, _ := row.Lookup(FieldSequence)
		code, ok := row.Lookup(FieldCode)
		if !ok {
			code = fmt.Sprintf("HS%d%d", stamp, i)
		}

		retained = append(retained, Student{
			ID:                 s.idgen.New(),
			Name:               name,
			Class:              targetClass,
			Code:               code,
			AssignedComputerID: SeatHint(sequence, i+1),
		})
		result.Imported++
	}

	if err := saveList(s.store, CollectionStudents, retained); err != nil {
		return nil, err
	}

	s.logger.Info("roster imported",
		"class", targetClass,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"replaced", result.Replaced,
	)
	return result, nil
}
