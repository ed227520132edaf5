package lab

import (
	"fmt"
	"strings"
)

// RecordViolation prepends rec to the ledger and applies its point delta to
// the student's running total. The ledger is ordered most recent first and
// records are never modified afterwards.
//
// If the student no longer exists the entry is still recorded; its snapshot
// of name and class is the only trace of the student. The ledger write and the
// student write are separate.
func (s *LabService) RecordViolation(rec ViolationRecord) error {
	if err := requireText("student id", rec.StudentID); err != nil {
		return err
	}
	if _, ok := LookupViolation(rec.ViolationType); !ok {
		return fmt.Errorf("%w: unknown violation type %q", ErrInvalidInput, rec.ViolationType)
	}
	if rec.Points > 0 {
		return fmt.Errorf("%w: violation points must not be positive", ErrInvalidInput)
	}
	if rec.ID == "" {
		rec.ID = s.idgen.New()
	}
	if rec.Date.IsZero() {
		rec.Date = s.clock.Now()
	}
	if rec.ComputerID == "" {
		rec.ComputerID = NoMachine
	}

	violations, err := loadList[ViolationRecord](s.store, CollectionViolations)
	if err != nil {
		return err
	}
	violations = append([]ViolationRecord{rec}, violations...)
	if err := saveList(s.store, CollectionViolations, violations); err != nil {
		return err
	}

	students, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return err
	}
	idx := indexOfStudent(students, rec.StudentID)
	if idx < 0 {
		s.logger.Warn("violation recorded for unknown student", "student_id", rec.StudentID, "violation_id", rec.ID)
		return nil
	}
	students[idx].TotalViolationPoints += rec.Points
	if err := saveList(s.store, CollectionStudents, students); err != nil {
		return fmt.Errorf("updating student points: %w", err)
	}

	s.logger.Info("violation recorded",
		"student", rec.StudentName,
		"type", string(rec.ViolationType),
		"points", rec.Points,
		"total", students[idx].TotalViolationPoints,
	)
	return nil
}

// ViolationInput is a violation as entered by the teacher.
type ViolationInput struct {
	Student   string        `json:"student" validate:"notblank"` // code or part of the name
	MachineID string        `json:"machineId"`
	Type      ViolationType `json:"violationType" validate:"required,violationtype"`
	Note      string        `json:"note"`
}

// ReportViolation resolves the student named by in and records the violation
// with the points of its type.
func (s *LabService) ReportViolation(in ViolationInput) (*ViolationRecord, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	student, err := s.FindStudent(in.Student)
	if err != nil {
		return nil, err
	}

	rec := s.newViolation(*student, strings.TrimSpace(in.MachineID), in.Type, in.Note)
	if err := s.RecordViolation(rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ReportMachineViolation records a violation against whoever sits at machineID.
func (s *LabService) ReportMachineViolation(machineID string, vt ViolationType, note string) (*ViolationRecord, error) {
	if _, ok := LookupViolation(vt); !ok {
		return nil, fmt.Errorf("%w: unknown violation type %q", ErrInvalidInput, vt)
	}

	machine, err := s.GetMachine(machineID)
	if err != nil {
		return nil, err
	}
	if !machine.Seated() {
		return nil, fmt.Errorf("%w: no student is seated at %s", ErrInvalidInput, machine.ID)
	}

	students, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return nil, err
	}
	student := Student{ID: machine.AssignedStudentID, Name: machine.AssignedStudentName, Class: "Unknown"}
	if idx := indexOfStudent(students, machine.AssignedStudentID); idx >= 0 {
		student = students[idx]
	}

	rec := s.newViolation(student, machine.ID, vt, note)
	if err := s.RecordViolation(rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListViolations returns the ledger, most recent first.
func (s *LabService) ListViolations() ([]ViolationRecord, error) {
	return loadList[ViolationRecord](s.store, CollectionViolations)
}

func (s *LabService) newViolation(student Student, machineID string, vt ViolationType, note string) ViolationRecord {
	kind, _ := LookupViolation(vt)
	if machineID == "" {
		machineID = NoMachine
	}
	return ViolationRecord{
		ID:            s.idgen.New(),
		Date:          s.clock.Now(),
		StudentID:     student.ID,
		StudentName:   student.Name,
		Class:         student.Class,
		ComputerID:    machineID,
		ViolationType: kind.Type,
		ViolationName: kind.Label,
		Points:        kind.Points,
		Note:          note,
		TeacherName:   s.settings.TeacherName,
	}
}

func indexOfStudent(students []Student, id string) int {
	for i := range students {
		if students[i].ID == id {
			return i
		}
	}
	return -1
}
