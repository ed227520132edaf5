package lab_test

import (
	"errors"
	"testing"
	"time"

	"lab-go/internal/lab"
	"lab-go/internal/testutil"
)

func TestLabService_RecordViolation(t *testing.T) {
	t.Run("accumulates points and prepends", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		putStudents(t, tl, lab.Student{ID: "s1", Name: "An", Class: "10A1"})

		first := lab.ViolationRecord{ID: "v1", StudentID: "s1", StudentName: "An", Class: "10A1", ViolationType: lab.ViolationGaming, Points: -3}
		second := lab.ViolationRecord{ID: "v2", StudentID: "s1", StudentName: "An", Class: "10A1", ViolationType: lab.ViolationFood, Points: -2}
		for _, v := range []lab.ViolationRecord{first, second} {
			if err := tl.Service.RecordViolation(v); err != nil {
				t.Fatalf("RecordViolation(%s) error = %v", v.ID, err)
			}
		}

		if got := mustStudents(t, tl, "10A1")[0].TotalViolationPoints; got != -5 {
			t.Errorf("TotalViolationPoints = %d, want -5", got)
		}

		violations, err := tl.Service.ListViolations()
		if err != nil {
			t.Fatalf("ListViolations() error = %v", err)
		}
		if len(violations) != 2 || violations[0].ID != "v2" || violations[1].ID != "v1" {
			t.Errorf("ledger order = %v, want v2 then v1", violations)
		}
		if violations[0].ComputerID != lab.NoMachine {
			t.Errorf("ComputerID = %q, want %q", violations[0].ComputerID, lab.NoMachine)
		}
		if !violations[0].Date.Equal(tl.Clock.Now()) {
			t.Errorf("Date = %v, want clock time", violations[0].Date)
		}
	})

	t.Run("records for a missing student without touching students", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		putStudents(t, tl, lab.Student{ID: "s1", Name: "An", Class: "10A1"})

		err := tl.Service.RecordViolation(lab.ViolationRecord{StudentID: "gone", StudentName: "Đã xoá", ViolationType: lab.ViolationLate, Points: -1})
		if err != nil {
			t.Fatalf("RecordViolation() error = %v", err)
		}

		violations, _ := tl.Service.ListViolations()
		if len(violations) != 1 || violations[0].StudentName != "Đã xoá" {
			t.Errorf("violations = %+v", violations)
		}
		if saves := tl.Store.Saves(); len(saves) != 1 || saves[0] != lab.CollectionViolations {
			t.Errorf("saves = %v, want violations only", saves)
		}
		if got := mustStudents(t, tl, "10A1")[0].TotalViolationPoints; got != 0 {
			t.Errorf("TotalViolationPoints = %d, want 0", got)
		}
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		tests := []struct {
			name string
			rec  lab.ViolationRecord
		}{
			{"no student", lab.ViolationRecord{ViolationType: lab.ViolationLate, Points: -1}},
			{"unknown type", lab.ViolationRecord{StudentID: "s1", ViolationType: "cheating", Points: -1}},
			{"positive points", lab.ViolationRecord{StudentID: "s1", ViolationType: lab.ViolationLate, Points: 2}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tl := testutil.NewTestLab(t)
				err := tl.Service.RecordViolation(tt.rec)
				if !errors.Is(err, lab.ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
				if saves := tl.Store.Saves(); len(saves) != 0 {
					t.Errorf("saves = %v, want none", saves)
				}
			})
		}
	})
}

func TestLabService_ReportViolation(t *testing.T) {
	t.Run("resolves the student and applies table points", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		putStudents(t, tl,
			lab.Student{ID: "s1", Name: "Nguyễn Văn An", Class: "10A1", Code: "HS001"},
			lab.Student{ID: "s2", Name: "Trần Bình", Class: "10A1", Code: "HS002"},
		)

		rec, err := tl.Service.ReportViolation(lab.ViolationInput{Student: "HS002", MachineID: "M07", Type: lab.ViolationEquipment, Note: "tháo chuột"})
		if err != nil {
			t.Fatalf("ReportViolation() error = %v", err)
		}
		if rec.StudentID != "s2" || rec.Points != -5 || rec.ViolationName != "Tự ý tháo lắp thiết bị" {
			t.Errorf("record = %+v", rec)
		}
		if rec.ComputerID != "M07" || rec.TeacherName != "Cô Lan" || rec.Class != "10A1" {
			t.Errorf("record = %+v", rec)
		}

		rec, err = tl.Service.ReportViolation(lab.ViolationInput{Student: "văn an", Type: lab.ViolationLate})
		if err != nil {
			t.Fatalf("ReportViolation(by name) error = %v", err)
		}
		if rec.StudentID != "s1" || rec.ComputerID != lab.NoMachine {
			t.Errorf("record = %+v", rec)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		_, err := tl.Service.ReportViolation(lab.ViolationInput{Student: "ai đó", Type: lab.ViolationLate})
		if !errors.Is(err, lab.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		putStudents(t, tl, lab.Student{ID: "s1", Name: "An", Class: "10A1"})

		for _, in := range []lab.ViolationInput{
			{Student: "", Type: lab.ViolationLate},
			{Student: "An", Type: ""},
			{Student: "An", Type: "sleeping"},
		} {
			if _, err := tl.Service.ReportViolation(in); !errors.Is(err, lab.ErrInvalidInput) {
				t.Errorf("ReportViolation(%+v) error = %v, want ErrInvalidInput", in, err)
			}
		}
		if saves := tl.Store.Saves(); len(saves) != 0 {
			t.Errorf("saves = %v, want none", saves)
		}
	})
}

func TestLabService_ReportMachineViolation(t *testing.T) {
	tl := testutil.NewTestLab(t)
	mustImport(t, tl, "10A1", lab.Row{"STT": 7, "Họ và tên": "An"})
	if _, err := tl.Service.Activate("10A1"); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	tl.Clock.Advance(10 * time.Minute)
	rec, err := tl.Service.ReportMachineViolation("M07", lab.ViolationNoisy, "")
	if err != nil {
		t.Fatalf("ReportMachineViolation() error = %v", err)
	}
	if rec.StudentName != "An" || rec.ComputerID != "M07" || rec.Points != -2 || rec.Class != "10A1" {
		t.Errorf("record = %+v", rec)
	}
	if got := mustStudents(t, tl, "10A1")[0].TotalViolationPoints; got != -2 {
		t.Errorf("TotalViolationPoints = %d, want -2", got)
	}

	if _, err := tl.Service.ReportMachineViolation("M08", lab.ViolationNoisy, ""); !errors.Is(err, lab.ErrInvalidInput) {
		t.Errorf("empty seat error = %v, want ErrInvalidInput", err)
	}
	if _, err := tl.Service.ReportMachineViolation("M99", lab.ViolationNoisy, ""); !errors.Is(err, lab.ErrNotFound) {
		t.Errorf("missing machine error = %v, want ErrNotFound", err)
	}
}

func TestViolationKinds(t *testing.T) {
	want := map[lab.ViolationType]int{
		lab.ViolationLate:      -1,
		lab.ViolationFood:      -2,
		lab.ViolationGaming:    -3,
		lab.ViolationNoisy:     -2,
		lab.ViolationEquipment: -5,
		lab.ViolationOther:     -1,
	}
	kinds := lab.ViolationKinds()
	if len(kinds) != len(want) {
		t.Fatalf("len(kinds) = %d, want %d", len(kinds), len(want))
	}
	for _, k := range kinds {
		if k.Points != want[k.Type] {
			t.Errorf("%s points = %d, want %d", k.Type, k.Points, want[k.Type])
		}
	}

	kinds[0].Points = 100
	if k, _ := lab.LookupViolation(lab.ViolationLate); k.Points != -1 {
		t.Errorf("table mutated through ViolationKinds()")
	}
}
