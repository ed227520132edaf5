package lab_test

import (
	"errors"
	"testing"

	"lab-go/internal/lab"
	"lab-go/internal/testutil"
)

func TestLabService_Init(t *testing.T) {
	t.Run("seeds the stock room", func(t *testing.T) {
		tl := testutil.NewTestLab(t)

		machines, err := tl.Service.ListMachines()
		if err != nil {
			t.Fatalf("ListMachines() error = %v", err)
		}
		if len(machines) != 50 {
			t.Fatalf("len(machines) = %d, want 50", len(machines))
		}
		if machines[0].ID != "M01" || machines[49].ID != "M50" {
			t.Errorf("machine ids = %s..%s, want M01..M50", machines[0].ID, machines[49].ID)
		}

		wantStatus := map[string]lab.MachineStatus{
			"M03": lab.StatusMaintenance,
			"M05": lab.StatusBroken,
			"M12": lab.StatusBroken,
			"M20": lab.StatusMaintenance,
			"M01": lab.StatusWorking,
		}
		byID := mustMachines(t, tl)
		for id, want := range wantStatus {
			if got := byID[id].Status; got != want {
				t.Errorf("%s status = %q, want %q", id, got, want)
			}
		}
		if got := byID["M07"].Location; got != "Hàng 2 - Cột 2" {
			t.Errorf("M07 location = %q, want %q", got, "Hàng 2 - Cột 2")
		}
		if got := byID["M07"].Name; got != "Máy 07" {
			t.Errorf("M07 name = %q, want %q", got, "Máy 07")
		}

		classes, err := tl.Service.ListClasses()
		if err != nil {
			t.Fatalf("ListClasses() error = %v", err)
		}
		if len(classes) != 2 || classes[0].Name != "10A1" || classes[1].Name != "11B2" {
			t.Errorf("classes = %+v, want 10A1 and 11B2", classes)
		}
	})

	t.Run("leaves existing collections alone", func(t *testing.T) {
		tl := testutil.NewTestLab(t)

		if _, err := tl.Service.AddMachine(lab.MachineInput{}); err != nil {
			t.Fatalf("AddMachine() error = %v", err)
		}
		tl.Store.Reset()

		if err := tl.Service.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if saves := tl.Store.Saves(); len(saves) != 0 {
			t.Errorf("Init() saved %v, want nothing", saves)
		}
		if n := len(mustMachines(t, tl)); n != 51 {
			t.Errorf("len(machines) = %d, want 51", n)
		}
	})

	t.Run("honours a custom seed policy", func(t *testing.T) {
		policy := lab.SeedPolicy{
			MachineCount: 3,
			Columns:      3,
			Broken:       []int{2},
			Classes:      []lab.ClassSeed{{Name: "12C3"}},
		}
		tl := testutil.NewTestLab(t, testutil.WithSeed(policy))

		byID := mustMachines(t, tl)
		if len(byID) != 3 {
			t.Fatalf("len(machines) = %d, want 3", len(byID))
		}
		if byID["M02"].Status != lab.StatusBroken {
			t.Errorf("M02 status = %q, want broken", byID["M02"].Status)
		}
		c, err := tl.Service.GetClass("1")
		if err != nil {
			t.Fatalf("GetClass(1) error = %v", err)
		}
		if c.Name != "12C3" {
			t.Errorf("class name = %q, want 12C3", c.Name)
		}
	})

	t.Run("rejects an invalid seed policy", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		policy := lab.SeedPolicy{MachineCount: 5, Columns: 0}
		svc := lab.NewLabService(store, nil, nil, lab.NewNopLogger(), testutil.FixedClock(), testutil.NewStubIDGenerator(), lab.Settings{Seed: policy})

		err := svc.Init()
		if !errors.Is(err, lab.ErrInvalidInput) {
			t.Errorf("Init() error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestLabService_Reset(t *testing.T) {
	tl := testutil.NewTestLab(t)

	mustImport(t, tl, "10A1", lab.Row{"STT": 1, "Họ và tên": "An"})
	if _, err := tl.Service.Activate("10A1"); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if err := tl.Service.SetMachineStatus("M01", lab.StatusDisabled); err != nil {
		t.Fatalf("SetMachineStatus() error = %v", err)
	}

	if err := tl.Service.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if n := len(mustStudents(t, tl, "")); n != 0 {
		t.Errorf("students after reset = %d, want 0", n)
	}
	byID := mustMachines(t, tl)
	if len(byID) != 50 {
		t.Errorf("machines after reset = %d, want 50", len(byID))
	}
	if byID["M01"].Status != lab.StatusWorking || byID["M01"].Seated() {
		t.Errorf("M01 after reset = %+v, want working and empty", byID["M01"])
	}
	violations, _ := tl.Service.ListViolations()
	if len(violations) != 0 {
		t.Errorf("violations after reset = %d, want 0", len(violations))
	}
}

func TestLabService_TeacherName(t *testing.T) {
	svc := lab.NewLabService(testutil.NewTestStore(t), nil, nil, lab.NewNopLogger(), testutil.FixedClock(), testutil.NewStubIDGenerator(), lab.Settings{Seed: lab.DefaultSeedPolicy()})
	if got := svc.TeacherName(); got != "Admin" {
		t.Errorf("TeacherName() = %q, want Admin", got)
	}
}
