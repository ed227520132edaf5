package lab_test

import (
	"fmt"
	"reflect"
	"testing"

	"lab-go/internal/lab"
	"lab-go/internal/testutil"
)

func TestPlanSeating(t *testing.T) {
	machines := []lab.Machine{{ID: "M01"}, {ID: "M02"}, {ID: "M03"}}

	tests := []struct {
		name     string
		students []lab.Student
		wantMode lab.SeatingMode
		want     []lab.Seat
		unseated []string
	}{
		{
			name: "fallback orders by Vietnamese name",
			students: []lab.Student{
				{ID: "s1", Name: "Đức", Class: "A"},
				{ID: "s2", Name: "Bình", Class: "A"},
				{ID: "s3", Name: "An", Class: "A"},
			},
			wantMode: lab.SeatingFallback,
			want: []lab.Seat{
				{MachineID: "M01", StudentID: "s3", StudentName: "An"},
				{MachineID: "M02", StudentID: "s2", StudentName: "Bình"},
				{MachineID: "M03", StudentID: "s1", StudentName: "Đức"},
			},
		},
		{
			name: "fallback leaves extras unseated",
			students: []lab.Student{
				{ID: "s1", Name: "A", Class: "A"},
				{ID: "s2", Name: "B", Class: "A"},
				{ID: "s3", Name: "C", Class: "A"},
				{ID: "s4", Name: "D", Class: "A"},
			},
			wantMode: lab.SeatingFallback,
			want: []lab.Seat{
				{MachineID: "M01", StudentID: "s1", StudentName: "A"},
				{MachineID: "M02", StudentID: "s2", StudentName: "B"},
				{MachineID: "M03", StudentID: "s3", StudentName: "C"},
			},
			unseated: []string{"s4"},
		},
		{
			name: "explicit when any student has a machine",
			students: []lab.Student{
				{ID: "s1", Name: "A", Class: "A", AssignedComputerID: "M03"},
				{ID: "s2", Name: "B", Class: "A"},
				{ID: "s3", Name: "C", Class: "A", AssignedComputerID: "M09"},
			},
			wantMode: lab.SeatingExplicit,
			want: []lab.Seat{
				{MachineID: "M03", StudentID: "s1", StudentName: "A"},
			},
			unseated: []string{"s2", "s3"},
		},
		{
			name: "explicit duplicate goes to the last claimant",
			students: []lab.Student{
				{ID: "s1", Name: "A", Class: "A", AssignedComputerID: "M02"},
				{ID: "s2", Name: "B", Class: "A", AssignedComputerID: "M02"},
			},
			wantMode: lab.SeatingExplicit,
			want: []lab.Seat{
				{MachineID: "M02", StudentID: "s2", StudentName: "B"},
			},
			unseated: []string{"s1"},
		},
		{
			name: "explicit seats are listed in room order",
			students: []lab.Student{
				{ID: "s1", Name: "A", Class: "A", AssignedComputerID: "M03"},
				{ID: "s2", Name: "B", Class: "A", AssignedComputerID: "M01"},
				{ID: "s3", Name: "C", Class: "A", AssignedComputerID: "M02"},
			},
			wantMode: lab.SeatingExplicit,
			want: []lab.Seat{
				{MachineID: "M01", StudentID: "s2", StudentName: "B"},
				{MachineID: "M02", StudentID: "s3", StudentName: "C"},
				{MachineID: "M03", StudentID: "s1", StudentName: "A"},
			},
		},
		{
			name: "ignores other classes",
			students: []lab.Student{
				{ID: "s1", Name: "A", Class: "B", AssignedComputerID: "M01"},
				{ID: "s2", Name: "B", Class: "A"},
			},
			wantMode: lab.SeatingFallback,
			want: []lab.Seat{
				{MachineID: "M01", StudentID: "s2", StudentName: "B"},
			},
		},
		{
			name:     "empty class",
			wantMode: lab.SeatingFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := lab.PlanSeating(machines, tt.students, "A")
			if plan.Mode != tt.wantMode {
				t.Errorf("Mode = %v, want %v", plan.Mode, tt.wantMode)
			}
			if !reflect.DeepEqual(plan.Seats, tt.want) {
				t.Errorf("Seats = %+v, want %+v", plan.Seats, tt.want)
			}
			if !reflect.DeepEqual(plan.Unseated, tt.unseated) {
				t.Errorf("Unseated = %v, want %v", plan.Unseated, tt.unseated)
			}
		})
	}
}

func TestPlanSeating_DoesNotReorderInput(t *testing.T) {
	students := []lab.Student{
		{ID: "s1", Name: "Chi", Class: "A"},
		{ID: "s2", Name: "An", Class: "A"},
	}
	lab.PlanSeating([]lab.Machine{{ID: "M01"}, {ID: "M02"}}, students, "A")
	if students[0].ID != "s1" {
		t.Errorf("input reordered: %+v", students)
	}
}

func TestLabService_Activate(t *testing.T) {
	t.Run("fallback seats alphabetically and records the seat", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		putStudents(t, tl,
			lab.Student{ID: "b", Name: "Bình", Class: "10A1"},
			lab.Student{ID: "a", Name: "An", Class: "10A1"},
		)

		plan, err := tl.Service.Activate("10A1")
		if err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
		if plan.Mode != lab.SeatingFallback {
			t.Errorf("Mode = %v, want fallback", plan.Mode)
		}

		byID := mustMachines(t, tl)
		if got := byID["M01"].AssignedStudentName; got != "An" {
			t.Errorf("M01 seat = %q, want An", got)
		}
		if got := byID["M02"].AssignedStudentName; got != "Bình" {
			t.Errorf("M02 seat = %q, want Bình", got)
		}

		for _, st := range mustStudents(t, tl, "10A1") {
			want := map[string]string{"a": "M01", "b": "M02"}[st.ID]
			if st.AssignedComputerID != want {
				t.Errorf("student %s AssignedComputerID = %q, want %q", st.ID, st.AssignedComputerID, want)
			}
		}

		saves := tl.Store.Saves()
		want := []lab.Collection{lab.CollectionStudents, lab.CollectionMachines}
		if !reflect.DeepEqual(saves, want) {
			t.Errorf("saves = %v, want %v", saves, want)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		putStudents(t, tl,
			lab.Student{ID: "c", Name: "Chi", Class: "10A1"},
			lab.Student{ID: "a", Name: "Ánh", Class: "10A1"},
			lab.Student{ID: "b", Name: "Bảo", Class: "10A1"},
		)

		first, err := tl.Service.Activate("10A1")
		if err != nil {
			t.Fatalf("first Activate() error = %v", err)
		}
		before := mustMachines(t, tl)

		second, err := tl.Service.Activate("10A1")
		if err != nil {
			t.Fatalf("second Activate() error = %v", err)
		}
		after := mustMachines(t, tl)

		if second.Mode != lab.SeatingExplicit {
			t.Errorf("second Mode = %v, want explicit", second.Mode)
		}
		if !reflect.DeepEqual(first.Seats, second.Seats) {
			t.Errorf("seats changed: %+v then %+v", first.Seats, second.Seats)
		}
		if !reflect.DeepEqual(before, after) {
			t.Errorf("machines changed between activations")
		}
	})

	t.Run("seats min of students and machines", func(t *testing.T) {
		for _, tc := range []struct{ machines, students int }{{3, 5}, {5, 3}, {4, 4}, {2, 0}} {
			t.Run(fmt.Sprintf("%d machines %d students", tc.machines, tc.students), func(t *testing.T) {
				tl := testutil.NewTestLab(t, testutil.WithSeed(roomOf(tc.machines)))
				var students []lab.Student
				for i := 0; i < tc.students; i++ {
					students = append(students, lab.Student{ID: fmt.Sprintf("s%d", i), Name: fmt.Sprintf("HS %02d", i), Class: "10A1"})
				}
				putStudents(t, tl, students...)

				plan, err := tl.Service.Activate("10A1")
				if err != nil {
					t.Fatalf("Activate() error = %v", err)
				}
				want := min(tc.machines, tc.students)
				if got := seatedCount(mustMachines(t, tl)); got != want {
					t.Errorf("seated machines = %d, want %d", got, want)
				}
				if got := len(plan.Unseated); got != tc.students-want {
					t.Errorf("unseated = %d, want %d", got, tc.students-want)
				}
			})
		}
	})

	t.Run("evicts the previous class from the whole room", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		mustImport(t, tl, "10A1",
			lab.Row{"STT": 1, "Họ và tên": "An"},
			lab.Row{"STT": 30, "Họ và tên": "Bình"},
		)
		mustImport(t, tl, "11B2", lab.Row{"STT": 2, "Họ và tên": "Cường"})

		if _, err := tl.Service.Activate("10A1"); err != nil {
			t.Fatalf("Activate(10A1) error = %v", err)
		}
		if _, err := tl.Service.Activate("11B2"); err != nil {
			t.Fatalf("Activate(11B2) error = %v", err)
		}

		byID := mustMachines(t, tl)
		if byID["M01"].Seated() || byID["M30"].Seated() {
			t.Errorf("10A1 seats survived: M01=%+v M30=%+v", byID["M01"], byID["M30"])
		}
		if byID["M02"].AssignedStudentName != "Cường" {
			t.Errorf("M02 seat = %q, want Cường", byID["M02"].AssignedStudentName)
		}
		if n := seatedCount(byID); n != 1 {
			t.Errorf("seated machines = %d, want 1", n)
		}

		active, err := tl.Service.ActiveClass()
		if err != nil {
			t.Fatalf("ActiveClass() error = %v", err)
		}
		if active != "11B2" {
			t.Errorf("ActiveClass() = %q, want 11B2", active)
		}
	})

	t.Run("duplicate seat numbers seat the later row", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		mustImport(t, tl, "10A1",
			lab.Row{"STT": 1, "Họ và tên": "A"},
			lab.Row{"STT": 1, "Họ và tên": "B"},
		)

		plan, err := tl.Service.Activate("10A1")
		if err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
		if got := mustMachines(t, tl)["M01"].AssignedStudentName; got != "B" {
			t.Errorf("M01 seat = %q, want B", got)
		}
		if len(plan.Unseated) != 1 {
			t.Errorf("Unseated = %v, want the displaced student", plan.Unseated)
		}
	})

	t.Run("explicit mode skips missing machines", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		mustImport(t, tl, "10A1",
			lab.Row{"STT": 2, "Họ và tên": "An"},
			lab.Row{"STT": 99, "Họ và tên": "Bình"},
		)

		plan, err := tl.Service.Activate("10A1")
		if err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
		if plan.Mode != lab.SeatingExplicit {
			t.Errorf("Mode = %v, want explicit", plan.Mode)
		}
		if len(plan.Seats) != 1 || plan.Seats[0].MachineID != "M02" {
			t.Errorf("Seats = %+v, want only M02", plan.Seats)
		}
		if len(plan.Unseated) != 1 {
			t.Errorf("Unseated = %v, want one student", plan.Unseated)
		}
		if saves := tl.Store.Saves(); !reflect.DeepEqual(saves, []lab.Collection{lab.CollectionMachines}) {
			t.Errorf("saves = %v, want machines only", saves)
		}
	})

	t.Run("empty class clears the room", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		mustImport(t, tl, "10A1", lab.Row{"STT": 1, "Họ và tên": "An"})
		if _, err := tl.Service.Activate("10A1"); err != nil {
			t.Fatalf("Activate(10A1) error = %v", err)
		}

		plan, err := tl.Service.Activate("11B2")
		if err != nil {
			t.Fatalf("Activate(11B2) error = %v", err)
		}
		if len(plan.Seats) != 0 {
			t.Errorf("Seats = %+v, want none", plan.Seats)
		}
		if n := seatedCount(mustMachines(t, tl)); n != 0 {
			t.Errorf("seated machines = %d, want 0", n)
		}
	})

	t.Run("rejects a blank class", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		if _, err := tl.Service.Activate("  "); err == nil {
			t.Fatal("Activate() error = nil, want error")
		}
		if saves := tl.Store.Saves(); len(saves) != 0 {
			t.Errorf("saves = %v, want none", saves)
		}
	})
}

func TestLabService_ClearSeats(t *testing.T) {
	tl := testutil.NewTestLab(t)
	mustImport(t, tl, "10A1", lab.Row{"STT": 4, "Họ và tên": "An"})
	if _, err := tl.Service.Activate("10A1"); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	if err := tl.Service.ClearSeats(); err != nil {
		t.Fatalf("ClearSeats() error = %v", err)
	}
	if n := seatedCount(mustMachines(t, tl)); n != 0 {
		t.Errorf("seated machines = %d, want 0", n)
	}
	if got := mustStudents(t, tl, "10A1")[0].AssignedComputerID; got != "M04" {
		t.Errorf("AssignedComputerID = %q, want M04 kept", got)
	}
	active, _ := tl.Service.ActiveClass()
	if active != "" {
		t.Errorf("ActiveClass() = %q, want empty", active)
	}
}
