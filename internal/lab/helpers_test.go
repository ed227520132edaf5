package lab_test

import (
	"encoding/json"
	"testing"

	"lab-go/internal/lab"
	"lab-go/internal/testutil"
)

// putStudents writes students directly, bypassing the importer.
func putStudents(t *testing.T, tl *testutil.TestLab, students ...lab.Student) {
	t.Helper()
	data, err := json.Marshal(students)
	if err != nil {
		t.Fatalf("marshal students: %v", err)
	}
	if err := tl.Store.Save(lab.CollectionStudents, data); err != nil {
		t.Fatalf("save students: %v", err)
	}
	tl.Store.Reset()
}

func mustMachines(t *testing.T, tl *testutil.TestLab) map[string]lab.Machine {
	t.Helper()
	machines, err := tl.Service.ListMachines()
	if err != nil {
		t.Fatalf("ListMachines() error = %v", err)
	}
	byID := make(map[string]lab.Machine, len(machines))
	for _, m := range machines {
		byID[m.ID] = m
	}
	return byID
}

func mustStudents(t *testing.T, tl *testutil.TestLab, class string) []lab.Student {
	t.Helper()
	students, err := tl.Service.ListStudents(class)
	if err != nil {
		t.Fatalf("ListStudents(%q) error = %v", class, err)
	}
	return students
}

func mustImport(t *testing.T, tl *testutil.TestLab, class string, rows ...lab.Row) *lab.ImportResult {
	t.Helper()
	res, err := tl.Service.ImportRoster(rows, class)
	if err != nil {
		t.Fatalf("ImportRoster(%q) error = %v", class, err)
	}
	tl.Store.Reset()
	return res
}

func seatedCount(machines map[string]lab.Machine) int {
	n := 0
	for _, m := range machines {
		if m.Seated() {
			n++
		}
	}
	return n
}

func roomOf(n int) lab.SeedPolicy {
	p := lab.DefaultSeedPolicy()
	p.MachineCount = n
	p.Broken = nil
	p.Maintenance = nil
	return p
}
