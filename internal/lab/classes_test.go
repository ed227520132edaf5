package lab_test

import (
	"errors"
	"reflect"
	"testing"

	"lab-go/internal/lab"
	"lab-go/internal/testutil"
)

func TestLabService_AddClass(t *testing.T) {
	tl := testutil.NewTestLab(t)

	c, err := tl.Service.AddClass(lab.ClassInput{Name: " 12C3 ", Note: "Chuyên Tin"})
	if err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}
	if c.Name != "12C3" || c.ID == "" {
		t.Errorf("class = %+v", c)
	}
	found, err := tl.Service.FindClassByName("12C3")
	if err != nil {
		t.Fatalf("FindClassByName() error = %v", err)
	}
	if found.ID != c.ID {
		t.Errorf("FindClassByName().ID = %q, want %q", found.ID, c.ID)
	}

	tl.Store.Reset()
	for _, in := range []lab.ClassInput{{Name: "   "}, {Name: "10A1"}} {
		if _, err := tl.Service.AddClass(in); !errors.Is(err, lab.ErrInvalidInput) {
			t.Errorf("AddClass(%+v) error = %v, want ErrInvalidInput", in, err)
		}
	}
	if saves := tl.Store.Saves(); len(saves) != 0 {
		t.Errorf("saves = %v, want none", saves)
	}
}

func TestLabService_UpdateClass(t *testing.T) {
	t.Run("rename moves students", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		mustImport(t, tl, "10A1", lab.Row{"Name": "An"}, lab.Row{"Name": "Bình"})
		mustImport(t, tl, "11B2", lab.Row{"Name": "Chi"})

		c, err := tl.Service.UpdateClass("1", lab.ClassInput{Name: "10A2", Note: "đổi tên"})
		if err != nil {
			t.Fatalf("UpdateClass() error = %v", err)
		}
		if c.Name != "10A2" || c.Note != "đổi tên" {
			t.Errorf("class = %+v", c)
		}
		if n := len(mustStudents(t, tl, "10A2")); n != 2 {
			t.Errorf("10A2 students = %d, want 2", n)
		}
		if n := len(mustStudents(t, tl, "10A1")); n != 0 {
			t.Errorf("10A1 students = %d, want 0", n)
		}
		if n := len(mustStudents(t, tl, "11B2")); n != 1 {
			t.Errorf("11B2 students = %d, want 1", n)
		}
	})

	t.Run("note only does not touch students", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		if _, err := tl.Service.UpdateClass("2", lab.ClassInput{Name: "11B2", Note: "mới"}); err != nil {
			t.Fatalf("UpdateClass() error = %v", err)
		}
		if saves := tl.Store.Saves(); !reflect.DeepEqual(saves, []lab.Collection{lab.CollectionClasses}) {
			t.Errorf("saves = %v, want classes only", saves)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		if _, err := tl.Service.UpdateClass("99", lab.ClassInput{Name: "X"}); !errors.Is(err, lab.ErrNotFound) {
			t.Errorf("missing id error = %v, want ErrNotFound", err)
		}
		if _, err := tl.Service.UpdateClass("1", lab.ClassInput{Name: "11B2"}); !errors.Is(err, lab.ErrInvalidInput) {
			t.Errorf("duplicate name error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestLabService_DeleteClass(t *testing.T) {
	t.Run("removes the class and its students", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		mustImport(t, tl, "10A1", lab.Row{"Name": "An"}, lab.Row{"Name": "Bình"})
		mustImport(t, tl, "11B2", lab.Row{"Name": "Chi"})
		tl.Store.Reset()

		deleted, err := tl.Service.DeleteClass("1")
		if err != nil {
			t.Fatalf("DeleteClass() error = %v", err)
		}
		if !deleted {
			t.Error("DeleteClass() = false, want true")
		}
		if _, err := tl.Service.FindClassByName("10A1"); !errors.Is(err, lab.ErrNotFound) {
			t.Errorf("FindClassByName(10A1) error = %v, want ErrNotFound", err)
		}
		if n := len(mustStudents(t, tl, "10A1")); n != 0 {
			t.Errorf("10A1 students = %d, want 0", n)
		}
		if n := len(mustStudents(t, tl, "11B2")); n != 1 {
			t.Errorf("11B2 students = %d, want 1", n)
		}
		want := []lab.Collection{lab.CollectionClasses, lab.CollectionStudents}
		if saves := tl.Store.Saves(); !reflect.DeepEqual(saves, want) {
			t.Errorf("saves = %v, want %v", saves, want)
		}
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		deleted, err := tl.Service.DeleteClass("nope")
		if err != nil {
			t.Fatalf("DeleteClass() error = %v", err)
		}
		if deleted {
			t.Error("DeleteClass() = true, want false")
		}
		if saves := tl.Store.Saves(); len(saves) != 0 {
			t.Errorf("saves = %v, want none", saves)
		}
	})

	t.Run("failed student write leaves orphans readers tolerate", func(t *testing.T) {
		tl := testutil.NewTestLab(t)
		mustImport(t, tl, "10A1", lab.Row{"STT": 1, "Name": "An"})
		tl.Store.FailSavesOf(lab.CollectionStudents)

		deleted, err := tl.Service.DeleteClass("1")
		if err == nil {
			t.Fatal("DeleteClass() error = nil, want student save failure")
		}
		if !deleted {
			t.Error("DeleteClass() = false, want true once the class is gone")
		}
		tl.Store.FailSavesOf("")

		orphans := mustStudents(t, tl, "10A1")
		if len(orphans) != 1 {
			t.Fatalf("orphans = %d, want 1", len(orphans))
		}
		if _, err := tl.Service.Activate("10A1"); err != nil {
			t.Errorf("Activate() with orphaned students error = %v", err)
		}
		if _, err := tl.Service.ClassStatistics("10A1"); err != nil {
			t.Errorf("ClassStatistics() with orphaned students error = %v", err)
		}
	})
}

func TestLabService_ListStudents(t *testing.T) {
	tl := testutil.NewTestLab(t)
	mustImport(t, tl, "10A1", lab.Row{"Name": "Đức"}, lab.Row{"Name": "An"}, lab.Row{"Name": "Dũng"})
	mustImport(t, tl, "11B2", lab.Row{"Name": "Bình"})

	var names []string
	for _, st := range mustStudents(t, tl, "10A1") {
		names = append(names, st.Name)
	}
	if want := []string{"An", "Dũng", "Đức"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if n := len(mustStudents(t, tl, "")); n != 4 {
		t.Errorf("all students = %d, want 4", n)
	}
	n, err := tl.Service.CountStudents("10A1")
	if err != nil || n != 3 {
		t.Errorf("CountStudents() = %d, %v; want 3", n, err)
	}
}
