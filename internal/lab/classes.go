package lab

import (
	"fmt"
	"strings"
)

// ClassInput is a class as entered in the class form.
type ClassInput struct {
	Name string `json:"name" validate:"notblank,max=64"`
	Note string `json:"note" validate:"max=500"`
}

// ListClasses returns every class in stored order.
func (s *LabService) ListClasses() ([]Class, error) {
	return loadList[Class](s.store, CollectionClasses)
}

// GetClass returns the class with the given id.
func (s *LabService) GetClass(id string) (*Class, error) {
	classes, err := s.ListClasses()
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if classes[i].ID == id {
			return &classes[i], nil
		}
	}
	return nil, fmt.Errorf("class %s: %w", id, ErrNotFound)
}

// FindClassByName returns the class with the given name.
func (s *LabService) FindClassByName(name string) (*Class, error) {
	classes, err := s.ListClasses()
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if classes[i].Name == name {
			return &classes[i], nil
		}
	}
	return nil, fmt.Errorf("class %q: %w", name, ErrNotFound)
}

// AddClass creates a class. Names are trimmed and must be unique.
func (s *LabService) AddClass(in ClassInput) (*Class, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)

	classes, err := s.ListClasses()
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		if c.Name == name {
			return nil, fmt.Errorf("%w: class %q already exists", ErrInvalidInput, name)
		}
	}

	c := Class{ID: s.idgen.New(), Name: name, Note: in.Note}
	classes = append(classes, c)
	if err := saveList(s.store, CollectionClasses, classes); err != nil {
		return nil, err
	}

	s.logger.Info("class added", "class", name)
	return &c, nil
}

// UpdateClass edits a class. Renaming rewrites the class of every student
// enrolled under the old name; students are written before classes and the two
// writes are not atomic. Past violation records keep the old name.
func (s *LabService) UpdateClass(id string, in ClassInput) (*Class, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)

	classes, err := s.ListClasses()
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, c := range classes {
		if c.ID == id {
			idx = i
		} else if c.Name == name {
			return nil, fmt.Errorf("%w: class %q already exists", ErrInvalidInput, name)
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("class %s: %w", id, ErrNotFound)
	}

	oldName := classes[idx].Name
	if oldName != name {
		students, err := loadList[Student](s.store, CollectionStudents)
		if err != nil {
			return nil, err
		}
		moved := 0
		for i := range students {
			if students[i].Class == oldName {
				students[i].Class = name
				moved++
			}
		}
		if err := saveList(s.store, CollectionStudents, students); err != nil {
			return nil, fmt.Errorf("renaming students' class: %w", err)
		}
		s.logger.Info("class renamed", "from", oldName, "to", name, "students", moved)
	}

	classes[idx].Name = name
	classes[idx].Note = in.Note
	if err := saveList(s.store, CollectionClasses, classes); err != nil {
		return nil, err
	}

	c := classes[idx]
	return &c, nil
}

// DeleteClass removes a class and every student enrolled in it.
// It returns false without writing anything when id does not exist.
// The class write happens before the student write; a failure in between
// leaves orphaned students, which readers tolerate.
func (s *LabService) DeleteClass(id string) (bool, error) {
	classes, err := s.ListClasses()
	if err != nil {
		return false, err
	}

	idx := -1
	for i, c := range classes {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.Debug("class delete skipped, not found", "id", id)
		return false, nil
	}
	removed := classes[idx]

	classes = append(classes[:idx], classes[idx+1:]...)
	if err := saveList(s.store, CollectionClasses, classes); err != nil {
		return false, err
	}

	students, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return true, err
	}
	kept := students[:0]
	for _, st := range students {
		if st.Class != removed.Name {
			kept = append(kept, st)
		}
	}
	dropped := len(students) - len(kept)
	if err := saveList(s.store, CollectionStudents, kept); err != nil {
		return true, fmt.Errorf("removing students of %s: %w", removed.Name, err)
	}

	s.logger.Info("class deleted", "class", removed.Name, "students", dropped)
	return true, nil
}

// ListStudents returns the students of className, or every student when
// className is empty, ordered by name.
func (s *LabService) ListStudents(className string) ([]Student, error) {
	students, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return nil, err
	}
	if className != "" {
		filtered := students[:0]
		for _, st := range students {
			if st.Class == className {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	sortStudentsByName(students)
	return students, nil
}

// CountStudents returns how many students are enrolled in className.
func (s *LabService) CountStudents(className string) (int, error) {
	students, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, st := range students {
		if st.Class == className {
			n++
		}
	}
	return n, nil
}

// FindStudent resolves query against student codes (exact match) and names
// (case-insensitive substring). The first match in stored order wins.
func (s *LabService) FindStudent(query string) (*Student, error) {
	query = strings.TrimSpace(query)
	if err := requireText("student", query); err != nil {
		return nil, err
	}

	students, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	for i := range students {
		st := &students[i]
		if st.Code == query || strings.Contains(strings.ToLower(st.Name), needle) {
			return st, nil
		}
	}
	return nil, fmt.Errorf("student %q: %w", query, ErrNotFound)
}
