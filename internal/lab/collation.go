package lab

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortStudentsByName orders students by name using Vietnamese collation, so
// "An" < "Bình" < "Cường" < "Dung" < "Đức" regardless of diacritics encoding.
// Students whose names collate equal keep their relative order.
func sortStudentsByName(students []Student) {
	// A Collator is not safe for concurrent use; build one per sort.
	c := collate.New(language.Vietnamese)
	sort.SliceStable(students, func(i, j int) bool {
		return c.CompareString(students[i].Name, students[j].Name) < 0
	})
}
