package lab

import (
	"fmt"
	"time"
)

// MachineStatus is the operational state of a lab machine.
type MachineStatus string

const (
	StatusWorking     MachineStatus = "working"
	StatusMaintenance MachineStatus = "maintenance"
	StatusBroken      MachineStatus = "broken"
	StatusRepairing   MachineStatus = "repairing"
	StatusDisabled    MachineStatus = "disabled"
)

var statusLabels = map[MachineStatus]string{
	StatusWorking:     "Hoạt động tốt",
	StatusMaintenance: "Cần bảo trì",
	StatusBroken:      "Hỏng",
	StatusRepairing:   "Đang sửa",
	StatusDisabled:    "Không dùng",
}

// Valid reports whether s is one of the known statuses.
func (s MachineStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label, or the raw value for unknown statuses.
func (s MachineStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Statuses lists every status in display order.
func Statuses() []MachineStatus {
	return []MachineStatus{StatusWorking, StatusMaintenance, StatusBroken, StatusRepairing, StatusDisabled}
}

// Machine is a physical seat in the lab.
type Machine struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Location            string        `json:"location"`
	IPAddress           string        `json:"ipAddress,omitempty"`
	Specs               string        `json:"specs,omitempty"`
	Status              MachineStatus `json:"status"`
	AssignedStudentID   string        `json:"assignedStudentId,omitempty"`
	AssignedStudentName string        `json:"assignedStudentName,omitempty"`
}

// Seated reports whether a student currently occupies the machine.
func (m Machine) Seated() bool {
	return m.AssignedStudentID != ""
}

func (m *Machine) clearSeat() {
	m.AssignedStudentID = ""
	m.AssignedStudentName = ""
}

// MachineID formats a 1-based sequence number as a machine id (M01, M02, ..., M100).
func MachineID(seq int) string {
	return fmt.Sprintf("M%02d", seq)
}

// Student is a roster entry. Class is matched against Class.Name by equality.
type Student struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Class                string `json:"class"`
	Code                 string `json:"code"`
	AssignedComputerID   string `json:"assignedComputerId,omitempty"`
	TotalViolationPoints int    `json:"totalViolationPoints"`
}

// Class is a named group of students. Name is the join key used by Student.Class.
type Class struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// ViolationType identifies an entry in the fixed violation table.
type ViolationType string

const (
	ViolationLate      ViolationType = "late"
	ViolationFood      ViolationType = "food"
	ViolationGaming    ViolationType = "gaming"
	ViolationNoisy     ViolationType = "noisy"
	ViolationEquipment ViolationType = "equipment"
	ViolationOther     ViolationType = "other"
)

// ViolationKind is a row of the violation lookup table.
type ViolationKind struct {
	Type   ViolationType
	Label  string
	Points int
}

var violationKinds = []ViolationKind{
	{Type: ViolationLate, Label: "Đi trễ (>5p)", Points: -1},
	{Type: ViolationFood, Label: "Mang đồ ăn/uống", Points: -2},
	{Type: ViolationGaming, Label: "Chơi game", Points: -3},
	{Type: ViolationNoisy, Label: "Gây ồn/Mất trật tự", Points: -2},
	{Type: ViolationEquipment, Label: "Tự ý tháo lắp thiết bị", Points: -5},
	{Type: ViolationOther, Label: "Khác", Points: -1},
}

// ViolationKinds returns a copy of the violation lookup table.
func ViolationKinds() []ViolationKind {
	return append([]ViolationKind(nil), violationKinds...)
}

// LookupViolation returns the table row for t.
func LookupViolation(t ViolationType) (ViolationKind, bool) {
	for _, k := range violationKinds {
		if k.Type == t {
			return k, true
		}
	}
	return ViolationKind{}, false
}

// NoMachine is recorded as the machine id of a violation not tied to a seat.
const NoMachine = "N/A"

// ViolationRecord is an immutable ledger entry. StudentName and Class are a
// snapshot taken when the record was created.
type ViolationRecord struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	StudentID     string        `json:"studentId"`
	StudentName   string        `json:"studentName"`
	Class         string        `json:"class"`
	ComputerID    string        `json:"computerId"`
	ViolationType ViolationType `json:"violationType"`
	ViolationName string        `json:"violationName"`
	Points        int           `json:"points"`
	Note          string        `json:"note"`
	TeacherName   string        `json:"teacherName"`
}

// TeacherLog records one taught period.
type TeacherLog struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"` // YYYY-MM-DD
	Period         string   `json:"period"`
	Class          string   `json:"class"`
	StudentPresent int      `json:"studentPresent"`
	StudentTotal   int      `json:"studentTotal"`
	LessonContent  string   `json:"lessonContent"`
	EquipmentUsed  []string `json:"equipmentUsed"`
	Note           string   `json:"note"`
	TeacherName    string   `json:"teacherName"`
}
