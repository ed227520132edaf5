package lab

import (
	"fmt"
	"sort"
)

// SeatingMode is the strategy PlanSeating chose for a class.
type SeatingMode int

const (
	// SeatingExplicit seats students on the machines recorded on their roster entry.
	SeatingExplicit SeatingMode = iota + 1
	// SeatingFallback seats students alphabetically from M01 upward.
	SeatingFallback
)

func (m SeatingMode) String() string {
	switch m {
	case SeatingExplicit:
		return "explicit"
	case SeatingFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Seat places one student on one machine.
type Seat struct {
	MachineID   string
	StudentID   string
	StudentName string
}

// SeatPlan is the outcome of planning a class activation.
type SeatPlan struct {
	Class    string
	Mode     SeatingMode
	Seats    []Seat
	Unseated []string // student ids left without a machine
}

// PlanSeating computes where each student of className sits. It does not touch
// storage.
//
// If any student of the class carries an AssignedComputerID the plan is
// explicit: every student sits on the machine recorded for them, students
// whose machine does not exist stay unseated, and when two students name the
// same machine the later one in list order takes it.
// Otherwise the plan falls back to Vietnamese alphabetical order, the i-th
// student taking machine M<i>; students beyond the machine count stay unseated.
// Seats are listed in room order in both modes.
func PlanSeating(machines []Machine, students []Student, className string) SeatPlan {
	var selected []Student
	for _, st := range students {
		if st.Class == className {
			selected = append(selected, st)
		}
	}

	byID := make(map[string]int, len(machines))
	for i, m := range machines {
		byID[m.ID] = i
	}

	plan := SeatPlan{Class: className, Mode: SeatingFallback}
	for _, st := range selected {
		if st.AssignedComputerID != "" {
			plan.Mode = SeatingExplicit
			break
		}
	}

	if plan.Mode == SeatingExplicit {
		holder := make(map[string]Student)
		for _, st := range selected {
			if _, ok := byID[st.AssignedComputerID]; ok {
				holder[st.AssignedComputerID] = st
			}
		}
		seated := make(map[string]bool, len(holder))
		for target, st := range holder {
			seated[st.ID] = true
			plan.Seats = append(plan.Seats, Seat{MachineID: target, StudentID: st.ID, StudentName: st.Name})
		}
		for _, st := range selected {
			if !seated[st.ID] {
				plan.Unseated = append(plan.Unseated, st.ID)
			}
		}
	} else {
		sortStudentsByName(selected)
		for i, st := range selected {
			target := MachineID(i + 1)
			if _, ok := byID[target]; !ok || i >= len(machines) {
				plan.Unseated = append(plan.Unseated, st.ID)
				continue
			}
			plan.Seats = append(plan.Seats, Seat{MachineID: target, StudentID: st.ID, StudentName: st.Name})
		}
	}

	sort.Slice(plan.Seats, func(i, j int) bool {
		return byID[plan.Seats[i].MachineID] < byID[plan.Seats[j].MachineID]
	})
	return plan
}

// Activate seats className's students for a session.
// Every machine in the room is vacated first, whichever class sat there.
// In fallback mode the chosen machine is written back onto each seated student
// so the next activation is explicit and reproduces the same layout. Students
// are saved before machines; the two writes are not atomic.
func (s *LabService) Activate(className string) (*SeatPlan, error) {
	if err := requireText("class name", className); err != nil {
		return nil, err
	}

	machines, err := loadList[Machine](s.store, CollectionMachines)
	if err != nil {
		return nil, err
	}
	students, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return nil, err
	}

	plan := PlanSeating(machines, students, className)

	for i := range machines {
		machines[i].clearSeat()
	}

	machineIdx := make(map[string]int, len(machines))
	for i, m := range machines {
		machineIdx[m.ID] = i
	}
	for _, seat := range plan.Seats {
		m := &machines[machineIdx[seat.MachineID]]
		m.AssignedStudentID = seat.StudentID
		m.AssignedStudentName = seat.StudentName
	}

	if plan.Mode == SeatingFallback && len(plan.Seats) > 0 {
		seatOf := make(map[string]string, len(plan.Seats))
		for _, seat := range plan.Seats {
			seatOf[seat.StudentID] = seat.MachineID
		}
		for i := range students {
			if id, ok := seatOf[students[i].ID]; ok {
				students[i].AssignedComputerID = id
			}
		}
		if err := saveList(s.store, CollectionStudents, students); err != nil {
			return nil, fmt.Errorf("recording seat preferences: %w", err)
		}
	}

	if err := saveList(s.store, CollectionMachines, machines); err != nil {
		return nil, err
	}

	s.logger.Info("class activated",
		"class", className,
		"mode", plan.Mode.String(),
		"seated", len(plan.Seats),
		"unseated", len(plan.Unseated),
	)
	return &plan, nil
}

// ClearSeats vacates every machine without touching student seat preferences.
func (s *LabService) ClearSeats() error {
	machines, err := loadList[Machine](s.store, CollectionMachines)
	if err != nil {
		return err
	}
	for i := range machines {
		machines[i].clearSeat()
	}
	if err := saveList(s.store, CollectionMachines, machines); err != nil {
		return err
	}
	s.logger.Info("seats cleared")
	return nil
}

// ActiveClass returns the class of the students currently seated, or "" when
// the room is empty. If several classes are seated the first machine wins.
func (s *LabService) ActiveClass() (string, error) {
	machines, err := loadList[Machine](s.store, CollectionMachines)
	if err != nil {
		return "", err
	}
	students, err := loadList[Student](s.store, CollectionStudents)
	if err != nil {
		return "", err
	}
	classOf := make(map[string]string, len(students))
	for _, st := range students {
		classOf[st.ID] = st.Class
	}
	for _, m := range machines {
		if m.Seated() {
			return classOf[m.AssignedStudentID], nil
		}
	}
	return "", nil
}
