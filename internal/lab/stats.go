package lab

import "sort"

// DashboardStats summarises the room and today's discipline.
type DashboardStats struct {
	TotalMachines        int
	WorkingMachines      int
	MaintenanceMachines  int
	BrokenMachines       int // broken or being repaired
	RepairingMachines    int
	DisabledMachines     int
	SeatedMachines       int
	ViolationCountToday  int
	ViolationPointsToday int
}

// Dashboard computes DashboardStats for the current day.
func (s *LabService) Dashboard() (*DashboardStats, error) {
	machines, err := s.ListMachines()
	if err != nil {
		return nil, err
	}
	violations, err := s.ListViolations()
	if err != nil {
		return nil, err
	}

	st := &DashboardStats{TotalMachines: len(machines)}
	for _, m := range machines {
		switch m.Status {
		case StatusWorking:
			st.WorkingMachines++
		case StatusMaintenance:
			st.MaintenanceMachines++
		case StatusBroken:
			st.BrokenMachines++
		case StatusRepairing:
			st.BrokenMachines++
			st.RepairingMachines++
		case StatusDisabled:
			st.DisabledMachines++
		}
		if m.Seated() {
			st.SeatedMachines++
		}
	}

	now := s.clock.Now()
	for _, v := range violations {
		if sameDay(v.Date, now, s.settings.Location) {
			st.ViolationCountToday++
			st.ViolationPointsToday += v.Points
		}
	}
	return st, nil
}

// ViolationCount is the number of violations recorded under one label.
type ViolationCount struct {
	Label string
	Count int
}

// ClassStats summarises one class's roster, discipline and teaching history.
type ClassStats struct {
	Class       string
	Students    int
	Violations  int
	TotalPoints int
	ByType      []ViolationCount // most frequent first
	RecentLogs  []TeacherLog     // at most five, most recent first
	TotalLogs   int
}

const recentLogLimit = 5

// ClassStatistics computes ClassStats for className.
func (s *LabService) ClassStatistics(className string) (*ClassStats, error) {
	if err := requireText("class name", className); err != nil {
		return nil, err
	}

	students, err := s.CountStudents(className)
	if err != nil {
		return nil, err
	}
	violations, err := s.ListViolations()
	if err != nil {
		return nil, err
	}
	logs, err := s.ListTeacherLogs()
	if err != nil {
		return nil, err
	}

	st := &ClassStats{Class: className, Students: students}

	counts := make(map[string]int)
	var order []string
	for _, v := range violations {
		if v.Class != className {
			continue
		}
		st.Violations++
		st.TotalPoints += v.Points
		if _, seen := counts[v.ViolationName]; !seen {
			order = append(order, v.ViolationName)
		}
		counts[v.ViolationName]++
	}
	for _, label := range order {
		st.ByType = append(st.ByType, ViolationCount{Label: label, Count: counts[label]})
	}
	sort.SliceStable(st.ByType, func(i, j int) bool {
		return st.ByType[i].Count > st.ByType[j].Count
	})

	for _, l := range logs {
		if l.Class != className {
			continue
		}
		st.TotalLogs++
		if len(st.RecentLogs) < recentLogLimit {
			st.RecentLogs = append(st.RecentLogs, l)
		}
	}
	return st, nil
}
