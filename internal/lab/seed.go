package lab

import (
	"fmt"
	"strings"
)

// ClassSeed describes a class created on first use.
type ClassSeed struct {
	Name string
	Note string
}

// SeedPolicy describes the data written the first time a store is opened.
// Broken and Maintenance hold 1-based machine sequence numbers.
type SeedPolicy struct {
	MachineCount int
	Columns      int
	Specs        string
	Broken       []int
	Maintenance  []int
	Classes      []ClassSeed
}

// DefaultSeedPolicy is the stock room: 50 machines in rows of 5, a few
// machines flagged for repair, and two example classes.
func DefaultSeedPolicy() SeedPolicy {
	return SeedPolicy{
		MachineCount: 50,
		Columns:      5,
		Specs:        "Core i5, 8GB RAM",
		Broken:       []int{5, 12},
		Maintenance:  []int{3, 20},
		Classes: []ClassSeed{
			{Name: "10A1", Note: "Lớp chọn"},
			{Name: "11B2"},
		},
	}
}

// Validate checks that the policy can produce a consistent room.
func (p SeedPolicy) Validate() error {
	if p.MachineCount < 0 {
		return fmt.Errorf("%w: machine count must not be negative", ErrInvalidInput)
	}
	if p.Columns <= 0 {
		return fmt.Errorf("%w: columns must be positive", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(p.Classes))
	for _, c := range p.Classes {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("%w: seed class name is required", ErrInvalidInput)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate seed class %q", ErrInvalidInput, name)
		}
		seen[name] = true
	}
	return nil
}

// machines builds the seeded machine list M01..M<n>.
func (p SeedPolicy) machines() []Machine {
	status := make(map[int]MachineStatus)
	for _, i := range p.Broken {
		status[i] = StatusBroken
	}
	for _, i := range p.Maintenance {
		status[i] = StatusMaintenance
	}

	machines := make([]Machine, 0, p.MachineCount)
	for i := 1; i <= p.MachineCount; i++ {
		st, ok := status[i]
		if !ok {
			st = StatusWorking
		}
		machines = append(machines, Machine{
			ID:       MachineID(i),
			Name:     fmt.Sprintf("Máy %02d", i),
			Location: seatLocation(i, p.Columns),
			Specs:    p.Specs,
			Status:   st,
		})
	}
	return machines
}

// classes builds the seeded classes with ids "1", "2", ...
func (p SeedPolicy) classes() []Class {
	classes := make([]Class, 0, len(p.Classes))
	for i, c := range p.Classes {
		classes = append(classes, Class{
			ID:   fmt.Sprintf("%d", i+1),
			Name: strings.TrimSpace(c.Name),
			Note: c.Note,
		})
	}
	return classes
}

// seatLocation returns the row/column label of the seq-th seat.
func seatLocation(seq, columns int) string {
	row := (seq + columns - 1) / columns
	col := (seq-1)%columns + 1
	return fmt.Sprintf("Hàng %d - Cột %d", row, col)
}
