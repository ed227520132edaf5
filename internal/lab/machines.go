package lab

import (
	"fmt"
	"strings"
)

// MachineInput holds the editable attributes of a machine.
type MachineInput struct {
	ID        string        `json:"id" validate:"omitempty,startswith=M"`
	Name      string        `json:"name" validate:"max=64"`
	Location  string        `json:"location" validate:"max=128"`
	IPAddress string        `json:"ipAddress" validate:"omitempty,ip"`
	Specs     string        `json:"specs" validate:"max=256"`
	Status    MachineStatus `json:"status" validate:"omitempty,machinestatus"`
}

// ListMachines returns every machine in stored order.
func (s *LabService) ListMachines() ([]Machine, error) {
	return loadList[Machine](s.store, CollectionMachines)
}

// GetMachine returns the machine with the given id.
func (s *LabService) GetMachine(id string) (*Machine, error) {
	machines, err := s.ListMachines()
	if err != nil {
		return nil, err
	}
	idx := indexOfMachine(machines, id)
	if idx < 0 {
		return nil, fmt.Errorf("machine %s: %w", id, ErrNotFound)
	}
	return &machines[idx], nil
}

// AddMachine appends a machine. Without an id the next free sequence number
// is used; an id already in use is rejected. Status defaults to working.
func (s *LabService) AddMachine(in MachineInput) (*Machine, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	machines, err := s.ListMachines()
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = nextMachineID(machines)
	} else if indexOfMachine(machines, id) >= 0 {
		return nil, fmt.Errorf("%w: machine %s already exists", ErrInvalidInput, id)
	}

	m := Machine{
		ID:        id,
		Name:      in.Name,
		Location:  in.Location,
		IPAddress: in.IPAddress,
		Specs:     in.Specs,
		Status:    in.Status,
	}
	if m.Name == "" {
		m.Name = "Máy " + strings.TrimPrefix(id, "M")
	}
	if m.Status == "" {
		m.Status = StatusWorking
	}

	machines = append(machines, m)
	if err := saveList(s.store, CollectionMachines, machines); err != nil {
		return nil, err
	}

	s.logger.Info("machine added", "machine", m.ID)
	return &m, nil
}

// UpdateMachine replaces the descriptive fields of a machine. Blank fields in
// in are left unchanged. The seat assignment is not editable here.
func (s *LabService) UpdateMachine(id string, in MachineInput) (*Machine, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	machines, err := s.ListMachines()
	if err != nil {
		return nil, err
	}
	idx := indexOfMachine(machines, id)
	if idx < 0 {
		return nil, fmt.Errorf("machine %s: %w", id, ErrNotFound)
	}

	m := &machines[idx]
	if in.Name != "" {
		m.Name = in.Name
	}
	if in.Location != "" {
		m.Location = in.Location
	}
	if in.IPAddress != "" {
		m.IPAddress = in.IPAddress
	}
	if in.Specs != "" {
		m.Specs = in.Specs
	}
	if in.Status != "" {
		m.Status = in.Status
	}

	if err := saveList(s.store, CollectionMachines, machines); err != nil {
		return nil, err
	}
	updated := *m
	return &updated, nil
}

// SetMachineStatus changes the operational status of a machine.
func (s *LabService) SetMachineStatus(id string, status MachineStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	machines, err := s.ListMachines()
	if err != nil {
		return err
	}
	idx := indexOfMachine(machines, id)
	if idx < 0 {
		return fmt.Errorf("machine %s: %w", id, ErrNotFound)
	}

	old := machines[idx].Status
	machines[idx].Status = status
	if err := saveList(s.store, CollectionMachines, machines); err != nil {
		return err
	}

	s.logger.Info("machine status changed", "machine", id, "from", string(old), "to", string(status))
	return nil
}

// DeleteMachine removes a machine. Students whose seat preference names it
// keep the preference and stay unseated until a machine with that id exists.
func (s *LabService) DeleteMachine(id string) error {
	machines, err := s.ListMachines()
	if err != nil {
		return err
	}
	idx := indexOfMachine(machines, id)
	if idx < 0 {
		return fmt.Errorf("machine %s: %w", id, ErrNotFound)
	}

	machines = append(machines[:idx], machines[idx+1:]...)
	if err := saveList(s.store, CollectionMachines, machines); err != nil {
		return err
	}

	s.logger.Info("machine deleted", "machine", id)
	return nil
}

// ClearMachineSeat vacates one machine.
func (s *LabService) ClearMachineSeat(id string) error {
	machines, err := s.ListMachines()
	if err != nil {
		return err
	}
	idx := indexOfMachine(machines, id)
	if idx < 0 {
		return fmt.Errorf("machine %s: %w", id, ErrNotFound)
	}
	machines[idx].clearSeat()
	return saveList(s.store, CollectionMachines, machines)
}

func indexOfMachine(machines []Machine, id string) int {
	for i := range machines {
		if machines[i].ID == id {
			return i
		}
	}
	return -1
}

// nextMachineID returns M<n+1> where n is the highest sequence number in use.
func nextMachineID(machines []Machine) string {
	highest := 0
	for _, m := range machines {
		if n, ok := leadingInt(strings.TrimPrefix(m.ID, "M")); ok && n > highest {
			highest = n
		}
	}
	return MachineID(highest + 1)
}
