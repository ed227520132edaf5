package lab

import (
	"fmt"
	"strings"
)

// ScanPrefix starts every machine code printed on the lab's QR labels.
const ScanPrefix = "LAB-"

// ScanCode returns the code encoded on the label of machineID.
func ScanCode(machineID string) string {
	return ScanPrefix + machineID
}

// ParseScanCode extracts the machine id from a decoded code such as "LAB-M07".
func ParseScanCode(text string) (string, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, ScanPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, text)
	}
	id := strings.TrimPrefix(text, ScanPrefix)
	if id == "" {
		return "", fmt.Errorf("%w: %q has no machine id", ErrInvalidCode, text)
	}
	return id, nil
}

// ResolveScanCode returns the machine a decoded code refers to. It never
// mutates state.
func (s *LabService) ResolveScanCode(text string) (*Machine, error) {
	id, err := ParseScanCode(text)
	if err != nil {
		return nil, err
	}
	return s.GetMachine(id)
}
