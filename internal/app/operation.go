package app

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Operation tracks a CLI command that may change lab data.
// Operations are created in memory with ID=0. Only commands that change data
// persist them (giving them an auto-increment ID from the store).
type Operation struct {
	ID         int64
	Name       string
	Parameters string
	Status     string // "success" or "error"
}

// NewOperation creates a new in-memory operation.
func NewOperation(name string) *Operation {
	return &Operation{
		Name:   name,
		Status: statusSuccess,
	}
}

// Persisted returns true if this operation has been journaled.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = statusError
}

// Succeeded reports whether nothing has failed so far.
func (op *Operation) Succeeded() bool {
	return op.Status == statusSuccess
}
