package logging

import "fmt"

// OperationError ошибка с операцией и циклом съёмки, в котором она возникла.
type OperationError struct {
	Operation string
	CycleID   uint64
	Err       error
}

func (e *OperationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.CycleID != 0 {
		return fmt.Sprintf("%s (cycle=%d): %v", e.Operation, e.CycleID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

// Unwrap возвращает исходную ошибку для errors.Is/As.
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewOperationError оборачивает err; nil остаётся nil.
func NewOperationError(operation string, cycleID uint64, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, CycleID: cycleID, Err: err}
}
