package todo

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned (wrapped in a *RangeError) when a task ID does
// not address a task in the list.
var ErrOutOfRange = errors.New("task id out of range")

// RangeError describes a positional lookup outside [1, Len].
type RangeError struct {
	Op  string // operation that failed: "remove", "complete", "get"
	ID  int    // requested 1-based ID
	Len int    // list length at the time of the call
}

func (e *RangeError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("%s task %d: %v (list is empty)", e.Op, e.ID, ErrOutOfRange)
	}
	return fmt.Sprintf("%s task %d: %v (valid ids are 1-%d)", e.Op, e.ID, ErrOutOfRange, e.Len)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
