package board

import (
	"errors"
	"fmt"
)

// Sentinel errors for board commands. Unknown-reference failures wrap
// these so callers can map them to a not-found outcome.
var (
	ErrUnknownOrder = errors.New("order not found")
	ErrUnknownItem  = errors.New("item not found")
)

// PreconditionError reports a command issued against an order or item
// that is not in the required state. It is a normal, reportable
// outcome, never a fault: the command takes no effect.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Reason)
}

// IsPrecondition reports whether err is a precondition violation.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

func precondition(op, format string, args ...interface{}) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
