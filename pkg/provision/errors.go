package provision

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why a run failed. Every kind maps to exit status 1; the
// kind only selects the message shown to the operator.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPort
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPort:
		return "port"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string // "validate", "open", "write", "read", ...
	Port string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Port != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind carried by err. Bare context errors count as
// cancellation; anything else unrecognised is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	return KindUnknown
}

// ExitCode maps a run result to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func portError(op, port string, err error) error {
	return &Error{Kind: KindPort, Op: op, Port: port, Err: err}
}

func cancelled(op string, err error) error {
	return &Error{Kind: KindCancelled, Op: op, Err: err}
}
