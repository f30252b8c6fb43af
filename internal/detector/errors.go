package detector

import (
	"errors"
	"fmt"
)

// Error categories shared by the response, coincidence and binning code.
var (
	// ErrDomain indicates an input outside the mathematical domain of a function,
	// such as a non-positive energy passed to a resolution model.
	ErrDomain = errors.New("detsim: value outside function domain")

	// ErrPrecondition indicates caller-supplied arrays that violate a contract,
	// such as channels of different length.
	ErrPrecondition = errors.New("detsim: precondition violated")

	// ErrConfig indicates an invalid parameter: negative window, degenerate range.
	ErrConfig = errors.New("detsim: invalid configuration")
)

// Error wraps one of the categories with the failing operation.
type Error struct {
	Op      string
	Detail  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Detail, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

func DomainError(op, format string, args ...any) error {
	return &Error{Op: op, Detail: fmt.Sprintf(format, args...), Wrapped: ErrDomain}
}

func PreconditionError(op, format string, args ...any) error {
	return &Error{Op: op, Detail: fmt.Sprintf(format, args...), Wrapped: ErrPrecondition}
}

func ConfigError(op, format string, args ...any) error {
	return &Error{Op: op, Detail: fmt.Sprintf(format, args...), Wrapped: ErrConfig}
}
