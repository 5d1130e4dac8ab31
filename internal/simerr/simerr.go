// Package simerr defines the error kinds every simulation can fail with.
//
// A simulation either succeeds completely or fails with exactly one of the
// kinds below. Callers test for a kind with errors.Is:
//
//	if errors.Is(err, simerr.ErrBudgetExceeded) { ... }
package simerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned for a non-finite, negative, or out-of-range
	// input, detected before any stepping begins.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNumericalInstability is returned when the state grows without bound or
	// stops being finite mid-run.
	ErrNumericalInstability = errors.New("numerical instability")

	// ErrBudgetExceeded is returned when the step/time cap is reached before the
	// phase reached its own termination condition.
	ErrBudgetExceeded = errors.New("step budget exceeded")
)

// Error carries the simulation context in which a failure happened.
// Step and Time are zero for validation failures.
type Error struct {
	Kind error   // one of the Err* sentinels
	Op   string  // "flight", "roll", ...
	Step int     // step index at failure
	Time float64 // simulated seconds at failure
	Msg  string
}

func (e *Error) Error() string {
	if e.Step > 0 {
		return fmt.Sprintf("%s: %v at step %d (t=%.3fs): %s", e.Op, e.Kind, e.Step, e.Time, e.Msg)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Invalid returns an ErrInvalidParameter error for op.
func Invalid(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidParameter, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Unstable returns an ErrNumericalInstability error raised at the given step.
func Unstable(op string, step int, t float64, format string, args ...any) error {
	return &Error{Kind: ErrNumericalInstability, Op: op, Step: step, Time: t, Msg: fmt.Sprintf(format, args...)}
}

// Budget returns an ErrBudgetExceeded error raised at the given step.
func Budget(op string, step int, t float64, format string, args ...any) error {
	return &Error{Kind: ErrBudgetExceeded, Op: op, Step: step, Time: t, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the sentinel kind wrapped by err, or nil if err carries none.
func KindOf(err error) error {
	for _, k := range []error{ErrInvalidParameter, ErrNumericalInstability, ErrBudgetExceeded} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Name returns the external name of err's kind: "InvalidParameter",
// "NumericalInstability", "BudgetExceeded", or "" for other errors.
func Name(err error) string {
	switch KindOf(err) {
	case ErrInvalidParameter:
		return "InvalidParameter"
	case ErrNumericalInstability:
		return "NumericalInstability"
	case ErrBudgetExceeded:
		return "BudgetExceeded"
	}
	return ""
}
