package util

import (
	"fmt"
)

// SafeCall runs fn such that panics are recovered and nice error messages are constructed.
// describe is only invoked when fn fails, and should render the row being processed.
func SafeCall(kind string, describe func() string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = &PanicError{Kind: kind, Row: describe(), Trace: GetTrace(), cause: anErr}
			} else {
				err = &PanicError{Kind: kind, Row: describe(), Trace: GetTrace(), cause: fmt.Errorf("%v", r)}
			}
		}
	}()
	err = fn()
	return
}

// PanicError is produced by SafeCall when the wrapped function panics
type PanicError struct {
	Kind  string
	Row   string
	Trace string
	cause error
}

// Error returns a textual representation of this PanicError
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s Panic: %v\nRow: %s\n%s", e.Kind, e.cause, e.Row, e.Trace)
}

// Unwrap returns the value the wrapped function panicked with
func (e *PanicError) Unwrap() error {
	return e.cause
}
