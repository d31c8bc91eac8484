package tabula

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	iutil "github.com/go-sif/tabula/internal/util"
)

// ErrorMode selects how a failure of a caller-supplied function on a single row is handled
type ErrorMode int

const (
	// Fail aborts the whole operation on the first row error
	Fail ErrorMode = iota
	// Continue keeps the failing row, substituting a default for the failed computation,
	// and records the error on the resulting Table
	Continue
	// Discard drops the failing row and records the error on the resulting Table
	Discard
	// ContinueAndFail behaves like Continue over the whole input, then fails with every
	// recorded error if there was at least one
	ContinueAndFail
)

// String returns a string representation of this ErrorMode
func (m ErrorMode) String() string {
	switch m {
	case Fail:
		return "fail"
	case Continue:
		return "continue"
	case Discard:
		return "discard"
	case ContinueAndFail:
		return "continue-and-fail"
	default:
		return fmt.Sprintf("ErrorMode(%d)", int(m))
	}
}

// ParseErrorMode translates the textual form produced by ErrorMode.String
func ParseErrorMode(s string) (ErrorMode, error) {
	for _, m := range []ErrorMode{Fail, Continue, Discard, ContinueAndFail} {
		if m.String() == s {
			return m, nil
		}
	}
	return Fail, fmt.Errorf("Unknown error mode %q", s)
}

// RowError records a failure while processing a single row
type RowError struct {
	Index int    // position of the row in the sequence being processed when it failed
	Row   *Row   // best-effort snapshot of the row; may be partially built
	Op    string // name of the operation which failed
	Cause error
}

// Error returns a textual representation of this RowError
func (e *RowError) Error() string {
	row := "<none>"
	if e.Row != nil {
		row = e.Row.String()
	}
	return fmt.Sprintf("%s error at row %d: %v\nRow: %s", e.Op, e.Index, e.Cause, row)
}

// Unwrap returns the underlying failure
func (e *RowError) Unwrap() error {
	return e.Cause
}

// aggregate wraps every recorded RowError in a multierror
func aggregate(rowErrors []*RowError) error {
	var merr *multierror.Error
	for _, rerr := range rowErrors {
		merr = multierror.Append(merr, rerr)
	}
	if merr != nil {
		merr.ErrorFormat = iutil.FormatMultiError
	}
	return merr.ErrorOrNil()
}

// RowErrors extracts, in order, the RowErrors carried by an error returned from
// Builder finalization. It returns nil for validation errors.
func RowErrors(err error) []*RowError {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var res []*RowError
		for _, e := range merr.Errors {
			var rerr *RowError
			if errors.As(e, &rerr) {
				res = append(res, rerr)
			}
		}
		return res
	}
	var rerr *RowError
	if errors.As(err, &rerr) {
		return []*RowError{rerr}
	}
	return nil
}
