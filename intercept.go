package tabula

import (
	"log/slog"

	iutil "github.com/go-sif/tabula/internal/util"
)

// outcome is how a single row failure was settled
type outcome int

const (
	proceed    outcome = iota // no failure
	substitute                // failure recorded, caller substitutes a default
	drop                      // failure recorded, row removed
	abort                     // failure ended the run
)

// intercept evaluates fn exactly once for the row at idx, recovering panics, and settles any
// failure according to the run's ErrorMode
func (r *run) intercept(op string, idx int, row *Row, fn func() error) outcome {
	describe := func() string {
		if row == nil {
			return "<none>"
		}
		return row.String()
	}
	err := iutil.SafeCall(op, describe, fn)
	if err == nil {
		return proceed
	}
	var snapshot *Row
	if row != nil {
		snapshot = row.Clone()
	}
	rerr := &RowError{Index: idx, Row: snapshot, Op: op, Cause: err}
	if r.mode == Fail {
		r.logger.Error("row failed", slog.String("op", op), slog.Int("index", idx), slog.Any("error", err))
		// the first failure wins
		if r.fatal == nil {
			r.fatal = aggregate([]*RowError{rerr})
		}
		return abort
	}
	r.logger.Warn("row failed", slog.String("op", op), slog.Int("index", idx), slog.String("mode", r.mode.String()), slog.Any("error", err))
	r.rowErrors = append(r.rowErrors, rerr)
	if r.mode == Discard {
		return drop
	}
	return substitute
}

// guarded applies step to each row of in, intercepting failures. step returns the row to emit,
// or nil to emit nothing. fallback produces the row to emit when a failure is substituted.
func (r *run) guarded(op string, in rowStream, step func(row *Row) (*Row, error), fallback func(row *Row) *Row) rowStream {
	return func(yield func(*Row) bool) {
		idx := 0
		for row := range in {
			if !r.live() {
				return
			}
			var out *Row
			switch r.intercept(op, idx, row, func() (err error) {
				out, err = step(row)
				return
			}) {
			case substitute:
				out = fallback(row)
			case drop:
				out = nil
			case abort:
				return
			}
			idx++
			if out != nil && !yield(out) {
				return
			}
		}
	}
}
