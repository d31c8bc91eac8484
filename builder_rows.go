package tabula

import (
	errors "github.com/go-sif/tabula/errors"
)

// Filter keeps the rows for which fn returns true, in order. Under Continue, a row whose
// predicate fails is kept unchanged.
func Filter(fn FilterOperation) Operation {
	return Operation{name: "filter", do: func(p *pipeline) error {
		p.push("filter", func(r *run, in rowStream) rowStream {
			return r.guarded("Filter", in, func(row *Row) (*Row, error) {
				keep, err := fn(row)
				if err != nil || !keep {
					return nil, err
				}
				return row, nil
			}, func(row *Row) *Row {
				return row
			})
		})
		return nil
	}}
}

// Concatenate appends the rows of each table, in order, after the rows of the pipeline.
// Every table must have exactly the pipeline's current columns.
func Concatenate(tables ...*Table) Operation {
	return Operation{name: "concatenate", do: func(p *pipeline) error {
		for _, t := range tables {
			if !t.header.Equal(p.header) {
				return errors.ColumnMismatchError{Expected: p.header.Columns(), Actual: t.Columns()}
			}
		}
		extra := append([]*Table(nil), tables...)
		p.push("concatenate", func(r *run, in rowStream) rowStream {
			return func(yield func(*Row) bool) {
				for row := range in {
					if !yield(row) {
						return
					}
				}
				for _, t := range extra {
					for _, row := range t.rows {
						if !yield(row) {
							return
						}
					}
				}
			}
		})
		// the appended rows belong to other tables
		p.rows = borrowed
		return nil
	}}
}

// RemoveDuplicates keeps only the first row for each distinct key built from keyCols,
// preserving order. With no keyCols, whole rows are compared.
func RemoveDuplicates(keyCols ...string) Operation {
	return Operation{name: "remove_duplicates", do: func(p *pipeline) error {
		cols := keyCols
		if len(cols) == 0 {
			cols = p.header.Columns()
		}
		if err := checkColumns(p.header, cols); err != nil {
			return err
		}
		extractor := newKeyExtractor(p.header, cols)
		p.push("remove_duplicates", func(r *run, in rowStream) rowStream {
			return func(yield func(*Row) bool) {
				seen := newKeyIndex[struct{}]()
				for row := range in {
					if _, isNew := seen.add(extractor.extract(row), struct{}{}); isNew && !yield(row) {
						return
					}
				}
			}
		})
		return nil
	}}
}
