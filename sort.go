package tabula

import (
	"sort"

	errors "github.com/go-sif/tabula/errors"
)

// SortCriterion is one key of a multi-key sort
type SortCriterion struct {
	column     string
	fn         ValueGenerator
	descending bool
}

// By sorts ascending by the values of a column
func By(colName string) SortCriterion {
	return SortCriterion{column: colName}
}

// ByDescending sorts descending by the values of a column
func ByDescending(colName string) SortCriterion {
	return SortCriterion{column: colName, descending: true}
}

// ByFunc sorts by a key computed from each row. A row whose key cannot be computed is a
// row failure; under Continue its key is Null.
func ByFunc(fn ValueGenerator, descending bool) SortCriterion {
	return SortCriterion{fn: fn, descending: descending}
}

// Sort orders rows stably by the given criteria. The first criterion establishes the primary
// order and each following criterion only breaks ties left by the ones before it.
// Keys are compared with Compare.
func Sort(criteria ...SortCriterion) Operation {
	return Operation{name: "sort", do: func(p *pipeline) error {
		if len(criteria) == 0 {
			return errors.EmptyListError{What: "sort criterion"}
		}
		keyFns := make([]ValueGenerator, len(criteria))
		descending := make([]bool, len(criteria))
		userKeys := false
		for i, c := range criteria {
			descending[i] = c.descending
			if c.fn != nil {
				keyFns[i] = c.fn
				userKeys = true
				continue
			}
			idx := p.header.IndexOf(c.column)
			if idx < 0 {
				return errors.UnknownColumnError{Name: c.column}
			}
			keyFns[i] = func(row *Row) (Value, error) {
				return row.values[idx], nil
			}
		}
		p.push("sort", func(r *run, in rowStream) rowStream {
			return func(yield func(*Row) bool) {
				type keyed struct {
					row  *Row
					keys []Value
				}
				var entries []keyed
				idx := 0
				for row := range in {
					if !r.live() {
						return
					}
					keys := make([]Value, len(keyFns))
					extract := func() error {
						for i, fn := range keyFns {
							k, err := fn(row)
							if err != nil {
								return err
							}
							keys[i] = k
						}
						return nil
					}
					if !userKeys {
						extract()
					} else {
						switch r.intercept("Sort", idx, row, extract) {
						case substitute:
							keys = make([]Value, len(keyFns))
						case drop:
							keys = nil
						case abort:
							return
						}
					}
					idx++
					if keys != nil {
						entries = append(entries, keyed{row: row, keys: keys})
					}
				}
				sort.SliceStable(entries, func(a, b int) bool {
					for i := range descending {
						c := Compare(entries[a].keys[i], entries[b].keys[i])
						if c == 0 {
							continue
						}
						if descending[i] {
							return c > 0
						}
						return c < 0
					}
					return false
				})
				for _, e := range entries {
					if !yield(e.row) {
						return
					}
				}
			}
		})
		return nil
	}}
}
