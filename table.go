package tabula

import (
	"fmt"
	"iter"
	"log"
	"strings"

	uuid "github.com/gofrs/uuid"

	errors "github.com/go-sif/tabula/errors"
)

// Lookup is a name-keyed source of values, such as a decoded JSON object
type Lookup interface {
	Lookup(colName string) (Value, bool)
}

// RowLike is one item of a row source for From. It is either positional (Values)
// or name-keyed (Record, or any Lookup wrapped with Named).
type RowLike interface {
	project(header *Header) (*Row, error)
}

// Values is a positional RowLike, which must hold exactly one Value per column
type Values []Value

func (vs Values) project(header *Header) (*Row, error) {
	return NewRow(header, vs...)
}

// Record is a name-keyed RowLike. Missing columns become Null; extra keys are ignored.
type Record map[string]Value

// Lookup implements Lookup
func (r Record) Lookup(colName string) (Value, bool) {
	v, ok := r[colName]
	return v, ok
}

func (r Record) project(header *Header) (*Row, error) {
	return projectLookup(header, r), nil
}

type named struct{ Lookup }

func (n named) project(header *Header) (*Row, error) {
	return projectLookup(header, n.Lookup), nil
}

// Named adapts any Lookup into a RowLike. Missing columns become Null.
func Named(l Lookup) RowLike {
	return named{l}
}

func projectLookup(header *Header, l Lookup) *Row {
	row := nullRow(header)
	for i, name := range header.names {
		if v, ok := l.Lookup(name); ok {
			row.values[i] = v
		}
	}
	return row
}

// Table is an immutable collection of Rows sharing an ordered list of unique columns,
// along with any per-row errors recorded while it was built
type Table struct {
	id     string
	header *Header
	rows   []*Row
	errors []*RowError
}

// newTable assembles a Table from rows which already conform to header
func newTable(header *Header, rows []*Row, rowErrors []*RowError) *Table {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for Table: %v", err)
	}
	if rows == nil {
		rows = []*Row{}
	}
	return &Table{id: id.String(), header: header, rows: rows, errors: rowErrors}
}

// From builds a Table by projecting each item of rows onto columns
func From(columns []string, rows ...RowLike) (*Table, error) {
	return FromSeq(columns, func(yield func(RowLike) bool) {
		for _, r := range rows {
			if !yield(r) {
				return
			}
		}
	})
}

// FromSeq builds a Table by projecting each item of a (possibly single-use) sequence onto columns.
// The sequence is consumed exactly once and buffered.
func FromSeq(columns []string, rows iter.Seq[RowLike]) (*Table, error) {
	header, err := NewHeader(columns)
	if err != nil {
		return nil, err
	}
	var built []*Row
	var buildErr error
	i := 0
	rows(func(item RowLike) bool {
		if item == nil {
			built = append(built, nullRow(header))
		} else {
			row, err := item.project(header)
			if err != nil {
				buildErr = fmt.Errorf("row %d: %w", i, err)
				return false
			}
			built = append(built, row)
		}
		i++
		return true
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return newTable(header, built, nil), nil
}

// MustFrom is like From, but panics on error. Useful for literals in tests and examples.
func MustFrom(columns []string, rows ...RowLike) *Table {
	t, err := From(columns, rows...)
	if err != nil {
		panic(err)
	}
	return t
}

// ID returns the unique id assigned to this Table at construction
func (t *Table) ID() string {
	return t.id
}

// Header returns the Header shared by this Table's Rows
func (t *Table) Header() *Header {
	return t.header
}

// Columns returns a copy of this Table's column names, in order
func (t *Table) Columns() []string {
	return t.header.Columns()
}

// HasColumn returns true iff this Table has the given column
func (t *Table) HasColumn(colName string) bool {
	return t.header.Has(colName)
}

// Count returns the number of rows in this Table
func (t *Table) Count() int {
	return len(t.rows)
}

// Row returns the row at position idx. Rows must not be modified.
func (t *Table) Row(idx int) *Row {
	return t.rows[idx]
}

// Rows iterates over this Table's rows in order
func (t *Table) Rows() iter.Seq2[int, *Row] {
	return func(yield func(int, *Row) bool) {
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// Errors returns the per-row errors recorded while building this Table
func (t *Table) Errors() []*RowError {
	return append([]*RowError(nil), t.errors...)
}

// Column returns every value of one column, in row order
func (t *Table) Column(colName string) ([]Value, error) {
	idx := t.header.IndexOf(colName)
	if idx < 0 {
		return nil, errors.UnknownColumnError{Name: colName}
	}
	values := make([]Value, len(t.rows))
	for i, row := range t.rows {
		values[i] = row.values[idx]
	}
	return values, nil
}

// PositionalRows is a read-only, order-preserving view of each row as a list of values,
// for row-oriented export
func (t *Table) PositionalRows() iter.Seq[[]Value] {
	return func(yield func([]Value) bool) {
		for _, row := range t.rows {
			if !yield(row.Values()) {
				return
			}
		}
	}
}

// Records is a read-only, order-preserving view of each row as a name-value mapping,
// for structured export
func (t *Table) Records() iter.Seq[map[string]interface{}] {
	return func(yield func(map[string]interface{}) bool) {
		for _, row := range t.rows {
			if !yield(row.nativeMap()) {
				return
			}
		}
	}
}

// Slice returns a new Table holding rows [from, to). It panics if the bounds are out of range,
// or if from > to.
func (t *Table) Slice(from, to int) *Table {
	rows := make([]*Row, 0, to-from)
	for _, row := range t.rows[from:to] {
		rows = append(rows, row.Clone())
	}
	return newTable(t.header, rows, nil)
}

// Equal returns true iff both Tables have the same columns and pairwise-equal rows.
// Recorded errors and ids are not compared.
func (t *Table) Equal(o *Table) bool {
	if t == o {
		return true
	}
	if !t.header.Equal(o.header) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		if !valuesEqual(t.rows[i].values, o.rows[i].values) {
			return false
		}
	}
	return true
}

// String returns a string representation of this Table
func (t *Table) String() string {
	var res strings.Builder
	fmt.Fprintf(&res, "[%s]\n", strings.Join(t.header.names, ", "))
	for _, row := range t.rows {
		fmt.Fprintln(&res, row.String())
	}
	return res.String()
}
