package tabula

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/go-sif/tabula/errors"
)

// Header is an immutable, ordered list of unique column names, shared by every Row
// within a single pipeline stage
type Header struct {
	names []string
	index map[string]int
}

// NewHeader produces a Header from a list of column names, which must be unique
func NewHeader(names []string) (*Header, error) {
	h := &Header{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, ok := h.index[name]; ok {
			return nil, errors.DuplicateColumnError{Name: name}
		}
		h.names[i] = name
		h.index[name] = i
	}
	return h, nil
}

// mustHeader is for column lists which have already been validated
func mustHeader(names []string) *Header {
	h, err := NewHeader(names)
	if err != nil {
		panic(err)
	}
	return h
}

// Columns returns a copy of the column names in this Header
func (h *Header) Columns() []string {
	return append([]string(nil), h.names...)
}

// Len returns the number of columns in this Header
func (h *Header) Len() int {
	return len(h.names)
}

// IndexOf returns the position of a column, or -1 if it does not exist
func (h *Header) IndexOf(name string) int {
	if idx, ok := h.index[name]; ok {
		return idx
	}
	return -1
}

// Has returns true iff the column exists in this Header
func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Equal returns true iff both Headers list the same names in the same order
func (h *Header) Equal(o *Header) bool {
	if h == o {
		return true
	}
	return equalNames(h.names, o.names)
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Row is an ordered mapping from column name to Value. Its key sequence is
// always exactly the column list of the Table or pipeline stage that owns it.
// Rows handed to caller-supplied functions are read-only.
type Row struct {
	header *Header
	values []Value
}

// NewRow produces a Row with a value for each column of header.
// The values slice is copied.
func NewRow(header *Header, values ...Value) (*Row, error) {
	if len(values) != header.Len() {
		return nil, errors.RowLengthError{Expected: header.Len(), Actual: len(values)}
	}
	return &Row{header: header, values: append([]Value(nil), values...)}, nil
}

// nullRow produces a Row of Nulls
func nullRow(header *Header) *Row {
	return &Row{header: header, values: make([]Value, header.Len())}
}

// Header returns the Header of this Row
func (r *Row) Header() *Header {
	return r.header
}

// Columns returns a copy of the column names of this Row, in order
func (r *Row) Columns() []string {
	return r.header.Columns()
}

// Len returns the number of values in this Row
func (r *Row) Len() int {
	return len(r.values)
}

// Has returns true iff this Row has the given column
func (r *Row) Has(colName string) bool {
	return r.header.Has(colName)
}

// At returns the value at the given position. It panics if idx is out of range.
func (r *Row) At(idx int) Value {
	return r.values[idx]
}

// Values returns a copy of the values in this Row, in column order
func (r *Row) Values() []Value {
	return append([]Value(nil), r.values...)
}

// Get returns the value of any column, if it exists
func (r *Row) Get(colName string) (Value, error) {
	idx, ok := r.header.index[colName]
	if !ok {
		return Null(), errors.UnknownColumnError{Name: colName}
	}
	return r.values[idx], nil
}

// IsNil returns true iff the given column value is Null in this row. If the column does not exist, this function will return false.
func (r *Row) IsNil(colName string) bool {
	idx, ok := r.header.index[colName]
	return ok && r.values[idx].IsNull()
}

// GetBool retrieves a single bool from the column with the given name
func (r *Row) GetBool(colName string) (bool, error) {
	v, err := r.Get(colName)
	if err != nil {
		return false, err
	}
	return v.Bool()
}

// GetInt retrieves a single int64 from the column with the given name
func (r *Row) GetInt(colName string) (int64, error) {
	v, err := r.Get(colName)
	if err != nil {
		return 0, err
	}
	return v.Int()
}

// GetFloat retrieves a single float64 from the column with the given name
func (r *Row) GetFloat(colName string) (float64, error) {
	v, err := r.Get(colName)
	if err != nil {
		return 0, err
	}
	return v.Float()
}

// GetDecimal retrieves a single decimal from the column with the given name
func (r *Row) GetDecimal(colName string) (decimal.Decimal, error) {
	v, err := r.Get(colName)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Decimal()
}

// GetString retrieves a single string from the column with the given name
func (r *Row) GetString(colName string) (string, error) {
	v, err := r.Get(colName)
	if err != nil {
		return "", err
	}
	return v.Str()
}

// GetTime retrieves a single Time from the column with the given name
func (r *Row) GetTime(colName string) (time.Time, error) {
	v, err := r.Get(colName)
	if err != nil {
		return time.Time{}, err
	}
	return v.Time()
}

// GetTable retrieves a nested Table from the column with the given name
func (r *Row) GetTable(colName string) (*Table, error) {
	v, err := r.Get(colName)
	if err != nil {
		return nil, err
	}
	return v.Table()
}

// GetRow retrieves a nested Row from the column with the given name
func (r *Row) GetRow(colName string) (*Row, error) {
	v, err := r.Get(colName)
	if err != nil {
		return nil, err
	}
	return v.Row()
}

// Map returns the values of this Row keyed by column name
func (r *Row) Map() map[string]Value {
	m := make(map[string]Value, len(r.values))
	for i, name := range r.header.names {
		m[name] = r.values[i]
	}
	return m
}

func (r *Row) nativeMap() map[string]interface{} {
	m := make(map[string]interface{}, len(r.values))
	for i, name := range r.header.names {
		m[name] = r.values[i].Interface()
	}
	return m
}

// Lookup implements Lookup, so that Rows of one Table can seed another
func (r *Row) Lookup(colName string) (Value, bool) {
	idx, ok := r.header.index[colName]
	if !ok {
		return Null(), false
	}
	return r.values[idx], true
}

// Clone returns a copy of this Row which shares only its immutable Values
func (r *Row) Clone() *Row {
	return &Row{header: r.header, values: append([]Value(nil), r.values...)}
}

// Equal returns true iff both Rows have the same columns and equal values
func (r *Row) Equal(o *Row) bool {
	if r == o {
		return true
	}
	return r.header.Equal(o.header) && valuesEqual(r.values, o.values)
}

// String returns a string representation of this row
func (r *Row) String() string {
	var res strings.Builder
	fmt.Fprint(&res, "{")
	for i, name := range r.header.names {
		if i > 0 {
			fmt.Fprint(&res, ", ")
		}
		fmt.Fprintf(&res, "\"%s\": %s", name, r.values[i].String())
	}
	fmt.Fprint(&res, "}")
	return res.String()
}

// set overwrites the value at idx. Only the pipeline may call this, on rows it owns.
func (r *Row) set(idx int, v Value) {
	r.values[idx] = v
}

// extend moves this Row to a wider header, appending values. Only the pipeline may call this, on rows it owns.
func (r *Row) extend(header *Header, values ...Value) {
	r.header = header
	r.values = append(r.values, values...)
}

// reshape rebuilds this Row in place under a new header. Only the pipeline may call this, on rows it owns.
func (r *Row) reshape(header *Header, values []Value) {
	r.header = header
	r.values = values
}
