package tabula

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/go-sif/tabula/errors"
)

// Kind identifies which variant a Value holds
type Kind uint8

const (
	// NullKind is the Kind of the absent value
	NullKind Kind = iota
	// BoolKind is the Kind of boolean values
	BoolKind
	// IntKind is the Kind of 64-bit signed integer values
	IntKind
	// FloatKind is the Kind of 64-bit floating-point values
	FloatKind
	// DecimalKind is the Kind of arbitrary-precision decimal values
	DecimalKind
	// StringKind is the Kind of string values
	StringKind
	// TimeKind is the Kind of timestamp values
	TimeKind
	// TableKind is the Kind of nested Table values, as produced by grouping
	TableKind
	// SequenceKind is the Kind of ordered Value sequences
	SequenceKind
	// RowKind is the Kind of nested Row values, as produced by joins
	RowKind
)

var kindNames = [...]string{"null", "bool", "int", "float", "decimal", "string", "time", "table", "sequence", "row"}

// String returns the name of this Kind
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the content of a single cell. The zero Value is Null.
// Values are immutable; nested Tables, Rows and sequences must not be modified once wrapped.
type Value struct {
	kind Kind
	i    int64   // bool and int
	f    float64 // float
	s    string  // string
	x    interface{}
}

// Null returns the Null Value
func Null() Value {
	return Value{}
}

// BoolValue wraps a bool
func BoolValue(b bool) Value {
	v := Value{kind: BoolKind}
	if b {
		v.i = 1
	}
	return v
}

// IntValue wraps an int64
func IntValue(i int64) Value {
	return Value{kind: IntKind, i: i}
}

// FloatValue wraps a float64
func FloatValue(f float64) Value {
	return Value{kind: FloatKind, f: f}
}

// DecimalValue wraps a decimal
func DecimalValue(d decimal.Decimal) Value {
	return Value{kind: DecimalKind, x: d}
}

// StringValue wraps a string
func StringValue(s string) Value {
	return Value{kind: StringKind, s: s}
}

// TimeValue wraps a timestamp
func TimeValue(t time.Time) Value {
	return Value{kind: TimeKind, x: t}
}

// TableValue wraps a nested Table. A nil Table is Null.
func TableValue(t *Table) Value {
	if t == nil {
		return Null()
	}
	return Value{kind: TableKind, x: t}
}

// SeqValue wraps an ordered sequence of Values. The slice is retained, not copied.
func SeqValue(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{kind: SequenceKind, x: values}
}

// RowValue wraps a nested Row. A nil Row is Null.
func RowValue(r *Row) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: RowKind, x: r}
}

// ValueOf converts a native Go value into a Value. Supported inputs are nil, bool, all sized
// and unsized ints and uints that fit an int64, float32/64, string, []byte, time.Time,
// decimal.Decimal, *Table, *Row, Value, []Value and []interface{}.
func ValueOf(native interface{}) (Value, error) {
	switch n := native.(type) {
	case nil:
		return Null(), nil
	case Value:
		return n, nil
	case bool:
		return BoolValue(n), nil
	case int:
		return IntValue(int64(n)), nil
	case int8:
		return IntValue(int64(n)), nil
	case int16:
		return IntValue(int64(n)), nil
	case int32:
		return IntValue(int64(n)), nil
	case int64:
		return IntValue(n), nil
	case uint8:
		return IntValue(int64(n)), nil
	case uint16:
		return IntValue(int64(n)), nil
	case uint32:
		return IntValue(int64(n)), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return Null(), fmt.Errorf("Value %d overflows int64", n)
		}
		return IntValue(int64(n)), nil
	case uint64:
		if n > math.MaxInt64 {
			return Null(), fmt.Errorf("Value %d overflows int64", n)
		}
		return IntValue(int64(n)), nil
	case float32:
		return FloatValue(float64(n)), nil
	case float64:
		return FloatValue(n), nil
	case string:
		return StringValue(n), nil
	case []byte:
		return StringValue(string(n)), nil
	case time.Time:
		return TimeValue(n), nil
	case decimal.Decimal:
		return DecimalValue(n), nil
	case *Table:
		return TableValue(n), nil
	case *Row:
		return RowValue(n), nil
	case []Value:
		return SeqValue(n...), nil
	case []interface{}:
		values := make([]Value, len(n))
		for i, elem := range n {
			v, err := ValueOf(elem)
			if err != nil {
				return Null(), err
			}
			values[i] = v
		}
		return SeqValue(values...), nil
	default:
		return Null(), fmt.Errorf("Cannot convert %T to a Value", native)
	}
}

// MustValueOf is like ValueOf, but panics if native cannot be converted
func MustValueOf(native interface{}) Value {
	v, err := ValueOf(native)
	if err != nil {
		panic(err)
	}
	return v
}

// Kind returns the variant held by this Value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true iff this Value is Null
func (v Value) IsNull() bool {
	return v.kind == NullKind
}

func (v Value) mismatch(expected Kind) error {
	return errors.TypeMismatchError{Expected: expected.String(), Actual: v.kind.String()}
}

// Bool returns the bool held by this Value
func (v Value) Bool() (bool, error) {
	if v.kind != BoolKind {
		return false, v.mismatch(BoolKind)
	}
	return v.i != 0, nil
}

// Int returns the int64 held by this Value
func (v Value) Int() (int64, error) {
	if v.kind != IntKind {
		return 0, v.mismatch(IntKind)
	}
	return v.i, nil
}

// Float returns the float64 held by this Value. Int and Decimal Values are widened.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case FloatKind:
		return v.f, nil
	case IntKind:
		return float64(v.i), nil
	case DecimalKind:
		f, _ := v.x.(decimal.Decimal).Float64()
		return f, nil
	default:
		return 0, v.mismatch(FloatKind)
	}
}

// Decimal returns the decimal held by this Value. Int and Float Values are widened.
func (v Value) Decimal() (decimal.Decimal, error) {
	switch v.kind {
	case DecimalKind:
		return v.x.(decimal.Decimal), nil
	case IntKind:
		return decimal.NewFromInt(v.i), nil
	case FloatKind:
		return decimal.NewFromFloat(v.f), nil
	default:
		return decimal.Zero, v.mismatch(DecimalKind)
	}
}

// Str returns the string held by this Value
func (v Value) Str() (string, error) {
	if v.kind != StringKind {
		return "", v.mismatch(StringKind)
	}
	return v.s, nil
}

// Time returns the timestamp held by this Value
func (v Value) Time() (time.Time, error) {
	if v.kind != TimeKind {
		return time.Time{}, v.mismatch(TimeKind)
	}
	return v.x.(time.Time), nil
}

// Table returns the nested Table held by this Value
func (v Value) Table() (*Table, error) {
	if v.kind != TableKind {
		return nil, v.mismatch(TableKind)
	}
	return v.x.(*Table), nil
}

// Seq returns the sequence held by this Value. The returned slice must not be modified.
func (v Value) Seq() ([]Value, error) {
	if v.kind != SequenceKind {
		return nil, v.mismatch(SequenceKind)
	}
	return v.x.([]Value), nil
}

// Row returns the nested Row held by this Value
func (v Value) Row() (*Row, error) {
	if v.kind != RowKind {
		return nil, v.mismatch(RowKind)
	}
	return v.x.(*Row), nil
}

// Interface returns this Value as a native Go value, suitable for encoding.
// Tables become []map[string]interface{}, Rows map[string]interface{} and sequences []interface{}.
func (v Value) Interface() interface{} {
	switch v.kind {
	case BoolKind:
		return v.i != 0
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	case StringKind:
		return v.s
	case DecimalKind, TimeKind:
		return v.x
	case TableKind:
		t := v.x.(*Table)
		records := make([]map[string]interface{}, 0, t.Count())
		for _, row := range t.rows {
			records = append(records, row.nativeMap())
		}
		return records
	case SequenceKind:
		seq := v.x.([]Value)
		natives := make([]interface{}, len(seq))
		for i, elem := range seq {
			natives[i] = elem.Interface()
		}
		return natives
	case RowKind:
		return v.x.(*Row).nativeMap()
	default:
		return nil
	}
}

// String returns a string representation of this Value
func (v Value) String() string {
	switch v.kind {
	case NullKind:
		return "nil"
	case BoolKind:
		return strconv.FormatBool(v.i != 0)
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case DecimalKind:
		return v.x.(decimal.Decimal).String()
	case StringKind:
		return strconv.Quote(v.s)
	case TimeKind:
		return v.x.(time.Time).Format(time.RFC3339Nano)
	case TableKind:
		t := v.x.(*Table)
		return fmt.Sprintf("table[%d rows]", t.Count())
	case SequenceKind:
		var res strings.Builder
		fmt.Fprint(&res, "[")
		for i, elem := range v.x.([]Value) {
			if i > 0 {
				fmt.Fprint(&res, ", ")
			}
			fmt.Fprint(&res, elem.String())
		}
		fmt.Fprint(&res, "]")
		return res.String()
	case RowKind:
		return v.x.(*Row).String()
	default:
		return v.kind.String()
	}
}
