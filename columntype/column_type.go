package columntype

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-sif/tabula"
	errors "github.com/go-sif/tabula/errors"
)

func unsupported(target string, v tabula.Value) error {
	return errors.TypeMismatchError{Expected: target, Actual: v.Kind().String()}
}

// BoolColumnType converts values to booleans. Strings are parsed with strconv.ParseBool and
// integers are true iff non-zero.
type BoolColumnType struct{}

// Name returns the name of this type
func (b *BoolColumnType) Name() string {
	return "bool"
}

// Convert produces a Bool Value
func (b *BoolColumnType) Convert(v tabula.Value) (tabula.Value, error) {
	switch v.Kind() {
	case tabula.NullKind, tabula.BoolKind:
		return v, nil
	case tabula.IntKind:
		i, _ := v.Int()
		return tabula.BoolValue(i != 0), nil
	case tabula.StringKind:
		s, _ := v.Str()
		bval, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return tabula.Null(), err
		}
		return tabula.BoolValue(bval), nil
	default:
		return tabula.Null(), unsupported(b.Name(), v)
	}
}

// IntColumnType converts values to 64-bit integers. Floats and decimals must be integral.
type IntColumnType struct{}

// Name returns the name of this type
func (i *IntColumnType) Name() string {
	return "int"
}

// Convert produces an Int Value
func (i *IntColumnType) Convert(v tabula.Value) (tabula.Value, error) {
	switch v.Kind() {
	case tabula.NullKind, tabula.IntKind:
		return v, nil
	case tabula.BoolKind:
		bval, _ := v.Bool()
		if bval {
			return tabula.IntValue(1), nil
		}
		return tabula.IntValue(0), nil
	case tabula.FloatKind:
		f, _ := v.Float()
		if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return tabula.Null(), fmt.Errorf("%v is not an integer", f)
		}
		return tabula.IntValue(int64(f)), nil
	case tabula.DecimalKind:
		d, _ := v.Decimal()
		if !d.Equal(d.Truncate(0)) || !d.BigInt().IsInt64() {
			return tabula.Null(), fmt.Errorf("%s is not an integer", d)
		}
		return tabula.IntValue(d.IntPart()), nil
	case tabula.StringKind:
		s, _ := v.Str()
		ival, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return tabula.Null(), err
		}
		return tabula.IntValue(ival), nil
	default:
		return tabula.Null(), unsupported(i.Name(), v)
	}
}

// FloatColumnType converts values to 64-bit floating point numbers
type FloatColumnType struct{}

// Name returns the name of this type
func (f *FloatColumnType) Name() string {
	return "float"
}

// Convert produces a Float Value
func (f *FloatColumnType) Convert(v tabula.Value) (tabula.Value, error) {
	switch v.Kind() {
	case tabula.NullKind, tabula.FloatKind:
		return v, nil
	case tabula.IntKind, tabula.DecimalKind:
		fval, _ := v.Float()
		return tabula.FloatValue(fval), nil
	case tabula.StringKind:
		s, _ := v.Str()
		fval, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return tabula.Null(), err
		}
		return tabula.FloatValue(fval), nil
	default:
		return tabula.Null(), unsupported(f.Name(), v)
	}
}

// DecimalColumnType converts values to arbitrary-precision decimals
type DecimalColumnType struct{}

// Name returns the name of this type
func (d *DecimalColumnType) Name() string {
	return "decimal"
}

// Convert produces a Decimal Value
func (d *DecimalColumnType) Convert(v tabula.Value) (tabula.Value, error) {
	switch v.Kind() {
	case tabula.NullKind, tabula.DecimalKind:
		return v, nil
	case tabula.IntKind:
		dval, _ := v.Decimal()
		return tabula.DecimalValue(dval), nil
	case tabula.FloatKind:
		fval, _ := v.Float()
		if math.IsNaN(fval) || math.IsInf(fval, 0) {
			return tabula.Null(), fmt.Errorf("%v has no decimal representation", fval)
		}
		return tabula.DecimalValue(decimal.NewFromFloat(fval)), nil
	case tabula.StringKind:
		s, _ := v.Str()
		dval, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return tabula.Null(), err
		}
		return tabula.DecimalValue(dval), nil
	default:
		return tabula.Null(), unsupported(d.Name(), v)
	}
}

// StringColumnType renders scalar values as text
type StringColumnType struct {
	TimeFormat string // Layout used to render timestamps. Defaults to time.RFC3339Nano.
}

// Name returns the name of this type
func (s *StringColumnType) Name() string {
	return "string"
}

// Convert produces a String Value
func (s *StringColumnType) Convert(v tabula.Value) (tabula.Value, error) {
	switch v.Kind() {
	case tabula.NullKind, tabula.StringKind:
		return v, nil
	case tabula.BoolKind:
		bval, _ := v.Bool()
		return tabula.StringValue(strconv.FormatBool(bval)), nil
	case tabula.IntKind:
		ival, _ := v.Int()
		return tabula.StringValue(strconv.FormatInt(ival, 10)), nil
	case tabula.FloatKind:
		fval, _ := v.Float()
		return tabula.StringValue(strconv.FormatFloat(fval, 'f', -1, 64)), nil
	case tabula.DecimalKind:
		dval, _ := v.Decimal()
		return tabula.StringValue(dval.String()), nil
	case tabula.TimeKind:
		format := s.TimeFormat
		if format == "" {
			format = time.RFC3339Nano
		}
		tval, _ := v.Time()
		return tabula.StringValue(tval.Format(format)), nil
	default:
		return tabula.Null(), unsupported(s.Name(), v)
	}
}

// TimeColumnType converts values to timestamps. Strings are parsed using Format, and
// integers are read as Unix seconds.
type TimeColumnType struct {
	Format string // Layout used to parse strings. Defaults to time.RFC3339.
}

// Name returns the name of this type
func (t *TimeColumnType) Name() string {
	return "time"
}

// Convert produces a Time Value
func (t *TimeColumnType) Convert(v tabula.Value) (tabula.Value, error) {
	switch v.Kind() {
	case tabula.NullKind, tabula.TimeKind:
		return v, nil
	case tabula.IntKind:
		ival, _ := v.Int()
		return tabula.TimeValue(time.Unix(ival, 0).UTC()), nil
	case tabula.StringKind:
		format := t.Format
		if format == "" {
			format = time.RFC3339
		}
		s, _ := v.Str()
		tval, err := time.Parse(format, strings.TrimSpace(s))
		if err != nil {
			return tabula.Null(), fmt.Errorf("could not be parsed as datetime with format %s. Was: %#v", format, s)
		}
		return tabula.TimeValue(tval), nil
	default:
		return tabula.Null(), unsupported(t.Name(), v)
	}
}
