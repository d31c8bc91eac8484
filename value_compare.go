package tabula

import (
	"encoding/binary"
	"math"
	"strings"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

// Equal returns true iff both Values hold the same variant with structurally equal content.
// Values of different Kinds are never equal, so IntValue(1) does not equal FloatValue(1).
// NaN equals NaN, so that NaN keys group and join together.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case BoolKind, IntKind:
		return v.i == o.i
	case FloatKind:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case DecimalKind:
		return v.x.(decimal.Decimal).Equal(o.x.(decimal.Decimal))
	case StringKind:
		return v.s == o.s
	case TimeKind:
		return v.x.(time.Time).Equal(o.x.(time.Time))
	case TableKind:
		return v.x.(*Table).Equal(o.x.(*Table))
	case SequenceKind:
		return valuesEqual(v.x.([]Value), o.x.([]Value))
	case RowKind:
		return v.x.(*Row).Equal(o.x.(*Row))
	}
	return false
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash of this Value which is consistent with Equal
func (v Value) Hash() uint64 {
	hasher := xxhash.New()
	v.hashInto(hasher)
	return hasher.Sum64()
}

func (v Value) hashInto(hasher *xxhash.Digest) {
	var buf [9]byte
	buf[0] = byte(v.kind)
	switch v.kind {
	case NullKind:
		hasher.Write(buf[:1])
	case BoolKind, IntKind:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.i))
		hasher.Write(buf[:])
	case FloatKind:
		f := v.f
		if f == 0 {
			f = 0 // -0 and 0 are equal
		} else if math.IsNaN(f) {
			f = math.NaN()
		}
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
		hasher.Write(buf[:])
	case DecimalKind:
		// String trims trailing zeros, so equal decimals render identically
		hashString(hasher, buf[:1], v.x.(decimal.Decimal).String())
	case StringKind:
		hashString(hasher, buf[:1], v.s)
	case TimeKind:
		binary.LittleEndian.PutUint64(buf[1:], uint64(v.x.(time.Time).UnixNano()))
		hasher.Write(buf[:])
	case TableKind:
		t := v.x.(*Table)
		hasher.Write(buf[:1])
		hashStrings(hasher, t.header.names)
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(t.rows)))
		hasher.Write(buf[1:])
		for _, row := range t.rows {
			hashValues(hasher, row.values)
		}
	case SequenceKind:
		hasher.Write(buf[:1])
		hashValues(hasher, v.x.([]Value))
	case RowKind:
		r := v.x.(*Row)
		hasher.Write(buf[:1])
		hashStrings(hasher, r.header.names)
		hashValues(hasher, r.values)
	}
}

func hashString(hasher *xxhash.Digest, prefix []byte, s string) {
	var lenBuf [8]byte
	hasher.Write(prefix)
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
	hasher.Write(lenBuf[:])
	hasher.Write([]byte(s))
}

func hashStrings(hasher *xxhash.Digest, names []string) {
	for _, name := range names {
		hashString(hasher, nil, name)
	}
}

func hashValues(hasher *xxhash.Digest, values []Value) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(values)))
	hasher.Write(lenBuf[:])
	for _, elem := range values {
		elem.hashInto(hasher)
	}
}

func kindRank(k Kind) int {
	switch k {
	case NullKind:
		return 0
	case BoolKind:
		return 1
	case IntKind, FloatKind, DecimalKind:
		return 2
	case StringKind:
		return 3
	case TimeKind:
		return 4
	case TableKind:
		return 5
	case SequenceKind:
		return 6
	default:
		return 7
	}
}

// Compare orders two Values, returning -1, 0 or +1. Null sorts first. Int, Float and Decimal
// Values are compared numerically with each other; other Kinds of differing variant are ordered
// by Kind. NaN sorts before every other number. Tables are ordered by row count only.
// Int and Float Values are compared as float64, so Ints beyond 2^53 may tie with nearby Floats.
func Compare(a, b Value) int {
	ra, rb := kindRank(a.kind), kindRank(b.kind)
	if ra != rb {
		return compareInts(int64(ra), int64(rb))
	}
	switch a.kind {
	case NullKind:
		return 0
	case BoolKind:
		return compareInts(a.i, b.i)
	case IntKind, FloatKind, DecimalKind:
		return compareNumbers(a, b)
	case StringKind:
		return strings.Compare(a.s, b.s)
	case TimeKind:
		return a.x.(time.Time).Compare(b.x.(time.Time))
	case TableKind:
		return compareInts(int64(a.x.(*Table).Count()), int64(b.x.(*Table).Count()))
	case SequenceKind:
		return compareValues(a.x.([]Value), b.x.([]Value))
	default:
		return compareValues(a.x.(*Row).values, b.x.(*Row).values)
	}
}

func compareInts(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isFinite(v Value) bool {
	return v.kind != FloatKind || !(math.IsNaN(v.f) || math.IsInf(v.f, 0))
}

func compareNumbers(a, b Value) int {
	if a.kind == IntKind && b.kind == IntKind {
		return compareInts(a.i, b.i)
	}
	if (a.kind == DecimalKind || b.kind == DecimalKind) && isFinite(a) && isFinite(b) {
		da, _ := a.Decimal()
		db, _ := b.Decimal()
		return da.Cmp(db)
	}
	fa, _ := a.Float()
	fb, _ := b.Float()
	return compareFloats(fa, fb)
}

func compareValues(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInts(int64(len(a)), int64(len(b)))
}
