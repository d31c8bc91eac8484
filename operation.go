package tabula

// ValueGenerator computes a Value from a Row. Used to add, transform and sort by columns,
// and to select group elements.
type ValueGenerator func(row *Row) (Value, error)

// FilterOperation determines whether or not a Row should be retained
type FilterOperation func(row *Row) (bool, error)

// ResultSelector reduces the elements selected from one group into a single Value
type ResultSelector func(elements []Value) (Value, error)

// ColumnType is a conversion target for ConvertColumns. The columntype package provides
// implementations for each scalar Kind.
type ColumnType interface {
	Name() string                       // Name returns a readable name for this type
	Convert(value Value) (Value, error) // Convert produces a Value of this type. Null converts to Null.
}
