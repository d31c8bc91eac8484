package errors

import (
	"fmt"
	"strings"
)

// UnknownColumnError occurs when an operation names a column which does not exist
type UnknownColumnError struct{ Name string }

// Error returns a textual representation of this UnknownColumnError
func (e UnknownColumnError) Error() string {
	return fmt.Sprintf("Column %s does not exist", e.Name)
}

// DuplicateColumnError occurs when a column list would contain the same name twice
type DuplicateColumnError struct{ Name string }

// Error returns a textual representation of this DuplicateColumnError
func (e DuplicateColumnError) Error() string {
	return fmt.Sprintf("Column %s appears more than once", e.Name)
}

// EmptyListError occurs when an operation requires a non-empty list of names or criteria
type EmptyListError struct{ What string }

// Error returns a textual representation of this EmptyListError
func (e EmptyListError) Error() string {
	return fmt.Sprintf("At least one %s is required", e.What)
}

// InvalidChunkSizeError occurs when a table is chunked with a non-positive size
type InvalidChunkSizeError struct{ Size int }

// Error returns a textual representation of this InvalidChunkSizeError
func (e InvalidChunkSizeError) Error() string {
	return fmt.Sprintf("Chunk size must be positive. Was: %d", e.Size)
}

// MissingResultColumnError occurs when a result column name is required but empty
type MissingResultColumnError struct{ Operation string }

// Error returns a textual representation of this MissingResultColumnError
func (e MissingResultColumnError) Error() string {
	return fmt.Sprintf("%s requires a result column name", e.Operation)
}

// RowLengthError occurs when a positional row does not have one value per column
type RowLengthError struct {
	Expected int
	Actual   int
}

// Error returns a textual representation of this RowLengthError
func (e RowLengthError) Error() string {
	return fmt.Sprintf("Row has %d values, expected %d", e.Actual, e.Expected)
}

// ColumnMismatchError occurs when two tables which must share columns do not
type ColumnMismatchError struct {
	Expected []string
	Actual   []string
}

// Error returns a textual representation of this ColumnMismatchError
func (e ColumnMismatchError) Error() string {
	return fmt.Sprintf("Columns [%s] do not match expected columns [%s]", strings.Join(e.Actual, ", "), strings.Join(e.Expected, ", "))
}

// TypeMismatchError occurs when a value is read as a kind it does not hold
type TypeMismatchError struct {
	Expected string
	Actual   string
}

// Error returns a textual representation of this TypeMismatchError
func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("Value is a %s, not a %s", e.Actual, e.Expected)
}

// BuilderConsumedError occurs when a Builder is used after it has been finalized
type BuilderConsumedError struct{}

// Error returns a textual representation of this BuilderConsumedError
func (e BuilderConsumedError) Error() string {
	return "Builder has already been finalized"
}
