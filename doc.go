// Package tabula contains the core components of Tabula, an in-memory engine for tabular data.
// A Table holds an ordered list of unique columns and an ordered list of Rows of dynamically-typed
// Values. Tables are transformed by chaining Operations onto a Builder, which evaluates them lazily
// and produces a new, independent Table. Failures of caller-supplied functions on individual rows
// are handled according to the ErrorMode chosen when the Builder is finalized.
package tabula
