package tabula

import (
	"fmt"

	errors "github.com/go-sif/tabula/errors"
)

// AddColumn appends a column whose value is generated from each row.
// Rows whose generator fails receive Null under Continue.
func AddColumn(colName string, gen ValueGenerator) Operation {
	return Operation{name: "add_column", do: func(p *pipeline) error {
		if colName == "" {
			return errors.MissingResultColumnError{Operation: "AddColumn"}
		}
		if p.header.Has(colName) {
			return errors.DuplicateColumnError{Name: colName}
		}
		header := mustHeader(append(p.header.Columns(), colName))
		p.own()
		p.push("add_column", func(r *run, in rowStream) rowStream {
			return r.guarded("AddColumn", in, func(row *Row) (*Row, error) {
				v, err := gen(row)
				if err != nil {
					return nil, err
				}
				row.extend(header, v)
				return row, nil
			}, func(row *Row) *Row {
				row.extend(header, Null())
				return row
			})
		})
		p.header = header
		return nil
	}}
}

// TransformColumn replaces the value of an existing column with one computed from each row.
// Rows whose function fails receive Null under Continue.
func TransformColumn(colName string, fn ValueGenerator) Operation {
	return Operation{name: "transform_column", do: func(p *pipeline) error {
		idx := p.header.IndexOf(colName)
		if idx < 0 {
			return errors.UnknownColumnError{Name: colName}
		}
		p.own()
		p.push("transform_column", func(r *run, in rowStream) rowStream {
			return r.guarded("TransformColumn", in, func(row *Row) (*Row, error) {
				v, err := fn(row)
				if err != nil {
					return nil, err
				}
				row.set(idx, v)
				return row, nil
			}, func(row *Row) *Row {
				row.set(idx, Null())
				return row
			})
		})
		return nil
	}}
}

// Conversion pairs a column with the type its values should be converted to
type Conversion struct {
	Column string
	Type   ColumnType
}

// ConvertColumn converts every value of a column to another type
func ConvertColumn(colName string, colType ColumnType) Operation {
	return ConvertColumns(Conversion{Column: colName, Type: colType})
}

// ConvertColumns converts the values of several columns, in the order given.
// A value which cannot be converted is a row failure; under Continue it becomes Null.
func ConvertColumns(conversions ...Conversion) Operation {
	return Operation{name: "convert_columns", do: func(p *pipeline) error {
		if len(conversions) == 0 {
			return errors.EmptyListError{What: "conversion"}
		}
		names := make([]string, len(conversions))
		for i, c := range conversions {
			if c.Type == nil {
				return fmt.Errorf("Conversion of column %s has no target type", c.Column)
			}
			names[i] = c.Column
		}
		if err := checkColumns(p.header, names); err != nil {
			return err
		}
		if err := checkUnique(names); err != nil {
			return err
		}
		p.own()
		for _, c := range conversions {
			idx := p.header.IndexOf(c.Column)
			colType := c.Type
			colName := c.Column
			p.push("convert_column", func(r *run, in rowStream) rowStream {
				return r.guarded("ConvertColumns", in, func(row *Row) (*Row, error) {
					v, err := colType.Convert(row.values[idx])
					if err != nil {
						return nil, fmt.Errorf("Column %s could not be converted to %s: %w", colName, colType.Name(), err)
					}
					row.set(idx, v)
					return row, nil
				}, func(row *Row) *Row {
					row.set(idx, Null())
					return row
				})
			})
		}
		return nil
	}}
}

// rebuild pushes a stage producing fresh rows under names, taking values from positions
func (p *pipeline) rebuild(name string, names []string, positions []int) {
	header := mustHeader(names)
	p.push(name, func(r *run, in rowStream) rowStream {
		return func(yield func(*Row) bool) {
			for row := range in {
				values := make([]Value, len(positions))
				for i, pos := range positions {
					values[i] = row.values[pos]
				}
				if !yield(&Row{header: header, values: values}) {
					return
				}
			}
		}
	})
	p.header = header
	p.rows = owned
}

func (p *pipeline) positionsOf(names []string) []int {
	positions := make([]int, len(names))
	for i, name := range names {
		positions[i] = p.header.IndexOf(name)
	}
	return positions
}

// SelectColumns keeps exactly the named columns, in the order given
func SelectColumns(colNames ...string) Operation {
	return Operation{name: "select_columns", do: func(p *pipeline) error {
		if len(colNames) == 0 {
			return errors.EmptyListError{What: "column"}
		}
		if err := checkColumns(p.header, colNames); err != nil {
			return err
		}
		if err := checkUnique(colNames); err != nil {
			return err
		}
		p.rebuild("select_columns", colNames, p.positionsOf(colNames))
		return nil
	}}
}

// RemoveColumns drops the named columns, preserving the order of the rest
func RemoveColumns(colNames ...string) Operation {
	return Operation{name: "remove_columns", do: func(p *pipeline) error {
		if len(colNames) == 0 {
			return errors.EmptyListError{What: "column"}
		}
		if err := checkColumns(p.header, colNames); err != nil {
			return err
		}
		removed := make(map[string]bool, len(colNames))
		for _, name := range colNames {
			removed[name] = true
		}
		var kept []string
		for _, name := range p.header.names {
			if !removed[name] {
				kept = append(kept, name)
			}
		}
		p.rebuild("remove_columns", kept, p.positionsOf(kept))
		return nil
	}}
}

// ReorderColumns threads the given order through the positions currently held by those
// columns. Columns which are not named keep their positions.
func ReorderColumns(order ...string) Operation {
	return Operation{name: "reorder_columns", do: func(p *pipeline) error {
		if len(order) == 0 {
			return errors.EmptyListError{What: "column"}
		}
		if err := checkColumns(p.header, order); err != nil {
			return err
		}
		if err := checkUnique(order); err != nil {
			return err
		}
		names := reorderColumns(p.header.names, order)
		p.rebuild("reorder_columns", names, p.positionsOf(names))
		return nil
	}}
}

// reorderColumns walks current, replacing every column which appears in desired with the
// next name dequeued from desired
func reorderColumns(current []string, desired []string) []string {
	wanted := make(map[string]bool, len(desired))
	for _, name := range desired {
		wanted[name] = true
	}
	queue := desired
	res := make([]string, 0, len(current))
	for _, name := range current {
		if wanted[name] && len(queue) > 0 {
			res = append(res, queue[0])
			queue = queue[1:]
		} else {
			res = append(res, name)
		}
	}
	return res
}

// RenameColumns renames columns according to a mapping from old to new names.
// Column order and values are preserved.
func RenameColumns(renames map[string]string) Operation {
	return Operation{name: "rename_columns", do: func(p *pipeline) error {
		if len(renames) == 0 {
			return errors.EmptyListError{What: "column rename"}
		}
		for oldName, newName := range renames {
			if !p.header.Has(oldName) {
				return errors.UnknownColumnError{Name: oldName}
			}
			if newName == "" {
				return errors.MissingResultColumnError{Operation: "RenameColumns"}
			}
		}
		names := p.header.Columns()
		positions := make([]int, len(names))
		for i, name := range names {
			positions[i] = i
			if newName, ok := renames[name]; ok {
				names[i] = newName
			}
		}
		if err := checkUnique(names); err != nil {
			return err
		}
		p.rebuild("rename_columns", names, positions)
		return nil
	}}
}

// RenameColumn renames a single column
func RenameColumn(oldName string, newName string) Operation {
	op := RenameColumns(map[string]string{oldName: newName})
	op.name = "rename_column"
	return op
}

// ExpandColumn replaces a column holding nested Rows (or single-row Tables) with the named
// columns of those nested values, appended at the end. Null expands to Nulls, and nested
// values missing a column yield Null for it.
func ExpandColumn(colName string, nestedCols ...string) Operation {
	return Operation{name: "expand_column", do: func(p *pipeline) error {
		return p.expand(colName, nestedCols)
	}}
}

func (p *pipeline) expand(colName string, nestedCols []string) error {
	idx := p.header.IndexOf(colName)
	if idx < 0 {
		return errors.UnknownColumnError{Name: colName}
	}
	if len(nestedCols) == 0 {
		return errors.EmptyListError{What: "nested column"}
	}
	names := make([]string, 0, p.header.Len()-1+len(nestedCols))
	for i, name := range p.header.names {
		if i != idx {
			names = append(names, name)
		}
	}
	names = append(names, nestedCols...)
	header, err := NewHeader(names)
	if err != nil {
		return err
	}
	nested := append([]string(nil), nestedCols...)
	width := header.Len()
	// values before idx, then values after idx, then the nested values
	reshape := func(row *Row, inner Lookup) {
		values := make([]Value, 0, width)
		values = append(values, row.values[:idx]...)
		values = append(values, row.values[idx+1:]...)
		for _, name := range nested {
			v := Null()
			if inner != nil {
				v, _ = inner.Lookup(name)
			}
			values = append(values, v)
		}
		row.reshape(header, values)
	}
	p.own()
	p.push("expand_column", func(r *run, in rowStream) rowStream {
		return r.guarded("ExpandColumn", in, func(row *Row) (*Row, error) {
			inner, err := nestedLookup(row.values[idx])
			if err != nil {
				return nil, fmt.Errorf("Column %s cannot be expanded: %w", colName, err)
			}
			reshape(row, inner)
			return row, nil
		}, func(row *Row) *Row {
			reshape(row, nil)
			return row
		})
	})
	p.header = header
	return nil
}

// nestedLookup resolves the nested value of an expandable column. A nil Lookup stands for Nulls.
func nestedLookup(v Value) (Lookup, error) {
	switch v.Kind() {
	case NullKind:
		return nil, nil
	case RowKind:
		return v.x.(*Row), nil
	case TableKind:
		t := v.x.(*Table)
		switch t.Count() {
		case 0:
			return nil, nil
		case 1:
			return t.rows[0], nil
		default:
			return nil, fmt.Errorf("nested table has %d rows", t.Count())
		}
	default:
		return nil, errors.TypeMismatchError{Expected: RowKind.String(), Actual: v.Kind().String()}
	}
}
