package tabula

import (
	"fmt"

	errors "github.com/go-sif/tabula/errors"
)

// GroupBy partitions rows by the key built from keyCols. For every distinct key, in order of
// first appearance, selector picks an element from each member row and result reduces those
// elements to one Value. Each output row holds the key values followed by that Value under
// resultCol.
//
// A failing selector drops the row from its group under Discard and contributes Null under
// Continue. A failing result drops the group under Discard and yields Null under Continue.
func GroupBy(keyCols []string, resultCol string, selector ValueGenerator, result ResultSelector) Operation {
	return Operation{name: "group_by", do: func(p *pipeline) error {
		if selector == nil || result == nil {
			return fmt.Errorf("GroupBy requires both an element selector and a result selector")
		}
		return p.group(keyCols, resultCol, func(*Header) (ValueGenerator, ResultSelector, bool) {
			return selector, result, true
		})
	}}
}

// GroupRows groups whole rows, producing a nested Table per key
func GroupRows(keyCols []string, resultCol string) Operation {
	return Operation{name: "group_rows", do: func(p *pipeline) error {
		return p.group(keyCols, resultCol, func(header *Header) (ValueGenerator, ResultSelector, bool) {
			return func(row *Row) (Value, error) {
				return RowValue(row.Clone()), nil
			}, nestedTable(header), false
		})
	}}
}

// GroupColumns groups a subset of columns, producing a nested Table per key
func GroupColumns(keyCols []string, resultCol string, colNames ...string) Operation {
	return Operation{name: "group_columns", do: func(p *pipeline) error {
		if len(colNames) == 0 {
			return errors.EmptyListError{What: "column"}
		}
		if err := checkColumns(p.header, colNames); err != nil {
			return err
		}
		sub, err := NewHeader(colNames)
		if err != nil {
			return err
		}
		positions := p.positionsOf(colNames)
		return p.group(keyCols, resultCol, func(*Header) (ValueGenerator, ResultSelector, bool) {
			return func(row *Row) (Value, error) {
				values := make([]Value, len(positions))
				for i, pos := range positions {
					values[i] = row.values[pos]
				}
				return RowValue(&Row{header: sub, values: values}), nil
			}, nestedTable(sub), false
		})
	}}
}

// GroupValues groups the values of one column, producing a sequence per key
func GroupValues(keyCols []string, resultCol string, colName string) Operation {
	return Operation{name: "group_values", do: func(p *pipeline) error {
		idx := p.header.IndexOf(colName)
		if idx < 0 {
			return errors.UnknownColumnError{Name: colName}
		}
		return p.group(keyCols, resultCol, func(*Header) (ValueGenerator, ResultSelector, bool) {
			return func(row *Row) (Value, error) {
				return row.values[idx], nil
			}, sequence, false
		})
	}}
}

// GroupMap groups a value computed from each row, producing a sequence per key
func GroupMap(keyCols []string, resultCol string, fn ValueGenerator) Operation {
	return Operation{name: "group_map", do: func(p *pipeline) error {
		return p.group(keyCols, resultCol, func(*Header) (ValueGenerator, ResultSelector, bool) {
			return fn, sequence, true
		})
	}}
}

func sequence(elements []Value) (Value, error) {
	return SeqValue(elements...), nil
}

// nestedTable builds a Table from Row elements which share header
func nestedTable(header *Header) ResultSelector {
	return func(elements []Value) (Value, error) {
		rows := make([]*Row, 0, len(elements))
		for _, e := range elements {
			if e.Kind() == RowKind {
				rows = append(rows, e.x.(*Row))
			}
		}
		return TableValue(newTable(header, rows, nil)), nil
	}
}

// groupShape resolves the selector and result for the current header. The bool reports
// whether the functions are caller-supplied, and so need interception.
type groupShape func(header *Header) (ValueGenerator, ResultSelector, bool)

func (p *pipeline) group(keyCols []string, resultCol string, shape groupShape) error {
	if len(keyCols) == 0 {
		return errors.EmptyListError{What: "key column"}
	}
	if resultCol == "" {
		return errors.MissingResultColumnError{Operation: "GroupBy"}
	}
	if err := checkColumns(p.header, keyCols); err != nil {
		return err
	}
	names := append(append([]string(nil), keyCols...), resultCol)
	header, err := NewHeader(names)
	if err != nil {
		return err
	}
	selector, result, userFns := shape(p.header)
	extractor := newKeyExtractor(p.header, keyCols)
	p.push("group_by", func(r *run, in rowStream) rowStream {
		return func(yield func(*Row) bool) {
			groups := newKeyIndex[Value]()
			idx := 0
			for row := range in {
				if !r.live() {
					return
				}
				var element Value
				outcome := proceed
				if userFns {
					outcome = r.intercept("GroupBy", idx, row, func() (err error) {
						element, err = selector(row)
						return
					})
				} else {
					element, _ = selector(row)
				}
				idx++
				switch outcome {
				case abort:
					return
				case drop:
					continue
				case substitute:
					element = Null()
				}
				groups.add(extractor.extract(row), element)
			}
			for slot, key := range groups.keys {
				if !r.live() {
					return
				}
				values := make([]Value, len(key)+1)
				copy(values, key)
				out := &Row{header: header, values: values}
				var v Value
				switch r.intercept("GroupBy result", slot, out, func() (err error) {
					v, err = result(groups.entries[slot])
					return
				}) {
				case abort:
					return
				case drop:
					continue
				case substitute:
					v = Null()
				}
				out.values[len(key)] = v
				if !yield(out) {
					return
				}
			}
		}
	})
	p.header = header
	p.rows = owned
	return nil
}
