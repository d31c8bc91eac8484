package tabula

import (
	"fmt"

	errors "github.com/go-sif/tabula/errors"
)

type joinResultMode int

const (
	joinAsRow joinResultMode = iota
	joinAllColumns
	joinNonKeyColumns
	joinSelectedColumns
)

// JoinResult describes how one side of a join contributes to each result row
type JoinResult struct {
	mode    joinResultMode
	column  string
	columns []string
}

// AsRow nests the matched row as a single Row value under column
func AsRow(column string) JoinResult {
	return JoinResult{mode: joinAsRow, column: column}
}

// AllColumns splices every column of the matched row into the result
func AllColumns() JoinResult {
	return JoinResult{mode: joinAllColumns}
}

// NonKeyColumns splices every column of the matched row except its key columns into the result
func NonKeyColumns() JoinResult {
	return JoinResult{mode: joinNonKeyColumns}
}

// SelectedColumns splices the named columns of the matched row into the result
func SelectedColumns(columns ...string) JoinResult {
	return JoinResult{mode: joinSelectedColumns, columns: columns}
}

// JoinConf configures a join between the pipeline (left) and another Table (right).
// LeftKeys and RightKeys are matched positionally.
type JoinConf struct {
	LeftKeys  []string
	RightKeys []string
	Left      JoinResult
	Right     JoinResult
}

type joinKind int

const (
	innerJoin joinKind = iota
	leftOuterJoin
	fullOuterJoin
)

func (k joinKind) String() string {
	switch k {
	case leftOuterJoin:
		return "LeftOuterJoin"
	case fullOuterJoin:
		return "FullOuterJoin"
	default:
		return "InnerJoin"
	}
}

// InnerJoin pairs every left row with every right row sharing its key
func InnerJoin(right *Table, conf JoinConf) Operation {
	return Operation{name: "inner_join", do: func(p *pipeline) error {
		return p.join(innerJoin, right, conf)
	}}
}

// LeftOuterJoin is like InnerJoin, but a left row without matches is kept once, paired with Null
func LeftOuterJoin(right *Table, conf JoinConf) Operation {
	return Operation{name: "left_outer_join", do: func(p *pipeline) error {
		return p.join(leftOuterJoin, right, conf)
	}}
}

// FullOuterJoin is like LeftOuterJoin, but right rows without matches are also kept,
// paired with Null, after every left row
func FullOuterJoin(right *Table, conf JoinConf) Operation {
	return Operation{name: "full_outer_join", do: func(p *pipeline) error {
		return p.join(fullOuterJoin, right, conf)
	}}
}

const (
	leftPlaceholder  = "\x00left"
	rightPlaceholder = "\x00right"
)

// resolve validates one side's result configuration, returning the column holding the nested
// row and, for flattened results, the columns spliced into the result
func (jr JoinResult) resolve(side string, header *Header, keys []string, placeholder string) (string, []string, error) {
	switch jr.mode {
	case joinAsRow:
		if jr.column == "" {
			return "", nil, errors.MissingResultColumnError{Operation: side + " join row result"}
		}
		return jr.column, nil, nil
	case joinAllColumns:
		return placeholder, header.Columns(), nil
	case joinNonKeyColumns:
		isKey := make(map[string]bool, len(keys))
		for _, k := range keys {
			isKey[k] = true
		}
		var cols []string
		for _, name := range header.names {
			if !isKey[name] {
				cols = append(cols, name)
			}
		}
		if len(cols) == 0 {
			return "", nil, errors.EmptyListError{What: side + " non-key column"}
		}
		return placeholder, cols, nil
	default:
		if len(jr.columns) == 0 {
			return "", nil, errors.EmptyListError{What: side + " selected column"}
		}
		if err := checkColumns(header, jr.columns); err != nil {
			return "", nil, err
		}
		return placeholder, append([]string(nil), jr.columns...), nil
	}
}

func (p *pipeline) join(kind joinKind, right *Table, conf JoinConf) error {
	if right == nil {
		return fmt.Errorf("%s requires a right table", kind)
	}
	if len(conf.LeftKeys) == 0 {
		return errors.EmptyListError{What: "left key column"}
	}
	if len(conf.LeftKeys) != len(conf.RightKeys) {
		return errors.ColumnMismatchError{Expected: conf.LeftKeys, Actual: conf.RightKeys}
	}
	if err := checkColumns(p.header, conf.LeftKeys); err != nil {
		return err
	}
	if err := checkColumns(right.header, conf.RightKeys); err != nil {
		return err
	}
	leftCol, leftFlat, err := conf.Left.resolve("left", p.header, conf.LeftKeys, leftPlaceholder)
	if err != nil {
		return err
	}
	rightCol, rightFlat, err := conf.Right.resolve("right", right.header, conf.RightKeys, rightPlaceholder)
	if err != nil {
		return err
	}
	// the final layout is the left contribution followed by the right one
	var final []string
	if leftFlat != nil {
		final = append(final, leftFlat...)
	} else {
		final = append(final, leftCol)
	}
	if rightFlat != nil {
		final = append(final, rightFlat...)
	} else {
		final = append(final, rightCol)
	}
	if err := checkUnique(final); err != nil {
		return err
	}
	header, err := NewHeader([]string{leftCol, rightCol})
	if err != nil {
		return err
	}

	leftKeys := newKeyExtractor(p.header, conf.LeftKeys)
	rightKeys := newKeyExtractor(right.header, conf.RightKeys)
	rightRows := right.rows
	pair := func(l, r *Row) *Row {
		values := make([]Value, 2)
		if l != nil {
			values[0] = RowValue(l.Clone())
		}
		if r != nil {
			values[1] = RowValue(r.Clone())
		}
		return &Row{header: header, values: values}
	}
	p.push(kind.String(), func(r *run, in rowStream) rowStream {
		return func(yield func(*Row) bool) {
			index := newKeyIndex[*Row]()
			slots := make([]int, len(rightRows))
			for i, row := range rightRows {
				slots[i], _ = index.add(rightKeys.extract(row), row)
			}
			matched := make([]bool, index.len())
			for left := range in {
				if !r.live() {
					return
				}
				slot := index.find(leftKeys.extract(left))
				if slot < 0 {
					if kind != innerJoin && !yield(pair(left, nil)) {
						return
					}
					continue
				}
				matched[slot] = true
				for _, match := range index.entries[slot] {
					if !yield(pair(left, match)) {
						return
					}
				}
			}
			if kind != fullOuterJoin || !r.live() {
				return
			}
			for i, row := range rightRows {
				if !matched[slots[i]] && !yield(pair(nil, row)) {
					return
				}
			}
		}
	})
	p.header = header
	p.rows = owned

	if leftFlat != nil {
		if err := p.expand(leftCol, leftFlat); err != nil {
			return err
		}
	}
	if rightFlat != nil {
		if err := p.expand(rightCol, rightFlat); err != nil {
			return err
		}
	}
	if !equalNames(p.header.names, final) {
		p.rebuild("join_layout", final, p.positionsOf(final))
	}
	return nil
}
