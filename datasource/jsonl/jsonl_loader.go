package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/go-sif/tabula"
)

// ParserConf configures JSONL loading
type ParserConf struct {
	HeaderLines   int  // The number of lines to ignore from the beginning of the data. Defaults to 0.
	Comment       rune // Lines beginning with the comment character are ignored. Defaults to no comment character.
	MaxBufferSize int  // Maximum size in bytes of the buffer used to read lines. Defaults to bufio.MaxScanTokenSize.
}

func (conf *ParserConf) withDefaults() *ParserConf {
	c := ParserConf{}
	if conf != nil {
		c = *conf
	}
	if c.MaxBufferSize == 0 {
		c.MaxBufferSize = bufio.MaxScanTokenSize
	}
	return &c
}

// Load reads one JSON document per line of r into a Table with the given columns. Each column
// name is a gjson path into the document, and paths which do not exist yield Null. Blank lines
// are skipped.
func Load(columns []string, r io.Reader, conf *ParserConf) (*tabula.Table, error) {
	conf = conf.withDefaults()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), conf.MaxBufferSize)
	// ignore header lines, if configured to do so
	for i := 0; i < conf.HeaderLines; i++ {
		if !scanner.Scan() {
			break
		}
	}
	var rows []tabula.RowLike
	line := conf.HeaderLines
	for scanner.Scan() {
		line++
		rowString := scanner.Text()
		trimmed := strings.TrimSpace(rowString)
		if len(trimmed) == 0 || (conf.Comment != 0 && strings.HasPrefix(trimmed, string(conf.Comment))) {
			continue
		}
		if !gjson.Valid(trimmed) {
			return nil, fmt.Errorf("Unable to parse line %d:\n\t%s", line, rowString)
		}
		row, err := ParseJSONRow(columns, gjson.Parse(trimmed))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tabula.From(columns, rows...)
}

// ParseJSONRow extracts the value of each column path from a parsed JSON document
func ParseJSONRow(columns []string, doc gjson.Result) (tabula.Record, error) {
	record := make(tabula.Record, len(columns))
	for _, colName := range columns {
		res := doc.Get(colName)
		if !res.Exists() {
			continue
		}
		v, err := toValue(res)
		if err != nil {
			return nil, fmt.Errorf("Column %s could not be parsed: %w", colName, err)
		}
		record[colName] = v
	}
	return record, nil
}

// toValue converts a gjson result. Integral numbers become Int, other numbers Float, arrays
// sequences and objects nested Rows, keyed in document order.
func toValue(res gjson.Result) (tabula.Value, error) {
	switch res.Type {
	case gjson.Null:
		return tabula.Null(), nil
	case gjson.True:
		return tabula.BoolValue(true), nil
	case gjson.False:
		return tabula.BoolValue(false), nil
	case gjson.String:
		return tabula.StringValue(res.Str), nil
	case gjson.Number:
		if !strings.ContainsAny(res.Raw, ".eE") {
			if ival, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
				return tabula.IntValue(ival), nil
			}
		}
		return tabula.FloatValue(res.Num), nil
	}
	if res.IsArray() {
		elems := res.Array()
		values := make([]tabula.Value, len(elems))
		for i, elem := range elems {
			v, err := toValue(elem)
			if err != nil {
				return tabula.Null(), err
			}
			values[i] = v
		}
		return tabula.SeqValue(values...), nil
	}
	var names []string
	var values []tabula.Value
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		var v tabula.Value
		v, err = toValue(value)
		if err != nil {
			return false
		}
		names = append(names, key.Str)
		values = append(values, v)
		return true
	})
	if err != nil {
		return tabula.Null(), err
	}
	header, err := tabula.NewHeader(names)
	if err != nil {
		return tabula.Null(), err
	}
	row, err := tabula.NewRow(header, values...)
	if err != nil {
		return tabula.Null(), err
	}
	return tabula.RowValue(row), nil
}
