package dsv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-sif/tabula"
)

// ParserConf configures DSV loading
type ParserConf struct {
	HeaderLines int    // The number of lines to ignore from the beginning of the data. Defaults to 0.
	Delimiter   rune   // The delimiter separating columns in the data. Defaults to ,
	Comment     rune   // Lines beginning with the comment character are ignored. Cannot be equal to the Delimiter. Defaults to no comment character.
	NilValue    string // A special string which represents nil values in the dataset. Defaults to "" (the empty string).
}

func (conf *ParserConf) withDefaults() *ParserConf {
	c := ParserConf{}
	if conf != nil {
		c = *conf
	}
	if c.Delimiter == 0 {
		c.Delimiter = ','
	}
	return &c
}

// Load reads every record of r into a Table with the given columns. Each record must have exactly
// one field per column. Empty fields, and fields equal to the NilValue, become Null.
func Load(columns []string, r io.Reader, conf *ParserConf) (*tabula.Table, error) {
	conf = conf.withDefaults()
	reader := csv.NewReader(r)
	reader.Comma = conf.Delimiter
	reader.Comment = conf.Comment
	reader.FieldsPerRecord = len(columns)
	reader.ReuseRecord = true

	// ignore header lines, if configured to do so
	for i := 0; i < conf.HeaderLines; i++ {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return tabula.From(columns)
			}
			return nil, err
		}
	}
	var rows []tabula.RowLike
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("Unable to parse DSV record: %w", err)
		}
		rows = append(rows, scanRecord(conf, record))
	}
	return tabula.From(columns, rows...)
}

// scanRecord produces positional values from a record. record may be reused by the reader.
func scanRecord(conf *ParserConf, record []string) tabula.Values {
	values := make(tabula.Values, len(record))
	for i, field := range record {
		if len(field) == 0 || field == conf.NilValue {
			values[i] = tabula.Null()
			continue
		}
		values[i] = tabula.StringValue(field)
	}
	return values
}
