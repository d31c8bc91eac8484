package dsv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/columntype"
)

func TestLoad(t *testing.T) {
	data := "id|name|score\n# skipped\n1|Sean|7.05\n2|Chris|null\n3||9\n"
	table, err := Load([]string{"id", "name", "score"}, strings.NewReader(data), &ParserConf{
		HeaderLines: 1,
		Delimiter:   '|',
		Comment:     '#',
		NilValue:    "null",
	})
	require.Nil(t, err)
	require.Equal(t, []string{"id", "name", "score"}, table.Columns())
	require.Equal(t, 3, table.Count())

	name, err := table.Row(0).GetString("name")
	require.Nil(t, err)
	require.Equal(t, "Sean", name)
	require.True(t, table.Row(1).IsNil("score"))
	require.True(t, table.Row(2).IsNil("name"))

	converted, err := tabula.Transform(table, tabula.Fail,
		tabula.ConvertColumns(
			tabula.Conversion{Column: "id", Type: &columntype.IntColumnType{}},
			tabula.Conversion{Column: "score", Type: &columntype.FloatColumnType{}},
		),
	)
	require.Nil(t, err)
	score, err := converted.Row(0).GetFloat("score")
	require.Nil(t, err)
	require.Equal(t, 7.05, score)
	id, err := converted.Row(2).GetInt("id")
	require.Nil(t, err)
	require.EqualValues(t, 3, id)
}

func TestLoadDefaults(t *testing.T) {
	table, err := Load([]string{"a", "b"}, strings.NewReader("x,y\n\"q,r\",\n"), nil)
	require.Nil(t, err)
	require.Equal(t, 2, table.Count())
	v, err := table.Row(1).GetString("a")
	require.Nil(t, err)
	require.Equal(t, "q,r", v)
	require.True(t, table.Row(1).IsNil("b"))
}

func TestLoadWrongFieldCount(t *testing.T) {
	_, err := Load([]string{"a", "b"}, strings.NewReader("1,2\n3\n"), nil)
	require.NotNil(t, err)
}

func TestLoadOnlyHeader(t *testing.T) {
	table, err := Load([]string{"a"}, strings.NewReader("a\n"), &ParserConf{HeaderLines: 2})
	require.Nil(t, err)
	require.Equal(t, 0, table.Count())
}
