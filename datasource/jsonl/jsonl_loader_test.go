package jsonl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/tabula"
)

const people = `{"name": "Sean", "meta": { "index": 1, "first": "Sean", "last": "McIntyre"}, "score": 7.5}
{"name": "Chris", "meta": { "index": 3, "first": "Chris", "last": "Dickson"}, "tags": ["a", "b"]}

{"name": "Phil", "meta": null}
{"name": "Fahd", "meta": { "index": 4, "first": "Fahd", "last": "Husain"}, "active": true}`

func TestLoad(t *testing.T) {
	table, err := Load([]string{"name", "meta.index", "meta.last", "score", "tags", "active"}, strings.NewReader(people), nil)
	require.Nil(t, err)
	require.Equal(t, 4, table.Count())

	idx, err := table.Row(0).GetInt("meta.index")
	require.Nil(t, err)
	require.EqualValues(t, 1, idx)
	score, err := table.Row(0).GetFloat("score")
	require.Nil(t, err)
	require.Equal(t, 7.5, score)
	require.True(t, table.Row(0).IsNil("tags"))

	tags, err := table.Row(1).Get("tags")
	require.Nil(t, err)
	require.True(t, tabula.SeqValue(tabula.StringValue("a"), tabula.StringValue("b")).Equal(tags))

	require.True(t, table.Row(2).IsNil("meta.index"))
	active, err := table.Row(3).GetBool("active")
	require.Nil(t, err)
	require.True(t, active)
}

func TestLoadObjectsExpand(t *testing.T) {
	table, err := Load([]string{"name", "meta"}, strings.NewReader(people), nil)
	require.Nil(t, err)
	meta, err := table.Row(0).GetRow("meta")
	require.Nil(t, err)
	require.Equal(t, []string{"index", "first", "last"}, meta.Columns())

	expanded, err := tabula.Transform(table, tabula.Fail, tabula.ExpandColumn("meta", "first", "last"))
	require.Nil(t, err)
	require.Equal(t, []string{"name", "first", "last"}, expanded.Columns())
	last, err := expanded.Row(1).GetString("last")
	require.Nil(t, err)
	require.Equal(t, "Dickson", last)
	require.True(t, expanded.Row(2).IsNil("first"))
}

func TestLoadHeaderAndComments(t *testing.T) {
	data := "ignored header\n# comment\n{\"a\": 1}\n"
	table, err := Load([]string{"a"}, strings.NewReader(data), &ParserConf{HeaderLines: 1, Comment: '#'})
	require.Nil(t, err)
	require.Equal(t, 1, table.Count())
}

func TestLoadInvalidLine(t *testing.T) {
	_, err := Load([]string{"a"}, strings.NewReader("{\"a\": 1}\n{\"a\": \n"), nil)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "line 2")
}
