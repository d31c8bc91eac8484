package tabula

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	errors "github.com/go-sif/tabula/errors"
	iutil "github.com/go-sif/tabula/internal/util"
	"github.com/go-sif/tabula/logging"
)

func timesTen(row *Row) (Value, error) {
	a, err := row.GetInt("A")
	if err != nil {
		return Null(), err
	}
	return IntValue(a * 10), nil
}

func TestAddColumn(t *testing.T) {
	source := MustFrom([]string{"A", "B"},
		Values{IntValue(1), StringValue("x")},
		Values{IntValue(2), StringValue("y")},
	)
	res, err := Transform(source, Fail, AddColumn("C", timesTen))
	require.Nil(t, err)
	requireConforms(t, res)
	expected := MustFrom([]string{"A", "B", "C"},
		Values{IntValue(1), StringValue("x"), IntValue(10)},
		Values{IntValue(2), StringValue("y"), IntValue(20)},
	)
	require.True(t, expected.Equal(res), res.String())
	// the source is untouched
	require.Equal(t, []string{"A", "B"}, source.Columns())
	require.Equal(t, 2, source.Row(0).Len())
}

func TestAddColumnValidation(t *testing.T) {
	b := NewBuilder(people())
	_, err := b.To(AddColumn("name", timesTen))
	require.Equal(t, errors.DuplicateColumnError{Name: "name"}, err)
	_, err = b.To(AddColumn("", timesTen))
	require.Equal(t, errors.MissingResultColumnError{Operation: "AddColumn"}, err)
}

func TestToRestoresOnValidationError(t *testing.T) {
	b := NewBuilder(people())
	_, err := b.To(AddColumn("score", func(*Row) (Value, error) { return IntValue(1), nil }), SelectColumns("nope"))
	require.Equal(t, errors.UnknownColumnError{Name: "nope"}, err)
	require.Equal(t, []string{"id", "name", "team"}, b.Columns())

	_, err = b.To(SelectColumns("name"))
	require.Nil(t, err)
	res, err := b.Build(Fail)
	require.Nil(t, err)
	require.Equal(t, []string{"name"}, res.Columns())
	requireConforms(t, res)
}

func TestBuilderSingleUse(t *testing.T) {
	b := NewBuilder(people())
	_, err := b.Build(Fail)
	require.Nil(t, err)
	_, err = b.Build(Fail)
	require.Equal(t, errors.BuilderConsumedError{}, err)
	_, err = b.To(Filter(func(*Row) (bool, error) { return true, nil }))
	require.Equal(t, errors.BuilderConsumedError{}, err)
	_, err = b.Chunk(2, Fail)
	require.Equal(t, errors.BuilderConsumedError{}, err)
}

func TestFilter(t *testing.T) {
	source := numbered(10, 3)
	res, err := Transform(source, Fail, Filter(func(*Row) (bool, error) { return true, nil }))
	require.Nil(t, err)
	require.True(t, source.Equal(res))
	require.NotSame(t, source.Row(0), res.Row(0))

	res, err = Transform(source, Fail, Filter(func(row *Row) (bool, error) {
		a, err := row.GetInt("A")
		return a%2 == 1, err
	}))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []int64{1, 3, 5, 7, 9}, columnInts(t, res, "A"))
}

func TestTransformColumn(t *testing.T) {
	source := numbered(3, 1)
	res, err := Transform(source, Fail, TransformColumn("A", timesTen))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []int64{0, 10, 20}, columnInts(t, res, "A"))
	require.Equal(t, []int64{0, 1, 2}, columnInts(t, source, "A"))

	_, err = Transform(source, Fail, TransformColumn("Z", timesTen))
	require.Equal(t, errors.UnknownColumnError{Name: "Z"}, err)
}

func TestChainedInPlaceOperationsDoNotTouchSource(t *testing.T) {
	source := numbered(4, 2)
	before := source.String()
	res, err := Transform(source, Fail,
		AddColumn("C", timesTen),
		TransformColumn("A", timesTen),
		TransformColumn("C", timesTen),
		RenameColumn("B", "group"),
		AddColumn("D", func(*Row) (Value, error) { return BoolValue(true), nil }),
	)
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []string{"A", "group", "C", "D"}, res.Columns())
	require.Equal(t, []int64{0, 100, 200, 300}, columnInts(t, res, "C"))
	require.Equal(t, before, source.String())
}

func TestSelectAndRemoveColumns(t *testing.T) {
	res, err := Transform(people(), Fail, SelectColumns("team", "id"))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []string{"team", "id"}, res.Columns())

	res, err = Transform(people(), Fail, RemoveColumns("name"))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []string{"id", "team"}, res.Columns())

	_, err = Transform(people(), Fail, SelectColumns("id", "id"))
	require.Equal(t, errors.DuplicateColumnError{Name: "id"}, err)
	_, err = Transform(people(), Fail, SelectColumns())
	require.Equal(t, errors.EmptyListError{What: "column"}, err)
}

func TestReorderColumns(t *testing.T) {
	require.Equal(t, []string{"C", "B", "A", "D"}, reorderColumns([]string{"A", "B", "C", "D"}, []string{"C", "A"}))
	require.Equal(t, []string{"B", "A", "C"}, reorderColumns([]string{"A", "B", "C"}, []string{"B", "A"}))

	source := people()
	res, err := Transform(source, Fail, ReorderColumns(source.Columns()...))
	require.Nil(t, err)
	require.True(t, source.Equal(res))

	res, err = Transform(source, Fail, ReorderColumns("team", "id"))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []string{"team", "name", "id"}, res.Columns())
	team, err := res.Row(0).GetString("team")
	require.Nil(t, err)
	require.Equal(t, "red", team)
}

func TestRenameColumns(t *testing.T) {
	res, err := Transform(people(), Fail, RenameColumns(map[string]string{"id": "key", "team": "squad"}))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []string{"key", "name", "squad"}, res.Columns())

	_, err = Transform(people(), Fail, RenameColumns(map[string]string{"id": "name"}))
	require.Equal(t, errors.DuplicateColumnError{Name: "name"}, err)
	_, err = Transform(people(), Fail, RenameColumn("nope", "x"))
	require.Equal(t, errors.UnknownColumnError{Name: "nope"}, err)
}

func TestExpandColumn(t *testing.T) {
	inner := MustFrom([]string{"x", "y"}, Values{IntValue(1), IntValue(2)})
	empty := MustFrom([]string{"x", "y"})
	source := MustFrom([]string{"id", "nested", "tail"},
		Values{IntValue(1), RowValue(inner.Row(0)), StringValue("a")},
		Values{IntValue(2), TableValue(inner), StringValue("b")},
		Values{IntValue(3), Null(), StringValue("c")},
		Values{IntValue(4), TableValue(empty), StringValue("d")},
	)
	res, err := Transform(source, Fail, ExpandColumn("nested", "y", "z"))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []string{"id", "tail", "y", "z"}, res.Columns())
	y, err := res.Row(1).GetInt("y")
	require.Nil(t, err)
	require.EqualValues(t, 2, y)
	require.True(t, res.Row(0).IsNil("z"))
	require.True(t, res.Row(2).IsNil("y"))
	require.True(t, res.Row(3).IsNil("y"))

	_, err = Transform(source, Fail, ExpandColumn("nested", "id"))
	require.Equal(t, errors.DuplicateColumnError{Name: "id"}, err)
}

func TestExpandColumnRowFailure(t *testing.T) {
	inner := MustFrom([]string{"x"}, Values{IntValue(1)}, Values{IntValue(2)})
	source := MustFrom([]string{"id", "nested"},
		Values{IntValue(1), TableValue(inner)},
		Values{IntValue(2), StringValue("not nested")},
		Values{IntValue(3), Null()},
	)
	_, err := Transform(source, Fail, ExpandColumn("nested", "x"))
	require.NotNil(t, err)

	res, err := Transform(source, Continue, ExpandColumn("nested", "x"))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, 3, res.Count())
	require.Len(t, res.Errors(), 2)
	require.Equal(t, 0, res.Errors()[0].Index)
	require.Equal(t, 1, res.Errors()[1].Index)

	res, err = Transform(source, Discard, ExpandColumn("nested", "x"))
	require.Nil(t, err)
	require.Equal(t, []int64{3}, columnInts(t, res, "id"))
}

func TestConcatenateAndChunk(t *testing.T) {
	source := numbered(10, 3)
	for size := 1; size <= 11; size++ {
		chunks, err := NewBuilder(source).Chunk(size, Fail)
		require.Nil(t, err)
		require.Len(t, chunks, (10+size-1)/size)
		for _, chunk := range chunks[:len(chunks)-1] {
			require.Equal(t, size, chunk.Count())
			requireConforms(t, chunk)
		}
		res, err := Transform(chunks[0], Fail, Concatenate(chunks[1:]...))
		require.Nil(t, err)
		require.True(t, source.Equal(res), "size %d", size)
	}
	_, err := NewBuilder(source).Chunk(0, Fail)
	require.Equal(t, errors.InvalidChunkSizeError{Size: 0}, err)
}

func TestChunkEmpty(t *testing.T) {
	chunks, err := NewBuilder(MustFrom([]string{"a"})).Chunk(3, Fail)
	require.Nil(t, err)
	require.Empty(t, chunks)
}

func TestConcatenateValidation(t *testing.T) {
	_, err := Transform(people(), Fail, Concatenate(numbered(2, 1)))
	require.Equal(t, errors.ColumnMismatchError{Expected: []string{"id", "name", "team"}, Actual: []string{"A", "B"}}, err)
}

func TestConcatenatedRowsAreIndependent(t *testing.T) {
	first := numbered(2, 1)
	second := numbered(2, 1)
	res, err := Transform(first, Fail, Concatenate(second), TransformColumn("A", timesTen))
	require.Nil(t, err)
	require.Equal(t, []int64{0, 10, 0, 10}, columnInts(t, res, "A"))
	require.Equal(t, []int64{0, 1}, columnInts(t, second, "A"))
}

func TestRemoveDuplicates(t *testing.T) {
	source := MustFrom([]string{"a", "b"},
		Values{IntValue(1), StringValue("x")},
		Values{IntValue(1), StringValue("y")},
		Values{IntValue(1), StringValue("x")},
		Values{Null(), StringValue("x")},
		Values{Null(), StringValue("x")},
	)
	res, err := Transform(source, Fail, RemoveDuplicates())
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, 3, res.Count())
	for i := 0; i < res.Count(); i++ {
		for j := i + 1; j < res.Count(); j++ {
			require.False(t, res.Row(i).Equal(res.Row(j)))
		}
	}
	require.True(t, source.Row(1).Equal(res.Row(1)))

	res, err = Transform(source, Fail, RemoveDuplicates("b"))
	require.Nil(t, err)
	require.Equal(t, 2, res.Count())
	_, err = Transform(source, Fail, RemoveDuplicates("c"))
	require.Equal(t, errors.UnknownColumnError{Name: "c"}, err)
}

func TestBuildContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBuilder(people()).BuildContext(ctx, Continue)
	require.Equal(t, context.Canceled, err)
}

func TestBuilderLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.DebugLevel, &buf)
	b, err := NewBuilderWithOptions(people(), &BuilderOptions{Logger: logger}).To(
		AddColumn("broken", func(*Row) (Value, error) { return Null(), fmt.Errorf("boom") }),
	)
	require.Nil(t, err)
	_, err = b.Build(Continue)
	require.Nil(t, err)
	out := buf.String()
	require.Contains(t, out, "operation registered")
	require.Contains(t, out, "row failed")
	require.Contains(t, out, "materialized")
}

func TestRowErrorCarriesPanic(t *testing.T) {
	_, err := Transform(people(), Fail, AddColumn("oops", func(row *Row) (Value, error) {
		return row.At(99), nil
	}))
	require.NotNil(t, err)
	rowErrors := RowErrors(err)
	require.Len(t, rowErrors, 1)
	require.Equal(t, 0, rowErrors[0].Index)
	require.Equal(t, "AddColumn", rowErrors[0].Op)
	_, isPanic := rowErrors[0].Cause.(*iutil.PanicError)
	require.True(t, isPanic)
	require.Contains(t, err.Error(), "1 row error(s) occurred")
}
