package tabula

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	errors "github.com/go-sif/tabula/errors"
)

func TestGroupRows(t *testing.T) {
	source := numbered(20, 2)
	res, err := Transform(source, Fail, GroupRows([]string{"B"}, "members"))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []string{"B", "members"}, res.Columns())
	require.Equal(t, 2, res.Count())
	total := 0
	for i, row := range res.Rows() {
		members, err := row.GetTable("members")
		require.Nil(t, err)
		requireConforms(t, members)
		require.Equal(t, source.Columns(), members.Columns())
		total += members.Count()
		b, err := row.GetString("B")
		require.Nil(t, err)
		require.Equal(t, fmt.Sprintf("g%d", i), b)
	}
	require.Equal(t, 20, total)
}

func TestGroupColumnsAndValues(t *testing.T) {
	res, err := Transform(people(), Fail, GroupColumns([]string{"team"}, "people", "name"))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, 3, res.Count())
	reds, err := res.Row(0).GetTable("people")
	require.Nil(t, err)
	require.Equal(t, []string{"name"}, reds.Columns())
	require.Equal(t, 2, reds.Count())
	require.True(t, res.Row(2).IsNil("team"))

	res, err = Transform(people(), Fail, GroupValues([]string{"team"}, "ids", "id"))
	require.Nil(t, err)
	ids, err := res.Row(0).Get("ids")
	require.Nil(t, err)
	require.True(t, SeqValue(IntValue(1), IntValue(3)).Equal(ids))

	res, err = Transform(people(), Fail, GroupMap([]string{"team"}, "initials", func(row *Row) (Value, error) {
		name, err := row.GetString("name")
		return StringValue(name[:1]), err
	}))
	require.Nil(t, err)
	initials, err := res.Row(0).Get("initials")
	require.Nil(t, err)
	require.True(t, SeqValue(StringValue("S"), StringValue("P")).Equal(initials))
}

func sum(elements []Value) (Value, error) {
	var total int64
	for _, e := range elements {
		if e.IsNull() {
			continue
		}
		i, err := e.Int()
		if err != nil {
			return Null(), err
		}
		total += i
	}
	return IntValue(total), nil
}

func TestGroupBy(t *testing.T) {
	res, err := Transform(numbered(10, 3), Fail, GroupBy([]string{"B"}, "total", func(row *Row) (Value, error) {
		return row.Get("A")
	}, sum))
	require.Nil(t, err)
	requireConforms(t, res)
	require.Equal(t, []int64{0 + 3 + 6 + 9, 1 + 4 + 7, 2 + 5 + 8}, columnInts(t, res, "total"))
}

func TestGroupByMultipleKeys(t *testing.T) {
	source := MustFrom([]string{"a", "b", "n"},
		Values{IntValue(1), StringValue("x"), IntValue(1)},
		Values{IntValue(1), StringValue("y"), IntValue(2)},
		Values{IntValue(1), StringValue("x"), IntValue(3)},
		Values{IntValue(2), StringValue("x"), IntValue(4)},
	)
	res, err := Transform(source, Fail, GroupValues([]string{"a", "b"}, "ns", "n"))
	require.Nil(t, err)
	require.Equal(t, 3, res.Count())
	require.Equal(t, []string{"a", "b", "ns"}, res.Columns())
}

func TestGroupByFailures(t *testing.T) {
	selector := func(row *Row) (Value, error) {
		a, _ := row.GetInt("A")
		if a == 3 {
			return Null(), fmt.Errorf("three")
		}
		return IntValue(a), nil
	}
	res, err := Transform(numbered(6, 2), Continue, GroupBy([]string{"B"}, "total", selector, sum))
	require.Nil(t, err)
	require.Equal(t, []int64{0 + 2 + 4, 1 + 5}, columnInts(t, res, "total"))
	require.Len(t, res.Errors(), 1)
	require.Equal(t, 3, res.Errors()[0].Index)

	failing := func([]Value) (Value, error) { return Null(), fmt.Errorf("no result") }
	res, err = Transform(numbered(6, 2), Discard, GroupBy([]string{"B"}, "total", selector, failing))
	require.Nil(t, err)
	require.Equal(t, 0, res.Count())
	require.Len(t, res.Errors(), 3)
	require.Equal(t, "GroupBy result", res.Errors()[2].Op)
}

func TestGroupByValidation(t *testing.T) {
	_, err := Transform(people(), Fail, GroupRows([]string{"team"}, "team"))
	require.Equal(t, errors.DuplicateColumnError{Name: "team"}, err)
	_, err = Transform(people(), Fail, GroupRows(nil, "x"))
	require.Equal(t, errors.EmptyListError{What: "key column"}, err)
	_, err = Transform(people(), Fail, GroupRows([]string{"team"}, ""))
	require.Equal(t, errors.MissingResultColumnError{Operation: "GroupBy"}, err)
	_, err = Transform(people(), Fail, GroupValues([]string{"team"}, "x", "nope"))
	require.Equal(t, errors.UnknownColumnError{Name: "nope"}, err)
	_, err = Transform(people(), Fail, GroupBy([]string{"team"}, "x", nil, sum))
	require.NotNil(t, err)
}

func TestGroupByAfterUpstreamFailure(t *testing.T) {
	resultCalls := 0
	failing := func([]Value) (Value, error) {
		resultCalls++
		return Null(), fmt.Errorf("no result")
	}
	_, err := Transform(numbered(6, 2), Fail,
		Filter(func(row *Row) (bool, error) {
			a, _ := row.GetInt("A")
			if a == 3 {
				return false, fmt.Errorf("three")
			}
			return true, nil
		}),
		GroupBy([]string{"B"}, "total", func(row *Row) (Value, error) { return row.Get("A") }, failing),
	)
	require.NotNil(t, err)
	require.Equal(t, 0, resultCalls)
	rowErrors := RowErrors(err)
	require.Len(t, rowErrors, 1)
	require.Equal(t, "Filter", rowErrors[0].Op)
	require.Equal(t, 3, rowErrors[0].Index)
}

func TestGroupByCancelled(t *testing.T) {
	resultCalls := 0
	b, err := NewBuilder(numbered(6, 2)).To(GroupBy([]string{"B"}, "total", func(row *Row) (Value, error) {
		return row.Get("A")
	}, func(elements []Value) (Value, error) {
		resultCalls++
		return sum(elements)
	}))
	require.Nil(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.BuildContext(ctx, Continue)
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 0, resultCalls)
}
