package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabula/internal/errs"
)

func salesTable(t *testing.T) *Table {
	t.Helper()
	tb, err := New([]string{"region", "item", "qty"}, [][]string{
		{"north", "pen", "3"},
		{"south", "pen", "5"},
		{"north", "ink", ""},
		{"north", "pen", "7"},
		{"east", "ink", "2"},
	})
	require.NoError(t, err)
	return tb
}

func TestGroupByPartitionsRows(t *testing.T) {
	tb := salesTable(t)
	g, err := tb.GroupBy("region")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	total := 0
	var keys []string
	for _, grp := range g.Groups() {
		keys = append(keys, grp.Key[0])
		total += grp.Table.RowCount()
	}
	assert.Equal(t, []string{"north", "south", "east"}, keys)
	assert.Equal(t, tb.RowCount(), total)

	north, ok := g.Group("north")
	require.True(t, ok)
	assert.Equal(t, []string{"pen", "ink", "pen"}, column(t, north, "item"))
	_, ok = g.Group("west")
	assert.False(t, ok)
	_, ok = g.Group("north", "pen")
	assert.False(t, ok)
}

func TestGroupByAgg(t *testing.T) {
	g, err := salesTable(t).GroupBy("region")
	require.NoError(t, err)

	out, err := g.Agg(
		AggSpec{Col: "qty", Func: AggSum},
		AggSpec{Col: "qty", Func: AggMean, Alias: "avg"},
		AggSpec{Col: "qty", Func: AggCount},
		AggSpec{Func: AggCount},
		AggSpec{Col: "qty", Func: AggStd},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "qty_sum", "avg", "qty_count", "count", "qty_std"}, out.Columns())
	rows := out.Rows()
	assert.Equal(t, []string{"north", "10", "5", "2", "3"}, rows[0][:5])
	assert.Equal(t, []string{"south", "5", "5", "1", "1", "NaN"}, rows[1])
	assert.Equal(t, []string{"east", "2", "2", "1", "1", "NaN"}, rows[2])

	cnt, err := g.Count()
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "1"}, column(t, cnt, "count"))
}

func TestGroupByMultipleKeys(t *testing.T) {
	g, err := salesTable(t).GroupBy("region", "item")
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	out, err := g.Agg(AggSpec{Col: "qty", Func: AggMax})
	require.NoError(t, err)
	assert.Equal(t, []string{"north", "pen", "7"}, out.Rows()[0])
	assert.Equal(t, []string{"north", "ink", "NaN"}, out.Rows()[2])
}

func TestGroupByErrors(t *testing.T) {
	tb := salesTable(t)
	_, err := tb.GroupBy()
	assert.True(t, errs.Is(err, errs.KindArgument))
	_, err = tb.GroupBy("nope")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)

	g, err := tb.GroupBy("region")
	require.NoError(t, err)
	_, err = g.Agg(AggSpec{Col: "item", Func: AggMean})
	assert.True(t, errs.Is(err, errs.KindType))
	_, err = g.Agg(AggSpec{Func: AggSum})
	assert.True(t, errs.Is(err, errs.KindArgument))
	_, err = g.Agg(AggSpec{Col: "qty", Func: AggSum}, AggSpec{Col: "qty", Func: AggSum})
	assert.True(t, errs.Is(err, errs.KindSchema))
	_, err = g.Agg()
	assert.True(t, errs.Is(err, errs.KindArgument))

	f, err := ParseAggFunc("median")
	require.NoError(t, err)
	assert.Equal(t, AggMedian, f)
	_, err = ParseAggFunc("first")
	assert.Error(t, err)
}
