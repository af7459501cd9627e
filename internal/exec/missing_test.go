package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tabula/internal/errs"
	"tabula/internal/logger"
)

func TestNullCounts(t *testing.T) {
	tb := makeTestTable(t)
	assert.Equal(t, map[string]int{"name": 0, "age": 1, "score": 1, "city": 1}, tb.IsNull())
	assert.Equal(t, map[string]int{"name": 4, "age": 3, "score": 3, "city": 3}, tb.NotNull())

	m, err := tb.NullMask("age")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true, false}, m.Bools())
}

func TestDropNA(t *testing.T) {
	tb, err := New([]string{"a", "b"}, [][]string{{"1", "x"}, {"", "y"}, {"", ""}, {}})
	require.NoError(t, err)

	anyNull, err := tb.DropNA("any")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "x"}}, anyNull.Rows())
	for _, n := range anyNull.IsNull() {
		assert.Zero(t, n)
	}

	allNull, err := tb.DropNA("all")
	require.NoError(t, err)
	assert.Equal(t, 2, allNull.RowCount())

	_, err = tb.DropNA("some")
	assert.True(t, errs.Is(err, errs.KindArgument))
}

func TestFillNAMethod(t *testing.T) {
	tb, err := New([]string{"v"}, [][]string{{""}, {"1"}, {""}, {"3"}, {""}})
	require.NoError(t, err)

	ff := tb.Copy()
	require.NoError(t, ff.FillNAMethod("v", "ffill"))
	assert.Equal(t, []string{"", "1", "1", "3", "3"}, column(t, ff, "v"))

	bf := tb.Copy()
	require.NoError(t, bf.FillNAMethod("v", "backfill"))
	assert.Equal(t, []string{"1", "1", "3", "3", ""}, column(t, bf, "v"))

	assert.True(t, errs.Is(tb.FillNAMethod("v", "nearest"), errs.KindArgument))
}

func TestInterpolate(t *testing.T) {
	tb, err := New([]string{"v"}, [][]string{{""}, {"1"}, {""}, {""}, {"4"}, {""}})
	require.NoError(t, err)
	require.NoError(t, tb.Interpolate("v", "linear"))
	assert.Equal(t, []string{"", "1", "2", "3", "4", ""}, column(t, tb, "v"))

	s := makeTestTable(t)
	assert.True(t, errs.Is(s.Interpolate("name", ""), errs.KindType))
	assert.True(t, errs.Is(s.Interpolate("age", "cubic"), errs.KindArgument))
}

func TestImputers(t *testing.T) {
	cases := []struct {
		strategy Strategy
		value    string
		in       []string
		want     []string
	}{
		{StrategyMean, "", []string{"1", "", "5"}, []string{"1", "3", "5"}},
		{StrategyMedian, "", []string{"1", "", "2", "10"}, []string{"1", "2", "2", "10"}},
		{StrategyMode, "", []string{"a", "", "a", "b"}, []string{"a", "a", "a", "b"}},
		{StrategyConstant, "0", []string{"", "2"}, []string{"0", "2"}},
		{StrategyForwardFill, "", []string{"1", "", ""}, []string{"1", "1", "1"}},
		{StrategyBackwardFill, "", []string{"", "", "7"}, []string{"7", "7", "7"}},
		{StrategyLinear, "", []string{"0", "", "10"}, []string{"0", "5", "10"}},
	}
	for _, tc := range cases {
		t.Run(tc.strategy.String(), func(t *testing.T) {
			rows := make([][]string, len(tc.in))
			for i, v := range tc.in {
				rows[i] = []string{v, "keep"}
			}
			tb, err := New([]string{"x", "other"}, rows)
			require.NoError(t, err)

			imp, err := NewImputer(tc.strategy, tc.value)
			require.NoError(t, err)
			require.NoError(t, imp.Impute(tb, "x"))
			assert.Equal(t, tc.want, column(t, tb, "x"))
			for _, v := range column(t, tb, "other") {
				assert.Equal(t, "keep", v)
			}
		})
	}
}

func TestImputerErrors(t *testing.T) {
	tb := makeTestTable(t)
	assert.True(t, errs.Is(MeanImputer{}.Impute(tb, "name"), errs.KindType))
	assert.ErrorIs(t, ConstantImputer{Value: "x"}.Impute(tb, "nope"), errs.ErrColumnNotFound)

	empty, err := New([]string{"x"}, [][]string{{""}})
	require.NoError(t, err)
	require.NoError(t, MeanImputer{}.Impute(empty, "x"))
	assert.Equal(t, 1, empty.IsNull()["x"])

	s, err := ParseStrategy("bfill")
	require.NoError(t, err)
	assert.Equal(t, StrategyBackwardFill, s)
	_, err = ParseStrategy("knn")
	assert.True(t, errs.Is(err, errs.KindArgument))
}

func TestImputerLogsFilledCount(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	tb := scoreTable(t)
	require.NoError(t, MeanImputer{}.Impute(tb, "score"))

	entries := logs.FilterMessage("imputed column").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "mean", fields["strategy"])
	assert.Equal(t, int64(1), fields["filled"])
}
