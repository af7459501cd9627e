package exec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabula/internal/array"
	"tabula/internal/errs"
)

func seriesTable(t *testing.T, vals ...string) *Table {
	t.Helper()
	rows := make([][]string, len(vals))
	for i, v := range vals {
		rows[i] = []string{v}
	}
	tb, err := New([]string{"v"}, rows)
	require.NoError(t, err)
	return tb
}

// assertFloats compares element-wise, treating NaN as equal to NaN.
func assertFloats(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}

func TestRollingMean(t *testing.T) {
	tb := seriesTable(t, "1", "2", "3", "4")
	got, err := tb.RollingMean("v", 2)
	require.NoError(t, err)
	assertFloats(t, []float64{math.NaN(), 1.5, 2.5, 3.5}, got)

	_, err = tb.RollingMean("v", 0)
	assert.True(t, errs.Is(err, errs.KindArgument))
	_, err = makeTestTable(t).RollingMean("name", 2)
	assert.True(t, errs.Is(err, errs.KindType))
}

func TestRollingWithHoles(t *testing.T) {
	tb := seriesTable(t, "1", "", "", "4")
	mean, err := tb.RollingMean("v", 2)
	require.NoError(t, err)
	assertFloats(t, []float64{math.NaN(), 1, math.NaN(), 4}, mean)

	sum, err := tb.RollingSum("v", 2)
	require.NoError(t, err)
	assertFloats(t, []float64{math.NaN(), 1, 0, 4}, sum)

	std, err := seriesTable(t, "1", "3", "5").RollingStd("v", 2)
	require.NoError(t, err)
	assertFloats(t, []float64{math.NaN(), math.Sqrt2, math.Sqrt2}, std)
}

func TestExpandingAndCumulative(t *testing.T) {
	tb := seriesTable(t, "2", "", "4", "1")

	em, err := tb.ExpandingMean("v")
	require.NoError(t, err)
	assertFloats(t, []float64{2, 2, 3, 7.0 / 3}, em)

	cs, err := tb.CumSum("v")
	require.NoError(t, err)
	assertFloats(t, []float64{2, 2, 6, 7}, cs)

	cp, err := tb.CumProd("v")
	require.NoError(t, err)
	assertFloats(t, []float64{2, 2, 8, 8}, cp)

	cmax, err := tb.CumMax("v")
	require.NoError(t, err)
	assertFloats(t, []float64{2, 2, 4, 4}, cmax)

	cmin, err := seriesTable(t, "", "3", "1").CumMin("v")
	require.NoError(t, err)
	assertFloats(t, []float64{math.NaN(), 3, 1}, cmin)
}

func TestPctChange(t *testing.T) {
	tb := seriesTable(t, "10", "15", "0", "5", "")
	got, err := tb.PctChange("v", 1)
	require.NoError(t, err)
	assertFloats(t, []float64{math.NaN(), 0.5, -1, math.NaN(), math.NaN()}, got)

	_, err = tb.PctChange("v", 0)
	assert.True(t, errs.Is(err, errs.KindArgument))
}

func TestAddSeries(t *testing.T) {
	tb := seriesTable(t, "1", "2", "3", "4")
	rm, err := tb.RollingMean("v", 2)
	require.NoError(t, err)
	require.NoError(t, tb.AddSeries("v_mean", rm))

	assert.Equal(t, []string{"NaN", "1.5", "2.5", "3.5"}, column(t, tb, "v_mean"))
	typ, err := tb.ColumnType("v_mean")
	require.NoError(t, err)
	assert.Equal(t, array.Float, typ)

	m, err := tb.Mean("v_mean")
	require.NoError(t, err)
	assert.Equal(t, 2.5, m)
}
