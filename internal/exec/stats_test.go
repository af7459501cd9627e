package exec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabula/internal/errs"
)

func scoreTable(t *testing.T) *Table {
	t.Helper()
	tb, err := New([]string{"score"}, [][]string{{"10"}, {""}, {"30"}})
	require.NoError(t, err)
	return tb
}

func TestMeanSkipsNulls(t *testing.T) {
	tb := scoreTable(t)
	m, err := tb.Mean("score")
	require.NoError(t, err)
	assert.Equal(t, 20.0, m)

	require.NoError(t, tb.FillNAValue("score", "20"))
	m, err = tb.Mean("score")
	require.NoError(t, err)
	assert.Equal(t, 20.0, m)
	assert.Equal(t, 0, tb.IsNull()["score"])
}

func TestReductions(t *testing.T) {
	tb := makeTestTable(t)

	sum, err := tb.Sum("score")
	require.NoError(t, err)
	assert.Equal(t, 60.5, sum)

	prod, err := tb.Prod("age")
	require.NoError(t, err)
	assert.Equal(t, 30.0*25*41, prod)

	lo, err := tb.Min("age")
	require.NoError(t, err)
	assert.Equal(t, 25.0, lo)
	hi, err := tb.Max("age")
	require.NoError(t, err)
	assert.Equal(t, 41.0, hi)

	med, err := tb.Median("score")
	require.NoError(t, err)
	assert.Equal(t, 20.5, med)

	v, err := tb.Variance("age")
	require.NoError(t, err)
	assert.InDelta(t, 67.0, v, 1e-9)
	sd, err := tb.StdDev("age")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(v), sd, 1e-12)

	n, err := tb.Count("city")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStatErrors(t *testing.T) {
	tb := makeTestTable(t)

	_, err := tb.Mean("name")
	assert.True(t, errs.Is(err, errs.KindType))
	_, err = tb.Mean("nope")
	assert.True(t, errs.Is(err, errs.KindSchema))

	empty, err := New([]string{"x"}, [][]string{{""}, {""}})
	require.NoError(t, err)
	_, err = empty.Mean("x")
	assert.ErrorIs(t, err, errs.ErrNoValidValues)
	sum, err := empty.Sum("x")
	require.NoError(t, err)
	assert.Equal(t, 0.0, sum)

	one, err := New([]string{"x"}, [][]string{{"4"}})
	require.NoError(t, err)
	_, err = one.StdDev("x")
	assert.True(t, errs.Is(err, errs.KindStatistical))
}

func TestSentinelsAreHoles(t *testing.T) {
	tb, err := New([]string{"x"}, [][]string{{"1"}, {"NaN"}, {"3"}, {"inf"}})
	require.NoError(t, err)
	typ, _ := tb.ColumnType("x")
	assert.True(t, typ.Numeric())
	m, err := tb.Mean("x")
	require.NoError(t, err)
	assert.Equal(t, 2.0, m)
}

func TestMode(t *testing.T) {
	tb := makeTestTable(t)
	m, err := tb.Mode("city")
	require.NoError(t, err)
	assert.Equal(t, "Oslo", m)

	tie, err := New([]string{"x"}, [][]string{{"b"}, {"a"}, {"b"}, {"a"}})
	require.NoError(t, err)
	m, err = tie.Mode("x")
	require.NoError(t, err)
	assert.Equal(t, "a", m)
}

func TestQuantile(t *testing.T) {
	tb, err := New([]string{"x"}, [][]string{{"4"}, {"1"}, {""}, {"3"}, {"2"}})
	require.NoError(t, err)

	q, err := tb.Quantile("x", 0, 0.25, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.75, 2.5, 4}, q)

	lo, _ := tb.Min("x")
	hi, _ := tb.Max("x")
	assert.Equal(t, lo, q[0])
	assert.Equal(t, hi, q[3])

	_, err = tb.Quantile("x", 1.5)
	assert.True(t, errs.Is(err, errs.KindStatistical))
}

func TestCorrCov(t *testing.T) {
	tb, err := New([]string{"a", "b", "c", "s"}, [][]string{
		{"1", "2", "5", "x"},
		{"2", "4", "5", "y"},
		{"3", "6", "5", "z"},
	})
	require.NoError(t, err)

	corr := tb.Corr()
	assert.Len(t, corr, 6)
	assert.InDelta(t, 1.0, corr["a_b"], 1e-12)
	assert.Equal(t, 1.0, corr["a_a"])
	assert.Equal(t, 0.0, corr["a_c"])
	_, ok := corr["a_s"]
	assert.False(t, ok)

	cov := tb.Cov()
	assert.InDelta(t, 2.0, cov["a_b"], 1e-12)
	assert.InDelta(t, 1.0, cov["a_a"], 1e-12)
}

func TestCorrKeyCollision(t *testing.T) {
	tb, err := New([]string{"a_b", "c", "a", "b_c"}, [][]string{
		{"1", "3", "1", "2"},
		{"2", "2", "2", "4"},
		{"3", "1", "3", "6"},
	})
	require.NoError(t, err)

	corr := tb.Corr()
	assert.Len(t, corr, 9)
	assert.InDelta(t, -1.0, corr["a_b_c"], 1e-12)
	assert.InDelta(t, 1.0, corr["a_b_b_c"], 1e-12)
}

func TestDescribe(t *testing.T) {
	tb := makeTestTable(t)
	d := tb.Describe()
	assert.Equal(t, []string{"stat", "age", "score"}, d.Columns())
	assert.Equal(t, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}, column(t, d, "stat"))
	age := column(t, d, "age")
	assert.Equal(t, "3", age[0])
	assert.Equal(t, "32", age[1])
	assert.Equal(t, "25", age[3])
	assert.Equal(t, "41", age[7])

	one, err := New([]string{"stat", "v"}, [][]string{{"a", "1"}})
	require.NoError(t, err)
	d = one.Describe()
	assert.Equal(t, []string{"_stat", "v"}, d.Columns())
	assert.Equal(t, "NaN", column(t, d, "v")[2])
}

func TestAggregate(t *testing.T) {
	tb := makeTestTable(t)
	out, err := tb.Aggregate(map[string][]AggFunc{
		"score": {AggSum, AggCount},
		"age":   {AggMax},
		"name":  {AggMean, AggCount},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"age_max", "name_mean", "name_count", "score_sum", "score_count"}, out.Columns())
	assert.Equal(t, [][]string{{"41", "NaN", "4", "60.5", "3"}}, out.Rows())

	_, err = tb.Aggregate(map[string][]AggFunc{"nope": {AggSum}})
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)
}
