package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabula/internal/array"
	"tabula/internal/errs"
)

func pairTables(t *testing.T) (*Table, *Table) {
	t.Helper()
	a, err := New([]string{"n", "s"}, [][]string{{"6", "x"}, {"9", "y"}, {"", "z"}, {"0", "w"}})
	require.NoError(t, err)
	b, err := New([]string{"n", "s"}, [][]string{{"3", "x"}, {"10", "b"}, {"1", "z"}, {"0", "w"}})
	require.NoError(t, err)
	return a, b
}

func TestArithmetic(t *testing.T) {
	a, b := pairTables(t)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "19", "", "0"}, column(t, sum, "n"))
	assert.Equal(t, []string{"x", "y", "z", "w"}, column(t, sum, "s"))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "-1", "", "0"}, column(t, diff, "n"))

	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"18", "90", "", "0"}, column(t, prod, "n"))

	quo, err := a.Div(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "0.9", "", "inf"}, column(t, quo, "n"))

	zero, err := New([]string{"n", "s"}, [][]string{{"0", ""}, {"0", ""}, {"0", ""}, {"0", ""}})
	require.NoError(t, err)
	inf, err := a.Div(zero)
	require.NoError(t, err)
	assert.Equal(t, []string{"inf", "inf", "", "inf"}, column(t, inf, "n"))

	num, err := New([]string{"n"}, [][]string{{"5"}, {"-5"}, {"0"}, {""}})
	require.NoError(t, err)
	den, err := New([]string{"n"}, [][]string{{"0"}, {"0"}, {"0"}, {"2"}})
	require.NoError(t, err)
	signed, err := num.Div(den)
	require.NoError(t, err)
	assert.Equal(t, []string{"inf", "inf", "inf", ""}, column(t, signed, "n"))
	assert.Equal(t, array.Float, signed.Types()[0])

	short, err := New([]string{"n"}, [][]string{{"1"}})
	require.NoError(t, err)
	_, err = a.Add(short)
	assert.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestScalarOps(t *testing.T) {
	a, _ := pairTables(t)
	assert.Equal(t, []string{"7.5", "10.5", "", "1.5"}, column(t, a.AddScalar(1.5), "n"))
	assert.Equal(t, []string{"12", "18", "", "0"}, column(t, a.MulScalar(2), "n"))
	assert.Equal(t, []string{"x", "y", "z", "w"}, column(t, a.MulScalar(2), "s"))
}

func TestComparisons(t *testing.T) {
	a, b := pairTables(t)

	eq, err := a.Eq(b)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{False, True}, {False, False}, {False, True}, {True, True}}, eq.Rows())

	ne, err := a.Ne(b)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{True, False}, {True, True}, {True, False}, {False, False}}, ne.Rows())

	lt, err := a.Lt(b)
	require.NoError(t, err)
	assert.Equal(t, []string{False, True, False, False}, column(t, lt, "n"))
	assert.Equal(t, []string{False, False, False, False}, column(t, lt, "s"))

	le, err := a.Le(b)
	require.NoError(t, err)
	assert.Equal(t, []string{False, True, False, True}, column(t, le, "n"))

	gt, err := a.Gt(b)
	require.NoError(t, err)
	assert.Equal(t, []string{True, False, False, False}, column(t, gt, "n"))
	assert.Equal(t, []string{False, True, False, False}, column(t, gt, "s"))

	ge, err := a.Ge(b)
	require.NoError(t, err)
	assert.Equal(t, []string{True, False, False, True}, column(t, ge, "n"))

	_, err = a.Eq(a.Head(1))
	assert.True(t, errs.Is(err, errs.KindSchema))
}

func TestWhere(t *testing.T) {
	a, _ := pairTables(t)
	out := a.Where(func(row []string) bool { return row[1] != "y" }, "-")
	assert.Equal(t, []string{"-", "-"}, out.Rows()[1])
	assert.Equal(t, []string{"6", "x"}, out.Rows()[0])
	assert.Equal(t, "9", column(t, a, "n")[1])
}
