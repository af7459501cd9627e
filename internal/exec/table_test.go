package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabula/internal/array"
	"tabula/internal/errs"
)

func makeTestTable(t *testing.T) *Table {
	t.Helper()
	tb, err := New([]string{"name", "age", "score", "city"}, [][]string{
		{"amy", "30", "10", "Oslo"},
		{"bob", "25", "", "Bergen"},
		{"cat", "", "30", "Oslo"},
		{"dan", "41", "20.5"},
	})
	require.NoError(t, err)
	return tb
}

func TestNewInfersTypes(t *testing.T) {
	tb := makeTestTable(t)
	rows, cols := tb.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, cols)
	assert.Equal(t, []array.Type{array.String, array.Int, array.Float, array.String}, tb.Types())
	assert.Equal(t, []int{4, 3, 3, 3}, tb.NonNullCounts())

	nulls, err := tb.NullRows("city")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, nulls)
}

func TestNewValidation(t *testing.T) {
	_, err := New([]string{"a", "a"}, nil)
	assert.True(t, errs.Is(err, errs.KindSchema))

	_, err = New([]string{"a"}, [][]string{{"1", "2"}})
	assert.True(t, errs.Is(err, errs.KindSchema))

	_, err = NewTyped([]string{"a"}, nil, nil)
	assert.ErrorIs(t, err, errs.ErrSizeMismatch)
}

func TestAllNullColumnKeepsType(t *testing.T) {
	tb, err := New([]string{"x"}, [][]string{{""}, {}})
	require.NoError(t, err)
	typ, err := tb.ColumnType("x")
	require.NoError(t, err)
	assert.Equal(t, array.Int, typ)

	tb, err = NewTyped([]string{"x"}, []array.Type{array.String}, [][]string{{""}})
	require.NoError(t, err)
	assert.Equal(t, []array.Type{array.String}, tb.Types())
}

func TestAccessors(t *testing.T) {
	tb := makeTestTable(t)

	v, err := tb.Loc(1, "name")
	require.NoError(t, err)
	assert.Equal(t, "bob", v)

	v, err = tb.ILoc(3, 3)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	_, err = tb.ILoc(9, 0)
	assert.ErrorIs(t, err, errs.ErrOutOfRange)
	_, err = tb.Loc(0, "missing")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)

	row, err := tb.Row(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"dan", "41", "20.5", ""}, row)

	assert.Panics(t, func() { tb.Value(0, 10) })
	assert.Equal(t, "Oslo", tb.Value(0, 3))
}

func TestCopyIsIndependent(t *testing.T) {
	tb := makeTestTable(t)
	cp := tb.Copy()
	require.True(t, tb.Equals(cp))
	require.NoError(t, cp.SetCell(0, "name", "zed"))
	assert.False(t, tb.Equals(cp))
	v, _ := tb.Loc(0, "name")
	assert.Equal(t, "amy", v)
}

func TestColumnEdits(t *testing.T) {
	tb := makeTestTable(t)

	require.NoError(t, tb.AddColumn("flag", []string{"1", "0", "1", "0"}))
	assert.Equal(t, []string{"name", "age", "score", "city", "flag"}, tb.Columns())
	assert.ErrorIs(t, tb.AddColumn("short", []string{"1"}), errs.ErrSizeMismatch)
	assert.True(t, errs.Is(tb.AddColumn("flag", make([]string, 4)), errs.KindSchema))

	require.NoError(t, tb.InsertColumn(0, "id", []string{"a", "b", "c", "d"}))
	assert.Equal(t, "id", tb.Columns()[0])
	v, _ := tb.Loc(3, "flag")
	assert.Equal(t, "0", v)
	assert.ErrorIs(t, tb.InsertColumn(99, "x", make([]string, 4)), errs.ErrOutOfRange)

	require.NoError(t, tb.DropColumn("id"))
	require.NoError(t, tb.RenameColumn("flag", "ok"))
	assert.True(t, tb.HasColumn("ok"))
	assert.False(t, tb.HasColumn("flag"))
	assert.ErrorIs(t, tb.DropColumn("flag"), errs.ErrColumnNotFound)

	require.NoError(t, tb.SetColumn("ok", []string{"x", "y", "z", "w"}))
	typ, _ := tb.ColumnType("ok")
	assert.Equal(t, array.String, typ)
}

func TestRowEdits(t *testing.T) {
	tb := makeTestTable(t)
	require.NoError(t, tb.AppendRow([]string{"eve", "19"}))
	assert.Equal(t, 5, tb.RowCount())
	assert.ErrorIs(t, tb.AppendRow(make([]string, 9)), errs.ErrSizeMismatch)

	require.NoError(t, tb.DropRows([]int{0, 0, 4}))
	assert.Equal(t, 3, tb.RowCount())
	v, _ := tb.Loc(0, "name")
	assert.Equal(t, "bob", v)

	assert.ErrorIs(t, tb.DropRows([]int{1, 7}), errs.ErrOutOfRange)
	assert.Equal(t, 3, tb.RowCount())

	require.NoError(t, tb.DropRow(0))
	assert.Equal(t, 2, tb.RowCount())
}

func TestSetCellWidensType(t *testing.T) {
	tb := makeTestTable(t)
	require.NoError(t, tb.SetCell(0, "age", "old"))
	typ, _ := tb.ColumnType("age")
	assert.Equal(t, array.String, typ)
	require.NoError(t, tb.SetCell(0, "age", "31"))
	typ, _ = tb.ColumnType("age")
	assert.Equal(t, array.Int, typ)
}

func TestAsType(t *testing.T) {
	tb, err := New([]string{"v"}, [][]string{{"3.9"}, {"-2.1"}, {"abc"}, {""}, {"4"}})
	require.NoError(t, err)

	require.NoError(t, tb.AsType("v", array.Int))
	col, _ := tb.Column("v")
	assert.Equal(t, []string{"3", "-2", "", "", "4"}, col)
	assert.Equal(t, []array.Type{array.Int}, tb.Types())

	require.NoError(t, tb.AsType("v", array.Float))
	col, _ = tb.Column("v")
	assert.Equal(t, []string{"3.0", "-2.0", "", "", "4.0"}, col)
	assert.Equal(t, []array.Type{array.Float}, tb.Types())
}

func TestSelectAndDrop(t *testing.T) {
	tb := makeTestTable(t)
	sel, err := tb.Select("city", "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "name"}, sel.Columns())
	assert.Equal(t, []string{"Oslo", "amy"}, sel.Rows()[0])

	_, err = tb.Select("nope")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)

	d, err := tb.Drop("age", "score")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "city"}, d.Columns())
	assert.Equal(t, 4, len(tb.Columns()))
}

func TestMemoryUsageAndChecksum(t *testing.T) {
	tb := makeTestTable(t)
	mem := tb.MemoryUsage()
	assert.Equal(t, len("name")+len("amybobcatdan"), mem["name"])

	a := tb.Checksum(0)
	assert.Len(t, a, 64)
	assert.Equal(t, a, tb.Copy().Checksum(0))
	assert.NotEqual(t, a, tb.Checksum(1))

	require.NoError(t, tb.SetCell(0, "city", "Rome"))
	assert.NotEqual(t, a, tb.Checksum(0))
}
