package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabula/internal/errs"
)

func TestMergeInner(t *testing.T) {
	left, err := New([]string{"id", "v"}, [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}})
	require.NoError(t, err)
	right, err := New([]string{"id", "w"}, [][]string{{"2", "x"}, {"3", "y"}, {"4", "z"}})
	require.NoError(t, err)

	out, err := left.Merge(right, []string{"id"}, JoinInner)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "v", "w"}, out.Columns())
	assert.Equal(t, [][]string{{"2", "b", "x"}, {"3", "c", "y"}}, out.Rows())
}

func TestMergeLeftAndDuplicates(t *testing.T) {
	left, err := New([]string{"k", "v"}, [][]string{{"a", "1"}, {"b", "2"}})
	require.NoError(t, err)
	right, err := New([]string{"k", "v"}, [][]string{{"a", "x"}, {"a", "y"}})
	require.NoError(t, err)

	out, err := left.Merge(right, []string{"k"}, JoinLeft)
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "v", "v_right"}, out.Columns())
	assert.Equal(t, [][]string{{"a", "1", "x"}, {"a", "1", "y"}, {"b", "2", ""}}, out.Rows())

	_, err = left.Merge(right, []string{"k"}, "outer")
	assert.True(t, errs.Is(err, errs.KindArgument))
	_, err = left.Merge(right, []string{"nope"}, JoinInner)
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)
}

func TestMergeOn(t *testing.T) {
	left, err := New([]string{"uid", "v"}, [][]string{{"1", "a"}})
	require.NoError(t, err)
	right, err := New([]string{"id", "w"}, [][]string{{"1", "b"}})
	require.NoError(t, err)

	out, err := left.MergeOn(right, "uid", "id", JoinInner)
	require.NoError(t, err)
	assert.Equal(t, []string{"uid", "v", "w"}, out.Columns())
	assert.Equal(t, 1, out.RowCount())
}

func TestConcat(t *testing.T) {
	a, err := New([]string{"x", "y"}, [][]string{{"1", "2"}})
	require.NoError(t, err)
	b, err := New([]string{"x", "y"}, [][]string{{"3.5", "q"}})
	require.NoError(t, err)

	out, err := Concat([]*Table{a, b}, 0, true)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}, {"3.5", "q"}}, out.Rows())

	c, err := New([]string{"z"}, [][]string{{"9"}})
	require.NoError(t, err)
	out, err = Concat([]*Table{a, c}, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, out.Columns())

	_, err = Concat([]*Table{a, c}, 0, false)
	assert.True(t, errs.Is(err, errs.KindSchema))
	_, err = Concat([]*Table{a, a}, 1, false)
	assert.True(t, errs.Is(err, errs.KindSchema))

	long, err := New([]string{"w"}, [][]string{{"1"}, {"2"}})
	require.NoError(t, err)
	_, err = Concat([]*Table{a, long}, 1, false)
	assert.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = Concat([]*Table{a}, 2, false)
	assert.True(t, errs.Is(err, errs.KindArgument))

	out, err = Concat(nil, 0, false)
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}

func TestJoinPositional(t *testing.T) {
	a, err := New([]string{"x"}, [][]string{{"1"}, {"2"}, {"3"}})
	require.NoError(t, err)
	b, err := New([]string{"y"}, [][]string{{"a"}, {"b"}})
	require.NoError(t, err)

	out, err := a.Join(b, JoinLeft)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "a"}, {"2", "b"}, {"3", ""}}, out.Rows())

	out, err = a.Join(b, JoinInner)
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())

	_, err = a.Join(a, JoinLeft)
	assert.True(t, errs.Is(err, errs.KindSchema))
}
