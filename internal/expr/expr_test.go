package expr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabula/internal/array"
)

type fakeFrame struct {
	cols  map[string][]string
	types map[string]array.Type
}

func (f fakeFrame) RowCount() int { return 4 }

func (f fakeFrame) Column(name string) ([]string, error) {
	v, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %s", name)
	}
	return v, nil
}

func (f fakeFrame) ColumnType(name string) (array.Type, error) {
	t, ok := f.types[name]
	if !ok {
		return 0, fmt.Errorf("unknown column %s", name)
	}
	return t, nil
}

func testFrame() fakeFrame {
	return fakeFrame{
		cols: map[string][]string{
			"age":  {"9", "30", "", "100"},
			"city": {"Oslo", "Bergen", "Oslo", ""},
		},
		types: map[string]array.Type{"age": array.Int, "city": array.String},
	}
}

func TestCompareNumericVersusText(t *testing.T) {
	f := testFrame()

	m, err := Col("age").Gt("10").Eval(f)
	require.NoError(t, err)
	// Numeric: 9 < 10 even though "9" > "10" as text.
	assert.Equal(t, []bool{false, true, false, true}, m.Bools())

	m, err = Col("city").Lt("P").Eval(f)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, false}, m.Bools())

	m, err = Col("age").Neq("30").Eval(f)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, true}, m.Bools())
}

func TestNullAndLogical(t *testing.T) {
	f := testFrame()
	m, err := And(Col("city").Eq("Oslo"), Col("age").IsNotNull()).Eval(f)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, false}, m.Bools())

	m, err = Or(Col("age").IsNull(), Col("city").IsNull()).Eval(f)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, true, true}, m.Bools())

	m, err = Not(Col("city").In("Oslo", "Bergen")).Eval(f)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, true}, m.Bools())

	_, err = Col("nope").Eq("1").Eval(f)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	f := testFrame()
	cases := []struct {
		query string
		want  []bool
	}{
		{`age >= 30`, []bool{false, true, false, true}},
		{`city == "Oslo"`, []bool{true, false, true, false}},
		{`city == Oslo and age < 50`, []bool{true, false, false, false}},
		{`age > 50 or city = 'Bergen'`, []bool{false, true, false, true}},
		{`not (age > 50 or city == Bergen)`, []bool{true, false, true, false}},
		{`age is null`, []bool{false, false, true, false}},
		{"`city` IS NOT NULL", []bool{true, true, true, false}},
		{`age!=9`, []bool{false, true, false, true}},
	}
	for _, tc := range cases {
		e, err := Parse(tc.query)
		require.NoError(t, err, tc.query)
		m, err := e.Eval(f)
		require.NoError(t, err, tc.query)
		assert.Equal(t, tc.want, m.Bools(), tc.query)
	}
}

func TestParseErrors(t *testing.T) {
	for _, q := range []string{"", "age", "age ~ 3", "age >", "(age > 3", `city == "Oslo`, "age is maybe", "age > 1 extra"} {
		_, err := Parse(q)
		assert.Error(t, err, q)
	}
}
