package exec

import (
	"math"
	"strings"

	"tabula/internal/array"
	"tabula/internal/errs"
)

// Element-wise operators pair cells by position. Both tables must have the
// same shape; column names are not consulted.

func (t *Table) sameShape(op string, o *Table) error {
	if len(t.rows) != len(o.rows) || t.schema.Len() != o.schema.Len() {
		return errs.ShapeMismatch(op, len(t.rows), t.schema.Len(), len(o.rows), o.schema.Len())
	}
	return nil
}

// arith returns a copy of t where every column numeric on both sides holds
// f(a, b). A null or unparseable operand gives a null result. Other
// columns keep t's cells.
func (t *Table) arith(op string, o *Table, f func(a, b float64) float64) (*Table, error) {
	if err := t.sameShape(op, o); err != nil {
		return nil, err
	}
	out := t.Copy()
	for c := 0; c < t.schema.Len(); c++ {
		if !t.types[c].Numeric() || !o.types[c].Numeric() {
			continue
		}
		for r := range out.rows {
			a, okA := array.ParseFloat(t.cell(r, c))
			b, okB := array.ParseFloat(o.cell(r, c))
			if !okA || !okB {
				out.setCell(r, c, "")
				continue
			}
			out.setCell(r, c, array.FormatFloat(f(a, b)))
		}
	}
	out.Refresh()
	return out, nil
}

func (t *Table) Add(o *Table) (*Table, error) {
	return t.arith("add", o, func(a, b float64) float64 { return a + b })
}

func (t *Table) Sub(o *Table) (*Table, error) {
	return t.arith("subtract", o, func(a, b float64) float64 { return a - b })
}

func (t *Table) Mul(o *Table) (*Table, error) {
	return t.arith("multiply", o, func(a, b float64) float64 { return a * b })
}

// Div divides cell by cell. Any zero divisor yields "inf", whatever the
// dividend's sign.
func (t *Table) Div(o *Table) (*Table, error) {
	return t.arith("divide", o, func(a, b float64) float64 {
		if b == 0 {
			return math.Inf(1)
		}
		return a / b
	})
}

// scalar applies f to every parseable cell of the numeric columns.
func (t *Table) scalar(f func(float64) float64) *Table {
	out := t.Copy()
	for _, c := range t.numericColumns() {
		for r := range out.rows {
			if v, ok := array.ParseFloat(out.cell(r, c)); ok {
				out.setCell(r, c, array.FormatFloat(f(v)))
			}
		}
	}
	out.Refresh()
	return out
}

func (t *Table) AddScalar(v float64) *Table {
	return t.scalar(func(x float64) float64 { return x + v })
}

func (t *Table) MulScalar(v float64) *Table {
	return t.scalar(func(x float64) float64 { return x * v })
}

// compare returns a table of True/False cells with t's columns. Columns
// numeric on both sides compare as numbers when both cells parse and as
// text otherwise. A null on either side compares false.
func (t *Table) compare(op string, o *Table, want func(cmp int) bool) (*Table, error) {
	if err := t.sameShape(op, o); err != nil {
		return nil, err
	}
	n := t.schema.Len()
	rows := make([][]string, len(t.rows))
	for r := range t.rows {
		row := make([]string, n)
		for c := 0; c < n; c++ {
			a, b := t.cell(r, c), o.cell(r, c)
			if a == "" || b == "" {
				row[c] = False
				continue
			}
			cmp := strings.Compare(a, b)
			if t.types[c].Numeric() && o.types[c].Numeric() {
				fa, okA := array.ParseFloat(a)
				fb, okB := array.ParseFloat(b)
				if okA && okB {
					cmp = compareFloat64(fa, fb, false)
				}
			}
			row[c] = boolText(want(cmp))
		}
		rows[r] = row
	}
	types := make([]array.Type, n)
	for c := range types {
		types[c] = array.String
	}
	return newTable(t.schema.Clone(), types, rows), nil
}

func (t *Table) Eq(o *Table) (*Table, error) {
	return t.compare("eq", o, func(c int) bool { return c == 0 })
}

// Ne is the negation of Eq, so a null on either side is True.
func (t *Table) Ne(o *Table) (*Table, error) {
	eq, err := t.compare("ne", o, func(c int) bool { return c == 0 })
	if err != nil {
		return nil, err
	}
	for _, row := range eq.rows {
		for c, v := range row {
			row[c] = boolText(v == False)
		}
	}
	return eq, nil
}

func (t *Table) Lt(o *Table) (*Table, error) {
	return t.compare("lt", o, func(c int) bool { return c < 0 })
}

func (t *Table) Le(o *Table) (*Table, error) {
	return t.compare("le", o, func(c int) bool { return c <= 0 })
}

func (t *Table) Gt(o *Table) (*Table, error) {
	return t.compare("gt", o, func(c int) bool { return c > 0 })
}

func (t *Table) Ge(o *Table) (*Table, error) {
	return t.compare("ge", o, func(c int) bool { return c >= 0 })
}

// Where returns a copy where every row failing cond has all of its cells
// replaced by other. cond receives the row padded to the column count.
func (t *Table) Where(cond func(row []string) bool, other string) *Table {
	out := t.Copy()
	for r := range out.rows {
		if cond(t.paddedRow(r)) {
			continue
		}
		row := make([]string, t.schema.Len())
		for c := range row {
			row[c] = other
		}
		out.rows[r] = row
	}
	out.Refresh()
	return out
}
