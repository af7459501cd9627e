package exec

import (
	"tabula/internal/array"
	"tabula/internal/errs"
)

// IsNull returns the null count of every column.
func (t *Table) IsNull() map[string]int {
	out := make(map[string]int, t.schema.Len())
	for c := 0; c < t.schema.Len(); c++ {
		out[t.schema.Name(c)] = len(t.nullRows[c])
	}
	return out
}

// NotNull returns the non-null count of every column.
func (t *Table) NotNull() map[string]int {
	out := make(map[string]int, t.schema.Len())
	for c := 0; c < t.schema.Len(); c++ {
		out[t.schema.Name(c)] = t.nonNull[c]
	}
	return out
}

// NullMask sets one bit per null cell of col.
func (t *Table) NullMask(col string) (array.Bitmap, error) {
	c, err := t.lookup("null_mask", col)
	if err != nil {
		return array.Bitmap{}, err
	}
	m := array.NewBitmap(len(t.rows), false)
	for _, r := range t.nullRows[c] {
		m.Set(r)
	}
	return m, nil
}

// DropNA removes rows with any null cell ("any") or only null cells ("all").
func (t *Table) DropNA(how string) (*Table, error) {
	var all bool
	switch how {
	case "any", "":
	case "all":
		all = true
	default:
		return nil, errs.Newf(errs.KindArgument, "dropna", "how must be any or all, got %q", how)
	}
	width := t.schema.Len()
	return t.FilterFunc(func(row []string) bool {
		nulls := 0
		for _, v := range row {
			if v == "" {
				nulls++
			}
		}
		if all {
			return width == 0 || nulls < width
		}
		return nulls == 0
	}), nil
}

// FillNAValue replaces every null cell of col with v.
func (t *Table) FillNAValue(col, v string) error {
	c, err := t.lookup("fillna", col)
	if err != nil {
		return err
	}
	t.fill(c, func(int) string { return v })
	return nil
}

// fill writes value(r) into every null row of column c and refreshes.
// It returns how many cells became non-null.
func (t *Table) fill(c int, value func(r int) string) int {
	filled := 0
	for _, r := range t.nullRows[c] {
		if v := value(r); v != "" {
			t.setCell(r, c, v)
			filled++
		}
	}
	t.Refresh()
	return filled
}

// FillNAMethod propagates values into nulls: "ffill"/"pad" carries the last
// seen value forward, "bfill"/"backfill" carries the next value backward.
// Leading (or trailing) nulls with nothing to carry stay null.
func (t *Table) FillNAMethod(col, method string) error {
	c, err := t.lookup("fillna", col)
	if err != nil {
		return err
	}
	switch method {
	case "ffill", "pad":
		t.forwardFill(c)
	case "bfill", "backfill":
		t.backwardFill(c)
	default:
		return errs.Newf(errs.KindArgument, "fillna", "unknown method %q", method)
	}
	return nil
}

func (t *Table) forwardFill(c int) int {
	vals := t.columnValues(c)
	last := ""
	for r, v := range vals {
		if v != "" {
			last = v
			continue
		}
		vals[r] = last
	}
	return t.fill(c, func(r int) string { return vals[r] })
}

func (t *Table) backwardFill(c int) int {
	vals := t.columnValues(c)
	next := ""
	for r := len(vals) - 1; r >= 0; r-- {
		if vals[r] != "" {
			next = vals[r]
			continue
		}
		vals[r] = next
	}
	return t.fill(c, func(r int) string { return vals[r] })
}

// Interpolate fills interior nulls of a numeric column by linear
// interpolation between the nearest parseable neighbors, weighted by row
// distance. The first and last rows are never filled, nor is a null
// without a valid neighbor on each side.
func (t *Table) Interpolate(col, method string) error {
	c, err := t.lookup("interpolate", col)
	if err != nil {
		return err
	}
	if method != "linear" && method != "" {
		return errs.Newf(errs.KindArgument, "interpolate", "unknown method %q", method)
	}
	if t.types[c] == array.String {
		return errs.NumericRequired("interpolate", col)
	}
	t.interpolateLinear(c)
	return nil
}

func (t *Table) interpolateLinear(c int) int {
	vals := make([]float64, len(t.rows))
	valid := make([]bool, len(t.rows))
	for r := range t.rows {
		vals[r], valid[r] = array.ParseFloat(t.cell(r, c))
	}
	return t.fill(c, func(r int) string {
		if r == 0 || r == len(t.rows)-1 {
			return ""
		}
		prev, next := r-1, r+1
		for prev >= 0 && !valid[prev] {
			prev--
		}
		for next < len(t.rows) && !valid[next] {
			next++
		}
		if prev < 0 || next >= len(t.rows) {
			return ""
		}
		ratio := float64(r-prev) / float64(next-prev)
		return array.FormatFloat(vals[prev] + ratio*(vals[next]-vals[prev]))
	})
}
