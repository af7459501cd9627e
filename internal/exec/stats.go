package exec

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tabula/internal/array"
	"tabula/internal/errs"
)

// values collects the parseable cells of a numeric column. Null and
// unparseable cells are skipped.
func (t *Table) values(op, col string) ([]float64, error) {
	c, err := t.lookup(op, col)
	if err != nil {
		return nil, err
	}
	if t.types[c] == array.String {
		return nil, errs.NumericRequired(op, col)
	}
	return t.columnFloats(c), nil
}

func (t *Table) columnFloats(c int) []float64 {
	out := make([]float64, 0, t.nonNull[c])
	for r := range t.rows {
		if v, ok := array.ParseFloat(t.cell(r, c)); ok {
			out = append(out, v)
		}
	}
	return out
}

func (t *Table) nonEmpty(op, col string) ([]float64, error) {
	x, err := t.values(op, col)
	if err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, errs.NoValidValues(op, col)
	}
	return x, nil
}

func (t *Table) Mean(col string) (float64, error) {
	x, err := t.nonEmpty("mean", col)
	if err != nil {
		return 0, err
	}
	return stat.Mean(x, nil), nil
}

// Sum of no valid values is 0.
func (t *Table) Sum(col string) (float64, error) {
	x, err := t.values("sum", col)
	if err != nil {
		return 0, err
	}
	return floats.Sum(x), nil
}

// Prod of no valid values is 1.
func (t *Table) Prod(col string) (float64, error) {
	x, err := t.values("prod", col)
	if err != nil {
		return 0, err
	}
	return floats.Prod(x), nil
}

func (t *Table) Min(col string) (float64, error) {
	x, err := t.nonEmpty("min", col)
	if err != nil {
		return 0, err
	}
	return floats.Min(x), nil
}

func (t *Table) Max(col string) (float64, error) {
	x, err := t.nonEmpty("max", col)
	if err != nil {
		return 0, err
	}
	return floats.Max(x), nil
}

// Median averages the two middle values of an even-sized sample.
func (t *Table) Median(col string) (float64, error) {
	x, err := t.nonEmpty("median", col)
	if err != nil {
		return 0, err
	}
	sort.Float64s(x)
	return quantileSorted(x, 0.5), nil
}

// StdDev is the sample standard deviation (n-1 divisor).
func (t *Table) StdDev(col string) (float64, error) {
	v, err := t.variance("std_dev", col)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

func (t *Table) Variance(col string) (float64, error) {
	return t.variance("variance", col)
}

func (t *Table) variance(op, col string) (float64, error) {
	x, err := t.values(op, col)
	if err != nil {
		return 0, err
	}
	if len(x) < 2 {
		return 0, errs.Newf(errs.KindStatistical, op, "%s needs at least 2 valid values, has %d", col, len(x)).
			WithDetail("column", col)
	}
	return stat.Variance(x, nil), nil
}

// Count returns the number of non-null cells.
func (t *Table) Count(col string) (int, error) {
	c, err := t.lookup("count", col)
	if err != nil {
		return 0, err
	}
	return t.nonNull[c], nil
}

// Mode returns the most frequent non-null value of any column type.
// Ties resolve to the smallest value in text order.
func (t *Table) Mode(col string) (string, error) {
	c, err := t.lookup("mode", col)
	if err != nil {
		return "", err
	}
	counts := t.counts(c)
	if len(counts) == 0 {
		return "", errs.NoValidValues("mode", col)
	}
	best, bestN := "", 0
	for _, k := range sortedKeys(counts) {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best, nil
}

// Quantile returns one value per q in qs, interpolating linearly at
// position q*(n-1) of the sorted valid values.
func (t *Table) Quantile(col string, qs ...float64) ([]float64, error) {
	for _, q := range qs {
		if q < 0 || q > 1 || math.IsNaN(q) {
			return nil, errs.Newf(errs.KindStatistical, "quantile", "q=%v outside [0, 1]", q)
		}
	}
	x, err := t.nonEmpty("quantile", col)
	if err != nil {
		return nil, err
	}
	sort.Float64s(x)
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = quantileSorted(x, q)
	}
	return out, nil
}

func quantileSorted(x []float64, q float64) float64 {
	p := q * float64(len(x)-1)
	lo := int(math.Floor(p))
	hi := int(math.Ceil(p))
	if lo == hi {
		return x[lo]
	}
	return x[lo] + (p-float64(lo))*(x[hi]-x[lo])
}

// pairs returns the values of columns a and b on rows where both parse.
func (t *Table) pairs(a, b int) ([]float64, []float64) {
	var xs, ys []float64
	for r := range t.rows {
		x, okx := array.ParseFloat(t.cell(r, a))
		y, oky := array.ParseFloat(t.cell(r, b))
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// Corr returns the Pearson correlation of every unordered pair of numeric
// columns, keyed "a_b" with a before b in column order. Self pairs are 1,
// pairs with fewer than 2 complete rows or zero variance are 0. Names
// containing "_" can produce the same key for two pairs, e.g. ("a_b", "c")
// and ("a", "b_c"); the pair met first in column order keeps the key.
func (t *Table) Corr() map[string]float64 {
	return t.pairwise(func(a, b int) float64 {
		if a == b {
			return 1
		}
		xs, ys := t.pairs(a, b)
		if len(xs) < 2 {
			return 0
		}
		r := stat.Correlation(xs, ys, nil)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return 0
		}
		return r
	})
}

// Cov returns the sample covariance of every unordered pair of numeric
// columns, keyed like Corr. Self pairs are the variance.
func (t *Table) Cov() map[string]float64 {
	return t.pairwise(func(a, b int) float64 {
		xs, ys := t.pairs(a, b)
		if len(xs) < 2 {
			return 0
		}
		return stat.Covariance(xs, ys, nil)
	})
}

func (t *Table) pairwise(f func(a, b int) float64) map[string]float64 {
	cols := t.numericColumns()
	out := make(map[string]float64, len(cols)*(len(cols)+1)/2)
	for i, a := range cols {
		for _, b := range cols[i:] {
			key := t.schema.Name(a) + "_" + t.schema.Name(b)
			if _, taken := out[key]; taken {
				continue
			}
			out[key] = f(a, b)
		}
	}
	return out
}

var describeStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe summarizes every numeric column. The first column, "stat",
// names the row (prefixed with "_" while that name is taken); statistics
// that cannot be computed are NaN.
func (t *Table) Describe() *Table {
	cols := t.numericColumns()
	names := make([]string, 0, len(cols)+1)
	label := "stat"
	for t.HasColumn(label) {
		label = "_" + label
	}
	names = append(names, label)
	for _, c := range cols {
		names = append(names, t.schema.Name(c))
	}
	rows := make([][]string, len(describeStats))
	for i, s := range describeStats {
		rows[i] = make([]string, len(names))
		rows[i][0] = s
	}
	for j, c := range cols {
		name := t.schema.Name(c)
		set := func(i int, v float64, err error) {
			if err != nil {
				v = math.NaN()
			}
			rows[i][j+1] = array.FormatFloat(v)
		}
		rows[0][j+1] = array.FormatInt(int64(len(t.columnFloats(c))))
		v, err := t.Mean(name)
		set(1, v, err)
		v, err = t.StdDev(name)
		set(2, v, err)
		v, err = t.Min(name)
		set(3, v, err)
		q, err := t.Quantile(name, 0.25, 0.5, 0.75)
		for k := 0; k < 3; k++ {
			if err != nil {
				set(4+k, 0, err)
				continue
			}
			set(4+k, q[k], nil)
		}
		v, err = t.Max(name)
		set(7, v, err)
	}
	types := make([]array.Type, len(names))
	types[0] = array.String
	for i := 1; i < len(types); i++ {
		types[i] = array.Float
	}
	schema, _ := array.NewSchema(names)
	return newTable(schema, types, rows)
}
