package exec

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tabula/internal/array"
	"tabula/internal/errs"
)

// Window results hold one value per row. NaN marks an undefined result.
// Null and unparseable cells are holes: they occupy their row but never
// enter a computation.

// series returns every row of a numeric column with a validity flag.
func (t *Table) series(op, col string) ([]float64, []bool, error) {
	c, err := t.lookup(op, col)
	if err != nil {
		return nil, nil, err
	}
	if t.types[c] == array.String {
		return nil, nil, errs.NumericRequired(op, col)
	}
	vals := make([]float64, len(t.rows))
	valid := make([]bool, len(t.rows))
	for r := range t.rows {
		vals[r], valid[r] = array.ParseFloat(t.cell(r, c))
	}
	return vals, valid, nil
}

func (t *Table) rolling(op, col string, window int, f func(x []float64) float64) ([]float64, error) {
	if window <= 0 {
		return nil, errs.Newf(errs.KindArgument, op, "window must be > 0, got %d", window)
	}
	vals, valid, err := t.series(op, col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	buf := make([]float64, 0, window)
	for i := range vals {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		buf = buf[:0]
		for j := i - window + 1; j <= i; j++ {
			if valid[j] {
				buf = append(buf, vals[j])
			}
		}
		out[i] = f(buf)
	}
	return out, nil
}

// RollingMean averages the valid values of each trailing window; a window
// without valid values is NaN.
func (t *Table) RollingMean(col string, window int) ([]float64, error) {
	return t.rolling("rolling_mean", col, window, func(x []float64) float64 {
		if len(x) == 0 {
			return math.NaN()
		}
		return stat.Mean(x, nil)
	})
}

// RollingSum adds the valid values of each trailing window; holes count as 0.
func (t *Table) RollingSum(col string, window int) ([]float64, error) {
	return t.rolling("rolling_sum", col, window, floats.Sum)
}

// RollingStd is the sample standard deviation of each trailing window; it
// needs two valid values.
func (t *Table) RollingStd(col string, window int) ([]float64, error) {
	return t.rolling("rolling_std", col, window, func(x []float64) float64 {
		if len(x) < 2 {
			return math.NaN()
		}
		return stat.StdDev(x, nil)
	})
}

// ExpandingMean is the running mean of all valid values so far.
func (t *Table) ExpandingMean(col string) ([]float64, error) {
	vals, valid, err := t.series("expanding_mean", col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	sum, n := 0.0, 0
	for i := range vals {
		if valid[i] {
			sum += vals[i]
			n++
		}
		if n == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out, nil
}

func (t *Table) cumulative(op, col string, start float64, step func(acc, v float64) float64) ([]float64, error) {
	vals, valid, err := t.series(op, col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	acc := start
	for i := range vals {
		if valid[i] {
			acc = step(acc, vals[i])
		}
		out[i] = acc
	}
	return out, nil
}

// CumSum is the running total; holes repeat the previous total.
func (t *Table) CumSum(col string) ([]float64, error) {
	return t.cumulative("cumsum", col, 0, func(acc, v float64) float64 { return acc + v })
}

// CumProd is the running product starting at 1.
func (t *Table) CumProd(col string) ([]float64, error) {
	return t.cumulative("cumprod", col, 1, func(acc, v float64) float64 { return acc * v })
}

// CumMax and CumMin are NaN until the first valid value.
func (t *Table) CumMax(col string) ([]float64, error) {
	return t.cumulative("cummax", col, math.NaN(), func(acc, v float64) float64 {
		if math.IsNaN(acc) || v > acc {
			return v
		}
		return acc
	})
}

func (t *Table) CumMin(col string) ([]float64, error) {
	return t.cumulative("cummin", col, math.NaN(), func(acc, v float64) float64 {
		if math.IsNaN(acc) || v < acc {
			return v
		}
		return acc
	})
}

// PctChange is (v[i] - v[i-periods]) / v[i-periods]. It is NaN when the
// earlier row does not exist, either side is a hole, or the earlier value is 0.
func (t *Table) PctChange(col string, periods int) ([]float64, error) {
	if periods <= 0 {
		return nil, errs.Newf(errs.KindArgument, "pct_change", "periods must be > 0, got %d", periods)
	}
	vals, valid, err := t.series("pct_change", col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i := range vals {
		j := i - periods
		if j < 0 || !valid[i] || !valid[j] || vals[j] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (vals[i] - vals[j]) / vals[j]
	}
	return out, nil
}

// AddSeries appends a computed result as a column. NaN is written as the
// "NaN" sentinel.
func (t *Table) AddSeries(name string, values []float64) error {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = array.FormatFloat(v)
	}
	return t.insertColumn("add_series", t.schema.Len(), name, array.Float, cells)
}
