package exec

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tabula/internal/array"
	"tabula/internal/errs"
)

// GroupBy partitions a table's rows by the exact text of its key columns.
// Groups keep first-seen key order; every row belongs to exactly one group.
type GroupBy struct {
	t       *Table
	keys    []string
	keyCols []int
	groupKV [][]string
	rows    [][]int
	index   map[string]int
}

func (t *Table) GroupBy(keys ...string) (*GroupBy, error) {
	if len(keys) == 0 {
		return nil, errs.New(errs.KindArgument, "groupby", "at least one key required")
	}
	cols, err := t.lookupAll("groupby", keys)
	if err != nil {
		return nil, err
	}
	g := &GroupBy{t: t, keys: append([]string(nil), keys...), keyCols: cols, index: make(map[string]int)}
	for r := range t.rows {
		k := t.rowKey(r, cols)
		gi, ok := g.index[k]
		if !ok {
			gi = len(g.rows)
			g.index[k] = gi
			kv := make([]string, len(cols))
			for i, c := range cols {
				kv[i] = t.cell(r, c)
			}
			g.groupKV = append(g.groupKV, kv)
			g.rows = append(g.rows, nil)
		}
		g.rows[gi] = append(g.rows[gi], r)
	}
	return g, nil
}

func (g *GroupBy) Keys() []string { return append([]string(nil), g.keys...) }

// Len returns the number of groups.
func (g *GroupBy) Len() int { return len(g.rows) }

// Group is one partition: its key values and its rows as a table.
type Group struct {
	Key   []string
	Table *Table
}

func (g *GroupBy) Groups() []Group {
	out := make([]Group, len(g.rows))
	for i := range g.rows {
		out[i] = Group{Key: append([]string(nil), g.groupKV[i]...), Table: g.t.take(g.rows[i])}
	}
	return out
}

// Group returns the rows whose keys equal key, in key order.
func (g *GroupBy) Group(key ...string) (*Table, bool) {
	if len(key) != len(g.keyCols) {
		return nil, false
	}
	var b strings.Builder
	for _, v := range key {
		encodeKey(&b, v)
	}
	gi, ok := g.index[b.String()]
	if !ok {
		return nil, false
	}
	return g.t.take(g.rows[gi]), true
}

type AggFunc uint8

const (
	AggInvalid AggFunc = iota
	AggCount
	AggSum
	AggMean
	AggMin
	AggMax
	AggStd
	AggMedian
)

func (f AggFunc) String() string {
	switch f {
	case AggCount:
		return "count"
	case AggSum:
		return "sum"
	case AggMean:
		return "mean"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggStd:
		return "std"
	case AggMedian:
		return "median"
	default:
		return "invalid"
	}
}

func ParseAggFunc(s string) (AggFunc, error) {
	for f := AggCount; f <= AggMedian; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return AggInvalid, errs.Newf(errs.KindArgument, "agg", "unknown function %q", s)
}

// reduce applies a numeric aggregation to the valid values of a group.
func reduce(f AggFunc, x []float64) (float64, error) {
	switch f {
	case AggCount:
		return float64(len(x)), nil
	case AggSum:
		return floats.Sum(x), nil
	}
	if len(x) == 0 {
		return 0, errs.ErrNoValidValues
	}
	switch f {
	case AggMean:
		return stat.Mean(x, nil), nil
	case AggMin:
		return floats.Min(x), nil
	case AggMax:
		return floats.Max(x), nil
	case AggMedian:
		sorted := append([]float64(nil), x...)
		sort.Float64s(sorted)
		return quantileSorted(sorted, 0.5), nil
	case AggStd:
		if len(x) < 2 {
			return 0, errs.ErrNoValidValues
		}
		return stat.StdDev(x, nil), nil
	default:
		return 0, errs.Newf(errs.KindArgument, "agg", "invalid function %d", f)
	}
}

type AggSpec struct {
	Col   string
	Func  AggFunc
	Alias string
}

// Count returns one row per group with a "count" column of group sizes.
func (g *GroupBy) Count() (*Table, error) {
	return g.Agg(AggSpec{Func: AggCount, Alias: "count"})
}

// Agg computes one or more aggregations per group. The result has the key
// columns followed by one column per AggSpec, named Alias or "<col>_<func>".
// Count without a column counts rows; with a column it counts non-null
// cells. Groups whose computation fails get NaN.
func (g *GroupBy) Agg(specs ...AggSpec) (*Table, error) {
	if len(specs) == 0 {
		return nil, errs.New(errs.KindArgument, "agg", "at least one aggregation required")
	}
	resolved, names, err := g.resolveAggs(specs)
	if err != nil {
		return nil, err
	}
	for gi := range g.rows {
		for i := range resolved {
			resolved[i].newGroup()
		}
		for _, r := range g.rows[gi] {
			for i := range resolved {
				resolved[i].observe(gi, r)
			}
		}
	}
	outNames := append(g.Keys(), names...)
	schema, err := array.NewSchema(outNames)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSchema, "agg", "")
	}
	rows := make([][]string, len(g.rows))
	for gi := range rows {
		row := append([]string(nil), g.groupKV[gi]...)
		for i := range resolved {
			row = append(row, resolved[i].result(gi))
		}
		rows[gi] = row
	}
	types := make([]array.Type, len(outNames))
	for i, c := range g.keyCols {
		types[i] = g.t.types[c]
	}
	return newTable(schema, types, rows), nil
}

type aggResolved interface {
	newGroup()
	observe(groupIdx int, row int)
	result(groupIdx int) string
}

func (g *GroupBy) resolveAggs(specs []AggSpec) ([]aggResolved, []string, error) {
	seenAlias := map[string]struct{}{}
	out := make([]aggResolved, 0, len(specs))
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		if s.Func == AggInvalid || s.Func > AggMedian {
			return nil, nil, errs.New(errs.KindArgument, "agg", "invalid agg func")
		}
		alias := s.Alias
		if alias == "" {
			if s.Col == "" {
				alias = s.Func.String()
			} else {
				alias = s.Col + "_" + s.Func.String()
			}
		}
		if _, ok := seenAlias[alias]; ok {
			return nil, nil, errs.Newf(errs.KindSchema, "agg", "duplicate agg output %s", alias)
		}
		seenAlias[alias] = struct{}{}
		names = append(names, alias)

		if s.Col == "" {
			if s.Func != AggCount {
				return nil, nil, errs.Newf(errs.KindArgument, "agg", "%s requires a column", s.Func)
			}
			out = append(out, &aggRowCount{})
			continue
		}
		c, err := g.t.lookup("agg", s.Col)
		if err != nil {
			return nil, nil, err
		}
		if s.Func == AggCount {
			out = append(out, &aggNonNull{t: g.t, col: c})
			continue
		}
		if g.t.types[c] == array.String {
			return nil, nil, errs.NumericRequired("agg", s.Col)
		}
		out = append(out, &aggNumeric{t: g.t, col: c, fn: s.Func})
	}
	return out, names, nil
}

type aggRowCount struct {
	counts []int
}

func (a *aggRowCount) newGroup()                 { a.counts = append(a.counts, 0) }
func (a *aggRowCount) observe(groupIdx int, _ int) { a.counts[groupIdx]++ }
func (a *aggRowCount) result(groupIdx int) string {
	return strconv.Itoa(a.counts[groupIdx])
}

type aggNonNull struct {
	t      *Table
	col    int
	counts []int
}

func (a *aggNonNull) newGroup() { a.counts = append(a.counts, 0) }
func (a *aggNonNull) observe(groupIdx int, row int) {
	if a.t.cell(row, a.col) != "" {
		a.counts[groupIdx]++
	}
}
func (a *aggNonNull) result(groupIdx int) string {
	return strconv.Itoa(a.counts[groupIdx])
}

type aggNumeric struct {
	t    *Table
	col  int
	fn   AggFunc
	vals [][]float64
}

func (a *aggNumeric) newGroup() { a.vals = append(a.vals, nil) }
func (a *aggNumeric) observe(groupIdx int, row int) {
	if v, ok := array.ParseFloat(a.t.cell(row, a.col)); ok {
		a.vals[groupIdx] = append(a.vals[groupIdx], v)
	}
}
func (a *aggNumeric) result(groupIdx int) string {
	v, err := reduce(a.fn, a.vals[groupIdx])
	if err != nil {
		return array.NaN
	}
	return array.FormatFloat(v)
}

// Aggregate computes each listed function over the whole table and returns
// a single row with columns "<col>_<func>", ordered by column name and then
// by the order the functions are listed. A computation that fails yields
// "NaN" instead of an error; only unknown columns fail.
func (t *Table) Aggregate(funcs map[string][]AggFunc) (*Table, error) {
	var names, row []string
	for _, col := range sortedKeys(funcs) {
		c, err := t.lookup("aggregate", col)
		if err != nil {
			return nil, err
		}
		for _, f := range funcs[col] {
			names = append(names, col+"_"+f.String())
			row = append(row, t.aggregateOne(c, f))
		}
	}
	schema, err := array.NewSchema(names)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSchema, "aggregate", "")
	}
	return newTable(schema, make([]array.Type, len(names)), [][]string{row}), nil
}

func (t *Table) aggregateOne(c int, f AggFunc) string {
	if f == AggCount {
		return strconv.Itoa(t.nonNull[c])
	}
	if t.types[c] == array.String {
		return array.NaN
	}
	v, err := reduce(f, t.columnFloats(c))
	if err != nil || math.IsNaN(v) {
		return array.NaN
	}
	return array.FormatFloat(v)
}
