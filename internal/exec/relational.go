package exec

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"tabula/internal/array"
	"tabula/internal/errs"
	"tabula/internal/expr"
)

// take copies the given rows, in order, into a new table.
func (t *Table) take(order []int) *Table {
	rows := make([][]string, len(order))
	for i, r := range order {
		rows[i] = append([]string(nil), t.rows[r]...)
	}
	return t.derive(rows)
}

func (t *Table) takeMask(mask array.Bitmap) *Table {
	order := make([]int, 0, mask.Count())
	for r := 0; r < mask.Len(); r++ {
		if mask.Get(r) {
			order = append(order, r)
		}
	}
	return t.take(order)
}

// Filter keeps the rows matching e, in their original order.
func (t *Table) Filter(e expr.Expr) (*Table, error) {
	mask, err := e.Eval(t)
	if err != nil {
		return nil, err
	}
	if mask.Len() != len(t.rows) {
		return nil, errs.New(errs.KindSchema, "filter", "mask length mismatch")
	}
	return t.takeMask(mask), nil
}

// FilterRows keeps the rows whose cell in col equals value exactly.
func (t *Table) FilterRows(col, value string) (*Table, error) {
	return t.Filter(expr.Col(col).Match(value))
}

// FilterFunc keeps the rows for which keep returns true. keep receives a
// padded copy of the row.
func (t *Table) FilterFunc(keep func(row []string) bool) *Table {
	order := make([]int, 0, len(t.rows))
	for r := range t.rows {
		if keep(t.paddedRow(r)) {
			order = append(order, r)
		}
	}
	return t.take(order)
}

// Query parses and applies a predicate such as `age >= 30 and city == Oslo`.
func (t *Table) Query(q string) (*Table, error) {
	e, err := expr.Parse(q)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindArgument, "query", q)
	}
	return t.Filter(e)
}

// Slice returns rows [start, end), clamped to the table.
func (t *Table) Slice(start, end int) (*Table, error) {
	if start < 0 || end < start {
		return nil, errs.Newf(errs.KindIndex, "slice", "invalid range [%d, %d)", start, end)
	}
	start = min(start, len(t.rows))
	end = min(end, len(t.rows))
	order := make([]int, end-start)
	for i := range order {
		order[i] = start + i
	}
	return t.take(order), nil
}

func (t *Table) Head(n int) *Table {
	out, _ := t.Slice(0, max(n, 0))
	return out
}

func (t *Table) Tail(n int) *Table {
	n = min(max(n, 0), len(t.rows))
	out, _ := t.Slice(len(t.rows)-n, len(t.rows))
	return out
}

// rowKey encodes the cells at cols so distinct tuples never collide.
func (t *Table) rowKey(r int, cols []int) string {
	var b strings.Builder
	for _, c := range cols {
		encodeKey(&b, t.cell(r, c))
	}
	return b.String()
}

func encodeKey(b *strings.Builder, v string) {
	b.WriteString(strconv.Itoa(len(v)))
	b.WriteByte(':')
	b.WriteString(v)
}

func (t *Table) subsetColumns(op string, subset []string) ([]int, error) {
	if len(subset) == 0 {
		cols := make([]int, t.schema.Len())
		for i := range cols {
			cols[i] = i
		}
		return cols, nil
	}
	return t.lookupAll(op, subset)
}

// Duplicated marks rows whose key over subset (all columns when empty)
// was already seen. With keepFirst the first occurrence is unmarked,
// otherwise the last one is.
func (t *Table) Duplicated(subset []string, keepFirst bool) ([]bool, error) {
	cols, err := t.subsetColumns("duplicated", subset)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(t.rows))
	seen := make(map[string]struct{}, len(t.rows))
	mark := func(r int) {
		k := t.rowKey(r, cols)
		if _, ok := seen[k]; ok {
			out[r] = true
			return
		}
		seen[k] = struct{}{}
	}
	if keepFirst {
		for r := range t.rows {
			mark(r)
		}
	} else {
		for r := len(t.rows) - 1; r >= 0; r-- {
			mark(r)
		}
	}
	return out, nil
}

func (t *Table) DropDuplicates(subset []string, keepFirst bool) (*Table, error) {
	dup, err := t.Duplicated(subset, keepFirst)
	if err != nil {
		return nil, err
	}
	for i := range dup {
		dup[i] = !dup[i]
	}
	return t.takeMask(array.NewBitmapFromBools(dup)), nil
}

// Sample draws n rows uniformly. Without replacement, n >= RowCount returns
// a copy of the whole table. A nil rng uses a randomly seeded source.
func (t *Table) Sample(n int, replace bool, rng *rand.Rand) (*Table, error) {
	if n < 0 {
		return nil, errs.Newf(errs.KindArgument, "sample", "n must be >= 0, got %d", n)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if replace {
		if len(t.rows) == 0 {
			return t.EmptyLike(), nil
		}
		order := make([]int, n)
		for i := range order {
			order[i] = rng.IntN(len(t.rows))
		}
		return t.take(order), nil
	}
	if n >= len(t.rows) {
		return t.Copy(), nil
	}
	return t.take(rng.Perm(len(t.rows))[:n]), nil
}

type rankedValue struct {
	row int
	v   float64
}

// numericValues returns the parseable cells of column c with their rows.
func (t *Table) numericValues(c int) []rankedValue {
	out := make([]rankedValue, 0, t.nonNull[c])
	for r := range t.rows {
		if v, ok := array.ParseFloat(t.cell(r, c)); ok {
			out = append(out, rankedValue{row: r, v: v})
		}
	}
	return out
}

// NLargest returns the n rows with the largest numeric values in col.
// Null and unparseable cells are skipped; ties keep row order.
func (t *Table) NLargest(n int, col string) (*Table, error) {
	return t.nExtreme("nlargest", n, col, true)
}

func (t *Table) NSmallest(n int, col string) (*Table, error) {
	return t.nExtreme("nsmallest", n, col, false)
}

func (t *Table) nExtreme(op string, n int, col string, desc bool) (*Table, error) {
	c, err := t.lookup(op, col)
	if err != nil {
		return nil, err
	}
	vals := t.numericValues(c)
	sort.SliceStable(vals, func(i, j int) bool {
		if desc {
			return vals[i].v > vals[j].v
		}
		return vals[i].v < vals[j].v
	})
	n = min(max(n, 0), len(vals))
	order := make([]int, n)
	for i := range order {
		order[i] = vals[i].row
	}
	return t.take(order), nil
}

// Unique returns the distinct non-null values of col in ascending text order.
func (t *Table) Unique(col string) ([]string, error) {
	c, err := t.lookup("unique", col)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for r := range t.rows {
		if v := t.cell(r, c); v != "" {
			seen[v] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func (t *Table) NUnique(col string) (int, error) {
	u, err := t.Unique(col)
	return len(u), err
}

// ValueCounts returns a two-column table (col, count) of the non-null
// values of col, most frequent first, ties in ascending text order.
func (t *Table) ValueCounts(col string) (*Table, error) {
	c, err := t.lookup("value_counts", col)
	if err != nil {
		return nil, err
	}
	counts := t.counts(c)
	keys := sortedKeys(counts)
	sort.SliceStable(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })
	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, strconv.Itoa(counts[k])}
	}
	return New([]string{col, "count"}, rows)
}

func (t *Table) counts(c int) map[string]int {
	out := make(map[string]int)
	for r := range t.rows {
		if v := t.cell(r, c); v != "" {
			out[v]++
		}
	}
	return out
}

// Reindex builds a table from the given row positions. Positions outside
// the table produce all-null rows.
func (t *Table) Reindex(indices []int) *Table {
	rows := make([][]string, len(indices))
	for i, r := range indices {
		if r < 0 || r >= len(t.rows) {
			rows[i] = []string{}
			continue
		}
		rows[i] = append([]string(nil), t.rows[r]...)
	}
	return t.derive(rows)
}

// ResetIndex inserts an "index" column holding row positions at position 0,
// or returns a plain copy when drop is set.
func (t *Table) ResetIndex(drop bool) (*Table, error) {
	out := t.Copy()
	if drop {
		return out, nil
	}
	idx := make([]string, len(t.rows))
	for i := range idx {
		idx[i] = strconv.Itoa(i)
	}
	if err := out.InsertColumn(0, "index", idx); err != nil {
		return nil, err
	}
	return out, nil
}
