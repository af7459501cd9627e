package exec

import (
	"fmt"
	"sort"
	"strings"

	"tabula/internal/array"
	"tabula/internal/errs"
)

// sortKey holds one key column prepared for comparison.
type sortKey struct {
	numeric bool
	nums    []float64
	text    []string
	null    []bool
	desc    bool
}

func (t *Table) sortKey(c int, desc bool) sortKey {
	k := sortKey{numeric: t.types[c].Numeric(), desc: desc, null: make([]bool, len(t.rows))}
	if k.numeric {
		k.nums = make([]float64, len(t.rows))
	} else {
		k.text = make([]string, len(t.rows))
	}
	for r := range t.rows {
		v := t.cell(r, c)
		if k.numeric {
			f, ok := array.ParseFloat(v)
			k.nums[r] = f
			k.null[r] = !ok
			continue
		}
		k.text[r] = v
		k.null[r] = v == ""
	}
	return k
}

func (k sortKey) compare(a, b int) int {
	var ord int
	if k.numeric {
		ord = compareFloat64(k.nums[a], k.nums[b], k.desc)
	} else {
		ord = strings.Compare(k.text[a], k.text[b])
		if k.desc {
			ord = -ord
		}
	}
	return compareNullAware(k.null[a], k.null[b], ord)
}

// compareNullAware orders nulls last regardless of direction.
func compareNullAware(aNull, bNull bool, ord int) int {
	if aNull && bNull {
		return 0
	}
	if aNull {
		return 1
	}
	if bNull {
		return -1
	}
	return ord
}

func compareFloat64(a, b float64, desc bool) int {
	if a < b {
		if desc {
			return 1
		}
		return -1
	}
	if a > b {
		if desc {
			return -1
		}
		return 1
	}
	return 0
}

// sortOrder returns row positions ordered by keys, ties in original order.
func (t *Table) sortOrder(op string, keys []string, ascending []bool) ([]int, error) {
	if len(keys) == 0 {
		return nil, errs.New(errs.KindArgument, op, "at least one key required")
	}
	if len(ascending) != 1 && len(ascending) != len(keys) {
		return nil, errs.Wrap(errs.ErrSizeMismatch, errs.KindArgument, op,
			fmt.Sprintf("ascending needs 1 or %d values got %d", len(keys), len(ascending)))
	}
	cols, err := t.lookupAll(op, keys)
	if err != nil {
		return nil, err
	}
	prepared := make([]sortKey, len(cols))
	for i, c := range cols {
		asc := ascending[0]
		if len(ascending) == len(keys) {
			asc = ascending[i]
		}
		prepared[i] = t.sortKey(c, !asc)
	}
	order := make([]int, len(t.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		for k := range prepared {
			if o := prepared[k].compare(a, b); o != 0 {
				return o < 0
			}
		}
		return a < b
	})
	return order, nil
}

// SortValues returns a copy sorted by keys. ascending holds one flag for
// every key or a single flag for all of them. INT and FLOAT keys compare
// numerically, STRING keys by text. Nulls sort last and the sort is stable.
func (t *Table) SortValues(keys []string, ascending []bool) (*Table, error) {
	order, err := t.sortOrder("sort_values", keys, ascending)
	if err != nil {
		return nil, err
	}
	return t.take(order), nil
}

// SortValuesInPlace is SortValues applied to t itself.
func (t *Table) SortValuesInPlace(keys []string, ascending []bool) error {
	order, err := t.sortOrder("sort_values", keys, ascending)
	if err != nil {
		return err
	}
	rows := make([][]string, len(order))
	for i, r := range order {
		rows[i] = t.rows[r]
	}
	t.rows = rows
	t.Refresh()
	return nil
}

// RankMethod selects how tied values are ranked.
type RankMethod uint8

const (
	// RankFirst gives tied values distinct sequential ranks in row order.
	RankFirst RankMethod = iota
	// RankAverage gives tied values the mean of the ranks they span.
	RankAverage
)

func ParseRankMethod(s string) (RankMethod, error) {
	switch s {
	case "", "first":
		return RankFirst, nil
	case "average":
		return RankAverage, nil
	default:
		return 0, errs.Newf(errs.KindArgument, "rank", "unknown method %q", s)
	}
}

// Rank returns a copy with a "<col>_rank" column holding the ascending rank
// of each numeric value. Null and unparseable cells get a null rank.
func (t *Table) Rank(col string, method RankMethod) (*Table, error) {
	c, err := t.lookup("rank", col)
	if err != nil {
		return nil, err
	}
	if t.types[c] == array.String {
		return nil, errs.NumericRequired("rank", col)
	}
	vals := t.numericValues(c)
	sort.SliceStable(vals, func(i, j int) bool { return vals[i].v < vals[j].v })

	ranks := make([]string, len(t.rows))
	for i := 0; i < len(vals); {
		j := i
		if method == RankAverage {
			for j+1 < len(vals) && vals[j+1].v == vals[i].v {
				j++
			}
		}
		// Positions i..j share a value; their 1-based ranks are i+1..j+1.
		for k := i; k <= j; k++ {
			if method == RankAverage {
				ranks[vals[k].row] = array.FormatFloat(float64(i+j+2) / 2)
			} else {
				ranks[vals[k].row] = array.FormatInt(int64(k + 1))
			}
		}
		i = j + 1
	}
	out := t.Copy()
	if err := out.AddColumn(col+"_rank", ranks); err != nil {
		return nil, err
	}
	return out, nil
}
