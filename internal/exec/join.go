package exec

import (
	"fmt"

	"go.uber.org/zap"

	"tabula/internal/array"
	"tabula/internal/errs"
	"tabula/internal/logger"
)

// JoinHow selects which unmatched rows a join keeps.
type JoinHow string

const (
	JoinInner JoinHow = "inner"
	JoinLeft  JoinHow = "left"
)

func (h JoinHow) valid() bool { return h == JoinInner || h == JoinLeft }

// Merge joins rows whose key columns in on hold equal text in both tables.
// Every matching pair is emitted, so duplicate keys multiply. With
// JoinLeft an unmatched left row is kept once with null right cells.
//
// The result has all left columns followed by the right non-key columns;
// a right name that collides with a left one gets a "_right" suffix.
func (t *Table) Merge(other *Table, on []string, how JoinHow) (*Table, error) {
	return t.merge("merge", other, on, on, how)
}

// MergeOn is Merge with differently named key columns.
func (t *Table) MergeOn(other *Table, leftKey, rightKey string, how JoinHow) (*Table, error) {
	return t.merge("merge", other, []string{leftKey}, []string{rightKey}, how)
}

func (t *Table) merge(op string, other *Table, leftKeys, rightKeys []string, how JoinHow) (*Table, error) {
	if !how.valid() {
		return nil, errs.Newf(errs.KindArgument, op, "unknown join type %q", how)
	}
	if len(leftKeys) == 0 {
		return nil, errs.New(errs.KindArgument, op, "at least one key required")
	}
	lk, err := t.lookupAll(op, leftKeys)
	if err != nil {
		return nil, err
	}
	rk, err := other.lookupAll(op, rightKeys)
	if err != nil {
		return nil, err
	}

	isKey := make(map[int]struct{}, len(rk))
	for _, c := range rk {
		isKey[c] = struct{}{}
	}
	schema := t.schema.Clone()
	types := append([]array.Type(nil), t.types...)
	var rightCols []int
	for c := 0; c < other.schema.Len(); c++ {
		if _, ok := isKey[c]; ok {
			continue
		}
		name := other.schema.Name(c)
		for hasName(schema, name) {
			name += "_right"
		}
		if err := schema.Insert(schema.Len(), name); err != nil {
			return nil, errs.Wrap(err, errs.KindSchema, op, name)
		}
		types = append(types, other.types[c])
		rightCols = append(rightCols, c)
	}

	var rows [][]string
	for l := range t.rows {
		matched := false
		for r := range other.rows {
			if !keysEqual(t, l, lk, other, r, rk) {
				continue
			}
			matched = true
			rows = append(rows, joinRow(t, l, other, r, rightCols))
		}
		if !matched && how == JoinLeft {
			rows = append(rows, joinRow(t, l, other, -1, rightCols))
		}
	}
	logger.Debug("merged tables",
		zap.Strings("left_keys", leftKeys),
		zap.Strings("right_keys", rightKeys),
		zap.String("how", string(how)),
		zap.Int("rows", len(rows)))
	return newTable(schema, types, rows), nil
}

func hasName(s array.Schema, name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

func keysEqual(a *Table, ar int, ac []int, b *Table, br int, bc []int) bool {
	for i := range ac {
		if a.cell(ar, ac[i]) != b.cell(br, bc[i]) {
			return false
		}
	}
	return true
}

// joinRow concatenates left row l with the given cells of right row r;
// r < 0 pads with nulls.
func joinRow(left *Table, l int, right *Table, r int, rightCols []int) []string {
	row := left.paddedRow(l)
	for _, c := range rightCols {
		if r < 0 {
			row = append(row, "")
			continue
		}
		row = append(row, right.cell(r, c))
	}
	return row
}

// Concat stacks tables vertically (axis 0) or side by side (axis 1).
// Axis 0 needs identical column lists and appends rows in input order;
// axis 1 needs equal row counts and unique column names. Tables carry no
// row labels, so ignoreIndex has no effect on the cells; it is accepted so
// callers can state intent.
func Concat(tables []*Table, axis int, ignoreIndex bool) (*Table, error) {
	if len(tables) == 0 {
		return Empty(), nil
	}
	first := tables[0]
	switch axis {
	case 0:
		types := first.Types()
		var rows [][]string
		for i, tb := range tables {
			if !sameColumns(first, tb) {
				return nil, errs.Newf(errs.KindSchema, "concat", "table %d columns differ", i)
			}
			for c := range types {
				types[c] = array.Widen(types[c], tb.types[c])
			}
			for r := range tb.rows {
				rows = append(rows, append([]string(nil), tb.rows[r]...))
			}
		}
		return newTable(first.schema.Clone(), types, rows), nil
	case 1:
		schema := first.schema.Clone()
		types := first.Types()
		for i, tb := range tables[1:] {
			if len(tb.rows) != len(first.rows) {
				return nil, errs.Wrap(errs.ErrShapeMismatch, errs.KindSchema, "concat",
					fmt.Sprintf("table %d has %d rows, want %d", i+1, len(tb.rows), len(first.rows)))
			}
			for c := 0; c < tb.schema.Len(); c++ {
				if err := schema.Insert(schema.Len(), tb.schema.Name(c)); err != nil {
					return nil, errs.Wrap(err, errs.KindSchema, "concat", "")
				}
			}
			types = append(types, tb.types...)
		}
		rows := make([][]string, len(first.rows))
		for r := range rows {
			row := make([]string, 0, schema.Len())
			for _, tb := range tables {
				row = append(row, tb.paddedRow(r)...)
			}
			rows[r] = row
		}
		return newTable(schema, types, rows), nil
	default:
		return nil, errs.Newf(errs.KindArgument, "concat", "axis must be 0 or 1, got %d", axis)
	}
}

func sameColumns(a, b *Table) bool {
	if a.schema.Len() != b.schema.Len() {
		return false
	}
	for c := 0; c < a.schema.Len(); c++ {
		if a.schema.Name(c) != b.schema.Name(c) {
			return false
		}
	}
	return true
}

// Join pairs rows by position. JoinLeft keeps every left row and pads
// missing right rows with nulls; JoinInner stops at the shorter table.
// Column names must not collide.
func (t *Table) Join(other *Table, how JoinHow) (*Table, error) {
	if !how.valid() {
		return nil, errs.Newf(errs.KindArgument, "join", "unknown join type %q", how)
	}
	schema := t.schema.Clone()
	for c := 0; c < other.schema.Len(); c++ {
		if err := schema.Insert(schema.Len(), other.schema.Name(c)); err != nil {
			return nil, errs.Wrap(err, errs.KindSchema, "join", "")
		}
	}
	n := len(t.rows)
	if how == JoinInner {
		n = min(n, len(other.rows))
	}
	all := make([]int, other.schema.Len())
	for i := range all {
		all[i] = i
	}
	rows := make([][]string, n)
	for r := range rows {
		rr := r
		if r >= len(other.rows) {
			rr = -1
		}
		rows[r] = joinRow(t, r, other, rr, all)
	}
	types := append(t.Types(), other.types...)
	return newTable(schema, types, rows), nil
}
