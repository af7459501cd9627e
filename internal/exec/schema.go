package exec

import (
	"math"
	"sort"

	"tabula/internal/array"
	"tabula/internal/errs"
)

// AddColumn appends a column. len(values) must equal the row count.
func (t *Table) AddColumn(name string, values []string) error {
	return t.insertColumn("add_column", t.schema.Len(), name, array.Int, values)
}

// InsertColumn places a column at pos in [0, ColumnCount()].
func (t *Table) InsertColumn(pos int, name string, values []string) error {
	return t.insertColumn("insert_column", pos, name, array.Int, values)
}

func (t *Table) insertColumn(op string, pos int, name string, typ array.Type, values []string) error {
	if pos < 0 || pos > t.schema.Len() {
		return errs.OutOfRange(op, "position", pos, t.schema.Len()+1)
	}
	if len(values) != len(t.rows) {
		return errs.SizeMismatch(op, len(t.rows), len(values))
	}
	width := t.schema.Len()
	if err := t.schema.Insert(pos, name); err != nil {
		return errs.Wrap(err, errs.KindSchema, op, name)
	}
	t.types = append(t.types, 0)
	copy(t.types[pos+1:], t.types[pos:])
	t.types[pos] = typ
	for r, row := range t.rows {
		if len(row) < width {
			row = append(row, make([]string, width-len(row))...)
		}
		row = append(row, "")
		copy(row[pos+1:], row[pos:])
		row[pos] = values[r]
		t.rows[r] = row
	}
	t.Refresh()
	return nil
}

func (t *Table) DropColumn(name string) error {
	c, err := t.lookup("drop_column", name)
	if err != nil {
		return err
	}
	t.schema.Remove(c)
	t.types = append(t.types[:c], t.types[c+1:]...)
	for r, row := range t.rows {
		if c < len(row) {
			t.rows[r] = append(row[:c], row[c+1:]...)
		}
	}
	t.Refresh()
	return nil
}

func (t *Table) RenameColumn(oldName, newName string) error {
	if _, err := t.lookup("rename_column", oldName); err != nil {
		return err
	}
	if err := t.schema.Rename(oldName, newName); err != nil {
		return errs.Wrap(err, errs.KindSchema, "rename_column", newName)
	}
	t.Refresh()
	return nil
}

// SetColumn replaces every cell of an existing column.
func (t *Table) SetColumn(name string, values []string) error {
	c, err := t.lookup("set_column", name)
	if err != nil {
		return err
	}
	if len(values) != len(t.rows) {
		return errs.SizeMismatch("set_column", len(t.rows), len(values))
	}
	for r := range t.rows {
		t.setCell(r, c, values[r])
	}
	t.Refresh()
	return nil
}

func (t *Table) SetCell(r int, name string, v string) error {
	c, err := t.lookup("set_cell", name)
	if err != nil {
		return err
	}
	if r < 0 || r >= len(t.rows) {
		return errs.OutOfRange("set_cell", "row", r, len(t.rows))
	}
	t.setCell(r, c, v)
	t.Refresh()
	return nil
}

// setCell writes without refreshing; callers refresh once when done.
func (t *Table) setCell(r, c int, v string) {
	row := t.rows[r]
	if c >= len(row) {
		if v == "" {
			return
		}
		row = append(row, make([]string, c+1-len(row))...)
		t.rows[r] = row
	}
	row[c] = v
}

// AppendRow adds a row. A short row is padded with nulls.
func (t *Table) AppendRow(row []string) error {
	if len(row) > t.schema.Len() {
		return errs.SizeMismatch("append_row", t.schema.Len(), len(row))
	}
	t.rows = append(t.rows, append([]string(nil), row...))
	t.Refresh()
	return nil
}

func (t *Table) DropRow(r int) error {
	if r < 0 || r >= len(t.rows) {
		return errs.OutOfRange("drop_row", "row", r, len(t.rows))
	}
	t.rows = append(t.rows[:r], t.rows[r+1:]...)
	t.Refresh()
	return nil
}

// DropRows removes every listed row. Duplicates are ignored; any index out
// of range fails the whole call before anything is removed.
func (t *Table) DropRows(indices []int) error {
	drop := make(map[int]struct{}, len(indices))
	for _, r := range indices {
		if r < 0 || r >= len(t.rows) {
			return errs.OutOfRange("drop_rows", "row", r, len(t.rows))
		}
		drop[r] = struct{}{}
	}
	kept := t.rows[:0]
	for r, row := range t.rows {
		if _, ok := drop[r]; !ok {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	t.Refresh()
	return nil
}

// AsType converts a column's cells to typ. INT truncates parsed numbers
// toward zero, FLOAT writes integral values with a ".0" suffix and STRING
// keeps the text. Cells that do not parse as numbers become null. A
// STRING column that still reads as numeric is re-inferred on refresh.
func (t *Table) AsType(name string, typ array.Type) error {
	c, err := t.lookup("astype", name)
	if err != nil {
		return err
	}
	for r := range t.rows {
		v := t.cell(r, c)
		if v == "" {
			continue
		}
		switch typ {
		case array.Int:
			f, ok := array.ParseFloat(v)
			if !ok || f > math.MaxInt64 || f < math.MinInt64 {
				t.setCell(r, c, "")
				continue
			}
			if i, ok := array.ParseInt(v); ok {
				t.setCell(r, c, array.FormatInt(i))
				continue
			}
			t.setCell(r, c, array.FormatInt(int64(f)))
		case array.Float:
			if _, ok := array.ParseFloat(v); !ok {
				t.setCell(r, c, "")
				continue
			}
			t.setCell(r, c, array.AsFloatText(v))
		}
	}
	t.types[c] = typ
	t.Refresh()
	return nil
}

// Select returns a new table with only the named columns, in that order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols, err := t.lookupAll("select", names)
	if err != nil {
		return nil, err
	}
	return t.project("select", names, cols)
}

func (t *Table) project(op string, names []string, cols []int) (*Table, error) {
	schema, err := array.NewSchema(names)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSchema, op, "")
	}
	types := make([]array.Type, len(cols))
	for i, c := range cols {
		types[i] = t.types[c]
	}
	rows := make([][]string, len(t.rows))
	for r := range t.rows {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = t.cell(r, c)
		}
		rows[r] = out
	}
	return newTable(schema, types, rows), nil
}

// Drop returns a new table without the named columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	skip := make(map[int]struct{}, len(names))
	for _, n := range names {
		c, err := t.lookup("drop", n)
		if err != nil {
			return nil, err
		}
		skip[c] = struct{}{}
	}
	keep := make([]int, 0, t.schema.Len())
	keepNames := make([]string, 0, t.schema.Len())
	for c := 0; c < t.schema.Len(); c++ {
		if _, ok := skip[c]; ok {
			continue
		}
		keep = append(keep, c)
		keepNames = append(keepNames, t.schema.Name(c))
	}
	return t.project("drop", keepNames, keep)
}

// numericColumns returns the positions of INT and FLOAT columns in order.
func (t *Table) numericColumns() []int {
	out := []int{}
	for c, typ := range t.types {
		if typ.Numeric() {
			out = append(out, c)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
