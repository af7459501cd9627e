package exec

import (
	"tabula/internal/array"
	"tabula/internal/errs"
)

// Table is a rectangular set of text cells with ordered, uniquely named
// columns. An empty cell is null.
//
// Rows may be shorter than the column list; missing trailing cells read as
// null. Column types, non-null counts and null row lists are derived from
// the cells and recomputed by Refresh after every mutation.
type Table struct {
	schema   array.Schema
	types    []array.Type
	rows     [][]string
	nonNull  []int
	nullRows [][]int
}

// New builds a table from column names and rows. Every column starts as
// INT so that an all-null column stays INT. Rows are copied.
func New(columns []string, rows [][]string) (*Table, error) {
	types := make([]array.Type, len(columns))
	return NewTyped(columns, types, rows)
}

// NewTyped is New with explicit starting types. Inference still widens or
// narrows every column that has at least one non-null cell.
func NewTyped(columns []string, types []array.Type, rows [][]string) (*Table, error) {
	schema, err := array.NewSchema(columns)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSchema, "new", "")
	}
	if len(types) != len(columns) {
		return nil, errs.SizeMismatch("new", len(columns), len(types))
	}
	owned := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) > len(columns) {
			return nil, errs.Newf(errs.KindSchema, "new", "row %d has %d cells for %d columns", i, len(r), len(columns))
		}
		owned[i] = append([]string(nil), r...)
	}
	return newTable(schema, append([]array.Type(nil), types...), owned), nil
}

// Empty returns a table with no columns and no rows.
func Empty() *Table {
	s, _ := array.NewSchema(nil)
	return newTable(s, nil, nil)
}

// newTable takes ownership of its arguments.
func newTable(schema array.Schema, types []array.Type, rows [][]string) *Table {
	t := &Table{schema: schema, types: types, rows: rows}
	t.Refresh()
	return t
}

// derive builds a table with t's schema and starting types over new rows.
func (t *Table) derive(rows [][]string) *Table {
	return newTable(t.schema.Clone(), append([]array.Type(nil), t.types...), rows)
}

// Refresh recomputes column types, non-null counts and null row lists
// from the cells.
func (t *Table) Refresh() {
	n := t.schema.Len()
	if len(t.types) != n {
		types := make([]array.Type, n)
		copy(types, t.types)
		t.types = types
	}
	t.nonNull = make([]int, n)
	t.nullRows = make([][]int, n)
	for c := 0; c < n; c++ {
		lub := array.Int
		seen := false
		nulls := []int{}
		for r := range t.rows {
			v := t.cell(r, c)
			if v == "" {
				nulls = append(nulls, r)
				continue
			}
			t.nonNull[c]++
			if lub != array.String {
				lub = array.Widen(lub, array.Infer(v))
			}
			seen = true
		}
		t.nullRows[c] = nulls
		if seen {
			t.types[c] = lub
		}
	}
}

func (t *Table) cell(r, c int) string {
	row := t.rows[r]
	if c >= len(row) {
		return ""
	}
	return row[c]
}

func (t *Table) paddedRow(r int) []string {
	out := make([]string, t.schema.Len())
	copy(out, t.rows[r])
	return out
}

func (t *Table) RowCount() int    { return len(t.rows) }
func (t *Table) ColumnCount() int { return t.schema.Len() }
func (t *Table) IsEmpty() bool    { return len(t.rows) == 0 || t.schema.Len() == 0 }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return len(t.rows), t.schema.Len() }

func (t *Table) Columns() []string { return t.schema.Names() }

func (t *Table) Types() []array.Type { return append([]array.Type(nil), t.types...) }

func (t *Table) NonNullCounts() []int { return append([]int(nil), t.nonNull...) }

// Rows returns a copy of every row padded to the column count.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for r := range t.rows {
		out[r] = t.paddedRow(r)
	}
	return out
}

// Value returns the cell at (r, c). It panics when out of range, like a slice.
func (t *Table) Value(r, c int) string {
	if c < 0 || c >= t.schema.Len() {
		panic(errs.OutOfRange("value", "column", c, t.schema.Len()))
	}
	return t.cell(r, c)
}

func (t *Table) Row(r int) ([]string, error) {
	if r < 0 || r >= len(t.rows) {
		return nil, errs.OutOfRange("row", "row", r, len(t.rows))
	}
	return t.paddedRow(r), nil
}

// Copy returns an independent deep copy.
func (t *Table) Copy() *Table {
	rows := make([][]string, len(t.rows))
	for r := range t.rows {
		rows[r] = append([]string(nil), t.rows[r]...)
	}
	return t.derive(rows)
}

// EmptyLike returns a table with t's columns and types and no rows.
func (t *Table) EmptyLike() *Table { return t.derive(nil) }

// FindColumn returns the position of name.
func (t *Table) FindColumn(name string) (int, error) {
	i, ok := t.schema.Lookup(name)
	if !ok {
		return -1, errs.ColumnNotFound("find_column", name)
	}
	return i, nil
}

func (t *Table) lookup(op, name string) (int, error) {
	i, ok := t.schema.Lookup(name)
	if !ok {
		return -1, errs.ColumnNotFound(op, name)
	}
	return i, nil
}

func (t *Table) lookupAll(op string, names []string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		c, err := t.lookup(op, n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.schema.Lookup(name)
	return ok
}

func (t *Table) ColumnType(name string) (array.Type, error) {
	c, err := t.lookup("column_type", name)
	if err != nil {
		return 0, err
	}
	return t.types[c], nil
}

// Column returns a copy of one column's cells.
func (t *Table) Column(name string) ([]string, error) {
	c, err := t.lookup("column", name)
	if err != nil {
		return nil, err
	}
	return t.columnValues(c), nil
}

func (t *Table) columnValues(c int) []string {
	out := make([]string, len(t.rows))
	for r := range t.rows {
		out[r] = t.cell(r, c)
	}
	return out
}

// NullRows returns the row indices where name is null.
func (t *Table) NullRows(name string) ([]int, error) {
	c, err := t.lookup("null_rows", name)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), t.nullRows[c]...), nil
}

// Loc returns the cell at row r of the named column.
func (t *Table) Loc(r int, name string) (string, error) {
	c, err := t.lookup("loc", name)
	if err != nil {
		return "", err
	}
	if r < 0 || r >= len(t.rows) {
		return "", errs.OutOfRange("loc", "row", r, len(t.rows))
	}
	return t.cell(r, c), nil
}

// ILoc returns the cell at (r, c) by position.
func (t *Table) ILoc(r, c int) (string, error) {
	if r < 0 || r >= len(t.rows) {
		return "", errs.OutOfRange("iloc", "row", r, len(t.rows))
	}
	if c < 0 || c >= t.schema.Len() {
		return "", errs.OutOfRange("iloc", "column", c, t.schema.Len())
	}
	return t.cell(r, c), nil
}

// At and IAt are scalar aliases of Loc and ILoc.
func (t *Table) At(r int, name string) (string, error) { return t.Loc(r, name) }
func (t *Table) IAt(r, c int) (string, error)          { return t.ILoc(r, c) }

// Equals reports whether both tables have the same columns, types and cells.
func (t *Table) Equals(o *Table) bool {
	if o == nil || t.schema.Len() != o.schema.Len() || len(t.rows) != len(o.rows) {
		return false
	}
	for c := 0; c < t.schema.Len(); c++ {
		if t.schema.Name(c) != o.schema.Name(c) || t.types[c] != o.types[c] {
			return false
		}
	}
	for r := range t.rows {
		for c := 0; c < t.schema.Len(); c++ {
			if t.cell(r, c) != o.cell(r, c) {
				return false
			}
		}
	}
	return true
}

// MemoryUsage returns the byte size of each column's name and cells.
func (t *Table) MemoryUsage() map[string]int {
	out := make(map[string]int, t.schema.Len())
	for c := 0; c < t.schema.Len(); c++ {
		n := len(t.schema.Name(c))
		for r := range t.rows {
			n += len(t.cell(r, c))
		}
		out[t.schema.Name(c)] = n
	}
	return out
}
