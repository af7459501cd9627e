package exec

import (
	"strconv"

	"gonum.org/v1/gonum/stat"

	"tabula/internal/array"
	"tabula/internal/errs"
)

// cross holds the rows of a two-way grouping, with both key sets sorted.
type cross struct {
	rowKeys []string
	colKeys []string
	cells   map[[2]string][]int
}

func (t *Table) crossGroup(rc, cc int) cross {
	x := cross{cells: make(map[[2]string][]int)}
	rs, cs := map[string]struct{}{}, map[string]struct{}{}
	for r := range t.rows {
		rv, cv := t.cell(r, rc), t.cell(r, cc)
		if rv == "" || cv == "" {
			continue
		}
		rs[rv], cs[cv] = struct{}{}, struct{}{}
		k := [2]string{rv, cv}
		x.cells[k] = append(x.cells[k], r)
	}
	x.rowKeys, x.colKeys = sortedKeys(rs), sortedKeys(cs)
	return x
}

// build lays out one output row per row key and one column per column key
// after the leading name column. cell returns "" for absent combinations.
func (x cross) build(op, name string, keyType array.Type, cell func(rows []int) string) (*Table, error) {
	names := append([]string{name}, x.colKeys...)
	schema, err := array.NewSchema(names)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSchema, op, "")
	}
	rows := make([][]string, len(x.rowKeys))
	for i, rk := range x.rowKeys {
		row := make([]string, len(names))
		row[0] = rk
		for j, ck := range x.colKeys {
			row[j+1] = cell(x.cells[[2]string{rk, ck}])
		}
		rows[i] = row
	}
	types := make([]array.Type, len(names))
	types[0] = keyType
	return newTable(schema, types, rows), nil
}

// PivotTable averages values for every distinct (index, columns) pair.
// Rows and columns are in ascending text order; absent pairs are null.
// Rows with a null key or an unparseable value are ignored.
func (t *Table) PivotTable(values, index, columns string) (*Table, error) {
	cols, err := t.lookupAll("pivot_table", []string{values, index, columns})
	if err != nil {
		return nil, err
	}
	vc := cols[0]
	if t.types[vc] == array.String {
		return nil, errs.NumericRequired("pivot_table", values)
	}
	x := t.crossGroup(cols[1], cols[2])
	return x.build("pivot_table", index, t.types[cols[1]], func(rows []int) string {
		var xs []float64
		for _, r := range rows {
			if v, ok := array.ParseFloat(t.cell(r, vc)); ok {
				xs = append(xs, v)
			}
		}
		if len(xs) == 0 {
			return ""
		}
		return array.FormatFloat(stat.Mean(xs, nil))
	})
}

// Pivot reshapes without aggregating: the first value seen for each
// (index, columns) pair wins.
func (t *Table) Pivot(index, columns, values string) (*Table, error) {
	cols, err := t.lookupAll("pivot", []string{index, columns, values})
	if err != nil {
		return nil, err
	}
	vc := cols[2]
	x := t.crossGroup(cols[0], cols[1])
	return x.build("pivot", index, t.types[cols[0]], func(rows []int) string {
		if len(rows) == 0 {
			return ""
		}
		return t.cell(rows[0], vc)
	})
}

// Crosstab counts the rows of every (rowCol, colCol) pair.
func (t *Table) Crosstab(rowCol, colCol string) (*Table, error) {
	cols, err := t.lookupAll("crosstab", []string{rowCol, colCol})
	if err != nil {
		return nil, err
	}
	x := t.crossGroup(cols[0], cols[1])
	return x.build("crosstab", rowCol, t.types[cols[0]], func(rows []int) string {
		return strconv.Itoa(len(rows))
	})
}

// Melt unpivots valueVars (all non-id columns when empty) into rows of
// (idVars..., varName, valueName). Empty names default to "variable" and
// "value".
func (t *Table) Melt(idVars, valueVars []string, varName, valueName string) (*Table, error) {
	if varName == "" {
		varName = "variable"
	}
	if valueName == "" {
		valueName = "value"
	}
	ids, err := t.lookupAll("melt", idVars)
	if err != nil {
		return nil, err
	}
	var vals []int
	if len(valueVars) == 0 {
		isID := make(map[int]struct{}, len(ids))
		for _, c := range ids {
			isID[c] = struct{}{}
		}
		for c := 0; c < t.schema.Len(); c++ {
			if _, ok := isID[c]; !ok {
				vals = append(vals, c)
			}
		}
	} else if vals, err = t.lookupAll("melt", valueVars); err != nil {
		return nil, err
	}
	names := append(append([]string(nil), idVars...), varName, valueName)
	schema, err := array.NewSchema(names)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindSchema, "melt", "")
	}
	types := make([]array.Type, len(names))
	for i, c := range ids {
		types[i] = t.types[c]
	}
	types[len(ids)] = array.String
	rows := make([][]string, 0, len(t.rows)*len(vals))
	for r := range t.rows {
		for _, vc := range vals {
			row := make([]string, 0, len(names))
			for _, c := range ids {
				row = append(row, t.cell(r, c))
			}
			row = append(row, t.schema.Name(vc), t.cell(r, vc))
			rows = append(rows, row)
		}
	}
	return newTable(schema, types, rows), nil
}

// Stack emits one row per cell as (level_0, level_1, value): the row
// position, the column name and the cell text.
func (t *Table) Stack() *Table {
	schema, _ := array.NewSchema([]string{"level_0", "level_1", "value"})
	rows := make([][]string, 0, len(t.rows)*t.schema.Len())
	for r := range t.rows {
		for c := 0; c < t.schema.Len(); c++ {
			rows = append(rows, []string{strconv.Itoa(r), t.schema.Name(c), t.cell(r, c)})
		}
	}
	return newTable(schema, []array.Type{array.Int, array.String, array.String}, rows)
}

// Transpose turns columns into rows. The result holds a "column" label
// column with the original names, followed by row_0..row_{n-1}.
func (t *Table) Transpose() *Table {
	names := make([]string, 0, len(t.rows)+1)
	names = append(names, "column")
	for r := range t.rows {
		names = append(names, "row_"+strconv.Itoa(r))
	}
	schema, _ := array.NewSchema(names)
	rows := make([][]string, t.schema.Len())
	for c := range rows {
		row := make([]string, len(names))
		row[0] = t.schema.Name(c)
		for r := range t.rows {
			row[r+1] = t.cell(r, c)
		}
		rows[c] = row
	}
	types := make([]array.Type, len(names))
	for i := range types {
		types[i] = array.String
	}
	return newTable(schema, types, rows)
}

// Unstack is Transpose. It is not an inverse of Stack.
func (t *Table) Unstack() *Table { return t.Transpose() }
