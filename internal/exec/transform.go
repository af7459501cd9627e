package exec

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tabula/internal/array"
	"tabula/internal/errs"
	"tabula/internal/logger"
)

// Boolean texts written by predicate columns.
const (
	True  = "True"
	False = "False"
)

func boolText(b bool) string {
	if b {
		return True
	}
	return False
}

// LabelEncode replaces each distinct value of a STRING column with an
// integer code in order of first appearance. Nulls stay null.
func (t *Table) LabelEncode(col string) (int, error) {
	c, err := t.lookup("label_encode", col)
	if err != nil {
		return 0, err
	}
	if t.types[c] != array.String {
		return 0, errs.Newf(errs.KindType, "label_encode", "column %s is %s, want STRING", col, t.types[c])
	}
	codes := map[string]int{}
	for r := range t.rows {
		v := t.cell(r, c)
		if v == "" {
			continue
		}
		code, ok := codes[v]
		if !ok {
			code = len(codes)
			codes[v] = code
		}
		t.setCell(r, c, strconv.Itoa(code))
	}
	t.types[c] = array.Int
	t.Refresh()
	logger.Debug("label encoded", zap.String("column", col), zap.Int("categories", len(codes)))
	return len(codes), nil
}

// OneHotEncode returns a copy where a STRING column is replaced by one
// 1/0 indicator column per distinct value, named <col>_<value> and ordered
// by value.
func (t *Table) OneHotEncode(col string) (*Table, error) {
	c, err := t.lookup("one_hot_encode", col)
	if err != nil {
		return nil, err
	}
	if t.types[c] != array.String {
		return nil, errs.Newf(errs.KindType, "one_hot_encode", "column %s is %s, want STRING", col, t.types[c])
	}
	seen := map[string]struct{}{}
	for r := range t.rows {
		if v := t.cell(r, c); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := t.Copy()
	for _, v := range sortedKeys(seen) {
		cells := make([]string, len(t.rows))
		for r := range t.rows {
			cells[r] = "0"
			if t.cell(r, c) == v {
				cells[r] = "1"
			}
		}
		if err := out.insertColumn("one_hot_encode", out.schema.Len(), col+"_"+v, array.Int, cells); err != nil {
			return nil, err
		}
	}
	if err := out.DropColumn(col); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDummies one-hot encodes each listed column in turn.
func (t *Table) GetDummies(cols ...string) (*Table, error) {
	out := t
	for _, col := range cols {
		next, err := out.OneHotEncode(col)
		if err != nil {
			return nil, err
		}
		out = next
	}
	if out == t {
		return t.Copy(), nil
	}
	return out, nil
}

// Apply replaces every cell of col, nulls included, with fn(cell).
func (t *Table) Apply(col string, fn func(string) string) error {
	c, err := t.lookup("apply", col)
	if err != nil {
		return err
	}
	for r := range t.rows {
		t.setCell(r, c, fn(t.cell(r, c)))
	}
	t.Refresh()
	return nil
}

// MapValues returns a copy where cells of col found in mapping are
// replaced. Other cells are kept.
func (t *Table) MapValues(col string, mapping map[string]string) (*Table, error) {
	c, err := t.lookup("map_values", col)
	if err != nil {
		return nil, err
	}
	out := t.Copy()
	for r := range out.rows {
		if v, ok := mapping[out.cell(r, c)]; ok {
			out.setCell(r, c, v)
		}
	}
	out.Refresh()
	return out, nil
}

// predicate returns a copy with a True/False column <col>_<suffix>.
func (t *Table) predicate(op, col, suffix string, f func(string) bool) (*Table, error) {
	c, err := t.lookup(op, col)
	if err != nil {
		return nil, err
	}
	cells := make([]string, len(t.rows))
	for r := range t.rows {
		cells[r] = boolText(f(t.cell(r, c)))
	}
	out := t.Copy()
	if err := out.insertColumn(op, out.schema.Len(), col+"_"+suffix, array.String, cells); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Table) StrContains(col, pattern string) (*Table, error) {
	return t.predicate("str_contains", col, "contains", func(s string) bool {
		return strings.Contains(s, pattern)
	})
}

func (t *Table) StrStartsWith(col, prefix string) (*Table, error) {
	return t.predicate("str_startswith", col, "startswith", func(s string) bool {
		return strings.HasPrefix(s, prefix)
	})
}

func (t *Table) StrEndsWith(col, suffix string) (*Table, error) {
	return t.predicate("str_endswith", col, "endswith", func(s string) bool {
		return strings.HasSuffix(s, suffix)
	})
}

// rewrite returns a copy with fn applied to the non-null cells of col.
func (t *Table) rewrite(op, col string, fn func(string) string) (*Table, error) {
	c, err := t.lookup(op, col)
	if err != nil {
		return nil, err
	}
	out := t.Copy()
	for r := range out.rows {
		if v := out.cell(r, c); v != "" {
			out.setCell(r, c, fn(v))
		}
	}
	out.Refresh()
	return out, nil
}

// StrReplace replaces every non-overlapping occurrence of old. An empty
// pattern leaves the column unchanged.
func (t *Table) StrReplace(col, old, repl string) (*Table, error) {
	return t.rewrite("str_replace", col, func(s string) string {
		if old == "" {
			return s
		}
		return strings.ReplaceAll(s, old, repl)
	})
}

func (t *Table) StrUpper(col string) (*Table, error) {
	return t.rewrite("str_upper", col, strings.ToUpper)
}

func (t *Table) StrLower(col string) (*Table, error) {
	return t.rewrite("str_lower", col, strings.ToLower)
}

func (t *Table) StrStrip(col string) (*Table, error) {
	return t.rewrite("str_strip", col, strings.TrimSpace)
}

// StrLen returns a copy with an INT column <col>_len holding the byte
// length of each cell. Nulls have length 0.
func (t *Table) StrLen(col string) (*Table, error) {
	c, err := t.lookup("str_len", col)
	if err != nil {
		return nil, err
	}
	cells := make([]string, len(t.rows))
	for r := range t.rows {
		cells[r] = strconv.Itoa(len(t.cell(r, c)))
	}
	out := t.Copy()
	if err := out.insertColumn("str_len", out.schema.Len(), col+"_len", array.Int, cells); err != nil {
		return nil, err
	}
	return out, nil
}
