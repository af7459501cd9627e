package exec

import (
	"strconv"
	"time"

	"tabula/internal/array"
)

// dateLayouts are tried in order when no layout is given.
var dateLayouts = []string{
	time.DateTime,
	time.DateOnly,
	time.RFC3339,
	"2006/01/02",
	"2006/01/02 15:04:05",
}

func parseDate(s, layout string) (time.Time, bool) {
	if layout != "" {
		ts, err := time.Parse(layout, s)
		return ts, err == nil
	}
	for _, l := range dateLayouts {
		if ts, err := time.Parse(l, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func formatDate(ts time.Time) string {
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 && ts.Nanosecond() == 0 {
		return ts.Format(time.DateOnly)
	}
	return ts.Format(time.DateTime)
}

// ToDatetime returns a copy where col is parsed with a Go time layout and
// rewritten as YYYY-MM-DD, or YYYY-MM-DD hh:mm:ss when a time of day is
// present. An empty layout tries the common date layouts. Cells that do
// not parse become null. The column is STRING.
func (t *Table) ToDatetime(col, layout string) (*Table, error) {
	c, err := t.lookup("to_datetime", col)
	if err != nil {
		return nil, err
	}
	out := t.Copy()
	for r := range out.rows {
		v := out.cell(r, c)
		if v == "" {
			continue
		}
		ts, ok := parseDate(v, layout)
		if !ok {
			out.setCell(r, c, "")
			continue
		}
		out.setCell(r, c, formatDate(ts))
	}
	out.types[c] = array.String
	out.Refresh()
	return out, nil
}

// datePart returns a copy with an INT column <col>_<suffix>. Cells that
// are null or not dates give a null part.
func (t *Table) datePart(op, col, suffix string, part func(time.Time) int) (*Table, error) {
	c, err := t.lookup(op, col)
	if err != nil {
		return nil, err
	}
	cells := make([]string, len(t.rows))
	for r := range t.rows {
		if ts, ok := parseDate(t.cell(r, c), ""); ok {
			cells[r] = strconv.Itoa(part(ts))
		}
	}
	out := t.Copy()
	if err := out.insertColumn(op, out.schema.Len(), col+"_"+suffix, array.Int, cells); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Table) DtYear(col string) (*Table, error) {
	return t.datePart("dt_year", col, "year", func(ts time.Time) int { return ts.Year() })
}

func (t *Table) DtMonth(col string) (*Table, error) {
	return t.datePart("dt_month", col, "month", func(ts time.Time) int { return int(ts.Month()) })
}

func (t *Table) DtDay(col string) (*Table, error) {
	return t.datePart("dt_day", col, "day", func(ts time.Time) int { return ts.Day() })
}

// DtDayOfWeek numbers days from Monday = 0 to Sunday = 6.
func (t *Table) DtDayOfWeek(col string) (*Table, error) {
	return t.datePart("dt_dayofweek", col, "dayofweek", func(ts time.Time) int {
		return (int(ts.Weekday()) + 6) % 7
	})
}
