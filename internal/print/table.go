// Package print renders tables as bordered text previews.
package print

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"tabula/internal/array"
	"tabula/internal/exec"
)

type tableCol struct {
	name string
	// pos is the column position in the table, -1 for the elision column.
	pos int
	typ array.Type
}

func (c tableCol) elided() bool { return c.pos < 0 }

func tableOverhead(idxWidth int, nDataCols int) int {
	// Every cell adds two spaces and a separator, plus the leading '|'.
	m := 1 + nDataCols
	return 1 + 3*m + idxWidth
}

func tableLineWidth(widths []int) int {
	sum := 0
	for i := range widths {
		sum += widths[i]
	}
	return 1 + 3*len(widths) + sum
}

// enforceTableWidth shrinks the widest data column until the line fits.
func enforceTableWidth(widths []int, maxWidth int) {
	if maxWidth <= 0 || len(widths) == 0 {
		return
	}
	minCell := 4
	for tableLineWidth(widths) > maxWidth {
		best := -1
		bestW := 0
		for i := 1; i < len(widths); i++ {
			if widths[i] > bestW && widths[i] > minCell {
				best = i
				bestW = widths[i]
			}
		}
		if best < 0 {
			return
		}
		widths[best]--
	}
}

type TableOptions struct {
	Head int
	Tail int

	MaxCols       int
	MaxColWidth   int
	MaxTableWidth int

	// Stats prints one summary line per shown column above the grid.
	Stats bool
}

func DefaultTableOptions() TableOptions {
	return TableOptions{
		Head:          5,
		Tail:          5,
		MaxCols:       12,
		MaxColWidth:   20,
		MaxTableWidth: 0, // auto
		Stats:         true,
	}
}

// Table renders a preview of the first Head and last Tail rows.
func Table(t *exec.Table, opts TableOptions) string {
	if t == nil {
		return "<nil table>"
	}
	nrows, ncols := t.Shape()

	opts.Head = max(opts.Head, 0)
	opts.Tail = max(opts.Tail, 0)
	rowIdx := previewRowIndices(nrows, opts.Head, opts.Tail)

	maxColWidth := opts.MaxColWidth
	if maxColWidth <= 0 {
		maxColWidth = 20
	}
	maxTableWidth := opts.MaxTableWidth
	if maxTableWidth <= 0 {
		maxTableWidth = detectStdoutWidth(120)
	}

	idxWidth := 3
	for _, r := range rowIdx {
		idxWidth = max(idxWidth, len(strconv.Itoa(r)))
	}

	show := selectTableCols(t, maxTableWidth, idxWidth, maxColWidth, opts.MaxCols)

	if len(show) > 0 {
		avail := maxTableWidth - tableOverhead(idxWidth, len(show))
		if avail > 0 {
			if per := avail / len(show); per < maxColWidth {
				maxColWidth = max(4, per)
			}
		}
	}

	widths := make([]int, 1+len(show))
	widths[0] = idxWidth
	for j := range show {
		widths[1+j] = min(len(show[j].name), maxColWidth)
	}
	for _, r := range rowIdx {
		if r < 0 {
			for j := range widths {
				widths[j] = max(widths[j], 3)
			}
			continue
		}
		for j := range show {
			cell := truncate(cellString(t, show[j], r), maxColWidth)
			widths[1+j] = max(widths[1+j], len(cell))
		}
	}
	enforceTableWidth(widths, maxTableWidth)

	var b strings.Builder
	fmt.Fprintf(&b, "Table shape: (%d, %d)\n", nrows, ncols)
	if n := countRealCols(show); n != ncols {
		fmt.Fprintf(&b, "Preview columns: %d of %d\n", n, ncols)
	}
	if opts.Stats && nrows > 0 {
		b.WriteString(renderStats(t, show, maxTableWidth))
	}
	b.WriteString(renderTable(t, show, widths, rowIdx))
	return b.String()
}

func detectStdoutWidth(fallback int) int {
	if w, ok := stdoutTerminalWidth(); ok && w >= 40 {
		// Many terminals wrap when a line hits the exact limit.
		return w - 1
	}
	if v := strings.TrimSpace(os.Getenv("COLUMNS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 40 {
			return n
		}
	}
	return fallback
}

func countRealCols(cols []tableCol) int {
	n := 0
	for i := range cols {
		if !cols[i].elided() {
			n++
		}
	}
	return n
}

// selectTableCols keeps as many columns as fit at a minimum width. When
// some must go, the middle ones are replaced by a single "..." column.
func selectTableCols(t *exec.Table, maxTableWidth, idxWidth, maxColWidth, maxCols int) []tableCol {
	names := t.Columns()
	types := t.Types()
	if len(names) == 0 {
		return nil
	}
	col := func(i int) tableCol { return tableCol{name: names[i], pos: i, typ: types[i]} }
	if maxCols <= 0 || maxCols > len(names) {
		maxCols = len(names)
	}
	minColWidth := max(min(6, maxColWidth), 4)

	fits := func(n int) bool {
		return n <= 0 || tableOverhead(idxWidth, n)+n*minColWidth <= maxTableWidth
	}
	if !fits(1) {
		return []tableCol{col(0)}
	}
	n := maxCols
	for n > 1 && !fits(n) {
		n--
	}
	if n >= len(names) {
		out := make([]tableCol, len(names))
		for i := range names {
			out[i] = col(i)
		}
		return out
	}
	if n <= 2 {
		out := make([]tableCol, n)
		for i := range out {
			out[i] = col(i)
		}
		return out
	}

	left := max((n-1)/2, 1)
	right := max(n-1-left, 1)
	out := make([]tableCol, 0, n)
	for i := 0; i < left; i++ {
		out = append(out, col(i))
	}
	out = append(out, tableCol{name: "...", pos: -1})
	for i := len(names) - right; i < len(names); i++ {
		out = append(out, col(i))
	}
	return out
}

// previewRowIndices lists the rows to show; -1 marks the elision row.
func previewRowIndices(nrows, head, tail int) []int {
	if nrows <= 0 || head+tail <= 0 {
		return nil
	}
	if head+tail >= nrows {
		idx := make([]int, nrows)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, 0, head+tail+1)
	for i := 0; i < head; i++ {
		idx = append(idx, i)
	}
	idx = append(idx, -1)
	for i := max(nrows-tail, head); i < nrows; i++ {
		idx = append(idx, i)
	}
	return idx
}

func renderTable(t *exec.Table, cols []tableCol, widths []int, rowIdx []int) string {
	var b strings.Builder
	if len(cols) == 0 {
		b.WriteString("(no columns)\n")
		return b.String()
	}

	border := func() {
		b.WriteByte('+')
		for i := range widths {
			b.WriteString(strings.Repeat("-", widths[i]+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
	}
	cell := func(s string, w int) {
		b.WriteByte(' ')
		b.WriteString(pad(truncate(s, w), w))
		b.WriteString(" |")
	}

	border()
	b.WriteByte('|')
	cell("idx", widths[0])
	for j := range cols {
		cell(cols[j].name, widths[1+j])
	}
	b.WriteByte('\n')
	border()

	for _, r := range rowIdx {
		b.WriteByte('|')
		if r < 0 {
			cell("...", widths[0])
		} else {
			cell(strconv.Itoa(r), widths[0])
		}
		for j := range cols {
			if r < 0 {
				cell("...", widths[1+j])
				continue
			}
			cell(cellString(t, cols[j], r), widths[1+j])
		}
		b.WriteByte('\n')
	}
	border()
	return b.String()
}

func cellString(t *exec.Table, col tableCol, row int) string {
	if col.elided() {
		return "..."
	}
	s := t.Value(row, col.pos)
	if s == "" {
		return "null"
	}
	return s
}

func renderStats(t *exec.Table, cols []tableCol, maxWidth int) string {
	var b strings.Builder
	b.WriteString("Columns:\n")
	nulls := t.IsNull()
	for i := range cols {
		if cols[i].elided() {
			continue
		}
		c := cols[i]
		line := "- " + c.name + ": " + c.typ.String() + "  " + statsForColumn(t, c, nulls[c.name])
		if maxWidth > 0 {
			line = truncate(line, maxWidth)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

func statsForColumn(t *exec.Table, col tableCol, nulls int) string {
	n := t.RowCount()
	if !col.typ.Numeric() {
		vals, _ := t.Column(col.name)
		minLen, maxLen, set := 0, 0, false
		for _, v := range vals {
			if v == "" {
				continue
			}
			if !set {
				minLen, maxLen, set = len(v), len(v), true
				continue
			}
			minLen = min(minLen, len(v))
			maxLen = max(maxLen, len(v))
		}
		if !set {
			return fmt.Sprintf("nulls=%d/%d", nulls, n)
		}
		return fmt.Sprintf("nulls=%d/%d len=[%d,%d]", nulls, n, minLen, maxLen)
	}
	lo, err := t.Min(col.name)
	if err != nil {
		return fmt.Sprintf("nulls=%d/%d", nulls, n)
	}
	hi, _ := t.Max(col.name)
	mean, _ := t.Mean(col.name)
	return fmt.Sprintf("nulls=%d/%d min=%s max=%s mean=%.4g",
		nulls, n, array.FormatFloat(lo), array.FormatFloat(hi), mean)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
