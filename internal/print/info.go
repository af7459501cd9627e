package print

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"tabula/internal/array"
	"tabula/internal/exec"
)

// Info renders the row range, one line per column with its non-null
// count, type and null count, and a per-type column tally.
func Info(t *exec.Table) string {
	var b strings.Builder
	n := t.RowCount()
	last := 0
	if n > 0 {
		last = n - 1
	}
	fmt.Fprintf(&b, "RangeIndex: %d entries, 0 to %d\n", n, last)
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", t.ColumnCount())

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " #\tColumn\tNon-Null Count\tDtype\tNull Count")
	types := t.Types()
	nonNull := t.NonNullCounts()
	var tally [3]int
	for i, name := range t.Columns() {
		fmt.Fprintf(tw, " %d\t%s\t%d\t%s\t%d\n", i, name, nonNull[i], types[i], n-nonNull[i])
		tally[types[i]]++
	}
	_ = tw.Flush()

	fmt.Fprintf(&b, "dtypes: int(%d), float(%d), string(%d)\n",
		tally[array.Int], tally[array.Float], tally[array.String])
	return b.String()
}

// Describe renders the summary table of exec.Table.Describe with every
// row shown.
func Describe(t *exec.Table, opts TableOptions) string {
	d := t.Describe()
	opts.Head = d.RowCount()
	opts.Tail = 0
	opts.Stats = false
	return Table(d, opts)
}

// MemoryUsage renders the byte size of every column and the total.
func MemoryUsage(t *exec.Table) string {
	var b strings.Builder
	usage := t.MemoryUsage()
	total := 0
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, name := range t.Columns() {
		fmt.Fprintf(tw, "%s\t%d bytes\n", name, usage[name])
		total += usage[name]
	}
	fmt.Fprintf(tw, "Total\t%d bytes\n", total)
	_ = tw.Flush()
	return b.String()
}
