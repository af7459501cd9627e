package print

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabula/internal/exec"
)

func makeTestTable(t *testing.T, nrows int) *exec.Table {
	t.Helper()
	rows := make([][]string, nrows)
	for i := range rows {
		rows[i] = []string{strings.Repeat("x", i%3+1), "", "1.5"}
		if i%2 == 0 {
			rows[i][1] = "7"
		}
	}
	tb, err := exec.New([]string{"name", "n", "f"}, rows)
	require.NoError(t, err)
	return tb
}

func TestTablePreview(t *testing.T) {
	tb := makeTestTable(t, 20)
	opts := DefaultTableOptions()
	opts.Head, opts.Tail = 2, 1
	opts.MaxTableWidth = 100
	out := Table(tb, opts)

	assert.True(t, strings.HasPrefix(out, "Table shape: (20, 3)\n"))
	assert.Contains(t, out, "- name: STRING  nulls=0/20 len=[1,3]")
	assert.Contains(t, out, "- n: INT  nulls=10/20 min=7 max=7 mean=7")
	assert.Contains(t, out, "| idx | name | n    | f   |")
	assert.Contains(t, out, "| ... | ...  | ...  | ... |")
	assert.Contains(t, out, "| 19  | xx   | null | 1.5 |")
	assert.NotContains(t, out, "| 2   |")
}

func TestTableElidesColumns(t *testing.T) {
	names := make([]string, 30)
	row := make([]string, 30)
	for i := range names {
		names[i] = "col" + strings.Repeat("c", i%2) + string(rune('a'+i%26)) + string(rune('a'+i/26))
		row[i] = "v"
	}
	tb, err := exec.New(names, [][]string{row})
	require.NoError(t, err)

	opts := DefaultTableOptions()
	opts.MaxTableWidth = 80
	opts.Stats = false
	out := Table(tb, opts)
	assert.Contains(t, out, "Preview columns:")
	assert.Contains(t, out, "| ... |")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		assert.LessOrEqual(t, len(line), 80, line)
	}
}

func TestTableEmpty(t *testing.T) {
	assert.Equal(t, "<nil table>", Table(nil, DefaultTableOptions()))
	out := Table(exec.Empty(), DefaultTableOptions())
	assert.Contains(t, out, "(no columns)")
}

func TestInfo(t *testing.T) {
	out := Info(makeTestTable(t, 4))
	assert.Contains(t, out, "RangeIndex: 4 entries, 0 to 3\n")
	assert.Contains(t, out, "Data columns (total 3 columns):\n")
	assert.Contains(t, out, "dtypes: int(1), float(1), string(1)\n")
	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{"1", "n", "2", "INT", "2"}, strings.Fields(lines[4]))
}

func TestDescribeAndMemory(t *testing.T) {
	opts := DefaultTableOptions()
	opts.MaxTableWidth = 100
	out := Describe(makeTestTable(t, 4), opts)
	assert.Contains(t, out, "Table shape: (8, 3)")
	assert.Contains(t, out, "| 50% ")

	mem := MemoryUsage(makeTestTable(t, 2))
	assert.Contains(t, mem, "Total")
	assert.Contains(t, mem, "bytes")
}
