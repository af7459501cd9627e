package html

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"tabula/internal/errs"
	"tabula/internal/exec"
)

func testTable(t *testing.T) *exec.Table {
	t.Helper()
	tb, err := exec.New([]string{"name", "note"}, [][]string{
		{"amy", "<b>&</b>"},
		{"bob"},
	})
	require.NoError(t, err)
	return tb
}

func TestWriteFragment(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testTable(t), Options{Fragment: true}))
	assert.Equal(t,
		"<table><thead><tr><th>name</th><th>note</th></tr></thead>"+
			"<tbody><tr><td>amy</td><td>&lt;b&gt;&amp;&lt;/b&gt;</td></tr>"+
			"<tr><td>bob</td><td></td></tr></tbody></table>\n",
		buf.String())
}

func TestWriteDocumentParses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testTable(t), Options{}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html><html><head>"))
	assert.Contains(t, out, "border-collapse")

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	var cells []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "td" {
			text := ""
			if n.FirstChild != nil {
				text = n.FirstChild.Data
			}
			cells = append(cells, text)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	assert.Equal(t, []string{"amy", "<b>&</b>", "bob", ""}, cells)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.html")
	require.NoError(t, WriteFile(path, testTable(t), Options{}))

	err := WriteFile(filepath.Join(t.TempDir(), "no", "t.html"), testTable(t), Options{})
	assert.True(t, errs.Is(err, errs.KindFileAccess))
}
