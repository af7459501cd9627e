// Package html renders tables as HTML documents.
package html

import (
	"bufio"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tabula/internal/errs"
	"tabula/internal/exec"
	"tabula/internal/logger"
)

const pageStyle = "table { border-collapse: collapse; width: 100%; }\n" +
	"th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }\n" +
	"th { background-color: #f2f2f2; }\n"

// Options control the rendered page.
type Options struct {
	// Fragment writes only the <table> element.
	Fragment bool
}

// WriteFile writes t to path, creating or truncating it.
func WriteFile(path string, t *exec.Table, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_html", path).WithDetail("path", path)
	}
	if err := Write(f, t, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_html", path)
	}
	logger.Debug("wrote html", zap.String("path", path), zap.Int("rows", t.RowCount()))
	return nil
}

// Write renders t as a <table> with a header row in <thead> and one row per
// table row in <tbody>. Cell text is escaped; nulls are empty cells.
func Write(w io.Writer, t *exec.Table, opts Options) error {
	root := Table(t)
	if !opts.Fragment {
		root = document(root)
	}
	bw := bufio.NewWriter(w)
	if err := html.Render(bw, root); err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_html", "")
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_html", "")
	}
	if err := bw.Flush(); err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_html", "")
	}
	return nil
}

// Table builds the <table> node for t.
func Table(t *exec.Table) *html.Node {
	table := element(atom.Table)
	head := element(atom.Thead)
	hr := element(atom.Tr)
	for _, name := range t.Columns() {
		hr.AppendChild(textElement(atom.Th, name))
	}
	head.AppendChild(hr)
	table.AppendChild(head)

	body := element(atom.Tbody)
	for _, row := range t.Rows() {
		tr := element(atom.Tr)
		for _, v := range row {
			tr.AppendChild(textElement(atom.Td, v))
		}
		body.AppendChild(tr)
	}
	table.AppendChild(body)
	return table
}

func document(table *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	head.AppendChild(textElement(atom.Style, pageStyle))
	body := element(atom.Body)
	body.AppendChild(table)
	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

func textElement(a atom.Atom, text string) *html.Node {
	n := element(a)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}
