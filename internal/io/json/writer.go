package json

import (
	"bufio"
	"io"
	"os"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"tabula/internal/array"
	"tabula/internal/errs"
	"tabula/internal/exec"
	"tabula/internal/logger"
)

// WriteOptions control layout. An empty Indent writes one line.
type WriteOptions struct {
	Indent string
}

func DefaultWriteOptions() WriteOptions { return WriteOptions{Indent: "  "} }

// WriteFile writes t to path, creating or truncating it.
func WriteFile(path string, t *exec.Table, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_json", path).WithDetail("path", path)
	}
	if err := Write(f, t, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_json", path)
	}
	rows, cols := t.Shape()
	logger.Debug("wrote json", zap.String("path", path), zap.Int("rows", rows), zap.Int("columns", cols))
	return nil
}

// Write encodes t as an array with one object per row, keys in column
// order. STRING cells are JSON strings and a null STRING cell is "".
// Other cells are written as bare numbers and a null one as null; numeric
// text that is not a JSON number, such as NaN or inf, is quoted.
func Write(w io.Writer, t *exec.Table, opts WriteOptions) error {
	bw := bufio.NewWriter(w)
	names := t.Columns()
	keys := make([][]byte, len(names))
	for i, name := range names {
		keys[i] = quote(name)
	}
	types := t.Types()

	nl, in1, in2, colon := "", "", "", ":"
	if opts.Indent != "" {
		nl, in1, in2, colon = "\n", opts.Indent, strings.Repeat(opts.Indent, 2), ": "
	}

	var buf []byte
	buf = append(buf, '[')
	buf = append(buf, nl...)
	n := t.RowCount()
	for r := 0; r < n; r++ {
		buf = append(buf, in1...)
		buf = append(buf, '{')
		buf = append(buf, nl...)
		for c := range names {
			buf = append(buf, in2...)
			buf = append(buf, keys[c]...)
			buf = append(buf, colon...)
			buf = appendCell(buf, t.Value(r, c), types[c])
			if c < len(names)-1 {
				buf = append(buf, ',')
			}
			buf = append(buf, nl...)
		}
		buf = append(buf, in1...)
		buf = append(buf, '}')
		if r < n-1 {
			buf = append(buf, ',')
		}
		buf = append(buf, nl...)
		if len(buf) >= 64<<10 {
			if _, err := bw.Write(buf); err != nil {
				return writeError(err)
			}
			buf = buf[:0]
		}
	}
	buf = append(buf, ']', '\n')
	if _, err := bw.Write(buf); err != nil {
		return writeError(err)
	}
	if err := bw.Flush(); err != nil {
		return writeError(err)
	}
	return nil
}

func appendCell(dst []byte, v string, typ array.Type) []byte {
	if typ == array.String {
		return append(dst, quote(v)...)
	}
	if v == "" {
		return append(dst, "null"...)
	}
	if gojson.Valid([]byte(v)) && array.Infer(v) != array.String {
		return append(dst, v...)
	}
	return append(dst, quote(v)...)
}

func quote(s string) []byte {
	b, err := gojson.MarshalNoEscape(s)
	if err != nil {
		return []byte(`""`)
	}
	return b
}

func writeError(err error) error {
	return errs.Wrap(err, errs.KindFileAccess, "to_json", "")
}
