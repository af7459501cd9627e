package tabula

import (
	"context"
	"io"

	csvio "tabula/internal/io/csv"
	htmlio "tabula/internal/io/html"
	jsonio "tabula/internal/io/json"
)

type (
	CSVOptions       = csvio.Options
	JSONWriteOptions = jsonio.WriteOptions
	HTMLOptions      = htmlio.Options
)

// ReadCSV loads a delimited file. The header names the columns; cells are
// trimmed and short rows padded with nulls.
func ReadCSV(ctx context.Context, path string, opts CSVOptions) (*Table, error) {
	return csvio.Read(ctx, path, opts)
}

func DecodeCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*Table, error) {
	return csvio.Decode(ctx, r, opts)
}

func WriteCSV(path string, t *Table, opts CSVOptions) error { return csvio.WriteFile(path, t, opts) }

func EncodeCSV(w io.Writer, t *Table, opts CSVOptions) error { return csvio.Write(w, t, opts) }

// ReadJSON loads an array of flat objects. The first object fixes the
// columns.
func ReadJSON(ctx context.Context, path string) (*Table, error) { return jsonio.Read(ctx, path) }

func DecodeJSON(ctx context.Context, r io.Reader) (*Table, error) { return jsonio.Decode(ctx, r) }

func DefaultJSONWriteOptions() JSONWriteOptions { return jsonio.DefaultWriteOptions() }

func WriteJSON(path string, t *Table, opts JSONWriteOptions) error {
	return jsonio.WriteFile(path, t, opts)
}

func EncodeJSON(w io.Writer, t *Table, opts JSONWriteOptions) error { return jsonio.Write(w, t, opts) }

func WriteHTML(path string, t *Table, opts HTMLOptions) error { return htmlio.WriteFile(path, t, opts) }

func EncodeHTML(w io.Writer, t *Table, opts HTMLOptions) error { return htmlio.Write(w, t, opts) }
