// Package csv reads and writes tables as delimited text.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"tabula/internal/errs"
	"tabula/internal/exec"
	"tabula/internal/logger"
)

// Options control parsing and formatting. The zero value reads and writes
// comma separated text with only the empty cell treated as null.
type Options struct {
	Delimiter rune
	// NullValues are extra cell texts read as null, e.g. "NA".
	NullValues []string
	// Index writes a leading "index" column holding the row position.
	Index bool
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

func (o Options) check(op string) error {
	d := o.delimiter()
	if d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError || !utf8.ValidRune(d) {
		return errs.Newf(errs.KindArgument, op, "invalid delimiter %q", d)
	}
	return nil
}

// NullMatcher recognizes null tokens.
type NullMatcher struct {
	single string
	set    map[string]struct{}
}

func NewNullMatcher(values []string) NullMatcher {
	if len(values) == 0 {
		return NullMatcher{}
	}
	if len(values) == 1 {
		return NullMatcher{single: values[0]}
	}
	set := make(map[string]struct{}, len(values)+1)
	set[""] = struct{}{}
	for i := range values {
		set[values[i]] = struct{}{}
	}
	return NullMatcher{set: set}
}

// IsNull reports whether raw reads as null. The empty text always does.
func (m NullMatcher) IsNull(raw string) bool {
	if raw == "" {
		return true
	}
	if m.set == nil {
		return raw == m.single
	}
	_, ok := m.set[raw]
	return ok
}

// Read parses the file at path. A path that cannot be opened is a
// FileAccessError.
func Read(ctx context.Context, path string, opts Options) (*exec.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindFileAccess, "read_csv", path).WithDetail("path", path)
	}
	defer f.Close()

	t, err := Decode(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	rows, cols := t.Shape()
	logger.Debug("read csv", zap.String("path", path), zap.Int("rows", rows), zap.Int("columns", cols))
	return t, nil
}

// Decode parses delimited text. The first record names the columns; names
// are trimmed and empty names dropped along with their cells. Every cell is
// trimmed, short records are padded with nulls and long ones truncated.
// Blank lines are skipped. Input with no named column yields an empty table.
func Decode(ctx context.Context, r io.Reader, opts Options) (*exec.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := opts.check("read_csv"); err != nil {
		return nil, err
	}
	cancellable := ctx.Done() != nil
	if cancellable {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter()
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	rec, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return exec.Empty(), nil
	}
	if err != nil {
		return nil, readError(err)
	}

	var header []string
	var included []int
	for i, name := range rec {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		header = append(header, name)
		included = append(included, i)
	}
	if len(header) == 0 {
		return exec.Empty(), nil
	}

	nulls := NewNullMatcher(opts.NullValues)
	var rows [][]string
	const ctxCheckMask = 1024 - 1
	for iter := 0; ; iter++ {
		if cancellable && (iter&ctxCheckMask) == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}
		row := make([]string, len(included))
		for j, src := range included {
			if src >= len(rec) {
				break
			}
			if v := strings.TrimSpace(rec[src]); !nulls.IsNull(v) {
				row[j] = v
			}
		}
		rows = append(rows, row)
	}
	return exec.New(header, rows)
}

func readError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return errs.Wrap(err, errs.KindArgument, "read_csv", "malformed input").WithDetail("line", pe.Line)
	}
	return errs.Wrap(err, errs.KindArgument, "read_csv", "")
}
