package csv

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"tabula/internal/errs"
	"tabula/internal/exec"
	"tabula/internal/logger"
)

// WriteFile writes t to path, creating or truncating it.
func WriteFile(path string, t *exec.Table, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_csv", path).WithDetail("path", path)
	}
	if err := Write(f, t, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, errs.KindFileAccess, "to_csv", path)
	}
	rows, cols := t.Shape()
	logger.Debug("wrote csv", zap.String("path", path), zap.Int("rows", rows), zap.Int("columns", cols))
	return nil
}

// Write encodes the header and every row. Cells are written verbatim and
// quoted only when they contain the delimiter, a quote or a line break;
// nulls are empty fields.
func Write(w io.Writer, t *exec.Table, opts Options) error {
	if err := opts.check("to_csv"); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	cw.Comma = opts.delimiter()

	header := t.Columns()
	if opts.Index {
		header = append([]string{"index"}, header...)
	}
	if err := writeRecord(cw, bw, header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for r, row := range t.Rows() {
		cells := rec
		if opts.Index {
			cells[0] = strconv.Itoa(r)
			cells = cells[1:]
		}
		copy(cells, row)
		if err := writeRecord(cw, bw, rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return writeError(err)
	}
	if err := bw.Flush(); err != nil {
		return writeError(err)
	}
	return nil
}

// writeRecord quotes a lone empty field, which would otherwise be a blank
// line and skipped on read.
func writeRecord(cw *csv.Writer, bw *bufio.Writer, rec []string) error {
	if len(rec) == 1 && rec[0] == "" {
		cw.Flush()
		if err := cw.Error(); err != nil {
			return writeError(err)
		}
		if _, err := bw.WriteString("\"\"\n"); err != nil {
			return writeError(err)
		}
		return nil
	}
	if err := cw.Write(rec); err != nil {
		return writeError(err)
	}
	return nil
}

func writeError(err error) error {
	return errs.Wrap(err, errs.KindFileAccess, "to_csv", "")
}
