// Package json reads and writes tables as arrays of flat JSON objects.
package json

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"tabula/internal/array"
	"tabula/internal/errs"
	"tabula/internal/exec"
	"tabula/internal/logger"
)

// Read parses the file at path. A path that cannot be opened is a
// FileAccessError.
func Read(ctx context.Context, path string) (*exec.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindFileAccess, "read_json", path).WithDetail("path", path)
	}
	defer f.Close()

	t, err := Decode(ctx, f)
	if err != nil {
		return nil, err
	}
	rows, cols := t.Shape()
	logger.Debug("read json", zap.String("path", path), zap.Int("rows", rows), zap.Int("columns", cols))
	return t, nil
}

// Decode parses a top-level array of objects. The columns are the keys of
// the first object in document order; keys other objects add are ignored
// and keys they lack read as null. Strings, numbers and booleans are kept
// as their text, null as the empty cell, and nested values as compact JSON.
func Decode(ctx context.Context, r io.Reader) (*exec.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cancellable := ctx.Done() != nil
	if cancellable {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	dec := gojson.NewDecoder(r)
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return exec.Empty(), nil
	}
	if err != nil {
		return nil, decodeError(err)
	}
	if d, ok := tok.(gojson.Delim); !ok || d != '[' {
		return nil, errs.Newf(errs.KindArgument, "read_json", "expected array of objects, got %v", tok)
	}

	var (
		keys []string
		pos  map[string]int
		rows [][]string
	)
	const ctxCheckMask = 1024 - 1
	for iter := 0; dec.More(); iter++ {
		if cancellable && (iter&ctxCheckMask) == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		var raw gojson.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, decodeError(err)
		}
		if keys == nil {
			if keys, err = objectKeys(raw); err != nil {
				return nil, err
			}
			pos = make(map[string]int, len(keys))
			for i, k := range keys {
				pos[k] = i
			}
		}
		obj, err := decodeObject(raw, iter)
		if err != nil {
			return nil, err
		}
		row := make([]string, len(keys))
		for k, v := range obj {
			if i, ok := pos[k]; ok {
				row[i] = cellText(v)
			}
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return nil, decodeError(err)
	}

	types := make([]array.Type, len(keys))
	for i := range types {
		types[i] = array.String
	}
	return exec.NewTyped(keys, types, rows)
}

// objectKeys lists the keys of one object in document order, first
// occurrence only.
func objectKeys(raw []byte) ([]string, error) {
	dec := gojson.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, decodeError(err)
	}
	if d, ok := tok.(gojson.Delim); !ok || d != '{' {
		return nil, errs.New(errs.KindArgument, "read_json", "first element is not an object")
	}
	keys := []string{}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, decodeError(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errs.Newf(errs.KindArgument, "read_json", "unexpected token %v", tok)
		}
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *gojson.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return decodeError(err)
		}
		if d, ok := tok.(gojson.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

func decodeObject(raw []byte, row int) (map[string]any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, errs.Wrap(err, errs.KindArgument, "read_json", "element is not an object").WithDetail("row", row)
	}
	if obj == nil {
		return nil, errs.New(errs.KindArgument, "read_json", "element is null").WithDetail("row", row)
	}
	return obj, nil
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case gojson.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := gojson.MarshalNoEscape(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func decodeError(err error) error {
	return errs.Wrap(err, errs.KindArgument, "read_json", "malformed input")
}
