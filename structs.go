package tabula

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"tabula/internal/array"
	"tabula/internal/errs"
	"tabula/internal/exec"
)

type FromStructsOption func(*fromStructsOptions)

type fromStructsOptions struct {
	useJSONTags bool
	tagName     string
}

// FromStructsUseJSONTags names columns after `json:"name"` tags. A
// `tabula:"..."` tag, or the custom tag name, still takes priority.
func FromStructsUseJSONTags() FromStructsOption {
	return func(o *fromStructsOptions) { o.useJSONTags = true }
}

// FromStructsTag sets the tag name used for column naming (default: "tabula").
func FromStructsTag(tag string) FromStructsOption {
	return func(o *fromStructsOptions) {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			o.tagName = tag
		}
	}
}

// FromStructs builds a table with one row per element of rows and one
// column per supported exported field.
//
// Integer fields become INT columns, float fields FLOAT, and string and
// bool fields STRING; bools are written as True and False. A nil pointer
// field, a nil element and an empty string are null.
func FromStructs[T any](rows []T, opts ...FromStructsOption) (*Table, error) {
	o := fromStructsOptions{tagName: "tabula"}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	ptrElem := false
	if t.Kind() == reflect.Pointer {
		ptrElem = true
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errs.Newf(errs.KindArgument, "from_structs", "element type %s is not a struct", t)
	}

	fields, err := structFields(t, o)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errs.New(errs.KindArgument, "from_structs", "no supported exported fields")
	}
	names := make([]string, len(fields))
	types := make([]array.Type, len(fields))
	for i, f := range fields {
		names[i] = f.name
		types[i] = f.typ
	}

	cells := make([][]string, len(rows))
	sv := reflect.ValueOf(rows)
	for i := range cells {
		row := make([]string, len(fields))
		cells[i] = row
		rv := sv.Index(i)
		if ptrElem {
			if rv.IsNil() {
				continue
			}
			rv = rv.Elem()
		}
		for j, f := range fields {
			fv := rv.Field(f.index)
			if f.nullable {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			row[j] = formatField(fv)
		}
	}
	return exec.NewTyped(names, types, cells)
}

type structField struct {
	name     string
	index    int
	nullable bool
	typ      array.Type
}

func structFields(t reflect.Type, o fromStructsOptions) ([]structField, error) {
	out := make([]structField, 0, t.NumField())
	seen := map[string]struct{}{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		name, ok := fieldName(sf, o)
		if !ok {
			continue
		}
		typ, nullable, ok := fieldType(sf.Type)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, errs.Newf(errs.KindSchema, "from_structs", "duplicate column name %q", name)
		}
		seen[name] = struct{}{}
		out = append(out, structField{name: name, index: i, nullable: nullable, typ: typ})
	}
	return out, nil
}

// fieldName prefers the custom tag, then the json tag when enabled, then
// the field name. A "-" tag skips the field.
func fieldName(sf reflect.StructField, o fromStructsOptions) (string, bool) {
	if o.tagName != "" {
		tag := strings.TrimSpace(sf.Tag.Get(o.tagName))
		if tag == "-" {
			return "", false
		}
		if tag != "" {
			return tag, true
		}
	}
	if o.useJSONTags {
		if jt := sf.Tag.Get("json"); jt != "" {
			name, _, _ := strings.Cut(jt, ",")
			name = strings.TrimSpace(name)
			if name == "-" {
				return "", false
			}
			if name != "" {
				return name, true
			}
		}
	}
	return sf.Name, true
}

func fieldType(t reflect.Type) (array.Type, bool, bool) {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool:
		return array.String, nullable, true
	case reflect.Float32, reflect.Float64:
		return array.Float, nullable, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return array.Int, nullable, true
	default:
		return 0, false, false
	}
}

func formatField(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		if v.Bool() {
			return exec.True
		}
		return exec.False
	case reflect.Float32, reflect.Float64:
		return array.FormatFloat(v.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return fmt.Sprint(v.Interface())
	}
}
