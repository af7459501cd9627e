package array

import (
	"fmt"
	"strings"
)

// Type is the inferred type of a cell or a column.
//
// The order of the constants is the widening order: Int < Float < String.
type Type uint8

const (
	Int Type = iota
	Float
	String
)

func (t Type) String() string {
	switch t {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case String:
		return "STRING"
	default:
		return "INVALID"
	}
}

// Numeric reports whether values of t can be parsed as numbers.
func (t Type) Numeric() bool { return t == Int || t == Float }

// ParseType accepts the names produced by Type.String, case-insensitively.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INTEGER", "INT64":
		return Int, nil
	case "FLOAT", "DOUBLE", "FLOAT64":
		return Float, nil
	case "STRING", "STR", "UTF8", "TEXT":
		return String, nil
	default:
		return 0, fmt.Errorf("unknown type %q", s)
	}
}

// Widen returns the least upper bound of a and b.
func Widen(a, b Type) Type {
	if a > b {
		return a
	}
	return b
}

// Infer returns the type of one text value.
//
// The empty string is STRING. It never reaches column inference because
// empty cells are null and excluded. Sentinels infer as FLOAT so a column
// of computed results stays numeric.
func Infer(s string) Type {
	if s == "" {
		return String
	}
	if _, ok := ParseInt(s); ok {
		return Int
	}
	if isFloatText(s) || IsSentinel(s) {
		return Float
	}
	return String
}
