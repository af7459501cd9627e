package expr

import (
	"fmt"
	"strings"

	"tabula/internal/array"
)

// Frame is the minimal interface required by predicate evaluation.
// It avoids depending on the concrete table to keep packages acyclic.
type Frame interface {
	RowCount() int
	Column(name string) ([]string, error)
	ColumnType(name string) (array.Type, error)
}

// Expr evaluates to one bit per row. Null cells never match a comparison.
type Expr interface {
	Eval(f Frame) (array.Bitmap, error)
}

type ColRef struct {
	Name string
}

func Col(name string) ColRef { return ColRef{Name: name} }

func (c ColRef) Eq(v string) Expr  { return compareExpr{col: c.Name, op: cmpEq, lit: v} }
func (c ColRef) Neq(v string) Expr { return compareExpr{col: c.Name, op: cmpNeq, lit: v} }
func (c ColRef) Lt(v string) Expr  { return compareExpr{col: c.Name, op: cmpLt, lit: v} }
func (c ColRef) Lte(v string) Expr { return compareExpr{col: c.Name, op: cmpLte, lit: v} }
func (c ColRef) Gt(v string) Expr  { return compareExpr{col: c.Name, op: cmpGt, lit: v} }
func (c ColRef) Gte(v string) Expr { return compareExpr{col: c.Name, op: cmpGte, lit: v} }

// Match compares cell text exactly, even on numeric columns.
func (c ColRef) Match(v string) Expr { return matchExpr{col: c.Name, vals: []string{v}} }

func (c ColRef) In(vals ...string) Expr {
	return matchExpr{col: c.Name, vals: append([]string(nil), vals...)}
}

func (c ColRef) IsNull() Expr    { return isNullExpr{col: c.Name, negate: false} }
func (c ColRef) IsNotNull() Expr { return isNullExpr{col: c.Name, negate: true} }

func Not(e Expr) Expr { return notExpr{child: e} }

func And(a, b Expr) Expr { return logicalExpr{left: a, right: b, op: "and"} }
func Or(a, b Expr) Expr  { return logicalExpr{left: a, right: b, op: "or"} }

type cmpOp uint8

const (
	cmpInvalid cmpOp = iota
	cmpEq
	cmpNeq
	cmpLt
	cmpLte
	cmpGt
	cmpGte
)

func (op cmpOp) String() string {
	switch op {
	case cmpEq:
		return "=="
	case cmpNeq:
		return "!="
	case cmpLt:
		return "<"
	case cmpLte:
		return "<="
	case cmpGt:
		return ">"
	case cmpGte:
		return ">="
	default:
		return "?"
	}
}

func parseOp(s string) cmpOp {
	switch s {
	case "==", "=":
		return cmpEq
	case "!=", "<>":
		return cmpNeq
	case "<":
		return cmpLt
	case "<=":
		return cmpLte
	case ">":
		return cmpGt
	case ">=":
		return cmpGte
	default:
		return cmpInvalid
	}
}

type compareExpr struct {
	col string
	op  cmpOp
	lit string
}

func (e compareExpr) String() string { return fmt.Sprintf("%s %s %q", e.col, e.op, e.lit) }

// Eval compares numerically when the column is INT or FLOAT and the
// literal parses as a number, and by text otherwise.
func (e compareExpr) Eval(f Frame) (array.Bitmap, error) {
	vals, err := f.Column(e.col)
	if err != nil {
		return array.Bitmap{}, err
	}
	typ, err := f.ColumnType(e.col)
	if err != nil {
		return array.Bitmap{}, err
	}
	out := array.NewBitmap(len(vals), false)
	litNum, litOK := array.ParseFloat(e.lit)
	numeric := typ.Numeric() && litOK
	for i, v := range vals {
		if v == "" {
			continue
		}
		var ord int
		if numeric {
			x, ok := array.ParseFloat(v)
			if !ok {
				continue
			}
			ord = cmpFloat(x, litNum)
		} else {
			ord = strings.Compare(v, e.lit)
		}
		if cmpOrd(e.op, ord) {
			out.Set(i)
		}
	}
	return out, nil
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpOrd(op cmpOp, ord int) bool {
	switch op {
	case cmpEq:
		return ord == 0
	case cmpNeq:
		return ord != 0
	case cmpLt:
		return ord < 0
	case cmpLte:
		return ord <= 0
	case cmpGt:
		return ord > 0
	case cmpGte:
		return ord >= 0
	default:
		return false
	}
}

type matchExpr struct {
	col  string
	vals []string
}

func (e matchExpr) Eval(f Frame) (array.Bitmap, error) {
	vals, err := f.Column(e.col)
	if err != nil {
		return array.Bitmap{}, err
	}
	set := make(map[string]struct{}, len(e.vals))
	for _, v := range e.vals {
		set[v] = struct{}{}
	}
	out := array.NewBitmap(len(vals), false)
	for i, v := range vals {
		if _, ok := set[v]; ok {
			out.Set(i)
		}
	}
	return out, nil
}

type isNullExpr struct {
	col    string
	negate bool
}

func (e isNullExpr) Eval(f Frame) (array.Bitmap, error) {
	vals, err := f.Column(e.col)
	if err != nil {
		return array.Bitmap{}, err
	}
	out := array.NewBitmap(len(vals), false)
	for i, v := range vals {
		if (v == "") != e.negate {
			out.Set(i)
		}
	}
	return out, nil
}

type notExpr struct {
	child Expr
}

func (e notExpr) Eval(f Frame) (array.Bitmap, error) {
	m, err := e.child.Eval(f)
	if err != nil {
		return array.Bitmap{}, err
	}
	return m.Not(), nil
}

type logicalExpr struct {
	left  Expr
	right Expr
	op    string
}

func (e logicalExpr) Eval(f Frame) (array.Bitmap, error) {
	a, err := e.left.Eval(f)
	if err != nil {
		return array.Bitmap{}, err
	}
	b, err := e.right.Eval(f)
	if err != nil {
		return array.Bitmap{}, err
	}
	if a.Len() != b.Len() {
		return array.Bitmap{}, fmt.Errorf("mask length mismatch")
	}
	if e.op == "and" {
		return a.And(b), nil
	}
	return a.Or(b), nil
}
