package expr

import (
	"fmt"
	"strings"
)

// Parse builds an Expr from a query such as
//
//	age >= 30 and city == "Oslo"
//	not (score < 10) or name is null
//
// Column names and literals may be quoted with ', " or `. "and" binds
// tighter than "or".
func Parse(query string) (Expr, error) {
	toks, err := tokenize(query)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty query")
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected %q at token %d", p.toks[p.pos].text, p.pos)
	}
	return e, nil
}

type tokKind uint8

const (
	tokWord tokKind = iota
	tokQuoted
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
}

func (t token) keyword(k string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, k)
}

func isOpChar(c byte) bool { return c == '=' || c == '!' || c == '<' || c == '>' }

func tokenize(s string) ([]token, error) {
	var out []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(':
			out = append(out, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			out = append(out, token{kind: tokRParen, text: ")"})
			i++
		case c == '\'' || c == '"' || c == '`':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote at %d", i)
			}
			out = append(out, token{kind: tokQuoted, text: s[i+1 : i+1+end]})
			i += end + 2
		case isOpChar(c):
			j := i
			for j < len(s) && isOpChar(s[j]) {
				j++
			}
			out = append(out, token{kind: tokOp, text: s[i:j]})
			i = j
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" \t\n()'\"`", rune(s[j])) && !isOpChar(s[j]) {
				j++
			}
			out = append(out, token{kind: tokWord, text: s[i:j]})
			i = j
		}
	}
	return out, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, error) {
	t, ok := p.peek()
	if !ok {
		return token{}, fmt.Errorf("unexpected end of query")
	}
	p.pos++
	return t, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || !t.keyword("or") {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or(left, right)
	}
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || !t.keyword("and") {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And(left, right)
	}
}

func (p *parser) parseUnary() (Expr, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case t.keyword("not"):
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not(child), nil
	case t.kind == tokLParen:
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing, err := p.next()
		if err != nil {
			return nil, err
		}
		if closing.kind != tokRParen {
			return nil, fmt.Errorf("expected ) got %q", closing.text)
		}
		return e, nil
	case t.kind == tokWord || t.kind == tokQuoted:
		return p.parseComparison(t.text)
	default:
		return nil, fmt.Errorf("expected column got %q", t.text)
	}
}

func (p *parser) parseComparison(col string) (Expr, error) {
	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.keyword("is") {
		n, err := p.next()
		if err != nil {
			return nil, err
		}
		negate := false
		if n.keyword("not") {
			negate = true
			if n, err = p.next(); err != nil {
				return nil, err
			}
		}
		if !n.keyword("null") {
			return nil, fmt.Errorf("expected null got %q", n.text)
		}
		if negate {
			return Col(col).IsNotNull(), nil
		}
		return Col(col).IsNull(), nil
	}
	if t.kind != tokOp {
		return nil, fmt.Errorf("expected operator after %s got %q", col, t.text)
	}
	op := parseOp(t.text)
	if op == cmpInvalid {
		return nil, fmt.Errorf("unknown operator %q", t.text)
	}
	lit, err := p.next()
	if err != nil {
		return nil, err
	}
	if lit.kind != tokWord && lit.kind != tokQuoted {
		return nil, fmt.Errorf("expected literal got %q", lit.text)
	}
	return compareExpr{col: col, op: op, lit: lit.text}, nil
}
