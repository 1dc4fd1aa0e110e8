package query

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError reports where a predicate string stopped making sense.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("query: position %d: %s", e.Pos, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokEq
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse reads a predicate in the store's textual form.
func Parse(s string) (Predicate, error) {
	tokens, err := lex(s)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	pred, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}

	return pred, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}

	return tok
}

func (p *parser) parseOr() (Predicate, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	terms := []Predicate{first}
	for p.peek().kind == tokOr {
		p.next()
		term, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	if len(terms) == 1 {
		return first, nil
	}

	return Or{Terms: terms}, nil
}

func (p *parser) parseAnd() (Predicate, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	terms := []Predicate{first}
	for p.peek().kind == tokAnd {
		p.next()
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	if len(terms) == 1 {
		return first, nil
	}

	return And{Terms: terms}, nil
}

func (p *parser) parseTerm() (Predicate, error) {
	tok := p.next()
	switch tok.kind {
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: "expected )"}
		}

		return inner, nil

	case tokIdent:
		if eq := p.next(); eq.kind != tokEq {
			return nil, &SyntaxError{Pos: eq.pos, Msg: "expected ="}
		}

		value := p.next()
		switch value.kind {
		case tokString:
			return Equal{Field: Field(tok.text), Value: value.text}, nil
		case tokNumber:
			n, err := strconv.ParseUint(value.text, 10, 64)
			if err != nil {
				return nil, &SyntaxError{Pos: value.pos, Msg: "number out of range"}
			}

			return EqualNum{Field: Field(tok.text), Value: n}, nil
		default:
			return nil, &SyntaxError{Pos: value.pos, Msg: "expected string or number"}
		}

	case tokEOF:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected end of query"}

	default:
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
}

func lex(s string) ([]token, error) {
	var tokens []token

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++

		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++

		case c == '=':
			tokens = append(tokens, token{kind: tokEq, text: "=", pos: i})
			i++

		case strings.HasPrefix(s[i:], "&&"):
			tokens = append(tokens, token{kind: tokAnd, text: "&&", pos: i})
			i += 2

		case strings.HasPrefix(s[i:], "||"):
			tokens = append(tokens, token{kind: tokOr, text: "||", pos: i})
			i += 2

		case c == '"':
			text, end, err := lexString(s, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: text, pos: i})
			i = end

		case c >= '0' && c <= '9':
			start := i
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: s[start:i], pos: start})

		case isIdentStart(c):
			start := i
			for i < len(s) && isIdentPart(s[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: s[start:i], pos: start})

		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}

	return append(tokens, token{kind: tokEOF, pos: len(s)}), nil
}

// lexString reads a quoted literal starting at s[start] and returns its
// unescaped value and the index just past the closing quote.
func lexString(s string, start int) (string, int, error) {
	var b strings.Builder
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", 0, &SyntaxError{Pos: i, Msg: "dangling escape"}
			}
			i++
			b.WriteByte(s[i])
		case '"':
			return b.String(), i + 1, nil
		default:
			b.WriteByte(s[i])
		}
	}

	return "", 0, &SyntaxError{Pos: start, Msg: "unterminated string"}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

// ValidField reports whether name can be used as an annotation key in a
// predicate.
func ValidField(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}

	return true
}
