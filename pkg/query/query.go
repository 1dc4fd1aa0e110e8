// Package query models the entity store's boolean predicate language.
//
// Predicates are built from typed terms and rendered into the textual form
// the store accepts, for example:
//
//	type = "image_chunk" && app = "golem-images-0.1" && part = 2
//
// Parse turns the textual form back into the same tree so store backends
// can evaluate or translate it.
package query

import (
	"strconv"
	"strings"
)

// Field names an annotation key.
type Field string

// Annotated is anything a predicate can be evaluated against.
type Annotated interface {
	HasString(key, value string) bool
	HasNumeric(key string, value uint64) bool
}

// Predicate is a node of the query tree.
type Predicate interface {
	String() string
	Match(a Annotated) bool
	predicate()
}

// Equal matches a string annotation.
type Equal struct {
	Field Field
	Value string
}

// EqualNum matches a numeric annotation.
type EqualNum struct {
	Field Field
	Value uint64
}

// And matches when every term matches. An empty And matches everything.
type And struct {
	Terms []Predicate
}

// Or matches when any term matches. An empty Or matches nothing.
type Or struct {
	Terms []Predicate
}

func Eq(field Field, value string) Equal {
	return Equal{Field: field, Value: value}
}

func EqNum(field Field, value uint64) EqualNum {
	return EqualNum{Field: field, Value: value}
}

func AllOf(terms ...Predicate) And {
	return And{Terms: terms}
}

func AnyOf(terms ...Predicate) Or {
	return Or{Terms: terms}
}

func (Equal) predicate()    {}
func (EqualNum) predicate() {}
func (And) predicate()      {}
func (Or) predicate()       {}

func (e Equal) String() string {
	return string(e.Field) + " = " + Quote(e.Value)
}

func (e EqualNum) String() string {
	return string(e.Field) + " = " + strconv.FormatUint(e.Value, 10)
}

func (a And) String() string {
	parts := make([]string, 0, len(a.Terms))
	for _, term := range a.Terms {
		if or, ok := term.(Or); ok && len(or.Terms) > 1 {
			parts = append(parts, "("+or.String()+")")

			continue
		}
		parts = append(parts, term.String())
	}

	return strings.Join(parts, " && ")
}

func (o Or) String() string {
	parts := make([]string, 0, len(o.Terms))
	for _, term := range o.Terms {
		parts = append(parts, term.String())
	}

	return strings.Join(parts, " || ")
}

func (e Equal) Match(a Annotated) bool {
	return a.HasString(string(e.Field), e.Value)
}

func (e EqualNum) Match(a Annotated) bool {
	return a.HasNumeric(string(e.Field), e.Value)
}

func (a And) Match(ann Annotated) bool {
	for _, term := range a.Terms {
		if !term.Match(ann) {
			return false
		}
	}

	return true
}

func (o Or) Match(ann Annotated) bool {
	for _, term := range o.Terms {
		if term.Match(ann) {
			return true
		}
	}

	return false
}

// Quote renders s as a string literal, escaping quotes and backslashes.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')

	return b.String()
}
