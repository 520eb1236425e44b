package eval

import (
	"fmt"
	"strings"
)

type Kind int

const (
	LiteralKind Kind = iota
	PropertyRefKind
	DataRefKind
	SwitchKind
	ExprKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		LiteralKind:     "Literal",
		PropertyRefKind: "PropertyRef",
		DataRefKind:     "DataRef",
		SwitchKind:      "Switch",
		ExprKind:        "Expr",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// Context gives values access to the file being validated and to the schema
// object hosting the value.
type Context interface {
	// Property returns the parsed value of another property of the file.
	Property(name string) (any, bool)
	// Data returns a value of the hosting schema object.
	Data(name string) (any, bool)
}

type Value interface {
	Kind() Kind
	// Evaluate resolves the value. It reports false when a reference
	// cannot be resolved or an expression fails.
	Evaluate(ctx Context) (any, bool)
	// Dependencies lists the properties the value may read.
	Dependencies() []string
	String() string
}

type Literal struct {
	V any
}

func (Literal) Kind() Kind                     { return LiteralKind }
func (l Literal) Evaluate(Context) (any, bool) { return l.V, true }
func (Literal) Dependencies() []string         { return nil }
func (l Literal) String() string               { return fmt.Sprintf("%v", l.V) }

type PropertyRef struct {
	Name string
}

func (PropertyRef) Kind() Kind { return PropertyRefKind }

func (r PropertyRef) Evaluate(ctx Context) (any, bool) {
	if ctx == nil {
		return nil, false
	}
	return ctx.Property(r.Name)
}

func (r PropertyRef) Dependencies() []string { return []string{r.Name} }
func (r PropertyRef) String() string         { return "@" + r.Name }

type DataRef struct {
	Name string
}

func (DataRef) Kind() Kind { return DataRefKind }

func (r DataRef) Evaluate(ctx Context) (any, bool) {
	if ctx == nil {
		return nil, false
	}
	return ctx.Data(r.Name)
}

func (DataRef) Dependencies() []string { return nil }
func (r DataRef) String() string       { return "#" + r.Name }

// Recorder wraps a Context and records every property it is asked for.
type Recorder struct {
	Context
	Refs []string
}

func (r *Recorder) Property(name string) (any, bool) {
	r.Refs = append(r.Refs, name)
	if r.Context == nil {
		return nil, false
	}
	return r.Context.Property(name)
}

func (r *Recorder) Data(name string) (any, bool) {
	if r.Context == nil {
		return nil, false
	}
	return r.Context.Data(name)
}

// Parse builds a Value from a decoded definition value.
//
// Strings are interpreted: "@Name" and "(Name)" are property references,
// "#Name" a data reference and "=..." an expression; a leading backslash
// escapes these. Objects with a "Cases" (or "Switch") key are switches.
// Everything else is a literal.
func Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case string:
		return ParseString(x)
	case map[string]any:
		if cs, ok := lookupFold(x, "Cases", "Switch"); ok {
			return parseSwitch(cs)
		}
	}
	return Literal{V: raw}, nil
}

func ParseString(s string) (Value, error) {
	switch {
	case strings.HasPrefix(s, `\`) && len(s) > 1 && strings.ContainsRune("@#=(", rune(s[1])):
		return Literal{V: s[1:]}, nil
	case len(s) > 1 && s[0] == '@' && isName(s[1:]):
		return PropertyRef{Name: s[1:]}, nil
	case len(s) > 2 && s[0] == '(' && s[len(s)-1] == ')' && isName(s[1:len(s)-1]):
		return PropertyRef{Name: s[1 : len(s)-1]}, nil
	case len(s) > 1 && s[0] == '#' && isName(s[1:]):
		return DataRef{Name: s[1:]}, nil
	case len(s) > 1 && s[0] == '=':
		return ParseExpr(s[1:])
	}
	return Literal{V: s}, nil
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i], i == 0) {
			return false
		}
	}
	return true
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9', c == '.':
		return !first
	}
	return false
}

func lookupFold(m map[string]any, keys ...string) (any, bool) {
	for k, v := range m {
		for _, key := range keys {
			if strings.EqualFold(k, key) {
				return v, true
			}
		}
	}
	return nil, false
}
