package types

import (
	"fmt"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/debug"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

// Typed is a schema.Type whose values are T.
type Typed[T any] interface {
	schema.Type
	ParseValue(a *schema.ParseArgs) (T, bool)
}

// Scalar parses the text of a single value node.
type Scalar[T any] struct {
	id   string
	name string
	conv func(s string) (T, error)
	// from converts values computed by package eval. Without it they are
	// formatted and converted like text.
	from func(v any) (T, bool)
	// check validates a converted value, reporting on failure.
	check func(a *schema.ParseArgs, n *ir.Node, v T) bool
}

func NewScalar[T any](id string, conv func(s string) (T, error)) *Scalar[T] {
	return &Scalar[T]{id: id, name: id, conv: conv}
}

func (s *Scalar[T]) ID() string     { return s.id }
func (s *Scalar[T]) String() string { return s.name }

func (s *Scalar[T]) Parse(a *schema.ParseArgs) (any, bool) {
	v, ok := s.ParseValue(a)
	if !ok {
		return nil, false
	}
	return v, true
}

func (s *Scalar[T]) ParseValue(a *schema.ParseArgs) (T, bool) {
	var zero T
	n := a.Node
	if n == nil {
		v, ok := a.Default(s)
		if !ok {
			if a.Property != nil {
				a.Report(diag.MissingValue, a.Property, "%s needs a %s value", a.Property.Key, s)
			}
			return zero, false
		}
		t, ok := v.(T)
		return t, ok
	}
	if n.Type != ir.ValueType {
		a.Shape(s, "a value")
		return zero, false
	}
	v, err := s.conv(n.Text)
	if debug.Types() {
		debug.Logf("%s %q -> %v (%v)\n", s.id, n.Text, v, err)
	}
	if err != nil {
		a.Report(diag.InvalidValue, n, "%q is not a valid %s: %v", n.Text, s, err)
		return zero, false
	}
	if s.check != nil && !s.check(a, n, v) {
		return zero, false
	}
	return v, true
}

func (s *Scalar[T]) Convert(v any) (any, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	if s.from != nil {
		t, ok := s.from(v)
		if !ok {
			return nil, false
		}
		return t, true
	}
	t, err := s.conv(strings.TrimSpace(fmt.Sprint(v)))
	if err != nil {
		return nil, false
	}
	return t, true
}
