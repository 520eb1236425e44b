package schema

import (
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/eval"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
)

// Type parses the value of a property.
type Type interface {
	// ID is the id the type's factory is registered under.
	ID() string
	// String is the name shown to users.
	String() string
	// Parse turns a.Node into a value. It reports false when there is no
	// usable value, after reporting why to a.Sink. Problems which leave a
	// value usable, such as a list with too few elements, are reported
	// without failing.
	Parse(a *ParseArgs) (any, bool)
	// Convert turns a value computed by package eval, such as a default or
	// a referenced property's value, into the type's Go value.
	Convert(v any) (any, bool)
}

// ParseArgs carries everything a Type needs to parse one value.
type ParseArgs struct {
	// Node is the value node, nil when there is none.
	Node *ir.Node
	// Property is the property node holding Node. It is nil for list
	// elements and when the key is absent.
	Property *ir.Node
	// Scope is the dictionary the property was looked up in.
	Scope *ir.Node
	// Key is the key the value was looked up under.
	Key string
	// Prefix is prepended, with an underscore, to the keys of a legacy
	// template, as in "Blade_0_Damage".
	Prefix  string
	Def     *Property
	Dialect Dialect
	Missing MissingBehavior

	Sink diag.Sink
	// Related receives nodes consulted besides Property, such as legacy
	// list elements, so they are not reported as unknown.
	Related func(n *ir.Node)
	Eval    eval.Context
}

// Report reports a diagnostic on n, or on the closest existing node when n
// is nil.
func (a *ParseArgs) Report(c diag.Code, n *ir.Node, format string, args ...any) {
	r := a.Anchor()
	if n != nil {
		r = n.Range
	}
	diag.Report(a.Sink, c, r, format, args...)
}

// Anchor is the range diagnostics about the value attach to: the value,
// the key when the value is missing, or the start of the scope.
func (a *ParseArgs) Anchor() pos.Range {
	switch {
	case a.Node != nil:
		return a.Node.Range
	case a.Property != nil:
		return a.Property.KeyRange
	case a.Scope != nil:
		if p := a.Scope.Parent; p != nil && p.Type == ir.PropertyType {
			return p.KeyRange
		}
		r := a.Scope.Range
		r.End = r.Start
		return r
	}
	return pos.Range{}
}

// MarkRelated hands n to Related.
func (a *ParseArgs) MarkRelated(n *ir.Node) {
	if n != nil && a.Related != nil {
		a.Related(n)
	}
}

// Child returns a copy of a for parsing node, held by property prop.
func (a *ParseArgs) Child(node, prop *ir.Node) *ParseArgs {
	res := *a
	res.Node = node
	res.Property = prop
	return &res
}

// Default returns t's value for a missing node following a.Missing and the
// property's defaults.
func (a *ParseArgs) Default(t Type) (any, bool) {
	if a.Missing == MissingFail || a.Def == nil {
		return nil, false
	}
	v := a.Def.Default
	if a.Property != nil && a.Def.IncludedDefault != nil {
		v = a.Def.IncludedDefault
	}
	return a.Evaluate(t, v)
}

// Join joins the legacy template prefix and key with an underscore.
func Join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "_" + key
}

// Evaluate evaluates v and converts the result with t.
func (a *ParseArgs) Evaluate(t Type, v eval.Value) (any, bool) {
	if v == nil {
		return nil, false
	}
	raw, ok := v.Evaluate(a.Eval)
	if !ok || raw == nil {
		return nil, false
	}
	return t.Convert(raw)
}

// Shape reports that a.Node does not have the shape t expects.
func (a *ParseArgs) Shape(t Type, want string) {
	got := "nothing"
	if a.Node != nil {
		got = "a " + strings.ToLower(a.Node.Type.String())
	}
	a.Report(diag.WrongShape, a.Node, "%s expects %s, got %s", t, want, got)
}
