package types

import (
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/resolve"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

// Object is a compound type with its own properties. Its value is a map
// from declared key to parsed value.
//
// A modern object is a block:
//
//	Blade
//	{
//		Damage 10
//	}
//
// A legacy object spreads its properties over prefixed keys of the
// enclosing dictionary, as in Blade_Damage 10, or Blade_0_Damage 10 for
// the elements of a legacy list.
type Object struct {
	Name  string
	props []*schema.Property
}

func NewObject(name string) *Object {
	return &Object{Name: name}
}

func (o *Object) ID() string                            { return schema.ObjectFactory }
func (o *Object) String() string                        { return o.Name }
func (o *Object) Properties() []*schema.Property        { return o.props }
func (o *Object) SetProperties(props []*schema.Property) { o.props = props }

func (o *Object) Trimming() schema.Trimming {
	return schema.CreatesOtherPropertiesSameLevel
}

func (o *Object) Convert(v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	res := make(map[string]any, len(m))
	for k, e := range m {
		p := o.property(k)
		if p == nil {
			return nil, false
		}
		c, ok := p.Type.Convert(e)
		if !ok {
			return nil, false
		}
		res[p.Key] = c
	}
	return res, true
}

func (o *Object) property(key string) *schema.Property {
	for _, p := range o.props {
		if p.Matches(key) {
			return p
		}
	}
	return nil
}

func (o *Object) Parse(a *schema.ParseArgs) (any, bool) {
	v, ok := o.ParseValue(a)
	if !ok {
		return nil, false
	}
	return v, true
}

func (o *Object) ParseValue(a *schema.ParseArgs) (map[string]any, bool) {
	n := a.Node
	switch {
	case n != nil && n.Type == ir.DictionaryType:
		if !a.Dialect.AllowsModern() {
			a.Shape(o, "prefixed keys")
			return nil, false
		}
		s := o.scope(a, n)
		s.Dialect = schema.Modern
		res := s.Resolve()
		s.ReportUnknown()
		s.ReportRequired(res)
		return value(res), true

	case n == nil && a.Property == nil && a.Dialect.AllowsLegacy() && a.Scope != nil:
		s := o.scope(a, a.Scope)
		s.Prefix = schema.Join(a.Prefix, a.Key)
		s.Dialect = schema.Legacy
		res := s.Resolve()
		found := false
		for _, r := range res {
			if r.Node != nil {
				found = true
				a.MarkRelated(r.Node)
			}
			for _, rel := range r.Related {
				found = true
				a.MarkRelated(rel)
			}
		}
		if !found {
			return o.missing(a, s.Prefix)
		}
		s.ReportRequired(res)
		return value(res), true

	case n == nil:
		return o.missing(a, a.Key)
	}
	a.Shape(o, "a dictionary")
	return nil, false
}

func (o *Object) scope(a *schema.ParseArgs, dict *ir.Node) *resolve.Scope {
	s := resolve.NewScope(dict, o.props, a.Sink)
	s.Missing = a.Missing
	if a.Eval != nil {
		s.DataFunc = a.Eval.Data
	}
	return s
}

// missing handles an object with no keys at all. List elements, which have
// no property definition, report it.
func (o *Object) missing(a *schema.ParseArgs, key string) (map[string]any, bool) {
	v, ok := a.Default(o)
	if !ok {
		switch {
		case a.Property != nil:
			a.Report(diag.MissingValue, a.Property, "%s needs a value", a.Property.Key)
		case a.Def == nil:
			a.Report(diag.MissingElement, nil, "missing element %s", key)
		}
		return nil, false
	}
	res, ok := v.(map[string]any)
	return res, ok
}

func value(res []*resolve.Result) map[string]any {
	m := make(map[string]any, len(res))
	for _, r := range res {
		if r.OK {
			m[r.Prop.Key] = r.Value
		}
	}
	return m
}

func objectFactory(sp schema.Spec, _ *schema.Builder) (schema.Type, error) {
	return NewObject(sp.String("Name")), nil
}
