package types

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/eval"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

// ListMode is a set of ways a list may be written.
type ListMode uint8

const (
	// ModernList is a bracketed list: Key [ a b ].
	ModernList ListMode = 1 << iota
	// ModernSingle is one element in place of the list: Key a.
	ModernSingle
	// LegacyCount is a count followed by numbered siblings:
	// Keys 2, Key_0 a, Key_1 b.
	LegacyCount
	// LegacySingle is one element under the singular key: Key a.
	LegacySingle

	AllModes = ModernList | ModernSingle | LegacyCount | LegacySingle
)

// MaxLegacyCount bounds the number of numbered siblings probed.
const MaxLegacyCount = 4096

var listModeNames = map[string]ListMode{
	"modernlist":   ModernList,
	"modernsingle": ModernSingle,
	"legacycount":  LegacyCount,
	"legacysingle": LegacySingle,
	"modern":       ModernList | ModernSingle,
	"legacy":       LegacyCount | LegacySingle,
	"all":          AllModes,
}

func (m ListMode) String() string {
	var parts []string
	for _, x := range []struct {
		m ListMode
		s string
	}{{ModernList, "ModernList"}, {ModernSingle, "ModernSingle"}, {LegacyCount, "LegacyCount"}, {LegacySingle, "LegacySingle"}} {
		if m&x.m != 0 {
			parts = append(parts, x.s)
		}
	}
	return strings.Join(parts, "|")
}

// List parses a list of Elem written in any of its Modes.
type List struct {
	Elem  schema.Type
	Modes ListMode
	// Min and Max bound the element count, inclusive. A zero Max is no
	// bound. Counts out of bounds are reported without failing.
	Min, Max int
	// Unique reports duplicate elements.
	Unique bool
	// ElementDefault fills legacy elements whose key is absent,
	// ElementIncludedDefault those whose key has no value.
	ElementDefault         eval.Value
	ElementIncludedDefault eval.Value
}

func (l *List) ID() string           { return "List" }
func (l *List) String() string       { return "List<" + l.Elem.String() + ">" }
func (l *List) Element() schema.Type { return l.Elem }

func (l *List) Trimming() schema.Trimming {
	if l.Modes&(LegacyCount|LegacySingle) != 0 {
		return schema.CreatesSiblings
	}
	return schema.ExactOnly
}

func (l *List) Convert(v any) (any, bool) {
	list, ok := v.([]any)
	if !ok {
		list = []any{v}
	}
	res := make([]any, 0, len(list))
	for _, e := range list {
		c, ok := l.Elem.Convert(e)
		if !ok {
			return nil, false
		}
		res = append(res, c)
	}
	return res, true
}

func (l *List) Parse(a *schema.ParseArgs) (any, bool) {
	v, ok := l.ParseValue(a)
	if !ok {
		return nil, false
	}
	return v, true
}

// element is a parsed element and the node it was read from.
type element struct {
	v any
	n *ir.Node
}

func (l *List) ParseValue(a *schema.ParseArgs) ([]any, bool) {
	modern, legacy := a.Dialect.AllowsModern(), a.Dialect.AllowsLegacy()
	n := a.Node
	switch {
	case n == nil:
		if legacy && l.Modes&LegacySingle != 0 && a.Property == nil {
			if p := l.singleKey(a); p != nil {
				return l.finish(a, l.parseSingle(a, p.Value, p))
			}
		}
		if legacy && l.Modes&LegacyCount != 0 && a.Property == nil && a.Scope != nil {
			if a.Scope.Get(l.elementKey(a, 0)) != nil {
				// elements without a count
				a.Report(diag.MissingElement, nil, "%s has numbered elements but no count", a.Key)
			}
		}
		v, ok := a.Default(l)
		if !ok {
			if a.Property != nil {
				a.Report(diag.MissingValue, a.Property, "%s needs a value", a.Property.Key)
			}
			return nil, false
		}
		res, ok := v.([]any)
		return res, ok

	case n.Type == ir.ListType:
		if !modern || l.Modes&ModernList == 0 {
			a.Shape(l, l.want(legacy))
			return nil, false
		}
		var res []element
		failed := 0
		for _, e := range n.Elements() {
			c := a.Child(e, nil)
			c.Def = nil
			c.Dialect = schema.Modern
			v, ok := l.Elem.Parse(c)
			if !ok {
				failed++
				continue
			}
			res = append(res, element{v, e})
		}
		if failed != 0 && len(res) == 0 {
			return nil, false
		}
		return l.finishCount(a, res, len(res)+failed)

	case n.Type == ir.DictionaryType:
		if modern && l.Modes&ModernSingle != 0 && acceptsDictionary(l.Elem) {
			return l.finish(a, l.parseSingle(a, n, a.Property))
		}
		a.Shape(l, l.want(legacy))
		return nil, false
	}

	if legacy && l.Modes&LegacyCount != 0 && a.Scope != nil {
		if count, ok := couldBeLegacyCount(n); ok {
			return l.parseLegacy(a, count)
		}
	}
	if (modern && l.Modes&ModernSingle != 0) || (legacy && l.Modes&LegacySingle != 0) {
		return l.finish(a, l.parseSingle(a, n, a.Property))
	}
	if legacy && l.Modes&LegacyCount != 0 {
		a.Report(diag.InvalidValue, n, "%q is not an element count", n.Text)
		return nil, false
	}
	a.Shape(l, l.want(legacy))
	return nil, false
}

func (l *List) want(legacy bool) string {
	if legacy && l.Modes&LegacyCount != 0 {
		return "a list or an element count"
	}
	return "a list"
}

// couldBeLegacyCount reports whether a bare value reads as an element
// count: a non negative integer, not quoted.
func couldBeLegacyCount(n *ir.Node) (int, bool) {
	if n.Quoted {
		return 0, false
	}
	c, err := strconv.Atoi(strings.TrimSpace(n.Text))
	if err != nil || c < 0 {
		return 0, false
	}
	return c, true
}

func acceptsDictionary(t schema.Type) bool {
	switch t.(type) {
	case schema.Compound, *Dictionary:
		return true
	}
	return false
}

// singleKey returns the property holding a legacy single element, written
// under the singular key.
func (l *List) singleKey(a *schema.ParseArgs) *ir.Node {
	if a.Scope == nil || a.Def == nil {
		return nil
	}
	key := a.Def.Singular()
	if strings.EqualFold(key, a.Def.Key) {
		return nil
	}
	p := a.Scope.Get(schema.Join(a.Prefix, key))
	if p != nil {
		a.MarkRelated(p)
	}
	return p
}

func (l *List) parseSingle(a *schema.ParseArgs, n, prop *ir.Node) []element {
	c := a.Child(n, prop)
	c.Def = nil
	if n == nil {
		c.Dialect = schema.Legacy
	}
	v, ok := l.Elem.Parse(c)
	if !ok {
		return nil
	}
	return []element{{v, n}}
}

func (l *List) singular(a *schema.ParseArgs) string {
	if a.Def != nil {
		return a.Def.Singular()
	}
	return schema.Singular(a.Key)
}

func (l *List) elementKey(a *schema.ParseArgs, i int) string {
	return schema.Join(a.Prefix, l.singular(a)) + "_" + strconv.Itoa(i)
}

func (l *List) parseLegacy(a *schema.ParseArgs, count int) ([]any, bool) {
	if count > MaxLegacyCount {
		a.Report(diag.TooManyElements, a.Node, "%d elements is more than the limit of %d", count, MaxLegacyCount)
		count = MaxLegacyCount
	}
	_, compound := l.Elem.(schema.Compound)
	var res []element
	failed := 0
	for i := 0; i < count; i++ {
		key := l.elementKey(a, i)
		c := a.Child(nil, nil)
		c.Def = nil
		c.Key = key
		c.Prefix = ""
		c.Dialect = schema.Legacy
		if compound {
			v, ok := l.Elem.Parse(c)
			if !ok {
				failed++
				continue
			}
			res = append(res, element{v, nil})
			continue
		}
		ps := a.Scope.GetAll(key)
		if len(ps) == 0 {
			v, ok := c.Evaluate(l.Elem, l.ElementDefault)
			if !ok {
				a.Report(diag.MissingElement, a.Node, "missing element %s", key)
				failed++
				continue
			}
			res = append(res, element{v, nil})
			continue
		}
		for _, p := range ps {
			a.MarkRelated(p)
		}
		for _, p := range ps[1:] {
			diag.Report(a.Sink, diag.DuplicateProperty, p.KeyRange, "duplicate property %q", p.Key)
		}
		p := ps[0]
		c.Property = p
		c.Node = p.Value
		if p.Value == nil {
			def := l.ElementIncludedDefault
			if def == nil {
				def = l.ElementDefault
			}
			v, ok := c.Evaluate(l.Elem, def)
			if !ok {
				a.Report(diag.MissingValue, p, "%s needs a %s value", p.Key, l.Elem)
				failed++
				continue
			}
			res = append(res, element{v, p})
			continue
		}
		v, ok := l.Elem.Parse(c)
		if !ok {
			failed++
			continue
		}
		res = append(res, element{v, p.Value})
	}
	if failed != 0 && len(res) == 0 {
		return nil, false
	}
	return l.finishCount(a, res, count)
}

func (l *List) finish(a *schema.ParseArgs, es []element) ([]any, bool) {
	if es == nil {
		return nil, false
	}
	return l.finishCount(a, es, len(es))
}

// finishCount checks the count and uniqueness of the elements of a list
// declaring count elements.
func (l *List) finishCount(a *schema.ParseArgs, es []element, count int) ([]any, bool) {
	checkCount(a, count, l.Min, l.Max)
	res := make([]any, len(es))
	for i, e := range es {
		res[i] = e.v
		if !l.Unique {
			continue
		}
		for _, prev := range es[:i] {
			if reflect.DeepEqual(prev.v, e.v) {
				a.Report(diag.DuplicateValue, e.n, "duplicate value %v", e.v)
				break
			}
		}
	}
	return res, true
}

// checkCount reports counts outside [lo, hi]; a zero hi is no bound.
func checkCount(a *schema.ParseArgs, count, lo, hi int) {
	switch {
	case count < lo:
		a.Report(diag.TooFewElements, nil, "expected at least %d %s, got %d", lo, plural(lo), count)
	case hi > 0 && count > hi:
		a.Report(diag.TooManyElements, nil, "expected at most %d %s, got %d", hi, plural(hi), count)
	}
}

func plural(n int) string {
	if n == 1 {
		return "element"
	}
	return "elements"
}

func parseModes(sp schema.Spec) (ListMode, error) {
	names, err := sp.Strings("Modes")
	if err != nil {
		return 0, err
	}
	if s := sp.String("Mode"); s != "" {
		names = append(names, strings.Split(s, "|")...)
	}
	if len(names) == 0 {
		return AllModes, nil
	}
	var m ListMode
	for _, n := range names {
		x, ok := listModeNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("%w: %s: unknown list mode %q", schema.ErrBadDefinition, sp.ID, n)
		}
		m |= x
	}
	return m, nil
}

func listFactory(sp schema.Spec, b *schema.Builder) (schema.Type, error) {
	raw, ok := sp.Get("ElementType")
	if !ok {
		return nil, fmt.Errorf("%w: %s: no ElementType", schema.ErrBadDefinition, sp.ID)
	}
	elem, err := b.Type(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sp.ID, err)
	}
	l := &List{Elem: elem, Unique: sp.Bool("Unique")}
	if l.Modes, err = parseModes(sp); err != nil {
		return nil, err
	}
	if l.Min, err = sp.Int("MinimumCount", 0); err != nil {
		return nil, err
	}
	if l.Max, err = sp.Int("MaximumCount", 0); err != nil {
		return nil, err
	}
	if l.ElementDefault, err = sp.Value("ElementDefault"); err != nil {
		return nil, err
	}
	if l.ElementIncludedDefault, err = sp.Value("ElementIncludedDefault"); err != nil {
		return nil, err
	}
	return l, nil
}
