package types

import (
	"fmt"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

// Dictionary parses a block of arbitrary keys into a map from key, as
// written, to a Value.
type Dictionary struct {
	// Key, when set, validates each key. Keys it rejects are reported and
	// kept unless RequireKeyType is set, which makes them errors and drops
	// the entry.
	Key            schema.Type
	Value          schema.Type
	RequireKeyType bool
	// Min and Max bound the entry count like List.
	Min, Max int
}

func (d *Dictionary) ID() string           { return "Dictionary" }
func (d *Dictionary) Element() schema.Type { return d.Value }

func (d *Dictionary) String() string {
	if d.Key == nil {
		return "Dictionary<" + d.Value.String() + ">"
	}
	return "Dictionary<" + d.Key.String() + ", " + d.Value.String() + ">"
}

func (d *Dictionary) Convert(v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	res := make(map[string]any, len(m))
	for k, e := range m {
		c, ok := d.Value.Convert(e)
		if !ok {
			return nil, false
		}
		res[k] = c
	}
	return res, true
}

func (d *Dictionary) Parse(a *schema.ParseArgs) (any, bool) {
	v, ok := d.ParseValue(a)
	if !ok {
		return nil, false
	}
	return v, true
}

func (d *Dictionary) ParseValue(a *schema.ParseArgs) (map[string]any, bool) {
	n := a.Node
	if n == nil {
		v, ok := a.Default(d)
		if !ok {
			if a.Property != nil {
				a.Report(diag.MissingValue, a.Property, "%s needs a value", a.Property.Key)
			}
			return nil, false
		}
		res, ok := v.(map[string]any)
		return res, ok
	}
	if n.Type != ir.DictionaryType {
		a.Shape(d, "a dictionary")
		return nil, false
	}

	res := map[string]any{}
	first := map[string]*ir.Node{}
	count := 0
	for _, c := range n.Elements() {
		if c.Type != ir.PropertyType {
			continue
		}
		k := strings.ToLower(c.Key)
		if prev, ok := first[k]; ok {
			diag.Report(a.Sink, diag.DuplicateProperty, c.KeyRange, "duplicate key %q, first set on line %d", c.Key, prev.KeyRange.Start.Line)
			continue
		}
		first[k] = c
		count++
		if !d.checkKey(a, c) {
			continue
		}
		if c.Value == nil {
			a.Report(diag.MissingValue, c, "%s needs a %s value", c.Key, d.Value)
			continue
		}
		ca := a.Child(c.Value, c)
		ca.Def = nil
		ca.Key = c.Key
		ca.Prefix = ""
		ca.Scope = n
		ca.Dialect = schema.Modern
		v, ok := d.Value.Parse(ca)
		if !ok {
			continue
		}
		res[c.Key] = v
	}
	checkCount(a, count, d.Min, d.Max)
	return res, true
}

func (d *Dictionary) checkKey(a *schema.ParseArgs, c *ir.Node) bool {
	if d.Key == nil {
		return true
	}
	if _, ok := d.Key.Convert(c.Key); ok {
		return true
	}
	msg := fmt.Sprintf("%q is not a valid %s", c.Key, d.Key)
	if !d.RequireKeyType {
		diag.Report(a.Sink, diag.InvalidKey, c.KeyRange, "%s", msg)
		return true
	}
	if a.Sink != nil {
		a.Sink.Add(diag.Diagnostic{Code: diag.InvalidKey, Message: msg, Range: c.KeyRange, Severity: diag.Error})
	}
	return false
}

func dictionaryFactory(sp schema.Spec, b *schema.Builder) (schema.Type, error) {
	raw, ok := sp.Get("ValueType")
	if !ok {
		if raw, ok = sp.Get("ElementType"); !ok {
			return nil, fmt.Errorf("%w: %s: no ValueType", schema.ErrBadDefinition, sp.ID)
		}
	}
	d := &Dictionary{RequireKeyType: sp.Bool("RequireKeyType")}
	var err error
	if d.Value, err = b.Type(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", sp.ID, err)
	}
	if raw, ok := sp.Get("KeyType"); ok {
		if d.Key, err = b.Type(raw); err != nil {
			return nil, fmt.Errorf("%s: key: %w", sp.ID, err)
		}
	}
	if d.Min, err = sp.Int("MinimumCount", 0); err != nil {
		return nil, err
	}
	if d.Max, err = sp.Int("MaximumCount", 0); err != nil {
		return nil, err
	}
	return d, nil
}
