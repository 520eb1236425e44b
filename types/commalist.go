package types

import (
	"fmt"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

// CommaList parses one value holding comma separated elements, as in
// Tags "a, b, c". Count bounds are advisory like List's.
type CommaList struct {
	Elem           schema.Type
	Min, Max       int
	KeepWhitespace bool
	RemoveEmpty    bool
}

func (l *CommaList) ID() string           { return "CommaList" }
func (l *CommaList) String() string       { return "CommaList<" + l.Elem.String() + ">" }
func (l *CommaList) Element() schema.Type { return l.Elem }

func (l *CommaList) Convert(v any) (any, bool) {
	switch x := v.(type) {
	case []any:
		return (&List{Elem: l.Elem}).Convert(x)
	case string:
		var res []any
		for _, s := range l.split(x) {
			c, ok := l.Elem.Convert(s.text)
			if !ok {
				return nil, false
			}
			res = append(res, c)
		}
		return res, true
	}
	return nil, false
}

func (l *CommaList) Parse(a *schema.ParseArgs) (any, bool) {
	v, ok := l.ParseValue(a)
	if !ok {
		return nil, false
	}
	return v, true
}

type segment struct {
	text string
	// off is the offset of text in the value.
	off int
}

func (l *CommaList) split(s string) []segment {
	var res []segment
	off := 0
	for _, part := range strings.Split(s, ",") {
		seg := segment{part, off}
		off += len(part) + 1
		if !l.KeepWhitespace {
			trimmed := strings.TrimLeft(part, " \t")
			seg.off += len(part) - len(trimmed)
			seg.text = strings.TrimRight(trimmed, " \t")
		}
		if l.RemoveEmpty && seg.text == "" {
			continue
		}
		res = append(res, seg)
	}
	return res
}

func (l *CommaList) ParseValue(a *schema.ParseArgs) ([]any, bool) {
	n := a.Node
	if n == nil {
		v, ok := a.Default(l)
		if !ok {
			if a.Property != nil {
				a.Report(diag.MissingValue, a.Property, "%s needs a value", a.Property.Key)
			}
			return nil, false
		}
		res, ok := v.([]any)
		return res, ok
	}
	if n.Type != ir.ValueType {
		a.Shape(l, "comma separated values")
		return nil, false
	}

	segs := l.split(n.Text)
	res := []any{}
	failed := 0
	for _, s := range segs {
		e := l.segmentNode(n, s)
		c := a.Child(e, nil)
		c.Def = nil
		v, ok := l.Elem.Parse(c)
		if !ok {
			failed++
			continue
		}
		res = append(res, v)
	}
	if failed != 0 && len(res) == 0 {
		return nil, false
	}
	checkCount(a, len(segs), l.Min, l.Max)
	return res, true
}

// segmentNode returns a detached value node for s. Its range is exact when
// the value was written unquoted; otherwise it is the whole value.
func (l *CommaList) segmentNode(n *ir.Node, s segment) *ir.Node {
	e := &ir.Node{Type: ir.ValueType, Text: s.text, Parent: n.Parent, Range: n.Range, Closed: true}
	r := n.Root()
	if n.Quoted || r == nil || r.Doc == nil || n.Range.End.Offset-n.Range.Start.Offset != len(n.Text) {
		return e
	}
	start := n.Range.Start.Offset + s.off
	e.Range = r.Doc.Range(start, start+len(s.text))
	return e
}

func commaListFactory(sp schema.Spec, b *schema.Builder) (schema.Type, error) {
	raw, ok := sp.Get("ElementType")
	if !ok {
		raw = "String"
	}
	elem, err := b.Type(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sp.ID, err)
	}
	l := &CommaList{
		Elem:           elem,
		KeepWhitespace: sp.Bool("KeepWhitespace"),
		RemoveEmpty:    sp.Bool("RemoveEmpty"),
	}
	if l.Min, err = sp.Int("MinimumCount", 0); err != nil {
		return nil, err
	}
	if l.Max, err = sp.Int("MaximumCount", 0); err != nil {
		return nil, err
	}
	return l, nil
}
