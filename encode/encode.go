// Package encode writes DAT trees back out as text.
//
// The output is canonical: one property or element per line, blocks opened
// on the line after their key, nesting indented by one tab per level and
// values quoted only when reading them back unquoted would change them.
// Unclosed containers are written closed.
//
//	root := parse.Parse(src, parse.ParseMetadata(true))
//	err := encode.Encode(&root.Node, os.Stdout, encode.EncodeComments(true))
package encode

import (
	"bytes"
	"io"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/token"
)

type EncState struct {
	indent   string
	comments bool
	Color    func(ir.Type, ColorAttr, string) string

	w     io.Writer
	err   error
	depth int
	// wrote is false until the first line is started.
	wrote bool
}

// Encode writes node n and everything under it to w. The root is written
// without brackets.
func Encode(n *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: "\t", w: w}
	for _, opt := range opts {
		opt(es)
	}
	if n.IsRoot() {
		es.header(n.Root())
		es.body(n)
	} else {
		es.line()
		es.node(n, n.Parent != nil && n.Parent.Type == ir.ListType)
	}
	if es.wrote {
		es.write("\n")
	}
	return es.err
}

// MustString encodes n, panicking on error.
func MustString(n *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(n, buf); err != nil {
		panic(err)
	}
	return buf.String()
}

func (es *EncState) write(s string) {
	if es.err != nil {
		return
	}
	_, es.err = io.WriteString(es.w, s)
}

func (es *EncState) color(t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

// line starts a new line at the current depth.
func (es *EncState) line() {
	if es.wrote {
		es.write("\n")
	}
	es.wrote = true
	es.write(strings.Repeat(es.indent, es.depth))
}

// header writes the "// @Key Value" lines of a root whose comments are not
// written as nodes.
func (es *EncState) header(r *ir.Root) {
	if r == nil || len(r.Additional) == 0 {
		return
	}
	if es.comments {
		for _, c := range r.Children() {
			if c.Type == ir.CommentType {
				return
			}
		}
	}
	for _, p := range r.Additional {
		v := p.Value
		if needsQuote(v, false) {
			v = token.Quote(v)
		}
		es.line()
		es.write(es.color(ir.CommentType, CommentColor, "// @"+p.Key+" "+v))
	}
	es.line()
}

// body writes the children of container n, one per line. A comment
// starting on the line where the previous child ends stays on that line.
func (es *EncState) body(n *ir.Node) {
	inList := n.Type == ir.ListType
	prevEnd := n.Range.Start.Line
	if n.IsRoot() {
		prevEnd = -1
	}
	for _, c := range n.Children() {
		switch c.Type {
		case ir.WhitespaceType:
			if es.comments && es.wrote {
				es.write(strings.Repeat("\n", c.Lines))
			}
			continue
		case ir.CommentType:
			if !es.comments {
				continue
			}
			if c.Range.Start.Line == prevEnd && es.wrote {
				es.write(" ")
			} else {
				es.line()
			}
			es.comment(c)
		default:
			es.line()
			es.node(c, inList)
		}
		prevEnd = c.Range.End.Line
	}
}

func (es *EncState) node(n *ir.Node, inList bool) {
	switch n.Type {
	case ir.PropertyType:
		es.property(n)
	case ir.DictionaryType:
		es.block(n, "{", "}")
	case ir.ListType:
		es.block(n, "[", "]")
	case ir.ValueType:
		es.value(n, inList)
	case ir.CommentType:
		es.comment(n)
	}
}

func (es *EncState) block(n *ir.Node, open, close string) {
	es.write(es.color(n.Type, SepColor, open))
	es.depth++
	es.body(n)
	es.depth--
	es.line()
	es.write(es.color(n.Type, SepColor, close))
}

func (es *EncState) property(p *ir.Node) {
	k := p.Key
	if p.KeyQuoted || needsQuoteKey(k) {
		k = token.Quote(k)
	}
	es.write(es.color(ir.PropertyType, KeyColor, k))
	v := p.Value
	if v == nil {
		return
	}
	if v.Type == ir.ValueType {
		es.write(" ")
		es.value(v, false)
		return
	}
	prevEnd := p.KeyRange.Start.Line
	if v.Extra != nil {
		es.write(" ")
		es.value(v.Extra, false)
		prevEnd = v.Extra.Range.End.Line
	}
	if es.comments {
		for _, c := range p.Children() {
			if c.Type != ir.CommentType {
				continue
			}
			if c.Range.Start.Line == prevEnd {
				es.write(" ")
			} else {
				es.line()
			}
			es.comment(c)
			prevEnd = c.Range.End.Line
		}
	}
	es.line()
	es.node(v, false)
}

func (es *EncState) value(v *ir.Node, inList bool) {
	if v.Quoted || needsQuote(v.Text, inList) {
		es.write(es.color(ir.ValueType, QuotedColor, token.Quote(v.Text)))
		return
	}
	es.write(es.color(ir.ValueType, ValueColor, v.Text))
}

func (es *EncState) comment(c *ir.Node) {
	es.write(es.color(ir.CommentType, CommentColor, "//"+c.Text))
}

// needsQuote reports whether s would read back differently unquoted.
func needsQuote(s string, inList bool) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s, "\n\r") || strings.HasPrefix(s, "//") {
		return true
	}
	switch s[0] {
	case '"', '{', '[', '}', ']', ',':
		return true
	}
	if strings.Contains(s, " //") || strings.Contains(s, "\t//") {
		return true
	}
	if inList {
		return strings.ContainsAny(s, ",]}")
	}
	// a trailing bracket after a space reads as a block opener or closer
	if len(s) >= 2 && strings.ContainsRune("{[}]", rune(s[len(s)-1])) && (s[len(s)-2] == ' ' || s[len(s)-2] == '\t') {
		return true
	}
	return false
}

func needsQuoteKey(k string) bool {
	if k == "" || k[0] == '"' || k[0] == ',' || strings.HasPrefix(k, "//") {
		return true
	}
	return strings.ContainsAny(k, " \t\r\n\f\v{}[]")
}
