package encode

import (
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"

	"github.com/fatih/color"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	KeyColor ColorAttr = iota
	ValueColor
	QuotedColor
	CommentColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

// palette holds the terminal colors of each kind of text.
var palette = []struct {
	at Colorable
	c  *color.Color
}{
	{Colorable{ir.DictionaryType, SepColor}, color.RGB(255, 0, 196)},
	{Colorable{ir.ListType, SepColor}, color.RGB(196, 128, 128)},
	{Colorable{ir.PropertyType, KeyColor}, color.RGB(196, 96, 16)},
	{Colorable{ir.ValueType, ValueColor}, color.RGB(128, 216, 236)},
	{Colorable{ir.ValueType, QuotedColor}, color.RGB(8, 196, 16)},
	{Colorable{ir.CommentType, CommentColor}, color.New(color.FgBlue)},
}

// NewColors returns the default palette. Text is passed through verbatim,
// never used as a format.
func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     make(map[Colorable]func(string, ...any) string, len(palette)),
	}
	for _, p := range palette {
		sprintf := p.c.SprintfFunc()
		colors.Map[p.at] = func(v string, _ ...any) string {
			return sprintf("%s", v)
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
