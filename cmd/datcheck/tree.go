package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/encode"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"

	"github.com/scott-cotton/cli"
)

func tree(cfg *TreeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tree.Parse(cc, args)
	if err != nil {
		return err
	}
	colors := encode.NewColors()
	if !cfg.useColor(cc.Out) {
		colors.Map = nil
	}
	return eachInput(cc, args, func(name string, d []byte) error {
		root := parse.Parse(d, append(cfg.parseOpts(), parse.ParseMetadata(cfg.Meta))...)
		writeTree(cc.Out, colors, &root.Node)
		return nil
	})
}

func writeTree(w io.Writer, colors *encode.Colors, root *ir.Node) {
	root.Walk(func(n *ir.Node) bool {
		indent := strings.Repeat("  ", n.Depth)
		var label string
		switch n.Type {
		case ir.PropertyType:
			label = colors.Color(ir.PropertyType, encode.KeyColor, n.Key)
		case ir.ValueType:
			attr := encode.ValueColor
			if n.Quoted {
				attr = encode.QuotedColor
			}
			label = colors.Color(ir.ValueType, attr, fmt.Sprintf("%q", n.Text))
		case ir.CommentType:
			label = colors.Color(ir.CommentType, encode.CommentColor, "//"+n.Text)
		case ir.WhitespaceType:
			label = fmt.Sprintf("%d blank lines", n.Lines)
		}
		open := ""
		if (n.Type == ir.DictionaryType || n.Type == ir.ListType) && !n.Closed && !n.IsRoot() {
			open = " (unclosed)"
		}
		fmt.Fprintf(w, "%s%s %s %s [%s]%s\n", indent, n.Type, label, n.Path(), n.Range, open)
		return true
	})
}
