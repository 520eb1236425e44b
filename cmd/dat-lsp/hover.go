package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/cache"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/resolve"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"

	"github.com/goccy/go-json"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	f, ok := s.ws.Get(uri.URI(params.TextDocument.URI))
	if !ok || f.Cache() == nil {
		return nil, nil
	}
	root := f.Tree()
	t := f.Cache().Type()
	if t == nil {
		return nil, nil
	}
	n := root.NodeAt(fromProtocolPos(root.Doc, params.Position))
	if n == nil || n.Type.IsTrivia() {
		return nil, nil
	}
	prop, crumbs, ok := resolve.Virtualize(root, t, f.Cache().Section(), n)
	if !ok {
		return nil, nil
	}
	var entry *cache.Entry
	if e, ok := f.Cache().Owner(n); ok && e.Property == prop {
		entry = e
	}
	r := hoverRange(n)
	rng := toProtocolRange(root.Doc, r.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverText(prop, crumbs, entry),
		},
		Range: &rng,
	}, nil
}

// hoverRange returns the property node n is part of.
func hoverRange(n *ir.Node) *ir.Node {
	for a := n; a != nil; a = a.Parent {
		if a.Type == ir.PropertyType {
			return a
		}
	}
	return n
}

func hoverText(p *schema.Property, crumbs resolve.Breadcrumbs, e *cache.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**: `%s`", p.Key, p.Type)
	if p.Required {
		b.WriteString(" (required)")
	}
	b.WriteString("\n\n")
	if p.Deprecated {
		b.WriteString("*Deprecated*\n\n")
	}
	if p.Description != "" {
		b.WriteString(p.Description)
		b.WriteString("\n\n")
	}
	if len(p.Aliases) != 0 {
		fmt.Fprintf(&b, "Aliases: `%s`\n\n", strings.Join(p.Aliases, "`, `"))
	}
	if e != nil && e.OK {
		fmt.Fprintf(&b, "Value: `%s`\n\n", valueText(e.Value))
	}
	if p.Owner != "" {
		fmt.Fprintf(&b, "Declared by `%s`", p.Owner)
		if len(crumbs) != 0 {
			fmt.Fprintf(&b, " at `%s`", crumbs)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func valueText(v any) string {
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(d)
}
