package resolve

import (
	"slices"
	"strconv"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

// Virtualize maps node n of root back to the declared property owning it,
// descending into objects, and returns the breadcrumbs leading to the
// value n belongs to. Legacy keys such as "Blade_0_Damage" map to the
// property of the template they are part of.
func Virtualize(root *ir.Root, t *schema.AssetType, sec schema.Section, n *ir.Node) (*schema.Property, Breadcrumbs, bool) {
	var chain []*ir.Node
	for c := n; c != nil && c != &root.Node; c = c.Parent {
		chain = append(chain, c)
	}
	if len(chain) == 0 {
		return nil, nil, false
	}
	slices.Reverse(chain)

	var crumbs Breadcrumbs
	if mp := root.MetadataProperty(); mp != nil && chain[0] == mp {
		crumbs = crumbs.Section("Metadata")
		chain = chain[1:]
	} else if ap := root.AssetProperty(); ap != nil {
		if chain[0] != ap {
			return nil, nil, false
		}
		crumbs = crumbs.Section("Asset")
		chain = chain[1:]
	}
	if len(chain) != 0 && chain[0].Type == ir.DictionaryType {
		chain = chain[1:]
	}
	return walk(t.PropertiesFor(sec), chain, crumbs)
}

// walk follows chain, which starts at a property node of a dictionary
// holding props.
func walk(props []*schema.Property, chain []*ir.Node, crumbs Breadcrumbs) (*schema.Property, Breadcrumbs, bool) {
	if len(chain) == 0 || chain[0].Type != ir.PropertyType {
		return nil, nil, false
	}
	p, t, crumbs, ok := match(props, chain[0].Key, crumbs)
	if !ok {
		return nil, nil, false
	}
	return into(p, t, chain[1:], crumbs)
}

// into follows chain, which starts at a value of type t belonging to p.
func into(p *schema.Property, t schema.Type, chain []*ir.Node, crumbs Breadcrumbs) (*schema.Property, Breadcrumbs, bool) {
	if len(chain) < 2 {
		return p, crumbs, true
	}
	v, next := chain[0], chain[1]
	if next.Type.IsTrivia() {
		return p, crumbs, true
	}
	et := schema.ElementOf(t)
	switch v.Type {
	case ir.ListType:
		if et != nil {
			return into(p, et, chain[1:], crumbs.Element(next.ChildIndex))
		}
	case ir.DictionaryType:
		if c, ok := t.(schema.Compound); ok {
			return walk(c.Properties(), chain[1:], crumbs)
		}
		if c, ok := et.(schema.Compound); ok {
			// a list of objects written as a single object
			return walk(c.Properties(), chain[1:], crumbs.Element(0))
		}
		if et != nil {
			return into(p, et, chain[2:], crumbs.Property(next.Key))
		}
	}
	return p, crumbs, true
}

func match(props []*schema.Property, key string, crumbs Breadcrumbs) (*schema.Property, schema.Type, Breadcrumbs, bool) {
	for _, p := range props {
		if p.Matches(key) {
			return p, p.Type, crumbs.Property(p.Key), true
		}
	}
	for _, p := range props {
		if et := schema.ElementOf(p.Type); et != nil {
			sing := p.Singular()
			if i, rest, ok := splitIndexed(key, sing); ok {
				c := crumbs.Property(p.Key).LegacyElement(sing, i)
				if rest == "" {
					return p, et, c, true
				}
				if comp, ok := et.(schema.Compound); ok {
					return match(comp.Properties(), rest, c)
				}
			}
		}
		if comp, ok := p.Type.(schema.Compound); ok {
			if rest, ok := cutPrefixFold(key, p.Key+"_"); ok {
				return match(comp.Properties(), rest, crumbs.Property(p.Key))
			}
		}
	}
	return nil, nil, nil, false
}

// splitIndexed splits "Singular_3_Rest" into 3 and "Rest".
func splitIndexed(key, singular string) (int, string, bool) {
	rest, ok := cutPrefixFold(key, singular+"_")
	if !ok {
		return 0, "", false
	}
	j := 0
	for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
		j++
	}
	if j == 0 {
		return 0, "", false
	}
	i, err := strconv.Atoi(rest[:j])
	if err != nil {
		return 0, "", false
	}
	rest = rest[j:]
	if rest == "" {
		return i, "", true
	}
	if rest[0] != '_' || len(rest) == 1 {
		return 0, "", false
	}
	return i, rest[1:], true
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
