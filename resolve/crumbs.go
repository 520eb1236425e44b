package resolve

import (
	"strconv"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

type CrumbKind int

const (
	// SectionCrumb enters the Metadata or Asset section of the root.
	SectionCrumb CrumbKind = iota
	// PropertyCrumb enters the value of a property.
	PropertyCrumb
	// ElementCrumb enters an element of a modern list.
	ElementCrumb
	// LegacyElementCrumb enters the numbered sibling of a legacy list. Its
	// Key is the singular key.
	LegacyElementCrumb
)

type Crumb struct {
	Kind  CrumbKind
	Key   string
	Index int
}

// Breadcrumbs is the path taken from the root of a file to a value.
type Breadcrumbs []Crumb

func (b Breadcrumbs) push(c Crumb) Breadcrumbs {
	res := make(Breadcrumbs, len(b), len(b)+1)
	copy(res, b)
	return append(res, c)
}

func (b Breadcrumbs) Section(key string) Breadcrumbs {
	return b.push(Crumb{Kind: SectionCrumb, Key: key})
}

func (b Breadcrumbs) Property(key string) Breadcrumbs {
	return b.push(Crumb{Kind: PropertyCrumb, Key: key})
}

func (b Breadcrumbs) Element(i int) Breadcrumbs {
	return b.push(Crumb{Kind: ElementCrumb, Index: i})
}

func (b Breadcrumbs) LegacyElement(singular string, i int) Breadcrumbs {
	return b.push(Crumb{Kind: LegacyElementCrumb, Key: singular, Index: i})
}

// String renders b as in "Asset.Blades[0].Damage". Legacy elements render
// as their numbered key, "Blade_0".
func (b Breadcrumbs) String() string {
	var s strings.Builder
	for i, c := range b {
		switch c.Kind {
		case ElementCrumb:
			s.WriteString("[" + strconv.Itoa(c.Index) + "]")
			continue
		case LegacyElementCrumb:
			if i > 0 {
				s.WriteByte('.')
			}
			s.WriteString(c.Key + "_" + strconv.Itoa(c.Index))
			continue
		}
		if i > 0 {
			s.WriteByte('.')
		}
		s.WriteString(c.Key)
	}
	return s.String()
}

// Follow replays b on root and returns the node reached: the value of the
// last property or an element. A path ending in a legacy element returns
// the element's value, or its property node when the value is absent. It
// returns nil when the path does not exist.
func (b Breadcrumbs) Follow(root *ir.Root) *ir.Node {
	var (
		n    = &root.Node
		dict *ir.Node
		// prefix is the pending legacy template prefix, outer the prefix
		// the current value was found under.
		prefix, outer string
	)
	for _, c := range b {
		if n == nil && prefix == "" {
			return nil
		}
		switch c.Kind {
		case SectionCrumb, PropertyCrumb:
			var p *ir.Node
			if prefix != "" {
				p = dict.Get(schema.Join(prefix, c.Key))
				outer, prefix = prefix, ""
			} else {
				p = n.Get(c.Key)
				outer = ""
			}
			if p == nil {
				return nil
			}
			n = p.Value
		case ElementCrumb:
			if n == nil || n.Type != ir.ListType {
				return nil
			}
			es := n.Elements()
			if c.Index < 0 || c.Index >= len(es) {
				return nil
			}
			n = es[c.Index]
			outer = ""
		case LegacyElementCrumb:
			// n is the count value, its dictionary holds the elements
			if prefix == "" {
				if n == nil || n.Parent == nil || n.Parent.Parent == nil {
					return nil
				}
				dict = n.Parent.Parent
				prefix = outer
			}
			prefix = schema.Join(prefix, schema.Join(c.Key, strconv.Itoa(c.Index)))
			n = nil
		}
	}
	if prefix != "" {
		p := dict.Get(prefix)
		if p == nil || p.Value == nil {
			return p
		}
		return p.Value
	}
	return n
}
