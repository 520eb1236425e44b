package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Path renders the location of n, e.g. "$.Asset.Blueprints[1].Output".
// Property values and extra header values share the path of their property.
func (n *Node) Path() string {
	if n.Parent == nil {
		return "$"
	}
	switch n.Parent.Type {
	case DictionaryType:
		return n.Parent.Path() + "." + quoteKey(n.Key)
	case ListType:
		return n.Parent.Path() + "[" + strconv.Itoa(n.ChildIndex) + "]"
	case PropertyType:
		return n.Parent.Path()
	default:
		panic("parent but not in container")
	}
}

// StepKind says what a Step of a Path selects.
type StepKind int

const (
	// KeyStep selects the values of the properties named Key.
	KeyStep StepKind = iota
	// IndexStep selects element Index of a list.
	IndexStep
	// EachStep selects every element of a list.
	EachStep
	// DescendStep applies the rest of the path to every container at or
	// below the current node.
	DescendStep
)

type Step struct {
	Kind  StepKind
	Key   string
	Index int
}

// Path is a parsed node query such as "$.Blueprints[*].Output" or
// "$..ID".
type Path []Step

func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for i, s := range p {
		switch s.Kind {
		case KeyStep:
			if i == 0 || p[i-1].Kind != DescendStep {
				b.WriteByte('.')
			}
			b.WriteString(quoteKey(s.Key))
		case IndexStep:
			fmt.Fprintf(&b, "[%d]", s.Index)
		case EachStep:
			b.WriteString("[*]")
		case DescendStep:
			b.WriteString("..")
		}
	}
	return b.String()
}

// ParsePath parses a query. Keys holding '.', '[' or spaces are written
// in single quotes, with \' for a quote.
func ParsePath(p string) (Path, error) {
	rest, ok := strings.CutPrefix(p, "$")
	if !ok {
		return nil, fmt.Errorf("%w: %q should start with '$'", ErrBadPath, p)
	}
	var res Path
	for rest != "" {
		var (
			s   Step
			err error
		)
		switch {
		case strings.HasPrefix(rest, ".."):
			s.Kind = DescendStep
			rest = rest[2:]
			if rest != "" && rest[0] != '[' {
				// "..Key" descends, then matches Key
				res = append(res, s)
				s = Step{Kind: KeyStep}
				s.Key, rest, err = cutKey(rest)
			}
		case rest[0] == '.':
			s.Kind = KeyStep
			s.Key, rest, err = cutKey(rest[1:])
		case rest[0] == '[':
			s, rest, err = cutIndex(rest[1:])
		default:
			err = fmt.Errorf("expected '.' or '[' at %q", rest)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrBadPath, p, err)
		}
		res = append(res, s)
	}
	return res, nil
}

func cutIndex(s string) (Step, string, error) {
	in, rest, ok := strings.Cut(s, "]")
	if !ok {
		return Step{}, "", fmt.Errorf("missing ']'")
	}
	if in == "*" {
		return Step{Kind: EachStep}, rest, nil
	}
	i, err := strconv.ParseUint(in, 10, 31)
	if err != nil {
		return Step{}, "", fmt.Errorf("bad index %q", in)
	}
	return Step{Kind: IndexStep, Index: int(i)}, rest, nil
}

func cutKey(s string) (string, string, error) {
	if s == "" {
		return "", "", fmt.Errorf("missing key")
	}
	if s[0] != '\'' {
		if i := strings.IndexAny(s, ".["); i != -1 {
			return s[:i], s[i:], nil
		}
		return s, "", nil
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == '\'':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("unterminated quoted key")
}

func quoteKey(k string) string {
	if k != "" && !strings.ContainsAny(k, "'.*$[] ") {
		return k
	}
	return "'" + strings.ReplaceAll(k, "'", `\'`) + "'"
}

// Select returns the nodes under n matching path p. Keys match property
// keys ignoring case and select the property's value, or the property
// itself when it has none and the key is the last step.
func (n *Node) Select(p string) ([]*Node, error) {
	pp, err := ParsePath(p)
	if err != nil {
		return nil, err
	}
	return n.match(nil, pp), nil
}

func (n *Node) match(dst []*Node, p Path) []*Node {
	if len(p) == 0 {
		return append(dst, n)
	}
	s, rest := p[0], p[1:]
	switch s.Kind {
	case DescendStep:
		n.Walk(func(c *Node) bool {
			if c.Type.IsContainer() {
				dst = c.match(dst, rest)
			}
			return true
		})
	case KeyStep:
		if n.Type != DictionaryType {
			return dst
		}
		for _, c := range n.GetAll(s.Key) {
			switch {
			case c.Value != nil:
				dst = c.Value.match(dst, rest)
			case len(rest) == 0:
				dst = append(dst, c)
			}
		}
	case IndexStep:
		if els := n.Elements(); n.Type == ListType && s.Index < len(els) {
			dst = els[s.Index].match(dst, rest)
		}
	case EachStep:
		if n.Type != ListType {
			return dst
		}
		for _, c := range n.Elements() {
			dst = c.match(dst, rest)
		}
	}
	return dst
}
