package ir

import (
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
)

type Node struct {
	Type   Type
	Parent *Node
	// Index is the position among all of the parent's children, trivia
	// included. ChildIndex counts only properties (in a dictionary),
	// elements (in a list) or the extra and value nodes of a property, and
	// is -1 for trivia.
	Index      int
	ChildIndex int
	Depth      int
	Range      pos.Range

	// PropertyType. The children of a property are its value, preceded by
	// the block's extra header value and any trivia after it.
	Key             string
	KeyQuoted       bool
	KeyRange        pos.Range
	Value           *Node
	LeadingComments []*Node
	TrailingComment *Node

	// ValueType, CommentType
	Text   string
	Quoted bool
	// Comment is the comment following a list value on the same line.
	Comment *Node

	// DictionaryType, ListType; for ValueType Closed is false when the end
	// quote is missing.
	Closed bool
	// Extra is the value written between a key and its block, as in
	// "Key Extra { ... }".
	Extra *Node

	// WhitespaceType
	Lines int

	children []*Node
	nsig     int
	lazy     *LazySource
	root     *Root
	opening  *Node
	trailing []*Node
}

// FirstCharacterIndex is the offset of the node's first byte.
func (n *Node) FirstCharacterIndex() int {
	return n.Range.Start.Offset
}

// LastCharacterIndex is the offset of the node's last byte. For an empty
// node it equals FirstCharacterIndex.
func (n *Node) LastCharacterIndex() int {
	return max(n.Range.End.Offset-1, n.Range.Start.Offset)
}

// Root returns the root of the tree holding n, or nil for a detached node.
func (n *Node) Root() *Root {
	return n.root
}

// IsRoot reports whether n is the top dictionary of a document.
func (n *Node) IsRoot() bool {
	return n.root != nil && &n.root.Node == n
}

// Children returns all children of a container, including comments and
// whitespace when present. A lazy container is materialized first.
func (n *Node) Children() []*Node {
	if n.lazy != nil {
		n.lazy.materialize(n)
	}
	return n.children
}

// Elements returns the properties of a dictionary or the elements of a list.
func (n *Node) Elements() []*Node {
	cs := n.Children()
	if n.nsig == len(cs) {
		return cs
	}
	res := make([]*Node, 0, n.nsig)
	for _, c := range cs {
		if !c.Type.IsTrivia() {
			res = append(res, c)
		}
	}
	return res
}

// Count is the number of properties of a dictionary or elements of a list.
func (n *Node) Count() int {
	n.Children()
	return n.nsig
}

// OpeningComment returns the comment on the line of a container's opening
// bracket. A lazy container is materialized first.
func (n *Node) OpeningComment() *Node {
	n.Children()
	return n.opening
}

// TrailingComments returns the comments after the last child of a
// container. A lazy container is materialized first.
func (n *Node) TrailingComments() []*Node {
	n.Children()
	return n.trailing
}

// SetOpeningComment is meant for tree builders only.
func (n *Node) SetOpeningComment(c *Node) {
	n.opening = c
}

// AddTrailingComments is meant for tree builders only.
func (n *Node) AddTrailingComments(cs ...*Node) {
	n.trailing = append(n.trailing, cs...)
}

// IsLazy reports whether n's interior has not been materialized yet.
func (n *Node) IsLazy() bool {
	return n.lazy != nil && !n.lazy.done.Load()
}

// Get returns the first property of dictionary n whose key matches key
// ignoring case.
func (n *Node) Get(key string) *Node {
	if n.Type != DictionaryType {
		return nil
	}
	for _, c := range n.Children() {
		if c.Type == PropertyType && strings.EqualFold(c.Key, key) {
			return c
		}
	}
	return nil
}

// GetAll returns every property of dictionary n whose key matches key
// ignoring case.
func (n *Node) GetAll(key string) []*Node {
	if n.Type != DictionaryType {
		return nil
	}
	var res []*Node
	for _, c := range n.Children() {
		if c.Type == PropertyType && strings.EqualFold(c.Key, key) {
			res = append(res, c)
		}
	}
	return res
}

// ValueText returns the text of a property's scalar value and whether there
// is one.
func (n *Node) ValueText() (string, bool) {
	if n.Type != PropertyType || n.Value == nil || n.Value.Type != ValueType {
		return "", false
	}
	return n.Value.Text, true
}

// Append adds c as the last child of n. It is meant for tree builders only.
func (n *Node) Append(c *Node) {
	c.Parent = n
	c.Index = len(n.children)
	c.ChildIndex = -1
	if !c.Type.IsTrivia() {
		c.ChildIndex = n.nsig
		n.nsig++
	}
	c.adopt(n)
	n.children = append(n.children, c)
}

// SetValue appends v to property n and makes it the value. A block's extra
// header value, and anything between it and the block, must be appended
// before. It is meant for tree builders only.
func (n *Node) SetValue(v *Node) {
	n.Value = v
	n.Append(v)
}

func (n *Node) adopt(p *Node) {
	n.Depth = p.Depth + 1
	n.root = p.root
}

// String renders the node briefly, for messages.
func (n *Node) String() string {
	switch n.Type {
	case PropertyType:
		return "property " + n.Key
	case ValueType:
		return "value " + n.Text
	case CommentType:
		return "comment //" + n.Text
	default:
		return strings.ToLower(n.Type.String())
	}
}
