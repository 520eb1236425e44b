package ir

// Walk visits n and its descendants in document order. Returning false from
// f skips the descendants of the node just visited.
func (n *Node) Walk(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(f)
	}
}

// NodeAt returns the deepest node whose range contains off. It returns nil
// when off is outside n.
func (n *Node) NodeAt(off int) *Node {
	if !n.Range.Contains(off) {
		return nil
	}
	var res *Node
	n.Walk(func(c *Node) bool {
		if !c.Range.Contains(off) {
			return false
		}
		res = c
		return true
	})
	return res
}

// NodeAtLineCol is NodeAt for a 1-based line and column.
func (r *Root) NodeAtLineCol(line, col int) *Node {
	return r.NodeAt(r.Doc.Offset(line, col))
}

// Properties returns every property node under n, depth first.
func (n *Node) Properties() []*Node {
	var res []*Node
	n.Walk(func(c *Node) bool {
		if c.Type == PropertyType {
			res = append(res, c)
		}
		return true
	})
	return res
}
