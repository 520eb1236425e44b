package ir

import (
	"sync"
	"sync/atomic"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/debug"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/token"
)

// Loader fills in the children of a lazy container n from src.
type Loader func(n *Node, src *LazySource)

// LazySource is the unparsed interior of a container: the tokenizer state at
// its opening bracket and the span of source it covers.
type LazySource struct {
	Kind token.Kind
	// Frames is the tokenizer's container stack just after the opening
	// bracket was read.
	Frames []token.Frame
	// Start is the offset just after the opening bracket, End the offset of
	// the closing bracket (or where the container ended unclosed).
	Start, End int

	load Loader
	once sync.Once
	done atomic.Bool
}

func NewLazySource(kind token.Kind, frames []token.Frame, start, end int, load Loader) *LazySource {
	return &LazySource{Kind: kind, Frames: frames, Start: start, End: end, load: load}
}

// Text returns the captured source of the container's interior.
func (s *LazySource) Text(n *Node) []byte {
	return n.root.Doc.Bytes()[s.Start:s.End]
}

func (s *LazySource) materialize(n *Node) {
	s.once.Do(func() {
		if debug.Lazy() {
			debug.Logf("materialize %s at %s\n", n.Type, n.Range)
		}
		s.load(n, s)
		s.done.Store(true)
	})
}

// SetLazy defers the interior of container n to src. It is meant for tree
// builders only.
func (n *Node) SetLazy(src *LazySource) {
	n.lazy = src
}

// Materialize forces every lazy container under n to be built.
func (n *Node) Materialize() {
	n.Walk(func(*Node) bool { return true })
}
