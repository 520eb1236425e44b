package parse

import (
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/token"
)

const DefaultMaxDepth = 64

type parseOpts struct {
	metadata bool
	lazy     bool
	maxDepth int
	kind     ir.FileKind
	sink     diag.Sink
}

func newParseOpts(opts []ParseOption) *parseOpts {
	res := &parseOpts{maxDepth: DefaultMaxDepth, sink: diag.Discard}
	for _, f := range opts {
		f(res)
	}
	return res
}

func (o *parseOpts) TokenizeOpts() []token.TokenOpt {
	return []token.TokenOpt{token.TokenMetadata(o.metadata), token.TokenDiagnostics(o.sink)}
}

type ParseOption func(*parseOpts)

// ParseMetadata keeps comments and blank line runs as nodes.
func ParseMetadata(v bool) ParseOption {
	return func(o *parseOpts) { o.metadata = v }
}

// ParseLazy defers building the interior of property values until first
// access.
func ParseLazy(v bool) ParseOption {
	return func(o *parseOpts) { o.lazy = v }
}

// ParseMaxDepth caps container nesting. Deeper containers are skipped.
func ParseMaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.maxDepth = n }
}

func ParseKind(k ir.FileKind) ParseOption {
	return func(o *parseOpts) { o.kind = k }
}

func ParseDiagnostics(s diag.Sink) ParseOption {
	return func(o *parseOpts) {
		if s == nil {
			s = diag.Discard
		}
		o.sink = s
	}
}
