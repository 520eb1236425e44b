package parse

import (
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/debug"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/token"
)

// Parse builds the tree of the document d. d is copied.
func Parse(d []byte, opts ...ParseOption) *ir.Root {
	pOpts := newParseOpts(opts)
	return parseRoot(token.NewTokenizer(d, pOpts.TokenizeOpts()...), pOpts)
}

// ParseTokenizer builds a tree from a fresh tokenizer. The tokenizer's own
// options decide metadata and diagnostics; opts only contribute tree
// building options. Lazy parsing panics with ErrLazyBorrowed unless the
// tokenizer owns its text.
func ParseTokenizer(tk *token.Tokenizer, opts ...ParseOption) *ir.Root {
	return parseRoot(tk, newParseOpts(opts))
}

// ParseValue parses d as a single bare value: a scalar, a list or a
// dictionary. It returns nil for empty input.
func ParseValue(d []byte, opts ...ParseOption) *ir.Node {
	pOpts := newParseOpts(opts)
	tk := token.NewTokenizer(d, append(pOpts.TokenizeOpts(), token.TokenValueRoot())...)
	r := ir.NewValueRoot(tk.Doc())
	b := newBuilder(tk, pOpts, pOpts.sink)
	b.list(&r.Node)
	els := r.Elements()
	if len(els) == 0 {
		return nil
	}
	for _, extra := range els[1:] {
		diag.Report(pOpts.sink, diag.TrailingContent, extra.Range, "unexpected value after %s", els[0])
	}
	return els[0]
}

func parseRoot(tk *token.Tokenizer, opts *parseOpts) *ir.Root {
	if opts.lazy && !tk.Owned() {
		panic(ErrLazyBorrowed)
	}
	r := ir.NewRoot(tk.Doc(), opts.kind)
	r.Additional = scanHeader(tk.Doc())
	b := newBuilder(tk, opts, opts.sink)
	b.dict(&r.Node)
	if debug.Parse() {
		debug.Logf("parsed %d root properties, %d header properties\n", r.Count(), len(r.Additional))
	}
	return r
}

type builder struct {
	tk   *token.Tokenizer
	opts *parseOpts
	sink diag.Sink
	doc  *pos.Doc
	cur  token.Token
	// top is the lazy container being materialized; reading stops at its
	// end token.
	top *ir.Node

	// comments on their own lines waiting for the next sibling
	pending []*ir.Node
}

func newBuilder(tk *token.Tokenizer, opts *parseOpts, sink diag.Sink) *builder {
	b := &builder{tk: tk, opts: opts, sink: sink, doc: tk.Doc()}
	b.advance()
	return b
}

func (b *builder) advance() {
	b.cur = b.tk.Next()
}

func (b *builder) rng(t *token.Token) pos.Range {
	return b.doc.Range(t.Start, t.End)
}

// dict reads properties into n until n's end token, or the end of input for
// the root.
func (b *builder) dict(n *ir.Node) {
	var last *ir.Node
	for {
		t := b.cur
		switch t.Type {
		case token.TNone:
			b.finish(n, nil)
			return
		case token.TDictEnd, token.TListEnd:
			if n.IsRoot() {
				diag.Report(b.sink, diag.StrayClosingBracket, b.rng(&t), "unexpected %s at the top level", t.Type)
				b.advance()
				continue
			}
			b.finish(n, &t)
			if n != b.top {
				b.advance()
			}
			return
		case token.TComment, token.TBlankLines:
			b.dictTrivia(n, last, &t)
			b.advance()
		case token.TKey:
			last = b.property(n)
		default:
			// the tokenizer only yields keys and blocks in a dictionary
			diag.Report(b.sink, diag.UnexpectedToken, b.rng(&t), "unexpected %s", t.Type)
			b.advance()
		}
	}
}

func (b *builder) dictTrivia(n, last *ir.Node, t *token.Token) {
	if t.Type == token.TBlankLines {
		b.whitespace(n, t)
		return
	}
	c := b.comment(n, t)
	switch {
	case t.Breaks != 0 || (last == nil && n.IsRoot()):
		b.pending = append(b.pending, c)
	case last != nil:
		last.TrailingComment = c
	default:
		n.SetOpeningComment(c)
	}
}

// list reads elements into n until n's end token, or the end of input for a
// value root.
func (b *builder) list(n *ir.Node) {
	var last *ir.Node
	for {
		t := b.cur
		switch t.Type {
		case token.TNone:
			b.finish(n, nil)
			return
		case token.TListEnd, token.TDictEnd:
			b.finish(n, &t)
			if n != b.top {
				b.advance()
			}
			return
		case token.TComment:
			c := b.comment(n, &t)
			switch {
			case t.Breaks != 0:
				b.pending = append(b.pending, c)
			case last != nil && last.Type == ir.ValueType:
				last.Comment = c
			case last != nil:
				last.AddTrailingComments(c)
			default:
				n.SetOpeningComment(c)
			}
			b.advance()
		case token.TBlankLines:
			b.whitespace(n, &t)
			b.advance()
		case token.TListValue, token.TValue:
			v := b.value(&t)
			b.pending = nil
			n.Append(v)
			last = v
			b.advance()
		case token.TDictStart, token.TListStart:
			c := b.newContainer(&t)
			b.pending = nil
			n.Append(c)
			b.container(c, false)
			last = c
		default:
			diag.Report(b.sink, diag.UnexpectedToken, b.rng(&t), "unexpected %s", t.Type)
			b.advance()
		}
	}
}

// finish records the end of container n. A nil end is the end of input.
// The range of a lazy container is final from when it was skipped.
func (b *builder) finish(n *ir.Node, end *token.Token) {
	n.AddTrailingComments(b.pending...)
	b.pending = nil
	if n.IsRoot() || n == b.top {
		return
	}
	if end == nil {
		// only a value root or root dictionary runs to the end of input
		n.Range.End = b.doc.Pos(b.doc.Len())
		return
	}
	n.Closed = end.Closed
	n.Range.End = b.doc.Pos(end.End)
}

func (b *builder) property(dict *ir.Node) *ir.Node {
	k := b.cur
	p := &ir.Node{
		Type:            ir.PropertyType,
		Key:             k.Text,
		KeyQuoted:       k.Quoted,
		KeyRange:        b.rng(&k),
		Range:           b.rng(&k),
		LeadingComments: b.pending,
	}
	b.pending = nil
	dict.Append(p)
	b.advance()

	var v *ir.Node
	if b.cur.Type == token.TValue {
		v = b.value(&b.cur)
		b.advance()
	}
	// comments and blank lines may sit between the key or header value and
	// the block
	var trivia []token.Token
	for b.cur.Type.IsTrivia() {
		trivia = append(trivia, b.cur)
		b.advance()
	}
	if !b.cur.Type.IsStart() {
		if v != nil {
			p.SetValue(v)
			p.Range = p.Range.Union(v.Range)
		}
		for i := range trivia {
			b.dictTrivia(dict, p, &trivia[i])
		}
		return p
	}
	if v != nil {
		// "Key Extra" followed by a block: the value is a header
		p.Append(v)
	}
	for i := range trivia {
		t := &trivia[i]
		if t.Type == token.TComment {
			b.comment(p, t)
			continue
		}
		p.Append(&ir.Node{Type: ir.WhitespaceType, Lines: t.Lines, Range: b.rng(t)})
	}
	c := b.newContainer(&b.cur)
	c.Extra = v
	p.SetValue(c)
	b.container(c, b.opts.lazy)
	p.Range = p.Range.Union(c.Range)
	return p
}

func (b *builder) newContainer(t *token.Token) *ir.Node {
	c := &ir.Node{Type: ir.DictionaryType, Range: b.rng(t)}
	if t.Type == token.TListStart {
		c.Type = ir.ListType
	}
	return c
}

// container builds the container whose start token is current. c must
// already be attached to its parent.
func (b *builder) container(c *ir.Node, lazy bool) {
	start := b.cur
	if b.tk.Depth() > b.opts.maxDepth {
		diag.Report(b.sink, diag.MaxDepthExceeded, b.rng(&start), "nesting deeper than %d, contents skipped", b.opts.maxDepth)
		end := b.tk.SkipContainer()
		c.Closed = end.Closed
		c.Range = b.doc.Range(start.Start, end.End)
		b.advance()
		return
	}
	if lazy {
		frames := b.tk.Frames()
		end := b.tk.SkipContainer()
		c.Closed = end.Closed
		c.Range = b.doc.Range(start.Start, end.End)
		kind := token.DictKind
		if start.Type == token.TListStart {
			kind = token.ListKind
		}
		c.SetLazy(ir.NewLazySource(kind, frames, start.End, end.Start, b.opts.load))
		b.advance()
		return
	}
	b.advance()
	b.interior(c)
}

func (b *builder) interior(c *ir.Node) {
	if c.Type == ir.ListType {
		b.list(c)
		return
	}
	b.dict(c)
}

// load builds the interior of a lazy container. Diagnostics from the
// interior go to the root's late sink.
func (o *parseOpts) load(n *ir.Node, src *ir.LazySource) {
	r := n.Root()
	sink := r.LateSink()
	tk := token.NewTokenizerAt(r.Doc, true, src.Frames, src.Start,
		token.TokenMetadata(o.metadata), token.TokenDiagnostics(sink))
	b := newBuilder(tk, o, sink)
	b.top = n
	b.interior(n)
}

func (b *builder) value(t *token.Token) *ir.Node {
	return &ir.Node{
		Type:   ir.ValueType,
		Text:   t.Text,
		Quoted: t.Quoted,
		Closed: t.Closed,
		Range:  b.rng(t),
	}
}

func (b *builder) comment(n *ir.Node, t *token.Token) *ir.Node {
	c := &ir.Node{Type: ir.CommentType, Text: t.Text, Closed: true, Range: b.rng(t)}
	n.Append(c)
	return c
}

func (b *builder) whitespace(n *ir.Node, t *token.Token) {
	b.pending = nil
	n.Append(&ir.Node{Type: ir.WhitespaceType, Lines: t.Lines, Range: b.rng(t)})
}
