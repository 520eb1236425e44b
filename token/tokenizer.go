package token

import (
	"bytes"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/debug"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

type tokenOpts struct {
	metadata  bool
	sink      diag.Sink
	valueRoot bool
}

type TokenOpt func(*tokenOpts)

// TokenMetadata makes the tokenizer emit TComment and TBlankLines tokens
// instead of discarding comments and whitespace.
func TokenMetadata(v bool) TokenOpt {
	return func(o *tokenOpts) { o.metadata = v }
}

// TokenDiagnostics sets where lexical and structural diagnostics go.
func TokenDiagnostics(s diag.Sink) TokenOpt {
	return func(o *tokenOpts) {
		if s == nil {
			s = diag.Discard
		}
		o.sink = s
	}
}

// TokenValueRoot tokenizes the input as a bare value (a scalar, list or
// dictionary) instead of as a root dictionary of properties.
func TokenValueRoot() TokenOpt {
	return func(o *tokenOpts) { o.valueRoot = true }
}

// Tokenizer is a forward only scanner over a DAT document. It keeps a stack
// of open containers and the previous significant token, which together
// decide how the next bytes are read.
//
// A Tokenizer is meant to be driven to completion by one caller in one call
// frame. It is not safe for concurrent use.
type Tokenizer struct {
	d     []byte
	doc   *pos.Doc
	owned bool
	i     int
	end   int

	prev  TokenType
	stack []Frame

	sink     diag.Sink
	metadata bool

	// line breaks since the previous emitted token, and since the previous
	// significant token
	breaks int
	sig    int

	blankDone bool
	lastEnd   int
}

// NewTokenizer copies src and tokenizes the copy. Trees built from an owning
// tokenizer may defer parsing of subtrees.
func NewTokenizer(src []byte, opts ...TokenOpt) *Tokenizer {
	d := make([]byte, len(src))
	copy(d, src)
	return newTokenizer(pos.NewDoc(d), true, nil, 0, opts)
}

// NewTokenizerNoCopy tokenizes src in place. The caller must keep src
// unchanged for as long as the tokenizer or anything built from it is used.
func NewTokenizerNoCopy(src []byte, opts ...TokenOpt) *Tokenizer {
	return newTokenizer(pos.NewDoc(src), false, nil, 0, opts)
}

// NewTokenizerAt resumes tokenizing doc at off, just after the opening
// bracket of the last frame in frames. frames is the stack as reported by
// Frames at the time the bracket was read.
func NewTokenizerAt(doc *pos.Doc, owned bool, frames []Frame, off int, opts ...TokenOpt) *Tokenizer {
	return newTokenizer(doc, owned, frames, off, opts)
}

func newTokenizer(doc *pos.Doc, owned bool, frames []Frame, off int, opts []TokenOpt) *Tokenizer {
	opt := &tokenOpts{sink: diag.Discard}
	for _, o := range opts {
		o(opt)
	}
	t := &Tokenizer{
		d:        doc.Bytes(),
		doc:      doc,
		owned:    owned,
		end:      doc.Len(),
		sink:     opt.sink,
		metadata: opt.metadata,
	}
	if frames != nil {
		t.stack = append([]Frame(nil), frames...)
		t.i = off
		t.lastEnd = off
		t.prev = startType(t.top().Kind)
		return t
	}
	root := Frame{Kind: DictKind, Start: -1}
	if opt.valueRoot {
		root.Kind = ListKind
	}
	t.stack = []Frame{root}
	if bytes.HasPrefix(t.d, bom) {
		t.i = len(bom)
		t.lastEnd = t.i
	}
	return t
}

func (t *Tokenizer) Doc() *pos.Doc {
	return t.doc
}

// Owned reports whether the tokenizer holds its own copy of the text.
func (t *Tokenizer) Owned() bool {
	return t.owned
}

func (t *Tokenizer) Offset() int {
	return t.i
}

// Frames returns a copy of the open container stack, root first.
func (t *Tokenizer) Frames() []Frame {
	return append([]Frame(nil), t.stack...)
}

// Depth is the number of open non-root containers.
func (t *Tokenizer) Depth() int {
	n := 0
	for _, f := range t.stack {
		if !f.IsRoot() {
			n++
		}
	}
	return n
}

func (t *Tokenizer) top() Frame {
	return t.stack[len(t.stack)-1]
}

func (t *Tokenizer) report(c diag.Code, start, end int, format string, args ...any) {
	diag.Report(t.sink, c, t.doc.Range(start, end), format, args...)
}

func (t *Tokenizer) emit(tok Token) Token {
	tok.Breaks = t.breaks
	t.breaks = 0
	t.blankDone = false
	t.lastEnd = tok.End
	if !tok.Type.IsTrivia() {
		t.prev = tok.Type
		t.sig = 0
	}
	if debug.Tokens() {
		debug.Logf("token %s\n", tok.Info())
	}
	return tok
}

// Next returns the next token. Once the input is exhausted and every open
// container has been closed it returns TNone tokens forever.
func (t *Tokenizer) Next() Token {
	for {
		if tok, ok := t.next(); ok {
			return tok
		}
	}
}

func (t *Tokenizer) next() (Token, bool) {
	t.skipSpace()
	if t.metadata && !t.blankDone && t.breaks >= 3 {
		return t.blankLines(), true
	}
	if t.i >= t.end {
		return t.eof(), true
	}
	c := t.d[t.i]
	if c == '/' && t.i+1 < t.end && t.d[t.i+1] == '/' {
		return t.comment()
	}
	if t.top().Kind == ListKind {
		return t.nextInList(c)
	}
	return t.nextInDict(c)
}

func (t *Tokenizer) nextInDict(c byte) (Token, bool) {
	switch c {
	case '}', ']':
		return t.closer(c)
	case '{', '[':
		if t.prev == TKey || t.prev == TValue {
			if t.prev == TValue && t.sig > 1 {
				t.report(diag.StrayValue, t.i, t.i+1, "block is separated from its header value by blank lines")
			}
			return t.open(c), true
		}
		t.report(diag.UnexpectedToken, t.i, t.i+1, "unexpected %q, expected a property key", string(c))
		t.recover(c)
		return Token{}, false
	case ',':
		t.report(diag.UnnecessaryComma, t.i, t.i+1, "unnecessary comma")
		t.i++
		return Token{}, false
	}
	if t.prev == TKey && t.sig == 0 {
		return t.value(TValue), true
	}
	return t.key(), true
}

func (t *Tokenizer) nextInList(c byte) (Token, bool) {
	switch c {
	case ']', '}':
		return t.closer(c)
	case '[', '{':
		return t.open(c), true
	case ',':
		t.report(diag.UnnecessaryComma, t.i, t.i+1, "unnecessary comma")
		t.i++
		return Token{}, false
	}
	return t.value(TListValue), true
}

func (t *Tokenizer) skipSpace() {
	for t.i < t.end {
		switch t.d[t.i] {
		case ' ', '\t', '\r', '\f', '\v':
		case '\n':
			t.breaks++
			t.sig++
		default:
			return
		}
		t.i++
	}
}

func (t *Tokenizer) blankLines() Token {
	t.blankDone = true
	start := t.lastEnd
	if j := bytes.IndexByte(t.d[t.lastEnd:t.i], '\n'); j >= 0 {
		start += j + 1
	}
	end := bytes.LastIndexByte(t.d[:t.i], '\n') + 1
	end = max(end, start)
	return Token{Type: TBlankLines, Start: start, End: end, Lines: t.breaks - 1, Breaks: t.breaks}
}

func (t *Tokenizer) eof() Token {
	f := t.top()
	if f.IsRoot() {
		return Token{Type: TNone, Start: t.end, End: t.end, Breaks: t.breaks}
	}
	t.report(diag.MissingClosingBracket, f.Start, f.Start+1, "missing closing %q", string(f.Kind.close()))
	t.stack = t.stack[:len(t.stack)-1]
	return t.emit(Token{Type: endType(f.Kind), Start: t.end, End: t.end})
}

func (t *Tokenizer) comment() (Token, bool) {
	start := t.i
	e := t.lineEnd(t.i)
	t.i = e
	if !t.metadata {
		return Token{}, false
	}
	text := bytes.TrimRight(t.d[start+2:e], " \t\r")
	return t.emit(Token{
		Type:   TComment,
		Start:  start,
		End:    start + 2 + len(text),
		Text:   string(text),
		Closed: true,
	}), true
}

func (t *Tokenizer) lineEnd(i int) int {
	j := bytes.IndexByte(t.d[i:t.end], '\n')
	if j < 0 {
		return t.end
	}
	return i + j
}

func (t *Tokenizer) open(c byte) Token {
	k := Kind(c)
	start := t.i
	t.stack = append(t.stack, Frame{Kind: k, Start: start})
	t.i++
	return t.emit(Token{Type: startType(k), Start: start, End: t.i, Closed: true})
}

// closer handles '}' or ']'. A bracket closing the innermost container is
// consumed. A bracket matching an outer container closes the innermost one
// as unclosed without consuming the bracket, so the outer container sees it
// next. Anything else is stray and skipped.
func (t *Tokenizer) closer(c byte) (Token, bool) {
	want := DictKind
	if c == ']' {
		want = ListKind
	}
	idx := -1
	for j := len(t.stack) - 1; j >= 0; j-- {
		if !t.stack[j].IsRoot() && t.stack[j].Kind == want {
			idx = j
			break
		}
	}
	if idx < 0 {
		t.report(diag.StrayClosingBracket, t.i, t.i+1, "%q has no matching opening bracket", string(c))
		t.i++
		return Token{}, false
	}
	top := len(t.stack) - 1
	f := t.stack[top]
	t.stack = t.stack[:top]
	if idx == top {
		start := t.i
		t.i++
		return t.emit(Token{Type: endType(f.Kind), Start: start, End: t.i, Closed: true}), true
	}
	t.report(diag.MissingClosingBracket, f.Start, f.Start+1, "missing closing %q", string(f.Kind.close()))
	return t.emit(Token{Type: endType(f.Kind), Start: t.i, End: t.i}), true
}

// recover skips a bracketed group found where a key was expected.
func (t *Tokenizer) recover(c byte) {
	start := t.i
	t.stack = append(t.stack, Frame{Kind: Kind(c), Start: start})
	t.i++
	end := t.skipTo(len(t.stack) - 1)
	if !end.Closed {
		t.report(diag.MissingClosingBracket, start, start+1, "missing closing %q", string(Kind(c).close()))
	}
}

// SkipContainer consumes the rest of the container opened by the last token,
// without reporting diagnostics or producing trivia, and returns its end
// token.
func (t *Tokenizer) SkipContainer() Token {
	return t.skipTo(len(t.stack) - 1)
}

func (t *Tokenizer) skipTo(level int) Token {
	sink, meta := t.sink, t.metadata
	t.sink, t.metadata = diag.Discard, false
	defer func() {
		t.sink, t.metadata = sink, meta
	}()
	for {
		tok := t.Next()
		if tok.Type == TNone {
			return tok
		}
		if tok.Type.IsEnd() && len(t.stack) <= level {
			return tok
		}
	}
}

func (t *Tokenizer) key() Token {
	start := t.i
	if t.d[start] == '"' {
		text, end, closed := t.readQuoted(start)
		t.i = end
		if text == "" {
			t.report(diag.EmptyKey, start, end, "empty property key")
		}
		return t.emit(Token{Type: TKey, Start: start, End: end, Text: text, Quoted: true, Closed: closed})
	}
	i := start
	for i < t.end && !isSpace(t.d[i]) && !isBracket(t.d[i]) {
		i++
	}
	t.i = i
	return t.emit(Token{Type: TKey, Start: start, End: i, Text: string(t.d[start:i]), Closed: true})
}

func (t *Tokenizer) value(typ TokenType) Token {
	start := t.i
	if t.d[start] == '"' {
		text, end, closed := t.readQuoted(start)
		t.i = end
		tok := t.emit(Token{Type: typ, Start: start, End: end, Text: text, Quoted: true, Closed: closed})
		if typ == TValue {
			t.afterQuotedValue()
		}
		return tok
	}
	list := typ == TListValue
	i, last := start, start
	for i < t.end {
		c := t.d[i]
		if c == '\n' {
			break
		}
		if c == '/' && i > start && i+1 < t.end && t.d[i+1] == '/' && (t.d[i-1] == ' ' || t.d[i-1] == '\t') {
			break
		}
		if list && (c == ',' || c == ']' || c == '}') {
			break
		}
		i++
		if !isSpace(c) {
			last = i
		}
	}
	if !list && last-start >= 2 && (t.d[last-1] == '{' || t.d[last-1] == '[') && isInlineSpace(t.d[last-2]) {
		// "Key Header {" opens the block on the same line
		last--
		for last > start && isSpace(t.d[last-1]) {
			last--
		}
	} else if !list {
		last = t.trimClosers(start, last)
	}
	t.i = last
	return t.emit(Token{Type: typ, Start: start, End: last, Text: string(t.d[start:last]), Closed: true})
}

// trimClosers drops closing brackets ending a value on the line of its
// containers, as in "{ Key Value }". Only a run of whitespace separated
// brackets that closes the innermost open containers in order is dropped.
func (t *Tokenizer) trimClosers(start, last int) int {
	var at []int
	e := last
	for e-start >= 2 && (t.d[e-1] == '}' || t.d[e-1] == ']') && isInlineSpace(t.d[e-2]) {
		at = append(at, e-1)
		e--
		for e > start && isSpace(t.d[e-1]) {
			e--
		}
	}
	// at holds closer offsets, last one first
	for k := len(at); k > 0; k-- {
		if k > len(t.stack)-1 {
			continue
		}
		ok := true
		for j := 0; j < k; j++ {
			// j-th closer in text order of the suffix closes the j-th frame
			// from the top
			f := t.stack[len(t.stack)-1-j]
			if f.IsRoot() || t.d[at[k-1-j]] != f.Kind.close() {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		e = at[k-1]
		for e > start && isSpace(t.d[e-1]) {
			e--
		}
		return e
	}
	return last
}

// afterQuotedValue checks the rest of the line after a quoted property value.
func (t *Tokenizer) afterQuotedValue() {
	t.skipInlineSpace()
	if t.i < t.end && t.d[t.i] == ',' {
		t.report(diag.UnnecessaryComma, t.i, t.i+1, "unnecessary comma")
		t.i++
		t.skipInlineSpace()
	}
	if t.i >= t.end {
		return
	}
	switch t.d[t.i] {
	case '\n', '\r', '{', '[', '}', ']':
		return
	case '/':
		if t.i+1 < t.end && t.d[t.i+1] == '/' {
			return
		}
	}
	start := t.i
	e := t.lineEnd(start)
	if j := bytes.Index(t.d[start:e], []byte("//")); j >= 0 {
		e = start + j
	}
	end := start + len(bytes.TrimRight(t.d[start:e], " \t\r"))
	t.report(diag.TrailingContent, start, end, "unexpected text after quoted value")
	t.i = end
}

func (t *Tokenizer) skipInlineSpace() {
	for t.i < t.end && isInlineSpace(t.d[t.i]) {
		t.i++
	}
}

func isInlineSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}

func isBracket(c byte) bool {
	switch c {
	case '{', '}', '[', ']':
		return true
	}
	return false
}

func startType(k Kind) TokenType {
	if k == ListKind {
		return TListStart
	}
	return TDictStart
}

func endType(k Kind) TokenType {
	if k == ListKind {
		return TListEnd
	}
	return TDictEnd
}
