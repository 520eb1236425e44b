package token

import (
	"fmt"
	"strconv"
)

type TokenType int

const (
	TNone TokenType = iota
	TKey
	TValue
	TListValue
	TDictStart
	TDictEnd
	TListStart
	TListEnd

	// only produced in metadata mode
	TComment
	TBlankLines
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TNone:       "TNone",
		TKey:        "TKey",
		TValue:      "TValue",
		TListValue:  "TListValue",
		TDictStart:  "TDictStart",
		TDictEnd:    "TDictEnd",
		TListStart:  "TListStart",
		TListEnd:    "TListEnd",
		TComment:    "TComment",
		TBlankLines: "TBlankLines",
	}[t]
}

// IsTrivia reports whether t carries no structure.
func (t TokenType) IsTrivia() bool {
	return t == TComment || t == TBlankLines
}

// IsStart reports whether t opens a container.
func (t TokenType) IsStart() bool {
	return t == TDictStart || t == TListStart
}

// IsEnd reports whether t closes a container.
func (t TokenType) IsEnd() bool {
	return t == TDictEnd || t == TListEnd
}

// IsValue reports whether t is scalar text in value position.
func (t TokenType) IsValue() bool {
	return t == TValue || t == TListValue
}

type Token struct {
	Type TokenType
	// Start and End delimit the token's source bytes, End exclusive. Quotes
	// are included.
	Start, End int
	// Text is the decoded content: quotes removed, escapes applied, comment
	// markers stripped.
	Text   string
	Quoted bool
	// Closed is false for a quoted string missing its end quote and for an
	// end token synthesized because the closing bracket was never found.
	Closed bool
	// Breaks counts the line breaks between the previous token and this one.
	Breaks int
	// Lines is the number of blank lines for TBlankLines.
	Lines int
}

func (t *Token) String() string {
	switch t.Type {
	case TKey, TValue, TListValue:
		if t.Quoted {
			return strconv.Quote(t.Text)
		}
		return t.Text
	case TComment:
		return "//" + t.Text
	case TDictStart:
		return "{"
	case TDictEnd:
		return "}"
	case TListStart:
		return "["
	case TListEnd:
		return "]"
	default:
		return ""
	}
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %q [%d,%d)", t.Type, t.Text, t.Start, t.End)
}

// Kind is the kind of an open container.
type Kind byte

const (
	DictKind Kind = '{'
	ListKind Kind = '['
)

func (k Kind) close() byte {
	if k == DictKind {
		return '}'
	}
	return ']'
}

// Frame is one open container on the tokenizer's stack.
type Frame struct {
	Kind Kind
	// Start is the offset of the opening bracket, -1 for a root frame.
	Start int
}

func (f Frame) IsRoot() bool {
	return f.Start < 0
}
