package token

import (
	"strings"
	"testing"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/google/go-cmp/cmp"
)

type tok struct {
	Type   TokenType
	Text   string
	Quoted bool
	Closed bool
}

func simplify(toks []Token) []tok {
	res := make([]tok, len(toks))
	for i := range toks {
		res[i] = tok{Type: toks[i].Type, Text: toks[i].Text, Quoted: toks[i].Quoted, Closed: toks[i].Closed}
	}
	return res
}

func codes(l diag.List) []diag.Code {
	res := []diag.Code{}
	for i := range l {
		res = append(res, l[i].Code)
	}
	return res
}

type tokTest struct {
	name  string
	in    string
	opts  []TokenOpt
	out   []tok
	diags []diag.Code
}

func TestTokenize(t *testing.T) {
	tests := []tokTest{
		{
			name: "key value",
			in:   "Key Value",
			out: []tok{
				{TKey, "Key", false, true},
				{TValue, "Value", false, true},
			},
		},
		{
			name: "quoted escape",
			in:   `Key "a\"b"`,
			out: []tok{
				{TKey, "Key", false, true},
				{TValue, `a"b`, true, true},
			},
		},
		{
			name: "value to end of line",
			in:   "Name Some Item Name  \nNext 1",
			out: []tok{
				{TKey, "Name", false, true},
				{TValue, "Some Item Name", false, true},
				{TKey, "Next", false, true},
				{TValue, "1", false, true},
			},
		},
		{
			name: "dictionary",
			in:   "Dict\n{\n A 1\n B 2\n}",
			out: []tok{
				{TKey, "Dict", false, true},
				{TDictStart, "", false, true},
				{TKey, "A", false, true},
				{TValue, "1", false, true},
				{TKey, "B", false, true},
				{TValue, "2", false, true},
				{TDictEnd, "", false, true},
			},
		},
		{
			name: "header value",
			in:   "Key Extra\n{\n}",
			out: []tok{
				{TKey, "Key", false, true},
				{TValue, "Extra", false, true},
				{TDictStart, "", false, true},
				{TDictEnd, "", false, true},
			},
		},
		{
			name: "same line block",
			in:   "Key Extra {\n A 1 }",
			out: []tok{
				{TKey, "Key", false, true},
				{TValue, "Extra", false, true},
				{TDictStart, "", false, true},
				{TKey, "A", false, true},
				{TValue, "1", false, true},
				{TDictEnd, "", false, true},
			},
		},
		{
			name: "header separated by blank lines",
			in:   "Key Extra\n\n{\n}",
			out: []tok{
				{TKey, "Key", false, true},
				{TValue, "Extra", false, true},
				{TDictStart, "", false, true},
				{TDictEnd, "", false, true},
			},
			diags: []diag.Code{diag.StrayValue},
		},
		{
			name: "key without value",
			in:   "Flag\nOther 2",
			out: []tok{
				{TKey, "Flag", false, true},
				{TKey, "Other", false, true},
				{TValue, "2", false, true},
			},
		},
		{
			name: "list commas",
			in:   "L [a, b]",
			out: []tok{
				{TKey, "L", false, true},
				{TListStart, "", false, true},
				{TListValue, "a", false, true},
				{TListValue, "b", false, true},
				{TListEnd, "", false, true},
			},
			diags: []diag.Code{diag.UnnecessaryComma},
		},
		{
			name: "list of dictionaries",
			in:   "L\n[\n {\n  A 1\n }\n \"q\"\n]",
			out: []tok{
				{TKey, "L", false, true},
				{TListStart, "", false, true},
				{TDictStart, "", false, true},
				{TKey, "A", false, true},
				{TValue, "1", false, true},
				{TDictEnd, "", false, true},
				{TListValue, "q", true, true},
				{TListEnd, "", false, true},
			},
		},
		{
			name: "unterminated quote",
			in:   "Key \"abc\nNext 1",
			out: []tok{
				{TKey, "Key", false, true},
				{TValue, "abc", true, false},
				{TKey, "Next", false, true},
				{TValue, "1", false, true},
			},
			diags: []diag.Code{diag.UnterminatedQuote},
		},
		{
			name: "unrecognized escape",
			in:   `Key "a\qb"`,
			out: []tok{
				{TKey, "Key", false, true},
				{TValue, `a\qb`, true, true},
			},
			diags: []diag.Code{diag.UnrecognizedEscape},
		},
		{
			name: "trailing content",
			in:   "Key \"a\" b\nNext 1",
			out: []tok{
				{TKey, "Key", false, true},
				{TValue, "a", true, true},
				{TKey, "Next", false, true},
				{TValue, "1", false, true},
			},
			diags: []diag.Code{diag.TrailingContent},
		},
		{
			name: "comment dropped",
			in:   "A 1 // note\n// whole line\nB http://x",
			out: []tok{
				{TKey, "A", false, true},
				{TValue, "1", false, true},
				{TKey, "B", false, true},
				{TValue, "http://x", false, true},
			},
		},
		{
			name: "comment kept",
			in:   "A 1 // note\nB 2",
			opts: []TokenOpt{TokenMetadata(true)},
			out: []tok{
				{TKey, "A", false, true},
				{TValue, "1", false, true},
				{TComment, " note", false, true},
				{TKey, "B", false, true},
				{TValue, "2", false, true},
			},
		},
		{
			name: "blank lines",
			in:   "A 1\n\n\nB 2\n\nC 3",
			opts: []TokenOpt{TokenMetadata(true)},
			out: []tok{
				{TKey, "A", false, true},
				{TValue, "1", false, true},
				{TBlankLines, "", false, false},
				{TKey, "B", false, true},
				{TValue, "2", false, true},
				{TKey, "C", false, true},
				{TValue, "3", false, true},
			},
		},
		{
			name: "unclosed value list",
			in:   "[1,2,3",
			opts: []TokenOpt{TokenValueRoot()},
			out: []tok{
				{TListStart, "", false, true},
				{TListValue, "1", false, true},
				{TListValue, "2", false, true},
				{TListValue, "3", false, true},
				{TListEnd, "", false, false},
			},
			diags: []diag.Code{diag.UnnecessaryComma, diag.UnnecessaryComma, diag.MissingClosingBracket},
		},
		{
			name: "mismatched closer",
			in:   "D {\n L [\n x\n}\nB 1",
			out: []tok{
				{TKey, "D", false, true},
				{TDictStart, "", false, true},
				{TKey, "L", false, true},
				{TListStart, "", false, true},
				{TListValue, "x", false, true},
				{TListEnd, "", false, false},
				{TDictEnd, "", false, true},
				{TKey, "B", false, true},
				{TValue, "1", false, true},
			},
			diags: []diag.Code{diag.MissingClosingBracket},
		},
		{
			name: "stray closer",
			in:   "A 1\n}\nB 2",
			out: []tok{
				{TKey, "A", false, true},
				{TValue, "1", false, true},
				{TKey, "B", false, true},
				{TValue, "2", false, true},
			},
			diags: []diag.Code{diag.StrayClosingBracket},
		},
		{
			name: "unexpected block",
			in:   "{ a 1 }\nB 2",
			out: []tok{
				{TKey, "B", false, true},
				{TValue, "2", false, true},
			},
			diags: []diag.Code{diag.UnexpectedToken},
		},
		{
			name: "empty key",
			in:   `"" 1`,
			out: []tok{
				{TKey, "", true, true},
				{TValue, "1", false, true},
			},
			diags: []diag.Code{diag.EmptyKey},
		},
		{
			name: "bom",
			in:   "\xEF\xBB\xBFA 1",
			out: []tok{
				{TKey, "A", false, true},
				{TValue, "1", false, true},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var l diag.List
			opts := append([]TokenOpt{TokenDiagnostics(&l)}, test.opts...)
			toks := Tokenize([]byte(test.in), opts...)
			if diff := cmp.Diff(test.out, simplify(toks)); diff != "" {
				t.Errorf("tokens (-want +got):\n%s", diff)
			}
			want := test.diags
			if want == nil {
				want = []diag.Code{}
			}
			if diff := cmp.Diff(want, codes(l)); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenOffsets(t *testing.T) {
	toks := Tokenize([]byte("Key \"v\"\nB 2"))
	want := [][2]int{{0, 3}, {4, 7}, {8, 9}, {10, 11}}
	for i, w := range want {
		if toks[i].Start != w[0] || toks[i].End != w[1] {
			t.Errorf("token %d: got [%d,%d) want [%d,%d)", i, toks[i].Start, toks[i].End, w[0], w[1])
		}
	}
	if toks[2].Breaks != 1 {
		t.Errorf("expected 1 break before B, got %d", toks[2].Breaks)
	}
}

func TestBlankLinesRange(t *testing.T) {
	toks := Tokenize([]byte("A 1\n\n\nB 2"), TokenMetadata(true))
	b := toks[2]
	if b.Type != TBlankLines || b.Lines != 2 || b.Start != 4 || b.End != 6 {
		t.Errorf("unexpected blank lines token %s lines=%d", b.Info(), b.Lines)
	}
}

func TestSkipContainer(t *testing.T) {
	src := []byte("A [\n 1\n { B [2] }\n]\nC 3")
	tk := NewTokenizer(src)
	for {
		tok := tk.Next()
		if tok.Type == TListStart {
			break
		}
	}
	end := tk.SkipContainer()
	if end.Type != TListEnd || !end.Closed || end.Start != 18 {
		t.Fatalf("unexpected end %s", end.Info())
	}
	next := tk.Next()
	if next.Type != TKey || next.Text != "C" {
		t.Errorf("expected key C after skip, got %s", next.Info())
	}
}

func TestResumeAt(t *testing.T) {
	src := []byte("A {\n B 1\n}\nC 2")
	tk := NewTokenizer(src)
	tk.Next()
	start := tk.Next()
	frames := tk.Frames()
	var eager []Token
	for {
		tok := tk.Next()
		eager = append(eager, tok)
		if tok.Type == TDictEnd {
			break
		}
	}
	rt := NewTokenizerAt(tk.Doc(), true, frames, start.End)
	var resumed []Token
	for {
		tok := rt.Next()
		resumed = append(resumed, tok)
		if tok.Type == TDictEnd {
			break
		}
	}
	if diff := cmp.Diff(eager, resumed); diff != "" {
		t.Errorf("resumed tokens differ (-eager +resumed):\n%s", diff)
	}
}

func TestTerminates(t *testing.T) {
	inputs := []string{
		"", "{", "}", "[", "]", "\"", "\\", "{{{{[[[[", "]]]]}}}}",
		"A [ } ] { [ \" \n } ]", "A\n[\n{\n[\n", ",,,,", "\"\\", "A \"\\\n",
		strings.Repeat("[{", 200), strings.Repeat("A {\n", 100) + strings.Repeat("]", 50),
	}
	for _, in := range inputs {
		for _, opts := range [][]TokenOpt{nil, {TokenMetadata(true)}, {TokenValueRoot()}} {
			tk := NewTokenizer([]byte(in), opts...)
			n := 0
			for tk.Next().Type != TNone {
				n++
				if n > 10*len(in)+10 {
					t.Fatalf("no termination on %q", in)
				}
			}
			if tk.Depth() != 0 {
				t.Errorf("%q: open containers left at end", in)
			}
		}
	}
}

func TestUnescapeQuote(t *testing.T) {
	for _, s := range []string{"", "plain", "a\"b", "tab\there", "line\nbreak", `back\slash`} {
		if got := Unescape(Quote(s)[1 : len(Quote(s))-1]); got != s {
			t.Errorf("Unescape(Quote(%q)) = %q", s, got)
		}
	}
	if got := Unescape(`a\qb`); got != `a\qb` {
		t.Errorf("unknown escape: got %q", got)
	}
}
