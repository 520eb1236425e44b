package token

import (
	"unicode/utf8"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
)

// readQuoted reads the quoted string whose opening quote is at start. It
// returns the decoded text, the offset just past the string and whether the
// closing quote was found. An unterminated string ends at the line break or
// the end of input.
func (t *Tokenizer) readQuoted(start int) (string, int, bool) {
	d := t.d
	i := start + 1
	seg := i
	var b []byte
	for i < t.end {
		switch d[i] {
		case '"':
			return t.quotedText(b, seg, i), i + 1, true
		case '\n':
			end := i
			if end > seg && d[end-1] == '\r' {
				end--
			}
			t.report(diag.UnterminatedQuote, start, end, "missing end quote")
			return t.quotedText(b, seg, end), end, false
		case '\\':
			if i+1 >= t.end || d[i+1] == '\n' || d[i+1] == '\r' {
				i++
				continue
			}
			b = append(b, d[seg:i]...)
			switch e := d[i+1]; e {
			case 'n':
				b = append(b, '\n')
			case 't':
				b = append(b, '\t')
			case '\\':
				b = append(b, '\\')
			case '"':
				b = append(b, '"')
			default:
				_, sz := utf8.DecodeRune(d[i+1 : t.end])
				t.report(diag.UnrecognizedEscape, i, i+1+sz, "unrecognized escape sequence %q", string(d[i:i+1+sz]))
				b = append(b, d[i:i+1+sz]...)
				i += 1 + sz
				seg = i
				continue
			}
			i += 2
			seg = i
			continue
		}
		i++
	}
	t.report(diag.UnterminatedQuote, start, i, "missing end quote")
	return t.quotedText(b, seg, i), i, false
}

func (t *Tokenizer) quotedText(b []byte, seg, end int) string {
	if b == nil {
		return string(t.d[seg:end])
	}
	return string(append(b, t.d[seg:end]...))
}

// Unescape decodes the escape sequences of a quoted string body. Unknown
// escapes are kept as written.
func Unescape(s string) string {
	t := NewTokenizerNoCopy([]byte("\"" + s + "\""))
	text, _, _ := t.readQuoted(0)
	return text
}

// Quote renders s as a quoted string using the DAT escape set.
func Quote(s string) string {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b = append(b, '\\', 'n')
		case '\t':
			b = append(b, '\\', 't')
		case '\\':
			b = append(b, '\\', '\\')
		case '"':
			b = append(b, '\\', '"')
		default:
			b = append(b, c)
		}
	}
	return string(append(b, '"'))
}
