package token

// Tokenize returns every token of src up to, not including, the final TNone.
func Tokenize(src []byte, opts ...TokenOpt) []Token {
	t := NewTokenizerNoCopy(src, opts...)
	var res []Token
	for {
		tok := t.Next()
		if tok.Type == TNone {
			return res
		}
		res = append(res, tok)
	}
}
