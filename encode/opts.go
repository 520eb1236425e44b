package encode

type EncodeOption func(*EncState)

// EncodeIndent sets the text written once per nesting level. The default
// is a tab.
func EncodeIndent(s string) EncodeOption {
	return func(es *EncState) { es.indent = s }
}

// EncodeComments writes comment and blank line nodes. They exist only in
// trees parsed with parse.ParseMetadata.
func EncodeComments(v bool) EncodeOption {
	return func(es *EncState) { es.comments = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
