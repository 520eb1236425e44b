package schema

import "strings"

// NormalizeName strips the assembly qualification and surrounding space
// from a type name, so "SDG.Unturned.ItemGunAsset, Assembly-CSharp"
// becomes "SDG.Unturned.ItemGunAsset".
func NormalizeName(n string) string {
	if i := strings.IndexByte(n, ','); i >= 0 {
		n = n[:i]
	}
	return strings.TrimSpace(n)
}

// ShortName returns the last dotted segment of a type name.
func ShortName(n string) string {
	n = NormalizeName(n)
	if i := strings.LastIndexByte(n, '.'); i >= 0 {
		return n[i+1:]
	}
	return n
}

// FileName returns the base name, without extension, of the definition
// file of type n. Characters unsafe in file names become '_'.
func FileName(n string) string {
	n = NormalizeName(n)
	var b strings.Builder
	for _, c := range n {
		switch c {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '+', '`':
			b.WriteByte('_')
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
