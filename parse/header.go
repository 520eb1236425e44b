package parse

import (
	"bytes"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/token"
)

// scanHeader collects "// @Key Value" comments from the lines before the
// first line holding anything but a comment.
func scanHeader(doc *pos.Doc) []ir.AdditionalProperty {
	var res []ir.AdditionalProperty
	d := doc.Bytes()
	off := 0
	if bytes.HasPrefix(d, []byte{0xEF, 0xBB, 0xBF}) {
		off = 3
	}
	for off < len(d) {
		end := bytes.IndexByte(d[off:], '\n')
		if end < 0 {
			end = len(d)
		} else {
			end += off
		}
		line := d[off:end]
		trimmed := bytes.TrimLeft(line, " \t")
		lead := len(line) - len(trimmed)
		trimmed = bytes.TrimRight(trimmed, " \t\r")
		switch {
		case len(trimmed) == 0:
		case bytes.HasPrefix(trimmed, []byte("//")):
			if p, ok := headerProperty(doc, off+lead, trimmed); ok {
				res = append(res, p)
			}
		default:
			return res
		}
		off = end + 1
	}
	return res
}

func headerProperty(doc *pos.Doc, start int, line []byte) (ir.AdditionalProperty, bool) {
	body := strings.TrimLeft(string(line[2:]), " \t")
	if !strings.HasPrefix(body, "@") || len(body) == 1 {
		return ir.AdditionalProperty{}, false
	}
	body = body[1:]
	key, value, _ := strings.Cut(body, " ")
	if key == "" {
		return ir.AdditionalProperty{}, false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = token.Unescape(value[1 : len(value)-1])
	}
	return ir.AdditionalProperty{
		Key:   key,
		Value: value,
		Range: doc.Range(start, start+len(line)),
	}, true
}
