package main

import (
	"unicode/utf8"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"

	"go.lsp.dev/protocol"
)

// Editors count columns in UTF-16 code units from 0; pos counts bytes
// from 1.

func toProtocolPos(doc *pos.Doc, off int) protocol.Position {
	off = max(0, min(off, doc.Len()))
	line, _ := doc.LineCol(off)
	start := doc.LineStart(line)
	return protocol.Position{
		Line:      uint32(line - 1),
		Character: uint32(utf16Len(doc.Bytes()[start:off])),
	}
}

func toProtocolRange(doc *pos.Doc, r pos.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocolPos(doc, r.Start.Offset),
		End:   toProtocolPos(doc, r.End.Offset),
	}
}

// fromProtocolPos returns the byte offset of p, clamped to its line.
func fromProtocolPos(doc *pos.Doc, p protocol.Position) int {
	line := int(p.Line) + 1
	start := doc.LineStart(line)
	end := doc.Offset(line, doc.Len()+1)
	d := doc.Bytes()
	units := 0
	off := start
	for off < end && units < int(p.Character) {
		r, n := utf8.DecodeRune(d[off:end])
		units += utf16Units(r)
		off += n
	}
	return off
}

func utf16Len(d []byte) int {
	n := 0
	for len(d) > 0 {
		r, size := utf8.DecodeRune(d)
		n += utf16Units(r)
		d = d[size:]
	}
	return n
}

func utf16Units(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
