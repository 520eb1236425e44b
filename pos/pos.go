// Package pos maps byte offsets of a DAT document to line/column positions.
//
// Lines and columns are 1-based. Columns count bytes.
package pos

import (
	"fmt"
	"sort"
	"strconv"
)

// Doc indexes the line breaks of a document.
type Doc struct {
	d []byte
	n []int
}

// NewDoc indexes d. The slice is retained, not copied.
func NewDoc(d []byte) *Doc {
	p := &Doc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

func (p *Doc) Bytes() []byte {
	return p.d
}

func (p *Doc) Len() int {
	return len(p.d)
}

// Lines returns the number of lines in the document.
func (p *Doc) Lines() int {
	return len(p.n) + 1
}

// LineCol returns the 1-based line and column of off.
func (p *Doc) LineCol(off int) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	if di == 0 {
		return 1, off + 1
	}
	return di + 1, off - p.n[di-1]
}

// LineStart returns the offset of the first byte of the 1-based line.
func (p *Doc) LineStart(line int) int {
	switch {
	case line <= 1:
		return 0
	case line-2 >= len(p.n):
		return len(p.d)
	default:
		return p.n[line-2] + 1
	}
}

// Offset converts a 1-based line and column to a byte offset, clamping to the
// line's end and to the document.
func (p *Doc) Offset(line, col int) int {
	start := p.LineStart(line)
	end := len(p.d)
	if line >= 1 && line-1 < len(p.n) {
		end = p.n[line-1]
	}
	off := start + max(col, 1) - 1
	return min(off, end)
}

func (p *Doc) Pos(off int) Position {
	l, c := p.LineCol(off)
	return Position{Offset: off, Line: l, Column: c}
}

// Range returns the range covering [first, end).
func (p *Doc) Range(first, end int) Range {
	return Range{Start: p.Pos(first), End: p.Pos(end)}
}

// Sample returns a short quoted excerpt around off for messages.
func (p *Doc) Sample(off int) string {
	s := strconv.Quote(string(p.d[max(0, off-5):min(off+5, len(p.d))]))
	return s[1 : len(s)-1]
}

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line=%d, col=%d", p.Line, p.Column)
}

func (p Position) Before(o Position) bool {
	return p.Offset < o.Offset
}

// Range is a half open span of a document. End is the position just after
// the last byte.
type Range struct {
	Start Position
	End   Position
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

func (r Range) Len() int {
	return r.End.Offset - r.Start.Offset
}

func (r Range) IsZero() bool {
	return r == Range{}
}

// Contains reports whether off falls inside r. An empty range contains its
// start offset.
func (r Range) Contains(off int) bool {
	if r.Len() == 0 {
		return off == r.Start.Offset
	}
	return off >= r.Start.Offset && off < r.End.Offset
}

// Encloses reports whether o lies entirely within r.
func (r Range) Encloses(o Range) bool {
	return o.Start.Offset >= r.Start.Offset && o.End.Offset <= r.End.Offset
}

// Union returns the smallest range covering r and o.
func (r Range) Union(o Range) Range {
	res := r
	if o.Start.Offset < res.Start.Offset {
		res.Start = o.Start
	}
	if o.End.Offset > res.End.Offset {
		res.End = o.End
	}
	return res
}
