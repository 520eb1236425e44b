package pos

import "testing"

func TestLineCol(t *testing.T) {
	d := NewDoc([]byte("ab\ncd\n\nefg"))
	tests := []struct {
		off, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{6, 3, 1},
		{7, 4, 1},
		{9, 4, 3},
	}
	for _, tt := range tests {
		l, c := d.LineCol(tt.off)
		if l != tt.line || c != tt.col {
			t.Errorf("LineCol(%d) = %d:%d, want %d:%d", tt.off, l, c, tt.line, tt.col)
		}
		if got := d.Offset(tt.line, tt.col); got != tt.off {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.line, tt.col, got, tt.off)
		}
	}
	if d.Lines() != 4 {
		t.Errorf("expected 4 lines, got %d", d.Lines())
	}
}

func TestOffsetClamps(t *testing.T) {
	d := NewDoc([]byte("ab\ncd"))
	if got := d.Offset(1, 40); got != 2 {
		t.Errorf("expected clamp to line end 2, got %d", got)
	}
	if got := d.Offset(9, 1); got != 5 {
		t.Errorf("expected clamp to doc end 5, got %d", got)
	}
	if got := d.Offset(0, 0); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestRange(t *testing.T) {
	d := NewDoc([]byte("key value\nnext"))
	r := d.Range(4, 9)
	if r.Len() != 5 {
		t.Fatalf("len %d", r.Len())
	}
	if !r.Contains(4) || !r.Contains(8) || r.Contains(9) {
		t.Errorf("contains wrong for %s", r)
	}
	outer := d.Range(0, 14)
	if !outer.Encloses(r) || r.Encloses(outer) {
		t.Errorf("encloses wrong")
	}
	u := d.Range(10, 14).Union(r)
	if u.Start.Offset != 4 || u.End.Offset != 14 {
		t.Errorf("union %v", u)
	}
	empty := d.Range(3, 3)
	if !empty.Contains(3) || empty.Contains(4) {
		t.Errorf("empty range contains wrong")
	}
}
