// Package diag defines the diagnostics reported while tokenizing, building and
// validating DAT files.
//
// Malformed input is never reported through Go errors. Every problem becomes a
// Diagnostic handed to a Sink, and parsing carries on.
package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
)

type Severity int

// Values match the LSP DiagnosticSeverity numbering.
const (
	Error Severity = iota + 1
	Warning
	Information
	Hint
)

func (s Severity) String() string {
	v, ok := map[Severity]string{
		Error:       "error",
		Warning:     "warning",
		Information: "info",
		Hint:        "hint",
	}[s]
	if ok {
		return v
	}
	return "<unknown severity>"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Tag marks diagnostics an editor may render specially.
type Tag int

const (
	TagUnnecessary Tag = iota + 1
	TagDeprecated
)

type Diagnostic struct {
	Code     Code
	Message  string
	Range    pos.Range
	Severity Severity
	Tags     []Tag
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s: %s", d.Range, d.Severity, d.Code, d.Message)
}

// Sink receives diagnostics.
type Sink interface {
	Add(d Diagnostic)
}

// Discard drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Add(Diagnostic) {}

// List is a Sink collecting into a slice. It is not safe for concurrent use.
type List []Diagnostic

func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Has reports whether any diagnostic with code c was collected.
func (l List) Has(c Code) bool {
	for i := range l {
		if l[i].Code == c {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with code c.
func (l List) Count(c Code) int {
	n := 0
	for i := range l {
		if l[i].Code == c {
			n++
		}
	}
	return n
}

// Sorted returns a copy ordered by document position then code.
func (l List) Sorted() List {
	res := make(List, len(l))
	copy(res, l)
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].Range.Start.Offset, res[j].Range.Start.Offset
		if a != b {
			return a < b
		}
		return res[i].Code < res[j].Code
	})
	return res
}

func (l List) String() string {
	b := &strings.Builder{}
	for i := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l[i].String())
	}
	return b.String()
}

// Collector is a Sink safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	list List
}

func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = append(c.list, d)
}

// Snapshot returns a copy of what has been collected so far.
func (c *Collector) Snapshot() List {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make(List, len(c.list))
	copy(res, c.list)
	return res
}

// Func adapts a function to Sink.
type Func func(d Diagnostic)

func (f Func) Add(d Diagnostic) {
	f(d)
}

// Report builds a diagnostic using the code's default severity.
func Report(s Sink, c Code, r pos.Range, format string, args ...any) {
	if s == nil {
		return
	}
	msg := format
	if len(args) != 0 {
		msg = fmt.Sprintf(format, args...)
	}
	d := Diagnostic{Code: c, Message: msg, Range: r, Severity: c.Severity()}
	if t := c.tag(); t != 0 {
		d.Tags = []Tag{t}
	}
	s.Add(d)
}
