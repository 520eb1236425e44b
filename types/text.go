package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	errBool = errors.New("expected true or false")
	errGUID = errors.New("expected 32 hexadecimal digits")
)

// Bool parses true and false, ignoring case. A flag written as a key
// without a value is true unless the property says otherwise.
type Bool struct {
	*Scalar[bool]
}

func NewBool() *Bool {
	s := NewScalar("Bool", func(str string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "true", "1", "yes", "y":
			return true, nil
		case "false", "0", "no", "n":
			return false, nil
		}
		return false, errBool
	})
	s.from = func(v any) (bool, bool) {
		switch x := v.(type) {
		case bool:
			return x, true
		case string:
			b, err := s.conv(x)
			return b, err == nil
		}
		return false, false
	}
	return &Bool{s}
}

func (b *Bool) Parse(a *schema.ParseArgs) (any, bool) {
	v, ok := b.ParseValue(a)
	if !ok {
		return nil, false
	}
	return v, true
}

func (b *Bool) ParseValue(a *schema.ParseArgs) (bool, bool) {
	if a.Node == nil && a.Property != nil && (a.Def == nil || a.Def.IncludedDefault == nil) {
		return true, true
	}
	return b.Scalar.ParseValue(a)
}

// NewString returns the string parser. Any value is a string.
func NewString() *Scalar[string] {
	return NewScalar("String", func(s string) (string, error) {
		return s, nil
	})
}

// NewGUID returns the parser of GUIDs. "0" is the nil GUID.
func NewGUID() *Scalar[uuid.UUID] {
	return NewScalar("Guid", parseGUID)
}

func parseGUID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "0" {
		return uuid.Nil, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errGUID
	}
	return u, nil
}

// Enum accepts one of a closed set of names, ignoring case. Values are
// returned as declared.
type Enum struct {
	*Scalar[string]
	Values []string
}

func NewEnum(id string, values []string) *Enum {
	e := &Enum{Values: values}
	e.Scalar = NewScalar(id, e.lookup)
	return e
}

func (e *Enum) lookup(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, v := range e.Values {
		if strings.EqualFold(v, s) {
			return v, nil
		}
	}
	ranks := fuzzy.RankFindFold(s, e.Values)
	if len(ranks) != 0 {
		sort.Sort(ranks)
		return "", fmt.Errorf("did you mean %q?", ranks[0].Target)
	}
	return "", fmt.Errorf("expected one of %s", strings.Join(e.Values, ", "))
}

func enumFactory(id, table string) schema.Factory {
	return func(sp schema.Spec, b *schema.Builder) (schema.Type, error) {
		values, err := sp.Strings("Values")
		if err != nil {
			return nil, err
		}
		t := table
		if name := sp.String("Table"); name != "" {
			t = name
		}
		if values == nil && t != "" {
			var ok bool
			if values, ok = b.Enum(t); !ok {
				return nil, fmt.Errorf("%w: %s: enum table %q", schema.ErrBadDefinition, id, t)
			}
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: %s: no values", schema.ErrBadDefinition, id)
		}
		return NewEnum(id, values), nil
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// NewDateTime returns the parser of dates, with an optional time, in UTC
// unless an offset is given.
func NewDateTime() *Scalar[time.Time] {
	s := NewScalar("DateTime", func(str string) (time.Time, error) {
		str = strings.TrimSpace(str)
		for _, l := range dateLayouts {
			if t, err := time.Parse(l, str); err == nil {
				return t, nil
			}
		}
		return time.Time{}, errors.New("expected a date such as 2024-01-31 or 2024-01-31T12:00:00Z")
	})
	s.from = func(v any) (time.Time, bool) {
		switch x := v.(type) {
		case time.Time:
			return x, true
		case string:
			t, err := s.conv(x)
			return t, err == nil
		}
		return time.Time{}, false
	}
	return s
}

// stringCheck adds length bounds to a string parser.
func stringCheck(s *Scalar[string], sp schema.Spec) (*Scalar[string], error) {
	lo, err := sp.Int("MinimumLength", 0)
	if err != nil {
		return nil, err
	}
	hi, err := sp.Int("MaximumLength", 0)
	if err != nil {
		return nil, err
	}
	if lo == 0 && hi == 0 {
		return s, nil
	}
	s.check = func(a *schema.ParseArgs, n *ir.Node, v string) bool {
		switch l := len([]rune(v)); {
		case l < lo:
			a.Report(diag.InvalidValue, n, "%q is shorter than %d characters", v, lo)
			return false
		case hi > 0 && l > hi:
			a.Report(diag.InvalidValue, n, "%q is longer than %d characters", v, hi)
			return false
		}
		return true
	}
	return s, nil
}
