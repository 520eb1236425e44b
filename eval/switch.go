package eval

import (
	"fmt"
	"strings"
)

// Switch yields the value of the first case whose condition holds.
type Switch struct {
	Cases []Case
}

// Case is one arm of a Switch. A nil When always matches.
type Case struct {
	When  Condition
	Value Value
}

func (*Switch) Kind() Kind { return SwitchKind }

func (s *Switch) Evaluate(ctx Context) (any, bool) {
	for _, c := range s.Cases {
		if c.When != nil {
			ok, resolved := c.When.Test(ctx)
			if !resolved {
				return nil, false
			}
			if !ok {
				continue
			}
		}
		return c.Value.Evaluate(ctx)
	}
	return nil, false
}

func (s *Switch) Dependencies() []string {
	var res []string
	for _, c := range s.Cases {
		if c.When != nil {
			res = append(res, c.When.Dependencies()...)
		}
		res = append(res, c.Value.Dependencies()...)
	}
	return res
}

func (s *Switch) String() string {
	parts := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		if c.When == nil {
			parts[i] = "default: " + c.Value.String()
			continue
		}
		parts[i] = "when " + c.When.String() + ": " + c.Value.String()
	}
	return "switch { " + strings.Join(parts, "; ") + " }"
}

// Condition guards a Case.
type Condition interface {
	// Test evaluates the condition. The second result is false when a
	// reference could not be resolved.
	Test(ctx Context) (ok bool, resolved bool)
	Dependencies() []string
	String() string
}

type And []Condition

func (a And) Test(ctx Context) (bool, bool) {
	for _, c := range a {
		ok, resolved := c.Test(ctx)
		if !resolved {
			return false, false
		}
		if !ok {
			return false, true
		}
	}
	return true, true
}

func (a And) Dependencies() []string { return condDeps(a) }
func (a And) String() string         { return condString("and", a) }

type Or []Condition

func (o Or) Test(ctx Context) (bool, bool) {
	unresolved := false
	for _, c := range o {
		ok, resolved := c.Test(ctx)
		if ok && resolved {
			return true, true
		}
		unresolved = unresolved || !resolved
	}
	return false, !unresolved
}

func (o Or) Dependencies() []string { return condDeps(o) }
func (o Or) String() string         { return condString("or", o) }

type Not struct {
	C Condition
}

func (n Not) Test(ctx Context) (bool, bool) {
	ok, resolved := n.C.Test(ctx)
	return !ok, resolved
}

func (n Not) Dependencies() []string { return n.C.Dependencies() }
func (n Not) String() string         { return "not " + n.C.String() }

// Comparison compares two values.
type Comparison struct {
	Left  Value
	Op    Op
	Right Value
}

func (c Comparison) Test(ctx Context) (bool, bool) {
	l, ok := c.Left.Evaluate(ctx)
	if !ok {
		return false, false
	}
	r, ok := c.Right.Evaluate(ctx)
	if !ok {
		return false, false
	}
	return Compare(l, c.Op, r), true
}

func (c Comparison) Dependencies() []string {
	return append(c.Left.Dependencies(), c.Right.Dependencies()...)
}

func (c Comparison) String() string {
	return c.Left.String() + " " + string(c.Op) + " " + c.Right.String()
}

// Included holds when the named property has a value in the file.
type Included struct {
	Property string
}

func (i Included) Test(ctx Context) (bool, bool) {
	if ctx == nil {
		return false, false
	}
	_, ok := ctx.Property(i.Property)
	return ok, true
}

func (i Included) Dependencies() []string { return []string{i.Property} }
func (i Included) String() string         { return "included @" + i.Property }

// Truthy holds when a value is true according to Truth.
type Truthy struct {
	V Value
}

func (t Truthy) Test(ctx Context) (bool, bool) {
	v, ok := t.V.Evaluate(ctx)
	if !ok {
		return false, false
	}
	return Truth(v), true
}

func (t Truthy) Dependencies() []string { return t.V.Dependencies() }
func (t Truthy) String() string         { return t.V.String() }

func condDeps(cs []Condition) []string {
	var res []string
	for _, c := range cs {
		res = append(res, c.Dependencies()...)
	}
	return res
}

func condString(op string, cs []Condition) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}

func parseSwitch(raw any) (Value, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: switch cases must be a list, got %T", ErrBadValue, raw)
	}
	s := &Switch{}
	for i, rc := range list {
		m, ok := rc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: case %d must be an object", ErrBadValue, i)
		}
		rv, ok := lookupFold(m, "Value")
		if !ok {
			return nil, fmt.Errorf("%w: case %d has no value", ErrBadValue, i)
		}
		v, err := Parse(rv)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		c := Case{Value: v}
		if rw, ok := lookupFold(m, "When", "Case"); ok {
			if c.When, err = ParseCondition(rw); err != nil {
				return nil, fmt.Errorf("case %d: %w", i, err)
			}
		}
		s.Cases = append(s.Cases, c)
	}
	if len(s.Cases) != 0 && s.Cases[0].When == nil {
		return s.Cases[0].Value, nil
	}
	return s, nil
}

// ParseCondition builds a Condition from a decoded definition value:
//
//	{"And": [...]}, {"Or": [...]}, {"Not": cond}
//	{"Property": "Name", "Op": "eq", "Value": v}
//	{"Included": "Name"}
//	"=expr" or "@Name", true when the result is truthy
func ParseCondition(raw any) (Condition, error) {
	switch x := raw.(type) {
	case string:
		v, err := ParseString(x)
		if err != nil {
			return nil, err
		}
		return Truthy{V: v}, nil
	case bool:
		return Truthy{V: Literal{V: x}}, nil
	case map[string]any:
		if rs, ok := lookupFold(x, "And"); ok {
			cs, err := parseConditions(rs)
			return And(cs), err
		}
		if rs, ok := lookupFold(x, "Or"); ok {
			cs, err := parseConditions(rs)
			return Or(cs), err
		}
		if r, ok := lookupFold(x, "Not"); ok {
			c, err := ParseCondition(r)
			if err != nil {
				return nil, err
			}
			return Not{C: c}, nil
		}
		if r, ok := lookupFold(x, "Included"); ok {
			name, ok := r.(string)
			if !ok || !isName(strings.TrimPrefix(name, "@")) {
				return nil, fmt.Errorf("%w: included needs a property name", ErrBadCondition)
			}
			return Included{Property: strings.TrimPrefix(name, "@")}, nil
		}
		if r, ok := lookupFold(x, "Property", "Variable"); ok {
			return parseComparison(x, r)
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrBadCondition, raw)
}

func parseComparison(m map[string]any, prop any) (Condition, error) {
	name, ok := prop.(string)
	if !ok {
		return nil, fmt.Errorf("%w: property must be a string", ErrBadCondition)
	}
	left, err := ParseString(name)
	if err != nil {
		return nil, err
	}
	if l, ok := left.(Literal); ok {
		left = PropertyRef{Name: l.V.(string)}
	}
	opName := ""
	if r, ok := lookupFold(m, "Op", "Operation"); ok {
		opName, _ = r.(string)
	}
	op, err := parseOp(opName)
	if err != nil {
		return nil, err
	}
	rr, _ := lookupFold(m, "Value", "Comparand")
	right, err := Parse(rr)
	if err != nil {
		return nil, err
	}
	return Comparison{Left: left, Op: op, Right: right}, nil
}

func parseConditions(raw any) ([]Condition, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrBadCondition, raw)
	}
	res := make([]Condition, 0, len(list))
	for _, r := range list {
		c, err := ParseCondition(r)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}
