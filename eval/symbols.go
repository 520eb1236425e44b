package eval

import "fmt"

type name string

func (s name) String() string {
	return string(s)
}

type funcSymbol struct {
	name
	fn    func(params ...any) (any, error)
	types []any
}

func (s *funcSymbol) Func() func(params ...any) (any, error) { return s.fn }
func (s *funcSymbol) Types() []any                           { return s.types }

var clampSym = &funcSymbol{
	name: "clamp",
	fn: func(params ...any) (any, error) {
		x, lo, hi, err := floats3(params)
		if err != nil {
			return nil, err
		}
		return min(max(x, lo), hi), nil
	},
}

// Clamp is clamp(x, lo, hi).
func Clamp() Symbol {
	return clampSym
}

var lerpSym = &funcSymbol{
	name: "lerp",
	fn: func(params ...any) (any, error) {
		a, b, t, err := floats3(params)
		if err != nil {
			return nil, err
		}
		return a + (b-a)*t, nil
	},
}

// Lerp is lerp(a, b, t).
func Lerp() Symbol {
	return lerpSym
}

var coalesceSym = &funcSymbol{
	name: "coalesce",
	fn: func(params ...any) (any, error) {
		for _, p := range params {
			if p != nil {
				return p, nil
			}
		}
		return nil, nil
	},
}

// Coalesce returns its first non-nil argument.
func Coalesce() Symbol {
	return coalesceSym
}

func floats3(params []any) (float64, float64, float64, error) {
	if len(params) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 arguments, got %d", len(params))
	}
	var res [3]float64
	for i, p := range params {
		f, ok := ToFloat(p)
		if !ok {
			return 0, 0, 0, fmt.Errorf("argument %d: expected a number, got %T", i+1, p)
		}
		res[i] = f
	}
	return res[0], res[1], res[2], nil
}
