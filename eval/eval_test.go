package eval

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mapContext struct {
	props map[string]any
	data  map[string]any
}

func (m mapContext) Property(name string) (any, bool) {
	v, ok := m.props[name]
	return v, ok
}

func (m mapContext) Data(name string) (any, bool) {
	v, ok := m.data[name]
	return v, ok
}

var ctx = mapContext{
	props: map[string]any{"Amount": 3.0, "Type": "Gun", "Name": "Maplestrike"},
	data:  map[string]any{"MaxAmount": 10.0},
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		in   any
		kind Kind
		str  string
	}{
		{in: "plain", kind: LiteralKind, str: "plain"},
		{in: 5.0, kind: LiteralKind, str: "5"},
		{in: "@Amount", kind: PropertyRefKind, str: "@Amount"},
		{in: "(Amount)", kind: PropertyRefKind, str: "@Amount"},
		{in: "#MaxAmount", kind: DataRefKind, str: "#MaxAmount"},
		{in: `\@Amount`, kind: LiteralKind, str: "@Amount"},
		{in: "(not a ref)", kind: LiteralKind, str: "(not a ref)"},
		{in: "=@Amount * 2", kind: ExprKind, str: "=@Amount * 2"},
		{in: "=2 * 21", kind: LiteralKind, str: "42"},
	}
	for _, test := range tests {
		v, err := Parse(test.in)
		if err != nil {
			t.Errorf("%v: %v", test.in, err)
			continue
		}
		if v.Kind() != test.kind || v.String() != test.str {
			t.Errorf("%v: got %s %q want %s %q", test.in, v.Kind(), v.String(), test.kind, test.str)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		in  any
		out any
		ok  bool
	}{
		{in: "@Amount", out: 3.0, ok: true},
		{in: "@Missing", ok: false},
		{in: "#MaxAmount", out: 10.0, ok: true},
		{in: "=@Amount * 2", out: 6.0, ok: true},
		{in: "=#MaxAmount - @Amount", out: 7.0, ok: true},
		{in: "=clamp(@Amount * 5, 0, #MaxAmount)", out: 10.0, ok: true},
		{in: `=@Name + "!"`, out: "Maplestrike!", ok: true},
		{in: "=@Missing + 1", ok: false},
		{in: `="@Amount"`, out: "@Amount", ok: true},
	}
	for _, test := range tests {
		v, err := Parse(test.in)
		if err != nil {
			t.Errorf("%v: %v", test.in, err)
			continue
		}
		out, ok := v.Evaluate(ctx)
		if ok != test.ok {
			t.Errorf("%v: ok=%v want %v", test.in, ok, test.ok)
			continue
		}
		if ok && !equal(out, test.out) {
			t.Errorf("%v: got %v (%T) want %v", test.in, out, out, test.out)
		}
	}
}

func TestExprErrors(t *testing.T) {
	for _, in := range []string{"=1 +", "=unknownVar", "=1 / "} {
		if _, err := Parse(in); !errors.Is(err, ErrExpr) {
			t.Errorf("%q: expected ErrExpr, got %v", in, err)
		}
	}
}

func TestDependencies(t *testing.T) {
	v, err := Parse("=@A + @B.C * #D")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"A", "B.C"}, v.Dependencies()); diff != "" {
		t.Errorf("dependencies (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"D"}, v.(*Expr).DataDependencies()); diff != "" {
		t.Errorf("data dependencies (-want +got):\n%s", diff)
	}
}

func TestSwitch(t *testing.T) {
	raw := map[string]any{
		"Cases": []any{
			map[string]any{
				"When": map[string]any{
					"And": []any{
						map[string]any{"Property": "Type", "Op": "eq", "Value": "gun"},
						map[string]any{"Property": "Amount", "Op": ">", "Value": 2.0},
					},
				},
				"Value": "=@Amount + 100",
			},
			map[string]any{
				"When":  map[string]any{"Or": []any{map[string]any{"Included": "Nope"}, "=@Amount == 1"}},
				"Value": "one",
			},
			map[string]any{"Value": "#MaxAmount"},
		},
	}
	v, err := Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != SwitchKind {
		t.Fatalf("expected switch, got %s", v.Kind())
	}
	out, ok := v.Evaluate(ctx)
	if !ok || !equal(out, 103) {
		t.Errorf("got %v %v", out, ok)
	}
	other := mapContext{props: map[string]any{"Type": "Melee", "Amount": 1.0}, data: ctx.data}
	if out, ok := v.Evaluate(other); !ok || out != "one" {
		t.Errorf("got %v %v", out, ok)
	}
	third := mapContext{props: map[string]any{"Type": "Melee", "Amount": 4.0}, data: ctx.data}
	if out, ok := v.Evaluate(third); !ok || out != 10.0 {
		t.Errorf("got %v %v", out, ok)
	}
	if diff := cmp.Diff([]string{"Type", "Amount", "Amount", "Nope", "Amount"}, v.Dependencies()); diff != "" {
		t.Errorf("dependencies (-want +got):\n%s", diff)
	}
}

func TestSwitchDefaultFolds(t *testing.T) {
	v, err := Parse(map[string]any{"Switch": []any{map[string]any{"Value": 4.0}}})
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != LiteralKind {
		t.Errorf("expected literal, got %s", v.Kind())
	}
}

func TestBadConditions(t *testing.T) {
	for _, raw := range []any{
		map[string]any{"Cases": "x"},
		map[string]any{"Cases": []any{map[string]any{"When": 5.0, "Value": 1.0}}},
		map[string]any{"Cases": []any{map[string]any{"When": map[string]any{"Property": "A", "Op": "~"}, "Value": 1.0}}},
		map[string]any{"Cases": []any{map[string]any{"When": true}}},
	} {
		if _, err := Parse(raw); !errors.Is(err, ErrBadValue) {
			t.Errorf("%v: expected ErrBadValue, got %v", raw, err)
		}
	}
}

func TestRecorder(t *testing.T) {
	v, _ := Parse("=@Amount + @Amount")
	r := &Recorder{Context: ctx}
	if _, ok := v.Evaluate(r); !ok {
		t.Fatal("evaluation failed")
	}
	if diff := cmp.Diff([]string{"Amount", "Amount"}, r.Refs); diff != "" {
		t.Errorf("refs (-want +got):\n%s", diff)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b any
		op   Op
		want bool
	}{
		{a: 1, b: 1.0, op: OpEq, want: true},
		{a: "ABC", b: "abc", op: OpEq, want: true},
		{a: "5", b: 5, op: OpEq, want: true},
		{a: 2, b: 3, op: OpLt, want: true},
		{a: "b", b: "A", op: OpGt, want: true},
		{a: []any{"x", "y"}, b: "Y", op: OpContains, want: true},
		{a: nil, b: "x", op: OpNeq, want: true},
		{a: true, b: 1, op: OpLt, want: false},
	}
	for _, test := range tests {
		if got := Compare(test.a, test.op, test.b); got != test.want {
			t.Errorf("%v %s %v: got %v", test.a, test.op, test.b, got)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	if err := Register(Clamp()); !errors.Is(err, ErrSymbolExists) {
		t.Errorf("expected ErrSymbolExists, got %v", err)
	}
	if Lookup("lerp") == nil {
		t.Error("lerp not registered")
	}
}
