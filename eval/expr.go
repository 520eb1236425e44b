package eval

import (
	"fmt"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/debug"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

const (
	propFunc = "prop"
	dataFunc = "data"
)

// Expr is a compiled "=expr" value that reads references at evaluation time.
type Expr struct {
	Source string

	code string
	prog *vm.Program
	deps []string
	data []string
}

func (*Expr) Kind() Kind { return ExprKind }

func (e *Expr) Evaluate(ctx Context) (any, bool) {
	missing := false
	res, err := expr.Run(e.prog, env(ctx, &missing))
	if debug.Eval() {
		debug.Logf("eval %q -> %v (missing=%v err=%v)\n", e.Source, res, missing, err)
	}
	if err != nil || missing {
		return nil, false
	}
	return res, true
}

func (e *Expr) Dependencies() []string {
	return e.deps
}

// DataDependencies lists the data references of the expression.
func (e *Expr) DataDependencies() []string {
	return e.data
}

func (e *Expr) String() string {
	return "=" + e.Source
}

// ParseExpr compiles src, an expression without its leading '='. Inside it
// "@Name" reads a property and "#Name" a data value. An expression with no
// references is evaluated immediately and returned as a Literal.
func ParseExpr(src string) (Value, error) {
	code := rewriteRefs(src)
	tree, err := parser.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrExpr, src, err)
	}
	c := &refCollector{}
	ast.Walk(&tree.Node, c)
	prog, err := expr.Compile(code, compileOpts()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrExpr, src, err)
	}
	e := &Expr{Source: src, code: code, prog: prog, deps: c.props, data: c.data}
	if len(c.props) != 0 || len(c.data) != 0 || c.dynamic {
		return e, nil
	}
	v, err := expr.Run(prog, env(nil, nil))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrExpr, src, err)
	}
	if debug.Eval() {
		debug.Logf("folded %q to %v\n", src, v)
	}
	return Literal{V: v}, nil
}

func compileOpts() []expr.Option {
	opts := []expr.Option{
		expr.Env(map[string]any{
			propFunc: (func(string) any)(nil),
			dataFunc: (func(string) any)(nil),
		}),
	}
	for _, s := range Symbols() {
		opts = append(opts, expr.Function(s.String(), s.Func(), s.Types()...))
	}
	return opts
}

func env(ctx Context, missing *bool) map[string]any {
	lookup := func(get func(Context, string) (any, bool)) func(string) any {
		return func(name string) any {
			var v any
			ok := false
			if ctx != nil {
				v, ok = get(ctx, name)
			}
			if !ok && missing != nil {
				*missing = true
			}
			return v
		}
	}
	return map[string]any{
		propFunc: lookup(Context.Property),
		dataFunc: lookup(Context.Data),
	}
}

// rewriteRefs turns @Name into prop("Name") and #Name into data("Name")
// outside of string literals. expr-lang's own #index and #acc are kept.
func rewriteRefs(src string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			b.WriteByte(c)
			switch c {
			case '\\':
				if i+1 < len(src) {
					i++
					b.WriteByte(src[i])
				}
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '@', '#':
			j := i + 1
			for j < len(src) && isNameByte(src[j], j == i+1) {
				j++
			}
			name := src[i+1 : j]
			if name == "" || (c == '#' && (name == "index" || name == "acc")) {
				break
			}
			fn := propFunc
			if c == '#' {
				fn = dataFunc
			}
			fmt.Fprintf(&b, "%s(%q)", fn, name)
			i = j - 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

type refCollector struct {
	props   []string
	data    []string
	dynamic bool
}

func (r *refCollector) Visit(node *ast.Node) {
	call, ok := (*node).(*ast.CallNode)
	if !ok {
		return
	}
	id, ok := call.Callee.(*ast.IdentifierNode)
	if !ok || (id.Value != propFunc && id.Value != dataFunc) {
		return
	}
	if len(call.Arguments) != 1 {
		r.dynamic = true
		return
	}
	name, ok := call.Arguments[0].(*ast.StringNode)
	if !ok {
		r.dynamic = true
		return
	}
	if id.Value == propFunc {
		r.props = append(r.props, name.Value)
		return
	}
	r.data = append(r.data, name.Value)
}
