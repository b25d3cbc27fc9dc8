// Package expr compiles formula text such as "sin(x)*cos(y+t)" into numeric
// functions of an ordered list of named parameters.
//
// The grammar only knows numbers, the declared parameters, a fixed set of
// constants and math builtins; there is nothing else a formula can reach.
package expr

import (
	"fmt"
	"math"
)

type evalFn func(env []float64) float64

// Func is a compiled formula. It is immutable and safe to share.
type Func struct {
	source string
	params []string
	eval   evalFn
}

// Compile parses source and binds every identifier to one of params, a
// constant or a builtin. Anything else is a *CompileError.
func Compile(source string, params ...string) (*Func, error) {
	c := &compiler{src: source, params: make(map[string]int, len(params))}
	for i, name := range params {
		if _, dup := c.params[name]; dup {
			return nil, &CompileError{Source: source, Msg: fmt.Sprintf("duplicate parameter %q", name)}
		}
		c.params[name] = i
	}

	tree, err := parse(source)
	if err != nil {
		return nil, err
	}
	fn, _, err := c.lower(tree)
	if err != nil {
		return nil, err
	}
	return &Func{
		source: source,
		params: append([]string(nil), params...),
		eval:   fn,
	}, nil
}

// MustCompile is like Compile but panics on error. Intended for literals.
func MustCompile(source string, params ...string) *Func {
	f, err := Compile(source, params...)
	if err != nil {
		panic(err)
	}
	return f
}

// Constant evaluates a formula without parameters, for example "2*pi".
func Constant(source string) (float64, error) {
	f, err := Compile(source)
	if err != nil {
		return 0, err
	}
	return f.Eval()
}

// Zero is the constant zero function of (x, y, t).
var Zero = MustCompile("0", "x", "y", "t")

// Eval calls the function. The argument count must match the declared
// parameters, and a NaN or infinite result is an *EvaluationError.
func (f *Func) Eval(args ...float64) (float64, error) {
	if len(args) != len(f.params) {
		return 0, &EvaluationError{
			Source: f.source,
			Args:   args,
			Msg:    fmt.Sprintf("expected %d arguments, got %d", len(f.params), len(args)),
		}
	}
	v := f.eval(args)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvaluationError{
			Source: f.source,
			Args:   append([]float64(nil), args...),
			Value:  v,
		}
	}
	return v, nil
}

func (f *Func) Source() string {
	return f.source
}

func (f *Func) Params() []string {
	return append([]string(nil), f.params...)
}

func (f *Func) String() string {
	return f.source
}

type compiler struct {
	src    string
	params map[string]int
}

func (c *compiler) errorf(n node, format string, args ...any) error {
	return &CompileError{Source: c.src, Pos: n.position(), Msg: fmt.Sprintf(format, args...)}
}

// lower turns a syntax tree into nested closures. Subtrees that do not
// depend on a parameter are evaluated once and replaced by their value.
func (c *compiler) lower(n node) (evalFn, bool, error) {
	switch n := n.(type) {
	case *numberNode:
		return constFn(n.value), true, nil

	case *identNode:
		if i, ok := c.params[n.name]; ok {
			return func(env []float64) float64 { return env[i] }, false, nil
		}
		if v, ok := constants[n.name]; ok {
			return constFn(v), true, nil
		}
		if _, ok := builtins[n.name]; ok {
			return nil, false, c.errorf(n, "function %q used without arguments", n.name)
		}
		return nil, false, c.errorf(n, "unknown identifier %q", n.name)

	case *unaryNode:
		x, isConst, err := c.lower(n.x)
		if err != nil {
			return nil, false, err
		}
		return fold(unaryFn(n.op, x), isConst)

	case *binaryNode:
		x, xConst, err := c.lower(n.x)
		if err != nil {
			return nil, false, err
		}
		y, yConst, err := c.lower(n.y)
		if err != nil {
			return nil, false, err
		}
		return fold(binaryFn(n.op, x, y), xConst && yConst)

	case *condNode:
		cond, cConst, err := c.lower(n.cond)
		if err != nil {
			return nil, false, err
		}
		then, tConst, err := c.lower(n.then)
		if err != nil {
			return nil, false, err
		}
		els, eConst, err := c.lower(n.els)
		if err != nil {
			return nil, false, err
		}
		fn := func(env []float64) float64 {
			if truthy(cond(env)) {
				return then(env)
			}
			return els(env)
		}
		return fold(fn, cConst && tConst && eConst)

	case *callNode:
		return c.lowerCall(n)
	}
	return nil, false, c.errorf(n, "unsupported expression")
}

func (c *compiler) lowerCall(n *callNode) (evalFn, bool, error) {
	if _, ok := c.params[n.name]; ok {
		return nil, false, c.errorf(n, "%q is not a function", n.name)
	}
	b, ok := builtins[n.name]
	if !ok {
		return nil, false, c.errorf(n, "unknown function %q", n.name)
	}
	want := b.arity()
	if want < 0 && len(n.args) == 0 {
		return nil, false, c.errorf(n, "%s expects at least 1 argument", n.name)
	}
	if want >= 0 && len(n.args) != want {
		return nil, false, c.errorf(n, "%s expects %d arguments, got %d", n.name, want, len(n.args))
	}

	args := make([]evalFn, len(n.args))
	allConst := true
	for i, a := range n.args {
		fn, isConst, err := c.lower(a)
		if err != nil {
			return nil, false, err
		}
		args[i] = fn
		allConst = allConst && isConst
	}

	var fn evalFn
	switch {
	case b.fn1 != nil:
		f, a := b.fn1, args[0]
		fn = func(env []float64) float64 { return f(a(env)) }
	case b.fn2 != nil:
		f, a0, a1 := b.fn2, args[0], args[1]
		fn = func(env []float64) float64 { return f(a0(env), a1(env)) }
	case b.fn3 != nil:
		f, a0, a1, a2 := b.fn3, args[0], args[1], args[2]
		fn = func(env []float64) float64 { return f(a0(env), a1(env), a2(env)) }
	default:
		f := b.fnN
		fn = func(env []float64) float64 {
			vals := make([]float64, len(args))
			for i, a := range args {
				vals[i] = a(env)
			}
			return f(vals)
		}
	}
	return fold(fn, allConst)
}

func fold(fn evalFn, isConst bool) (evalFn, bool, error) {
	if !isConst {
		return fn, false, nil
	}
	return constFn(fn(nil)), true, nil
}

func constFn(v float64) evalFn {
	return func([]float64) float64 { return v }
}

func unaryFn(op string, x evalFn) evalFn {
	switch op {
	case "-":
		return func(env []float64) float64 { return -x(env) }
	case "!":
		return func(env []float64) float64 { return boolVal(!truthy(x(env))) }
	}
	return x
}

func binaryFn(op string, x, y evalFn) evalFn {
	switch op {
	case "+":
		return func(env []float64) float64 { return x(env) + y(env) }
	case "-":
		return func(env []float64) float64 { return x(env) - y(env) }
	case "*":
		return func(env []float64) float64 { return x(env) * y(env) }
	case "/":
		return func(env []float64) float64 { return x(env) / y(env) }
	case "%":
		return func(env []float64) float64 { return math.Mod(x(env), y(env)) }
	case "^":
		return func(env []float64) float64 { return math.Pow(x(env), y(env)) }
	case "<":
		return func(env []float64) float64 { return boolVal(x(env) < y(env)) }
	case "<=":
		return func(env []float64) float64 { return boolVal(x(env) <= y(env)) }
	case ">":
		return func(env []float64) float64 { return boolVal(x(env) > y(env)) }
	case ">=":
		return func(env []float64) float64 { return boolVal(x(env) >= y(env)) }
	case "==":
		return func(env []float64) float64 { return boolVal(x(env) == y(env)) }
	case "!=":
		return func(env []float64) float64 { return boolVal(x(env) != y(env)) }
	case "&&":
		return func(env []float64) float64 {
			if v := x(env); !truthy(v) {
				return v
			}
			return y(env)
		}
	case "||":
		return func(env []float64) float64 {
			if v := x(env); truthy(v) {
				return v
			}
			return y(env)
		}
	}
	panic("expr: unknown operator " + op)
}

func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
