package expr

import "math"

// builtin is a named math function. Exactly one of the fn fields is set;
// variadic functions take at least one argument.
type builtin struct {
	fn1 func(float64) float64
	fn2 func(float64, float64) float64
	fn3 func(float64, float64, float64) float64
	fnN func([]float64) float64
}

func (b builtin) arity() int {
	switch {
	case b.fn1 != nil:
		return 1
	case b.fn2 != nil:
		return 2
	case b.fn3 != nil:
		return 3
	}
	return -1
}

var constants = map[string]float64{
	"pi":    math.Pi,
	"PI":    math.Pi,
	"e":     math.E,
	"E":     math.E,
	"tau":   2 * math.Pi,
	"phi":   math.Phi,
	"LN2":   math.Ln2,
	"LN10":  math.Ln10,
	"SQRT2": math.Sqrt2,
}

var builtins = map[string]builtin{
	"sin":   {fn1: math.Sin},
	"cos":   {fn1: math.Cos},
	"tan":   {fn1: math.Tan},
	"asin":  {fn1: math.Asin},
	"acos":  {fn1: math.Acos},
	"atan":  {fn1: math.Atan},
	"atan2": {fn2: math.Atan2},
	"sinh":  {fn1: math.Sinh},
	"cosh":  {fn1: math.Cosh},
	"tanh":  {fn1: math.Tanh},
	"asinh": {fn1: math.Asinh},
	"acosh": {fn1: math.Acosh},
	"atanh": {fn1: math.Atanh},
	"exp":   {fn1: math.Exp},
	"expm1": {fn1: math.Expm1},
	"log":   {fn1: math.Log},
	"ln":    {fn1: math.Log},
	"log2":  {fn1: math.Log2},
	"log10": {fn1: math.Log10},
	"log1p": {fn1: math.Log1p},
	"sqrt":  {fn1: math.Sqrt},
	"cbrt":  {fn1: math.Cbrt},
	"abs":   {fn1: math.Abs},
	"floor": {fn1: math.Floor},
	"ceil":  {fn1: math.Ceil},
	"round": {fn1: roundHalfUp},
	"trunc": {fn1: math.Trunc},
	"sign":  {fn1: sign},
	"min":   {fnN: minOf},
	"max":   {fnN: maxOf},
	"pow":   {fn2: math.Pow},
	"hypot": {fn2: math.Hypot},
	"mod":   {fn2: math.Mod},
	"step":  {fn2: step},
	"clamp": {fn3: clamp},
	"lerp":  {fn3: lerp},

	"smoothstep": {fn3: smoothstep},
}

// roundHalfUp rounds .5 toward positive infinity, so round(-2.5) is -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if math.IsNaN(x) {
			return x
		}
		m = math.Min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if math.IsNaN(x) {
			return x
		}
		m = math.Max(m, x)
	}
	return m
}

func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func smoothstep(e0, e1, x float64) float64 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}
