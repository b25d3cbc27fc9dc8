package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, src string, params []string, args ...float64) float64 {
	t.Helper()
	f, err := Compile(src, params...)
	require.NoError(t, err, src)
	v, err := f.Eval(args...)
	require.NoError(t, err, src)
	return v
}

func TestArithmeticAndPrecedence(t *testing.T) {
	xy := []string{"x", "y"}
	cases := []struct {
		src  string
		x, y float64
		want float64
	}{
		{"x+y", 1, 2, 3},
		{"1 + 2 * 3", 0, 0, 7},
		{"(1 + 2) * 3", 0, 0, 9},
		{"10 - 4 - 3", 0, 0, 3},
		{"12 / 3 / 2", 0, 0, 2},
		{"7 % 3", 0, 0, 1},
		{"-7 % 3", 0, 0, -1},
		{"2^3^2", 0, 0, 512},
		{"2**3", 0, 0, 8},
		{"-x^2", 3, 0, -9},
		{"2^-1", 0, 0, 0.5},
		{"--x", 4, 0, 4},
		{".5 + 2e-1", 0, 0, 0.7},
		{"1.5E2", 0, 0, 150},
		{"x*y - y*x", 1.25, 3.5, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, eval(t, c.src, xy, c.x, c.y), 1e-12, c.src)
	}
}

func TestLogicAndTernary(t *testing.T) {
	x := []string{"x"}
	assert.Equal(t, 1.0, eval(t, "x > 0", x, 2))
	assert.Equal(t, 0.0, eval(t, "x >= 3", x, 2))
	assert.Equal(t, 1.0, eval(t, "x == 2 && x != 3", x, 2))
	assert.Equal(t, 5.0, eval(t, "0 || 5", x, 0))
	assert.Equal(t, 0.0, eval(t, "0 && 5", x, 0))
	assert.Equal(t, 1.0, eval(t, "!x", x, 0))
	assert.Equal(t, -1.0, eval(t, "x < 0 ? 1 : x > 0 ? -1 : 0", x, 3))
	assert.Equal(t, 10.0, eval(t, "x < 1 ? 10 : 20", x, 0))
}

func TestConstantsAndBuiltins(t *testing.T) {
	none := []string(nil)
	assert.InDelta(t, math.Pi, eval(t, "pi", none), 1e-15)
	assert.InDelta(t, math.Pi, eval(t, "Math.PI", none), 1e-15)
	assert.InDelta(t, 2*math.Pi, eval(t, "tau", none), 1e-15)
	assert.InDelta(t, math.E, eval(t, "E", none), 1e-15)
	assert.InDelta(t, 1.0, eval(t, "Math.sin(pi/2)", none), 1e-15)
	assert.InDelta(t, 5.0, eval(t, "hypot(3, 4)", none), 1e-15)
	assert.Equal(t, 1.0, eval(t, "min(4, 1, 9)", none))
	assert.Equal(t, 9.0, eval(t, "max(4, 1, 9)", none))
	assert.Equal(t, -2.0, eval(t, "round(-2.5)", none))
	assert.Equal(t, 3.0, eval(t, "round(2.5)", none))
	assert.Equal(t, -1.0, eval(t, "sign(-0.3)", none))
	assert.Equal(t, 2.0, eval(t, "clamp(5, 0, 2)", none))
	assert.Equal(t, 0.5, eval(t, "smoothstep(0, 1, 0.5)", none))
	assert.Equal(t, 2.5, eval(t, "lerp(0, 10, 0.25)", none))
	assert.Equal(t, 1.0, eval(t, "step(0, 0)", none))
	assert.InDelta(t, 2.0, eval(t, "log2(4)", none), 1e-15)
	assert.InDelta(t, 1.0, eval(t, "ln(e)", none), 1e-15)
}

func TestParameterOrder(t *testing.T) {
	f, err := Compile("u - 2*v", "v", "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"v", "u"}, f.Params())
	assert.Equal(t, "u - 2*v", f.Source())

	v, err := f.Eval(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]int{
		"":             0,
		"x +":          3,
		"(x":           2,
		"x y":          2,
		"sin(x":        5,
		"foo(x)":       0,
		"z * 2":        0,
		"sin":          0,
		"atan2(1)":     0,
		"x ? 1":        5,
		"x $ 2":        2,
		"x(1)":         0,
		"2e":           1,
		"min()":        0,
		"Math.nope(1)": 0,
	}
	for src, pos := range cases {
		_, err := Compile(src, "x", "y")
		require.Error(t, err, src)
		assert.ErrorIs(t, err, ErrCompile, src)

		var ce *CompileError
		require.True(t, errors.As(err, &ce), src)
		assert.Equal(t, src, ce.Source)
		assert.Equal(t, pos, ce.Pos, src)
	}
}

func TestDuplicateParameter(t *testing.T) {
	_, err := Compile("x", "x", "x")
	assert.ErrorIs(t, err, ErrCompile)
}

func TestEvaluationErrors(t *testing.T) {
	f := MustCompile("1/x", "x")

	_, err := f.Eval(0)
	require.ErrorIs(t, err, ErrEvaluation)
	var ee *EvaluationError
	require.True(t, errors.As(err, &ee))
	assert.True(t, math.IsInf(ee.Value, 1))
	assert.Equal(t, []float64{0}, ee.Args)

	_, err = MustCompile("sqrt(x)", "x").Eval(-1)
	assert.ErrorIs(t, err, ErrEvaluation)

	_, err = f.Eval(1, 2)
	assert.ErrorIs(t, err, ErrEvaluation)
	assert.NotErrorIs(t, err, ErrCompile)
}

func TestConstant(t *testing.T) {
	v, err := Constant("2*pi")
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Pi, v, 1e-15)

	_, err = Constant("2*x")
	assert.ErrorIs(t, err, ErrCompile)

	_, err = Constant("1/0")
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestZero(t *testing.T) {
	v, err := Zero.Eval(3, -4, 12)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestFoldedSubtreesStillSeeParameters(t *testing.T) {
	f := MustCompile("x * (2 + 3) + sin(0)", "x")
	for _, x := range []float64{-1, 0, 2} {
		v, err := f.Eval(x)
		require.NoError(t, err)
		assert.Equal(t, 5*x, v)
	}
}

func BenchmarkEval(b *testing.B) {
	f := MustCompile("sin(x)*cos(y) + 0.3*sin(3*x+t)", "x", "y", "t")
	for i := 0; i < b.N; i++ {
		_, _ = f.Eval(0.5, 1.5, float64(i))
	}
}
