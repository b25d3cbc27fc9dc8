package sampler

import (
	"errors"
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surface-engine/expr"
	"surface-engine/math"
)

func grid(t *testing.T, src string) *expr.Func {
	t.Helper()
	f, err := expr.Compile(src, "x", "y", "t")
	require.NoError(t, err)
	return f
}

func uv(t *testing.T, src string) *expr.Func {
	t.Helper()
	f, err := expr.Compile(src, "u", "v")
	require.NoError(t, err)
	return f
}

func TestSampleGridCorners(t *testing.T) {
	s, err := SampleGrid(grid(t, "x+y"), nil, GridParams{Segments: 4, HalfWidth: 1})
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, 16, s.Len())
	assert.Equal(t, math.NewVec3(-1, -2, -1), s.Points[s.Index(0, 0)])
	assert.Equal(t, math.NewVec3(1, 2, 1), s.Points[s.Index(3, 3)])
	assert.Equal(t, -2.0, s.ZMin)
	assert.Equal(t, 2.0, s.ZMax)
}

func TestSampleGridAxisSwap(t *testing.T) {
	s, err := SampleGrid(grid(t, "y"), nil, GridParams{Segments: 3, HalfWidth: 2})
	require.NoError(t, err)

	// j varies the function's y input, which lands on the depth axis.
	p := s.Points[s.Index(0, 2)]
	assert.Equal(t, float32(-2), p.X)
	assert.Equal(t, float32(2), p.Y)
	assert.Equal(t, float32(2), p.Z)
	assert.Equal(t, 2.0, s.Scalars[s.Index(0, 2)])
}

func TestSampleGridOffsetAndTime(t *testing.T) {
	s, err := SampleGrid(grid(t, "x + 10*y + 100*t"), nil, GridParams{
		Segments: 2, HalfWidth: 1, OffsetX: 0.5, OffsetY: -0.25, Time: 2,
	})
	require.NoError(t, err)

	want := (-1 + 0.5) + 10*(-1-0.25) + 200
	assert.InDelta(t, want, s.Scalars[0], 1e-9)
	// The drawn x and depth stay on the unshifted grid.
	assert.Equal(t, float32(-1), s.Points[0].X)
	assert.Equal(t, float32(-1), s.Points[0].Z)
}

func TestSampleGridMorph(t *testing.T) {
	f1 := grid(t, "sin(x)*y")
	f2 := grid(t, "x*x - y")
	p := GridParams{Segments: 5, HalfWidth: 3}

	only1, err := SampleGrid(f1, nil, p)
	require.NoError(t, err)
	only2, err := SampleGrid(f2, nil, p)
	require.NoError(t, err)

	p.Morph = 0
	at0, err := SampleGrid(f1, f2, p)
	require.NoError(t, err)
	assert.Equal(t, only1.Scalars, at0.Scalars)

	p.Morph = 1
	at1, err := SampleGrid(f1, f2, p)
	require.NoError(t, err)
	assert.Equal(t, only2.Scalars, at1.Scalars)

	for _, m := range []float64{0, 0.3, 0.5, 1} {
		p.Morph = m
		same, err := SampleGrid(f1, f1, p)
		require.NoError(t, err)
		for k := range same.Scalars {
			assert.InDelta(t, only1.Scalars[k], same.Scalars[k], 1e-12)
		}
	}
}

func TestSampleGridNilSecondIsZero(t *testing.T) {
	s, err := SampleGrid(grid(t, "4"), nil, GridParams{Segments: 2, HalfWidth: 1, Morph: 0.25})
	require.NoError(t, err)
	for _, z := range s.Scalars {
		assert.Equal(t, 3.0, z)
	}
}

func TestSampleGridRejectsDegenerateInput(t *testing.T) {
	f := grid(t, "x")
	for _, p := range []GridParams{
		{Segments: 1, HalfWidth: 1},
		{Segments: 0, HalfWidth: 1},
		{Segments: 4, HalfWidth: 0},
		{Segments: 4, HalfWidth: -2},
		{Segments: 4, HalfWidth: stdmath.Inf(1)},
		{Segments: 4, HalfWidth: stdmath.NaN()},
	} {
		s, err := SampleGrid(f, nil, p)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrDegenerateRange, "%+v", p)
		var de *DegenerateRangeError
		assert.True(t, errors.As(err, &de))
	}

	_, err := SampleGrid(nil, f, GridParams{Segments: 4, HalfWidth: 1})
	assert.ErrorIs(t, err, ErrMissingFunction)
}

func TestSampleGridFailsFast(t *testing.T) {
	s, err := SampleGrid(grid(t, "1/x"), nil, GridParams{Segments: 3, HalfWidth: 1})
	assert.Nil(t, s)
	require.ErrorIs(t, err, expr.ErrEvaluation)

	var ee *expr.EvaluationError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, []float64{0, -1, 0}, ee.Args)

	_, err = SampleGrid(grid(t, "x"), grid(t, "log(x)"), GridParams{Segments: 3, HalfWidth: 1})
	assert.ErrorIs(t, err, expr.ErrEvaluation)
}

func TestSampleGridRejectsFloat32Overflow(t *testing.T) {
	_, err := SampleGrid(grid(t, "1e300"), nil, GridParams{Segments: 2, HalfWidth: 1})
	assert.ErrorIs(t, err, expr.ErrEvaluation)
}

func TestSampleParametric(t *testing.T) {
	s, err := SampleParametric(uv(t, "u"), uv(t, "v"), uv(t, "u*v"), ParametricParams{
		U:         Range{Min: 0, Max: 2},
		V:         Range{Min: -1, Max: 1},
		SegmentsU: 3,
		SegmentsV: 5,
	})
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, 15, s.Len())
	assert.Equal(t, 3, s.SegmentsU)
	assert.Equal(t, 5, s.SegmentsV)

	// i=2 is u=2, j=4 is v=1: point (fx, fz, fy) = (2, 2, 1).
	assert.Equal(t, math.NewVec3(2, 2, 1), s.Points[s.Index(2, 4)])
	assert.Equal(t, 2.0, s.Scalars[s.Index(2, 4)])
	assert.Equal(t, -2.0, s.ZMin)
	assert.Equal(t, 2.0, s.ZMax)
}

func TestSampleParametricRejectsDegenerateInput(t *testing.T) {
	f := uv(t, "u")
	cases := []ParametricParams{
		{U: Range{0, 0}, V: Range{0, 1}, SegmentsU: 4, SegmentsV: 4},
		{U: Range{0, 1}, V: Range{2, 2}, SegmentsU: 4, SegmentsV: 4},
		{U: Range{0, 1}, V: Range{0, 1}, SegmentsU: 1, SegmentsV: 4},
		{U: Range{0, 1}, V: Range{0, 1}, SegmentsU: 4, SegmentsV: 1},
		{U: Range{0, stdmath.Inf(1)}, V: Range{0, 1}, SegmentsU: 4, SegmentsV: 4},
	}
	for _, p := range cases {
		_, err := SampleParametric(f, f, f, p)
		assert.ErrorIs(t, err, ErrDegenerateRange, "%+v", p)
	}

	_, err := SampleParametric(f, nil, f, cases[0])
	assert.ErrorIs(t, err, ErrMissingFunction)
}

func TestSampleParametricReversedRange(t *testing.T) {
	s, err := SampleParametric(uv(t, "u"), uv(t, "v"), uv(t, "0"), ParametricParams{
		U: Range{Min: 1, Max: -1}, V: Range{Min: 0, Max: 1}, SegmentsU: 2, SegmentsV: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, float32(1), s.Points[0].X)
	assert.Equal(t, float32(-1), s.Points[s.Index(1, 0)].X)
}

func TestNormalize(t *testing.T) {
	s := &Samples{ZMin: -2, ZMax: 2}
	assert.Equal(t, 0.0, s.Normalize(-2))
	assert.Equal(t, 0.5, s.Normalize(0))
	assert.Equal(t, 1.0, s.Normalize(2))

	flat := &Samples{ZMin: 3, ZMax: 3}
	assert.Equal(t, 0.0, flat.Normalize(3))
}

func TestValidate(t *testing.T) {
	s := &Samples{SegmentsU: 2, SegmentsV: 2, Points: make([]math.Vec3, 4), Scalars: make([]float64, 3)}
	assert.ErrorIs(t, s.Validate(), ErrLayout)

	s = &Samples{SegmentsU: 1, SegmentsV: 2}
	assert.ErrorIs(t, s.Validate(), ErrDegenerateRange)
}

func BenchmarkSampleGrid(b *testing.B) {
	f := expr.MustCompile("sin(x)*cos(y+t)", "x", "y", "t")
	p := GridParams{Segments: 100, HalfWidth: 10}
	for i := 0; i < b.N; i++ {
		if _, err := SampleGrid(f, nil, p); err != nil {
			b.Fatal(err)
		}
	}
}
