package surface

import (
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surface-engine/colors"
	"surface-engine/expr"
	reMath "surface-engine/math"
	"surface-engine/presets"
	"surface-engine/sampler"
	"surface-engine/scene"
	"surface-engine/textures"
)

type fakeDisplay struct {
	nodes   []*scene.Node
	added   int
	removed int
}

func (d *fakeDisplay) AddNode(n *scene.Node) {
	d.nodes = append(d.nodes, n)
	d.added++
}

func (d *fakeDisplay) RemoveNode(n *scene.Node) {
	for i, x := range d.nodes {
		if x == n {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			break
		}
	}
	d.removed++
}

func smallParams() Params {
	p := DefaultParams()
	p.Segments = 8
	p.HalfWidth = 2
	return p
}

func newTestController(t *testing.T, p Params) (*Controller, *fakeDisplay) {
	t.Helper()
	d := &fakeDisplay{}
	c := New(d,
		WithParams(p),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, c.Regenerate())
	return c, d
}

func TestNewDoesNotBuild(t *testing.T) {
	d := &fakeDisplay{}
	c := New(d)
	assert.Nil(t, c.Node())
	assert.Nil(t, c.Surface())
	assert.Zero(t, d.added)
}

func TestRegenerateDisplaysOneNode(t *testing.T) {
	c, d := newTestController(t, smallParams())

	require.Len(t, d.nodes, 1)
	assert.Same(t, c.Node(), d.nodes[0])

	st := c.Stats()
	assert.Equal(t, 64, st.Vertices)
	assert.Equal(t, 6*7*7, st.Indices)
	assert.Equal(t, 1, st.Regenerations)
	assert.Equal(t, Grid, st.Mode)
	assert.LessOrEqual(t, st.ZMin, st.ZMax)

	require.NoError(t, c.SetSegments(10))
	require.Len(t, d.nodes, 1)
	assert.Equal(t, 100, c.Stats().Vertices)
	assert.Equal(t, 2, c.Stats().Regenerations)
	assert.Equal(t, 1, d.removed)
}

func TestFailedRegenerationKeepsState(t *testing.T) {
	c, d := newTestController(t, smallParams())
	node, before := c.Node(), c.Params()

	err := c.SetExpressions("sin(x) +")
	require.ErrorIs(t, err, expr.ErrCompile)
	err = c.SetExpressions("foo(x)")
	require.ErrorIs(t, err, expr.ErrCompile)
	err = c.SetExpressions("1 / (x - x)")
	require.ErrorIs(t, err, expr.ErrEvaluation)
	err = c.SetSegments(1)
	require.ErrorIs(t, err, sampler.ErrDegenerateRange)
	err = c.SetStyle(textures.Style(42))
	require.ErrorIs(t, err, textures.ErrUnknownStyle)
	err = c.SetTheme("blue")
	require.ErrorIs(t, err, ErrInvalidParams)

	assert.Same(t, node, c.Node())
	assert.True(t, before.Equal(c.Params()))
	assert.Equal(t, 1, c.Stats().Regenerations)
	assert.Equal(t, 1, d.added)
	assert.Zero(t, d.removed)
}

func TestSetExpressionsSwitchesToGrid(t *testing.T) {
	p := smallParams()
	p.Mode = Parametric
	c, _ := newTestController(t, p)
	require.Equal(t, Parametric, c.Mode())

	require.NoError(t, c.SetExpressions("x", "y"))
	assert.Equal(t, Grid, c.Mode())
	assert.Equal(t, []string{"x", "y"}, c.Params().Expressions)
}

func TestSetParametric(t *testing.T) {
	c, _ := newTestController(t, smallParams())
	u := sampler.Range{Min: 0, Max: 1}
	v := sampler.Range{Min: 0, Max: 2}
	require.NoError(t, c.SetParametric("u", "v", "u*v", u, v))

	assert.Equal(t, Parametric, c.Mode())
	s := c.Samples()
	assert.InDelta(t, 0, s.ZMin, 1e-12)
	assert.InDelta(t, 2, s.ZMax, 1e-12)
}

func TestModeChangeResetsOffsets(t *testing.T) {
	p := smallParams()
	c, _ := newTestController(t, p)
	c.SetAnimation(Animation{Time: true, Drift: true, TimeStep: 0.5, DriftX: 1, DriftY: 2})

	c.Tick()
	c.Tick()
	assert.Equal(t, Offsets{Time: 1, X: 2, Y: 4}, c.Offsets())

	require.NoError(t, c.SetStyle(textures.GlitchWireframe))
	assert.Equal(t, Offsets{Time: 1, X: 2, Y: 4}, c.Offsets())

	require.NoError(t, c.SetMode(Parametric))
	assert.Equal(t, Offsets{}, c.Offsets())

	// Parametric surfaces do not animate time or drift.
	c.Tick()
	assert.Equal(t, Offsets{}, c.Offsets())
}

func TestRotationCarriesOver(t *testing.T) {
	c, _ := newTestController(t, smallParams())
	c.SetAnimation(Animation{Rotate: true, RotateSpeed: 0.25})
	c.Tick()
	c.Tick()
	rot := c.Node().Transform.Rotation

	require.NoError(t, c.SetStyle(textures.PlainWireframe))
	assert.Equal(t, rot, c.Node().Transform.Rotation)
	assert.Equal(t, reMath.Vec3{}, c.Node().Transform.Position)
}

func TestAnimatedStyleRecolorsOnTick(t *testing.T) {
	p := smallParams()
	p.Style = textures.AnimatedColorSurface
	c, _ := newTestController(t, p)
	c.SetAnimation(Animation{ColorStep: 0.5})

	surf := c.Surface()
	require.True(t, surf.Animated())
	version := surf.Mesh.Version

	c.Tick()
	assert.Same(t, surf, c.Surface(), "ticking must not rebuild")
	assert.Greater(t, surf.Mesh.Version, version)
	assert.InDelta(t, 0.5, surf.Clock(), 1e-6)

	require.NoError(t, c.SetStyle(textures.FilledShaded))
	assert.False(t, c.Surface().Animated())
}

func TestAnimatedStyleKeepsClockAcrossTickRebuilds(t *testing.T) {
	p := smallParams()
	p.Style = textures.AnimatedColorSurface
	p.Expressions = []string{"sin(x + t)"}
	c, _ := newTestController(t, p)
	c.SetAnimation(Animation{Time: true, TimeStep: 0.1, ColorStep: 0.5})

	for range 10 {
		c.Tick()
	}
	assert.Equal(t, 11, c.Stats().Regenerations)

	surf := c.Surface()
	require.True(t, surf.Animated())
	assert.InDelta(t, 5, surf.Clock(), 1e-5)

	clock := float64(surf.Clock())
	for k, v := range surf.Mesh.Vertices {
		z := c.Samples().Scalars[k]
		want := colors.FromHSL(0.5+0.5*math.Sin(2*z+clock), 1, 0.5)
		assert.InDelta(t, want.R, v.Color.R, 1e-4)
		assert.InDelta(t, want.G, v.Color.G, 1e-4)
		assert.InDelta(t, want.B, v.Color.B, 1e-4)
	}
}

func TestSetExpressionsSingleFormulaResetsMorph(t *testing.T) {
	p := smallParams()
	p.Expressions = []string{"0", "1"}
	p.Morph = 0.5
	c, _ := newTestController(t, p)
	assert.InDelta(t, 0.5, c.Samples().ZMax, 1e-9)

	require.NoError(t, c.SetExpressions("1"))
	assert.Zero(t, c.Params().Morph)
	assert.InDelta(t, 1, c.Samples().ZMax, 1e-9)

	require.NoError(t, c.SetExpressions("0", "1"))
	assert.Zero(t, c.Params().Morph)
	require.NoError(t, c.SetMorph(0.25))
	require.NoError(t, c.SetExpressions("0", "2"))
	assert.InDelta(t, 0.25, c.Params().Morph, 1e-12)
}

func TestTickMorphsBetweenExpressions(t *testing.T) {
	p := smallParams()
	p.Expressions = []string{"0", "1"}
	c, _ := newTestController(t, p)
	c.SetAnimation(Animation{Morph: true, MorphStep: 1})

	c.Tick()
	m := c.Params().Morph
	assert.InDelta(t, 0.5-0.5*0.5403023058681398, m, 1e-9)
	assert.InDelta(t, m, c.Samples().ZMax, 1e-9)
	assert.Equal(t, 2, c.Stats().Regenerations)
}

func TestTickWithoutChangesDoesNotRebuild(t *testing.T) {
	c, _ := newTestController(t, smallParams())
	c.SetAnimation(Animation{})
	c.Tick()
	assert.Equal(t, 1, c.Stats().Regenerations)
}

func TestTickFailureKeepsSurface(t *testing.T) {
	p := smallParams()
	p.Expressions = []string{"1 / (t - 1)"}
	c, _ := newTestController(t, p)
	c.SetAnimation(Animation{Time: true, TimeStep: 0.5})

	c.Tick() // t = 0.5
	require.Equal(t, 2, c.Stats().Regenerations)
	node := c.Node()

	c.Tick() // t = 1 is singular
	assert.Same(t, node, c.Node())
	assert.Equal(t, 2, c.Stats().Regenerations)
	assert.InDelta(t, 1, c.Offsets().Time, 1e-12)

	c.Tick() // recovers
	assert.NotSame(t, node, c.Node())
	assert.Equal(t, 3, c.Stats().Regenerations)
}

func TestApplyPreset(t *testing.T) {
	lib, err := presets.Load("")
	require.NoError(t, err)
	c, _ := newTestController(t, smallParams())

	torus, ok := lib.Get("torus")
	require.True(t, ok)
	require.NoError(t, c.ApplyPreset(torus))
	assert.Equal(t, Parametric, c.Mode())
	assert.Equal(t, torus.X, c.Params().X)

	saddle, ok := lib.Get("saddle")
	require.True(t, ok)
	require.NoError(t, c.ApplyPreset(saddle))
	assert.Equal(t, Grid, c.Mode())

	err = c.ApplyPreset(presets.Preset{Name: "broken", Expressions: []string{"x +"}})
	require.ErrorIs(t, err, presets.ErrInvalid)
	assert.Equal(t, saddle.Expressions, c.Params().Expressions)
}

func TestToPresetRoundTrip(t *testing.T) {
	c, _ := newTestController(t, smallParams())
	require.NoError(t, c.SetParametric("u", "v", "0", sampler.Range{Min: -1, Max: 1}, sampler.Range{Min: 0, Max: 3}))

	pr := ToPreset("flat", c.Params())
	require.NoError(t, pr.Validate())
	assert.True(t, pr.Parametric())
	assert.Equal(t, 3.0, pr.VMax.Value)

	require.NoError(t, c.SetExpressions("x*y"))
	pr = ToPreset("xy", c.Params())
	assert.False(t, pr.Parametric())
	assert.Equal(t, []string{"x*y"}, pr.Expressions)
}

func TestFuncCacheReusesCompiledFormulas(t *testing.T) {
	c, _ := newTestController(t, smallParams())
	n := c.funcs.len()
	require.NoError(t, c.SetStyle(textures.GradientWireframe))
	assert.Equal(t, n, c.funcs.len())

	f1, err := c.funcs.compile("x + y", "x", "y", "t")
	require.NoError(t, err)
	f2, err := c.funcs.compile("x + y", "x", "y", "t")
	require.NoError(t, err)
	assert.Same(t, f1, f2)

	g, err := c.funcs.compile("x + y", "x", "y")
	require.NoError(t, err)
	assert.NotSame(t, f1, g)
}

func TestControllerWithScene(t *testing.T) {
	sc := scene.NewScene()
	c := New(sc, WithParams(smallParams()), WithRand(rand.New(rand.NewPCG(3, 4))))
	require.NoError(t, c.Regenerate())
	first := c.Node()
	require.True(t, sc.Contains(first))

	require.NoError(t, c.SetHalfWidth(3))
	assert.False(t, sc.Contains(first))
	assert.True(t, sc.Contains(c.Node()))
	assert.Len(t, sc.Root.Children, 1)
}
