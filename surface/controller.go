// Package surface owns the current surface: its parameters, the compiled
// formulas, and the node shown in the scene. Every change rebuilds the mesh
// from scratch and swaps it in only when the whole build succeeded.
package surface

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"surface-engine/colors"
	reMath "surface-engine/math"
	"surface-engine/sampler"
	"surface-engine/scene"
	"surface-engine/textures"
)

// Display is where the controller shows its node. *scene.Scene satisfies it.
type Display interface {
	AddNode(node *scene.Node)
	RemoveNode(node *scene.Node)
}

// Offsets are the grid-mode animation inputs: the time argument t and the
// drift added to x and y before evaluation.
type Offsets struct {
	Time float64
	X    float64
	Y    float64
}

// Animation selects what Tick advances. The toggles are independent.
type Animation struct {
	Time   bool
	Drift  bool
	Morph  bool
	Rotate bool

	TimeStep    float64
	DriftX      float64
	DriftY      float64
	MorphStep   float64 // phase advance of the 0..1..0 morph cycle
	RotateSpeed float32 // radians per tick around the vertical axis
	ColorStep   float32 // clock advance of the animated color style
}

// DefaultAnimation rotates the surface slowly and leaves the rest off.
func DefaultAnimation() Animation {
	return Animation{
		Rotate:      true,
		TimeStep:    0.05,
		DriftX:      0.02,
		DriftY:      0.01,
		MorphStep:   0.02,
		RotateSpeed: 0.01,
		ColorStep:   0.05,
	}
}

// Stats describes the surface currently displayed.
type Stats struct {
	Mode          Mode
	Style         textures.Style
	Vertices      int
	Indices       int
	ZMin          float64
	ZMax          float64
	LastBuild     time.Duration
	Regenerations int
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.log = logger }
}

// WithRand sets the random source used for color jitter.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithParams sets the initial parameters. Nothing is built until the first
// Regenerate.
func WithParams(p Params) Option {
	return func(c *Controller) { c.params = p.Clone() }
}

func WithAnimation(a Animation) Option {
	return func(c *Controller) { c.anim = a }
}

// Controller is not safe for concurrent use. All calls are expected from
// the render loop's goroutine.
type Controller struct {
	display   Display
	log       *slog.Logger
	rng       *rand.Rand
	assembler *textures.Assembler
	funcs     *funcCache

	params     Params
	anim       Animation
	offsets    Offsets
	morphPhase float64

	node    *scene.Node
	surface *textures.Surface
	samples *sampler.Samples
	stats   Stats

	tickFailing bool
}

func New(display Display, opts ...Option) *Controller {
	c := &Controller{
		display: display,
		log:     slog.Default(),
		funcs:   newFuncCache(),
		params:  DefaultParams(),
		anim:    DefaultAnimation(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.assembler = textures.NewAssembler(c.rng)
	return c
}

// build is one complete regeneration that touches no controller state
// other than the formula cache.
type build struct {
	params   Params
	offsets  Offsets
	samples  *sampler.Samples
	surface  *textures.Surface
	duration time.Duration
}

func (c *Controller) build(p Params, o Offsets) (*build, error) {
	start := time.Now()
	if err := p.check(); err != nil {
		return nil, err
	}

	var (
		s   *sampler.Samples
		err error
	)
	switch p.Mode {
	case Grid:
		s, err = c.sampleGrid(p, o)
	case Parametric:
		s, err = c.sampleParametric(p)
	}
	if err != nil {
		return nil, err
	}

	surf, err := c.assembler.Build(s, p.Style, textures.Options{
		Theme:     colors.ParseTheme(p.Theme),
		Variation: p.Variation,
	})
	if err != nil {
		return nil, err
	}
	return &build{
		params:   p,
		offsets:  o,
		samples:  s,
		surface:  surf,
		duration: time.Since(start),
	}, nil
}

func (c *Controller) sampleGrid(p Params, o Offsets) (*sampler.Samples, error) {
	f1, err := c.funcs.compile(p.Expressions[0], "x", "y", "t")
	if err != nil {
		return nil, err
	}
	var f2 sampler.Evaluator
	if len(p.Expressions) == 2 && strings.TrimSpace(p.Expressions[1]) != "" {
		g, err := c.funcs.compile(p.Expressions[1], "x", "y", "t")
		if err != nil {
			return nil, err
		}
		f2 = g
	}
	return sampler.SampleGrid(f1, f2, sampler.GridParams{
		Segments:  p.Segments,
		HalfWidth: p.HalfWidth,
		Morph:     p.Morph,
		OffsetX:   o.X,
		OffsetY:   o.Y,
		Time:      o.Time,
	})
}

func (c *Controller) sampleParametric(p Params) (*sampler.Samples, error) {
	var fs [3]sampler.Evaluator
	for i, src := range [3]string{p.X, p.Y, p.Z} {
		f, err := c.funcs.compile(src, "u", "v")
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return sampler.SampleParametric(fs[0], fs[1], fs[2], sampler.ParametricParams{
		U:         p.U,
		V:         p.V,
		SegmentsU: p.Segments,
		SegmentsV: p.Segments,
	})
}

// apply builds next and, only if that succeeds, commits it and swaps the
// displayed node. A mode change starts the time and drift offsets over.
func (c *Controller) apply(next Params) error {
	o := c.offsets
	if next.Mode != c.params.Mode {
		o = Offsets{}
	}
	b, err := c.build(next.Clone(), o)
	if err != nil {
		c.log.Warn("surface regeneration failed",
			"mode", next.Mode.String(),
			"style", next.Style.String(),
			"error", err)
		return fmt.Errorf("surface: regenerate: %w", err)
	}
	c.commit(b)
	return nil
}

func (c *Controller) commit(b *build) {
	if c.surface != nil && c.surface.Animated() {
		b.surface.Resume(c.surface.Clock())
	}
	node := scene.NewMeshNode("surface", b.surface.Mesh)
	if c.node != nil {
		node.SetRotation(c.node.Transform.Rotation)
		c.display.RemoveNode(c.node)
	}
	c.display.AddNode(node)

	c.node = node
	c.surface = b.surface
	c.samples = b.samples
	c.params = b.params
	c.offsets = b.offsets

	m := b.surface.Mesh
	c.stats = Stats{
		Mode:          b.params.Mode,
		Style:         b.params.Style,
		Vertices:      len(m.Vertices),
		Indices:       len(m.Indices),
		ZMin:          b.samples.ZMin,
		ZMax:          b.samples.ZMax,
		LastBuild:     b.duration,
		Regenerations: c.stats.Regenerations + 1,
	}
	c.log.Debug("surface regenerated",
		"mode", b.params.Mode.String(),
		"style", b.params.Style.String(),
		"segments", b.params.Segments,
		"vertices", c.stats.Vertices,
		"indices", c.stats.Indices,
		"duration", b.duration)
}

// Regenerate rebuilds the surface from the current parameters.
func (c *Controller) Regenerate() error {
	return c.apply(c.params)
}

// Restore replaces every parameter at once, as undo and redo do.
func (c *Controller) Restore(p Params) error {
	return c.apply(p)
}

// SetExpressions switches to grid mode with one or two height formulas.
// Without a second formula the morph factor goes back to 0.
func (c *Controller) SetExpressions(exprs ...string) error {
	next := c.params.Clone()
	next.Mode = Grid
	next.Expressions = exprs
	if len(exprs) < 2 || strings.TrimSpace(exprs[1]) == "" {
		next.Morph = 0
	}
	return c.apply(next)
}

// SetParametric switches to parametric mode with the given triple and ranges.
func (c *Controller) SetParametric(x, y, z string, u, v sampler.Range) error {
	next := c.params.Clone()
	next.Mode = Parametric
	next.X, next.Y, next.Z = x, y, z
	next.U, next.V = u, v
	return c.apply(next)
}

func (c *Controller) SetRanges(u, v sampler.Range) error {
	next := c.params.Clone()
	next.U, next.V = u, v
	return c.apply(next)
}

func (c *Controller) SetMode(m Mode) error {
	next := c.params.Clone()
	next.Mode = m
	return c.apply(next)
}

func (c *Controller) SetSegments(n int) error {
	next := c.params.Clone()
	next.Segments = n
	return c.apply(next)
}

func (c *Controller) SetHalfWidth(w float64) error {
	next := c.params.Clone()
	next.HalfWidth = w
	return c.apply(next)
}

func (c *Controller) SetMorph(m float64) error {
	next := c.params.Clone()
	next.Morph = m
	return c.apply(next)
}

func (c *Controller) SetStyle(s textures.Style) error {
	next := c.params.Clone()
	next.Style = s
	return c.apply(next)
}

func (c *Controller) SetTheme(hex string) error {
	next := c.params.Clone()
	next.Theme = hex
	return c.apply(next)
}

func (c *Controller) SetVariation(on bool) error {
	next := c.params.Clone()
	next.Variation = on
	return c.apply(next)
}

// Tick is the per-frame callback. It recolors an animated surface, turns
// the node, and in grid mode advances time, drift and morph, rebuilding
// once if any of them moved. A failed rebuild is logged and the current
// surface stays up; the clocks keep running so a formula that is only
// singular at some instants recovers on a later tick.
func (c *Controller) Tick() {
	if c.surface != nil {
		c.surface.Advance(c.anim.ColorStep)
	}
	if c.anim.Rotate && c.node != nil {
		c.node.Rotate(reMath.Vec3Up, c.anim.RotateSpeed)
	}
	if c.params.Mode != Grid || c.node == nil {
		return
	}

	next := c.params.Clone()
	o := c.offsets
	dirty := false
	if c.anim.Time {
		o.Time += c.anim.TimeStep
		dirty = true
	}
	if c.anim.Drift {
		o.X += c.anim.DriftX
		o.Y += c.anim.DriftY
		dirty = true
	}
	if c.anim.Morph && len(next.Expressions) == 2 {
		c.morphPhase += c.anim.MorphStep
		next.Morph = 0.5 - 0.5*math.Cos(c.morphPhase)
		dirty = true
	}
	if !dirty {
		return
	}

	b, err := c.build(next, o)
	if err != nil {
		c.offsets = o
		if !c.tickFailing {
			c.log.Warn("animated regeneration failed", "error", err, "time", o.Time)
		}
		c.tickFailing = true
		return
	}
	c.tickFailing = false
	c.commit(b)
}

// Params returns a copy of the current parameters.
func (c *Controller) Params() Params {
	return c.params.Clone()
}

func (c *Controller) Mode() Mode {
	return c.params.Mode
}

// Node is the node currently handed to the display, or nil before the
// first successful regeneration.
func (c *Controller) Node() *scene.Node {
	return c.node
}

func (c *Controller) Surface() *textures.Surface {
	return c.surface
}

// Samples returns the samples behind the displayed surface. They are
// replaced on every regeneration and must not be kept across one.
func (c *Controller) Samples() *sampler.Samples {
	return c.samples
}

func (c *Controller) Offsets() Offsets {
	return c.offsets
}

func (c *Controller) Animation() Animation {
	return c.anim
}

func (c *Controller) SetAnimation(a Animation) {
	c.anim = a
}

func (c *Controller) Stats() Stats {
	return c.stats
}
