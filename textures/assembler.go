// Package textures turns sampled grids into drawable meshes, one builder per
// visual style.
package textures

import (
	"fmt"
	"math/rand/v2"
	"time"

	"surface-engine/colors"
	"surface-engine/core"
	"surface-engine/math"
	"surface-engine/sampler"
	"surface-engine/scene"
)

// Options carries the user-facing color settings.
type Options struct {
	Theme     core.Color
	Variation bool
}

// Assembler builds meshes. Its random source drives color jitter, so a
// seeded Assembler produces identical meshes for identical input.
type Assembler struct {
	rng *rand.Rand
}

// NewAssembler uses rng for jitter. A nil rng is seeded from the clock.
func NewAssembler(rng *rand.Rand) *Assembler {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Assembler{rng: rng}
}

// jitter returns a uniform offset in [-width/2, width/2).
func (a *Assembler) jitter(width float64) float64 {
	return (a.rng.Float64() - 0.5) * width
}

// Build assembles a mesh for style. The samples are only read.
func (a *Assembler) Build(s *sampler.Samples, style Style, opts Options) (*Surface, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var mesh *scene.Mesh
	switch style {
	case FilledShaded, AnimatedColorSurface:
		mesh = a.rainbowSurface(s)
	case PlainColorSurface:
		mesh = a.plainSurface(s, opts)
	case PlainWireframe:
		mesh = a.plainWireframe(s, opts)
	case GradientWireframe:
		mesh = a.gradientWireframe(s, opts)
	case GlitchWireframe:
		mesh = a.glitchWireframe(s)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStyle, int(style))
	}
	mesh.Name = style.String()

	surf := &Surface{Mesh: mesh, Style: style}
	if style == AnimatedColorSurface {
		surf.heights = append([]float64(nil), s.Scalars...)
	}
	return surf, nil
}

// triangleSurface lays one vertex per sample over the triangulated grid.
// colorAt is called once per vertex in index order.
func triangleSurface(s *sampler.Samples, colorAt func(k int) core.Color) *scene.Mesh {
	vertices := make([]core.Vertex, s.Len())
	for i := 0; i < s.SegmentsU; i++ {
		for j := 0; j < s.SegmentsV; j++ {
			k := s.Index(i, j)
			vertices[k] = core.Vertex{
				Position: s.Points[k],
				UV: math.Vec2{
					X: float32(i) / float32(s.SegmentsU-1),
					Y: float32(j) / float32(s.SegmentsV-1),
				},
				Color: colorAt(k),
			}
		}
	}
	m := scene.CreateMeshFromData("", vertices, Triangulate(s.SegmentsU, s.SegmentsV))
	scene.ComputeNormals(m)
	return m
}

// lineSet emits two vertices per segment so every endpoint can carry its own
// color. colorAt receives the sample index of the endpoint.
func lineSet(s *sampler.Samples, lines [][2]uint32, colorAt func(k uint32) core.Color) *scene.Mesh {
	vertices := make([]core.Vertex, 0, 2*len(lines))
	indices := make([]uint32, 0, 2*len(lines))
	for _, l := range lines {
		base := uint32(len(vertices))
		for _, k := range l {
			vertices = append(vertices, core.Vertex{
				Position: s.Points[k],
				Normal:   math.Vec3Up,
				Color:    colorAt(k),
			})
		}
		indices = append(indices, base, base+1)
	}
	m := scene.CreateMeshFromData("", vertices, indices)
	m.DrawMode = scene.DrawLines
	m.Material = scene.NewUnlitMaterial("Lines")
	return m
}

// rainbowColor maps normalized height straight to hue.
func rainbowColor(t float64) core.Color {
	return colors.FromHSL(t, 1, 0.5)
}

func (a *Assembler) rainbowSurface(s *sampler.Samples) *scene.Mesh {
	m := triangleSurface(s, func(k int) core.Color {
		return rainbowColor(s.Normalize(s.Scalars[k]))
	})
	m.Material = scene.DefaultMaterial()
	m.Material.Name = "Rainbow"
	m.Material.Shininess = 100
	return m
}

// plainSurface darkens the theme toward the bottom of the surface: lightness
// is the theme's own lightness times 0.5+0.5*t. With variation every vertex
// also gets its own hue (±0.025) and lightness (±0.05) jitter.
func (a *Assembler) plainSurface(s *sampler.Samples, opts Options) *scene.Mesh {
	h0, s0, l0 := colors.ToHSL(opts.Theme)
	m := triangleSurface(s, func(k int) core.Color {
		t := s.Normalize(s.Scalars[k])
		h, l := h0, clamp01(l0*(0.5+0.5*t))
		if opts.Variation {
			h = colors.WrapHue(h + a.jitter(0.05))
			l = clamp01(l + a.jitter(0.1))
		}
		return colors.FromHSL(h, s0, l)
	})
	m.Material = scene.NewUnlitMaterial("PlainColor")
	return m
}

// plainWireframe draws the triangle mesh as lines in a single color, jittered
// once per build (hue ±0.05, lightness ±0.05) when variation is on.
func (a *Assembler) plainWireframe(s *sampler.Samples, opts Options) *scene.Mesh {
	c := opts.Theme
	if opts.Variation {
		h, sat, l := colors.ToHSL(c)
		h = colors.WrapHue(h + a.jitter(0.1))
		l = clamp01(l + a.jitter(0.1))
		c = colors.FromHSL(h, sat, l)
	}
	c.A = 1

	m := triangleSurface(s, func(int) core.Color { return c })
	m.Material = scene.NewUnlitMaterial("Wireframe")
	m.Material.Wireframe = true
	return m
}

// gradientWireframe colors each endpoint of every grid segment independently
// around the theme (hue ±0.15, lightness ±0.25) when variation is on.
func (a *Assembler) gradientWireframe(s *sampler.Samples, opts Options) *scene.Mesh {
	h0, s0, l0 := colors.ToHSL(opts.Theme)
	base := colors.FromHSL(h0, s0, l0)
	return lineSet(s, GridLines(s.SegmentsU, s.SegmentsV), func(uint32) core.Color {
		if !opts.Variation {
			return base
		}
		h := colors.WrapHue(h0 + a.jitter(0.3))
		l := clamp01(l0 + a.jitter(0.5))
		return colors.FromHSL(h, s0, l)
	})
}

// glitchWireframe ignores the theme: hue runs from 0.7 to 0.9 with height.
func (a *Assembler) glitchWireframe(s *sampler.Samples) *scene.Mesh {
	edges := UniqueEdges(Triangulate(s.SegmentsU, s.SegmentsV))
	return lineSet(s, edges, func(k uint32) core.Color {
		t := s.Normalize(s.Scalars[k])
		return colors.FromHSL(0.7+0.2*t, 1, 0.6)
	})
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
