package textures

import (
	"github.com/chewxy/math32"

	"surface-engine/colors"
	"surface-engine/scene"
)

// Surface is a built mesh together with the state its style needs after
// creation. Only AnimatedColorSurface keeps any: the sampled heights and
// the animation clock used to recolor the mesh in place.
type Surface struct {
	Mesh  *scene.Mesh
	Style Style

	heights []float64
	clock   float32
}

func (s *Surface) Animated() bool {
	return s.Style == AnimatedColorSurface
}

// Clock is the animation phase used by the last Advance.
func (s *Surface) Clock() float32 {
	return s.clock
}

// Advance recolors every vertex with hue 0.5+0.5*sin(2z+clock) at the
// current clock, then moves the clock forward by step. The mesh version is
// bumped so the GPU copy is refreshed. It does nothing for static styles.
func (s *Surface) Advance(step float32) {
	if !s.Animated() {
		return
	}
	for i := range s.Mesh.Vertices {
		z := float32(s.heights[i])
		hue := 0.5 + 0.5*math32.Sin(2*z+s.clock)
		s.Mesh.Vertices[i].Color = colors.FromHSL(float64(hue), 1, 0.5)
	}
	s.clock += step
	s.Mesh.MarkDirty()
}

// Resume sets the clock of a freshly built animated surface and recolors it
// for that phase, so a rebuilt mesh continues the animation of the one it
// replaces.
func (s *Surface) Resume(clock float32) {
	if !s.Animated() {
		return
	}
	s.clock = clock
	s.Advance(0)
}
