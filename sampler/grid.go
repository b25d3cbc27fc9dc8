package sampler

import (
	"fmt"
	"math"
)

// GridParams describes one height-field sampling pass.
type GridParams struct {
	Segments  int
	HalfWidth float64
	// Morph blends the two functions: 0 is f1 only, 1 is f2 only.
	Morph   float64
	OffsetX float64
	OffsetY float64
	Time    float64
}

func (p GridParams) validate() error {
	if err := checkSegments("segments", p.Segments); err != nil {
		return err
	}
	if !(p.HalfWidth > 0) || math.IsInf(p.HalfWidth, 0) {
		return &DegenerateRangeError{Param: "halfWidth", Reason: fmt.Sprintf("%g is not a positive finite width", p.HalfWidth)}
	}
	return nil
}

// SampleGrid evaluates z = (1-Morph)*f1(x+OffsetX, y+OffsetY, Time) +
// Morph*f2(...) over a Segments x Segments grid spanning [-HalfWidth,
// HalfWidth] on both axes. A nil f2 is the zero function.
//
// Points are emitted as (x, z, y): the function value becomes the vertical
// axis and the function's y input becomes depth. Scalars hold the blended z.
//
// Sampling stops at the first evaluation error or non-finite value, and no
// partial result is returned.
func SampleGrid(f1, f2 Evaluator, p GridParams) (*Samples, error) {
	if f1 == nil {
		return nil, fmt.Errorf("%w: grid needs a first function", ErrMissingFunction)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	n := p.Segments
	s := newSamples(n, n)
	for i := 0; i < n; i++ {
		x := lerpIndex(i, n, -p.HalfWidth, p.HalfWidth)
		for j := 0; j < n; j++ {
			y := lerpIndex(j, n, -p.HalfWidth, p.HalfWidth)
			sx, sy := x+p.OffsetX, y+p.OffsetY

			z1, err := f1.Eval(sx, sy, p.Time)
			if err != nil {
				return nil, fmt.Errorf("sampler: grid (%d,%d): %w", i, j, err)
			}
			z2 := 0.0
			if f2 != nil {
				if z2, err = f2.Eval(sx, sy, p.Time); err != nil {
					return nil, fmt.Errorf("sampler: grid (%d,%d): %w", i, j, err)
				}
			}

			z := (1-p.Morph)*z1 + p.Morph*z2
			pt := [3]float64{x, z, y}
			if !s.push(pt, z) {
				return nil, fmt.Errorf("sampler: grid (%d,%d): %w", i, j, nonFinite(sourceOf(f1), pt, z, sx, sy, p.Time))
			}
		}
	}
	s.finish()
	return s, nil
}
