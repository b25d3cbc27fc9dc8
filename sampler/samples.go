// Package sampler evaluates compiled formulas over a regular 2D grid and
// produces the point buffer and scalar series a mesh is built from.
package sampler

import (
	"fmt"
	stdmath "math"

	"gonum.org/v1/gonum/floats"

	"surface-engine/expr"
	"surface-engine/math"
)

// Evaluator is a numeric function of a fixed parameter tuple.
// *expr.Func satisfies it.
type Evaluator interface {
	Eval(args ...float64) (float64, error)
}

// MinSegments is the smallest grid dimension that can be sampled.
const MinSegments = 2

// Samples is a SegmentsU x SegmentsV grid of points laid out row-major:
// grid coordinate (i, j) lives at index i*SegmentsV+j in both Points and
// Scalars.
type Samples struct {
	Points    []math.Vec3
	Scalars   []float64
	SegmentsU int
	SegmentsV int
	ZMin      float64
	ZMax      float64
}

func newSamples(segU, segV int) *Samples {
	n := segU * segV
	return &Samples{
		Points:    make([]math.Vec3, 0, n),
		Scalars:   make([]float64, 0, n),
		SegmentsU: segU,
		SegmentsV: segV,
	}
}

func (s *Samples) finish() {
	s.ZMin = floats.Min(s.Scalars)
	s.ZMax = floats.Max(s.Scalars)
}

func (s *Samples) Len() int {
	return len(s.Points)
}

func (s *Samples) Index(i, j int) int {
	return i*s.SegmentsV + j
}

// Normalize maps z into [0,1] relative to the series range. A flat series
// (ZMax == ZMin) maps every value to 0.
func (s *Samples) Normalize(z float64) float64 {
	span := s.ZMax - s.ZMin
	if span == 0 {
		return 0
	}
	return (z - s.ZMin) / span
}

// Validate checks the layout every mesh builder relies on.
func (s *Samples) Validate() error {
	if err := checkSegments("segmentsU", s.SegmentsU); err != nil {
		return err
	}
	if err := checkSegments("segmentsV", s.SegmentsV); err != nil {
		return err
	}
	n := s.SegmentsU * s.SegmentsV
	if len(s.Points) != n || len(s.Scalars) != n {
		return fmt.Errorf("%w: %dx%d grid with %d points and %d scalars",
			ErrLayout, s.SegmentsU, s.SegmentsV, len(s.Points), len(s.Scalars))
	}
	return nil
}

func checkSegments(param string, n int) error {
	if n < MinSegments {
		return &DegenerateRangeError{Param: param, Reason: fmt.Sprintf("%d is below %d", n, MinSegments)}
	}
	return nil
}

// lerpIndex maps i in [0, n) onto [lo, hi].
func lerpIndex(i, n int, lo, hi float64) float64 {
	return lo + float64(i)/float64(n-1)*(hi-lo)
}

// push appends one sample and reports false, appending nothing, when the
// point or scalar cannot be drawn.
func (s *Samples) push(p [3]float64, scalar float64) bool {
	pt := math.Vec3From64(p[0], p[1], p[2])
	if !pt.IsFinite() || stdmath.IsNaN(scalar) || stdmath.IsInf(scalar, 0) {
		return false
	}
	s.Points = append(s.Points, pt)
	s.Scalars = append(s.Scalars, scalar)
	return true
}

func nonFinite(source string, p [3]float64, scalar float64, args ...float64) error {
	value := stdmath.NaN()
	for _, v := range [4]float64{p[0], p[1], p[2], scalar} {
		if stdmath.IsNaN(v) || stdmath.IsInf(v, 0) || stdmath.Abs(v) > stdmath.MaxFloat32 {
			value = v
			break
		}
	}
	return &expr.EvaluationError{
		Source: source,
		Args:   args,
		Value:  value,
		Msg:    "sample is not a finite point",
	}
}

// sourceOf names an evaluator in error messages.
func sourceOf(e Evaluator) string {
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", e)
}
