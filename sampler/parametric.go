package sampler

import (
	"fmt"
	"math"
)

// Range is a closed parameter interval. Min may exceed Max; the grid then
// runs backwards.
type Range struct {
	Min float64
	Max float64
}

func (r Range) validate(param string) error {
	for _, v := range [2]float64{r.Min, r.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DegenerateRangeError{Param: param, Reason: fmt.Sprintf("bound %g is not finite", v)}
		}
	}
	if r.Min == r.Max {
		return &DegenerateRangeError{Param: param, Reason: fmt.Sprintf("empty interval [%g, %g]", r.Min, r.Max)}
	}
	return nil
}

type ParametricParams struct {
	U         Range
	V         Range
	SegmentsU int
	SegmentsV int
}

func (p ParametricParams) validate() error {
	if err := checkSegments("segmentsU", p.SegmentsU); err != nil {
		return err
	}
	if err := checkSegments("segmentsV", p.SegmentsV); err != nil {
		return err
	}
	if err := p.U.validate("u"); err != nil {
		return err
	}
	return p.V.validate("v")
}

// SampleParametric evaluates three functions of (u, v) and emits the point
// (fx, fz, fy), matching the axis order of SampleGrid. Scalars hold the raw
// fz value. The evaluation policy is the same as SampleGrid.
func SampleParametric(fx, fy, fz Evaluator, p ParametricParams) (*Samples, error) {
	if fx == nil || fy == nil || fz == nil {
		return nil, fmt.Errorf("%w: parametric mode needs x, y and z", ErrMissingFunction)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	s := newSamples(p.SegmentsU, p.SegmentsV)
	for i := 0; i < p.SegmentsU; i++ {
		u := lerpIndex(i, p.SegmentsU, p.U.Min, p.U.Max)
		for j := 0; j < p.SegmentsV; j++ {
			v := lerpIndex(j, p.SegmentsV, p.V.Min, p.V.Max)

			var out [3]float64
			for k, f := range [3]Evaluator{fx, fy, fz} {
				val, err := f.Eval(u, v)
				if err != nil {
					return nil, fmt.Errorf("sampler: parametric (%d,%d): %w", i, j, err)
				}
				out[k] = val
			}

			pt := [3]float64{out[0], out[2], out[1]}
			if !s.push(pt, out[2]) {
				return nil, fmt.Errorf("sampler: parametric (%d,%d): %w", i, j, nonFinite(sourceOf(fz), pt, out[2], u, v))
			}
		}
	}
	s.finish()
	return s, nil
}
