package surface

import (
	"fmt"

	"surface-engine/presets"
	"surface-engine/sampler"
)

// ApplyPreset switches to the preset's mode and formulas. Style, theme and
// the sampling resolution are left as they are.
func (c *Controller) ApplyPreset(p presets.Preset) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("surface: apply preset: %w", err)
	}
	next := c.params.Clone()
	if p.Parametric() {
		next.Mode = Parametric
		next.X, next.Y, next.Z = p.X, p.Y, p.Z
		next.U = sampler.Range{Min: p.UMin.Value, Max: p.UMax.Value}
		next.V = sampler.Range{Min: p.VMin.Value, Max: p.VMax.Value}
	} else {
		next.Mode = Grid
		next.Expressions = append([]string(nil), p.Expressions...)
		next.Morph = 0
	}
	return c.apply(next)
}

// ToPreset captures the formulas of p under the given name, in the form
// the preset library stores.
func ToPreset(name string, p Params) presets.Preset {
	if p.Mode == Parametric {
		return presets.Preset{
			Name: name,
			X:    p.X,
			Y:    p.Y,
			Z:    p.Z,
			UMin: presets.Num(p.U.Min),
			UMax: presets.Num(p.U.Max),
			VMin: presets.Num(p.V.Min),
			VMax: presets.Num(p.V.Max),
		}
	}
	return presets.Preset{
		Name:        name,
		Expressions: append([]string(nil), p.Expressions...),
	}
}
