package surface

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"surface-engine/colors"
	"surface-engine/sampler"
	"surface-engine/textures"
)

// ErrInvalidParams is returned for parameters no sampler could accept, such
// as a grid without an expression or a malformed theme color.
var ErrInvalidParams = errors.New("surface: invalid parameters")

// Mode selects the sampler.
type Mode int

const (
	// Grid samples z = f(x, y, t) over a square domain.
	Grid Mode = iota
	// Parametric samples x, y and z as separate functions of (u, v).
	Parametric
)

func (m Mode) String() string {
	switch m {
	case Grid:
		return "grid"
	case Parametric:
		return "parametric"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grid":
		return Grid, nil
	case "parametric":
		return Parametric, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidParams, s)
}

// Params is everything a regeneration reads. It is a plain value; the
// controller only ever swaps whole copies.
type Params struct {
	Mode Mode

	// Expressions holds one or two grid formulas of (x, y, t). With two,
	// Morph blends from the first to the second.
	Expressions []string

	// X, Y and Z are parametric formulas of (u, v).
	X, Y, Z string
	U, V    sampler.Range

	Segments  int
	HalfWidth float64
	Morph     float64

	Style     textures.Style
	Theme     string
	Variation bool
}

// DefaultParams is a 100x100 rainbow grid of sin(x)*cos(y) over [-5, 5].
func DefaultParams() Params {
	return Params{
		Mode:        Grid,
		Expressions: []string{"sin(x) * cos(y)"},
		X:           "(3 + cos(v)) * cos(u)",
		Y:           "(3 + cos(v)) * sin(u)",
		Z:           "sin(v)",
		U:           sampler.Range{Min: 0, Max: 2 * math.Pi},
		V:           sampler.Range{Min: 0, Max: 2 * math.Pi},
		Segments:    100,
		HalfWidth:   5,
		Style:       textures.FilledShaded,
		Theme:       "#3fa7d6",
		Variation:   true,
	}
}

// Clone returns a copy that shares no slices with p.
func (p Params) Clone() Params {
	p.Expressions = slices.Clone(p.Expressions)
	return p
}

// Equal compares every field.
func (p Params) Equal(o Params) bool {
	return p.Mode == o.Mode &&
		slices.Equal(p.Expressions, o.Expressions) &&
		p.X == o.X && p.Y == o.Y && p.Z == o.Z &&
		p.U == o.U && p.V == o.V &&
		p.Segments == o.Segments &&
		p.HalfWidth == o.HalfWidth &&
		p.Morph == o.Morph &&
		p.Style == o.Style &&
		p.Theme == o.Theme &&
		p.Variation == o.Variation
}

// check rejects what no sampler could fix. Ranges and segment counts are
// left to the samplers, which report them as sampler.ErrDegenerateRange.
func (p Params) check() error {
	switch p.Mode {
	case Grid:
		if n := len(p.Expressions); n < 1 || n > 2 {
			return fmt.Errorf("%w: grid mode takes one or two expressions, got %d", ErrInvalidParams, n)
		}
	case Parametric:
	default:
		return fmt.Errorf("%w: %v", ErrInvalidParams, p.Mode)
	}
	if !p.Style.Valid() {
		return fmt.Errorf("%w: %v", textures.ErrUnknownStyle, p.Style)
	}
	if !colors.IsHex(p.Theme) {
		return fmt.Errorf("%w: theme %q is not a hex color", ErrInvalidParams, p.Theme)
	}
	if math.IsNaN(p.Morph) || math.IsInf(p.Morph, 0) {
		return fmt.Errorf("%w: morph %g", ErrInvalidParams, p.Morph)
	}
	return nil
}
