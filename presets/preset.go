// Package presets stores named surface definitions: one or two height
// formulas for grid mode, or an x/y/z triple with u/v bounds for parametric
// mode.
package presets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"surface-engine/expr"
)

var (
	ErrInvalid  = errors.New("presets: invalid preset")
	ErrNotFound = errors.New("presets: not found")
	ErrBuiltin  = errors.New("presets: built-in presets are read-only")
)

// Bound is a parametric range bound. In YAML it is either a number or a
// constant formula such as "2*pi"; Expr keeps the formula for writing back.
type Bound struct {
	Value float64
	Expr  string
}

// Num is a plain numeric bound.
func Num(v float64) Bound {
	return Bound{Value: v}
}

// ParseBound accepts a number or a constant formula.
func ParseBound(s string) (Bound, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Bound{Value: v}, nil
	}
	v, err := expr.Constant(s)
	if err != nil {
		return Bound{}, err
	}
	return Bound{Value: v, Expr: s}, nil
}

func (b *Bound) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: bound must be a number or a formula", ErrInvalid, node.Line)
	}
	v, err := ParseBound(node.Value)
	if err != nil {
		return fmt.Errorf("%w: line %d: %w", ErrInvalid, node.Line, err)
	}
	*b = v
	return nil
}

func (b Bound) MarshalYAML() (any, error) {
	if b.Expr != "" {
		return b.Expr, nil
	}
	return b.Value, nil
}

func (b Bound) IsZero() bool {
	return b.Value == 0 && b.Expr == ""
}

func (b Bound) String() string {
	if b.Expr != "" {
		return b.Expr
	}
	return strconv.FormatFloat(b.Value, 'g', -1, 64)
}

// Preset is the interchange form of a surface. Exactly one of Expressions
// or the X/Y/Z triple is set.
type Preset struct {
	Name        string   `yaml:"name"`
	Expressions []string `yaml:"expressions,omitempty"`

	X    string `yaml:"x,omitempty"`
	Y    string `yaml:"y,omitempty"`
	Z    string `yaml:"z,omitempty"`
	UMin Bound  `yaml:"uMin,omitempty"`
	UMax Bound  `yaml:"uMax,omitempty"`
	VMin Bound  `yaml:"vMin,omitempty"`
	VMax Bound  `yaml:"vMax,omitempty"`
}

// Parametric reports whether the preset describes an x/y/z triple.
func (p Preset) Parametric() bool {
	return p.X != "" || p.Y != "" || p.Z != ""
}

// Validate checks the shape of the preset. Formulas are compiled so a bad
// preset is caught when it is loaded rather than when it is applied.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	if p.Parametric() {
		if len(p.Expressions) > 0 {
			return fmt.Errorf("%w: %q mixes grid expressions with x/y/z", ErrInvalid, p.Name)
		}
		for _, src := range []string{p.X, p.Y, p.Z} {
			if _, err := expr.Compile(src, "u", "v"); err != nil {
				return fmt.Errorf("%w: %q: %w", ErrInvalid, p.Name, err)
			}
		}
		if p.UMin.Value == p.UMax.Value || p.VMin.Value == p.VMax.Value {
			return fmt.Errorf("%w: %q has an empty u or v range", ErrInvalid, p.Name)
		}
		return nil
	}

	if n := len(p.Expressions); n < 1 || n > 2 {
		return fmt.Errorf("%w: %q needs one or two expressions, has %d", ErrInvalid, p.Name, n)
	}
	for _, src := range p.Expressions {
		if _, err := expr.Compile(src, "x", "y", "t"); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalid, p.Name, err)
		}
	}
	return nil
}
