package textures

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStyle is returned for a Style outside the declared set.
var ErrUnknownStyle = errors.New("textures: unknown style")

// Style selects how sampled points become a drawable mesh.
type Style int

const (
	// FilledShaded is a lit triangle surface with a height-to-hue rainbow.
	FilledShaded Style = iota
	// PlainWireframe is the triangle mesh drawn as lines in one theme color.
	PlainWireframe
	// GradientWireframe is the grid's row and column segments, each end
	// colored around the theme color.
	GradientWireframe
	// GlitchWireframe is every triangle edge on a fixed blue-to-magenta ramp.
	GlitchWireframe
	// AnimatedColorSurface starts as FilledShaded and recolors itself on
	// every Advance.
	AnimatedColorSurface
	// PlainColorSurface shades the theme color by height.
	PlainColorSurface
)

var styleNames = [...]string{
	FilledShaded:         "rainbow",
	PlainWireframe:       "wire_detailed",
	GradientWireframe:    "wire_gradient",
	GlitchWireframe:      "wire_glitch",
	AnimatedColorSurface: "animated_rainbow",
	PlainColorSurface:    "plain_color",
}

// styleAliases holds alternate spellings found in saved presets.
var styleAliases = map[string]Style{
	"wire_detailled": PlainWireframe,
}

// Styles lists every style in declaration order.
func Styles() []Style {
	out := make([]Style, len(styleNames))
	for i := range styleNames {
		out[i] = Style(i)
	}
	return out
}

func (s Style) Valid() bool {
	return s >= 0 && int(s) < len(styleNames)
}

func (s Style) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// Lines reports whether the style produces a DrawLines mesh.
func (s Style) Lines() bool {
	return s == GradientWireframe || s == GlitchWireframe
}

func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	if s, ok := styleAliases[name]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStyle, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
