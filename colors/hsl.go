package colors

import (
	"math"

	"surface-engine/core"
)

// FromHSL converts fractional HSL to a float color. Hue is in turns and wraps
// into [0,1); saturation and lightness are clamped to [0,1].
func FromHSL(h, s, l float64) core.Color {
	h = WrapHue(h)
	s = clamp01(s)
	l = clamp01(l)

	if s == 0 {
		v := float32(l)
		return core.RGB(v, v, v)
	}

	var hi float64
	if l <= 0.5 {
		hi = l * (1 + s)
	} else {
		hi = l + s - l*s
	}
	lo := 2*l - hi

	return core.RGB(
		float32(clamp01(hueChannel(lo, hi, h+1.0/3))),
		float32(clamp01(hueChannel(lo, hi, h))),
		float32(clamp01(hueChannel(lo, hi, h-1.0/3))),
	)
}

func hueChannel(lo, hi, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return lo + (hi-lo)*6*t
	case t < 0.5:
		return hi
	case t < 2.0/3:
		return lo + (hi-lo)*6*(2.0/3-t)
	}
	return lo
}

// ToHSL returns the fractional hue, saturation and lightness of c.
func ToHSL(c core.Color) (h, s, l float64) {
	return hslFractions(
		clamp01(float64(c.R)),
		clamp01(float64(c.G)),
		clamp01(float64(c.B)),
	)
}

// ParseTheme turns a hex theme color into a float color.
func ParseTheme(hex string) core.Color {
	c := HexToRGB(hex)
	return core.RGB(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255)
}

// WrapHue maps any hue in turns into [0,1).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	if h >= 1 {
		h = 0
	}
	return h
}

func hslFractions(r, g, b float64) (h, s, l float64) {
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l = (hi + lo) / 2
	if hi == lo {
		return 0, 0, l
	}

	d := hi - lo
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}
	switch hi {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
