// Package colors converts between hex, 8-bit RGB and HSL, and derives shades
// of the theme color. Every function is pure.
package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is an 8-bit color with channels in [0,255].
type RGB struct {
	R, G, B int
}

// HSL uses degrees for H in [0,360) and percent for S and L in [0,100].
type HSL struct {
	H, S, L int
}

// HexToRGB accepts "#rgb", "rgb", "#rrggbb" or "rrggbb" in any case.
// Malformed input is not validated and yields black.
func HexToRGB(hex string) RGB {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		var b strings.Builder
		for _, c := range hex {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		hex = b.String()
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}
	}
	return RGB{
		R: int(v>>16) & 0xff,
		G: int(v>>8) & 0xff,
		B: int(v) & 0xff,
	}
}

// IsHex reports whether s is a 3 or 6 digit hex color, with or without "#".
func IsHex(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

// RGBToHex always returns the lower-case, zero-padded "#rrggbb" form.
func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(c.R), clampByte(c.G), clampByte(c.B))
}

// RGBToHSL rounds every component to the nearest integer, so
// HSLToRGB(RGBToHSL(c)) may differ from c by a few levels per channel.
func RGBToHSL(c RGB) HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	h, s, l := hslFractions(r, g, b)

	deg := int(math.Round(h * 360))
	if deg >= 360 {
		deg -= 360
	}
	return HSL{
		H: deg,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// HSLToRGB evaluates each channel with the k/a/f closed form.
func HSLToRGB(c HSL) RGB {
	h := float64(c.H)
	s := float64(c.S) / 100
	l := float64(c.L) / 100

	a := s * math.Min(l, 1-l)
	f := func(n float64) int {
		k := math.Mod(n+h/30, 12)
		if k < 0 {
			k += 12
		}
		v := l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
		return clampByte(int(math.Round(255 * v)))
	}
	return RGB{R: f(0), G: f(8), B: f(4)}
}

func HexToHSL(hex string) HSL {
	return RGBToHSL(HexToRGB(hex))
}

func HSLToHex(c HSL) string {
	return RGBToHex(HSLToRGB(c))
}

// Darken scales every channel toward 0; amount is in [0,1].
func Darken(hex string, amount float64) string {
	c := HexToRGB(hex)
	scale := func(v int) int {
		return int(math.Floor(float64(v) * (1 - amount)))
	}
	return RGBToHex(RGB{R: scale(c.R), G: scale(c.G), B: scale(c.B)})
}

// Lighten moves every channel toward 255 by amount of the remaining headroom.
func Lighten(hex string, amount float64) string {
	c := HexToRGB(hex)
	scale := func(v int) int {
		return min(255, int(math.Floor(float64(v)+float64(255-v)*amount)))
	}
	return RGBToHex(RGB{R: scale(c.R), G: scale(c.G), B: scale(c.B)})
}

// Palette is the set of shades derived from one theme color.
type Palette struct {
	Base       string
	Dark       string
	Light      string
	Background string
}

func NewPalette(hex string) Palette {
	base := RGBToHex(HexToRGB(hex))
	return Palette{
		Base:       base,
		Dark:       Darken(base, 0.4),
		Light:      Lighten(base, 0.3),
		Background: Darken(base, 0.88),
	}
}

func clampByte(v int) int {
	return max(0, min(255, v))
}
