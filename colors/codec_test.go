package colors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToRGB(t *testing.T) {
	cases := map[string]RGB{
		"#ff8000": {255, 128, 0},
		"FF8000":  {255, 128, 0},
		"#f80":    {255, 136, 0},
		"abc":     {170, 187, 204},
		"#000000": {0, 0, 0},
	}
	for in, want := range cases {
		assert.Equal(t, want, HexToRGB(in), in)
	}
}

func TestIsHex(t *testing.T) {
	for _, ok := range []string{"#fff", "FFF", "#a1b2c3", " 00ff00 "} {
		assert.True(t, IsHex(ok), ok)
	}
	for _, bad := range []string{"", "#", "#ff", "#ggg", "#12345", "#1234567", "+fff"} {
		assert.False(t, IsHex(bad), bad)
	}
}

func TestRGBToHexPadsAndLowercases(t *testing.T) {
	assert.Equal(t, "#0a0b0c", RGBToHex(RGB{10, 11, 12}))
	assert.Equal(t, "#ffffff", RGBToHex(RGB{255, 255, 255}))
	assert.Equal(t, "#ff0000", RGBToHex(RGB{300, -4, 0}))
}

func TestHexRoundTrip(t *testing.T) {
	for _, hex := range []string{"#000000", "#ffffff", "#12abef", "#7f7f7f", "#c0ffee", "#00ff01"} {
		assert.Equal(t, hex, RGBToHex(HexToRGB(hex)))
	}
}

func TestHexToHSLKnownValues(t *testing.T) {
	assert.Equal(t, HSL{0, 100, 50}, HexToHSL("#ff0000"))
	assert.Equal(t, HSL{120, 100, 50}, HexToHSL("#00ff00"))
	assert.Equal(t, HSL{240, 100, 50}, HexToHSL("#0000ff"))
	assert.Equal(t, HSL{0, 0, 50}, HexToHSL("#808080"))
	assert.Equal(t, HSL{0, 0, 100}, HexToHSL("#ffffff"))
}

func TestHSLToHexKnownValues(t *testing.T) {
	assert.Equal(t, "#ff0000", HSLToHex(HSL{0, 100, 50}))
	assert.Equal(t, "#00ff00", HSLToHex(HSL{120, 100, 50}))
	assert.Equal(t, "#0000ff", HSLToHex(HSL{240, 100, 50}))
	assert.Equal(t, "#ffffff", HSLToHex(HSL{0, 0, 100}))
	assert.Equal(t, "#000000", HSLToHex(HSL{200, 80, 0}))
}

func TestHSLRoundTripWithinOneUnit(t *testing.T) {
	for h := 0; h < 360; h += 7 {
		for s := 60; s <= 100; s += 10 {
			for l := 40; l <= 60; l += 5 {
				in := HSL{h, s, l}
				out := RGBToHSL(HSLToRGB(in))

				dh := math.Abs(float64(out.H - in.H))
				dh = math.Min(dh, 360-dh)
				require.LessOrEqual(t, dh, 1.0, "hue of %v -> %v", in, out)
				require.LessOrEqual(t, math.Abs(float64(out.S-in.S)), 1.0, "saturation of %v -> %v", in, out)
				require.LessOrEqual(t, math.Abs(float64(out.L-in.L)), 1.0, "lightness of %v -> %v", in, out)
			}
		}
	}
}

func TestHueStaysBelow360(t *testing.T) {
	for r := 250; r <= 255; r++ {
		for b := 0; b < 6; b++ {
			h := RGBToHSL(RGB{255, 0, r - 250 + b})
			assert.GreaterOrEqual(t, h.H, 0)
			assert.Less(t, h.H, 360)
		}
	}
}

func TestDarkenLighten(t *testing.T) {
	assert.Equal(t, "#000000", Darken("#abcdef", 1))
	assert.Equal(t, "#abcdef", Darken("#abcdef", 0))
	assert.Equal(t, "#7f4000", Darken("#ff8000", 0.5))

	assert.Equal(t, "#ffffff", Lighten("#123456", 1))
	assert.Equal(t, "#123456", Lighten("#123456", 0))
	assert.Equal(t, "#ffbf7f", Lighten("#ff8000", 0.5))
}

func TestNewPalette(t *testing.T) {
	p := NewPalette("#F80")
	assert.Equal(t, "#ff8800", p.Base)
	assert.Equal(t, Darken("#ff8800", 0.4), p.Dark)
	assert.Equal(t, Lighten("#ff8800", 0.3), p.Light)
}
