// Package colour provides the palette extraction engine: colour-space
// conversion, the anchor slot table, nearest-anchor assignment, parallel
// bucket accumulation and palette finishing.
package colour

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxLightness is the upper bound of the L channel of a Lab colour.
const MaxLightness = 1.0

// Lab is a colour in the OKLab perceptual space.
// L is lightness in [0, MaxLightness]; A and B are the green-red and
// blue-yellow opponent axes and stay small (|A|, |B| < 0.5) for sRGB input.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// FromRGB converts an sRGB-encoded byte triple to OKLab.
// The path is sRGB -> linear light -> XYZ (D65) -> OKLab.
func FromRGB(rgb RGB) Lab {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	l, a, b := c.OkLab()
	return Lab{L: l, A: a, B: b}
}

// RGB converts the colour back to sRGB bytes.
// Out-of-gamut colours are clamped to the sRGB cube and every channel is
// rounded half up. A NaN colour maps to black.
func (c Lab) RGB() RGB {
	if c.IsNaN() {
		return RGB{}
	}
	r, g, b := colorful.OkLab(c.L, c.A, c.B).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Hex returns the colour as a lowercase "#rrggbb" string.
func (c Lab) Hex() string {
	return c.RGB().Hex()
}

// String returns the colour as "lab(L, a, b)".
func (c Lab) String() string {
	return fmt.Sprintf("lab(%.4f, %.4f, %.4f)", c.L, c.A, c.B)
}

// IsNaN reports whether any channel is NaN.
func (c Lab) IsNaN() bool {
	return math.IsNaN(c.L) || math.IsNaN(c.A) || math.IsNaN(c.B)
}

// DistanceSquared returns the squared Euclidean distance between two colours.
// It is used as the assignment metric; the square root is never needed for
// ordering.
func (c Lab) DistanceSquared(o Lab) float64 {
	dl := c.L - o.L
	da := c.A - o.A
	db := c.B - o.B
	return dl*dl + da*da + db*db
}

// LCh returns the cylindrical form of the colour: lightness, chroma and hue
// in degrees [0, 360). Achromatic colours report a hue of 0.
func (c Lab) LCh() (l, chroma, hue float64) {
	chroma = math.Hypot(c.A, c.B)
	if chroma == 0 {
		return c.L, 0, 0
	}
	hue = math.Atan2(c.B, c.A) * 180 / math.Pi
	if hue < 0 {
		hue += 360
	}
	return c.L, chroma, hue
}

// FromLCh builds a Lab colour from lightness, chroma and hue in degrees.
func FromLCh(l, chroma, hue float64) Lab {
	rad := hue * math.Pi / 180
	return Lab{
		L: l,
		A: chroma * math.Cos(rad),
		B: chroma * math.Sin(rad),
	}
}

// ParseHex parses a "#rrggbb" or "#rgb" string into an RGB value.
func ParseHex(s string) (RGB, error) {
	if (len(s) != 7 && len(s) != 4) || s[0] != '#' || strings.Trim(s[1:], "0123456789abcdefABCDEF") != "" {
		return RGB{}, fmt.Errorf("invalid hex colour %q: want #rrggbb or #rgb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}
