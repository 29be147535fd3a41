package common

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is optional).
// Three-digit colors expand each nibble, so "#abc" equals "#aabbcc".
//
// Parameters:
//   - s: the hex color string
//
// Returns:
//   - Color: the parsed color with alpha 1 unless specified
//   - error: error if the string is not a valid hex color
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	a := uint64(0xff)
	if len(hex) == 8 {
		a = v & 0xff
		v >>= 8
	}
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
		A: float32(a) / 255,
	}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants. It panics on malformed input.
func MustParseHexColor(s string) Color {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns a copy of c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Scale multiplies the RGB components by k, leaving alpha unchanged.
func (c Color) Scale(k float32) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

// Array returns the color as [r, g, b, a] for GPU uniform upload.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// NRGBA converts the color to an 8-bit non-premultiplied image color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

func to8(v float32) uint8 {
	return uint8(Clamp(v, 0, 1)*255 + 0.5)
}
