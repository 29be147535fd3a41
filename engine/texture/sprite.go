package texture

import (
	"image"
	"math"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"golang.org/x/image/vector"
)

// Sprite renders the particle sprite: a spiky star with a bright core and radial falloff.
// The star is rasterised with an anti-aliased polygon fill, then every pixel is scaled by
// (1 - r/R)^2 so the edges fade to transparent.
//
// Parameters:
//   - size: edge length in pixels, clamped to [8, 512]
//   - spikes: number of star points, clamped to at least 3
//   - tint: sprite color
//
// Returns:
//   - *image.RGBA: premultiplied RGBA sprite
func Sprite(size, spikes int, tint common.Color) *image.RGBA {
	size = common.Clamp(size, 8, 512)
	spikes = max(spikes, 3)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	c := float32(size) / 2
	outer := c * 0.98
	inner := c * 0.18

	z := vector.NewRasterizer(size, size)
	for i := range spikes * 2 {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := float64(i) * math.Pi / float64(spikes)
		x := c + r*float32(math.Cos(a))
		y := c + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()

	// Core disc.
	const segments = 32
	core := c * 0.3
	for i := range segments {
		a := float64(i) * 2 * math.Pi / segments
		x := c + core*float32(math.Cos(a))
		y := c + core*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()

	z.Draw(img, img.Bounds(), image.NewUniform(tint.NRGBA()), image.Point{})
	applyFalloff(img, c)
	return img
}

// applyFalloff scales each premultiplied pixel by its radial falloff around the center.
func applyFalloff(img *image.RGBA, center float32) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x) + 0.5 - float64(center)
			dy := float64(y) + 0.5 - float64(center)
			f := 1 - math.Sqrt(dx*dx+dy*dy)/float64(center)
			f = common.Clamp(f, 0, 1)
			f *= f
			i := img.PixOffset(x, y)
			for k := range 4 {
				img.Pix[i+k] = uint8(float64(img.Pix[i+k]) * f)
			}
		}
	}
}
