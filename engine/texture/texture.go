// Package texture generates the images sampled by the tunnel pipelines: the tiling wall texture and
// the particle sprite.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	xdraw "golang.org/x/image/draw"
)

// MaxSize is the largest edge a loaded wall image is kept at; bigger images are downscaled.
const MaxSize = 2048

// Tube returns the wall texture. A non-empty path is decoded from disk; otherwise a procedural
// texture of size×size is generated from seed.
//
// Parameters:
//   - path: optional PNG or JPEG file
//   - size: procedural texture edge in pixels
//   - seed: procedural random seed
//   - base: nebula base color
//   - accent: nebula accent color
//
// Returns:
//   - *common.TextureStagingData: RGBA pixels ready for upload
//   - error: decode failure for a file texture
func Tube(path string, size int, seed uint64, base, accent common.Color) (*common.TextureStagingData, error) {
	if path == "" {
		return common.NewTextureStagingData(Procedural(size, seed, base, accent)), nil
	}
	staged, err := common.ImageSource{Path: path}.Decode()
	if err != nil {
		return nil, fmt.Errorf("tube texture: %w", err)
	}
	if staged.Width <= MaxSize && staged.Height <= MaxSize {
		return staged, nil
	}
	return downscale(staged), nil
}

// Procedural renders a seamlessly tiling star field over soft nebula bands.
// Bands are built from whole-period sinusoids and stars wrap around the edges, so the image tiles
// in both directions.
//
// Parameters:
//   - size: edge length in pixels, clamped to [16, MaxSize]
//   - seed: random seed for the star placement and band phases
//   - base: nebula base color
//   - accent: nebula accent color
//
// Returns:
//   - *image.RGBA: the rendered texture
func Procedural(size int, seed uint64, base, accent common.Color) *image.RGBA {
	size = common.Clamp(size, 16, MaxSize)
	rng := rand.New(rand.NewPCG(seed, seed+1))
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	var phase [4]float64
	for i := range phase {
		phase[i] = rng.Float64() * 2 * math.Pi
	}
	for y := range size {
		v := float64(y) / float64(size) * 2 * math.Pi
		for x := range size {
			u := float64(x) / float64(size) * 2 * math.Pi
			n := 0.5 +
				0.25*math.Sin(2*u+phase[0])*math.Cos(v+phase[1]) +
				0.15*math.Sin(3*v+phase[2]) +
				0.10*math.Cos(5*u+3*v+phase[3])
			n = common.Clamp(n, 0, 1)
			brightness := 0.25 + 0.35*n*n
			c := common.Color{
				R: float32(common.Lerp(float64(base.R), float64(accent.R), n) * brightness),
				G: float32(common.Lerp(float64(base.G), float64(accent.G), n) * brightness),
				B: float32(common.Lerp(float64(base.B), float64(accent.B), n) * brightness),
				A: 1,
			}
			img.Set(x, y, c.NRGBA())
		}
	}

	stars := size * size / 96
	for range stars {
		cx, cy := rng.IntN(size), rng.IntN(size)
		intensity := 0.4 + 0.6*rng.Float64()
		radius := 0
		if rng.IntN(12) == 0 {
			radius = 1
		}
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				falloff := intensity
				if dx != 0 || dy != 0 {
					falloff *= 0.35
				}
				addWrapped(img, cx+dx, cy+dy, falloff)
			}
		}
	}
	return img
}

// addWrapped brightens the pixel at (x, y) modulo the image size toward white.
func addWrapped(img *image.RGBA, x, y int, amount float64) {
	b := img.Bounds()
	x = ((x % b.Dx()) + b.Dx()) % b.Dx()
	y = ((y % b.Dy()) + b.Dy()) % b.Dy()
	c := img.RGBAAt(x, y)
	lift := func(v uint8) uint8 {
		return uint8(common.Clamp(float64(v)+(255-float64(v))*amount, 0, 255))
	}
	img.SetRGBA(x, y, color.RGBA{R: lift(c.R), G: lift(c.G), B: lift(c.B), A: 255})
}

// downscale resamples staged pixels so the longer edge equals MaxSize.
func downscale(s *common.TextureStagingData) *common.TextureStagingData {
	src := &image.RGBA{
		Pix:    s.Pixels,
		Stride: int(s.Width) * 4,
		Rect:   image.Rect(0, 0, int(s.Width), int(s.Height)),
	}
	scale := float64(MaxSize) / float64(max(s.Width, s.Height))
	w := max(1, int(math.Round(float64(s.Width)*scale)))
	h := max(1, int(math.Round(float64(s.Height)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return common.NewTextureStagingData(dst)
}
