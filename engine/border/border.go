// Package border renders the animated "electric" border: a rounded rectangle whose stroke is
// pushed in and out along its normals by scrolling fractal noise, with soft glow layers.
package border

import (
	"image"
	"math"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/go-gl/mathgl/mgl64"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const (
	// basePeriod is the loop length in seconds at speed 1.
	basePeriod = 6.0
	// baseFrequency is the noise frequency in cycles per pixel.
	baseFrequency = 0.025
	// displacementPerChaos is the displacement map scale per unit of chaos.
	displacementPerChaos = 30.0
)

// side identifies the edge a sample belongs to; each edge scrolls its own noise field.
type side int

const (
	sideTop side = iota
	sideRight
	sideBottom
	sideLeft
)

// sample is one point of the undisplaced outline.
type sample struct {
	p, n mgl64.Vec2
	side side
}

// glowLayer is one blurred copy of the stroke drawn under it.
type glowLayer struct {
	blur    float64
	opacity float64
}

// Border is an animated electric border around a width×height box. The rendered image is larger
// than the box by Margin on every side so the displaced stroke and its glow fit.
type Border interface {
	// Size returns the rendered image size.
	//
	// Returns:
	//   - int: image width in pixels
	//   - int: image height in pixels
	Size() (int, int)

	// Margin returns the padding between the image edge and the box.
	Margin() float64

	// Period returns the animation loop length in seconds.
	Period() float64

	// Outline returns the displaced outline at time t, in image coordinates, as a closed polyline.
	//
	// Parameters:
	//   - t: time in seconds
	//
	// Returns:
	//   - []mgl64.Vec2: outline points
	Outline(t float64) []mgl64.Vec2

	// Render rasterises the stroke and its glow at time t.
	//
	// Parameters:
	//   - t: time in seconds
	//
	// Returns:
	//   - *image.RGBA: the frame, transparent outside the stroke
	Render(t float64) *image.RGBA
}

// borderImpl is the implementation of the Border interface.
type borderImpl struct {
	width, height int
	color         common.Color
	speed         float64
	chaos         float64
	thickness     float64
	cornerRadius  float64
	step          float64
	seed          uint64
	glow          bool

	margin  float64
	samples []sample
}

var _ Border = &borderImpl{}

// NewBorder creates a border around a width×height box.
//
// Parameters:
//   - width: box width in pixels (at least 1)
//   - height: box height in pixels (at least 1)
//   - options: functional options
//
// Returns:
//   - Border: the border
//   - error: an invalid color option
func NewBorder(width, height int, options ...BorderBuilderOption) (Border, error) {
	b := &borderImpl{
		width:        max(width, 1),
		height:       max(height, 1),
		color:        common.MustParseHexColor("#5227FF"),
		speed:        1,
		chaos:        1,
		thickness:    2,
		cornerRadius: 16,
		step:         2,
		seed:         1,
		glow:         true,
	}
	var err error
	for _, opt := range options {
		if optErr := opt(b); optErr != nil && err == nil {
			err = optErr
		}
	}
	if err != nil {
		return nil, err
	}
	b.margin = math.Ceil(b.chaos*displacementPerChaos/2 + 2*b.thickness + 8)
	b.samples = b.buildSamples()
	return b, nil
}

func (b *borderImpl) Size() (int, int) {
	m := int(2 * b.margin)
	return b.width + m, b.height + m
}

func (b *borderImpl) Margin() float64 {
	return b.margin
}

func (b *borderImpl) Period() float64 {
	if b.speed <= 0 {
		return basePeriod
	}
	return math.Max(0.001, basePeriod/b.speed)
}

// buildSamples walks the rounded rectangle clockwise (in image space) starting at the top edge.
func (b *borderImpl) buildSamples() []sample {
	x0, y0 := b.margin, b.margin
	x1, y1 := x0+float64(b.width), y0+float64(b.height)
	r := common.Clamp(b.cornerRadius, 0, math.Min(float64(b.width), float64(b.height))/2)

	var out []sample
	edge := func(from, to, n mgl64.Vec2, s side) {
		steps := max(1, int(math.Ceil(to.Sub(from).Len()/b.step)))
		for i := range steps {
			p := from.Add(to.Sub(from).Mul(float64(i) / float64(steps)))
			out = append(out, sample{p: p, n: n, side: s})
		}
	}
	arc := func(c mgl64.Vec2, a0 float64, s0, s1 side) {
		if r == 0 {
			return
		}
		steps := max(1, int(math.Ceil(r*math.Pi/2/b.step)))
		for i := range steps {
			a := a0 + math.Pi/2*float64(i)/float64(steps)
			n := mgl64.Vec2{math.Cos(a), math.Sin(a)}
			s := s0
			if i*2 >= steps {
				s = s1
			}
			out = append(out, sample{p: c.Add(n.Mul(r)), n: n, side: s})
		}
	}

	edge(mgl64.Vec2{x0 + r, y0}, mgl64.Vec2{x1 - r, y0}, mgl64.Vec2{0, -1}, sideTop)
	arc(mgl64.Vec2{x1 - r, y0 + r}, -math.Pi/2, sideTop, sideRight)
	edge(mgl64.Vec2{x1, y0 + r}, mgl64.Vec2{x1, y1 - r}, mgl64.Vec2{1, 0}, sideRight)
	arc(mgl64.Vec2{x1 - r, y1 - r}, 0, sideRight, sideBottom)
	edge(mgl64.Vec2{x1 - r, y1}, mgl64.Vec2{x0 + r, y1}, mgl64.Vec2{0, 1}, sideBottom)
	arc(mgl64.Vec2{x0 + r, y1 - r}, math.Pi/2, sideBottom, sideLeft)
	edge(mgl64.Vec2{x0, y1 - r}, mgl64.Vec2{x0, y0 + r}, mgl64.Vec2{-1, 0}, sideLeft)
	arc(mgl64.Vec2{x0 + r, y0 + r}, math.Pi, sideLeft, sideTop)
	return out
}

// displacement returns the signed normal offset of s at animation phase in [0, 1).
// Top and bottom noise scroll vertically by the box height per loop, left and right
// horizontally by the box width.
func (b *borderImpl) displacement(s sample, phase float64) float64 {
	if b.chaos == 0 {
		return 0
	}
	w, h := float64(b.width), float64(b.height)
	x, y := s.p.X(), s.p.Y()
	switch s.side {
	case sideTop:
		y += h * (1 - phase)
	case sideBottom:
		y -= h * phase
	case sideLeft:
		x += w * (1 - phase)
	case sideRight:
		x -= w * phase
	}
	n := turbulence(x*baseFrequency, y*baseFrequency, b.seed+uint64(s.side))
	return b.chaos * displacementPerChaos * (n - 0.5)
}

func (b *borderImpl) phase(t float64) float64 {
	period := b.Period()
	ph := math.Mod(t, period) / period
	if ph < 0 {
		ph++
	}
	return ph
}

func (b *borderImpl) Outline(t float64) []mgl64.Vec2 {
	ph := b.phase(t)
	out := make([]mgl64.Vec2, len(b.samples))
	for i, s := range b.samples {
		out[i] = s.p.Add(s.n.Mul(b.displacement(s, ph)))
	}
	return out
}

func (b *borderImpl) Render(t float64) *image.RGBA {
	w, h := b.Size()
	bounds := image.Rect(0, 0, w, h)
	mask := strokeMask(b.Outline(t), b.thickness, w, h)

	out := image.NewRGBA(bounds)
	if b.glow {
		layers := []glowLayer{
			{blur: 4 + b.thickness, opacity: 0.3},
			{blur: 2 + b.thickness*0.5, opacity: 0.4},
			{blur: 0.5 + b.thickness*0.25, opacity: 0.6},
		}
		for _, l := range layers {
			src := image.NewUniform(b.color.WithAlpha(b.color.A * float32(l.opacity)).NRGBA())
			xdraw.DrawMask(out, bounds, src, image.Point{}, blurAlpha(mask, l.blur), image.Point{}, xdraw.Over)
		}
	}
	xdraw.DrawMask(out, bounds, image.NewUniform(b.color.NRGBA()), image.Point{}, mask, image.Point{}, xdraw.Over)
	return out
}

// strokeMask rasterises a closed polyline as a stroke of the given width. Each segment is a quad
// extended by half the width at both ends so neighbours overlap at the joints.
func strokeMask(pts []mgl64.Vec2, width float64, w, h int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if len(pts) < 2 {
		return mask
	}
	half := width / 2
	z := vector.NewRasterizer(w, h)
	for i := range pts {
		p0, p1 := pts[i], pts[(i+1)%len(pts)]
		d := p1.Sub(p0)
		l := d.Len()
		if l == 0 {
			continue
		}
		u := d.Mul(1 / l)
		nrm := mgl64.Vec2{-u.Y(), u.X()}.Mul(half)
		a := p0.Sub(u.Mul(half * 0.5))
		c := p1.Add(u.Mul(half * 0.5))
		quad := [4]mgl64.Vec2{a.Add(nrm), c.Add(nrm), c.Sub(nrm), a.Sub(nrm)}
		z.MoveTo(float32(quad[0].X()), float32(quad[0].Y()))
		for _, q := range quad[1:] {
			z.LineTo(float32(q.X()), float32(q.Y()))
		}
		z.ClosePath()
	}
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// blurAlpha softens a mask by shrinking it by the blur radius and scaling it back up.
func blurAlpha(mask *image.Alpha, radius float64) *image.Alpha {
	k := int(math.Round(radius))
	if k <= 1 {
		return mask
	}
	b := mask.Bounds()
	small := image.NewAlpha(image.Rect(0, 0, max(1, b.Dx()/k), max(1, b.Dy()/k)))
	xdraw.CatmullRom.Scale(small, small.Bounds(), mask, b, xdraw.Src, nil)
	out := image.NewAlpha(b)
	xdraw.BiLinear.Scale(out, b, small, small.Bounds(), xdraw.Src, nil)
	return out
}
