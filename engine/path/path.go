package path

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrTooFewPoints is returned when a path is built from fewer than two control points.
var ErrTooFewPoints = errors.New("path needs at least two control points")

// Path is a smooth open curve through an ordered list of control points, sampled by
// normalized arc length. A Path is immutable once built and safe for concurrent reads.
type Path interface {
	// PositionAt returns the point at fraction u of the path's arc length.
	// u is clamped to [0, 1], so PositionAt(0) is the first control point and
	// any u >= 1 yields the last control point.
	//
	// Parameters:
	//   - u: normalized arc-length parameter
	//
	// Returns:
	//   - mgl64.Vec3: the point on the curve
	PositionAt(u float64) mgl64.Vec3

	// TangentAt returns the unit tangent at fraction u of the path's arc length.
	//
	// Parameters:
	//   - u: normalized arc-length parameter, clamped to [0, 1]
	//
	// Returns:
	//   - mgl64.Vec3: the normalized direction of travel
	TangentAt(u float64) mgl64.Vec3

	// Length returns the approximate arc length measured by the lookup table.
	//
	// Returns:
	//   - float64: total arc length in world units
	Length() float64

	// ControlPoints returns a copy of the control points the path was built from.
	//
	// Returns:
	//   - []mgl64.Vec3: the control points in order
	ControlPoints() []mgl64.Vec3

	// FrenetFrames computes parallel-transported frames at segments+1 evenly spaced arc-length
	// positions, as used to sweep a tube along the path.
	//
	// Parameters:
	//   - segments: number of segments (must be >= 1)
	//
	// Returns:
	//   - Frames: tangents, normals and binormals, each of length segments+1
	FrenetFrames(segments int) Frames
}

// Frames holds one orthonormal frame per sample along a path.
type Frames struct {
	Tangents  []mgl64.Vec3
	Normals   []mgl64.Vec3
	Binormals []mgl64.Vec3
}

// pathImpl is the implementation of the Path interface.
type pathImpl struct {
	// points are the control points.
	points []mgl64.Vec3

	// curveType selects the Catmull-Rom parameterization.
	curveType CurveType

	// tension scales the uniform Catmull-Rom tangents.
	tension float64

	// arcDivisions is the number of samples in the arc-length lookup table.
	arcDivisions int

	// arcLengths[i] is the cumulative length at curve parameter i/arcDivisions.
	arcLengths []float64
}

var _ Path = &pathImpl{}

// NewPath builds a path through the given control points.
//
// Parameters:
//   - points: ordered control points (at least two)
//   - options: functional options to configure the curve
//
// Returns:
//   - Path: the built path
//   - error: ErrTooFewPoints if fewer than two points are given, or an invalid option value
func NewPath(points []mgl64.Vec3, options ...PathBuilderOption) (Path, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	p := &pathImpl{
		points:       append([]mgl64.Vec3(nil), points...),
		curveType:    CatmullRom,
		tension:      0.5,
		arcDivisions: 200,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.arcDivisions < 1 {
		return nil, fmt.Errorf("arc divisions must be at least 1, got %d", p.arcDivisions)
	}
	if p.curveType < CatmullRom || p.curveType > Chordal {
		return nil, fmt.Errorf("unknown curve type %d", p.curveType)
	}
	p.arcLengths = p.computeArcLengths()
	return p, nil
}

func (p *pathImpl) PositionAt(u float64) mgl64.Vec3 {
	return p.pointAtT(p.uToT(clamp01(u)))
}

func (p *pathImpl) TangentAt(u float64) mgl64.Vec3 {
	return p.tangentAtT(p.uToT(clamp01(u)))
}

func (p *pathImpl) Length() float64 {
	return p.arcLengths[len(p.arcLengths)-1]
}

func (p *pathImpl) ControlPoints() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), p.points...)
}

// pointAtT evaluates the spline at curve parameter t in [0, 1], where each segment between
// consecutive control points spans an equal share of t.
func (p *pathImpl) pointAtT(t float64) mgl64.Vec3 {
	n := len(p.points)
	pos := float64(n-1) * t
	seg := int(math.Floor(pos))
	weight := pos - float64(seg)
	if seg >= n-1 {
		seg = n - 2
		weight = 1
	}

	p1 := p.points[seg]
	p2 := p.points[seg+1]
	var p0, p3 mgl64.Vec3
	if seg > 0 {
		p0 = p.points[seg-1]
	} else {
		p0 = p1.Mul(2).Sub(p2)
	}
	if seg+2 < n {
		p3 = p.points[seg+2]
	} else {
		p3 = p2.Mul(2).Sub(p1)
	}

	var out mgl64.Vec3
	switch p.curveType {
	case Centripetal, Chordal:
		exp := 0.25
		if p.curveType == Chordal {
			exp = 0.5
		}
		dt0 := math.Pow(distSq(p0, p1), exp)
		dt1 := math.Pow(distSq(p1, p2), exp)
		dt2 := math.Pow(distSq(p2, p3), exp)
		if dt1 < 1e-4 {
			dt1 = 1
		}
		if dt0 < 1e-4 {
			dt0 = dt1
		}
		if dt2 < 1e-4 {
			dt2 = dt1
		}
		for i := range 3 {
			out[i] = nonuniformCubic(p0[i], p1[i], p2[i], p3[i], dt0, dt1, dt2).at(weight)
		}
	default:
		for i := range 3 {
			out[i] = uniformCubic(p0[i], p1[i], p2[i], p3[i], p.tension).at(weight)
		}
	}
	return out
}

// tangentAtT differentiates the spline numerically around t.
func (p *pathImpl) tangentAtT(t float64) mgl64.Vec3 {
	const delta = 1e-4
	t1 := math.Max(t-delta, 0)
	t2 := math.Min(t+delta, 1)
	d := p.pointAtT(t2).Sub(p.pointAtT(t1))
	if d.Len() == 0 {
		return p.points[len(p.points)-1].Sub(p.points[0]).Normalize()
	}
	return d.Normalize()
}

func (p *pathImpl) computeArcLengths() []float64 {
	lengths := make([]float64, p.arcDivisions+1)
	last := p.pointAtT(0)
	sum := 0.0
	for i := 1; i <= p.arcDivisions; i++ {
		cur := p.pointAtT(float64(i) / float64(p.arcDivisions))
		sum += cur.Sub(last).Len()
		lengths[i] = sum
		last = cur
	}
	return lengths
}

// uToT maps a normalized arc-length parameter onto the curve parameter by binary search
// over the lookup table, interpolating linearly between samples.
func (p *pathImpl) uToT(u float64) float64 {
	lengths := p.arcLengths
	last := len(lengths) - 1
	target := u * lengths[last]

	low, high := 0, last
	for low <= high {
		i := low + (high-low)/2
		switch c := lengths[i] - target; {
		case c < 0:
			low = i + 1
		case c > 0:
			high = i - 1
		default:
			return float64(i) / float64(last)
		}
	}

	i := high
	if i < 0 {
		return 0
	}
	if i >= last {
		return 1
	}
	segLen := lengths[i+1] - lengths[i]
	if segLen == 0 {
		return float64(i) / float64(last)
	}
	frac := (target - lengths[i]) / segLen
	return (float64(i) + frac) / float64(last)
}

func clamp01(u float64) float64 {
	if math.IsNaN(u) || u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}

func distSq(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
