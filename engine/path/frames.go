package path

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func (p *pathImpl) FrenetFrames(segments int) Frames {
	if segments < 1 {
		segments = 1
	}
	f := Frames{
		Tangents:  make([]mgl64.Vec3, segments+1),
		Normals:   make([]mgl64.Vec3, segments+1),
		Binormals: make([]mgl64.Vec3, segments+1),
	}
	for i := 0; i <= segments; i++ {
		f.Tangents[i] = p.TangentAt(float64(i) / float64(segments))
	}

	// Seed the first normal from the axis least aligned with the first tangent.
	t0 := f.Tangents[0]
	minAbs := math.MaxFloat64
	var seed mgl64.Vec3
	if a := math.Abs(t0.X()); a <= minAbs {
		minAbs = a
		seed = mgl64.Vec3{1, 0, 0}
	}
	if a := math.Abs(t0.Y()); a <= minAbs {
		minAbs = a
		seed = mgl64.Vec3{0, 1, 0}
	}
	if a := math.Abs(t0.Z()); a <= minAbs {
		seed = mgl64.Vec3{0, 0, 1}
	}
	v := t0.Cross(seed).Normalize()
	f.Normals[0] = t0.Cross(v)
	f.Binormals[0] = t0.Cross(f.Normals[0])

	// Parallel transport: rotate the previous normal by the turn between consecutive tangents.
	for i := 1; i <= segments; i++ {
		n := f.Normals[i-1]
		axis := f.Tangents[i-1].Cross(f.Tangents[i])
		if axis.Len() > 1e-12 {
			axis = axis.Normalize()
			theta := math.Acos(clamp(f.Tangents[i-1].Dot(f.Tangents[i]), -1, 1))
			n = mgl64.QuatRotate(theta, axis).Rotate(n)
		}
		f.Normals[i] = n
		f.Binormals[i] = f.Tangents[i].Cross(n)
	}
	return f
}

// FromTriples converts raw control point triples into vectors. axisOrder "xzy" reads each
// triple as (x, z, y), so [a, b, c] becomes (a, c, b); "xyz" keeps the triple as is.
//
// Parameters:
//   - triples: raw control points
//   - axisOrder: "xyz" or "xzy"
//
// Returns:
//   - []mgl64.Vec3: the control points in world axes
//   - error: error if axisOrder is unknown
func FromTriples(triples [][3]float64, axisOrder string) ([]mgl64.Vec3, error) {
	out := make([]mgl64.Vec3, len(triples))
	for i, t := range triples {
		switch axisOrder {
		case "xyz", "":
			out[i] = mgl64.Vec3{t[0], t[1], t[2]}
		case "xzy":
			out[i] = mgl64.Vec3{t[0], t[2], t[1]}
		default:
			return nil, fmt.Errorf("unknown axis order %q", axisOrder)
		}
	}
	return out, nil
}

// ReorderXZY reads each triple as (x, z, y), the layout of the tunnel control point table.
func ReorderXZY(triples [][3]float64) []mgl64.Vec3 {
	out, _ := FromTriples(triples, "xzy")
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
