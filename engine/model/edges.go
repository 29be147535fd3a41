package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// edgePrecision is the position quantisation used to merge coincident vertices.
const edgePrecision = 1e4

type vertexKey [3]int64

type edgeKey struct {
	a, b vertexKey
}

type pendingEdge struct {
	normal mgl32.Vec3
	a, b   [3]float32
}

// Edges extracts the feature edges of a triangle mesh.
// An edge shared by two faces is kept when the angle between the face normals is at least
// thresholdDeg; an edge used by a single face is always kept. Vertices closer than 1e-4 are merged,
// so duplicated seam vertices do not produce spurious boundary edges. Degenerate faces are skipped.
//
// Parameters:
//   - mesh: the source mesh
//   - thresholdDeg: crease angle in degrees
//
// Returns:
//   - *LineSegments: the kept edges as a line list
func Edges(mesh *Mesh, thresholdDeg float64) *LineSegments {
	out := &LineSegments{}
	if mesh == nil {
		return out
	}
	thresholdDot := float32(math.Cos(thresholdDeg * math.Pi / 180))

	pending := make(map[edgeKey]pendingEdge)
	var order []edgeKey

	for f := 0; f+2 < len(mesh.Indices); f += 3 {
		var pos [3][3]float32
		var keys [3]vertexKey
		for k := range 3 {
			pos[k] = mesh.Vertices[mesh.Indices[f+k]].Position
			keys[k] = quantise(pos[k])
		}
		if keys[0] == keys[1] || keys[1] == keys[2] || keys[2] == keys[0] {
			continue
		}
		e1 := mgl32.Vec3(pos[1]).Sub(mgl32.Vec3(pos[0]))
		e2 := mgl32.Vec3(pos[2]).Sub(mgl32.Vec3(pos[0]))
		normal := e1.Cross(e2)
		if normal.Len() == 0 {
			continue
		}
		normal = normal.Normalize()

		for k := range 3 {
			next := (k + 1) % 3
			fwd := edgeKey{keys[k], keys[next]}
			rev := edgeKey{keys[next], keys[k]}
			if other, ok := pending[rev]; ok {
				if normal.Dot(other.normal) <= thresholdDot {
					out.Positions = append(out.Positions, other.a, other.b)
				}
				delete(pending, rev)
				continue
			}
			if _, ok := pending[fwd]; ok {
				// Non-manifold duplicate: keep the first occurrence.
				continue
			}
			pending[fwd] = pendingEdge{normal: normal, a: pos[k], b: pos[next]}
			order = append(order, fwd)
		}
	}

	for _, k := range order {
		if e, ok := pending[k]; ok {
			out.Positions = append(out.Positions, e.a, e.b)
		}
	}
	return out
}

func quantise(p [3]float32) vertexKey {
	return vertexKey{
		int64(math.Round(float64(p[0]) * edgePrecision)),
		int64(math.Round(float64(p[1]) * edgePrecision)),
		int64(math.Round(float64(p[2]) * edgePrecision)),
	}
}
