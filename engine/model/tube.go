package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
)

// ErrInvalidSegments is returned when a generator is asked for fewer than one segment.
var ErrInvalidSegments = errors.New("segment count must be positive")

// Tube sweeps a circle of the given radius along p.
// The mesh has (tubular+1)*(radial+1) vertices: ring i sits at arc-length fraction i/tubular and
// vertex j of a ring at angle 2πj/radial, so the seam column is duplicated for a continuous UV.
// Faces are wound (a, b, d) and (b, c, d) per quad with normals pointing away from the path.
//
// Parameters:
//   - p: the path to sweep along
//   - tubular: segments along the path
//   - radius: tube radius
//   - radial: segments around the circumference
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: ErrInvalidSegments for non-positive segment counts
func Tube(p path.Path, tubular int, radius float64, radial int) (*Mesh, error) {
	if tubular < 1 || radial < 1 {
		return nil, fmt.Errorf("tube %dx%d: %w", tubular, radial, ErrInvalidSegments)
	}
	frames := p.FrenetFrames(tubular)

	mesh := &Mesh{
		Vertices: make([]GPUVertex, 0, (tubular+1)*(radial+1)),
		Indices:  make([]uint32, 0, tubular*radial*6),
	}
	for i := 0; i <= tubular; i++ {
		center := p.PositionAt(float64(i) / float64(tubular))
		n := frames.Normals[i]
		b := frames.Binormals[i]
		for j := 0; j <= radial; j++ {
			v := float64(j) / float64(radial) * 2 * math.Pi
			sin := math.Sin(v)
			cos := -math.Cos(v)
			normal := n.Mul(cos).Add(b.Mul(sin)).Normalize()
			pos := center.Add(normal.Mul(radius))
			mesh.Vertices = append(mesh.Vertices, GPUVertex{
				Position: [3]float32{float32(pos.X()), float32(pos.Y()), float32(pos.Z())},
				Normal:   [3]float32{float32(normal.X()), float32(normal.Y()), float32(normal.Z())},
				TexCoord: [2]float32{float32(i) / float32(tubular), float32(j) / float32(radial)},
			})
		}
	}

	ring := uint32(radial + 1)
	for j := uint32(1); j <= uint32(tubular); j++ {
		for i := uint32(1); i <= uint32(radial); i++ {
			a := ring*(j-1) + (i - 1)
			b := ring*j + (i - 1)
			c := ring*j + i
			d := ring*(j-1) + i
			mesh.Indices = append(mesh.Indices, a, b, d, b, c, d)
		}
	}
	mesh.computeBounds()
	return mesh, nil
}
