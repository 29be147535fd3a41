package model

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestPath(t *testing.T, points ...mgl64.Vec3) path.Path {
	t.Helper()
	p, err := path.NewPath(points)
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	return p
}

func TestTubeCounts(t *testing.T) {
	p := newTestPath(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 5, 0}, mgl64.Vec3{20, 0, 10})
	tests := []struct {
		tubular, radial int
	}{
		{1, 3},
		{20, 8},
		{300, 32},
	}
	for _, tt := range tests {
		mesh, err := Tube(p, tt.tubular, 4, tt.radial)
		if err != nil {
			t.Fatalf("Tube(%d, %d): %v", tt.tubular, tt.radial, err)
		}
		if want := (tt.tubular + 1) * (tt.radial + 1); len(mesh.Vertices) != want {
			t.Errorf("Tube(%d, %d) vertices = %d, want %d", tt.tubular, tt.radial, len(mesh.Vertices), want)
		}
		if want := tt.tubular * tt.radial * 6; len(mesh.Indices) != want {
			t.Errorf("Tube(%d, %d) indices = %d, want %d", tt.tubular, tt.radial, len(mesh.Indices), want)
		}
		for _, idx := range mesh.Indices {
			if int(idx) >= len(mesh.Vertices) {
				t.Fatalf("index %d out of range", idx)
			}
		}
	}
}

func TestTubeRingsSitOnRadius(t *testing.T) {
	p := newTestPath(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 5, 0}, mgl64.Vec3{20, 0, 10})
	const tubular, radial, radius = 10, 12, 4.0
	mesh, err := Tube(p, tubular, radius, radial)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= tubular; i++ {
		c := p.PositionAt(float64(i) / tubular)
		center := mgl32.Vec3{float32(c.X()), float32(c.Y()), float32(c.Z())}
		for j := 0; j <= radial; j++ {
			v := mesh.Vertices[i*(radial+1)+j]
			d := mgl32.Vec3(v.Position).Sub(center).Len()
			if math.Abs(float64(d)-radius) > 1e-3 {
				t.Fatalf("ring %d vertex %d at distance %v, want %v", i, j, d, radius)
			}
			if n := mgl32.Vec3(v.Normal).Len(); math.Abs(float64(n)-1) > 1e-4 {
				t.Fatalf("ring %d vertex %d normal length %v", i, j, n)
			}
			if v.TexCoord[0] != float32(i)/tubular || v.TexCoord[1] != float32(j)/radial {
				t.Fatalf("ring %d vertex %d uv = %v", i, j, v.TexCoord)
			}
		}
	}
}

func TestTubeRejectsBadSegments(t *testing.T) {
	p := newTestPath(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 10})
	for _, seg := range [][2]int{{0, 8}, {8, 0}, {-1, -1}} {
		if _, err := Tube(p, seg[0], 1, seg[1]); !errors.Is(err, ErrInvalidSegments) {
			t.Errorf("Tube(%d, %d) err = %v, want ErrInvalidSegments", seg[0], seg[1], err)
		}
	}
}

func TestEdgesOfSquarePrism(t *testing.T) {
	p := newTestPath(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 10})
	mesh, err := Tube(p, 1, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	edges := Edges(mesh, 1)
	// 4 creases along the prism plus 4 open boundary edges at each end.
	if got := len(edges.Positions) / 2; got != 12 {
		t.Errorf("edge count = %d, want 12", got)
	}
	if len(edges.Positions)%2 != 0 {
		t.Error("odd number of line endpoints")
	}
}

func TestEdgesThreshold(t *testing.T) {
	p := newTestPath(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 10})
	mesh, err := Tube(p, 1, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	// A 90 degree crease is dropped once the threshold exceeds it.
	if got := len(Edges(mesh, 91).Positions) / 2; got != 8 {
		t.Errorf("edge count at 91 degrees = %d, want 8 boundary edges", got)
	}
	if got := len(Edges(nil, 1).Positions); got != 0 {
		t.Errorf("Edges(nil) = %d positions", got)
	}
}

func TestCloud(t *testing.T) {
	tests := []struct {
		name   string
		bounds CloudBounds
	}{
		{"cube", CubeCloud},
		{"sheet", SheetCloud},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cloud(tt.bounds, 6800, 42)
			if len(c.Positions) != 6800 {
				t.Fatalf("len = %d, want 6800", len(c.Positions))
			}
			for _, p := range c.Positions {
				for k := range 3 {
					if p[k] < tt.bounds.Min[k] || p[k] >= tt.bounds.Max[k] {
						t.Fatalf("point %v outside %v", p, tt.bounds)
					}
				}
			}
			again := Cloud(tt.bounds, 6800, 42)
			for i := range c.Positions {
				if c.Positions[i] != again.Positions[i] {
					t.Fatal("same seed produced a different cloud")
				}
			}
		})
	}
	if got := Cloud(CubeCloud, 0, 1); len(got.Positions) != 0 {
		t.Errorf("empty cloud has %d points", len(got.Positions))
	}
}

func TestModelPacking(t *testing.T) {
	p := newTestPath(t, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 10})
	mesh, err := Tube(p, 2, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	tube := NewModel("tube", WithMesh(mesh))
	if tube.Topology() != TopologyTriangles {
		t.Errorf("topology = %v", tube.Topology())
	}
	if len(tube.VertexData()) != tube.VertexCount()*32 || len(tube.IndexData()) != tube.IndexCount()*4 {
		t.Errorf("packed sizes %d/%d for %d/%d", len(tube.VertexData()), len(tube.IndexData()), tube.VertexCount(), tube.IndexCount())
	}
	if got := binary.LittleEndian.Uint32(tube.IndexData()[4:]); got != mesh.Indices[1] {
		t.Errorf("second index = %d, want %d", got, mesh.Indices[1])
	}

	cloud := NewModel("cloud", WithPoints(&PointCloud{Positions: [][3]float32{{3, 4, 0}, {1, 0, 0}}}))
	if cloud.Topology() != TopologyPoints || cloud.VertexCount() != 2 || len(cloud.VertexData()) != 24 {
		t.Errorf("cloud packing: %v %d %d", cloud.Topology(), cloud.VertexCount(), len(cloud.VertexData()))
	}
	if cloud.BoundingRadius() != 5 {
		t.Errorf("bounding radius = %v, want 5", cloud.BoundingRadius())
	}

	lines := NewModel("wire", WithLines(&LineSegments{Positions: [][3]float32{{0, 0, 0}, {1, 1, 1}}}))
	if lines.Topology() != TopologyLines || lines.IndexCount() != 0 {
		t.Errorf("lines packing: %v %d", lines.Topology(), lines.IndexCount())
	}
}

func TestModelRotate(t *testing.T) {
	m := NewModel("cloud", WithModelRotation(0, 1, 0))
	for range 10 {
		m.Rotate(0, 0.5, 0)
	}
	if got := m.Rotation(); math.Abs(float64(got[1])-6) > 1e-5 {
		t.Errorf("rotation y = %v, want 6", got[1])
	}
	m.SetRotation(0, math.Pi/2, 0)
	m.SetPosition(1, 0, 0)
	// Ry(90) maps +Z to +X, then translate by +X.
	got := m.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 1}).Vec3()
	if got.Sub(mgl32.Vec3{2, 0, 0}).Len() > 1e-5 {
		t.Errorf("transformed point = %v, want (2, 0, 0)", got)
	}
}
