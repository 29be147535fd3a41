package model

// Topology identifies how a model's vertex stream is assembled into primitives.
type Topology int

const (
	// TopologyTriangles draws an indexed triangle list of GPUVertex values.
	TopologyTriangles Topology = iota

	// TopologyLines draws a non-indexed line list of positions, two per segment.
	TopologyLines

	// TopologyPoints draws one camera-facing sprite per position.
	TopologyPoints
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "triangles"
	case TopologyLines:
		return "lines"
	case TopologyPoints:
		return "points"
	default:
		return "unknown"
	}
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	// Vertices are the mesh vertices.
	Vertices []GPUVertex

	// Indices are the triangle indices, three per face.
	Indices []uint32

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// LineSegments is a line list: Positions[2k] and Positions[2k+1] are the ends of segment k.
type LineSegments struct {
	Positions [][3]float32
}

// PointCloud is an unordered set of sprite centers.
type PointCloud struct {
	Positions [][3]float32
}

// computeBounds fills BoundingMin and BoundingMax from the vertex positions.
func (m *Mesh) computeBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundingMin = m.Vertices[0].Position
	m.BoundingMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for k := range 3 {
			m.BoundingMin[k] = min(m.BoundingMin[k], v.Position[k])
			m.BoundingMax[k] = max(m.BoundingMax[k], v.Position[k])
		}
	}
}
