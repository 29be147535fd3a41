package model

// ModelBuilderOption is a functional option for configuring a Model.
type ModelBuilderOption func(*model)

// WithMesh packs an indexed triangle mesh into the model.
//
// Parameters:
//   - mesh: the mesh to pack
//
// Returns:
//   - ModelBuilderOption: functional option to set the geometry
func WithMesh(mesh *Mesh) ModelBuilderOption {
	return func(m *model) {
		if mesh != nil {
			m.setMesh(mesh)
		}
	}
}

// WithLines packs a line list into the model.
//
// Parameters:
//   - lines: the segments to pack
//
// Returns:
//   - ModelBuilderOption: functional option to set the geometry
func WithLines(lines *LineSegments) ModelBuilderOption {
	return func(m *model) {
		if lines != nil {
			m.setPositions(TopologyLines, lines.Positions)
		}
	}
}

// WithPoints packs a point cloud into the model.
//
// Parameters:
//   - cloud: the points to pack
//
// Returns:
//   - ModelBuilderOption: functional option to set the geometry
func WithPoints(cloud *PointCloud) ModelBuilderOption {
	return func(m *model) {
		if cloud != nil {
			m.setPositions(TopologyPoints, cloud.Positions)
		}
	}
}

// WithModelPosition sets the model's initial translation.
//
// Parameters:
//   - x, y, z: translation components
//
// Returns:
//   - ModelBuilderOption: functional option to set the position
func WithModelPosition(x, y, z float32) ModelBuilderOption {
	return func(m *model) {
		m.position = [3]float32{x, y, z}
	}
}

// WithModelRotation sets the model's initial XYZ Euler rotation.
//
// Parameters:
//   - x, y, z: rotation about each axis in radians
//
// Returns:
//   - ModelBuilderOption: functional option to set the rotation
func WithModelRotation(x, y, z float32) ModelBuilderOption {
	return func(m *model) {
		m.rotation = [3]float32{x, y, z}
	}
}
