package model

import (
	"encoding/binary"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	mu *sync.Mutex

	name     string
	topology Topology

	vertexData, indexData []byte
	vertexCount           int
	indexCount            int
	boundingRadius        float32

	position [3]float32
	rotation [3]float32
}

// Model defines the interface for a GPU-ready scene object.
// A Model owns packed vertex (and for triangle meshes, index) bytes plus a transform made of a
// translation and XYZ Euler rotation. The renderer uploads the bytes once and re-reads the model
// matrix every frame, so animating a particle cloud is a matter of calling Rotate.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Topology reports how the vertex stream is assembled.
	//
	// Returns:
	//   - Topology: triangles, lines or points
	Topology() Topology

	// VertexData returns the packed vertex bytes. Triangle meshes use the GPUVertex layout;
	// lines and points use tightly packed vec3<f32> positions.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the packed uint32 index bytes. Empty for lines and points.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// VertexCount returns the number of vertices in VertexData.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices in IndexData.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the maximum vertex distance from the model origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Position returns the model translation.
	//
	// Returns:
	//   - [3]float32: translation as (x, y, z)
	Position() [3]float32

	// Rotation returns the model's XYZ Euler rotation in radians.
	//
	// Returns:
	//   - [3]float32: rotation about x, y and z
	Rotation() [3]float32

	// SetPosition sets the model translation.
	//
	// Parameters:
	//   - x, y, z: translation components
	SetPosition(x, y, z float32)

	// SetRotation sets the model's XYZ Euler rotation in radians.
	//
	// Parameters:
	//   - x, y, z: rotation about each axis
	SetRotation(x, y, z float32)

	// Rotate adds the given deltas to the model's rotation.
	//
	// Parameters:
	//   - dx, dy, dz: rotation deltas in radians
	Rotate(dx, dy, dz float32)

	// ModelMatrix returns translation * Rx * Ry * Rz.
	//
	// Returns:
	//   - mgl32.Mat4: the model-to-world transform
	ModelMatrix() mgl32.Mat4
}

var _ Model = &model{}

// NewModel creates a Model from the given geometry option.
// Exactly one of WithMesh, WithLines or WithPoints should be supplied; with none the model is an
// empty point set.
//
// Parameters:
//   - name: the model identifier
//   - options: functional options to set geometry and transform
//
// Returns:
//   - Model: the new model
func NewModel(name string, options ...ModelBuilderOption) Model {
	m := &model{
		mu:       &sync.Mutex{},
		name:     name,
		topology: TopologyPoints,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Topology() Topology {
	return m.topology
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) VertexCount() int {
	return m.vertexCount
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Position() [3]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *model) Rotation() [3]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotation
}

func (m *model) SetPosition(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = [3]float32{x, y, z}
}

func (m *model) SetRotation(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotation = [3]float32{x, y, z}
}

func (m *model) Rotate(dx, dy, dz float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotation[0] += dx
	m.rotation[1] += dy
	m.rotation[2] += dz
}

func (m *model) ModelMatrix() mgl32.Mat4 {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := mgl32.Translate3D(m.position[0], m.position[1], m.position[2])
	r := mgl32.HomogRotate3DX(m.rotation[0]).
		Mul4(mgl32.HomogRotate3DY(m.rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(m.rotation[2]))
	return t.Mul4(r)
}

// setMesh packs a triangle mesh into the model's buffers.
func (m *model) setMesh(mesh *Mesh) {
	m.topology = TopologyTriangles
	stride := (&GPUVertex{}).Size()
	m.vertexData = make([]byte, len(mesh.Vertices)*stride)
	positions := make([][3]float32, len(mesh.Vertices))
	for i := range mesh.Vertices {
		mesh.Vertices[i].put(m.vertexData[i*stride:])
		positions[i] = mesh.Vertices[i].Position
	}
	m.indexData = make([]byte, len(mesh.Indices)*4)
	for i, idx := range mesh.Indices {
		binary.LittleEndian.PutUint32(m.indexData[i*4:], idx)
	}
	m.vertexCount = len(mesh.Vertices)
	m.indexCount = len(mesh.Indices)
	m.boundingRadius = ComputeBoundingRadius(positions)
}

// setPositions packs a position-only stream for lines or points.
func (m *model) setPositions(topology Topology, positions [][3]float32) {
	m.topology = topology
	m.vertexData = marshalPositions(positions)
	m.indexData = nil
	m.vertexCount = len(positions)
	m.indexCount = 0
	m.boundingRadius = ComputeBoundingRadius(positions)
}
