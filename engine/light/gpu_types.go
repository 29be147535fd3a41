package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
)

// MaxGPULights is the maximum number of lights marshaled into the light storage buffer per frame.
const MaxGPULights = 8

// GPULightSource is the canonical WGSL definition of the Light and LightHeader structs
// plus the light_attenuation helper.
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is the GPU-aligned representation of a single point light.
// Matches the WGSL Light struct layout exactly (see GPULightSource).
// Size: 48 bytes (WGSL aligned).
type GPULight struct {
	Position  [3]float32 // offset  0: world-space position
	Intensity float32    // offset 12: scalar multiplier
	Color     [3]float32 // offset 16: RGB color
	Distance  float32    // offset 28: cutoff distance, 0 for none
	Decay     float32    // offset 32: falloff exponent
	Enabled   uint32     // offset 36: 1 = lit, 0 = skipped
	_pad      [2]uint32  // offset 40: padding to 48 bytes
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Color[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Intensity))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Distance))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Decay))
	binary.LittleEndian.PutUint32(buf[36:40], g.Enabled)
	return buf
}

// GPULightHeader is the header prepended to the light storage buffer.
// Contains the premultiplied ambient color and the active light count.
// Size: 16 bytes (vec3 + u32).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset 0: ambient RGB scaled by ambient intensity
	LightCount   uint32     // offset 12: number of lights following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, h.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(h.AmbientColor[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// ToGPULight converts a Light into its GPU-aligned representation.
//
// Parameters:
//   - l: the Light to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light) GPULight {
	c := l.Color()
	g := GPULight{
		Position:  l.Position(),
		Intensity: l.Intensity(),
		Color:     [3]float32{c.R, c.G, c.B},
		Distance:  l.Distance(),
		Decay:     l.Decay(),
	}
	if l.Enabled() {
		g.Enabled = 1
	}
	return g
}

// MarshalLightBuffer marshals a slice of enabled lights into a byte buffer
// suitable for GPU upload. The buffer layout is:
//
//	[GPULightHeader (16 bytes)] [GPULight × MaxGPULights (48 bytes each)]
//
// The buffer always has room for MaxGPULights so it can be written into a fixed-size storage buffer.
// Disabled lights are skipped and lights past the budget are dropped.
//
// Parameters:
//   - lights: the lights to marshal
//   - ambient: the ambient color
//   - ambientIntensity: multiplier applied to the ambient color
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(lights []Light, ambient common.Color, ambientIntensity float32) []byte {
	header := GPULightHeader{AmbientColor: [3]float32{
		ambient.R * ambientIntensity,
		ambient.G * ambientIntensity,
		ambient.B * ambientIntensity,
	}}
	headerSize := header.Size()
	lightSize := (&GPULight{}).Size()

	buf := make([]byte, LightBufferSize())
	offset := headerSize
	for _, l := range lights {
		if header.LightCount >= MaxGPULights {
			break
		}
		if l == nil || !l.Enabled() {
			continue
		}
		gpu := ToGPULight(l)
		copy(buf[offset:offset+lightSize], gpu.Marshal())
		offset += lightSize
		header.LightCount++
	}
	copy(buf[:headerSize], header.Marshal())
	return buf
}

// LightBufferSize returns the byte size of the buffer produced by MarshalLightBuffer.
//
// Returns:
//   - int: header size plus MaxGPULights light slots
func LightBufferSize() int {
	return (&GPULightHeader{}).Size() + MaxGPULights*(&GPULight{}).Size()
}
