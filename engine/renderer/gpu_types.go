package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/camera"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
)

var (
	//go:embed assets/scene_params.wgsl
	gpuSceneParamsSource string

	//go:embed assets/tube_params.wgsl
	gpuTubeParamsSource string

	//go:embed assets/line_params.wgsl
	gpuLineParamsSource string

	//go:embed assets/point_params.wgsl
	gpuPointParamsSource string

	//go:embed assets/bloom_params.wgsl
	gpuBloomParamsSource string

	//go:embed assets/light_buffer.wgsl
	gpuLightBufferSource string

	//go:embed assets/fog.wgsl
	fogSource string

	//go:embed assets/fullscreen.wgsl
	fullscreenSource string

	//go:embed assets/tube.wgsl
	tubeShaderSource string

	//go:embed assets/wire.wgsl
	wireShaderSource string

	//go:embed assets/particles.wgsl
	particlesShaderSource string

	//go:embed assets/bright.wgsl
	brightShaderSource string

	//go:embed assets/blur.wgsl
	blurShaderSource string

	//go:embed assets/composite.wgsl
	compositeShaderSource string
)

// snippets returns the renderer's WGSL types and helpers keyed for @oxy annotations.
func snippets() map[string]shader.Snippet {
	return map[string]shader.Snippet{
		"scene_params": {Source: gpuSceneParamsSource, Type: "SceneParams"},
		"tube_params":  {Source: gpuTubeParamsSource, Type: "TubeParams"},
		"line_params":  {Source: gpuLineParamsSource, Type: "LineParams"},
		"point_params": {Source: gpuPointParamsSource, Type: "PointParams"},
		"bloom_params": {Source: gpuBloomParamsSource, Type: "BloomParams"},
		"light_buffer": {Source: gpuLightBufferSource, Type: "LightBuffer"},
		"fog":          {Source: fogSource},
		"fullscreen":   {Source: fullscreenSource},
	}
}

func putFloats(buf []byte, offset int, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
	}
}

// GPUSceneParams is the per-frame fog state shared by every scene pipeline.
// Matches the WGSL SceneParams struct (32 bytes).
type GPUSceneParams struct {
	FogColor [3]float32 // offset  0
	FogNear  float32    // offset 12
	FogFar   float32    // offset 16
	_pad     [3]float32 // offset 20: padding to 32 bytes
}

// Size returns the size of the struct in bytes.
func (g *GPUSceneParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the struct for GPU upload.
func (g *GPUSceneParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf, 0, g.FogColor[0], g.FogColor[1], g.FogColor[2], g.FogNear, g.FogFar)
	return buf
}

// GPUTubeParams is the tunnel wall material plus the scrolling texture transform.
// Matches the WGSL TubeParams struct (32 bytes).
type GPUTubeParams struct {
	Specular  [3]float32 // offset  0
	Shininess float32    // offset 12
	UVOffset  [2]float32 // offset 16
	UVRepeat  [2]float32 // offset 24
}

// Size returns the size of the struct in bytes.
func (g *GPUTubeParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the struct for GPU upload.
func (g *GPUTubeParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf, 0,
		g.Specular[0], g.Specular[1], g.Specular[2], g.Shininess,
		g.UVOffset[0], g.UVOffset[1], g.UVRepeat[0], g.UVRepeat[1])
	return buf
}

// GPUColorParams is a color with one scalar; it backs both LineParams (opacity) and
// PointParams (size), which share a 16-byte layout.
type GPUColorParams struct {
	Color  [3]float32 // offset  0
	Scalar float32    // offset 12
}

// Size returns the size of the struct in bytes.
func (g *GPUColorParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the struct for GPU upload.
func (g *GPUColorParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf, 0, g.Color[0], g.Color[1], g.Color[2], g.Scalar)
	return buf
}

// GPUBloomParams drives one post-process pass. Matches the WGSL BloomParams struct (32 bytes).
type GPUBloomParams struct {
	TexelSize  [2]float32 // offset  0: 1 / source size
	Direction  [2]float32 // offset  8: blur axis, zero outside the blur passes
	Threshold  float32    // offset 16
	Strength   float32    // offset 20
	Spread     float32    // offset 24: blur tap spacing in texels
	EncodeSRGB uint32     // offset 28: 1 when the surface format is not sRGB
}

// Size returns the size of the struct in bytes.
func (g *GPUBloomParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the struct for GPU upload.
func (g *GPUBloomParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf, 0, g.TexelSize[0], g.TexelSize[1], g.Direction[0], g.Direction[1], g.Threshold, g.Strength, g.Spread)
	binary.LittleEndian.PutUint32(buf[28:], g.EncodeSRGB)
	return buf
}

func rgb(c common.Color) [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// frameUniforms is every scene-wide uniform for one frame, already marshaled.
type frameUniforms struct {
	camera []byte
	lights []byte
	scene  []byte
	tube   []byte
	line   []byte
	point  []byte
}

// newFrameUniforms snapshots the scene state the scene pipelines read.
func newFrameUniforms(s scene.Scene) frameUniforms {
	cam := camera.NewGPUCameraUniform(s.Camera())
	ambient := s.Ambient()
	fog := s.Fog()
	mat := s.TubeMaterial()
	wire := s.WireframeStyle()
	pts := s.PointStyle()

	sceneParams := GPUSceneParams{FogColor: rgb(fog.Color), FogNear: fog.Near, FogFar: fog.Far}
	tubeParams := GPUTubeParams{
		Specular:  rgb(mat.Specular),
		Shininess: mat.Shininess,
		UVOffset:  s.TextureOffset(),
		UVRepeat:  mat.Repeat,
	}
	lineParams := GPUColorParams{Color: rgb(wire.Color), Scalar: wire.Opacity}
	pointParams := GPUColorParams{Color: rgb(pts.Color), Scalar: pts.Size}

	return frameUniforms{
		camera: cam.Marshal(),
		lights: light.MarshalLightBuffer(s.Lights(), ambient.Color, ambient.Intensity),
		scene:  sceneParams.Marshal(),
		tube:   tubeParams.Marshal(),
		line:   lineParams.Marshal(),
		point:  pointParams.Marshal(),
	}
}

// bloomSize returns the resolution of the bloom targets: half the viewport, at least 1x1.
func bloomSize(width, height int) (int, int) {
	return max(width/2, 1), max(height/2, 1)
}

// bloomPasses builds the parameters of the bright, horizontal blur, vertical blur and composite
// passes. Radius widens the blur taps: spread = 1 + 4 * radius texels.
func bloomPasses(b scene.Bloom, width, height int, encodeSRGB bool) [4]GPUBloomParams {
	bw, bh := bloomSize(width, height)
	texel := [2]float32{1 / float32(bw), 1 / float32(bh)}
	base := GPUBloomParams{
		TexelSize: texel,
		Threshold: b.Threshold,
		Strength:  b.Strength,
		Spread:    1 + 4*b.Radius,
	}
	if encodeSRGB {
		base.EncodeSRGB = 1
	}

	bright, horizontal, vertical, composite := base, base, base, base
	bright.TexelSize = [2]float32{1 / float32(max(width, 1)), 1 / float32(max(height, 1))}
	horizontal.Direction = [2]float32{1, 0}
	vertical.Direction = [2]float32{0, 1}
	return [4]GPUBloomParams{bright, horizontal, vertical, composite}
}
