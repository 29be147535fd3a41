package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/camera"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/model"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/path"
)

// Viewport is the drawable size in pixels.
type Viewport struct {
	Width, Height int
}

// Aspect returns width / height, or 1 for a degenerate viewport.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// TubeMaterial is the phong material of the tunnel wall. The wall is lit from inside, so only
// back faces are drawn.
type TubeMaterial struct {
	Specular  common.Color
	Shininess float32
	// Repeat is the UV tiling of the wall texture.
	Repeat [2]float32
}

// LineStyle is the flat color of the wireframe overlay.
type LineStyle struct {
	Color   common.Color
	Opacity float32
}

// PointStyle describes the additive particle sprites.
type PointStyle struct {
	Color common.Color
	// Size is the world-space sprite edge length.
	Size float32
}

// Fog is linear distance fog.
type Fog struct {
	Color     common.Color
	Near, Far float32
}

// Bloom holds the post-process parameters.
type Bloom struct {
	Threshold float32
	Strength  float32
	Radius    float32
}

// Ambient is the uniform light term added to every lit fragment.
type Ambient struct {
	Color     common.Color
	Intensity float32
}

type scene struct {
	mu *sync.RWMutex

	name string
	path path.Path

	cam      camera.Camera
	point    light.Light
	ambient  Ambient
	fog      Fog
	bloom    Bloom
	viewport Viewport

	tube       model.Model
	tubeMat    TubeMaterial
	wire       model.Model
	wireStyle  LineStyle
	clouds     []model.Model
	cloudSpin  [][3]float32
	pointStyle PointStyle

	tubeTexture   *common.TextureStagingData
	spriteTexture *common.TextureStagingData
	textureOffset [2]float32
	textureScroll float32
}

// Scene is the fully constructed tunnel: camera rig, meshes, particle clouds, lights and the
// post-process settings. It is built once by Build and then mutated each frame by the driver
// (camera, cloud spin, texture scroll) and read by the renderer.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// Path returns the tunnel centerline the scene was built around.
	Path() path.Path

	// Camera returns the camera; its controller is the rig that rides the path.
	Camera() camera.Camera

	// Light returns the point light that follows the look-ahead point.
	Light() light.Light

	// Lights returns every light for GPU marshaling.
	Lights() []light.Light

	// Ambient returns the ambient light term.
	Ambient() Ambient

	// Fog returns the linear fog parameters.
	Fog() Fog

	// Bloom returns the bloom parameters.
	Bloom() Bloom

	// Tube returns the textured wall mesh.
	Tube() model.Model

	// TubeMaterial returns the wall material.
	TubeMaterial() TubeMaterial

	// Wireframe returns the inner edge overlay.
	Wireframe() model.Model

	// WireframeStyle returns the overlay color and opacity.
	WireframeStyle() LineStyle

	// Clouds returns the particle clouds in spin order.
	Clouds() []model.Model

	// PointStyle returns the particle sprite style.
	PointStyle() PointStyle

	// TubeTexture returns the wall texture pixels.
	TubeTexture() *common.TextureStagingData

	// SpriteTexture returns the particle sprite pixels.
	SpriteTexture() *common.TextureStagingData

	// TextureOffset returns the current UV offset of the wall texture.
	TextureOffset() [2]float32

	// Viewport returns the current drawable size.
	Viewport() Viewport

	// SetViewport records a new drawable size and updates the camera aspect.
	// Non-positive sizes are recorded but leave the aspect unchanged.
	//
	// Parameters:
	//   - width: drawable width in pixels
	//   - height: drawable height in pixels
	SetViewport(width, height int)

	// Animate applies one frame of the fixed per-frame motion: each cloud rotates by its spin
	// increment and the wall texture scrolls along U by the configured step.
	Animate()
}

var _ Scene = &scene{}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Path() path.Path {
	return s.path
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Light() light.Light {
	return s.point
}

func (s *scene) Lights() []light.Light {
	return []light.Light{s.point}
}

func (s *scene) Ambient() Ambient {
	return s.ambient
}

func (s *scene) Fog() Fog {
	return s.fog
}

func (s *scene) Bloom() Bloom {
	return s.bloom
}

func (s *scene) Tube() model.Model {
	return s.tube
}

func (s *scene) TubeMaterial() TubeMaterial {
	return s.tubeMat
}

func (s *scene) Wireframe() model.Model {
	return s.wire
}

func (s *scene) WireframeStyle() LineStyle {
	return s.wireStyle
}

func (s *scene) Clouds() []model.Model {
	return s.clouds
}

func (s *scene) PointStyle() PointStyle {
	return s.pointStyle
}

func (s *scene) TubeTexture() *common.TextureStagingData {
	return s.tubeTexture
}

func (s *scene) SpriteTexture() *common.TextureStagingData {
	return s.spriteTexture
}

func (s *scene) TextureOffset() [2]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textureOffset
}

func (s *scene) Viewport() Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

func (s *scene) SetViewport(width, height int) {
	s.mu.Lock()
	s.viewport = Viewport{Width: width, Height: height}
	s.mu.Unlock()
	if width > 0 && height > 0 {
		s.cam.SetAspect(float32(width) / float32(height))
	}
}

func (s *scene) Animate() {
	for i, c := range s.clouds {
		spin := s.cloudSpin[i]
		c.Rotate(spin[0], spin[1], spin[2])
	}
	s.mu.Lock()
	// The wall texture repeats, so the offset is kept in [0, 1) to preserve float precision.
	s.textureOffset[0] += s.textureScroll
	if s.textureOffset[0] >= 1 {
		s.textureOffset[0]--
	}
	s.mu.Unlock()
}
