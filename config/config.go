// Package config loads the tunnel configuration from YAML.
//
// Every field has a default (see Default). A YAML file only needs to name the values it overrides;
// fields that are absent keep their defaults.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete runtime configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Camera    CameraConfig    `yaml:"camera"`
	Path      PathConfig      `yaml:"path"`
	Motion    MotionConfig    `yaml:"motion"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Tube      TubeConfig      `yaml:"tube"`
	Wireframe WireframeConfig `yaml:"wireframe"`
	Light     LightConfig     `yaml:"light"`
	Fog       FogConfig       `yaml:"fog"`
	Particles ParticlesConfig `yaml:"particles"`
	Bloom     BloomConfig     `yaml:"bloom"`
	Border    BorderConfig    `yaml:"border"`
	Cards     CardsConfig     `yaml:"cards"`
}

// WindowConfig describes the host window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// VSync selects the Fifo present mode; otherwise Immediate.
	VSync bool `yaml:"vsync"`
	// FrameLimit caps the frame rate when > 0.
	FrameLimit int `yaml:"frameLimit"`
}

// CameraConfig holds the perspective projection and the camera's resting orientation.
type CameraConfig struct {
	FOV  float64 `yaml:"fov"` // degrees
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
	// InitialYaw and InitialTilt are the starting rotations and rotation targets, in radians.
	InitialYaw  float64 `yaml:"initialYaw"`
	InitialTilt float64 `yaml:"initialTilt"`
	// RigStartZ is the rig's z position before the first frame places it on the path.
	RigStartZ float64 `yaml:"rigStartZ"`
}

// PathConfig describes the tunnel centerline.
type PathConfig struct {
	// Points are raw triples; AxisOrder says how they map onto (x, y, z).
	Points    [][3]float64 `yaml:"points"`
	AxisOrder string       `yaml:"axisOrder"` // "xyz" or "xzy"
	CurveType string       `yaml:"curveType"` // "catmullrom", "centripetal" or "chordal"
	Tension   float64      `yaml:"tension"`
	// ArcDivisions is the resolution of the arc-length lookup table.
	ArcDivisions int `yaml:"arcDivisions"`
}

// MotionConfig controls how the camera chases its targets.
type MotionConfig struct {
	// Damping is the divisor applied to the rotation error each frame.
	Damping float64 `yaml:"damping"`
	// ScrubCeiling is the path parameter reached at full scroll progress.
	ScrubCeiling float64 `yaml:"scrubCeiling"`
	// Lookahead is the path parameter offset of the look-at point.
	Lookahead float64    `yaml:"lookahead"`
	YawRange  [2]float64 `yaml:"yawRange"`
	TiltRange [2]float64 `yaml:"tiltRange"`
}

// ScrollConfig describes the virtual document that scrolling moves through.
type ScrollConfig struct {
	// Pages is the document height in viewport heights.
	Pages float64 `yaml:"pages"`
	// LineHeight is the scroll distance in pixels of one wheel notch or arrow key press.
	LineHeight float64 `yaml:"lineHeight"`
	// Scrub is the smoothing lag in seconds; 0 delivers raw progress.
	Scrub float64 `yaml:"scrub"`
	// TickRate is the expected frame rate used to step the scrub spring.
	TickRate int `yaml:"tickRate"`
}

// TubeConfig describes the textured tunnel mesh.
type TubeConfig struct {
	Radius           float64    `yaml:"radius"`
	TubularSegments  int        `yaml:"tubularSegments"`
	RadialSegments   int        `yaml:"radialSegments"`
	TextureRepeat    [2]float64 `yaml:"textureRepeat"`
	TextureScroll    float64    `yaml:"textureScroll"`
	TexturePath      string     `yaml:"texturePath"`
	Shininess        float64    `yaml:"shininess"`
	Specular         string     `yaml:"specular"`
	ProceduralSize   int        `yaml:"proceduralSize"`
	ProceduralSeed   uint64     `yaml:"proceduralSeed"`
	ProceduralColor1 string     `yaml:"proceduralColor1"`
	ProceduralColor2 string     `yaml:"proceduralColor2"`
}

// WireframeConfig describes the inner edge overlay.
type WireframeConfig struct {
	Radius          float64 `yaml:"radius"`
	TubularSegments int     `yaml:"tubularSegments"`
	RadialSegments  int     `yaml:"radialSegments"`
	Color           string  `yaml:"color"`
	Opacity         float64 `yaml:"opacity"`
	// ThresholdAngle is the minimum crease angle, in degrees, for an edge to be drawn.
	ThresholdAngle float64 `yaml:"thresholdAngle"`
}

// LightConfig describes the point light that rides the lookahead point plus the ambient term.
type LightConfig struct {
	Color            string  `yaml:"color"`
	Intensity        float64 `yaml:"intensity"`
	Distance         float64 `yaml:"distance"`
	Decay            float64 `yaml:"decay"`
	AmbientColor     string  `yaml:"ambientColor"`
	AmbientIntensity float64 `yaml:"ambientIntensity"`
}

// FogConfig describes linear fog.
type FogConfig struct {
	Color string  `yaml:"color"`
	Near  float64 `yaml:"near"`
	Far   float64 `yaml:"far"`
}

// ParticlesConfig describes the three particle clouds.
type ParticlesConfig struct {
	Count int     `yaml:"count"`
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
	Seed  uint64  `yaml:"seed"`
	// Spin holds the per-frame rotation increments (x, y, z) of each cloud, in radians.
	Spin [3][3]float64 `yaml:"spin"`
}

// BloomConfig describes the bloom post-process.
type BloomConfig struct {
	Threshold float64 `yaml:"threshold"`
	Strength  float64 `yaml:"strength"`
	Radius    float64 `yaml:"radius"`
}

// BorderConfig describes the electric border effect.
type BorderConfig struct {
	Color        string  `yaml:"color"`
	Speed        float64 `yaml:"speed"`
	Chaos        float64 `yaml:"chaos"`
	Thickness    float64 `yaml:"thickness"`
	CornerRadius float64 `yaml:"cornerRadius"`
}

// CardsConfig describes the card swap carousel.
type CardsConfig struct {
	Count            int     `yaml:"count"`
	DelaySeconds     float64 `yaml:"delaySeconds"`
	VerticalDistance float64 `yaml:"verticalDistance"`
	Easing           string  `yaml:"easing"` // "elastic" or "smooth"
	PauseOnHover     bool    `yaml:"pauseOnHover"`
}

// TunnelPoints is the raw tunnel centerline, in (x, z, y) order.
var TunnelPoints = [][3]float64{
	{10, 89, 0},
	{50, 88, 10},
	{76, 139, 20},
	{126, 141, 12},
	{150, 112, 8},
	{157, 73, 0},
	{180, 44, 5},
	{207, 35, 10},
	{232, 36, 0},
}

// Default returns the configuration that reproduces the reference tunnel.
func Default() *Config {
	pts := make([][3]float64, len(TunnelPoints))
	copy(pts, TunnelPoints)
	return &Config{
		Window: WindowConfig{Title: "oxy-tunnel", Width: 1280, Height: 720, VSync: true},
		Camera: CameraConfig{FOV: 45, Near: 0.01, Far: 200, InitialYaw: 3.14159, RigStartZ: 400},
		Path: PathConfig{
			Points:       pts,
			AxisOrder:    "xzy",
			CurveType:    "catmullrom",
			Tension:      0.5,
			ArcDivisions: 200,
		},
		Motion: MotionConfig{
			Damping:      15,
			ScrubCeiling: 0.96,
			Lookahead:    0.03,
			YawRange:     [2]float64{3.24, 3.04},
			TiltRange:    [2]float64{-0.1, 0.1},
		},
		Scroll: ScrollConfig{Pages: 5, LineHeight: 100, Scrub: 1, TickRate: 60},
		Tube: TubeConfig{
			Radius:           4,
			TubularSegments:  300,
			RadialSegments:   32,
			TextureRepeat:    [2]float64{15, 2},
			TextureScroll:    0.004,
			Shininess:        20,
			Specular:         "#0b2349",
			ProceduralSize:   512,
			ProceduralSeed:   7,
			ProceduralColor1: "#194794",
			ProceduralColor2: "#5227ff",
		},
		Wireframe: WireframeConfig{
			Radius:          3.4,
			TubularSegments: 150,
			RadialSegments:  32,
			Color:           "#ffffff",
			Opacity:         0.2,
			ThresholdAngle:  1,
		},
		Light: LightConfig{
			Color:            "#ffffff",
			Intensity:        0.35,
			Distance:         4,
			Decay:            0,
			AmbientColor:     "#ffffff",
			AmbientIntensity: 0.1,
		},
		Fog:       FogConfig{Color: "#194794", Near: 0, Far: 100},
		Particles: ParticlesConfig{
			Count: 6800,
			Size:  0.5,
			Color: "#ffffff",
			Seed:  42,
			Spin: [3][3]float64{
				{0, 0.00002, 0},
				{0.00005, 0, 0},
				{0, 0, 0.00001},
			},
		},
		Bloom:  BloomConfig{Threshold: 0, Strength: 0.9, Radius: 0},
		Border: BorderConfig{Color: "#5227FF", Speed: 1, Chaos: 1, Thickness: 2, CornerRadius: 16},
		Cards:  CardsConfig{Count: 3, DelaySeconds: 5, VerticalDistance: 70, Easing: "elastic", PauseOnHover: true},
	}
}

// Load reads a YAML file and overlays it onto Default.
//
// Parameters:
//   - path: path to the YAML file
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if the file cannot be read or parsed, or fails validation
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays YAML bytes onto Default, fills empty values and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// applyDefaults restores defaults for values an override file explicitly emptied.
func applyDefaults(c *Config) {
	d := Default()
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if len(c.Path.Points) == 0 {
		c.Path.Points = d.Path.Points
	}
	if c.Path.AxisOrder == "" {
		c.Path.AxisOrder = d.Path.AxisOrder
	}
	if c.Path.CurveType == "" {
		c.Path.CurveType = d.Path.CurveType
	}
	if c.Path.ArcDivisions == 0 {
		c.Path.ArcDivisions = d.Path.ArcDivisions
	}
	if c.Scroll.TickRate == 0 {
		c.Scroll.TickRate = d.Scroll.TickRate
	}
	if c.Cards.Easing == "" {
		c.Cards.Easing = d.Cards.Easing
	}
	c.Tube.Specular = common.Coalesce(c.Tube.Specular, d.Tube.Specular)
	c.Wireframe.Color = common.Coalesce(c.Wireframe.Color, d.Wireframe.Color)
	c.Light.Color = common.Coalesce(c.Light.Color, d.Light.Color)
	c.Light.AmbientColor = common.Coalesce(c.Light.AmbientColor, d.Light.AmbientColor)
	c.Fog.Color = common.Coalesce(c.Fog.Color, d.Fog.Color)
	c.Particles.Color = common.Coalesce(c.Particles.Color, d.Particles.Color)
	c.Border.Color = common.Coalesce(c.Border.Color, d.Border.Color)
	c.Tube.ProceduralColor1 = common.Coalesce(c.Tube.ProceduralColor1, d.Tube.ProceduralColor1)
	c.Tube.ProceduralColor2 = common.Coalesce(c.Tube.ProceduralColor2, d.Tube.ProceduralColor2)
}

// Validate reports the first invalid value, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return invalid("camera fov must be in (0, 180), got %v", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return invalid("camera planes must satisfy 0 < near < far, got near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	switch c.Path.AxisOrder {
	case "xyz", "xzy":
	default:
		return invalid("path axisOrder must be xyz or xzy, got %q", c.Path.AxisOrder)
	}
	switch c.Path.CurveType {
	case "catmullrom", "centripetal", "chordal":
	default:
		return invalid("path curveType must be catmullrom, centripetal or chordal, got %q", c.Path.CurveType)
	}
	if c.Path.ArcDivisions < 1 {
		return invalid("path arcDivisions must be at least 1, got %d", c.Path.ArcDivisions)
	}
	if c.Motion.Damping < 1 {
		return invalid("motion damping must be >= 1, got %v", c.Motion.Damping)
	}
	if c.Motion.ScrubCeiling < 0 || c.Motion.ScrubCeiling > 1 {
		return invalid("motion scrubCeiling must be in [0, 1], got %v", c.Motion.ScrubCeiling)
	}
	if c.Motion.Lookahead <= 0 || c.Motion.Lookahead > 1 {
		return invalid("motion lookahead must be in (0, 1], got %v", c.Motion.Lookahead)
	}
	if c.Scroll.Pages < 1 {
		return invalid("scroll pages must be >= 1, got %v", c.Scroll.Pages)
	}
	if c.Scroll.Scrub < 0 || c.Scroll.TickRate < 1 {
		return invalid("scroll scrub must be >= 0 and tickRate >= 1")
	}
	if c.Tube.Radius <= 0 || c.Tube.TubularSegments < 1 || c.Tube.RadialSegments < 3 {
		return invalid("tube needs a positive radius, >= 1 tubular and >= 3 radial segments")
	}
	if c.Wireframe.Radius <= 0 || c.Wireframe.TubularSegments < 1 || c.Wireframe.RadialSegments < 3 {
		return invalid("wireframe needs a positive radius, >= 1 tubular and >= 3 radial segments")
	}
	if c.Wireframe.Opacity < 0 || c.Wireframe.Opacity > 1 {
		return invalid("wireframe opacity must be in [0, 1], got %v", c.Wireframe.Opacity)
	}
	if c.Light.Distance < 0 || c.Light.Decay < 0 {
		return invalid("light distance and decay must be >= 0")
	}
	if c.Fog.Far <= c.Fog.Near {
		return invalid("fog far must exceed near, got near=%v far=%v", c.Fog.Near, c.Fog.Far)
	}
	if c.Particles.Count < 0 || c.Particles.Size <= 0 {
		return invalid("particles need count >= 0 and a positive size")
	}
	if c.Bloom.Threshold < 0 || c.Bloom.Strength < 0 || c.Bloom.Radius < 0 || c.Bloom.Radius > 1 {
		return invalid("bloom threshold and strength must be >= 0 and radius in [0, 1]")
	}
	if c.Border.Speed <= 0 || c.Border.Chaos < 0 || c.Border.Thickness <= 0 {
		return invalid("border needs a positive speed and thickness and chaos >= 0")
	}
	switch c.Cards.Easing {
	case "elastic", "smooth":
	default:
		return invalid("cards easing must be elastic or smooth, got %q", c.Cards.Easing)
	}
	if c.Cards.DelaySeconds <= 0 {
		return invalid("cards delaySeconds must be positive, got %v", c.Cards.DelaySeconds)
	}

	for name, hex := range map[string]string{
		"tube.specular":         c.Tube.Specular,
		"tube.proceduralColor1": c.Tube.ProceduralColor1,
		"tube.proceduralColor2": c.Tube.ProceduralColor2,
		"wireframe.color":       c.Wireframe.Color,
		"light.color":           c.Light.Color,
		"light.ambientColor":    c.Light.AmbientColor,
		"fog.color":             c.Fog.Color,
		"particles.color":       c.Particles.Color,
		"border.color":          c.Border.Color,
	} {
		if _, err := common.ParseHexColor(hex); err != nil {
			return invalid("%s: %v", name, err)
		}
	}
	for i, p := range c.Path.Points {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid("path point %d is not finite", i)
			}
		}
	}
	return nil
}

// FOVRadians returns the vertical field of view in radians.
func (c CameraConfig) FOVRadians() float64 {
	return c.FOV * math.Pi / 180
}
