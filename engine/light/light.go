package light

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	position  [3]float32
	color     common.Color
	intensity float32
	distance  float32
	decay     float32
	enabled   bool
}

// Light defines the interface for a point light source.
//
// The tunnel carries a single point light that the driver moves to the look-ahead point every frame,
// so the walls brighten just in front of the camera. Energy falls off with distance according to the
// decay exponent and is windowed to zero at the cutoff distance (see Attenuation).
//
// Lights are marshaled into a GPU storage buffer each frame via the gpu_types helpers.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Color returns the color of the light. Alpha is ignored.
	//
	// Returns:
	//   - common.Color: the light color
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Distance returns the cutoff distance. Zero means no cutoff.
	//
	// Returns:
	//   - float32: the cutoff distance
	Distance() float32

	// Decay returns the distance falloff exponent. Zero means no falloff inside the cutoff.
	//
	// Returns:
	//   - float32: the decay exponent
	Decay() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU buffer marshaling.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// Contribution returns the light energy reaching a world-space point, before surface terms.
	//
	// Parameters:
	//   - p: the receiving point
	//
	// Returns:
	//   - float32: intensity scaled by Attenuation, zero when disabled
	Contribution(p [3]float32) float32

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetColor sets the color of the light.
	//
	// Parameters:
	//   - c: the light color
	SetColor(c common.Color)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new point light with white color, unit intensity, no cutoff, an
// inverse-square decay and any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		color:     common.Color{R: 1, G: 1, B: 1, A: 1},
		intensity: 1,
		decay:     2,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Position() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Color() common.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Distance() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.distance
}

func (l *lightImpl) Decay() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.decay
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) Contribution(p [3]float32) float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return 0
	}
	dx := float64(p[0] - l.position[0])
	dy := float64(p[1] - l.position[1])
	dz := float64(p[2] - l.position[2])
	d := float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
	return l.intensity * Attenuation(d, l.distance, l.decay)
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetColor(c common.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// Attenuation returns the distance falloff factor for a point light.
// The falloff is 1/max(d^decay, 0.01), multiplied by a smooth window that reaches zero at cutoff.
// A cutoff of zero disables the window. The WGSL light_attenuation function computes the same value.
//
// Parameters:
//   - d: distance from the light
//   - cutoff: cutoff distance, zero for none
//   - decay: falloff exponent
//
// Returns:
//   - float32: attenuation in [0, 100]
func Attenuation(d, cutoff, decay float32) float32 {
	falloff := 1 / float32(math.Max(math.Pow(float64(d), float64(decay)), 0.01))
	if cutoff > 0 {
		r := d / cutoff
		w := common.Clamp(1-r*r*r*r, 0, 1)
		falloff *= w * w
	}
	return falloff
}
