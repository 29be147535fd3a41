package border

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
)

// BorderBuilderOption is a functional option for configuring a Border. Options that parse input
// return an error.
type BorderBuilderOption func(b *borderImpl) error

// WithColor sets the stroke color from a #rgb or #rrggbb hex string.
//
// Parameters:
//   - hex: the color
//
// Returns:
//   - BorderBuilderOption: option function to apply
func WithColor(hex string) BorderBuilderOption {
	return func(b *borderImpl) error {
		c, err := common.ParseHexColor(hex)
		if err != nil {
			return fmt.Errorf("border color: %w", err)
		}
		b.color = c
		return nil
	}
}

// WithSpeed sets the animation speed; the loop lasts 6/speed seconds.
//
// Parameters:
//   - speed: speed multiplier (non-positive values fall back to 1)
//
// Returns:
//   - BorderBuilderOption: option function to apply
func WithSpeed(speed float64) BorderBuilderOption {
	return func(b *borderImpl) error {
		if speed <= 0 {
			speed = 1
		}
		b.speed = speed
		return nil
	}
}

// WithChaos sets the displacement strength; the stroke moves at most 15*chaos pixels.
//
// Parameters:
//   - chaos: displacement strength (negative values are treated as 0)
//
// Returns:
//   - BorderBuilderOption: option function to apply
func WithChaos(chaos float64) BorderBuilderOption {
	return func(b *borderImpl) error {
		b.chaos = max(chaos, 0)
		return nil
	}
}

// WithThickness sets the stroke width in pixels.
//
// Parameters:
//   - px: stroke width
//
// Returns:
//   - BorderBuilderOption: option function to apply
func WithThickness(px float64) BorderBuilderOption {
	return func(b *borderImpl) error {
		if px > 0 {
			b.thickness = px
		}
		return nil
	}
}

// WithCornerRadius sets the corner radius, clamped to half the shorter side.
//
// Parameters:
//   - px: corner radius
//
// Returns:
//   - BorderBuilderOption: option function to apply
func WithCornerRadius(px float64) BorderBuilderOption {
	return func(b *borderImpl) error {
		b.cornerRadius = max(px, 0)
		return nil
	}
}

// WithGlow enables or disables the blurred glow layers.
//
// Parameters:
//   - enabled: true to draw the glow
//
// Returns:
//   - BorderBuilderOption: option function to apply
func WithGlow(enabled bool) BorderBuilderOption {
	return func(b *borderImpl) error {
		b.glow = enabled
		return nil
	}
}

// WithSeed selects a different noise field.
//
// Parameters:
//   - seed: noise seed
//
// Returns:
//   - BorderBuilderOption: option function to apply
func WithSeed(seed uint64) BorderBuilderOption {
	return func(b *borderImpl) error {
		b.seed = seed
		return nil
	}
}
