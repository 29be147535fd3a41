package timeline

import "math"

// Ease maps linear progress in [0, 1] to eased progress. Ease(0) is 0 and Ease(1) is 1;
// values in between may overshoot.
type Ease func(p float64) float64

// None is the identity ease.
func None(p float64) float64 {
	return p
}

// Power1In is a quadratic ease-in.
func Power1In(p float64) float64 {
	return p * p
}

// Power1Out is a quadratic ease-out.
func Power1Out(p float64) float64 {
	return 1 - (1-p)*(1-p)
}

// Power1InOut accelerates quadratically through the first half and decelerates through the second.
func Power1InOut(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	return 1 - 2*(1-p)*(1-p)
}

// ElasticOut returns an ease that overshoots and oscillates into place.
// amplitude below 1 shortens the period instead of shrinking the swing; period <= 0 means 0.3.
//
// Parameters:
//   - amplitude: overshoot scale (values < 1 are treated as 1 with a proportionally shorter period)
//   - period: oscillation period in units of progress
//
// Returns:
//   - Ease: the configured ease
func ElasticOut(amplitude, period float64) Ease {
	if period <= 0 {
		period = 0.3
	}
	p1 := math.Max(amplitude, 1)
	if amplitude > 0 && amplitude < 1 {
		period /= amplitude
	}
	phase := period / (2 * math.Pi) * math.Asin(1/p1)
	freq := 2 * math.Pi / period
	return func(p float64) float64 {
		if p >= 1 {
			return 1
		}
		if p <= 0 {
			return 0
		}
		return p1*math.Pow(2, -10*p)*math.Sin((p-phase)*freq) + 1
	}
}
