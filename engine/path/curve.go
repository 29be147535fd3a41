package path

import (
	"fmt"
	"strings"
)

// CurveType selects how segment tangents are derived from neighbouring control points.
type CurveType int

const (
	// CatmullRom is the uniform parameterization scaled by a tension factor.
	CatmullRom CurveType = iota
	// Centripetal weights knots by the square root of the chord length; it avoids cusps and self-intersections.
	Centripetal
	// Chordal weights knots by the chord length.
	Chordal
)

// String returns the config name of the curve type.
func (c CurveType) String() string {
	switch c {
	case CatmullRom:
		return "catmullrom"
	case Centripetal:
		return "centripetal"
	case Chordal:
		return "chordal"
	}
	return fmt.Sprintf("CurveType(%d)", int(c))
}

// ParseCurveType parses "catmullrom", "centripetal" or "chordal" (case-insensitive).
func ParseCurveType(s string) (CurveType, error) {
	switch strings.ToLower(s) {
	case "catmullrom", "":
		return CatmullRom, nil
	case "centripetal":
		return Centripetal, nil
	case "chordal":
		return Chordal, nil
	}
	return 0, fmt.Errorf("unknown curve type %q", s)
}

// cubic is a Hermite segment c0 + c1*t + c2*t^2 + c3*t^3 for one coordinate.
type cubic struct {
	c0, c1, c2, c3 float64
}

// hermite builds the cubic from end values x0, x1 and end tangents t0, t1.
func hermite(x0, x1, t0, t1 float64) cubic {
	return cubic{
		c0: x0,
		c1: t0,
		c2: -3*x0 + 3*x1 - 2*t0 - t1,
		c3: 2*x0 - 2*x1 + t0 + t1,
	}
}

func uniformCubic(x0, x1, x2, x3, tension float64) cubic {
	return hermite(x1, x2, tension*(x2-x0), tension*(x3-x1))
}

// nonuniformCubic builds the segment between x1 and x2 with knot spacings dt0, dt1, dt2,
// rescaled so the segment is parameterized over [0, 1].
func nonuniformCubic(x0, x1, x2, x3, dt0, dt1, dt2 float64) cubic {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	return hermite(x1, x2, t1*dt1, t2*dt1)
}

func (c cubic) at(t float64) float64 {
	t2 := t * t
	return c.c0 + c.c1*t + c.c2*t2 + c.c3*t2*t
}
