package path

// PathBuilderOption is a functional option for configuring a path.
// Use the With* functions to create options.
type PathBuilderOption func(p *pathImpl)

// WithCurveType sets the Catmull-Rom parameterization.
//
// Parameters:
//   - curveType: CatmullRom, Centripetal or Chordal
//
// Returns:
//   - PathBuilderOption: option function to apply
func WithCurveType(curveType CurveType) PathBuilderOption {
	return func(p *pathImpl) {
		p.curveType = curveType
	}
}

// WithTension sets the tangent scale of the uniform Catmull-Rom curve. Ignored by the other curve types.
//
// Parameters:
//   - tension: tangent scale (0.5 is the classic Catmull-Rom spline)
//
// Returns:
//   - PathBuilderOption: option function to apply
func WithTension(tension float64) PathBuilderOption {
	return func(p *pathImpl) {
		p.tension = tension
	}
}

// WithArcDivisions sets the resolution of the arc-length lookup table.
//
// Parameters:
//   - divisions: number of samples along the curve (must be >= 1)
//
// Returns:
//   - PathBuilderOption: option function to apply
func WithArcDivisions(divisions int) PathBuilderOption {
	return func(p *pathImpl) {
		p.arcDivisions = divisions
	}
}
