package model

import "math/rand/v2"

// CloudBounds is the half-open box a particle cloud is sampled from.
type CloudBounds struct {
	Min [3]float32
	Max [3]float32
}

var (
	// CubeCloud spans x,z in [-250, 250) and y in [-25, 25).
	CubeCloud = CloudBounds{Min: [3]float32{-250, -25, -250}, Max: [3]float32{250, 25, 250}}

	// SheetCloud spans x,z in [0, 500) and y in [-5, 5).
	SheetCloud = CloudBounds{Min: [3]float32{0, -5, 0}, Max: [3]float32{500, 5, 500}}
)

// Cloud samples count points uniformly from bounds.
// The same seed always yields the same cloud.
//
// Parameters:
//   - bounds: the sampling box
//   - count: number of points, non-positive yields an empty cloud
//   - seed: random seed
//
// Returns:
//   - *PointCloud: the sampled points
func Cloud(bounds CloudBounds, count int, seed uint64) *PointCloud {
	if count <= 0 {
		return &PointCloud{}
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	c := &PointCloud{Positions: make([][3]float32, count)}
	for i := range c.Positions {
		for k := range 3 {
			span := bounds.Max[k] - bounds.Min[k]
			v := bounds.Min[k] + rng.Float32()*span
			if v >= bounds.Max[k] && span > 0 {
				v = bounds.Min[k]
			}
			c.Positions[i][k] = v
		}
	}
	return c
}
