package border

import "math"

// turbulenceOctaves matches the detail of the reference filter.
const turbulenceOctaves = 8

// hash2 maps a lattice point and seed to [0, 1].
func hash2(ix, iy int64, seed uint64) float64 {
	h := uint64(ix)*0x9e3779b97f4a7c15 ^ uint64(iy)*0xc2b2ae3d27d4eb4f ^ seed*0x165667b19e3779f9
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return float64(h>>11) / float64(1<<53)
}

// valueNoise is smoothly interpolated lattice noise in [0, 1].
func valueNoise(x, y float64, seed uint64) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	ix, iy := int64(fx), int64(fy)
	tx, ty := x-fx, y-fy
	sx := tx * tx * (3 - 2*tx)
	sy := ty * ty * (3 - 2*ty)

	v00 := hash2(ix, iy, seed)
	v10 := hash2(ix+1, iy, seed)
	v01 := hash2(ix, iy+1, seed)
	v11 := hash2(ix+1, iy+1, seed)
	top := v00 + (v10-v00)*sx
	bottom := v01 + (v11-v01)*sx
	return top + (bottom-top)*sy
}

// turbulence sums the absolute value of signed noise over octaves and normalises to [0, 1].
func turbulence(x, y float64, seed uint64) float64 {
	var sum, norm float64
	amp := 1.0
	for o := range turbulenceOctaves {
		n := 2*valueNoise(x, y, seed+uint64(o)*101) - 1
		sum += amp * math.Abs(n)
		norm += amp
		x *= 2
		y *= 2
		amp /= 2
	}
	return sum / norm
}
