package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Number is the set of scalar types the helpers below operate on.
type Number interface {
	~float32 | ~float64 | ~int | ~int32 | ~int64
}

// Clamp restricts v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: lower bound
//   - hi: upper bound (must be >= lo)
//
// Returns:
//   - T: v limited to [lo, hi]
func Clamp[T Number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapRange linearly maps v from [inMin, inMax] onto [outMin, outMax].
// The input is clamped to its range first, so the result always lies between outMin and outMax.
// Reversed output ranges (outMin > outMax) are allowed. A degenerate input range maps to outMin.
//
// Parameters:
//   - v: the value to map
//   - inMin, inMax: source range
//   - outMin, outMax: destination range
//
// Returns:
//   - float64: the mapped value
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	lo, hi := inMin, inMax
	if lo > hi {
		lo, hi = hi, lo
	}
	v = Clamp(v, lo, hi)
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Lerp interpolates between a and b by t without clamping.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Perspective creates a right-handed perspective projection matrix for WebGPU clip space,
// where depth maps to [0, 1] rather than OpenGL's [-1, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// Vec3From64 narrows three float64 components into an mgl32.Vec3.
func Vec3From64(x, y, z float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}
