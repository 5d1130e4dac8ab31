// Package vecmath provides the small set of 3D vector helpers shared by the
// flight and ground phases. Arithmetic itself (Add, Sub, Mul, Cross, Dot, Len)
// comes from mgl64.Vec3; this package adds validation and decomposition.
package vecmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// epsilon below which a vector length is treated as zero.
const epsilon = 1e-12

// Up is the world vertical; y is height above the ground plane.
var Up = mgl64.Vec3{0, 1, 0}

// FromSlice converts a JSON-style coordinate list into a vector.
// It fails for anything other than exactly three finite components.
func FromSlice(s []float64) (mgl64.Vec3, error) {
	if len(s) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(s))
	}
	v := mgl64.Vec3{s[0], s[1], s[2]}
	if !IsFinite(v) {
		return mgl64.Vec3{}, fmt.Errorf("non-finite component in %v", s)
	}
	return v, nil
}

// ToSlice is the inverse of FromSlice.
func ToSlice(v mgl64.Vec3) []float64 { return []float64{v[0], v[1], v[2]} }

// IsFinite reports whether no component is NaN or ±Inf.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// IsFiniteScalar reports whether f is neither NaN nor ±Inf.
func IsFiniteScalar(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// SafeNormalize returns the unit vector along v. ok is false when v is zero or
// not finite, in which case the zero vector is returned.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	if !IsFinite(v) {
		return mgl64.Vec3{}, false
	}
	l := v.Len()
	if l < epsilon {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// Decompose splits v into its signed component along the unit normal n and the
// remaining tangential vector.
func Decompose(v, n mgl64.Vec3) (normal float64, tangential mgl64.Vec3) {
	normal = v.Dot(n)
	return normal, v.Sub(n.Mul(normal))
}

// Horizontal drops the vertical component of v.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{v[0], 0, v[2]} }

// HorizontalDistance is the length of b-a projected onto the ground plane.
func HorizontalDistance(a, b mgl64.Vec3) float64 { return Horizontal(b.Sub(a)).Len() }

// Lerp interpolates linearly from a (f=0) to b (f=1).
func Lerp(a, b mgl64.Vec3, f float64) mgl64.Vec3 { return a.Add(b.Sub(a).Mul(f)) }
