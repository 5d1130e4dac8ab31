package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// StandardGravity is the downward acceleration used throughout, m/s².
const StandardGravity = 9.81

// Projectile is gravity-only motion with no aerodynamic forces.
type Projectile struct {
	Gravity mgl64.Vec3 // m/s²
}

// NewProjectile returns a Projectile under standard gravity along -y.
func NewProjectile() Projectile {
	return Projectile{Gravity: mgl64.Vec3{0, -StandardGravity, 0}}
}

// Position returns p0 + v0·t + ½·g·t².
func (p Projectile) Position(p0, v0 mgl64.Vec3, t float64) mgl64.Vec3 {
	return p0.Add(v0.Mul(t)).Add(p.Gravity.Mul(0.5 * t * t))
}

// Velocity returns v0 + g·t.
func (p Projectile) Velocity(v0 mgl64.Vec3, t float64) mgl64.Vec3 {
	return v0.Add(p.Gravity.Mul(t))
}

// TimeToPlane returns the earliest strictly positive time at which a body
// launched from p0 with v0 crosses the plane through origin with unit normal n.
// ok is false if the body never reaches the plane.
func (p Projectile) TimeToPlane(p0, v0, origin, n mgl64.Vec3) (t float64, ok bool) {
	// ½·(g·n)·t² + (v0·n)·t + (p0-origin)·n = 0
	a := 0.5 * p.Gravity.Dot(n)
	b := v0.Dot(n)
	c := p0.Sub(origin).Dot(n)

	const eps = 1e-12
	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return 0, false
		}
		t = -c / b
		return t, t > eps
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / (2 * a)
	t2 := (-b - sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	switch {
	case t1 > eps:
		return t1, true
	case t2 > eps:
		return t2, true
	}
	return 0, false
}

// Apex returns the greatest height (y) reached by a body launched from p0
// with v0 under vertical gravity.
func (p Projectile) Apex(p0, v0 mgl64.Vec3) float64 {
	gy := p.Gravity.Y()
	if gy >= 0 || v0.Y() <= 0 {
		return p0.Y()
	}
	tPeak := -v0.Y() / gy
	return p0.Y() + v0.Y()*tPeak + 0.5*gy*tPeak*tPeak
}

// Range returns the horizontal distance covered before returning to the launch
// height. It is +Inf without gravity and 0 for a non-rising launch.
func (p Projectile) Range(v0 mgl64.Vec3) float64 {
	gy := p.Gravity.Y()
	if math.Abs(gy) < 1e-12 {
		return math.Inf(1)
	}
	tFlight := -2 * v0.Y() / gy
	if tFlight <= 0 {
		return 0
	}
	return math.Hypot(v0.X(), v0.Z()) * tFlight
}
