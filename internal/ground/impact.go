package ground

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/flight-engine/internal/physics"
	"github.com/cxd309/flight-engine/internal/vecmath"
)

// ImpactResult is the state of the body just after a ground contact.
type ImpactResult struct {
	Velocity mgl64.Vec3 // m/s
	SpinRate float64    // rad/s
	Rebound  float64    // normal speed away from the surface, m/s
}

// Impact resolves one contact of a sphere with the surface.
//
// The normal component is reflected with restitution·firmness. The tangential
// component loses an impulse-proportional share to impact friction (more on
// soft ground), and the contact-point velocity of the spin opposes it, so
// backspin checks the ball. The surface takes 60-90% of the spin. The
// post-impact speed never exceeds restitution times the pre-impact speed.
func Impact(v, axis mgl64.Vec3, spin, radius, ballFriction float64, s physics.SurfaceParameters) ImpactResult {
	n := s.Normal
	vn, vt := vecmath.Decompose(v, n)

	out := n.Mul(-vn * s.Restitution * s.Firmness)

	if vtSpeed := vt.Len(); vtSpeed > 0.01 {
		mu := ballFriction + 0.3*(1-s.Firmness)
		ratio := math.Min(0.8, mu*math.Abs(vn)/vtSpeed)
		vt = vt.Mul(1 - ratio)
	}
	contact := axis.Mul(spin).Cross(n.Mul(-radius))
	vt = vt.Sub(contact.Mul(0.4 * s.Firmness))
	out = out.Add(vt)

	maxSpeed := v.Len() * s.Restitution
	if post := out.Len(); post > maxSpeed && post > 0.01 {
		out = out.Mul(maxSpeed / post)
	}

	return ImpactResult{
		Velocity: out,
		SpinRate: spin * (1 - (0.6 + 0.3*s.Firmness)),
		Rebound:  out.Dot(n),
	}
}
