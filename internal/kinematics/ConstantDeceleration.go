package kinematics

import "math"

// ConstantDeceleration is one-dimensional motion with a fixed deceleration rate.
// Rolling friction on level ground is the typical source: Rate = μ·g.
type ConstantDeceleration struct {
	Rate float64 `json:"rate"` // m/s² (positive)
}

// RollingFriction returns the deceleration produced by rolling friction mu
// under a normal gravity component gn (m/s², positive).
func RollingFriction(mu, gn float64) ConstantDeceleration {
	return ConstantDeceleration{Rate: mu * gn}
}

// DecelerateStep slows the body toward targetV (>= 0) over dt seconds. If
// targetV is reached before dt expires the body holds it for the remainder.
// It returns the distance travelled and the new velocity.
func (c ConstantDeceleration) DecelerateStep(v, targetV, dt float64) (float64, float64) {
	if v <= targetV {
		return v * dt, v
	}
	if c.Rate <= 0 {
		return v * dt, v
	}
	tToTarget := (v - targetV) / c.Rate
	if tToTarget <= dt {
		// Reaches targetV mid-step: decelerate, then hold for the remainder.
		s1 := v*tToTarget - 0.5*c.Rate*tToTarget*tToTarget
		s2 := targetV * (dt - tToTarget)
		return math.Max(0, s1) + s2, targetV
	}
	newV := v - c.Rate*dt
	return math.Max(0, v*dt-0.5*c.Rate*dt*dt), newV
}
