package flight

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/flight-engine/internal/physics"
)

// Drag returns the quadratic drag force -½·ρ·A·Cd·|v|·v, N.
func Drag(v mgl64.Vec3, body physics.BodyParameters) mgl64.Vec3 {
	speed := v.Len()
	if speed < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(-0.5 * body.AirDensity * body.CrossArea * body.DragCoeff * speed)
}

// Magnus returns the lift force ½·ρ·A·cl·|v|·(axis × v), N. It is
// perpendicular to both the spin axis and the velocity.
func Magnus(v, axis mgl64.Vec3, cl float64, body physics.BodyParameters) mgl64.Vec3 {
	if cl == 0 {
		return mgl64.Vec3{}
	}
	return axis.Cross(v).Mul(0.5 * body.AirDensity * body.CrossArea * cl * v.Len())
}

// EffectiveLift scales the launch lift coefficient by the fraction of the
// launch spin still present. A body launched without spin gets no lift.
func EffectiveLift(liftCoeff, spin, spin0 float64) float64 {
	if spin0 <= 0 {
		return 0
	}
	return liftCoeff * spin / spin0
}

// Acceleration returns gravity plus the aerodynamic forces divided by mass.
func Acceleration(v, axis mgl64.Vec3, cl float64, body physics.BodyParameters) mgl64.Vec3 {
	force := Drag(v, body).Add(Magnus(v, axis, cl, body))
	return physics.Gravity.Add(force.Mul(1 / body.Mass))
}

// DecaySpin applies spin·(1-decay)^dt.
func DecaySpin(spin, decay, dt float64) float64 {
	if spin == 0 || decay == 0 {
		return spin
	}
	return spin * math.Pow(1-decay, dt)
}
