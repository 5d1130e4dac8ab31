// Package physics defines the state and parameter types shared by the flight
// and ground phases. All quantities are SI: metres, seconds, kilograms, rad/s.
package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/flight-engine/internal/kinematics"
	"github.com/cxd309/flight-engine/internal/simerr"
	"github.com/cxd309/flight-engine/internal/vecmath"
)

// Gravity is the constant gravitational acceleration, m/s².
var Gravity = mgl64.Vec3{0, -kinematics.StandardGravity, 0}

// MaxTimeStep is the largest accepted integration timestep, seconds.
const MaxTimeStep = 0.1

// KinematicState is the instantaneous state of the body. A state is owned by a
// single simulation run and never shared.
type KinematicState struct {
	Position mgl64.Vec3 // m
	Velocity mgl64.Vec3 // m/s
	SpinRate float64    // rad/s, magnitude about SpinAxis
	SpinAxis mgl64.Vec3 // unit vector
	Time     float64    // s since the start of the phase
}

// BodyParameters describe the sphere for one simulation run.
type BodyParameters struct {
	Mass        float64 // kg
	Radius      float64 // m
	DragCoeff   float64 // Cd
	LiftCoeff   float64 // Cl at the launch spin rate
	CrossArea   float64 // m²
	AirDensity  float64 // kg/m³
	SpinDecay   float64 // fraction of spin lost per second
	Restitution float64 // 0..1
	Friction    float64 // ball-surface impact friction, 0..1
}

// SurfaceParameters describe the ground for one roll run.
type SurfaceParameters struct {
	RollingFriction float64    // rolling resistance coefficient, 0..1
	Restitution     float64    // 0=dead, 1=perfectly elastic
	Firmness        float64    // 0=soft/absorptive, 1=hard/reflective
	Normal          mgl64.Vec3 // unit surface normal, default +y
}

// DefaultSpinAxis is the backspin axis for a body travelling along +x.
var DefaultSpinAxis = mgl64.Vec3{0, 0, 1}

// Validate checks the body for the flight phase.
func (b BodyParameters) Validate(op string) error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"mass", b.Mass}, {"radius", b.Radius}, {"crossArea", b.CrossArea}} {
		if !vecmath.IsFiniteScalar(p.v) || p.v <= 0 {
			return simerr.Invalid(op, "%s must be finite and positive, got %g", p.name, p.v)
		}
	}
	for _, p := range []struct {
		name string
		v    float64
	}{{"dragCoeff", b.DragCoeff}, {"liftCoeff", b.LiftCoeff}, {"airDensity", b.AirDensity}} {
		if !vecmath.IsFiniteScalar(p.v) || p.v < 0 {
			return simerr.Invalid(op, "%s must be finite and non-negative, got %g", p.name, p.v)
		}
	}
	if err := UnitInterval(op, "spinDecay", b.SpinDecay); err != nil {
		return err
	}
	if err := UnitInterval(op, "restitution", b.Restitution); err != nil {
		return err
	}
	return UnitInterval(op, "friction", b.Friction)
}

// Validate checks the surface and returns it with a normalised normal.
func (s SurfaceParameters) Validate(op string) (SurfaceParameters, error) {
	if err := UnitInterval(op, "rollingFriction", s.RollingFriction); err != nil {
		return s, err
	}
	if err := UnitInterval(op, "surfaceRestitution", s.Restitution); err != nil {
		return s, err
	}
	if err := UnitInterval(op, "firmness", s.Firmness); err != nil {
		return s, err
	}
	n, ok := vecmath.SafeNormalize(s.Normal)
	if !ok {
		return s, simerr.Invalid(op, "surfaceNormal must be finite and non-zero, got %v", s.Normal)
	}
	if n.Y() <= 0 {
		return s, simerr.Invalid(op, "surfaceNormal must point upward, got %v", s.Normal)
	}
	s.Normal = n
	return s, nil
}

// ValidateState checks the vectors and spin of an initial state and returns it
// with a normalised spin axis. A zero axis is accepted only without spin.
func ValidateState(op string, st KinematicState) (KinematicState, error) {
	if !vecmath.IsFinite(st.Position) {
		return st, simerr.Invalid(op, "position must be finite, got %v", st.Position)
	}
	if !vecmath.IsFinite(st.Velocity) {
		return st, simerr.Invalid(op, "velocity must be finite, got %v", st.Velocity)
	}
	if !vecmath.IsFiniteScalar(st.SpinRate) || st.SpinRate < 0 {
		return st, simerr.Invalid(op, "spinRate must be finite and non-negative, got %g", st.SpinRate)
	}
	axis, ok := vecmath.SafeNormalize(st.SpinAxis)
	switch {
	case ok:
		st.SpinAxis = axis
	case st.SpinRate > 0:
		return st, simerr.Invalid(op, "spinAxis must be finite and non-zero when spinning, got %v", st.SpinAxis)
	default:
		st.SpinAxis = DefaultSpinAxis
	}
	return st, nil
}

// ValidateTimeStep checks dt against (0, MaxTimeStep].
func ValidateTimeStep(op string, dt float64) error {
	if !vecmath.IsFiniteScalar(dt) || dt <= 0 || dt > MaxTimeStep {
		return simerr.Invalid(op, "dt must be in (0, %g], got %g", MaxTimeStep, dt)
	}
	return nil
}

// UnitInterval checks that v is finite and within [0, 1].
func UnitInterval(op, name string, v float64) error {
	if !vecmath.IsFiniteScalar(v) || v < 0 || v > 1 {
		return simerr.Invalid(op, "%s must be in [0, 1], got %g", name, v)
	}
	return nil
}

// CheckStable reports NumericalInstability when the state is no longer finite
// or its speed exceeds maxSpeed.
func CheckStable(op string, step int, st KinematicState, maxSpeed float64) error {
	if !vecmath.IsFinite(st.Position) || !vecmath.IsFinite(st.Velocity) || !vecmath.IsFiniteScalar(st.SpinRate) {
		return simerr.Unstable(op, step, st.Time, "state is no longer finite")
	}
	if speed := st.Velocity.Len(); speed > maxSpeed {
		return simerr.Unstable(op, step, st.Time, "speed %.1f m/s exceeds ceiling %.1f m/s", speed, maxSpeed)
	}
	return nil
}
