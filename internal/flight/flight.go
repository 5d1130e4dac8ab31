// Package flight integrates the aerodynamic flight of a spinning sphere from
// launch until it crosses the ground plane.
//
// Each step evaluates gravity, quadratic drag and Magnus lift from the state at
// the start of the step, updates velocity first and then position with the same
// dt (semi-implicit Euler), and decays the spin rate exponentially. The step
// that crosses the ground is cut at the crossing, so the final sample sits
// exactly on the ground plane with a partial-step timestamp.
package flight

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/flight-engine/internal/physics"
	"github.com/cxd309/flight-engine/internal/sampler"
	"github.com/cxd309/flight-engine/internal/simerr"
	"github.com/cxd309/flight-engine/internal/vecmath"
)

const op = "flight"

// Params are the inputs of one flight run.
type Params struct {
	Initial physics.KinematicState
	Body    physics.BodyParameters
	GroundY float64 // m
	Dt      float64 // s
}

// Limits bound a run so it terminates for any input.
type Limits struct {
	MaxTime  float64 // simulated seconds before BudgetExceeded
	MaxSpeed float64 // m/s before NumericalInstability
}

// DefaultLimits returns a 30 s flight cap and a 1000 m/s speed ceiling.
func DefaultLimits() Limits {
	return Limits{MaxTime: 30, MaxSpeed: 1000}
}

// Sample is one recorded flight snapshot.
type Sample struct {
	Position mgl64.Vec3 // m
	Velocity mgl64.Vec3 // m/s
	SpinRate float64    // rad/s
	Time     float64    // s
}

// Result is the output of a completed flight.
type Result struct {
	Samples sampler.Sequence[Sample]
	Landing physics.KinematicState // exact state at ground contact
	GroundY float64                // height of the ground plane, m
}

// Simulate runs the flight phase to ground contact.
func Simulate(p Params, lim Limits) (Result, error) {
	st, err := validate(p, lim)
	if err != nil {
		return Result{}, err
	}

	spin0 := st.SpinRate
	landing := st
	maxSteps := int(math.Ceil(lim.MaxTime / p.Dt))

	seq, err := sampler.Run(op, sampleOf(st), maxSteps, sampleTime, func(step int) ([]Sample, bool, error) {
		next := Advance(st, p.Body, spin0, p.Dt)
		next.Time = float64(step) * p.Dt
		if err := physics.CheckStable(op, step, next, lim.MaxSpeed); err != nil {
			return nil, false, err
		}
		if next.Position.Y() > p.GroundY {
			st = next
			return []Sample{sampleOf(next)}, false, nil
		}

		landing = interpolateLanding(st, next, p.GroundY, p.Body.SpinDecay)
		if landing.Time <= st.Time {
			// Already resting on the ground at the start of the step.
			return nil, true, nil
		}
		return []Sample{sampleOf(landing)}, true, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Samples: seq, Landing: landing, GroundY: p.GroundY}, nil
}

func validate(p Params, lim Limits) (physics.KinematicState, error) {
	if err := p.Body.Validate(op); err != nil {
		return physics.KinematicState{}, err
	}
	if err := physics.ValidateTimeStep(op, p.Dt); err != nil {
		return physics.KinematicState{}, err
	}
	if !vecmath.IsFiniteScalar(p.GroundY) {
		return physics.KinematicState{}, simerr.Invalid(op, "groundY must be finite, got %g", p.GroundY)
	}
	if !vecmath.IsFiniteScalar(lim.MaxTime) || lim.MaxTime <= 0 || !(lim.MaxSpeed > 0) {
		return physics.KinematicState{}, simerr.Invalid(op, "limits must be positive, got %+v", lim)
	}
	st, err := physics.ValidateState(op, p.Initial)
	if err != nil {
		return physics.KinematicState{}, err
	}
	if st.Position.Y() < p.GroundY {
		return physics.KinematicState{}, simerr.Invalid(op, "start height %g is below groundY %g", st.Position.Y(), p.GroundY)
	}
	st.Time = 0
	return st, nil
}

// Advance integrates one timestep from st. spin0 is the launch spin rate that
// LiftCoeff refers to.
func Advance(st physics.KinematicState, body physics.BodyParameters, spin0, dt float64) physics.KinematicState {
	acc := Acceleration(st.Velocity, st.SpinAxis, EffectiveLift(body.LiftCoeff, st.SpinRate, spin0), body)
	v := st.Velocity.Add(acc.Mul(dt))
	return physics.KinematicState{
		Position: st.Position.Add(v.Mul(dt)),
		Velocity: v,
		SpinRate: DecaySpin(st.SpinRate, body.SpinDecay, dt),
		SpinAxis: st.SpinAxis,
		Time:     st.Time + dt,
	}
}

// interpolateLanding cuts the step prev→next where it crosses groundY.
func interpolateLanding(prev, next physics.KinematicState, groundY, decay float64) physics.KinematicState {
	dt := next.Time - prev.Time
	f := 0.0
	if drop := prev.Position.Y() - next.Position.Y(); drop > 0 {
		f = mgl64.Clamp((prev.Position.Y()-groundY)/drop, 0, 1)
	}
	pos := vecmath.Lerp(prev.Position, next.Position, f)
	pos[1] = groundY
	return physics.KinematicState{
		Position: pos,
		Velocity: vecmath.Lerp(prev.Velocity, next.Velocity, f),
		SpinRate: DecaySpin(prev.SpinRate, decay, f*dt),
		SpinAxis: prev.SpinAxis,
		Time:     prev.Time + f*dt,
	}
}

func sampleOf(st physics.KinematicState) Sample {
	return Sample{Position: st.Position, Velocity: st.Velocity, SpinRate: st.SpinRate, Time: st.Time}
}

func sampleTime(s Sample) float64 { return s.Time }

// Apex returns the greatest height reached during the flight, measured
// above the ground plane.
func (r Result) Apex() float64 {
	apex := math.Inf(-1)
	for _, s := range r.Samples.All() {
		apex = math.Max(apex, s.Position.Y())
	}
	return apex - r.GroundY
}

// Carry returns the horizontal distance from launch to landing.
func (r Result) Carry() float64 {
	first, ok := r.Samples.First()
	if !ok {
		return 0
	}
	return vecmath.HorizontalDistance(first.Position, r.Landing.Position)
}

// Lateral returns the sideways (z) deviation at landing.
func (r Result) Lateral() float64 {
	first, ok := r.Samples.First()
	if !ok {
		return 0
	}
	return r.Landing.Position.Z() - first.Position.Z()
}

// FlightTime returns the time of ground contact.
func (r Result) FlightTime() float64 { return r.Landing.Time }
