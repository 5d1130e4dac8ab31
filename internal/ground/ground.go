// Package ground simulates a sphere after it reaches the ground: bouncing with
// partial restitution, the one-way transition to rolling, rolling friction with
// spin coupling, and coming to rest.
package ground

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/cxd309/flight-engine/internal/kinematics"
	"github.com/cxd309/flight-engine/internal/physics"
	"github.com/cxd309/flight-engine/internal/sampler"
	"github.com/cxd309/flight-engine/internal/simerr"
	"github.com/cxd309/flight-engine/internal/vecmath"
)

const op = "roll"

// spinCouplingTime is the time constant with which spin relaxes toward the
// no-slip rate while rolling, seconds.
const spinCouplingTime = 0.05

// Phase describes what the body is doing on the surface.
type Phase string

const (
	PhaseBouncing Phase = "bouncing"
	PhaseRolling  Phase = "rolling"
	PhaseResting  Phase = "resting"
)

// Params are the inputs of one ground run.
type Params struct {
	Initial  physics.KinematicState // landing state
	Radius   float64                // m
	Mass     float64                // kg
	Friction float64                // ball impact friction, 0..1
	Surface  physics.SurfaceParameters
	Dt       float64 // s
}

// Limits bound a run and set its thresholds.
type Limits struct {
	MaxTime        float64 // simulated seconds before BudgetExceeded
	MaxSpeed       float64 // m/s before NumericalInstability
	StopSpeed      float64 // m/s at or below which a rolling body stops
	MinBounceSpeed float64 // rebound speed below which bouncing ends, m/s
}

// DefaultLimits returns a 60 s cap, 1000 m/s ceiling, 0.15 m/s stop speed and
// 0.3 m/s minimum bounce.
func DefaultLimits() Limits {
	return Limits{MaxTime: 60, MaxSpeed: 1000, StopSpeed: 0.15, MinBounceSpeed: 0.3}
}

// Sample is one recorded ground snapshot.
type Sample struct {
	Position mgl64.Vec3 // m
	Velocity mgl64.Vec3 // m/s
	SpinRate float64    // rad/s
	Time     float64    // s
	Phase    Phase
}

// Result is the output of a run that came to rest.
type Result struct {
	Samples   sampler.Sequence[Sample]
	Rest      physics.KinematicState
	Bounces   int     // ground contacts with an impact
	RollStart float64 // time rolling began, s
}

// RollDistance returns the horizontal distance from landing to rest.
func (r Result) RollDistance() float64 {
	first, ok := r.Samples.First()
	if !ok {
		return 0
	}
	return vecmath.HorizontalDistance(first.Position, r.Rest.Position)
}

// arc is a free-flight hop between two contacts.
type arc struct {
	start    physics.KinematicState
	duration float64
	steps    int
}

// model is the bounce/roll state machine for one run.
type model struct {
	p   Params
	lim Limits

	origin   mgl64.Vec3 // a point on the surface plane
	gTangent mgl64.Vec3 // gravity along the surface
	friction kinematics.ConstantDeceleration
	proj     kinematics.Projectile
	spinKeep float64 // per-step fraction of the spin/no-slip gap kept

	st        physics.KinematicState
	phase     Phase
	arc       arc
	bounces   int
	rollStart float64
	rollSteps int
}

// Simulate runs the ground phase until the body rests.
func Simulate(p Params, lim Limits) (Result, error) {
	m, err := newModel(p, lim)
	if err != nil {
		return Result{}, err
	}

	m.contact()
	maxSteps := int(math.Ceil(lim.MaxTime / p.Dt))
	seq, err := sampler.Run(op, m.sample(), maxSteps, sampleTime, func(step int) ([]Sample, bool, error) {
		if m.phase == PhaseBouncing {
			m.advanceArc()
		} else {
			m.advanceRoll()
		}
		if err := physics.CheckStable(op, step, m.st, lim.MaxSpeed); err != nil {
			return nil, false, err
		}
		return []Sample{m.sample()}, m.phase == PhaseResting, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Samples: seq, Rest: m.st, Bounces: m.bounces, RollStart: m.rollStart}, nil
}

func newModel(p Params, lim Limits) (*model, error) {
	for _, q := range []struct {
		name string
		v    float64
	}{{"radius", p.Radius}, {"mass", p.Mass}} {
		if !vecmath.IsFiniteScalar(q.v) || q.v <= 0 {
			return nil, simerr.Invalid(op, "%s must be finite and positive, got %g", q.name, q.v)
		}
	}
	if err := physics.UnitInterval(op, "friction", p.Friction); err != nil {
		return nil, err
	}
	surface, err := p.Surface.Validate(op)
	if err != nil {
		return nil, err
	}
	if err := physics.ValidateTimeStep(op, p.Dt); err != nil {
		return nil, err
	}
	if !vecmath.IsFiniteScalar(lim.MaxTime) || lim.MaxTime <= 0 || !(lim.MaxSpeed > 0) ||
		!(lim.StopSpeed >= 0) || !(lim.MinBounceSpeed >= 0) {
		return nil, simerr.Invalid(op, "limits must be positive, got %+v", lim)
	}
	st, err := physics.ValidateState(op, p.Initial)
	if err != nil {
		return nil, err
	}
	st.Time = 0
	p.Surface = surface

	n := surface.Normal
	gn := -physics.Gravity.Dot(n)
	return &model{
		p:        p,
		lim:      lim,
		origin:   st.Position,
		gTangent: physics.Gravity.Add(n.Mul(gn)),
		friction: kinematics.RollingFriction(surface.RollingFriction, gn),
		proj:     kinematics.Projectile{Gravity: physics.Gravity},
		spinKeep: math.Exp(-p.Dt / spinCouplingTime),
		st:       st,
	}, nil
}

// contact resolves the body touching the surface and picks the next phase:
// another hop if the rebound is strong enough, otherwise rolling for good.
func (m *model) contact() {
	n := m.p.Surface.Normal
	if vn, _ := vecmath.Decompose(m.st.Velocity, n); vn < -1e-9 {
		hit := Impact(m.st.Velocity, m.st.SpinAxis, m.st.SpinRate, m.p.Radius, m.p.Friction, m.p.Surface)
		m.st.Velocity, m.st.SpinRate = hit.Velocity, hit.SpinRate
		m.bounces++
	}

	if vn := m.st.Velocity.Dot(n); vn > m.lim.MinBounceSpeed {
		if d, ok := m.proj.TimeToPlane(m.st.Position, m.st.Velocity, m.origin, n); ok {
			m.phase = PhaseBouncing
			m.arc = arc{start: m.st, duration: d}
			return
		}
	}

	_, m.st.Velocity = vecmath.Decompose(m.st.Velocity, n)
	m.phase = PhaseRolling
	m.rollStart = m.st.Time
}

// advanceArc moves one timestep along the current hop, or to its end.
func (m *model) advanceArc() {
	a := &m.arc
	a.steps++
	t := float64(a.steps) * m.p.Dt
	if t < a.duration-1e-12 {
		m.st.Position = m.proj.Position(a.start.Position, a.start.Velocity, t)
		m.st.Velocity = m.proj.Velocity(a.start.Velocity, t)
		m.st.Time = a.start.Time + t
		return
	}

	m.st.Position = m.onPlane(m.proj.Position(a.start.Position, a.start.Velocity, a.duration))
	m.st.Velocity = m.proj.Velocity(a.start.Velocity, a.duration)
	m.st.Time = a.start.Time + a.duration
	m.contact()
}

// advanceRoll moves one timestep along the surface and couples spin to speed.
func (m *model) advanceRoll() {
	dt := m.p.Dt
	v := m.st.Velocity
	speed := v.Len()

	if m.gTangent.Len() < 1e-9 {
		// Level ground: constant deceleration has an exact step.
		dist, newSpeed := m.friction.DecelerateStep(speed, 0, dt)
		if dir, ok := vecmath.SafeNormalize(v); ok {
			m.st.Position = m.st.Position.Add(dir.Mul(dist))
			m.st.Velocity = dir.Mul(newSpeed)
		}
	} else {
		dir, ok := vecmath.SafeNormalize(v)
		if !ok {
			dir, _ = vecmath.SafeNormalize(m.gTangent)
		}
		acc := m.gTangent.Sub(dir.Mul(m.friction.Rate))
		m.st.Velocity = v.Add(acc.Mul(dt))
		if m.st.Velocity.Dot(v) <= 0 && m.gTangent.Len() <= m.friction.Rate {
			// Friction can hold the body, so it stops instead of reversing.
			m.st.Velocity = mgl64.Vec3{}
		}
		m.st.Position = m.onPlane(m.st.Position.Add(m.st.Velocity.Mul(dt)))
	}

	m.rollSteps++
	m.st.Time = m.rollStart + float64(m.rollSteps)*dt

	newSpeed := m.st.Velocity.Len()
	target := newSpeed / m.p.Radius
	m.st.SpinRate = target + (m.st.SpinRate-target)*m.spinKeep

	if newSpeed <= m.lim.StopSpeed && m.gTangent.Len() <= m.friction.Rate {
		m.st.Velocity = mgl64.Vec3{}
		m.st.SpinRate = 0
		m.phase = PhaseResting
	}
}

// onPlane projects p onto the surface plane.
func (m *model) onPlane(p mgl64.Vec3) mgl64.Vec3 {
	n := m.p.Surface.Normal
	return p.Sub(n.Mul(p.Sub(m.origin).Dot(n)))
}

func (m *model) sample() Sample {
	return Sample{
		Position: m.st.Position,
		Velocity: m.st.Velocity,
		SpinRate: m.st.SpinRate,
		Time:     m.st.Time,
		Phase:    m.phase,
	}
}

func sampleTime(s Sample) float64 { return s.Time }
