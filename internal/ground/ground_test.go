package ground

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/flight-engine/internal/physics"
	"github.com/cxd309/flight-engine/internal/simerr"
)

const (
	dt     = 0.005
	radius = 0.02135
)

func fairway() physics.SurfaceParameters {
	return physics.SurfaceParameters{
		RollingFriction: 0.1,
		Restitution:     0.4,
		Firmness:        0.6,
		Normal:          mgl64.Vec3{0, 1, 0},
	}
}

func params(v mgl64.Vec3, spin float64, s physics.SurfaceParameters) Params {
	return Params{
		Initial: physics.KinematicState{
			Velocity: v,
			SpinRate: spin,
			SpinAxis: mgl64.Vec3{0, 0, 1},
		},
		Radius:   radius,
		Mass:     0.04593,
		Friction: 0.4,
		Surface:  s,
		Dt:       dt,
	}
}

func run(t *testing.T, p Params) Result {
	t.Helper()
	res, err := Simulate(p, DefaultLimits())
	require.NoError(t, err)
	return res
}

func TestHorizontalLandingOnSoftGroundRollsImmediately(t *testing.T) {
	s := fairway()
	s.Firmness = 0
	res := run(t, params(mgl64.Vec3{5, 0, 0}, 0, s))

	first, _ := res.Samples.First()
	assert.Equal(t, PhaseRolling, first.Phase)
	assert.Equal(t, 0, res.Bounces)
	assert.Zero(t, res.RollStart)
	for _, smp := range res.Samples.All() {
		assert.NotEqual(t, PhaseBouncing, smp.Phase)
	}

	last, _ := res.Samples.Last()
	assert.Equal(t, PhaseResting, last.Phase)
	assert.Zero(t, last.Velocity.Len())
	assert.Zero(t, last.SpinRate)

	// v²/(2μg), short by at most the distance covered below the stop speed.
	want := 25 / (2 * 0.1 * 9.81)
	assert.InDelta(t, want, res.RollDistance(), 0.02)
	assert.LessOrEqual(t, res.RollDistance(), want+1e-9)
}

func TestRollingSpinApproachesNoSlip(t *testing.T) {
	res := run(t, params(mgl64.Vec3{5, 0, 0}, 0, fairway()))

	checked := 0
	for _, smp := range res.Samples.All() {
		if smp.Phase != PhaseRolling || smp.Time < 0.5 {
			continue
		}
		assert.InDelta(t, smp.Velocity.Len(), smp.SpinRate*radius, 0.1, "t=%.3f", smp.Time)
		checked++
	}
	assert.Greater(t, checked, 100)
}

func TestStopsBelowThreshold(t *testing.T) {
	res := run(t, params(mgl64.Vec3{3, 0, 1}, 50, fairway()))

	for i := 1; i < res.Samples.Len()-1; i++ {
		smp, _ := res.Samples.At(i)
		assert.GreaterOrEqual(t, smp.Velocity.Len(), DefaultLimits().StopSpeed)
	}
	assert.Equal(t, mgl64.Vec3{}, res.Rest.Velocity)
	assert.Zero(t, res.Rest.SpinRate)
}

func TestBounceThenRoll(t *testing.T) {
	res := run(t, params(mgl64.Vec3{15, -5, 0}, 200, physics.SurfaceParameters{
		RollingFriction: 0.15,
		Restitution:     0.4,
		Firmness:        0.6,
		Normal:          mgl64.Vec3{0, 1, 0},
	}))

	first, _ := res.Samples.First()
	assert.Equal(t, PhaseBouncing, first.Phase)
	assert.GreaterOrEqual(t, res.Bounces, 1)
	assert.Greater(t, res.RollStart, 0.0)
	assert.Greater(t, res.Rest.Position.X(), 1.0)

	order := map[Phase]int{PhaseBouncing: 0, PhaseRolling: 1, PhaseResting: 2}
	prev := PhaseBouncing
	for _, smp := range res.Samples.All() {
		assert.GreaterOrEqual(t, smp.Position.Y(), -1e-9)
		assert.GreaterOrEqual(t, order[smp.Phase], order[prev], "phase went back at t=%.3f", smp.Time)
		prev = smp.Phase
	}
	assert.Equal(t, PhaseResting, prev)
}

func TestTimestampsStrictlyIncrease(t *testing.T) {
	res := run(t, params(mgl64.Vec3{12, -8, 2}, 150, fairway()))

	prev, _ := res.Samples.First()
	for i := 1; i < res.Samples.Len(); i++ {
		smp, _ := res.Samples.At(i)
		assert.Greater(t, smp.Time, prev.Time)
		assert.LessOrEqual(t, smp.Time-prev.Time, dt+1e-9)
		prev = smp
	}
}

func TestHigherFrictionStopsSooner(t *testing.T) {
	dist := func(mu float64) float64 {
		s := fairway()
		s.RollingFriction = mu
		return run(t, params(mgl64.Vec3{4, 0, 0}, 0, s)).RollDistance()
	}
	assert.Greater(t, dist(0.05), dist(0.1))
	assert.Greater(t, dist(0.1), dist(0.3))
}

func TestZeroFrictionExceedsBudget(t *testing.T) {
	s := fairway()
	s.RollingFriction = 0
	lim := DefaultLimits()
	lim.MaxTime = 2

	_, err := Simulate(params(mgl64.Vec3{2, 0, 0}, 0, s), lim)
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerr.ErrBudgetExceeded))
}

func TestSteepSlopeExceedsBudget(t *testing.T) {
	s := fairway()
	s.RollingFriction = 0.05
	s.Normal = mgl64.Vec3{0.2, 1, 0}
	lim := DefaultLimits()
	lim.MaxTime = 2

	_, err := Simulate(params(mgl64.Vec3{}, 0, s), lim)
	assert.ErrorIs(t, err, simerr.ErrBudgetExceeded)
}

func TestZeroStopSpeedStillSettles(t *testing.T) {
	s := fairway()
	s.Firmness = 0
	s.RollingFriction = 0.2
	lim := DefaultLimits()
	lim.StopSpeed = 0

	res, err := Simulate(params(mgl64.Vec3{2, 0, 0}, 0, s), lim)
	require.NoError(t, err)
	last, _ := res.Samples.Last()
	assert.Equal(t, PhaseResting, last.Phase)
	assert.Equal(t, mgl64.Vec3{}, res.Rest.Velocity)
	assert.InDelta(t, 4/(2*0.2*9.81), res.RollDistance(), 0.02)
	assert.Less(t, res.Rest.Time, 2.0)

	// Friction holds the ball on a gentle slope, so it stops rather than
	// sliding back.
	s.Normal = mgl64.Vec3{0.01, 1, 0}
	res, err = Simulate(params(mgl64.Vec3{-2, 0, 0}, 0, s), lim)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{}, res.Rest.Velocity)
}

func TestRollInstability(t *testing.T) {
	s := fairway()
	s.Firmness = 0
	lim := DefaultLimits()
	lim.MaxSpeed = 1

	_, err := Simulate(params(mgl64.Vec3{5, 0, 0}, 0, s), lim)
	require.Error(t, err)
	assert.True(t, errors.Is(err, simerr.ErrNumericalInstability))
	assert.Equal(t, simerr.ErrNumericalInstability, simerr.KindOf(err))
}

func TestGentleSlopeStaysOnPlane(t *testing.T) {
	s := fairway()
	s.Normal = mgl64.Vec3{0.01, 1, 0}
	p := params(mgl64.Vec3{2, 0, 0}, 0, s)
	p.Initial.Position = mgl64.Vec3{100, 3, -4}
	res := run(t, p)

	n := s.Normal.Normalize()
	for _, smp := range res.Samples.All() {
		assert.InDelta(t, 0, smp.Position.Sub(p.Initial.Position).Dot(n), 1e-9)
	}
	// Downhill is +x, so the ball runs past the flat-ground distance.
	flat := run(t, params(mgl64.Vec3{2, 0, 0}, 0, fairway()))
	assert.Greater(t, res.RollDistance(), flat.RollDistance())
}

func TestDeterministic(t *testing.T) {
	p := params(mgl64.Vec3{14, -6, 1}, 220, fairway())
	a, b := run(t, p), run(t, p)
	assert.Empty(t, cmp.Diff(a.Samples.Slice(), b.Samples.Slice()))
	assert.Equal(t, a.Rest, b.Rest)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero radius", func(p *Params) { p.Radius = 0 }},
		{"negative mass", func(p *Params) { p.Mass = -1 }},
		{"friction above one", func(p *Params) { p.Friction = 2 }},
		{"restitution above one", func(p *Params) { p.Surface.Restitution = 1.5 }},
		{"negative rolling friction", func(p *Params) { p.Surface.RollingFriction = -0.1 }},
		{"firmness NaN", func(p *Params) { p.Surface.Firmness = math.NaN() }},
		{"downward normal", func(p *Params) { p.Surface.Normal = mgl64.Vec3{0, -1, 0} }},
		{"vertical wall", func(p *Params) { p.Surface.Normal = mgl64.Vec3{1, 0, 0} }},
		{"zero normal", func(p *Params) { p.Surface.Normal = mgl64.Vec3{} }},
		{"negative spin", func(p *Params) { p.Initial.SpinRate = -1 }},
		{"infinite velocity", func(p *Params) { p.Initial.Velocity = mgl64.Vec3{math.Inf(1), 0, 0} }},
		{"zero dt", func(p *Params) { p.Dt = 0 }},
		{"dt too large", func(p *Params) { p.Dt = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params(mgl64.Vec3{5, -2, 0}, 100, fairway())
			tt.mutate(&p)
			res, err := Simulate(p, DefaultLimits())
			assert.ErrorIs(t, err, simerr.ErrInvalidParameter)
			assert.Zero(t, res.Samples.Len())
		})
	}
}

func TestImpact(t *testing.T) {
	s := physics.SurfaceParameters{RollingFriction: 0.1, Restitution: 0.5, Firmness: 0.5, Normal: mgl64.Vec3{0, 1, 0}}
	axis := mgl64.Vec3{0, 0, 1}
	v := mgl64.Vec3{20, -10, 0}

	hit := Impact(v, axis, 100, 0.02, 0.4, s)
	assert.Greater(t, hit.Velocity.Y(), 0.0)
	assert.Less(t, hit.Velocity.Y(), 10.0)
	assert.Equal(t, hit.Velocity.Y(), hit.Rebound)
	assert.Less(t, hit.SpinRate, 100.0)
	assert.LessOrEqual(t, hit.Velocity.Len(), v.Len()*s.Restitution+1e-9)

	// Backspin checks the ball.
	still := Impact(v, axis, 0, 0.02, 0.4, s)
	spun := Impact(v, axis, 300, 0.02, 0.4, s)
	assert.Less(t, spun.Velocity.X(), still.Velocity.X())

	// A dead surface absorbs the whole normal component.
	s.Firmness = 0
	assert.InDelta(t, 0, Impact(v, axis, 0, 0.02, 0.4, s).Rebound, 1e-12)
}
