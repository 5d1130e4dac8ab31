// Package engine is the entry point of the simulation core.
//
// An Engine turns the JSON-friendly inputs of the two operations, flight and
// roll, into validated physics parameters, runs the matching phase and
// converts the sampled trajectory into an owned output value. The Engine holds
// only configuration, so one value can serve any number of goroutines.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/cxd309/flight-engine/internal/config"
	"github.com/cxd309/flight-engine/internal/flight"
	"github.com/cxd309/flight-engine/internal/ground"
	"github.com/cxd309/flight-engine/internal/physics"
	"github.com/cxd309/flight-engine/internal/simerr"
	"github.com/cxd309/flight-engine/internal/vecmath"
)

// Defaults applied to omitted optional input fields.
const (
	DefaultAirDensity = 1.225 // kg/m³
	DefaultFriction   = 0.4   // ball impact friction
)

// Engine runs simulations with a fixed configuration.
type Engine struct {
	cfg         config.SimulationConfig
	concurrency int
	logger      *zap.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithConcurrency bounds the number of simulations RunBatch runs at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New returns an Engine for cfg. A nil logger disables logging.
func New(cfg config.SimulationConfig, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{cfg: cfg, concurrency: 1, logger: logger.Named("engine")}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SimulateFlight runs the flight phase from launch to ground contact.
func (e *Engine) SimulateFlight(in FlightInput) (FlightOutput, error) {
	p, err := e.flightParams(in)
	if err != nil {
		return FlightOutput{}, e.failed(KindFlight, err)
	}

	res, err := flight.Simulate(p, flight.Limits{MaxTime: e.cfg.MaxFlightTime, MaxSpeed: e.cfg.MaxSpeed})
	if err != nil {
		return FlightOutput{}, e.failed(KindFlight, err)
	}

	out := FlightOutput{
		Points:  make([]FlightPoint, 0, res.Samples.Len()),
		Landing: stateOf(res.Landing),
		Stats: FlightStats{
			Carry:      res.Carry(),
			Apex:       res.Apex(),
			Lateral:    res.Lateral(),
			FlightTime: res.FlightTime(),
		},
	}
	for _, s := range res.Samples.All() {
		out.Points = append(out.Points, FlightPoint{X: s.Position.X(), Y: s.Position.Y(), Z: s.Position.Z(), T: s.Time})
	}
	out.Count = len(out.Points)

	e.logger.Debug("flight simulated",
		zap.Int("samples", out.Count),
		zap.Float64("carry", out.Stats.Carry),
		zap.Float64("apex", out.Stats.Apex),
		zap.Float64("flight_time", out.Stats.FlightTime))
	return out, nil
}

// SimulateRoll runs the ground phase from a landing state until the body rests.
func (e *Engine) SimulateRoll(in RollInput) (RollOutput, error) {
	p, err := e.rollParams(in)
	if err != nil {
		return RollOutput{}, e.failed(KindRoll, err)
	}

	res, err := ground.Simulate(p, ground.Limits{
		MaxTime:        e.cfg.MaxRollTime,
		MaxSpeed:       e.cfg.MaxSpeed,
		StopSpeed:      e.cfg.StopSpeed,
		MinBounceSpeed: e.cfg.MinBounceSpeed,
	})
	if err != nil {
		return RollOutput{}, e.failed(KindRoll, err)
	}

	out := RollOutput{
		Points: make([]RollPoint, 0, res.Samples.Len()),
		Rest:   stateOf(res.Rest),
		Stats: RollStats{
			RollDistance: res.RollDistance(),
			Bounces:      res.Bounces,
			RollStart:    res.RollStart,
			RollTime:     res.Rest.Time,
		},
	}
	prev, _ := res.Samples.First()
	for _, s := range res.Samples.All() {
		out.Stats.TotalDistance += vecmath.HorizontalDistance(prev.Position, s.Position)
		prev = s
		out.Points = append(out.Points, RollPoint{
			X:     s.Position.X(),
			Y:     s.Position.Y(),
			Z:     s.Position.Z(),
			Spin:  s.SpinRate,
			T:     s.Time,
			Phase: string(s.Phase),
		})
	}
	out.Count = len(out.Points)

	e.logger.Debug("roll simulated",
		zap.Int("samples", out.Count),
		zap.Int("bounces", out.Stats.Bounces),
		zap.Float64("roll_distance", out.Stats.RollDistance),
		zap.Float64("roll_time", out.Stats.RollTime))
	return out, nil
}

// RunJSON is the single entry point shared by the CLI, WASM and HTTP front
// ends. It decodes input as the FlightInput or RollInput selected by kind,
// runs the simulation and returns the JSON-encoded output. Malformed JSON and
// unknown kinds are InvalidParameter errors.
func (e *Engine) RunJSON(kind, input string) (string, error) {
	var (
		out any
		err error
	)
	switch kind {
	case KindFlight:
		var in FlightInput
		if err := decode(kind, input, &in); err != nil {
			return "", err
		}
		out, err = e.SimulateFlight(in)
	case KindRoll:
		var in RollInput
		if err := decode(kind, input, &in); err != nil {
			return "", err
		}
		out, err = e.SimulateRoll(in)
	default:
		return "", simerr.Invalid("engine", "unknown simulation kind %q", kind)
	}
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(b), nil
}

func decode(kind, input string, v any) error {
	if err := json.Unmarshal([]byte(input), v); err != nil {
		return simerr.Invalid(kind, "invalid input JSON: %v", err)
	}
	return nil
}

// failed logs a simulation failure. Numerical failures are warnings; bad
// input is only worth a debug line.
func (e *Engine) failed(kind string, err error) error {
	fields := []zap.Field{zap.String("kind", kind), zap.String("error_kind", simerr.Name(err)), zap.Error(err)}
	var se *simerr.Error
	if errors.As(err, &se) && se.Step > 0 {
		fields = append(fields, zap.Int("step", se.Step), zap.Float64("t", se.Time))
	}
	if errors.Is(err, simerr.ErrInvalidParameter) {
		e.logger.Debug("simulation rejected", fields...)
	} else {
		e.logger.Warn("simulation failed", fields...)
	}
	return err
}

func (e *Engine) flightParams(in FlightInput) (flight.Params, error) {
	const op = KindFlight
	vel, err := vector(op, "velocity", in.Velocity, nil)
	if err != nil {
		return flight.Params{}, err
	}
	axis, err := vector(op, "spinAxis", in.SpinAxis, &physics.DefaultSpinAxis)
	if err != nil {
		return flight.Params{}, err
	}
	pos, err := vector(op, "position", in.Position, &mgl64.Vec3{})
	if err != nil {
		return flight.Params{}, err
	}

	return flight.Params{
		Initial: physics.KinematicState{
			Position: pos,
			Velocity: vel,
			SpinRate: in.SpinRate,
			SpinAxis: axis,
		},
		Body: physics.BodyParameters{
			Mass:       in.Mass,
			Radius:     in.Radius,
			DragCoeff:  in.DragCoeff,
			LiftCoeff:  in.LiftCoeff,
			CrossArea:  in.CrossArea,
			AirDensity: orDefault(in.AirDensity, DefaultAirDensity),
			SpinDecay:  in.SpinDecay,
		},
		GroundY: in.GroundY,
		Dt:      orDefault(in.Dt, e.cfg.TimeStep),
	}, nil
}

func (e *Engine) rollParams(in RollInput) (ground.Params, error) {
	const op = KindRoll
	pos, err := vector(op, "position", in.Position, nil)
	if err != nil {
		return ground.Params{}, err
	}
	vel, err := vector(op, "velocity", in.Velocity, nil)
	if err != nil {
		return ground.Params{}, err
	}
	axis, err := vector(op, "spinAxis", in.SpinAxis, &physics.DefaultSpinAxis)
	if err != nil {
		return ground.Params{}, err
	}
	normal, err := vector(op, "surfaceNormal", in.SurfaceNormal, &vecmath.Up)
	if err != nil {
		return ground.Params{}, err
	}

	return ground.Params{
		Initial: physics.KinematicState{
			Position: pos,
			Velocity: vel,
			SpinRate: in.SpinRate,
			SpinAxis: axis,
		},
		Radius:   in.Radius,
		Mass:     in.Mass,
		Friction: orDefault(in.Friction, DefaultFriction),
		Surface: physics.SurfaceParameters{
			RollingFriction: in.RollingFriction,
			Restitution:     in.SurfaceRestitution,
			Firmness:        in.Firmness,
			Normal:          normal,
		},
		Dt: orDefault(in.Dt, e.cfg.TimeStep),
	}, nil
}

// vector converts an input coordinate list. A nil list takes def, or is an
// error when the field is required (def == nil).
func vector(op, name string, s []float64, def *mgl64.Vec3) (mgl64.Vec3, error) {
	if s == nil {
		if def == nil {
			return mgl64.Vec3{}, simerr.Invalid(op, "%s is required", name)
		}
		return *def, nil
	}
	v, err := vecmath.FromSlice(s)
	if err != nil {
		return mgl64.Vec3{}, simerr.Invalid(op, "%s: %v", name, err)
	}
	return v, nil
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func stateOf(st physics.KinematicState) State {
	return State{
		Position: vecmath.ToSlice(st.Position),
		Velocity: vecmath.ToSlice(st.Velocity),
		SpinRate: st.SpinRate,
		SpinAxis: vecmath.ToSlice(st.SpinAxis),
		Time:     st.Time,
	}
}
