package engine

import "encoding/json"

// Simulation kinds accepted by RunJSON and RunBatch.
const (
	KindFlight = "flight"
	KindRoll   = "roll"
)

// FlightInput is the JSON-serialisable input of SimulateFlight. Omitted
// optional fields take the documented defaults.
type FlightInput struct {
	Velocity   []float64 `json:"velocity"`             // m/s, required
	SpinRate   float64   `json:"spinRate,omitempty"`   // rad/s
	SpinAxis   []float64 `json:"spinAxis,omitempty"`   // default [0,0,1]
	Mass       float64   `json:"mass"`                 // kg
	Radius     float64   `json:"radius"`               // m
	DragCoeff  float64   `json:"dragCoeff"`            // Cd
	LiftCoeff  float64   `json:"liftCoeff"`            // Cl
	CrossArea  float64   `json:"crossArea"`            // m²
	AirDensity *float64  `json:"airDensity,omitempty"` // kg/m³, default 1.225
	SpinDecay  float64   `json:"spinDecay,omitempty"`  // fraction per second
	Position   []float64 `json:"position,omitempty"`   // m, default [0,0,0]
	GroundY    float64   `json:"groundY,omitempty"`    // m
	Dt         *float64  `json:"dt,omitempty"`         // s, default 0.005
}

// RollInput is the JSON-serialisable input of SimulateRoll.
type RollInput struct {
	Position           []float64 `json:"position"`                // m, required
	Velocity           []float64 `json:"velocity"`                // m/s, required
	SpinRate           float64   `json:"spinRate,omitempty"`      // rad/s
	SpinAxis           []float64 `json:"spinAxis,omitempty"`      // default [0,0,1]
	Radius             float64   `json:"radius"`                  // m
	Mass               float64   `json:"mass"`                    // kg
	RollingFriction    float64   `json:"rollingFriction"`         // 0..1
	SurfaceRestitution float64   `json:"surfaceRestitution"`      // 0..1
	Firmness           float64   `json:"firmness"`                // 0..1
	SurfaceNormal      []float64 `json:"surfaceNormal,omitempty"` // default [0,1,0]
	Friction           *float64  `json:"friction,omitempty"`      // ball impact friction, default 0.4
	Dt                 *float64  `json:"dt,omitempty"`            // s, default 0.005
}

// FlightPoint is one flight sample.
type FlightPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	T float64 `json:"t"`
}

// RollPoint is one ground sample.
type RollPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Spin  float64 `json:"spin"` // rad/s
	T     float64 `json:"t"`
	Phase string  `json:"phase"`
}

// State is a full kinematic state, used for the landing and rest states.
type State struct {
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
	SpinRate float64   `json:"spinRate"`
	SpinAxis []float64 `json:"spinAxis"`
	Time     float64   `json:"t"`
}

// FlightStats summarise a flight.
type FlightStats struct {
	Carry      float64 `json:"carry"`      // m, horizontal launch to landing
	Apex       float64 `json:"apex"`       // m above groundY
	Lateral    float64 `json:"lateral"`    // m, z offset at landing
	FlightTime float64 `json:"flightTime"` // s
}

// RollStats summarise a ground run.
type RollStats struct {
	RollDistance  float64 `json:"rollDistance"`  // m, horizontal landing to rest
	TotalDistance float64 `json:"totalDistance"` // m, horizontal path length
	Bounces       int     `json:"bounces"`
	RollStart     float64 `json:"rollStart"` // s
	RollTime      float64 `json:"rollTime"`  // s, landing to rest
}

// FlightOutput is the result of SimulateFlight.
type FlightOutput struct {
	Points  []FlightPoint `json:"points"`
	Count   int           `json:"count"`
	Landing State         `json:"landing"`
	Stats   FlightStats   `json:"stats"`
}

// At returns the i-th point. ok is false when i is out of range.
func (o FlightOutput) At(i int) (p FlightPoint, ok bool) {
	if i < 0 || i >= len(o.Points) {
		return p, false
	}
	return o.Points[i], true
}

// RollOutput is the result of SimulateRoll.
type RollOutput struct {
	Points []RollPoint `json:"points"`
	Count  int         `json:"count"`
	Rest   State       `json:"rest"`
	Stats  RollStats   `json:"stats"`
}

// At returns the i-th point. ok is false when i is out of range.
func (o RollOutput) At(i int) (p RollPoint, ok bool) {
	if i < 0 || i >= len(o.Points) {
		return p, false
	}
	return o.Points[i], true
}

// Request is one entry of a batch.
type Request struct {
	ID    string          `json:"id"`
	Kind  string          `json:"kind"` // KindFlight or KindRoll
	Input json.RawMessage `json:"input"`
}

// Response is the outcome of one Request. Exactly one of Output and Error is set.
type Response struct {
	ID     string          `json:"id"`
	Kind   string          `json:"kind"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody reports a failed simulation.
type ErrorBody struct {
	Kind    string `json:"kind"` // InvalidParameter, NumericalInstability, BudgetExceeded
	Message string `json:"message"`
}
