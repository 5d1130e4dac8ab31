//go:build js && wasm

// Command wasm exposes the engine to the browser via WebAssembly.
// After loading, it registers two global JavaScript functions:
//
//	simulateFlight(jsonString) -> result
//	simulateRoll(jsonString)   -> result
//
// The input is a FlightInput or RollInput JSON document, the same contract
// used by the CLI and the HTTP API. A result is an object with
//
//	count       number of samples
//	point(i)    sample i ({x,y,z,t} or {x,y,z,spin,t,phase}), null when out of range
//	landing     exact landing state (flight) / rest state (roll)
//	stats       summary statistics
//	release()   frees the Go callbacks; point() must not be called afterwards
//
// so a host can pull samples one at a time instead of copying the whole
// trajectory. On failure the object is {error, kind} instead.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/cxd309/flight-engine/internal/config"
	"github.com/cxd309/flight-engine/internal/engine"
	"github.com/cxd309/flight-engine/internal/simerr"
)

func main() {
	eng, err := engine.New(config.NewDefaultConfig().Simulation, nil)
	if err != nil {
		panic(err)
	}
	js.Global().Set("simulateFlight", js.FuncOf(func(_ js.Value, args []js.Value) any {
		var in engine.FlightInput
		if err := decodeArg(args, &in); err != nil {
			return errorObject(err)
		}
		out, err := eng.SimulateFlight(in)
		if err != nil {
			return errorObject(err)
		}
		point := func(i int) (any, bool) {
			p, ok := out.At(i)
			return map[string]any{"x": p.X, "y": p.Y, "z": p.Z, "t": p.T}, ok
		}
		return resultObject(out.Count, point, map[string]any{"landing": out.Landing, "stats": out.Stats})
	}))
	js.Global().Set("simulateRoll", js.FuncOf(func(_ js.Value, args []js.Value) any {
		var in engine.RollInput
		if err := decodeArg(args, &in); err != nil {
			return errorObject(err)
		}
		out, err := eng.SimulateRoll(in)
		if err != nil {
			return errorObject(err)
		}
		point := func(i int) (any, bool) {
			p, ok := out.At(i)
			return map[string]any{"x": p.X, "y": p.Y, "z": p.Z, "spin": p.Spin, "t": p.T, "phase": p.Phase}, ok
		}
		return resultObject(out.Count, point, map[string]any{"landing": out.Rest, "stats": out.Stats})
	}))
	select {} // keep the WASM module alive until the page is closed
}

func decodeArg(args []js.Value, v any) error {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return simerr.Invalid("wasm", "expected one JSON string argument")
	}
	if err := json.Unmarshal([]byte(args[0].String()), v); err != nil {
		return simerr.Invalid("wasm", "invalid input JSON: %v", err)
	}
	return nil
}

func resultObject(count int, point func(int) (any, bool), extra map[string]any) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("count", count)
	for k, v := range extra {
		b, err := json.Marshal(v)
		if err != nil {
			return errorObject(err)
		}
		obj.Set(k, js.Global().Get("JSON").Call("parse", string(b)))
	}

	var pointFn, releaseFn js.Func
	pointFn = js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) < 1 || args[0].Type() != js.TypeNumber {
			return js.Null()
		}
		p, ok := point(args[0].Int())
		if !ok {
			return js.Null()
		}
		return p
	})
	releaseFn = js.FuncOf(func(js.Value, []js.Value) any {
		pointFn.Release()
		releaseFn.Release()
		return nil
	})
	obj.Set("point", pointFn)
	obj.Set("release", releaseFn)
	return obj
}

func errorObject(err error) js.Value {
	return js.ValueOf(map[string]any{"error": err.Error(), "kind": simerr.Name(err)})
}
