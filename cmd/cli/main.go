// Command flight-engine runs spinning-sphere flight and roll simulations.
//
//	flight-engine flight [file]   FlightInput JSON (file or stdin) -> FlightOutput JSON
//	flight-engine roll [file]     RollInput JSON -> RollOutput JSON
//	flight-engine batch [file]    []Request JSON -> []Response JSON
//	flight-engine serve           HTTP API on server.addr
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/cxd309/flight-engine/internal/observability"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
	}
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
