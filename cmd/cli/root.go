package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cxd309/flight-engine/internal/config"
	"github.com/cxd309/flight-engine/internal/engine"
	"github.com/cxd309/flight-engine/internal/observability"
)

const version = "1.0.0"

// app carries what PersistentPreRunE builds for the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
	engine  *engine.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:          "flight-engine",
		Short:        "Spinning-sphere flight and roll simulator.",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	root.AddCommand(
		newSimulateCmd(a, engine.KindFlight, "Simulate a flight from launch to landing"),
		newSimulateCmd(a, engine.KindRoll, "Simulate bounce and roll from a landing state"),
		newBatchCmd(a),
		newServeCmd(a),
	)
	return root
}

// init loads the configuration, then builds the logger and the engine.
func (a *app) init() error {
	config.SetDefaults(a.v)
	config.BindEnv(a.v)
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := config.NewConfigFromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	observability.InitializeLogger(cfg.Logger)
	a.logger = observability.GetLogger()

	a.engine, err = engine.New(cfg.Simulation, a.logger, engine.WithConcurrency(cfg.Batch.Concurrency))
	return err
}

// readInput reads the file named by the first argument, or stdin.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("error reading input: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return data, nil
}
