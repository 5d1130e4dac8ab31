package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cxd309/flight-engine/internal/engine"
)

func newSimulateCmd(a *app, kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " [file]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			result, err := a.engine.RunJSON(kind, string(data))
			if err != nil {
				return fmt.Errorf("simulation error: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}
}

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch [file]",
		Short: "Run a JSON list of flight and roll requests concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var reqs []engine.Request
			if err := json.Unmarshal(data, &reqs); err != nil {
				return fmt.Errorf("invalid batch JSON: %w", err)
			}

			resps, err := a.engine.RunBatch(cmd.Context(), reqs)
			if err != nil {
				return fmt.Errorf("batch interrupted: %w", err)
			}
			out, err := json.Marshal(resps)
			if err != nil {
				return fmt.Errorf("marshaling output: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
