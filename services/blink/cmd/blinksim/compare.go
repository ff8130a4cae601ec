//go:build !tinygo

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledblink-go/services/blink/internal/boards"
	"ledblink-go/services/blink/internal/core"
	"ledblink-go/services/blink/internal/trace"
)

var (
	compareOpts = struct {
		board  string
		cycles int
	}{}

	compareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Check that the driver and register variants blink identically",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sims [2]*simulation
			for i, v := range []core.Variant{core.VariantDriver, core.VariantRegister} {
				s, err := newSimulation(compareOpts.board, v, false, nil, log)
				if err != nil {
					return err
				}
				if err := s.run(compareOpts.cycles); err != nil {
					return fmt.Errorf("%s: %w", v, err)
				}
				sims[i] = s
			}
			a, b := sims[0], sims[1]
			ea, eb := a.sim.Trace.Edges(), b.sim.Trace.Edges()
			if err := trace.SameTiming(ea, eb, a.pins(), b.pins()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "variants match: %d edges over %v\n", len(ea), a.sim.Clock.Elapsed())
			return nil
		},
	}
)

func init() {
	compareCmd.Flags().StringVar(&compareOpts.board, "board", boards.Selected().Name, "board descriptor name")
	compareCmd.Flags().IntVarP(&compareOpts.cycles, "cycles", "n", 100, "full blue/red cycles per variant")
}
