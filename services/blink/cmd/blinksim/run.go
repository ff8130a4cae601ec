//go:build !tinygo

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"ledblink-go/bus"
	"ledblink-go/services/blink"
	"ledblink-go/services/blink/internal/boards"
	"ledblink-go/services/blink/internal/core"
	"ledblink-go/services/blink/internal/trace"
	"ledblink-go/x/timex"
)

var (
	runOpts = struct {
		board    string
		variant  string
		cycles   int
		realtime bool
	}{}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Blink for a number of cycles and report LED timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := core.ParseVariant(runOpts.variant)
			if err != nil {
				return fmt.Errorf("variant %q: %w", runOpts.variant, err)
			}
			if runOpts.cycles < 1 {
				return fmt.Errorf("cycles must be at least 1")
			}

			b := bus.NewBus(64)
			conn := b.NewConnection("blinksim")
			defer conn.Disconnect()
			sub, done := logToggles(conn, log)

			s, err := newSimulation(runOpts.board, v, runOpts.realtime, conn, log)
			if err != nil {
				return err
			}
			start := time.Now()
			runErr := s.run(runOpts.cycles)
			conn.Unsubscribe(sub)
			<-done
			if runErr != nil {
				return runErr
			}

			gap := timex.DelayDuration(blink.DefaultDelayUS, s.sim.Sys.SysClk())
			tol := 20 * time.Nanosecond
			if runOpts.realtime {
				tol = 5 * time.Millisecond
			}
			rep := trace.Analyze(s.sim.Trace.Edges(), s.pins()...)
			writeReport(cmd.OutOrStdout(), rep, gap)
			log.Info("done",
				"cycles", runOpts.cycles,
				"sim_time", s.sim.Clock.Elapsed(),
				"wall_time", time.Since(start))
			return rep.Check(2*gap, gap, tol)
		},
	}
)

func init() {
	runCmd.Flags().StringVar(&runOpts.board, "board", boards.Selected().Name, "board descriptor name")
	runCmd.Flags().StringVar(&runOpts.variant, "variant", blink.BuildVariant.String(), "driver or register")
	runCmd.Flags().IntVarP(&runOpts.cycles, "cycles", "n", 10, "full blue/red cycles to run")
	runCmd.Flags().BoolVar(&runOpts.realtime, "realtime", false, "spin on wall time instead of virtual cycles")
}

func writeReport(w io.Writer, rep trace.Report, gap time.Duration) {
	roles := []string{"blue", "red"}
	fmt.Fprintf(w, "nominal delay %v\n", gap)
	fmt.Fprintf(w, "%-5s %-6s %6s %14s %14s %14s %12s %14s\n", "led", "pin", "edges", "mean", "min", "max", "stddev", "lag")
	for i, ps := range rep.Pins {
		fmt.Fprintf(w, "%-5s gpio%-2d %6d %14v %14v %14v %12v %14v\n",
			roles[i], ps.Pin, ps.Edges, ps.MeanPeriod, ps.MinPeriod, ps.MaxPeriod, ps.StdDev, rep.Lag[i])
	}
}
