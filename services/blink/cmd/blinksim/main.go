//go:build !tinygo

// Command blinksim runs the blink controller against a simulated F2837xD
// board and reports the resulting LED timing.
//
//	go run ./services/blink/cmd/blinksim run --cycles 20
//	go run ./services/blink/cmd/blinksim compare
//	go run ./services/blink/cmd/blinksim boards --boards extra.yaml
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ledblink-go/services/blink/internal/boards"
)

var (
	globalOpts = struct {
		logLevel   string
		boardsFile string
	}{}

	log = slog.Default()

	rootCmd = &cobra.Command{
		Use:           "blinksim",
		Short:         "Simulate the dual-LED blink firmware",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(strings.ToUpper(globalOpts.logLevel))); err != nil {
				return fmt.Errorf("log level %q: %w", globalOpts.logLevel, err)
			}
			log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
			slog.SetDefault(log)

			if globalOpts.boardsFile != "" {
				bs, err := boards.LoadFile(globalOpts.boardsFile)
				if err != nil {
					return err
				}
				log.Info("boards loaded", "file", globalOpts.boardsFile, "count", len(bs))
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&globalOpts.logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&globalOpts.boardsFile, "boards", "", "YAML file with extra board descriptors")
	rootCmd.AddCommand(runCmd, compareCmd, boardsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "blinksim:", err)
		os.Exit(1)
	}
}
