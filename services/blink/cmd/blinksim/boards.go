//go:build !tinygo

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledblink-go/services/blink/internal/boards"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List known board descriptors",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-22s %-8s %5s %5s %12s\n", "name", "family", "led1", "led2", "core_hz")
		for _, name := range boards.Names() {
			b, err := boards.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%-22s %-8s %5d %5d %12d\n", b.Name, b.Family, b.LED1, b.LED2, b.CoreHz())
		}
		return nil
	},
}
