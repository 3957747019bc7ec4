// Command devalang is the thin CLI collaborator wiring the collector,
// renderer, and file-format/playback collaborators together (spec.md
// §1 "external driver that invokes interpret()"). It has no parser of
// its own: `.deva` source parsing is a separate, out-of-scope
// collaborator (spec.md §6.1), so the program it runs is the fixed
// demo built in demo.go. Modeled on the teacher's single-binary
// cmd/tracker entrypoint, generalized from a bubbletea TUI launcher to
// a cobra root command with render/play subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfigDir string
	flagBPM       float32
)

func main() {
	root := &cobra.Command{
		Use:   "devalang",
		Short: "Devalang audio engine core — render or play its demo program",
	}
	root.PersistentFlags().StringVar(&flagConfigDir, "config-dir", ".", "directory to search for a devalang.yaml config file")
	root.PersistentFlags().Float32Var(&flagBPM, "bpm", 120, "tempo in beats per minute for the demo program")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newPlayCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
