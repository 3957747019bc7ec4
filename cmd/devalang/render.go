package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/devaloop-labs/devalang-core/pkg/interp"
	"github.com/devaloop-labs/devalang-core/pkg/wavio"
)

func newRenderCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo program to a WAV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, printEvents, err := runPipeline(flagBPM, flagConfigDir)
			if err != nil {
				return errors.Wrap(err, "render: run pipeline")
			}

			f, err := os.Create(outPath)
			if err != nil {
				return errors.Wrap(err, "render: create output file")
			}
			defer f.Close()

			if err := wavio.Encode(f, result.Buffer, result.SampleRate); err != nil {
				return errors.Wrap(err, "render: encode WAV")
			}

			if err := writePrintLog(outPath, printEvents); err != nil {
				return errors.Wrap(err, "render: write printlog sidecar")
			}

			fmt.Printf("wrote %s (%d samples at %d Hz)\n", outPath, len(result.Buffer)/2, result.SampleRate)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "devalang-demo.wav", "output WAV file path")
	return cmd
}

// writePrintLog emits the `.printlog` sidecar next to out: one
// TAB-separated "SECONDS\tMESSAGE" line per scheduled print, sorted by
// time ascending (spec.md §6.5).
func writePrintLog(outPath string, events []interp.PrintEvent) error {
	path := strings.TrimSuffix(outPath, ".wav") + ".printlog"
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, ev := range events {
		if _, err := fmt.Fprintf(f, "%g\t%s\n", ev.Time, ev.Message); err != nil {
			return err
		}
	}
	return nil
}
