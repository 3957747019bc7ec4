package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/devaloop-labs/devalang-core/pkg/playback"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Render the demo program and stream it to the sound card",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, printEvents, err := runPipeline(flagBPM, flagConfigDir)
			if err != nil {
				return errors.Wrap(err, "play: run pipeline")
			}

			out, err := playback.New(result.SampleRate, result.Buffer)
			if err != nil {
				return errors.Wrap(err, "play: open audio output")
			}
			defer out.Close()

			nextPrint := 0
			start := time.Now()
			for !out.Done() {
				elapsed := float32(time.Since(start).Seconds())
				for nextPrint < len(printEvents) && printEvents[nextPrint].Time <= elapsed {
					fmt.Println(printEvents[nextPrint].Message)
					nextPrint++
				}
				time.Sleep(20 * time.Millisecond)
			}
			return nil
		},
	}
}
