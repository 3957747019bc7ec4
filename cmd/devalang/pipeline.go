package main

import (
	"sort"

	"github.com/devaloop-labs/devalang-core/pkg/config"
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/interp"
	"github.com/devaloop-labs/devalang-core/pkg/render"
)

// runPipeline loads engine configuration, collects the demo program's
// events, and renders them, logging every diagnostic raised along the
// way (spec.md §4.9: diagnostics degrade to silence, they never abort
// the run).
func runPipeline(bpm float32, configDir string) (render.Result, []interp.PrintEvent, error) {
	eng, err := config.Load(configDir)
	if err != nil {
		return render.Result{}, nil, err
	}

	program, banks, samples := buildDemoProgram()

	ip := interp.New(eng.SampleRate, bpm, banks, samples)
	ip.Run(program)
	for _, d := range ip.Diagnostics() {
		diag.Log(d)
	}

	result := render.Render(ip.Events(), ip.Routing(), render.Options{
		SampleRate: eng.SampleRate,
		Samples:    samples,
	})
	for _, d := range result.Diagnostics {
		diag.Log(d)
	}

	events := ip.PrintEvents()
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })

	return result, events, nil
}
