package main

import (
	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/registry"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// buildDemoProgram returns a small fixed program exercising the
// collector/renderer pipeline end to end: a lead and bass synth, a
// one-trigger drum bank, and a four-beat melody over a kick pattern.
// Mirrors the teacher's own hardcoded demo pattern (cmd/tracker/main.go's
// "New Song" fallback) since no file was given and this repo has no
// parser collaborator to load one from `.deva` source (spec.md §1, §6.1:
// parsing is an out-of-scope, separately supplied component — the
// program below is built directly as the ast.Statement shape a parser
// would hand the collector).
func buildDemoProgram() ([]ast.Statement, *registry.BankRegistry, *registry.SampleRegistry) {
	banks := registry.NewBankRegistry()
	samples := registry.NewSampleRegistry()

	const kickURI = "devalang://bank/demo.kit/kick"
	banks.RegisterBank("demo.kit", "kit", map[string]string{"kick": kickURI})
	samples.RegisterSample(kickURI, demoKickPCM())

	synthMap := func(waveform string, attackMs, decayMs, sustain, releaseMs float32) value.Value {
		return value.Map(map[string]value.Value{
			"waveform": value.String(waveform),
			"attack":   value.Number(attackMs),
			"decay":    value.Number(decayMs),
			"sustain":  value.Number(sustain),
			"release":  value.Number(releaseMs),
		})
	}

	note := func(target, name string, velocity, pan float32) ast.Statement {
		return ast.Statement{
			Kind:        ast.KindArrowCall,
			ArrowTarget: target,
			ArrowChain: []ast.ArrowStep{
				{Method: "note", Args: []value.Value{value.String(name)}},
				{Method: "velocity", Args: []value.Value{value.Number(velocity)}},
				{Method: "pan", Args: []value.Value{value.Number(pan)}},
			},
		}
	}

	sleep := func(beatFraction string) ast.Statement {
		return ast.Statement{Kind: ast.KindSleep, SleepDuration: value.DurationValue(value.Duration{
			Kind:     value.DurationBeatFraction,
			Fraction: beatFraction,
		})}
	}

	kick := ast.Statement{Kind: ast.KindTrigger, TriggerEntity: "kit.kick"}

	program := []ast.Statement{
		{Kind: ast.KindTempo, TempoValue: value.Number(120)},
		{Kind: ast.KindLet, Name: "lead", Expr: synthMap("sine", 10, 80, 0.6, 200)},
		{Kind: ast.KindLet, Name: "bass", Expr: synthMap("saw", 5, 50, 0.8, 150)},
		{Kind: ast.KindBank, Name: "demo.kit", BankAlias: "kit"},
		{Kind: ast.KindPrint, PrintArgs: []value.Value{value.String("devalang demo render starting")}},

		note("lead", "C4", 100, -0.3),
		note("bass", "C2", 90, 0),
		kick,
		sleep("1/4"),

		note("lead", "E4", 100, 0),
		sleep("1/4"),

		note("lead", "G4", 100, 0.3),
		kick,
		sleep("1/4"),

		note("lead", "C5", 100, 0),
		note("bass", "G2", 90, 0),
		kick,
		sleep("1/4"),
	}

	return program, banks, samples
}

// demoKickPCM synthesizes a short decaying burst so the demo program's
// trigger has audible, non-silent PCM without needing a WAV file on disk.
func demoKickPCM() registry.PCM {
	const sampleRate = 44100
	const frames = sampleRate / 8
	buf := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		decay := float32(1) - float32(i)/float32(frames)
		s := decay * decay
		buf[i*2] = s
		buf[i*2+1] = s
	}
	return registry.PCM{Stereo: true, SampleRate: sampleRate, Stereo32: buf}
}
