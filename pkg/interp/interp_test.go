package interp

import (
	"testing"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/automation"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/midiio"
	"github.com/devaloop-labs/devalang-core/pkg/registry"
	"github.com/devaloop-labs/devalang-core/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInterp() *Interpreter {
	return New(44100, 120, registry.NewBankRegistry(), registry.NewSampleRegistry())
}

func synthMapValue() value.Value {
	return value.Map(map[string]value.Value{
		"waveform": value.String("sine"),
		"attack":   value.Number(10),
		"release":  value.Number(50),
		"sustain":  value.Number(0.8),
	})
}

func TestLetRegistersSynthDefinition(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindLet, Name: "lead", Expr: synthMapValue()},
	})

	def, ok := ip.synths["lead"]
	require.True(t, ok)
	assert.Equal(t, float32(0.01), def.Attack)
	assert.Equal(t, float32(0.05), def.Release)
}

func TestConstReassignFailsSilentlyAndKeepsOriginalValue(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindConst, Name: "x", Expr: value.Number(1)},
		{Kind: ast.KindConst, Name: "x", Expr: value.Number(2)},
	})

	v := ip.scope.ResolveValue(value.Identifier("x"))
	assert.Equal(t, float32(1), v.Number)
	require.Len(t, ip.diagnostics, 1)
}

func TestTempoBlockRestoresPreviousBPM(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{
			Kind:       ast.KindTempo,
			TempoValue: value.Number(180),
			Body: []ast.Statement{
				{Kind: ast.KindSleep, SleepDuration: value.Number(0)},
			},
		},
	})
	assert.Equal(t, float32(120), ip.bpm())
}

func TestTempoWithoutBodyPersists(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindTempo, TempoValue: value.Number(90)},
	})
	assert.Equal(t, float32(90), ip.bpm())
}

func TestSleepAdvancesCursorByMilliseconds(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindSleep, SleepDuration: value.Number(250)},
	})
	assert.InDelta(t, 0.25, ip.cursor, 1e-4)
}

func TestArrowCallNoteSchedulesEventAndAdvancesCursor(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindLet, Name: "lead", Expr: synthMapValue()},
		{
			Kind:        ast.KindArrowCall,
			ArrowTarget: "lead",
			ArrowChain: []ast.ArrowStep{
				{Method: "note", Args: []value.Value{value.String("C4")}},
				{Method: "duration", Args: []value.Value{value.Number(500)}},
				{Method: "velocity", Args: []value.Value{value.Number(100)}},
			},
		},
	})

	require.Len(t, ip.events, 1)
	ev := ip.events[0]
	assert.Equal(t, event.KindNote, ev.Kind)
	assert.Equal(t, uint8(60), ev.Midi)
	assert.InDelta(t, 0.5, ev.Duration, 1e-4)
	assert.InDelta(t, 1.0, ev.Velocity, 1e-4) // velocity(100) normalizes to 1.0 (spec.md S1)
	assert.InDelta(t, 0.5, ip.cursor, 1e-4)
}

func TestNormalizeVelocityMatchesSpecWorkedExample(t *testing.T) {
	assert.InDelta(t, 1.0, normalizeVelocity(100), 1e-4)
	assert.InDelta(t, 1.0, normalizeVelocity(127), 1e-4)
	assert.InDelta(t, 0.5, normalizeVelocity(50), 1e-4)
	assert.InDelta(t, 0.8, normalizeVelocity(0.8), 1e-4)
}

func TestArrowCallChordSchedulesChordMidi(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindLet, Name: "pad", Expr: synthMapValue()},
		{
			Kind:        ast.KindArrowCall,
			ArrowTarget: "pad",
			ArrowChain: []ast.ArrowStep{
				{Method: "chord", Args: []value.Value{value.Array([]value.Value{
					value.String("C4"), value.String("E4"), value.String("G4"),
				})}},
			},
		},
	})

	require.Len(t, ip.events, 1)
	assert.Equal(t, event.KindChord, ip.events[0].Kind)
	assert.Equal(t, []uint8{60, 64, 67}, ip.events[0].ChordMidi)
}

func TestVelocityExplicitOverridesAutomation(t *testing.T) {
	ip := newInterp()
	ip.automationRegistry.Register(automationEnvelope("velocity", 0, 10, 0.2, 0.9))

	v, usedPerNote := ip.resolveOverride("velocity", true, 0.5, 1, 1.0)
	assert.Equal(t, float32(0.5), v)
	assert.False(t, usedPerNote)
}

func TestPanFallsBackToGlobalAutomationThenDefault(t *testing.T) {
	ip := newInterp()
	ip.automationRegistry.Register(automationEnvelope("pan", 0, 10, -1, 1))

	v, usedPerNote := ip.resolveOverride("pan", false, 0, 5, 0)
	assert.InDelta(t, 0, v, 1e-4)
	assert.False(t, usedPerNote)

	v2, _ := ip.resolveOverride("gain", false, 0, 5, 0.75)
	assert.Equal(t, float32(0.75), v2)
}

func TestTriggerResolvesBankEntityAndSchedulesSample(t *testing.T) {
	ip := newInterp()
	ip.banks.RegisterBank("kit", "kit", map[string]string{"kick": "file://kick.wav"})

	ip.Run([]ast.Statement{
		{Kind: ast.KindTrigger, TriggerEntity: "kit.kick"},
	})

	require.Len(t, ip.events, 1)
	ev := ip.events[0]
	assert.Equal(t, event.KindSample, ev.Kind)
	assert.Equal(t, "file://kick.wav", ev.URI)
	assert.InDelta(t, 0.5, ip.cursor, 1e-4) // one beat at 120bpm
}

func TestTriggerUnresolvedEntityRecordsDiagnosticAndStillAdvances(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindTrigger, TriggerEntity: "kit.missing"},
	})

	assert.Empty(t, ip.events)
	require.Len(t, ip.diagnostics, 1)
	assert.InDelta(t, 0.5, ip.cursor, 1e-4)
}

func TestLoopWithCountRepeatsBody(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{
			Kind:      ast.KindLoop,
			LoopCount: value.Number(3),
			Body: []ast.Statement{
				{Kind: ast.KindSleep, SleepDuration: value.Number(100)},
			},
		},
	})
	assert.InDelta(t, 0.3, ip.cursor, 1e-4)
}

func TestBreakStopsLoopEarly(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{
			Kind:      ast.KindLoop,
			LoopCount: value.Number(5),
			Body: []ast.Statement{
				{Kind: ast.KindSleep, SleepDuration: value.Number(100)},
				{Kind: ast.KindBreak},
			},
		},
	})
	assert.InDelta(t, 0.1, ip.cursor, 1e-4)
}

func TestPassLoopRunsBackgroundWorkerAndDeliversEventsToParent(t *testing.T) {
	ip := newInterp()
	ip.banks.RegisterBank("kit", "kit", map[string]string{"click": "file://click.wav"})
	ip.scope.Special.TotalDuration = 1 // seconds, 2 beats at 120bpm

	ip.Run([]ast.Statement{
		{Kind: ast.KindBank, Name: "kit"},
		{
			Kind:       ast.KindLoop,
			LoopIsPass: true,
			LoopPassMs: value.Number(100),
			Body: []ast.Statement{
				{Kind: ast.KindTrigger, TriggerEntity: "kit.click"},
			},
		},
	})

	require.Len(t, ip.events, 2)
	for _, ev := range ip.events {
		assert.Equal(t, event.KindSample, ev.Kind)
		assert.Equal(t, "file://click.wav", ev.URI)
	}
}

func TestForIteratesRange(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{
			Kind:        ast.KindFor,
			ForVar:      "i",
			ForIterable: value.RangeValue(value.Number(0), value.Number(4)),
			Body: []ast.Statement{
				{Kind: ast.KindSleep, SleepDuration: value.Number(10)},
			},
		},
	})
	assert.InDelta(t, 0.04, ip.cursor, 1e-4)
}

func TestIfTakesElseBranchWhenFalse(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{
			Kind:      ast.KindIf,
			Condition: value.Bool(false),
			Body: []ast.Statement{
				{Kind: ast.KindSleep, SleepDuration: value.Number(1000)},
			},
			ElseBody: []ast.Statement{
				{Kind: ast.KindSleep, SleepDuration: value.Number(10)},
			},
		},
	})
	assert.InDelta(t, 0.01, ip.cursor, 1e-4)
}

func TestOnEmitFiresHandlerOnce(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindOn, EventName: "kick", EventOnce: true, Body: []ast.Statement{
			{Kind: ast.KindSleep, SleepDuration: value.Number(100)},
		}},
		{Kind: ast.KindEmit, EventName: "kick"},
		{Kind: ast.KindEmit, EventName: "kick"},
	})
	assert.InDelta(t, 0.1, ip.cursor, 1e-4)
}

func TestOnEmitRespectsMaxCount(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindOn, EventName: "tick", EventCount: 2, Body: []ast.Statement{
			{Kind: ast.KindSleep, SleepDuration: value.Number(10)},
		}},
		{Kind: ast.KindEmit, EventName: "tick"},
		{Kind: ast.KindEmit, EventName: "tick"},
		{Kind: ast.KindEmit, EventName: "tick"},
	})
	assert.InDelta(t, 0.02, ip.cursor, 1e-4)
}

func TestFireEventRestoresSuppressBeatAfterHandlerRuns(t *testing.T) {
	ip := newInterp()
	ip.handlers["kick"] = append(ip.handlers["kick"], &onHandler{body: []ast.Statement{
		{Kind: ast.KindSleep, SleepDuration: value.Number(0)},
	}})
	require.False(t, ip.suppressBeat)
	ip.fireEvent("kick", nil)
	assert.False(t, ip.suppressBeat)
}

func TestEmitDuringHandlerBodyDoesNotTriggerBuiltinBeatEmission(t *testing.T) {
	// A handler body runs with suppress_beat_emit set; nothing in this
	// package re-enters emitBuiltinBeats from inside handler execution
	// (it only runs once, at the end of Run), so this exercises the
	// non-recursive path: the kick handler prints once per Emit, and the
	// top-level beat/bar pass never fires because the handler body
	// itself isn't bound to "beat".
	ip := newInterp()
	ip.scope.Special.TotalDuration = 0.5 // 1 beat at 120bpm
	ip.handlers["kick"] = append(ip.handlers["kick"], &onHandler{body: []ast.Statement{
		{Kind: ast.KindPrint, PrintArgs: []value.Value{value.String("kick")}},
	}})
	ip.Run([]ast.Statement{
		{Kind: ast.KindEmit, EventName: "kick"},
	})
	assert.Equal(t, []string{"kick"}, ip.PrintLog())
}

func TestGroupIsCallableByName(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindGroup, Name: "intro", Body: []ast.Statement{
			{Kind: ast.KindSleep, SleepDuration: value.Number(500)},
		}},
		{Kind: ast.KindCall, Name: "intro"},
	})
	assert.InDelta(t, 0.5, ip.cursor, 1e-4)
}

func TestFunctionCallBindsParamsAndReturns(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindFunction, Name: "wait", Params: []string{"ms"}, Body: []ast.Statement{
			{Kind: ast.KindSleep, SleepDuration: value.Identifier("ms")},
		}},
		{Kind: ast.KindCall, Name: "wait", Args: []value.Value{value.Number(200)}},
	})
	assert.InDelta(t, 0.2, ip.cursor, 1e-4)
}

func TestAssignMutatesSynthField(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindLet, Name: "lead", Expr: synthMapValue()},
		{Kind: ast.KindAssign, AssignTarget: "lead", AssignProperty: "sustain", AssignValue: value.Number(0.3)},
	})
	assert.Equal(t, float32(0.3), ip.synths["lead"].Sustain)
}

func TestPrintAppendsToLog(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindPrint, PrintArgs: []value.Value{value.String("hello"), value.Number(1)}},
	})
	require.Len(t, ip.PrintLog(), 1)
	assert.Equal(t, "hello 1", ip.PrintLog()[0])
}

func TestPrintEventsCarryCursorTimeInExecutionOrder(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindPrint, PrintArgs: []value.Value{value.String("first")}},
		{Kind: ast.KindSleep, SleepDuration: value.Number(500)},
		{Kind: ast.KindPrint, PrintArgs: []value.Value{value.String("second")}},
	})

	events := ip.PrintEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "first", events[0].Message)
	assert.Equal(t, float32(0), events[0].Time)
	assert.Equal(t, "second", events[1].Message)
	assert.InDelta(t, 0.5, events[1].Time, 1e-4)
}

func TestUsePluginRegistersSynthUnderAlias(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindUsePlugin, PluginAuthor: "acme", PluginName: "supersaw", PluginAlias: "saw"},
	})
	def, ok := ip.synths["saw"]
	require.True(t, ok)
	assert.Equal(t, "acme", def.PluginAuthor)
	assert.Equal(t, "supersaw", def.PluginExport)
}

func TestBankAliasDefaultsToLastDottedComponent(t *testing.T) {
	ip := newInterp()
	ip.banks.RegisterBank("devaloop.808", "devaloop.808", map[string]string{"kick": "file://k.wav"})
	ip.Run([]ast.Statement{
		{Kind: ast.KindBank, Name: "devaloop.808"},
	})
	uri, ok := ip.banks.ResolveTrigger("808", "kick")
	assert.True(t, ok)
	assert.Equal(t, "file://k.wav", uri)
}

func TestAutomateGlobalRegistersAbsoluteEnvelope(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{
			Kind: ast.KindAutomate,
			AutomateParams: []ast.AutomateParam{
				{Name: "gain", Curve: "linear", Points: []ast.AutomatePoint{
					{ProgressPercent: 0, Value: value.Number(0)},
					{ProgressPercent: 100, Value: value.Number(1)},
				}},
			},
		},
	})
	v, ok := ip.automationRegistry.ValueAt("gain", 1)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-4) // midpoint of a 2s 0->1 ramp (one bar at 120bpm)

	v2, ok := ip.automationRegistry.ValueAt("gain", 2)
	require.True(t, ok)
	assert.InDelta(t, 1, v2, 1e-4)
}

func TestAutomateNoteModeRegistersNoteContext(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{
			Kind:         ast.KindAutomate,
			AutomateMode: "note",
			AutomateParams: []ast.AutomateParam{
				{Name: "pan", Points: []ast.AutomatePoint{
					{ProgressPercent: 0, Value: value.Number(-1)},
					{ProgressPercent: 100, Value: value.Number(1)},
				}},
			},
		},
	})
	v, ok := ip.noteAutomation.ValueAt("pan", 0)
	require.True(t, ok)
	assert.InDelta(t, -1, v, 1e-4)
}

func TestRoutingConfigCollectsNodesRoutesAndDucks(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{
			Kind: ast.KindRouting,
			Body: []ast.Statement{
				{Kind: ast.KindRoutingNode, RoutingNodeName: "drums"},
				{Kind: ast.KindRoutingRoute, RoutingSrc: "drums", RoutingDst: "master", RoutingGain: value.Number(0.9)},
				{Kind: ast.KindRoutingDuck, RoutingSrc: "bass", RoutingDst: "drums"},
				{Kind: ast.KindRoutingSidechain, RoutingSrc: "kick", RoutingDst: "bass"},
			},
		},
	})
	cfg := ip.Routing()
	require.Len(t, cfg.Nodes, 1)
	assert.Equal(t, "drums", cfg.Nodes[0].Name)
	require.Len(t, cfg.Routes, 1)
	assert.InDelta(t, 0.9, cfg.Routes[0].Gain, 1e-4)
	require.Len(t, cfg.Ducks, 1)
	require.Len(t, cfg.Sidechains, 1)
}

func TestPatternExecutionSchedulesHitsAndAdvancesOneBar(t *testing.T) {
	ip := newInterp()
	ip.banks.RegisterBank("kit", "kit", map[string]string{"kick": "file://kick.wav"})
	ip.Run([]ast.Statement{
		{Kind: ast.KindBank, Name: "kit"},
		{
			Kind:          ast.KindPattern,
			Name:          "beat",
			PatternTarget: "kit.kick",
			PatternSource: "x--x--x-",
		},
	})
	require.Len(t, ip.events, 3)
	barSeconds := float32(2) // 4 beats at 120bpm
	assert.InDelta(t, barSeconds, ip.cursor, 1e-4)
}

func TestPatternVelocityOptionNormalizes(t *testing.T) {
	ip := newInterp()
	ip.banks.RegisterBank("kit", "kit", map[string]string{"kick": "file://kick.wav"})
	ip.Run([]ast.Statement{
		{Kind: ast.KindBank, Name: "kit"},
		{
			Kind:          ast.KindPattern,
			Name:          "beat",
			PatternTarget: "kit.kick",
			PatternSource: "x",
			PatternOpts:   map[string]value.Value{"velocity": value.Number(0.5)},
		},
	})
	require.Len(t, ip.events, 1)
	assert.InDelta(t, 0.5, ip.events[0].Velocity, 1e-4)
}

func TestPatternSwingOptionOffsetsOddHitsBySwingFractionOfAStep(t *testing.T) {
	ip := newInterp()
	ip.banks.RegisterBank("kit", "kit", map[string]string{"kick": "file://kick.wav"})
	ip.Run([]ast.Statement{
		{Kind: ast.KindBank, Name: "kit"},
		{
			Kind:          ast.KindPattern,
			Name:          "beat",
			PatternTarget: "kit.kick",
			PatternSource: "xxxx",
			PatternOpts:   map[string]value.Value{"swing": value.Number(0.5)},
		},
	})

	require.Len(t, ip.events, 4)
	barSeconds := float32(2) // 4 beats at 120bpm
	stepDuration := barSeconds / 4
	swing := float32(0.5)

	// Even-indexed hits land exactly on their step; odd-indexed hits are
	// pushed later by swing*stepDuration (spec.md §4.6.4, §8 S3).
	assert.InDelta(t, 0*stepDuration, ip.events[0].StartTime, 1e-4)
	assert.InDelta(t, 1*stepDuration+swing*stepDuration, ip.events[1].StartTime, 1e-4)
	assert.InDelta(t, 2*stepDuration, ip.events[2].StartTime, 1e-4)
	assert.InDelta(t, 3*stepDuration+swing*stepDuration, ip.events[3].StartTime, 1e-4)
}

func TestSpawnRunsGroupsConcurrentlyAndMergesEvents(t *testing.T) {
	ip := newInterp()
	ip.Run([]ast.Statement{
		{Kind: ast.KindLet, Name: "lead", Expr: synthMapValue()},
		{Kind: ast.KindGroup, Name: "a", Body: []ast.Statement{
			{Kind: ast.KindArrowCall, ArrowTarget: "lead", ArrowChain: []ast.ArrowStep{
				{Method: "note", Args: []value.Value{value.String("C4")}},
			}},
		}},
		{Kind: ast.KindGroup, Name: "b", Body: []ast.Statement{
			{Kind: ast.KindArrowCall, ArrowTarget: "lead", ArrowChain: []ast.ArrowStep{
				{Method: "note", Args: []value.Value{value.String("E4")}},
			}},
		}},
		{Kind: ast.KindSpawn, Name: "a"},
		{Kind: ast.KindSpawn, Name: "b"},
	})

	require.Len(t, ip.events, 2)
	midis := []uint8{ip.events[0].Midi, ip.events[1].Midi}
	assert.ElementsMatch(t, []uint8{60, 64}, midis)
}

func TestSpawnSampleURITargetSchedulesSampleDirectly(t *testing.T) {
	ip := newInterp()
	ip.banks.RegisterBank("kit", "kit", map[string]string{"kick": "file://kick.wav"})
	ip.Run([]ast.Statement{
		{Kind: ast.KindBank, Name: "kit"},
		{Kind: ast.KindSpawn, Name: "kit.kick"},
	})
	require.Len(t, ip.events, 1)
	assert.Equal(t, event.KindSample, ip.events[0].Kind)
}

func TestBuiltinBeatEmissionFiresWithinTotalDuration(t *testing.T) {
	ip := newInterp()
	ip.scope.Special.TotalDuration = 1 // seconds, 2 beats at 120bpm
	ip.handlers["beat"] = append(ip.handlers["beat"], &onHandler{body: []ast.Statement{
		{Kind: ast.KindPrint, PrintArgs: []value.Value{value.String("beat")}},
	}})
	ip.Run(nil)
	assert.Len(t, ip.PrintLog(), 2)
}

func TestBuiltinBeatEmissionSkippedWithoutTotalDuration(t *testing.T) {
	ip := newInterp()
	ip.handlers["beat"] = append(ip.handlers["beat"], &onHandler{body: []ast.Statement{
		{Kind: ast.KindPrint, PrintArgs: []value.Value{value.String("beat")}},
	}})
	ip.Run(nil)
	assert.Empty(t, ip.PrintLog())
}

func TestLoadWavRegistersSampleUnderFileURI(t *testing.T) {
	t.Skip("requires a real WAV fixture on disk; exercised at the cmd/devalang integration level")
}

func TestBindReplaysMidiNotesRescaledByBPMRatioWithRawVelocity(t *testing.T) {
	ip := newInterp() // 120bpm
	ip.midiFilesMap = map[string]midiio.File{
		"riff": {
			BPM: 60,
			Notes: []midiio.NoteEvent{
				{TimeMs: 1000, Note: 64, Velocity: 127, DurationMs: 500},
			},
		},
	}
	ip.Run([]ast.Statement{
		{Kind: ast.KindLet, Name: "lead", Expr: synthMapValue()},
		{Kind: ast.KindBind, BindSource: "riff", BindTarget: "lead"},
	})

	require.Len(t, ip.events, 1)
	ev := ip.events[0]
	assert.Equal(t, uint8(64), ev.Midi)
	assert.InDelta(t, 2.0, ev.StartTime, 1e-4) // 1000ms source * (interpreter_bpm/source_bpm = 120/60) scale
	assert.InDelta(t, 1.0, ev.Velocity, 1e-4)  // raw MIDI 127/127, not the percent heuristic
}

func automationEnvelope(target string, start, duration, from, to float32) automation.Envelope {
	return automation.Envelope{Target: target, Start: start, Duration: duration, From: from, To: to, Curve: automation.CurveLinear}
}
