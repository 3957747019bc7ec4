package interp

import (
	"math/rand"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"golang.org/x/sync/errgroup"
)

// runSpawns implements spec.md §4.6.3: each Spawn statement gets its own
// interpreter sharing sample_rate/bpm/banks/samples but snapshotting
// groups, variables, synth definitions and automation state at the
// moment of partitioning, so concurrent spawns never race the parent or
// each other. Results merge back into the parent in original spawn
// order once every goroutine completes.
func (ip *Interpreter) runSpawns(spawns []ast.Statement) {
	children := make([]*Interpreter, len(spawns))
	for i := range spawns {
		children[i] = ip.forkForSpawn(i)
	}

	var g errgroup.Group
	for i, stmt := range spawns {
		i, stmt := i, stmt
		g.Go(func() error {
			children[i].runOneSpawn(stmt)
			return nil
		})
	}
	_ = g.Wait()

	for _, child := range children {
		ip.mergeSpawnResult(child)
	}
}

// forkForSpawn builds a child interpreter for the spawn at the given
// index. Each child gets its own *rand.Rand, seeded off humanizeSeed and
// the spawn index, rather than sharing ip.rng: math/rand's Rand is not
// safe for concurrent use, and two spawns humanizing a pattern at the
// same time would otherwise race its internal state.
func (ip *Interpreter) forkForSpawn(index int) *Interpreter {
	child := &Interpreter{
		SampleRate:         ip.SampleRate,
		BPM:                ip.bpm(),
		scope:              ip.scope.Snapshot(),
		groups:             cloneGroupMap(ip.groups),
		patterns:           clonePatternMap(ip.patterns),
		funcs:              cloneFuncMap(ip.funcs),
		synths:             cloneSynthMap(ip.synths),
		banks:              ip.banks,
		samples:            ip.samples,
		automationRegistry: ip.automationRegistry.Clone(),
		noteAutomation:     ip.noteAutomation.Clone(),
		handlers:           cloneHandlerMap(ip.handlers),
		cursor:             ip.cursor,
		rng:                rand.New(rand.NewSource(humanizeSeed + int64(index) + 1)),
		// Background sender/receiver plumbing is inherited, never
		// recreated, so a `loop pass(ms)` started inside this spawn
		// still reports to the one true channel owner (spec.md §5:
		// "never create a fresh receiver, which would orphan
		// background workers"). bgOwnsReceive stays false on every
		// fork; only the original owner drains.
		bgChannel: ip.bgChannel,
		bgWG:      ip.bgWG,
	}
	return child
}

func cloneGroupMap(m map[string][]ast.Statement) map[string][]ast.Statement {
	cp := make(map[string][]ast.Statement, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func clonePatternMap(m map[string]ast.Statement) map[string]ast.Statement {
	cp := make(map[string]ast.Statement, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneFuncMap(m map[string]funcDef) map[string]funcDef {
	cp := make(map[string]funcDef, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneHandlerMap(m map[string][]*onHandler) map[string][]*onHandler {
	cp := make(map[string][]*onHandler, len(m))
	for k, v := range m {
		list := make([]*onHandler, len(v))
		for i, h := range v {
			copied := *h
			list[i] = &copied
		}
		cp[k] = list
	}
	return cp
}

func cloneSynthMap(m map[string]event.SynthDefinition) map[string]event.SynthDefinition {
	cp := make(map[string]event.SynthDefinition, len(m))
	for k, v := range m {
		cp[k] = v.Clone()
	}
	return cp
}

// runOneSpawn implements one spawn target's three resolution branches
// (spec.md §4.6.3).
func (ip *Interpreter) runOneSpawn(stmt ast.Statement) {
	name := stmt.Name

	if uri, ok := ip.resolveSampleURI(name); ok {
		ip.events = append(ip.events, event.AudioEvent{
			Kind:      event.KindSample,
			StartTime: ip.cursor,
			Velocity:  1.0,
			URI:       uri,
		})
		return
	}

	if body, ok := ip.groups[name]; ok {
		ip.exec(body, ip.scope.WithParent(ip.scope))
		return
	}

	if patternStmt, ok := ip.patterns[name]; ok {
		ip.executePattern(patternStmt)
		return
	}
}

// mergeSpawnResult merges a finished spawn's events into the parent's
// list, refreshing each event's SynthDefinition snapshot against the
// parent's current synth table (spec.md §4.6.3: "refreshed against the
// parent's synth table so plugins resolve correctly"), and merges synth
// definitions the spawn declared that the parent doesn't have yet
// (last-write-wins-by-absence: parent wins on conflict).
func (ip *Interpreter) mergeSpawnResult(child *Interpreter) {
	for _, ev := range child.events {
		if def, ok := ip.synths[ev.SynthID]; ok {
			ev.Synth = def.Clone()
		}
		ip.events = append(ip.events, ev)
	}
	for name, def := range child.synths {
		if _, exists := ip.synths[name]; !exists {
			ip.synths[name] = def
		}
	}
	ip.diagnostics = append(ip.diagnostics, child.diagnostics...)
}
