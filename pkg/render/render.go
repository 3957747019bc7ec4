// Package render implements spec.md §4.8's five-phase renderer: it
// consumes the event collector's flat event.AudioEvent list and the
// routing graph it declared, and produces the final peak-normalized
// interleaved stereo f32 buffer. Modeled on the teacher's
// pkg/audio/player.go mixing/normalize pass, generalized from a fixed
// tracker grid to an arbitrary routing graph with duck/sidechain/route
// phases.
package render

import (
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/effects"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/plugin"
	"github.com/devaloop-labs/devalang-core/pkg/registry"
	"github.com/devaloop-labs/devalang-core/pkg/routing"
)

// PluginResolver looks up a loaded plugin instance by author/name. The
// renderer never loads WASM/FFI guests itself (pkg/plugin stops at the
// calling-convention boundary); a nil resolver, or a miss, both degrade
// to silence through plugin.RenderOrSilence (spec.md §6.3, §4.9).
type PluginResolver func(author, name string) (plugin.Instance, bool)

// Options configures one Render call.
type Options struct {
	SampleRate int
	Samples    *registry.SampleRegistry
	Effects    *effects.Registry
	Plugins    PluginResolver
}

// Result is the rendered buffer plus whatever non-fatal diagnostics the
// render phases recorded (spec.md §4.9: unknown synth/sample/plugin
// failures degrade to silence rather than aborting the render).
type Result struct {
	Buffer      []float32
	SampleRate  int
	Diagnostics []diag.Diagnostic
}

type renderer struct {
	opts        Options
	diagnostics []diag.Diagnostic
}

func (r *renderer) recordDiag(kind diag.Kind, message string) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{Kind: kind, Message: message})
}

// Render runs spec.md §4.8's five phases over events against the
// routing graph declared by routingCfg (routing.Build already applied
// spec.md §4.7's cycle rejection, falling back to a master-only graph).
func Render(events []event.AudioEvent, routingCfg routing.Config, opts Options) Result {
	if opts.Effects == nil {
		opts.Effects = effects.NewRegistry()
	}
	r := &renderer{opts: opts}

	graph, err := routing.Build(routingCfg, opts.Effects)
	if err != nil {
		r.recordDiag(diag.KindGraph, err.Error())
	}

	totalSamples := r.totalSamples(events)
	graph.Allocate(totalSamples)

	// Phase 1: event -> node.
	for _, ev := range events {
		r.renderEvent(ev, graph)
	}

	// Phase 2: per-node effect chains, declaration order.
	for _, node := range graph.Nodes {
		for _, proc := range node.Effects {
			proc.Process(node.Buffer, r.opts.SampleRate)
		}
	}

	// Phase 3: ducking/sidechain, then routes.
	for _, d := range graph.Ducks {
		src, srcOK := graph.Resolve(d.Src)
		dst, dstOK := graph.Resolve(d.Dst)
		if srcOK && dstOK {
			routing.ApplyDuck(src.Buffer, dst.Buffer, r.opts.SampleRate)
		}
	}
	for _, s := range graph.Sidechains {
		src, srcOK := graph.Resolve(s.Src)
		dst, dstOK := graph.Resolve(s.Dst)
		if srcOK && dstOK {
			routing.ApplySidechain(src.Buffer, dst.Buffer, r.opts.SampleRate)
		}
	}
	routedSrcs := make(map[string]bool, len(graph.Routes))
	for _, route := range graph.Routes {
		src, srcOK := graph.Resolve(route.Src)
		dst, dstOK := graph.Resolve(route.Dst)
		if srcOK && dstOK {
			routing.MixRoute(src.Buffer, dst.Buffer, route.Gain)
		}
		routedSrcs[route.Src] = true
	}

	// Phase 4: master mix. Nodes that declared an outgoing route already
	// placed their audio into their destination in phase 3; only nodes
	// with no outgoing route still need to bleed into $master here, or
	// routed audio would be counted twice.
	master, _ := graph.Resolve(routing.MasterNode)
	for name, node := range graph.Nodes {
		if name == routing.MasterNode || routedSrcs[name] {
			continue
		}
		routing.MixRoute(node.Buffer, master.Buffer, 1)
	}

	// Phase 5: peak normalize.
	normalize(master.Buffer)

	return Result{Buffer: master.Buffer, SampleRate: r.opts.SampleRate, Diagnostics: r.diagnostics}
}

// normalize scales buf down by its peak absolute sample if that peak
// exceeds 1.0 (spec.md §4.8 phase 5, §8 invariant 2).
func normalize(buf []float32) {
	var peak float32
	for _, s := range buf {
		a := s
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	if peak > 1.0 {
		inv := 1 / peak
		for i := range buf {
			buf[i] *= inv
		}
	}
}

// totalSamples computes spec.md §4.8's total_duration: the max of
// event.start+event.duration across all events, with sample events
// counting their actual decoded PCM length rather than their scheduled
// step/trigger duration (a pattern hit's step duration is often shorter
// than the sample that rings out past it).
func (r *renderer) totalSamples(events []event.AudioEvent) int {
	var maxEnd float32
	for _, ev := range events {
		end := ev.StartTime + r.eventDuration(ev)
		if end > maxEnd {
			maxEnd = end
		}
	}
	total := int(maxEnd*float32(r.opts.SampleRate) + 0.999999)
	if total < 0 {
		total = 0
	}
	return total
}

func (r *renderer) eventDuration(ev event.AudioEvent) float32 {
	if ev.Kind == event.KindSample && r.opts.Samples != nil {
		if pcm, ok := r.opts.Samples.GetSample(ev.URI); ok && pcm.SampleRate > 0 {
			return float32(pcm.Len()) / float32(pcm.SampleRate)
		}
	}
	return ev.Duration
}

// renderEvent dispatches one event to its synthesis/playback path and
// mixes the result into its target node's buffer at the start-sample
// offset (spec.md §4.8 phase 1).
func (r *renderer) renderEvent(ev event.AudioEvent, graph *routing.Graph) {
	switch ev.Kind {
	case event.KindNote:
		r.renderNoteEvent(ev, graph)
	case event.KindChord:
		r.renderChordEvent(ev, graph)
	case event.KindSample:
		r.renderSampleEvent(ev, graph)
	}
}

func (r *renderer) mixInto(node *routing.Node, buf []float32, startTime float32) {
	if node == nil || len(buf) == 0 {
		return
	}
	offset := int(startTime*float32(r.opts.SampleRate)) * 2
	n := len(buf)
	if offset+n > len(node.Buffer) {
		n = len(node.Buffer) - offset
	}
	for i := 0; i < n; i++ {
		node.Buffer[offset+i] += buf[i]
	}
}

func (r *renderer) renderNoteEvent(ev event.AudioEvent, graph *routing.Graph) {
	node, _ := graph.Resolve(graph.TargetNodeForSynth(ev.SynthID))
	buf := r.synthesizeNote(ev, ev.Midi, ev.Pan)
	r.mixInto(node, buf, ev.StartTime)
}

func (r *renderer) renderChordEvent(ev event.AudioEvent, graph *routing.Graph) {
	node, _ := graph.Resolve(graph.TargetNodeForSynth(ev.SynthID))
	n := len(ev.ChordMidi)
	if n == 0 {
		return
	}

	var mixed []float32
	for i, midi := range ev.ChordMidi {
		pan := ev.Pan
		if n > 1 {
			fraction := float32(i) / float32(n-1)
			pan = ev.Pan + ev.Spread*(2*fraction-1)
		}
		if pan < -1 {
			pan = -1
		}
		if pan > 1 {
			pan = 1
		}
		noteBuf := r.synthesizeNote(ev, midi, pan)
		if mixed == nil {
			mixed = make([]float32, len(noteBuf))
		}
		for j, s := range noteBuf {
			if j < len(mixed) {
				mixed[j] += s
			}
		}
	}

	scale := 1 / float32(n)
	for i := range mixed {
		mixed[i] *= scale
	}
	r.mixInto(node, mixed, ev.StartTime)
}
