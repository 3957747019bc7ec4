// Package interp implements the event collector (spec.md §4.6): it
// walks a parsed statement tree, evaluates expressions against a scoped
// variable table, and produces the flat, time-ordered event.AudioEvent
// list the renderer consumes. Modeled on the teacher's tracker/Song
// walk, generalized from a fixed row/channel grid to Devalang's
// arbitrary statement tree.
package interp

import (
	"math/rand"
	"sync"

	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/automation"
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/midiio"
	"github.com/devaloop-labs/devalang-core/pkg/registry"
	"github.com/devaloop-labs/devalang-core/pkg/routing"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// humanizeSeed is fixed so two interpreter runs over the same AST and
// registries produce byte-identical humanize offsets (spec.md §8
// invariant: same input, same output).
const humanizeSeed = 1

const maxFunctionCallDepth = 64

// funcDef is a collected `fn` body plus its formal parameter names.
type funcDef struct {
	params []string
	body   []ast.Statement
}

// onHandler is one registered `on EVENT { ... }` body.
type onHandler struct {
	body     []ast.Statement
	once     bool
	fired    bool
	maxCount int
	count    int
}

// Interpreter holds all state accumulated while walking one program's
// statement tree (spec.md §4.6 "state per interpreter instance").
type Interpreter struct {
	SampleRate int
	BPM        float32

	scope *value.Scope

	groups   map[string][]ast.Statement
	patterns map[string]ast.Statement
	funcs    map[string]funcDef
	synths   map[string]event.SynthDefinition

	banks   *registry.BankRegistry
	samples *registry.SampleRegistry

	midiFilesMap map[string]midiio.File

	cursor float32 // seconds

	automationRegistry *automation.Registry
	noteAutomation     *automation.NoteRegistry

	routingCfg routing.Config

	handlers map[string][]*onHandler

	events []event.AudioEvent

	funcDepth     int
	returning     bool
	returnValue   value.Value
	breakFlag     bool
	suppressBeat  bool
	suppressPrint bool
	printLog      []string
	printEvents   []PrintEvent

	rng *rand.Rand

	diagnostics []diag.Diagnostic

	// bgChannel is the background "pass" worker sender/receiver channel
	// (spec.md §4.6 "background event receiver"; §5: "a single
	// sender/receiver channel may deliver events from longer-lived
	// background workers (pass) to the parent"). It is created lazily by
	// whichever interpreter first executes a `loop pass(ms)` statement
	// and is copied by reference into every spawn/pass fork after that,
	// never recreated, so a worker started deep in a spawn tree still
	// reports back to the single true owner (spec.md §5: "the local
	// interpreter's background sender, if any, is inherited — never
	// create a fresh receiver, which would orphan background workers").
	bgChannel     chan []event.AudioEvent
	bgOwnsReceive bool
	bgWG          *sync.WaitGroup
	passCounter   int
}

// New builds an interpreter ready to collect events at the given sample
// rate and starting tempo.
func New(sampleRate int, bpm float32, banks *registry.BankRegistry, samples *registry.SampleRegistry) *Interpreter {
	root := value.NewScope()
	root.Special = &value.SpecialVars{BPM: bpm}

	return &Interpreter{
		SampleRate:         sampleRate,
		BPM:                bpm,
		scope:              root,
		groups:             make(map[string][]ast.Statement),
		patterns:           make(map[string]ast.Statement),
		funcs:              make(map[string]funcDef),
		synths:             make(map[string]event.SynthDefinition),
		banks:              banks,
		samples:            samples,
		automationRegistry: automation.NewRegistry(),
		noteAutomation:     automation.NewNoteRegistry(),
		handlers:           make(map[string][]*onHandler),
		rng:                rand.New(rand.NewSource(humanizeSeed)),
	}
}

// Events returns the collected, time-ordered audio events after Run.
func (ip *Interpreter) Events() []event.AudioEvent { return ip.events }

// Diagnostics returns every non-fatal diagnostic recorded during the
// walk (unresolved names, failed loads, and the like).
func (ip *Interpreter) Diagnostics() []diag.Diagnostic { return ip.diagnostics }

// Routing returns the routing configuration collected from `routing { }`
// blocks, ready for routing.Build.
func (ip *Interpreter) Routing() routing.Config { return ip.routingCfg }

// Run walks body top to bottom, collecting events into ip.Events(). It
// never returns early on a recoverable diagnostic: an unrecognized
// statement (ast.KindUnknown) is recorded as a parse diagnostic and the
// walk goes on; only an internal panic aborts it.
func (ip *Interpreter) Run(body []ast.Statement) {
	ip.exec(body, ip.scope)
	ip.joinBackgroundWorkers()
	ip.emitBuiltinBeats()
	sortEventsByStart(ip.events)
}

// PrintLog returns every line recorded by a Print statement, in
// execution order.
func (ip *Interpreter) PrintLog() []string { return ip.printLog }

// PrintEvent pairs one Print statement's rendered line with the cursor
// time it fired at, the shape spec.md §6.5's printlog sidecar needs.
type PrintEvent struct {
	Time    float32
	Message string
}

// PrintEvents returns every Print statement's line paired with its
// cursor time, in execution order (spec.md §6.5).
func (ip *Interpreter) PrintEvents() []PrintEvent { return ip.printEvents }

func sortEventsByStart(events []event.AudioEvent) {
	for i := 1; i < len(events); i++ {
		j := i
		for j > 0 && events[j-1].StartTime > events[j].StartTime {
			events[j-1], events[j] = events[j], events[j-1]
			j--
		}
	}
}

func (ip *Interpreter) recordDiag(kind diag.Kind, loc ast.Location, message, suggestion string) {
	d := diag.Diagnostic{
		Kind:       kind,
		File:       loc.File,
		Line:       loc.Line,
		Column:     loc.Column,
		Message:    message,
		Suggestion: suggestion,
	}
	ip.diagnostics = append(ip.diagnostics, d)
	diag.Log(d)
}

func (ip *Interpreter) bpm() float32 {
	if ip.scope.Special != nil {
		return ip.scope.Special.BPM
	}
	return ip.BPM
}

func (ip *Interpreter) setBPM(v float32) {
	ip.BPM = v
	if ip.scope.Special != nil {
		ip.scope.Special.BPM = v
	}
}

func (ip *Interpreter) setSpecialTime(t float32) {
	if ip.scope.Special != nil {
		ip.scope.Special.Time = t
	}
}

func (ip *Interpreter) num(v value.Value) float32 {
	resolved := ip.scope.ResolveValue(v)
	if resolved.Kind == value.KindNumber {
		return resolved.Number
	}
	return 0
}

func (ip *Interpreter) str(v value.Value) string {
	resolved := ip.scope.ResolveValue(v)
	return resolved.String()
}

func (ip *Interpreter) boolOf(v value.Value) bool {
	resolved := ip.scope.ResolveValue(v)
	switch resolved.Kind {
	case value.KindBoolean:
		return resolved.Boolean
	case value.KindNumber:
		return resolved.Number != 0
	case value.KindNull:
		return false
	default:
		return true
	}
}
