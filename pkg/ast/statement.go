// Package ast defines the Devalang statement data model (spec.md §3).
// Parsing itself is out of scope (spec.md §1); this package only carries
// the shape a parser collaborator is expected to produce.
package ast

import "github.com/devaloop-labs/devalang-core/pkg/value"

// Kind tags a Statement's payload.
type Kind uint8

const (
	KindLet Kind = iota
	KindVar
	KindConst
	KindTempo
	KindSleep
	KindGroup
	KindPattern
	KindBank
	KindLoad
	KindBind
	KindTrigger
	KindArrowCall
	KindCall
	KindSpawn
	KindLoop
	KindFor
	KindIf
	KindOn
	KindEmit
	KindAssign
	KindPrint
	KindBreak
	KindReturn
	KindFunction
	KindAutomate
	KindRouting
	KindRoutingNode
	KindRoutingFx
	KindRoutingRoute
	KindRoutingDuck
	KindRoutingSidechain
	KindImport
	KindUsePlugin
	KindUnknown
)

// Location is a statement's source position, carried for diagnostics.
type Location struct {
	File   string
	Line   int
	Column int
	Indent int
}

// Statement is one parsed program statement. Only the field(s) matching
// Kind are meaningful.
type Statement struct {
	Kind Kind
	Loc  Location

	// Let/Var/Const
	Name string
	Expr value.Value

	// Tempo
	TempoValue value.Value
	Body       []Statement // optional tempo block; Group/Loop/For/If/On/Function/RoutingNode bodies reuse this

	// Sleep
	SleepDuration value.Value

	// Group / Pattern / Bank / Load / Function names reuse Name above.
	PatternTarget string // Pattern's optional target
	PatternSource string // pattern step string ("x-x-x-")
	PatternOpts   map[string]value.Value

	BankAlias string // default: last dotted component of Name

	LoadSource string
	LoadAlias  string

	// Bind
	BindSource  string
	BindTarget  string
	BindOptions map[string]value.Value

	// Trigger
	TriggerEntity  string
	TriggerDur     value.Value
	TriggerEffects map[string]value.Value

	// ArrowCall: target -> method(args) -> method(args) ...
	ArrowTarget string
	ArrowChain  []ArrowStep

	// Call / Spawn share Name + Args
	Args []value.Value

	// Loop
	LoopCount  value.Value // nil Value (Kind Null) means infinite/pass-style
	LoopIsPass bool        // true for `loop pass(ms): BODY` (spec.md §4.6, §6.1)
	LoopPassMs value.Value // the ms argument to pass(ms)

	// For
	ForVar      string
	ForIterable value.Value

	// If
	Condition value.Value
	ElseBody  []Statement

	// On / Emit
	EventName  string
	EventOnce  bool
	EventCount int
	EmitPayload map[string]value.Value

	// Assign: target.property = value
	AssignTarget   string
	AssignProperty string
	AssignValue    value.Value

	// Print
	PrintArgs []value.Value

	// Return
	ReturnValue value.Value

	// Function
	Params []string

	// Automate
	AutomateTarget string
	AutomateMode   string // "global" | "note" | ""
	AutomateParams []AutomateParam

	// Routing
	RoutingNodeName  string
	RoutingNodeAlias string
	RoutingFxTarget  string
	RoutingFxChain   []map[string]value.Value
	RoutingSrc       string
	RoutingDst       string
	RoutingGain      value.Value
	RoutingFxParams  map[string]value.Value

	// Import
	ImportNames  []string
	ImportSource string

	// UsePlugin
	PluginAuthor string
	PluginName   string
	PluginAlias  string

	// Unknown: structured error carrier, "MESSAGE|||FILE:LINE|||SUGGESTION"
	UnknownRaw string
}

// ArrowStep is one `-> method(args)` link in an arrow-call chain
// (spec.md §4.6, §4.6.1).
type ArrowStep struct {
	Method string
	Args   []value.Value
	Named  map[string]value.Value
}

// AutomateParam is one `param NAME [curve C] { points }` block
// (spec.md §4.5).
type AutomateParam struct {
	Name   string
	Curve  string
	Points []AutomatePoint
}

// AutomatePoint is one `progress% = value` entry before percent-to-
// fraction conversion.
type AutomatePoint struct {
	ProgressPercent float32
	Value           value.Value
}
