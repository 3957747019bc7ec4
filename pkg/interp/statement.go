package interp

import (
	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/diag"
	"github.com/devaloop-labs/devalang-core/pkg/dsp"
	"github.com/devaloop-labs/devalang-core/pkg/event"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

// exec walks body in scope, partitioning Spawn statements to run after
// every sequential statement (spec.md §4.6 "Partition a block's
// statements into sequential-others and Spawn statements").
func (ip *Interpreter) exec(body []ast.Statement, scope *value.Scope) {
	ip.drainBackground()

	prevScope := ip.scope
	ip.scope = scope
	defer func() { ip.scope = prevScope }()

	var spawns []ast.Statement
	for _, stmt := range body {
		if ip.breakFlag || ip.returning {
			return
		}
		if stmt.Kind == ast.KindSpawn {
			spawns = append(spawns, stmt)
			continue
		}
		ip.setSpecialTime(ip.cursor)
		ip.execOne(stmt)
	}

	if len(spawns) > 0 {
		ip.runSpawns(spawns)
	}
}

func (ip *Interpreter) execOne(stmt ast.Statement) {
	switch stmt.Kind {
	case ast.KindLet:
		ip.execDeclare(stmt.Name, stmt.Expr, value.BindLet)
	case ast.KindVar:
		ip.execDeclare(stmt.Name, stmt.Expr, value.BindVar)
	case ast.KindConst:
		ip.execDeclare(stmt.Name, stmt.Expr, value.BindConst)

	case ast.KindTempo:
		ip.execTempo(stmt)

	case ast.KindSleep:
		ip.execSleep(stmt)

	case ast.KindGroup:
		ip.groups[stmt.Name] = stmt.Body

	case ast.KindPattern:
		ip.patterns[stmt.Name] = stmt
		ip.scope.SetWithType(stmt.Name, value.StatementRef(stmt), value.BindLet)

	case ast.KindBank:
		ip.execBank(stmt)

	case ast.KindLoad:
		ip.execLoad(stmt)

	case ast.KindBind:
		ip.execBind(stmt)

	case ast.KindTrigger:
		ip.execTrigger(stmt)

	case ast.KindArrowCall:
		ip.execArrowCall(stmt)

	case ast.KindCall:
		ip.execCall(stmt.Name, stmt.Args)

	case ast.KindLoop:
		ip.execLoop(stmt)

	case ast.KindFor:
		ip.execFor(stmt)

	case ast.KindIf:
		ip.execIf(stmt)

	case ast.KindOn:
		ip.execOn(stmt)

	case ast.KindEmit:
		ip.execEmit(stmt)

	case ast.KindAssign:
		ip.execAssign(stmt)

	case ast.KindPrint:
		ip.execPrint(stmt)

	case ast.KindBreak:
		ip.breakFlag = true

	case ast.KindReturn:
		ip.returning = true
		ip.returnValue = ip.scope.ResolveValue(stmt.ReturnValue)

	case ast.KindFunction:
		ip.funcs[stmt.Name] = funcDef{params: stmt.Params, body: stmt.Body}

	case ast.KindAutomate:
		ip.execAutomate(stmt)

	case ast.KindRouting:
		ip.execRouting(stmt)

	case ast.KindImport:
		// Cross-file resolution happens before Run is called; by the
		// time the collector sees an Import statement its names are
		// already merged into scope, so there is nothing left to do.

	case ast.KindUsePlugin:
		ip.execUsePlugin(stmt)

	case ast.KindUnknown:
		msg, file, line, suggestion, ok := diag.DecodeUnknownStatement(stmt.UnknownRaw)
		if !ok {
			msg, file, line, suggestion = "unrecognized statement", stmt.Loc.File, stmt.Loc.Line, ""
		}
		ip.recordDiag(diag.KindParse, ast.Location{File: file, Line: line}, msg, suggestion)
	}
}

func (ip *Interpreter) execTempo(stmt ast.Statement) {
	newBPM := clampBPM(ip.num(stmt.TempoValue))
	if stmt.Body == nil {
		ip.setBPM(newBPM)
		return
	}
	old := ip.bpm()
	ip.setBPM(newBPM)
	ip.exec(stmt.Body, ip.scope.WithParent(ip.scope))
	ip.setBPM(old)
}

func clampBPM(v float32) float32 {
	if v < 1 {
		return 1
	}
	if v > 999 {
		return 999
	}
	return v
}

func (ip *Interpreter) execSleep(stmt ast.Statement) {
	resolved := ip.scope.ResolveValue(stmt.SleepDuration)
	seconds, ok := durationInSeconds(resolved, ip.bpm())
	if !ok {
		seconds = defaultNoteDurationBeats * 60 / ip.bpm()
	}
	ip.cursor += seconds
}

func (ip *Interpreter) execCall(name string, args []value.Value) {
	fn, ok := ip.funcs[name]
	if !ok {
		if body, ok := ip.groups[name]; ok {
			ip.exec(body, ip.scope.WithParent(ip.scope))
			return
		}
		if patternStmt, ok := ip.patterns[name]; ok {
			ip.executePattern(patternStmt)
		}
		return
	}
	if ip.funcDepth >= maxFunctionCallDepth {
		ip.recordDiag(diag.KindControlFlow, ast.Location{}, "function call depth exceeded: "+name, "check for unbounded recursion")
		return
	}
	ip.funcDepth++
	defer func() { ip.funcDepth-- }()

	child := ip.scope.WithParent(ip.scope)
	for i, param := range fn.params {
		if i < len(args) {
			child.SetWithType(param, ip.scope.ResolveValue(args[i]), value.BindLet)
		}
	}
	ip.exec(fn.body, child)
	ip.returning = false
	ip.returnValue = value.Value{}
}

func (ip *Interpreter) execAssign(stmt ast.Statement) {
	def, ok := ip.synths[stmt.AssignTarget]
	if !ok {
		ip.recordDiag(diag.KindResolution, stmt.Loc, "assignment target has no synth definition: "+stmt.AssignTarget, "")
		return
	}
	v := ip.scope.ResolveValue(stmt.AssignValue)
	switch stmt.AssignProperty {
	case "attack":
		def.Attack = v.Number / 1000
	case "decay":
		def.Decay = v.Number / 1000
	case "sustain":
		def.Sustain = v.Number
	case "release":
		def.Release = v.Number / 1000
	case "waveform":
		def.Waveform = dsp.Waveform(v.String())
	}
	ip.synths[stmt.AssignTarget] = def
}

func (ip *Interpreter) execPrint(stmt ast.Statement) {
	if ip.suppressPrint {
		return
	}
	parts := make([]string, 0, len(stmt.PrintArgs))
	for _, a := range stmt.PrintArgs {
		parts = append(parts, ip.scope.ResolveValue(a).String())
	}
	line := ""
	for i, p := range parts {
		if i > 0 {
			line += " "
		}
		line += p
	}
	ip.printLog = append(ip.printLog, line)
	ip.printEvents = append(ip.printEvents, PrintEvent{Time: ip.cursor, Message: line})
}

func (ip *Interpreter) execUsePlugin(stmt ast.Statement) {
	alias := stmt.PluginAlias
	if alias == "" {
		alias = stmt.PluginName
	}
	ip.synths[alias] = event.SynthDefinition{
		Sustain:      1,
		PluginAuthor: stmt.PluginAuthor,
		PluginName:   stmt.PluginName,
		PluginExport: stmt.PluginName,
	}
}
