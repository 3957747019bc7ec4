package interp

import (
	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/value"
)

const maxUnboundedLoopIterations = 10000

// execLoop implements spec.md §4.6 Loop/Break and §6.1's two loop forms:
// `loop N: BODY` repeats the body N times; `loop pass(ms): BODY` starts
// a background worker instead (see execPassLoop). An absent count with
// no pass marker repeats while the simulated cursor hasn't yet reached
// $total_duration, falling back to a single pass if no total duration
// target was set (there is no other bound to stop an infinite loop
// against).
func (ip *Interpreter) execLoop(stmt ast.Statement) {
	if stmt.LoopIsPass {
		ip.execPassLoop(stmt)
		return
	}

	resolvedCount := ip.scope.ResolveValue(stmt.LoopCount)
	if resolvedCount.Kind == value.KindNumber {
		n := int(resolvedCount.Number)
		for i := 0; i < n; i++ {
			ip.exec(stmt.Body, ip.scope.WithParent(ip.scope))
			if ip.breakFlag {
				ip.breakFlag = false
				return
			}
			if ip.returning {
				return
			}
		}
		return
	}

	total := float32(0)
	if ip.scope.Special != nil {
		total = ip.scope.Special.TotalDuration
	}
	if total <= 0 {
		ip.exec(stmt.Body, ip.scope.WithParent(ip.scope))
		return
	}
	for i := 0; i < maxUnboundedLoopIterations && ip.cursor < total; i++ {
		ip.exec(stmt.Body, ip.scope.WithParent(ip.scope))
		if ip.breakFlag {
			ip.breakFlag = false
			return
		}
		if ip.returning {
			return
		}
	}
}

// execFor iterates stmt.ForIterable (a Range or an Array), binding
// stmt.ForVar in a child scope per iteration.
func (ip *Interpreter) execFor(stmt ast.Statement) {
	iterable := ip.scope.ResolveValue(stmt.ForIterable)
	items := iterableItems(iterable)
	for _, item := range items {
		child := ip.scope.WithParent(ip.scope)
		child.SetWithType(stmt.ForVar, item, value.BindLet)
		ip.exec(stmt.Body, child)
		if ip.breakFlag {
			ip.breakFlag = false
			return
		}
		if ip.returning {
			return
		}
	}
}

func iterableItems(v value.Value) []value.Value {
	switch v.Kind {
	case value.KindArray:
		return v.Array
	case value.KindRange:
		start, end := v.RangeVal.Start, v.RangeVal.End
		if start == nil || end == nil || start.Kind != value.KindNumber || end.Kind != value.KindNumber {
			return nil
		}
		items := make([]value.Value, 0)
		for n := start.Number; n < end.Number; n++ {
			items = append(items, value.Number(n))
		}
		return items
	default:
		return nil
	}
}

func (ip *Interpreter) execIf(stmt ast.Statement) {
	if ip.boolOf(stmt.Condition) {
		ip.exec(stmt.Body, ip.scope.WithParent(ip.scope))
		return
	}
	if stmt.ElseBody != nil {
		ip.exec(stmt.ElseBody, ip.scope.WithParent(ip.scope))
	}
}

// execOn registers an event handler (spec.md §4.6 "On event[:once]
// body").
func (ip *Interpreter) execOn(stmt ast.Statement) {
	ip.handlers[stmt.EventName] = append(ip.handlers[stmt.EventName], &onHandler{
		body:     stmt.Body,
		once:     stmt.EventOnce,
		maxCount: stmt.EventCount,
	})
}

// execEmit runs every handler registered for stmt.EventName that hasn't
// already exhausted its fire budget (spec.md §4.6 "Emit event payload").
func (ip *Interpreter) execEmit(stmt ast.Statement) {
	ip.fireEvent(stmt.EventName, stmt.EmitPayload)
}

// fireEvent runs every handler registered for name, setting
// suppress_beat_emit for the duration so built-in beat/bar emission
// never re-enters through a handler's own body (spec.md §4.6: "During
// handler execution, suppress_beat_emit is set to prevent re-entrance").
func (ip *Interpreter) fireEvent(name string, payload map[string]value.Value) {
	handlers := ip.handlers[name]
	if len(handlers) == 0 {
		return
	}

	payloadScope := ip.scope.WithParent(ip.scope)
	for k, v := range payload {
		payloadScope.SetWithType(k, ip.scope.ResolveValue(v), value.BindLet)
	}

	prevSuppress := ip.suppressBeat
	ip.suppressBeat = true
	defer func() { ip.suppressBeat = prevSuppress }()

	for _, h := range handlers {
		if h.once && h.fired {
			continue
		}
		if h.maxCount > 0 && h.count >= h.maxCount {
			continue
		}
		ip.exec(h.body, payloadScope)
		h.fired = true
		h.count++
	}
}
