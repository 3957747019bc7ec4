package value

// Binding is the declaration form a name was bound with.
type Binding uint8

const (
	BindLet Binding = iota
	BindVar
	BindConst
)

type entry struct {
	value   Value
	binding Binding
}

// Scope is a lexically nested name->value table. Lookups walk the parent
// chain; const re-assignment at the owning scope is refused (the caller
// logs a diagnostic, per spec.md §4.1 "const fails silently on re-assign").
type Scope struct {
	parent *Scope
	vars   map[string]entry
	Special *SpecialVars
}

// NewScope creates a root scope with no parent.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]entry)}
}

// WithParent returns a new child scope nested under parent. Special
// variables are inherited by reference so a nested block sees the same
// live cursor/bpm context as its enclosing block.
func (s *Scope) WithParent(parent *Scope) *Scope {
	child := NewScope()
	child.parent = parent
	if parent != nil {
		child.Special = parent.Special
	}
	return child
}

// Get resolves name by walking the scope chain outward. The bool result is
// false if the name is unbound anywhere in the chain.
func (s *Scope) Get(name string) (Value, bool) {
	if s != nil {
		if v, ok := s.Special.Get(name); ok {
			return v, true
		}
	}
	for cur := s; cur != nil; cur = cur.parent {
		if e, ok := cur.vars[name]; ok {
			return e.value, true
		}
	}
	return Value{}, false
}

// bindingOf reports which scope in the chain owns name, and how it was
// bound, if any.
func (s *Scope) bindingOf(name string) (*Scope, Binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if e, ok := cur.vars[name]; ok {
			return cur, e.binding, true
		}
	}
	return nil, 0, false
}

// SetWithType binds name in s (shadowing, not rebinding, any parent
// binding) for let/const, and reassigns an existing var binding in place
// for var. Reassigning a const is refused (through var anywhere in the
// chain, through let/const only in the scope that owns it) and reported
// via the ok=false return so the caller can log a ConstReassign
// diagnostic (spec.md §7).
func (s *Scope) SetWithType(name string, v Value, binding Binding) (ok bool) {
	if binding == BindVar {
		if owner, existingBinding, found := s.bindingOf(name); found {
			if existingBinding == BindConst {
				return false
			}
			owner.vars[name] = entry{value: v, binding: BindVar}
			return true
		}
	}
	if owner, existingBinding, found := s.bindingOf(name); found && owner == s && existingBinding == BindConst {
		return false
	}
	s.vars[name] = entry{value: v, binding: binding}
	return true
}

// Snapshot flattens the entire parent chain (innermost binding wins)
// into one new root scope with its own vars map and a copied
// SpecialVars, so a goroutine that owns the snapshot can read and write
// it without racing the scope it was taken from (spec.md §4.6.3: each
// parallel spawn gets a "variables snapshot").
func (s *Scope) Snapshot() *Scope {
	flat := make(map[string]entry)
	chain := make([]*Scope, 0)
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].vars {
			flat[k] = v
		}
	}
	snap := &Scope{vars: flat}
	if s != nil && s.Special != nil {
		sv := *s.Special
		snap.Special = &sv
	}
	return snap
}

// ResolveValue returns the value a Value refers to: if v is an identifier,
// the bound value is looked up (recursively, so identifier chains resolve
// fully); otherwise a Clone of v is returned so callers never share
// mutable state with the scope table.
func (s *Scope) ResolveValue(v Value) Value {
	seen := map[string]bool{}
	for v.Kind == KindIdentifier {
		if seen[v.Str] {
			break
		}
		seen[v.Str] = true
		next, ok := s.Get(v.Str)
		if !ok {
			return Value{Kind: KindNull}
		}
		v = next
	}
	return v.Clone()
}

// SpecialVars holds the interpreter-wide special variables ($beat, $bar,
// $time, $bpm, $total_duration) resolved through a dedicated context
// rather than the scope chain (spec.md §4.1, §4.1a).
type SpecialVars struct {
	Beat          float32
	Bar           float32
	Time          float32
	BPM           float32
	TotalDuration float32
}

// Get resolves a leading-'$' special variable name. ok is false for any
// other name, so callers fall through to the normal scope lookup.
func (sv *SpecialVars) Get(name string) (Value, bool) {
	if sv == nil || len(name) == 0 || name[0] != '$' {
		return Value{}, false
	}
	switch name[1:] {
	case "beat":
		return Number(sv.Beat), true
	case "bar":
		return Number(sv.Bar), true
	case "time":
		return Number(sv.Time), true
	case "bpm":
		return Number(sv.BPM), true
	case "total_duration":
		return Number(sv.TotalDuration), true
	default:
		return Value{}, false
	}
}
