package automation

// NoteContext is the stored per-note-mode automation state for one
// declaring block: its templates plus the simulated time window the
// block occupies (spec.md §4.5 "note mode").
type NoteContext struct {
	BlockStart float32
	BlockEnd   float32
	Templates  map[string]Template
}

// NewNoteContext builds a NoteContext from parsed templates and the
// block's simulated [start,end) window.
func NewNoteContext(templates []Template, blockStart, blockEnd float32) NoteContext {
	byTarget := make(map[string]Template, len(templates))
	for _, t := range templates {
		byTarget[canonical(t.Name)] = t
	}
	return NoteContext{BlockStart: blockStart, BlockEnd: blockEnd, Templates: byTarget}
}

// Has reports whether target has a registered per-note template.
func (n NoteContext) Has(target string) bool {
	_, ok := n.Templates[canonical(target)]
	return ok
}

// ValueAt evaluates target's template at a note's absolute start_time,
// converting it to block-relative progress first (spec.md §4.5: progress
// = (note.start_time - block_start)/(block_end - block_start)).
func (n NoteContext) ValueAt(target string, noteStart float32) (float32, bool) {
	t, ok := n.Templates[canonical(target)]
	if !ok {
		return 0, false
	}
	span := n.BlockEnd - n.BlockStart
	progress := float32(0)
	if span > 0 {
		progress = (noteStart - n.BlockStart) / span
	}
	return t.Evaluate(progress), true
}

// NoteRegistry holds one NoteContext per automation-bearing target
// across every `automate ... mode note` block collected so far.
type NoteRegistry struct {
	contexts map[string]NoteContext
}

// NewNoteRegistry builds an empty per-note automation registry.
func NewNoteRegistry() *NoteRegistry {
	return &NoteRegistry{contexts: make(map[string]NoteContext)}
}

// Clone returns an independent copy for the same reason
// Registry.Clone does (spec.md §4.6.3 "automation snapshots").
func (r *NoteRegistry) Clone() *NoteRegistry {
	cp := &NoteRegistry{contexts: make(map[string]NoteContext, len(r.contexts))}
	for k, v := range r.contexts {
		cp.contexts[k] = v
	}
	return cp
}

// Register stores ctx under every target it carries a template for.
func (r *NoteRegistry) Register(ctx NoteContext) {
	for target := range ctx.Templates {
		r.contexts[target] = ctx
	}
}

// Has reports whether target has a registered per-note template.
func (r *NoteRegistry) Has(target string) bool {
	_, ok := r.contexts[canonical(target)]
	return ok
}

// ValueAt evaluates the registered per-note template for target at a
// note's absolute start time.
func (r *NoteRegistry) ValueAt(target string, noteStart float32) (float32, bool) {
	ctx, ok := r.contexts[canonical(target)]
	if !ok {
		return 0, false
	}
	return ctx.ValueAt(target, noteStart)
}
