package plugin

// ScratchAllocator models the host-side fallback described in spec.md
// §6.3: "__wbindgen_malloc(size) -> ptr optional; if absent, host grows
// memory and uses tail as scratch". A real WASM loader would only reach
// for this when the guest module exports no allocator; it is modeled
// here as a plain growable byte arena so the engine core's calling
// convention doesn't assume malloc is always present.
type ScratchAllocator struct {
	arena []byte
}

// Alloc grows the arena by size bytes and returns the offset of the new
// region (the "ptr" a guest export would receive).
func (s *ScratchAllocator) Alloc(size int) int {
	ptr := len(s.arena)
	s.arena = append(s.arena, make([]byte, size)...)
	return ptr
}

// Bytes returns the full arena backing the allocator.
func (s *ScratchAllocator) Bytes() []byte { return s.arena }

// Reset discards every prior allocation.
func (s *ScratchAllocator) Reset() { s.arena = s.arena[:0] }
