// Package diag implements the structured diagnostics and error kinds
// of spec.md §7, plus the ambient logging/colorized-rendering stack
// carried from the teacher regardless of spec.md's non-goals.
package diag

// Kind enumerates the error kinds of spec.md §7.
type Kind string

const (
	KindParse       Kind = "ParseError"
	KindResolution  Kind = "ResolutionError"
	KindType        Kind = "TypeError"
	KindControlFlow Kind = "ControlFlowError"
	KindRuntime     Kind = "RuntimeError"
	KindAudioLoad   Kind = "AudioLoadError"
	KindPlugin      Kind = "PluginError"
	KindGraph       Kind = "GraphError"
)

// Recoverable reports whether the propagation policy of spec.md §7
// recovers this kind locally (silence substituted, diagnostic logged)
// rather than aborting the enclosing statement/block.
func (k Kind) Recoverable() bool {
	switch k {
	case KindResolution, KindAudioLoad:
		return true
	default:
		return false
	}
}
