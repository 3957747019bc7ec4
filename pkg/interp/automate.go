package interp

import (
	"github.com/devaloop-labs/devalang-core/pkg/ast"
	"github.com/devaloop-labs/devalang-core/pkg/automation"
)

// defaultAutomationWindowBeats is the fallback block length (one bar at
// 4/4) used when $total_duration does not extend past the cursor to bound
// an automate block (spec.md §4.5 doesn't name a source for this case).
const defaultAutomationWindowBeats = 4

// execAutomate implements spec.md §4.6's "Automate target mode? body":
// parse templates, then register them either as global-mode absolute
// envelopes or as a per-note progress template.
func (ip *Interpreter) execAutomate(stmt ast.Statement) {
	templates := make([]automation.Template, 0, len(stmt.AutomateParams))
	for _, p := range stmt.AutomateParams {
		templates = append(templates, automation.FromAST(p))
	}
	if len(templates) == 0 {
		return
	}

	blockStart := ip.cursor
	blockDuration := ip.automationWindow()

	if stmt.AutomateMode == "note" {
		ctx := automation.NewNoteContext(templates, blockStart, blockStart+blockDuration)
		ip.noteAutomation.Register(ctx)
		return
	}

	for _, t := range templates {
		for _, env := range t.Segments(blockStart, blockDuration) {
			ip.automationRegistry.Register(env)
		}
	}
}

func (ip *Interpreter) automationWindow() float32 {
	if ip.scope.Special != nil && ip.scope.Special.TotalDuration > ip.cursor {
		return ip.scope.Special.TotalDuration - ip.cursor
	}
	return defaultAutomationWindowBeats * 60 / ip.bpm()
}
