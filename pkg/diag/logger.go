package diag

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Logger is the package-level structured logger every diagnostic is
// routed through, fields keyed by diagnostic kind/location.
var Logger = logrus.New()

var kindStyle = map[Kind]lipgloss.Style{
	KindParse:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	KindResolution:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	KindType:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	KindControlFlow: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	KindRuntime:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	KindAudioLoad:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	KindPlugin:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	KindGraph:       lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
}

// Render colorizes a Diagnostic for terminal display, falling back to
// plain Error() text for an unstyled kind.
func Render(d Diagnostic) string {
	style, ok := kindStyle[d.Kind]
	if !ok {
		return d.Error()
	}
	return style.Render(d.Error())
}

// Log emits d through Logger at a level matching its recoverability:
// recoverable kinds (resolution, audio-load) log as warnings since the
// engine substitutes silence and continues; everything else logs as an
// error.
func Log(d Diagnostic) {
	fields := logrus.Fields{
		"kind":   d.Kind,
		"file":   d.File,
		"line":   d.Line,
		"column": d.Column,
	}
	if d.Kind.Recoverable() {
		Logger.WithFields(fields).Warn(d.Message)
		return
	}
	Logger.WithFields(fields).Error(d.Message)
}
