package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Diagnostic is the structured error shape of spec.md §7: file, line,
// column, kind, message, optional suggestion.
type Diagnostic struct {
	Kind       Kind
	File       string
	Line       int
	Column     int
	Message    string
	Suggestion string
}

// Error satisfies the error interface so a Diagnostic can be returned,
// wrapped, and inspected with errors.As like any other Go error.
func (d Diagnostic) Error() string {
	loc := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	if d.Suggestion == "" {
		return fmt.Sprintf("%s [%s] %s", loc, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s (suggestion: %s)", loc, d.Kind, d.Message, d.Suggestion)
}

// New builds a Diagnostic and wraps it with pkg/errors so stack context
// survives into logs at the collaborator boundary that raised it.
func New(kind Kind, file string, line, column int, message, suggestion string) error {
	return errors.WithStack(Diagnostic{
		Kind:       kind,
		File:       file,
		Line:       line,
		Column:     column,
		Message:    message,
		Suggestion: suggestion,
	})
}

// EncodeUnknownStatement packs a parse failure into the
// "MESSAGE|||FILE:LINE|||SUGGESTION" structured form spec.md §7 says an
// Unknown statement carries.
func EncodeUnknownStatement(message, file string, line int, suggestion string) string {
	return fmt.Sprintf("%s|||%s:%d|||%s", message, file, line, suggestion)
}

// DecodeUnknownStatement reverses EncodeUnknownStatement.
func DecodeUnknownStatement(raw string) (message, file string, line int, suggestion string, ok bool) {
	parts := strings.Split(raw, "|||")
	if len(parts) != 3 {
		return "", "", 0, "", false
	}
	message = parts[0]
	suggestion = parts[2]

	locParts := strings.SplitN(parts[1], ":", 2)
	file = locParts[0]
	if len(locParts) == 2 {
		fmt.Sscanf(locParts[1], "%d", &line)
	}
	return message, file, line, suggestion, true
}
