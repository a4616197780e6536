package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"windjammer/internal/errors"
)

// diagnosticSource names the producer shown by editors
const diagnosticSource = "windjammer"

// ConvertDiagnostics transforms compiler diagnostics into LSP diagnostics.
// Positions become 0-based; a diagnostic without a length underlines one
// character.
func ConvertDiagnostics(errs []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs))

	for _, err := range errs {
		line := uint32(max(err.Position.Line-1, 0))
		start := uint32(max(err.Position.Column-1, 0))
		length := uint32(max(err.Length, 1))

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: start + length},
			},
			Severity: ptrSeverity(levelSeverity(err.Level)),
			Source:   ptrString(diagnosticSource),
			Message:  diagnosticMessage(err),
		}
		if err.Code != "" {
			diagnostic.Code = &protocol.IntegerOrString{Value: err.Code}
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

// diagnosticMessage appends the help text to the message, the way the
// command line renders it below the excerpt
func diagnosticMessage(err errors.CompilerError) string {
	if err.HelpText == "" {
		return err.Message
	}
	return err.Message + "\nhelp: " + err.HelpText
}
