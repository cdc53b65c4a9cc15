package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"cinder/internal/ast"
	"cinder/internal/errors"
	"cinder/internal/parser"
	"cinder/internal/semantic"
)

// AnalyzeSource runs the front end over a document and returns the tree
// plus every diagnostic, syntactic and semantic. The tree is returned
// even when diagnostics exist; unresolved regions are guarded by error
// nodes.
func AnalyzeSource(path, source string) (*ast.File, []errors.CompilerError) {
	file, errs := parser.ParseSource(path, source)
	if file != nil {
		analyzer := semantic.NewAnalyzer()
		analyzer.Analyze(file)
		errs = append(errs, analyzer.GetErrors()...)
	}
	return file, errs
}

// ToDiagnostics converts compiler diagnostics into LSP diagnostics for
// IDE display.
func ToDiagnostics(errs []errors.CompilerError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, e := range errs {
		length := e.Length
		if length < 1 {
			length = 1
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      uint32(e.Position.Line - 1),
					Character: uint32(e.Position.Column - 1),
				},
				End: protocol.Position{
					Line:      uint32(e.Position.Line - 1),
					Character: uint32(e.Position.Column - 1 + length),
				},
			},
			Severity: ptrSeverity(toSeverity(e.Level)),
			Source:   ptrString("cinder"),
			Code:     &protocol.IntegerOrString{Value: e.Code},
			Message:  e.Message,
		})
	}
	return diagnostics
}

func toSeverity(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
