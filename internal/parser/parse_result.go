package parser

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

// ParseResult contains the full parsing result including node identities
type ParseResult struct {
	Program     *ast.Program
	ParseErrors []ParseError
	ScanErrors  []ScanError
	Tracker     *ast.NodeTracker
}

// ParseSourceWithMetadata parses source code and assigns a NodeID to every AST node
func ParseSourceWithMetadata(path string, source string) *ParseResult {
	program, parseErrors, scanErrors := ParseSource(path, source)

	tracker := ast.NewNodeTracker()
	ast.AssignIDs(program, tracker)

	return &ParseResult{
		Program:     program,
		ParseErrors: parseErrors,
		ScanErrors:  scanErrors,
		Tracker:     tracker,
	}
}

// HasErrors reports whether scanning or parsing failed anywhere
func (pr *ParseResult) HasErrors() bool {
	return len(pr.ParseErrors) > 0 || len(pr.ScanErrors) > 0
}

// Diagnostics converts lexical and syntax errors into compiler diagnostics, lexical first
func (pr *ParseResult) Diagnostics(path string) []errors.CompilerError {
	return Diagnostics(path, pr.ScanErrors, pr.ParseErrors)
}

// Diagnostics converts scanner and parser errors for path into compiler diagnostics
func Diagnostics(path string, scanErrors []ScanError, parseErrors []ParseError) []errors.CompilerError {
	out := make([]errors.CompilerError, 0, len(scanErrors)+len(parseErrors))
	for _, se := range scanErrors {
		out = append(out, errors.LexicalError(se.Kind.Code(), se.Message, toASTPosition(path, se.Position), se.Length))
	}
	for _, pe := range parseErrors {
		code := pe.Code
		if code == "" {
			code = errors.ErrorUnexpectedToken
		}
		out = append(out, errors.SyntaxError(code, pe.Message, toASTPosition(path, pe.Position)))
	}
	return out
}

// FindNodeAt returns the innermost node covering offset
func (pr *ParseResult) FindNodeAt(offset int) ast.Node {
	if pr.Program == nil {
		return nil
	}
	return ast.FindNodeAt(pr.Program, offset)
}

func toASTPosition(path string, pos Position) ast.Position {
	return ast.Position{
		Filename: path,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}
