package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

var modParser = participle.MustBuild[File](
	participle.Lexer(ModLexer),
	participle.Elide("Whitespace", "BlockComment"),
	participle.UseLookahead(3),
)

// ParseFile reads and parses a mod.wj file
func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses mod.wj source; filename is used for positions only
func ParseString(filename, source string) (*File, error) {
	file, err := modParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Diagnostic converts a parse failure into a compiler diagnostic
func Diagnostic(filename string, err error) errors.CompilerError {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.SyntaxError(errors.ErrorMalformedItem, err.Error(), ast.Position{Filename: filename, Line: 1, Column: 1})
	}

	pos := pe.Position()
	return errors.SyntaxError(errors.ErrorMalformedItem, "invalid module declaration: "+pe.Message(), ast.Position{
		Filename: filename,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
	})
}
