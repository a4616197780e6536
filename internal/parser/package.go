package parser

import (
	"fmt"
	"os"

	"windjammer/internal/ast"
)

func ParseFile(path string) (*ast.Program, []ParseError, []ScanError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	program, parseErrors, scanErrors := ParseSource(path, string(source))
	return program, parseErrors, scanErrors, nil
}

func ParseSource(path string, source string) (*ast.Program, []ParseError, []ScanError) {
	scanner := NewScanner(source)
	tokens := scanner.ScanTokens()

	parser := NewParser(path, tokens)
	parser.source = source
	program := parser.ParseProgram()

	return program, parser.errors, scanner.errors
}
