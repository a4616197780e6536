package errors

import (
	"fmt"
	"strings"

	"windjammer/internal/ast"
)

// SemanticErrorBuilder provides a fluent interface for creating diagnostics with suggestions
type SemanticErrorBuilder struct {
	err CompilerError
}

func newBuilder(level ErrorLevel, code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    level,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewSemanticError creates a new semantic error builder
func NewSemanticError(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return newBuilder(Error, code, message, pos)
}

// NewSemanticWarning creates a new semantic warning builder
func NewSemanticWarning(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return newBuilder(Warning, code, message, pos)
}

// NewSemanticNote creates a new note builder
func NewSemanticNote(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return newBuilder(Note, code, message, pos)
}

// WithLength sets the length of the error span
func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *SemanticErrorBuilder) WithReplacement(message, replacement string, pos ast.Position, length int) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

func (b *SemanticErrorBuilder) didYouMean(similar []string) *SemanticErrorBuilder {
	switch len(similar) {
	case 0:
		return b
	case 1:
		return b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	default:
		return b.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}
}

// VariableNotFound creates an error for unresolved identifiers with suggestions
func VariableNotFound(name string, pos ast.Position, candidates []string) CompilerError {
	builder := NewSemanticError(ErrorVariableNotFound, fmt.Sprintf("variable '%s' not found in this scope", name), pos).
		WithLength(len(name))

	similar := FindSimilarNames(name, candidates)
	if len(similar) > 0 {
		return builder.didYouMean(similar).Build()
	}
	return builder.WithSuggestion("make sure the variable is declared before use").
		WithNote("variables are declared with 'let' or 'let mut'").
		Build()
}

// FunctionNotFound creates an error for calls to unknown functions
func FunctionNotFound(name string, pos ast.Position, candidates []string, availableImports []string) CompilerError {
	builder := NewSemanticError(ErrorFunctionNotFound, fmt.Sprintf("function '%s' not found", name), pos).
		WithLength(len(name)).
		didYouMean(FindSimilarNames(name, candidates))

	for _, imp := range availableImports {
		builder = builder.WithSuggestion(fmt.Sprintf("try importing: use %s", imp))
	}

	return builder.WithHelp("functions must be defined in this module or imported with 'use'").Build()
}

// TypeMismatch creates an error for type mismatches with conversion suggestions
func TypeMismatch(expected, actual string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorTypeMismatch, fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual), pos)

	switch {
	case isNumericType(expected) && isNumericType(actual):
		builder = builder.WithSuggestion(fmt.Sprintf("convert explicitly with 'as %s'", expected)).
			WithNote("numeric types are never converted implicitly")
	case expected == "string" && actual == "&str":
		builder = builder.WithSuggestion("call '.to_string()' to create an owned string")
	case expected == "bool":
		builder = builder.WithSuggestion("use a comparison operator to create a boolean value")
	}

	return builder.Build()
}

// ImmutableAssign creates an error for assignments to bindings that cannot be made mutable
func ImmutableAssign(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorImmutableAssign, fmt.Sprintf("cannot assign twice to immutable binding '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("declare it with 'let mut %s'", name)).
		Build()
}

// TypeNotFound creates an error for references to unknown types
func TypeNotFound(name string, pos ast.Position, candidates []string) CompilerError {
	return NewSemanticError(ErrorTypeNotFound, fmt.Sprintf("type '%s' not found", name), pos).
		WithLength(len(name)).
		didYouMean(FindSimilarNames(name, candidates)).
		Build()
}

// ModuleNotFound creates an error for imports that resolve to nothing
func ModuleNotFound(path string, pos ast.Position, available []string) CompilerError {
	builder := NewSemanticError(ErrorModuleNotFound, fmt.Sprintf("module '%s' not found", path), pos).
		WithLength(len(path)).
		didYouMean(FindSimilarNames(path, available))
	return builder.WithHelp("modules are files next to this one, directories with .wj files, or std.* modules").Build()
}

// DuplicateModule creates an error for a module defined by both a source file
// and a directory of the same name
func DuplicateModule(name, file, dir string) CompilerError {
	pos := ast.Position{Filename: file, Line: 1, Column: 1}
	return NewSemanticError(ErrorDuplicateModule, fmt.Sprintf("module '%s' is defined by both %s and %s", name, file, dir), pos).
		WithHelp("rename one of them or move the file into the directory as mod.wj").
		Build()
}

// OwnershipAmbiguous creates a note for parameters whose uses disagree
func OwnershipAmbiguous(function, param string, pos ast.Position) CompilerError {
	return NewSemanticNote(ErrorOwnershipAmbiguous,
		fmt.Sprintf("parameter '%s' of '%s' is both mutated and moved; passing it by value", param, function), pos).
		WithLength(len(param)).
		WithNote("the parameter is declared 'mut' in the generated code").
		Build()
}

// ConditionalMove creates a note for parameters moved in one branch and
// borrowed on a later path
func ConditionalMove(function, param string, pos ast.Position) CompilerError {
	return NewSemanticNote(ErrorOwnershipAmbiguous,
		fmt.Sprintf("parameter '%s' of '%s' is moved on one path and borrowed on another; passing it by value", param, function), pos).
		WithLength(len(param)).
		WithNote("callers give up the value even when the branch that moves it is not taken").
		Build()
}

// MoveWithoutClone creates a note for a value moved where a copy is needed
// but whose type does not derive Clone
func MoveWithoutClone(name, typeName string, pos ast.Position) CompilerError {
	return NewSemanticNote(ErrorOwnershipAmbiguous,
		fmt.Sprintf("'%s' is moved here but its type '%s' does not derive Clone", name, typeName), pos).
		WithLength(len(name)).
		WithSuggestion("add @auto or @derive(Clone) to the type, or pass a reference").
		Build()
}

// BorrowConflict creates a warning for a binding borrowed mutably twice in one call
func BorrowConflict(name string, pos ast.Position) CompilerError {
	return NewSemanticWarning(ErrorBorrowConflict, fmt.Sprintf("'%s' is borrowed mutably more than once in the same call", name), pos).
		WithLength(len(name)).
		WithNote("the backend compiler will reject overlapping mutable borrows").
		Build()
}

// MissingField creates an error for missing struct literal fields
func MissingField(structName, fieldName string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorMissingField, fmt.Sprintf("missing field '%s' in initializer of '%s'", fieldName, structName), pos).
		WithSuggestion(fmt.Sprintf("add the missing field: %s: <value>", fieldName)).
		WithNote("all struct fields must be given unless a '..base' expression is used").
		Build()
}

// FieldNotFound creates an error for struct literals and accesses naming an undeclared field
func FieldNotFound(structName, fieldName string, pos ast.Position, fields []string) CompilerError {
	builder := NewSemanticError(ErrorMissingField, fmt.Sprintf("struct '%s' has no field '%s'", structName, fieldName), pos).
		WithLength(len(fieldName)).
		didYouMean(FindSimilarNames(fieldName, fields))
	if len(fields) > 0 {
		builder = builder.WithNote(fmt.Sprintf("available fields: %s", strings.Join(fields, ", ")))
	}
	return builder.Build()
}

// NonExhaustiveMatch creates a warning for enum matches that miss variants
func NonExhaustiveMatch(enumName string, missing []string, pos ast.Position) CompilerError {
	return NewSemanticWarning(ErrorNonExhaustiveMatch,
		fmt.Sprintf("non-exhaustive match on '%s': missing %s", enumName, strings.Join(missing, ", ")), pos).
		WithLength(len("match")).
		WithSuggestion("add arms for the missing variants or a '_' wildcard arm").
		Build()
}

// UnusedVariable creates a warning for unused variables
func UnusedVariable(name string, pos ast.Position) CompilerError {
	return NewSemanticWarning(WarningUnusedVariable, fmt.Sprintf("variable '%s' is declared but never used", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("prefix with underscore to silence: '_%s'", name)).
		WithNote("unused bindings are emitted with a leading underscore").
		Build()
}

// UnreachableCode creates a warning for statements after a return
func UnreachableCode(pos ast.Position) CompilerError {
	return NewSemanticWarning(WarningUnreachableCode, "unreachable code", pos).
		WithSuggestion("remove the unreachable code").
		WithNote("code after a return, break or continue is never executed").
		Build()
}

// Internal creates an error for items the generator cannot print
func Internal(item, message string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInternal, fmt.Sprintf("internal error while emitting '%s': %s", item, message), pos).
		WithHelp("the item was skipped; the rest of the file was emitted").
		Build()
}

// LexicalError creates an error produced by the scanner
func LexicalError(code, message string, pos ast.Position, length int) CompilerError {
	return NewSemanticError(code, message, pos).WithLength(length).Build()
}

// SyntaxError creates an error produced by the parser
func SyntaxError(code, message string, pos ast.Position) CompilerError {
	return NewSemanticError(code, message, pos).Build()
}

func isNumericType(typeName string) bool {
	switch typeName {
	case "int", "int32", "uint", "float", "i8", "i16", "i32", "i64", "i128", "isize",
		"u8", "u16", "u32", "u64", "u128", "usize", "f32", "f64":
		return true
	}
	return false
}

// FindSimilarNames returns the candidates within a small edit distance of target
func FindSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if candidate != target && len(candidate) > 2 && levenshteinDistance(target, candidate) <= 2 {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
