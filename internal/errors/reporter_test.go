package errors

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/ast"
)

func TestErrorReporter(t *testing.T) {
	source := `fn main() {
    let total = 1
    let x = totl
    println(x)
}`

	reporter := NewErrorReporter("main.wj", source)

	err := VariableNotFound("totl", ast.Position{Line: 3, Column: 13}, []string{"total", "main"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorVariableNotFound+"]")
	assert.Contains(t, formatted, "variable 'totl' not found")
	assert.Contains(t, formatted, "main.wj:3:13")
	assert.Contains(t, formatted, "did you mean 'total'")
	assert.Contains(t, formatted, "let x = totl")
}

func TestVariableNotFoundError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := VariableNotFound("cuont", pos, []string{"count"})
	assert.Equal(t, ErrorVariableNotFound, err.Code)
	assert.Contains(t, err.Message, "cuont")
	require.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'count'")

	err = VariableNotFound("xyz", pos, nil)
	require.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "make sure the variable is declared")
}

func TestFunctionNotFoundError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := FunctionNotFound("prnt", pos, []string{"print"}, []string{"std.fmt"})
	assert.Equal(t, ErrorFunctionNotFound, err.Code)
	require.Len(t, err.Suggestions, 2)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'print'")
	assert.Contains(t, err.Suggestions[1].Message, "try importing: use std.fmt")
}

func TestTypeMismatchError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := TypeMismatch("int", "float", pos)
	assert.Equal(t, ErrorTypeMismatch, err.Code)
	assert.Contains(t, err.Message, "expected int, found float")
	assert.Contains(t, err.Suggestions[0].Message, "as int")

	err = TypeMismatch("bool", "int", pos)
	assert.Contains(t, err.Suggestions[0].Message, "comparison operator")
}

func TestOwnershipNoteLevel(t *testing.T) {
	err := OwnershipAmbiguous("consume", "items", ast.Position{Line: 2, Column: 12})
	assert.Equal(t, Note, err.Level)
	assert.Equal(t, ErrorOwnershipAmbiguous, err.Code)
	assert.Contains(t, err.Message, "'items'")
}

func TestNonExhaustiveMatchIsWarning(t *testing.T) {
	err := NonExhaustiveMatch("Color", []string{"Green", "Blue"}, ast.Position{Line: 1, Column: 1})
	assert.Equal(t, Warning, err.Level)
	assert.Contains(t, err.Message, "Green, Blue")
}

func TestWarningFormatting(t *testing.T) {
	source := `let unused = 42`
	reporter := NewErrorReporter("test.wj", source)

	formatted := reporter.FormatError(UnusedVariable("unused", ast.Position{Line: 1, Column: 5}))

	assert.Contains(t, formatted, "warning[W0001]")
	assert.Contains(t, formatted, "never used")
	assert.Contains(t, formatted, "prefix with underscore")
}

func TestErrorMarkerCreation(t *testing.T) {
	reporter := NewErrorReporter("test.wj", `let variable = value`)

	marker := reporter.createMarker(5, 8, Error)
	assert.Equal(t, 4, strings.Count(marker, " "))
	assert.Equal(t, 8, strings.Count(marker, "^"))

	noteMarker := reporter.createMarker(1, 3, Note)
	assert.Equal(t, 3, strings.Count(noteMarker, "-"))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"balance", "amount", "total", "balanceOf", "xyz"}

	similar := FindSimilarNames("balace", candidates)
	assert.Contains(t, similar, "balance")
	assert.NotContains(t, similar, "xyz")

	assert.Empty(t, FindSimilarNames("verydifferent", candidates))
}

func TestErrorLevels(t *testing.T) {
	reporter := NewErrorReporter("test.wj", `test`)
	pos := ast.Position{Line: 1, Column: 1}

	errorFormatted := reporter.FormatError(CompilerError{Level: Error, Message: "test error", Position: pos})
	warningFormatted := reporter.FormatError(CompilerError{Level: Warning, Message: "test warning", Position: pos})

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}

func TestCodeCategories(t *testing.T) {
	assert.Equal(t, "Semantic Analysis", GetErrorCategory(ErrorVariableNotFound))
	assert.Equal(t, "Lexer", GetErrorCategory(ErrorBadEscape))
	assert.Equal(t, "Parser", GetErrorCategory(ErrorUnexpectedToken))
	assert.Equal(t, "Internal", GetErrorCategory(ErrorInternal))
	assert.Equal(t, "Warning", GetErrorCategory(WarningUnusedVariable))
	assert.True(t, IsWarning(WarningUnreachableCode))
	assert.False(t, IsWarning(ErrorNonExhaustiveMatch))
}

func TestDiagnosticsSummary(t *testing.T) {
	var diags Diagnostics
	assert.Equal(t, "0 error(s), 0 warning(s)", diags.Summary())
	assert.False(t, diags.HasErrors())

	diags.Add(UnusedVariable("a", ast.Position{Filename: "b.wj", Offset: 10}))
	diags.Add(VariableNotFound("q", ast.Position{Filename: "a.wj", Offset: 5}, nil))
	diags.Add(OwnershipAmbiguous("f", "p", ast.Position{Filename: "b.wj", Offset: 2}))
	diags.Add(TypeMismatch("int", "bool", ast.Position{Filename: "b.wj", Offset: 1}))

	assert.Equal(t, "2 error(s), 1 warning(s)", diags.Summary())
	assert.True(t, diags.HasErrors())

	files, groups := diags.ByFile()
	assert.Equal(t, []string{"b.wj", "a.wj"}, files)
	require.Len(t, groups["b.wj"], 3)
	assert.Equal(t, 1, groups["b.wj"][0].Position.Offset)
}

func TestStatisticsRoundTrip(t *testing.T) {
	home := t.TempDir()

	stats, err := LoadStatistics(home)
	require.NoError(t, err)
	stats.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	stats.Record([]CompilerError{
		VariableNotFound("x", ast.Position{Filename: "main.wj", Line: 3}, nil),
		VariableNotFound("y", ast.Position{Filename: "main.wj", Line: 4}, nil),
		UnusedVariable("z", ast.Position{Filename: "lib.wj", Line: 1}),
		OwnershipAmbiguous("f", "p", ast.Position{Filename: "lib.wj"}),
	})
	require.NoError(t, stats.Save())

	loaded, err := LoadStatistics(home)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.TotalErrors)
	assert.Equal(t, 1, loaded.TotalWarnings)
	assert.Equal(t, 2, loaded.ByCode[ErrorVariableNotFound])
	assert.Equal(t, 2, loaded.ByFile["main.wj"])
	require.Len(t, loaded.Recent, 3)
	assert.Equal(t, []CodeCount{{ErrorVariableNotFound, 2}, {WarningUnusedVariable, 1}}, loaded.TopCodes(5))
}
