package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/errors"
	"windjammer/internal/parser"
)

func TestUnreachableAfterReturn(t *testing.T) {
	program, parseErrs, _ := parser.ParseSource("test.wj", `
fn f() -> int {
    return 1
    let x = 2
    x
}`)
	require.Empty(t, parseErrs)

	errs := NewFlowAnalyzer().AnalyzeProgram(program)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.WarningUnreachableCode, errs[0].Code)
	assert.Equal(t, 4, errs[0].Position.Line)
}

func TestUnreachableTailAfterBreak(t *testing.T) {
	program, parseErrs, _ := parser.ParseSource("test.wj", `
fn f() {
    loop {
        break
        println("never")
    }
}`)
	require.Empty(t, parseErrs)

	errs := NewFlowAnalyzer().AnalyzeProgram(program)
	require.Len(t, errs, 1)
	assert.Equal(t, 5, errs[0].Position.Line)
}

func TestReachableCode(t *testing.T) {
	program, parseErrs, _ := parser.ParseSource("test.wj", `
fn f(n: int) -> int {
    if n > 0 { return 1 }
    n
}`)
	require.Empty(t, parseErrs)
	assert.Empty(t, NewFlowAnalyzer().AnalyzeProgram(program))
}
