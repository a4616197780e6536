package semantic

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
)

// FlowAnalyzer reports statements that can never execute because an earlier
// statement of the same block always leaves it
type FlowAnalyzer struct {
	errors []errors.CompilerError
}

// NewFlowAnalyzer creates a new flow analyzer
func NewFlowAnalyzer() *FlowAnalyzer {
	return &FlowAnalyzer{}
}

// AnalyzeProgram checks every block of the program, nested ones included
func (fa *FlowAnalyzer) AnalyzeProgram(program *ast.Program) []errors.CompilerError {
	fa.errors = nil
	ast.Inspect(program, func(n ast.Node) bool {
		if block, ok := n.(*ast.Block); ok {
			fa.analyzeBlock(block)
		}
		return true
	})
	return fa.errors
}

// analyzeBlock warns once, at the first statement following a jump
func (fa *FlowAnalyzer) analyzeBlock(block *ast.Block) {
	for i, stmt := range block.Stmts {
		if !isJump(stmt) {
			continue
		}
		// Stop after first unreachable statement to avoid noise
		switch {
		case i+1 < len(block.Stmts):
			fa.errors = append(fa.errors, errors.UnreachableCode(block.Stmts[i+1].NodePos()))
		case block.Tail != nil:
			fa.errors = append(fa.errors, errors.UnreachableCode(block.Tail.NodePos()))
		}
		return
	}
}

func isJump(stmt ast.Stmt) bool {
	switch stmt.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	}
	return false
}
