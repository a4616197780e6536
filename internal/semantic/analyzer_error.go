package semantic

import (
	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/stdlib"
	"windjammer/internal/types"
)

func (a *Analyzer) addCompilerError(err errors.CompilerError) {
	a.errors = append(a.errors, err)
}

func (a *Analyzer) addUndefinedVariableError(ident *ast.IdentExpr) {
	a.addCompilerError(errors.VariableNotFound(ident.Name, ident.Pos, a.findSimilarVariables()))
}

func (a *Analyzer) addUndefinedFunctionError(ident *ast.IdentExpr) {
	// Suggest std modules exporting the name so a missing import is one edit away
	imports := a.context.ModulesDefining(ident.Name)
	a.addCompilerError(errors.FunctionNotFound(ident.Name, ident.Pos, a.findSimilarFunctions(), imports))
}

func (a *Analyzer) addFieldNotFoundError(structName string, field ast.Ident) {
	a.addCompilerError(errors.FieldNotFound(structName, field.Value, field.Pos, a.getStructFields(structName)))
}

func (a *Analyzer) addModuleFunctionError(module string, method ast.Ident, def *stdlib.ModuleDefinition) {
	names := make([]string, 0, len(def.Functions))
	for name := range def.Functions {
		names = append(names, name)
	}
	a.addCompilerError(errors.FunctionNotFound(module+"."+method.Value, method.Pos, qualify(module, names), nil))
}

func moduleNotFound(use *ast.Use, _ string) errors.CompilerError {
	return errors.ModuleNotFound(use.DottedPath(), use.Pos, stdlib.ModulePaths())
}

func borrowConflict(root *ast.IdentExpr) errors.CompilerError {
	return errors.BorrowConflict(root.Name, root.Pos)
}

func typeMismatch(expected, actual *types.Type, at ast.Expr) errors.CompilerError {
	return errors.TypeMismatch(expected.String(), actual.String(), at.NodePos())
}
