package semantic

import (
	"sort"

	"windjammer/internal/ast"
	"windjammer/internal/stdlib"
	"windjammer/internal/types"
)

// ContextRegistry provides a unified view of all available types, functions, and modules
// in a specific semantic analysis context
type ContextRegistry struct {
	typeRegistry *types.TypeRegistry
	importParser *types.ImportParser

	// Standard library modules for reference
	stdlibModules map[string]*stdlib.ModuleDefinition
	usedStd       map[string]bool
	localGlob     bool
}

// NewContextRegistry creates a new unified context registry. localModules names the
// project modules a use statement may refer to; nil accepts any path.
func NewContextRegistry(localModules map[string]bool) *ContextRegistry {
	typeRegistry := types.NewTypeRegistry()
	typeRegistry.InitializeBuiltins()

	return &ContextRegistry{
		typeRegistry:  typeRegistry,
		importParser:  types.NewImportParser(typeRegistry, typeRegistry, typeRegistry, localModules),
		stdlibModules: stdlib.GetStandardModules(),
		usedStd:       make(map[string]bool),
	}
}

// Registry returns the underlying declaration tables
func (cr *ContextRegistry) Registry() *types.TypeRegistry {
	return cr.typeRegistry
}

// IsValidType checks if a type is valid in this context
func (cr *ContextRegistry) IsValidType(typeName string) bool {
	return cr.typeRegistry.IsValidType(typeName)
}

// IsImportedType checks if a type is imported
func (cr *ContextRegistry) IsImportedType(typeName string) bool {
	return cr.typeRegistry.IsImportedType(typeName)
}

// IsImportedFunction checks if a function is imported
func (cr *ContextRegistry) IsImportedFunction(functionName string) bool {
	_, ok := cr.typeRegistry.ImportedFunction(functionName)
	return ok
}

// ImportedModule returns the module path bound to a name by a use statement
func (cr *ContextRegistry) ImportedModule(name string) (string, bool) {
	return cr.typeRegistry.Module(name)
}

// HasLocalGlob reports whether a glob import from a project module is in scope;
// its names cannot be checked without the module's declarations
func (cr *ContextRegistry) HasLocalGlob() bool {
	return cr.localGlob
}

// ProcessUseStatement processes a use statement and updates all relevant registries
func (cr *ContextRegistry) ProcessUseStatement(useStmt *ast.Use) []string {
	errs := cr.importParser.ParseUseStatement(useStmt)
	if len(errs) > 0 {
		return errs
	}
	path := stdlib.NormalizePath(useStmt.DottedPath())
	if stdlib.IsStdPath(path) {
		if def := stdlib.GetModuleDefinition(path); def != nil {
			cr.usedStd[def.Path] = true
		} else if parent := parentPath(path); stdlib.GetModuleDefinition(parent) != nil {
			cr.usedStd[parent] = true
		}
	} else if useStmt.Glob {
		cr.localGlob = true
	}
	return nil
}

func parentPath(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return ""
}

// UsedStdModules returns the std module paths imported by the unit, sorted
func (cr *ContextRegistry) UsedStdModules() []string {
	out := make([]string, 0, len(cr.usedStd))
	for path := range cr.usedStd {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// GetStandardModuleDefinition returns the definition for a standard library module
func (cr *ContextRegistry) GetStandardModuleDefinition(modulePath string) *stdlib.ModuleDefinition {
	return cr.stdlibModules[modulePath]
}

// ModuleFunction resolves module.function(...) through a module imported by name
func (cr *ContextRegistry) ModuleFunction(moduleName, functionName string) *types.FuncSig {
	path, ok := cr.ImportedModule(moduleName)
	if !ok {
		return nil
	}
	return types.StdFunction(path, functionName)
}

// ImportedFunction resolves a bare call to a function imported from a std module
func (cr *ContextRegistry) ImportedFunction(functionName string) *types.FuncSig {
	path, ok := cr.typeRegistry.ImportedFunction(functionName)
	if !ok {
		return nil
	}
	return types.StdFunction(path, functionName)
}

// ModulesDefining returns the std modules that export a function with the given
// name, for import suggestions
func (cr *ContextRegistry) ModulesDefining(functionName string) []string {
	var out []string
	for _, path := range stdlib.ModulePaths() {
		if def := cr.stdlibModules[path]; def != nil {
			if _, ok := def.Functions[functionName]; ok {
				out = append(out, path)
			}
		}
	}
	return out
}

// ValidateTypeUsage validates that a type is used correctly in context
func (cr *ContextRegistry) ValidateTypeUsage(typeName string, hasGenerics bool) []string {
	return cr.importParser.ValidateImportedTypeUsage(typeName, hasGenerics)
}
