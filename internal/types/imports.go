package types

import (
	"fmt"
	"strings"
	"unicode"

	"windjammer/internal/ast"
	"windjammer/internal/stdlib"
)

// ImportParser handles parsing and validating use statements
type ImportParser struct {
	typeRegistry     *TypeRegistry
	functionRegistry FunctionRegistryInterface
	moduleRegistry   ModuleRegistryInterface
	localModules     map[string]bool
}

// FunctionRegistryInterface defines the interface for function registries
type FunctionRegistryInterface interface {
	AddImportedFunction(name, modulePath string)
}

// ModuleRegistryInterface defines the interface for module registries
type ModuleRegistryInterface interface {
	AddImportedModule(name, modulePath string)
}

// NewImportParser creates a new import parser. localModules names the project
// modules visible to the unit; nil accepts any non-std path.
func NewImportParser(typeRegistry *TypeRegistry, functionRegistry FunctionRegistryInterface, moduleRegistry ModuleRegistryInterface, localModules map[string]bool) *ImportParser {
	return &ImportParser{
		typeRegistry:     typeRegistry,
		functionRegistry: functionRegistry,
		moduleRegistry:   moduleRegistry,
		localModules:     localModules,
	}
}

// ParseUseStatement processes a use statement and updates the registries.
// It returns a message for every path that resolves to no module.
func (ip *ImportParser) ParseUseStatement(useStmt *ast.Use) []string {
	var errors []string
	if len(useStmt.Path) == 0 {
		return errors
	}

	segments := make([]string, len(useStmt.Path))
	for i, seg := range useStmt.Path {
		segments[i] = seg.Value
	}
	modulePathStr := strings.Join(segments, ".")

	if stdlib.IsStdPath(modulePathStr) {
		return ip.parseStd(useStmt, segments)
	}

	root := segments[0]
	if root == "crate" || root == "self" || root == "super" {
		if len(segments) > 1 {
			root = segments[1]
		}
	}
	if ip.localModules != nil && !ip.localModules[root] {
		return append(errors, fmt.Sprintf("module '%s' not found", modulePathStr))
	}

	switch {
	case len(useStmt.Group) > 0:
		for _, item := range useStmt.Group {
			ip.importName(item.Value, modulePathStr)
		}
	case useStmt.Glob:
		ip.moduleRegistry.AddImportedModule(getModuleName(modulePathStr), modulePathStr)
	default:
		// use models.User imports the last segment
		last := segments[len(segments)-1]
		name := last
		if useStmt.Alias != nil {
			name = useStmt.Alias.Value
		}
		if len(segments) > 1 && isTypeName(last) {
			ip.typeRegistry.AddImportedType(name, strings.Join(segments[:len(segments)-1], "."), false)
		} else {
			ip.moduleRegistry.AddImportedModule(name, modulePathStr)
		}
	}
	return errors
}

func (ip *ImportParser) parseStd(useStmt *ast.Use, segments []string) []string {
	modulePath := strings.Join(segments, ".")
	moduleDef := stdlib.GetModuleDefinition(modulePath)

	// use std.collections.HashMap names a member of a module
	if moduleDef == nil && len(segments) > 2 {
		parent := strings.Join(segments[:len(segments)-1], ".")
		if def := stdlib.GetModuleDefinition(parent); def != nil {
			last := segments[len(segments)-1]
			if _, ok := def.Types[last]; ok || isTypeName(last) {
				ip.typeRegistry.AddImportedType(last, parent, def.Types[last].IsGeneric)
			} else {
				ip.functionRegistry.AddImportedFunction(last, parent)
			}
			return nil
		}
	}
	if moduleDef == nil {
		return []string{fmt.Sprintf("module '%s' not found", modulePath)}
	}

	for _, item := range useStmt.Group {
		ip.importName(item.Value, modulePath)
	}
	if len(useStmt.Group) == 0 {
		name := moduleDef.Name
		if useStmt.Alias != nil {
			name = useStmt.Alias.Value
		}
		// use std.json - imports the module for json.parse(...) calls
		ip.moduleRegistry.AddImportedModule(name, modulePath)
		if useStmt.Glob {
			for fn := range moduleDef.Functions {
				ip.functionRegistry.AddImportedFunction(fn, modulePath)
			}
			for typeName, def := range moduleDef.Types {
				ip.typeRegistry.AddImportedType(typeName, modulePath, def.IsGeneric)
			}
		}
	}
	return nil
}

func (ip *ImportParser) importName(name, modulePath string) {
	if name == "self" || name == "Self" {
		ip.moduleRegistry.AddImportedModule(getModuleName(modulePath), modulePath)
		return
	}
	if ip.isKnownFunction(name, modulePath) || !isTypeName(name) {
		ip.functionRegistry.AddImportedFunction(name, modulePath)
		return
	}
	ip.typeRegistry.AddImportedType(name, modulePath, ip.isKnownGenericType(name, modulePath))
}

// isKnownGenericType checks if a type from a specific module is known to be generic
func (ip *ImportParser) isKnownGenericType(typeName, modulePath string) bool {
	if moduleDef := stdlib.GetModuleDefinition(modulePath); moduleDef != nil {
		if typeDef, exists := moduleDef.Types[typeName]; exists {
			return typeDef.IsGeneric
		}
	}
	return false
}

// isKnownFunction checks if an import is a known function (not a type)
func (ip *ImportParser) isKnownFunction(functionName, modulePath string) bool {
	if moduleDef := stdlib.GetModuleDefinition(modulePath); moduleDef != nil {
		_, exists := moduleDef.Functions[functionName]
		return exists
	}
	return false
}

func isTypeName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// getModuleName extracts the module name from a module path
func getModuleName(modulePath string) string {
	parts := strings.Split(stdlib.NormalizePath(modulePath), ".")
	return parts[len(parts)-1]
}

// ValidateImportedTypeUsage validates that imported generic types are used correctly
func (ip *ImportParser) ValidateImportedTypeUsage(typeName string, hasGenerics bool) []string {
	var errors []string

	importedType := ip.typeRegistry.GetImportedType(typeName)
	if importedType == nil {
		return errors
	}

	if importedType.IsGeneric && !hasGenerics {
		errors = append(errors, "generic type "+typeName+" requires type parameters")
	} else if !importedType.IsGeneric && hasGenerics && stdlib.IsStdPath(importedType.ModulePath) {
		errors = append(errors, "type "+typeName+" does not accept type parameters")
	}

	return errors
}

// StdFunction returns the signature of a std module function, converted to the
// semantic type model
func StdFunction(modulePath, name string) *FuncSig {
	def := stdlib.GetModuleDefinition(modulePath)
	if def == nil {
		return nil
	}
	fn, ok := def.Functions[name]
	if !ok {
		return nil
	}
	sig := &FuncSig{Name: fn.Name, Module: def.Path, Return: UnitType}
	if fn.ReturnType != nil {
		sig.Return = FromTypeRef(fn.ReturnType)
	}
	for _, p := range fn.Parameters {
		sig.Params = append(sig.Params, ParamSig{Name: p.Name, Type: FromTypeRef(p.Type)})
	}
	return sig
}

// FromTypeRef converts a stdlib type reference
func FromTypeRef(ref *stdlib.TypeRef) *Type {
	if ref == nil {
		return UnitType
	}
	if ref.IsGeneric {
		return &Type{Kind: Param, Name: ref.Name}
	}
	if ref.Name == "()" {
		return UnitType
	}
	if IsBuiltinType(ref.Name) {
		return Prim(ref.Name)
	}
	args := make([]*Type, len(ref.GenericArgs))
	for i, a := range ref.GenericArgs {
		args[i] = FromTypeRef(a)
	}
	return NamedOf(ref.Name, args...)
}
