package types

import (
	"sort"

	"windjammer/internal/ast"
	"windjammer/internal/builtins"
)

// ImportedType represents a type imported via use statement
type ImportedType struct {
	Name       string // The type name (e.g., "Regex", "HashMap")
	ModulePath string // The module it's imported from (e.g., "std.regex")
	IsGeneric  bool   // Whether the type accepts generic parameters
}

// ParamSig is one parameter of a function signature
type ParamSig struct {
	Name string
	Type *Type
	Decl *ast.Param
}

// FuncSig is the resolved signature of a function or method
type FuncSig struct {
	Name     string
	Parent   string // owning type for methods
	Params   []ParamSig
	Return   *Type
	Receiver ast.SelfMode
	Async    bool
	Decl     *ast.Function // nil for imported functions
	Module   string        // module path for imported functions
}

// StructInfo is the field and method table of a struct
type StructInfo struct {
	Decl    *ast.Struct
	Fields  map[string]*Type
	Order   []string
	Copy    bool
	Methods map[string]*FuncSig
}

// EnumInfo is the variant and method table of an enum
type EnumInfo struct {
	Decl     *ast.Enum
	Variants []string
	Copy     bool
	Methods  map[string]*FuncSig
}

// TypeRegistry manages the declarations visible in one translation unit
type TypeRegistry struct {
	builtins  map[string]bool
	imports   map[string]*ImportedType
	structs   map[string]*StructInfo
	enums     map[string]*EnumInfo
	traits    map[string]*ast.Trait
	aliases   map[string]*Type
	functions map[string]*FuncSig
	imported  map[string]string // imported function name -> module path
	modules   map[string]string // module alias -> module path
}

// NewTypeRegistry creates a new, empty type registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		builtins:  make(map[string]bool),
		imports:   make(map[string]*ImportedType),
		structs:   make(map[string]*StructInfo),
		enums:     make(map[string]*EnumInfo),
		traits:    make(map[string]*ast.Trait),
		aliases:   make(map[string]*Type),
		functions: make(map[string]*FuncSig),
		imported:  make(map[string]string),
		modules:   make(map[string]string),
	}
}

// InitializeBuiltins adds the language primitives and well-known library types
func (tr *TypeRegistry) InitializeBuiltins() {
	for _, name := range []BuiltinType{
		builtins.Int, builtins.Float, builtins.Bool, builtins.Char, builtins.String, builtins.Str,
		builtins.I8, builtins.I16, builtins.I32, builtins.I64, builtins.I128, builtins.Isize,
		builtins.U8, builtins.U16, builtins.U32, builtins.U64, builtins.U128, builtins.Usize,
		builtins.F32, builtins.F64,
	} {
		tr.builtins[string(name)] = true
	}
	for _, name := range []string{"Vec", "Option", "Result", "HashMap", "HashSet", "BTreeMap", "Box", "Rc", "Arc", "String", "Self"} {
		tr.builtins[name] = true
	}
}

// Collect registers every struct, enum, trait, alias, function and impl method of the program
func (tr *TypeRegistry) Collect(program *ast.Program) {
	if program == nil {
		return
	}
	for _, item := range program.Items {
		tr.collectItem(item)
	}
	// impls may precede the type they extend
	for _, item := range program.Items {
		if impl, ok := item.(*ast.Impl); ok {
			tr.collectImpl(impl)
		}
	}
	tr.resolveCopy()
}

func (tr *TypeRegistry) collectItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.Struct:
		generics := genericNames(it.TypeParams)
		info := &StructInfo{Decl: it, Fields: make(map[string]*Type), Methods: make(map[string]*FuncSig)}
		for _, f := range it.Fields {
			info.Fields[f.Name.Value] = FromAST(f.Type, generics)
			info.Order = append(info.Order, f.Name.Value)
		}
		tr.structs[it.Name.Value] = info
	case *ast.Enum:
		info := &EnumInfo{Decl: it, Methods: make(map[string]*FuncSig)}
		for _, v := range it.Variants {
			info.Variants = append(info.Variants, v.Name.Value)
		}
		tr.enums[it.Name.Value] = info
	case *ast.Trait:
		tr.traits[it.Name.Value] = it
	case *ast.TypeAlias:
		tr.aliases[it.Name.Value] = FromAST(it.Type, nil)
	case *ast.Function:
		tr.functions[it.Name.Value] = Signature(it, nil)
	}
}

func (tr *TypeRegistry) collectImpl(impl *ast.Impl) {
	target, ok := impl.Target.(*ast.NamedType)
	if !ok {
		return
	}
	name := target.Name()
	generics := genericNames(impl.TypeParams)
	for _, m := range impl.Methods {
		sig := Signature(m, generics)
		sig.Parent = name
		if s := tr.structs[name]; s != nil {
			s.Methods[m.Name.Value] = sig
		} else if e := tr.enums[name]; e != nil {
			e.Methods[m.Name.Value] = sig
		}
	}
}

// resolveCopy marks @auto types whose fields are all copyable. Iterates to a fixed
// point since struct fields may name other structs.
func (tr *TypeRegistry) resolveCopy() {
	for changed := true; changed; {
		changed = false
		for _, s := range tr.structs {
			if s.Copy || !derivesCopy(s.Decl.Decorators) {
				continue
			}
			all := true
			for _, name := range s.Order {
				if !tr.IsCopy(s.Fields[name]) {
					all = false
					break
				}
			}
			if all {
				s.Copy, changed = true, true
			}
		}
		for _, e := range tr.enums {
			if e.Copy || !derivesCopy(e.Decl.Decorators) {
				continue
			}
			all := true
			for _, v := range e.Decl.Variants {
				for _, t := range v.Tuple {
					all = all && tr.IsCopy(FromAST(t, nil))
				}
				for _, f := range v.Fields {
					all = all && tr.IsCopy(FromAST(f.Type, nil))
				}
			}
			if all {
				e.Copy, changed = true, true
			}
		}
	}
}

func derivesCopy(decorators []*ast.Decorator) bool {
	if ast.FindDecorator(decorators, "auto") != nil {
		return true
	}
	if d := ast.FindDecorator(decorators, "derive"); d != nil {
		for _, a := range d.Args {
			if id, ok := a.Value.(*ast.IdentExpr); ok && id.Name == "Copy" {
				return true
			}
		}
	}
	return false
}

// derivesClone mirrors the derive list the backend writes: a bare @auto always
// includes Clone, explicit lists must name it
func derivesClone(decorators []*ast.Decorator) bool {
	for _, d := range decorators {
		if d.Name != "auto" && d.Name != "derive" {
			continue
		}
		if d.Name == "auto" && len(d.Args) == 0 {
			return true
		}
		for _, a := range d.Args {
			if id, ok := a.Value.(*ast.IdentExpr); ok && id.Name == "Clone" {
				return true
			}
		}
	}
	return false
}

func genericNames(tps []*ast.TypeParam) map[string]bool {
	if len(tps) == 0 {
		return nil
	}
	m := make(map[string]bool, len(tps))
	for _, tp := range tps {
		m[tp.Name.Value] = true
	}
	return m
}

// Signature builds the signature of a declared function; outer holds the generic
// names of an enclosing impl
func Signature(fn *ast.Function, outer map[string]bool) *FuncSig {
	generics := make(map[string]bool)
	for name := range outer {
		generics[name] = true
	}
	for _, tp := range fn.TypeParams {
		generics[tp.Name.Value] = true
	}

	sig := &FuncSig{
		Name:   fn.Name.Value,
		Parent: fn.ParentType,
		Return: UnitType,
		Async:  fn.Async || ast.FindDecorator(fn.Decorators, "async") != nil,
		Decl:   fn,
	}
	if fn.Receiver != nil {
		sig.Receiver = fn.Receiver.Mode
	}
	if fn.Return != nil {
		sig.Return = FromAST(fn.Return, generics)
	}
	for _, p := range fn.Params {
		sig.Params = append(sig.Params, ParamSig{Name: p.Name.Value, Type: FromAST(p.Type, generics), Decl: p})
	}
	return sig
}

// AddImportedType adds an imported type to the registry
func (tr *TypeRegistry) AddImportedType(name, modulePath string, isGeneric bool) {
	tr.imports[name] = &ImportedType{
		Name:       name,
		ModulePath: modulePath,
		IsGeneric:  isGeneric,
	}
}

// AddImportedFunction records a function brought into scope by a use statement
func (tr *TypeRegistry) AddImportedFunction(name, modulePath string) {
	tr.imported[name] = modulePath
}

// AddImportedModule records a module brought into scope under name
func (tr *TypeRegistry) AddImportedModule(name, modulePath string) {
	tr.modules[name] = modulePath
}

// IsValidType checks if a type name is valid in this registry
func (tr *TypeRegistry) IsValidType(typeName string) bool {
	return tr.builtins[typeName] ||
		tr.imports[typeName] != nil ||
		tr.structs[typeName] != nil ||
		tr.enums[typeName] != nil ||
		tr.traits[typeName] != nil ||
		tr.aliases[typeName] != nil
}

// IsBuiltinType checks if a type is a built-in type
func (tr *TypeRegistry) IsBuiltinType(typeName string) bool {
	return tr.builtins[typeName]
}

// IsImportedType checks if a type is imported
func (tr *TypeRegistry) IsImportedType(typeName string) bool {
	return tr.imports[typeName] != nil
}

// IsUserDefinedType checks if a type is declared in this unit
func (tr *TypeRegistry) IsUserDefinedType(typeName string) bool {
	return tr.structs[typeName] != nil || tr.enums[typeName] != nil || tr.traits[typeName] != nil
}

// GetImportedType returns information about an imported type
func (tr *TypeRegistry) GetImportedType(typeName string) *ImportedType {
	return tr.imports[typeName]
}

func (tr *TypeRegistry) Struct(name string) *StructInfo {
	return tr.structs[name]
}

func (tr *TypeRegistry) Enum(name string) *EnumInfo {
	return tr.enums[name]
}

func (tr *TypeRegistry) Trait(name string) *ast.Trait {
	return tr.traits[name]
}

// Function returns a top-level function declared in this unit
func (tr *TypeRegistry) Function(name string) *FuncSig {
	return tr.functions[name]
}

// ImportedFunction returns the module a function was imported from
func (tr *TypeRegistry) ImportedFunction(name string) (string, bool) {
	path, ok := tr.imported[name]
	return path, ok
}

// Module returns the module path bound to name by a use statement
func (tr *TypeRegistry) Module(name string) (string, bool) {
	path, ok := tr.modules[name]
	return path, ok
}

// Method finds a method declared in an impl of the named type
func (tr *TypeRegistry) Method(typeName, method string) *FuncSig {
	if s := tr.structs[typeName]; s != nil {
		return s.Methods[method]
	}
	if e := tr.enums[typeName]; e != nil {
		return e.Methods[method]
	}
	return nil
}

// FieldType returns the declared type of a struct field
func (tr *TypeRegistry) FieldType(typeName, field string) *Type {
	if s := tr.structs[typeName]; s != nil {
		if t, ok := s.Fields[field]; ok {
			return t
		}
	}
	return UnknownType
}

// Resolve follows type aliases
func (tr *TypeRegistry) Resolve(t *Type) *Type {
	for i := 0; t != nil && t.Kind == Named && i < 16; i++ {
		alias, ok := tr.aliases[t.Name]
		if !ok {
			break
		}
		t = alias
	}
	return t
}

// FunctionNames returns every top-level function name, sorted
func (tr *TypeRegistry) FunctionNames() []string {
	names := make([]string, 0, len(tr.functions)+len(tr.imported))
	for name := range tr.functions {
		names = append(names, name)
	}
	for name := range tr.imported {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeNames returns every type name known to the registry, sorted
func (tr *TypeRegistry) TypeNames() []string {
	var names []string
	for name := range tr.builtins {
		names = append(names, name)
	}
	for name := range tr.imports {
		names = append(names, name)
	}
	for name := range tr.structs {
		names = append(names, name)
	}
	for name := range tr.enums {
		names = append(names, name)
	}
	for name := range tr.traits {
		names = append(names, name)
	}
	for name := range tr.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModuleNames returns every module alias in scope, sorted
func (tr *TypeRegistry) ModuleNames() []string {
	names := make([]string, 0, len(tr.modules))
	for name := range tr.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
