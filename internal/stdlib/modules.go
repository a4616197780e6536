package stdlib

import (
	"sort"
	"strings"

	"windjammer/internal/builtins"
)

// RuntimeCrate is the crate implementing the std.* modules for the systems backend
const RuntimeCrate = "windjammer-runtime"

// ModuleDefinition defines a standard library module
type ModuleDefinition struct {
	Name      string                        // Module name (e.g., "json", "fs")
	Path      string                        // Full dotted path (e.g., "std.json")
	RustUse   string                        // Path imported by the systems backend
	Crates    []Crate                       // Backend crates the module needs
	Types     map[string]TypeDefinition     // Available types in this module
	Functions map[string]FunctionDefinition // Available functions in this module
}

// Crate is one dependency line of the generated manifest
type Crate struct {
	Name     string
	Version  string
	Features []string
}

// TypeDefinition defines a type from a standard library module
type TypeDefinition struct {
	Name      string // Type name (e.g., "Regex", "Duration")
	IsGeneric bool   // Whether the type accepts generic parameters
}

// FunctionDefinition defines a function signature from a standard library module
type FunctionDefinition struct {
	Name       string                // Function name (e.g., "parse", "read_to_string")
	Parameters []ParameterDefinition // Function parameters
	ReturnType *TypeRef              // Return type (nil if unit)
	IsGeneric  bool                  // Whether the function has generic type parameters
}

// ParameterDefinition defines a function parameter
type ParameterDefinition struct {
	Name string   // Parameter name
	Type *TypeRef // Parameter type
}

// TypeRef represents a type reference that can be generic
type TypeRef struct {
	Name        string     // Base type name (e.g., "Result", "int", "T")
	IsGeneric   bool       // Whether this is a generic type parameter (T, K, V)
	GenericArgs []*TypeRef // Generic type arguments for parameterized types
}

func NewTypeRef(name string) *TypeRef {
	return &TypeRef{Name: name}
}

func StringType() *TypeRef {
	return &TypeRef{Name: string(builtins.String)}
}

func IntType() *TypeRef {
	return &TypeRef{Name: string(builtins.Int)}
}

func FloatType() *TypeRef {
	return &TypeRef{Name: string(builtins.Float)}
}

func BoolType() *TypeRef {
	return &TypeRef{Name: string(builtins.Bool)}
}

func NewGenericTypeRef(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Name: name, GenericArgs: args}
}

func NewGenericParam(name string) *TypeRef {
	return &TypeRef{Name: name, IsGeneric: true}
}

// ResultOf is Result<ok, string>, the error convention of the runtime
func ResultOf(ok *TypeRef) *TypeRef {
	return NewGenericTypeRef("Result", ok, StringType())
}

func VecOf(elem *TypeRef) *TypeRef {
	return NewGenericTypeRef("Vec", elem)
}

func NewFunction(name string, returnType *TypeRef, params ...ParameterDefinition) FunctionDefinition {
	return FunctionDefinition{
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
	}
}

func NewGenericFunction(name string, returnType *TypeRef, params ...ParameterDefinition) FunctionDefinition {
	fn := NewFunction(name, returnType, params...)
	fn.IsGeneric = true
	return fn
}

func NewParam(name string, typeRef *TypeRef) ParameterDefinition {
	return ParameterDefinition{Name: name, Type: typeRef}
}

func functions(defs ...FunctionDefinition) map[string]FunctionDefinition {
	m := make(map[string]FunctionDefinition, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return m
}

func typeDefs(defs ...TypeDefinition) map[string]TypeDefinition {
	m := make(map[string]TypeDefinition, len(defs))
	for _, d := range defs {
		m[d.Name] = d
	}
	return m
}

var (
	serde       = Crate{Name: "serde", Version: "1.0", Features: []string{"derive"}}
	serdeJSON   = Crate{Name: "serde_json", Version: "1.0"}
	tokio       = Crate{Name: "tokio", Version: "1", Features: []string{"full"}}
	reqwest     = Crate{Name: "reqwest", Version: "0.11", Features: []string{"json"}}
	axum        = Crate{Name: "axum", Version: "0.7"}
	chrono      = Crate{Name: "chrono", Version: "0.4"}
	logCrate    = Crate{Name: "log", Version: "0.4"}
	envLogger   = Crate{Name: "env_logger", Version: "0.11"}
	regexCrate  = Crate{Name: "regex", Version: "1.10"}
	clap        = Crate{Name: "clap", Version: "4.5", Features: []string{"derive"}}
	sqlx        = Crate{Name: "sqlx", Version: "0.7"}
	rand        = Crate{Name: "rand", Version: "0.8"}
	sha2        = Crate{Name: "sha2", Version: "0.10"}
	bcrypt      = Crate{Name: "bcrypt", Version: "0.15"}
	base64Crate = Crate{Name: "base64", Version: "0.21"}
	csvCrate    = Crate{Name: "csv", Version: "1.3"}
)

var standardModules = buildStandardModules()

// GetStandardModules returns all built-in standard library modules keyed by dotted path
func GetStandardModules() map[string]*ModuleDefinition {
	return standardModules
}

func buildStandardModules() map[string]*ModuleDefinition {
	str := StringType
	modules := []*ModuleDefinition{
		{
			Name:   "json",
			Crates: []Crate{serde, serdeJSON},
			Types:  typeDefs(TypeDefinition{Name: "Value"}),
			Functions: functions(
				NewFunction("parse", ResultOf(NewTypeRef("Value")), NewParam("text", str())),
				NewGenericFunction("stringify", ResultOf(str()), NewParam("value", NewGenericParam("T"))),
				NewGenericFunction("pretty", ResultOf(str()), NewParam("value", NewGenericParam("T"))),
			),
		},
		{
			Name:   "csv",
			Crates: []Crate{csvCrate},
			Functions: functions(
				NewFunction("parse", ResultOf(VecOf(VecOf(str()))), NewParam("text", str())),
				NewFunction("write", ResultOf(str()), NewParam("rows", VecOf(VecOf(str())))),
			),
		},
		{
			Name:   "http",
			Crates: []Crate{reqwest, axum, tokio},
			Types:  typeDefs(TypeDefinition{Name: "Response"}, TypeDefinition{Name: "Request"}, TypeDefinition{Name: "Server"}),
			Functions: functions(
				NewFunction("get", ResultOf(NewTypeRef("Response")), NewParam("url", str())),
				NewFunction("post", ResultOf(NewTypeRef("Response")), NewParam("url", str()), NewParam("body", str())),
				NewFunction("serve", ResultOf(NewTypeRef("Server")), NewParam("addr", str())),
			),
		},
		{
			Name:   "time",
			Crates: []Crate{chrono},
			Types:  typeDefs(TypeDefinition{Name: "Duration"}, TypeDefinition{Name: "Instant"}),
			Functions: functions(
				NewFunction("now", NewTypeRef("Instant")),
				NewFunction("timestamp", IntType()),
				NewFunction("sleep_ms", nil, NewParam("ms", IntType())),
				NewFunction("format", str(), NewParam("pattern", str())),
			),
		},
		{
			Name:   "log",
			Crates: []Crate{logCrate, envLogger},
			Functions: functions(
				NewFunction("init", nil),
				NewFunction("info", nil, NewParam("message", str())),
				NewFunction("warn", nil, NewParam("message", str())),
				NewFunction("error", nil, NewParam("message", str())),
				NewFunction("debug", nil, NewParam("message", str())),
			),
		},
		{
			Name:   "regex",
			Crates: []Crate{regexCrate},
			Types:  typeDefs(TypeDefinition{Name: "Regex"}),
			Functions: functions(
				NewFunction("compile", ResultOf(NewTypeRef("Regex")), NewParam("pattern", str())),
				NewFunction("is_match", BoolType(), NewParam("pattern", str()), NewParam("text", str())),
			),
		},
		{
			Name:   "cli",
			Crates: []Crate{clap},
			Functions: functions(
				NewFunction("args", VecOf(str())),
				NewFunction("arg", NewGenericTypeRef("Option", str()), NewParam("index", IntType())),
			),
		},
		{
			Name:   "db",
			Crates: []Crate{sqlx, tokio},
			Types:  typeDefs(TypeDefinition{Name: "Connection"}, TypeDefinition{Name: "Row"}),
			Functions: functions(
				NewFunction("connect", ResultOf(NewTypeRef("Connection")), NewParam("url", str())),
			),
		},
		{
			Name:   "random",
			Crates: []Crate{rand},
			Functions: functions(
				NewFunction("range", IntType(), NewParam("min", IntType()), NewParam("max", IntType())),
				NewFunction("float", FloatType()),
				NewFunction("bool", BoolType()),
			),
		},
		{
			Name:   "crypto",
			Crates: []Crate{sha2, bcrypt, base64Crate},
			Functions: functions(
				NewFunction("sha256", str(), NewParam("data", str())),
				NewFunction("hash_password", ResultOf(str()), NewParam("password", str())),
				NewFunction("verify_password", ResultOf(BoolType()), NewParam("password", str()), NewParam("hash", str())),
				NewFunction("base64_encode", str(), NewParam("data", str())),
				NewFunction("base64_decode", ResultOf(str()), NewParam("data", str())),
			),
		},
		{
			Name:   "async",
			Crates: []Crate{tokio},
			Functions: functions(
				NewFunction("sleep_ms", nil, NewParam("ms", IntType())),
			),
		},
		{
			Name: "fs",
			Functions: functions(
				NewFunction("read_to_string", ResultOf(str()), NewParam("path", str())),
				NewFunction("write", ResultOf(NewTypeRef("()")), NewParam("path", str()), NewParam("contents", str())),
				NewFunction("exists", BoolType(), NewParam("path", str())),
				NewFunction("remove_file", ResultOf(NewTypeRef("()")), NewParam("path", str())),
				NewFunction("read_dir", ResultOf(VecOf(str())), NewParam("path", str())),
			),
		},
		{
			Name: "strings",
			Functions: functions(
				NewFunction("to_upper", str(), NewParam("s", str())),
				NewFunction("to_lower", str(), NewParam("s", str())),
				NewFunction("trim", str(), NewParam("s", str())),
				NewFunction("split", VecOf(str()), NewParam("s", str()), NewParam("sep", str())),
				NewFunction("contains", BoolType(), NewParam("s", str()), NewParam("needle", str())),
			),
		},
		{
			Name: "math",
			Functions: functions(
				NewFunction("sqrt", FloatType(), NewParam("x", FloatType())),
				NewFunction("pow", FloatType(), NewParam("x", FloatType()), NewParam("y", FloatType())),
				NewFunction("abs", FloatType(), NewParam("x", FloatType())),
				NewFunction("floor", FloatType(), NewParam("x", FloatType())),
				NewFunction("ceil", FloatType(), NewParam("x", FloatType())),
			),
		},
		{
			Name: "env",
			Functions: functions(
				NewFunction("var", NewGenericTypeRef("Option", str()), NewParam("name", str())),
				NewFunction("args", VecOf(str())),
			),
		},
		{
			Name: "process",
			Functions: functions(
				NewFunction("exit", nil, NewParam("code", IntType())),
				NewFunction("run", ResultOf(str()), NewParam("command", str()), NewParam("args", VecOf(str()))),
			),
		},
		{
			Name:    "collections",
			RustUse: "std::collections",
			Types: typeDefs(
				TypeDefinition{Name: "HashMap", IsGeneric: true},
				TypeDefinition{Name: "HashSet", IsGeneric: true},
				TypeDefinition{Name: "BTreeMap", IsGeneric: true},
				TypeDefinition{Name: "VecDeque", IsGeneric: true},
			),
		},
		{
			Name:    "thread",
			RustUse: "std::thread",
			Functions: functions(
				NewGenericFunction("spawn", nil, NewParam("f", NewGenericParam("F"))),
				NewFunction("sleep_ms", nil, NewParam("ms", IntType())),
			),
		},
	}

	out := make(map[string]*ModuleDefinition, len(modules))
	for _, m := range modules {
		m.Path = "std." + m.Name
		if m.RustUse == "" {
			m.RustUse = runtimePath(m.Name)
		}
		if m.Types == nil {
			m.Types = map[string]TypeDefinition{}
		}
		if m.Functions == nil {
			m.Functions = map[string]FunctionDefinition{}
		}
		out[m.Path] = m
	}
	return out
}

func runtimePath(name string) string {
	switch name {
	case "async":
		return "windjammer_runtime::async_runtime"
	case "csv", "log", "regex":
		return "windjammer_runtime::" + name + "_mod"
	}
	return "windjammer_runtime::" + name
}

// NormalizePath converts "std::json" and "std.json" spellings to the dotted key
func NormalizePath(modulePath string) string {
	return strings.ReplaceAll(modulePath, "::", ".")
}

// IsStdPath reports whether a module path lives under std
func IsStdPath(modulePath string) bool {
	p := NormalizePath(modulePath)
	return p == "std" || strings.HasPrefix(p, "std.")
}

// IsKnownModule checks if a module path is a known standard library module
func IsKnownModule(modulePath string) bool {
	_, exists := standardModules[NormalizePath(modulePath)]
	return exists
}

// GetModuleDefinition returns the definition for a standard library module
func GetModuleDefinition(modulePath string) *ModuleDefinition {
	return standardModules[NormalizePath(modulePath)]
}

// ModulePaths returns every known module path, sorted
func ModulePaths() []string {
	paths := make([]string, 0, len(standardModules))
	for p := range standardModules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// UsesRuntime reports whether any of the modules is implemented by the runtime crate
func UsesRuntime(modulePaths []string) bool {
	for _, p := range modulePaths {
		if m := GetModuleDefinition(p); m != nil && strings.HasPrefix(m.RustUse, "windjammer_runtime::") {
			return true
		}
	}
	return false
}

// CratesFor returns the crates required by the given module paths, deduplicated by
// name and sorted. Features of duplicate entries are merged.
func CratesFor(modulePaths []string) []Crate {
	byName := make(map[string]Crate)
	for _, p := range modulePaths {
		m := GetModuleDefinition(p)
		if m == nil {
			continue
		}
		for _, c := range m.Crates {
			existing, ok := byName[c.Name]
			if !ok {
				byName[c.Name] = Crate{Name: c.Name, Version: c.Version, Features: append([]string(nil), c.Features...)}
				continue
			}
			for _, f := range c.Features {
				if !contains(existing.Features, f) {
					existing.Features = append(existing.Features, f)
				}
			}
			sort.Strings(existing.Features)
			byName[c.Name] = existing
		}
	}

	crates := make([]Crate, 0, len(byName))
	for _, c := range byName {
		crates = append(crates, c)
	}
	sort.Slice(crates, func(i, j int) bool { return crates[i].Name < crates[j].Name })
	return crates
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
