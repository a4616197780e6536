package builtins

// BuiltinType represents the built-in types of the Windjammer language
type BuiltinType string

const (
	Int    BuiltinType = "int"
	Float  BuiltinType = "float"
	Bool   BuiltinType = "bool"
	Char   BuiltinType = "char"
	String BuiltinType = "string"
	Str    BuiltinType = "str"
	Unit   BuiltinType = "()"

	// Sized integers
	I8    BuiltinType = "i8"
	I16   BuiltinType = "i16"
	I32   BuiltinType = "i32"
	I64   BuiltinType = "i64"
	I128  BuiltinType = "i128"
	Isize BuiltinType = "isize"
	U8    BuiltinType = "u8"
	U16   BuiltinType = "u16"
	U32   BuiltinType = "u32"
	U64   BuiltinType = "u64"
	U128  BuiltinType = "u128"
	Usize BuiltinType = "usize"

	// Sized floats
	F32 BuiltinType = "f32"
	F64 BuiltinType = "f64"
)

// Primitive describes a built-in type and how each backend spells it
type Primitive struct {
	Name    BuiltinType
	Rust    string
	Script  string
	Copy    bool // passed by value, bypasses ownership inference
	Integer bool
	Float   bool
}

var primitives = map[BuiltinType]Primitive{
	Int:    {Name: Int, Rust: "i64", Script: "number", Copy: true, Integer: true},
	Float:  {Name: Float, Rust: "f64", Script: "number", Copy: true, Float: true},
	Bool:   {Name: Bool, Rust: "bool", Script: "boolean", Copy: true},
	Char:   {Name: Char, Rust: "char", Script: "string", Copy: true},
	String: {Name: String, Rust: "String", Script: "string"},
	Str:    {Name: Str, Rust: "str", Script: "string"},
	Unit:   {Name: Unit, Rust: "()", Script: "void", Copy: true},

	I8:    {Name: I8, Rust: "i8", Script: "number", Copy: true, Integer: true},
	I16:   {Name: I16, Rust: "i16", Script: "number", Copy: true, Integer: true},
	I32:   {Name: I32, Rust: "i32", Script: "number", Copy: true, Integer: true},
	I64:   {Name: I64, Rust: "i64", Script: "number", Copy: true, Integer: true},
	I128:  {Name: I128, Rust: "i128", Script: "bigint", Copy: true, Integer: true},
	Isize: {Name: Isize, Rust: "isize", Script: "number", Copy: true, Integer: true},
	U8:    {Name: U8, Rust: "u8", Script: "number", Copy: true, Integer: true},
	U16:   {Name: U16, Rust: "u16", Script: "number", Copy: true, Integer: true},
	U32:   {Name: U32, Rust: "u32", Script: "number", Copy: true, Integer: true},
	U64:   {Name: U64, Rust: "u64", Script: "number", Copy: true, Integer: true},
	U128:  {Name: U128, Rust: "u128", Script: "bigint", Copy: true, Integer: true},
	Usize: {Name: Usize, Rust: "usize", Script: "number", Copy: true, Integer: true},

	F32: {Name: F32, Rust: "f32", Script: "number", Copy: true, Float: true},
	F64: {Name: F64, Rust: "f64", Script: "number", Copy: true, Float: true},
}

// Lookup returns the primitive spelled name
func Lookup(name string) (Primitive, bool) {
	p, ok := primitives[BuiltinType(name)]
	return p, ok
}

// IsBuiltinType checks if a type name is a built-in type
func IsBuiltinType(typeName string) bool {
	_, ok := primitives[BuiltinType(typeName)]
	return ok
}

// IsIntegerType checks if a type is a signed or unsigned integer type
func IsIntegerType(typeName string) bool {
	return primitives[BuiltinType(typeName)].Integer
}

// IsFloatType checks if a type is a floating point type
func IsFloatType(typeName string) bool {
	return primitives[BuiltinType(typeName)].Float
}

// IsNumericType checks if a type is an integer or float type
func IsNumericType(typeName string) bool {
	p := primitives[BuiltinType(typeName)]
	return p.Integer || p.Float
}

// IsCopyType reports whether values of the primitive are passed by value
func IsCopyType(typeName string) bool {
	return primitives[BuiltinType(typeName)].Copy
}

// RustName returns the systems backend spelling of a primitive, or name unchanged
func RustName(name string) string {
	if p, ok := primitives[BuiltinType(name)]; ok {
		return p.Rust
	}
	return name
}

// ScriptName returns the script backend spelling of a primitive, or name unchanged
func ScriptName(name string) string {
	if p, ok := primitives[BuiltinType(name)]; ok {
		return p.Script
	}
	return name
}

// Library is a well-known generic library type
type Library struct {
	Name   string
	Rust   string
	Script string // "%s" placeholders are filled with the type arguments in order
	Arity  int
}

var libraries = map[string]Library{
	"Vec":      {Name: "Vec", Rust: "Vec", Script: "%s[]", Arity: 1},
	"Option":   {Name: "Option", Rust: "Option", Script: "%s | null", Arity: 1},
	"Result":   {Name: "Result", Rust: "Result", Script: "%s", Arity: 2},
	"HashMap":  {Name: "HashMap", Rust: "HashMap", Script: "Map<%s, %s>", Arity: 2},
	"HashSet":  {Name: "HashSet", Rust: "HashSet", Script: "Set<%s>", Arity: 1},
	"BTreeMap": {Name: "BTreeMap", Rust: "BTreeMap", Script: "Map<%s, %s>", Arity: 2},
	"Box":      {Name: "Box", Rust: "Box", Script: "%s", Arity: 1},
	"Rc":       {Name: "Rc", Rust: "Rc", Script: "%s", Arity: 1},
	"Arc":      {Name: "Arc", Rust: "Arc", Script: "%s", Arity: 1},
	"String":   {Name: "String", Rust: "String", Script: "string"},
}

// LookupLibrary returns the well-known library type called name
func LookupLibrary(name string) (Library, bool) {
	l, ok := libraries[name]
	return l, ok
}

// CollectionImports maps library types to the use lines the systems backend needs
var CollectionImports = map[string]string{
	"HashMap":  "std::collections::HashMap",
	"HashSet":  "std::collections::HashSet",
	"BTreeMap": "std::collections::BTreeMap",
	"Rc":       "std::rc::Rc",
	"Arc":      "std::sync::Arc",
}
