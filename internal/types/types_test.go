package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windjammer/internal/ast"
	"windjammer/internal/parser"
)

func collect(t *testing.T, src string) *TypeRegistry {
	t.Helper()
	program, parseErrs, scanErrs := parser.ParseSource("test.wj", src)
	require.Empty(t, parseErrs)
	require.Empty(t, scanErrs)
	reg := NewTypeRegistry()
	reg.InitializeBuiltins()
	reg.Collect(program)
	return reg
}

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{IntType, "int"},
		{UnitType, "()"},
		{VecOf(StringType), "Vec<string>"},
		{TupleOf(IntType), "(int,)"},
		{TupleOf(IntType, BoolType), "(int, bool)"},
		{RefTo(NamedOf("Point"), true), "&mut Point"},
		{SliceOf(FloatType), "[float]"},
		{&Type{Kind: Func, Args: []*Type{IntType}, Elem: BoolType}, "fn(int) -> bool"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IntType.IsInteger())
	assert.True(t, Prim("u8").IsInteger())
	assert.True(t, FloatType.IsFloat())
	assert.True(t, RefTo(StrType, false).IsString())
	assert.True(t, NamedOf("String").IsString())
	assert.True(t, VecOf(IntType).IsSequence())
	assert.False(t, NamedOf("HashMap", StringType, IntType).IsSequence())
	assert.True(t, UnitType.IsUnit())
	assert.True(t, (*Type)(nil).IsUnknown())
	assert.Equal(t, IntType, VecOf(IntType).ElemType())
}

func TestEqualAndCompatible(t *testing.T) {
	assert.True(t, Equal(VecOf(IntType), VecOf(IntType)))
	assert.False(t, Equal(VecOf(IntType), VecOf(FloatType)))
	assert.False(t, Equal(UnknownType, UnknownType), "unknown never equals")

	assert.True(t, Compatible(IntType, Prim("i32")))
	assert.True(t, Compatible(StringType, RefTo(StrType, false)))
	assert.True(t, Compatible(UnknownType, NamedOf("Point")))
	assert.False(t, Compatible(IntType, StringType))
	assert.False(t, Compatible(IntType, BoolType))
	assert.False(t, Compatible(BoolType, FloatType))
	assert.False(t, Compatible(CharType, StringType))
	assert.False(t, Compatible(NamedOf("Point"), NamedOf("Line")))
}

func TestCollectDeclarations(t *testing.T) {
	reg := collect(t, `
struct Point { x: int, y: int }
enum Shape { Circle(float), Square(float), Empty }
trait Area { fn area(self) -> float }
type Points = Vec<Point>

impl Point {
    fn new(x: int, y: int) -> Point { Point { x: x, y: y } }
    fn norm(self) -> float { 0.0 }
}

fn origin() -> Point { Point { x: 0, y: 0 } }
`)

	point := reg.Struct("Point")
	require.NotNil(t, point)
	assert.Equal(t, []string{"x", "y"}, point.Order)
	assert.Equal(t, "int", reg.FieldType("Point", "x").String())
	assert.True(t, reg.FieldType("Point", "z").IsUnknown())

	shape := reg.Enum("Shape")
	require.NotNil(t, shape)
	assert.Equal(t, []string{"Circle", "Square", "Empty"}, shape.Variants)

	assert.NotNil(t, reg.Trait("Area"))
	assert.True(t, reg.IsValidType("Points"))
	assert.Equal(t, "Vec<Point>", reg.Resolve(NamedOf("Points")).String())

	newSig := reg.Method("Point", "new")
	require.NotNil(t, newSig)
	assert.Equal(t, "Point", newSig.Parent)
	assert.Len(t, newSig.Params, 2)
	assert.Equal(t, "Point", newSig.Return.String())

	origin := reg.Function("origin")
	require.NotNil(t, origin)
	assert.Equal(t, "Point", origin.Return.String())
	assert.Contains(t, reg.FunctionNames(), "origin")
}

func TestIsCopy(t *testing.T) {
	reg := collect(t, `
@auto
struct Point { x: int, y: int }
@auto
struct Named { name: string }
struct Plain { x: int }
@auto
struct Segment { a: Point, b: Point }
`)

	assert.True(t, reg.IsCopy(IntType))
	assert.True(t, reg.IsCopy(BoolType))
	assert.False(t, reg.IsCopy(StringType))
	assert.True(t, reg.IsCopy(TupleOf(IntType, FloatType)))
	assert.False(t, reg.IsCopy(TupleOf(IntType, StringType)))
	assert.True(t, reg.IsCopy(RefTo(StringType, false)))
	assert.False(t, reg.IsCopy(RefTo(StringType, true)))
	assert.False(t, reg.IsCopy(VecOf(IntType)))

	assert.True(t, reg.IsCopy(NamedOf("Point")))
	assert.False(t, reg.IsCopy(NamedOf("Named")), "string field prevents Copy")
	assert.False(t, reg.IsCopy(NamedOf("Plain")), "no derive")
	assert.True(t, reg.IsCopy(NamedOf("Segment")), "nested copy structs")
}

func TestIsClone(t *testing.T) {
	reg := collect(t, `
@auto
struct Point { x: int, y: int }
@derive(Clone, Debug)
struct Named { name: string }
@auto(Debug)
struct Logged { name: string }
struct Plain { v: Vec<int> }
type Names = Vec<Named>
`)

	assert.True(t, reg.IsClone(StringType))
	assert.True(t, reg.IsClone(VecOf(IntType)))
	assert.True(t, reg.IsClone(NamedOf("Point")))
	assert.True(t, reg.IsClone(NamedOf("Named")))
	assert.True(t, reg.IsClone(NamedOf("Names")))
	assert.True(t, reg.IsClone(NamedOf("Option", NamedOf("Named"))))
	assert.False(t, reg.IsClone(NamedOf("Logged")), "explicit list without Clone")
	assert.False(t, reg.IsClone(NamedOf("Plain")), "no derive")
	assert.False(t, reg.IsClone(VecOf(NamedOf("Plain"))))
	assert.False(t, reg.IsClone(TupleOf(IntType, NamedOf("Plain"))))
}

func TestAsyncDecoratorInSignature(t *testing.T) {
	reg := collect(t, "@async\nfn fetch() -> string { \"\" }\nasync fn load() {}\nfn sync() {}")
	assert.True(t, reg.Function("fetch").Async)
	assert.True(t, reg.Function("load").Async)
	assert.False(t, reg.Function("sync").Async)
}

func TestFromASTGenerics(t *testing.T) {
	program, _, _ := parser.ParseSource("test.wj", "fn id<T>(x: T) -> Vec<T> { vec![x] }")
	fn := program.Items[0].(*ast.Function)
	sig := Signature(fn, nil)
	assert.Equal(t, Param, sig.Params[0].Type.Kind)
	assert.Equal(t, "Vec<T>", sig.Return.String())
}

func parseUse(t *testing.T, src string) *ast.Use {
	t.Helper()
	program, parseErrs, _ := parser.ParseSource("test.wj", src)
	require.Empty(t, parseErrs)
	require.Len(t, program.Items, 1)
	use, ok := program.Items[0].(*ast.Use)
	require.True(t, ok)
	return use
}

func TestImportParserStd(t *testing.T) {
	reg := NewTypeRegistry()
	ip := NewImportParser(reg, reg, reg, nil)

	assert.Empty(t, ip.ParseUseStatement(parseUse(t, "use std.json")))
	path, ok := reg.Module("json")
	assert.True(t, ok)
	assert.Equal(t, "std.json", path)

	assert.Empty(t, ip.ParseUseStatement(parseUse(t, "use std.collections.HashMap")))
	imported := reg.GetImportedType("HashMap")
	require.NotNil(t, imported)
	assert.True(t, imported.IsGeneric)

	assert.Empty(t, ip.ParseUseStatement(parseUse(t, "use std.regex.{Regex, is_match}")))
	assert.True(t, reg.IsImportedType("Regex"))
	_, ok = reg.ImportedFunction("is_match")
	assert.True(t, ok)

	assert.Empty(t, ip.ParseUseStatement(parseUse(t, "use std.fs as files")))
	path, ok = reg.Module("files")
	assert.True(t, ok)
	assert.Equal(t, "std.fs", path)

	errs := ip.ParseUseStatement(parseUse(t, "use std.telepathy"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "std.telepathy")
}

func TestImportParserLocal(t *testing.T) {
	reg := NewTypeRegistry()
	ip := NewImportParser(reg, reg, reg, map[string]bool{"models": true})

	assert.Empty(t, ip.ParseUseStatement(parseUse(t, "use models.User")))
	assert.True(t, reg.IsImportedType("User"))

	assert.Empty(t, ip.ParseUseStatement(parseUse(t, "use crate::models::{Post, load}")))
	assert.True(t, reg.IsImportedType("Post"))
	_, ok := reg.ImportedFunction("load")
	assert.True(t, ok)

	errs := ip.ParseUseStatement(parseUse(t, "use missing.Thing"))
	assert.Len(t, errs, 1)
}

func TestStdFunction(t *testing.T) {
	sig := StdFunction("std.fs", "read_to_string")
	require.NotNil(t, sig)
	assert.Equal(t, "Result<string, string>", sig.Return.String())
	assert.Equal(t, "path", sig.Params[0].Name)

	assert.Nil(t, StdFunction("std.fs", "teleport"))
	assert.Nil(t, StdFunction("std.nope", "x"))
	assert.True(t, StdFunction("std.time", "sleep_ms").Return.IsUnit())
}

func TestValidateImportedTypeUsage(t *testing.T) {
	reg := NewTypeRegistry()
	ip := NewImportParser(reg, reg, reg, nil)
	ip.ParseUseStatement(parseUse(t, "use std.collections.HashMap"))
	ip.ParseUseStatement(parseUse(t, "use std.regex.Regex"))

	assert.Len(t, ip.ValidateImportedTypeUsage("HashMap", false), 1)
	assert.Empty(t, ip.ValidateImportedTypeUsage("HashMap", true))
	assert.Len(t, ip.ValidateImportedTypeUsage("Regex", true), 1)
	assert.Empty(t, ip.ValidateImportedTypeUsage("Unknown", true))
}
