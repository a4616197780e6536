package semantic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/ast"
	"windjammer/internal/errors"
	"windjammer/internal/parser"
)

func analyze(t *testing.T, source string) (*ast.Program, *Result) {
	t.Helper()
	program, parseErrs, scanErrs := parser.ParseSource("test.wj", source)
	require.Empty(t, scanErrs, "scan errors")
	require.Empty(t, parseErrs, "parse errors")
	return program, Analyze(program, Options{})
}

func function(t *testing.T, program *ast.Program, name string) *ast.Function {
	t.Helper()
	var found *ast.Function
	ast.Inspect(program, func(n ast.Node) bool {
		if fn, ok := n.(*ast.Function); ok && fn.Name.Value == name && found == nil {
			found = fn
		}
		return found == nil
	})
	require.NotNil(t, found, "function %s", name)
	return found
}

func codes(diags []errors.CompilerError) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func findCall(t *testing.T, program *ast.Program, callee string) *ast.CallExpr {
	t.Helper()
	var found *ast.CallExpr
	ast.Inspect(program, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpr); ok && call.CalleeName() == callee && found == nil {
			found = call
		}
		return true
	})
	require.NotNil(t, found, "call to %s", callee)
	return found
}

func TestMutatedCopyParamBecomesMutBorrow(t *testing.T) {
	program, result := analyze(t, `
fn inc(x: int) { x = x + 1 }
fn main() { let mut c = 0; inc(c) }`)

	inc := function(t, program, "inc")
	assert.Equal(t, ast.MutBorrowed, inc.Params[0].Ownership)

	call := findCall(t, program, "inc")
	assert.Equal(t, MutBorrow, result.Info.CoercionOf(call.Args[0].Value))
	assert.NotContains(t, codes(result.Diagnostics), errors.WarningUnusedVariable)
}

func TestReadOnlyParamIsBorrowed(t *testing.T) {
	program, result := analyze(t, `
struct Item { name: string }
fn show(item: Item) { println("{}", item.name) }
fn main() {
    let it = Item { name: "a" }
    show(it)
}`)

	show := function(t, program, "show")
	assert.Equal(t, ast.Borrowed, show.Params[0].Ownership)
	call := findCall(t, program, "show")
	assert.Equal(t, Borrow, result.Info.CoercionOf(call.Args[0].Value))
}

func TestOwnershipModes(t *testing.T) {
	program, _ := analyze(t, `
struct Bag { items: Vec<int> }
fn add(v: Vec<int>) { v.push(1) }
fn keep(v: Vec<int>) -> Bag { Bag { items: v } }
fn peek(v: Vec<int>) -> int { v.len() as int }
fn count(n: int) -> int { n * 2 }`)

	got := map[string]ast.Ownership{}
	for _, name := range []string{"add", "keep", "peek", "count"} {
		got[name] = function(t, program, name).Params[0].Ownership
	}
	want := map[string]ast.Ownership{
		"add":   ast.MutBorrowed,
		"keep":  ast.Owned,
		"peek":  ast.Borrowed,
		"count": ast.Owned,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ownership mismatch (-want +got):\n%s", diff)
	}
}

func TestOwnershipPropagatesThroughCalls(t *testing.T) {
	program, _ := analyze(t, `
fn fill(v: Vec<int>) { v.push(1) }
fn outer(v: Vec<int>) { fill(v) }`)

	assert.Equal(t, ast.MutBorrowed, function(t, program, "fill").Params[0].Ownership)
	assert.Equal(t, ast.MutBorrowed, function(t, program, "outer").Params[0].Ownership)
}

func TestConflictingUsesFallBackToOwned(t *testing.T) {
	program, result := analyze(t, `
struct Bag { items: Vec<int> }
fn wrap(v: Vec<int>) -> Bag {
    v.push(1)
    Bag { items: v }
}`)

	p := function(t, program, "wrap").Params[0]
	assert.Equal(t, ast.Owned, p.Ownership)
	assert.True(t, p.Mutable)
	assert.Contains(t, codes(result.Diagnostics), errors.ErrorOwnershipAmbiguous)
}

func TestReceiverInference(t *testing.T) {
	program, _ := analyze(t, `
struct Counter { n: int }
impl Counter {
    fn get(self) -> int { self.n }
    fn bump(self) { self.n += 1 }
    fn done(self) -> Counter { self }
}`)

	assert.Equal(t, ast.SelfRef, function(t, program, "get").Receiver.Mode)
	assert.Equal(t, ast.SelfMutRef, function(t, program, "bump").Receiver.Mode)
	assert.Equal(t, ast.SelfValue, function(t, program, "done").Receiver.Mode)
}

func TestExplicitReceiverIsKept(t *testing.T) {
	program, _ := analyze(t, `
struct Counter { n: int }
impl Counter {
    fn get(&mut self) -> int { self.n }
}`)
	assert.Equal(t, ast.SelfMutRef, function(t, program, "get").Receiver.Mode)
}

func TestLetInferredMutable(t *testing.T) {
	program, _ := analyze(t, `
fn f() -> int {
    let x = 0
    let v = Vec::new()
    v.push(1)
    x = 5
    x
}`)

	var lets []*ast.LetStmt
	ast.Inspect(program, func(n ast.Node) bool {
		if let, ok := n.(*ast.LetStmt); ok {
			lets = append(lets, let)
		}
		return true
	})
	require.Len(t, lets, 2)
	assert.True(t, lets[0].IsMutable())
	assert.True(t, lets[1].IsMutable())
}

func TestUnusedLetWarning(t *testing.T) {
	program, result := analyze(t, `
fn f() {
    let unused = 42
    let _quiet = 1
    let used = 2
    println("{}", used)
}`)

	var unused []string
	ast.Inspect(program, func(n ast.Node) bool {
		if let, ok := n.(*ast.LetStmt); ok && let.Unused {
			name, _ := let.Name()
			unused = append(unused, name)
		}
		return true
	})
	assert.Equal(t, []string{"unused"}, unused)
	assert.Equal(t, []string{errors.WarningUnusedVariable}, codes(result.Diagnostics))
}

func TestUndefinedVariableSuggestsSimilar(t *testing.T) {
	_, result := analyze(t, `
fn f() -> int {
    let count = 1
    cout + 1
}`)

	require.NotEmpty(t, result.Diagnostics)
	err := result.Diagnostics[0]
	assert.Equal(t, errors.ErrorVariableNotFound, err.Code)
	assert.Contains(t, err.Message, "cout")
	require.NotEmpty(t, err.Suggestions)
	assert.Contains(t, err.Suggestions[0].Message, "count")
}

func TestUndefinedFunctionSuggestsImport(t *testing.T) {
	_, result := analyze(t, `
fn main() {
    let data = read_to_string("a.txt")
    println("{}", data)
}`)

	require.Len(t, result.Diagnostics, 1)
	err := result.Diagnostics[0]
	assert.Equal(t, errors.ErrorFunctionNotFound, err.Code)
	var hints []string
	for _, s := range err.Suggestions {
		hints = append(hints, s.Message)
	}
	assert.Contains(t, hints, "try importing: use std.fs")
}

func TestImportedFunctionResolves(t *testing.T) {
	_, result := analyze(t, `
use std.fs

fn main() {
    let data = fs.read_to_string("a.txt")
    println("{}", data)
}`)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, []string{"std.fs"}, result.Info.Imports)
}

func TestUnknownModule(t *testing.T) {
	_, result := analyze(t, `use std.nope`)
	assert.Equal(t, []string{errors.ErrorModuleNotFound}, codes(result.Diagnostics))
}

func TestUnknownType(t *testing.T) {
	_, result := analyze(t, `fn f(p: Pont) {}`)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.ErrorTypeNotFound, result.Diagnostics[0].Code)
}

func TestMissingStructField(t *testing.T) {
	_, result := analyze(t, `
struct Point { x: int, y: int }
fn origin() -> Point { Point { x: 0 } }`)
	assert.Equal(t, []string{errors.ErrorMissingField}, codes(result.Diagnostics))
}

func TestNonExhaustiveMatchWarns(t *testing.T) {
	_, result := analyze(t, `
enum Color { Red, Green, Blue }
fn name(c: Color) -> int {
    match c {
        Color::Red => 1,
        Color::Green => 2,
    }
}`)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, errors.ErrorNonExhaustiveMatch, result.Diagnostics[0].Code)
	assert.Equal(t, errors.Warning, result.Diagnostics[0].Level)
	assert.Contains(t, result.Diagnostics[0].Message, "Blue")
}

func TestWildcardMakesMatchExhaustive(t *testing.T) {
	_, result := analyze(t, `
enum Color { Red, Green, Blue }
fn name(c: Color) -> int {
    match c {
        Color::Red => 1,
        _ => 0,
    }
}`)
	assert.Empty(t, result.Diagnostics)
}

func TestStringCoercions(t *testing.T) {
	program, result := analyze(t, `
struct User { name: string }
fn make() -> User { User { name: "bob" } }
fn label() -> string { "x" }`)

	var lit *ast.StructLiteralExpr
	ast.Inspect(program, func(n ast.Node) bool {
		if s, ok := n.(*ast.StructLiteralExpr); ok {
			lit = s
		}
		return true
	})
	require.NotNil(t, lit)
	assert.Equal(t, ToString, result.Info.CoercionOf(lit.Fields[0].Value))
	assert.Equal(t, ToString, result.Info.CoercionOf(function(t, program, "label").Body.Tail))
}

func TestMoveInsideLoopClones(t *testing.T) {
	program, result := analyze(t, `
fn take(v: Vec<int>) -> Vec<int> { v }
fn main() {
    let v = vec![1, 2]
    for i in 0..3 {
        let w = take(v)
        println("{}", w.len())
    }
}`)

	call := findCall(t, program, "take")
	assert.Equal(t, Clone, result.Info.CoercionOf(call.Args[0].Value))
}

func TestMoveUsedLaterClones(t *testing.T) {
	program, result := analyze(t, `
fn take(v: Vec<int>) -> Vec<int> { v }
fn main() {
    let v = vec![1, 2]
    let w = take(v)
    println("{} {}", v.len(), w.len())
}`)

	call := findCall(t, program, "take")
	assert.Equal(t, Clone, result.Info.CoercionOf(call.Args[0].Value))
}

func TestIndexCast(t *testing.T) {
	program, result := analyze(t, `
fn at(v: Vec<int>, i: int) -> int { v[i] }`)

	var ix *ast.IndexExpr
	ast.Inspect(program, func(n ast.Node) bool {
		if e, ok := n.(*ast.IndexExpr); ok {
			ix = e
		}
		return true
	})
	require.NotNil(t, ix)
	assert.True(t, result.Info.IndexCasts[ix])
}

func TestPipeResolvesFunctions(t *testing.T) {
	program, result := analyze(t, `
fn double(x: int) -> int { x * 2 }
fn add_ten(x: int) -> int { x + 10 }
fn main() { let r = 1 |> double |> add_ten; println("{}", r) }`)

	assert.Empty(t, result.Diagnostics)
	var pipes int
	ast.Inspect(program, func(n ast.Node) bool {
		if p, ok := n.(*ast.PipeExpr); ok {
			require.NotNil(t, result.Info.Pipes[p])
			pipes++
		}
		return true
	})
	assert.Equal(t, 2, pipes)
}

func TestStaticCallsRecorded(t *testing.T) {
	program, result := analyze(t, `
struct Point { x: int, y: int }
impl Point {
    fn new(x: int, y: int) -> Point { Point { x: x, y: y } }
}
fn main() { let p = Point.new(1, 2); println("{}", p.x) }`)

	assert.Empty(t, result.Diagnostics)
	var found bool
	ast.Inspect(program, func(n ast.Node) bool {
		if mc, ok := n.(*ast.MethodCallExpr); ok && mc.Method.Value == "new" {
			assert.Equal(t, "Point", result.Info.StaticCalls[mc])
			found = true
		}
		return true
	})
	assert.True(t, found)
}

func TestAssignToConst(t *testing.T) {
	_, result := analyze(t, `
const LIMIT: int = 3
fn f() { LIMIT = 4 }`)
	assert.Equal(t, []string{errors.ErrorImmutableAssign}, codes(result.Diagnostics))
}

func TestAsyncCallsRecorded(t *testing.T) {
	program, result := analyze(t, `
@async
fn fetch() -> int { 1 }
fn main() { let n = fetch(); println("{}", n) }`)

	assert.True(t, result.Info.IsAsync(findCall(t, program, "fetch")))
}

func TestMoveOfTypeWithoutCloneIsLeftAlone(t *testing.T) {
	tests := map[string]string{
		"borrowed param": `
struct B { v: Vec<int> }
fn own(b: B) -> B { b }
fn f(b: &B) -> B { own(b) }`,
		"used after move": `
struct B { v: Vec<int> }
impl B { fn size(self) -> int { self.v.len() as int } }
fn own(b: B) -> B { b }
fn f() -> int {
    let b = B { v: vec![1] }
    let _c = own(b)
    b.size()
}`,
	}

	for name, source := range tests {
		t.Run(name, func(t *testing.T) {
			program, result := analyze(t, source)
			call := findCall(t, program, "own")
			assert.NotEqual(t, Clone, result.Info.CoercionOf(call.Args[0].Value))
			assert.Contains(t, codes(result.Diagnostics), errors.ErrorOwnershipAmbiguous)
		})
	}
}

func TestMoveOfDerivedCloneTypeClones(t *testing.T) {
	for _, decorator := range []string{"@auto", "@derive(Clone)"} {
		t.Run(decorator, func(t *testing.T) {
			program, result := analyze(t, decorator+`
struct B { v: Vec<int> }
fn own(b: B) -> B { b }
fn f(b: &B) -> B { own(b) }`)
			call := findCall(t, program, "own")
			assert.Equal(t, Clone, result.Info.CoercionOf(call.Args[0].Value))
			assert.NotContains(t, codes(result.Diagnostics), errors.ErrorOwnershipAmbiguous)
		})
	}
}

func TestPrimitiveMismatchReported(t *testing.T) {
	tests := []struct {
		source string
		wantOK bool
	}{
		{source: "fn f() { let x: int = true; println(\"{}\", x) }"},
		{source: "fn f() { let x: int = \"a\"; println(\"{}\", x) }"},
		{source: "fn f() { let x: bool = 1.5; println(\"{}\", x) }"},
		{source: "fn f() { let x: string = 1; println(\"{}\", x) }"},
		{source: "fn f() { let x: i64 = 1; println(\"{}\", x) }", wantOK: true},
		{source: "fn f() { let x: string = \"a\"; println(\"{}\", x) }", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, result := analyze(t, tt.source)
			if tt.wantOK {
				assert.Empty(t, result.Diagnostics)
				return
			}
			assert.Equal(t, []string{errors.ErrorTypeMismatch}, codes(result.Diagnostics))
		})
	}
}

func TestMoveInOneBranchBorrowLaterFallsBackToOwned(t *testing.T) {
	program, result := analyze(t, `
struct B { v: Vec<int> }
fn own(b: B) -> B { b }
fn show(b: B) { println("{}", b.v.len()) }
fn f(b: B) -> B {
    if true {
        return own(b)
    }
    show(b)
    b
}`)

	assert.Equal(t, ast.Owned, function(t, program, "f").Params[0].Ownership)
	assert.Contains(t, codes(result.Diagnostics), errors.ErrorOwnershipAmbiguous)
}

func TestReadBeforeMoveHasNoNote(t *testing.T) {
	program, result := analyze(t, `
struct B { v: Vec<int> }
fn own(b: B) -> B { b }
fn f(b: B) -> B {
    println("{}", b.v.len())
    own(b)
}`)

	assert.Equal(t, ast.Owned, function(t, program, "f").Params[0].Ownership)
	assert.NotContains(t, codes(result.Diagnostics), errors.ErrorOwnershipAmbiguous)
}
