package rust

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/codegen"
	"windjammer/internal/decorators"
	"windjammer/internal/errors"
	"windjammer/internal/parser"
	"windjammer/internal/semantic"
)

func generate(t *testing.T, source string, opts Options) (string, *Generator) {
	t.Helper()
	program, parseErrs, scanErrs := parser.ParseSource("test.wj", source)
	require.Empty(t, scanErrs, "scan errors")
	require.Empty(t, parseErrs, "parse errors")
	result := semantic.Analyze(program, semantic.Options{})
	g := NewGenerator(result.Info, decorators.Lower(program, opts.Target), opts)
	return g.Generate(program), g
}

func TestCompoundAssignFolding(t *testing.T) {
	out, g := generate(t, `fn f() { let mut x = 0; for i in 0..5 { x = x + i } }`, Options{})

	assert.Contains(t, out, "let mut x = 0;")
	assert.Contains(t, out, "x += i;")
	assert.NotContains(t, out, "x = x + i")
	assert.Contains(t, out, "for i in 0..5 {")
	assert.Empty(t, g.Diagnostics())
}

func TestMutableBorrowInsertion(t *testing.T) {
	out, _ := generate(t, `
fn inc(x: int) { x = x + 1 }
fn main() { let mut c = 0; inc(c) }`, Options{})

	assert.Contains(t, out, "fn inc(x: &mut i64) {")
	assert.Contains(t, out, "*x += 1;")
	assert.Contains(t, out, "inc(&mut c)")
	assert.Contains(t, out, "let mut c = 0;")
}

func TestSharedBorrowInsertion(t *testing.T) {
	out, _ := generate(t, `
struct Item { name: string }
fn show(item: Item) { println("{}", item.name) }
fn main() {
    let it = Item { name: "a" }
    show(it)
}`, Options{})

	assert.Contains(t, out, "fn show(item: &Item) {")
	assert.Contains(t, out, "show(&it)")
	assert.Contains(t, out, `Item { name: "a".to_string() }`)
}

func TestCloneOnlyForClonableTypes(t *testing.T) {
	body := `
struct B { v: Vec<int> }
fn own(b: B) -> B { b }
fn f(b: &B) -> B { own(b) }`

	plain, _ := generate(t, body, Options{})
	assert.Contains(t, plain, "own(b)")
	assert.NotContains(t, plain, "b.clone()")

	derived, _ := generate(t, "@auto"+body, Options{})
	assert.Contains(t, derived, "own(b.clone())")
}

func TestIndexCastsToUsize(t *testing.T) {
	out, _ := generate(t, `fn f(v: Vec<int>, i: int) -> int { v[0] + v[i + 1] }`, Options{})
	assert.Contains(t, out, "v[0 as usize]")
	assert.Contains(t, out, "v[(i + 1) as usize]")
}

func TestPipeFlattening(t *testing.T) {
	out, _ := generate(t, `
fn double(x: int) -> int { x * 2 }
fn add_ten(x: int) -> int { x + 10 }
fn main() { let r = 1 |> double |> add_ten }`, Options{})

	assert.Contains(t, out, "add_ten(double(1))")
	assert.Contains(t, out, "let _r = ")
}

func TestStringInterpolation(t *testing.T) {
	out, _ := generate(t, `fn greet(name: string) -> string { "Hello, ${name}!" }`, Options{})

	assert.Contains(t, out, "fn greet(name: &str) -> String {")
	assert.Contains(t, out, `format!("Hello, {}!", name)`)
}

func TestStructFieldShorthand(t *testing.T) {
	out, _ := generate(t, `
struct Point { x: int, y: int }
impl Point {
    fn new(x: int, y: int) -> Point { Point { x: x, y: y } }
}`, Options{})

	assert.Contains(t, out, "Point { x, y }")
	assert.Contains(t, out, "impl Point {")
}

func TestDeriveSynthesis(t *testing.T) {
	out, _ := generate(t, `@auto struct Point { x: int, y: int }`, Options{})

	lines := strings.Split(out, "\n")
	at := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "struct Point {") {
			at = i
		}
	}
	require.Greater(t, at, 0, out)
	assert.Equal(t, "#[derive(Debug, Clone, Copy, PartialEq, Eq, Hash, Default)]", lines[at-1])
	assert.Contains(t, out, "    x: i64,")
}

func TestPeepholesCanBeDisabled(t *testing.T) {
	source := `
struct Point { x: int, y: int }
fn double(x: int) -> int { x * 2 }
fn add_ten(x: int) -> int { x + 10 }
fn make(x: int, y: int) -> Point { Point { x: x, y: y } }
fn main() {
    let mut x = 0
    for i in 0..5 { x = x + i }
    let r = 1 |> double |> add_ten
    println("{} {}", x, r)
}`
	out, g := generate(t, source, Options{Passes: []codegen.OptimizationPass{}})

	assert.Contains(t, out, "x = x + i;")
	assert.Contains(t, out, "Point { x: x, y: y }")
	assert.Contains(t, out, "(add_ten)((double)(1))")
	assert.Empty(t, g.Pipeline().Stats())
}

func TestPipelineStats(t *testing.T) {
	_, g := generate(t, `
struct Point { x: int, y: int }
fn make(x: int, y: int) -> Point { Point { x: x, y: y } }
fn main() {
    let mut total = 0
    for i in 0..3 { total = total + i }
    let unused = make(1, 2)
    println("{}", total)
}`, Options{})

	got := map[string]int{}
	for _, s := range g.Pipeline().Stats() {
		got[s.Name] = s.Applied
	}
	want := map[string]int{
		"Compound Assign Folding": 1,
		"Field Shorthand":         2,
		"Pipe Flattening":         0,
		"Unused Let Prefix":       1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestUseTranslation(t *testing.T) {
	out, _ := generate(t, `
use std.json
use std.collections.HashMap
use models.user.User
fn main() {}`, Options{})

	assert.Contains(t, out, "use windjammer_runtime::json;")
	assert.Contains(t, out, "use std::collections::HashMap;")
	assert.Contains(t, out, "use crate::models::user::User;")
}

func TestImplicitCollectionImport(t *testing.T) {
	out, _ := generate(t, `
fn main() {
    let m: HashMap<string, int> = HashMap::new()
    println("{}", m.len())
}`, Options{})

	assert.True(t, strings.HasPrefix(out, "use std::collections::HashMap;\n"), out)
	assert.Equal(t, 1, strings.Count(out, "use std::collections::HashMap;"))
}

func TestModuleItemsArePublic(t *testing.T) {
	out, _ := generate(t, `
struct User { name: string }
fn helper() -> int { 1 }`, Options{Module: true})

	assert.Contains(t, out, "pub struct User {")
	assert.Contains(t, out, "    pub name: String,")
	assert.Contains(t, out, "pub fn helper() -> i64 {")
}

func TestWasmExports(t *testing.T) {
	out, _ := generate(t, `
pub fn add(a: int, b: int) -> int { a + b }
fn hidden() {}`, Options{Target: decorators.WASM})

	assert.Contains(t, out, "use wasm_bindgen::prelude::*;")
	assert.Contains(t, out, "#[wasm_bindgen]\npub fn add(a: i64, b: i64) -> i64 {")
	assert.NotContains(t, out, "#[wasm_bindgen]\nfn hidden")
}

func TestAsyncMain(t *testing.T) {
	out, _ := generate(t, `
@async
fn fetch() -> int { 1 }
@async
fn main() { let n = fetch(); println("{}", n) }`, Options{})

	assert.Contains(t, out, "#[tokio::main]\nasync fn main() {")
	assert.Contains(t, out, "fetch().await")
	assert.Contains(t, out, "async fn fetch() -> i64 {")
}

func TestConstAndStatic(t *testing.T) {
	out, _ := generate(t, `
const NAME: string = "wj"
const LIMIT: int = 3
static mut COUNT: int = 0`, Options{})

	assert.Contains(t, out, `const NAME: &'static str = "wj";`)
	assert.Contains(t, out, "const LIMIT: i64 = 3;")
	assert.Contains(t, out, "static mut COUNT: i64 = 0;")
}

func TestEnumsAndMatch(t *testing.T) {
	out, _ := generate(t, `
enum Shape { Circle(float), Rect { w: float, h: float }, Empty }
fn area(s: Shape) -> float {
    match s {
        Shape::Circle(r) => r * r,
        Shape::Rect { w, h } => w * h,
        _ => 0.0,
    }
}`, Options{})

	assert.Contains(t, out, "enum Shape {")
	assert.Contains(t, out, "    Circle(f64),")
	assert.Contains(t, out, "    Rect { w: f64, h: f64 },")
	assert.Contains(t, out, "    Empty,")
	assert.Contains(t, out, "match ")
	assert.Contains(t, out, "_ => 0.0,")
}

func TestMacrosForwardedVerbatim(t *testing.T) {
	out, _ := generate(t, `
fn main() {
    let v = vec![1, 2, 3]
    println!("{:?}", v)
}`, Options{})

	assert.Contains(t, out, "vec![1, 2, 3]")
	assert.Contains(t, out, `println!("{:?}", v)`)
}

func TestUnprintableItemIsReported(t *testing.T) {
	program, parseErrs, scanErrs := parser.ParseSource("test.wj", `
const BROKEN = missing
fn ok() {}`)
	require.Empty(t, scanErrs)
	require.Empty(t, parseErrs)
	result := semantic.Analyze(program, semantic.Options{})

	g := NewGenerator(result.Info, decorators.Lower(program, decorators.Systems), Options{})
	out := g.Generate(program)

	assert.Contains(t, out, "// error: could not emit const BROKEN")
	assert.Contains(t, out, "fn ok() {}")
	require.Len(t, g.Diagnostics(), 1)
	assert.Equal(t, errors.ErrorInternal, g.Diagnostics()[0].Code)
}

func TestDeterministicOutput(t *testing.T) {
	source := `
use std.json
use std.http
struct User { name: string, tags: Vec<string> }
fn main() {
    let m: HashMap<string, int> = HashMap::new()
    let s: HashSet<int> = HashSet::new()
    println("{} {}", m.len(), s.len())
}`
	first, _ := generate(t, source, Options{})
	for i := 0; i < 5; i++ {
		again, _ := generate(t, source, Options{})
		require.Equal(t, first, again)
	}
}
