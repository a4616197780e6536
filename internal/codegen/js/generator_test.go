package js

import (
	"encoding/json"
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

func generate(t *testing.T, source string, opts Options) (*Output, *Generator) {
	t.Helper()
	program, parseErrs, scanErrs := parser.ParseSource("test.wj", source)
	require.Empty(t, scanErrs, "scan errors")
	require.Empty(t, parseErrs, "parse errors")
	result := semantic.Analyze(program, semantic.Options{})
	g := NewGenerator(result.Info, decorators.Lower(program, decorators.Script), opts)
	out, err := g.Generate(program)
	require.NoError(t, err)
	return out, g
}

const pointSource = `
struct Point { x: int, y: int }
impl Point {
    fn new(x: int, y: int) -> Point { Point { x: x, y: y } }
    fn sum(self) -> int { self.x + self.y }
}`

func TestStructBecomesClass(t *testing.T) {
	out, g := generate(t, pointSource, Options{})

	assert.Contains(t, out.Script, "export class Point {")
	assert.Contains(t, out.Script, "    constructor(x, y) {\n        this.x = x;\n        this.y = y;\n    }")
	assert.Contains(t, out.Script, "    static new(x, y) {\n        return new Point(x, y);\n    }")
	assert.Contains(t, out.Script, "    sum() {\n        return this.x + this.y;\n    }")
	assert.NotContains(t, out.Script, "impl")
	assert.Empty(t, g.Diagnostics())
}

func TestJSDocFromSignature(t *testing.T) {
	out, _ := generate(t, `
/// Adds two numbers
fn add(a: int, b: int) -> int { a + b }`, Options{})

	expected := `/**
 * Adds two numbers
 * @param {number} a
 * @param {number} b
 * @returns {number}
 */
export function add(a, b) {
    return a + b;
}
`
	assert.Contains(t, out.Script, expected)
}

func TestEnumsAndMatch(t *testing.T) {
	out, g := generate(t, `
enum Shape { Circle(float), Rect { w: float, h: float }, Empty }
fn area(s: Shape) -> float {
    match s {
        Shape::Circle(r) => r * r,
        Shape::Rect { w, h } => w * h,
        _ => 0.0,
    }
}`, Options{})

	assert.Contains(t, out.Script, "export const Shape = Object.freeze({")
	assert.Contains(t, out.Script, `    Circle: Symbol("Shape.Circle"),`)
	assert.Contains(t, out.Script, `    Empty: Symbol("Shape.Empty"),`)
	assert.Contains(t, out.Script, "if (s.tag === Shape.Circle) {")
	assert.Contains(t, out.Script, "const r = s.values[0];")
	assert.Contains(t, out.Script, "} else if (s.tag === Shape.Rect) {")
	assert.Contains(t, out.Script, "const w = s.w;")
	assert.Contains(t, out.Script, "} else {")
	assert.Contains(t, out.Script, "return 0.0;")
	assert.Empty(t, g.Diagnostics())
}

func TestOptionAndResultValues(t *testing.T) {
	out, _ := generate(t, `
fn find(xs: Vec<int>, n: int) -> Option<int> {
    for x in xs {
        if x == n { return Some(x) }
    }
    None
}
fn check(n: int) -> Result<int, string> {
    if n > 0 { Ok(n) } else { Err("negative") }
}`, Options{})

	assert.Contains(t, out.Script, "for (const x of xs) {")
	assert.Contains(t, out.Script, "if (x === n) {")
	assert.Contains(t, out.Script, "return x;")
	assert.Contains(t, out.Script, "return null;")
	assert.Contains(t, out.Script, "return { ok: true, value: n };")
	assert.Contains(t, out.Script, `return { ok: false, error: "negative" };`)
}

func TestAsyncFunctions(t *testing.T) {
	out, _ := generate(t, `
@async
fn fetch() -> int { 1 }
@async
fn main() { let n = fetch(); println("{}", n) }`, Options{})

	assert.Contains(t, out.Script, "export async function fetch() {")
	assert.Contains(t, out.Script, "export async function main() {")
	assert.Contains(t, out.Script, "const n = await fetch();")
	assert.Contains(t, out.Script, "console.log(`${n}`);")
	assert.Contains(t, out.Script, " * @returns {Promise<number>}")
	assert.Contains(t, out.Script, "    main();\n}")
	assert.Contains(t, out.Declarations, "export declare function fetch(): Promise<number>;")
}

func TestLoopsAndAssignments(t *testing.T) {
	out, _ := generate(t, `
fn total(n: int) -> int {
    let mut sum = 0
    for i in 0..n { sum = sum + i }
    let mut k = 0
    while k < 3 { k += 1 }
    sum
}`, Options{})

	assert.Contains(t, out.Script, "let sum = 0;")
	assert.Contains(t, out.Script, "for (let i = 0; i < n; i++) {")
	assert.Contains(t, out.Script, "sum += i;")
	assert.Contains(t, out.Script, "while (k < 3) {")
	assert.Contains(t, out.Script, "k += 1;")
	assert.Contains(t, out.Script, "return sum;")
}

func TestPeepholesCanBeDisabled(t *testing.T) {
	source := `
fn double(x: int) -> int { x * 2 }
fn add_ten(x: int) -> int { x + 10 }
fn main() {
    let mut x = 0
    for i in 0..5 { x = x + i }
    let r = 1 |> double |> add_ten
    println("{} {}", x, r)
}`
	out, g := generate(t, source, Options{})
	assert.Contains(t, out.Script, "x += i;")
	assert.Contains(t, out.Script, "add_ten(double(1))")
	assert.Contains(t, out.Script, "const r = add_ten(double(1));")
	assert.Contains(t, out.Script, "console.log(`${x} ${r}`);")

	out, g = generate(t, source, Options{Passes: []codegen.OptimizationPass{}})
	assert.Contains(t, out.Script, "x = x + i;")
	assert.Contains(t, out.Script, "(add_ten)((double)(1))")
	assert.Empty(t, g.Pipeline().Stats())
}

func TestFormatStrings(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []string
		want   string
	}{
		{"Positional", "{} and {}", []string{"a", "b"}, "${a} and ${b}"},
		{"Debug", "{:?}", []string{"v"}, "${JSON.stringify(v)}"},
		{"Precision", "{:.2}", []string{"x"}, "${(x).toFixed(2)}"},
		{"Named", "hi {name}", nil, "hi ${name}"},
		{"Indexed", "{1}{0}", []string{"a", "b"}, "${b}${a}"},
		{"Escaped", "{{}} `q`", nil, "{} \\`q\\`"},
		{"Missing", "{}", nil, "${undefined}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatString(tt.format, tt.args))
		})
	}
}

func TestMethodTranslation(t *testing.T) {
	out, _ := generate(t, `
fn main() {
    let mut m: HashMap<string, int> = HashMap::new()
    m.insert("a", 1)
    let mut v = vec![1, 2, 3]
    v.push(4)
    println("{} {} {}", m.len(), v.len(), m.contains_key("a"))
}`, Options{})

	assert.Contains(t, out.Script, `m.set("a", 1);`)
	assert.Contains(t, out.Script, "v.push(4);")
	assert.Contains(t, out.Script, "let m = new Map();")
	assert.Contains(t, out.Script, "let v = [1, 2, 3];")
	assert.Contains(t, out.Script, "${m.size}")
	assert.Contains(t, out.Script, "${v.length}")
	assert.Contains(t, out.Script, `${m.has("a")}`)
}

func TestDeclarationFile(t *testing.T) {
	out, _ := generate(t, pointSource+`
enum Shape { Circle(float), Empty }
fn first(xs: Vec<string>) -> Option<string> { None }
const LIMIT: int = 3`, Options{})

	assert.Contains(t, out.Declarations, `export interface Point {
    x: number;
    y: number;
    sum(): number;
}
export declare class Point {
    constructor(x: number, y: number);
    static new(x: number, y: number): Point;
}
`)
	assert.Contains(t, out.Declarations, "    readonly Circle: unique symbol;")
	assert.Contains(t, out.Declarations,
		"export type Shape = { tag: typeof Shape.Circle; values: [number] } | typeof Shape.Empty;")
	assert.Contains(t, out.Declarations, "export declare function first(xs: string[]): string | null;")
	assert.Contains(t, out.Declarations, "export declare const LIMIT: number;")
}

func TestManifest(t *testing.T) {
	data, err := Manifest(ManifestOptions{Name: "My App"})
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))

	want := map[string]interface{}{
		"name":    "my-app",
		"version": "0.1.0",
		"type":    "module",
		"main":    ScriptFile,
		"types":   DeclarationFile,
		"exports": map[string]interface{}{
			".": map[string]interface{}{"types": "./output.d.ts", "default": "./output.js"},
		},
		"engines": map[string]interface{}{"node": ">=18"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, string(data), `"node": ">=18"`)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "hello-world", PackageName("Hello World"))
	assert.Equal(t, "windjammer-app", PackageName("__"))
	assert.Equal(t, "app.v2", PackageName("app.v2"))
}

func TestEnumMethodsAreReported(t *testing.T) {
	out, g := generate(t, `
enum Light { On, Off }
impl Light {
    fn flip(self) -> Light { Light::Off }
}
fn ok() {}`, Options{})

	assert.Contains(t, out.Script, "// error: could not emit impl Light")
	assert.Contains(t, out.Script, "export function ok() {}")
	require.Len(t, g.Diagnostics(), 1)
	assert.Equal(t, errors.ErrorInternal, g.Diagnostics()[0].Code)
}

func TestHelpersEmittedOnDemand(t *testing.T) {
	out, _ := generate(t, `fn main() { let r = 0..3; for i in r { println("{}", i) } }`, Options{})
	assert.Contains(t, out.Script, "function __range(start, end) {")
	assert.NotContains(t, out.Script, "function __unwrap(")

	out, _ = generate(t, `fn add(a: int, b: int) -> int { a + b }`, Options{})
	assert.NotContains(t, out.Script, "function __")
	assert.NotContains(t, out.Script, "process.argv")
}
