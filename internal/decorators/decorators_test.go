package decorators

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/ast"
	"windjammer/internal/parser"
)

func lower(t *testing.T, source string, target Target) (*ast.Program, *Lowered) {
	t.Helper()
	program, parseErrs, scanErrs := parser.ParseSource("test.wj", source)
	require.Empty(t, scanErrs)
	require.Empty(t, parseErrs)
	return program, Lower(program, target)
}

func TestAutoDerivesFromFieldTypes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "IntegerFields",
			source: `@auto struct Point { x: int, y: int }`,
			want:   []string{"Debug", "Clone", "Copy", "PartialEq", "Eq", "Hash", "Default"},
		},
		{
			name:   "FloatFields",
			source: `@auto struct V { x: float }`,
			want:   []string{"Debug", "Clone", "Copy", "PartialEq", "Default"},
		},
		{
			name:   "OwnedString",
			source: `@auto struct User { name: string, age: int }`,
			want:   []string{"Debug", "Clone", "PartialEq", "Eq", "Hash", "Default"},
		},
		{
			name:   "MapField",
			source: `@auto struct Index { by_name: HashMap<string, int> }`,
			want:   []string{"Debug", "Clone", "PartialEq", "Eq", "Default"},
		},
		{
			name:   "Explicit",
			source: `@auto(Debug, Clone) struct P { x: int }`,
			want:   []string{"Debug", "Clone"},
		},
		{
			name:   "Derive",
			source: `@derive(Debug, PartialEq) struct P { x: int }`,
			want:   []string{"Debug", "PartialEq"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, lowered := lower(t, tt.source, Systems)
			got := lowered.Of(program.Items[0]).Derives
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("derives mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAutoFollowsNestedTypes(t *testing.T) {
	program, lowered := lower(t, `
@auto struct Inner { v: float }
@auto struct Outer { inner: Inner, n: int }`, Systems)

	assert.Equal(t, []string{"Debug", "Clone", "Copy", "PartialEq", "Default"}, lowered.Of(program.Items[1]).Derives)
}

func TestAutoOnEnumHasNoDefault(t *testing.T) {
	program, lowered := lower(t, `@auto enum Dir { Up, Down }`, Systems)
	assert.Equal(t, []string{"Debug", "Clone", "Copy", "PartialEq", "Eq", "Hash"}, lowered.Of(program.Items[0]).Derives)
}

func TestAsyncDecorator(t *testing.T) {
	for _, target := range []Target{Systems, Script, WASM} {
		program, lowered := lower(t, `@async fn fetch() {}`, target)
		fn := program.Items[0].(*ast.Function)
		assert.True(t, lowered.IsAsync(fn), target.String())
	}
}

func TestCustomDecoratorsVerbatim(t *testing.T) {
	program, lowered := lower(t, `
@test
fn check() {}

@route("/users", method = "GET")
fn users() {}`, Systems)

	assert.Equal(t, []string{"#[test]"}, lowered.Of(program.Items[0]).Attrs)
	assert.Equal(t, []string{`#[route("/users", method = "GET")]`}, lowered.Of(program.Items[1]).Attrs)
}

func TestScriptDropsDecorators(t *testing.T) {
	program, lowered := lower(t, `
@auto struct P { x: int }
@test fn check() {}`, Script)

	assert.Empty(t, lowered.Of(program.Items[0]).Derives)
	assert.Equal(t, []string{"auto"}, lowered.Of(program.Items[0]).Dropped)
	assert.Empty(t, lowered.Of(program.Items[1]).Attrs)
}

func TestWasmExportsPublicFunctions(t *testing.T) {
	program, lowered := lower(t, `
pub fn add(a: int, b: int) -> int { a + b }
fn helper() {}
@export pub fn mul(a: int, b: int) -> int { a * b }`, WASM)

	assert.Equal(t, []string{"#[wasm_bindgen]"}, lowered.Of(program.Items[0]).Attrs)
	assert.Empty(t, lowered.Of(program.Items[1]).Attrs)
	assert.Equal(t, []string{"#[wasm_bindgen]"}, lowered.Of(program.Items[2]).Attrs)
}

func TestParseTarget(t *testing.T) {
	for name, want := range map[string]Target{"systems": Systems, "": Systems, "js": Script, "script": Script, "wasm": WASM} {
		got, err := ParseTarget(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTarget("llvm")
	assert.Error(t, err)
}
