package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/ast"
	"windjammer/internal/parser"
	"windjammer/internal/semantic"
)

func analyzed(t *testing.T, source string) (*ast.Program, *semantic.Info) {
	t.Helper()
	program, parseErrs, scanErrs := parser.ParseSource("test.wj", source)
	require.Empty(t, scanErrs)
	require.Empty(t, parseErrs)
	return program, semantic.Analyze(program, semantic.Options{}).Info
}

func first[T ast.Node](program *ast.Program) T {
	var found T
	var ok bool
	ast.Inspect(program, func(n ast.Node) bool {
		if ok {
			return false
		}
		found, ok = n.(T)
		return !ok
	})
	return found
}

func TestNewOptimizationPipeline(t *testing.T) {
	pipeline := NewOptimizationPipeline()

	if len(pipeline.passes) != 4 {
		t.Fatalf("expected 4 default passes, got %d", len(pipeline.passes))
	}
	var names []string
	for _, s := range pipeline.Stats() {
		names = append(names, s.Name)
		assert.Zero(t, s.Applied)
	}
	assert.Equal(t, []string{"Compound Assign Folding", "Field Shorthand", "Pipe Flattening", "Unused Let Prefix"}, names)
}

func TestNewPipeline(t *testing.T) {
	assert.Len(t, NewPipeline(nil).passes, 4)
	assert.Empty(t, NewPipeline([]OptimizationPass{}).passes)
	assert.Len(t, NewPipeline([]OptimizationPass{&PipeFlattening{}}).passes, 1)
}

func TestCompoundAssignFolding(t *testing.T) {
	tests := []struct {
		name   string
		source string
		fold   bool
		op     ast.AssignType
	}{
		{"Add", "fn f() { let mut x = 0; x = x + 2 }", true, ast.PLUS_ASSIGN},
		{"Mul", "fn f() { let mut x = 1; x = x * 3 }", true, ast.STAR_ASSIGN},
		{"OtherOperand", "fn f() { let mut x = 0; let y = 1; x = y + x }", false, ast.ASSIGN},
		{"Comparison", "fn f() { let mut b = true; let x = 1; b = x < 2 }", false, ast.ASSIGN},
		{"AlreadyCompound", "fn f() { let mut x = 0; x += 1 }", false, ast.PLUS_ASSIGN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, info := analyzed(t, tt.source)
			pipeline := NewPipeline([]OptimizationPass{&CompoundAssignFolding{}})
			pipeline.Bind(info)

			assign := first[*ast.AssignStmt](program)
			require.NotNil(t, assign)
			out := pipeline.Rewrite(assign).(*ast.AssignStmt)

			if !tt.fold {
				assert.Same(t, assign, out)
				assert.Equal(t, tt.op, out.Operator)
				return
			}
			assert.NotSame(t, assign, out)
			assert.Equal(t, tt.op, out.Operator)
			assert.Same(t, ast.Node(assign), pipeline.Origin(out))
			assert.Equal(t, 1, pipeline.Stats()[0].Applied)
		})
	}
}

func TestPipeFlatteningBuildsNestedCalls(t *testing.T) {
	program, info := analyzed(t, `
fn double(x: int) -> int { x * 2 }
fn add(x: int, y: int) -> int { x + y }
fn main() { let r = 1 |> double |> add(10); println("{}", r) }`)

	pipeline := NewOptimizationPipeline()
	pipeline.Bind(info)

	outer := first[*ast.PipeExpr](program)
	call, ok := pipeline.Rewrite(outer).(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "add", call.CalleeName())
	require.Len(t, call.Args, 2)
	inner, ok := call.Args[0].Value.(*ast.PipeExpr)
	require.True(t, ok, "inner pipe is rewritten when printed")
	assert.Equal(t, "double", PipeCall(inner).CalleeName())
}

func TestPipeCallOnModuleFunction(t *testing.T) {
	program, _ := analyzed(t, `fn main() { let s = "a" |> strings.trim; println("{}", s) }`)
	call := PipeCall(first[*ast.PipeExpr](program))

	path, ok := call.Callee.(*ast.PathExpr)
	require.True(t, ok)
	require.Len(t, path.Segments, 2)
	assert.Equal(t, "strings", path.Segments[0].Value)
	assert.Equal(t, "trim", path.Segments[1].Value)
}

func TestUnusedLetPrefix(t *testing.T) {
	program, info := analyzed(t, `fn main() { let unused = 1; let _quiet = 2; let used = 3; println("{}", used) }`)
	pipeline := NewPipeline([]OptimizationPass{&UnusedLetPrefix{}})
	pipeline.Bind(info)

	var got []string
	for _, s := range first[*ast.Function](program).Body.Stmts {
		let, ok := s.(*ast.LetStmt)
		if !ok {
			continue
		}
		name, _ := pipeline.Rewrite(let).(*ast.LetStmt).Name()
		got = append(got, name)
	}
	assert.Equal(t, []string{"_unused", "_quiet", "used"}, got)
}

func TestFieldShorthand(t *testing.T) {
	program, info := analyzed(t, `
struct P { x: int, y: int }
fn make(x: int, z: int) -> P { P { x: x, y: z } }`)
	pipeline := NewPipeline([]OptimizationPass{&FieldShorthand{}})
	pipeline.Bind(info)

	lit := first[*ast.StructLiteralExpr](program)
	require.Len(t, lit.Fields, 2)
	assert.Nil(t, pipeline.Rewrite(lit.Fields[0]).(*ast.FieldInit).Value)
	assert.NotNil(t, pipeline.Rewrite(lit.Fields[1]).(*ast.FieldInit).Value)
}
