// Package js emits browser-script source, its type declarations and a
// package manifest from an analysed program.
package js

import (
	"fmt"
	"sort"
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/codegen"
	"windjammer/internal/decorators"
	"windjammer/internal/errors"
	"windjammer/internal/semantic"
)

const indentUnit = "    "

// Output file names of the script target
const (
	ScriptFile      = "output.js"
	DeclarationFile = "output.d.ts"
	ManifestFile    = "package.json"
)

// Options select how a program is printed
type Options struct {
	Name    string
	Version string

	// Passes replaces the default peephole pipeline; an empty, non-nil slice
	// disables rewriting
	Passes []codegen.OptimizationPass
}

// Output holds the three files of the script target
type Output struct {
	Script       string
	Declarations string
	Manifest     []byte
}

// Generator prints one analysed program
type Generator struct {
	info     *semantic.Info
	lowered  *decorators.Lowered
	opts     Options
	pipeline *codegen.OptimizationPipeline

	indent int
	out    *strings.Builder
	temps  int

	structs map[string]*ast.Struct
	enums   map[string]*ast.Enum
	traits  map[string]*ast.Trait
	impls   map[string][]*ast.Impl

	fn          *ast.Function
	helpers     map[string]bool
	diagnostics []errors.CompilerError
}

// NewGenerator creates a generator over the side tables of one unit
func NewGenerator(info *semantic.Info, lowered *decorators.Lowered, opts Options) *Generator {
	if lowered == nil {
		lowered = &decorators.Lowered{Target: decorators.Script}
	}
	return &Generator{
		info:     info,
		lowered:  lowered,
		opts:     opts,
		pipeline: codegen.NewPipeline(opts.Passes),
		out:      &strings.Builder{},
	}
}

// Pipeline returns the peephole pipeline, with its rewrite counts
func (g *Generator) Pipeline() *codegen.OptimizationPipeline {
	return g.pipeline
}

// Diagnostics returns the internal errors raised while printing
func (g *Generator) Diagnostics() []errors.CompilerError {
	return g.diagnostics
}

// Generate prints the script, its declarations and its manifest
func (g *Generator) Generate(program *ast.Program) (*Output, error) {
	g.pipeline.Bind(g.info)
	g.helpers = make(map[string]bool)
	g.diagnostics = nil
	g.temps = 0
	g.collect(program)

	var items []string
	hasMain := false
	for _, item := range program.Items {
		if fn, ok := item.(*ast.Function); ok && fn.Name.Value == "main" {
			hasMain = true
		}
		if text := g.emitItem(item); text != "" {
			items = append(items, text)
		}
	}

	var b strings.Builder
	if helpers := g.helperText(); helpers != "" {
		b.WriteString(helpers)
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(items, "\n"))
	if hasMain {
		if len(items) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(mainInvocation)
	}

	manifest, err := Manifest(ManifestOptions{Name: g.opts.Name, Version: g.opts.Version})
	if err != nil {
		return nil, err
	}
	return &Output{
		Script:       b.String(),
		Declarations: g.declarations(program),
		Manifest:     manifest,
	}, nil
}

const mainInvocation = `if (typeof process !== "undefined" && import.meta.url === ` + "`file://${process.argv[1]}`" + `) {
    main();
}
`

// collect indexes the declarations that change how expressions print
func (g *Generator) collect(program *ast.Program) {
	g.structs = make(map[string]*ast.Struct)
	g.enums = make(map[string]*ast.Enum)
	g.traits = make(map[string]*ast.Trait)
	g.impls = make(map[string][]*ast.Impl)
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Struct:
			g.structs[it.Name.Value] = it
		case *ast.Enum:
			g.enums[it.Name.Value] = it
		case *ast.Trait:
			g.traits[it.Name.Value] = it
		case *ast.Impl:
			name := typeName(it.Target)
			g.impls[name] = append(g.impls[name], it)
		}
	}
}

// typeName returns the last path segment of a named type
func typeName(t ast.TypeExpr) string {
	switch t := t.(type) {
	case *ast.NamedType:
		return t.Name()
	case *ast.PrimitiveType:
		return t.Name
	}
	return ""
}

// emitError aborts printing of the current item
type emitError struct {
	message string
	pos     ast.Position
}

func (g *Generator) fail(n ast.Node, format string, args ...interface{}) {
	pos := ast.Position{}
	if n != nil {
		pos = n.NodePos()
	}
	panic(emitError{message: fmt.Sprintf(format, args...), pos: pos})
}

func (g *Generator) emitItem(item ast.Item) (text string) {
	g.indent = 0
	g.fn = nil
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(emitError)
			if !ok {
				panic(r)
			}
			name := itemName(item)
			g.diagnostics = append(g.diagnostics, errors.Internal(name, e.message, e.pos))
			text = fmt.Sprintf("// error: could not emit %s: %s\n", name, e.message)
		}
	}()
	return g.capture(func() { g.item(item) })
}

func itemName(item ast.Item) string {
	switch n := item.(type) {
	case *ast.Function:
		return "fn " + n.Name.Value
	case *ast.Struct:
		return "struct " + n.Name.Value
	case *ast.Enum:
		return "enum " + n.Name.Value
	case *ast.Trait:
		return "trait " + n.Name.Value
	case *ast.Impl:
		return "impl " + ast.Print(n.Target)
	case *ast.Const:
		return "const " + n.Name.Value
	case *ast.Static:
		return "static " + n.Name.Value
	}
	return "item"
}

// capture returns what fn writes instead of appending it to the current output
func (g *Generator) capture(fn func()) string {
	prev := g.out
	b := &strings.Builder{}
	g.out = b
	defer func() { g.out = prev }()
	fn()
	return b.String()
}

// temp returns a fresh name for a value evaluated once
func (g *Generator) temp(prefix string) string {
	name := fmt.Sprintf("__%s%d", prefix, g.temps)
	g.temps++
	return name
}

// Runtime helpers, emitted once when printed code refers to them
var helperSource = map[string]string{
	"__unwrap": `function __unwrap(r) {
    if (r.ok) {
        return r.value;
    }
    throw r.error;
}
`,
	"__clone": `function __clone(v) {
    if (Array.isArray(v)) {
        return v.map(__clone);
    }
    if (v instanceof Map) {
        return new Map(v);
    }
    if (v instanceof Set) {
        return new Set(v);
    }
    if (v !== null && typeof v === "object") {
        return Object.assign(Object.create(Object.getPrototypeOf(v)), v);
    }
    return v;
}
`,
	"__range": `function __range(start, end) {
    return Array.from({ length: Math.max(end - start, 0) }, (_, i) => start + i);
}
`,
}

func (g *Generator) use(helper string) string {
	g.helpers[helper] = true
	return helper
}

func (g *Generator) helperText() string {
	names := make([]string, 0, len(g.helpers))
	for name := range g.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = helperSource[name]
	}
	return strings.Join(parts, "\n")
}

// Helper methods

func (g *Generator) indentString() string {
	return strings.Repeat(indentUnit, g.indent)
}

func (g *Generator) writeIndent() {
	g.out.WriteString(g.indentString())
}

func (g *Generator) writeLine(format string, args ...interface{}) {
	g.writeIndent()
	g.out.WriteString(fmt.Sprintf(format, args...))
	g.out.WriteString("\n")
}

func (g *Generator) write(s string) {
	g.out.WriteString(s)
}
