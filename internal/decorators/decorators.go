// Package decorators lowers surface decorators into the attribute sets each
// backend prints in front of an item.
package decorators

import (
	"fmt"
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/types"
)

// Target selects the backend a program is lowered for
type Target int

const (
	Systems Target = iota
	Script
	WASM
)

func (t Target) String() string {
	switch t {
	case Script:
		return "script"
	case WASM:
		return "wasm"
	default:
		return "systems"
	}
}

// ParseTarget accepts the target names of the command line and wj.toml
func ParseTarget(name string) (Target, error) {
	switch strings.ToLower(name) {
	case "", "systems", "rust":
		return Systems, nil
	case "script", "js", "javascript":
		return Script, nil
	case "wasm":
		return WASM, nil
	}
	return Systems, fmt.Errorf("unknown target %q (expected systems, script or wasm)", name)
}

// IsRust reports whether the target prints systems-language text
func (t Target) IsRust() bool {
	return t == Systems || t == WASM
}

// Attributes is the lowered form of the decorators of one item
type Attributes struct {
	Derives []string // traits for a single derive attribute
	Attrs   []string // backend attributes, printed one per line
	Async   bool
	Dropped []string // decorators without meaning for the target
}

// Lowered maps decorated items to their attributes
type Lowered struct {
	Target Target
	items  map[ast.Node]*Attributes
}

var empty = &Attributes{}

// Of returns the attributes of an item; items without decorators get an empty set
func (l *Lowered) Of(node ast.Node) *Attributes {
	if l == nil {
		return empty
	}
	if attrs, ok := l.items[node]; ok {
		return attrs
	}
	return empty
}

// IsAsync reports whether a function is lowered to an async function
func (l *Lowered) IsAsync(fn *ast.Function) bool {
	return fn.Async || l.Of(fn).Async
}

// Lower computes the attribute set of every decorated item of a program
func Lower(program *ast.Program, target Target) *Lowered {
	reg := types.NewTypeRegistry()
	reg.InitializeBuiltins()
	reg.Collect(program)

	l := &Lowered{Target: target, items: make(map[ast.Node]*Attributes)}
	d := &deriver{reg: reg, cache: make(map[string][]string)}

	for _, item := range program.Items {
		switch node := item.(type) {
		case *ast.Function:
			l.lowerFunction(node, true)
		case *ast.Struct:
			l.lower(node, node.Decorators, d.forStruct(node))
		case *ast.Enum:
			l.lower(node, node.Decorators, d.forEnum(node))
		case *ast.Trait:
			l.lower(node, node.Decorators, nil)
			for _, m := range node.Methods {
				l.lowerFunction(m, false)
			}
		case *ast.Impl:
			l.lower(node, node.Decorators, nil)
			for _, m := range node.Methods {
				l.lowerFunction(m, false)
			}
		}
	}
	return l
}

func (l *Lowered) lowerFunction(fn *ast.Function, topLevel bool) {
	attrs := l.lower(fn, fn.Decorators, nil)
	if l.Target == WASM && topLevel && fn.Public && fn.Name.Value != "main" && !contains(attrs.Attrs, "#[wasm_bindgen]") {
		attrs.Attrs = append(attrs.Attrs, "#[wasm_bindgen]")
		l.items[fn] = attrs
	}
}

// lower translates decorators in source order; derived holds the inferred
// traits of an @auto without arguments
func (l *Lowered) lower(node ast.Node, decorators []*ast.Decorator, derived func() []string) *Attributes {
	attrs := &Attributes{}
	for _, dec := range decorators {
		switch dec.Name {
		case "async":
			attrs.Async = true
		case "auto":
			if !l.Target.IsRust() {
				attrs.Dropped = append(attrs.Dropped, dec.Name)
				continue
			}
			if len(dec.Args) == 0 && derived != nil {
				attrs.Derives = appendUnique(attrs.Derives, derived()...)
			} else {
				attrs.Derives = appendUnique(attrs.Derives, argNames(dec)...)
			}
		case "derive":
			if !l.Target.IsRust() {
				attrs.Dropped = append(attrs.Dropped, dec.Name)
				continue
			}
			attrs.Derives = appendUnique(attrs.Derives, argNames(dec)...)
		default:
			if !l.Target.IsRust() {
				attrs.Dropped = append(attrs.Dropped, dec.Name)
				continue
			}
			attrs.Attrs = append(attrs.Attrs, l.attribute(dec))
		}
	}
	if len(attrs.Derives) > 0 || len(attrs.Attrs) > 0 || attrs.Async || len(attrs.Dropped) > 0 {
		l.items[node] = attrs
	}
	return attrs
}

// attribute renders a decorator verbatim as a backend attribute; framework
// decorators such as @component and @route pass through the same way
func (l *Lowered) attribute(dec *ast.Decorator) string {
	name := dec.Name
	switch {
	case name == "export" && l.Target == WASM:
		name = "wasm_bindgen"
	case name == "export":
		name = "no_mangle"
	}
	if len(dec.Args) == 0 {
		return "#[" + name + "]"
	}
	args := make([]string, len(dec.Args))
	for i, arg := range dec.Args {
		value := ast.Print(arg.Value)
		if arg.Name != "" {
			value = arg.Name + " = " + value
		}
		args[i] = value
	}
	return "#[" + name + "(" + strings.Join(args, ", ") + ")]"
}

func argNames(dec *ast.Decorator) []string {
	var names []string
	for _, arg := range dec.Args {
		switch v := arg.Value.(type) {
		case *ast.IdentExpr:
			names = append(names, v.Name)
		case *ast.PathExpr:
			names = append(names, ast.Print(v))
		}
	}
	return names
}

func appendUnique(list []string, names ...string) []string {
	for _, name := range names {
		if !contains(list, name) {
			list = append(list, name)
		}
	}
	return list
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
