package js

import (
	"strings"

	"windjammer/internal/ast"
	"windjammer/internal/types"
)

// consoles maps the printing builtins to their console method
var consoles = map[string]string{
	"println": "console.log", "print": "console.log",
	"eprintln": "console.error", "eprint": "console.error",
}

// throwing builtins abort with an error carrying their message
var throwing = map[string]string{
	"panic":         "",
	"todo":          "not yet implemented",
	"unimplemented": "not implemented",
	"unreachable":   "entered unreachable code",
}

// builtin prints a call of a builtin function or macro
func (g *Generator) builtin(name string, args []ast.Expr) (string, bool) {
	if console, ok := consoles[name]; ok {
		if len(args) == 0 {
			return console + "()", true
		}
		return console + "(" + g.format(args) + ")", true
	}
	if _, ok := throwing[name]; ok {
		return "(() => { " + g.throw(name, args) + "; })()", true
	}
	switch name {
	case "format":
		if len(args) == 0 {
			return `""`, true
		}
		return g.format(args), true
	case "assert", "debug_assert":
		if len(args) == 0 {
			return "", false
		}
		parts := []string{g.expr(args[0])}
		if len(args) > 1 {
			parts = append(parts, g.format(args[1:]))
		}
		return "console.assert(" + strings.Join(parts, ", ") + ")", true
	case "assert_eq", "assert_ne", "debug_assert_eq", "debug_assert_ne":
		if len(args) < 2 {
			return "", false
		}
		op := " === "
		if strings.HasSuffix(name, "_ne") {
			op = " !== "
		}
		parts := []string{g.expr(args[0]) + op + g.expr(args[1])}
		if len(args) > 2 {
			parts = append(parts, g.format(args[2:]))
		}
		return "console.assert(" + strings.Join(parts, ", ") + ")", true
	case "dbg":
		if len(args) != 1 {
			return "", false
		}
		v := g.expr(args[0])
		return "(console.debug(" + v + "), " + v + ")", true
	}
	return "", false
}

// throwStmt prints a throwing builtin in statement position without a wrapper
func (g *Generator) throwStmt(e ast.Expr) (string, bool) {
	switch e := e.(type) {
	case *ast.CallExpr:
		id, ok := e.Callee.(*ast.IdentExpr)
		if !ok || g.userFunction(e) {
			return "", false
		}
		if _, ok := throwing[id.Name]; !ok {
			return "", false
		}
		values := make([]ast.Expr, len(e.Args))
		for i, a := range e.Args {
			values[i] = a.Value
		}
		return g.throw(id.Name, values), true
	case *ast.MacroExpr:
		if _, ok := throwing[e.Name]; !ok || (e.Args == nil && strings.TrimSpace(e.Raw) != "") {
			return "", false
		}
		return g.throw(e.Name, e.Args), true
	}
	return "", false
}

func (g *Generator) throw(name string, args []ast.Expr) string {
	if len(args) > 0 {
		return "throw new Error(" + g.format(args) + ")"
	}
	message := throwing[name]
	if message == "" {
		message = "explicit panic"
	}
	return "throw new Error(" + quote(message) + ")"
}

func (g *Generator) macro(m *ast.MacroExpr) string {
	if m.Args == nil && strings.TrimSpace(m.Raw) != "" {
		g.fail(m, "macro %s! with arguments %q has no script translation", m.Name, m.Raw)
	}
	if m.Name == "vec" {
		return "[" + strings.Join(g.exprList(m.Args), ", ") + "]"
	}
	if s, ok := g.builtin(m.Name, m.Args); ok {
		return s
	}
	g.fail(m, "macro %s! has no script translation", m.Name)
	return ""
}

// format prints formatting arguments as a template literal
func (g *Generator) format(args []ast.Expr) string {
	switch first := args[0].(type) {
	case *ast.InterpolatedString:
		return g.template(first)
	case *ast.LiteralExpr:
		if first.Kind == ast.StringLiteral {
			return "`" + formatString(first.Value, g.exprList(args[1:])) + "`"
		}
	}
	return "`${" + g.expr(args[0]) + "}`"
}

// formatString converts "{}" placeholders to template holes. "{:?}" prints
// JSON, "{:.N}" fixes the number of decimals and "{name}" refers to a binding.
func formatString(s string, args []string) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				b.WriteString(templateText(s[i:]))
				return b.String()
			}
			spec := s[i+1 : i+end]
			i += end

			name, format := spec, ""
			if colon := strings.IndexByte(spec, ':'); colon >= 0 {
				name, format = spec[:colon], spec[colon+1:]
			}
			var value string
			switch {
			case name == "":
				if next < len(args) {
					value = args[next]
				}
				next++
			case name[0] >= '0' && name[0] <= '9':
				n := 0
				for _, d := range name {
					n = n*10 + int(d-'0')
				}
				if n < len(args) {
					value = args[n]
				}
			default:
				value = jsIdent(name)
			}
			if value == "" {
				value = "undefined"
			}
			switch {
			case format == "?" || format == "#?":
				value = "JSON.stringify(" + value + ")"
			case strings.HasPrefix(format, "."):
				value = "(" + value + ").toFixed(" + format[1:] + ")"
			}
			b.WriteString("${" + value + "}")
		default:
			end := i + 1
			for end < len(s) && s[end] != '{' && s[end] != '}' {
				end++
			}
			b.WriteString(templateText(s[i:end]))
			i = end - 1
		}
	}
	return b.String()
}

// collectionKind classifies a receiver for method translation
func collectionKind(t *types.Type) string {
	t = t.Deref()
	switch {
	case t == nil:
		return ""
	case t.IsString() || (t.Kind == types.Primitive && t.Name == "char"):
		return "string"
	case t.IsNumeric():
		return "number"
	case t.IsSequence():
		return "array"
	case t.Kind == types.Named:
		switch t.Name {
		case "HashMap", "BTreeMap":
			return "map"
		case "HashSet", "BTreeSet":
			return "set"
		case "Option":
			return "option"
		case "Result":
			return "result"
		}
	}
	return ""
}

// transparent methods only change ownership or iteration state
var transparent = map[string]bool{
	"iter": true, "into_iter": true, "iter_mut": true, "collect": true, "cloned": true,
	"copied": true, "as_str": true, "as_ref": true, "as_mut": true, "borrow": true,
	"borrow_mut": true, "into": true, "to_owned": true, "as_slice": true,
}

var renamedMethods = map[string]string{
	"to_uppercase": "toUpperCase", "to_lowercase": "toLowerCase",
	"starts_with": "startsWith", "ends_with": "endsWith",
	"trim_start": "trimStart", "trim_end": "trimEnd",
	"replace": "replaceAll", "for_each": "forEach",
	"any": "some", "all": "every", "position": "findIndex",
	"extend": "push", "retain": "filter", "rev": "reverse",
}

var mathMethods = map[string]string{
	"abs": "abs", "sqrt": "sqrt", "floor": "floor", "ceil": "ceil", "round": "round",
	"sin": "sin", "cos": "cos", "tan": "tan", "ln": "log", "log10": "log10",
	"exp": "exp", "signum": "sign", "trunc": "trunc",
}

func (g *Generator) methodCall(mc *ast.MethodCallExpr) string {
	name := mc.Method.Value
	args := g.args(mc.Args)
	call := "(" + strings.Join(args, ", ") + ")"

	if g.info != nil {
		if owner, ok := g.info.StaticCalls[mc]; ok {
			if e, v := g.variant([]string{owner, name}); e != nil {
				return variantValue(e, v, args)
			}
			return staticPath(mc.Receiver) + "." + name + call
		}
		if _, ok := g.info.ModuleCalls[mc]; ok {
			return staticPath(mc.Receiver) + "." + name + call
		}
	}

	recv := g.receiver(mc.Receiver)
	kind := collectionKind(g.info.TypeOf(mc.Receiver))
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return "undefined"
	}
	sized := kind == "map" || kind == "set"

	switch {
	case transparent[name]:
		return recv
	case name == "len" || name == "count":
		if sized {
			return recv + ".size"
		}
		return recv + ".length"
	case name == "is_empty":
		if sized {
			return "(" + recv + ".size === 0)"
		}
		return "(" + recv + ".length === 0)"
	case name == "clone" || name == "to_vec":
		if kind == "string" || kind == "number" {
			return recv
		}
		return g.use("__clone") + "(" + recv + ")"
	case name == "to_string":
		if kind == "string" {
			return recv
		}
		return "String(" + recv + ")"
	case name == "contains" || name == "contains_key":
		if sized {
			return recv + ".has" + call
		}
		return recv + ".includes" + call
	case name == "insert":
		switch {
		case kind == "map":
			return recv + ".set" + call
		case kind == "set":
			return recv + ".add" + call
		case kind == "array" && len(args) == 2:
			return recv + ".splice(" + args[0] + ", 0, " + args[1] + ")"
		}
	case name == "remove":
		switch {
		case sized:
			return recv + ".delete" + call
		case kind == "array":
			return recv + ".splice(" + arg(0) + ", 1)[0]"
		}
	case name == "get":
		if kind == "map" {
			return "(" + recv + ".get" + call + " ?? null)"
		}
		if kind == "array" {
			return "(" + recv + "[" + arg(0) + "] ?? null)"
		}
	case name == "keys" || name == "values":
		if sized {
			return "[..." + recv + "." + name + "()]"
		}
	case name == "first":
		return "(" + recv + "[0] ?? null)"
	case name == "last":
		return "(" + recv + ".at(-1) ?? null)"
	case name == "find":
		return "(" + recv + ".find" + call + " ?? null)"
	case name == "enumerate":
		return recv + ".map((v, i) => [i, v])"
	case name == "sum":
		return recv + ".reduce((a, b) => a + b, 0)"
	case name == "chars":
		return "[..." + recv + "]"
	case name == "lines":
		return recv + `.split("\n")`
	case name == "parse":
		return "Number(" + recv + ")"
	case name == "unwrap" || name == "expect":
		if kind == "result" {
			return g.use("__unwrap") + "(" + recv + ")"
		}
		return recv
	case name == "unwrap_or":
		if kind == "result" {
			return "(" + recv + ".ok ? " + recv + ".value : " + arg(0) + ")"
		}
		return "(" + recv + " ?? " + arg(0) + ")"
	case name == "is_some":
		return "(" + recv + " !== null)"
	case name == "is_none":
		return "(" + recv + " === null)"
	case name == "is_ok":
		return recv + ".ok"
	case name == "is_err":
		return "!" + recv + ".ok"
	case kind == "number" && mathMethods[name] != "":
		return "Math." + mathMethods[name] + "(" + recv + ")"
	case kind == "number" && (name == "pow" || name == "powi" || name == "powf"):
		return "(" + recv + " ** " + arg(0) + ")"
	case kind == "number" && (name == "min" || name == "max"):
		return "Math." + name + "(" + recv + ", " + arg(0) + ")"
	}
	if renamed, ok := renamedMethods[name]; ok {
		name = renamed
	}
	return recv + "." + name + call
}

// staticPath prints a type or module used as a call qualifier
func staticPath(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.IdentExpr:
		return e.Name
	case *ast.PathExpr:
		return strings.Join(identPath(e.Segments), ".")
	case *ast.FieldAccessExpr:
		return staticPath(e.Target) + "." + e.Field.Value
	}
	return ast.Print(e)
}
