package js

import (
	"strconv"
	"strings"

	"windjammer/internal/ast"
)

// Values of the standard sum types: None is null, Some(x) is x, and results
// are tagged objects { ok, value } or { ok, error }. Enum variants without
// data are their symbol; variants with data are objects carrying the symbol
// in "tag" and their payload in "values" or named fields.

// patternCond returns the condition under which subj matches p
func (g *Generator) patternCond(p ast.Pattern, subj string) string {
	var conds []string
	add := func(c string) {
		if c != "true" && c != "" {
			conds = append(conds, c)
		}
	}

	switch p := p.(type) {
	case nil, *ast.WildcardPattern:
	case *ast.IdentPattern:
		if p.Name.Value == "None" {
			add(subj + " === null")
		}
	case *ast.LiteralPattern:
		add(subj + " === " + g.literalPattern(p))
	case *ast.RangePattern:
		if p.Start != nil {
			add(subj + " >= " + g.literalPattern(p.Start))
		}
		if p.End != nil {
			op := " < "
			if p.Inclusive {
				op = " <= "
			}
			add(subj + op + g.literalPattern(p.End))
		}
	case *ast.TuplePattern:
		for i, el := range p.Elements {
			add(g.patternCond(el, index(subj, i)))
		}
	case *ast.RefPattern:
		add(g.patternCond(p.Pattern, subj))
	case *ast.OrPattern:
		alts := make([]string, len(p.Alternatives))
		for i, alt := range p.Alternatives {
			alts[i] = g.patternCond(alt, subj)
			if alts[i] == "true" {
				return "true"
			}
		}
		return "(" + strings.Join(alts, " || ") + ")"
	case *ast.EnumPattern:
		for _, c := range g.enumPatternConds(p, subj) {
			add(c)
		}
	default:
		g.fail(p, "unsupported pattern %T", p)
	}

	if len(conds) == 0 {
		return "true"
	}
	return strings.Join(conds, " && ")
}

func (g *Generator) enumPatternConds(p *ast.EnumPattern, subj string) []string {
	path := identPath(p.Path)
	if len(path) == 0 {
		g.fail(p, "pattern without a path")
	}
	switch path[len(path)-1] {
	case "Some":
		return append([]string{subj + " !== null"}, g.payloadConds(p, subj)...)
	case "None":
		return []string{subj + " === null"}
	case "Ok":
		return append([]string{subj + ".ok"}, g.payloadConds(p, subj+".value")...)
	case "Err":
		return append([]string{"!" + subj + ".ok"}, g.payloadConds(p, subj+".error")...)
	}

	if e, v := g.variant(path); e != nil {
		tag := e.Name.Value + "." + v.Name.Value
		if !hasData(v) {
			return []string{subj + " === " + tag}
		}
		conds := []string{subj + ".tag === " + tag}
		for i, el := range p.Tuple {
			conds = append(conds, g.patternCond(el, index(subj+".values", i)))
		}
		for _, f := range p.Fields {
			conds = append(conds, g.patternCond(f.Pattern, subj+"."+f.Name.Value))
		}
		return conds
	}
	if _, ok := g.structs[path[len(path)-1]]; ok && p.StructLike {
		var conds []string
		for _, f := range p.Fields {
			conds = append(conds, g.patternCond(f.Pattern, subj+"."+f.Name.Value))
		}
		return conds
	}
	g.fail(p, "pattern %s does not name a variant declared in this file", strings.Join(path, "::"))
	return nil
}

// payloadConds matches the single payload of Some, Ok and Err
func (g *Generator) payloadConds(p *ast.EnumPattern, value string) []string {
	if len(p.Tuple) == 0 {
		return nil
	}
	return []string{g.patternCond(p.Tuple[0], value)}
}

// patternBindings returns the declarations binding the names p introduces
func (g *Generator) patternBindings(p ast.Pattern, subj, keyword string) []string {
	var lines []string
	var walk func(p ast.Pattern, subj string)
	walk = func(p ast.Pattern, subj string) {
		switch p := p.(type) {
		case *ast.IdentPattern:
			if p.Name.Value != "None" {
				lines = append(lines, keyword+" "+jsIdent(p.Name.Value)+" = "+subj+";")
			}
		case *ast.TuplePattern:
			for i, el := range p.Elements {
				walk(el, index(subj, i))
			}
		case *ast.RefPattern:
			walk(p.Pattern, subj)
		case *ast.OrPattern:
			if len(p.Alternatives) > 0 {
				walk(p.Alternatives[0], subj)
			}
		case *ast.EnumPattern:
			path := identPath(p.Path)
			if len(path) == 0 {
				return
			}
			payload := subj + ".values"
			switch path[len(path)-1] {
			case "Some":
				if len(p.Tuple) > 0 {
					walk(p.Tuple[0], subj)
				}
				return
			case "Ok":
				if len(p.Tuple) > 0 {
					walk(p.Tuple[0], subj+".value")
				}
				return
			case "Err":
				if len(p.Tuple) > 0 {
					walk(p.Tuple[0], subj+".error")
				}
				return
			}
			for i, el := range p.Tuple {
				walk(el, index(payload, i))
			}
			for _, f := range p.Fields {
				if f.Pattern == nil {
					lines = append(lines, keyword+" "+jsIdent(f.Name.Value)+" = "+subj+"."+f.Name.Value+";")
					continue
				}
				walk(f.Pattern, subj+"."+f.Name.Value)
			}
		}
	}
	walk(p, subj)
	return lines
}

// binding prints an irrefutable pattern as a destructuring target
func (g *Generator) binding(p ast.Pattern) string {
	switch p := p.(type) {
	case *ast.IdentPattern:
		return jsIdent(p.Name.Value)
	case *ast.WildcardPattern:
		return "_"
	case *ast.RefPattern:
		return g.binding(p.Pattern)
	case *ast.TuplePattern:
		parts := make([]string, len(p.Elements))
		for i, el := range p.Elements {
			if _, ok := el.(*ast.WildcardPattern); ok {
				continue
			}
			parts[i] = g.binding(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.EnumPattern:
		if len(p.Path) == 0 {
			break
		}
		if _, ok := g.structs[p.Path[len(p.Path)-1].Value]; ok && p.StructLike {
			parts := make([]string, len(p.Fields))
			for i, f := range p.Fields {
				if f.Pattern == nil {
					parts[i] = f.Name.Value
					continue
				}
				parts[i] = f.Name.Value + ": " + g.binding(f.Pattern)
			}
			return "{ " + strings.Join(parts, ", ") + " }"
		}
	}
	g.fail(p, "refutable pattern %s cannot be used as a binding", ast.Print(p))
	return ""
}

func (g *Generator) literalPattern(p *ast.LiteralPattern) string {
	s := g.literal(p.Value)
	if p.Negative {
		return "-" + s
	}
	return s
}

func identPath(ids []ast.Ident) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Value
	}
	return out
}

func index(subj string, i int) string {
	return subj + "[" + strconv.Itoa(i) + "]"
}
