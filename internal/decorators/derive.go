package decorators

import (
	"windjammer/internal/ast"
	"windjammer/internal/builtins"
	"windjammer/internal/types"
)

// ability is a set of derivable traits a type supports
type ability uint8

const (
	canCopy ability = 1 << iota
	canPartialEq
	canEq
	canHash
	canDefault

	allAbilities = canCopy | canPartialEq | canEq | canHash | canDefault
)

var traitAbility = map[string]ability{
	"Copy":      canCopy,
	"PartialEq": canPartialEq,
	"Eq":        canEq,
	"Hash":      canHash,
	"Default":   canDefault,
}

// deriver infers the derive list of @auto from field types
type deriver struct {
	reg   *types.TypeRegistry
	cache map[string][]string
}

func (d *deriver) forStruct(s *ast.Struct) func() []string {
	return func() []string { return d.derives(s.Name.Value) }
}

func (d *deriver) forEnum(e *ast.Enum) func() []string {
	return func() []string { return d.derives(e.Name.Value) }
}

// derives returns the traits a declared type derives, inferring them for @auto
func (d *deriver) derives(name string) []string {
	if cached, ok := d.cache[name]; ok {
		return cached
	}
	// recursive types see an empty list while their own fields are inspected
	d.cache[name] = nil

	var out []string
	switch {
	case d.reg.Struct(name) != nil:
		s := d.reg.Struct(name).Decl
		out = d.declared(s.Decorators, func() []string {
			generics := typeParamSet(s.TypeParams)
			abilities := allAbilities
			for _, f := range s.Fields {
				abilities &= d.abilities(f.Type, generics)
			}
			return traitList(abilities, true)
		})
	case d.reg.Enum(name) != nil:
		e := d.reg.Enum(name).Decl
		out = d.declared(e.Decorators, func() []string {
			generics := typeParamSet(e.TypeParams)
			abilities := allAbilities
			for _, v := range e.Variants {
				for _, t := range v.Tuple {
					abilities &= d.abilities(t, generics)
				}
				for _, f := range v.Fields {
					abilities &= d.abilities(f.Type, generics)
				}
			}
			return traitList(abilities, false)
		})
	}
	d.cache[name] = out
	return out
}

func (d *deriver) declared(decorators []*ast.Decorator, infer func() []string) []string {
	var out []string
	for _, dec := range decorators {
		switch {
		case dec.Name == "auto" && len(dec.Args) == 0:
			out = appendUnique(out, infer()...)
		case dec.Name == "auto" || dec.Name == "derive":
			out = appendUnique(out, argNames(dec)...)
		}
	}
	return out
}

// traitList orders the supported traits the way derive lists are written
func traitList(abilities ability, withDefault bool) []string {
	out := []string{"Debug", "Clone"}
	if abilities&canCopy != 0 {
		out = append(out, "Copy")
	}
	if abilities&canPartialEq != 0 {
		out = append(out, "PartialEq")
		if abilities&canEq != 0 {
			out = append(out, "Eq")
			if abilities&canHash != 0 {
				out = append(out, "Hash")
			}
		}
	}
	if withDefault && abilities&canDefault != 0 {
		out = append(out, "Default")
	}
	return out
}

func typeParamSet(tps []*ast.TypeParam) map[string]bool {
	set := make(map[string]bool, len(tps))
	for _, tp := range tps {
		set[tp.Name.Value] = true
	}
	return set
}

func (d *deriver) abilities(t ast.TypeExpr, generics map[string]bool) ability {
	switch node := t.(type) {
	case *ast.PrimitiveType:
		return primitiveAbilities(node.Name)
	case *ast.TupleType:
		a := allAbilities
		for _, el := range node.Elements {
			a &= d.abilities(el, generics)
		}
		return a
	case *ast.ArrayType:
		return d.abilities(node.Elem, generics)
	case *ast.SliceType:
		return d.abilities(node.Elem, generics) &^ (canCopy | canDefault)
	case *ast.RefType:
		a := d.abilities(node.Elem, generics) &^ (canCopy | canDefault)
		if !node.Mutable {
			a |= canCopy
		}
		return a
	case *ast.FuncType:
		return canCopy
	case *ast.NamedType:
		return d.namedAbilities(node, generics)
	}
	return 0
}

func primitiveAbilities(name string) ability {
	switch name {
	case "string":
		return canPartialEq | canEq | canHash | canDefault
	case "str":
		return canPartialEq | canEq | canHash
	}
	if p, ok := builtins.Lookup(name); ok && p.Float {
		return canCopy | canPartialEq | canDefault
	}
	return allAbilities
}

func (d *deriver) namedAbilities(t *ast.NamedType, generics map[string]bool) ability {
	name := t.Name()
	if len(t.Path) == 1 && generics[name] {
		// derive bounds the parameter itself
		return allAbilities
	}
	args := allAbilities
	for _, arg := range t.Args {
		args &= d.abilities(arg, generics)
	}
	switch name {
	case "String":
		return primitiveAbilities("string")
	case "Option":
		return args | canDefault
	case "Vec", "VecDeque", "Box", "Rc", "Arc":
		a := args &^ canCopy
		if name == "Vec" || name == "VecDeque" {
			a |= canDefault
		}
		return a
	case "HashMap", "HashSet":
		return (args &^ (canCopy | canHash)) | canDefault
	case "BTreeMap", "BTreeSet":
		return (args &^ canCopy) | canDefault
	}
	if d.reg.Struct(name) != nil || d.reg.Enum(name) != nil {
		var a ability
		for _, trait := range d.derives(name) {
			a |= traitAbility[trait]
		}
		return a
	}
	return 0
}
