package types

import "windjammer/internal/builtins"

type BuiltinType = builtins.BuiltinType

const (
	Int    = builtins.Int
	Float  = builtins.Float
	Bool   = builtins.Bool
	Char   = builtins.Char
	String = builtins.String
	Str    = builtins.Str
	Unit   = builtins.Unit
)

// IsBuiltinType checks if a type name is a built-in type
func IsBuiltinType(typeName string) bool {
	return builtins.IsBuiltinType(typeName)
}

// IsIntegerType checks if a type name is a signed or unsigned integer type
func IsIntegerType(typeName string) bool {
	return builtins.IsIntegerType(typeName)
}

// IsCopy reports whether values of t are passed by value: primitives other than
// strings, shared references, and tuples and arrays of such
func (r *TypeRegistry) IsCopy(t *Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case Primitive:
		return builtins.IsCopyType(t.Name)
	case Ref:
		return !t.Mutable
	case Tuple:
		for _, e := range t.Args {
			if !r.IsCopy(e) {
				return false
			}
		}
		return true
	case Array:
		return r.IsCopy(t.Elem)
	case Named:
		if info := r.structs[t.Name]; info != nil {
			return info.Copy
		}
		if info := r.enums[t.Name]; info != nil {
			return info.Copy
		}
		if alias, ok := r.aliases[t.Name]; ok && alias.Name != t.Name {
			return r.IsCopy(alias)
		}
	}
	return false
}

// IsClone reports whether the generated type implements Clone: copy types,
// strings, std containers of clonable elements and declarations deriving it
func (r *TypeRegistry) IsClone(t *Type) bool {
	if t == nil {
		return false
	}
	if r.IsCopy(t) {
		return true
	}
	switch t.Kind {
	case Primitive:
		return true
	case Tuple:
		for _, e := range t.Args {
			if !r.IsClone(e) {
				return false
			}
		}
		return true
	case Array, Slice:
		return r.IsClone(t.Elem)
	case Named:
		switch t.Name {
		case "String", "Rc", "Arc":
			return true
		case "Vec", "Option", "Result", "HashMap", "HashSet", "BTreeMap", "Box":
			for _, arg := range t.Args {
				if !r.IsClone(arg) {
					return false
				}
			}
			return true
		}
		if info := r.structs[t.Name]; info != nil {
			return derivesClone(info.Decl.Decorators)
		}
		if info := r.enums[t.Name]; info != nil {
			return derivesClone(info.Decl.Decorators)
		}
		if alias, ok := r.aliases[t.Name]; ok && alias.Name != t.Name {
			return r.IsClone(alias)
		}
	}
	return false
}
