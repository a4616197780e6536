package grammar

// ModEntry is a sub-module declared by a mod.wj file
type ModEntry struct {
	Name   string
	Public bool
}

// Modules returns the declared sub-modules in source order
func (f *File) Modules() []ModEntry {
	var mods []ModEntry
	for _, e := range f.Elements {
		if e.Decl != nil && e.Decl.Mod != nil {
			mods = append(mods, ModEntry{Name: e.Decl.Mod.Name.Value, Public: e.Decl.Public})
		}
	}
	return mods
}

// Reexports returns the "::" paths of every "pub use" declaration in source order
func (f *File) Reexports() []string {
	var paths []string
	for _, e := range f.Elements {
		if e.Decl != nil && e.Decl.Use != nil && e.Decl.Public {
			paths = append(paths, e.Decl.Use.Path("::"))
		}
	}
	return paths
}

// Declares reports whether the file declares a sub-module called name
func (f *File) Declares(name string) bool {
	for _, m := range f.Modules() {
		if m.Name == name {
			return true
		}
	}
	return false
}
