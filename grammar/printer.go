package grammar

import (
	"strings"
)

func (f *File) String() string {
	var b strings.Builder
	for _, e := range f.Elements {
		switch {
		case e.Comment != nil:
			b.WriteString(e.Comment.Text)
		case e.Decl != nil:
			b.WriteString(e.Decl.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (d *Decl) String() string {
	var b strings.Builder
	for _, doc := range d.Docs {
		b.WriteString(doc.Text + "\n")
	}
	if d.Public {
		b.WriteString("pub ")
	}
	switch {
	case d.Mod != nil:
		b.WriteString("mod " + d.Mod.Name.Value)
	case d.Use != nil:
		b.WriteString("use " + d.Use.Path("."))
	}
	return b.String()
}

// Path renders the use path with sep between segments, including a trailing glob,
// braced group and alias
func (u *UseDecl) Path(sep string) string {
	var b strings.Builder
	b.WriteString(u.First.Value)
	for _, seg := range u.Segments {
		b.WriteString(sep)
		switch {
		case seg.Name != nil:
			b.WriteString(seg.Name.Value)
		case seg.Glob:
			b.WriteString("*")
		default:
			names := make([]string, len(seg.Group))
			for i, g := range seg.Group {
				names[i] = g.Value
			}
			b.WriteString("{" + strings.Join(names, ", ") + "}")
		}
	}
	if u.Alias != nil {
		b.WriteString(" as " + u.Alias.Value)
	}
	return b.String()
}

// Rust renders the file as Rust glue declarations, one per line, in source order.
// Comments and doc comments are kept verbatim.
func (f *File) Rust() string {
	var b strings.Builder
	for _, e := range f.Elements {
		if e.Comment != nil {
			b.WriteString(e.Comment.Text + "\n")
			continue
		}
		d := e.Decl
		for _, doc := range d.Docs {
			b.WriteString(doc.Text + "\n")
		}
		if d.Public {
			b.WriteString("pub ")
		}
		switch {
		case d.Mod != nil:
			b.WriteString("mod " + d.Mod.Name.Value + ";\n")
		case d.Use != nil:
			b.WriteString("use " + d.Use.Path("::") + ";\n")
		}
	}
	return b.String()
}
