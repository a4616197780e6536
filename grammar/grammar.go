package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed mod.wj declaration file
type File struct {
	Pos      lexer.Position
	Elements []*Element `@@*`
}

type Element struct {
	Comment *Comment `  @@`
	Decl    *Decl    `| @@`
}

type PosIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type DocComment struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Text   string `@DocComment`
}

type Comment struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Text   string `@Comment`
}

// Decl is one "mod" or "use" line, optionally public and documented
type Decl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Docs   []*DocComment `@@*`
	Public bool          `[ @"pub" ]`
	Mod    *ModDecl      `( @@`
	Use    *UseDecl      `| @@ ) [ ";" ]`
}

// ModDecl declares a sub-module: "pub mod utils"
type ModDecl struct {
	Pos  lexer.Position
	Name *PosIdent `"mod" @@`
}

// UseDecl re-exports a path: "pub use utils::helper", "pub use a.b.{x, y}", "pub use a.*"
type UseDecl struct {
	Pos      lexer.Position
	First    *PosIdent     `"use" @@`
	Segments []*UseSegment `@@*`
	Alias    *PosIdent     `[ "as" @@ ]`
}

// UseSegment is a separator followed by a name, a glob or a braced group
type UseSegment struct {
	Sep   string      `@( "." | "::" )`
	Name  *PosIdent   `( @@`
	Glob  bool        `| @"*"`
	Group []*PosIdent `| "{" @@ ( "," @@ )* [ "," ] "}" )`
}
