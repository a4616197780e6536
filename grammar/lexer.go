package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ModLexer tokenizes mod.wj declaration files
var ModLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"DocComment", `///[^\n]*`, nil},
		{"Comment", `//[^\n]*`, nil},
		{"BlockComment", `/\*([^*]|\*+[^*/])*\*+/`, nil},

		// Keywords and Identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Punctuation, longest first
		{"Punctuation", `::|[.*{},;]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
