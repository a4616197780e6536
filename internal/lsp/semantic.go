package lsp

import (
	"sort"
	"strings"
	"unicode"

	"windjammer/internal/ast"
	"windjammer/internal/parser"
)

// SemanticTokenTypes is the legend of token types, indexed by SemanticToken.TokenType
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"typeParameter",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"operator",
	"modifier",
	"string",
	"method",
	"enumMember",
	"decorator",
}

// SemanticTokenModifiers is the legend of token modifiers, bits of SemanticToken.TokenModifiers
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
}

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into SemanticTokenTypes
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

const (
	modDeclaration = 1 << 0
	modReadonly    = 1 << 2
)

// collectSemanticTokens classifies the tokens of a document. Keywords and
// literals come from the scanner, names from the syntax tree; where both
// cover a position the tree wins.
func collectSemanticTokens(content string, program *ast.Program) []SemanticToken {
	byStart := make(map[[2]uint32]SemanticToken)
	for _, tok := range lexicalTokens(content) {
		byStart[[2]uint32{tok.Line, tok.StartChar}] = tok
	}
	if program != nil {
		w := &tokenWalker{}
		w.node(program)
		for _, tok := range w.tokens {
			byStart[[2]uint32{tok.Line, tok.StartChar}] = tok
		}
	}

	tokens := make([]SemanticToken, 0, len(byStart))
	for _, tok := range byStart {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})
	return tokens
}

// encodeSemanticTokens packs tokens into the LSP wire format (delta-line,
// delta-start compression)
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}
	return data
}

// lexicalTokens classifies keywords, literals and decorators. Tokens
// spanning several lines are skipped.
func lexicalTokens(content string) []SemanticToken {
	var tokens []SemanticToken
	for _, tok := range parser.NewScanner(content).ScanTokens() {
		if strings.Contains(tok.Lexeme, "\n") || tok.Lexeme == "" {
			continue
		}
		var kind string
		switch {
		case tok.Type == parser.INT || tok.Type == parser.FLOAT:
			kind = "number"
		case tok.Type == parser.STRING || tok.Type == parser.CHAR ||
			tok.Type == parser.STRING_FRAGMENT || tok.Type == parser.STRING_END:
			kind = "string"
		case tok.Type == parser.DECORATOR:
			kind = "decorator"
		case tok.Type == parser.TRUE || tok.Type == parser.FALSE:
			kind = "keyword"
		case isKeyword(tok.Lexeme):
			kind = "keyword"
		default:
			continue
		}
		tokens = append(tokens, SemanticToken{
			Line:      uint32(tok.Position.Line - 1),
			StartChar: uint32(tok.Position.Column - 1),
			Length:    uint32(len(tok.Lexeme)),
			TokenType: indexOf(kind, SemanticTokenTypes),
		})
	}
	return tokens
}

func isKeyword(word string) bool {
	_, ok := parser.KEYWORDS[word]
	return ok
}

// tokenWalker collects name tokens from the syntax tree. The kind of a name
// depends on the node that owns it.
type tokenWalker struct {
	tokens []SemanticToken
}

func (w *tokenWalker) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.CallExpr:
		switch callee := n.Callee.(type) {
		case *ast.IdentExpr:
			w.add(callee.Pos, callee.Name, "function", 0)
		case *ast.PathExpr:
			w.path(callee, "function")
		default:
			w.node(n.Callee)
		}
		for _, t := range n.TypeArgs {
			w.node(t)
		}
		for _, arg := range n.Args {
			w.node(arg)
		}
		return
	case *ast.PathExpr:
		w.path(n, "variable")
		return
	case *ast.IdentExpr:
		kind := "variable"
		if n.Name == "self" {
			kind = "keyword"
		} else if startsUpper(n.Name) {
			kind = "type"
		}
		w.add(n.Pos, n.Name, kind, 0)
		return
	case *ast.PrimitiveType:
		w.add(n.Pos, n.Name, "type", 0)
		return
	case *ast.NamedType:
		if len(n.Path) > 0 {
			kind := "type"
			if len(n.Path) > 1 {
				kind = "namespace"
			}
			w.add(n.Pos, n.Path[0], kind, 0)
		}
	}

	for _, child := range ast.Children(n) {
		if ident, ok := child.(*ast.Ident); ok {
			kind, mods := identKind(n)
			w.add(ident.Pos, ident.Value, kind, mods)
			continue
		}
		w.node(child)
	}
}

// path classifies a path: leading segments name modules or types, the last
// one a variant when capitalised
func (w *tokenWalker) path(p *ast.PathExpr, last string) {
	for i, seg := range p.Segments {
		kind := "namespace"
		switch {
		case i == len(p.Segments)-1 && startsUpper(seg.Value):
			kind = "enumMember"
		case i == len(p.Segments)-1:
			kind = last
		case startsUpper(seg.Value):
			kind = "type"
		}
		w.add(seg.Pos, seg.Value, kind, 0)
	}
}

// identKind classifies a name by its owning node
func identKind(owner ast.Node) (string, int) {
	switch owner.(type) {
	case *ast.Function:
		return "function", modDeclaration
	case *ast.Param:
		return "parameter", modDeclaration
	case *ast.TypeParam:
		return "typeParameter", modDeclaration
	case *ast.Struct, *ast.Enum, *ast.Trait, *ast.TypeAlias:
		return "type", modDeclaration
	case *ast.Field:
		return "property", modDeclaration
	case *ast.Variant:
		return "enumMember", modDeclaration
	case *ast.Const, *ast.Static:
		return "variable", modDeclaration | modReadonly
	case *ast.IdentPattern:
		return "variable", modDeclaration
	case *ast.ModDecl:
		return "namespace", modDeclaration
	case *ast.Use:
		return "namespace", 0
	case *ast.MethodCallExpr:
		return "method", 0
	case *ast.FieldAccessExpr, *ast.FieldInit, *ast.FieldPattern:
		return "property", 0
	case *ast.EnumPattern:
		return "enumMember", 0
	}
	return "variable", 0
}

func (w *tokenWalker) add(pos ast.Position, value, tokenType string, modifiers int) {
	if value == "" || pos.Line == 0 {
		return
	}
	w.tokens = append(w.tokens, SemanticToken{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: modifiers,
	})
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
