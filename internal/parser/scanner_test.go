package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"windjammer/internal/errors"
)

func scanTypes(tokens []Token) []TokenType {
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := "fn let mut if else match for in while loop struct enum impl pub use go self customIdent _under"
	expected := []TokenType{
		FN, LET, MUT, IF, ELSE, MATCH, FOR, IN, WHILE, LOOP,
		STRUCT, ENUM, IMPL, PUB, USE, GO, SELF, IDENTIFIER, IDENTIFIER, EOF,
	}

	scanner := NewScanner(input)
	tokens := scanner.ScanTokens()

	if diff := cmp.Diff(expected, scanTypes(tokens)); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, scanner.Errors())
}

func TestNumbers(t *testing.T) {
	input := "42 1_000 0xff 0b1010 0o17 3.14 1e10 2.5e-3 10u8 3i32 1.5f32"
	expected := []TokenType{INT, INT, INT, INT, INT, FLOAT, FLOAT, FLOAT, INT, INT, FLOAT, EOF}

	scanner := NewScanner(input)
	tokens := scanner.ScanTokens()

	require.Empty(t, scanner.Errors())
	if diff := cmp.Diff(expected, scanTypes(tokens)); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "10", tokens[8].Literal)
	assert.Equal(t, "10u8", tokens[8].Lexeme)
	assert.Equal(t, "0xff", tokens[2].Literal)
}

func TestRangeIsNotAFloat(t *testing.T) {
	tokens := NewScanner("1..5 x.0 1..=9").ScanTokens()
	expected := []TokenType{INT, DOT_DOT, INT, IDENTIFIER, DOT, INT, INT, DOT_DOT_EQUAL, INT, EOF}
	if diff := cmp.Diff(expected, scanTypes(tokens)); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestBadNumbers(t *testing.T) {
	for _, input := range []string{"12abc", "0x", "0b12", "1.5u8"} {
		t.Run(input, func(t *testing.T) {
			scanner := NewScanner(input)
			tokens := scanner.ScanTokens()

			require.Len(t, scanner.Errors(), 1)
			assert.Equal(t, BadNumber, scanner.Errors()[0].Kind)
			assert.Equal(t, errors.ErrorBadNumber, scanner.Errors()[0].Kind.Code())
			assert.Equal(t, EOF, tokens[len(tokens)-1].Type)
		})
	}
}

func TestStrings(t *testing.T) {
	input := `"hello" "a\nb\t\"q\"" "\u{41}\$"`
	scanner := NewScanner(input)
	tokens := scanner.ScanTokens()

	require.Empty(t, scanner.Errors())
	require.Len(t, tokens, 4)
	assert.Equal(t, STRING, tokens[0].Type)
	assert.Equal(t, `"hello"`, tokens[0].Lexeme)
	assert.Equal(t, "hello", tokens[0].Literal)
	assert.Equal(t, "a\nb\t\"q\"", tokens[1].Literal)
	assert.Equal(t, "A$", tokens[2].Literal)
}

func TestStringInterpolation(t *testing.T) {
	scanner := NewScanner(`"Hello, ${name}!"`)
	tokens := scanner.ScanTokens()

	require.Empty(t, scanner.Errors())
	expected := []TokenType{STRING_FRAGMENT, INTERP_OPEN, IDENTIFIER, INTERP_CLOSE, STRING_END, EOF}
	if diff := cmp.Diff(expected, scanTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, `"Hello, `, tokens[0].Lexeme)
	assert.Equal(t, "Hello, ", tokens[0].Literal)
	assert.Equal(t, "${", tokens[1].Lexeme)
	assert.Equal(t, `!"`, tokens[4].Lexeme)
	assert.Equal(t, "!", tokens[4].Literal)
}

func TestNestedInterpolation(t *testing.T) {
	scanner := NewScanner(`"a ${ m["k"] } b ${ {x} } c"`)
	tokens := scanner.ScanTokens()

	require.Empty(t, scanner.Errors())
	expected := []TokenType{
		STRING_FRAGMENT, INTERP_OPEN, IDENTIFIER, LEFT_BRACKET, STRING, RIGHT_BRACKET, INTERP_CLOSE,
		STRING_FRAGMENT, INTERP_OPEN, LEFT_BRACE, IDENTIFIER, RIGHT_BRACE, INTERP_CLOSE,
		STRING_END, EOF,
	}
	if diff := cmp.Diff(expected, scanTypes(tokens)); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestCharLiterals(t *testing.T) {
	scanner := NewScanner(`'a' '\n' '\'' '\0'`)
	tokens := scanner.ScanTokens()

	require.Empty(t, scanner.Errors())
	literals := []string{}
	for _, tok := range tokens[:4] {
		assert.Equal(t, CHAR, tok.Type)
		literals = append(literals, tok.Literal)
	}
	assert.Equal(t, []string{"a", "\n", "'", "\x00"}, literals)
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ScanErrorKind
		code  string
	}{
		{"unterminated string", `"abc`, UnterminatedString, errors.ErrorUnterminatedString},
		{"unterminated interpolation", `"a ${x`, UnterminatedString, errors.ErrorUnterminatedString},
		{"unterminated comment", "/* a /* b */", UnterminatedComment, errors.ErrorUnterminatedComment},
		{"bad escape", `"\q"`, BadEscape, errors.ErrorBadEscape},
		{"unrecognised byte", "a # b", UnrecognisedByte, errors.ErrorUnrecognisedByte},
		{"non-letter rune", "x € y", UnrecognisedByte, errors.ErrorUnrecognisedByte},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner(tt.input)
			tokens := scanner.ScanTokens()

			require.NotEmpty(t, scanner.Errors())
			assert.Equal(t, tt.kind, scanner.Errors()[0].Kind)
			assert.Equal(t, tt.code, scanner.Errors()[0].Kind.Code())
			assert.Equal(t, EOF, tokens[len(tokens)-1].Type)
		})
	}
}

func TestErrorPosition(t *testing.T) {
	scanner := NewScanner("let a = 1\nlet b = \"oops")
	scanner.ScanTokens()

	require.Len(t, scanner.Errors(), 1)
	pos := scanner.Errors()[0].Position
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 9, pos.Column)
	assert.Equal(t, 18, pos.Offset)
}

func TestNestedBlockComments(t *testing.T) {
	scanner := NewScanner("/* a /* b */ c */ x")
	tokens := scanner.ScanTokens()

	require.Empty(t, scanner.Errors())
	assert.Equal(t, []TokenType{BLOCK_COMMENT, IDENTIFIER, EOF}, scanTypes(tokens))
}

func TestDocComments(t *testing.T) {
	tokens := NewScanner("/// Adds one\n// plain\nfn").ScanTokens()
	assert.Equal(t, []TokenType{DOC_COMMENT, COMMENT, FN, EOF}, scanTypes(tokens))
}

func TestDecorators(t *testing.T) {
	tokens := NewScanner("@auto @route(path = \"/\")").ScanTokens()

	require.Equal(t, DECORATOR, tokens[0].Type)
	assert.Equal(t, "auto", tokens[0].Literal)
	assert.Equal(t, "@auto", tokens[0].Lexeme)
	assert.Equal(t, DECORATOR, tokens[1].Type)
	assert.Equal(t, "route", tokens[1].Literal)
	assert.Equal(t, LEFT_PAREN, tokens[2].Type)
}

func TestOperatorsLongestMatch(t *testing.T) {
	input := "|> ..= => -> :: += <<= >>= && || != == <= >= .. | & ? @x"
	expected := []TokenType{
		PIPE_GREATER, DOT_DOT_EQUAL, FAT_ARROW, ARROW, DOUBLE_COLON, PLUS_EQUAL, SHL_EQUAL,
		SHR_EQUAL, AND, OR, BANG_EQUAL, EQUAL_EQUAL, LESS_EQUAL, GREATER_EQUAL, DOT_DOT,
		PIPE, AMPERSAND, QUESTION, DECORATOR, EOF,
	}
	if diff := cmp.Diff(expected, scanTypes(NewScanner(input).ScanTokens())); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestNewlineBefore(t *testing.T) {
	tokens := NewScanner("a\nb c // note\nd\n/* x */ e").ScanTokens()

	byLexeme := map[string]bool{}
	for _, tok := range tokens {
		if tok.Type == IDENTIFIER {
			byLexeme[tok.Lexeme] = tok.NewlineBefore
		}
	}
	assert.Equal(t, map[string]bool{"a": false, "b": true, "c": false, "d": true, "e": true}, byLexeme)
}

type tokenShape struct {
	Type    TokenType
	Lexeme  string
	Literal string
}

func shapes(tokens []Token) []tokenShape {
	var out []tokenShape
	for _, tok := range tokens {
		if tok.Type.IsTrivia() {
			continue
		}
		out = append(out, tokenShape{tok.Type, tok.Lexeme, tok.Literal})
	}
	return out
}

// rejoin prints significant tokens separated by spaces, except around string pieces
// where a space would change the literal
func rejoin(tokens []Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if tok.Type == EOF || tok.Type.IsTrivia() {
			continue
		}
		if i > 0 && tok.Type != INTERP_OPEN && tok.Type != STRING_END && tok.Type != STRING_FRAGMENT {
			b.WriteByte(' ')
		}
		if tok.Type == STRING_FRAGMENT && i > 0 && tokens[i-1].Type != INTERP_CLOSE {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Lexeme)
	}
	return b.String()
}

func TestTokenRoundTrip(t *testing.T) {
	sources := []string{
		`fn main() { let mut x = 0; for i in 0..5 { x = x + i } }`,
		`fn greet(name: string) -> string { "Hello, ${name}! You are ${age + 1}." }`,
		"@auto\npub struct Point { x: int, y: int }\n/* note */ let v = vec![1, 2, 3]",
		`let r = 1 |> double |> add_ten; let c = '\n'; let h = 0xffu8`,
		`match s { Shape::Circle { r, .. } => r * 2.0, _ => 0.0 }`,
	}

	for _, src := range sources {
		first := NewScanner(src).ScanTokens()
		again := NewScanner(rejoin(first)).ScanTokens()

		if diff := cmp.Diff(shapes(first), shapes(again)); diff != "" {
			t.Errorf("round trip of %q changed tokens (-first +again):\n%s", src, diff)
		}
	}
}

func TestScannerTerminatesOnHostileInput(t *testing.T) {
	inputs := []string{
		``, `"`, `"${`, `"${"${`, `/*`, `'`, `''`, `'ab'`, `0x`, `@`, "\x00\xff\xfe",
		`}}}`, `"${}}}"`, `"\u{`, `"\u{110000}"`, `1e`, `1.`, `..=..`, "\"a\n",
	}
	for _, input := range inputs {
		tokens := NewScanner(input).ScanTokens()
		require.NotEmpty(t, tokens, "input %q", input)
		assert.Equal(t, EOF, tokens[len(tokens)-1].Type, "input %q", input)
	}
}
