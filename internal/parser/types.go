package parser

import "strconv"

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers + literals
	IDENTIFIER
	INT
	FLOAT
	CHAR
	STRING          // string literal without interpolation
	STRING_FRAGMENT // literal text before a "${" hole, including the opening quote
	INTERP_OPEN     // "${"
	INTERP_CLOSE    // "}" closing a hole
	STRING_END      // literal text after the last hole, including the closing quote
	DECORATOR       // "@name"

	// Keywords
	FN
	LET
	MUT
	IF
	ELSE
	MATCH
	FOR
	IN
	WHILE
	LOOP
	BREAK
	CONTINUE
	RETURN
	STRUCT
	ENUM
	TRAIT
	IMPL
	PUB
	USE
	MOD
	CONST
	STATIC
	TYPE
	AS
	WHERE
	ASYNC
	AWAIT
	EXTERN
	MOVE
	REF
	GO
	SELF
	TRUE
	FALSE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	CARET
	BANG
	BANG_EQUAL
	EQUAL
	EQUAL_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	SHL
	SHR
	AND
	AMPERSAND
	OR
	PIPE
	PIPE_GREATER
	QUESTION
	ARROW
	FAT_ARROW
	DOT_DOT
	DOT_DOT_EQUAL

	// Assignment operators
	PLUS_EQUAL
	MINUS_EQUAL
	STAR_EQUAL
	SLASH_EQUAL
	PERCENT_EQUAL
	AMP_EQUAL
	PIPE_EQUAL
	CARET_EQUAL
	SHL_EQUAL
	SHR_EQUAL

	// Separators
	COMMA
	DOT
	SEMICOLON
	COLON
	DOUBLE_COLON

	// Brackets
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_BRACKET
	RIGHT_BRACKET

	// Comments
	COMMENT
	DOC_COMMENT
	BLOCK_COMMENT
)

var tokenTypeNames = [...]string{
	ILLEGAL:         "ILLEGAL",
	EOF:             "EOF",
	IDENTIFIER:      "IDENTIFIER",
	INT:             "INT",
	FLOAT:           "FLOAT",
	CHAR:            "CHAR",
	STRING:          "STRING",
	STRING_FRAGMENT: "STRING_FRAGMENT",
	INTERP_OPEN:     "INTERP_OPEN",
	INTERP_CLOSE:    "INTERP_CLOSE",
	STRING_END:      "STRING_END",
	DECORATOR:       "DECORATOR",
	FN:              "FN",
	LET:             "LET",
	MUT:             "MUT",
	IF:              "IF",
	ELSE:            "ELSE",
	MATCH:           "MATCH",
	FOR:             "FOR",
	IN:              "IN",
	WHILE:           "WHILE",
	LOOP:            "LOOP",
	BREAK:           "BREAK",
	CONTINUE:        "CONTINUE",
	RETURN:          "RETURN",
	STRUCT:          "STRUCT",
	ENUM:            "ENUM",
	TRAIT:           "TRAIT",
	IMPL:            "IMPL",
	PUB:             "PUB",
	USE:             "USE",
	MOD:             "MOD",
	CONST:           "CONST",
	STATIC:          "STATIC",
	TYPE:            "TYPE",
	AS:              "AS",
	WHERE:           "WHERE",
	ASYNC:           "ASYNC",
	AWAIT:           "AWAIT",
	EXTERN:          "EXTERN",
	MOVE:            "MOVE",
	REF:             "REF",
	GO:              "GO",
	SELF:            "SELF",
	TRUE:            "TRUE",
	FALSE:           "FALSE",
	PLUS:            "PLUS",
	MINUS:           "MINUS",
	STAR:            "STAR",
	SLASH:           "SLASH",
	PERCENT:         "PERCENT",
	CARET:           "CARET",
	BANG:            "BANG",
	BANG_EQUAL:      "BANG_EQUAL",
	EQUAL:           "EQUAL",
	EQUAL_EQUAL:     "EQUAL_EQUAL",
	LESS:            "LESS",
	LESS_EQUAL:      "LESS_EQUAL",
	GREATER:         "GREATER",
	GREATER_EQUAL:   "GREATER_EQUAL",
	SHL:             "SHL",
	SHR:             "SHR",
	AND:             "AND",
	AMPERSAND:       "AMPERSAND",
	OR:              "OR",
	PIPE:            "PIPE",
	PIPE_GREATER:    "PIPE_GREATER",
	QUESTION:        "QUESTION",
	ARROW:           "ARROW",
	FAT_ARROW:       "FAT_ARROW",
	DOT_DOT:         "DOT_DOT",
	DOT_DOT_EQUAL:   "DOT_DOT_EQUAL",
	PLUS_EQUAL:      "PLUS_EQUAL",
	MINUS_EQUAL:     "MINUS_EQUAL",
	STAR_EQUAL:      "STAR_EQUAL",
	SLASH_EQUAL:     "SLASH_EQUAL",
	PERCENT_EQUAL:   "PERCENT_EQUAL",
	AMP_EQUAL:       "AMP_EQUAL",
	PIPE_EQUAL:      "PIPE_EQUAL",
	CARET_EQUAL:     "CARET_EQUAL",
	SHL_EQUAL:       "SHL_EQUAL",
	SHR_EQUAL:       "SHR_EQUAL",
	COMMA:           "COMMA",
	DOT:             "DOT",
	SEMICOLON:       "SEMICOLON",
	COLON:           "COLON",
	DOUBLE_COLON:    "DOUBLE_COLON",
	LEFT_PAREN:      "LEFT_PAREN",
	RIGHT_PAREN:     "RIGHT_PAREN",
	LEFT_BRACE:      "LEFT_BRACE",
	RIGHT_BRACE:     "RIGHT_BRACE",
	LEFT_BRACKET:    "LEFT_BRACKET",
	RIGHT_BRACKET:   "RIGHT_BRACKET",
	COMMENT:         "COMMENT",
	DOC_COMMENT:     "DOC_COMMENT",
	BLOCK_COMMENT:   "BLOCK_COMMENT",
}

func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenTypeNames) {
		return "TokenType(" + strconv.Itoa(int(t)) + ")"
	}
	return tokenTypeNames[t]
}

// IsKeyword reports whether the token type is a reserved word
func (t TokenType) IsKeyword() bool {
	return t >= FN && t <= FALSE
}

// IsTrivia reports whether the token is a comment
func (t TokenType) IsTrivia() bool {
	return t == COMMENT || t == DOC_COMMENT || t == BLOCK_COMMENT
}

type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based absolute index in input
}

type Token struct {
	Type     TokenType
	Lexeme   string // exact source text
	Literal  string // unescaped value for strings, chars and string fragments
	Position Position

	// NewlineBefore is set when a line break separates this token from the previous one
	NewlineBefore bool
}
