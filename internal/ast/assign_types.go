package ast

type AssignType int

const (
	// Special / error
	ILLEGAL_ASSIGN AssignType = iota
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	AMP_ASSIGN
	PIPE_ASSIGN
	CARET_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
)

var assignOperators = map[AssignType]string{
	ASSIGN:         "=",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
	AMP_ASSIGN:     "&=",
	PIPE_ASSIGN:    "|=",
	CARET_ASSIGN:   "^=",
	SHL_ASSIGN:     "<<=",
	SHR_ASSIGN:     ">>=",
}

func (a AssignType) String() string {
	if s, ok := assignOperators[a]; ok {
		return s
	}
	return "<illegal>"
}

// BinaryOp returns the binary operator a compound assignment applies ("" for plain "=")
func (a AssignType) BinaryOp() string {
	if a == ASSIGN || a == ILLEGAL_ASSIGN {
		return ""
	}
	s := assignOperators[a]
	return s[:len(s)-1]
}

// CompoundAssignFor returns the compound form of a binary operator, if one exists
func CompoundAssignFor(op string) (AssignType, bool) {
	for t, s := range assignOperators {
		if t != ASSIGN && s[:len(s)-1] == op {
			return t, true
		}
	}
	return ILLEGAL_ASSIGN, false
}

// AssignTypeFromLexeme maps an operator lexeme to its AssignType
func AssignTypeFromLexeme(lexeme string) AssignType {
	for t, s := range assignOperators {
		if s == lexeme {
			return t
		}
	}
	return ILLEGAL_ASSIGN
}
