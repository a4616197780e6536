package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"windjammer/internal/errors"
)

// ScanErrorKind classifies lexical errors
type ScanErrorKind int

const (
	UnterminatedString ScanErrorKind = iota
	UnterminatedComment
	BadEscape
	BadNumber
	UnrecognisedByte
)

// Code returns the diagnostic code of the error kind
func (k ScanErrorKind) Code() string {
	switch k {
	case UnterminatedString:
		return errors.ErrorUnterminatedString
	case UnterminatedComment:
		return errors.ErrorUnterminatedComment
	case BadEscape:
		return errors.ErrorBadEscape
	case BadNumber:
		return errors.ErrorBadNumber
	default:
		return errors.ErrorUnrecognisedByte
	}
}

type ScanError struct {
	Kind     ScanErrorKind
	Message  string
	Position Position // line, column, offset
	Length   int      // how many bytes it covers
}

type Scanner struct {
	source      string
	tokens      []Token
	start       int
	current     int
	line        int
	startLine   int
	startColumn int
	column      int
	errors      []ScanError

	// newline is set when a line break was crossed since the last significant token
	newline bool

	// holes tracks open "${" interpolation holes: brace depth inside each, and the
	// position of the string literal that owns it
	holes []hole
}

type hole struct {
	depth int
	quote Position
}

var numericSuffixes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true,
}

func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
		column: 1,
	}
}

// Errors returns the lexical errors reported so far
func (s *Scanner) Errors() []ScanError {
	return s.errors
}

func (s *Scanner) ScanTokens() []Token {
	for !s.isAtEnd() {
		s.markStart()
		s.scanToken()
	}
	for i := len(s.holes) - 1; i >= 0; i-- {
		s.reportErrorAt(UnterminatedString, "unterminated string literal", s.holes[i].quote, 1)
	}
	s.holes = nil
	s.tokens = append(s.tokens, Token{
		Type:          EOF,
		Position:      Position{Line: s.line, Column: s.column, Offset: s.current},
		NewlineBefore: s.newline,
	})
	return s.tokens
}

func (s *Scanner) markStart() {
	s.start = s.current
	s.startLine = s.line
	s.startColumn = s.column
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(LEFT_PAREN)
	case ')':
		s.addToken(RIGHT_PAREN)
	case '[':
		s.addToken(LEFT_BRACKET)
	case ']':
		s.addToken(RIGHT_BRACKET)
	case ',':
		s.addToken(COMMA)
	case ';':
		s.addToken(SEMICOLON)
	case '?':
		s.addToken(QUESTION)
	case '{':
		if n := len(s.holes); n > 0 {
			s.holes[n-1].depth++
		}
		s.addToken(LEFT_BRACE)
	case '}':
		s.scanRightBrace()

	case '.':
		s.scanDotOperator()
	case ':':
		s.pick(DOUBLE_COLON, ':', COLON)
	case '+':
		s.pick(PLUS_EQUAL, '=', PLUS)
	case '-':
		if s.matchNext('=') {
			s.addToken(MINUS_EQUAL)
		} else {
			s.pick(ARROW, '>', MINUS)
		}
	case '*':
		s.pick(STAR_EQUAL, '=', STAR)
	case '%':
		s.pick(PERCENT_EQUAL, '=', PERCENT)
	case '^':
		s.pick(CARET_EQUAL, '=', CARET)
	case '!':
		s.pick(BANG_EQUAL, '=', BANG)
	case '=':
		if s.matchNext('=') {
			s.addToken(EQUAL_EQUAL)
		} else {
			s.pick(FAT_ARROW, '>', EQUAL)
		}
	case '<':
		s.scanAngleOperator('<', LESS, LESS_EQUAL, SHL, SHL_EQUAL)
	case '>':
		s.scanAngleOperator('>', GREATER, GREATER_EQUAL, SHR, SHR_EQUAL)
	case '&':
		if s.matchNext('&') {
			s.addToken(AND)
		} else {
			s.pick(AMP_EQUAL, '=', AMPERSAND)
		}
	case '|':
		s.scanPipeOperator()
	case '/':
		s.scanSlashOperator()
	case '@':
		s.scanDecorator()

	case ' ', '\r', '\t':
		// Ignore whitespace
	case '\n':
		s.newline = true

	case '"':
		s.scanStringBody(true)
	case '\'':
		s.scanChar()

	default:
		s.scanDefault(c)
	}
}

// pick adds long when the next byte is next, short otherwise
func (s *Scanner) pick(long TokenType, next byte, short TokenType) {
	if s.matchNext(next) {
		s.addToken(long)
	} else {
		s.addToken(short)
	}
}

func (s *Scanner) scanRightBrace() {
	n := len(s.holes)
	if n == 0 {
		s.addToken(RIGHT_BRACE)
		return
	}
	if s.holes[n-1].depth > 0 {
		s.holes[n-1].depth--
		s.addToken(RIGHT_BRACE)
		return
	}
	s.holes = s.holes[:n-1]
	s.addToken(INTERP_CLOSE)
	s.markStart()
	s.scanStringBody(false)
}

func (s *Scanner) scanDotOperator() {
	if s.matchNext('.') {
		s.pick(DOT_DOT_EQUAL, '=', DOT_DOT)
		return
	}
	s.addToken(DOT)
}

func (s *Scanner) scanAngleOperator(c byte, single, singleEq, double, doubleEq TokenType) {
	if s.matchNext(c) {
		s.pick(doubleEq, '=', double)
		return
	}
	s.pick(singleEq, '=', single)
}

func (s *Scanner) scanPipeOperator() {
	switch {
	case s.matchNext('|'):
		s.addToken(OR)
	case s.matchNext('='):
		s.addToken(PIPE_EQUAL)
	case s.matchNext('>'):
		s.addToken(PIPE_GREATER)
	default:
		s.addToken(PIPE)
	}
}

func (s *Scanner) scanSlashOperator() {
	if s.matchNext('=') {
		s.addToken(SLASH_EQUAL)
	} else if s.matchNext('/') {
		s.scanSingleLineComment()
	} else if s.matchNext('*') {
		s.scanBlockComment()
	} else {
		s.addToken(SLASH)
	}
}

func (s *Scanner) scanDefault(c byte) {
	if isDigit(c) {
		s.scanNumber(c)
		return
	}
	if isAlpha(c) {
		s.scanIdentifier()
		return
	}
	if c >= utf8.RuneSelf {
		r, size := utf8.DecodeRuneInString(s.source[s.start:])
		for i := 1; i < size; i++ {
			s.advance()
		}
		if unicode.IsLetter(r) {
			s.scanIdentifier()
			return
		}
		s.reportError(UnrecognisedByte, fmt.Sprintf("unexpected character %q", r))
		return
	}
	s.reportError(UnrecognisedByte, fmt.Sprintf("unexpected character %q", c))
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

func (s *Scanner) matchNext(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	return s.peekAt(1)
}

func (s *Scanner) peekAt(n int) byte {
	if s.current+n >= len(s.source) {
		return 0
	}
	return s.source[s.current+n]
}

func (s *Scanner) addToken(tokenType TokenType) {
	s.addLiteralToken(tokenType, "")
}

func (s *Scanner) addLiteralToken(tokenType TokenType, literal string) {
	s.tokens = append(s.tokens, Token{
		Type:    tokenType,
		Lexeme:  s.source[s.start:s.current],
		Literal: literal,
		Position: Position{
			Line:   s.startLine,
			Column: s.startColumn,
			Offset: s.start,
		},
		NewlineBefore: s.newline,
	})
	if !tokenType.IsTrivia() {
		s.newline = false
	}
}

func (s *Scanner) reportError(kind ScanErrorKind, message string) {
	s.reportErrorAt(kind, message, Position{Line: s.startLine, Column: s.startColumn, Offset: s.start}, s.current-s.start)
}

func (s *Scanner) reportErrorAt(kind ScanErrorKind, message string, pos Position, length int) {
	s.errors = append(s.errors, ScanError{
		Kind:     kind,
		Message:  message,
		Position: pos,
		Length:   length,
	})
}

func (s *Scanner) here() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.current}
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// Helper functions.

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isIdentContinue(c byte) bool {
	return isAlpha(c) || isDigit(c) || c >= utf8.RuneSelf
}

func isDigitInBase(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return '0' <= c && c <= '7'
	case 16:
		return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
	}
	return isDigit(c)
}

func (s *Scanner) scanIdentifier() {
	for !s.isAtEnd() && isIdentContinue(s.peek()) {
		if s.peek() >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s.source[s.current:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			for i := 0; i < size; i++ {
				s.advance()
			}
			continue
		}
		s.advance()
	}
	s.addToken(lookupIdentifier(s.source[s.start:s.current]))
}

func lookupIdentifier(text string) TokenType {
	if t, ok := KEYWORDS[text]; ok {
		return t
	}
	return IDENTIFIER
}

func (s *Scanner) scanDecorator() {
	if !isAlpha(s.peek()) {
		s.reportError(UnrecognisedByte, "expected decorator name after '@'")
		return
	}
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	s.addLiteralToken(DECORATOR, s.source[s.start+1:s.current])
}

// scanNumber scans decimal, hex, octal and binary integers, floats with optional
// exponent, underscores as separators and an optional type suffix like "u8"
func (s *Scanner) scanNumber(first byte) {
	tokenType := INT
	valid := true

	base := 10
	if first == '0' {
		switch s.peek() {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
	}

	if base != 10 {
		s.advance()
		digits := 0
		for isDigitInBase(s.peek(), base) || s.peek() == '_' {
			if s.peek() != '_' {
				digits++
			}
			s.advance()
		}
		if digits == 0 {
			valid = false
		}
		// digits of a larger base are a malformed literal, not a suffix
		for isDigit(s.peek()) {
			s.advance()
			valid = false
		}
	} else {
		s.scanDigits()
		if s.peek() == '.' && isDigit(s.peekNext()) {
			tokenType = FLOAT
			s.advance()
			s.scanDigits()
		}
		if e := s.peek(); e == 'e' || e == 'E' {
			next := s.peekNext()
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peekAt(2))) {
				tokenType = FLOAT
				s.advance()
				if next == '+' || next == '-' {
					s.advance()
				}
				s.scanDigits()
			}
		}
	}

	digitsEnd := s.current
	if isAlpha(s.peek()) {
		for isAlpha(s.peek()) || isDigit(s.peek()) {
			s.advance()
		}
		suffix := s.source[digitsEnd:s.current]
		switch {
		case !numericSuffixes[suffix]:
			s.reportError(BadNumber, fmt.Sprintf("invalid suffix %q for number literal", suffix))
			return
		case suffix == "f32" || suffix == "f64":
			if base != 10 {
				valid = false
			}
			tokenType = FLOAT
		case tokenType == FLOAT:
			s.reportError(BadNumber, fmt.Sprintf("integer suffix %q on float literal", suffix))
			return
		}
	}

	if !valid {
		s.reportError(BadNumber, fmt.Sprintf("malformed number literal %q", s.source[s.start:s.current]))
		return
	}
	s.addLiteralToken(tokenType, s.source[s.start:digitsEnd])
}

func (s *Scanner) scanDigits() {
	for isDigit(s.peek()) || s.peek() == '_' {
		s.advance()
	}
}

// scanStringBody scans string contents after an opening quote or a closing hole.
// It stops at the closing quote, at a "${" hole opener, or at end of input.
func (s *Scanner) scanStringBody(opening bool) {
	var value strings.Builder
	quote := Position{Line: s.startLine, Column: s.startColumn, Offset: s.start}
	if !opening {
		quote = s.currentQuote()
	}

	for !s.isAtEnd() {
		c := s.peek()
		switch {
		case c == '"':
			s.advance()
			if opening {
				s.addLiteralToken(STRING, value.String())
			} else {
				s.addLiteralToken(STRING_END, value.String())
			}
			return
		case c == '$' && s.peekNext() == '{':
			s.addLiteralToken(STRING_FRAGMENT, value.String())
			s.markStart()
			s.advance()
			s.advance()
			s.addToken(INTERP_OPEN)
			s.holes = append(s.holes, hole{quote: quote})
			return
		case c == '\\':
			s.scanEscape(&value, '"')
		default:
			r, size := utf8.DecodeRuneInString(s.source[s.current:])
			for i := 0; i < size; i++ {
				s.advance()
			}
			value.WriteRune(r)
		}
	}

	s.reportErrorAt(UnterminatedString, "unterminated string literal", quote, s.current-quote.Offset)
}

// currentQuote returns the position of the literal that owned the hole just closed
func (s *Scanner) currentQuote() Position {
	for i := len(s.tokens) - 1; i >= 0; i-- {
		if s.tokens[i].Type == STRING_FRAGMENT {
			return s.tokens[i].Position
		}
	}
	return s.here()
}

// scanEscape consumes a backslash escape and writes its value
func (s *Scanner) scanEscape(value *strings.Builder, quote byte) {
	escStart := s.here()
	s.advance() // backslash
	if s.isAtEnd() {
		return
	}
	c := s.advance()
	switch c {
	case 'n':
		value.WriteByte('\n')
	case 't':
		value.WriteByte('\t')
	case 'r':
		value.WriteByte('\r')
	case '0':
		value.WriteByte(0)
	case '\\', '\'', '"', '$':
		value.WriteByte(c)
	case 'u':
		if s.peek() != '{' {
			s.reportErrorAt(BadEscape, "expected '{' after \\u", escStart, 2)
			return
		}
		s.advance()
		hexStart := s.current
		for isDigitInBase(s.peek(), 16) {
			s.advance()
		}
		hex := s.source[hexStart:s.current]
		if !s.matchNext('}') || hex == "" {
			s.reportErrorAt(BadEscape, "malformed unicode escape", escStart, s.current-escStart.Offset)
			return
		}
		code, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			s.reportErrorAt(BadEscape, fmt.Sprintf("invalid unicode code point \\u{%s}", hex), escStart, s.current-escStart.Offset)
			return
		}
		value.WriteRune(rune(code))
	default:
		s.reportErrorAt(BadEscape, fmt.Sprintf("unknown escape sequence '\\%c'", c), escStart, 2)
		value.WriteByte(c)
	}
}

func (s *Scanner) scanChar() {
	var value strings.Builder
	switch {
	case s.isAtEnd() || s.peek() == '\n':
		s.reportError(UnterminatedString, "unterminated character literal")
		return
	case s.peek() == '\'':
		s.advance()
		s.reportError(UnterminatedString, "empty character literal")
		return
	case s.peek() == '\\':
		s.scanEscape(&value, '\'')
	default:
		r, size := utf8.DecodeRuneInString(s.source[s.current:])
		for i := 0; i < size; i++ {
			s.advance()
		}
		value.WriteRune(r)
	}
	if !s.matchNext('\'') {
		s.reportError(UnterminatedString, "unterminated character literal")
		return
	}
	s.addLiteralToken(CHAR, value.String())
}

func (s *Scanner) scanSingleLineComment() {
	for s.peek() != '\n' && !s.isAtEnd() {
		s.advance()
	}
	commentText := s.source[s.start:s.current]
	tokenType := COMMENT
	if strings.HasPrefix(commentText, "///") && !strings.HasPrefix(commentText, "////") {
		tokenType = DOC_COMMENT
	}
	s.addToken(tokenType)
}

// scanBlockComment scans a possibly nested /* ... */ comment
func (s *Scanner) scanBlockComment() {
	depth := 1
	for !s.isAtEnd() && depth > 0 {
		switch {
		case s.peek() == '/' && s.peekNext() == '*':
			s.advance()
			s.advance()
			depth++
		case s.peek() == '*' && s.peekNext() == '/':
			s.advance()
			s.advance()
			depth--
		default:
			if s.advance() == '\n' {
				s.newline = true
			}
		}
	}

	if depth > 0 {
		s.reportErrorAt(UnterminatedComment, "unterminated block comment",
			Position{Line: s.startLine, Column: s.startColumn, Offset: s.start}, 2)
		return
	}

	tokenType := BLOCK_COMMENT
	commentText := s.source[s.start:s.current]
	if strings.HasPrefix(commentText, "/**") && commentText != "/**/" {
		tokenType = DOC_COMMENT
	}
	s.addToken(tokenType)
}
