package parser

import "sort"

var KEYWORDS = map[string]TokenType{
	"fn":       FN,
	"let":      LET,
	"mut":      MUT,
	"if":       IF,
	"else":     ELSE,
	"match":    MATCH,
	"for":      FOR,
	"in":       IN,
	"while":    WHILE,
	"loop":     LOOP,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"struct":   STRUCT,
	"enum":     ENUM,
	"trait":    TRAIT,
	"impl":     IMPL,
	"pub":      PUB,
	"use":      USE,
	"mod":      MOD,
	"const":    CONST,
	"static":   STATIC,
	"type":     TYPE,
	"as":       AS,
	"where":    WHERE,
	"async":    ASYNC,
	"await":    AWAIT,
	"extern":   EXTERN,
	"move":     MOVE,
	"ref":      REF,
	"go":       GO,
	"self":     SELF,
	"true":     TRUE,
	"false":    FALSE,
}

// Keywords returns every reserved word in sorted order
func Keywords() []string {
	words := make([]string, 0, len(KEYWORDS))
	for w := range KEYWORDS {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
