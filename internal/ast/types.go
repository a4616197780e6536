package ast

import (
	"strconv"
	"strings"
)

type NodeType int

const (
	// Special / error
	ILLEGAL NodeType = iota
	BAD_ITEM
	BAD_EXPR

	// High-level constructs
	PROGRAM
	IDENT
	DECORATOR
	DECORATOR_ARG

	// Items
	FUNCTION
	SELF_PARAM
	PARAM
	TYPE_PARAM
	WHERE_PREDICATE
	STRUCT
	FIELD
	ENUM
	VARIANT
	TRAIT
	IMPL
	CONST
	STATIC
	TYPE_ALIAS
	USE
	MOD_DECL
	MACRO_ITEM

	// Statements
	BLOCK
	LET_STMT
	ASSIGN_STMT
	EXPR_STMT
	RETURN_STMT
	BREAK_STMT
	CONTINUE_STMT
	ITEM_STMT

	// Expressions
	LITERAL_EXPR
	IDENT_EXPR
	PATH_EXPR
	BINARY_EXPR
	UNARY_EXPR
	CALL_EXPR
	METHOD_CALL_EXPR
	FIELD_ACCESS_EXPR
	INDEX_EXPR
	BLOCK_EXPR
	IF_EXPR
	MATCH_EXPR
	FOR_EXPR
	WHILE_EXPR
	LOOP_EXPR
	CLOSURE_EXPR
	TUPLE_EXPR
	ARRAY_EXPR
	MAP_EXPR
	STRUCT_LITERAL_EXPR
	RANGE_EXPR
	CAST_EXPR
	PIPE_EXPR
	MACRO_EXPR
	TRY_EXPR
	AWAIT_EXPR
	PAREN_EXPR
	GO_EXPR
	INTERPOLATED_STRING
	ARG
	MATCH_ARM
	CLOSURE_PARAM
	MAP_ENTRY
	FIELD_INIT

	// Patterns
	WILDCARD_PATTERN
	IDENT_PATTERN
	LITERAL_PATTERN
	TUPLE_PATTERN
	FIELD_PATTERN
	ENUM_PATTERN
	OR_PATTERN
	REF_PATTERN
	RANGE_PATTERN

	// Types
	PRIMITIVE_TYPE
	NAMED_TYPE
	TUPLE_TYPE
	ARRAY_TYPE
	SLICE_TYPE
	FUNC_TYPE
	REF_TYPE
	INFER_TYPE
)

var nodeTypeNames = [...]string{
	ILLEGAL:             "ILLEGAL",
	BAD_ITEM:            "BAD_ITEM",
	BAD_EXPR:            "BAD_EXPR",
	PROGRAM:             "PROGRAM",
	IDENT:               "IDENT",
	DECORATOR:           "DECORATOR",
	DECORATOR_ARG:       "DECORATOR_ARG",
	FUNCTION:            "FUNCTION",
	SELF_PARAM:          "SELF_PARAM",
	PARAM:               "PARAM",
	TYPE_PARAM:          "TYPE_PARAM",
	WHERE_PREDICATE:     "WHERE_PREDICATE",
	STRUCT:              "STRUCT",
	FIELD:               "FIELD",
	ENUM:                "ENUM",
	VARIANT:             "VARIANT",
	TRAIT:               "TRAIT",
	IMPL:                "IMPL",
	CONST:               "CONST",
	STATIC:              "STATIC",
	TYPE_ALIAS:          "TYPE_ALIAS",
	USE:                 "USE",
	MOD_DECL:            "MOD_DECL",
	MACRO_ITEM:          "MACRO_ITEM",
	BLOCK:               "BLOCK",
	LET_STMT:            "LET_STMT",
	ASSIGN_STMT:         "ASSIGN_STMT",
	EXPR_STMT:           "EXPR_STMT",
	RETURN_STMT:         "RETURN_STMT",
	BREAK_STMT:          "BREAK_STMT",
	CONTINUE_STMT:       "CONTINUE_STMT",
	ITEM_STMT:           "ITEM_STMT",
	LITERAL_EXPR:        "LITERAL_EXPR",
	IDENT_EXPR:          "IDENT_EXPR",
	PATH_EXPR:           "PATH_EXPR",
	BINARY_EXPR:         "BINARY_EXPR",
	UNARY_EXPR:          "UNARY_EXPR",
	CALL_EXPR:           "CALL_EXPR",
	METHOD_CALL_EXPR:    "METHOD_CALL_EXPR",
	FIELD_ACCESS_EXPR:   "FIELD_ACCESS_EXPR",
	INDEX_EXPR:          "INDEX_EXPR",
	BLOCK_EXPR:          "BLOCK_EXPR",
	IF_EXPR:             "IF_EXPR",
	MATCH_EXPR:          "MATCH_EXPR",
	FOR_EXPR:            "FOR_EXPR",
	WHILE_EXPR:          "WHILE_EXPR",
	LOOP_EXPR:           "LOOP_EXPR",
	CLOSURE_EXPR:        "CLOSURE_EXPR",
	TUPLE_EXPR:          "TUPLE_EXPR",
	ARRAY_EXPR:          "ARRAY_EXPR",
	MAP_EXPR:            "MAP_EXPR",
	STRUCT_LITERAL_EXPR: "STRUCT_LITERAL_EXPR",
	RANGE_EXPR:          "RANGE_EXPR",
	CAST_EXPR:           "CAST_EXPR",
	PIPE_EXPR:           "PIPE_EXPR",
	MACRO_EXPR:          "MACRO_EXPR",
	TRY_EXPR:            "TRY_EXPR",
	AWAIT_EXPR:          "AWAIT_EXPR",
	PAREN_EXPR:          "PAREN_EXPR",
	GO_EXPR:             "GO_EXPR",
	INTERPOLATED_STRING: "INTERPOLATED_STRING",
	ARG:                 "ARG",
	MATCH_ARM:           "MATCH_ARM",
	CLOSURE_PARAM:       "CLOSURE_PARAM",
	MAP_ENTRY:           "MAP_ENTRY",
	FIELD_INIT:          "FIELD_INIT",
	WILDCARD_PATTERN:    "WILDCARD_PATTERN",
	IDENT_PATTERN:       "IDENT_PATTERN",
	LITERAL_PATTERN:     "LITERAL_PATTERN",
	TUPLE_PATTERN:       "TUPLE_PATTERN",
	FIELD_PATTERN:       "FIELD_PATTERN",
	ENUM_PATTERN:        "ENUM_PATTERN",
	OR_PATTERN:          "OR_PATTERN",
	REF_PATTERN:         "REF_PATTERN",
	RANGE_PATTERN:       "RANGE_PATTERN",
	PRIMITIVE_TYPE:      "PRIMITIVE_TYPE",
	NAMED_TYPE:          "NAMED_TYPE",
	TUPLE_TYPE:          "TUPLE_TYPE",
	ARRAY_TYPE:          "ARRAY_TYPE",
	SLICE_TYPE:          "SLICE_TYPE",
	FUNC_TYPE:           "FUNC_TYPE",
	REF_TYPE:            "REF_TYPE",
	INFER_TYPE:          "INFER_TYPE",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return "NodeType(" + strconv.Itoa(int(t)) + ")"
	}
	return nodeTypeNames[t]
}

// Title returns the node type in lower-case words, e.g. "method call expr"
func (t NodeType) Title() string {
	return strings.ToLower(strings.ReplaceAll(t.String(), "_", " "))
}
