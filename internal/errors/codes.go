package errors

// Error codes for the Windjammer compiler
// These codes are used in diagnostics, the statistics file and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// WJ0001-WJ0099: Semantic analysis (resolution, types, ownership)
// E0100-E0109:   Lexical errors
// E0110-E0199:   Syntactic errors
// E0900-E0999:   Internal compiler errors
// W0001-W0099:   Warnings

const (
	// WJ0001: Variable resolution errors
	ErrorVariableNotFound = "WJ0001"

	// WJ0002: Function resolution errors
	ErrorFunctionNotFound = "WJ0002"

	// WJ0003: Type compatibility errors
	ErrorTypeMismatch = "WJ0003"

	// WJ0004: Assignment to an immutable binding
	ErrorImmutableAssign = "WJ0004"

	// WJ0005: Type resolution errors
	ErrorTypeNotFound = "WJ0005"

	// WJ0006: Import resolution errors
	ErrorModuleNotFound = "WJ0006"

	// WJ0007: Ownership inference fell back to owned
	ErrorOwnershipAmbiguous = "WJ0007"

	// WJ0008: Conflicting borrows of one binding
	ErrorBorrowConflict = "WJ0008"

	// WJ0009: Struct field errors (missing or undeclared)
	ErrorMissingField = "WJ0009"

	// WJ0010: Enum match does not cover every variant
	ErrorNonExhaustiveMatch = "WJ0010"

	// WJ0011: A file and a directory define the same module
	ErrorDuplicateModule = "WJ0011"

	// Lexical errors (E0100-E0109)
	ErrorUnterminatedString  = "E0100"
	ErrorUnterminatedComment = "E0101"
	ErrorBadEscape           = "E0102"
	ErrorBadNumber           = "E0103"
	ErrorUnrecognisedByte    = "E0104"

	// Syntactic errors (E0110-E0199)
	ErrorUnexpectedToken   = "E0110"
	ErrorMissingTerminator = "E0111"
	ErrorMalformedItem     = "E0112"
	ErrorUnclosedDelimiter = "E0113"

	// E0900: Internal invariant violated during emission
	ErrorInternal = "E0900"

	// W0001: Unused variable warning
	WarningUnusedVariable = "W0001"

	// W0002: Unreachable code warning
	WarningUnreachableCode = "W0002"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorVariableNotFound:
		return "Variable is used but not defined in the current scope"
	case ErrorFunctionNotFound:
		return "Function is called but not imported or defined"
	case ErrorTypeMismatch:
		return "Expression type does not match expected type"
	case ErrorImmutableAssign:
		return "Binding is assigned but was not declared mutable"
	case ErrorTypeNotFound:
		return "Type is referenced but not declared or imported"
	case ErrorModuleNotFound:
		return "Imported module could not be found"
	case ErrorOwnershipAmbiguous:
		return "Parameter is both borrowed and moved; passed by value"
	case ErrorBorrowConflict:
		return "Binding is borrowed mutably while already borrowed"
	case ErrorMissingField:
		return "Required field missing in struct literal"
	case ErrorNonExhaustiveMatch:
		return "Match over an enum does not cover every variant"
	case ErrorDuplicateModule:
		return "A source file and a directory define the same module"
	case ErrorUnterminatedString:
		return "String or character literal is not closed"
	case ErrorUnterminatedComment:
		return "Block comment is not closed"
	case ErrorBadEscape:
		return "Unknown escape sequence in literal"
	case ErrorBadNumber:
		return "Malformed numeric literal"
	case ErrorUnrecognisedByte:
		return "Character is not part of the language"
	case ErrorUnexpectedToken:
		return "Token is not valid at this position"
	case ErrorMissingTerminator:
		return "Statement or list is missing its terminator"
	case ErrorMalformedItem:
		return "Item header could not be parsed"
	case ErrorUnclosedDelimiter:
		return "Opening delimiter has no matching close"
	case ErrorInternal:
		return "Internal compiler error while emitting an item"
	case WarningUnusedVariable:
		return "Variable is declared but never used"
	case WarningUnreachableCode:
		return "Code is unreachable"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W' && (len(code) < 2 || code[1] != 'J')
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case len(code) > 2 && code[:2] == "WJ":
		return "Semantic Analysis"
	case code >= "E0100" && code < "E0110":
		return "Lexer"
	case code >= "E0110" && code < "E0200":
		return "Parser"
	case code >= "E0900" && code < "E1000":
		return "Internal"
	case IsWarning(code):
		return "Warning"
	default:
		return "Unknown"
	}
}
