package errors

// Error codes for the cinder compiler. Codes are stable identifiers used in
// diagnostics and documentation.
//
// Error code ranges:
// E0001-E0099: Semantic analysis errors
// E0100-E0199: Parser errors
// E0800-E0899: Warning codes
// E0900-E0999: Internal consistency failures

const (
	// E0001: Variable resolution errors
	ErrorUndefinedVariable = "E0001"

	// E0002: Function resolution errors
	ErrorUndefinedFunction = "E0002"

	// E0003: Type compatibility errors
	ErrorTypeMismatch = "E0003"

	// E0004: Duplicate declaration errors
	ErrorDuplicateDeclaration = "E0004"

	// E0005: Unknown type name errors
	ErrorUnknownType = "E0005"

	// E0006: Function call argument errors
	ErrorInvalidArguments = "E0006"

	// E0007: Assignment target errors
	ErrorInvalidAssignment = "E0007"

	// E0008: break/continue outside a loop
	ErrorMisplacedJump = "E0008"

	// E0100: Syntax errors surfaced from the parser
	ErrorSyntax = "E0100"

	// E0800: Unused variable warnings
	WarningUnusedVariable = "E0800"
)
