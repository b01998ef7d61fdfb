package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E2xxx: Policy violations
//   - E3xxx: Execution errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Syntax error
	E1002 ErrorCode = "E1002" // Empty input

	// Policy violations (E2xxx)
	E2001 ErrorCode = "E2001" // Disallowed callable
	E2002 ErrorCode = "E2002" // Disallowed type
	E2003 ErrorCode = "E2003" // Disallowed construct
	E2004 ErrorCode = "E2004" // Disallowed callable argument
	E2005 ErrorCode = "E2005" // Namespace outside the required root
	E2006 ErrorCode = "E2006" // Declaration in the global namespace

	// Execution errors (E3xxx)
	E3001 ErrorCode = "E3001" // Host execution failed
	E3002 ErrorCode = "E3002" // Cache write failed
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "syntax error",
	E1002: "empty input",

	E2001: "disallowed callable",
	E2002: "disallowed type",
	E2003: "disallowed construct",
	E2004: "disallowed callable argument",
	E2005: "namespace scope violation",
	E2006: "global namespace declaration",

	E3001: "execution failed",
	E3002: "cache write failed",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "policy"
	case '3':
		return "execution"
	default:
		return "unknown"
	}
}
