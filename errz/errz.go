// Package errz defines the two error kinds a sanitization can end with:
// a ParseFailure for input that could not be parsed, and a PolicyViolation
// for input that parsed but breaks the policy.
package errz

import (
	"errors"
	"fmt"

	phperrors "github.com/risor-io/phpsandbox/errors"
	"github.com/risor-io/phpsandbox/internal/token"
)

// ViolationKind is the category of a policy violation.
type ViolationKind int

const (
	// DisallowedCallable is a call to a function outside the allow-list.
	DisallowedCallable ViolationKind = iota + 1
	// DisallowedType is a construction or static access of a class outside
	// the allow-list.
	DisallowedType
	// DisallowedConstruct is a language construct that is always rejected.
	DisallowedConstruct
	// DisallowedCallableArgument is a missing or malformed callable passed
	// to a higher-order function.
	DisallowedCallableArgument
	// NamespaceScope is a namespace outside the required root.
	NamespaceScope
	// GlobalNamespaceDeclaration is a function or constant declared in the
	// global namespace while that is restricted.
	GlobalNamespaceDeclaration
)

var kindNames = map[ViolationKind]string{
	DisallowedCallable:         "disallowed-callable",
	DisallowedType:             "disallowed-type",
	DisallowedConstruct:        "disallowed-construct",
	DisallowedCallableArgument: "disallowed-callable-argument",
	NamespaceScope:             "namespace-scope-violation",
	GlobalNamespaceDeclaration: "global-namespace-declaration-violation",
}

var kindCodes = map[ViolationKind]phperrors.ErrorCode{
	DisallowedCallable:         phperrors.E2001,
	DisallowedType:             phperrors.E2002,
	DisallowedConstruct:        phperrors.E2003,
	DisallowedCallableArgument: phperrors.E2004,
	NamespaceScope:             phperrors.E2005,
	GlobalNamespaceDeclaration: phperrors.E2006,
}

// String returns the kebab-case category name, e.g. "disallowed-callable".
func (k ViolationKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Code returns the error code shown by the formatter.
func (k ViolationKind) Code() phperrors.ErrorCode {
	return kindCodes[k]
}

// Kinds lists every violation kind, in declaration order.
func Kinds() []ViolationKind {
	return []ViolationKind{
		DisallowedCallable,
		DisallowedType,
		DisallowedConstruct,
		DisallowedCallableArgument,
		NamespaceScope,
		GlobalNamespaceDeclaration,
	}
}

// PolicyViolation reports source that breaks the policy. The first
// violation found ends the sanitization.
type PolicyViolation struct {
	Kind     ViolationKind
	Message  string
	Position token.Position
	// Source is the line of source code holding Position, when known.
	Source string
	// Hint is an optional suggestion, such as a similar allowed name.
	Hint string
}

// Violationf returns a PolicyViolation with a formatted message.
func Violationf(kind ViolationKind, pos token.Position, format string, args ...any) *PolicyViolation {
	return &PolicyViolation{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	}
}

// Error returns the violation message.
func (e *PolicyViolation) Error() string {
	return e.Message
}

// FriendlyErrorMessage renders the violation with its source context.
func (e *PolicyViolation) FriendlyErrorMessage() string {
	return phperrors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the violation for the error formatter.
func (e *PolicyViolation) ToFormatted() *phperrors.FormattedError {
	fe := &phperrors.FormattedError{
		Code:     e.Kind.Code(),
		Kind:     "policy violation",
		Message:  e.Message,
		Filename: e.Position.File,
		Hint:     e.Hint,
	}
	if e.Position.IsValid() {
		fe.Line = e.Position.LineNumber()
		fe.Column = e.Position.ColumnNumber()
	}
	if e.Source != "" && fe.Line > 0 {
		fe.SourceLines = []phperrors.SourceLineEntry{
			{Number: fe.Line, Text: e.Source, IsMain: true},
		}
	}
	return fe
}

// ParseFailure reports input that could not be parsed, or that contained
// no tokens at all. Cause holds the parser diagnostic when there is one.
type ParseFailure struct {
	Message string
	Cause   error
}

// NewParseFailure wraps a parser error.
func NewParseFailure(cause error) *ParseFailure {
	return &ParseFailure{Message: cause.Error(), Cause: cause}
}

func (e *ParseFailure) Error() string {
	return e.Message
}

func (e *ParseFailure) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage defers to the parser diagnostic when it can render
// itself, which includes source lines and carets.
func (e *ParseFailure) FriendlyErrorMessage() string {
	var friendly phperrors.FriendlyError
	if errors.As(e.Cause, &friendly) {
		return friendly.FriendlyErrorMessage()
	}
	return phperrors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the failure for the error formatter.
func (e *ParseFailure) ToFormatted() *phperrors.FormattedError {
	var formattable phperrors.FormattableError
	if errors.As(e.Cause, &formattable) {
		return formattable.ToFormatted()
	}
	code := phperrors.E1001
	if e.Cause == nil {
		code = phperrors.E1002
	}
	return &phperrors.FormattedError{Code: code, Kind: "parse error", Message: e.Message}
}

// AsViolation returns the PolicyViolation in err's chain, if any.
func AsViolation(err error) (*PolicyViolation, bool) {
	var v *PolicyViolation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// IsViolation reports whether err is a PolicyViolation of the given kind.
func IsViolation(err error, kind ViolationKind) bool {
	v, ok := AsViolation(err)
	return ok && v.Kind == kind
}

// IsParseFailure reports whether err is a ParseFailure.
func IsParseFailure(err error) bool {
	var pf *ParseFailure
	return errors.As(err, &pf)
}
