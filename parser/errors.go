package parser

import (
	"fmt"

	"github.com/risor-io/phpsandbox/errors"
	"github.com/risor-io/phpsandbox/internal/token"
)

// Error is a single problem found while reading PHP source. Lexer failures
// have Kind "syntax error"; everything the parser rejects is a "parse error".
type Error struct {
	Kind  string
	Msg   string
	Cause error
	File  string
	Pos   token.Position
	End   token.Position
	// Line is the text of the source line holding Pos.
	Line string
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Kind == "" {
		return msg
	}
	return e.Kind + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage renders the error with its source line.
func (e *Error) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the error for the error formatter.
func (e *Error) ToFormatted() *errors.FormattedError {
	msg := e.Msg
	if e.Cause != nil {
		msg = e.Cause.Error()
	}
	fe := &errors.FormattedError{
		Code:     errors.E1001,
		Kind:     e.Kind,
		Message:  msg,
		Filename: e.File,
	}
	if e.Pos.IsValid() {
		fe.Line = e.Pos.LineNumber()
		fe.Column = e.Pos.ColumnNumber()
		fe.EndColumn = e.End.ColumnNumber()
		fe.SourceLines = []errors.SourceLineEntry{
			{Number: fe.Line, Text: e.Line, IsMain: true},
		}
	}
	return fe
}

// Errors is the list of problems returned by Parse, in source order.
type Errors []*Error

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e[0].Error(), len(e)-1)
}

// Unwrap exposes every error to errors.Is and errors.As.
func (e Errors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// Err returns e as an error, or nil when the list is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ToFormatted describes the first error; the rest are counted in a note.
func (e Errors) ToFormatted() *errors.FormattedError {
	if len(e) == 0 {
		return &errors.FormattedError{Kind: "parse error", Message: e.Error()}
	}
	fe := e[0].ToFormatted()
	if len(e) > 1 {
		fe.Note = fmt.Sprintf("%d more errors follow", len(e)-1)
	}
	return fe
}

// FriendlyErrorMessage renders every error with its source line.
func (e Errors) FriendlyErrorMessage() string {
	formatted := make([]*errors.FormattedError, len(e))
	for i, err := range e {
		formatted[i] = err.ToFormatted()
	}
	return errors.NewFormatter(false).FormatMultiple(formatted)
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	case token.VARIABLE:
		return "variable"
	case token.SEMICOLON:
		return `";"`
	}
	return string(t)
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.INLINE_HTML:
		return "inline html"
	case token.STRING, token.STRING_DQ, token.HEREDOC, token.NOWDOC:
		return "string"
	}
	if t.Literal == "" {
		return string(t.Type)
	}
	return t.Literal
}
