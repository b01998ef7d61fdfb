package cache

import (
	"fmt"
	"strings"

	phperrors "github.com/risor-io/phpsandbox/errors"
)

// StoreError reports a failure to read or write a stored unit.
type StoreError struct {
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache: storing %s: %v", e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ToFormatted converts the error for the error formatter.
func (e *StoreError) ToFormatted() *phperrors.FormattedError {
	return &phperrors.FormattedError{
		Code:     phperrors.E3002,
		Kind:     "cache error",
		Message:  e.Err.Error(),
		Filename: e.Path,
	}
}

// ExecError reports a stored unit that failed to run.
type ExecError struct {
	Path     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("executing %s", e.Path)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(": exit status %d", e.ExitCode)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// ToFormatted converts the error for the error formatter.
func (e *ExecError) ToFormatted() *phperrors.FormattedError {
	fe := &phperrors.FormattedError{
		Code:     phperrors.E3001,
		Kind:     "execution error",
		Message:  "execution failed",
		Filename: e.Path,
		Note:     strings.TrimSpace(e.Stderr),
	}
	if e.ExitCode != 0 {
		fe.Message = fmt.Sprintf("execution failed with exit status %d", e.ExitCode)
	}
	return fe
}
