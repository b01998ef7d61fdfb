package errz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/risor-io/phpsandbox/internal/token"
	"github.com/stretchr/testify/require"
)

func TestViolationKindString(t *testing.T) {
	names := map[ViolationKind]string{}
	for _, kind := range Kinds() {
		names[kind] = kind.String()
		require.NotEmpty(t, kind.Code().String())
	}
	require.Equal(t, "disallowed-callable", names[DisallowedCallable])
	require.Equal(t, "namespace-scope-violation", names[NamespaceScope])
	require.Equal(t, "global-namespace-declaration-violation", names[GlobalNamespaceDeclaration])
	require.Equal(t, "unknown", ViolationKind(0).String())
}

func TestPolicyViolation(t *testing.T) {
	pos := token.Position{Char: 6, Line: 0, Column: 6, File: "input.php"}
	v := Violationf(DisallowedCallable, pos, "Call to a not allowed function %s", "system")
	v.Source = "<?php system('ls');"
	v.Hint = "Did you mean 'strlen'?"
	require.Equal(t, "Call to a not allowed function system", v.Error())

	msg := v.FriendlyErrorMessage()
	require.Contains(t, msg, "policy violation[E2001]: Call to a not allowed function system")
	require.Contains(t, msg, "--> input.php:1:7")
	require.Contains(t, msg, " 1 | <?php system('ls');")
	require.Contains(t, msg, "hint: Did you mean 'strlen'?")
}

func TestIsViolation(t *testing.T) {
	v := Violationf(DisallowedConstruct, token.NoPos, "Eval is not allowed")
	wrapped := fmt.Errorf("sanitize: %w", v)

	require.True(t, IsViolation(wrapped, DisallowedConstruct))
	require.False(t, IsViolation(wrapped, DisallowedCallable))
	require.False(t, IsParseFailure(wrapped))

	got, ok := AsViolation(wrapped)
	require.True(t, ok)
	require.Same(t, v, got)

	_, ok = AsViolation(errors.New("other"))
	require.False(t, ok)
}

func TestParseFailure(t *testing.T) {
	empty := &ParseFailure{Message: "Found no tokens"}
	require.True(t, IsParseFailure(empty))
	require.Nil(t, errors.Unwrap(empty))
	require.Equal(t, "parse error[E1002]: Found no tokens\n", empty.FriendlyErrorMessage())

	cause := errors.New("syntax error: unexpected end of file")
	pf := NewParseFailure(cause)
	require.Equal(t, cause.Error(), pf.Error())
	require.ErrorIs(t, pf, cause)
	require.True(t, IsParseFailure(fmt.Errorf("wrapped: %w", pf)))
	require.False(t, IsViolation(pf, DisallowedCallable))
}
