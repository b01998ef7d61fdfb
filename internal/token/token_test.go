package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Keywords are case-insensitive in PHP.
func TestLookup(t *testing.T) {
	for key, val := range keywords {
		require.Equal(t, val, LookupIdentifier(key), key)
		require.Equal(t, val, LookupIdentifier(strings.ToUpper(key)), key)
	}
	require.Equal(t, Type(IDENT), LookupIdentifier("strlen"))
	require.Equal(t, Type(MAGIC_CONST), LookupIdentifier("__DIR__"))
	require.Equal(t, Type(EXIT), LookupIdentifier("die"))
}

func TestLookupCast(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"int", "int", true},
		{"INTEGER", "int", true},
		{"double", "float", true},
		{"boolean", "bool", true},
		{"binary", "string", true},
		{"foo", "", false},
	}
	for _, tt := range tests {
		got, ok := LookupCast(tt.input)
		require.Equal(t, tt.ok, ok, tt.input)
		require.Equal(t, tt.expected, got, tt.input)
	}
}

func TestSemiReserved(t *testing.T) {
	require.True(t, IsSemiReserved(IDENT))
	require.True(t, IsSemiReserved(CLASS))
	require.True(t, IsSemiReserved(LIST))
	require.False(t, IsSemiReserved(VARIABLE))
	require.False(t, IsSemiReserved(LPAREN))
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		StartPosition: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	require.Equal(t, 3, tok.StartPosition.LineNumber())
	require.Equal(t, 1, tok.StartPosition.ColumnNumber())
	require.False(t, NoPos.IsValid())
	require.True(t, tok.StartPosition.Advance(3).IsValid())
}
