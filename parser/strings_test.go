package parser

import (
	"testing"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/stretchr/testify/require"
)

func requireParts(t *testing.T, x ast.Expr) []ast.Expr {
	t.Helper()
	s, ok := x.(*ast.InterpolatedString)
	require.True(t, ok, "expected *ast.InterpolatedString, got %T", x)
	return s.Parts
}

func TestSingleQuoted(t *testing.T) {
	s, ok := parseExpr(t, `'it\'s'`).(*ast.String)
	require.True(t, ok)
	require.False(t, s.Double)
	require.Equal(t, `it\'s`, s.Raw)
	require.Equal(t, "it's", s.Value())
}

func TestDoubleQuotedWithoutInterpolation(t *testing.T) {
	s, ok := parseExpr(t, `"a\tb \$c"`).(*ast.String)
	require.True(t, ok)
	require.True(t, s.Double)
	require.Equal(t, "a\tb $c", s.Value())

	s, ok = parseExpr(t, `""`).(*ast.String)
	require.True(t, ok)
	require.Equal(t, "", s.Raw)
}

func TestSimpleInterpolation(t *testing.T) {
	parts := requireParts(t, parseExpr(t, `"a $b c"`))
	require.Len(t, parts, 3)
	require.Equal(t, "a ", parts[0].(*ast.EncapsedText).Raw)
	require.Equal(t, "b", parts[1].(*ast.Variable).Name)
	require.Equal(t, " c", parts[2].(*ast.EncapsedText).Raw)

	parts = requireParts(t, parseExpr(t, `"$a[0] $a[key] $a[$i] $a->b $a?->c"`))
	require.Len(t, parts, 9)

	idx := parts[0].(*ast.Index)
	require.Equal(t, "0", idx.Index.(*ast.Int).Literal)
	idx = parts[2].(*ast.Index)
	require.Equal(t, "key", idx.Index.(*ast.String).Raw)
	idx = parts[4].(*ast.Index)
	require.Equal(t, "i", idx.Index.(*ast.Variable).Name)

	prop := parts[6].(*ast.PropertyFetch)
	require.Equal(t, "b", prop.Name.(*ast.Identifier).Name)
	require.False(t, prop.NullSafe)
	prop = parts[8].(*ast.PropertyFetch)
	require.True(t, prop.NullSafe)
}

func TestComplexInterpolation(t *testing.T) {
	parts := requireParts(t, parseExpr(t, `"x {$a['k']} {$o->m()} y"`))
	require.Len(t, parts, 5)
	_, ok := parts[1].(*ast.Index)
	require.True(t, ok)
	_, ok = parts[3].(*ast.MethodCall)
	require.True(t, ok)
	require.Equal(t, " y", parts[4].(*ast.EncapsedText).Raw)

	parts = requireParts(t, parseExpr(t, `"${name} ${arr['k']} ${'dyn'}"`))
	require.Len(t, parts, 5)
	require.Equal(t, "name", parts[0].(*ast.Variable).Name)
	idx := parts[2].(*ast.Index)
	require.Equal(t, "arr", idx.X.(*ast.Variable).Name)
	vv := parts[4].(*ast.VarVar)
	require.True(t, vv.Braced)
}

func TestInterpolationPositions(t *testing.T) {
	parts := requireParts(t, parseExpr(t, `$x = "ab {$c}"`).(*ast.Assign).Y)
	v := parts[1].(*ast.Variable)
	require.Equal(t, 1, v.Pos().LineNumber())
	require.Equal(t, 17, v.Pos().ColumnNumber())
}

func TestInterpolationErrors(t *testing.T) {
	require.Contains(t, parseError(t, `<?php "{$a +}";`), "invalid expression in interpolated string")
	require.Contains(t, parseError(t, `<?php "$a[";`), "invalid array offset in interpolated string")
	require.Contains(t, parseError(t, `<?php "$a[-]";`), "invalid array offset in interpolated string")
	require.Contains(t, parseError(t, `<?php "$a[-x]";`), "invalid array offset in interpolated string")
}

func TestNegativeInterpolationOffset(t *testing.T) {
	parts := requireParts(t, parseExpr(t, `"$a[-12]"`))
	require.Len(t, parts, 1)
	idx := parts[0].(*ast.Index)
	require.Equal(t, "-12", idx.Index.(*ast.Int).Literal)
}

func TestNowdoc(t *testing.T) {
	src := "<<<'EOT'\nit's a \\ here $x\nEOT"
	s, ok := parseExpr(t, src).(*ast.String)
	require.True(t, ok)
	require.False(t, s.Double)
	require.Equal(t, `it\'s a \\ here $x`, s.Raw)
	require.Equal(t, `it's a \ here $x`, s.Value())
}

func TestHeredoc(t *testing.T) {
	src := "<<<EOT\n    say \"hi\" $name\n    EOT"
	parts := requireParts(t, parseExpr(t, src))
	require.Len(t, parts, 2)
	require.Equal(t, `say \"hi\" `, parts[0].(*ast.EncapsedText).Raw)
	require.Equal(t, "name", parts[1].(*ast.Variable).Name)

	s, ok := parseExpr(t, "<<<\"EOT\"\nplain \\\" text\nEOT").(*ast.String)
	require.True(t, ok)
	require.True(t, s.Double)
	require.Equal(t, `plain \\\" text`, s.Raw)
	require.Equal(t, `plain \" text`, s.Value())
}

func TestHeredocTrailingBackslash(t *testing.T) {
	s, ok := parseExpr(t, "<<<EOT\nx\\\nEOT").(*ast.String)
	require.True(t, ok)
	require.Equal(t, `x\\`, s.Raw)
	require.Equal(t, `x\`, s.Value())

	parts := requireParts(t, parseExpr(t, "<<<EOT\n$a \\\\ y\\\nEOT"))
	require.Len(t, parts, 2)
	require.Equal(t, ` \\ y\\`, parts[1].(*ast.EncapsedText).Raw)
}

func TestShellExec(t *testing.T) {
	x, ok := parseExpr(t, "`ls $dir`").(*ast.ShellExec)
	require.True(t, ok)
	require.Len(t, x.Parts, 2)
	require.Equal(t, "ls ", x.Parts[0].(*ast.EncapsedText).Raw)
}
