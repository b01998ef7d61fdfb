package parser

import (
	"testing"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/stretchr/testify/require"
)

func requireBinary(t *testing.T, x ast.Expr, op string) *ast.Binary {
	t.Helper()
	b, ok := x.(*ast.Binary)
	require.True(t, ok, "expected *ast.Binary, got %T", x)
	require.Equal(t, op, b.Op)
	return b
}

func TestPrecedence(t *testing.T) {
	b := requireBinary(t, parseExpr(t, "1 + 2 * 3"), "+")
	requireBinary(t, b.Y, "*")

	b = requireBinary(t, parseExpr(t, "1 . 2 + 3"), ".")
	requireBinary(t, b.Y, "+")

	b = requireBinary(t, parseExpr(t, "$a && $b || $c"), "||")
	requireBinary(t, b.X, "&&")

	b = requireBinary(t, parseExpr(t, "$a == 1 && $b < 2"), "&&")
	requireBinary(t, b.X, "==")
	requireBinary(t, b.Y, "<")
}

func TestRightAssociative(t *testing.T) {
	b := requireBinary(t, parseExpr(t, "2 ** 3 ** 2"), "**")
	requireBinary(t, b.Y, "**")

	b = requireBinary(t, parseExpr(t, "$a ?? $b ?? $c"), "??")
	requireBinary(t, b.Y, "??")

	b = requireBinary(t, parseExpr(t, "1 - 2 - 3"), "-")
	requireBinary(t, b.X, "-")
}

func TestLogicalKeywords(t *testing.T) {
	b := requireBinary(t, parseExpr(t, "$a AND $b"), "and")
	_, ok := b.X.(*ast.Variable)
	require.True(t, ok)

	// "or" binds looser than assignment
	b = requireBinary(t, parseExpr(t, "$a = f() or g()"), "or")
	_, ok = b.X.(*ast.Assign)
	require.True(t, ok)
}

func TestUnaryPrecedence(t *testing.T) {
	u, ok := parseExpr(t, "-$a ** 2").(*ast.Unary)
	require.True(t, ok)
	require.Equal(t, "-", u.Op)
	requireBinary(t, u.X, "**")

	u, ok = parseExpr(t, "!$a instanceof Foo").(*ast.Unary)
	require.True(t, ok)
	require.Equal(t, "!", u.Op)
	requireBinary(t, u.X, "instanceof")

	u, ok = parseExpr(t, "!$a = f()").(*ast.Unary)
	require.True(t, ok)
	_, ok = u.X.(*ast.Assign)
	require.True(t, ok)
}

func TestAssignment(t *testing.T) {
	a, ok := parseExpr(t, "$a = $b = 1").(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "=", a.Op)
	_, ok = a.Y.(*ast.Assign)
	require.True(t, ok)

	a, ok = parseExpr(t, "$a =& $b").(*ast.Assign)
	require.True(t, ok)
	require.True(t, a.ByRef)

	a, ok = parseExpr(t, "$a ??= []").(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "??=", a.Op)

	a, ok = parseExpr(t, "[$a, , [$b]] = $c").(*ast.Assign)
	require.True(t, ok)
	arr, ok := a.X.(*ast.Array)
	require.True(t, ok)
	require.Len(t, arr.Items, 3)
	require.Nil(t, arr.Items[1])

	a, ok = parseExpr(t, "list('k' => $v) = $c").(*ast.Assign)
	require.True(t, ok)
	arr, ok = a.X.(*ast.Array)
	require.True(t, ok)
	require.Equal(t, ast.ArrayList, arr.Style)
}

func TestTernary(t *testing.T) {
	tern, ok := parseExpr(t, "$a ? 1 : 2").(*ast.Ternary)
	require.True(t, ok)
	require.NotNil(t, tern.Then)

	tern, ok = parseExpr(t, "$a ?: 2").(*ast.Ternary)
	require.True(t, ok)
	require.Nil(t, tern.Then)
}

func TestCalls(t *testing.T) {
	call, ok := parseExpr(t, `\strlen("x")`).(*ast.Call)
	require.True(t, ok)
	name, ok := call.Func.(*ast.Name)
	require.True(t, ok)
	require.Equal(t, `\strlen`, name.Value)
	require.Equal(t, ast.FullyQualified, name.Kind)

	call, ok = parseExpr(t, "foo(a: 1, ...$rest,)").(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	require.Equal(t, "a", call.Args[0].Name.Name)
	require.True(t, call.Args[1].Spread)

	call, ok = parseExpr(t, "strlen(...)").(*ast.Call)
	require.True(t, ok)
	require.True(t, call.Placeholder)

	call, ok = parseExpr(t, "$f()()").(*ast.Call)
	require.True(t, ok)
	_, ok = call.Func.(*ast.Call)
	require.True(t, ok)
}

func TestMembers(t *testing.T) {
	m, ok := parseExpr(t, "$obj?->run(1)").(*ast.MethodCall)
	require.True(t, ok)
	require.True(t, m.NullSafe)
	require.Equal(t, "run", m.Name.(*ast.Identifier).Name)

	p, ok := parseExpr(t, "$obj->list").(*ast.PropertyFetch)
	require.True(t, ok)
	require.Equal(t, "list", p.Name.(*ast.Identifier).Name)

	sc, ok := parseExpr(t, "Foo::bar()").(*ast.StaticCall)
	require.True(t, ok)
	require.Equal(t, "Foo", sc.Class.(*ast.Name).Value)

	sp, ok := parseExpr(t, "static::$cache").(*ast.StaticPropertyFetch)
	require.True(t, ok)
	require.Equal(t, "cache", sp.Name.(*ast.Variable).Name)

	cc, ok := parseExpr(t, "Foo::class").(*ast.ClassConstFetch)
	require.True(t, ok)
	require.Equal(t, "class", cc.Name.Name)

	idx, ok := parseExpr(t, "$a[1][]").(*ast.Index)
	require.True(t, ok)
	require.Nil(t, idx.Index)
}

func TestVariableVariables(t *testing.T) {
	vv, ok := parseExpr(t, "$$name").(*ast.VarVar)
	require.True(t, ok)
	_, ok = vv.X.(*ast.Variable)
	require.True(t, ok)

	vv, ok = parseExpr(t, "${'a' . $b}").(*ast.VarVar)
	require.True(t, ok)
	require.True(t, vv.Braced)
}

func TestNew(t *testing.T) {
	n, ok := parseExpr(t, "new Foo").(*ast.New)
	require.True(t, ok)
	require.False(t, n.Rparen.IsValid())

	n, ok = parseExpr(t, `new \App\Foo(1, 2)`).(*ast.New)
	require.True(t, ok)
	require.Len(t, n.Args, 2)
	require.Equal(t, `\App\Foo`, n.Class.(*ast.Name).Value)

	n, ok = parseExpr(t, "new class(1) extends Base { public $x; }").(*ast.New)
	require.True(t, ok)
	decl, ok := n.Class.(*ast.ClassDecl)
	require.True(t, ok)
	require.Nil(t, decl.Name)
	require.Len(t, decl.Args, 1)
	require.Len(t, decl.Members, 1)

	m, ok := parseExpr(t, "(new Foo)->bar()").(*ast.MethodCall)
	require.True(t, ok)
	_, ok = m.X.(*ast.Paren)
	require.True(t, ok)
}

func TestClosures(t *testing.T) {
	c, ok := parseExpr(t, "function ($a, &$b) use ($c, &$d): int { return 1; }").(*ast.Closure)
	require.True(t, ok)
	require.Len(t, c.Params, 2)
	require.True(t, c.Params[1].ByRef)
	require.Len(t, c.Uses, 2)
	require.True(t, c.Uses[1].ByRef)
	require.Equal(t, "int", c.ReturnType.Text)

	c, ok = parseExpr(t, "static function () {}").(*ast.Closure)
	require.True(t, ok)
	require.True(t, c.Static)

	f, ok := parseExpr(t, "fn($x) => $x + 1").(*ast.ArrowFunc)
	require.True(t, ok)
	requireBinary(t, f.Expr, "+")
}

func TestCasts(t *testing.T) {
	c, ok := parseExpr(t, "(integer) $x").(*ast.Cast)
	require.True(t, ok)
	require.Equal(t, "int", c.Type)
}

func TestKeywordExpressions(t *testing.T) {
	_, ok := parseExpr(t, "isset($a, $b['c'])").(*ast.Isset)
	require.True(t, ok)
	_, ok = parseExpr(t, "empty($a)").(*ast.Empty)
	require.True(t, ok)
	_, ok = parseExpr(t, "eval('1;')").(*ast.Eval)
	require.True(t, ok)
	_, ok = parseExpr(t, "print 'x'").(*ast.Print)
	require.True(t, ok)
	_, ok = parseExpr(t, "require_once 'a.php'").(*ast.Include)
	require.True(t, ok)

	exit, ok := parseExpr(t, "die('x')").(*ast.Exit)
	require.True(t, ok)
	require.NotNil(t, exit.X)

	exit, ok = parseExpr(t, "exit").(*ast.Exit)
	require.True(t, ok)
	require.Nil(t, exit.X)
}

func TestMatch(t *testing.T) {
	m, ok := parseExpr(t, "match($x) { 1, 2 => 'a', default => 'b', }").(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	require.Len(t, m.Arms[0].Conds, 2)
	require.Nil(t, m.Arms[1].Conds)
}

func TestYield(t *testing.T) {
	stmt := parseStmt(t, "function gen() { yield 1; yield 'k' => 2; yield from other(); }")
	fn, ok := stmt.(*ast.FuncDecl)
	require.True(t, ok)
	require.Len(t, fn.Body.Stmts, 3)

	y := fn.Body.Stmts[1].(*ast.ExprStmt).X.(*ast.Yield)
	require.NotNil(t, y.Key)

	_, ok = fn.Body.Stmts[2].(*ast.ExprStmt).X.(*ast.YieldFrom)
	require.True(t, ok)
}
