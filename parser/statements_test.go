package parser

import (
	"testing"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/stretchr/testify/require"
)

func TestIfElse(t *testing.T) {
	stmt, ok := parseStmt(t, `if ($a) { f(); } elseif ($b) { g(); } else if ($c) { h(); } else { i(); }`).(*ast.If)
	require.True(t, ok)
	require.Len(t, stmt.Body.Stmts, 1)
	require.Len(t, stmt.ElseIfs, 2)
	require.NotNil(t, stmt.Else)
}

func TestBracelessBodies(t *testing.T) {
	stmt, ok := parseStmt(t, `if ($a) echo 1; else echo 2;`).(*ast.If)
	require.True(t, ok)
	require.Len(t, stmt.Body.Stmts, 1)
	_, ok = stmt.Body.Stmts[0].(*ast.Echo)
	require.True(t, ok)
	require.Len(t, stmt.Else.Stmts, 1)

	loop, ok := parseStmt(t, `while ($i--) ;`).(*ast.While)
	require.True(t, ok)
	require.Empty(t, loop.Body.Stmts)
}

func TestLoops(t *testing.T) {
	w, ok := parseStmt(t, `while ($i < 10) { $i++; }`).(*ast.While)
	require.True(t, ok)
	require.NotNil(t, w.Cond)

	d, ok := parseStmt(t, `do { $i++; } while ($i < 10);`).(*ast.DoWhile)
	require.True(t, ok)
	require.Len(t, d.Body.Stmts, 1)

	f, ok := parseStmt(t, `for ($i = 0, $j = 1; $i < 10; $i++) {}`).(*ast.For)
	require.True(t, ok)
	require.Len(t, f.Init, 2)
	require.Len(t, f.Cond, 1)
	require.Len(t, f.Step, 1)

	f, ok = parseStmt(t, `for (;;) { break; }`).(*ast.For)
	require.True(t, ok)
	require.Empty(t, f.Init)
	_, ok = f.Body.Stmts[0].(*ast.Break)
	require.True(t, ok)

	fe, ok := parseStmt(t, `foreach ($items as $k => &$v) { continue 2; }`).(*ast.Foreach)
	require.True(t, ok)
	require.NotNil(t, fe.Key)
	require.True(t, fe.ByRef)
	c, ok := fe.Body.Stmts[0].(*ast.Continue)
	require.True(t, ok)
	require.NotNil(t, c.Level)

	fe, ok = parseStmt(t, `foreach ($pairs as [$a, $b]) {}`).(*ast.Foreach)
	require.True(t, ok)
	require.Nil(t, fe.Key)
	_, ok = fe.Value.(*ast.Array)
	require.True(t, ok)
}

func TestSwitch(t *testing.T) {
	s, ok := parseStmt(t, `switch ($a) { case 1: case 2; f(); break; default: g(); }`).(*ast.Switch)
	require.True(t, ok)
	require.Len(t, s.Cases, 3)
	require.Empty(t, s.Cases[0].Body)
	require.Len(t, s.Cases[1].Body, 2)
	require.Nil(t, s.Cases[2].Cond)
}

func TestTryCatch(t *testing.T) {
	s, ok := parseStmt(t, `try { f(); } catch (A|\B\C $e) { } catch (D) { } finally { g(); }`).(*ast.Try)
	require.True(t, ok)
	require.Len(t, s.Catches, 2)
	require.Len(t, s.Catches[0].Types, 2)
	require.Equal(t, `\B\C`, s.Catches[0].Types[1].Value)
	require.Nil(t, s.Catches[1].Var)
	require.NotNil(t, s.Finally)
}

func TestNamespaceAndUse(t *testing.T) {
	program := parseProgram(t, `<?php
namespace App\Models;
use Foo\Bar as Baz, Qux;
use function Foo\bar;
use const Foo\BAZ;
use App\{Thing, function helper, const LIMIT as MAX};
`)
	require.Len(t, program.Stmts, 5)

	ns := program.Stmts[0].(*ast.Namespace)
	require.Equal(t, `App\Models`, ns.Name.Value)
	require.Nil(t, ns.Body)

	use := program.Stmts[1].(*ast.Use)
	require.Equal(t, ast.UseNormal, use.Kind)
	require.Len(t, use.Items, 2)
	require.Equal(t, "Baz", use.Items[0].Alias.Name)
	require.Nil(t, use.Items[1].Alias)

	use = program.Stmts[2].(*ast.Use)
	require.Equal(t, ast.UseFunction, use.Kind)

	use = program.Stmts[3].(*ast.Use)
	require.Equal(t, ast.UseConst, use.Kind)

	use = program.Stmts[4].(*ast.Use)
	require.Equal(t, "App", use.Prefix.Value)
	require.Len(t, use.Items, 3)
	require.False(t, use.Items[0].HasKind)
	require.Equal(t, ast.UseFunction, use.Items[1].Kind)
	require.Equal(t, ast.UseConst, use.Items[2].Kind)
	require.Equal(t, "MAX", use.Items[2].Alias.Name)
}

func TestBracedNamespaces(t *testing.T) {
	program := parseProgram(t, `<?php namespace A { f(); } namespace { g(); }`)
	require.Len(t, program.Stmts, 2)
	require.Len(t, program.Stmts[0].(*ast.Namespace).Body.Stmts, 1)
	require.Nil(t, program.Stmts[1].(*ast.Namespace).Name)
}

func TestFunctionDecl(t *testing.T) {
	fn, ok := parseStmt(t, `function &load(int $a = 1, ?string ...$rest): ?array { return []; }`).(*ast.FuncDecl)
	require.True(t, ok)
	require.True(t, fn.ByRef)
	require.Equal(t, "load", fn.Name.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "int", fn.Params[0].Type.Text)
	require.NotNil(t, fn.Params[0].Default)
	require.Equal(t, "?string", fn.Params[1].Type.Text)
	require.True(t, fn.Params[1].Variadic)
	require.Equal(t, "?array", fn.ReturnType.Text)

	fn, ok = parseStmt(t, `function f(A&B $x, (A&B)|null $y, A|B &$z) {}`).(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "A&B", fn.Params[0].Type.Text)
	require.Equal(t, "(A&B)|null", fn.Params[1].Type.Text)
	require.Equal(t, "A|B", fn.Params[2].Type.Text)
	require.True(t, fn.Params[2].ByRef)
}

func TestClassDecl(t *testing.T) {
	src := `abstract class Repo extends Base implements Countable, \JsonSerializable {
	use Loggable, Cached { Cached::get insteadof Loggable; Loggable::get as protected logGet; }
	const VERSION = 2, NAME = 'repo';
	private static ?array $cache = null;
	public readonly int $id;
	public function __construct(private Db $db) {}
	abstract protected function find(int $id): ?static;
	public static function list() { return static::$cache; }
}`
	decl, ok := parseStmt(t, src).(*ast.ClassDecl)
	require.True(t, ok)
	require.Equal(t, []string{"abstract"}, decl.Modifiers)
	require.Equal(t, "Repo", decl.Name.Name)
	require.Equal(t, "Base", decl.Extends.Value)
	require.Len(t, decl.Implements, 2)
	require.Len(t, decl.Members, 7)

	use := decl.Members[0].(*ast.TraitUse)
	require.Len(t, use.Traits, 2)
	require.Len(t, use.Adaptations, 2)
	require.Len(t, use.Adaptations[0].Insteadof, 1)
	require.Equal(t, "protected", use.Adaptations[1].Modifier)
	require.Equal(t, "logGet", use.Adaptations[1].Alias.Name)

	consts := decl.Members[1].(*ast.ClassConst)
	require.Len(t, consts.Items, 2)

	prop := decl.Members[2].(*ast.Property)
	require.Equal(t, []string{"private", "static"}, prop.Modifiers)
	require.Equal(t, "?array", prop.Type.Text)

	ctor := decl.Members[4].(*ast.ClassMethod)
	require.Equal(t, []string{"private"}, ctor.Params[0].Modifiers)

	find := decl.Members[5].(*ast.ClassMethod)
	require.Nil(t, find.Body)
	require.Equal(t, "?static", find.ReturnType.Text)

	list := decl.Members[6].(*ast.ClassMethod)
	require.Equal(t, "list", list.Name.Name)
}

func TestInterfaceTraitEnum(t *testing.T) {
	i, ok := parseStmt(t, `interface Shape extends A, B { public function area(): float; }`).(*ast.InterfaceDecl)
	require.True(t, ok)
	require.Len(t, i.Extends, 2)
	require.Len(t, i.Members, 1)

	tr, ok := parseStmt(t, `trait Greets { public function hi() { echo 'hi'; } }`).(*ast.TraitDecl)
	require.True(t, ok)
	require.Equal(t, "Greets", tr.Name.Name)

	e, ok := parseStmt(t, `enum Suit: string implements HasLabel { case Hearts = 'H'; case Spades = 'S'; const Wild = self::Spades; }`).(*ast.EnumDecl)
	require.True(t, ok)
	require.Equal(t, "string", e.BackingType.Text)
	require.Len(t, e.Members, 3)
	c := e.Members[0].(*ast.EnumCase)
	require.Equal(t, "Hearts", c.Name.Name)
}

func TestSimpleStatements(t *testing.T) {
	program := parseProgram(t, `<?php
declare(strict_types=1);
const A = 1, B = A + 1;
global $x, $$y;
static $count = 0, $other;
unset($a['k'], $b);
return;
`)
	require.Len(t, program.Stmts, 6)
	d := program.Stmts[0].(*ast.Declare)
	require.Equal(t, "strict_types", d.Directives[0].Name.Name)
	require.Nil(t, d.Body)
	require.Len(t, program.Stmts[1].(*ast.ConstStmt).Items, 2)
	require.Len(t, program.Stmts[2].(*ast.Global).Vars, 2)
	require.Len(t, program.Stmts[3].(*ast.StaticVar).Vars, 2)
	require.Len(t, program.Stmts[4].(*ast.Unset).Vars, 2)
	require.Nil(t, program.Stmts[5].(*ast.Return).Value)
}

func TestHaltCompiler(t *testing.T) {
	program := parseProgram(t, "<?php echo 1; __halt_compiler(); raw <?php data")
	require.Len(t, program.Stmts, 2)
	halt, ok := program.Stmts[1].(*ast.HaltCompiler)
	require.True(t, ok)
	require.Equal(t, " raw <?php data", halt.Remaining)
}

func TestCloseTagEndsStatement(t *testing.T) {
	program := parseProgram(t, "<?php echo 1 ?>\n<p>text</p>")
	require.Len(t, program.Stmts, 2)
	_, ok := program.Stmts[0].(*ast.Echo)
	require.True(t, ok)
	html := program.Stmts[1].(*ast.InlineHTML)
	require.Equal(t, "<p>text</p>", html.Value)
}
