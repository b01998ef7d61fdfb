package printer

import (
	"context"
	"fmt"
	"testing"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/parser"
	"github.com/stretchr/testify/require"
)

func format(t *testing.T, src string) string {
	t.Helper()
	program, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	out, err := File(program)
	require.NoError(t, err)
	return out
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`$a=1+2*3;`, `$a = 1 + 2 * 3;`},
		{`$a=(1+2)*3;`, `$a = (1 + 2) * 3;`},
		{`$a =& $b;`, `$a =& $b;`},
		{`$a ??= $b ?: $c;`, `$a ??= $b ?: $c;`},
		{`echo - -1, -(-1), !$a, (int)$b;`, `echo - -1, -(-1), !$a, (int) $b;`},
		{`if($a){echo 1;}elseif($b){echo 2;}else{echo 3;}`,
			"if ($a) {\n    echo 1;\n} elseif ($b) {\n    echo 2;\n} else {\n    echo 3;\n}"},
		{`if ($a) echo 1; else if ($b) echo 2;`,
			"if ($a) {\n    echo 1;\n} elseif ($b) {\n    echo 2;\n}"},
		{`while ($a) {}`, "while ($a) {\n}"},
		{`do { $i++; } while ($i < 3);`, "do {\n    $i++;\n} while ($i < 3);"},
		{`for ($i = 0; $i < 10; $i++) {}`, "for ($i = 0; $i < 10; $i++) {\n}"},
		{`for (;;) {}`, "for (;;) {\n}"},
		{`foreach ($a as $k => &$v) {}`, "foreach ($a as $k => &$v) {\n}"},
		{`switch ($a) { case 1: echo 1; break; default: echo 2; }`,
			"switch ($a) {\n    case 1:\n        echo 1;\n        break;\n    default:\n        echo 2;\n}"},
		{`try { f(); } catch (A|B $e) { } finally { g(); }`,
			"try {\n    f();\n} catch (A|B $e) {\n} finally {\n    g();\n}"},
		{`function f(int $a = 1, ...$rest): ?string { return $a; }`,
			"function f(int $a = 1, ...$rest): ?string\n{\n    return $a;\n}"},
		{`$f = function ($x) use (&$y) { return $x; };`,
			"$f = function ($x) use (&$y) {\n    return $x;\n};"},
		{`$f = static fn($x) => $x * 2;`, `$f = static fn($x) => $x * 2;`},
		{`$x = match($a) { 1, 2 => 'a', default => 'b' };`,
			"$x = match ($a) {\n    1, 2 => 'a',\n    default => 'b',\n};"},
		{`$a = [1, 'k' => &$b, ...$c];`, `$a = [1, 'k' => &$b, ...$c];`},
		{`$a = array(1, 2);`, `$a = array(1, 2);`},
		{`list(, $b) = $a;`, `list(, $b) = $a;`},
		{`$o = new A;`, `$o = new A;`},
		{`$o = new A();`, `$o = new A();`},
		{`$o?->b->c(...$d);`, `$o?->b->c(...$d);`},
		{`$o->{'a b'} = 1;`, `$o->{'a b'} = 1;`},
		{`A::$b; A::C; static::f(x: 1);`, "A::$b;\nA::C;\nstatic::f(x: 1);"},
		{`$f = strlen(...);`, `$f = strlen(...);`},
		{`$s = "a $b c";`, `$s = "a {$b} c";`},
		{`$s = "x{$a['k']}y";`, `$s = "x{$a['k']}y";`},
		{`$s = "cost: $";`, `$s = "cost: $";`},
		{"$s = <<<'EOT'\nit's\nEOT;", `$s = 'it\'s';`},
		{"$s = <<<EOT\nhi $name\nEOT;", `$s = "hi {$name}";`},
		{"$s = `ls $dir`;", "$s = `ls {$dir}`;"},
		{`use A\B as C, D;`, `use A\B as C, D;`},
		{`use function A\{b, c as d};`, `use function A\{b, c as d};`},
		{`namespace A\B;`, `namespace A\B;`},
		{`namespace A { f(); }`, "namespace A {\n    f();\n}"},
		{`const A = 1, B = 2;`, `const A = 1, B = 2;`},
		{`declare(strict_types=1);`, `declare(strict_types=1);`},
		{`static $a = 1, $b;`, `static $a = 1, $b;`},
		{`global $a, $b;`, `global $a, $b;`},
		{`unset($a[1], $b);`, `unset($a[1], $b);`},
		{`exit; die(); exit(1);`, "exit;\ndie();\nexit(1);"},
		{`$x = isset($a, $b) && empty($c);`, `$x = isset($a, $b) && empty($c);`},
		{`$x = yield $k => $v;`, `$x = yield $k => $v;`},
		{`$$a = ${'b'};`, `$$a = ${'b'};`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, "<?php\n\n"+tt.expected, format(t, "<?php "+tt.input))
		})
	}
}

func TestDeclarations(t *testing.T) {
	src := `<?php
abstract class A extends B implements C, D {
	use T1, T2 { T1::f insteadof T2; g as protected h; }
	public const X = 1;
	private ?int $x = null, $y;
	public function __construct(private readonly int $id) {}
	abstract protected function g(): void;
}
interface I extends J {}
enum Suit: string implements I { case Hearts = 'H'; }
trait T {}
$o = new class(1) extends A {};`
	expected := `<?php

abstract class A extends B implements C, D
{
    use T1, T2 {
        T1::f insteadof T2;
        g as protected h;
    }
    public const X = 1;
    private ?int $x = null, $y;
    public function __construct(private readonly int $id)
    {
    }
    abstract protected function g(): void;
}
interface I extends J
{
}
enum Suit: string implements I
{
    case Hearts = 'H';
}
trait T
{
}
$o = new class(1) extends A {
};`
	require.Equal(t, expected, format(t, src))
}

func TestInlineHTML(t *testing.T) {
	out := format(t, "<p><?php echo 1; ?>\n\n</p>")
	require.Equal(t, "<?php\n\n?><p><?php\necho 1;\n?>\n\n</p><?php", out)
}

func TestHaltCompiler(t *testing.T) {
	out := format(t, "<?php f(); __halt_compiler(); raw data")
	require.Equal(t, "<?php\n\nf();\n__halt_compiler(); raw data", out)
}

func TestFixedPoint(t *testing.T) {
	inputs := []string{
		"<?php if ($a) { foreach ($b as $c) { echo \"$c\\n\"; } }",
		"<?php class A { function f() { return fn() => match (true) { default => 1 }; } }",
		"<p><?= $title ?></p>\n<?php echo 2;",
		"<?php $s = \"a\\$ {$b->c} ${d}\";",
		"<?php switch ($a) { case 1: case 2: { f(); } }",
		"<?php $x = new class { public $a = [1, [2, 3]]; };",
	}
	for _, input := range inputs {
		once := format(t, input)
		require.Equal(t, once, format(t, once), input)
	}
}

func TestTrailingDollarBeforeExpression(t *testing.T) {
	str := &ast.InterpolatedString{Parts: []ast.Expr{
		&ast.EncapsedText{Raw: "a$"},
		&ast.Variable{Name: "b"},
		&ast.EncapsedText{Raw: "$"},
	}}
	out, err := Print(str)
	require.NoError(t, err)
	require.Equal(t, `"a\${$b}$"`, out)

	require.True(t, endsWithBareDollar(`$`))
	require.True(t, endsWithBareDollar(`\\$`))
	require.False(t, endsWithBareDollar(`\$`))
	require.False(t, endsWithBareDollar(`a`))
}

func TestCustomRender(t *testing.T) {
	program, err := parser.Parse(context.Background(), "<?php $a = f($secret);")
	require.NoError(t, err)

	var pr *Printer
	pr = New(func(n ast.Node) error {
		if v, ok := n.(*ast.Variable); ok && v.Name == "secret" {
			return fmt.Errorf("variable $%s is not allowed", v.Name)
		}
		return pr.Node(n)
	})
	_, err = pr.File(program)
	require.EqualError(t, err, "variable $secret is not allowed")

	var calls []string
	pr = New(func(n ast.Node) error {
		if call, ok := n.(*ast.Call); ok {
			callee, err := pr.Sprint(call.Func)
			if err != nil {
				return err
			}
			calls = append(calls, callee)
			return pr.Call(call, "safe_"+callee)
		}
		return pr.Node(n)
	})
	out, err := pr.File(program)
	require.NoError(t, err)
	require.Equal(t, "<?php\n\n$a = safe_f($secret);", out)
	require.Equal(t, []string{"f"}, calls)
}

func TestUnsupportedNode(t *testing.T) {
	_, err := Print(&ast.BadExpr{})
	require.Error(t, err)
	_, err = Print(nil)
	require.Error(t, err)
}
