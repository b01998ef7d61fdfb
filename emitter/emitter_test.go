package emitter

import (
	"context"
	"testing"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/parser"
	"github.com/risor-io/phpsandbox/policy"
	"github.com/stretchr/testify/require"
)

func emit(t *testing.T, src string, p *policy.Policy) (string, error) {
	t.Helper()
	program, err := parser.Parse(context.Background(), src, parser.WithFilename("test.php"))
	require.NoError(t, err)
	if p == nil {
		p = policy.New()
	}
	return Emit(context.Background(), program, p, &Config{Filename: "test.php", Source: src})
}

func requireViolation(t *testing.T, err error, kind errz.ViolationKind, msg string) *errz.PolicyViolation {
	t.Helper()
	require.Error(t, err)
	v, ok := errz.AsViolation(err)
	require.True(t, ok, "expected a policy violation, got %T: %v", err, err)
	require.Equal(t, kind, v.Kind)
	require.Equal(t, msg, v.Message)
	return v
}

func TestAllowedProgram(t *testing.T) {
	out, err := emit(t, `<?php
$list = [3, 1, 2];
sort($list);
$total = array_sum(array_map(fn($x) => $x * 2, $list));
$date = new DateTime('2020-01-01');
return ['total' => $total, 'date' => $date->format('Y'), 'max' => PHP_INT_MAX];`, nil)
	require.NoError(t, err)
	require.Equal(t, `<?php

$list = [3, 1, 2];
sort($list);
$total = array_sum(array_map(fn($x) => $x * 2, $list));
$date = new DateTime('2020-01-01');
return ['total' => $total, 'date' => $date->format('Y'), 'max' => PHP_INT_MAX];`, out)
}

func TestDisallowedConstructs(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{`eval('1;');`, "Eval is not allowed"},
		{`include 'a.php';`, "Include is not allowed"},
		{`require_once 'a.php';`, "Include is not allowed"},
		{"$a = `ls`;", "Shell exec is not allowed"},
		{`exit(1);`, "Exit is not allowed"},
		{`die();`, "Exit is not allowed"},
		{`print 'a';`, "Print is not allowed"},
		{`$a = 1 and print('a');`, "Print is not allowed"},
		{`$o = new class {};`, "Anonymous class is not allowed"},
		{`class A {}`, "Class is not allowed"},
		{`interface I {}`, "Interface is not allowed"},
		{`trait T {}`, "Trait is not allowed"},
		{`enum E { case A; }`, "Enum is not allowed"},
		{`declare(strict_types=1);`, "Declare is not allowed"},
		{`echo 'a';`, "Echo is not allowed"},
		{`function f() { global $a; }`, "Global is not allowed"},
		{"<p>hi</p><?php $a = 1;", "Inline HTML is not allowed"},
		{`$a = 1; ?><p>hi</p>`, "Inline HTML is not allowed"},
		{`__halt_compiler(); data`, "Halt compiler is not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			src := tt.src
			if src[0] != '<' {
				src = "<?php " + src
			}
			out, err := emit(t, src, nil)
			requireViolation(t, err, errz.DisallowedConstruct, tt.msg)
			require.Empty(t, out)
		})
	}
}

func TestClassMemberConstructs(t *testing.T) {
	tests := []struct {
		node ast.Node
		msg  string
	}{
		{&ast.TraitUse{}, "Trait use is not allowed"},
		{&ast.TraitAdaptation{Method: &ast.Identifier{Name: "f"}}, "Trait use adaption is not allowed"},
		{&ast.TraitAdaptation{Method: &ast.Identifier{Name: "f"}, Alias: &ast.Identifier{Name: "g"}}, "Trait use adaption alias is not allowed"},
		{&ast.Property{}, "Property is not allowed"},
		{&ast.ClassMethod{}, "Class method is not allowed"},
		{&ast.ClassConst{}, "Class const is not allowed"},
		{&ast.EnumCase{Name: &ast.Identifier{Name: "A"}}, "Enum case is not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			msg, ok := rejected(tt.node)
			require.True(t, ok)
			require.Equal(t, tt.msg, msg)
		})
	}
	_, ok := rejected(&ast.Variable{Name: "a"})
	require.False(t, ok)
}

func TestDisallowedCallable(t *testing.T) {
	_, err := emit(t, "<?php\n$a = 1;\n$b = doSomethingEvil();", nil)
	v := requireViolation(t, err, errz.DisallowedCallable, "Call to a not allowed function doSomethingEvil")
	require.Equal(t, "test.php", v.Position.File)
	require.Equal(t, 3, v.Position.LineNumber())
	require.Equal(t, 6, v.Position.ColumnNumber())
	require.Equal(t, "$b = doSomethingEvil();", v.Source)
}

func TestNestedCallIsChecked(t *testing.T) {
	_, err := emit(t, `<?php $a = strlen(trim(system('id')));`, nil)
	requireViolation(t, err, errz.DisallowedCallable, "Call to a not allowed function system")
}

func TestDynamicCallee(t *testing.T) {
	_, err := emit(t, `<?php $f = 'system'; $f('id');`, nil)
	requireViolation(t, err, errz.DisallowedCallable, "Call to a not allowed function $f")
}

func TestDeclaredFunction(t *testing.T) {
	out, err := emit(t, `<?php function foo() { return 1; } foo();`, nil)
	require.NoError(t, err)
	require.Equal(t, "<?php\n\nfunction foo()\n{\n    return 1;\n}\nfoo();", out)
}

func TestRecursiveFunction(t *testing.T) {
	_, err := emit(t, `<?php function fact($n) { return $n <= 1 ? 1 : $n * fact($n - 1); }`, nil)
	require.NoError(t, err)
}

func TestForwardReference(t *testing.T) {
	_, err := emit(t, `<?php foo(); function foo() { return 1; }`, nil)
	requireViolation(t, err, errz.DisallowedCallable, "Call to a not allowed function foo")
}

func TestDeclarationsPersistInPolicy(t *testing.T) {
	p := policy.New()
	_, err := emit(t, `<?php function foo() {}`, p)
	require.NoError(t, err)
	require.True(t, p.IsCallableAllowed("foo"))
}

func TestDisallowedType(t *testing.T) {
	tests := []struct {
		src  string
		name string
	}{
		{`new SplFileObject('/etc/passwd');`, "SplFileObject"},
		{`ReflectionClass::export('A');`, "ReflectionClass"},
		{`$a = Foo::$bar;`, "Foo"},
		{`$a = Foo::BAR;`, "Foo"},
		{`$a = \Foo\Bar::class;`, `Foo\Bar`},
		{`$a = new $cls();`, "$cls"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := emit(t, "<?php "+tt.src, nil)
			requireViolation(t, err, errz.DisallowedType, "Call to a not allowed class "+tt.name)
		})
	}
}

func TestAllowedStaticAccess(t *testing.T) {
	out, err := emit(t, `<?php $d = DateTime::createFromFormat('Y', '2020'); $i = \DateInterval::class;`, nil)
	require.NoError(t, err)
	require.Equal(t, "<?php\n\n$d = DateTime::createFromFormat('Y', '2020');\n$i = \\DateInterval::class;", out)
}

func TestUseAliases(t *testing.T) {
	out, err := emit(t, `<?php
use DateTime as Clock;
use function strlen as len;
use const PHP_EOL as EOL;
$c = new Clock();
$n = len('abc');`, nil)
	require.NoError(t, err)
	require.Contains(t, out, "$c = new Clock();")

	_, err = emit(t, `<?php use Evil\Thing; new Thing();`, nil)
	requireViolation(t, err, errz.DisallowedType, `Call to a not allowed class Evil\Thing`)

	_, err = emit(t, `<?php use function Evil\{run, stop as halt}; halt();`, nil)
	requireViolation(t, err, errz.DisallowedCallable, `Call to a not allowed function Evil\stop`)
}

func TestUseAliasesAreScopedToNamespace(t *testing.T) {
	_, err := emit(t, `<?php namespace A { use function strlen as exec; exec('a'); } namespace { exec('id'); }`, nil)
	requireViolation(t, err, errz.DisallowedCallable, "Call to a not allowed function exec")

	_, err = emit(t, `<?php namespace A { use DateTime as SplFileObject; } namespace { new SplFileObject('/etc/passwd'); }`, nil)
	requireViolation(t, err, errz.DisallowedType, "Call to a not allowed class SplFileObject")

	_, err = emit(t, `<?php namespace A; use function strlen as exec; namespace B; exec('id');`, nil)
	requireViolation(t, err, errz.DisallowedCallable, "Call to a not allowed function exec")
}

func TestNamespaces(t *testing.T) {
	p := policy.New(policy.WithRequiredNamespaceRoot("App"))
	out, err := emit(t, `<?php namespace App\Sub; function greet() { return 1; } greet(); \App\Sub\greet(); strlen('a');`, p)
	require.NoError(t, err)
	require.Contains(t, out, "namespace App\\Sub;\nfunction greet()")
	require.True(t, p.IsCallableAllowed(`App\Sub\greet`))

	_, err = emit(t, `<?php namespace Other;`, policy.New(policy.WithRequiredNamespaceRoot("App")))
	requireViolation(t, err, errz.NamespaceScope, "Namespace Other is outside of allowed namespace App")

	_, err = emit(t, `<?php namespace App { } namespace Other { }`, policy.New(policy.WithRequiredNamespaceRoot("App")))
	requireViolation(t, err, errz.NamespaceScope, "Namespace Other is outside of allowed namespace App")

	_, err = emit(t, `<?php namespace { $a = 1; }`, policy.New(policy.WithRequiredNamespaceRoot("App")))
	require.NoError(t, err)
}

func TestRelativeName(t *testing.T) {
	_, err := emit(t, `<?php namespace App; function f() {} namespace\f();`, nil)
	require.NoError(t, err)
}

func TestGlobalNamespaceDeclarations(t *testing.T) {
	restrict := func() *policy.Policy {
		return policy.New(policy.WithRestrictGlobalNamespaceDeclarations(true))
	}
	_, err := emit(t, `<?php function foo() {}`, restrict())
	requireViolation(t, err, errz.GlobalNamespaceDeclaration, "Defining functions in global namespace is not allowed")

	_, err = emit(t, `<?php const A = 1;`, restrict())
	requireViolation(t, err, errz.GlobalNamespaceDeclaration, "Defining constants in global namespace is not allowed")

	_, err = emit(t, `<?php define('A', 1);`, restrict())
	requireViolation(t, err, errz.GlobalNamespaceDeclaration, "Defining constants in global namespace is not allowed")

	_, err = emit(t, `<?php namespace App; function foo() {} const A = 1; define('B', 2); foo();`, restrict())
	require.NoError(t, err)

	_, err = emit(t, `<?php function foo() {} const A = 1;`, nil)
	require.NoError(t, err)
}

func TestCallableArguments(t *testing.T) {
	tests := []struct {
		src  string
		kind errz.ViolationKind
		msg  string
	}{
		{`array_map('strtoupper', $a);`, 0, ""},
		{`array_map(function ($x) { return $x; }, $a);`, 0, ""},
		{`usort($a, fn($x, $y) => $x <=> $y);`, 0, ""},
		{`array_filter(array: $a, callback: 'is_int');`, 0, ""},
		{`array_map('system', $a);`, errz.DisallowedCallable, "Call to a not allowed function system"},
		{`array_map($f, $a);`, errz.DisallowedCallableArgument, "Usage of an invalid callable type, only string and closure allowed"},
		{`array_map(1, $a);`, errz.DisallowedCallableArgument, "Usage of an invalid callable type, only string and closure allowed"},
		{`array_filter($a);`, errz.DisallowedCallableArgument, "array_filter missing callable at position 1"},
		{`array_map(function ($x) { return exec($x); }, $a);`, errz.DisallowedCallable, "Call to a not allowed function exec"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := emit(t, "<?php "+tt.src, nil)
			if tt.kind == 0 {
				require.NoError(t, err)
				return
			}
			requireViolation(t, err, tt.kind, tt.msg)
		})
	}
}

func TestCallableArgumentPosition(t *testing.T) {
	_, err := emit(t, "<?php\narray_map(\n    'system', $a);", nil)
	v := requireViolation(t, err, errz.DisallowedCallable, "Call to a not allowed function system")
	require.Equal(t, 3, v.Position.LineNumber())
	require.Equal(t, "    'system', $a);", v.Source)
}

func TestHint(t *testing.T) {
	_, err := emit(t, `<?php strtoupperr('a');`, nil)
	v := requireViolation(t, err, errz.DisallowedCallable, "Call to a not allowed function strtoupperr")
	require.Contains(t, v.Hint, "'strtoupper'")
}

func TestFixedPoint(t *testing.T) {
	src := `<?php
namespace App;
use DateTime as Clock;
function twice(array $xs): array { return array_map(fn($x) => $x * 2, $xs); }
$s = "total: {$n} $m";
foreach (twice([1, 2]) as $k => $v) { if ($v > 2) { $out[$k] = new Clock(); } }
return $out ?? null;`
	once, err := emit(t, src, nil)
	require.NoError(t, err)
	twice, err := emit(t, once, nil)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestCancelledContext(t *testing.T) {
	program, err := parser.Parse(context.Background(), `<?php $a = 1;`)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Emit(ctx, program, policy.New(), nil)
	require.ErrorIs(t, err, context.Canceled)
}
