// Package printer renders an AST back to PHP source text.
//
// Output follows a fixed layout (four-space indentation, declaration braces
// on their own line, control structure braces on the same line), so printing
// a parsed file and parsing the result again yields the same text.
//
// Every child node is rendered through a RenderFunc. By default this is the
// printer itself; a caller that needs to inspect or reject particular node
// kinds installs its own RenderFunc and falls back to Printer.Node for
// everything else.
package printer

import (
	"fmt"
	"strings"

	"github.com/risor-io/phpsandbox/ast"
)

// RenderFunc renders a single node into the printer's output.
type RenderFunc func(n ast.Node) error

const indentUnit = "    "

// Printer writes PHP source for AST nodes.
type Printer struct {
	out    *strings.Builder
	indent int
	render RenderFunc
}

// New returns a Printer that renders children with render. A nil render
// uses the printer's own default rendering.
func New(render RenderFunc) *Printer {
	p := &Printer{out: &strings.Builder{}}
	if render == nil {
		render = p.Node
	}
	p.render = render
	return p
}

// File renders a complete program, starting with the "<?php" open tag.
func File(program *ast.Program) (string, error) {
	return New(nil).File(program)
}

// Print renders a single node with the default rendering.
func Print(n ast.Node) (string, error) {
	return New(nil).Sprint(n)
}

// File renders a complete program and returns the text.
func (p *Printer) File(program *ast.Program) (string, error) {
	p.out.Reset()
	p.indent = 0
	p.write("<?php\n")
	for _, s := range program.Stmts {
		p.nl()
		if err := p.render(s); err != nil {
			return "", err
		}
	}
	return p.out.String(), nil
}

// Sprint renders n through the RenderFunc into a separate buffer and
// returns the text. The printer's own output is left untouched.
func (p *Printer) Sprint(n ast.Node) (string, error) {
	saved := p.out
	p.out = &strings.Builder{}
	err := p.render(n)
	text := p.out.String()
	p.out = saved
	return text, err
}

func (p *Printer) write(parts ...string) {
	for _, s := range parts {
		p.out.WriteString(s)
	}
}

// nl starts a new line at the current indentation.
func (p *Printer) nl() {
	p.out.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.out.WriteString(indentUnit)
	}
}

// Node writes the default rendering of n. Children go through the
// printer's RenderFunc.
func (p *Printer) Node(n ast.Node) error {
	switch n := n.(type) {
	// Literals and names
	case *ast.Int:
		p.write(n.Literal)
	case *ast.Float:
		p.write(n.Literal)
	case *ast.String:
		p.str(n)
	case *ast.InterpolatedString:
		return p.encapsed(`"`, n.Parts)
	case *ast.ShellExec:
		return p.encapsed("`", n.Parts)
	case *ast.EncapsedText:
		p.write(n.Raw)
	case *ast.MagicConst:
		p.write(n.Name)
	case *ast.Name:
		p.write(n.Value)
	case *ast.Identifier:
		p.write(n.Name)
	case *ast.TypeHint:
		p.write(n.Text)
	case *ast.Array:
		return p.array(n)

	// Expressions
	case *ast.Variable:
		p.write("$", n.Name)
	case *ast.VarVar:
		return p.varVar(n)
	case *ast.Unary:
		return p.unary(n)
	case *ast.Postfix:
		if err := p.render(n.X); err != nil {
			return err
		}
		p.write(n.Op)
	case *ast.Cast:
		p.write("(", n.Type, ") ")
		return p.render(n.X)
	case *ast.Binary:
		return p.binary(n.X, n.Op, n.Y)
	case *ast.Assign:
		op := n.Op
		if n.ByRef {
			op = "=&"
		}
		return p.binary(n.X, op, n.Y)
	case *ast.Ternary:
		return p.ternary(n)
	case *ast.Paren:
		p.write("(")
		if err := p.render(n.X); err != nil {
			return err
		}
		p.write(")")
	case *ast.Call:
		callee, err := p.Sprint(n.Func)
		if err != nil {
			return err
		}
		return p.Call(n, callee)
	case *ast.MethodCall:
		return p.methodCall(n)
	case *ast.StaticCall:
		class, err := p.Sprint(n.Class)
		if err != nil {
			return err
		}
		return p.StaticCall(n, class)
	case *ast.PropertyFetch:
		return p.propertyFetch(n)
	case *ast.StaticPropertyFetch:
		class, err := p.Sprint(n.Class)
		if err != nil {
			return err
		}
		return p.StaticPropertyFetch(n, class)
	case *ast.ClassConstFetch:
		class, err := p.Sprint(n.Class)
		if err != nil {
			return err
		}
		return p.ClassConstFetch(n, class)
	case *ast.Index:
		return p.index(n)
	case *ast.New:
		class, err := p.Sprint(n.Class)
		if err != nil {
			return err
		}
		return p.New(n, class)
	case *ast.Clone:
		p.write("clone ")
		return p.render(n.X)
	case *ast.Closure:
		return p.closure(n)
	case *ast.ArrowFunc:
		return p.arrowFunc(n)
	case *ast.Isset:
		p.write("isset(")
		if err := list(p, n.Vars, ", "); err != nil {
			return err
		}
		p.write(")")
	case *ast.Empty:
		return p.keywordCall("empty", n.X)
	case *ast.Eval:
		return p.keywordCall("eval", n.X)
	case *ast.Exit:
		return p.exit(n)
	case *ast.Include:
		p.write(n.Keyword, " ")
		return p.render(n.X)
	case *ast.Print:
		p.write("print ")
		return p.render(n.X)
	case *ast.Yield:
		return p.yield(n)
	case *ast.YieldFrom:
		p.write("yield from ")
		return p.render(n.X)
	case *ast.Throw:
		p.write("throw ")
		return p.render(n.X)
	case *ast.Match:
		return p.match(n)

	// Statements
	case *ast.ExprStmt:
		if err := p.render(n.X); err != nil {
			return err
		}
		p.write(";")
	case *ast.Block:
		return p.block(n.Stmts)
	case *ast.Echo:
		p.write("echo ")
		if err := list(p, n.Args, ", "); err != nil {
			return err
		}
		p.write(";")
	case *ast.InlineHTML:
		p.inlineHTML(n)
	case *ast.HaltCompiler:
		p.write("__halt_compiler();", n.Remaining)
	case *ast.Namespace:
		return p.namespace(n)
	case *ast.Use:
		return p.use(n)
	case *ast.ConstStmt:
		p.write("const ")
		if err := p.constItems(n.Items); err != nil {
			return err
		}
		p.write(";")
	case *ast.If:
		return p.ifStmt(n)
	case *ast.While:
		p.write("while (")
		if err := p.render(n.Cond); err != nil {
			return err
		}
		p.write(") ")
		return p.blockOf(n.Body)
	case *ast.DoWhile:
		p.write("do ")
		if err := p.blockOf(n.Body); err != nil {
			return err
		}
		p.write(" while (")
		if err := p.render(n.Cond); err != nil {
			return err
		}
		p.write(");")
	case *ast.For:
		return p.forStmt(n)
	case *ast.Foreach:
		return p.foreach(n)
	case *ast.Switch:
		return p.switchStmt(n)
	case *ast.Break:
		return p.jump("break", n.Level)
	case *ast.Continue:
		return p.jump("continue", n.Level)
	case *ast.Return:
		return p.jump("return", n.Value)
	case *ast.Try:
		return p.try(n)
	case *ast.Unset:
		p.write("unset(")
		if err := list(p, n.Vars, ", "); err != nil {
			return err
		}
		p.write(");")
	case *ast.StaticVar:
		return p.staticVar(n)
	case *ast.Global:
		p.write("global ")
		if err := list(p, n.Vars, ", "); err != nil {
			return err
		}
		p.write(";")
	case *ast.Declare:
		return p.declare(n)

	// Declarations
	case *ast.FuncDecl:
		return p.funcDecl(n)
	case *ast.ClassDecl:
		return p.classDecl(n)
	case *ast.InterfaceDecl:
		return p.interfaceDecl(n)
	case *ast.TraitDecl:
		p.write("trait ", n.Name.Name)
		return p.declBody(n.Members)
	case *ast.EnumDecl:
		return p.enumDecl(n)
	case *ast.ClassMethod:
		return p.classMethod(n)
	case *ast.Property:
		return p.property(n)
	case *ast.ClassConst:
		p.modifiers(n.Modifiers)
		p.write("const ")
		if err := p.constItems(n.Items); err != nil {
			return err
		}
		p.write(";")
	case *ast.TraitUse:
		return p.traitUse(n)
	case *ast.TraitAdaptation:
		return p.traitAdaptation(n)
	case *ast.EnumCase:
		p.write("case ", n.Name.Name)
		if n.Value != nil {
			p.write(" = ")
			if err := p.render(n.Value); err != nil {
				return err
			}
		}
		p.write(";")

	case *ast.BadExpr, *ast.BadStmt:
		return fmt.Errorf("printer: cannot print %T", n)
	default:
		return fmt.Errorf("printer: unsupported node %T", n)
	}
	return nil
}

// list renders nodes separated by sep.
func list[T ast.Node](p *Printer, items []T, sep string) error {
	for i, item := range items {
		if i > 0 {
			p.write(sep)
		}
		if err := p.render(item); err != nil {
			return err
		}
	}
	return nil
}

// block renders "{", the statements one per line, and "}".
func (p *Printer) block(stmts []ast.Stmt) error {
	p.write("{")
	p.indent++
	for _, s := range stmts {
		p.nl()
		if err := p.render(s); err != nil {
			return err
		}
	}
	p.indent--
	p.nl()
	p.write("}")
	return nil
}

func (p *Printer) blockOf(b *ast.Block) error {
	if b == nil {
		return p.block(nil)
	}
	return p.block(b.Stmts)
}

// declBody renders a declaration body with the brace on its own line.
func (p *Printer) declBody(stmts []ast.Stmt) error {
	p.nl()
	return p.block(stmts)
}

func (p *Printer) names(names []*ast.Name, sep string) error {
	return list(p, names, sep)
}
