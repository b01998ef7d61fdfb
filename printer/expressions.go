package printer

import (
	"strings"

	"github.com/risor-io/phpsandbox/ast"
)

func (p *Printer) str(n *ast.String) {
	if n.Double {
		p.write(`"`, n.Raw, `"`)
		return
	}
	p.write("'", n.Raw, "'")
}

// encapsed renders the parts of an interpolated string or shell command.
// Every embedded expression uses the "{$...}" form.
func (p *Printer) encapsed(quote string, parts []ast.Expr) error {
	p.write(quote)
	for i, part := range parts {
		if text, ok := part.(*ast.EncapsedText); ok {
			raw := text.Raw
			if i+1 < len(parts) && endsWithBareDollar(raw) {
				raw = raw[:len(raw)-1] + `\$`
			}
			p.write(raw)
			continue
		}
		p.write("{")
		if err := p.render(part); err != nil {
			return err
		}
		p.write("}")
	}
	p.write(quote)
	return nil
}

// endsWithBareDollar reports whether s ends in a "$" that is not escaped.
func endsWithBareDollar(s string) bool {
	if !strings.HasSuffix(s, "$") {
		return false
	}
	n := 0
	for i := len(s) - 2; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 0
}

func (p *Printer) array(n *ast.Array) error {
	open, close := "[", "]"
	switch n.Style {
	case ast.ArrayLong:
		open, close = "array(", ")"
	case ast.ArrayList:
		open, close = "list(", ")"
	}
	p.write(open)
	for i, item := range n.Items {
		if i > 0 {
			p.write(", ")
		}
		if item == nil {
			continue
		}
		if err := p.arrayItem(item); err != nil {
			return err
		}
	}
	p.write(close)
	return nil
}

func (p *Printer) arrayItem(item *ast.ArrayItem) error {
	if item.Spread {
		p.write("...")
	}
	if item.Key != nil {
		if err := p.render(item.Key); err != nil {
			return err
		}
		p.write(" => ")
	}
	if item.ByRef {
		p.write("&")
	}
	return p.render(item.Value)
}

func (p *Printer) varVar(n *ast.VarVar) error {
	if n.Braced {
		p.write("${")
		if err := p.render(n.X); err != nil {
			return err
		}
		p.write("}")
		return nil
	}
	p.write("$")
	return p.render(n.X)
}

func (p *Printer) unary(n *ast.Unary) error {
	operand, err := p.Sprint(n.X)
	if err != nil {
		return err
	}
	p.write(n.Op)
	// "- -1" must not become the decrement operator.
	if (n.Op == "-" || n.Op == "+") && strings.HasPrefix(operand, n.Op) {
		p.write(" ")
	}
	p.write(operand)
	return nil
}

func (p *Printer) binary(x ast.Expr, op string, y ast.Expr) error {
	if err := p.render(x); err != nil {
		return err
	}
	p.write(" ", op, " ")
	return p.render(y)
}

func (p *Printer) ternary(n *ast.Ternary) error {
	if err := p.render(n.Cond); err != nil {
		return err
	}
	if n.Then == nil {
		p.write(" ?: ")
	} else {
		p.write(" ? ")
		if err := p.render(n.Then); err != nil {
			return err
		}
		p.write(" : ")
	}
	return p.render(n.Else)
}

func (p *Printer) args(args []*ast.Arg, placeholder bool) error {
	p.write("(")
	defer p.write(")")
	if placeholder {
		p.write("...")
		return nil
	}
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		if arg.Name != nil {
			p.write(arg.Name.Name, ": ")
		}
		if arg.Spread {
			p.write("...")
		}
		if err := p.render(arg.Value); err != nil {
			return err
		}
	}
	return nil
}

// Call writes a function call whose callee has already been rendered.
func (p *Printer) Call(n *ast.Call, callee string) error {
	p.write(callee)
	return p.args(n.Args, n.Placeholder)
}

// memberName writes the name part of "->name" or "::name".
func (p *Printer) memberName(name ast.Expr) error {
	switch name := name.(type) {
	case *ast.Identifier:
		p.write(name.Name)
		return nil
	case *ast.Variable, *ast.VarVar:
		return p.render(name)
	}
	p.write("{")
	if err := p.render(name); err != nil {
		return err
	}
	p.write("}")
	return nil
}

func (p *Printer) arrow(x ast.Expr, nullSafe bool) error {
	if err := p.render(x); err != nil {
		return err
	}
	if nullSafe {
		p.write("?->")
	} else {
		p.write("->")
	}
	return nil
}

func (p *Printer) methodCall(n *ast.MethodCall) error {
	if err := p.arrow(n.X, n.NullSafe); err != nil {
		return err
	}
	if err := p.memberName(n.Name); err != nil {
		return err
	}
	return p.args(n.Args, n.Placeholder)
}

func (p *Printer) propertyFetch(n *ast.PropertyFetch) error {
	if err := p.arrow(n.X, n.NullSafe); err != nil {
		return err
	}
	return p.memberName(n.Name)
}

// StaticCall writes "Class::name(args)" with the class already rendered.
func (p *Printer) StaticCall(n *ast.StaticCall, class string) error {
	p.write(class, "::")
	if err := p.memberName(n.Name); err != nil {
		return err
	}
	return p.args(n.Args, n.Placeholder)
}

// StaticPropertyFetch writes "Class::$name" with the class already rendered.
func (p *Printer) StaticPropertyFetch(n *ast.StaticPropertyFetch, class string) error {
	p.write(class, "::")
	return p.render(n.Name)
}

// ClassConstFetch writes "Class::NAME" with the class already rendered.
func (p *Printer) ClassConstFetch(n *ast.ClassConstFetch, class string) error {
	p.write(class, "::", n.Name.Name)
	return nil
}

// New writes an object construction with the class already rendered. For
// an anonymous class the rendered class carries its own arguments.
func (p *Printer) New(n *ast.New, class string) error {
	p.write("new ", class)
	if _, anonymous := n.Class.(*ast.ClassDecl); anonymous {
		return nil
	}
	if len(n.Args) == 0 && !n.Rparen.IsValid() {
		return nil
	}
	return p.args(n.Args, false)
}

func (p *Printer) index(n *ast.Index) error {
	if err := p.render(n.X); err != nil {
		return err
	}
	p.write("[")
	if n.Index != nil {
		if err := p.render(n.Index); err != nil {
			return err
		}
	}
	p.write("]")
	return nil
}

func (p *Printer) params(params []*ast.Param) error {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.modifiers(param.Modifiers)
		if param.Type != nil {
			p.write(param.Type.Text, " ")
		}
		if param.ByRef {
			p.write("&")
		}
		if param.Variadic {
			p.write("...")
		}
		p.write("$", param.Var.Name)
		if param.Default != nil {
			p.write(" = ")
			if err := p.render(param.Default); err != nil {
				return err
			}
		}
	}
	p.write(")")
	return nil
}

func (p *Printer) returnType(t *ast.TypeHint) {
	if t != nil {
		p.write(": ", t.Text)
	}
}

func (p *Printer) closure(n *ast.Closure) error {
	if n.Static {
		p.write("static ")
	}
	p.write("function ")
	if n.ByRef {
		p.write("&")
	}
	if err := p.params(n.Params); err != nil {
		return err
	}
	if len(n.Uses) > 0 {
		p.write(" use (")
		for i, use := range n.Uses {
			if i > 0 {
				p.write(", ")
			}
			if use.ByRef {
				p.write("&")
			}
			p.write("$", use.Var.Name)
		}
		p.write(")")
	}
	p.returnType(n.ReturnType)
	p.write(" ")
	return p.blockOf(n.Body)
}

func (p *Printer) arrowFunc(n *ast.ArrowFunc) error {
	if n.Static {
		p.write("static ")
	}
	p.write("fn")
	if n.ByRef {
		p.write("&")
	}
	if err := p.params(n.Params); err != nil {
		return err
	}
	p.returnType(n.ReturnType)
	p.write(" => ")
	return p.render(n.Expr)
}

func (p *Printer) keywordCall(keyword string, x ast.Expr) error {
	p.write(keyword, "(")
	if err := p.render(x); err != nil {
		return err
	}
	p.write(")")
	return nil
}

func (p *Printer) exit(n *ast.Exit) error {
	p.write(n.Keyword)
	if n.X == nil {
		if n.Rparen.IsValid() {
			p.write("()")
		}
		return nil
	}
	return p.keywordCall("", n.X)
}

func (p *Printer) yield(n *ast.Yield) error {
	p.write("yield")
	if n.Value == nil {
		return nil
	}
	p.write(" ")
	if n.Key != nil {
		if err := p.render(n.Key); err != nil {
			return err
		}
		p.write(" => ")
	}
	return p.render(n.Value)
}

func (p *Printer) match(n *ast.Match) error {
	p.write("match (")
	if err := p.render(n.Cond); err != nil {
		return err
	}
	p.write(") {")
	p.indent++
	for _, arm := range n.Arms {
		p.nl()
		if arm.Conds == nil {
			p.write("default")
		} else if err := list(p, arm.Conds, ", "); err != nil {
			return err
		}
		p.write(" => ")
		if err := p.render(arm.Body); err != nil {
			return err
		}
		p.write(",")
	}
	p.indent--
	p.nl()
	p.write("}")
	return nil
}
