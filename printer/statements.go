package printer

import (
	"strings"

	"github.com/risor-io/phpsandbox/ast"
)

func (p *Printer) inlineHTML(n *ast.InlineHTML) {
	p.write("?>")
	// The close tag swallows one newline directly after it.
	if strings.HasPrefix(n.Value, "\n") || strings.HasPrefix(n.Value, "\r\n") {
		p.write("\n")
	}
	p.write(n.Value, "<?php")
}

func (p *Printer) namespace(n *ast.Namespace) error {
	p.write("namespace")
	if n.Name != nil {
		p.write(" ", n.Name.Value)
	}
	if n.Body == nil {
		p.write(";")
		return nil
	}
	p.write(" ")
	return p.block(n.Body.Stmts)
}

func useKind(kind ast.UseKind) string {
	switch kind {
	case ast.UseFunction:
		return "function "
	case ast.UseConst:
		return "const "
	}
	return ""
}

func (p *Printer) use(n *ast.Use) error {
	p.write("use ", useKind(n.Kind))
	if n.Prefix != nil {
		p.write(n.Prefix.Value, `\{`)
	}
	for i, item := range n.Items {
		if i > 0 {
			p.write(", ")
		}
		if item.HasKind {
			p.write(useKind(item.Kind))
		}
		p.write(item.Name.Value)
		if item.Alias != nil {
			p.write(" as ", item.Alias.Name)
		}
	}
	if n.Prefix != nil {
		p.write("}")
	}
	p.write(";")
	return nil
}

func (p *Printer) constItems(items []*ast.ConstItem) error {
	for i, item := range items {
		if i > 0 {
			p.write(", ")
		}
		p.write(item.Name.Name, " = ")
		if err := p.render(item.Value); err != nil {
			return err
		}
	}
	return nil
}

// cond writes "keyword (cond) " ahead of a block.
func (p *Printer) cond(keyword string, x ast.Expr) error {
	p.write(keyword, " (")
	if err := p.render(x); err != nil {
		return err
	}
	p.write(") ")
	return nil
}

func (p *Printer) ifStmt(n *ast.If) error {
	if err := p.cond("if", n.Cond); err != nil {
		return err
	}
	if err := p.blockOf(n.Body); err != nil {
		return err
	}
	for _, elseIf := range n.ElseIfs {
		if err := p.cond(" elseif", elseIf.Cond); err != nil {
			return err
		}
		if err := p.blockOf(elseIf.Body); err != nil {
			return err
		}
	}
	if n.Else != nil {
		p.write(" else ")
		return p.blockOf(n.Else)
	}
	return nil
}

func (p *Printer) forStmt(n *ast.For) error {
	p.write("for (")
	if err := list(p, n.Init, ", "); err != nil {
		return err
	}
	p.write(";")
	if len(n.Cond) > 0 {
		p.write(" ")
	}
	if err := list(p, n.Cond, ", "); err != nil {
		return err
	}
	p.write(";")
	if len(n.Step) > 0 {
		p.write(" ")
	}
	if err := list(p, n.Step, ", "); err != nil {
		return err
	}
	p.write(") ")
	return p.blockOf(n.Body)
}

func (p *Printer) foreach(n *ast.Foreach) error {
	p.write("foreach (")
	if err := p.render(n.X); err != nil {
		return err
	}
	p.write(" as ")
	if n.Key != nil {
		if err := p.render(n.Key); err != nil {
			return err
		}
		p.write(" => ")
	}
	if n.ByRef {
		p.write("&")
	}
	if err := p.render(n.Value); err != nil {
		return err
	}
	p.write(") ")
	return p.blockOf(n.Body)
}

func (p *Printer) switchStmt(n *ast.Switch) error {
	if err := p.cond("switch", n.Cond); err != nil {
		return err
	}
	p.write("{")
	p.indent++
	for _, c := range n.Cases {
		p.nl()
		if c.Cond == nil {
			p.write("default:")
		} else {
			p.write("case ")
			if err := p.render(c.Cond); err != nil {
				return err
			}
			p.write(":")
		}
		p.indent++
		for _, s := range c.Body {
			p.nl()
			if err := p.render(s); err != nil {
				return err
			}
		}
		p.indent--
	}
	p.indent--
	p.nl()
	p.write("}")
	return nil
}

// jump writes break, continue and return with an optional operand.
func (p *Printer) jump(keyword string, x ast.Expr) error {
	p.write(keyword)
	if x != nil {
		p.write(" ")
		if err := p.render(x); err != nil {
			return err
		}
	}
	p.write(";")
	return nil
}

func (p *Printer) try(n *ast.Try) error {
	p.write("try ")
	if err := p.blockOf(n.Body); err != nil {
		return err
	}
	for _, c := range n.Catches {
		p.write(" catch (")
		if err := p.names(c.Types, "|"); err != nil {
			return err
		}
		if c.Var != nil {
			p.write(" $", c.Var.Name)
		}
		p.write(") ")
		if err := p.blockOf(c.Body); err != nil {
			return err
		}
	}
	if n.Finally != nil {
		p.write(" finally ")
		return p.blockOf(n.Finally)
	}
	return nil
}

func (p *Printer) staticVar(n *ast.StaticVar) error {
	p.write("static ")
	for i, item := range n.Vars {
		if i > 0 {
			p.write(", ")
		}
		p.write("$", item.Var.Name)
		if item.Default != nil {
			p.write(" = ")
			if err := p.render(item.Default); err != nil {
				return err
			}
		}
	}
	p.write(";")
	return nil
}

func (p *Printer) declare(n *ast.Declare) error {
	p.write("declare(")
	for i, d := range n.Directives {
		if i > 0 {
			p.write(", ")
		}
		p.write(d.Name.Name, "=")
		if err := p.render(d.Value); err != nil {
			return err
		}
	}
	p.write(")")
	if n.Body == nil {
		p.write(";")
		return nil
	}
	p.write(" ")
	return p.block(n.Body.Stmts)
}
