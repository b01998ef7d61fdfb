package printer

import (
	"strings"

	"github.com/risor-io/phpsandbox/ast"
)

// modifiers writes each modifier followed by a space.
func (p *Printer) modifiers(mods []string) {
	for _, m := range mods {
		p.write(m, " ")
	}
}

func (p *Printer) funcDecl(n *ast.FuncDecl) error {
	p.write("function ")
	if n.ByRef {
		p.write("&")
	}
	p.write(n.Name.Name)
	if err := p.params(n.Params); err != nil {
		return err
	}
	p.returnType(n.ReturnType)
	return p.declBody(n.Body.Stmts)
}

// classDecl writes a named class, or the part of an anonymous class that
// follows "new".
func (p *Printer) classDecl(n *ast.ClassDecl) error {
	p.modifiers(n.Modifiers)
	p.write("class")
	if n.Name != nil {
		p.write(" ", n.Name.Name)
	} else if len(n.Args) > 0 {
		if err := p.args(n.Args, false); err != nil {
			return err
		}
	}
	if n.Extends != nil {
		p.write(" extends ", n.Extends.Value)
	}
	if len(n.Implements) > 0 {
		p.write(" implements ")
		if err := p.names(n.Implements, ", "); err != nil {
			return err
		}
	}
	if n.Name == nil {
		p.write(" ")
		return p.block(n.Members)
	}
	return p.declBody(n.Members)
}

func (p *Printer) interfaceDecl(n *ast.InterfaceDecl) error {
	p.write("interface ", n.Name.Name)
	if len(n.Extends) > 0 {
		p.write(" extends ")
		if err := p.names(n.Extends, ", "); err != nil {
			return err
		}
	}
	return p.declBody(n.Members)
}

func (p *Printer) enumDecl(n *ast.EnumDecl) error {
	p.write("enum ", n.Name.Name)
	if n.BackingType != nil {
		p.write(": ", n.BackingType.Text)
	}
	if len(n.Implements) > 0 {
		p.write(" implements ")
		if err := p.names(n.Implements, ", "); err != nil {
			return err
		}
	}
	return p.declBody(n.Members)
}

func (p *Printer) classMethod(n *ast.ClassMethod) error {
	p.modifiers(n.Modifiers)
	p.write("function ")
	if n.ByRef {
		p.write("&")
	}
	p.write(n.Name.Name)
	if err := p.params(n.Params); err != nil {
		return err
	}
	p.returnType(n.ReturnType)
	if n.Body == nil {
		p.write(";")
		return nil
	}
	return p.declBody(n.Body.Stmts)
}

func (p *Printer) property(n *ast.Property) error {
	p.modifiers(n.Modifiers)
	if n.Type != nil {
		p.write(n.Type.Text, " ")
	}
	for i, item := range n.Items {
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

func (p *Printer) traitUse(n *ast.TraitUse) error {
	p.write("use ")
	if err := p.names(n.Traits, ", "); err != nil {
		return err
	}
	if len(n.Adaptations) == 0 {
		p.write(";")
		return nil
	}
	p.write(" {")
	p.indent++
	for _, a := range n.Adaptations {
		p.nl()
		if err := p.render(a); err != nil {
			return err
		}
	}
	p.indent--
	p.nl()
	p.write("}")
	return nil
}

func (p *Printer) traitAdaptation(n *ast.TraitAdaptation) error {
	if n.Trait != nil {
		p.write(n.Trait.Value, "::")
	}
	p.write(n.Method.Name)
	if len(n.Insteadof) > 0 {
		p.write(" insteadof ")
		if err := p.names(n.Insteadof, ", "); err != nil {
			return err
		}
		p.write(";")
		return nil
	}
	var alias []string
	if n.Modifier != "" {
		alias = append(alias, n.Modifier)
	}
	if n.Alias != nil {
		alias = append(alias, n.Alias.Name)
	}
	p.write(" as ", strings.Join(alias, " "), ";")
	return nil
}
