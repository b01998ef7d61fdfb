package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns false, the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

type children []Node

func (c *children) expr(x Expr) {
	if x != nil {
		*c = append(*c, x)
	}
}

func (c *children) exprs(xs []Expr) {
	for _, x := range xs {
		c.expr(x)
	}
}

func (c *children) stmts(xs []Stmt) {
	for _, x := range xs {
		if x != nil {
			*c = append(*c, x)
		}
	}
}

func (c *children) block(b *Block) {
	if b != nil {
		*c = append(*c, b)
	}
}

func (c *children) name(n *Name) {
	if n != nil {
		*c = append(*c, n)
	}
}

func (c *children) names(ns []*Name) {
	for _, n := range ns {
		c.name(n)
	}
}

func (c *children) ident(i *Identifier) {
	if i != nil {
		*c = append(*c, i)
	}
}

func (c *children) typeHint(t *TypeHint) {
	if t != nil {
		*c = append(*c, t)
	}
}

func (c *children) variable(v *Variable) {
	if v != nil {
		*c = append(*c, v)
	}
}

func (c *children) args(args []*Arg) {
	for _, a := range args {
		*c = append(*c, a)
	}
}

func (c *children) params(params []*Param) {
	for _, p := range params {
		*c = append(*c, p)
	}
}

// Children returns the direct, non-nil children of node in source order.
func Children(node Node) []Node {
	var c children
	switch n := node.(type) {
	case *Program:
		c.stmts(n.Stmts)

	// Expressions
	case *VarVar:
		c.expr(n.X)
	case *Unary:
		c.expr(n.X)
	case *Postfix:
		c.expr(n.X)
	case *Cast:
		c.expr(n.X)
	case *Binary:
		c.expr(n.X)
		c.expr(n.Y)
	case *Assign:
		c.expr(n.X)
		c.expr(n.Y)
	case *Ternary:
		c.expr(n.Cond)
		c.expr(n.Then)
		c.expr(n.Else)
	case *Paren:
		c.expr(n.X)
	case *Arg:
		c.ident(n.Name)
		c.expr(n.Value)
	case *Call:
		c.expr(n.Func)
		c.args(n.Args)
	case *MethodCall:
		c.expr(n.X)
		c.expr(n.Name)
		c.args(n.Args)
	case *StaticCall:
		c.expr(n.Class)
		c.expr(n.Name)
		c.args(n.Args)
	case *PropertyFetch:
		c.expr(n.X)
		c.expr(n.Name)
	case *StaticPropertyFetch:
		c.expr(n.Class)
		c.expr(n.Name)
	case *ClassConstFetch:
		c.expr(n.Class)
		c.ident(n.Name)
	case *Index:
		c.expr(n.X)
		c.expr(n.Index)
	case *New:
		c.expr(n.Class)
		c.args(n.Args)
	case *Clone:
		c.expr(n.X)
	case *Param:
		c.typeHint(n.Type)
		c.variable(n.Var)
		c.expr(n.Default)
	case *ClosureUse:
		c.variable(n.Var)
	case *Closure:
		c.params(n.Params)
		for _, u := range n.Uses {
			c = append(c, u)
		}
		c.typeHint(n.ReturnType)
		c.block(n.Body)
	case *ArrowFunc:
		c.params(n.Params)
		c.typeHint(n.ReturnType)
		c.expr(n.Expr)
	case *Isset:
		c.exprs(n.Vars)
	case *Empty:
		c.expr(n.X)
	case *Exit:
		c.expr(n.X)
	case *Eval:
		c.expr(n.X)
	case *Include:
		c.expr(n.X)
	case *Print:
		c.expr(n.X)
	case *Yield:
		c.expr(n.Key)
		c.expr(n.Value)
	case *YieldFrom:
		c.expr(n.X)
	case *Throw:
		c.expr(n.X)
	case *MatchArm:
		c.exprs(n.Conds)
		c.expr(n.Body)
	case *Match:
		c.expr(n.Cond)
		for _, arm := range n.Arms {
			c = append(c, arm)
		}
	case *ShellExec:
		c.exprs(n.Parts)
	case *InterpolatedString:
		c.exprs(n.Parts)
	case *ArrayItem:
		c.expr(n.Key)
		c.expr(n.Value)
	case *Array:
		for _, item := range n.Items {
			if item != nil {
				c = append(c, item)
			}
		}

	// Statements
	case *ExprStmt:
		c.expr(n.X)
	case *Block:
		c.stmts(n.Stmts)
	case *Echo:
		c.exprs(n.Args)
	case *Namespace:
		c.name(n.Name)
		c.block(n.Body)
	case *UseItem:
		c.name(n.Name)
		c.ident(n.Alias)
	case *Use:
		c.name(n.Prefix)
		for _, item := range n.Items {
			c = append(c, item)
		}
	case *ConstItem:
		c.ident(n.Name)
		c.expr(n.Value)
	case *ConstStmt:
		for _, item := range n.Items {
			c = append(c, item)
		}
	case *FuncDecl:
		c.ident(n.Name)
		c.params(n.Params)
		c.typeHint(n.ReturnType)
		c.block(n.Body)
	case *ElseIf:
		c.expr(n.Cond)
		c.block(n.Body)
	case *If:
		c.expr(n.Cond)
		c.block(n.Body)
		for _, e := range n.ElseIfs {
			c = append(c, e)
		}
		c.block(n.Else)
	case *While:
		c.expr(n.Cond)
		c.block(n.Body)
	case *DoWhile:
		c.block(n.Body)
		c.expr(n.Cond)
	case *For:
		c.exprs(n.Init)
		c.exprs(n.Cond)
		c.exprs(n.Step)
		c.block(n.Body)
	case *Foreach:
		c.expr(n.X)
		c.expr(n.Key)
		c.expr(n.Value)
		c.block(n.Body)
	case *Case:
		c.expr(n.Cond)
		c.stmts(n.Body)
	case *Switch:
		c.expr(n.Cond)
		for _, cs := range n.Cases {
			c = append(c, cs)
		}
	case *Break:
		c.expr(n.Level)
	case *Continue:
		c.expr(n.Level)
	case *Return:
		c.expr(n.Value)
	case *Catch:
		c.names(n.Types)
		c.variable(n.Var)
		c.block(n.Body)
	case *Try:
		c.block(n.Body)
		for _, cc := range n.Catches {
			c = append(c, cc)
		}
		c.block(n.Finally)
	case *Unset:
		c.exprs(n.Vars)
	case *StaticVarItem:
		c.variable(n.Var)
		c.expr(n.Default)
	case *StaticVar:
		for _, item := range n.Vars {
			c = append(c, item)
		}
	case *Global:
		c.exprs(n.Vars)
	case *DeclareDirective:
		c.ident(n.Name)
		c.expr(n.Value)
	case *Declare:
		for _, d := range n.Directives {
			c = append(c, d)
		}
		c.block(n.Body)

	// Declarations
	case *ClassDecl:
		c.ident(n.Name)
		c.args(n.Args)
		c.name(n.Extends)
		c.names(n.Implements)
		c.stmts(n.Members)
	case *InterfaceDecl:
		c.ident(n.Name)
		c.names(n.Extends)
		c.stmts(n.Members)
	case *TraitDecl:
		c.ident(n.Name)
		c.stmts(n.Members)
	case *EnumDecl:
		c.ident(n.Name)
		c.typeHint(n.BackingType)
		c.names(n.Implements)
		c.stmts(n.Members)
	case *PropertyItem:
		c.variable(n.Var)
		c.expr(n.Default)
	case *Property:
		c.typeHint(n.Type)
		for _, item := range n.Items {
			c = append(c, item)
		}
	case *ClassMethod:
		c.ident(n.Name)
		c.params(n.Params)
		c.typeHint(n.ReturnType)
		c.block(n.Body)
	case *ClassConst:
		for _, item := range n.Items {
			c = append(c, item)
		}
	case *TraitAdaptation:
		c.name(n.Trait)
		c.ident(n.Method)
		c.names(n.Insteadof)
		c.ident(n.Alias)
	case *TraitUse:
		c.names(n.Traits)
		for _, a := range n.Adaptations {
			c = append(c, a)
		}
	case *EnumCase:
		c.ident(n.Name)
		c.expr(n.Value)
	}
	return c
}
