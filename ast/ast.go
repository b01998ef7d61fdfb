// Package ast defines the abstract syntax tree representation of PHP code.
package ast

import (
	"strings"

	"github.com/risor-io/phpsandbox/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node of a parsed PHP file.
type Program struct {
	Stmts []Stmt
	// Tokens is the number of tokens the lexer produced for the file,
	// excluding EOF. A file with no tokens at all is empty.
	Tokens int
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.NoPos
}

func (p *Program) End() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[len(p.Stmts)-1].End()
	}
	return token.NoPos
}

// NameKind classifies how a name was written in the source.
type NameKind int

const (
	// Unqualified names contain no namespace separator: "strlen".
	Unqualified NameKind = iota
	// Qualified names contain a separator but no leading one: "Foo\bar".
	Qualified
	// FullyQualified names start with a separator: "\Foo\bar".
	FullyQualified
	// Relative names start with the namespace keyword: "namespace\bar".
	Relative
)

// Name is a possibly namespaced name, as written in the source. Used as a
// function callee, a class reference, or on its own as a constant fetch.
type Name struct {
	NamePos token.Position
	Value   string
	Kind    NameKind
}

func (x *Name) exprNode() {}

func (x *Name) Pos() token.Position { return x.NamePos }
func (x *Name) End() token.Position { return x.NamePos.Advance(len(x.Value)) }

// Parts returns the namespace segments of the name, without any leading
// separator or "namespace" keyword.
func (x *Name) Parts() []string {
	v := strings.TrimPrefix(x.Value, `\`)
	if x.Kind == Relative {
		v = v[len("namespace\\"):]
	}
	return strings.Split(v, `\`)
}

// Last returns the final segment of the name.
func (x *Name) Last() string {
	parts := x.Parts()
	return parts[len(parts)-1]
}

// Identifier is a plain, non-namespaced name such as a declared function
// name, a member name after "->" or "::", or a named argument label.
type Identifier struct {
	NamePos token.Position
	Name    string
}

func (x *Identifier) exprNode() {}

func (x *Identifier) Pos() token.Position { return x.NamePos }
func (x *Identifier) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

// BadExpr represents an expression containing syntax errors.
// It is used by the parser to continue parsing after an error,
// allowing subsequent errors to be detected without giving up.
type BadExpr struct {
	From token.Position // start of bad expression
	To   token.Position // end of bad expression
}

func (x *BadExpr) exprNode() {}

func (x *BadExpr) Pos() token.Position { return x.From }
func (x *BadExpr) End() token.Position { return x.To }

// BadStmt represents a statement containing syntax errors.
type BadStmt struct {
	From token.Position // start of bad statement
	To   token.Position // end of bad statement
}

func (x *BadStmt) stmtNode() {}

func (x *BadStmt) Pos() token.Position { return x.From }
func (x *BadStmt) End() token.Position { return x.To }
