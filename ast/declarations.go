package ast

import "github.com/risor-io/phpsandbox/internal/token"

// ClassDecl is a class declaration. For an anonymous class, used as the
// Class of a New expression, Name is nil and Args holds the constructor
// arguments.
type ClassDecl struct {
	ClassPos   token.Position
	Modifiers  []string
	Name       *Identifier
	Args       []*Arg
	Extends    *Name
	Implements []*Name
	Members    []Stmt
	Rbrace     token.Position
}

func (s *ClassDecl) stmtNode() {}
func (s *ClassDecl) exprNode() {}

func (s *ClassDecl) Pos() token.Position { return s.ClassPos }
func (s *ClassDecl) End() token.Position { return s.Rbrace.Advance(1) }

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	InterfacePos token.Position
	Name         *Identifier
	Extends      []*Name
	Members      []Stmt
	Rbrace       token.Position
}

func (s *InterfaceDecl) stmtNode() {}

func (s *InterfaceDecl) Pos() token.Position { return s.InterfacePos }
func (s *InterfaceDecl) End() token.Position { return s.Rbrace.Advance(1) }

// TraitDecl is a trait declaration.
type TraitDecl struct {
	TraitPos token.Position
	Name     *Identifier
	Members  []Stmt
	Rbrace   token.Position
}

func (s *TraitDecl) stmtNode() {}

func (s *TraitDecl) Pos() token.Position { return s.TraitPos }
func (s *TraitDecl) End() token.Position { return s.Rbrace.Advance(1) }

// EnumDecl is an enum declaration. BackingType is nil for pure enums.
type EnumDecl struct {
	EnumPos     token.Position
	Name        *Identifier
	BackingType *TypeHint
	Implements  []*Name
	Members     []Stmt
	Rbrace      token.Position
}

func (s *EnumDecl) stmtNode() {}

func (s *EnumDecl) Pos() token.Position { return s.EnumPos }
func (s *EnumDecl) End() token.Position { return s.Rbrace.Advance(1) }

// PropertyItem is one "$name = default" of a property declaration.
type PropertyItem struct {
	Var     *Variable
	Default Expr
}

func (x *PropertyItem) Pos() token.Position { return x.Var.Pos() }
func (x *PropertyItem) End() token.Position {
	if x.Default != nil {
		return x.Default.End()
	}
	return x.Var.End()
}

// Property is a class property declaration.
type Property struct {
	StartPos  token.Position
	Modifiers []string
	Type      *TypeHint
	Items     []*PropertyItem
	Semi      token.Position
}

func (s *Property) stmtNode() {}

func (s *Property) Pos() token.Position { return s.StartPos }
func (s *Property) End() token.Position { return s.Semi.Advance(1) }

// ClassMethod is a method declaration. Body is nil for abstract and
// interface methods.
type ClassMethod struct {
	StartPos   token.Position
	Modifiers  []string
	ByRef      bool
	Name       *Identifier
	Params     []*Param
	ReturnType *TypeHint
	Body       *Block
	Semi       token.Position
}

func (s *ClassMethod) stmtNode() {}

func (s *ClassMethod) Pos() token.Position { return s.StartPos }
func (s *ClassMethod) End() token.Position {
	if s.Body != nil {
		return s.Body.End()
	}
	return s.Semi.Advance(1)
}

// ClassConst is a class constant declaration.
type ClassConst struct {
	StartPos  token.Position
	Modifiers []string
	Items     []*ConstItem
	Semi      token.Position
}

func (s *ClassConst) stmtNode() {}

func (s *ClassConst) Pos() token.Position { return s.StartPos }
func (s *ClassConst) End() token.Position { return s.Semi.Advance(1) }

// TraitAdaptation is one rule inside a trait use block:
// "A::foo insteadof B;" or "foo as protected bar;".
type TraitAdaptation struct {
	Trait     *Name // optional trait qualifier
	Method    *Identifier
	Insteadof []*Name
	Modifier  string
	Alias     *Identifier
	Semi      token.Position
}

func (s *TraitAdaptation) stmtNode() {}

func (s *TraitAdaptation) Pos() token.Position {
	if s.Trait != nil {
		return s.Trait.Pos()
	}
	return s.Method.Pos()
}
func (s *TraitAdaptation) End() token.Position { return s.Semi.Advance(1) }

// TraitUse is "use A, B;" or "use A { ... }" inside a class body.
type TraitUse struct {
	UsePos      token.Position
	Traits      []*Name
	Adaptations []*TraitAdaptation
	EndPos      token.Position
}

func (s *TraitUse) stmtNode() {}

func (s *TraitUse) Pos() token.Position { return s.UsePos }
func (s *TraitUse) End() token.Position { return s.EndPos }

// EnumCase is "case Name = value;" inside an enum.
type EnumCase struct {
	CasePos token.Position
	Name    *Identifier
	Value   Expr
	Semi    token.Position
}

func (s *EnumCase) stmtNode() {}

func (s *EnumCase) Pos() token.Position { return s.CasePos }
func (s *EnumCase) End() token.Position { return s.Semi.Advance(1) }
