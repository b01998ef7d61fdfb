package ast

import "github.com/risor-io/phpsandbox/internal/token"

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X    Expr
	Semi token.Position
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (s *ExprStmt) End() token.Position { return s.Semi.Advance(1) }

// Block is a braced list of statements.
type Block struct {
	Lbrace token.Position
	Stmts  []Stmt
	Rbrace token.Position
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Lbrace }
func (s *Block) End() token.Position { return s.Rbrace.Advance(1) }

// Echo is "echo a, b;". Short is set for the "<?= a ?>" form.
type Echo struct {
	EchoPos token.Position
	Args    []Expr
	Short   bool
	Semi    token.Position
}

func (s *Echo) stmtNode() {}

func (s *Echo) Pos() token.Position { return s.EchoPos }
func (s *Echo) End() token.Position { return s.Semi.Advance(1) }

// InlineHTML is text outside of PHP tags.
type InlineHTML struct {
	TextPos token.Position
	Value   string
}

func (s *InlineHTML) stmtNode() {}

func (s *InlineHTML) Pos() token.Position { return s.TextPos }
func (s *InlineHTML) End() token.Position { return s.TextPos.Advance(len(s.Value)) }

// HaltCompiler is "__halt_compiler();" followed by raw data.
type HaltCompiler struct {
	HaltPos   token.Position
	Remaining string
}

func (s *HaltCompiler) stmtNode() {}

func (s *HaltCompiler) Pos() token.Position { return s.HaltPos }
func (s *HaltCompiler) End() token.Position {
	return s.HaltPos.Advance(len("__halt_compiler();") + len(s.Remaining))
}

// Namespace is "namespace Name;" or "namespace Name { ... }". Name is nil
// for the global namespace block "namespace { ... }". Body is nil for the
// statement form.
type Namespace struct {
	NsPos token.Position
	Name  *Name
	Body  *Block
	Semi  token.Position
}

func (s *Namespace) stmtNode() {}

func (s *Namespace) Pos() token.Position { return s.NsPos }
func (s *Namespace) End() token.Position {
	if s.Body != nil {
		return s.Body.End()
	}
	return s.Semi.Advance(1)
}

// UseKind distinguishes class, function and constant imports.
type UseKind int

const (
	UseNormal UseKind = iota
	UseFunction
	UseConst
)

// UseItem is one imported name. Kind is only set inside mixed group uses
// such as "use A\{B, function c}"; otherwise the Use statement's kind applies.
type UseItem struct {
	Kind    UseKind
	HasKind bool
	Name    *Name
	Alias   *Identifier
}

func (x *UseItem) Pos() token.Position { return x.Name.Pos() }
func (x *UseItem) End() token.Position {
	if x.Alias != nil {
		return x.Alias.End()
	}
	return x.Name.End()
}

// Use is an import statement. Prefix is set for group uses: in
// "use App\{Foo, Bar}" the prefix is "App".
type Use struct {
	UsePos token.Position
	Kind   UseKind
	Prefix *Name
	Items  []*UseItem
	Semi   token.Position
}

func (s *Use) stmtNode() {}

func (s *Use) Pos() token.Position { return s.UsePos }
func (s *Use) End() token.Position { return s.Semi.Advance(1) }

// ConstItem is "NAME = value" in a const statement or class constant.
type ConstItem struct {
	Name  *Identifier
	Value Expr
}

func (x *ConstItem) Pos() token.Position { return x.Name.Pos() }
func (x *ConstItem) End() token.Position { return x.Value.End() }

// ConstStmt is a top-level "const A = 1, B = 2;".
type ConstStmt struct {
	ConstPos token.Position
	Items    []*ConstItem
	Semi     token.Position
}

func (s *ConstStmt) stmtNode() {}

func (s *ConstStmt) Pos() token.Position { return s.ConstPos }
func (s *ConstStmt) End() token.Position { return s.Semi.Advance(1) }

// FuncDecl is a named function declaration.
type FuncDecl struct {
	FuncPos    token.Position
	ByRef      bool
	Name       *Identifier
	Params     []*Param
	ReturnType *TypeHint
	Body       *Block
}

func (s *FuncDecl) stmtNode() {}

func (s *FuncDecl) Pos() token.Position { return s.FuncPos }
func (s *FuncDecl) End() token.Position { return s.Body.End() }

// ElseIf is one "elseif (cond) { ... }" clause.
type ElseIf struct {
	ElseIfPos token.Position
	Cond      Expr
	Body      *Block
}

func (x *ElseIf) Pos() token.Position { return x.ElseIfPos }
func (x *ElseIf) End() token.Position { return x.Body.End() }

// If is an if statement. Bodies written without braces are wrapped in a
// Block by the parser.
type If struct {
	IfPos   token.Position
	Cond    Expr
	Body    *Block
	ElseIfs []*ElseIf
	Else    *Block
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.IfPos }
func (s *If) End() token.Position {
	if s.Else != nil {
		return s.Else.End()
	}
	if n := len(s.ElseIfs); n > 0 {
		return s.ElseIfs[n-1].End()
	}
	return s.Body.End()
}

// While is "while (cond) { ... }".
type While struct {
	WhilePos token.Position
	Cond     Expr
	Body     *Block
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.WhilePos }
func (s *While) End() token.Position { return s.Body.End() }

// DoWhile is "do { ... } while (cond);".
type DoWhile struct {
	DoPos token.Position
	Body  *Block
	Cond  Expr
	Semi  token.Position
}

func (s *DoWhile) stmtNode() {}

func (s *DoWhile) Pos() token.Position { return s.DoPos }
func (s *DoWhile) End() token.Position { return s.Semi.Advance(1) }

// For is "for (init; cond; step) { ... }".
type For struct {
	ForPos token.Position
	Init   []Expr
	Cond   []Expr
	Step   []Expr
	Body   *Block
}

func (s *For) stmtNode() {}

func (s *For) Pos() token.Position { return s.ForPos }
func (s *For) End() token.Position { return s.Body.End() }

// Foreach is "foreach (x as key => value) { ... }". Key is nil when absent.
type Foreach struct {
	ForeachPos token.Position
	X          Expr
	Key        Expr
	ByRef      bool
	Value      Expr
	Body       *Block
}

func (s *Foreach) stmtNode() {}

func (s *Foreach) Pos() token.Position { return s.ForeachPos }
func (s *Foreach) End() token.Position { return s.Body.End() }

// Case is one "case x:" or "default:" clause of a switch. Cond is nil for
// the default clause.
type Case struct {
	CasePos token.Position
	Cond    Expr
	Body    []Stmt
}

func (x *Case) Pos() token.Position { return x.CasePos }
func (x *Case) End() token.Position {
	if n := len(x.Body); n > 0 {
		return x.Body[n-1].End()
	}
	if x.Cond != nil {
		return x.Cond.End()
	}
	return x.CasePos.Advance(len("default"))
}

// Switch is "switch (cond) { case ...: }".
type Switch struct {
	SwitchPos token.Position
	Cond      Expr
	Cases     []*Case
	Rbrace    token.Position
}

func (s *Switch) stmtNode() {}

func (s *Switch) Pos() token.Position { return s.SwitchPos }
func (s *Switch) End() token.Position { return s.Rbrace.Advance(1) }

// Break is "break;" or "break 2;".
type Break struct {
	BreakPos token.Position
	Level    Expr
	Semi     token.Position
}

func (s *Break) stmtNode() {}

func (s *Break) Pos() token.Position { return s.BreakPos }
func (s *Break) End() token.Position { return s.Semi.Advance(1) }

// Continue is "continue;" or "continue 2;".
type Continue struct {
	ContinuePos token.Position
	Level       Expr
	Semi        token.Position
}

func (s *Continue) stmtNode() {}

func (s *Continue) Pos() token.Position { return s.ContinuePos }
func (s *Continue) End() token.Position { return s.Semi.Advance(1) }

// Return is "return;" or "return expr;".
type Return struct {
	ReturnPos token.Position
	Value     Expr
	Semi      token.Position
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.ReturnPos }
func (s *Return) End() token.Position { return s.Semi.Advance(1) }

// Catch is one "catch (A|B $e) { ... }" clause. Var is nil when the
// exception variable is omitted.
type Catch struct {
	CatchPos token.Position
	Types    []*Name
	Var      *Variable
	Body     *Block
}

func (x *Catch) Pos() token.Position { return x.CatchPos }
func (x *Catch) End() token.Position { return x.Body.End() }

// Try is "try { ... } catch ... finally { ... }".
type Try struct {
	TryPos  token.Position
	Body    *Block
	Catches []*Catch
	Finally *Block
}

func (s *Try) stmtNode() {}

func (s *Try) Pos() token.Position { return s.TryPos }
func (s *Try) End() token.Position {
	if s.Finally != nil {
		return s.Finally.End()
	}
	if n := len(s.Catches); n > 0 {
		return s.Catches[n-1].End()
	}
	return s.Body.End()
}

// Unset is "unset($a, $b);".
type Unset struct {
	UnsetPos token.Position
	Vars     []Expr
	Semi     token.Position
}

func (s *Unset) stmtNode() {}

func (s *Unset) Pos() token.Position { return s.UnsetPos }
func (s *Unset) End() token.Position { return s.Semi.Advance(1) }

// StaticVarItem is one "$x = default" in a static statement.
type StaticVarItem struct {
	Var     *Variable
	Default Expr
}

func (x *StaticVarItem) Pos() token.Position { return x.Var.Pos() }
func (x *StaticVarItem) End() token.Position {
	if x.Default != nil {
		return x.Default.End()
	}
	return x.Var.End()
}

// StaticVar is "static $a = 1, $b;".
type StaticVar struct {
	StaticPos token.Position
	Vars      []*StaticVarItem
	Semi      token.Position
}

func (s *StaticVar) stmtNode() {}

func (s *StaticVar) Pos() token.Position { return s.StaticPos }
func (s *StaticVar) End() token.Position { return s.Semi.Advance(1) }

// Global is "global $a, $b;".
type Global struct {
	GlobalPos token.Position
	Vars      []Expr
	Semi      token.Position
}

func (s *Global) stmtNode() {}

func (s *Global) Pos() token.Position { return s.GlobalPos }
func (s *Global) End() token.Position { return s.Semi.Advance(1) }

// DeclareDirective is one "name=value" pair of a declare statement.
type DeclareDirective struct {
	Name  *Identifier
	Value Expr
}

func (x *DeclareDirective) Pos() token.Position { return x.Name.Pos() }
func (x *DeclareDirective) End() token.Position { return x.Value.End() }

// Declare is "declare(strict_types=1);" or "declare(ticks=1) { ... }".
type Declare struct {
	DeclarePos token.Position
	Directives []*DeclareDirective
	Body       *Block
	Semi       token.Position
}

func (s *Declare) stmtNode() {}

func (s *Declare) Pos() token.Position { return s.DeclarePos }
func (s *Declare) End() token.Position {
	if s.Body != nil {
		return s.Body.End()
	}
	return s.Semi.Advance(1)
}
