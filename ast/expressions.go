package ast

import "github.com/risor-io/phpsandbox/internal/token"

// Variable is a simple variable such as "$x". Name excludes the "$".
type Variable struct {
	DollarPos token.Position
	Name      string
}

func (x *Variable) exprNode() {}

func (x *Variable) Pos() token.Position { return x.DollarPos }
func (x *Variable) End() token.Position { return x.DollarPos.Advance(len(x.Name) + 1) }

// VarVar is a variable whose name is computed: "$$x" or "${expr}".
type VarVar struct {
	DollarPos token.Position
	X         Expr
	Braced    bool           // written as "${expr}"
	Rbrace    token.Position // position of "}" when braced
}

func (x *VarVar) exprNode() {}

func (x *VarVar) Pos() token.Position { return x.DollarPos }
func (x *VarVar) End() token.Position {
	if x.Braced {
		return x.Rbrace.Advance(1)
	}
	return x.X.End()
}

// Unary is an operator expression where the operator precedes the operand.
// Op is one of "!", "-", "+", "~", "@", "++", "--", "&".
type Unary struct {
	OpPos token.Position
	Op    string
	X     Expr
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() token.Position { return x.OpPos }
func (x *Unary) End() token.Position { return x.X.End() }

// Postfix is "$x++" or "$x--".
type Postfix struct {
	X     Expr
	OpPos token.Position
	Op    string
}

func (x *Postfix) exprNode() {}

func (x *Postfix) Pos() token.Position { return x.X.Pos() }
func (x *Postfix) End() token.Position { return x.OpPos.Advance(len(x.Op)) }

// Cast is a type cast such as "(int) $x". Type holds the canonical name.
type Cast struct {
	CastPos token.Position
	Type    string
	X       Expr
}

func (x *Cast) exprNode() {}

func (x *Cast) Pos() token.Position { return x.CastPos }
func (x *Cast) End() token.Position { return x.X.End() }

// Binary is an infix operator expression. Logical keyword operators keep
// their lowercase spelling ("and", "or", "xor"), and "instanceof" is also
// represented as a Binary.
type Binary struct {
	X     Expr
	OpPos token.Position
	Op    string
	Y     Expr
}

func (x *Binary) exprNode() {}

func (x *Binary) Pos() token.Position { return x.X.Pos() }
func (x *Binary) End() token.Position { return x.Y.End() }

// Assign is an assignment, including compound assignments ("+=", "??=")
// and assignment by reference ("=&").
type Assign struct {
	X     Expr
	OpPos token.Position
	Op    string
	ByRef bool
	Y     Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.X.Pos() }
func (x *Assign) End() token.Position { return x.Y.End() }

// Ternary is "cond ? a : b". Then is nil for the short form "cond ?: b".
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (x *Ternary) exprNode() {}

func (x *Ternary) Pos() token.Position { return x.Cond.Pos() }
func (x *Ternary) End() token.Position { return x.Else.End() }

// Paren is a parenthesized expression. The parser keeps explicit
// parentheses so that the printed output groups exactly like the input.
type Paren struct {
	Lparen token.Position
	X      Expr
	Rparen token.Position
}

func (x *Paren) exprNode() {}

func (x *Paren) Pos() token.Position { return x.Lparen }
func (x *Paren) End() token.Position { return x.Rparen.Advance(1) }

// Arg is a single call argument.
type Arg struct {
	Name   *Identifier // named argument label, or nil
	Value  Expr
	Spread bool // "...$args"
}

func (x *Arg) Pos() token.Position {
	if x.Name != nil {
		return x.Name.Pos()
	}
	return x.Value.Pos()
}
func (x *Arg) End() token.Position { return x.Value.End() }

// Call is a function call. Func is a *Name for a direct call, or any other
// expression for a dynamic call. Placeholder marks a first-class callable
// creation such as "strlen(...)".
type Call struct {
	Func        Expr
	Lparen      token.Position
	Args        []*Arg
	Placeholder bool
	Rparen      token.Position
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Func.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

// MethodCall is "$obj->name(args)" or "$obj?->name(args)". Name is an
// *Identifier, a *Variable, or a braced expression.
type MethodCall struct {
	X           Expr
	NullSafe    bool
	Name        Expr
	Args        []*Arg
	Placeholder bool
	Rparen      token.Position
}

func (x *MethodCall) exprNode() {}

func (x *MethodCall) Pos() token.Position { return x.X.Pos() }
func (x *MethodCall) End() token.Position { return x.Rparen.Advance(1) }

// StaticCall is "Class::name(args)".
type StaticCall struct {
	Class       Expr
	Name        Expr
	Args        []*Arg
	Placeholder bool
	Rparen      token.Position
}

func (x *StaticCall) exprNode() {}

func (x *StaticCall) Pos() token.Position { return x.Class.Pos() }
func (x *StaticCall) End() token.Position { return x.Rparen.Advance(1) }

// PropertyFetch is "$obj->name" or "$obj?->name".
type PropertyFetch struct {
	X        Expr
	NullSafe bool
	Name     Expr
}

func (x *PropertyFetch) exprNode() {}

func (x *PropertyFetch) Pos() token.Position { return x.X.Pos() }
func (x *PropertyFetch) End() token.Position { return x.Name.End() }

// StaticPropertyFetch is "Class::$name".
type StaticPropertyFetch struct {
	Class Expr
	Name  Expr // *Variable or *VarVar
}

func (x *StaticPropertyFetch) exprNode() {}

func (x *StaticPropertyFetch) Pos() token.Position { return x.Class.Pos() }
func (x *StaticPropertyFetch) End() token.Position { return x.Name.End() }

// ClassConstFetch is "Class::NAME", including "Class::class".
type ClassConstFetch struct {
	Class Expr
	Name  *Identifier
}

func (x *ClassConstFetch) exprNode() {}

func (x *ClassConstFetch) Pos() token.Position { return x.Class.Pos() }
func (x *ClassConstFetch) End() token.Position { return x.Name.End() }

// Index is an array access "$a[i]". Index is nil for the append form "$a[]".
type Index struct {
	X      Expr
	Lbrack token.Position
	Index  Expr
	Rbrack token.Position
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position { return x.X.Pos() }
func (x *Index) End() token.Position { return x.Rbrack.Advance(1) }

// New is an object construction. Class is a *Name, a dynamic expression, or
// a *ClassDecl for an anonymous class (whose constructor arguments are then
// held by the ClassDecl).
type New struct {
	NewPos token.Position
	Class  Expr
	Args   []*Arg
	Rparen token.Position // NoPos when written without parentheses
}

func (x *New) exprNode() {}

func (x *New) Pos() token.Position { return x.NewPos }
func (x *New) End() token.Position {
	if x.Rparen.IsValid() {
		return x.Rparen.Advance(1)
	}
	return x.Class.End()
}

// Clone is "clone $x".
type Clone struct {
	ClonePos token.Position
	X        Expr
}

func (x *Clone) exprNode() {}

func (x *Clone) Pos() token.Position { return x.ClonePos }
func (x *Clone) End() token.Position { return x.X.End() }

// Param is a single function parameter.
type Param struct {
	Modifiers []string // constructor promotion modifiers
	Type      *TypeHint
	ByRef     bool
	Variadic  bool
	Var       *Variable
	Default   Expr
}

func (x *Param) Pos() token.Position {
	if x.Type != nil {
		return x.Type.Pos()
	}
	return x.Var.Pos()
}
func (x *Param) End() token.Position {
	if x.Default != nil {
		return x.Default.End()
	}
	return x.Var.End()
}

// TypeHint is a parameter, property or return type. Text is the normalized
// spelling, for example "?int", "int|string" or "\Foo\Bar".
type TypeHint struct {
	TypePos token.Position
	Text    string
}

func (x *TypeHint) Pos() token.Position { return x.TypePos }
func (x *TypeHint) End() token.Position { return x.TypePos.Advance(len(x.Text)) }

// ClosureUse is one variable imported by "use (...)" on a closure.
type ClosureUse struct {
	ByRef bool
	Var   *Variable
}

func (x *ClosureUse) Pos() token.Position { return x.Var.Pos() }
func (x *ClosureUse) End() token.Position { return x.Var.End() }

// Closure is an anonymous function "function (...) use (...) { ... }".
type Closure struct {
	FuncPos    token.Position
	Static     bool
	ByRef      bool
	Params     []*Param
	Uses       []*ClosureUse
	ReturnType *TypeHint
	Body       *Block
}

func (x *Closure) exprNode() {}

func (x *Closure) Pos() token.Position { return x.FuncPos }
func (x *Closure) End() token.Position { return x.Body.End() }

// ArrowFunc is "fn (...) => expr".
type ArrowFunc struct {
	FnPos      token.Position
	Static     bool
	ByRef      bool
	Params     []*Param
	ReturnType *TypeHint
	Expr       Expr
}

func (x *ArrowFunc) exprNode() {}

func (x *ArrowFunc) Pos() token.Position { return x.FnPos }
func (x *ArrowFunc) End() token.Position { return x.Expr.End() }

// Isset is "isset($a, $b)".
type Isset struct {
	IssetPos token.Position
	Vars     []Expr
	Rparen   token.Position
}

func (x *Isset) exprNode() {}

func (x *Isset) Pos() token.Position { return x.IssetPos }
func (x *Isset) End() token.Position { return x.Rparen.Advance(1) }

// Empty is "empty($x)".
type Empty struct {
	EmptyPos token.Position
	X        Expr
	Rparen   token.Position
}

func (x *Empty) exprNode() {}

func (x *Empty) Pos() token.Position { return x.EmptyPos }
func (x *Empty) End() token.Position { return x.Rparen.Advance(1) }

// Exit is "exit", "exit(code)" or the "die" spelling of it.
type Exit struct {
	ExitPos token.Position
	Keyword string
	X       Expr
	Rparen  token.Position
}

func (x *Exit) exprNode() {}

func (x *Exit) Pos() token.Position { return x.ExitPos }
func (x *Exit) End() token.Position {
	if x.Rparen.IsValid() {
		return x.Rparen.Advance(1)
	}
	return x.ExitPos.Advance(len(x.Keyword))
}

// Eval is "eval(code)".
type Eval struct {
	EvalPos token.Position
	X       Expr
	Rparen  token.Position
}

func (x *Eval) exprNode() {}

func (x *Eval) Pos() token.Position { return x.EvalPos }
func (x *Eval) End() token.Position { return x.Rparen.Advance(1) }

// Include is "include", "include_once", "require" or "require_once".
type Include struct {
	IncludePos token.Position
	Keyword    string
	X          Expr
}

func (x *Include) exprNode() {}

func (x *Include) Pos() token.Position { return x.IncludePos }
func (x *Include) End() token.Position { return x.X.End() }

// Print is "print expr".
type Print struct {
	PrintPos token.Position
	X        Expr
}

func (x *Print) exprNode() {}

func (x *Print) Pos() token.Position { return x.PrintPos }
func (x *Print) End() token.Position { return x.X.End() }

// Yield is "yield", "yield value" or "yield key => value".
type Yield struct {
	YieldPos token.Position
	Key      Expr
	Value    Expr
}

func (x *Yield) exprNode() {}

func (x *Yield) Pos() token.Position { return x.YieldPos }
func (x *Yield) End() token.Position {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.YieldPos.Advance(len("yield"))
}

// YieldFrom is "yield from expr".
type YieldFrom struct {
	YieldPos token.Position
	X        Expr
}

func (x *YieldFrom) exprNode() {}

func (x *YieldFrom) Pos() token.Position { return x.YieldPos }
func (x *YieldFrom) End() token.Position { return x.X.End() }

// Throw is "throw expr". It is an expression since PHP 8.
type Throw struct {
	ThrowPos token.Position
	X        Expr
}

func (x *Throw) exprNode() {}

func (x *Throw) Pos() token.Position { return x.ThrowPos }
func (x *Throw) End() token.Position { return x.X.End() }

// MatchArm is one arm of a match expression. Conds is nil for "default".
type MatchArm struct {
	Conds []Expr
	Body  Expr
}

func (x *MatchArm) Pos() token.Position {
	if len(x.Conds) > 0 {
		return x.Conds[0].Pos()
	}
	return x.Body.Pos()
}
func (x *MatchArm) End() token.Position { return x.Body.End() }

// Match is "match (cond) { ... }".
type Match struct {
	MatchPos token.Position
	Cond     Expr
	Arms     []*MatchArm
	Rbrace   token.Position
}

func (x *Match) exprNode() {}

func (x *Match) Pos() token.Position { return x.MatchPos }
func (x *Match) End() token.Position { return x.Rbrace.Advance(1) }

// ShellExec is a backtick command. Parts holds *EncapsedText and
// interpolated expressions, like InterpolatedString.
type ShellExec struct {
	OpenPos token.Position
	Parts   []Expr
	Close   token.Position
}

func (x *ShellExec) exprNode() {}

func (x *ShellExec) Pos() token.Position { return x.OpenPos }
func (x *ShellExec) End() token.Position { return x.Close.Advance(1) }
