package parser

import (
	"strings"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/internal/token"
)

// parseExpression parses an expression starting at the current token. On
// return the current token is the last token of the expression.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.hadNewError() {
		return nil
	}
	if p.curTokenIs(token.EOF) {
		p.setTokenError(p.curToken, "unexpected end of file")
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, "maximum nesting depth exceeded")
		return nil
	}
	if p.cancelled() {
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil || p.hadNewError() {
		return nil
	}
	for {
		// An assignment binds to an assignable left operand regardless of
		// the surrounding precedence: "!$a = f()" is "!($a = f())".
		absorb := assignOps[p.peekToken.Type] && isAssignable(left)
		if !absorb && precedence >= p.peekPrecedence() {
			break
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
		left = infix(left)
		if left == nil || p.hadNewError() {
			return nil
		}
	}
	return left
}

func isAssignable(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Variable, *ast.VarVar, *ast.Index, *ast.PropertyFetch, *ast.StaticPropertyFetch:
		return true
	case *ast.Array:
		return x.Style != ast.ArrayLong
	}
	return false
}

func (p *Parser) parseVariable() ast.Expr {
	return p.newVariable(p.curToken)
}

// parseVarVar parses "$$x", "$$$x" and "${expr}".
func (p *Parser) parseVarVar() ast.Expr {
	start := p.curToken
	if start.Type == token.DOLLAR_LBRACE {
		p.nextToken()
		x := p.parseExpression(LOWEST)
		if x == nil {
			return nil
		}
		if !p.expectPeek("variable variable", token.RBRACE) {
			return nil
		}
		return &ast.VarVar{DollarPos: start.StartPosition, X: x, Braced: true, Rbrace: p.curToken.StartPosition}
	}
	p.nextToken()
	var x ast.Expr
	switch p.curToken.Type {
	case token.VARIABLE:
		x = p.newVariable(p.curToken)
	case token.DOLLAR, token.DOLLAR_LBRACE:
		x = p.parseVarVar()
	default:
		p.setTokenError(p.curToken, "unexpected %s after \"$\"", tokenDescription(p.curToken))
		return nil
	}
	if x == nil {
		return nil
	}
	return &ast.VarVar{DollarPos: start.StartPosition, X: x}
}

func (p *Parser) parseName() ast.Expr {
	return p.newName(p.curToken)
}

// parseStatic handles the "static" keyword in expression position: late
// static binding ("static::foo()") and static closures.
func (p *Parser) parseStatic() ast.Expr {
	start := p.curToken
	switch p.peekToken.Type {
	case token.DOUBLE_COLON:
		return &ast.Name{NamePos: start.StartPosition, Value: start.Literal}
	case token.FUNCTION:
		p.nextToken()
		closure := p.parseClosure()
		if closure == nil {
			return nil
		}
		c := closure.(*ast.Closure)
		c.Static = true
		c.FuncPos = start.StartPosition
		return c
	case token.FN:
		p.nextToken()
		fn := p.parseArrowFunc()
		if fn == nil {
			return nil
		}
		f := fn.(*ast.ArrowFunc)
		f.Static = true
		f.FnPos = start.StartPosition
		return f
	}
	p.setTokenError(p.peekToken, "unexpected %s after \"static\"", tokenDescription(p.peekToken))
	return nil
}

func (p *Parser) parseMagicConst() ast.Expr {
	return &ast.MagicConst{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
}

func (p *Parser) parseInt() ast.Expr {
	return &ast.Int{ValuePos: p.curToken.StartPosition, Literal: p.curToken.Literal}
}

func (p *Parser) parseFloat() ast.Expr {
	return &ast.Float{ValuePos: p.curToken.StartPosition, Literal: p.curToken.Literal}
}

// parseArray parses "[...]", "array(...)" and "list(...)".
func (p *Parser) parseArray() ast.Expr {
	start := p.curToken
	style := ast.ArrayShort
	closing := token.RBRACKET
	switch start.Type {
	case token.ARRAY:
		style = ast.ArrayLong
		closing = token.RPAREN
		if !p.expectPeek("array", token.LPAREN) {
			return nil
		}
	case token.LIST:
		style = ast.ArrayList
		closing = token.RPAREN
		if !p.expectPeek("list", token.LPAREN) {
			return nil
		}
	}
	arr := &ast.Array{Lbrack: start.StartPosition, Style: style}
	for !p.peekTokenIs(closing) {
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			arr.Items = append(arr.Items, nil)
			continue
		}
		p.nextToken()
		item := p.parseArrayItem()
		if item == nil {
			return nil
		}
		arr.Items = append(arr.Items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("array", closing) {
		return nil
	}
	arr.Rbrack = p.curToken.StartPosition
	return arr
}

func (p *Parser) parseArrayItem() *ast.ArrayItem {
	item := &ast.ArrayItem{}
	if p.curTokenIs(token.ELLIPSIS) {
		item.Spread = true
		p.nextToken()
		if item.Value = p.parseExpression(LOWEST); item.Value == nil {
			return nil
		}
		return item
	}
	if p.curTokenIs(token.AMPERSAND) {
		item.ByRef = true
		p.nextToken()
		if item.Value = p.parseExpression(LOWEST); item.Value == nil {
			return nil
		}
		return item
	}
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if !p.peekTokenIs(token.DOUBLE_ARROW) {
		item.Value = value
		return item
	}
	p.nextToken()
	p.nextToken()
	item.Key = value
	if p.curTokenIs(token.AMPERSAND) {
		item.ByRef = true
		p.nextToken()
	}
	if item.Value = p.parseExpression(LOWEST); item.Value == nil {
		return nil
	}
	return item
}

func (p *Parser) parseParen() ast.Expr {
	lparen := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	if !p.expectPeek("parenthesized expression", token.RPAREN) {
		return nil
	}
	return &ast.Paren{Lparen: lparen, X: x, Rparen: p.curToken.StartPosition}
}

func (p *Parser) parseUnary() ast.Expr {
	op := p.curToken
	precedence := PREFIX
	if op.Type == token.BANG {
		precedence = BANG
	}
	p.nextToken()
	x := p.parseExpression(precedence)
	if x == nil {
		return nil
	}
	return &ast.Unary{OpPos: op.StartPosition, Op: op.Literal, X: x}
}

func (p *Parser) parseCast() ast.Expr {
	start := p.curToken
	p.nextToken()
	x := p.parseExpression(PREFIX)
	if x == nil {
		return nil
	}
	return &ast.Cast{CastPos: start.StartPosition, Type: start.Literal, X: x}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.curToken
	precedence := p.currentPrecedence()
	if rightAssociative[op.Type] {
		precedence--
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	literal := op.Literal
	switch op.Type {
	case token.LOGICAL_AND, token.LOGICAL_OR, token.LOGICAL_XOR:
		literal = strings.ToLower(literal)
	}
	return &ast.Binary{X: left, OpPos: op.StartPosition, Op: literal, Y: right}
}

func (p *Parser) parseInstanceof(left ast.Expr) ast.Expr {
	op := p.curToken
	p.nextToken()
	var right ast.Expr
	if p.curTokenIs(token.STATIC) {
		right = &ast.Name{NamePos: p.curToken.StartPosition, Value: p.curToken.Literal}
	} else {
		right = p.parseExpression(INSTANCEOF)
	}
	if right == nil {
		return nil
	}
	return &ast.Binary{X: left, OpPos: op.StartPosition, Op: "instanceof", Y: right}
}

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	op := p.curToken
	if !isAssignable(left) {
		p.setTokenError(op, "cannot assign to this expression")
		return nil
	}
	assign := &ast.Assign{X: left, OpPos: op.StartPosition, Op: op.Literal}
	if op.Type == token.ASSIGN && p.peekTokenIs(token.AMPERSAND) {
		p.nextToken()
		assign.ByRef = true
	}
	p.nextToken()
	if assign.Y = p.parseExpression(ASSIGN - 1); assign.Y == nil {
		return nil
	}
	return assign
}

func (p *Parser) parseTernary(cond ast.Expr) ast.Expr {
	tern := &ast.Ternary{Cond: cond}
	if !p.peekTokenIs(token.COLON) {
		p.nextToken()
		if tern.Then = p.parseExpression(LOWEST); tern.Then == nil {
			return nil
		}
	}
	if !p.expectPeek("ternary expression", token.COLON) {
		return nil
	}
	p.nextToken()
	if tern.Else = p.parseExpression(TERNARY); tern.Else == nil {
		return nil
	}
	return tern
}

func (p *Parser) parsePostfix(left ast.Expr) ast.Expr {
	if !isAssignable(left) {
		p.setTokenError(p.curToken, "cannot increment or decrement this expression")
		return nil
	}
	return &ast.Postfix{X: left, OpPos: p.curToken.StartPosition, Op: p.curToken.Literal}
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	call := &ast.Call{Func: fn, Lparen: p.curToken.StartPosition}
	args, placeholder, ok := p.parseArgs()
	if !ok {
		return nil
	}
	call.Args = args
	call.Placeholder = placeholder
	call.Rparen = p.curToken.StartPosition
	return call
}

// parseArgs parses a call argument list. The current token must be "(";
// on return it is the closing ")".
func (p *Parser) parseArgs() ([]*ast.Arg, bool, bool) {
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return nil, false, true
	}
	if p.peekTokenIs(token.ELLIPSIS) && p.peekSecond().Type == token.RPAREN {
		p.nextToken()
		p.nextToken()
		return nil, true, true
	}
	var args []*ast.Arg
	for {
		p.nextToken()
		arg := &ast.Arg{}
		if p.curTokenIs(token.ELLIPSIS) {
			arg.Spread = true
			p.nextToken()
		} else if token.IsSemiReserved(p.curToken.Type) && p.peekTokenIs(token.COLON) {
			arg.Name = p.newIdent(p.curToken)
			p.nextToken()
			p.nextToken()
		}
		if arg.Value = p.parseExpression(LOWEST); arg.Value == nil {
			return nil, false, false
		}
		args = append(args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
	}
	if !p.expectPeek("argument list", token.RPAREN) {
		return nil, false, false
	}
	return args, false, true
}

func (p *Parser) parseIndex(x ast.Expr) ast.Expr {
	index := &ast.Index{X: x, Lbrack: p.curToken.StartPosition}
	if !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		if index.Index = p.parseExpression(LOWEST); index.Index == nil {
			return nil
		}
	}
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	index.Rbrack = p.curToken.StartPosition
	return index
}

// parseMemberName parses the name following "->" or "::". The current
// token is the operator; on return it is the last token of the name.
func (p *Parser) parseMemberName(context string) ast.Expr {
	p.nextToken()
	switch {
	case p.curTokenIs(token.VARIABLE):
		return p.newVariable(p.curToken)
	case p.curTokenIs(token.DOLLAR), p.curTokenIs(token.DOLLAR_LBRACE):
		return p.parseVarVar()
	case p.curTokenIs(token.LBRACE):
		p.nextToken()
		x := p.parseExpression(LOWEST)
		if x == nil {
			return nil
		}
		if !p.expectPeek(context, token.RBRACE) {
			return nil
		}
		return x
	case token.IsSemiReserved(p.curToken.Type):
		return p.newIdent(p.curToken)
	}
	p.setTokenError(p.curToken, "unexpected %s while parsing %s", tokenDescription(p.curToken), context)
	return nil
}

func (p *Parser) parseMember(x ast.Expr) ast.Expr {
	nullSafe := p.curTokenIs(token.NULLSAFE_ARROW)
	name := p.parseMemberName("member access")
	if name == nil {
		return nil
	}
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.PropertyFetch{X: x, NullSafe: nullSafe, Name: name}
	}
	p.nextToken()
	args, placeholder, ok := p.parseArgs()
	if !ok {
		return nil
	}
	return &ast.MethodCall{
		X:           x,
		NullSafe:    nullSafe,
		Name:        name,
		Args:        args,
		Placeholder: placeholder,
		Rparen:      p.curToken.StartPosition,
	}
}

func (p *Parser) parseStaticMember(class ast.Expr) ast.Expr {
	name := p.parseMemberName("static member access")
	if name == nil {
		return nil
	}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args, placeholder, ok := p.parseArgs()
		if !ok {
			return nil
		}
		return &ast.StaticCall{
			Class:       class,
			Name:        name,
			Args:        args,
			Placeholder: placeholder,
			Rparen:      p.curToken.StartPosition,
		}
	}
	switch name := name.(type) {
	case *ast.Variable, *ast.VarVar:
		return &ast.StaticPropertyFetch{Class: class, Name: name}
	case *ast.Identifier:
		return &ast.ClassConstFetch{Class: class, Name: name}
	}
	p.setTokenError(p.curToken, "expected \"(\" after dynamic static member name")
	return nil
}

// parseNew parses "new Foo(args)", "new $cls", "new (expr)" and anonymous
// classes.
func (p *Parser) parseNew() ast.Expr {
	n := &ast.New{NewPos: p.curToken.StartPosition}
	p.nextToken()
	switch {
	case p.curTokenIs(token.CLASS):
		class := p.parseAnonymousClass()
		if class == nil {
			return nil
		}
		n.Class = class
		return n
	case isNameToken(p.curToken.Type):
		n.Class = p.newName(p.curToken)
	case p.curTokenIs(token.STATIC):
		n.Class = &ast.Name{NamePos: p.curToken.StartPosition, Value: p.curToken.Literal}
	case p.curTokenIs(token.LPAREN):
		if n.Class = p.parseParen(); n.Class == nil {
			return nil
		}
	case p.curTokenIs(token.VARIABLE), p.curTokenIs(token.DOLLAR), p.curTokenIs(token.DOLLAR_LBRACE):
		if n.Class = p.parseNewClassExpr(); n.Class == nil {
			return nil
		}
	default:
		p.setTokenError(p.curToken, "unexpected %s after \"new\"", tokenDescription(p.curToken))
		return nil
	}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args, _, ok := p.parseArgs()
		if !ok {
			return nil
		}
		n.Args = args
		n.Rparen = p.curToken.StartPosition
	}
	return n
}

// parseNewClassExpr parses a dynamic class reference after "new". Calls
// are not part of it: "new $a->b()" constructs the class named by $a->b.
func (p *Parser) parseNewClassExpr() ast.Expr {
	var x ast.Expr
	if p.curTokenIs(token.VARIABLE) {
		x = p.newVariable(p.curToken)
	} else if x = p.parseVarVar(); x == nil {
		return nil
	}
	for {
		switch p.peekToken.Type {
		case token.LBRACKET:
			p.nextToken()
			if x = p.parseIndex(x); x == nil {
				return nil
			}
		case token.ARROW, token.NULLSAFE_ARROW:
			p.nextToken()
			nullSafe := p.curTokenIs(token.NULLSAFE_ARROW)
			name := p.parseMemberName("member access")
			if name == nil {
				return nil
			}
			x = &ast.PropertyFetch{X: x, NullSafe: nullSafe, Name: name}
		case token.DOUBLE_COLON:
			p.nextToken()
			name := p.parseMemberName("static member access")
			if name == nil {
				return nil
			}
			x = &ast.StaticPropertyFetch{Class: x, Name: name}
		default:
			return x
		}
	}
}

func (p *Parser) parseClone() ast.Expr {
	start := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression(PREFIX)
	if x == nil {
		return nil
	}
	return &ast.Clone{ClonePos: start, X: x}
}

func (p *Parser) parseClosure() ast.Expr {
	closure := &ast.Closure{FuncPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.AMPERSAND) {
		p.nextToken()
		closure.ByRef = true
	}
	if !p.expectPeek("closure", token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	closure.Params = params
	if p.peekTokenIs(token.USE) {
		p.nextToken()
		if !p.expectPeek("closure use list", token.LPAREN) {
			return nil
		}
		for !p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			use := &ast.ClosureUse{}
			if p.curTokenIs(token.AMPERSAND) {
				use.ByRef = true
				p.nextToken()
			}
			if !p.curTokenIs(token.VARIABLE) {
				p.setTokenError(p.curToken, "expected variable in closure use list")
				return nil
			}
			use.Var = p.newVariable(p.curToken)
			closure.Uses = append(closure.Uses, use)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek("closure use list", token.RPAREN) {
			return nil
		}
	}
	if closure.ReturnType, ok = p.parseReturnType(); !ok {
		return nil
	}
	if !p.expectPeek("closure", token.LBRACE) {
		return nil
	}
	if closure.Body = p.parseBlock(); closure.Body == nil {
		return nil
	}
	return closure
}

func (p *Parser) parseArrowFunc() ast.Expr {
	fn := &ast.ArrowFunc{FnPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.AMPERSAND) {
		p.nextToken()
		fn.ByRef = true
	}
	if !p.expectPeek("arrow function", token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	fn.Params = params
	if fn.ReturnType, ok = p.parseReturnType(); !ok {
		return nil
	}
	if !p.expectPeek("arrow function", token.DOUBLE_ARROW) {
		return nil
	}
	p.nextToken()
	if fn.Expr = p.parseExpression(LOWEST); fn.Expr == nil {
		return nil
	}
	return fn
}

// parseExprList parses comma separated expressions up to the given
// closing token, allowing a trailing comma. The current token must be the
// opening token; on return it is the closing token.
func (p *Parser) parseExprList(context string, closing token.Type) ([]ast.Expr, bool) {
	var list []ast.Expr
	for !p.peekTokenIs(closing) {
		p.nextToken()
		x := p.parseExpression(LOWEST)
		if x == nil {
			return nil, false
		}
		list = append(list, x)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(context, closing) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseIsset() ast.Expr {
	start := p.curToken.StartPosition
	if !p.expectPeek("isset", token.LPAREN) {
		return nil
	}
	vars, ok := p.parseExprList("isset", token.RPAREN)
	if !ok {
		return nil
	}
	if len(vars) == 0 {
		p.setTokenError(p.curToken, "isset requires at least one argument")
		return nil
	}
	return &ast.Isset{IssetPos: start, Vars: vars, Rparen: p.curToken.StartPosition}
}

// parseParenOperand parses "(expr)" after a keyword such as empty or eval.
func (p *Parser) parseParenOperand(context string) (ast.Expr, token.Position, bool) {
	if !p.expectPeek(context, token.LPAREN) {
		return nil, token.NoPos, false
	}
	p.nextToken()
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil, token.NoPos, false
	}
	if !p.expectPeek(context, token.RPAREN) {
		return nil, token.NoPos, false
	}
	return x, p.curToken.StartPosition, true
}

func (p *Parser) parseEmpty() ast.Expr {
	start := p.curToken.StartPosition
	x, rparen, ok := p.parseParenOperand("empty")
	if !ok {
		return nil
	}
	return &ast.Empty{EmptyPos: start, X: x, Rparen: rparen}
}

func (p *Parser) parseEval() ast.Expr {
	start := p.curToken.StartPosition
	x, rparen, ok := p.parseParenOperand("eval")
	if !ok {
		return nil
	}
	return &ast.Eval{EvalPos: start, X: x, Rparen: rparen}
}

func (p *Parser) parseExit() ast.Expr {
	exit := &ast.Exit{ExitPos: p.curToken.StartPosition, Keyword: strings.ToLower(p.curToken.Literal)}
	if !p.peekTokenIs(token.LPAREN) {
		return exit
	}
	p.nextToken()
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if exit.X = p.parseExpression(LOWEST); exit.X == nil {
			return nil
		}
	}
	if !p.expectPeek(exit.Keyword, token.RPAREN) {
		return nil
	}
	exit.Rparen = p.curToken.StartPosition
	return exit
}

func (p *Parser) parseInclude() ast.Expr {
	start := p.curToken
	p.nextToken()
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	return &ast.Include{IncludePos: start.StartPosition, Keyword: strings.ToLower(start.Literal), X: x}
}

func (p *Parser) parsePrint() ast.Expr {
	start := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression(PRINT)
	if x == nil {
		return nil
	}
	return &ast.Print{PrintPos: start, X: x}
}

// yieldTerminators are the tokens after which a bare "yield" ends.
var yieldTerminators = map[token.Type]bool{
	token.SEMICOLON: true,
	token.CLOSE_TAG: true,
	token.RPAREN:    true,
	token.RBRACKET:  true,
	token.COMMA:     true,
	token.EOF:       true,
}

func (p *Parser) parseYield() ast.Expr {
	y := &ast.Yield{YieldPos: p.curToken.StartPosition}
	if yieldTerminators[p.peekToken.Type] {
		return y
	}
	p.nextToken()
	if y.Value = p.parseExpression(YIELD); y.Value == nil {
		return nil
	}
	if p.peekTokenIs(token.DOUBLE_ARROW) {
		p.nextToken()
		p.nextToken()
		y.Key = y.Value
		if y.Value = p.parseExpression(YIELD); y.Value == nil {
			return nil
		}
	}
	return y
}

func (p *Parser) parseYieldFrom() ast.Expr {
	start := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression(YIELD)
	if x == nil {
		return nil
	}
	return &ast.YieldFrom{YieldPos: start, X: x}
}

func (p *Parser) parseThrow() ast.Expr {
	start := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	return &ast.Throw{ThrowPos: start, X: x}
}

func (p *Parser) parseMatch() ast.Expr {
	m := &ast.Match{MatchPos: p.curToken.StartPosition}
	cond, _, ok := p.parseParenOperand("match")
	if !ok {
		return nil
	}
	m.Cond = cond
	if !p.expectPeek("match", token.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		arm := &ast.MatchArm{}
		if p.curTokenIs(token.DEFAULT) {
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			}
		} else {
			for {
				x := p.parseExpression(LOWEST)
				if x == nil {
					return nil
				}
				arm.Conds = append(arm.Conds, x)
				if !p.peekTokenIs(token.COMMA) {
					break
				}
				p.nextToken()
				if p.peekTokenIs(token.DOUBLE_ARROW) {
					break
				}
				p.nextToken()
			}
		}
		if !p.expectPeek("match arm", token.DOUBLE_ARROW) {
			return nil
		}
		p.nextToken()
		if arm.Body = p.parseExpression(LOWEST); arm.Body == nil {
			return nil
		}
		m.Arms = append(m.Arms, arm)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("match", token.RBRACE) {
		return nil
	}
	m.Rbrace = p.curToken.StartPosition
	return m
}
