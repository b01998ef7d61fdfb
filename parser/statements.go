package parser

import (
	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/internal/token"
)

func (p *Parser) parseStatement() ast.Stmt {
	if p.cancelled() {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, "maximum nesting depth exceeded")
		return nil
	}
	var s ast.Stmt
	switch p.curToken.Type {
	case token.SEMICOLON, token.CLOSE_TAG:
		return nil
	case token.INLINE_HTML:
		s = &ast.InlineHTML{TextPos: p.curToken.StartPosition, Value: p.curToken.Literal}
	case token.OPEN_TAG_ECHO:
		s = p.parseEcho()
	case token.ECHO:
		s = p.parseEcho()
	case token.LBRACE:
		if b := p.parseBlock(); b != nil {
			s = b
		}
	case token.IF:
		s = p.parseIf()
	case token.WHILE:
		s = p.parseWhile()
	case token.DO:
		s = p.parseDoWhile()
	case token.FOR:
		s = p.parseFor()
	case token.FOREACH:
		s = p.parseForeach()
	case token.SWITCH:
		s = p.parseSwitch()
	case token.BREAK, token.CONTINUE:
		s = p.parseBreakContinue()
	case token.RETURN:
		s = p.parseReturn()
	case token.TRY:
		s = p.parseTry()
	case token.UNSET:
		s = p.parseUnset()
	case token.GLOBAL:
		s = p.parseGlobal()
	case token.DECLARE:
		s = p.parseDeclare()
	case token.NAMESPACE:
		s = p.parseNamespace()
	case token.USE:
		s = p.parseUse()
	case token.CONST:
		s = p.parseConst()
	case token.HALT_COMPILER:
		s = p.parseHaltCompiler()
	case token.CLASS, token.ABSTRACT, token.FINAL, token.READONLY:
		s = p.parseClassDecl()
	case token.INTERFACE:
		s = p.parseInterfaceDecl()
	case token.TRAIT:
		s = p.parseTraitDecl()
	case token.ENUM:
		s = p.parseEnumDecl()
	case token.FUNCTION:
		if p.peekTokenIs(token.IDENT) ||
			(p.peekTokenIs(token.AMPERSAND) && p.peekSecond().Type == token.IDENT) {
			s = p.parseFuncDecl()
		} else {
			s = p.parseExprStmt()
		}
	case token.STATIC:
		if p.peekTokenIs(token.VARIABLE) {
			s = p.parseStaticVar()
		} else {
			s = p.parseExprStmt()
		}
	case token.GOTO:
		p.setTokenError(p.curToken, "goto is not supported")
		return nil
	case token.IDENT:
		if p.peekTokenIs(token.COLON) {
			p.setTokenError(p.curToken, "labels are not supported")
			return nil
		}
		s = p.parseExprStmt()
	case token.ENDIF, token.ENDWHILE, token.ENDFOR, token.ENDFOREACH,
		token.ENDSWITCH, token.ENDDECLARE:
		p.setTokenError(p.curToken, "alternative syntax is not supported")
		return nil
	default:
		s = p.parseExprStmt()
	}
	return s
}

func (p *Parser) parseExprStmt() ast.Stmt {
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	semi, ok := p.expectSemicolon("statement")
	if !ok {
		return nil
	}
	return &ast.ExprStmt{X: x, Semi: semi}
}

// parseBlock parses a braced statement list. The current token must be
// "{"; on return it is the matching "}".
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.peekError("block", token.RBRACE, p.peekToken)
			return nil
		}
		p.nextToken()
		mark := len(p.errors)
		s := p.parseStatement()
		if len(p.errors) > mark {
			return nil
		}
		if s != nil {
			block.Stmts = append(block.Stmts, s)
		}
	}
	p.nextToken()
	block.Rbrace = p.curToken.StartPosition
	return block
}

// parseBody parses the body of a control structure starting at the next
// token. A body without braces is wrapped in a Block.
func (p *Parser) parseBody(context string) *ast.Block {
	p.nextToken()
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.COLON:
		p.setTokenError(p.curToken, "alternative syntax is not supported")
		return nil
	case token.EOF:
		p.setTokenError(p.curToken, "unexpected end of file while parsing %s", context)
		return nil
	}
	start := p.curToken.StartPosition
	mark := len(p.errors)
	s := p.parseStatement()
	if len(p.errors) > mark {
		return nil
	}
	if s == nil {
		return &ast.Block{Lbrace: start, Rbrace: start}
	}
	return &ast.Block{Lbrace: start, Stmts: []ast.Stmt{s}, Rbrace: s.End().Advance(-1)}
}

// parseCondition parses "(expr)" following a control keyword.
func (p *Parser) parseCondition(context string) ast.Expr {
	x, _, ok := p.parseParenOperand(context)
	if !ok {
		return nil
	}
	return x
}

func (p *Parser) parseEcho() ast.Stmt {
	echo := &ast.Echo{EchoPos: p.curToken.StartPosition, Short: p.curTokenIs(token.OPEN_TAG_ECHO)}
	for {
		p.nextToken()
		x := p.parseExpression(LOWEST)
		if x == nil {
			return nil
		}
		echo.Args = append(echo.Args, x)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	semi, ok := p.expectSemicolon("echo statement")
	if !ok {
		return nil
	}
	echo.Semi = semi
	return echo
}

func (p *Parser) parseIf() ast.Stmt {
	stmt := &ast.If{IfPos: p.curToken.StartPosition}
	if stmt.Cond = p.parseCondition("if statement"); stmt.Cond == nil {
		return nil
	}
	if stmt.Body = p.parseBody("if statement"); stmt.Body == nil {
		return nil
	}
	for {
		switch {
		case p.peekTokenIs(token.ELSEIF):
			p.nextToken()
			if !p.parseElseIf(stmt) {
				return nil
			}
			continue
		case p.peekTokenIs(token.ELSE):
			p.nextToken()
			if p.peekTokenIs(token.IF) {
				p.nextToken()
				if !p.parseElseIf(stmt) {
					return nil
				}
				continue
			}
			if stmt.Else = p.parseBody("else clause"); stmt.Else == nil {
				return nil
			}
		}
		return stmt
	}
}

func (p *Parser) parseElseIf(stmt *ast.If) bool {
	clause := &ast.ElseIf{ElseIfPos: p.curToken.StartPosition}
	if clause.Cond = p.parseCondition("elseif clause"); clause.Cond == nil {
		return false
	}
	if clause.Body = p.parseBody("elseif clause"); clause.Body == nil {
		return false
	}
	stmt.ElseIfs = append(stmt.ElseIfs, clause)
	return true
}

func (p *Parser) parseWhile() ast.Stmt {
	stmt := &ast.While{WhilePos: p.curToken.StartPosition}
	if stmt.Cond = p.parseCondition("while statement"); stmt.Cond == nil {
		return nil
	}
	if stmt.Body = p.parseBody("while statement"); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseDoWhile() ast.Stmt {
	stmt := &ast.DoWhile{DoPos: p.curToken.StartPosition}
	if stmt.Body = p.parseBody("do-while statement"); stmt.Body == nil {
		return nil
	}
	if !p.expectPeek("do-while statement", token.WHILE) {
		return nil
	}
	if stmt.Cond = p.parseCondition("do-while statement"); stmt.Cond == nil {
		return nil
	}
	semi, ok := p.expectSemicolon("do-while statement")
	if !ok {
		return nil
	}
	stmt.Semi = semi
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	stmt := &ast.For{ForPos: p.curToken.StartPosition}
	if !p.expectPeek("for statement", token.LPAREN) {
		return nil
	}
	var ok bool
	if stmt.Init, ok = p.parseExprList("for statement", token.SEMICOLON); !ok {
		return nil
	}
	if stmt.Cond, ok = p.parseExprList("for statement", token.SEMICOLON); !ok {
		return nil
	}
	if stmt.Step, ok = p.parseExprList("for statement", token.RPAREN); !ok {
		return nil
	}
	if stmt.Body = p.parseBody("for statement"); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseForeach() ast.Stmt {
	stmt := &ast.Foreach{ForeachPos: p.curToken.StartPosition}
	if !p.expectPeek("foreach statement", token.LPAREN) {
		return nil
	}
	p.nextToken()
	if stmt.X = p.parseExpression(LOWEST); stmt.X == nil {
		return nil
	}
	if !p.expectPeek("foreach statement", token.AS) {
		return nil
	}
	value, byRef := p.parseForeachTarget()
	if value == nil {
		return nil
	}
	if p.peekTokenIs(token.DOUBLE_ARROW) {
		if byRef {
			p.setTokenError(p.peekToken, "foreach key cannot be a reference")
			return nil
		}
		p.nextToken()
		stmt.Key = value
		if value, byRef = p.parseForeachTarget(); value == nil {
			return nil
		}
	}
	stmt.Value = value
	stmt.ByRef = byRef
	if !p.expectPeek("foreach statement", token.RPAREN) {
		return nil
	}
	if stmt.Body = p.parseBody("foreach statement"); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseForeachTarget() (ast.Expr, bool) {
	p.nextToken()
	byRef := false
	if p.curTokenIs(token.AMPERSAND) {
		byRef = true
		p.nextToken()
	}
	return p.parseExpression(LOWEST), byRef
}

func (p *Parser) parseSwitch() ast.Stmt {
	stmt := &ast.Switch{SwitchPos: p.curToken.StartPosition}
	if stmt.Cond = p.parseCondition("switch statement"); stmt.Cond == nil {
		return nil
	}
	if p.peekTokenIs(token.COLON) {
		p.setTokenError(p.peekToken, "alternative syntax is not supported")
		return nil
	}
	if !p.expectPeek("switch statement", token.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		c := &ast.Case{CasePos: p.curToken.StartPosition}
		switch p.curToken.Type {
		case token.CASE:
			p.nextToken()
			if c.Cond = p.parseExpression(LOWEST); c.Cond == nil {
				return nil
			}
		case token.DEFAULT:
		default:
			p.setTokenError(p.curToken, "unexpected %s while parsing switch statement (expected case or default)", tokenDescription(p.curToken))
			return nil
		}
		if !p.peekTokenIs(token.COLON) && !p.peekTokenIs(token.SEMICOLON) {
			p.peekError("switch case", token.COLON, p.peekToken)
			return nil
		}
		p.nextToken()
		for {
			switch p.peekToken.Type {
			case token.CASE, token.DEFAULT, token.RBRACE:
			case token.EOF:
				p.peekError("switch statement", token.RBRACE, p.peekToken)
				return nil
			default:
				p.nextToken()
				mark := len(p.errors)
				s := p.parseStatement()
				if len(p.errors) > mark {
					return nil
				}
				if s != nil {
					c.Body = append(c.Body, s)
				}
				continue
			}
			break
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.nextToken()
	stmt.Rbrace = p.curToken.StartPosition
	return stmt
}

func (p *Parser) parseBreakContinue() ast.Stmt {
	start := p.curToken.StartPosition
	isBreak := p.curTokenIs(token.BREAK)
	context := "continue statement"
	if isBreak {
		context = "break statement"
	}
	var level ast.Expr
	if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.CLOSE_TAG) {
		p.nextToken()
		if level = p.parseExpression(LOWEST); level == nil {
			return nil
		}
	}
	semi, ok := p.expectSemicolon(context)
	if !ok {
		return nil
	}
	if isBreak {
		return &ast.Break{BreakPos: start, Level: level, Semi: semi}
	}
	return &ast.Continue{ContinuePos: start, Level: level, Semi: semi}
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{ReturnPos: p.curToken.StartPosition}
	if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.CLOSE_TAG) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
			return nil
		}
	}
	semi, ok := p.expectSemicolon("return statement")
	if !ok {
		return nil
	}
	stmt.Semi = semi
	return stmt
}

func (p *Parser) parseTry() ast.Stmt {
	stmt := &ast.Try{TryPos: p.curToken.StartPosition}
	if !p.expectPeek("try statement", token.LBRACE) {
		return nil
	}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	for p.peekTokenIs(token.CATCH) {
		p.nextToken()
		c := &ast.Catch{CatchPos: p.curToken.StartPosition}
		if !p.expectPeek("catch clause", token.LPAREN) {
			return nil
		}
		for {
			if !p.expectName("catch clause") {
				return nil
			}
			c.Types = append(c.Types, p.newName(p.curToken))
			if !p.peekTokenIs(token.PIPE) {
				break
			}
			p.nextToken()
		}
		if p.peekTokenIs(token.VARIABLE) {
			p.nextToken()
			c.Var = p.newVariable(p.curToken)
		}
		if !p.expectPeek("catch clause", token.RPAREN) {
			return nil
		}
		if !p.expectPeek("catch clause", token.LBRACE) {
			return nil
		}
		if c.Body = p.parseBlock(); c.Body == nil {
			return nil
		}
		stmt.Catches = append(stmt.Catches, c)
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek("finally clause", token.LBRACE) {
			return nil
		}
		if stmt.Finally = p.parseBlock(); stmt.Finally == nil {
			return nil
		}
	}
	if len(stmt.Catches) == 0 && stmt.Finally == nil {
		p.setTokenError(p.curToken, "cannot use try without catch or finally")
		return nil
	}
	return stmt
}

func (p *Parser) parseUnset() ast.Stmt {
	stmt := &ast.Unset{UnsetPos: p.curToken.StartPosition}
	if !p.expectPeek("unset statement", token.LPAREN) {
		return nil
	}
	vars, ok := p.parseExprList("unset statement", token.RPAREN)
	if !ok {
		return nil
	}
	stmt.Vars = vars
	semi, ok := p.expectSemicolon("unset statement")
	if !ok {
		return nil
	}
	stmt.Semi = semi
	return stmt
}

func (p *Parser) parseGlobal() ast.Stmt {
	stmt := &ast.Global{GlobalPos: p.curToken.StartPosition}
	for {
		p.nextToken()
		var x ast.Expr
		switch p.curToken.Type {
		case token.VARIABLE:
			x = p.parseVariable()
		case token.DOLLAR, token.DOLLAR_LBRACE:
			x = p.parseVarVar()
		default:
			p.setTokenError(p.curToken, "unexpected %s while parsing global statement (expected variable)", tokenDescription(p.curToken))
			return nil
		}
		if x == nil {
			return nil
		}
		stmt.Vars = append(stmt.Vars, x)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	semi, ok := p.expectSemicolon("global statement")
	if !ok {
		return nil
	}
	stmt.Semi = semi
	return stmt
}

func (p *Parser) parseStaticVar() ast.Stmt {
	stmt := &ast.StaticVar{StaticPos: p.curToken.StartPosition}
	for {
		if !p.expectPeek("static statement", token.VARIABLE) {
			return nil
		}
		item := &ast.StaticVarItem{Var: p.newVariable(p.curToken)}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			if item.Default = p.parseExpression(LOWEST); item.Default == nil {
				return nil
			}
		}
		stmt.Vars = append(stmt.Vars, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	semi, ok := p.expectSemicolon("static statement")
	if !ok {
		return nil
	}
	stmt.Semi = semi
	return stmt
}

func (p *Parser) parseDeclare() ast.Stmt {
	stmt := &ast.Declare{DeclarePos: p.curToken.StartPosition}
	if !p.expectPeek("declare statement", token.LPAREN) {
		return nil
	}
	for {
		if !p.expectPeek("declare statement", token.IDENT) {
			return nil
		}
		d := &ast.DeclareDirective{Name: p.newIdent(p.curToken)}
		if !p.expectPeek("declare statement", token.ASSIGN) {
			return nil
		}
		p.nextToken()
		if d.Value = p.parseExpression(LOWEST); d.Value == nil {
			return nil
		}
		stmt.Directives = append(stmt.Directives, d)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("declare statement", token.RPAREN) {
		return nil
	}
	switch p.peekToken.Type {
	case token.SEMICOLON, token.CLOSE_TAG:
		p.nextToken()
		stmt.Semi = p.curToken.StartPosition
		return stmt
	}
	if stmt.Body = p.parseBody("declare statement"); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseNamespace() ast.Stmt {
	stmt := &ast.Namespace{NsPos: p.curToken.StartPosition}
	if isNameToken(p.peekToken.Type) {
		p.nextToken()
		stmt.Name = p.newName(p.curToken)
		if stmt.Name.Kind == ast.FullyQualified || stmt.Name.Kind == ast.Relative {
			p.setTokenError(p.curToken, "namespace name %q is not valid", stmt.Name.Value)
			return nil
		}
		if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.CLOSE_TAG) {
			p.nextToken()
			stmt.Semi = p.curToken.StartPosition
			return stmt
		}
	}
	if !p.expectPeek("namespace declaration", token.LBRACE) {
		return nil
	}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseUseKind consumes an optional "function" or "const" after "use" or
// inside a group.
func (p *Parser) parseUseKind() (ast.UseKind, bool) {
	switch p.peekToken.Type {
	case token.FUNCTION:
		p.nextToken()
		return ast.UseFunction, true
	case token.CONST:
		p.nextToken()
		return ast.UseConst, true
	}
	return ast.UseNormal, false
}

func (p *Parser) parseUse() ast.Stmt {
	stmt := &ast.Use{UsePos: p.curToken.StartPosition}
	stmt.Kind, _ = p.parseUseKind()
	if !p.expectName("use statement") {
		return nil
	}
	first := p.newName(p.curToken)
	if p.peekTokenIs(token.NS_SEPARATOR) {
		p.nextToken()
		if !p.expectPeek("group use", token.LBRACE) {
			return nil
		}
		stmt.Prefix = first
		for !p.peekTokenIs(token.RBRACE) {
			item := &ast.UseItem{}
			if stmt.Kind == ast.UseNormal {
				item.Kind, item.HasKind = p.parseUseKind()
			}
			if !p.peekTokenIs(token.IDENT) && !p.peekTokenIs(token.NAME_QUALIFIED) {
				p.peekError("group use", token.IDENT, p.peekToken)
				return nil
			}
			p.nextToken()
			item.Name = p.newName(p.curToken)
			if !p.parseUseAlias(item) {
				return nil
			}
			stmt.Items = append(stmt.Items, item)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek("group use", token.RBRACE) {
			return nil
		}
	} else {
		item := &ast.UseItem{Name: first}
		for {
			if !p.parseUseAlias(item) {
				return nil
			}
			stmt.Items = append(stmt.Items, item)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
			if !p.expectName("use statement") {
				return nil
			}
			item = &ast.UseItem{Name: p.newName(p.curToken)}
		}
	}
	semi, ok := p.expectSemicolon("use statement")
	if !ok {
		return nil
	}
	stmt.Semi = semi
	return stmt
}

func (p *Parser) parseUseAlias(item *ast.UseItem) bool {
	if !p.peekTokenIs(token.AS) {
		return true
	}
	p.nextToken()
	if !p.expectPeek("use alias", token.IDENT) {
		return false
	}
	item.Alias = p.newIdent(p.curToken)
	return true
}

func (p *Parser) parseConst() ast.Stmt {
	start := p.curToken.StartPosition
	items, semi, ok := p.parseConstItems("const statement")
	if !ok {
		return nil
	}
	return &ast.ConstStmt{ConstPos: start, Items: items, Semi: semi}
}

func (p *Parser) parseHaltCompiler() ast.Stmt {
	stmt := &ast.HaltCompiler{HaltPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.HALT_REMAINDER) {
		p.nextToken()
		stmt.Remaining = p.curToken.Literal
	}
	return stmt
}
