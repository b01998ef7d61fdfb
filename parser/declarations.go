package parser

import (
	"strings"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/internal/token"
)

var visibilityModifiers = map[token.Type]bool{
	token.PUBLIC:    true,
	token.PROTECTED: true,
	token.PRIVATE:   true,
	token.READONLY:  true,
}

var memberModifiers = map[token.Type]bool{
	token.PUBLIC:    true,
	token.PROTECTED: true,
	token.PRIVATE:   true,
	token.READONLY:  true,
	token.STATIC:    true,
	token.ABSTRACT:  true,
	token.FINAL:     true,
	token.VAR:       true,
}

// parseFuncDecl parses a named function declaration.
func (p *Parser) parseFuncDecl() ast.Stmt {
	decl := &ast.FuncDecl{FuncPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.AMPERSAND) {
		p.nextToken()
		decl.ByRef = true
	}
	if !p.expectPeek("function declaration", token.IDENT) {
		return nil
	}
	decl.Name = p.newIdent(p.curToken)
	if !p.expectPeek("function declaration", token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	decl.Params = params
	if decl.ReturnType, ok = p.parseReturnType(); !ok {
		return nil
	}
	if !p.expectPeek("function declaration", token.LBRACE) {
		return nil
	}
	if decl.Body = p.parseBlock(); decl.Body == nil {
		return nil
	}
	return decl
}

// parseParams parses a parameter list. The current token must be "(";
// on return it is the closing ")".
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	var params []*ast.Param
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		param := &ast.Param{}
		for visibilityModifiers[p.curToken.Type] {
			param.Modifiers = append(param.Modifiers, strings.ToLower(p.curToken.Literal))
			p.nextToken()
		}
		switch p.curToken.Type {
		case token.VARIABLE, token.AMPERSAND, token.ELLIPSIS:
		default:
			if param.Type = p.parseType(); param.Type == nil {
				return nil, false
			}
			p.nextToken()
		}
		if p.curTokenIs(token.AMPERSAND) {
			param.ByRef = true
			p.nextToken()
		}
		if p.curTokenIs(token.ELLIPSIS) {
			param.Variadic = true
			p.nextToken()
		}
		if !p.curTokenIs(token.VARIABLE) {
			p.setTokenError(p.curToken, "unexpected %s while parsing parameter (expected variable)", tokenDescription(p.curToken))
			return nil, false
		}
		param.Var = p.newVariable(p.curToken)
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			if param.Default = p.parseExpression(LOWEST); param.Default == nil {
				return nil, false
			}
		}
		params = append(params, param)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("parameter list", token.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseReturnType parses an optional ": type" after a parameter list.
func (p *Parser) parseReturnType() (*ast.TypeHint, bool) {
	if !p.peekTokenIs(token.COLON) {
		return nil, true
	}
	p.nextToken()
	p.nextToken()
	t := p.parseType()
	return t, t != nil
}

// parseType parses a type declaration such as "?int", "A|B", "A&B" or
// "(A&B)|null". On return the current token is the last token of the type.
func (p *Parser) parseType() *ast.TypeHint {
	start := p.curToken.StartPosition
	var b strings.Builder
	if p.curTokenIs(token.QUESTION) {
		b.WriteString("?")
		p.nextToken()
	}
	for {
		if !p.parseTypeAtom(&b) {
			return nil
		}
		if p.peekTokenIs(token.PIPE) {
			p.nextToken()
			b.WriteString("|")
			p.nextToken()
			continue
		}
		if p.peekTokenIs(token.AMPERSAND) {
			switch p.peekSecond().Type {
			case token.VARIABLE, token.ELLIPSIS, token.AMPERSAND:
				// "A &$x" is a by-reference parameter
			default:
				p.nextToken()
				b.WriteString("&")
				p.nextToken()
				continue
			}
		}
		break
	}
	return &ast.TypeHint{TypePos: start, Text: b.String()}
}

func (p *Parser) parseTypeAtom(b *strings.Builder) bool {
	switch {
	case p.curTokenIs(token.LPAREN):
		b.WriteString("(")
		p.nextToken()
		for {
			if !p.parseTypeAtom(b) {
				return false
			}
			if !p.peekTokenIs(token.AMPERSAND) {
				break
			}
			p.nextToken()
			b.WriteString("&")
			p.nextToken()
		}
		if !p.expectPeek("type", token.RPAREN) {
			return false
		}
		b.WriteString(")")
		return true
	case isNameToken(p.curToken.Type), p.curTokenIs(token.ARRAY), p.curTokenIs(token.STATIC):
		b.WriteString(p.curToken.Literal)
		return true
	}
	p.setTokenError(p.curToken, "unexpected %s while parsing type", tokenDescription(p.curToken))
	return false
}

// parseNameList parses one or more comma separated names, starting with
// the next token. On return the current token is the last name.
func (p *Parser) parseNameList(context string) ([]*ast.Name, bool) {
	var names []*ast.Name
	for {
		p.nextToken()
		if !isNameToken(p.curToken.Type) {
			p.setTokenError(p.curToken, "unexpected %s while parsing %s (expected name)", tokenDescription(p.curToken), context)
			return nil, false
		}
		names = append(names, p.newName(p.curToken))
		if !p.peekTokenIs(token.COMMA) {
			return names, true
		}
		p.nextToken()
	}
}

// parseClassDecl parses "[abstract|final|readonly] class Name ...".
func (p *Parser) parseClassDecl() ast.Stmt {
	decl := &ast.ClassDecl{ClassPos: p.curToken.StartPosition}
	for p.curTokenIs(token.ABSTRACT) || p.curTokenIs(token.FINAL) || p.curTokenIs(token.READONLY) {
		decl.Modifiers = append(decl.Modifiers, strings.ToLower(p.curToken.Literal))
		p.nextToken()
	}
	if !p.curTokenIs(token.CLASS) {
		p.setTokenError(p.curToken, "unexpected %s while parsing class declaration (expected class)", tokenDescription(p.curToken))
		return nil
	}
	if !p.expectPeek("class declaration", token.IDENT) {
		return nil
	}
	decl.Name = p.newIdent(p.curToken)
	if !p.parseClassTail(decl) {
		return nil
	}
	return decl
}

// parseAnonymousClass parses "class (args) extends ... { }" after "new".
func (p *Parser) parseAnonymousClass() *ast.ClassDecl {
	decl := &ast.ClassDecl{ClassPos: p.curToken.StartPosition}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args, _, ok := p.parseArgs()
		if !ok {
			return nil
		}
		decl.Args = args
	}
	if !p.parseClassTail(decl) {
		return nil
	}
	return decl
}

func (p *Parser) parseClassTail(decl *ast.ClassDecl) bool {
	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		if !p.expectName("class declaration") {
			return false
		}
		decl.Extends = p.newName(p.curToken)
	}
	if p.peekTokenIs(token.IMPLEMENTS) {
		p.nextToken()
		names, ok := p.parseNameList("implements list")
		if !ok {
			return false
		}
		decl.Implements = names
	}
	members, rbrace, ok := p.parseClassBody("class declaration")
	if !ok {
		return false
	}
	decl.Members = members
	decl.Rbrace = rbrace
	return true
}

func (p *Parser) expectName(context string) bool {
	if isNameToken(p.peekToken.Type) {
		p.nextToken()
		return true
	}
	p.peekError(context, token.IDENT, p.peekToken)
	return false
}

func (p *Parser) parseInterfaceDecl() ast.Stmt {
	decl := &ast.InterfaceDecl{InterfacePos: p.curToken.StartPosition}
	if !p.expectPeek("interface declaration", token.IDENT) {
		return nil
	}
	decl.Name = p.newIdent(p.curToken)
	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		names, ok := p.parseNameList("interface extends list")
		if !ok {
			return nil
		}
		decl.Extends = names
	}
	members, rbrace, ok := p.parseClassBody("interface declaration")
	if !ok {
		return nil
	}
	decl.Members = members
	decl.Rbrace = rbrace
	return decl
}

func (p *Parser) parseTraitDecl() ast.Stmt {
	decl := &ast.TraitDecl{TraitPos: p.curToken.StartPosition}
	if !p.expectPeek("trait declaration", token.IDENT) {
		return nil
	}
	decl.Name = p.newIdent(p.curToken)
	members, rbrace, ok := p.parseClassBody("trait declaration")
	if !ok {
		return nil
	}
	decl.Members = members
	decl.Rbrace = rbrace
	return decl
}

func (p *Parser) parseEnumDecl() ast.Stmt {
	decl := &ast.EnumDecl{EnumPos: p.curToken.StartPosition}
	if !p.expectPeek("enum declaration", token.IDENT) {
		return nil
	}
	decl.Name = p.newIdent(p.curToken)
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		if decl.BackingType = p.parseType(); decl.BackingType == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.IMPLEMENTS) {
		p.nextToken()
		names, ok := p.parseNameList("implements list")
		if !ok {
			return nil
		}
		decl.Implements = names
	}
	members, rbrace, ok := p.parseClassBody("enum declaration")
	if !ok {
		return nil
	}
	decl.Members = members
	decl.Rbrace = rbrace
	return decl
}

// parseClassBody parses "{ members }" starting at the next token.
func (p *Parser) parseClassBody(context string) ([]ast.Stmt, token.Position, bool) {
	if !p.expectPeek(context, token.LBRACE) {
		return nil, token.NoPos, false
	}
	var members []ast.Stmt
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.peekError(context, token.RBRACE, p.peekToken)
			return nil, token.NoPos, false
		}
		p.nextToken()
		member := p.parseClassMember()
		if member == nil {
			return nil, token.NoPos, false
		}
		members = append(members, member)
	}
	p.nextToken()
	return members, p.curToken.StartPosition, true
}

func (p *Parser) parseClassMember() ast.Stmt {
	switch p.curToken.Type {
	case token.USE:
		return p.parseTraitUse()
	case token.CASE:
		return p.parseEnumCase()
	}
	start := p.curToken.StartPosition
	var modifiers []string
	for memberModifiers[p.curToken.Type] {
		modifiers = append(modifiers, strings.ToLower(p.curToken.Literal))
		p.nextToken()
	}
	switch p.curToken.Type {
	case token.CONST:
		return p.parseClassConst(start, modifiers)
	case token.FUNCTION:
		return p.parseClassMethod(start, modifiers)
	}
	return p.parseProperty(start, modifiers)
}

func (p *Parser) parseClassConst(start token.Position, modifiers []string) ast.Stmt {
	items, semi, ok := p.parseConstItems("class constant")
	if !ok {
		return nil
	}
	return &ast.ClassConst{StartPos: start, Modifiers: modifiers, Items: items, Semi: semi}
}

// parseConstItems parses "A = 1, B = 2;" after a const keyword.
func (p *Parser) parseConstItems(context string) ([]*ast.ConstItem, token.Position, bool) {
	var items []*ast.ConstItem
	for {
		p.nextToken()
		if !token.IsSemiReserved(p.curToken.Type) {
			p.setTokenError(p.curToken, "unexpected %s while parsing %s (expected name)", tokenDescription(p.curToken), context)
			return nil, token.NoPos, false
		}
		item := &ast.ConstItem{Name: p.newIdent(p.curToken)}
		if !p.expectPeek(context, token.ASSIGN) {
			return nil, token.NoPos, false
		}
		p.nextToken()
		if item.Value = p.parseExpression(LOWEST); item.Value == nil {
			return nil, token.NoPos, false
		}
		items = append(items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	semi, ok := p.expectSemicolon(context)
	return items, semi, ok
}

func (p *Parser) parseClassMethod(start token.Position, modifiers []string) ast.Stmt {
	method := &ast.ClassMethod{StartPos: start, Modifiers: modifiers}
	if p.peekTokenIs(token.AMPERSAND) {
		p.nextToken()
		method.ByRef = true
	}
	p.nextToken()
	if !token.IsSemiReserved(p.curToken.Type) {
		p.setTokenError(p.curToken, "unexpected %s while parsing method (expected name)", tokenDescription(p.curToken))
		return nil
	}
	method.Name = p.newIdent(p.curToken)
	if !p.expectPeek("method", token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	method.Params = params
	if method.ReturnType, ok = p.parseReturnType(); !ok {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		method.Semi = p.curToken.StartPosition
		return method
	}
	if !p.expectPeek("method", token.LBRACE) {
		return nil
	}
	if method.Body = p.parseBlock(); method.Body == nil {
		return nil
	}
	return method
}

func (p *Parser) parseProperty(start token.Position, modifiers []string) ast.Stmt {
	if len(modifiers) == 0 {
		p.setTokenError(p.curToken, "unexpected %s in class body", tokenDescription(p.curToken))
		return nil
	}
	prop := &ast.Property{StartPos: start, Modifiers: modifiers}
	if !p.curTokenIs(token.VARIABLE) {
		if prop.Type = p.parseType(); prop.Type == nil {
			return nil
		}
		p.nextToken()
	}
	for {
		if !p.curTokenIs(token.VARIABLE) {
			p.setTokenError(p.curToken, "unexpected %s while parsing property (expected variable)", tokenDescription(p.curToken))
			return nil
		}
		item := &ast.PropertyItem{Var: p.newVariable(p.curToken)}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			if item.Default = p.parseExpression(LOWEST); item.Default == nil {
				return nil
			}
		}
		prop.Items = append(prop.Items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	semi, ok := p.expectSemicolon("property")
	if !ok {
		return nil
	}
	prop.Semi = semi
	return prop
}

func (p *Parser) parseTraitUse() ast.Stmt {
	use := &ast.TraitUse{UsePos: p.curToken.StartPosition}
	traits, ok := p.parseNameList("trait use")
	if !ok {
		return nil
	}
	use.Traits = traits
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		use.EndPos = p.curToken.EndPosition
		return use
	}
	if !p.expectPeek("trait use", token.LBRACE) {
		return nil
	}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		rule := p.parseTraitAdaptation()
		if rule == nil {
			return nil
		}
		use.Adaptations = append(use.Adaptations, rule)
	}
	p.nextToken()
	use.EndPos = p.curToken.EndPosition
	return use
}

func (p *Parser) parseTraitAdaptation() *ast.TraitAdaptation {
	rule := &ast.TraitAdaptation{}
	if isNameToken(p.curToken.Type) && p.peekTokenIs(token.DOUBLE_COLON) {
		rule.Trait = p.newName(p.curToken)
		p.nextToken()
		p.nextToken()
	}
	if !token.IsSemiReserved(p.curToken.Type) {
		p.setTokenError(p.curToken, "unexpected %s while parsing trait adaptation", tokenDescription(p.curToken))
		return nil
	}
	rule.Method = p.newIdent(p.curToken)
	switch {
	case p.peekTokenIs(token.INSTEADOF):
		p.nextToken()
		names, ok := p.parseNameList("insteadof list")
		if !ok {
			return nil
		}
		rule.Insteadof = names
	case p.peekTokenIs(token.AS):
		p.nextToken()
		switch p.peekToken.Type {
		case token.PUBLIC, token.PROTECTED, token.PRIVATE:
			p.nextToken()
			rule.Modifier = strings.ToLower(p.curToken.Literal)
		}
		if !p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			if !token.IsSemiReserved(p.curToken.Type) {
				p.setTokenError(p.curToken, "unexpected %s while parsing trait alias", tokenDescription(p.curToken))
				return nil
			}
			rule.Alias = p.newIdent(p.curToken)
		}
	default:
		p.peekError("trait adaptation", token.AS, p.peekToken)
		return nil
	}
	semi, ok := p.expectSemicolon("trait adaptation")
	if !ok {
		return nil
	}
	rule.Semi = semi
	return rule
}

func (p *Parser) parseEnumCase() ast.Stmt {
	c := &ast.EnumCase{CasePos: p.curToken.StartPosition}
	p.nextToken()
	if !token.IsSemiReserved(p.curToken.Type) {
		p.setTokenError(p.curToken, "unexpected %s while parsing enum case", tokenDescription(p.curToken))
		return nil
	}
	c.Name = p.newIdent(p.curToken)
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		if c.Value = p.parseExpression(LOWEST); c.Value == nil {
			return nil
		}
	}
	semi, ok := p.expectSemicolon("enum case")
	if !ok {
		return nil
	}
	c.Semi = semi
	return c
}
