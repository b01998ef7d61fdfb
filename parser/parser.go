// Package parser is used to generate the abstract syntax tree (AST) for a
// PHP program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
package parser

import (
	"context"
	"fmt"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/internal/lexer"
	"github.com/risor-io/phpsandbox/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parse the provided input as PHP source code and return the AST. This is
// shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	// Extract filename from options before creating the parser, so that lexer
	// errors in the first tokens have proper location context.
	var filename string
	for _, opt := range options {
		var probe Parser
		opt(&probe)
		if probe.filename != "" {
			filename = probe.filename
			break
		}
	}

	l := lexer.New(input)
	if filename != "" {
		l.SetFilename(filename)
	}

	p := New(l, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name for the Lexer.
func WithFilename(filename string) Option {
	return func(l *Parser) {
		l.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// number of tokens read from the lexer, excluding EOF
	tokens int

	// parsing errors collected during parsing
	errors Errors

	// stmtErrorCount tracks error count at start of current statement.
	// Used by inner methods to detect if an error was added during this statement.
	stmtErrorCount int

	// prefixParseFns holds a map of parsing methods for
	// prefix-based syntax.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds a map of parsing methods for
	// infix-based syntax.
	infixParseFns map[token.Type]infixParseFn

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" && l.Filename() == "" {
		l.SetFilename(p.filename)
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]

	// Register prefix-functions
	p.registerPrefix(token.VARIABLE, p.parseVariable)
	p.registerPrefix(token.DOLLAR, p.parseVarVar)
	p.registerPrefix(token.DOLLAR_LBRACE, p.parseVarVar)
	p.registerPrefix(token.IDENT, p.parseName)
	p.registerPrefix(token.NAME_QUALIFIED, p.parseName)
	p.registerPrefix(token.NAME_FULLY_QUALIFIED, p.parseName)
	p.registerPrefix(token.NAME_RELATIVE, p.parseName)
	p.registerPrefix(token.STATIC, p.parseStatic)
	p.registerPrefix(token.MAGIC_CONST, p.parseMagicConst)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.FLOAT, p.parseFloat)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.STRING_DQ, p.parseString)
	p.registerPrefix(token.HEREDOC, p.parseString)
	p.registerPrefix(token.NOWDOC, p.parseString)
	p.registerPrefix(token.SHELL_EXEC, p.parseShellExec)
	p.registerPrefix(token.LBRACKET, p.parseArray)
	p.registerPrefix(token.ARRAY, p.parseArray)
	p.registerPrefix(token.LIST, p.parseArray)
	p.registerPrefix(token.LPAREN, p.parseParen)
	p.registerPrefix(token.BANG, p.parseUnary)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.PLUS, p.parseUnary)
	p.registerPrefix(token.TILDE, p.parseUnary)
	p.registerPrefix(token.AT, p.parseUnary)
	p.registerPrefix(token.PLUS_PLUS, p.parseUnary)
	p.registerPrefix(token.MINUS_MINUS, p.parseUnary)
	p.registerPrefix(token.CAST, p.parseCast)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.CLONE, p.parseClone)
	p.registerPrefix(token.FUNCTION, p.parseClosure)
	p.registerPrefix(token.FN, p.parseArrowFunc)
	p.registerPrefix(token.ISSET, p.parseIsset)
	p.registerPrefix(token.EMPTY, p.parseEmpty)
	p.registerPrefix(token.EXIT, p.parseExit)
	p.registerPrefix(token.EVAL, p.parseEval)
	p.registerPrefix(token.INCLUDE, p.parseInclude)
	p.registerPrefix(token.INCLUDE_ONCE, p.parseInclude)
	p.registerPrefix(token.REQUIRE, p.parseInclude)
	p.registerPrefix(token.REQUIRE_ONCE, p.parseInclude)
	p.registerPrefix(token.PRINT, p.parsePrint)
	p.registerPrefix(token.YIELD, p.parseYield)
	p.registerPrefix(token.YIELD_FROM, p.parseYieldFrom)
	p.registerPrefix(token.THROW, p.parseThrow)
	p.registerPrefix(token.MATCH, p.parseMatch)

	// Register infix functions
	for _, t := range []token.Type{
		token.LOGICAL_OR, token.LOGICAL_XOR, token.LOGICAL_AND,
		token.OR, token.AND, token.PIPE, token.CARET, token.AMPERSAND,
		token.EQ, token.NOT_EQ, token.IDENTICAL, token.NOT_IDENTICAL, token.SPACESHIP,
		token.LT, token.LT_EQUALS, token.GT, token.GT_EQUALS,
		token.CONCAT, token.SHL, token.SHR, token.PLUS, token.MINUS,
		token.ASTERISK, token.SLASH, token.MOD, token.POW, token.COALESCE,
	} {
		p.registerInfix(t, p.parseBinary)
	}
	for t := range assignOps {
		p.registerInfix(t, p.parseAssign)
	}
	p.registerInfix(token.INSTANCEOF, p.parseInstanceof)
	p.registerInfix(token.QUESTION, p.parseTernary)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.ARROW, p.parseMember)
	p.registerInfix(token.NULLSAFE_ARROW, p.parseMember)
	p.registerInfix(token.DOUBLE_COLON, p.parseStaticMember)
	p.registerInfix(token.PLUS_PLUS, p.parsePostfix)
	p.registerInfix(token.MINUS_MINUS, p.parsePostfix)

	return p
}

// advanceToken moves to the next token from the lexer without error checking.
// Used internally by synchronize() during error recovery.
func (p *Parser) advanceToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, _ = p.l.Next()
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() error {
	var err error
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if p.peekToken.Type != token.EOF {
		p.tokens++
	}
	if err == nil {
		return nil // success
	}
	// The lexer encountered an error. We consider all lexer errors
	// "syntax errors" and parsing will now be considered broken.
	p.addError(&Error{
		Kind:  "syntax error",
		Cause: err,
		File:  p.l.Filename(),
		Pos:   p.peekToken.StartPosition,
		End:   p.peekToken.EndPosition,
		Line:  p.l.GetLineText(p.peekToken),
	})
	return err
}

// peekSecond returns the token after peekToken without consuming anything.
func (p *Parser) peekSecond() token.Token {
	state := p.l.SaveState()
	tok, _ := p.l.Next()
	p.l.RestoreState(state)
	return tok
}

// Parse the program that is provided via the lexer.
// Returns the AST and any errors encountered. If there are errors, the AST
// may be partial (containing only successfully parsed statements).
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	// It's possible for errors to already exist because we read tokens from
	// the lexer in the constructor.
	if p.hasErrors() {
		return nil, p.errors
	}
	var statements []ast.Stmt
	for !p.curTokenIs(token.EOF) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if p.tooManyErrors() {
			break
		}
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		} else if p.hadNewError() {
			p.synchronize()
		}
		p.nextToken()
	}
	program := &ast.Program{Stmts: statements, Tokens: p.tokens}
	if p.hasErrors() {
		return program, p.errors
	}
	return program, nil
}

// registerPrefix registers a function for handling a prefix-based expression.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix-based expression.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

func (p *Parser) addError(err *Error) {
	p.errors = append(p.errors, err)
}

func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// hadNewError returns true if an error was added during the current statement.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.stmtErrorCount
}

// synchronize skips tokens until a statement boundary is reached.
// This is used for error recovery to continue parsing after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.SEMICOLON, token.RBRACE, token.CLOSE_TAG:
			return
		}
		switch p.peekToken.Type {
		case token.FUNCTION, token.IF, token.WHILE, token.FOR, token.FOREACH,
			token.RETURN, token.NAMESPACE, token.USE, token.CLASS, token.EOF:
			return
		}
		prevPos := p.curToken.StartPosition
		p.advanceToken()
		// Safety: if we didn't advance (lexer stuck), bail out
		if p.curToken.StartPosition == prevPos {
			return
		}
	}
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.tokenError(t, fmt.Sprintf("invalid syntax (unexpected %s)", tokenDescription(t)))
}

// peekError raises an error if the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	p.tokenError(got, fmt.Sprintf("unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected)))
}

// cancelled checks if the parsing context has been cancelled.
// Returns true if cancelled, in which case parsing should stop.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		p.addError(&Error{Kind: "context error", Cause: p.ctx.Err()})
		return true
	default:
		return false
	}
}

func (p *Parser) setTokenError(t token.Token, msg string, args ...any) {
	p.tokenError(t, fmt.Sprintf(msg, args...))
}

func (p *Parser) tokenError(t token.Token, msg string) {
	p.addError(&Error{
		Kind: "parse error",
		Msg:  msg,
		File: p.l.Filename(),
		Pos:  t.StartPosition,
		End:  t.EndPosition,
		Line: p.l.GetLineText(t),
	})
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek validates if the next token is of the given type, and advances if
// it is. If it's a different type, then an error is stored.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// expectSemicolon consumes the ";" ending a statement. A close tag also
// ends a statement, as in PHP.
func (p *Parser) expectSemicolon(context string) (token.Position, bool) {
	switch p.peekToken.Type {
	case token.SEMICOLON, token.CLOSE_TAG:
		p.nextToken()
		return p.curToken.StartPosition, true
	}
	p.peekError(context, token.SEMICOLON, p.peekToken)
	return token.NoPos, false
}

// peekPrecedence returns the precedence of the next token.
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// currentPrecedence returns the precedence of the current token.
func (p *Parser) currentPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// isNameToken reports whether the token is a (possibly qualified) name.
func isNameToken(t token.Type) bool {
	switch t {
	case token.IDENT, token.NAME_QUALIFIED, token.NAME_FULLY_QUALIFIED, token.NAME_RELATIVE:
		return true
	}
	return false
}

func (p *Parser) newName(tok token.Token) *ast.Name {
	kind := ast.Unqualified
	switch tok.Type {
	case token.NAME_QUALIFIED:
		kind = ast.Qualified
	case token.NAME_FULLY_QUALIFIED:
		kind = ast.FullyQualified
	case token.NAME_RELATIVE:
		kind = ast.Relative
	}
	return &ast.Name{NamePos: tok.StartPosition, Value: tok.Literal, Kind: kind}
}

func (p *Parser) newIdent(tok token.Token) *ast.Identifier {
	return &ast.Identifier{NamePos: tok.StartPosition, Name: tok.Literal}
}

func (p *Parser) newVariable(tok token.Token) *ast.Variable {
	return &ast.Variable{DollarPos: tok.StartPosition, Name: tok.Literal[1:]}
}
