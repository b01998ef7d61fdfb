// Package lexer converts PHP source text into a stream of tokens.
//
// The lexer starts in markup mode: everything before the first open tag is
// returned as a single INLINE_HTML token. After "<?php" (or "<?=") it lexes
// code until a "?>" close tag switches it back to markup mode.
package lexer

import (
	"fmt"
	"strings"

	"github.com/risor-io/phpsandbox/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	input     string
	pos       int // current byte offset
	line      int
	lineStart int
	filename  string
	inCode    bool
	halted    int // 0 = running, 1 = remainder pending, 2 = done
	base      token.Position
}

// State captures the position of a Lexer so it can be restored later.
type State struct {
	pos       int
	line      int
	lineStart int
	inCode    bool
	halted    int
}

// New returns a Lexer for the given PHP source.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// NewAt returns a Lexer in code mode for a fragment of a larger source,
// such as an expression embedded in a string. Token positions are reported
// relative to base, the position of the fragment's first byte.
func NewAt(input string, base token.Position) *Lexer {
	return &Lexer{input: input, inCode: true, base: base, filename: base.File}
}

// SetFilename sets the filename attached to token positions.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the filename attached to token positions.
func (l *Lexer) Filename() string {
	return l.filename
}

// SaveState returns the current lexer state.
func (l *Lexer) SaveState() State {
	return State{pos: l.pos, line: l.line, lineStart: l.lineStart, inCode: l.inCode, halted: l.halted}
}

// RestoreState resets the lexer to a previously saved state.
func (l *Lexer) RestoreState(s State) {
	l.pos = s.pos
	l.line = s.line
	l.lineStart = s.lineStart
	l.inCode = s.inCode
	l.halted = s.halted
}

// StartInCode puts the lexer directly into code mode, as if "<?php" had
// been seen. Used to lex expressions embedded in interpolated strings.
func (l *Lexer) StartInCode() {
	l.inCode = true
}

// GetLineText returns the full line of source text containing the token.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start > len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return strings.TrimRight(l.input[start:], "\r")
	}
	return strings.TrimRight(l.input[start:start+end], "\r")
}

func (l *Lexer) position() token.Position {
	pos := token.Position{
		Char:      l.base.Char + l.pos,
		LineStart: l.base.Char + l.lineStart,
		Line:      l.base.Line + l.line,
		Column:    l.pos - l.lineStart,
		File:      l.filename,
	}
	if l.line == 0 {
		pos.LineStart = l.base.LineStart
		pos.Column += l.base.Column
	}
	return pos
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// advance moves forward n bytes, keeping line bookkeeping up to date.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.lineStart = l.pos + 1
		}
		l.pos++
	}
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) hasPrefixFold(s string) bool {
	if len(l.input)-l.pos < len(s) {
		return false
	}
	return strings.EqualFold(l.input[l.pos:l.pos+len(s)], s)
}

func (l *Lexer) newToken(t token.Type, literal string, start token.Position) token.Token {
	return token.Token{Type: t, Literal: literal, StartPosition: start, EndPosition: l.position()}
}

func (l *Lexer) errorf(start token.Position, format string, args ...interface{}) (token.Token, error) {
	tok := token.Token{Type: token.ILLEGAL, Literal: l.input[start.Char-l.base.Char : l.pos], StartPosition: start, EndPosition: l.position()}
	return tok, fmt.Errorf(format, args...)
}

// Next returns the next token from the input. At the end of input it
// returns an EOF token, repeatedly.
func (l *Lexer) Next() (token.Token, error) {
	if l.halted == 1 {
		start := l.position()
		rest := l.input[l.pos:]
		l.advance(len(rest))
		l.halted = 2
		return l.newToken(token.HALT_REMAINDER, rest, start), nil
	}
	if l.pos >= len(l.input) || l.halted == 2 {
		return l.newToken(token.EOF, "", l.position()), nil
	}
	if !l.inCode {
		return l.lexMarkup()
	}
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.errorf(l.position(), "%s", err.Error())
	}
	if l.pos >= len(l.input) {
		return l.newToken(token.EOF, "", l.position()), nil
	}
	return l.lexCode()
}

func (l *Lexer) lexMarkup() (token.Token, error) {
	start := l.position()
	rest := l.input[l.pos:]
	idx := 0
	for {
		i := strings.Index(rest[idx:], "<?")
		if i < 0 {
			l.advance(len(rest))
			return l.newToken(token.INLINE_HTML, rest, start), nil
		}
		at := idx + i
		after := rest[at+2:]
		if strings.HasPrefix(after, "=") {
			if at > 0 {
				l.advance(at)
				return l.newToken(token.INLINE_HTML, rest[:at], start), nil
			}
			l.advance(3)
			l.inCode = true
			return l.newToken(token.OPEN_TAG_ECHO, "<?=", start), nil
		}
		if len(after) >= 3 && strings.EqualFold(after[:3], "php") &&
			(len(after) == 3 || isSpace(after[3])) {
			if at > 0 {
				l.advance(at)
				return l.newToken(token.INLINE_HTML, rest[:at], start), nil
			}
			l.advance(5)
			// The open tag swallows a single following newline.
			if l.hasPrefix("\r\n") {
				l.advance(2)
			} else if l.pos < len(l.input) && isSpace(l.input[l.pos]) {
				l.advance(1)
			}
			l.inCode = true
			return l.Next()
		}
		idx = at + 2
	}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case isSpace(c):
			l.advance(1)
		case c == '#':
			if l.peekByte(1) == '[' {
				return fmt.Errorf("attributes are not supported")
			}
			l.skipLineComment()
		case c == '/' && l.peekByte(1) == '/':
			l.skipLineComment()
		case c == '/' && l.peekByte(1) == '*':
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				return fmt.Errorf("unterminated comment")
			}
			l.advance(end + 4)
		default:
			return nil
		}
	}
	return nil
}

// skipLineComment consumes a single-line comment, stopping before a newline
// or a close tag.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			return
		}
		if l.hasPrefix("?>") {
			return
		}
		l.advance(1)
	}
}

func (l *Lexer) lexCode() (token.Token, error) {
	start := l.position()
	c := l.input[l.pos]

	switch {
	case isIdentStart(c):
		return l.lexName(start)
	case c == '\\':
		if isIdentStart(l.peekByte(1)) {
			return l.lexName(start)
		}
		l.advance(1)
		return l.newToken(token.NS_SEPARATOR, "\\", start), nil
	case c == '$':
		if isIdentStart(l.peekByte(1)) {
			l.advance(1)
			name := l.readIdent()
			return l.newToken(token.VARIABLE, "$"+name, start), nil
		}
		if l.peekByte(1) == '{' {
			l.advance(2)
			return l.newToken(token.DOLLAR_LBRACE, "${", start), nil
		}
		l.advance(1)
		return l.newToken(token.DOLLAR, "$", start), nil
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
		return l.lexNumber(start)
	case c == '\'':
		return l.lexQuoted(start, '\'', token.STRING)
	case c == '"':
		return l.lexQuoted(start, '"', token.STRING_DQ)
	case c == '`':
		return l.lexQuoted(start, '`', token.SHELL_EXEC)
	case c == '<' && l.hasPrefix("<<<"):
		return l.lexHeredoc(start)
	case c == '(':
		if cast, n, ok := l.scanCast(); ok {
			l.advance(n)
			return l.newToken(token.CAST, cast, start), nil
		}
	case c == '?' && l.peekByte(1) == '>':
		l.advance(2)
		if l.hasPrefix("\r\n") {
			l.advance(2)
		} else if l.hasPrefix("\n") {
			l.advance(1)
		}
		l.inCode = false
		return l.newToken(token.CLOSE_TAG, "?>", start), nil
	}

	for _, op := range operators {
		if l.hasPrefix(op.text) {
			l.advance(len(op.text))
			return l.newToken(op.typ, op.text, start), nil
		}
	}
	l.advance(1)
	return l.errorf(start, "unexpected character %q", c)
}

type operator struct {
	text string
	typ  token.Type
}

// operators is ordered so that longer operators are matched first.
var operators = []operator{
	{"<=>", token.SPACESHIP},
	{"<<=", token.SHL_EQUALS},
	{">>=", token.SHR_EQUALS},
	{"**=", token.POW_EQUALS},
	{"...", token.ELLIPSIS},
	{"??=", token.COALESCE_EQUALS},
	{"?->", token.NULLSAFE_ARROW},
	{"===", token.IDENTICAL},
	{"!==", token.NOT_IDENTICAL},
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<>", token.NOT_EQ},
	{"<=", token.LT_EQUALS},
	{">=", token.GT_EQUALS},
	{"&&", token.AND},
	{"||", token.OR},
	{"++", token.PLUS_PLUS},
	{"--", token.MINUS_MINUS},
	{"+=", token.PLUS_EQUALS},
	{"-=", token.MINUS_EQUALS},
	{"*=", token.ASTERISK_EQUALS},
	{"/=", token.SLASH_EQUALS},
	{".=", token.CONCAT_EQUALS},
	{"%=", token.MOD_EQUALS},
	{"&=", token.AND_EQUALS},
	{"|=", token.OR_EQUALS},
	{"^=", token.XOR_EQUALS},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"??", token.COALESCE},
	{"::", token.DOUBLE_COLON},
	{"->", token.ARROW},
	{"=>", token.DOUBLE_ARROW},
	{"**", token.POW},
	{"=", token.ASSIGN},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.ASTERISK},
	{"/", token.SLASH},
	{"%", token.MOD},
	{".", token.CONCAT},
	{"<", token.LT},
	{">", token.GT},
	{"!", token.BANG},
	{"&", token.AMPERSAND},
	{"|", token.PIPE},
	{"^", token.CARET},
	{"~", token.TILDE},
	{"?", token.QUESTION},
	{":", token.COLON},
	{"@", token.AT},
	{",", token.COMMA},
	{";", token.SEMICOLON},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
}

func (l *Lexer) readIdent() string {
	begin := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.advance(1)
	}
	return l.input[begin:l.pos]
}

// lexName reads an identifier, keyword or namespaced name.
func (l *Lexer) lexName(start token.Position) (token.Token, error) {
	begin := l.pos
	fullyQualified := false
	if l.input[l.pos] == '\\' {
		fullyQualified = true
		l.advance(1)
	}
	first := l.readIdent()
	segments := 1
	for l.pos < len(l.input) && l.input[l.pos] == '\\' && isIdentStart(l.peekByte(1)) {
		l.advance(1)
		l.readIdent()
		segments++
	}
	text := l.input[begin:l.pos]
	switch {
	case fullyQualified:
		return l.newToken(token.NAME_FULLY_QUALIFIED, text, start), nil
	case segments > 1 && strings.EqualFold(first, "namespace"):
		return l.newToken(token.NAME_RELATIVE, text, start), nil
	case segments > 1:
		return l.newToken(token.NAME_QUALIFIED, text, start), nil
	}

	typ := token.LookupIdentifier(text)
	switch typ {
	case token.YIELD:
		save := l.SaveState()
		for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
			l.advance(1)
		}
		if l.hasPrefixFold("from") && !isIdentChar(l.peekByte(4)) {
			l.advance(4)
			return l.newToken(token.YIELD_FROM, l.input[begin:l.pos], start), nil
		}
		l.RestoreState(save)
	case token.HALT_COMPILER:
		if err := l.scanHaltCompiler(); err != nil {
			return l.errorf(start, "%s", err.Error())
		}
		l.halted = 1
		return l.newToken(token.HALT_COMPILER, text, start), nil
	}
	return l.newToken(typ, text, start), nil
}

// scanHaltCompiler consumes the "();" that must follow __halt_compiler.
func (l *Lexer) scanHaltCompiler() error {
	skip := func() {
		for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
			l.advance(1)
		}
	}
	for _, want := range []string{"(", ")"} {
		skip()
		if !l.hasPrefix(want) {
			return fmt.Errorf("expected %q after __halt_compiler", want)
		}
		l.advance(1)
	}
	skip()
	switch {
	case l.hasPrefix(";"):
		l.advance(1)
	case l.hasPrefix("?>"):
		l.advance(2)
	default:
		return fmt.Errorf("expected \";\" after __halt_compiler()")
	}
	return nil
}

func (l *Lexer) lexNumber(start token.Position) (token.Token, error) {
	begin := l.pos
	if l.input[l.pos] == '0' {
		switch l.peekByte(1) {
		case 'x', 'X':
			l.advance(2)
			l.readWhile(func(c byte) bool { return isHexDigit(c) || c == '_' })
			return l.newToken(token.INT, l.input[begin:l.pos], start), nil
		case 'b', 'B':
			l.advance(2)
			l.readWhile(func(c byte) bool { return c == '0' || c == '1' || c == '_' })
			return l.newToken(token.INT, l.input[begin:l.pos], start), nil
		case 'o', 'O':
			l.advance(2)
			l.readWhile(func(c byte) bool { return (c >= '0' && c <= '7') || c == '_' })
			return l.newToken(token.INT, l.input[begin:l.pos], start), nil
		}
	}
	isFloat := false
	l.readWhile(func(c byte) bool { return isDigit(c) || c == '_' })
	if l.pos < len(l.input) && l.input[l.pos] == '.' && l.peekByte(1) != '.' && l.peekByte(1) != '=' {
		isFloat = true
		l.advance(1)
		l.readWhile(func(c byte) bool { return isDigit(c) || c == '_' })
	}
	if c := l.peekByte(0); c == 'e' || c == 'E' {
		next := l.peekByte(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekByte(2))) {
			isFloat = true
			l.advance(2)
			l.readWhile(isDigit)
		}
	}
	if isFloat {
		return l.newToken(token.FLOAT, l.input[begin:l.pos], start), nil
	}
	return l.newToken(token.INT, l.input[begin:l.pos], start), nil
}

func (l *Lexer) readWhile(fn func(byte) bool) {
	for l.pos < len(l.input) && fn(l.input[l.pos]) {
		l.advance(1)
	}
}

// lexQuoted reads a quoted string. The token literal is the raw text between
// the quotes, with escape sequences left untouched.
func (l *Lexer) lexQuoted(start token.Position, quote byte, typ token.Type) (token.Token, error) {
	l.advance(1)
	begin := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' {
			l.advance(2)
			continue
		}
		if quote != '\'' && isEmbeddedStart(c, l.peekByte(1)) {
			l.skipEmbedded()
			continue
		}
		if c == quote {
			raw := l.input[begin:l.pos]
			l.advance(1)
			return l.newToken(typ, raw, start), nil
		}
		l.advance(1)
	}
	return l.errorf(start, "unterminated string literal")
}

func isEmbeddedStart(c, next byte) bool {
	return (c == '{' && next == '$') || (c == '$' && next == '{')
}

// skipEmbedded skips a "{$...}" or "${...}" expression inside a double
// quoted string, along with any strings nested in it.
func (l *Lexer) skipEmbedded() {
	depth := 0
	for l.pos < len(l.input) {
		switch c := l.input[l.pos]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				l.advance(1)
				return
			}
		case '\'', '"':
			l.advance(1)
			for l.pos < len(l.input) && l.input[l.pos] != c {
				if l.input[l.pos] == '\\' {
					l.advance(1)
				}
				l.advance(1)
			}
		}
		l.advance(1)
	}
}

// lexHeredoc reads a heredoc or nowdoc. The token literal is the body with
// the closing marker's indentation removed from every line.
func (l *Lexer) lexHeredoc(start token.Position) (token.Token, error) {
	l.advance(3)
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.advance(1)
	}
	typ := token.HEREDOC
	var closer byte
	switch l.peekByte(0) {
	case '\'':
		typ = token.NOWDOC
		closer = '\''
		l.advance(1)
	case '"':
		closer = '"'
		l.advance(1)
	}
	if !isIdentStart(l.peekByte(0)) {
		return l.errorf(start, "invalid heredoc label")
	}
	label := l.readIdent()
	if closer != 0 {
		if l.peekByte(0) != closer {
			return l.errorf(start, "unterminated heredoc label")
		}
		l.advance(1)
	}
	if l.hasPrefix("\r\n") {
		l.advance(2)
	} else if l.hasPrefix("\n") {
		l.advance(1)
	} else {
		return l.errorf(start, "expected newline after heredoc label")
	}

	bodyStart := l.pos
	lineBegin := l.pos
	for lineBegin <= len(l.input) {
		lineEnd := strings.IndexByte(l.input[lineBegin:], '\n')
		var line string
		if lineEnd < 0 {
			line = l.input[lineBegin:]
		} else {
			line = l.input[lineBegin : lineBegin+lineEnd]
		}
		trimmed := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(trimmed)]
		if strings.HasPrefix(trimmed, label) &&
			(len(trimmed) == len(label) || !isIdentChar(trimmed[len(label)])) {
			body := ""
			if lineBegin > bodyStart {
				body = l.input[bodyStart : lineBegin-1]
				body = strings.TrimSuffix(body, "\r")
			}
			body = removeIndent(body, indent)
			l.advance(lineBegin + len(indent) + len(label) - l.pos)
			return l.newToken(typ, body, start), nil
		}
		if lineEnd < 0 {
			break
		}
		lineBegin += lineEnd + 1
	}
	l.advance(len(l.input) - l.pos)
	return l.errorf(start, "unterminated heredoc, missing closing label %q", label)
}

func removeIndent(body, indent string) string {
	if indent == "" || body == "" {
		return body
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.Join(lines, "\n")
}

// scanCast checks whether the text at the current position is a cast such
// as "(int)" or "( string )". It returns the canonical cast name and the
// number of bytes the cast occupies.
func (l *Lexer) scanCast() (string, int, bool) {
	i := l.pos + 1
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	nameStart := i
	for i < len(l.input) && isLetter(l.input[i]) {
		i++
	}
	name := l.input[nameStart:i]
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	if i >= len(l.input) || l.input[i] != ')' || name == "" {
		return "", 0, false
	}
	cast, ok := token.LookupCast(name)
	if !ok {
		return "", 0, false
	}
	return cast, i + 1 - l.pos, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_' || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
