package parser

import (
	"strings"

	"github.com/risor-io/phpsandbox/ast"
	"github.com/risor-io/phpsandbox/internal/lexer"
	"github.com/risor-io/phpsandbox/internal/token"
)

// parseString handles single and double quoted strings, heredocs and
// nowdocs. Nowdocs become single-quoted strings and heredocs become
// double-quoted strings, so later stages only see two quote styles.
func (p *Parser) parseString() ast.Expr {
	tok := p.curToken
	switch tok.Type {
	case token.STRING:
		return &ast.String{ValuePos: tok.StartPosition, Raw: tok.Literal, EndPos: tok.EndPosition}
	case token.NOWDOC:
		return &ast.String{ValuePos: tok.StartPosition, Raw: nowdocToSingle(tok.Literal), EndPos: tok.EndPosition}
	}
	base := tok.StartPosition.Advance(1)
	heredoc := tok.Type == token.HEREDOC
	if heredoc {
		base = p.heredocBodyPosition(tok)
	}
	parts, ok := p.parseEncapsed(tok, tok.Literal, base)
	if !ok {
		return nil
	}
	if heredoc {
		for _, part := range parts {
			if text, ok := part.(*ast.EncapsedText); ok {
				text.Raw = heredocToDouble(text.Raw)
			}
		}
	}
	if len(parts) == 0 {
		return &ast.String{ValuePos: tok.StartPosition, Double: true, EndPos: tok.EndPosition}
	}
	if text, ok := parts[0].(*ast.EncapsedText); ok && len(parts) == 1 {
		return &ast.String{ValuePos: tok.StartPosition, Raw: text.Raw, Double: true, EndPos: tok.EndPosition}
	}
	return &ast.InterpolatedString{OpenPos: tok.StartPosition, Parts: parts, EndPos: tok.EndPosition}
}

func (p *Parser) parseShellExec() ast.Expr {
	tok := p.curToken
	parts, ok := p.parseEncapsed(tok, tok.Literal, tok.StartPosition.Advance(1))
	if !ok {
		return nil
	}
	return &ast.ShellExec{OpenPos: tok.StartPosition, Parts: parts, Close: tok.EndPosition.Advance(-1)}
}

// heredocBodyPosition returns the position of the first byte of a heredoc
// body, which starts on the line after the opening label.
func (p *Parser) heredocBodyPosition(tok token.Token) token.Position {
	opener := p.l.GetLineText(tok)
	start := tok.StartPosition.LineStart + len(opener) + 1
	return token.Position{
		Char:      start,
		LineStart: start,
		Line:      tok.StartPosition.Line + 1,
		File:      tok.StartPosition.File,
	}
}

// nowdocToSingle escapes a nowdoc body for use between single quotes.
func nowdocToSingle(body string) string {
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case '\\', '\'':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// heredocToDouble escapes a heredoc text run for use between double
// quotes. A bare quote gets escaped, and "\"" keeps its backslash since
// it is not an escape sequence inside a heredoc. A lone backslash ending
// the run is doubled so it cannot escape the closing quote.
func heredocToDouble(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\\' && i+1 == len(raw):
			b.WriteString(`\\`)
		case c == '\\':
			if raw[i+1] == '"' {
				b.WriteString(`\\\"`)
			} else {
				b.WriteByte(c)
				b.WriteByte(raw[i+1])
			}
			i++
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// advancePosition returns the position reached after reading text from base.
func advancePosition(base token.Position, text string) token.Position {
	pos := base
	pos.Char += len(text)
	nl := strings.LastIndexByte(text, '\n')
	if nl < 0 {
		pos.Column += len(text)
		return pos
	}
	pos.Line += strings.Count(text, "\n")
	pos.LineStart = base.Char + nl + 1
	pos.Column = len(text) - nl - 1
	return pos
}

// parseEncapsed splits the body of an interpolating string into literal
// text runs and embedded expressions. It understands the simple syntax
// ("$a", "$a[0]", "$a->b") and the complex syntax ("{$expr}", "${name}").
func (p *Parser) parseEncapsed(tok token.Token, raw string, base token.Position) ([]ast.Expr, bool) {
	var parts []ast.Expr
	textStart := 0
	flush := func(end int) {
		if end > textStart {
			parts = append(parts, &ast.EncapsedText{
				TextPos: advancePosition(base, raw[:textStart]),
				Raw:     raw[textStart:end],
			})
		}
	}
	for i := 0; i < len(raw); {
		c := raw[i]
		var next byte
		if i+1 < len(raw) {
			next = raw[i+1]
		}
		switch {
		case c == '\\':
			i += 2
			continue
		case c == '$' && isIdentStartByte(next):
			flush(i)
			x, n, ok := p.parseSimpleInterpolation(tok, raw, i, base)
			if !ok {
				return nil, false
			}
			parts = append(parts, x)
			i += n
			textStart = i
			continue
		case c == '{' && next == '$':
			flush(i)
			x, n, ok := p.parseEmbedded(tok, raw, i+1, base)
			if !ok {
				return nil, false
			}
			parts = append(parts, x)
			i += 1 + n
			textStart = i
			continue
		case c == '$' && next == '{':
			flush(i)
			x, n, ok := p.parseEmbedded(tok, raw, i+2, base)
			if !ok {
				return nil, false
			}
			parts = append(parts, dollarBraceExpr(advancePosition(base, raw[:i]), x))
			i += 2 + n
			textStart = i
			continue
		}
		i++
	}
	flush(len(raw))
	return parts, true
}

// dollarBraceExpr converts the expression inside "${...}" to what it
// denotes: "${name}" is $name, "${name[0]}" is $name[0], and anything else
// is a variable variable.
func dollarBraceExpr(pos token.Position, x ast.Expr) ast.Expr {
	switch x := x.(type) {
	case *ast.Name:
		if x.Kind == ast.Unqualified {
			return &ast.Variable{DollarPos: pos, Name: x.Value}
		}
	case *ast.Index:
		if name, ok := x.X.(*ast.Name); ok && name.Kind == ast.Unqualified {
			x.X = &ast.Variable{DollarPos: pos, Name: name.Value}
			return x
		}
	}
	return &ast.VarVar{DollarPos: pos, X: x, Braced: true, Rbrace: x.End()}
}

// parseEmbedded parses the expression starting at raw[offset] and
// terminated by "}". It returns the expression and the number of bytes
// consumed, including the closing brace.
func (p *Parser) parseEmbedded(tok token.Token, raw string, offset int, base token.Position) (ast.Expr, int, bool) {
	start := advancePosition(base, raw[:offset])
	sub := New(lexer.NewAt(raw[offset:], start), WithMaxDepth(p.maxDepth-p.depth))
	sub.ctx = p.ctx
	x := sub.parseExpression(LOWEST)
	if x == nil || sub.hasErrors() || !sub.peekTokenIs(token.RBRACE) {
		p.setTokenError(tok, "invalid expression in interpolated string")
		return nil, 0, false
	}
	return x, sub.peekToken.StartPosition.Char - start.Char + 1, true
}

// parseSimpleInterpolation parses "$name", optionally followed by one
// "[offset]" or "->property", starting at raw[i].
func (p *Parser) parseSimpleInterpolation(tok token.Token, raw string, i int, base token.Position) (ast.Expr, int, bool) {
	start := i
	j := i + 1
	for j < len(raw) && isIdentByte(raw[j]) {
		j++
	}
	var x ast.Expr = &ast.Variable{DollarPos: advancePosition(base, raw[:i]), Name: raw[i+1 : j]}
	switch {
	case j < len(raw) && raw[j] == '[':
		k := j + 1
		keyPos := advancePosition(base, raw[:k])
		var key ast.Expr
		switch {
		case k < len(raw) && raw[k] == '$' && k+1 < len(raw) && isIdentStartByte(raw[k+1]):
			e := k + 1
			for e < len(raw) && isIdentByte(raw[e]) {
				e++
			}
			key = &ast.Variable{DollarPos: keyPos, Name: raw[k+1 : e]}
			k = e
		case k < len(raw) && isDigit(raw[k]),
			k+1 < len(raw) && raw[k] == '-' && isDigit(raw[k+1]):
			e := k + 1
			for e < len(raw) && isDigit(raw[e]) {
				e++
			}
			key = &ast.Int{ValuePos: keyPos, Literal: raw[k:e]}
			k = e
		case k < len(raw) && isIdentStartByte(raw[k]):
			e := k
			for e < len(raw) && isIdentByte(raw[e]) {
				e++
			}
			key = &ast.String{ValuePos: keyPos, Raw: raw[k:e], EndPos: keyPos.Advance(e - k)}
			k = e
		}
		if key == nil || k >= len(raw) || raw[k] != ']' {
			p.setTokenError(tok, "invalid array offset in interpolated string")
			return nil, 0, false
		}
		x = &ast.Index{X: x, Lbrack: advancePosition(base, raw[:j]), Index: key, Rbrack: advancePosition(base, raw[:k])}
		j = k + 1
	case strings.HasPrefix(raw[j:], "->") && j+2 < len(raw) && isIdentStartByte(raw[j+2]),
		strings.HasPrefix(raw[j:], "?->") && j+3 < len(raw) && isIdentStartByte(raw[j+3]):
		nullSafe := raw[j] == '?'
		k := j + 2
		if nullSafe {
			k++
		}
		e := k
		for e < len(raw) && isIdentByte(raw[e]) {
			e++
		}
		name := &ast.Identifier{NamePos: advancePosition(base, raw[:k]), Name: raw[k:e]}
		x = &ast.PropertyFetch{X: x, NullSafe: nullSafe, Name: name}
		j = e
	}
	return x, j - start, true
}

func isIdentStartByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentByte(c byte) bool {
	return isIdentStartByte(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
