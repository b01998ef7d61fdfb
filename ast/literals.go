package ast

import "github.com/risor-io/phpsandbox/internal/token"

// Int is an integer literal. Literal is the source spelling ("0x1F", "1_000").
type Int struct {
	ValuePos token.Position
	Literal  string
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }
func (x *Int) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

// Float is a floating point literal.
type Float struct {
	ValuePos token.Position
	Literal  string
}

func (x *Float) exprNode() {}

func (x *Float) Pos() token.Position { return x.ValuePos }
func (x *Float) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

// String is a string literal without interpolation. Raw is the body in the
// escaping of its quote style: single-quote escaping when Double is false,
// double-quote escaping when Double is true. Heredocs and nowdocs are
// normalized into one of the two styles by the parser.
type String struct {
	ValuePos token.Position
	Raw      string
	Double   bool
	EndPos   token.Position
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.EndPos }

// Value returns the runtime value of the string, with escapes decoded.
func (x *String) Value() string {
	if x.Double {
		return UnescapeDouble(x.Raw)
	}
	return UnescapeSingle(x.Raw)
}

// EncapsedText is a literal run of text inside an interpolated string, in
// double-quote escaping.
type EncapsedText struct {
	TextPos token.Position
	Raw     string
}

func (x *EncapsedText) exprNode() {}

func (x *EncapsedText) Pos() token.Position { return x.TextPos }
func (x *EncapsedText) End() token.Position { return x.TextPos.Advance(len(x.Raw)) }

// InterpolatedString is a double-quoted string or heredoc containing
// variables or expressions. Parts alternate between *EncapsedText and
// arbitrary expressions.
type InterpolatedString struct {
	OpenPos token.Position
	Parts   []Expr
	EndPos  token.Position
}

func (x *InterpolatedString) exprNode() {}

func (x *InterpolatedString) Pos() token.Position { return x.OpenPos }
func (x *InterpolatedString) End() token.Position { return x.EndPos }

// MagicConst is one of __LINE__, __FILE__, __DIR__ and friends.
type MagicConst struct {
	NamePos token.Position
	Name    string
}

func (x *MagicConst) exprNode() {}

func (x *MagicConst) Pos() token.Position { return x.NamePos }
func (x *MagicConst) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

// ArrayStyle records how an array literal was written.
type ArrayStyle int

const (
	ArrayShort ArrayStyle = iota // [1, 2]
	ArrayLong                    // array(1, 2)
	ArrayList                    // list($a, $b)
)

// ArrayItem is one element of an array literal. A nil *ArrayItem inside
// Array.Items is a skipped slot in a destructuring pattern: "[, $b]".
type ArrayItem struct {
	Key    Expr
	Value  Expr
	ByRef  bool
	Spread bool
}

func (x *ArrayItem) Pos() token.Position {
	if x.Key != nil {
		return x.Key.Pos()
	}
	return x.Value.Pos()
}
func (x *ArrayItem) End() token.Position { return x.Value.End() }

// Array is an array literal, or a list() destructuring pattern.
type Array struct {
	Lbrack token.Position
	Style  ArrayStyle
	Items  []*ArrayItem
	Rbrack token.Position
}

func (x *Array) exprNode() {}

func (x *Array) Pos() token.Position { return x.Lbrack }
func (x *Array) End() token.Position { return x.Rbrack.Advance(1) }

// UnescapeSingle decodes the escapes of a single-quoted string body.
func UnescapeSingle(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) && (raw[i+1] == '\\' || raw[i+1] == '\'') {
			out = append(out, raw[i+1])
			i++
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// UnescapeDouble decodes the common escapes of a double-quoted string body.
// Octal, hex and unicode escapes are decoded; unknown escapes are kept
// verbatim, as PHP does.
func UnescapeDouble(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			out = append(out, c)
			continue
		}
		next := raw[i+1]
		switch next {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case 'v':
			out = append(out, '\v')
		case 'e':
			out = append(out, 0x1b)
		case 'f':
			out = append(out, '\f')
		case '\\', '$', '"':
			out = append(out, next)
		case 'x':
			j := i + 2
			for j < len(raw) && j < i+4 && isHex(raw[j]) {
				j++
			}
			if j == i+2 {
				out = append(out, c, next)
				break
			}
			out = append(out, byte(parseUint(raw[i+2:j], 16)))
			i = j - 2
		case 'u':
			end := -1
			if i+2 < len(raw) && raw[i+2] == '{' {
				for j := i + 3; j < len(raw); j++ {
					if raw[j] == '}' {
						end = j
						break
					}
				}
			}
			if end < 0 {
				out = append(out, c, next)
				break
			}
			out = append(out, string(rune(parseUint(raw[i+3:end], 16)))...)
			i = end - 1
		default:
			if next >= '0' && next <= '7' {
				j := i + 1
				for j < len(raw) && j < i+4 && raw[j] >= '0' && raw[j] <= '7' {
					j++
				}
				out = append(out, byte(parseUint(raw[i+1:j], 8)))
				i = j - 2
				break
			}
			out = append(out, c, next)
		}
		i++
	}
	return string(out)
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func parseUint(s string, base uint64) uint64 {
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		}
		n = n*base + d
	}
	return n
}
