// Package token defines PHP keywords and tokens used when lexing source code.
package token

import "strings"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	EOF     Type = "EOF"
	ILLEGAL Type = "ILLEGAL"

	// Markup and tags
	INLINE_HTML    Type = "INLINE_HTML"
	OPEN_TAG_ECHO  Type = "<?="
	CLOSE_TAG      Type = "?>"
	HALT_COMPILER  Type = "__HALT_COMPILER"
	HALT_REMAINDER Type = "HALT_REMAINDER"

	// Names and literals
	IDENT                Type = "IDENT"
	NAME_QUALIFIED       Type = "NAME_QUALIFIED"       // Foo\Bar
	NAME_FULLY_QUALIFIED Type = "NAME_FULLY_QUALIFIED" // \Foo\Bar
	NAME_RELATIVE        Type = "NAME_RELATIVE"        // namespace\Foo
	VARIABLE             Type = "VARIABLE"             // $name
	INT                  Type = "INT"
	FLOAT                Type = "FLOAT"
	STRING               Type = "STRING"      // '...'
	STRING_DQ            Type = "STRING_DQ"   // "..."
	HEREDOC              Type = "HEREDOC"     // <<<EOT
	NOWDOC               Type = "NOWDOC"      // <<<'EOT'
	SHELL_EXEC           Type = "SHELL_EXEC"  // `...`
	CAST                 Type = "CAST"        // (int), (string), ...
	MAGIC_CONST          Type = "MAGIC_CONST" // __LINE__, __DIR__, ...
	NS_SEPARATOR         Type = "\\"

	// Operators
	ASSIGN          Type = "="
	PLUS            Type = "+"
	MINUS           Type = "-"
	ASTERISK        Type = "*"
	SLASH           Type = "/"
	MOD             Type = "%"
	POW             Type = "**"
	CONCAT          Type = "."
	PLUS_EQUALS     Type = "+="
	MINUS_EQUALS    Type = "-="
	ASTERISK_EQUALS Type = "*="
	SLASH_EQUALS    Type = "/="
	MOD_EQUALS      Type = "%="
	POW_EQUALS      Type = "**="
	CONCAT_EQUALS   Type = ".="
	AND_EQUALS      Type = "&="
	OR_EQUALS       Type = "|="
	XOR_EQUALS      Type = "^="
	SHL_EQUALS      Type = "<<="
	SHR_EQUALS      Type = ">>="
	COALESCE_EQUALS Type = "??="
	EQ              Type = "=="
	IDENTICAL       Type = "==="
	NOT_EQ          Type = "!="
	NOT_IDENTICAL   Type = "!=="
	LT              Type = "<"
	GT              Type = ">"
	LT_EQUALS       Type = "<="
	GT_EQUALS       Type = ">="
	SPACESHIP       Type = "<=>"
	AND             Type = "&&"
	OR              Type = "||"
	BANG            Type = "!"
	AMPERSAND       Type = "&"
	PIPE            Type = "|"
	CARET           Type = "^"
	TILDE           Type = "~"
	SHL             Type = "<<"
	SHR             Type = ">>"
	COALESCE        Type = "??"
	QUESTION        Type = "?"
	COLON           Type = ":"
	DOUBLE_COLON    Type = "::"
	ARROW           Type = "->"
	NULLSAFE_ARROW  Type = "?->"
	DOUBLE_ARROW    Type = "=>"
	PLUS_PLUS       Type = "++"
	MINUS_MINUS     Type = "--"
	AT              Type = "@"
	ELLIPSIS        Type = "..."
	DOLLAR          Type = "$"

	// Delimiters
	COMMA     Type = ","
	SEMICOLON Type = ";"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACKET  Type = "["
	RBRACKET  Type = "]"
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	// DOLLAR_LBRACE is "${" outside of strings.
	DOLLAR_LBRACE Type = "${"

	// Keywords
	ABSTRACT     Type = "ABSTRACT"
	ARRAY        Type = "ARRAY"
	AS           Type = "AS"
	BREAK        Type = "BREAK"
	CASE         Type = "CASE"
	CATCH        Type = "CATCH"
	CLASS        Type = "CLASS"
	CLONE        Type = "CLONE"
	CONST        Type = "CONST"
	CONTINUE     Type = "CONTINUE"
	DECLARE      Type = "DECLARE"
	DEFAULT      Type = "DEFAULT"
	DO           Type = "DO"
	ECHO         Type = "ECHO"
	ELSE         Type = "ELSE"
	ELSEIF       Type = "ELSEIF"
	EMPTY        Type = "EMPTY"
	ENUM         Type = "ENUM"
	EVAL         Type = "EVAL"
	EXIT         Type = "EXIT"
	EXTENDS      Type = "EXTENDS"
	FINAL        Type = "FINAL"
	FINALLY      Type = "FINALLY"
	FN           Type = "FN"
	FOR          Type = "FOR"
	FOREACH      Type = "FOREACH"
	FUNCTION     Type = "FUNCTION"
	GLOBAL       Type = "GLOBAL"
	GOTO         Type = "GOTO"
	IF           Type = "IF"
	IMPLEMENTS   Type = "IMPLEMENTS"
	INCLUDE      Type = "INCLUDE"
	INCLUDE_ONCE Type = "INCLUDE_ONCE"
	INSTANCEOF   Type = "INSTANCEOF"
	INSTEADOF    Type = "INSTEADOF"
	INTERFACE    Type = "INTERFACE"
	ISSET        Type = "ISSET"
	LIST         Type = "LIST"
	LOGICAL_AND  Type = "and"
	LOGICAL_OR   Type = "or"
	LOGICAL_XOR  Type = "xor"
	MATCH        Type = "MATCH"
	NAMESPACE    Type = "NAMESPACE"
	NEW          Type = "NEW"
	PRINT        Type = "PRINT"
	PRIVATE      Type = "PRIVATE"
	PROTECTED    Type = "PROTECTED"
	PUBLIC       Type = "PUBLIC"
	READONLY     Type = "READONLY"
	REQUIRE      Type = "REQUIRE"
	REQUIRE_ONCE Type = "REQUIRE_ONCE"
	RETURN       Type = "RETURN"
	STATIC       Type = "STATIC"
	SWITCH       Type = "SWITCH"
	THROW        Type = "THROW"
	TRAIT        Type = "TRAIT"
	TRY          Type = "TRY"
	UNSET        Type = "UNSET"
	USE          Type = "USE"
	VAR          Type = "VAR"
	WHILE        Type = "WHILE"
	YIELD        Type = "YIELD"
	YIELD_FROM   Type = "YIELD_FROM"
	ENDIF        Type = "ENDIF"
	ENDWHILE     Type = "ENDWHILE"
	ENDFOR       Type = "ENDFOR"
	ENDFOREACH   Type = "ENDFOREACH"
	ENDSWITCH    Type = "ENDSWITCH"
	ENDDECLARE   Type = "ENDDECLARE"
)

// Reserved keywords. PHP keywords are case-insensitive, so lookups are made
// against the lowercased identifier.
var keywords = map[string]Type{
	"abstract":        ABSTRACT,
	"and":             LOGICAL_AND,
	"array":           ARRAY,
	"as":              AS,
	"break":           BREAK,
	"case":            CASE,
	"catch":           CATCH,
	"class":           CLASS,
	"clone":           CLONE,
	"const":           CONST,
	"continue":        CONTINUE,
	"declare":         DECLARE,
	"default":         DEFAULT,
	"die":             EXIT,
	"do":              DO,
	"echo":            ECHO,
	"else":            ELSE,
	"elseif":          ELSEIF,
	"empty":           EMPTY,
	"enddeclare":      ENDDECLARE,
	"endfor":          ENDFOR,
	"endforeach":      ENDFOREACH,
	"endif":           ENDIF,
	"endswitch":       ENDSWITCH,
	"endwhile":        ENDWHILE,
	"enum":            ENUM,
	"eval":            EVAL,
	"exit":            EXIT,
	"extends":         EXTENDS,
	"final":           FINAL,
	"finally":         FINALLY,
	"fn":              FN,
	"for":             FOR,
	"foreach":         FOREACH,
	"function":        FUNCTION,
	"global":          GLOBAL,
	"goto":            GOTO,
	"if":              IF,
	"implements":      IMPLEMENTS,
	"include":         INCLUDE,
	"include_once":    INCLUDE_ONCE,
	"instanceof":      INSTANCEOF,
	"insteadof":       INSTEADOF,
	"interface":       INTERFACE,
	"isset":           ISSET,
	"list":            LIST,
	"match":           MATCH,
	"namespace":       NAMESPACE,
	"new":             NEW,
	"or":              LOGICAL_OR,
	"print":           PRINT,
	"private":         PRIVATE,
	"protected":       PROTECTED,
	"public":          PUBLIC,
	"readonly":        READONLY,
	"require":         REQUIRE,
	"require_once":    REQUIRE_ONCE,
	"return":          RETURN,
	"static":          STATIC,
	"switch":          SWITCH,
	"throw":           THROW,
	"trait":           TRAIT,
	"try":             TRY,
	"unset":           UNSET,
	"use":             USE,
	"var":             VAR,
	"while":           WHILE,
	"xor":             LOGICAL_XOR,
	"yield":           YIELD,
	"__halt_compiler": HALT_COMPILER,
}

var magicConstants = map[string]bool{
	"__line__":      true,
	"__file__":      true,
	"__dir__":       true,
	"__function__":  true,
	"__class__":     true,
	"__trait__":     true,
	"__method__":    true,
	"__namespace__": true,
}

// casts maps the lowercased name inside a cast to its canonical spelling.
var casts = map[string]string{
	"int":     "int",
	"integer": "int",
	"bool":    "bool",
	"boolean": "bool",
	"float":   "float",
	"double":  "float",
	"real":    "float",
	"string":  "string",
	"binary":  "string",
	"array":   "array",
	"object":  "object",
	"unset":   "unset",
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	lower := strings.ToLower(identifier)
	if tok, ok := keywords[lower]; ok {
		return tok
	}
	if magicConstants[lower] {
		return MAGIC_CONST
	}
	return IDENT
}

// LookupCast returns the canonical cast type for the given name, which is
// the text found between the parentheses of a cast expression.
func LookupCast(name string) (string, bool) {
	c, ok := casts[strings.ToLower(name)]
	return c, ok
}

// IsSemiReserved reports whether the token type is a keyword that PHP
// accepts as a member name, for example after "->" or "::".
func IsSemiReserved(t Type) bool {
	if t == IDENT || t == MAGIC_CONST {
		return true
	}
	for _, kw := range keywords {
		if kw == t {
			return true
		}
	}
	return false
}
