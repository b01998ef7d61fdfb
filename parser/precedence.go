package parser

import "github.com/risor-io/phpsandbox/internal/token"

// Precedence order for operators, lowest first. This follows the PHP 8
// operator precedence table.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // or
	LOGICAL_XOR // xor
	LOGICAL_AND // and
	PRINT       // print
	YIELD       // yield, yield from
	ASSIGN      // = += -= ...
	TERNARY     // ? :
	COALESCE    // ??
	BOOL_OR     // ||
	BOOL_AND    // &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALITY    // == != === !== <=>
	COMPARE     // < <= > >=
	CONCAT      // .
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	BANG        // !
	INSTANCEOF  // instanceof
	PREFIX      // -X, casts, @, ++X
	POWER       // **
	CALL        // f(x), $a[i], $a->b, A::b, X++
	HIGHEST
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.LOGICAL_OR:      LOGICAL_OR,
	token.LOGICAL_XOR:     LOGICAL_XOR,
	token.LOGICAL_AND:     LOGICAL_AND,
	token.ASSIGN:          ASSIGN,
	token.PLUS_EQUALS:     ASSIGN,
	token.MINUS_EQUALS:    ASSIGN,
	token.ASTERISK_EQUALS: ASSIGN,
	token.SLASH_EQUALS:    ASSIGN,
	token.MOD_EQUALS:      ASSIGN,
	token.POW_EQUALS:      ASSIGN,
	token.CONCAT_EQUALS:   ASSIGN,
	token.AND_EQUALS:      ASSIGN,
	token.OR_EQUALS:       ASSIGN,
	token.XOR_EQUALS:      ASSIGN,
	token.SHL_EQUALS:      ASSIGN,
	token.SHR_EQUALS:      ASSIGN,
	token.COALESCE_EQUALS: ASSIGN,
	token.QUESTION:        TERNARY,
	token.COALESCE:        COALESCE,
	token.OR:              BOOL_OR,
	token.AND:             BOOL_AND,
	token.PIPE:            BIT_OR,
	token.CARET:           BIT_XOR,
	token.AMPERSAND:       BIT_AND,
	token.EQ:              EQUALITY,
	token.NOT_EQ:          EQUALITY,
	token.IDENTICAL:       EQUALITY,
	token.NOT_IDENTICAL:   EQUALITY,
	token.SPACESHIP:       EQUALITY,
	token.LT:              COMPARE,
	token.LT_EQUALS:       COMPARE,
	token.GT:              COMPARE,
	token.GT_EQUALS:       COMPARE,
	token.CONCAT:          CONCAT,
	token.SHL:             SHIFT,
	token.SHR:             SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.MOD:             PRODUCT,
	token.INSTANCEOF:      INSTANCEOF,
	token.POW:             POWER,
	token.LPAREN:          CALL,
	token.LBRACKET:        CALL,
	token.ARROW:           CALL,
	token.NULLSAFE_ARROW:  CALL,
	token.DOUBLE_COLON:    CALL,
	token.PLUS_PLUS:       CALL,
	token.MINUS_MINUS:     CALL,
}

// assignOps holds the assignment operators.
var assignOps = map[token.Type]bool{
	token.ASSIGN:          true,
	token.PLUS_EQUALS:     true,
	token.MINUS_EQUALS:    true,
	token.ASTERISK_EQUALS: true,
	token.SLASH_EQUALS:    true,
	token.MOD_EQUALS:      true,
	token.POW_EQUALS:      true,
	token.CONCAT_EQUALS:   true,
	token.AND_EQUALS:      true,
	token.OR_EQUALS:       true,
	token.XOR_EQUALS:      true,
	token.SHL_EQUALS:      true,
	token.SHR_EQUALS:      true,
	token.COALESCE_EQUALS: true,
}

// rightAssociative operators parse their right operand one level lower.
var rightAssociative = map[token.Type]bool{
	token.POW:      true,
	token.COALESCE: true,
}
