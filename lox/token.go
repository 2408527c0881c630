package lox

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenLeftParen  TokenType = "LEFT_PAREN"
	tokenRightParen TokenType = "RIGHT_PAREN"
	tokenLeftBrace  TokenType = "LEFT_BRACE"
	tokenRightBrace TokenType = "RIGHT_BRACE"
	tokenComma      TokenType = "COMMA"
	tokenDot        TokenType = "DOT"
	tokenMinus      TokenType = "MINUS"
	tokenPlus       TokenType = "PLUS"
	tokenSemicolon  TokenType = "SEMICOLON"
	tokenSlash      TokenType = "SLASH"
	tokenStar       TokenType = "STAR"

	tokenBang         TokenType = "BANG"
	tokenBangEqual    TokenType = "BANG_EQUAL"
	tokenEqual        TokenType = "EQUAL"
	tokenEqualEqual   TokenType = "EQUAL_EQUAL"
	tokenGreater      TokenType = "GREATER"
	tokenGreaterEqual TokenType = "GREATER_EQUAL"
	tokenLess         TokenType = "LESS"
	tokenLessEqual    TokenType = "LESS_EQUAL"

	tokenIdentifier TokenType = "IDENTIFIER"
	tokenString     TokenType = "STRING"
	tokenNumber     TokenType = "NUMBER"

	tokenAnd    TokenType = "AND"
	tokenClass  TokenType = "CLASS"
	tokenElse   TokenType = "ELSE"
	tokenFalse  TokenType = "FALSE"
	tokenFun    TokenType = "FUN"
	tokenFor    TokenType = "FOR"
	tokenIf     TokenType = "IF"
	tokenNil    TokenType = "NIL"
	tokenOr     TokenType = "OR"
	tokenPrint  TokenType = "PRINT"
	tokenReturn TokenType = "RETURN"
	tokenSuper  TokenType = "SUPER"
	tokenThis   TokenType = "THIS"
	tokenTrue   TokenType = "TRUE"
	tokenVar    TokenType = "VAR"
	tokenWhile  TokenType = "WHILE"

	tokenEOF TokenType = "EOF"
)

var keywords = map[string]TokenType{
	"and":    tokenAnd,
	"class":  tokenClass,
	"else":   tokenElse,
	"false":  tokenFalse,
	"for":    tokenFor,
	"fun":    tokenFun,
	"if":     tokenIf,
	"nil":    tokenNil,
	"or":     tokenOr,
	"print":  tokenPrint,
	"return": tokenReturn,
	"super":  tokenSuper,
	"this":   tokenThis,
	"true":   tokenTrue,
	"var":    tokenVar,
	"while":  tokenWhile,
}

// Keywords returns the reserved words in alphabetical order.
func Keywords() []string {
	return []string{
		"and", "class", "else", "false", "for", "fun", "if", "nil",
		"or", "print", "return", "super", "this", "true", "var", "while",
	}
}

// Token captures one lexical unit. Literal holds a float64, string, bool or nil.
// Tokens are compared structurally with ==.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
	// Offset is the byte offset of Lexeme in the scanned source, or -1 for a
	// token that was not scanned.
	Offset int
}

func (t Token) String() string {
	switch t.Type {
	case tokenString, tokenNumber:
		return fmt.Sprintf("%s %s %v", t.Type, t.Lexeme, t.Literal)
	default:
		return fmt.Sprintf("%s %s", t.Type, t.Lexeme)
	}
}

// IsEOF reports whether the token marks the end of input.
func (t Token) IsEOF() bool { return t.Type == tokenEOF }
