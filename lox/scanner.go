package lox

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

type scanner struct {
	input  string
	diag   *Diagnostics
	tokens []Token

	start   int
	current int
	line    int

	hadError bool
}

// Scan converts source text into tokens. It always completes, reporting scan
// errors to diag, and the returned slice always ends with a single EOF token.
// The bool result reports whether this call produced any scan error.
func Scan(source string, diag *Diagnostics) ([]Token, bool) {
	s := newScanner(source, diag)
	return s.scanTokens(), s.hadError
}

func newScanner(input string, diag *Diagnostics) *scanner {
	if diag == nil {
		diag = NewDiagnostics(nil)
	}
	return &scanner{input: input, diag: diag, line: 1}
}

func (s *scanner) scanTokens() []Token {
	for !s.atEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: tokenEOF, Line: s.line, Offset: len(s.input)})
	return s.tokens
}

func (s *scanner) scanToken() {
	ch := s.advance()
	switch ch {
	case '(':
		s.addToken(tokenLeftParen)
	case ')':
		s.addToken(tokenRightParen)
	case '{':
		s.addToken(tokenLeftBrace)
	case '}':
		s.addToken(tokenRightBrace)
	case ',':
		s.addToken(tokenComma)
	case '.':
		s.addToken(tokenDot)
	case '-':
		s.addToken(tokenMinus)
	case '+':
		s.addToken(tokenPlus)
	case ';':
		s.addToken(tokenSemicolon)
	case '*':
		s.addToken(tokenStar)
	case '!':
		s.addToken(s.pick('=', tokenBangEqual, tokenBang))
	case '=':
		s.addToken(s.pick('=', tokenEqualEqual, tokenEqual))
	case '<':
		s.addToken(s.pick('=', tokenLessEqual, tokenLess))
	case '>':
		s.addToken(s.pick('=', tokenGreaterEqual, tokenGreater))
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
			return
		}
		s.addToken(tokenSlash)
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.readString()
	default:
		switch {
		case isDigit(ch):
			s.readNumber()
		case isAlpha(ch):
			s.readIdentifier()
		default:
			s.unexpected()
		}
	}
}

func (s *scanner) unexpected() {
	// Report whole runes so multi-byte input produces one error, not one per byte.
	r, width := utf8.DecodeRuneInString(s.input[s.start:])
	if width > 1 {
		s.current = s.start + width
	}
	s.error(s.line, fmt.Sprintf("Unexpected character '%c'.", r))
}

func (s *scanner) readString() {
	startLine := s.line
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		s.error(startLine, "Unterminated string.")
		return
	}
	s.advance()
	s.addLiteral(tokenString, s.input[s.start+1:s.current-1])
}

func (s *scanner) readNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, err := strconv.ParseFloat(s.input[s.start:s.current], 64)
	if err != nil {
		s.error(s.line, fmt.Sprintf("Invalid number '%s'.", s.input[s.start:s.current]))
		return
	}
	s.addLiteral(tokenNumber, value)
}

func (s *scanner) readIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.input[s.start:s.current]
	tt, ok := keywords[text]
	if !ok {
		tt = tokenIdentifier
	}
	s.addLiteral(tt, text)
}

func (s *scanner) addToken(tt TokenType) {
	s.addLiteral(tt, nil)
}

func (s *scanner) addLiteral(tt TokenType, literal any) {
	s.tokens = append(s.tokens, Token{
		Type:    tt,
		Lexeme:  s.input[s.start:s.current],
		Literal: literal,
		Line:    s.line,
		Offset:  s.start,
	})
}

func (s *scanner) error(line int, message string) {
	s.hadError = true
	s.diag.record(Diagnostic{Kind: DiagnosticScan, Line: line, Offset: s.start, Message: message})
}

func (s *scanner) atEnd() bool {
	return s.current >= len(s.input)
}

func (s *scanner) advance() byte {
	ch := s.input[s.current]
	s.current++
	return ch
}

func (s *scanner) match(expected byte) bool {
	if s.atEnd() || s.input[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *scanner) pick(next byte, ifMatch, otherwise TokenType) TokenType {
	if s.match(next) {
		return ifMatch
	}
	return otherwise
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.input[s.current]
}

func (s *scanner) peekNext() byte {
	if s.current+1 >= len(s.input) {
		return 0
	}
	return s.input[s.current+1]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}
