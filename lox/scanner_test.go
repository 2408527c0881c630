package lox

import (
	"reflect"
	"strings"
	"testing"
)

func scanClean(t *testing.T, source string) []Token {
	t.Helper()
	diag := NewDiagnostics(nil)
	tokens, hadError := Scan(source, diag)
	if hadError || diag.HadError() {
		t.Fatalf("unexpected scan errors: %v", diag.Entries())
	}
	// Offsets are checked by TestScanRecordsOffsets.
	for i := range tokens {
		tokens[i].Offset = 0
	}
	return tokens
}

func TestTokenEqualityIsStructural(t *testing.T) {
	a := []Token{{Type: tokenIdentifier, Lexeme: "andy", Literal: "andy", Line: 1}, {Type: tokenEOF, Line: 1}}
	b := []Token{{Type: tokenIdentifier, Lexeme: "andy", Literal: "andy", Line: 1}, {Type: tokenEOF, Line: 1}}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected equal token lists")
	}
	if a[0] != b[0] {
		t.Fatalf("expected equal tokens")
	}

	c := []Token{{Type: tokenIdentifier, Lexeme: "andy", Literal: "andy", Line: 1}, {Type: tokenEOF, Line: 0}}
	if reflect.DeepEqual(a, c) {
		t.Fatalf("tokens differing by line should not be equal")
	}
}

func TestScanEmptySource(t *testing.T) {
	tokens := scanClean(t, "")
	want := []Token{{Type: tokenEOF, Line: 1}}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestScanIdentifiers(t *testing.T) {
	source := "andy formless fo _ _123 _abc ab123\nabcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890_"
	long := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890_"
	want := []Token{
		{Type: tokenIdentifier, Lexeme: "andy", Literal: "andy", Line: 1},
		{Type: tokenIdentifier, Lexeme: "formless", Literal: "formless", Line: 1},
		{Type: tokenIdentifier, Lexeme: "fo", Literal: "fo", Line: 1},
		{Type: tokenIdentifier, Lexeme: "_", Literal: "_", Line: 1},
		{Type: tokenIdentifier, Lexeme: "_123", Literal: "_123", Line: 1},
		{Type: tokenIdentifier, Lexeme: "_abc", Literal: "_abc", Line: 1},
		{Type: tokenIdentifier, Lexeme: "ab123", Literal: "ab123", Line: 1},
		{Type: tokenIdentifier, Lexeme: long, Literal: long, Line: 2},
		{Type: tokenEOF, Line: 2},
	}
	if got := scanClean(t, source); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens:\n got %v\nwant %v", got, want)
	}
}

func TestScanKeywords(t *testing.T) {
	source := strings.Join(Keywords(), " ")
	tokens := scanClean(t, source)
	if len(tokens) != len(Keywords())+1 {
		t.Fatalf("expected %d tokens, got %d", len(Keywords())+1, len(tokens))
	}
	for i, word := range Keywords() {
		tok := tokens[i]
		if tok.Type != keywords[word] {
			t.Fatalf("keyword %q scanned as %s", word, tok.Type)
		}
		if tok.Lexeme != word || tok.Literal != word {
			t.Fatalf("unexpected keyword token %#v", tok)
		}
	}
	if len(keywords) != 16 {
		t.Fatalf("expected 16 keywords, got %d", len(keywords))
	}
}

func TestScanNumbers(t *testing.T) {
	want := []Token{
		{Type: tokenNumber, Lexeme: "123", Literal: 123.0, Line: 1},
		{Type: tokenNumber, Lexeme: "123.456", Literal: 123.456, Line: 1},
		{Type: tokenDot, Lexeme: ".", Line: 1},
		{Type: tokenNumber, Lexeme: "456", Literal: 456.0, Line: 1},
		{Type: tokenNumber, Lexeme: "123", Literal: 123.0, Line: 1},
		{Type: tokenDot, Lexeme: ".", Line: 1},
		{Type: tokenEOF, Line: 1},
	}
	if got := scanClean(t, "123 123.456 .456 123."); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens:\n got %v\nwant %v", got, want)
	}
}

func TestScanPunctuators(t *testing.T) {
	tokens := scanClean(t, "(){};,+-*!===<=>=!=<>/.")
	want := []TokenType{
		tokenLeftParen, tokenRightParen, tokenLeftBrace, tokenRightBrace,
		tokenSemicolon, tokenComma, tokenPlus, tokenMinus, tokenStar,
		tokenBangEqual, tokenEqualEqual, tokenLessEqual, tokenGreaterEqual,
		tokenBangEqual, tokenLess, tokenGreater, tokenSlash, tokenDot, tokenEOF,
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Fatalf("token %d: expected %s, got %s", i, tt, tokens[i].Type)
		}
		if tokens[i].Literal != nil {
			t.Fatalf("punctuator %s should carry no literal", tokens[i].Type)
		}
	}
	if tokens[9].Lexeme != "!=" || tokens[10].Lexeme != "==" {
		t.Fatalf("unexpected two-character lexemes %q %q", tokens[9].Lexeme, tokens[10].Lexeme)
	}
}

func TestScanStringsSpanLines(t *testing.T) {
	tokens := scanClean(t, "\"one\ntwo\" x")
	if tokens[0].Type != tokenString || tokens[0].Literal != "one\ntwo" {
		t.Fatalf("unexpected string token %#v", tokens[0])
	}
	if tokens[0].Lexeme != "\"one\ntwo\"" {
		t.Fatalf("unexpected lexeme %q", tokens[0].Lexeme)
	}
	if tokens[1].Line != 2 {
		t.Fatalf("expected identifier on line 2, got %d", tokens[1].Line)
	}
}

func TestScanCommentsAndWhitespace(t *testing.T) {
	tokens := scanClean(t, "// nothing here\n\t a \r// trailing")
	want := []Token{
		{Type: tokenIdentifier, Lexeme: "a", Literal: "a", Line: 2},
		{Type: tokenEOF, Line: 2},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("unexpected tokens %v", tokens)
	}
}

func TestScanUnexpectedCharacterContinues(t *testing.T) {
	diag := NewDiagnostics(nil)
	tokens, hadError := Scan("|", diag)
	if !hadError || !diag.HadError() {
		t.Fatalf("expected scan error")
	}
	if len(tokens) != 1 || tokens[0].Type != tokenEOF {
		t.Fatalf("expected only EOF, got %v", tokens)
	}

	diag.Reset()
	tokens, _ = Scan("a @ b", diag)
	if len(tokens) != 3 || tokens[1].Lexeme != "b" {
		t.Fatalf("scanning should continue after an error, got %v", tokens)
	}
	entries := diag.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "Unexpected character '@'") {
		t.Fatalf("unexpected diagnostics %v", entries)
	}
}

func TestScanUnterminatedStringReportsStartLine(t *testing.T) {
	diag := NewDiagnostics(nil)
	tokens, hadError := Scan("var a;\n\"abc\ndef", diag)
	if !hadError {
		t.Fatalf("expected unterminated string error")
	}
	last := tokens[len(tokens)-1]
	if last.Type != tokenEOF || last.Line != 3 {
		t.Fatalf("expected EOF on line 3, got %#v", last)
	}
	for _, tok := range tokens {
		if tok.Type == tokenString {
			t.Fatalf("unterminated string should not produce a token")
		}
	}
	entries := diag.Entries()
	if len(entries) != 1 || entries[0].Line != 2 || entries[0].Message != "Unterminated string." {
		t.Fatalf("unexpected diagnostics %v", entries)
	}
}

func TestScanRecordsOffsets(t *testing.T) {
	source := "a = a +\n  \"s\" @;"
	diag := NewDiagnostics(nil)
	tokens, _ := Scan(source, diag)
	want := map[int]int{0: 0, 1: 2, 2: 4, 3: 6, 4: 10, 5: 15, 6: 16}
	if len(tokens) != len(want) {
		t.Fatalf("unexpected tokens %v", tokens)
	}
	for i, offset := range want {
		if tokens[i].Offset != offset {
			t.Fatalf("token %d (%s): expected offset %d, got %d", i, tokens[i], offset, tokens[i].Offset)
		}
	}
	entries := diag.Entries()
	if len(entries) != 1 || entries[0].Offset != 14 {
		t.Fatalf("expected scan error at offset 14, got %v", entries)
	}
}
