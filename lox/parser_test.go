package lox

import (
	"strings"
	"testing"
)

func parseSource(t *testing.T, source string) ([]Statement, *Diagnostics) {
	t.Helper()
	diag := NewDiagnostics(nil)
	tokens, _ := Scan(source, diag)
	return Parse(tokens, diag), diag
}

func parseExpr(t *testing.T, source string) Expression {
	t.Helper()
	statements, diag := parseSource(t, source+";")
	if diag.HadError() {
		t.Fatalf("unexpected parse errors: %v", diag.Entries())
	}
	if len(statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(statements))
	}
	stmt, ok := statements[0].(*ExprStmt)
	if !ok {
		t.Fatalf("expected expression statement, got %T", statements[0])
	}
	return stmt.Expr
}

func TestParsePrecedence(t *testing.T) {
	cases := map[string]string{
		"(5 - (3 - 1.8)) + -1":  "(+ (group (- 5 (group (- 3 1.8)))) (- 1))",
		"1 + 2 * 3":             "(+ 1 (* 2 3))",
		"1 - 2 - 3":             "(- (- 1 2) 3)",
		"!!true":                "(! (! true))",
		"a = b = 3":             "(= a (= b 3))",
		"a or b and c":          "(or a (and b c))",
		"false == 2 < 1":        "(== false (< 2 1))",
		"1 <= 2 != 3 >= 4":      "(!= (<= 1 2) (>= 3 4))",
		"f(1)(2, x)":            "(call (call f 1) 2 x)",
		"-f()":                  "(- (call f))",
		"\"a\" + nil":           "(+ a nil)",
		"1 / -1 * 2":            "(* (/ 1 (- 1)) 2)",
		"x = 1 or 2":            "(= x (or 1 2))",
		"((1))":                 "(group (group 1))",
		"clock() - clock() / 2": "(- (call clock) (/ (call clock) 2))",
	}
	for source, want := range cases {
		if got := PrintExpr(parseExpr(t, source)); got != want {
			t.Fatalf("%s: expected %s, got %s", source, want, got)
		}
	}
}

func TestParseStatements(t *testing.T) {
	source := `var a = 1;
print a;
{ a = 2; }
if (a) print 1; else print 2;
while (false) a;
fun add(x, y) { return x + y; }
fun noop() { return; }
`
	statements, diag := parseSource(t, source)
	if diag.HadError() {
		t.Fatalf("unexpected parse errors: %v", diag.Entries())
	}
	want := `(var a 1)
(print a)
(block (; (= a 2)))
(if a (print 1) (print 2))
(while false (; a))
(fun add (x y) (return (+ x y)))
(fun noop () (return))
`
	if got := PrintProgram(statements); got != want {
		t.Fatalf("unexpected program:\n%s", got)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	statements, diag := parseSource(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if diag.HadError() {
		t.Fatalf("unexpected parse errors: %v", diag.Entries())
	}
	want := "(block (var i 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))\n"
	if got := PrintProgram(statements); got != want {
		t.Fatalf("unexpected desugaring: %s", got)
	}

	statements, _ = parseSource(t, "for (;;) print 1;")
	if got := PrintProgram(statements); got != "(while true (print 1))\n" {
		t.Fatalf("unexpected desugaring for empty clauses: %s", got)
	}
}

func TestParseErrorsRecoverAtStatementBoundary(t *testing.T) {
	statements, diag := parseSource(t, "print 1 +;\nprint 2;\nvar = 3;\nprint 4;")
	if !diag.HadError() {
		t.Fatalf("expected parse errors")
	}
	if len(statements) != 2 {
		t.Fatalf("expected the two valid statements, got %d", len(statements))
	}
	entries := diag.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two diagnostics, got %v", entries)
	}
	if got := entries[0].String(); got != "[line 1] Error at ';': Expect expression." {
		t.Fatalf("unexpected first diagnostic %q", got)
	}
	if got := entries[1].String(); got != "[line 3] Error at '=': Expect variable name." {
		t.Fatalf("unexpected second diagnostic %q", got)
	}
}

func TestParseErrorAtEnd(t *testing.T) {
	_, diag := parseSource(t, "print 1")
	entries := diag.Entries()
	if len(entries) != 1 || entries[0].String() != "[line 1] Error at end: Expect ';' after value." {
		t.Fatalf("unexpected diagnostics %v", entries)
	}
}

func TestParseVarRequiresInitializer(t *testing.T) {
	_, diag := parseSource(t, "var x;")
	entries := diag.Entries()
	if len(entries) != 1 || entries[0].Message != "Expect '=' after variable name." {
		t.Fatalf("unexpected diagnostics %v", entries)
	}
}

func TestParseInvalidAssignmentTargetIsNotFatal(t *testing.T) {
	statements, diag := parseSource(t, "1 = 2; print 3;")
	if !diag.HadError() {
		t.Fatalf("expected parse error")
	}
	if len(statements) != 2 {
		t.Fatalf("parsing should continue past an invalid target, got %d statements", len(statements))
	}
	if msg := diag.Entries()[0].Message; msg != "Invalid assignment target." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestParseArgumentLimit(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}
	statements, diag := parseSource(t, "f("+strings.Join(args, ", ")+");")
	if !diag.HadError() {
		t.Fatalf("expected argument limit error")
	}
	if len(statements) != 1 {
		t.Fatalf("argument limit should not abort the call, got %d statements", len(statements))
	}
	if msg := diag.Entries()[0].Message; msg != "Can't have more than 255 arguments." {
		t.Fatalf("unexpected message %q", msg)
	}

	params := make([]string, 256)
	for i := range params {
		params[i] = "p" + strings.Repeat("x", i%5) + string(rune('a'+i%26))
	}
	_, diag = parseSource(t, "fun f("+strings.Join(params, ", ")+") {}")
	if !diag.HadError() || diag.Entries()[0].Message != "Can't have more than 255 parameters." {
		t.Fatalf("expected parameter limit error, got %v", diag.Entries())
	}
}

func TestParseUnclosedBlock(t *testing.T) {
	_, diag := parseSource(t, "{ print 1;")
	entries := diag.Entries()
	if len(entries) != 1 || entries[0].String() != "[line 1] Error at end: Expect '}' after block." {
		t.Fatalf("unexpected diagnostics %v", entries)
	}
}

func TestParseWithoutEOFToken(t *testing.T) {
	tokens := []Token{
		{Type: tokenPrint, Lexeme: "print", Literal: "print", Line: 1},
		{Type: tokenNumber, Lexeme: "1", Literal: 1.0, Line: 1},
		{Type: tokenSemicolon, Lexeme: ";", Line: 1},
	}
	statements := Parse(tokens, nil)
	if len(statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(statements))
	}
}
