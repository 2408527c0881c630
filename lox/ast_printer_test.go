package lox

import "testing"

func TestPrintExprHandBuilt(t *testing.T) {
	minus := Token{Type: tokenMinus, Lexeme: "-", Line: 1}
	plus := Token{Type: tokenPlus, Lexeme: "+", Line: 1}

	expr := &BinaryExpr{
		Left: &GroupingExpr{Inner: &BinaryExpr{
			Left:     &LiteralExpr{Value: NewNumber(5)},
			Operator: minus,
			Right: &GroupingExpr{Inner: &BinaryExpr{
				Left:     &LiteralExpr{Value: NewNumber(3)},
				Operator: minus,
				Right:    &LiteralExpr{Value: NewNumber(1.8)},
			}},
		}},
		Operator: plus,
		Right:    &UnaryExpr{Operator: minus, Right: &LiteralExpr{Value: NewNumber(1)}},
	}
	if got := PrintExpr(expr); got != "(+ (group (- 5 (group (- 3 1.8)))) (- 1))" {
		t.Fatalf("unexpected rendering %s", got)
	}
}

func TestPrintExprLiterals(t *testing.T) {
	cases := map[string]string{
		"nil":    "nil",
		"true":   "true",
		"false":  "false",
		"\"s\"":  "s",
		"12.50":  "12.5",
		"!a":     "(! a)",
		"a(b)()": "(call (call a b))",
	}
	for source, want := range cases {
		if got := PrintExpr(parseExpr(t, source)); got != want {
			t.Fatalf("%s: expected %s, got %s", source, want, got)
		}
	}
}
