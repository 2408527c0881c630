package lox

import (
	"fmt"
	"strings"
)

// PrintExpr renders expr in fully parenthesized prefix form, for example
// "(+ (group (- 5 (group (- 3 1.8)))) (- 1))".
func PrintExpr(expr Expression) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		if e.Value.Kind() == KindBool {
			return strings.ToLower(e.Value.String())
		}
		return e.Value.String()
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return parenthesize("=", e.Name.Lexeme, PrintExpr(e.Value))
	case *UnaryExpr:
		return parenthesize(e.Operator.Lexeme, PrintExpr(e.Right))
	case *BinaryExpr:
		return parenthesize(e.Operator.Lexeme, PrintExpr(e.Left), PrintExpr(e.Right))
	case *LogicalExpr:
		return parenthesize(e.Operator.Lexeme, PrintExpr(e.Left), PrintExpr(e.Right))
	case *GroupingExpr:
		return parenthesize("group", PrintExpr(e.Inner))
	case *CallExpr:
		parts := []string{PrintExpr(e.Callee)}
		for _, arg := range e.Arguments {
			parts = append(parts, PrintExpr(arg))
		}
		return parenthesize("call", parts...)
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}

// PrintProgram renders each statement on its own line.
func PrintProgram(statements []Statement) string {
	var b strings.Builder
	for _, stmt := range statements {
		b.WriteString(printStmt(stmt))
		b.WriteString("\n")
	}
	return b.String()
}

func printStmt(stmt Statement) string {
	switch s := stmt.(type) {
	case *ExprStmt:
		return parenthesize(";", PrintExpr(s.Expr))
	case *PrintStmt:
		return parenthesize("print", PrintExpr(s.Expr))
	case *VarStmt:
		if s.Initializer == nil {
			return parenthesize("var", s.Name.Lexeme)
		}
		return parenthesize("var", s.Name.Lexeme, PrintExpr(s.Initializer))
	case *BlockStmt:
		return parenthesize("block", printStmts(s.Statements)...)
	case *IfStmt:
		if s.Else == nil {
			return parenthesize("if", PrintExpr(s.Condition), printStmt(s.Then))
		}
		return parenthesize("if", PrintExpr(s.Condition), printStmt(s.Then), printStmt(s.Else))
	case *WhileStmt:
		return parenthesize("while", PrintExpr(s.Condition), printStmt(s.Body))
	case *FunctionStmt:
		params := make([]string, len(s.Params))
		for i, param := range s.Params {
			params[i] = param.Lexeme
		}
		parts := append([]string{s.Name.Lexeme, "(" + strings.Join(params, " ") + ")"}, printStmts(s.Body)...)
		return parenthesize("fun", parts...)
	case *ReturnStmt:
		if s.Value == nil {
			return "(return)"
		}
		return parenthesize("return", PrintExpr(s.Value))
	default:
		return fmt.Sprintf("<%T>", stmt)
	}
}

func printStmts(statements []Statement) []string {
	out := make([]string, len(statements))
	for i, stmt := range statements {
		out[i] = printStmt(stmt)
	}
	return out
}

func parenthesize(name string, parts ...string) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, part := range parts {
		b.WriteString(" ")
		b.WriteString(part)
	}
	b.WriteString(")")
	return b.String()
}
