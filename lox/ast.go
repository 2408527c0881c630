package lox

type Node interface {
	Line() int
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

type LiteralExpr struct {
	Value Value
	line  int
}

func (e *LiteralExpr) exprNode() {}
func (e *LiteralExpr) Line() int { return e.line }

type VariableExpr struct {
	Name Token
}

func (e *VariableExpr) exprNode() {}
func (e *VariableExpr) Line() int { return e.Name.Line }

type AssignExpr struct {
	Name  Token
	Value Expression
}

func (e *AssignExpr) exprNode() {}
func (e *AssignExpr) Line() int { return e.Name.Line }

type UnaryExpr struct {
	Operator Token
	Right    Expression
}

func (e *UnaryExpr) exprNode() {}
func (e *UnaryExpr) Line() int { return e.Operator.Line }

type BinaryExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *BinaryExpr) exprNode() {}
func (e *BinaryExpr) Line() int { return e.Operator.Line }

// LogicalExpr is a short-circuiting and/or.
type LogicalExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *LogicalExpr) exprNode() {}
func (e *LogicalExpr) Line() int { return e.Operator.Line }

type GroupingExpr struct {
	Inner Expression
}

func (e *GroupingExpr) exprNode() {}
func (e *GroupingExpr) Line() int { return e.Inner.Line() }

// CallExpr keeps the closing paren so call errors can be reported at it.
type CallExpr struct {
	Callee    Expression
	Paren     Token
	Arguments []Expression
}

func (e *CallExpr) exprNode() {}
func (e *CallExpr) Line() int { return e.Paren.Line }

type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) stmtNode() {}
func (s *ExprStmt) Line() int { return s.Expr.Line() }

type PrintStmt struct {
	Expr    Expression
	Keyword Token
}

func (s *PrintStmt) stmtNode() {}
func (s *PrintStmt) Line() int { return s.Keyword.Line }

// VarStmt declares Name. Initializer is nil only for nodes built outside the parser.
type VarStmt struct {
	Name        Token
	Initializer Expression
}

func (s *VarStmt) stmtNode() {}
func (s *VarStmt) Line() int { return s.Name.Line }

type BlockStmt struct {
	Statements []Statement
	line       int
}

func (s *BlockStmt) stmtNode() {}
func (s *BlockStmt) Line() int { return s.line }

type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement
	line      int
}

func (s *IfStmt) stmtNode() {}
func (s *IfStmt) Line() int { return s.line }

type WhileStmt struct {
	Condition Expression
	Body      Statement
	line      int
}

func (s *WhileStmt) stmtNode() {}
func (s *WhileStmt) Line() int { return s.line }

type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Statement
}

func (s *FunctionStmt) stmtNode() {}
func (s *FunctionStmt) Line() int { return s.Name.Line }

type ReturnStmt struct {
	Keyword Token
	Value   Expression
}

func (s *ReturnStmt) stmtNode() {}
func (s *ReturnStmt) Line() int { return s.Keyword.Line }
