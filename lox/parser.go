package lox

import "fmt"

const maxArguments = 255

// parseError aborts the statement being parsed. It has already been reported
// by the time it is returned.
type parseError struct {
	tok Token
	msg string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error at line %d%s: %s", e.tok.Line, tokenLocation(e.tok), e.msg)
}

type parser struct {
	tokens  []Token
	current int
	diag    *Diagnostics
}

// Parse builds statements from tokens. It is best-effort: malformed
// statements are reported to diag and skipped, and every statement parsed
// around them is still returned.
func Parse(tokens []Token, diag *Diagnostics) []Statement {
	if diag == nil {
		diag = NewDiagnostics(nil)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenEOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(append([]Token(nil), tokens...), Token{Type: tokenEOF, Line: line, Offset: -1})
	}
	p := &parser{tokens: tokens, diag: diag}
	return p.parseProgram()
}

func (p *parser) parseProgram() []Statement {
	statements := []Statement{}
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func (p *parser) declaration() Statement {
	var (
		stmt Statement
		err  error
	)
	switch {
	case p.match(tokenFun):
		stmt, err = p.functionDeclaration()
	case p.match(tokenVar):
		stmt, err = p.varDeclaration()
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *parser) functionDeclaration() (Statement, error) {
	name, err := p.consume(tokenIdentifier, "Expect function name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenLeftParen, "Expect '(' after function name."); err != nil {
		return nil, err
	}

	params := []Token{}
	if !p.check(tokenRightParen) {
		for {
			if len(params) >= maxArguments {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(tokenIdentifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(tokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(tokenRightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenLeftBrace, "Expect '{' before function body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *parser) varDeclaration() (Statement, error) {
	name, err := p.consume(tokenIdentifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenEqual, "Expect '=' after variable name."); err != nil {
		return nil, err
	}
	initializer, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: initializer}, nil
}

func (p *parser) statement() (Statement, error) {
	switch {
	case p.match(tokenIf):
		return p.ifStatement()
	case p.match(tokenWhile):
		return p.whileStatement()
	case p.match(tokenFor):
		return p.forStatement()
	case p.match(tokenPrint):
		return p.printStatement()
	case p.match(tokenReturn):
		return p.returnStatement()
	case p.match(tokenLeftBrace):
		line := p.previous().Line
		statements, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: statements, line: line}, nil
	default:
		return p.expressionStatement()
	}
}

func (p *parser) ifStatement() (Statement, error) {
	line := p.previous().Line
	if _, err := p.consume(tokenLeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenRightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Statement
	if p.match(tokenElse) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch, line: line}, nil
}

func (p *parser) whileStatement() (Statement, error) {
	line := p.previous().Line
	if _, err := p.consume(tokenLeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenRightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: condition, Body: body, line: line}, nil
}

// forStatement desugars for (init; cond; incr) body into
// { init; while (cond) { body; incr } }.
func (p *parser) forStatement() (Statement, error) {
	line := p.previous().Line
	if _, err := p.consume(tokenLeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var (
		initializer Statement
		err         error
	)
	switch {
	case p.match(tokenSemicolon):
	case p.match(tokenVar):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition Expression
	if !p.check(tokenSemicolon) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment Expression
	if !p.check(tokenRightParen) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(tokenRightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &BlockStmt{Statements: []Statement{body, &ExprStmt{Expr: increment}}, line: body.Line()}
	}
	if condition == nil {
		condition = &LiteralExpr{Value: NewBool(true), line: line}
	}
	body = &WhileStmt{Condition: condition, Body: body, line: line}
	if initializer != nil {
		body = &BlockStmt{Statements: []Statement{initializer, body}, line: line}
	}
	return body, nil
}

func (p *parser) printStatement() (Statement, error) {
	keyword := p.previous()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: value, Keyword: keyword}, nil
}

func (p *parser) returnStatement() (Statement, error) {
	keyword := p.previous()
	var (
		value Expression
		err   error
	)
	if !p.check(tokenSemicolon) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *parser) expressionStatement() (Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

// block parses declarations up to and including the closing brace.
func (p *parser) block() ([]Statement, error) {
	statements := []Statement{}
	for !p.check(tokenRightBrace) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if _, err := p.consume(tokenRightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *parser) expression() (Expression, error) {
	return p.assignment()
}

func (p *parser) assignment() (Expression, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(tokenEqual) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if variable, ok := expr.(*VariableExpr); ok {
			return &AssignExpr{Name: variable.Name, Value: value}, nil
		}
		p.errorAt(equals, "Invalid assignment target.")
	}

	return expr, nil
}

func (p *parser) or() (Expression, error) {
	return p.logical(p.and, tokenOr)
}

func (p *parser) and() (Expression, error) {
	return p.logical(p.equality, tokenAnd)
}

func (p *parser) logical(operand func() (Expression, error), operator TokenType) (Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operator) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *parser) equality() (Expression, error) {
	return p.binary(p.comparison, tokenBangEqual, tokenEqualEqual)
}

func (p *parser) comparison() (Expression, error) {
	return p.binary(p.term, tokenGreater, tokenGreaterEqual, tokenLess, tokenLessEqual)
}

func (p *parser) term() (Expression, error) {
	return p.binary(p.factor, tokenMinus, tokenPlus)
}

func (p *parser) factor() (Expression, error) {
	return p.binary(p.unary, tokenSlash, tokenStar)
}

// binary left-folds one precedence level.
func (p *parser) binary(operand func() (Expression, error), operators ...TokenType) (Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *parser) unary() (Expression, error) {
	if p.match(tokenBang, tokenMinus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: op, Right: right}, nil
	}
	return p.call()
}

func (p *parser) call() (Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenLeftParen) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *parser) finishCall(callee Expression) (Expression, error) {
	args := []Expression{}
	if !p.check(tokenRightParen) {
		for {
			if len(args) >= maxArguments {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(tokenComma) {
				break
			}
		}
	}
	paren, err := p.consume(tokenRightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Arguments: args}, nil
}

func (p *parser) primary() (Expression, error) {
	switch {
	case p.match(tokenFalse):
		return &LiteralExpr{Value: NewBool(false), line: p.previous().Line}, nil
	case p.match(tokenTrue):
		return &LiteralExpr{Value: NewBool(true), line: p.previous().Line}, nil
	case p.match(tokenNil):
		return &LiteralExpr{Value: NewNil(), line: p.previous().Line}, nil
	case p.match(tokenNumber, tokenString):
		tok := p.previous()
		return &LiteralExpr{Value: valueFromLiteral(tok.Literal), line: tok.Line}, nil
	case p.match(tokenIdentifier):
		return &VariableExpr{Name: p.previous()}, nil
	case p.match(tokenLeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(tokenRightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: expr}, nil
	default:
		return nil, p.errorAt(p.peek(), "Expect expression.")
	}
}

// synchronize discards tokens until the start of the next statement.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == tokenSemicolon {
			return
		}
		switch p.peek().Type {
		case tokenClass, tokenFun, tokenVar, tokenFor, tokenIf, tokenWhile, tokenPrint, tokenReturn:
			return
		}
		p.advance()
	}
}

func (p *parser) consume(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), message)
}

func (p *parser) errorAt(tok Token, message string) error {
	p.diag.ErrorAt(tok, message)
	return &parseError{tok: tok, msg: message}
}

func (p *parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(tt TokenType) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) atEnd() bool {
	return p.peek().Type == tokenEOF
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}
