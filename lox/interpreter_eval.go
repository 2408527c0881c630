package lox

import "fmt"

func (in *Interpreter) evaluate(expr Expression) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return in.evaluate(e.Inner)
	case *VariableExpr:
		return in.env.Get(e.Name)
	case *AssignExpr:
		val, err := in.evaluate(e.Value)
		if err != nil {
			return NewNil(), err
		}
		if err := in.env.Assign(e.Name, val); err != nil {
			return NewNil(), err
		}
		return val, nil
	case *UnaryExpr:
		return in.evalUnary(e)
	case *BinaryExpr:
		return in.evalBinary(e)
	case *LogicalExpr:
		return in.evalLogical(e)
	case *CallExpr:
		return in.evalCall(e)
	default:
		panic(fmt.Sprintf("unsupported expression %T", expr))
	}
}

func (in *Interpreter) evalUnary(e *UnaryExpr) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return NewNil(), err
	}
	switch e.Operator.Type {
	case tokenBang:
		return NewBool(!right.Truthy()), nil
	case tokenMinus:
		if right.Kind() != KindNumber {
			return NewNil(), newRuntimeError(e.Operator, "Operand must be a number.")
		}
		return NewNumber(-right.Number()), nil
	default:
		return NewNil(), newRuntimeError(e.Operator, "Unsupported unary operator '%s'.", e.Operator.Lexeme)
	}
}

// evalLogical returns the deciding operand itself, not a coerced boolean.
func (in *Interpreter) evalLogical(e *LogicalExpr) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return NewNil(), err
	}
	if e.Operator.Type == tokenOr {
		if left.Truthy() {
			return left, nil
		}
	} else if !left.Truthy() {
		return left, nil
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) evalBinary(e *BinaryExpr) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return NewNil(), err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return NewNil(), err
	}

	switch e.Operator.Type {
	case tokenEqualEqual:
		return NewBool(left.Equal(right)), nil
	case tokenBangEqual:
		return NewBool(!left.Equal(right)), nil
	case tokenPlus:
		return addValues(e.Operator, left, right)
	}

	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return NewNil(), newRuntimeError(e.Operator, "Operands must be numbers.")
	}
	l, r := left.Number(), right.Number()

	switch e.Operator.Type {
	case tokenMinus:
		return NewNumber(l - r), nil
	case tokenStar:
		return NewNumber(l * r), nil
	case tokenSlash:
		if r == 0 {
			return NewNil(), nil
		}
		return NewNumber(l / r), nil
	case tokenGreater:
		return NewBool(l > r), nil
	case tokenGreaterEqual:
		return NewBool(l >= r), nil
	case tokenLess:
		return NewBool(l < r), nil
	case tokenLessEqual:
		return NewBool(l <= r), nil
	default:
		return NewNil(), newRuntimeError(e.Operator, "Unsupported binary operator '%s'.", e.Operator.Lexeme)
	}
}

// addValues adds two numbers, or concatenates the string forms of both
// operands when either one is a string.
func addValues(op Token, left, right Value) (Value, error) {
	switch {
	case left.Kind() == KindNumber && right.Kind() == KindNumber:
		return NewNumber(left.Number() + right.Number()), nil
	case left.Kind() == KindString || right.Kind() == KindString:
		return NewString(left.String() + right.String()), nil
	default:
		return NewNil(), newRuntimeError(op, "Operands must be two numbers or at least one string.")
	}
}

func (in *Interpreter) evalCall(e *CallExpr) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return NewNil(), err
	}

	args := make([]Value, 0, len(e.Arguments))
	for _, argExpr := range e.Arguments {
		arg, err := in.evaluate(argExpr)
		if err != nil {
			return NewNil(), err
		}
		args = append(args, arg)
	}

	fn := callee.Callable()
	if callee.Kind() != KindCallable || fn == nil {
		return NewNil(), newRuntimeError(e.Paren, "Can only call functions.")
	}
	if len(args) != fn.Arity() {
		return NewNil(), newRuntimeError(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	if in.depth >= in.config.MaxCallDepth {
		return NewNil(), newRuntimeError(e.Paren, "Stack overflow.")
	}

	in.depth++
	defer func() { in.depth-- }()
	result, err := fn.Call(in, args)
	if err != nil {
		return NewNil(), wrapError(err, e.Paren)
	}
	return result, nil
}
