package lox

import (
	"fmt"
	"io"
)

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
)

// execResult tells the caller whether a statement completed normally or is
// unwinding towards the enclosing function call with a return value.
type execResult struct {
	kind    flowKind
	value   Value
	keyword Token
}

var normalFlow = execResult{kind: flowNormal}

func (in *Interpreter) execute(stmt Statement) (execResult, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		if _, err := in.evaluate(s.Expr); err != nil {
			return normalFlow, err
		}
		return normalFlow, nil
	case *PrintStmt:
		return normalFlow, in.executePrint(s)
	case *VarStmt:
		val := NewNil()
		if s.Initializer != nil {
			var err error
			if val, err = in.evaluate(s.Initializer); err != nil {
				return normalFlow, err
			}
		}
		in.env.Define(s.Name.Lexeme, val)
		return normalFlow, nil
	case *BlockStmt:
		return in.executeBlock(s.Statements, NewEnvironment(in.env))
	case *IfStmt:
		return in.executeIf(s)
	case *WhileStmt:
		return in.executeWhile(s)
	case *FunctionStmt:
		in.env.Define(s.Name.Lexeme, NewCallable(newFunction(s, in.env)))
		return normalFlow, nil
	case *ReturnStmt:
		val := NewNil()
		if s.Value != nil {
			var err error
			if val, err = in.evaluate(s.Value); err != nil {
				return normalFlow, err
			}
		}
		return execResult{kind: flowReturn, value: val, keyword: s.Keyword}, nil
	default:
		panic(fmt.Sprintf("unsupported statement %T", stmt))
	}
}

func (in *Interpreter) executePrint(s *PrintStmt) error {
	val, err := in.evaluate(s.Expr)
	if err != nil {
		return err
	}
	_, err = io.WriteString(in.out, val.String()+"\n")
	return err
}

// executeBlock runs statements in env and restores the previous environment
// on every exit path.
func (in *Interpreter) executeBlock(statements []Statement, env *Environment) (execResult, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range statements {
		flow, err := in.execute(stmt)
		if err != nil || flow.kind == flowReturn {
			return flow, err
		}
	}
	return normalFlow, nil
}

func (in *Interpreter) executeIf(s *IfStmt) (execResult, error) {
	cond, err := in.evaluate(s.Condition)
	if err != nil {
		return normalFlow, err
	}
	if cond.Truthy() {
		return in.execute(s.Then)
	}
	if s.Else != nil {
		return in.execute(s.Else)
	}
	return normalFlow, nil
}

func (in *Interpreter) executeWhile(s *WhileStmt) (execResult, error) {
	for {
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return normalFlow, err
		}
		if !cond.Truthy() {
			return normalFlow, nil
		}
		flow, err := in.execute(s.Body)
		if err != nil || flow.kind == flowReturn {
			return flow, err
		}
	}
}
