package lox

import "fmt"

// Callable is anything a Lox call expression can invoke.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-defined function together with the environment that was
// active where it was declared.
type Function struct {
	decl    *FunctionStmt
	closure *Environment
}

func newFunction(decl *FunctionStmt, closure *Environment) *Function {
	return &Function{decl: decl, closure: closure}
}

func (f *Function) Name() string { return f.decl.Name.Lexeme }

func (f *Function) Arity() int { return len(f.decl.Params) }

func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	flow, err := in.executeBlock(f.decl.Body, env)
	if err != nil {
		return NewNil(), err
	}
	if flow.kind == flowReturn {
		return flow.value, nil
	}
	return NewNil(), nil
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme)
}

// NativeFunc implements a host-provided function. Plain errors it returns are
// reported at the call site.
type NativeFunc func(in *Interpreter, args []Value) (Value, error)

// NativeFunction is a host-provided callable with a fixed arity.
type NativeFunction struct {
	Name  string
	arity int
	fn    NativeFunc
}

func NewNativeFunction(name string, arity int, fn NativeFunc) *NativeFunction {
	return &NativeFunction{Name: name, arity: arity, fn: fn}
}

func (n *NativeFunction) Arity() int { return n.arity }

func (n *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}

func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %s>", n.Name)
}
