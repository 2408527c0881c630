package lox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Config controls where an Interpreter writes and how deep calls may nest.
type Config struct {
	Stdout       io.Writer
	Diagnostics  *Diagnostics
	Clock        func() time.Time
	MaxCallDepth int
}

// Interpreter executes Lox programs. One instance backs a whole REPL or file
// session so that global definitions persist between Interpret calls. It is
// not safe for concurrent use.
type Interpreter struct {
	config  Config
	globals *Environment
	env     *Environment
	out     io.Writer
	diag    *Diagnostics
	clock   func() time.Time
	depth   int
}

// NewInterpreter constructs an Interpreter with defaults applied and the
// native functions registered in its global environment.
func NewInterpreter(cfg Config) *Interpreter {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Diagnostics == nil {
		cfg.Diagnostics = NewDiagnostics(os.Stderr)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.MaxCallDepth <= 0 {
		cfg.MaxCallDepth = 1024
	}

	globals := NewEnvironment(nil)
	in := &Interpreter{
		config:  cfg,
		globals: globals,
		env:     globals,
		out:     cfg.Stdout,
		diag:    cfg.Diagnostics,
		clock:   cfg.Clock,
	}
	in.registerNatives()
	return in
}

// Globals returns the fixed outermost environment.
func (in *Interpreter) Globals() *Environment { return in.globals }

// Diagnostics returns the sink errors are reported to.
func (in *Interpreter) Diagnostics() *Diagnostics { return in.diag }

// Interpret executes statements in order. The first runtime error is reported
// to the diagnostics sink and stops the remaining statements of this call.
func (in *Interpreter) Interpret(statements []Statement) {
	defer func() {
		if r := recover(); r != nil {
			in.env = in.globals
			in.depth = 0
			in.diag.Exception("Interpreter.Interpret", r)
		}
	}()

	for _, stmt := range statements {
		flow, err := in.execute(stmt)
		if err != nil {
			in.report(err)
			return
		}
		if flow.kind == flowReturn {
			in.report(newRuntimeError(flow.keyword, "Can't return from top-level code."))
			return
		}
	}
}

// Run scans, parses and interprets source. Nothing is executed when scanning
// or parsing reported an error.
func (in *Interpreter) Run(source string) {
	in.diag.SetSource(source)
	tokens, _ := Scan(source, in.diag)
	statements := Parse(tokens, in.diag)
	if in.diag.HadError() {
		return
	}
	in.Interpret(statements)
}

// Evaluate computes a single expression in the current environment.
func (in *Interpreter) Evaluate(expr Expression) (val Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			in.env = in.globals
			in.depth = 0
			val, err = NewNil(), fmt.Errorf("internal error: %v", r)
		}
	}()
	return in.evaluate(expr)
}

func (in *Interpreter) report(err error) {
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		in.diag.RuntimeError(runtimeErr)
		return
	}
	in.diag.Exception("Interpreter.Interpret", err)
}
