package main

import (
	"errors"
	"io"
	"slices"
	"strings"

	"github.com/jmburke4/LoxInterpreter/lox"
)

// session owns the interpreter for one CLI invocation, so a script run with
// -i and the REPL that follows share their globals.
type session struct {
	cfg    cliConfig
	interp *lox.Interpreter
	diag   *lox.Diagnostics
	stdout *redirect
	stderr *redirect
}

// redirect lets the TUI capture output of an interpreter that was created
// writing to the terminal.
type redirect struct {
	w io.Writer
}

func (r *redirect) Write(p []byte) (int, error) {
	return r.w.Write(p)
}

func newSession(cfg cliConfig, stdout, stderr io.Writer) *session {
	s := &session{
		cfg:    cfg,
		stdout: &redirect{w: stdout},
		stderr: &redirect{w: stderr},
	}
	s.reset()
	return s
}

// reset drops every global definition by starting a fresh interpreter.
func (s *session) reset() {
	s.diag = lox.NewDiagnostics(s.stderr)
	s.interp = lox.NewInterpreter(lox.Config{
		Stdout:       s.stdout,
		Diagnostics:  s.diag,
		MaxCallDepth: s.cfg.MaxCallDepth,
	})
}

func (s *session) redirect(stdout, stderr io.Writer) {
	s.stdout.w = stdout
	s.stderr.w = stderr
}

func (s *session) run(source string) {
	s.interp.Run(source)
}

// eval runs one REPL entry after clearing the previous entry's errors. A bare
// expression without a trailing semicolon is evaluated and its value returned
// for display.
func (s *session) eval(source string) (lox.Value, bool) {
	s.diag.Reset()
	expr, ok := bareExpression(source)
	if !ok {
		s.interp.Run(source)
		return lox.NewNil(), false
	}

	s.diag.SetSource(source)
	val, err := s.interp.Evaluate(expr)
	if err != nil {
		var runtimeErr *lox.RuntimeError
		if errors.As(err, &runtimeErr) {
			s.diag.RuntimeError(runtimeErr)
		} else {
			s.diag.Exception("repl", err)
		}
		return lox.NewNil(), false
	}
	return val, true
}

func (s *session) exitStatus() error {
	switch {
	case s.diag.HadError():
		return &exitError{code: exitDataErr}
	case s.diag.HadRuntimeError():
		return &exitError{code: exitSoftware}
	default:
		return nil
	}
}

// userGlobals lists the global names the user defined, sorted.
func (s *session) userGlobals() []string {
	natives := lox.NativeNames()
	names := make([]string, 0)
	for _, name := range s.interp.Globals().Names() {
		if !slices.Contains(natives, name) {
			names = append(names, name)
		}
	}
	return names
}

// bareExpression reports whether source is a single expression missing its
// terminating semicolon, as typed at a prompt.
func bareExpression(source string) (lox.Expression, bool) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" || strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return nil, false
	}
	diag := lox.NewDiagnostics(nil)
	tokens, _ := lox.Scan(trimmed+";", diag)
	statements := lox.Parse(tokens, diag)
	if diag.HadError() || len(statements) != 1 {
		return nil, false
	}
	stmt, ok := statements[0].(*lox.ExprStmt)
	if !ok {
		return nil, false
	}
	return stmt.Expr, true
}

// incompleteInput reports whether every problem with source is that it ended
// too early, meaning the prompt should keep reading lines.
func incompleteInput(source string) bool {
	if strings.TrimSpace(source) == "" {
		return false
	}
	if _, ok := bareExpression(source); ok {
		return false
	}
	diag := lox.NewDiagnostics(nil)
	tokens, _ := lox.Scan(source, diag)
	lox.Parse(tokens, diag)
	entries := diag.Entries()
	if len(entries) == 0 {
		return false
	}
	for _, entry := range entries {
		if entry.Message != "Unterminated string." && entry.Location != " at end" {
			return false
		}
	}
	return true
}
