package lox

import (
	"fmt"
	"io"
	"runtime/debug"
)

// DiagnosticKind classifies a reported problem.
type DiagnosticKind int

const (
	DiagnosticScan DiagnosticKind = iota
	DiagnosticParse
	DiagnosticRuntime
	DiagnosticInternal
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticScan:
		return "scan"
	case DiagnosticParse:
		return "parse"
	case DiagnosticRuntime:
		return "runtime"
	case DiagnosticInternal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Diagnostic is one reported scan, parse, runtime or internal failure.
type Diagnostic struct {
	Kind     DiagnosticKind
	Line     int
	Location string
	Message  string
	// Offset is the byte offset in the source where the problem starts, or -1
	// when it is not known.
	Offset int
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagnosticRuntime:
		return fmt.Sprintf("[line %d] RuntimeError%s: %s", d.Line, d.Location, d.Message)
	case DiagnosticInternal:
		return fmt.Sprintf("[%s] Exception: %s", d.Location, d.Message)
	default:
		return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Location, d.Message)
	}
}

// Diagnostics is the error sink shared by the scanner, parser and interpreter.
// It is owned by the host and reset between REPL entries.
type Diagnostics struct {
	out    io.Writer
	source string

	entries         []Diagnostic
	hadError        bool
	hadRuntimeError bool
}

// NewDiagnostics returns a sink that writes each report as a line to w.
// A nil writer only records entries.
func NewDiagnostics(w io.Writer) *Diagnostics {
	return &Diagnostics{out: w}
}

// SetSource enables code frames under runtime errors.
func (d *Diagnostics) SetSource(source string) {
	d.source = source
}

// Error reports a scan error at line.
func (d *Diagnostics) Error(line int, message string) {
	d.record(Diagnostic{Kind: DiagnosticScan, Line: line, Offset: -1, Message: message})
}

// ErrorAt reports a parse error at tok.
func (d *Diagnostics) ErrorAt(tok Token, message string) {
	d.record(Diagnostic{Kind: DiagnosticParse, Line: tok.Line, Location: tokenLocation(tok), Offset: tok.Offset, Message: message})
}

// Report records a static error with an explicit location such as " at 'x'".
func (d *Diagnostics) Report(line int, location, message string) {
	d.record(Diagnostic{Kind: DiagnosticParse, Line: line, Location: location, Offset: -1, Message: message})
}

// RuntimeError reports an error that aborted an Interpret call.
func (d *Diagnostics) RuntimeError(err *RuntimeError) {
	d.record(Diagnostic{
		Kind:     DiagnosticRuntime,
		Line:     err.Token.Line,
		Location: tokenLocation(err.Token),
		Offset:   err.Token.Offset,
		Message:  err.Message,
	})
}

// Exception reports an unexpected host failure. These indicate an interpreter
// bug rather than a problem with the user's program.
func (d *Diagnostics) Exception(origin string, recovered any) {
	d.record(Diagnostic{
		Kind:     DiagnosticInternal,
		Location: origin,
		Offset:   -1,
		Message:  fmt.Sprintf("%v\n%s", recovered, debug.Stack()),
	})
}

func (d *Diagnostics) record(entry Diagnostic) {
	d.entries = append(d.entries, entry)
	switch entry.Kind {
	case DiagnosticRuntime, DiagnosticInternal:
		d.hadRuntimeError = true
	default:
		d.hadError = true
	}
	if d.out == nil {
		return
	}
	fmt.Fprintln(d.out, entry.String())
	if entry.Kind == DiagnosticRuntime {
		if frame := formatCodeFrame(d.source, entry.Line); frame != "" {
			fmt.Fprintln(d.out, frame)
		}
	}
}

// HadError reports whether a scan or parse error was recorded.
func (d *Diagnostics) HadError() bool { return d.hadError }

// HadRuntimeError reports whether a runtime or internal error was recorded.
func (d *Diagnostics) HadRuntimeError() bool { return d.hadRuntimeError }

// Entries returns the recorded diagnostics in report order.
func (d *Diagnostics) Entries() []Diagnostic {
	return append([]Diagnostic(nil), d.entries...)
}

// Reset clears both flags and the recorded entries.
func (d *Diagnostics) Reset() {
	d.entries = nil
	d.hadError = false
	d.hadRuntimeError = false
}
