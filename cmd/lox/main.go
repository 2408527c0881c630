package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmburke4/LoxInterpreter/lox"
)

// Exit statuses follow the sysexits convention used by Lox implementations.
const (
	exitDataErr  = 65
	exitSoftware = 70
)

// exitError carries a process exit status for failures whose details were
// already written to stderr by the diagnostics sink.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := runCLI(os.Args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, newStyler(os.Stderr, colorAuto).errorText(err.Error()))
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return replCommand(nil)
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		if !strings.HasPrefix(args[1], "-") {
			return runCommand(args[1:])
		}
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	printAST := fs.Bool("ast", false, "print the parsed program instead of running it")
	printTokens := fs.Bool("tokens", false, "print the scanned tokens instead of running it")
	interactive := fs.Bool("i", false, "continue in the REPL after the script finishes")
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("lox run: script path required")
	}
	absScriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(absScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	source := string(input)

	if *printTokens || *printAST {
		return dumpSource(source, *printTokens, *printAST, cfg)
	}

	sess := newSession(cfg, os.Stdout, newStyler(os.Stderr, cfg.Color).writer(os.Stderr))
	sess.run(source)
	if *interactive {
		sess.diag.Reset()
		return startREPL(sess, cfg, false)
	}
	return sess.exitStatus()
}

// dumpSource prints the token stream and/or the parsed program without
// executing anything.
func dumpSource(source string, tokens, program bool, cfg cliConfig) error {
	diag := lox.NewDiagnostics(newStyler(os.Stderr, cfg.Color).writer(os.Stderr))
	scanned, _ := lox.Scan(source, diag)
	if tokens {
		for _, tok := range scanned {
			fmt.Println(tok.String())
		}
	}
	if program {
		fmt.Print(lox.PrintProgram(lox.Parse(scanned, diag)))
	}
	if diag.HadError() {
		return &exitError{code: exitDataErr}
	}
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [script] | <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [-ast] [-tokens] [-i] [-config file] <script>")
	fmt.Fprintln(os.Stderr, "    run a script (exit 65 on syntax errors, 70 on runtime errors)")
	fmt.Fprintln(os.Stderr, "  repl [-plain] [-config file]")
	fmt.Fprintln(os.Stderr, "    start an interactive session (the default with no arguments)")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <paths...>")
	fmt.Fprintln(os.Stderr, "    normalize whitespace in .lox files")
	fmt.Fprintln(os.Stderr, "  analyze <script>")
	fmt.Fprintln(os.Stderr, "    report syntax errors and unreachable code without running")
	fmt.Fprintln(os.Stderr, "  lsp")
	fmt.Fprintln(os.Stderr, "    serve diagnostics, completion and hover over stdio")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
