package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jmburke4/LoxInterpreter/lox"
)

type lintWarning struct {
	Function string
	Line     int
	Message  string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("lox analyze: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	diag := lox.NewDiagnostics(nil)
	tokens, _ := lox.Scan(string(input), diag)
	statements := lox.Parse(tokens, diag)
	if diag.HadError() {
		entries := diag.Entries()
		for _, entry := range entries {
			fmt.Printf("%s:%d: %s\n", scriptPath, entry.Line, entry.String())
		}
		return fmt.Errorf("analysis found %d syntax error(s)", len(entries))
	}

	warnings := analyzeProgram(statements)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Line, 1)
		if warning.Function == "" {
			fmt.Printf("%s:%d: %s\n", scriptPath, line, warning.Message)
			continue
		}
		fmt.Printf("%s:%d: %s (%s)\n", scriptPath, line, warning.Message, warning.Function)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// analyzeProgram lints every function body in the program and flags return
// statements outside any function.
func analyzeProgram(statements []lox.Statement) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintTopLevel(statements, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Line != warnings[j].Line {
			return warnings[i].Line < warnings[j].Line
		}
		return warnings[i].Function < warnings[j].Function
	})
	return warnings
}

func lintTopLevel(statements []lox.Statement, warnings *[]lintWarning) {
	for _, stmt := range statements {
		switch typed := stmt.(type) {
		case *lox.FunctionStmt:
			lintStatements(typed.Name.Lexeme, typed.Body, warnings)
		case *lox.ReturnStmt:
			*warnings = append(*warnings, lintWarning{
				Line:    typed.Line(),
				Message: "return outside function",
			})
		case *lox.BlockStmt:
			lintTopLevel(typed.Statements, warnings)
		case *lox.IfStmt:
			lintTopLevel([]lox.Statement{typed.Then}, warnings)
			if typed.Else != nil {
				lintTopLevel([]lox.Statement{typed.Else}, warnings)
			}
		case *lox.WhileStmt:
			lintTopLevel([]lox.Statement{typed.Body}, warnings)
		}
	}
}

// lintStatements reports statements that follow one that always returns, and
// reports whether the list itself always returns.
func lintStatements(function string, statements []lox.Statement, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Line:     stmt.Line(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt lox.Statement, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *lox.ReturnStmt:
		return true
	case *lox.BlockStmt:
		return lintStatements(function, typed.Statements, warnings)
	case *lox.IfStmt:
		thenTerminated := statementTerminates(function, typed.Then, warnings)
		if typed.Else == nil {
			return false
		}
		elseTerminated := statementTerminates(function, typed.Else, warnings)
		return thenTerminated && elseTerminated
	case *lox.WhileStmt:
		statementTerminates(function, typed.Body, warnings)
		return false
	case *lox.FunctionStmt:
		lintStatements(typed.Name.Lexeme, typed.Body, warnings)
		return false
	default:
		return false
	}
}
