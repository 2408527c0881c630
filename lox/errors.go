package lox

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RuntimeError is raised while evaluating a program. It carries the token at
// which evaluation failed so hosts can point at the offending lexeme.
type RuntimeError struct {
	Token   Token
	Message string
}

func (re *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] RuntimeError%s: %s", re.Token.Line, tokenLocation(re.Token), re.Message)
}

func newRuntimeError(tok Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// wrapError attaches tok to a plain error returned by a native function.
func wrapError(err error, tok Token) error {
	if err == nil {
		return nil
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}
	return &RuntimeError{Token: tok, Message: err.Error()}
}

func tokenLocation(tok Token) string {
	if tok.Type == tokenEOF {
		return " at end"
	}
	if tok.Lexeme == "" {
		return ""
	}
	return fmt.Sprintf(" at '%s'", tok.Lexeme)
}

func formatCodeFrame(source string, line int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[line-1], "\r")
	lineLabel := strconv.Itoa(line)
	gutterPad := strings.Repeat(" ", len(lineLabel))

	return fmt.Sprintf(
		"  --> line %d\n %s |\n %s | %s",
		line,
		gutterPad,
		lineLabel,
		lineText,
	)
}
