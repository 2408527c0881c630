package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const clearScreen = "\033[H\033[2J"

// lineReader is the part of liner.State the prompt loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// runPlainREPL serves the session with a line-editing prompt. It is used when
// stdin or stdout is not a terminal, or when the TUI is turned off.
func runPlainREPL(sess *session, cfg cliConfig) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		return completeLine(line, sess.userGlobals())
	})

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	return plainLoop(sess, ln, os.Stdout, cfg.Prompt)
}

func plainLoop(sess *session, r lineReader, out io.Writer, prompt string) error {
	for {
		source, ok := readEntry(r, prompt, continuationPrompt(prompt))
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		switch strings.TrimSpace(source) {
		case "":
			continue
		case "exit":
			return nil
		case "cls":
			fmt.Fprint(out, clearScreen)
			continue
		}

		r.AppendHistory(strings.ReplaceAll(source, "\n", " "))
		if val, shown := sess.eval(source); shown {
			fmt.Fprintln(out, val.String())
		}
	}
}

// readEntry keeps prompting until the collected lines form a complete entry.
// It returns false once input is exhausted.
func readEntry(r lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}
		line, err := r.Prompt(current)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incompleteInput(b.String()) {
			return b.String(), true
		}
	}
}

func continuationPrompt(prompt string) string {
	width := len(strings.TrimRight(prompt, " "))
	if width == 0 {
		width = 1
	}
	return strings.Repeat(".", width) + " "
}
