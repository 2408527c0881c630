package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("lox fmt: path required")
	}

	files, err := collectLoxFiles(targets)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted := formatLoxSource(original)
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case *check && changed:
			fmt.Println(path)
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("lox fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

func collectLoxFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if filepath.Ext(path) != ".lox" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				if path != target && skipLoxDir(entry.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// skipLoxDir reports directories a recursive fmt leaves alone: hidden ones and
// testdata, whose fixtures are often deliberately malformed.
func skipLoxDir(name string) bool {
	return name == "testdata" || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

// formatLoxSource normalizes line endings, strips trailing whitespace and
// collapses runs of blank lines. String literals keep their bytes, so lines
// that end inside a multi-line string are left alone.
func formatLoxSource(source string) string {
	lines := splitLoxLines(source)
	out := make([]string, 0, len(lines))
	inString := false
	blankRun := 0
	for _, line := range lines {
		startsInString := inString
		inString = endsInString(line, inString)
		if !inString {
			line = strings.TrimRight(line, " \t")
		}
		if !startsInString && line == "" {
			blankRun++
			if blankRun > 1 || len(out) == 0 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, line)
	}

	joined := strings.TrimRight(strings.Join(out, "\n"), "\n")
	return joined + "\n"
}

// splitLoxLines splits source at \n, \r\n and lone \r. A \r inside a string
// literal is part of the literal and does not end the line.
func splitLoxLines(source string) []string {
	var lines []string
	start := 0
	inString, inComment := false, false
	for i := 0; i < len(source); i++ {
		switch c := source[i]; {
		case c == '\n':
			line := source[start:i]
			if !inString {
				line = strings.TrimSuffix(line, "\r")
			}
			lines = append(lines, line)
			start = i + 1
			inComment = false
		case inString:
			if c == '"' {
				inString = false
			}
		case c == '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				continue
			}
			lines = append(lines, source[start:i])
			start = i + 1
			inComment = false
		case inComment:
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(source) && source[i+1] == '/':
			inComment = true
		}
	}
	return append(lines, source[start:])
}

// endsInString reports whether a line leaves a string literal open. Lox
// strings have no escapes and comments run to the end of the line.
func endsInString(line string, inString bool) bool {
	for i := 0; i < len(line); i++ {
		switch {
		case inString:
			if line[i] == '"' {
				inString = false
			}
		case line[i] == '"':
			inString = true
		case line[i] == '/' && i+1 < len(line) && line[i+1] == '/':
			return false
		}
	}
	return inString
}
