package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	isolateConfig(t)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Prompt != "> " || cfg.Color != colorAuto || cfg.MaxCallDepth != 0 || cfg.PlainREPL {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
}

func TestLoadConfigReadsDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "lox"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lox", "config.yaml"), []byte("prompt: \"lox> \"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Prompt != "lox> " {
		t.Fatalf("unexpected prompt %q", cfg.Prompt)
	}
}

func TestLoadConfigParsesAllFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, `prompt: "$ "
history_file: ~/.history/lox
color: never
max_call_depth: 200
plain_repl: true
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Prompt != "$ " || cfg.Color != colorNever || cfg.MaxCallDepth != 200 || !cfg.PlainREPL {
		t.Fatalf("unexpected config %#v", cfg)
	}
	if want := filepath.Join(home, ".history", "lox"); cfg.HistoryFile != want {
		t.Fatalf("expected expanded history path %q, got %q", want, cfg.HistoryFile)
	}
}

func TestLoadConfigAcceptsEmptyFile(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("empty config should load: %v", err)
	}
	if cfg.Prompt != "> " {
		t.Fatalf("empty config should keep defaults, got %#v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", "colour: always\n", "config: parse"},
		{"bad color", "color: sometimes\n", "color must be auto, always or never"},
		{"empty color", "color: \"\"\n", "color must not be empty"},
		{"negative depth", "max_call_depth: -1\n", "max_call_depth must not be negative"},
		{"wrong type", "plain_repl: maybe\n", "config: parse"},
	}
	for _, tc := range cases {
		_, err := loadConfig(writeConfig(t, tc.content))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config: open") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cases := map[string]string{
		"~":           home,
		"~/lox":       filepath.Join(home, "lox"),
		"/abs/path":   "/abs/path",
		"~other/file": "~other/file",
		"":            "",
	}
	for input, want := range cases {
		if got := expandHome(input); got != want {
			t.Fatalf("expandHome(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	if !colorEnabled(nil, colorAlways) {
		t.Fatalf("always should enable color")
	}
	if colorEnabled(os.Stderr, colorNever) {
		t.Fatalf("never should disable color")
	}

	t.Setenv("NO_COLOR", "1")
	if colorEnabled(os.Stderr, colorAuto) {
		t.Fatalf("NO_COLOR should disable automatic color")
	}
}

func TestStylerDisabledLeavesTextUntouched(t *testing.T) {
	s := newStyler(os.Stderr, colorNever)
	if got := s.errorText("[line 1] Error: boom\nframe"); got != "[line 1] Error: boom\nframe" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestStyledWriterColorsEachLine(t *testing.T) {
	var buf bytes.Buffer
	w := newStyler(os.Stderr, colorAlways).writer(&buf)
	n, err := w.Write([]byte("first\nsecond\n"))
	if err != nil || n != len("first\nsecond\n") {
		t.Fatalf("unexpected write result n=%d err=%v", n, err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 3 || lines[2] != "" {
		t.Fatalf("line structure should be preserved, got %q", buf.String())
	}
	for _, line := range lines[:2] {
		if !strings.Contains(line, "\x1b[") {
			t.Fatalf("expected ANSI styling in %q", line)
		}
	}
}
