package lox

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

type conformanceFile struct {
	Description string            `yaml:"description"`
	Cases       []conformanceCase `yaml:"cases"`
}

type conformanceCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Expect struct {
		Stdout          string   `yaml:"stdout"`
		HadError        bool     `yaml:"had_error"`
		HadRuntimeError bool     `yaml:"had_runtime_error"`
		Errors          []string `yaml:"errors"`
	} `yaml:"expect"`
}

func TestConformanceFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "conformance", "*.yaml"))
	if err != nil {
		t.Fatalf("glob fixtures: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no conformance fixtures found")
	}
	sort.Strings(paths)

	for _, path := range paths {
		fixture := readConformanceFile(t, path)
		for _, tc := range fixture.Cases {
			tc := tc
			t.Run(strings.TrimSuffix(filepath.Base(path), ".yaml")+"/"+tc.Name, func(t *testing.T) {
				runConformanceCase(t, tc)
			})
		}
	}
}

func readConformanceFile(t *testing.T, path string) conformanceFile {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture %s: %v", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var fixture conformanceFile
	if err := decoder.Decode(&fixture); err != nil {
		t.Fatalf("parse fixture %s: %v", path, err)
	}
	return fixture
}

func runConformanceCase(t *testing.T, tc conformanceCase) {
	t.Helper()
	var out bytes.Buffer
	diag := NewDiagnostics(nil)
	in := NewInterpreter(Config{
		Stdout:      &out,
		Diagnostics: diag,
		Clock:       func() time.Time { return time.Unix(0, 0) },
	})
	in.Run(tc.Source)

	if out.String() != tc.Expect.Stdout {
		t.Fatalf("stdout mismatch\n got: %q\nwant: %q", out.String(), tc.Expect.Stdout)
	}
	if diag.HadError() != tc.Expect.HadError {
		t.Fatalf("had_error = %v, want %v (%v)", diag.HadError(), tc.Expect.HadError, diag.Entries())
	}
	if diag.HadRuntimeError() != tc.Expect.HadRuntimeError {
		t.Fatalf("had_runtime_error = %v, want %v (%v)", diag.HadRuntimeError(), tc.Expect.HadRuntimeError, diag.Entries())
	}
	if tc.Expect.Errors == nil {
		return
	}
	entries := diag.Entries()
	if len(entries) != len(tc.Expect.Errors) {
		t.Fatalf("expected %d diagnostics, got %v", len(tc.Expect.Errors), entries)
	}
	for i, want := range tc.Expect.Errors {
		if got := entries[i].String(); got != want {
			t.Fatalf("diagnostic %d:\n got: %s\nwant: %s", i, got, want)
		}
	}
}
