package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

func (m colorMode) valid() bool {
	switch m {
	case colorAuto, colorAlways, colorNever:
		return true
	default:
		return false
	}
}

// styler renders diagnostics for one output stream.
type styler struct {
	enabled bool
	style   lipgloss.Style
}

func newStyler(f *os.File, mode colorMode) styler {
	enabled := colorEnabled(f, mode)
	renderer := lipgloss.NewRenderer(f)
	if enabled {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return styler{
		enabled: enabled,
		style:   renderer.NewStyle().Foreground(errorColor),
	}
}

func colorEnabled(f *os.File, mode colorMode) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(f)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// errorText styles every line separately so lipgloss does not pad them to a
// common width.
func (s styler) errorText(text string) string {
	if !s.enabled {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = s.style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// writer wraps w so that everything written through it is styled as an error.
func (s styler) writer(w io.Writer) io.Writer {
	if !s.enabled {
		return w
	}
	return &styledWriter{w: w, styler: s}
}

type styledWriter struct {
	w      io.Writer
	styler styler
}

func (sw *styledWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(sw.w, sw.styler.errorText(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
