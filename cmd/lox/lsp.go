package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/jmburke4/LoxInterpreter/lox"
)

// LSP completion item kinds.
const (
	completionKindFunction = 3
	completionKindVariable = 6
	completionKindKeyword  = 14
)

// nullResult encodes as an explicit "result": null under omitempty.
var nullResult = json.RawMessage("null")

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	docs   map[string]string
}

func runLSP() error {
	server := &lspServer{
		reader: bufio.NewReader(os.Stdin),
		writer: bufio.NewWriter(os.Stdout),
		docs:   make(map[string]string),
	}
	return server.serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync": 1,
						"hoverProvider":    true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
					"serverInfo": map[string]any{"name": "lox-lsp"},
				},
			},
		}
	case "initialized", "exit":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nullResult}}
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		_ = json.Unmarshal(incoming.Params, &params)
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(s.docs[params.TextDocument.URI]),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		if word == "" {
			return []lspOutboundMessage{
				{JSONRPC: "2.0", ID: incoming.ID, Result: nullResult},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": hoverText(source, word),
					},
				},
			},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(source),
		},
	}
}

// diagnosticsForSource scans and parses source and converts every reported
// error into an LSP diagnostic. Nothing is executed.
func diagnosticsForSource(source string) []map[string]any {
	diag := lox.NewDiagnostics(nil)
	tokens, _ := lox.Scan(source, diag)
	lox.Parse(tokens, diag)

	entries := diag.Entries()
	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		line, start, end := diagnosticRange(source, entry)
		out = append(out, newDiagnostic(line, start, end, entry.Message))
	}
	return out
}

// diagnosticRange locates entry in source as a zero-based line and a span of
// UTF-16 columns covering the reported lexeme.
func diagnosticRange(source string, entry lox.Diagnostic) (int, int, int) {
	if entry.Offset < 0 || entry.Offset > len(source) {
		return max(0, entry.Line-1), 0, 1
	}
	before := source[:entry.Offset]
	line := strings.Count(before, "\n")
	start := utf16Len(before[strings.LastIndexByte(before, '\n')+1:])
	width := utf16Len(reportedLexeme(entry.Location))
	if width == 0 {
		width = 1
	}
	return line, start, start + width
}

func reportedLexeme(location string) string {
	if !strings.HasPrefix(location, " at '") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(location, " at '"), "'")
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func newDiagnostic(line, start, end int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": start,
			},
			"end": map[string]any{
				"line":      line,
				"character": end,
			},
		},
		"severity": 1,
		"source":   "lox-lsp",
		"message":  message,
	}
}

// declaredGlobals returns the functions and variables declared at the top
// level of source, keyed by name.
func declaredGlobals(source string) map[string]lox.Statement {
	tokens, _ := lox.Scan(source, lox.NewDiagnostics(nil))
	declared := make(map[string]lox.Statement)
	for _, stmt := range lox.Parse(tokens, lox.NewDiagnostics(nil)) {
		switch typed := stmt.(type) {
		case *lox.FunctionStmt:
			declared[typed.Name.Lexeme] = typed
		case *lox.VarStmt:
			declared[typed.Name.Lexeme] = typed
		}
	}
	return declared
}

func completionItems(source string) []map[string]any {
	keywords := lox.Keywords()
	natives := lox.NativeNames()
	declared := declaredGlobals(source)

	labels := make([]string, 0, len(keywords)+len(natives)+len(declared))
	labels = append(labels, keywords...)
	labels = append(labels, natives...)
	for name := range declared {
		if !slices.Contains(labels, name) {
			labels = append(labels, name)
		}
	}
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		kind, detail := completionKindFunction, "native"
		switch {
		case slices.Contains(keywords, label):
			kind, detail = completionKindKeyword, "keyword"
		case slices.Contains(natives, label):
		default:
			if fn, ok := declared[label].(*lox.FunctionStmt); ok {
				detail = functionSignature(fn)
			} else {
				kind, detail = completionKindVariable, "variable"
			}
		}
		items = append(items, map[string]any{
			"label":  label,
			"kind":   kind,
			"detail": detail,
		})
	}
	return items
}

func hoverText(source, word string) string {
	switch {
	case slices.Contains(lox.Keywords(), word):
		return fmt.Sprintf("`%s`\n\nLox keyword", word)
	case slices.Contains(lox.NativeNames(), word):
		return fmt.Sprintf("`%s`\n\nLox native function", word)
	}
	switch decl := declaredGlobals(source)[word].(type) {
	case *lox.FunctionStmt:
		return fmt.Sprintf("`%s`\n\nfunction declared on line %d", functionSignature(decl), decl.Line())
	case *lox.VarStmt:
		return fmt.Sprintf("`var %s`\n\nglobal declared on line %d", word, decl.Line())
	}
	return fmt.Sprintf("`%s`\n\nLox symbol", word)
}

func functionSignature(fn *lox.FunctionStmt) string {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = param.Lexeme
	}
	return "fun " + fn.Name.Lexeme + "(" + strings.Join(params, ", ") + ")"
}

// wordAtPosition returns the identifier under an LSP position, whose
// character offset counts UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}

	cursor := 0
	for units := 0; cursor < len(runes) && units < character; cursor++ {
		units += utf16RuneLen(runes[cursor])
	}
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}

// utf16RuneLen mirrors utf16.RuneLen (Go 1.23+) for older toolchains.
func utf16RuneLen(r rune) int {
	switch {
	case 0 <= r && r < 0xd800, 0xe000 <= r && r < 0x10000:
		return 1
	case 0x10000 <= r && r <= unicode.MaxRune:
		return 2
	default:
		return -1
	}
}
