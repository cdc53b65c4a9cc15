package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"cinder/internal/ast"
	"cinder/internal/builtins"
)

// Token types advertised to the client; collectSemanticTokens indexes
// into this list.
var SemanticTokenTypes = []string{
	"function",
	"variable",
	"parameter",
	"type",
	"number",
	"string",
}

var SemanticTokenModifiers = []string{
	"declaration",
}

var keywords = []string{
	"var", "fn", "if", "else", "while", "switch", "case", "default",
	"return", "break", "continue", "asm",
}

// CinderHandler implements the LSP handlers for cinder source files. It
// keeps an in-memory copy of every open document and re-runs the front
// end on each change, publishing the resulting diagnostics.
type CinderHandler struct {
	mu      sync.RWMutex
	content map[string]string
	files   map[string]*ast.File
}

// NewCinderHandler creates an empty handler.
func NewCinderHandler() *CinderHandler {
	return &CinderHandler{
		content: make(map[string]string),
		files:   make(map[string]*ast.File),
	}
}

// Initialize advertises the server's capabilities.
func (h *CinderHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *CinderHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *CinderHandler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *CinderHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen caches the document and publishes diagnostics.
func (h *CinderHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.refresh(ctx, params.TextDocument.URI, path, params.TextDocument.Text)
	return nil
}

// TextDocumentDidChange re-analyzes from the full replacement text; the
// server only advertises full-document sync.
func (h *CinderHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			h.refresh(ctx, params.TextDocument.URI, path, whole.Text)
		}
	}
	return nil
}

func (h *CinderHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.files, path)
	return nil
}

// TextDocumentCompletion offers the language keywords and the runtime
// builtins.
func (h *CinderHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	var items []protocol.CompletionItem
	for _, kw := range keywords {
		kind := protocol.CompletionItemKindKeyword
		items = append(items, protocol.CompletionItem{
			Label: kw,
			Kind:  &kind,
		})
	}
	for _, b := range builtins.Functions {
		kind := protocol.CompletionItemKindFunction
		detail := builtinSignature(b)
		items = append(items, protocol.CompletionItem{
			Label:  b.Name,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return &protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

// TextDocumentSemanticTokensFull walks the cached tree and returns the
// delta-encoded token stream.
func (h *CinderHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	file, err := h.getFile(ctx, params.TextDocument.URI, path)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(file)

	var data []uint32
	var prevLine, prevStart uint32
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, token.Length,
			uint32(token.TokenType), uint32(token.Modifiers))
		prevLine = token.Line
		prevStart = token.StartChar
	}
	return &protocol.SemanticTokens{Data: data}, nil
}

// getFile returns the cached tree for path, reading the file from disk if
// the client never opened it.
func (h *CinderHandler) getFile(ctx *glsp.Context, uri protocol.DocumentUri, path string) (*ast.File, error) {
	h.mu.RLock()
	file, cached := h.files[path]
	h.mu.RUnlock()
	if cached {
		return file, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	h.refresh(ctx, uri, path, string(source))

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.files[path], nil
}

// refresh runs the front end over source and publishes the diagnostics.
func (h *CinderHandler) refresh(ctx *glsp.Context, uri protocol.DocumentUri, path, source string) {
	file, errs := AnalyzeSource(path, source)

	h.mu.Lock()
	h.content[path] = source
	h.files[path] = file
	h.mu.Unlock()

	diagnostics := ToDiagnostics(errs)
	if ctx != nil && len(diagnostics) > 0 {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: diagnostics,
		})
	}
}

func builtinSignature(b builtins.Builtin) string {
	params := make([]string, len(b.Params))
	for i, p := range b.Params {
		params[i] = p.String()
	}
	sig := fmt.Sprintf("%s(%s)", b.Name, strings.Join(params, ", "))
	if b.Return != nil {
		sig += ": " + b.Return.String()
	}
	return sig
}

// uriToPath converts a file URI to a platform-local path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
