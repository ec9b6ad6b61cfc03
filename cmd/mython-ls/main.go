package main

import (
	"sync"

	"github.com/mythonlang/mython/mython"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "mython-ls"

var mythonKeywords = []string{
	"class", "def", "if", "else", "return", "print",
	"and", "or", "not", "None", "True", "False",
}

var (
	version string = "0.1.0"
	handler protocol.Handler

	documentsMutex sync.RWMutex
	documents      = make(map[string]string)
)

func main() {
	commonlog.Configure(1, nil)

	handler = protocol.Handler{
		Initialize:             initialize,
		Initialized:            initialized,
		Shutdown:               shutdown,
		TextDocumentDidOpen:    textDocumentDidOpen,
		TextDocumentDidChange:  textDocumentDidChange,
		TextDocumentDidClose:   textDocumentDidClose,
		TextDocumentCompletion: textDocumentCompletion,
	}

	s := server.NewServer(&handler, lsName, false)
	s.RunStdio()
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (interface{}, error) {
	capabilities := handler.CreateServerCapabilities()
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &[]bool{true}[0],
		Change:    &syncKind,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	return nil
}

func textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	documentsMutex.Lock()
	documents[params.TextDocument.URI] = params.TextDocument.Text
	documentsMutex.Unlock()
	go publishDiagnostics(context, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	content, ok := params.ContentChanges[0].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	documentsMutex.Lock()
	documents[params.TextDocument.URI] = content.Text
	documentsMutex.Unlock()
	go publishDiagnostics(context, params.TextDocument.URI, content.Text)
	return nil
}

func textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	documentsMutex.Lock()
	delete(documents, params.TextDocument.URI)
	documentsMutex.Unlock()
	return nil
}

func textDocumentCompletion(context *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	kind := protocol.CompletionItemKindKeyword
	items := make([]protocol.CompletionItem, 0, len(mythonKeywords))
	for _, word := range mythonKeywords {
		items = append(items, protocol.CompletionItem{
			Label: word,
			Kind:  &kind,
		})
	}
	return protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

// publishDiagnostics compiles the document and, on a lexer or parser
// failure, reports a single diagnostic at the failing position. Mython's
// single error taxonomy (*mython.LexerError covers both lexing and
// grammar failures, per the parser's design) means there is only ever one
// diagnostic to report per compile attempt.
func publishDiagnostics(context *glsp.Context, uri string, content string) {
	diagnostics := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityError

	engine := mython.NewEngine(mython.Config{})
	if _, err := engine.Compile(content); err != nil {
		if le, ok := err.(*mython.LexerError); ok {
			source := lsName
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    lspRangeFromPosition(le.Pos),
				Severity: &severity,
				Source:   &source,
				Message:  le.Message,
			})
		}
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func lspRangeFromPosition(pos mython.Position) protocol.Range {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col + 1)},
	}
}
