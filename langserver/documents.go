package langserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/ezrec/s16/cpu"
)

// assembleDiagnostics assembles the document text and converts every
// assembly error into an LSP diagnostic spanning its source line.
func assembleDiagnostics(text string) (diags []Diagnostic) {
	diags = []Diagnostic{}

	asm := &cpu.Assembler{}
	_, err := asm.Parse(strings.NewReader(text))
	if err == nil {
		return
	}

	lines := strings.Split(text, "\n")

	var serr cpu.ErrSyntax
	if !errors.As(err, &serr) {
		// not attributable to a line; report at the top of the file
		diags = append(diags, Diagnostic{
			Range:    TextRange{End: TextPosition{Character: 1}},
			Severity: 1,
			Message:  err.Error(),
		})
		return
	}

	line := serr.LineNo - 1
	width := 0
	if line >= 0 && line < len(lines) {
		width = len(lines[line])
	}
	diags = append(diags, Diagnostic{
		Range: TextRange{
			Start: TextPosition{Line: line},
			End:   TextPosition{Line: line, Character: width},
		},
		Severity: 1,
		Message:  serr.Err.Error(),
	})
	return
}

func (h *handler) publish(conn *jsonrpc2.Conn, doc TextDocumentItem) {
	conn.Notify(context.Background(), "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     doc.Version,
		Diagnostics: assembleDiagnostics(doc.Text),
	})
}

func (h *handler) documentOpen(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidOpenTextDocumentParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	h.documents[decodedParams.TextDocument.URI] = decodedParams.TextDocument
	h.publish(conn, decodedParams.TextDocument)
}

func (h *handler) documentChange(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidChangeTextDocumentParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}
	if len(decodedParams.ContentChanges) == 0 {
		return
	}

	doc := h.documents[decodedParams.TextDocument.URI]
	doc.URI = decodedParams.TextDocument.URI
	doc.Version = decodedParams.TextDocument.Version
	doc.Text = decodedParams.ContentChanges[0].Text
	h.documents[doc.URI] = doc

	h.publish(conn, doc)
}

func (h *handler) documentClose(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidCloseTextDocumentParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	delete(h.documents, decodedParams.TextDocument.URI)
}

func (h *handler) documentDiagnostics(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DocumentDiagnosticsParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	doc := h.documents[decodedParams.TextDocument.URI]
	conn.Reply(context.Background(), req.ID, DocumentDiagnosticsReport{
		Kind:  "full",
		Items: assembleDiagnostics(doc.Text),
	})
}
