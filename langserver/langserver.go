// Package langserver provides an LSP server for S16 assembly:
// full-document sync, assembly diagnostics, and mnemonic hover docs,
// over stdio or TCP.
package langserver

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"os"

	"github.com/sourcegraph/jsonrpc2"
)

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// ListenAndServe serves a single LSP session over stdin/stdout.
func ListenAndServe() {
	h := &handler{documents: map[DocumentUri]TextDocumentItem{}}
	<-jsonrpc2.NewConn(context.Background(),
		jsonrpc2.NewBufferedStream(stdrwc{}, jsonrpc2.VSCodeObjectCodec{}), h).DisconnectNotify()
}

// ListenAndServeTCP accepts LSP sessions on a TCP address, one
// connection per client.
func ListenAndServeTCP(addr string) (err error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return
	}
	defer lis.Close()

	log.Printf("s16 language server: listening on %v", addr)

	for {
		conn, aerr := lis.Accept()
		if aerr != nil {
			err = aerr
			return
		}

		h := &handler{documents: map[DocumentUri]TextDocumentItem{}}
		rpc := jsonrpc2.NewConn(context.Background(),
			jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}), h)
		go func() {
			<-rpc.DisconnectNotify()
			log.Printf("s16 language server: connection closed")
		}()
	}
}

type handler struct {
	documents map[DocumentUri]TextDocumentItem
}

func (h *handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	switch req.Method {
	case "initialize":
		h.handleInitialize(conn, req)
	case "textDocument/didOpen":
		h.documentOpen(conn, req)
	case "textDocument/didChange":
		h.documentChange(conn, req)
	case "textDocument/didClose":
		h.documentClose(conn, req)
	case "textDocument/diagnostic":
		h.documentDiagnostics(conn, req)
	case "textDocument/hover":
		h.hoverRequest(conn, req)

	case "shutdown", "exit":
		conn.Reply(context.Background(), req.ID, nil)
		conn.Close()
	}
}

func replyInvalidParams(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	rpcErr := jsonrpc2.Error{}
	rpcErr.SetError("invalid parameters")
	conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
}

func (h *handler) handleInitialize(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := InitializeParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	result := InitializeResult{}
	result.Capabilities.TextDocumentSync = 1 // full document sync
	result.Capabilities.HoverProvider = true
	conn.Reply(context.Background(), req.ID, result)
}

func (h *handler) hoverRequest(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := TextDocumentPositionParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	doc := h.documents[decodedParams.TextDocument.URI]
	text, ok := hoverFor(doc.Text, decodedParams.Position)
	if !ok {
		conn.Reply(context.Background(), req.ID, nil)
		return
	}

	conn.Reply(context.Background(), req.ID, Hover{
		Contents: MarkupContent{
			Kind:  "markdown",
			Value: text,
		},
	})
}
