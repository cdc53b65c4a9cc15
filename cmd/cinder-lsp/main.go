// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"cinder/internal/lsp"
)

const lsName = "cinder" // Name identifier for the language server

var handler protocol.Handler

func main() {
	// 1 = debug level, nil = default logger
	commonlog.Configure(1, nil)

	cinderHandler := lsp.NewCinderHandler()

	handler = protocol.Handler{
		Initialize:                     cinderHandler.Initialize,
		Initialized:                    cinderHandler.Initialized,
		Shutdown:                       cinderHandler.Shutdown,
		SetTrace:                       cinderHandler.SetTrace,
		TextDocumentDidOpen:            cinderHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           cinderHandler.TextDocumentDidClose,
		TextDocumentDidChange:          cinderHandler.TextDocumentDidChange,
		TextDocumentCompletion:         cinderHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: cinderHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting Cinder LSP server...")

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting Cinder LSP server:", err)
		os.Exit(1)
	}
}
