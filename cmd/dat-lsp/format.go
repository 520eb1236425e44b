package main

import (
	"bytes"
	"context"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/encode"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

func (s *Server) Formatting(ctx context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	f, ok := s.ws.Get(uri.URI(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	text := f.Text()
	root := parse.Parse(text, parse.ParseKind(f.Kind), parse.ParseMetadata(true))

	indent := "\t"
	if params.Options.InsertSpaces && params.Options.TabSize > 0 {
		indent = string(bytes.Repeat([]byte{' '}, int(params.Options.TabSize)))
	}
	var buf bytes.Buffer
	err := encode.Encode(&root.Node, &buf,
		encode.EncodeComments(true),
		encode.EncodeIndent(indent))
	if err != nil {
		s.logger.Warn("format", zap.String("uri", string(f.URI)), zap.Error(err))
		return nil, nil
	}
	if bytes.Equal(buf.Bytes(), text) {
		return nil, nil
	}
	return []protocol.TextEdit{{
		Range:   toProtocolRange(root.Doc, root.Doc.Range(0, root.Doc.Len())),
		NewText: buf.String(),
	}}, nil
}
