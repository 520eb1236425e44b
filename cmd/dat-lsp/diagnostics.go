package main

import (
	"context"
	"errors"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/workspace"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

const diagSource = "dat"

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	return s.update(ctx, uri.URI(doc.URI), []byte(doc.Text), doc.Version)
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change holds the whole document.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	return s.update(ctx, uri.URI(params.TextDocument.URI), []byte(text), params.TextDocument.Version)
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	u := uri.URI(params.TextDocument.URI)
	s.ws.Close(u)
	// Clear what the editor shows for the closed file.
	return s.notify(ctx, u, []protocol.Diagnostic{})
}

func (s *Server) update(ctx context.Context, u uri.URI, text []byte, version int32) error {
	f, err := s.ws.Open(u, text, version)
	if err != nil {
		if !errors.Is(err, workspace.ErrRebuild) || f == nil {
			return err
		}
		s.logger.Warn("rebuild", zap.String("uri", string(u)), zap.Error(err))
	}
	return s.publishDiagnostics(ctx, f)
}

func (s *Server) publishDiagnostics(ctx context.Context, f *workspace.File) error {
	l, err := s.ws.Check(ctx, f)
	if err != nil {
		s.logger.Warn("check", zap.String("uri", string(f.URI)), zap.Error(err))
		l = f.Diagnostics()
	}
	return s.notify(ctx, f.URI, toProtocolDiagnostics(f.Tree().Doc, l))
}

func (s *Server) notify(ctx context.Context, u uri.URI, diagnostics []protocol.Diagnostic) error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(u),
		Diagnostics: diagnostics,
	})
}

func toProtocolDiagnostics(doc *pos.Doc, l diag.List) []protocol.Diagnostic {
	res := make([]protocol.Diagnostic, 0, len(l))
	for _, d := range l {
		pd := protocol.Diagnostic{
			Range:    toProtocolRange(doc, d.Range),
			Severity: toProtocolSeverity(d.Severity),
			Code:     string(d.Code),
			Source:   diagSource,
			Message:  d.Message,
		}
		for _, t := range d.Tags {
			switch t {
			case diag.TagUnnecessary:
				pd.Tags = append(pd.Tags, protocol.DiagnosticTagUnnecessary)
			case diag.TagDeprecated:
				pd.Tags = append(pd.Tags, protocol.DiagnosticTagDeprecated)
			}
		}
		res = append(res, pd)
	}
	return res
}

func toProtocolSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	case diag.Information:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}
