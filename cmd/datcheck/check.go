package main

import (
	"context"
	"fmt"
	"io"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/workspace"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	paths, err := datFiles(args)
	if err != nil {
		return err
	}
	ws := cfg.workspace()
	files, err := ws.LoadAll(context.Background(), paths)
	if err != nil {
		return err
	}
	p := newPrinter(cc.Out, cfg.useColor(cc.Out))
	var counts [diag.Hint + 1]int
	failed := false
	for _, f := range files {
		for _, d := range f.Diagnostics() {
			counts[d.Severity]++
			if d.Severity == diag.Error || (cfg.Warn && d.Severity == diag.Warning) {
				failed = true
			}
			if !cfg.Quiet {
				p.diagnostic(f, d)
			}
		}
	}
	fmt.Fprintf(cc.Out, "%d files: %d errors, %d warnings\n", len(files), counts[diag.Error], counts[diag.Warning])
	if failed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

type printer struct {
	w        io.Writer
	severity map[diag.Severity]func(string, ...any) string
	loc      func(string, ...any) string
}

func newPrinter(w io.Writer, colored bool) *printer {
	p := &printer{w: w, severity: map[diag.Severity]func(string, ...any) string{}, loc: fmt.Sprintf}
	for _, s := range []diag.Severity{diag.Error, diag.Warning, diag.Information, diag.Hint} {
		p.severity[s] = fmt.Sprintf
	}
	if !colored {
		return p
	}
	p.severity[diag.Error] = color.New(color.FgRed, color.Bold).SprintfFunc()
	p.severity[diag.Warning] = color.YellowString
	p.severity[diag.Information] = color.CyanString
	p.severity[diag.Hint] = color.New(color.Faint).SprintfFunc()
	p.loc = color.New(color.Bold).SprintfFunc()
	return p
}

// diagnostic prints d as "file:line:col: severity CODE: message".
func (p *printer) diagnostic(f *workspace.File, d diag.Diagnostic) {
	loc := p.loc("%s:%d:%d", f.URI.Filename(), d.Range.Start.Line, d.Range.Start.Column)
	sev := p.severity[d.Severity]("%s", d.Severity)
	fmt.Fprintf(p.w, "%s: %s %s: %s\n", loc, sev, d.Code, d.Message)
}
