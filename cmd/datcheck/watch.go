package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/workspace"

	"github.com/fsnotify/fsnotify"
	"github.com/scott-cotton/cli"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		return err
	}
	paths, err := datFiles(args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ws := cfg.workspace()
	p := newPrinter(cc.Out, cfg.useColor(cc.Out))
	files, err := ws.LoadAll(ctx, paths)
	if err != nil {
		return err
	}
	for _, f := range files {
		for _, d := range f.Diagnostics() {
			p.diagnostic(f, d)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	dirs := map[string]bool{}
	for _, path := range paths {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	fmt.Fprintf(cc.Out, "watching %d directories\n", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !workspace.IsDatFile(event.Name) || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := recheck(ctx, ws, p, event.Name); err != nil {
				cfg.Logger().Warn("recheck failed", zap.String("file", event.Name), zap.Error(err))
				fmt.Fprintf(cc.Out, "%s: %v\n", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.Logger().Warn("watcher error", zap.Error(err))
		}
	}
}

func recheck(ctx context.Context, ws *workspace.Workspace, p *printer, name string) error {
	d, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	f, err := ws.Open(uri.File(abs), d, 0)
	if err != nil {
		return err
	}
	l, err := ws.Check(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.w, "%s: %d diagnostics\n", name, len(l))
	for _, d := range l {
		p.diagnostic(f, d)
	}
	return nil
}
