package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
	_ "github.com/DanielWillett/unturned-asset-file-vscode-sub007/types"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/workspace"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

const lsName = "dat-lsp"

var (
	version = "0.0.1"
)

type MainConfig struct {
	Schema  string `cli:"name=schema desc='schema definition directory' default=schema"`
	Verbose bool   `cli:"name=v desc='log requests and rebuilds to stderr'"`
	Lazy    bool   `cli:"name=lazy desc='defer parsing blocks until they are read'"`
	Gops    bool   `cli:"name=gops desc='start a gops diagnostics agent'"`

	Main *cli.Command
}

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{Schema: "schema"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, lsName).
		WithSynopsis("dat-lsp [opts]").
		WithDescription("dat-lsp serves DAT diagnostics, hovers and formatting over stdio.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}

func serve(cfg *MainConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Main.Parse(cc, args); err != nil {
		return err
	}
	logger := zap.NewNop()
	if cfg.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Warn("gops agent", zap.Error(err))
		}
		defer agent.Close()
	}

	db := schema.NewDatabase(schema.DirSource{Dir: cfg.Schema}, schema.WithLogger(logger))
	ws := workspace.New(db,
		workspace.WithLogger(logger),
		workspace.WithParseOptions(parse.ParseLazy(cfg.Lazy)))

	ctx := context.Background()
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	server := newServer(ws, logger)
	handler := protocol.ServerHandler(server, nil)
	conn := jsonrpc2.NewConn(stream)
	server.conn = conn
	conn.Go(ctx, handler)
	logger.Info("serving", zap.String("schema", cfg.Schema))
	<-conn.Done()
	if err := conn.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
