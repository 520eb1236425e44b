package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/encode"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/workspace"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"go.uber.org/zap"
)

type MainConfig struct {
	Schema  string `cli:"name=schema desc='schema definition directory' default=schema"`
	Color   bool   `cli:"name=color desc='output in color'"`
	Verbose bool   `cli:"name=v desc='log schema and workspace activity to stderr'"`
	Lazy    bool   `cli:"name=lazy desc='defer parsing blocks until they are read'"`

	Main *cli.Command

	logger *zap.Logger
}

func datcheckMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.logger != nil {
			_ = cfg.logger.Sync()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) Logger() *zap.Logger {
	if cfg.logger != nil {
		return cfg.logger
	}
	cfg.logger = zap.NewNop()
	if cfg.Verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			cfg.logger = l
		}
	}
	return cfg.logger
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{parse.ParseLazy(cfg.Lazy)}
}

func (cfg *MainConfig) workspace() *workspace.Workspace {
	db := schema.NewDatabase(schema.DirSource{Dir: cfg.Schema}, schema.WithLogger(cfg.Logger()))
	return workspace.New(db,
		workspace.WithLogger(cfg.Logger()),
		workspace.WithParseOptions(cfg.parseOpts()...))
}

// useColor decides coloring for w: the -color flag when given, otherwise
// whether w is a terminal.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		color.NoColor = false
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return false
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	if cfg.useColor(w) {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	return nil
}

// datFiles expands args to the DAT files they name. Directories are walked.
// No args means the current directory.
func datFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	var res []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			res = append(res, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && workspace.IsDatFile(p) {
				res = append(res, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

type CheckConfig struct {
	*MainConfig
	Warn  bool `cli:"name=W desc='fail on warnings too'"`
	Quiet bool `cli:"name=q desc='print only the summary'"`
	Check *cli.Command
}

type TokensConfig struct {
	*MainConfig
	Meta   bool `cli:"name=m desc='include comments and blank lines'"`
	Tokens *cli.Command
}

type TreeConfig struct {
	*MainConfig
	Meta bool `cli:"name=m desc='include comments and blank lines'"`
	Tree *cli.Command
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

type FmtConfig struct {
	*MainConfig
	Diff     bool `cli:"name=d desc='print a diff instead of the formatted text'"`
	Write    bool `cli:"name=w desc='write the result back to the file'"`
	Comments bool `cli:"name=c desc='keep comments and blank lines' default=true"`
	Fmt      *cli.Command
}

type WatchConfig struct {
	*MainConfig
	Watch *cli.Command
}
