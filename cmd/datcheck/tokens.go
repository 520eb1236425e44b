package main

import (
	"fmt"
	"io"
	"os"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/token"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/workspace"

	"github.com/scott-cotton/cli"
)

func tokens(cfg *TokensConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tokens.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachInput(cc, args, func(name string, d []byte) error {
		doc := pos.NewDoc(d)
		for _, t := range token.Tokenize(d, token.TokenMetadata(cfg.Meta)) {
			line, col := doc.LineCol(t.Start)
			fmt.Fprintf(cc.Out, "%d:%d\t%s\n", line, col, t.String())
		}
		return nil
	})
}

// eachInput calls f with the decoded contents of every file in args, or
// of standard input when args is empty.
func eachInput(cc *cli.Context, args []string, f func(name string, d []byte) error) error {
	if len(args) == 0 {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return fmt.Errorf("error reading: %w", err)
		}
		if d, err = workspace.Decode(d); err != nil {
			return err
		}
		return f("-", d)
	}
	for _, arg := range args {
		d, err := os.ReadFile(arg)
		if err != nil {
			return fmt.Errorf("could not open %q: %w", arg, err)
		}
		if d, err = workspace.Decode(d); err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		if err := f(arg, d); err != nil {
			return fmt.Errorf("error processing %s: %w", arg, err)
		}
	}
	return nil
}
