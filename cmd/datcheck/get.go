package main

import (
	"fmt"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/encode"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a node path", cli.ErrUsage)
	}
	path := args[0]
	if path == "" {
		return fmt.Errorf("%w: invalid query \"\"", cli.ErrUsage)
	}
	if path[0] != '$' {
		path = "$" + path
	}
	opts := cfg.encOpts(cc.Out)
	return eachInput(cc, args[1:], func(name string, d []byte) error {
		root := parse.Parse(d, cfg.parseOpts()...)
		nodes, err := root.Select(path)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, n := range nodes {
			if len(args) > 2 {
				fmt.Fprintf(cc.Out, "%s %s:\n", name, n.Path())
			}
			if err := encode.Encode(n, cc.Out, opts...); err != nil {
				return err
			}
		}
		return nil
	})
}
