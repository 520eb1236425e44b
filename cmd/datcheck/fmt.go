package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/encode"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"

	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func fmtFiles(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Write && len(args) == 0 {
		return fmt.Errorf("%w: -w needs files", cli.ErrUsage)
	}
	colored := cfg.useColor(cc.Out)
	changed := false
	err = eachInput(cc, args, func(name string, d []byte) error {
		root := parse.Parse(d, append(cfg.parseOpts(), parse.ParseMetadata(cfg.Comments))...)
		buf := bytes.NewBuffer(nil)
		if err := encode.Encode(&root.Node, buf, encode.EncodeComments(cfg.Comments)); err != nil {
			return err
		}
		out := buf.Bytes()
		same := bytes.Equal(d, out)
		changed = changed || !same
		switch {
		case cfg.Write:
			if same {
				return nil
			}
			fi, err := os.Stat(name)
			if err != nil {
				return err
			}
			return os.WriteFile(name, out, fi.Mode())
		case cfg.Diff:
			if same {
				return nil
			}
			fmt.Fprintf(cc.Out, "--- %s\n+++ %s (formatted)\n", name, name)
			_, err := cc.Out.Write([]byte(textDiff(string(d), string(out), colored)))
			return err
		}
		_, err := cc.Out.Write(out)
		return err
	})
	if err != nil {
		return err
	}
	if cfg.Diff && changed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// textDiff renders the changes from a to b, as colored text on terminals
// and as patch hunks otherwise.
func textDiff(a, b string, colored bool) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	if colored {
		return dmp.DiffPrettyText(diffs)
	}
	return dmp.PatchToText(dmp.PatchMake(a, diffs))
}
