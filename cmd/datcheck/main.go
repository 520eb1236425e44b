package main

import (
	"context"

	_ "github.com/DanielWillett/unturned-asset-file-vscode-sub007/types"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
