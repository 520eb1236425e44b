package parse

import (
	"fmt"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/token"
)

// ErrLazyBorrowed is the panic value when lazy parsing is requested of a
// tokenizer that does not own its text.
var ErrLazyBorrowed = fmt.Errorf("lazy parsing: %w", token.ErrNotOwned)
