package token

import "errors"

var (
	// ErrNotOwned is the panic value when an operation needing an owned copy
	// of the text is requested of a tokenizer borrowing its input.
	ErrNotOwned = errors.New("tokenizer does not own its input")
)
