package workspace

import "errors"

var (
	ErrDecode   = errors.New("cannot decode file")
	ErrRebuild  = errors.New("rebuild failed")
	ErrNotOpen  = errors.New("file not open")
	ErrNoSchema = errors.New("no asset type for file")
)
