package eval

import (
	"errors"
	"fmt"
)

var (
	ErrBadValue     = errors.New("bad value")
	ErrBadCondition = fmt.Errorf("%w: bad condition", ErrBadValue)
	ErrExpr         = fmt.Errorf("%w: bad expression", ErrBadValue)
	ErrSymbolExists = errors.New("symbol exists")
)
