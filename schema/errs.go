package schema

import "errors"

var (
	ErrUnknownType    = errors.New("unknown type")
	ErrBadDefinition  = errors.New("bad definition")
	ErrCircularParent = errors.New("circular parent")
	ErrFactoryExists  = errors.New("type factory already registered")
	ErrUnknownFormat  = errors.New("unknown definition format")
)
