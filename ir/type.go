package ir

import "fmt"

type Type int

const (
	DictionaryType Type = iota
	ListType
	PropertyType
	ValueType
	CommentType
	WhitespaceType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		DictionaryType: "Dictionary",
		ListType:       "List",
		PropertyType:   "Property",
		ValueType:      "Value",
		CommentType:    "Comment",
		WhitespaceType: "Whitespace",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Dictionary": DictionaryType,
		"List":       ListType,
		"Property":   PropertyType,
		"Value":      ValueType,
		"Comment":    CommentType,
		"Whitespace": WhitespaceType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		DictionaryType,
		ListType,
		PropertyType,
		ValueType,
		CommentType,
		WhitespaceType,
	}
}

// IsContainer reports whether nodes of type t hold children.
func (t Type) IsContainer() bool {
	return t == DictionaryType || t == ListType
}

// IsTrivia reports whether nodes of type t carry no data.
func (t Type) IsTrivia() bool {
	return t == CommentType || t == WhitespaceType
}
