package diag

// Code identifies a kind of diagnostic. Codes in the 1xxx range are lexical,
// 2xxx structural and 3xxx semantic.
type Code string

const (
	// lexical
	UnterminatedQuote  Code = "DAT1001"
	UnrecognizedEscape Code = "DAT1002"
	UnnecessaryComma   Code = "DAT1003"
	StrayValue         Code = "DAT1004"
	UnexpectedToken    Code = "DAT1005"
	EmptyKey           Code = "DAT1006"
	TrailingContent    Code = "DAT1007"

	// structural
	MissingClosingBracket Code = "DAT2001"
	MaxDepthExceeded      Code = "DAT2002"
	StrayClosingBracket   Code = "DAT2003"

	// semantic
	WrongShape         Code = "DAT3001"
	InvalidValue       Code = "DAT3002"
	UnknownProperty    Code = "DAT3003"
	DuplicateValue     Code = "DAT3004"
	DanglingReference  Code = "DAT3005"
	TooFewElements     Code = "DAT3006"
	TooManyElements    Code = "DAT3007"
	MissingRequired    Code = "DAT3008"
	DeprecatedProperty Code = "DAT3009"
	InvalidKey         Code = "DAT3010"
	DuplicateProperty  Code = "DAT3011"
	MissingElement     Code = "DAT3012"
	CircularReference  Code = "DAT3013"
	MissingValue       Code = "DAT3014"
	MetadataOnly       Code = "DAT3015"
	UnknownType        Code = "DAT3016"
)

var codeInfo = map[Code]struct {
	sev  Severity
	tag  Tag
	desc string
}{
	UnterminatedQuote:     {Warning, 0, "unterminated quoted string"},
	UnrecognizedEscape:    {Warning, 0, "unrecognized escape sequence"},
	UnnecessaryComma:      {Warning, TagUnnecessary, "unnecessary comma"},
	StrayValue:            {Warning, 0, "stray value"},
	UnexpectedToken:       {Warning, 0, "unexpected token"},
	EmptyKey:              {Warning, 0, "empty key"},
	TrailingContent:       {Warning, 0, "trailing content"},
	MissingClosingBracket: {Error, 0, "missing closing bracket"},
	MaxDepthExceeded:      {Error, 0, "maximum depth exceeded"},
	StrayClosingBracket:   {Warning, 0, "stray closing bracket"},
	WrongShape:            {Error, 0, "wrong value shape"},
	InvalidValue:          {Error, 0, "invalid value"},
	UnknownProperty:       {Warning, 0, "unknown property"},
	DuplicateValue:        {Warning, 0, "duplicate value"},
	DanglingReference:     {Warning, 0, "dangling reference"},
	TooFewElements:        {Warning, 0, "too few elements"},
	TooManyElements:       {Warning, 0, "too many elements"},
	MissingRequired:       {Error, 0, "missing required property"},
	DeprecatedProperty:    {Hint, TagDeprecated, "deprecated property"},
	InvalidKey:            {Warning, 0, "invalid key"},
	DuplicateProperty:     {Warning, 0, "duplicate property"},
	MissingElement:        {Warning, 0, "missing list element"},
	CircularReference:     {Error, 0, "circular reference"},
	MissingValue:          {Warning, 0, "missing value"},
	MetadataOnly:          {Warning, 0, "property not allowed in this section"},
	UnknownType:           {Warning, 0, "unknown asset type"},
}

func (c Code) Severity() Severity {
	if i, ok := codeInfo[c]; ok {
		return i.sev
	}
	return Error
}

// Description returns a short human readable summary of the code.
func (c Code) Description() string {
	if i, ok := codeInfo[c]; ok {
		return i.desc
	}
	return string(c)
}

func (c Code) tag() Tag {
	return codeInfo[c].tag
}

// IsLexical reports whether c is a tokenizer diagnostic.
func (c Code) IsLexical() bool {
	return len(c) == 7 && c[3] == '1'
}

func (c Code) IsStructural() bool {
	return len(c) == 7 && c[3] == '2'
}

func (c Code) IsSemantic() bool {
	return len(c) == 7 && c[3] == '3'
}
