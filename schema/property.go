package schema

import (
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/eval"
)

// Section selects which property list of an asset type applies to a file.
type Section int

const (
	PropertySection Section = iota
	LocalizationSection
	BundleAssetSection
)

func (s Section) String() string {
	switch s {
	case PropertySection:
		return "Properties"
	case LocalizationSection:
		return "Localization"
	case BundleAssetSection:
		return "BundleAssets"
	}
	return "<unknown section>"
}

// Dialect restricts which syntax family a value may be written in. Inside a
// legacy numbered template only legacy shaped keys match, inside a modern
// block only modern shapes do.
type Dialect int

const (
	AnyDialect Dialect = iota
	Modern
	Legacy
)

func (d Dialect) String() string {
	switch d {
	case Modern:
		return "Modern"
	case Legacy:
		return "Legacy"
	}
	return "Any"
}

func (d Dialect) AllowsModern() bool { return d != Legacy }
func (d Dialect) AllowsLegacy() bool { return d != Modern }

// MissingBehavior decides what a type parser does when no node exists.
type MissingBehavior int

const (
	MissingUseDefault MissingBehavior = iota
	MissingFail
)

// Trimming tells the resolver how far a type may look for its value when
// the property's own key is absent.
type Trimming int

const (
	// ExactOnly types are found by key only.
	ExactOnly Trimming = iota
	// CreatesSiblings types may be written as numbered sibling keys.
	CreatesSiblings
	// CreatesOtherPropertiesSameLevel types may be spread over prefixed
	// keys in the same dictionary.
	CreatesOtherPropertiesSameLevel
	CreatesOtherPropertiesSameFile
	CreatesOtherPropertiesInLinkedFiles
)

// Property is one declared property of an asset type or object.
type Property struct {
	Key     string
	Aliases []string
	Type    Type
	// Required properties are reported when missing.
	Required bool
	// Default is used when the key is absent, IncludedDefault when the key
	// is present without a value. A nil IncludedDefault falls back to
	// Default.
	Default         eval.Value
	IncludedDefault eval.Value
	Deprecated      bool
	CanBeInMetadata bool
	// SingularKey overrides the key legacy list elements are numbered
	// from.
	SingularKey string
	Description string

	// Owner is the asset type or object declaring the property.
	Owner string
}

// Keys returns the key followed by the aliases.
func (p *Property) Keys() []string {
	return append([]string{p.Key}, p.Aliases...)
}

// Matches reports whether key names p, ignoring case.
func (p *Property) Matches(key string) bool {
	if strings.EqualFold(p.Key, key) {
		return true
	}
	for _, a := range p.Aliases {
		if strings.EqualFold(a, key) {
			return true
		}
	}
	return false
}

// Singular returns the key legacy list elements are numbered from: the
// SingularKey if set, otherwise Key minus a trailing 's'.
func (p *Property) Singular() string {
	if p.SingularKey != "" {
		return p.SingularKey
	}
	return Singular(p.Key)
}

// Singular strips one trailing 's' or 'S' from key.
func Singular(key string) string {
	if n := len(key); n > 1 && (key[n-1] == 's' || key[n-1] == 'S') {
		return key[:n-1]
	}
	return key
}

// TrimmingOf returns the trimming behavior of t.
func TrimmingOf(t Type) Trimming {
	if tt, ok := t.(interface{ Trimming() Trimming }); ok {
		return tt.Trimming()
	}
	return ExactOnly
}

func (p *Property) String() string {
	if p.Owner == "" {
		return p.Key
	}
	return p.Owner + "." + p.Key
}

// ElementOf returns the element type of a list type or the value type of a
// dictionary type, and nil for other types.
func ElementOf(t Type) Type {
	if c, ok := t.(interface{ Element() Type }); ok {
		return c.Element()
	}
	return nil
}
