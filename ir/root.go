package ir

import (
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
)

// FileKind classifies a document.
type FileKind int

const (
	KindOther FileKind = iota
	KindAsset
	KindLocalization
)

func (k FileKind) String() string {
	s, ok := map[FileKind]string{
		KindOther:        "Other",
		KindAsset:        "Asset",
		KindLocalization: "Localization",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// AdditionalProperty is a "// @Key Value" line from the head of a file.
type AdditionalProperty struct {
	Key   string
	Value string
	Range pos.Range
}

// Root is the top dictionary of a document. It has no brackets and is
// neither closed nor unclosed.
type Root struct {
	Node
	Kind       FileKind
	Additional []AdditionalProperty
	Doc        *pos.Doc

	late diag.Collector
}

func NewRoot(doc *pos.Doc, kind FileKind) *Root {
	r := &Root{Kind: kind, Doc: doc}
	r.Node.Type = DictionaryType
	r.Node.Closed = true
	r.Node.Range = doc.Range(0, doc.Len())
	r.Node.root = r
	return r
}

// NewValueRoot returns the root of a document holding bare values rather
// than properties. It acts as a list with no brackets.
func NewValueRoot(doc *pos.Doc) *Root {
	r := NewRoot(doc, KindOther)
	r.Node.Type = ListType
	return r
}

// LateSink receives diagnostics produced while materializing lazy subtrees.
func (r *Root) LateSink() diag.Sink {
	return &r.late
}

// LateDiagnostics returns the diagnostics produced so far by lazy
// materialization.
func (r *Root) LateDiagnostics() diag.List {
	return r.late.Snapshot()
}

// AdditionalProperty returns the value of the header property key.
func (r *Root) AdditionalProperty(key string) (string, bool) {
	for i := range r.Additional {
		if strings.EqualFold(r.Additional[i].Key, key) {
			return r.Additional[i].Value, true
		}
	}
	return "", false
}

// MetadataProperty returns the root "Metadata" property if its value is a
// dictionary.
func (r *Root) MetadataProperty() *Node {
	return r.sectionProperty("Metadata")
}

// AssetProperty returns the root "Asset" property if its value is a
// dictionary.
func (r *Root) AssetProperty() *Node {
	return r.sectionProperty("Asset")
}

func (r *Root) sectionProperty(key string) *Node {
	p := r.Get(key)
	if p == nil || p.Value == nil || p.Value.Type != DictionaryType {
		return nil
	}
	return p
}

// Metadata returns the metadata section, or nil.
func (r *Root) Metadata() *Node {
	if p := r.MetadataProperty(); p != nil {
		return p.Value
	}
	return nil
}

// Asset returns the "Asset" section, or nil.
func (r *Root) Asset() *Node {
	if p := r.AssetProperty(); p != nil {
		return p.Value
	}
	return nil
}

// Data returns the dictionary holding the data properties: the Asset
// section if there is one, otherwise the root itself.
func (r *Root) Data() *Node {
	if a := r.Asset(); a != nil {
		return a
	}
	return &r.Node
}

// IsModern reports whether the document has a Metadata section.
func (r *Root) IsModern() bool {
	return r.MetadataProperty() != nil
}
