package resolve

import (
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
)

// Root resolves the properties of section sec of t against a parsed file.
//
// Properties allowed in the metadata section are looked up in the Metadata
// dictionary first, where the Type key is never reported. Data properties
// live in the Asset dictionary, or in the root itself when there is none.
// The Metadata property is never reported as unknown.
func Root(root *ir.Root, t *schema.AssetType, sec schema.Section, sink diag.Sink) (*Scope, []*Result) {
	s := NewScope(root.Data(), t.PropertiesFor(sec), sink)
	s.DataFunc = t.DataValue
	var skip []*ir.Node
	if mp := root.MetadataProperty(); mp != nil {
		s.Meta = mp.Value
		skip = append(skip, mp)
		// consumed by type selection
		if tp := mp.Value.Get("Type"); tp != nil {
			skip = append(skip, tp)
		}
	}
	if root.AssetProperty() != nil {
		s.Crumbs = Breadcrumbs{}.Section("Asset")
	}
	res := s.Resolve()
	s.ReportUnknown(skip...)
	return s, res
}
