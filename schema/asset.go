package schema

import (
	"strings"
)

// AssetType is a fully resolved asset type: its property lists include
// everything inherited from its parents.
type AssetType struct {
	Name string
	// LegacyNames are the values of a legacy "Type" key selecting this
	// type.
	LegacyNames []string
	Parent      *AssetType

	Properties   []*Property
	Localization []*Property
	BundleAssets []*Property

	// Data holds values of the type itself, read by "#Name" references.
	Data map[string]any
}

// PropertiesFor returns the property list for section s.
func (t *AssetType) PropertiesFor(s Section) []*Property {
	switch s {
	case LocalizationSection:
		return t.Localization
	case BundleAssetSection:
		return t.BundleAssets
	}
	return t.Properties
}

// Property returns the property of section s matching key or one of its
// aliases.
func (t *AssetType) Property(s Section, key string) *Property {
	for _, p := range t.PropertiesFor(s) {
		if p.Matches(key) {
			return p
		}
	}
	return nil
}

// Is reports whether t is name or inherits from it.
func (t *AssetType) Is(name string) bool {
	for at := t; at != nil; at = at.Parent {
		if strings.EqualFold(at.Name, name) {
			return true
		}
	}
	return false
}

// DataValue looks name up in the data of t and then of its parents.
func (t *AssetType) DataValue(name string) (any, bool) {
	for at := t; at != nil; at = at.Parent {
		for k, v := range at.Data {
			if strings.EqualFold(k, name) {
				return v, true
			}
		}
	}
	return nil, false
}

func (t *AssetType) String() string {
	return t.Name
}

// inherit merges parent into the property lists of t. A property declared
// by t replaces the parent's property with the same key.
func (t *AssetType) inherit(parent *AssetType) {
	t.Parent = parent
	if parent == nil {
		return
	}
	t.Properties = merge(parent.Properties, t.Properties)
	t.Localization = merge(parent.Localization, t.Localization)
	t.BundleAssets = merge(parent.BundleAssets, t.BundleAssets)
}

func merge(base, own []*Property) []*Property {
	res := make([]*Property, 0, len(base)+len(own))
outer:
	for _, b := range base {
		for _, o := range own {
			if strings.EqualFold(o.Key, b.Key) {
				continue outer
			}
		}
		res = append(res, b)
	}
	return append(res, own...)
}
