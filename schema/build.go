package schema

import (
	"fmt"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/eval"
)

// ObjectFactory is the factory id compound object types are built with.
// The object's name is passed as the "Name" argument.
const ObjectFactory = "Object"

// Compound is a Type holding its own property list.
type Compound interface {
	Type
	SetProperties(props []*Property)
	Properties() []*Property
}

// Builder turns definitions into types. It resolves enum tables and named
// objects against an Index. A Builder is not safe for concurrent use.
type Builder struct {
	idx     *Index
	objects map[string]Compound
}

func NewBuilder(idx *Index) *Builder {
	if idx == nil {
		idx = &Index{}
	}
	return &Builder{idx: idx, objects: map[string]Compound{}}
}

// Type builds the type referenced by raw, a type id or an object holding
// one.
func (b *Builder) Type(raw any) (Type, error) {
	s, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	if f := LookupFactory(s.ID); f != nil {
		return f(s, b)
	}
	if _, ok := b.objectDefs(s.ID); ok {
		return b.Object(s.ID)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, s.ID)
}

// Enum returns the values of the enum table name.
func (b *Builder) Enum(name string) ([]string, bool) {
	for k, v := range b.idx.Enums {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func (b *Builder) objectDefs(name string) ([]PropertyDef, bool) {
	for k, v := range b.idx.Objects {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// Object returns the compound type name. Objects are built once; an object
// may contain itself.
func (b *Builder) Object(name string) (Type, error) {
	k := strings.ToLower(name)
	if t, ok := b.objects[k]; ok {
		return t, nil
	}
	defs, ok := b.objectDefs(name)
	if !ok {
		return nil, fmt.Errorf("%w: object %q", ErrUnknownType, name)
	}
	f := LookupFactory(ObjectFactory)
	if f == nil {
		return nil, fmt.Errorf("%w: no %s factory", ErrUnknownType, ObjectFactory)
	}
	t, err := f(Spec{ID: ObjectFactory, Args: map[string]any{"Name": name}}, b)
	if err != nil {
		return nil, err
	}
	c, ok := t.(Compound)
	if !ok {
		panic(fmt.Sprintf("%s factory returned %T, not a Compound", ObjectFactory, t))
	}
	b.objects[k] = c
	props, err := b.Properties(name, defs)
	if err != nil {
		delete(b.objects, k)
		return nil, err
	}
	c.SetProperties(props)
	return c, nil
}

// Properties builds the properties declared by owner.
func (b *Builder) Properties(owner string, defs []PropertyDef) ([]*Property, error) {
	res := make([]*Property, 0, len(defs))
	for i := range defs {
		p, err := b.Property(owner, &defs[i])
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

func (b *Builder) Property(owner string, d *PropertyDef) (*Property, error) {
	if d.Key == "" {
		return nil, fmt.Errorf("%w: %s: property without a key", ErrBadDefinition, owner)
	}
	t, err := b.Type(d.Type)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", owner, d.Key, err)
	}
	p := &Property{
		Key:             d.Key,
		Aliases:         d.Aliases,
		Type:            t,
		Required:        d.Required,
		Deprecated:      d.Deprecated,
		CanBeInMetadata: d.CanBeInMetadata,
		SingularKey:     d.SingularKey,
		Description:     d.Description,
		Owner:           owner,
	}
	if p.Default, err = parseDefault(d.Default); err != nil {
		return nil, fmt.Errorf("%s.%s: default: %w", owner, d.Key, err)
	}
	if p.IncludedDefault, err = parseDefault(d.IncludedDefault); err != nil {
		return nil, fmt.Errorf("%s.%s: included default: %w", owner, d.Key, err)
	}
	return p, nil
}

func parseDefault(raw any) (eval.Value, error) {
	if raw == nil {
		return nil, nil
	}
	return eval.Parse(raw)
}

// AssetType builds the type defined by d on top of parent, which may be
// nil.
func (b *Builder) AssetType(d *TypeDef, parent *AssetType) (*AssetType, error) {
	name := NormalizeName(d.Name)
	t := &AssetType{Name: name, LegacyNames: d.LegacyNames, Data: d.Data}
	var err error
	if t.Properties, err = b.Properties(name, d.Properties); err != nil {
		return nil, err
	}
	if t.Localization, err = b.Properties(name, d.Localization); err != nil {
		return nil, err
	}
	if t.BundleAssets, err = b.Properties(name, d.BundleAssets); err != nil {
		return nil, err
	}
	t.inherit(parent)
	return t, nil
}
