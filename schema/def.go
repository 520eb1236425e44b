package schema

import (
	"fmt"
	"strings"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/eval"
)

// PropertyDef is a property as written in a definition file.
type PropertyDef struct {
	Key     string   `json:"Key" yaml:"Key"`
	Aliases []string `json:"Aliases,omitempty" yaml:"Aliases,omitempty"`
	// Type is a type id, or an object with a "Type" id and the type's
	// arguments.
	Type            any    `json:"Type" yaml:"Type"`
	Required        bool   `json:"Required,omitempty" yaml:"Required,omitempty"`
	Default         any    `json:"Default,omitempty" yaml:"Default,omitempty"`
	IncludedDefault any    `json:"IncludedDefault,omitempty" yaml:"IncludedDefault,omitempty"`
	Deprecated      bool   `json:"Deprecated,omitempty" yaml:"Deprecated,omitempty"`
	CanBeInMetadata bool   `json:"CanBeInMetadata,omitempty" yaml:"CanBeInMetadata,omitempty"`
	SingularKey     string `json:"SingularKey,omitempty" yaml:"SingularKey,omitempty"`
	Description     string `json:"Description,omitempty" yaml:"Description,omitempty"`
}

// TypeDef is an asset type as written in a definition file.
type TypeDef struct {
	Name         string         `json:"Type" yaml:"Type"`
	Parent       string         `json:"Parent,omitempty" yaml:"Parent,omitempty"`
	LegacyNames  []string       `json:"LegacyNames,omitempty" yaml:"LegacyNames,omitempty"`
	Properties   []PropertyDef  `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	Localization []PropertyDef  `json:"Localization,omitempty" yaml:"Localization,omitempty"`
	BundleAssets []PropertyDef  `json:"BundleAssets,omitempty" yaml:"BundleAssets,omitempty"`
	Data         map[string]any `json:"Data,omitempty" yaml:"Data,omitempty"`
}

// Index holds the definitions shared by all types.
type Index struct {
	// Aliases maps legacy "Type" values to qualified type names.
	Aliases map[string]string `json:"Aliases,omitempty" yaml:"Aliases,omitempty"`
	// Enums are closed string tables, such as skill names.
	Enums map[string][]string `json:"Enums,omitempty" yaml:"Enums,omitempty"`
	// Objects are compound types usable as property types by name.
	Objects map[string][]PropertyDef `json:"Objects,omitempty" yaml:"Objects,omitempty"`
}

// Spec is a decoded type reference: an id plus arguments.
type Spec struct {
	ID   string
	Args map[string]any
}

// ParseSpec decodes a PropertyDef.Type value.
func ParseSpec(raw any) (Spec, error) {
	switch x := raw.(type) {
	case string:
		if x == "" {
			break
		}
		return Spec{ID: x}, nil
	case map[string]any:
		for k, v := range x {
			if strings.EqualFold(k, "Type") {
				id, ok := v.(string)
				if !ok || id == "" {
					break
				}
				return Spec{ID: id, Args: x}, nil
			}
		}
	}
	return Spec{}, fmt.Errorf("%w: type must be an id or an object with a Type, got %v", ErrBadDefinition, raw)
}

// Get returns argument key, ignoring case.
func (s Spec) Get(key string) (any, bool) {
	for k, v := range s.Args {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func (s Spec) String(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

func (s Spec) Bool(key string) bool {
	v, _ := s.Get(key)
	return eval.Truth(v)
}

// Int returns argument key as an int, or def when absent.
func (s Spec) Int(key string, def int) (int, error) {
	v, ok := s.Get(key)
	if !ok {
		return def, nil
	}
	f, ok := eval.ToFloat(v)
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %s: %s must be an integer, got %v", ErrBadDefinition, s.ID, key, v)
	}
	return int(f), nil
}

// Float returns argument key as a float and whether it is present.
func (s Spec) Float(key string) (float64, bool, error) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false, nil
	}
	f, ok := eval.ToFloat(v)
	if !ok {
		return 0, false, fmt.Errorf("%w: %s: %s must be a number, got %v", ErrBadDefinition, s.ID, key, v)
	}
	return f, true, nil
}

func (s Spec) Strings(key string) ([]string, error) {
	v, ok := s.Get(key)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s must be a list", ErrBadDefinition, s.ID, key)
	}
	res := make([]string, len(list))
	for i, e := range list {
		if res[i], ok = e.(string); !ok {
			return nil, fmt.Errorf("%w: %s: %s[%d] must be a string", ErrBadDefinition, s.ID, key, i)
		}
	}
	return res, nil
}

// Value parses argument key with eval.Parse. It returns nil when absent.
func (s Spec) Value(key string) (eval.Value, error) {
	v, ok := s.Get(key)
	if !ok || v == nil {
		return nil, nil
	}
	res, err := eval.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", s.ID, key, err)
	}
	return res, nil
}
