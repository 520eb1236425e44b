package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Format is the encoding of a definition file.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Decode decodes a definition document into v.
func Decode(d []byte, f Format, v any) error {
	switch f {
	case JSON:
		return json.Unmarshal(d, v)
	case YAML:
		return yaml.Unmarshal(d, v)
	}
	return ErrUnknownFormat
}

// LoadFile decodes the definition file at path into v.
func LoadFile(path string, v any) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Decode(d, f, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Source provides definitions to a Database.
type Source interface {
	Index(ctx context.Context) (*Index, error)
	// Type returns the definition of the type with the qualified name.
	// It returns an error wrapping ErrUnknownType when there is none.
	Type(ctx context.Context, name string) (*TypeDef, error)
}

var extensions = []string{".json", ".yaml", ".yml"}

// DirSource reads definitions from a directory: the index from
// "index.json" (or .yaml, .yml) and each type from
// "types/<FileName(name)>.json".
type DirSource struct {
	Dir string
}

func (s DirSource) Index(ctx context.Context) (*Index, error) {
	idx := &Index{}
	path, err := s.find(ctx, "index")
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	if err := LoadFile(path, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (s DirSource) Type(ctx context.Context, name string) (*TypeDef, error) {
	path, err := s.find(ctx, filepath.Join("types", FileName(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	if err != nil {
		return nil, err
	}
	d := &TypeDef{}
	if err := LoadFile(path, d); err != nil {
		return nil, err
	}
	if d.Name == "" {
		d.Name = name
	}
	return d, nil
}

func (s DirSource) find(ctx context.Context, base string) (string, error) {
	for _, ext := range extensions {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := filepath.Join(s.Dir, base+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fs.ErrNotExist
}

// MemSource serves definitions held in memory.
type MemSource struct {
	Idx   Index
	Types []*TypeDef
}

func (s *MemSource) Index(ctx context.Context) (*Index, error) {
	return &s.Idx, ctx.Err()
}

func (s *MemSource) Type(ctx context.Context, name string) (*TypeDef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, t := range s.Types {
		if strings.EqualFold(NormalizeName(t.Name), name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}
