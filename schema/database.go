package schema

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/debug"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const indexKey = "\x00index"

// Database caches the asset types of a Source. Every definition is fetched
// at most once, even under concurrent requests; built types are immutable.
type Database struct {
	src    Source
	logger *zap.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	index   *Index
	aliases map[string]string
	defs    map[string]*TypeDef
	types   map[string]*AssetType

	// buildMu serializes building, which shares builder's object cache.
	buildMu sync.Mutex
	builder *Builder
}

type Option func(*Database)

func WithLogger(l *zap.Logger) Option {
	return func(db *Database) {
		db.logger = l
	}
}

func NewDatabase(src Source, opts ...Option) *Database {
	db := &Database{
		src:     src,
		logger:  zap.NewNop(),
		aliases: map[string]string{},
		defs:    map[string]*TypeDef{},
		types:   map[string]*AssetType{},
	}
	for _, o := range opts {
		o(db)
	}
	return db
}

// do runs fn once per key among concurrent callers. The shared call is not
// cancelled with ctx; a caller whose ctx ends stops waiting.
func (db *Database) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := db.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}

// Index loads the shared definitions.
func (db *Database) Index(ctx context.Context) (*Index, error) {
	if idx := db.loadedIndex(); idx != nil {
		return idx, nil
	}
	v, err := db.do(ctx, indexKey, func(ctx context.Context) (any, error) {
		if idx := db.loadedIndex(); idx != nil {
			return idx, nil
		}
		db.logger.Debug("loading schema index")
		idx, err := db.src.Index(ctx)
		if err != nil {
			db.logger.Warn("schema index failed", zap.Error(err))
			return nil, err
		}
		db.mu.Lock()
		defer db.mu.Unlock()
		if db.index == nil {
			db.index = idx
			for k, v := range idx.Aliases {
				db.aliases[strings.ToLower(k)] = NormalizeName(v)
			}
			db.builder = NewBuilder(idx)
		}
		return db.index, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

func (db *Database) loadedIndex() *Index {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.index
}

func (db *Database) cached(name string) *AssetType {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.types[strings.ToLower(NormalizeName(name))]
}

func (db *Database) store(t *AssetType) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.types[strings.ToLower(t.Name)] = t
	for _, n := range t.LegacyNames {
		if _, ok := db.aliases[strings.ToLower(n)]; !ok {
			db.aliases[strings.ToLower(n)] = t.Name
		}
	}
}

func (db *Database) def(ctx context.Context, name string) (*TypeDef, error) {
	k := strings.ToLower(name)
	if d := db.cachedDef(k); d != nil {
		return d, nil
	}
	v, err := db.do(ctx, "type:"+k, func(ctx context.Context) (any, error) {
		// a fetch finishing just before this call started has stored it
		if d := db.cachedDef(k); d != nil {
			return d, nil
		}
		db.logger.Debug("fetching type", zap.String("type", name))
		d, err := db.src.Type(ctx, name)
		if err != nil {
			db.logger.Warn("type fetch failed", zap.String("type", name), zap.Error(err))
			return nil, err
		}
		db.mu.Lock()
		db.defs[k] = d
		db.mu.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TypeDef), nil
}

func (db *Database) cachedDef(k string) *TypeDef {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.defs[k]
}

// Type returns the asset type with the qualified name, fetching it and its
// parents as needed.
func (db *Database) Type(ctx context.Context, name string) (*AssetType, error) {
	name = NormalizeName(name)
	if t := db.cached(name); t != nil {
		return t, nil
	}
	if _, err := db.Index(ctx); err != nil {
		return nil, err
	}

	var (
		defs   []*TypeDef
		parent *AssetType
		seen   = map[string]bool{}
	)
	for n := name; n != ""; {
		k := strings.ToLower(n)
		if seen[k] {
			return nil, fmt.Errorf("%w: %s", ErrCircularParent, n)
		}
		seen[k] = true
		if t := db.cached(n); t != nil {
			parent = t
			break
		}
		d, err := db.def(ctx, n)
		if err != nil {
			return nil, err
		}
		if debug.Schema() {
			debug.LogAny(d)
		}
		defs = append(defs, d)
		n = NormalizeName(d.Parent)
	}

	db.buildMu.Lock()
	defer db.buildMu.Unlock()
	for i := len(defs) - 1; i >= 0; i-- {
		if t := db.cached(defs[i].Name); t != nil {
			parent = t
			continue
		}
		t, err := db.builder.AssetType(defs[i], parent)
		if err != nil {
			return nil, err
		}
		if debug.Schema() {
			debug.Logf("built type %s: %d properties\n", t.Name, len(t.Properties))
		}
		db.store(t)
		parent = t
	}
	return parent, nil
}

// Alias returns the asset type selected by a legacy "Type" value.
func (db *Database) Alias(ctx context.Context, legacy string) (*AssetType, error) {
	if _, err := db.Index(ctx); err != nil {
		return nil, err
	}
	db.mu.RLock()
	name, ok := db.aliases[strings.ToLower(strings.TrimSpace(legacy))]
	db.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: legacy type %q", ErrUnknownType, legacy)
	}
	return db.Type(ctx, name)
}

// TypeOf selects the asset type of a parsed file: the Type of the Metadata
// section when there is one, otherwise the legacy Type key looked up
// through the aliases.
func (db *Database) TypeOf(ctx context.Context, root *ir.Root) (*AssetType, error) {
	if md := root.Metadata(); md != nil {
		if s, ok := typeKey(md); ok {
			return db.Type(ctx, s)
		}
	}
	if s, ok := typeKey(root.Data()); ok {
		return db.Alias(ctx, s)
	}
	if s, ok := typeKey(&root.Node); ok {
		return db.Alias(ctx, s)
	}
	return nil, fmt.Errorf("%w: no Type property", ErrUnknownType)
}

func typeKey(dict *ir.Node) (string, bool) {
	p := dict.Get("Type")
	if p == nil {
		return "", false
	}
	s, ok := p.ValueText()
	return s, ok && s != ""
}

// Enum returns the values of enum table name.
func (db *Database) Enum(ctx context.Context, name string) ([]string, bool) {
	if _, err := db.Index(ctx); err != nil {
		return nil, false
	}
	db.buildMu.Lock()
	defer db.buildMu.Unlock()
	return db.builder.Enum(name)
}
