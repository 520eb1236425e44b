// Package cache holds the resolved properties of one file.
//
// A Cache is rebuilt from a tree each time the file changes. Rebuilding
// resolves every declared property of one section of the file's asset type,
// stamps the entries with a new generation and swaps them in as a whole.
// Readers either see the previous build or the new one, never a mix.
package cache

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/debug"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/resolve"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"

	"go.uber.org/zap"
)

// Entry is one resolved property.
type Entry struct {
	// Key is the key as written, or the declared key when absent.
	Key      string
	Property *schema.Property
	// Node is the property node, nil when the key is absent.
	Node  *ir.Node
	Value any
	OK    bool
	// Related are the other nodes the value was read from.
	Related    []*ir.Node
	Refs       []string
	Crumbs     resolve.Breadcrumbs
	Generation uint64
}

// Has reports whether n is the entry's node or one of its related nodes.
func (e *Entry) Has(n *ir.Node) bool {
	if e.Node == n {
		return true
	}
	for _, r := range e.Related {
		if r == n {
			return true
		}
	}
	return false
}

type Cache struct {
	section schema.Section
	logger  *zap.Logger

	// mu is held exclusively while rebuilding.
	mu      sync.RWMutex
	typ     *schema.AssetType
	entries map[string]*Entry
	order   []*Entry

	gen   atomic.Uint64
	diags atomic.Pointer[diag.List]
}

type Option func(*Cache)

func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// New returns an empty cache of the properties of section sec.
func New(sec schema.Section, opts ...Option) *Cache {
	c := &Cache{section: sec, logger: zap.NewNop(), entries: map[string]*Entry{}}
	for _, o := range opts {
		o(c)
	}
	c.diags.Store(&diag.List{})
	return c
}

func (c *Cache) Section() schema.Section {
	return c.section
}

// Rebuild resolves the properties of t against root and replaces the
// entries. It returns the new generation.
func (c *Cache) Rebuild(root *ir.Root, t *schema.AssetType) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.gen.Load() + 1
	var l diag.List
	scope, res := resolve.Root(root, t, c.section, &l)
	scope.ReportRequired(res)

	entries := make(map[string]*Entry, len(res))
	order := make([]*Entry, 0, len(res))
	for _, r := range res {
		e := &Entry{
			Key:        r.Key(),
			Property:   r.Prop,
			Node:       r.Node,
			Value:      r.Value,
			OK:         r.OK,
			Related:    r.Related,
			Refs:       r.Refs,
			Crumbs:     r.Crumbs,
			Generation: gen,
		}
		entries[strings.ToLower(r.Prop.Key)] = e
		order = append(order, e)
	}
	sorted := l.Sorted()

	c.typ = t
	c.entries = entries
	c.order = order
	c.diags.Store(&sorted)
	c.gen.Store(gen)

	if debug.Cache() {
		debug.Logf("cache %s/%s gen %d: %d entries, %d diagnostics\n", t, c.section, gen, len(order), len(sorted))
	}
	c.logger.Debug("rebuilt property cache",
		zap.String("type", t.Name),
		zap.Stringer("section", c.section),
		zap.Uint64("generation", gen),
		zap.Int("diagnostics", len(sorted)))
	return gen
}

// Generation increases with every rebuild. Zero means never built.
func (c *Cache) Generation() uint64 {
	return c.gen.Load()
}

// Stale reports whether gen is older than the current generation.
func (c *Cache) Stale(gen uint64) bool {
	return gen < c.gen.Load()
}

// Type returns the asset type of the last rebuild.
func (c *Cache) Type() *schema.AssetType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.typ
}

// Lookup returns the entry of the declared property named key, or one of
// its aliases.
func (c *Cache) Lookup(key string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[strings.ToLower(key)]; ok {
		return e, true
	}
	for _, e := range c.order {
		if e.Property.Matches(key) {
			return e, true
		}
	}
	return nil, false
}

// Entries returns the entries in declaration order.
func (c *Cache) Entries() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make([]*Entry, len(c.order))
	copy(res, c.order)
	return res
}

// Present returns the entries whose key appears in the file, in document
// order.
func (c *Cache) Present() []*Entry {
	var res []*Entry
	for _, e := range c.Entries() {
		if e.Node != nil {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Node.Range.Start.Offset < res[j].Node.Range.Start.Offset
	})
	return res
}

// Owner returns the entry n belongs to: the one whose node, or a related
// node, is n or an ancestor of n.
func (c *Cache) Owner(n *ir.Node) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for a := n; a != nil; a = a.Parent {
		if a.Type != ir.PropertyType {
			continue
		}
		for _, e := range c.order {
			if e.Has(a) {
				return e, true
			}
		}
	}
	return nil, false
}

// Diagnostics returns the diagnostics of the last rebuild. The list must
// not be modified.
func (c *Cache) Diagnostics() diag.List {
	return *c.diags.Load()
}
