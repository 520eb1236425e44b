package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/cache"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"

	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

// TypeSource selects the asset type of a parsed file. *schema.Database is
// a TypeSource.
type TypeSource interface {
	TypeOf(ctx context.Context, root *ir.Root) (*schema.AssetType, error)
}

type snapshot struct {
	root   *ir.Root
	syntax diag.List
}

type checkResult struct {
	root  *ir.Root
	typ   *schema.AssetType
	diags diag.List
}

// File is one document of a workspace. Its tree is replaced as a whole on
// every update; readers holding the previous tree keep a consistent view.
type File struct {
	URI  uri.URI
	Kind ir.FileKind

	logger *zap.Logger
	opts   []parse.ParseOption

	// mu serializes structural rebuilds: updates and checks.
	mu      sync.Mutex
	text    []byte
	version int32

	snap    atomic.Pointer[snapshot]
	checked atomic.Pointer[checkResult]
	cache   *cache.Cache
}

func newFile(u uri.URI, kind ir.FileKind, logger *zap.Logger, opts []parse.ParseOption) *File {
	f := &File{URI: u, Kind: kind, logger: logger.With(zap.String("uri", string(u))), opts: opts}
	switch kind {
	case ir.KindAsset:
		f.cache = cache.New(schema.PropertySection, cache.WithLogger(f.logger))
	case ir.KindLocalization:
		f.cache = cache.New(schema.LocalizationSection, cache.WithLogger(f.logger))
	}
	f.snap.Store(&snapshot{root: parse.Parse(nil, parse.ParseKind(kind))})
	return f
}

// Tree returns the current tree. It is never nil.
func (f *File) Tree() *ir.Root {
	return f.snap.Load().root
}

// Text returns the decoded text of the current tree.
func (f *File) Text() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

func (f *File) Version() int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

// Cache returns the property cache, nil for files that are neither assets
// nor localization.
func (f *File) Cache() *cache.Cache {
	return f.cache
}

// Type returns the asset type found by the last check.
func (f *File) Type() *schema.AssetType {
	if c := f.checked.Load(); c != nil {
		return c.typ
	}
	return nil
}

// Update replaces the text of f and rebuilds its tree. When building fails
// unexpectedly the previous tree is kept and ErrRebuild is returned.
func (f *File) Update(d []byte, version int32) error {
	text, err := Decode(d)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var l diag.List
	root, err := f.build(text, &l)
	if err != nil {
		f.logger.Error("keeping previous tree", zap.Int32("version", version), zap.Error(err))
		return err
	}
	f.text = text
	f.version = version
	f.snap.Store(&snapshot{root: root, syntax: l})
	return nil
}

func (f *File) build(text []byte, l *diag.List) (root *ir.Root, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRebuild, r)
		}
	}()
	opts := append([]parse.ParseOption{parse.ParseKind(f.Kind), parse.ParseDiagnostics(l)}, f.opts...)
	return parse.Parse(text, opts...), nil
}

// Check selects the asset type of the current tree and rebuilds the
// property cache. An unknown type is reported as a diagnostic, other
// errors are returned. A check of a tree replaced meanwhile is dropped.
func (f *File) Check(ctx context.Context, src TypeSource) error {
	if f.cache == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	root := f.Tree()
	t, err := src.TypeOf(ctx, root)
	var extra diag.List
	if err != nil {
		if !errors.Is(err, schema.ErrUnknownType) {
			return err
		}
		diag.Report(&extra, diag.UnknownType, typeRange(root), "%s", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Tree() != root {
		return nil
	}
	res := &checkResult{root: root, typ: t, diags: extra}
	if t != nil {
		f.cache.Rebuild(root, t)
		res.diags = append(res.diags, f.cache.Diagnostics()...)
	}
	f.checked.Store(res)
	return nil
}

func typeRange(root *ir.Root) pos.Range {
	for _, dict := range []*ir.Node{root.Metadata(), root.Data(), &root.Node} {
		if dict == nil {
			continue
		}
		if p := dict.Get("Type"); p != nil {
			if p.Value != nil {
				return p.Value.Range
			}
			return p.KeyRange
		}
	}
	return root.Doc.Range(0, 0)
}

// Diagnostics returns the syntax diagnostics of the current tree, those
// produced by lazy subtrees so far and, when the current tree has been
// checked, the property diagnostics, sorted by position.
func (f *File) Diagnostics() diag.List {
	snap := f.snap.Load()
	res := append(diag.List{}, snap.syntax...)
	res = append(res, snap.root.LateDiagnostics()...)
	if c := f.checked.Load(); c != nil && c.root == snap.root {
		res = append(res, c.diags...)
	}
	return res.Sorted()
}
