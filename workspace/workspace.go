// Package workspace tracks the open DAT files of a project.
//
// Files are parsed independently and may be parsed in parallel. Each file
// serializes its own rebuilds; the schema database behind a workspace is
// shared by all of them.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"

	"go.lsp.dev/uri"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Workspace struct {
	types  TypeSource
	logger *zap.Logger
	opts   []parse.ParseOption
	limit  int

	mu    sync.RWMutex
	files map[uri.URI]*File
}

type Option func(*Workspace)

func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) {
		w.logger = l
	}
}

// WithParseOptions adds options to every parse. The file kind and
// diagnostics sink are set by the workspace.
func WithParseOptions(opts ...parse.ParseOption) Option {
	return func(w *Workspace) {
		w.opts = append(w.opts, opts...)
	}
}

// WithConcurrency bounds the files LoadAll works on at once.
func WithConcurrency(n int) Option {
	return func(w *Workspace) {
		w.limit = n
	}
}

func New(types TypeSource, opts ...Option) *Workspace {
	w := &Workspace{
		types:  types,
		logger: zap.NewNop(),
		limit:  runtime.GOMAXPROCS(0),
		files:  map[uri.URI]*File{},
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Open updates the file at u with text d, adding it when it is new. The
// kind of a new file follows its name.
func (w *Workspace) Open(u uri.URI, d []byte, version int32) (*File, error) {
	w.mu.Lock()
	f := w.files[u]
	if f == nil {
		f = newFile(u, KindFromPath(u.Filename()), w.logger, w.opts)
		w.files[u] = f
	}
	w.mu.Unlock()
	if err := f.Update(d, version); err != nil {
		return f, err
	}
	return f, nil
}

func (w *Workspace) Get(u uri.URI) (*File, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.files[u]
	return f, ok
}

func (w *Workspace) Close(u uri.URI) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, u)
}

// Files returns the open files ordered by URI.
func (w *Workspace) Files() []*File {
	w.mu.RLock()
	res := make([]*File, 0, len(w.files))
	for _, f := range w.files {
		res = append(res, f)
	}
	w.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool {
		return res[i].URI < res[j].URI
	})
	return res
}

// Check validates f and returns its diagnostics. A localization file takes
// the type of the asset file in the same directory.
func (w *Workspace) Check(ctx context.Context, f *File) (diag.List, error) {
	src := w.types
	if f.Kind == ir.KindLocalization {
		src = sibling{w: w, f: f}
	}
	if err := f.Check(ctx, src); err != nil {
		return nil, err
	}
	return f.Diagnostics(), nil
}

type sibling struct {
	w *Workspace
	f *File
}

func (s sibling) TypeOf(ctx context.Context, _ *ir.Root) (*schema.AssetType, error) {
	a := s.w.assetBeside(s.f)
	if a == nil {
		return nil, fmt.Errorf("%w: no asset file beside %s", schema.ErrUnknownType, filepath.Base(s.f.URI.Filename()))
	}
	return s.w.types.TypeOf(ctx, a.Tree())
}

func (w *Workspace) assetBeside(f *File) *File {
	dir := filepath.Dir(f.URI.Filename())
	for _, o := range w.Files() {
		if o.Kind == ir.KindAsset && filepath.Dir(o.URI.Filename()) == dir {
			return o
		}
	}
	return nil
}

// LoadAll reads, parses and checks the files at paths. Files are parsed
// in parallel, then checked in parallel once every file is parsed.
func (w *Workspace) LoadAll(ctx context.Context, paths []string) ([]*File, error) {
	files := make([]*File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.limit)
	for i, p := range paths {
		g.Go(func() error {
			d, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			abs, err := filepath.Abs(p)
			if err != nil {
				return err
			}
			f, err := w.Open(uri.File(abs), d, 0)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			files[i] = f
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(w.limit)
	for _, f := range files {
		g.Go(func() error {
			if _, err := w.Check(gctx, f); err != nil {
				return fmt.Errorf("%s: %w", f.URI.Filename(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return files, err
	}
	w.logger.Info("loaded files", zap.Int("files", len(files)), zap.Int("errors", countErrors(files)))
	return files, nil
}

func countErrors(files []*File) int {
	n := 0
	for _, f := range files {
		for _, d := range f.Diagnostics() {
			if d.Severity == diag.Error {
				n++
			}
		}
	}
	return n
}

// IsDatFile reports whether path names a file a workspace can parse.
func IsDatFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat", ".asset":
		return true
	}
	return false
}
