package schema_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
	_ "github.com/DanielWillett/unturned-asset-file-vscode-sub007/types"
	"github.com/google/go-cmp/cmp"
)

func TestParseSpec(t *testing.T) {
	s, err := schema.ParseSpec("Int32")
	if err != nil || s.ID != "Int32" {
		t.Fatalf("got %v, %v", s, err)
	}
	s, err = schema.ParseSpec(map[string]any{"type": "List", "MinimumCount": 2.0, "Modes": []any{"Modern"}})
	if err != nil || s.ID != "List" {
		t.Fatalf("got %v, %v", s, err)
	}
	if n, err := s.Int("minimumcount", 0); err != nil || n != 2 {
		t.Errorf("Int: %d, %v", n, err)
	}
	if n, _ := s.Int("MaximumCount", 7); n != 7 {
		t.Errorf("default Int: %d", n)
	}
	if _, err := s.Int("Modes", 0); !errors.Is(err, schema.ErrBadDefinition) {
		t.Errorf("expected ErrBadDefinition, got %v", err)
	}
	if names, err := s.Strings("Modes"); err != nil || len(names) != 1 {
		t.Errorf("Strings: %v, %v", names, err)
	}
	for _, raw := range []any{nil, "", 3, map[string]any{"Elem": "x"}} {
		if _, err := schema.ParseSpec(raw); !errors.Is(err, schema.ErrBadDefinition) {
			t.Errorf("%v: expected ErrBadDefinition, got %v", raw, err)
		}
	}
}

func TestNames(t *testing.T) {
	n := "SDG.Unturned.ItemGunAsset, Assembly-CSharp"
	if got := schema.NormalizeName(n); got != "SDG.Unturned.ItemGunAsset" {
		t.Errorf("NormalizeName: %q", got)
	}
	if got := schema.ShortName(n); got != "ItemGunAsset" {
		t.Errorf("ShortName: %q", got)
	}
	if got := schema.FileName("A<B>"); got != "A_B_" {
		t.Errorf("FileName: %q", got)
	}
	if got := schema.Singular("Blades"); got != "Blade" {
		t.Errorf("Singular: %q", got)
	}
	if got := schema.Singular("s"); got != "s" {
		t.Errorf("Singular: %q", got)
	}
}

func TestBuilder(t *testing.T) {
	idx := &schema.Index{
		Enums: map[string][]string{"Colors": {"Red", "Blue"}},
		Objects: map[string][]schema.PropertyDef{
			"Node": {
				{Key: "Value", Type: "Int32"},
				{Key: "Children", Type: map[string]any{"Type": "List", "ElementType": "Node"}},
			},
		},
	}
	b := schema.NewBuilder(idx)
	tp, err := b.Type("node")
	if err != nil {
		t.Fatal(err)
	}
	c, ok := tp.(schema.Compound)
	if !ok || len(c.Properties()) != 2 {
		t.Fatalf("expected a compound with 2 properties, got %v", tp)
	}
	if elem := schema.ElementOf(c.Properties()[1].Type); elem != tp {
		t.Errorf("recursive object should reuse itself, got %v", elem)
	}
	if schema.TrimmingOf(tp) != schema.CreatesOtherPropertiesSameLevel {
		t.Error("objects spread over prefixed keys")
	}
	if _, err := b.Type(map[string]any{"Type": "Enum", "Table": "Colors"}); err != nil {
		t.Error(err)
	}
	if _, err := b.Type("Nope"); !errors.Is(err, schema.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
	if _, err := b.Property("T", &schema.PropertyDef{Type: "Int32"}); !errors.Is(err, schema.ErrBadDefinition) {
		t.Errorf("expected ErrBadDefinition for a missing key, got %v", err)
	}
	p, err := b.Property("T", &schema.PropertyDef{Key: "Amount", Type: "Int32", Default: "=1 + 1"})
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != "T.Amount" || p.Default == nil {
		t.Errorf("unexpected property %s default %v", p, p.Default)
	}
}

// countingSource serves definitions, blocking every fetch until release is
// closed.
type countingSource struct {
	schema.MemSource
	release chan struct{}
	mu      sync.Mutex
	fetches map[string]int
	index   atomic.Int32
}

func (s *countingSource) Index(ctx context.Context) (*schema.Index, error) {
	s.index.Add(1)
	return s.MemSource.Index(ctx)
}

func (s *countingSource) Type(ctx context.Context, name string) (*schema.TypeDef, error) {
	s.mu.Lock()
	s.fetches[strings.ToLower(name)]++
	s.mu.Unlock()
	<-s.release
	return s.MemSource.Type(ctx, name)
}

func newSource() *countingSource {
	return &countingSource{
		MemSource: schema.MemSource{
			Idx: schema.Index{Aliases: map[string]string{"Gun": "SDG.Unturned.ItemGunAsset"}},
			Types: []*schema.TypeDef{
				{
					Name:       "SDG.Unturned.ItemAsset",
					Properties: []schema.PropertyDef{{Key: "ID", Type: "Id"}, {Key: "Size_X", Type: "UInt8"}},
					Data:       map[string]any{"Category": "Item"},
				},
				{
					Name:        "SDG.Unturned.ItemGunAsset",
					Parent:      "SDG.Unturned.ItemAsset",
					LegacyNames: []string{"Gun"},
					Properties:  []schema.PropertyDef{{Key: "Size_X", Type: "UInt16"}, {Key: "Firerate", Type: "UInt8"}},
				},
				{Name: "Loop.A", Parent: "Loop.B"},
				{Name: "Loop.B", Parent: "Loop.A"},
			},
		},
		release: make(chan struct{}),
		fetches: map[string]int{},
	}
}

func TestDatabaseSharesFetches(t *testing.T) {
	src := newSource()
	db := schema.NewDatabase(src)
	ctx := context.Background()

	var wg sync.WaitGroup
	types := make([]*schema.AssetType, 16)
	errs := make([]error, 16)
	for i := range types {
		wg.Add(1)
		go func() {
			defer wg.Done()
			types[i], errs[i] = db.Type(ctx, "SDG.Unturned.ItemGunAsset, Assembly-CSharp")
		}()
	}
	close(src.release)
	wg.Wait()
	for i := range types {
		if errs[i] != nil {
			t.Fatal(errs[i])
		}
		if types[i] != types[0] {
			t.Fatal("concurrent callers got different types")
		}
	}
	if diff := cmp.Diff(map[string]int{"sdg.unturned.itemgunasset": 1, "sdg.unturned.itemasset": 1}, src.fetches); diff != "" {
		t.Errorf("fetches (-want +got):\n%s", diff)
	}
	if n := src.index.Load(); n != 1 {
		t.Errorf("index loaded %d times", n)
	}

	gun := types[0]
	var keys []string
	for _, p := range gun.Properties {
		keys = append(keys, p.Type.ID()+" "+p.Key)
	}
	if diff := cmp.Diff([]string{"Id ID", "UInt16 Size_X", "UInt8 Firerate"}, keys); diff != "" {
		t.Errorf("inherited properties (-want +got):\n%s", diff)
	}
	if !gun.Is("SDG.Unturned.ItemAsset") {
		t.Error("gun should be an item")
	}
	if v, ok := gun.DataValue("category"); !ok || v != "Item" {
		t.Errorf("inherited data: %v %v", v, ok)
	}
}

func TestDatabaseCancel(t *testing.T) {
	src := newSource()
	db := schema.NewDatabase(src)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		_, err := db.Type(ctx, "SDG.Unturned.ItemAsset")
		done <- err
	}()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	close(src.release)
	if _, err := db.Type(context.Background(), "SDG.Unturned.ItemAsset"); err != nil {
		t.Fatal(err)
	}
	if n := src.fetches["sdg.unturned.itemasset"]; n != 1 {
		t.Errorf("expected the abandoned fetch to be reused, got %d fetches", n)
	}
}

func TestDatabaseErrors(t *testing.T) {
	src := newSource()
	close(src.release)
	db := schema.NewDatabase(src)
	ctx := context.Background()
	if _, err := db.Type(ctx, "Loop.A"); !errors.Is(err, schema.ErrCircularParent) {
		t.Errorf("expected ErrCircularParent, got %v", err)
	}
	if _, err := db.Type(ctx, "Missing"); !errors.Is(err, schema.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
	if _, err := db.Alias(ctx, "Nope"); !errors.Is(err, schema.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestTypeOf(t *testing.T) {
	src := newSource()
	close(src.release)
	db := schema.NewDatabase(src)
	ctx := context.Background()
	tests := []struct {
		src  string
		want string
	}{
		{"Type Gun\nID 5\n", "SDG.Unturned.ItemGunAsset"},
		{"Metadata\n{\n\tType \"SDG.Unturned.ItemAsset, Assembly-CSharp\"\n}\nAsset\n{\n\tType Gun\n}\n", "SDG.Unturned.ItemAsset"},
		{"Asset\n{\n\tType gun\n}\n", "SDG.Unturned.ItemGunAsset"},
	}
	for _, tc := range tests {
		at, err := db.TypeOf(ctx, parse.Parse([]byte(tc.src)))
		if err != nil {
			t.Errorf("%q: %v", tc.src, err)
			continue
		}
		if at.Name != tc.want {
			t.Errorf("%q: got %s, want %s", tc.src, at.Name, tc.want)
		}
	}
	if _, err := db.TypeOf(ctx, parse.Parse([]byte("ID 5\n"))); !errors.Is(err, schema.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "types"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"index.yaml": "Aliases:\n  Gun: SDG.Unturned.ItemGunAsset\nEnums:\n  Skills: [Cardio, Cooking]\n",
		"types/SDG.Unturned.ItemGunAsset.json": `{"Type": "SDG.Unturned.ItemGunAsset", "Parent": "SDG.Unturned.ItemAsset",
			"Properties": [{"Key": "Firerate", "Type": {"Type": "UInt8", "Maximum": 200}}]}`,
		"types/SDG.Unturned.ItemAsset.yml": "Type: SDG.Unturned.ItemAsset\nProperties:\n  - Key: ID\n    Type: Id\n    Required: true\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	db := schema.NewDatabase(schema.DirSource{Dir: dir})
	ctx := context.Background()
	gun, err := db.Alias(ctx, "gun")
	if err != nil {
		t.Fatal(err)
	}
	if len(gun.Properties) != 2 || !gun.Properties[0].Required {
		t.Errorf("unexpected properties %v", gun.Properties)
	}
	if vs, ok := db.Enum(ctx, "skills"); !ok || len(vs) != 2 {
		t.Errorf("enum: %v %v", vs, ok)
	}

	empty := schema.NewDatabase(schema.DirSource{Dir: t.TempDir()})
	idx, err := empty.Index(ctx)
	if err != nil || len(idx.Aliases) != 0 {
		t.Errorf("a missing index is empty: %v %v", idx, err)
	}
	if _, err := schema.FormatOf("x.toml"); !errors.Is(err, schema.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
