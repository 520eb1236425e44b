package cache

import (
	"sync"
	"testing"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
	_ "github.com/DanielWillett/unturned-asset-file-vscode-sub007/types"
	"github.com/google/go-cmp/cmp"
)

func itemType(t *testing.T) *schema.AssetType {
	t.Helper()
	at, err := schema.NewBuilder(nil).AssetType(&schema.TypeDef{
		Name: "SDG.Unturned.ItemAsset",
		Properties: []schema.PropertyDef{
			{Key: "ID", Type: "Id", Required: true},
			{Key: "Amount", Type: "Int32", Aliases: []string{"Count"}},
			{Key: "Tags", Type: map[string]any{"Type": "List", "ElementType": "String"}},
		},
		Localization: []schema.PropertyDef{
			{Key: "Name", Type: "String"},
		},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return at
}

func TestRebuild(t *testing.T) {
	at := itemType(t)
	c := New(schema.PropertySection)
	if c.Generation() != 0 {
		t.Fatalf("new cache has generation %d", c.Generation())
	}
	root := parse.Parse([]byte("Count 3\nTags\n[\n\ta\n\tb\n]\nBogus 1\n"))
	gen := c.Rebuild(root, at)
	if gen != 1 || c.Generation() != 1 {
		t.Errorf("generation %d / %d", gen, c.Generation())
	}

	e, ok := c.Lookup("amount")
	if !ok || e.Value != int32(3) || e.Key != "Count" {
		t.Errorf("amount: %+v", e)
	}
	if e2, ok := c.Lookup("Count"); !ok || e2 != e {
		t.Error("alias lookup should find the same entry")
	}
	tags, _ := c.Lookup("Tags")
	if diff := cmp.Diff([]any{"a", "b"}, tags.Value); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
	if _, ok := c.Lookup("Name"); ok {
		t.Error("localization properties do not belong to the property section")
	}

	var keys []string
	for _, e := range c.Entries() {
		keys = append(keys, e.Property.Key)
	}
	if diff := cmp.Diff([]string{"ID", "Amount", "Tags"}, keys); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
	keys = keys[:0]
	for _, e := range c.Present() {
		keys = append(keys, e.Key)
	}
	if diff := cmp.Diff([]string{"Count", "Tags"}, keys); diff != "" {
		t.Errorf("present (-want +got):\n%s", diff)
	}

	l := c.Diagnostics()
	if !l.Has(diag.MissingRequired) || !l.Has(diag.UnknownProperty) {
		t.Errorf("expected missing ID and unknown Bogus, got:\n%s", l)
	}
}

func TestRebuildSwapsSnapshot(t *testing.T) {
	at := itemType(t)
	c := New(schema.PropertySection)
	c.Rebuild(parse.Parse([]byte("Bogus 1\n")), at)
	before := c.Diagnostics()
	old, _ := c.Lookup("ID")

	c.Rebuild(parse.Parse([]byte("ID 5\n")), at)
	if len(before) == 0 {
		t.Fatal("expected diagnostics in the first build")
	}
	if l := c.Diagnostics(); len(l) != 0 {
		t.Errorf("second build should be clean, got:\n%s", l)
	}
	if !before.Has(diag.UnknownProperty) {
		t.Error("an old snapshot must not change after a rebuild")
	}
	e, _ := c.Lookup("ID")
	if e.Value != uint16(5) || e.Generation != 2 {
		t.Errorf("ID: %+v", e)
	}
	if !c.Stale(old.Generation) || c.Stale(e.Generation) {
		t.Error("staleness should follow the generation")
	}
}

func TestOwner(t *testing.T) {
	at := itemType(t)
	c := New(schema.PropertySection)
	root := parse.Parse([]byte("Tags\n[\n\ta\n]\nID 1\n"))
	c.Rebuild(root, at)

	elem := root.Get("Tags").Value.Elements()[0]
	e, ok := c.Owner(elem)
	if !ok || e.Property.Key != "Tags" {
		t.Errorf("owner of list element: %+v", e)
	}
	if _, ok := c.Owner(&root.Node); ok {
		t.Error("the root belongs to no property")
	}
}

func TestLocalizationSection(t *testing.T) {
	at := itemType(t)
	c := New(schema.LocalizationSection)
	c.Rebuild(parse.Parse([]byte("Name Eaglefire\n"), parse.ParseKind(ir.KindLocalization)), at)
	e, ok := c.Lookup("Name")
	if !ok || e.Value != "Eaglefire" {
		t.Errorf("name: %+v", e)
	}
	if l := c.Diagnostics(); len(l) != 0 {
		t.Errorf("unexpected diagnostics:\n%s", l)
	}
}

func TestConcurrentReaders(t *testing.T) {
	at := itemType(t)
	c := New(schema.PropertySection)
	roots := []*ir.Root{
		parse.Parse([]byte("ID 1\n")),
		parse.Parse([]byte("ID 2\nAmount 4\n")),
	}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Rebuild(roots[j%2], at)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if e, ok := c.Lookup("ID"); ok && e.Generation > c.Generation() {
					t.Error("entry newer than the cache")
				}
				_ = c.Diagnostics()
			}
		}()
	}
	wg.Wait()
	if c.Generation() != 400 {
		t.Errorf("generation %d", c.Generation())
	}
}
