package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
	_ "github.com/DanielWillett/unturned-asset-file-vscode-sub007/types"
	"github.com/google/go-cmp/cmp"
	"go.lsp.dev/uri"
)

func testDB() *schema.Database {
	return schema.NewDatabase(&schema.MemSource{
		Idx: schema.Index{Aliases: map[string]string{"Gun": "SDG.Unturned.ItemGunAsset"}},
		Types: []*schema.TypeDef{{
			Name: "SDG.Unturned.ItemGunAsset",
			Properties: []schema.PropertyDef{
				{Key: "GUID", Type: "Guid", CanBeInMetadata: true},
				{Key: "Type", Type: "String"},
				{Key: "ID", Type: "Id", Required: true},
				{Key: "Firerate", Type: "UInt8"},
			},
			Localization: []schema.PropertyDef{
				{Key: "Name", Type: "String", Required: true},
				{Key: "Description", Type: "String"},
			},
		}},
	})
}

func TestKindFromPath(t *testing.T) {
	tests := map[string]ir.FileKind{
		"Items/Eaglefire/Eaglefire.dat": ir.KindAsset,
		"Items/Eaglefire/English.dat":   ir.KindLocalization,
		"Items/Eaglefire/spanish.DAT":   ir.KindLocalization,
		"Bundles/Thing.asset":           ir.KindAsset,
		"README.md":                     ir.KindOther,
	}
	for p, want := range tests {
		if got := KindFromPath(p); got != want {
			t.Errorf("%s: got %s want %s", p, got, want)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"plain", []byte("ID 5\n")},
		{"utf8 bom", []byte("\xEF\xBB\xBFID 5\n")},
		{"utf16le", []byte{0xFF, 0xFE, 'I', 0, 'D', 0, ' ', 0, '5', 0, '\n', 0}},
		{"utf16be", []byte{0xFE, 0xFF, 0, 'I', 0, 'D', 0, ' ', 0, '5', 0, '\n'}},
	}
	for _, tc := range tests {
		got, err := Decode(tc.in)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if string(got) != "ID 5\n" {
			t.Errorf("%s: got %q", tc.name, got)
		}
	}
}

func TestOpenAndCheck(t *testing.T) {
	w := New(testDB())
	u := uri.File("/mods/Gun/Gun.dat")
	f, err := w.Open(u, []byte("Type Gun\nID 5\nFirerate 300\n"), 1)
	if err != nil {
		t.Fatal(err)
	}
	l, err := w.Check(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if l.Count(diag.InvalidValue) != 1 {
		t.Errorf("expected Firerate out of range, got:\n%s", l)
	}
	if f.Type() == nil || f.Type().Name != "SDG.Unturned.ItemGunAsset" {
		t.Errorf("type %v", f.Type())
	}
	if e, ok := f.Cache().Lookup("ID"); !ok || e.Value != uint16(5) {
		t.Errorf("ID: %+v", e)
	}

	if _, err := w.Open(u, []byte("Type Gun\nID 5\nFirerate 30\n"), 2); err != nil {
		t.Fatal(err)
	}
	if l := f.Diagnostics(); l.Has(diag.InvalidValue) {
		t.Errorf("diagnostics of the old tree leaked into the new one:\n%s", l)
	}
	if l, _ := w.Check(context.Background(), f); len(l) != 0 {
		t.Errorf("unexpected diagnostics:\n%s", l)
	}
	if f.Version() != 2 {
		t.Errorf("version %d", f.Version())
	}
}

func TestUnknownType(t *testing.T) {
	w := New(testDB())
	f, _ := w.Open(uri.File("/mods/X/X.dat"), []byte("Type Nope\nID 1\n"), 1)
	l, err := w.Check(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Has(diag.UnknownType) {
		t.Fatalf("expected an unknown type, got:\n%s", l)
	}
	for _, d := range l {
		if d.Code == diag.UnknownType && d.Range.Start.Line != 1 {
			t.Errorf("unknown type at %s", d.Range)
		}
	}
}

func TestCheckCancelled(t *testing.T) {
	w := New(testDB())
	f, _ := w.Open(uri.File("/mods/Gun/Gun.dat"), []byte("Type Gun\n"), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Check(ctx, f); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestLocalizationTakesSiblingType(t *testing.T) {
	w := New(testDB())
	if _, err := w.Open(uri.File("/mods/Gun/Gun.dat"), []byte("Type Gun\nID 5\n"), 1); err != nil {
		t.Fatal(err)
	}
	loc, _ := w.Open(uri.File("/mods/Gun/English.dat"), []byte("Description \"a gun\"\n"), 1)
	if loc.Kind != ir.KindLocalization {
		t.Fatalf("kind %s", loc.Kind)
	}
	l, err := w.Check(context.Background(), loc)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Has(diag.MissingRequired) || l.Has(diag.UnknownType) {
		t.Errorf("expected only a missing Name, got:\n%s", l)
	}

	lone, _ := w.Open(uri.File("/mods/Other/English.dat"), []byte("Name x\n"), 1)
	l, _ = w.Check(context.Background(), lone)
	if !l.Has(diag.UnknownType) {
		t.Errorf("expected an unknown type without an asset file, got:\n%s", l)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) string {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	paths := []string{
		write("Gun/Gun.dat", "Type Gun\nID 5\n"),
		write("Gun/English.dat", "Name Gun\n"),
		write("Bad/Bad.dat", "Type Gun\nID\n[\n"),
	}
	w := New(testDB(), WithConcurrency(2))
	files, err := w.LoadAll(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]int{}
	for _, f := range files {
		got[filepath.Base(filepath.Dir(f.URI.Filename()))+"/"+filepath.Base(f.URI.Filename())] = len(f.Diagnostics())
	}
	want := map[string]int{"Gun/Gun.dat": 0, "Gun/English.dat": 0}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: %d diagnostics", k, got[k])
		}
	}
	if got["Bad/Bad.dat"] == 0 {
		t.Error("expected diagnostics for the malformed file")
	}
	if diff := cmp.Diff(3, len(w.Files())); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}

	if _, err := w.LoadAll(context.Background(), []string{filepath.Join(dir, "missing.dat")}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a missing file error, got %v", err)
	}
}

func TestClose(t *testing.T) {
	w := New(testDB())
	u := uri.File("/mods/Gun/Gun.dat")
	w.Open(u, []byte("ID 1\n"), 1)
	w.Close(u)
	if _, ok := w.Get(u); ok {
		t.Error("closed file still open")
	}
}
