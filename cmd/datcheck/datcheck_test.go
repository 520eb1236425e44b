package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/encode"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/pos"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/workspace"

	"github.com/google/go-cmp/cmp"
	"go.lsp.dev/uri"
)

func TestDatFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Gun.dat", "English.dat", "sub/Bundle.asset", "notes.txt"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("ID 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := datFiles([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "English.dat"),
		filepath.Join(dir, "Gun.dat"),
		filepath.Join(dir, "sub/Bundle.asset"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := datFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestPrinter(t *testing.T) {
	ws := workspace.New(schema.NewDatabase(&schema.MemSource{}))
	f, err := ws.Open(uri.File("/mods/Gun/Gun.dat"), []byte("ID 1\n"), 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	p := newPrinter(&buf, false)
	doc := pos.NewDoc([]byte("ID 1\n"))
	p.diagnostic(f, diag.Diagnostic{
		Code:     diag.MissingRequired,
		Message:  "missing GUID",
		Range:    doc.Range(0, 2),
		Severity: diag.Error,
	})
	want := "/mods/Gun/Gun.dat:1:1: error DAT3008: missing GUID\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestWriteTree(t *testing.T) {
	root := parse.Parse([]byte("ID 1\nL\n[\n\ta\n"))
	colors := encode.NewColors()
	colors.Map = nil
	var buf bytes.Buffer
	writeTree(&buf, colors, &root.Node)
	out := buf.String()
	for _, want := range []string{"ID", `"1"`, "$.ID", "$.L[0]", "(unclosed)"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree lacks %q:\n%s", want, out)
		}
	}
}

func TestTextDiff(t *testing.T) {
	d := textDiff("A 1\nB 2\n", "A 1\nB 3\n", false)
	if !strings.HasPrefix(d, "@@ ") {
		t.Errorf("expected a patch hunk, got %q", d)
	}
	if textDiff("A 1\n", "A 1\n", false) != "" {
		t.Error("equal texts should have an empty diff")
	}
}
