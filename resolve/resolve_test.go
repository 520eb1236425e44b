package resolve_test

import (
	"strings"
	"testing"

	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/diag"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/ir"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/parse"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/resolve"
	"github.com/DanielWillett/unturned-asset-file-vscode-sub007/schema"
	_ "github.com/DanielWillett/unturned-asset-file-vscode-sub007/types"
	"github.com/google/go-cmp/cmp"
)

func gunType(t *testing.T) *schema.AssetType {
	t.Helper()
	idx := &schema.Index{
		Objects: map[string][]schema.PropertyDef{
			"Blade": {
				{Key: "Damage", Type: "Int32"},
				{Key: "Name", Type: "String"},
			},
		},
	}
	at, err := schema.NewBuilder(idx).AssetType(&schema.TypeDef{
		Name: "SDG.Unturned.ItemGunAsset",
		Properties: []schema.PropertyDef{
			{Key: "GUID", Type: "Guid", CanBeInMetadata: true},
			{Key: "ID", Type: "Id"},
			{Key: "Amount", Type: "Int32", Aliases: []string{"Count"}},
			{Key: "Old", Type: "Bool", Deprecated: true},
			{Key: "Max", Type: "Int32", Default: "=#MaxAmount"},
			{Key: "Blades", Type: map[string]any{"Type": "List", "ElementType": "Blade"}},
		},
		Data: map[string]any{"MaxAmount": 10},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return at
}

func resolveRoot(t *testing.T, src string) (map[string]*resolve.Result, diag.List, *ir.Root) {
	t.Helper()
	var l diag.List
	root := parse.Parse([]byte(src), parse.ParseDiagnostics(&l))
	if len(l) != 0 {
		t.Fatalf("syntax diagnostics:\n%s", l)
	}
	_, res := resolve.Root(root, gunType(t), schema.PropertySection, &l)
	m := map[string]*resolve.Result{}
	for _, r := range res {
		m[r.Prop.Key] = r
	}
	return m, l, root
}

func TestRootModern(t *testing.T) {
	src := `Metadata
{
	GUID 0123456789abcdef0123456789abcdef
	Type "SDG.Unturned.ItemGunAsset, Assembly-CSharp"
}
Asset
{
	ID 42
	Count 3
}
`
	res, l, _ := resolveRoot(t, src)
	if len(l) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", l)
	}
	got := map[string]any{}
	for k, r := range res {
		if r.OK {
			got[k] = r.Value
		}
	}
	if got["ID"] != uint16(42) || got["Amount"] != int32(3) || got["Max"] != int32(10) {
		t.Errorf("unexpected values %v", got)
	}
	if _, ok := got["GUID"]; !ok {
		t.Error("GUID should resolve from the metadata section")
	}
	if s := res["GUID"].Crumbs.String(); s != "Metadata.GUID" {
		t.Errorf("GUID crumbs %q", s)
	}
	if s := res["Amount"].Crumbs.String(); s != "Asset.Amount" {
		t.Errorf("Amount crumbs %q", s)
	}
}

func TestRootDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{"duplicate", "Amount 1\nCount 2\n", diag.DuplicateProperty, "first set on line 1"},
		{"unknown", "Amout 1\n", diag.UnknownProperty, `did you mean "Amount"?`},
		{"deprecated", "Old true\n", diag.DeprecatedProperty, "deprecated"},
		{"metadata only", "Metadata\n{\n\tAmount 1\n}\n", diag.MetadataOnly, "Metadata"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, l, _ := resolveRoot(t, tc.src)
			found := false
			for _, d := range l {
				if d.Code == tc.code && strings.Contains(d.Message, tc.msg) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s containing %q, got:\n%s", tc.code, tc.msg, l)
			}
		})
	}
}

func TestDuplicateKeepsFirst(t *testing.T) {
	res, _, _ := resolveRoot(t, "Amount 1\nAmount 2\n")
	if res["Amount"].Value != int32(1) {
		t.Errorf("expected the first value, got %v", res["Amount"].Value)
	}
}

func TestCircularDefault(t *testing.T) {
	var l diag.List
	root := parse.Parse([]byte("X 1\n"))
	props, err := schema.NewBuilder(nil).Properties("Test", []schema.PropertyDef{
		{Key: "A", Type: "Int32", Default: "=@B + 1"},
		{Key: "B", Type: "Int32", Default: "=@A + 1"},
		{Key: "X", Type: "Int32"},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := resolve.NewScope(root.Data(), props, &l)
	res := s.Resolve()
	if res[0].OK || res[1].OK {
		t.Errorf("circular defaults should not resolve: %v %v", res[0].Value, res[1].Value)
	}
	if !l.Has(diag.CircularReference) {
		t.Errorf("expected a circular reference, got:\n%s", l)
	}
	if !res[2].OK {
		t.Error("X should be unaffected")
	}
}

func TestBreadcrumbs(t *testing.T) {
	c := resolve.Breadcrumbs{}.Section("Asset").Property("Blades").Element(1).Property("Damage")
	if s := c.String(); s != "Asset.Blades[1].Damage" {
		t.Errorf("got %q", s)
	}
	c = resolve.Breadcrumbs{}.Property("Blades").LegacyElement("Blade", 0).Property("Damage")
	if s := c.String(); s != "Blades.Blade_0.Damage" {
		t.Errorf("got %q", s)
	}
}

func TestFollow(t *testing.T) {
	root := parse.Parse([]byte("Asset\n{\n\tBlades\n\t[\n\t\t{\n\t\t\tDamage 1\n\t\t}\n\t\t{\n\t\t\tDamage 2\n\t\t}\n\t]\n}\n"))
	n := resolve.Breadcrumbs{}.Section("Asset").Property("Blades").Element(1).Property("Damage").Follow(root)
	if n == nil || n.Text != "2" {
		t.Errorf("modern: got %v", n)
	}

	root = parse.Parse([]byte("Blades 2\nBlade_0_Damage 1\nBlade_1_Damage 2\n"))
	n = resolve.Breadcrumbs{}.Property("Blades").LegacyElement("Blade", 1).Property("Damage").Follow(root)
	if n == nil || n.Text != "2" {
		t.Errorf("legacy: got %v", n)
	}
	if n := (resolve.Breadcrumbs{}.Property("Nope")).Follow(root); n != nil {
		t.Errorf("expected nil, got %v", n)
	}
}

func TestVirtualize(t *testing.T) {
	at := gunType(t)
	tests := []struct {
		src    string
		path   []string
		prop   string
		crumbs string
	}{
		{"Amount 3\n", []string{"Amount"}, "Amount", "Amount"},
		{"Blades 1\nBlade_0_Damage 4\n", []string{"Blade_0_Damage"}, "Damage", "Blades.Blade_0.Damage"},
		{"Blades\n[\n\t{\n\t\tName x\n\t}\n]\n", []string{"Blades", "", "", "Name"}, "Name", "Blades[0].Name"},
		{"Asset\n{\n\tID 5\n}\n", []string{"Asset", "", "ID"}, "ID", "Asset.ID"},
	}
	for _, tc := range tests {
		root := parse.Parse([]byte(tc.src))
		n := &root.Node
		for _, k := range tc.path {
			switch {
			case k != "":
				n = n.Get(k)
			case n.Type == ir.PropertyType:
				n = n.Value
			default:
				n = n.Elements()[0]
			}
			if n == nil {
				t.Fatalf("%q: no node at %v", tc.src, tc.path)
			}
		}
		p, crumbs, ok := resolve.Virtualize(root, at, schema.PropertySection, n)
		if !ok {
			t.Errorf("%q: not virtualized", tc.src)
			continue
		}
		if diff := cmp.Diff([]string{tc.prop, tc.crumbs}, []string{p.Key, crumbs.String()}); diff != "" {
			t.Errorf("%q (-want +got):\n%s", tc.src, diff)
		}
	}
}
