package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tpgen/internal/backend/cgen"
	"tpgen/internal/ctf"
	"tpgen/internal/diag"
	"tpgen/internal/schema"
)

func loadOK(t *testing.T, path string) []schema.Provider {
	t.Helper()
	bag := diag.NewBag(32)
	providers, err := Load(path, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Load(%s): %v\n%s", path, err, diag.FormatShort(bag.Items(), diag.FormatOpts{IncludeNotes: true}))
	}
	if bag.HasWarnings() {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(bag.Items(), diag.FormatOpts{}))
	}
	return providers
}

func TestLoadTOML(t *testing.T) {
	providers := loadOK(t, filepath.Join("testdata", "net.toml"))

	want := []string{"app_net_send_tp", "app_net_recv_tp", "app_life_start_tp", "db_query_start_tp"}
	if diff := cmp.Diff(want, cgen.FunctionNames(providers)); diff != "" {
		t.Fatalf("function names mismatch (-want +got):\n%s", diff)
	}

	fields := providers[0].Classes[0].Fields
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[1].Type != ctf.MakeSequence(ctf.MakeUint(ctf.Width8)) {
		t.Fatalf("payload type mismatch: %s", fields[1].Type)
	}
	if !fields[2].Type.NoWrite || !fields[2].Type.Hex {
		t.Fatalf("flags must be a nowrite hex integer: %+v", fields[2].Type)
	}
}

func TestLoadYAMLMatchesTOML(t *testing.T) {
	fromTOML := loadOK(t, filepath.Join("testdata", "net.toml"))
	fromYAML := loadOK(t, filepath.Join("testdata", "net.yaml"))
	if diff := cmp.Diff(fromTOML, fromYAML); diff != "" {
		t.Fatalf("formats disagree (-toml +yaml):\n%s", diff)
	}
	if schema.Fingerprint(fromTOML) != schema.Fingerprint(fromYAML) {
		t.Fatalf("fingerprints differ between formats")
	}
}

func TestLoadBroken(t *testing.T) {
	bag := diag.NewBag(64)
	_, err := Load(filepath.Join("testdata", "broken.toml"), diag.BagReporter{Bag: bag})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	bag.Sort()
	out := diag.FormatShort(bag.Items(), diag.FormatOpts{IncludeNotes: true})

	file := filepath.Join("testdata", "broken.toml")
	for _, want := range []string{
		"error TYP4001 " + file + ":provider[0].class[0].field[0] ",
		"error SCH3003 " + file + ":provider[0].class[0].field[2] ",
		"note SCH3003 " + file + ":provider[0].class[0].field[1] first declared here",
		"error SCH3001 " + file + ":provider[0].class[0].instance[1] generated function a_b_c_go_tp",
		"error SCH3004 " + file + ":provider[0].class[0].instance[1] event a_b:go",
		"error SCH3001 " + file + ":provider[1].class[0].instance[0] generated function a_b_c_go_tp",
		"note SCH3001 " + file + ":provider[0].class[0].instance[0] first generated here",
		"error SCH3002 " + file + ":provider[1].class[1] class name \"2bad\"",
		"warning SCH3006 " + file + ":provider[1].class[1] ",
		"warning SCH3007 ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "SCH3004 "+file+":provider[1]") {
		t.Fatalf("a:go and a_b:go are distinct events:\n%s", out)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		format Format
		code   diag.Code
	}{
		{"toml syntax", "[[provider]\nname=", FormatTOML, diag.SchDecode},
		{"yaml unknown field", "provider:\n  - name: a\n    colour: red\n", FormatYAML, diag.SchDecode},
		{"bad tag", "provider:\n  - name: a\n    class:\n      - name: b\n        instances: [c]\n        field:\n          - {name: x, type: seq<u8>}\n", FormatYAML, diag.TypUnknownTag},
		{"unknown format", "", FormatUnknown, diag.SchUnsupportedFile},
	}
	for _, tc := range cases {
		bag := diag.NewBag(8)
		_, err := Decode("mem", []byte(tc.data), tc.format, diag.BagReporter{Bag: bag})
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", tc.name, err)
		}
		found := false
		for _, d := range bag.Items() {
			if d.Code == tc.code && d.Location.File == "mem" {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: expected %s, got:\n%s", tc.name, tc.code.ID(), diag.FormatShort(bag.Items(), diag.FormatOpts{}))
		}
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	providers, err := Decode("empty.yaml", nil, FormatYAML, diag.NopReporter{})
	if err != nil || len(providers) != 0 {
		t.Fatalf("empty document must load as no providers, got %v, %v", providers, err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(4)
	if _, err := Load(path, diag.BagReporter{Bag: bag}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SchUnsupportedFile {
		t.Fatalf("expected a single SCH3008 diagnostic")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), diag.NopReporter{})
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("expected an IO error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestValidateLongEventName(t *testing.T) {
	providers := []schema.Provider{{
		Name: strings.Repeat("p", 200),
		Classes: []schema.EventClass{{
			Name:      "c",
			Instances: []schema.EventInstance{{Name: strings.Repeat("e", 60)}},
		}},
	}}
	bag := diag.NewBag(4)
	if Validate(providers, diag.BagReporter{Bag: bag}) {
		t.Fatalf("expected validation failure")
	}
	if bag.Items()[0].Code != diag.SchNameTooLong {
		t.Fatalf("expected SCH3009, got %s", bag.Items()[0].Code.ID())
	}
}

func TestIsIdent(t *testing.T) {
	for s, want := range map[string]bool{
		"app": true, "_x1": true, "A_B": true,
		"": false, "1a": false, "a-b": false, "a b": false, "é": false,
	} {
		if got := isIdent(s); got != want {
			t.Fatalf("isIdent(%q) = %t, want %t", s, got, want)
		}
	}
}
