package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--color", "off"))
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func absTestdata(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "gen"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
[schema]
path = %q

[output]
header = "gen/tp.h"
impl = "gen/tp.c"
tracepoint_header = "tp_provider.h"
header_include = "tp.h"
allowlist = "gen/tp.allow"
stamp = "gen/.tpgen.stamp"
`, absTestdata(t, "tracepoints.toml")))

	out, stderr, err := execute(t, "generate", "--config", cfgPath)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, stderr)
	}
	if !strings.Contains(out, "generated 4 functions") {
		t.Fatalf("unexpected output: %q", out)
	}
	impl, err := os.ReadFile(filepath.Join(dir, "gen", "tp.c"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(impl), "#include \"tp.h\"\n#include \"tp_provider.h\"\n") {
		t.Fatalf("unexpected implementation prologue:\n%s", impl)
	}
	allow, err := os.ReadFile(filepath.Join(dir, "gen", "tp.allow"))
	if err != nil {
		t.Fatal(err)
	}
	want := "app_net_send_tp\napp_net_recv_tp\napp_life_start_tp\ndb_query_start_tp\n"
	if string(allow) != want {
		t.Fatalf("allowlist mismatch:\nwant %q\ngot  %q", want, allow)
	}

	out, stderr, err = execute(t, "generate", "--config", cfgPath)
	if err != nil {
		t.Fatalf("second generate: %v\n%s", err, stderr)
	}
	if !strings.Contains(out, "up to date 4 functions") {
		t.Fatalf("expected skipped pass, got %q", out)
	}
}

func TestCheckCommandReportsDiagnostics(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "")
	out, stderr, err := execute(t, "check", absTestdata(t, "broken.toml"), "--config", cfgPath)
	if err == nil {
		t.Fatalf("expected check to fail")
	}
	for _, want := range []string{"SCH3001", "TYP4001", "SCH3003"} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("stderr missing %s:\n%s", want, stderr)
		}
	}
	if !strings.HasPrefix(out, "failed ") {
		t.Fatalf("expected failed summary, got %q", out)
	}
}

func TestCheckCommandAcceptsValidSchema(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "")
	out, stderr, err := execute(t, "check", absTestdata(t, "tracepoints.toml"), "--config", cfgPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, stderr)
	}
	if !strings.Contains(out, "2 providers, 4 functions, 0 errors, 0 warnings") {
		t.Fatalf("unexpected summary: %q", out)
	}
}

func TestAllowlistCommand(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "")
	out, stderr, err := execute(t, "allowlist", absTestdata(t, "tracepoints.toml"), "--config", cfgPath, "--format", "version-script")
	if err != nil {
		t.Fatalf("allowlist: %v\n%s", err, stderr)
	}
	if !strings.HasPrefix(out, "{\n  global:\n    app_net_send_tp;\n") || !strings.HasSuffix(out, "  local:\n    *;\n};\n") {
		t.Fatalf("unexpected version script:\n%s", out)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if payload.Tool != "tpgen" || payload.Revision == 0 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
