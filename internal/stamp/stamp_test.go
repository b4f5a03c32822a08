package stamp

import (
	"os"
	"path/filepath"
	"testing"

	"tpgen/internal/schema"
)

func sampleStamp(t *testing.T, dir string) *Stamp {
	t.Helper()
	st, err := New(1, schema.Digest{1, 2, 3}, "tp.h", "provider.h", "list", 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{"tp.h", "tp.c"} {
		path := filepath.Join(dir, name)
		content := []byte("// " + name)
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatal(err)
		}
		st.Add(path, content)
	}
	return st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := sampleStamp(t, dir)
	path := filepath.Join(dir, ".tpgen.stamp")
	if err := Save(path, st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, ok, err := Load(path)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%t err=%v", ok, err)
	}
	if !loaded.Matches(st) {
		t.Fatalf("loaded stamp does not match: %+v", loaded)
	}
	fresh, err := loaded.OnDisk()
	if err != nil || !fresh {
		t.Fatalf("expected targets to be fresh, got %t, %v", fresh, err)
	}
}

func TestLoadMissing(t *testing.T) {
	st, ok, err := Load(filepath.Join(t.TempDir(), "none"))
	if err != nil || ok || st != nil {
		t.Fatalf("missing stamp must be reported as absent, got %v %t %v", st, ok, err)
	}
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stamp")
	if err := os.WriteFile(path, []byte{0xc1}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMatchesDetectsInputChanges(t *testing.T) {
	dir := t.TempDir()
	base := sampleStamp(t, dir)
	mutations := map[string]func(*Stamp){
		"fingerprint": func(s *Stamp) { s.Fingerprint[0] ^= 0xff },
		"revision":    func(s *Stamp) { s.Revision++ },
		"include":     func(s *Stamp) { s.HeaderInclude = "other.h" },
		"tracepoint":  func(s *Stamp) { s.TracepointHeader = "other.h" },
		"format":      func(s *Stamp) { s.AllowlistFormat = "version-script" },
		"symbols":     func(s *Stamp) { s.Symbols++ },
		"targets":     func(s *Stamp) { s.Targets = s.Targets[:1] },
		"target path": func(s *Stamp) { s.Targets = []Target{{Path: "x"}, base.Targets[1]} },
	}
	for name, mutate := range mutations {
		cp := *base
		cp.Targets = append([]Target(nil), base.Targets...)
		mutate(&cp)
		if cp.Matches(base) {
			t.Fatalf("%s: change not detected", name)
		}
	}
	var nilStamp *Stamp
	if nilStamp.Matches(base) {
		t.Fatalf("nil stamp must never match")
	}
}

func TestOnDiskDetectsEdits(t *testing.T) {
	dir := t.TempDir()
	st := sampleStamp(t, dir)
	if err := os.WriteFile(st.Targets[0].Path, []byte("edited"), 0o600); err != nil {
		t.Fatal(err)
	}
	if fresh, err := st.OnDisk(); err != nil || fresh {
		t.Fatalf("edited target must be stale, got %t, %v", fresh, err)
	}
	if err := os.Remove(st.Targets[0].Path); err != nil {
		t.Fatal(err)
	}
	if fresh, err := st.OnDisk(); err != nil || fresh {
		t.Fatalf("missing target must be stale, got %t, %v", fresh, err)
	}
}

func TestNewRejectsNegativeCount(t *testing.T) {
	if _, err := New(1, schema.Digest{}, "", "", "", -1); err == nil {
		t.Fatalf("expected conversion error")
	}
}
