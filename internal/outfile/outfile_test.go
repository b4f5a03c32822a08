package outfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomicOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.h")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteAtomic(path, []byte("new")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Fatalf("expected new content, got %q", data)
	}
	assertOnly(t, dir, "out.h")
}

func TestStageLeavesTargetUntouchedUntilCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.c")

	var b Batch
	if err := b.Stage(path, []byte("body")); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("target must not exist before commit, stat err=%v", err)
	}
	if b.Pending() != 1 {
		t.Fatalf("expected one pending file, got %d", b.Pending())
	}
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	assertOnly(t, dir, "out.c")
}

func TestAbortRemovesTemporaries(t *testing.T) {
	dir := t.TempDir()
	var b Batch
	for _, name := range []string{"a.h", "a.c"} {
		if err := b.Stage(filepath.Join(dir, name), []byte(name)); err != nil {
			t.Fatalf("Stage: %v", err)
		}
	}
	if err := b.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	assertOnly(t, dir)
}

func TestStageMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.h")
	var b Batch
	err := b.Stage(path, []byte("x"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if b.Pending() != 0 {
		t.Fatalf("failed stage must not be pending")
	}
}

func TestCommitRejectsDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	implDir := filepath.Join(dir, "impl")
	if err := os.Mkdir(implDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(implDir, "x.c"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	var b Batch
	if err := b.Stage(filepath.Join(dir, "a.h"), []byte("header")); err != nil {
		t.Fatal(err)
	}
	if err := b.Stage(implDir, []byte("impl")); err != nil {
		t.Fatal(err)
	}
	if err := b.Commit(); err == nil {
		t.Fatalf("expected error for directory target")
	}
	assertOnly(t, dir, "impl")
}

func TestCommitRestoresPreviousTargetsOnFailure(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "a.h")
	if err := os.WriteFile(header, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	var b Batch
	if err := b.Stage(header, []byte("new")); err != nil {
		t.Fatal(err)
	}
	if err := b.Stage(filepath.Join(dir, "b.c"), []byte("new")); err != nil {
		t.Fatal(err)
	}
	// the second rename fails once its temporary is gone
	if err := os.Remove(b.staged[1].tmp); err != nil {
		t.Fatal(err)
	}
	if err := b.Commit(); err == nil {
		t.Fatalf("expected rename error")
	}
	data, err := os.ReadFile(header)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old" {
		t.Fatalf("expected previous content to be restored, got %q", data)
	}
	assertOnly(t, dir, "a.h")
	if b.Pending() != 0 {
		t.Fatalf("failed commit must not leave pending files")
	}
}

func TestCommitRemovesNewTargetsOnFailure(t *testing.T) {
	dir := t.TempDir()
	var b Batch
	if err := b.Stage(filepath.Join(dir, "a.h"), []byte("new")); err != nil {
		t.Fatal(err)
	}
	if err := b.Stage(filepath.Join(dir, "b.c"), []byte("new")); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(b.staged[1].tmp); err != nil {
		t.Fatal(err)
	}
	if err := b.Commit(); err == nil {
		t.Fatalf("expected rename error")
	}
	assertOnly(t, dir)
}

func assertOnly(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(names) {
		var got []string
		for _, e := range entries {
			got = append(got, e.Name())
		}
		t.Fatalf("expected %v in %s, got %v", names, dir, got)
	}
	for i, e := range entries {
		if e.Name() != names[i] {
			t.Fatalf("expected %s, got %s", names[i], e.Name())
		}
	}
}
