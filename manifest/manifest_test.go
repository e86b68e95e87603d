package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "imp.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write imp.toml: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "counter"
version = "0.1.0"

[source]
entry = "counter.imp"

[run]
trace = true
cache = ".imp/programs.db"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Project.Name != "counter" {
		t.Errorf("name = %q, want %q", m.Project.Name, "counter")
	}
	if m.Source.Entry != "counter.imp" {
		t.Errorf("entry = %q, want %q", m.Source.Entry, "counter.imp")
	}
	if !m.Run.Trace {
		t.Error("trace = false, want true")
	}
	if m.EntryPath() != filepath.Join(m.Dir, "counter.imp") {
		t.Errorf("EntryPath = %q", m.EntryPath())
	}
	if m.CachePath() != filepath.Join(m.Dir, ".imp/programs.db") {
		t.Errorf("CachePath = %q", m.CachePath())
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "minimal"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Source.Entry != "main.imp" {
		t.Errorf("entry = %q, want default main.imp", m.Source.Entry)
	}
	if m.CachePath() != "" {
		t.Errorf("CachePath = %q, want empty", m.CachePath())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing imp.toml")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[project]
name = "nested"
`)
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, err := FindAndLoad(sub)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m == nil || m.Project.Name != "nested" {
		t.Fatalf("manifest = %+v, want project nested", m)
	}
}

func TestFindAndLoadNone(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m != nil {
		t.Fatalf("manifest = %+v, want nil", m)
	}
}
