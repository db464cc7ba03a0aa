package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "typeshift.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "demo"
version = "0.1.0"

[build]
input = "types.json"
output = "types.tsb"
debug = true
cache = ".tysc.db"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "demo" {
		t.Errorf("Project.Name = %q, want %q", m.Project.Name, "demo")
	}
	if m.Build.Input != "types.json" {
		t.Errorf("Build.Input = %q, want %q", m.Build.Input, "types.json")
	}
	if !m.Build.Debug {
		t.Error("Build.Debug = false, want true")
	}
	if m.Build.Cache != ".tysc.db" {
		t.Errorf("Build.Cache = %q, want %q", m.Build.Cache, ".tysc.db")
	}
	if m.InputPath() != filepath.Join(m.Dir, "types.json") {
		t.Errorf("InputPath() = %q", m.InputPath())
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "demo"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Build.Input != "ast.json" {
		t.Errorf("default Build.Input = %q, want %q", m.Build.Input, "ast.json")
	}
	if m.Build.Output != "program.tsb" {
		t.Errorf("default Build.Output = %q, want %q", m.Build.Output, "program.tsb")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load of empty dir did not fail")
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "not [valid toml")

	if _, err := Load(dir); err == nil {
		t.Error("Load of invalid toml did not fail")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[project]
name = "nested"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad found nothing")
	}
	if m.Project.Name != "nested" {
		t.Errorf("Project.Name = %q, want %q", m.Project.Name, "nested")
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m != nil {
		t.Errorf("FindAndLoad = %+v, want nil", m)
	}
}
