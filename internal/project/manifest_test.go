package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"zapc/internal/project"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[schema]\nroot = \"api.zap\"\n\n[generate]\ntargets = [\"go\", \"rust\"]\nout = \"gen\"\n")
	if err := os.WriteFile(filepath.Join(dir, "api.zap"), []byte("struct A\n  x Int32\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, ok, err := project.Load(dir)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	root, err := m.RootSchema()
	if err != nil {
		t.Fatal(err)
	}
	if root != filepath.Join(dir, "api.zap") {
		t.Errorf("root schema = %q", root)
	}
	if got := m.OutDir(); got != filepath.Join(dir, "gen") {
		t.Errorf("out dir = %q", got)
	}
	if len(m.Config.Generate.Targets) != 2 || m.Config.Generate.Targets[0] != "go" {
		t.Errorf("targets = %v", m.Config.Generate.Targets)
	}
}

func TestFindWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[schema]\nroot = \"api.zap\"\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := project.Find(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(dir, project.ManifestName) {
		t.Errorf("found %q", path)
	}
}

func TestMissingRootRejected(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[schema]\n")
	if _, _, err := project.Load(dir); err == nil {
		t.Error("expected error for missing [schema].root")
	}
}

func TestNoManifest(t *testing.T) {
	_, ok, err := project.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unexpected manifest")
	}
}

func TestOutDirDefaultsToRoot(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[schema]\nroot = \"api.zap\"\n")
	m, ok, err := project.Load(dir)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got := m.OutDir(); got != dir {
		t.Errorf("out dir = %q, want %q", got, dir)
	}
}
