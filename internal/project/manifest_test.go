package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, root, `
[package]
name = "demo"

[build]
sources = ["src", "extra/*.bk"]
out_dir = "out"
jobs = 3
cache = false

[trace]
level = "phase"
`)
	deep := filepath.Join(root, "src", "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := Load(deep)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if m.Config.Package.Name != "demo" || m.Config.Build.Jobs != 3 || m.Config.Trace.Level != "phase" {
		t.Fatalf("config = %+v", m.Config)
	}
	if m.Config.Build.CacheEnabled() {
		t.Error("cache = false must disable the cache")
	}
	if got := m.OutDir(); got != filepath.Join(m.Root, "out") {
		t.Errorf("OutDir = %q", got)
	}
	if len(m.Config.Build.Sources) != 2 {
		t.Errorf("sources = %v", m.Config.Build.Sources)
	}
}

func TestDecodeDefaults(t *testing.T) {
	path := write(t, t.TempDir(), "[package]\nname = \"x\"\n")
	cfg, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Build.CacheEnabled() || len(cfg.Build.Sources) != 1 || cfg.Build.Sources[0] != "." {
		t.Fatalf("defaults = %+v", cfg.Build)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no package", "[build]\njobs = 1\n", "missing [package]"},
		{"empty name", "[package]\nname = \"  \"\n", "missing [package].name"},
		{"bad toml", "[package\n", "failed to parse TOML"},
		{"unknown key", "[package]\nname = \"x\"\nedition = 2\n", "unknown keys: package.edition"},
		{"negative jobs", "[package]\nname = \"x\"\n[build]\njobs = -1\n", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, t.TempDir(), tt.content)
			_, err := Decode(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Decode error = %v, want %q", err, tt.want)
			}
		})
	}
}
