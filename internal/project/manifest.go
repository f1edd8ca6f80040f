// Package project locates and decodes brook.toml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const ManifestName = "brook.toml"

// Manifest is a decoded brook.toml together with where it was found.
type Manifest struct {
	Path   string // absolute path of brook.toml
	Root   string // directory containing it
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Trace   TraceConfig   `toml:"trace"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Sources []string `toml:"sources"` // files, directories or globs; default ["."]
	OutDir  string   `toml:"out_dir"` // "" writes next to sources
	Jobs    int      `toml:"jobs"`    // 0 means GOMAXPROCS
	Cache   *bool    `toml:"cache"`   // default true
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// FindManifest walks up from startDir to locate brook.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the manifest governing startDir.
// ok is false when no brook.toml exists up to the filesystem root.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Decode(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Decode reads and checks one manifest file.
func Decode(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if len(cfg.Build.Sources) == 0 {
		cfg.Build.Sources = []string{"."}
	}
	return cfg, nil
}

// CacheEnabled reports the [build].cache setting, true when omitted.
func (c BuildConfig) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// OutDir resolves [build].out_dir against the project root; "" stays "".
func (m *Manifest) OutDir() string {
	out := m.Config.Build.OutDir
	if out == "" || filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}

// CacheDir is where the build cache index lives.
func (m *Manifest) CacheDir() string {
	return filepath.Join(m.Root, ".brook", "cache")
}
