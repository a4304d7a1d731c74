// Package project locates and parses zap.toml, the optional manifest
// that pins a project's root schema, generation targets, and output
// directory so commands can run without arguments.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file commands search for when no schema path is
// given on the command line.
const ManifestName = "zap.toml"

// Manifest is a parsed zap.toml plus its location on disk.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the TOML structure of zap.toml.
type Config struct {
	Schema   SchemaConfig   `toml:"schema"`
	Generate GenerateConfig `toml:"generate"`
}

// SchemaConfig names the entry schema, relative to the manifest.
type SchemaConfig struct {
	Root string `toml:"root"`
}

// GenerateConfig holds codegen defaults used when the command line
// leaves them unset.
type GenerateConfig struct {
	Targets []string `toml:"targets"`
	Out     string   `toml:"out"`
}

// Find walks up from startDir to locate zap.toml.
func Find(startDir string) (path string, ok bool, err error) {
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

// Load finds and parses the nearest manifest above startDir.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := parse(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func parse(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("schema") {
		return Config{}, fmt.Errorf("%s: missing [schema]", path)
	}
	if !meta.IsDefined("schema", "root") || strings.TrimSpace(cfg.Schema.Root) == "" {
		return Config{}, fmt.Errorf("%s: missing [schema].root", path)
	}
	return cfg, nil
}

// RootSchema resolves the entry schema to an absolute path and checks
// it exists.
func (m *Manifest) RootSchema() (string, error) {
	rel := strings.TrimSpace(m.Config.Schema.Root)
	p := filepath.Join(m.Root, filepath.FromSlash(rel))
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [schema].root path does not exist: %s", m.Path, p)
		}
		return "", fmt.Errorf("%s: failed to stat [schema].root: %w", m.Path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: [schema].root must be a file, not a directory", m.Path)
	}
	return p, nil
}

// OutDir resolves the generation output directory, defaulting to the
// manifest's own directory.
func (m *Manifest) OutDir() string {
	out := strings.TrimSpace(m.Config.Generate.Out)
	if out == "" {
		return m.Root
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}
