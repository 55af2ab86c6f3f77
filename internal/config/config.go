// Package config resolves the data directory layout for the reading
// companion.
//
// All paths are carried by an explicit Paths value constructed once at
// startup and injected into every store and renderer — nothing reads a
// process-wide global, which lets tests point the whole system at a
// temporary root.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DataDirEnv overrides the data directory when set.
	DataDirEnv = "SHELFMATE_DATA"
	// DefaultDirName is the default data directory under $HOME.
	DefaultDirName = "shelfmate-data"

	// StacksDirName holds per-domain stack documents.
	StacksDirName = "stacks"
	// ProgressDirName holds reflection documents and the progress snapshots.
	ProgressDirName = "progress"
	// AuthorsDirName holds per-author documents.
	AuthorsDirName = "authors"
)

// fileConfig is the optional on-disk configuration.
type fileConfig struct {
	DataDir string `yaml:"data_dir"`
}

// Paths describes where entity records and derived documents live.
type Paths struct {
	DataDir string
}

// StacksDir returns the directory for stack documents.
func (p Paths) StacksDir() string { return filepath.Join(p.DataDir, StacksDirName) }

// ProgressDir returns the directory for reflection and progress documents.
func (p Paths) ProgressDir() string { return filepath.Join(p.DataDir, ProgressDirName) }

// AuthorsDir returns the directory for author documents.
func (p Paths) AuthorsDir() string { return filepath.Join(p.DataDir, AuthorsDirName) }

// EnsureDirs creates the data directory tree if it doesn't exist.
// Callers never provision directories themselves — every save path
// goes through this.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.DataDir, p.StacksDir(), p.ProgressDir(), p.AuthorsDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// Resolve determines the data directory using, in order: the
// SHELFMATE_DATA environment variable, the data_dir key of
// ~/.config/shelfmate/config.yaml, and finally ~/shelfmate-data.
func Resolve() (Paths, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return Paths{DataDir: dir}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolving home directory: %w", err)
	}

	if cfg, ok := loadFileConfig(filepath.Join(home, ".config", "shelfmate", "config.yaml")); ok && cfg.DataDir != "" {
		return Paths{DataDir: cfg.DataDir}, nil
	}

	return Paths{DataDir: filepath.Join(home, DefaultDirName)}, nil
}

// loadFileConfig reads the optional yaml config. A missing or unreadable
// file is not an error — the default layout applies.
func loadFileConfig(path string) (fileConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, false
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, false
	}
	return cfg, true
}
