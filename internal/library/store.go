package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the persistence boundary for entity records.
//
// Load reports whether the record existed: a missing file is not an error,
// it means the entity hasn't been initialized yet and the caller
// establishes the default shape. Save persists the whole record,
// overwriting prior content, and provisions the storage location itself.
// Persistence is all-or-nothing per call; there is no locking (single
// caller per entity key is assumed, see the package docs).
type Store interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
}

// FileStore persists each entity as a pretty-printed <key>.json file
// under a fixed directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a filesystem-backed entity store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads and unmarshals <key>.json into v. Returns (false, nil) when
// the file doesn't exist, leaving v untouched.
func (fs *FileStore) Load(key string, v any) (bool, error) {
	path := filepath.Join(fs.dir, key+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return true, nil
}

// Save marshals v and writes it to <key>.json, creating the directory
// first. The write replaces the previous record wholesale.
func (fs *FileStore) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", fs.dir, err)
	}
	path := filepath.Join(fs.dir, key+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
