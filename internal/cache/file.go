package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielolaszy/orbit/pkg/models"
)

// FilePersister stores the cache blob as a JSON file on disk.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing to the given file path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Load reads the persisted cache. A missing file is not an error: it returns
// (nil, nil) so the caller starts from an empty cache.
func (p *FilePersister) Load() (*models.Cache, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache file %s: %v", p.path, err)
	}

	var cache models.Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to decode cache file %s: %v", p.path, err)
	}
	return &cache, nil
}

// Save writes the cache atomically: the blob goes to a temporary file in the
// same directory first and is renamed over the previous one, so a crash
// mid-write never leaves a truncated cache behind.
func (p *FilePersister) Save(cache models.Cache) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %v", err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %v", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".orbit-cache-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %v", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache file: %v", err)
	}

	if err := os.Rename(tmp.Name(), p.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %v", err)
	}
	return nil
}
