package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// documentExt is the file extension of table documents.
const documentExt = ".json"

// dirStore keeps one <name>.json file per table in a directory.
type dirStore struct {
	dir string
}

func newDirStore(dir string) *dirStore {
	return &dirStore{dir: dir}
}

func (s *dirStore) path(name string) string {
	return filepath.Join(s.dir, name+documentExt)
}

func (s *dirStore) Exists(name string) (bool, error) {
	_, err := os.Stat(s.path(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (s *dirStore) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("table %q: %w", name, types.ErrNotFound)
	}
	return data, err
}

func (s *dirStore) Write(name string, data []byte) error {
	return writeAtomic(s.path(name), data)
}

func (s *dirStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("table %q: %w", name, types.ErrNotFound)
	}
	return err
}

func (s *dirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, documentExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, documentExt))
	}
	return names, nil
}

func (s *dirStore) Location(name string) string {
	return s.path(name)
}

func (s *dirStore) Close() error {
	return nil
}

// writeAtomic replaces path with data using the temp-file, fsync, rename
// pattern. The temp file sits next to path so the rename stays on one
// filesystem.
func writeAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	tmpName := filepath.Join(dir, "."+base+"-"+generateUUID()+".tmp")
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// generateUUID returns a UUID v7 string, falling back to v4.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
