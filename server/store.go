package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps uploads in one flat directory. A second upload with the same
// name replaces the first.
type DiskStore struct {
	Dir string
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{Dir: dir}, nil
}

// PathFor maps a client supplied filename to its location in the store.
// Directory components are dropped; ok is false when nothing usable is left.
func (s *DiskStore) PathFor(filename string) (path string, ok bool) {
	name := SafeName(filename)
	if name == "" {
		return "", false
	}
	return filepath.Join(s.Dir, name), true
}

// SafeName reduces a client filename to its base name. Windows separators are
// honoured too since browsers on Windows may send full paths.
func SafeName(filename string) string {
	name := strings.ReplaceAll(filename, `\`, "/")
	name = filepath.Base(filepath.FromSlash(name))
	switch name {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return strings.TrimSpace(name)
}

// Remove deletes a stored upload. A file that is already gone is not an error.
func (s *DiskStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload %s: %w", path, err)
	}
	return nil
}
