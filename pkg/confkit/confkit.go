// Package confkit holds the small helpers shared by every config loader:
// path resolution, split config files and .env loading.
package confkit

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath expands environment variables in file and joins it to base
// unless it is already absolute.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(strings.TrimSpace(file))
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory holding the main config file.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// Section points at a config file loaded separately from the main one.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads File (resolved against base) into Value. An empty File is a no-op.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	return s.HydrateOr(base, "", loader)
}

// HydrateOr behaves like Hydrate but loads fallback when File is empty.
func (s *Section[T]) HydrateOr(base, fallback string, loader func(string) (*T, error)) error {
	file := s.File
	if strings.TrimSpace(file) == "" {
		file = fallback
	}
	if strings.TrimSpace(file) == "" {
		return nil
	}
	path := ResolvePath(base, file)
	v, err := loader(path)
	if err != nil {
		return err
	}
	s.File, s.Value = path, v
	return nil
}

// Loaded reports whether the section holds a value.
func (s Section[T]) Loaded() bool {
	return s.Value != nil
}
