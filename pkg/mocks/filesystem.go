package mocks

import (
	"fmt"
	"sort"
	"sync"

	"github.com/user/framepipe/pkg/ports"
)

// FileSystem is an in-memory mock of ports.FileSystem.
type FileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool

	WriteFileFunc func(path string, data []byte) error
}

// NewFileSystem creates an empty in-memory filesystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// ReadFile returns the stored contents of path.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, ok := fs.files[path]
	if !ok {
		return nil, fmt.Errorf("mock fs: file not found: %s", path)
	}
	return data, nil
}

// WriteFile stores data at path.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	if fs.WriteFileFunc != nil {
		if err := fs.WriteFileFunc(path, data); err != nil {
			return err
		}
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	fs.files[path] = stored
	return nil
}

// MkdirAll records the directory.
func (fs *FileSystem) MkdirAll(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	return nil
}

// Exists reports whether path was written or created.
func (fs *FileSystem) Exists(path string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; ok {
		return true, nil
	}
	return fs.dirs[path], nil
}

// Remove deletes path.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return fmt.Errorf("mock fs: file not found: %s", path)
	}
	delete(fs.files, path)
	delete(fs.dirs, path)
	return nil
}

// Paths returns all written file paths in sorted order.
func (fs *FileSystem) Paths() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

var _ ports.FileSystem = (*FileSystem)(nil)
