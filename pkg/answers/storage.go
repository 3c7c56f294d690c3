package answers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage is a durable key/value blob store with the semantics of browser
// local storage: one opaque value per key, synchronous reads and writes.
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
	Remove(key string) error
}

// MemoryStorage keeps blobs in memory. It is safe for concurrent use.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryStorage) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string][]byte)
	}
	m.items[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// FileStorage stores each key as <dir>/<key>.json.
type FileStorage struct {
	dir string
}

// NewFileStorage returns a storage rooted at dir. The directory is created on
// first write.
func NewFileStorage(dir string) (*FileStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("answers: storage directory is required")
	}
	return &FileStorage{dir: dir}, nil
}

// Dir returns the storage directory.
func (f *FileStorage) Dir() string {
	return f.dir
}

func (f *FileStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("answers: invalid storage key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileStorage) Get(key string) ([]byte, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("answers: read %s: %w", path, err)
	}
	return data, true, nil
}

// Set writes to a temp file in the same directory and renames it over the
// target so readers never observe a partial blob.
func (f *FileStorage) Set(key string, data []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("answers: mkdir %s: %w", f.dir, err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("answers: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("answers: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("answers: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("answers: rename %s: %w", path, err)
	}
	return nil
}

func (f *FileStorage) Remove(key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("answers: remove %s: %w", path, err)
	}
	return nil
}
