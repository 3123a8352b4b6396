package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func Load[T any](path string) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return zero, json.NewDecoder(f).Decode(&zero)
}

// Save writes v as indented JSON, replacing path only once the write succeeds.
func Save[T any](path string, v T) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Saver guards a value that is persisted to Path. Writes to disk are
// serialized so the file never lags behind an earlier in-memory value.
type Saver[T any] struct {
	Path string

	mu    sync.RWMutex
	value T

	write sync.Mutex
}

func NewSaver[T any](path string, v T) *Saver[T] {
	return &Saver[T]{Path: path, value: v}
}

// LoadSaver reads path, falling back to zero when the file does not exist.
func LoadSaver[T any](path string) (*Saver[T], error) {
	v, err := Load[T](path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return &Saver[T]{Path: path, value: v}, nil
}

func (s *Saver[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Update applies fn under the lock and persists the result before any
// later update can reach the disk.
func (s *Saver[T]) Update(fn func(T) T) error {
	s.write.Lock()
	defer s.write.Unlock()

	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	s.mu.Unlock()
	return s.persist(v)
}

// Save replaces the value and persists it.
func (s *Saver[T]) Save(v T) error {
	return s.Update(func(T) T { return v })
}

// Flush persists the current value.
func (s *Saver[T]) Flush() error {
	s.write.Lock()
	defer s.write.Unlock()
	return s.persist(s.Get())
}

func (s *Saver[T]) persist(v T) error {
	if s.Path == "" {
		return nil
	}
	return Save(s.Path, v)
}
