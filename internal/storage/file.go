package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mercado-libre-api/internal/domain"
)

// FileBackend keeps the snapshot in a single JSON file. The file is not locked
// against other writers; the last write wins.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for the file at path. Relative paths resolve
// against the working directory.
func NewFileBackend(path string) *FileBackend {
	if !filepath.IsAbs(path) {
		if cwd, err := os.Getwd(); err == nil {
			path = filepath.Join(cwd, path)
		}
	}
	return &FileBackend{path: path}
}

// Path returns the absolute location of the backing file
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Load(ctx context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("storage/file: read %s: %w", b.path, err)
	}

	products, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("storage/file: %s: %w", b.path, err)
	}
	return products, nil
}

func (b *FileBackend) SaveAll(ctx context.Context, products []domain.Product) error {
	data, err := Encode(products)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("storage/file: mkdir: %w", err)
	}

	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("storage/file: write %s: %w", b.path, err)
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }
