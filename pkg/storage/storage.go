// Package storage writes report files to the local filesystem or to S3.
package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Writer is a file being written. Close commits it. CloseWithError
// discards everything written so no partial file is left behind.
type Writer interface {
	io.WriteCloser
	CloseWithError(err error) error
}

// Storage is a destination for report files.
type Storage interface {
	// Create opens name for streaming writes. Data is committed on Close.
	Create(ctx context.Context, name string) (Writer, error)

	// Exists reports whether name is already present.
	Exists(ctx context.Context, name string) (bool, error)

	// Location returns the base path or URI.
	Location() string
}

// LocalStorage stores files below a base directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a local storage backend rooted at basePath.
func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

func (s *LocalStorage) Create(_ context.Context, name string) (Writer, error) {
	fullPath := filepath.Join(s.basePath, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	return &localFile{File: f}, nil
}

func (s *LocalStorage) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.basePath, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *LocalStorage) Location() string {
	return s.basePath
}

// localFile removes itself when the write is abandoned.
type localFile struct {
	*os.File
}

func (f *localFile) CloseWithError(error) error {
	f.File.Close()
	return os.Remove(f.Name())
}

// Split separates a destination into the storage backend holding it and
// the name of the file within that backend.
func Split(ctx context.Context, dest string) (Storage, string, error) {
	if IsS3URI(dest) {
		uri, err := ParseS3URI(dest)
		if err != nil {
			return nil, "", err
		}
		dir, name := path.Split(uri.Key)
		if name == "" {
			return nil, "", errMissingKey(dest)
		}
		uri.Key = strings.TrimSuffix(dir, "/")
		st, err := NewS3Storage(ctx, uri)
		if err != nil {
			return nil, "", err
		}
		return st, name, nil
	}
	dir, name := filepath.Split(dest)
	return NewLocalStorage(dir), name, nil
}
