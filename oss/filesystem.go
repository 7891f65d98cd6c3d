package oss

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// MediaPrefix is the URL prefix local objects are served under.
const MediaPrefix = "/media/"

// FileSystem stores objects below a base directory.
type FileSystem struct {
	Base string
}

// NewFileSystem creates the base directory if needed.
func NewFileSystem(base string) (*FileSystem, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve storage path %s", base)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage path %s", abs)
	}
	return &FileSystem{Base: abs}, nil
}

// fullPath resolves path inside Base, rejecting escapes.
func (f *FileSystem) fullPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}
	full := filepath.Join(f.Base, filepath.FromSlash(path))
	if full != f.Base && !strings.HasPrefix(full, f.Base+string(os.PathSeparator)) {
		return "", errors.Errorf("path %s escapes storage root", path)
	}
	return full, nil
}

// Put writes the reader to path.
func (f *FileSystem) Put(_ context.Context, path string, reader io.Reader, _ int64) (*Object, error) {
	if reader == nil {
		return nil, errors.New("reader cannot be nil")
	}
	full, err := f.fullPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, errors.Wrap(err, "create object directory")
	}

	dst, err := os.Create(full)
	if err != nil {
		return nil, errors.Wrapf(err, "create object %s", path)
	}
	defer dst.Close()

	n, err := io.Copy(dst, reader)
	if err != nil {
		_ = os.Remove(full)
		return nil, errors.Wrapf(err, "write object %s", path)
	}

	info, err := dst.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat object %s", path)
	}
	mod := info.ModTime()
	return &Object{
		Path:         path,
		Name:         filepath.Base(path),
		ContentType:  contentTypeOf(path),
		LastModified: &mod,
		Size:         n,
	}, nil
}

// GetStream opens the object for reading.
func (f *FileSystem) GetStream(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := f.fullPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(full)
	if err != nil {
		return nil, errors.Wrapf(err, "open object %s", path)
	}
	return file, nil
}

// Delete removes the object, ignoring missing files.
func (f *FileSystem) Delete(_ context.Context, path string) error {
	full, err := f.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete object %s", path)
	}
	return nil
}

// GetURL returns the path the server exposes local media under.
func (f *FileSystem) GetURL(_ context.Context, path string) (string, error) {
	if _, err := f.fullPath(path); err != nil {
		return "", err
	}
	return MediaPrefix + strings.TrimPrefix(filepath.ToSlash(path), "/"), nil
}

// Exists checks whether the object file exists.
func (f *FileSystem) Exists(_ context.Context, path string) (bool, error) {
	full, err := f.fullPath(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat object %s", path)
}

// GetEndpoint returns the base directory.
func (f *FileSystem) GetEndpoint() string {
	return f.Base
}
