package storage

import (
	"fmt"
	"io"
	"net/http"
	"path"

	domainStorage "product-catalog-api/internal/domain/storage"

	"github.com/spf13/afero"
)

// LocalStorage writes uploads beneath a single root directory on the given
// filesystem. Paths returned to callers are relative to the root and use
// forward slashes so they are stable as URL fragments.
type LocalStorage struct {
	fs   afero.Fs
	root string
}

func NewLocalStorage(fs afero.Fs, root string) *LocalStorage {
	return &LocalStorage{
		fs:   fs,
		root: root,
	}
}

var _ domainStorage.FileStorage = (*LocalStorage)(nil)

func (s *LocalStorage) Save(namespace, filename string, src io.Reader) (string, error) {
	relative := path.Join(namespace, filename)
	target := path.Join(s.root, relative)

	if err := s.fs.MkdirAll(path.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	file, err := s.fs.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return relative, nil
}

// FileServer exposes the storage root read-only, for serving stored
// images back over HTTP.
func (s *LocalStorage) FileServer() http.Handler {
	httpFs := afero.NewHttpFs(afero.NewReadOnlyFs(s.fs))
	return http.FileServer(httpFs.Dir(s.root))
}
