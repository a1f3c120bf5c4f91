package storage

import "io"

// FileStorage persists uploaded blobs and returns the relative,
// forward-slash path they were stored under.
type FileStorage interface {
	Save(namespace, filename string, src io.Reader) (string, error)
}
