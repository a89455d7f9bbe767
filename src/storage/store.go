package storage

import (
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a storage key does not resolve to
// a stored object.
var ErrObjectNotFound = errors.New("stored object not found")

// ObjectStore is the external collaborator holding screenshot bytes.
// Put returns a stable storage key; DisplayURL turns a key into a
// time-limited URL and must be called again on every fetch, since the
// URL expires.
type ObjectStore interface {
	Put(r io.Reader, contentType string) (key string, err error)
	DisplayURL(key string) (string, error)
	Remove(key string) error
}
