// Package storage persists attachment blobs. Metadata lives in the database;
// the store only ever sees opaque keys.
package storage

import "io"

// Store is a blob store keyed by collision-resistant names.
type Store interface {
	// Save writes the blob under key and returns the path the blob is
	// retrievable from.
	Save(key string, r io.Reader) (string, error)

	// Delete removes the blob for key. Deleting a missing blob is not an
	// error.
	Delete(key string) error
}
