// Package blob provides single-key persistence for the application state
// blob. Backends are interchangeable: the store only ever reads and writes
// one opaque byte slice under a fixed key.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound indicates no blob has been written yet.
var ErrNotFound = errors.New("blob: not found")

// Store is a synchronous get/set of a single persisted blob.
type Store interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, data []byte) error
}
