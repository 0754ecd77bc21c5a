// Package storage persists the ledger as one JSON blob under a fixed key.
package storage

import (
	"context"
	"errors"
)

// DefaultKey is the key the ledger blob is stored under unless configured.
const DefaultKey = "expenseTrackerData"

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a key/value store of opaque documents. WriteBlob always
// replaces the whole value.
type BlobStore interface {
	ReadBlob(ctx context.Context, key string) ([]byte, error)
	WriteBlob(ctx context.Context, key string, data []byte) error
}
