// Package source retrieves raw network payloads from blob stores.
package source

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a payload key does not exist.
var ErrNotFound = errors.New("payload not found")

// BlobStore defines the interface for abstract storage backends.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
