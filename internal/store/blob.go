package store

import (
	"context"
	"fmt"
)

// UpdateFunc receives the stored value (nil when absent) and returns the
// replacement. Returning a nil value leaves the key untouched.
type UpdateFunc func(current []byte) ([]byte, error)

// Blob is durable key/value storage holding whole values under well-known keys.
// Get returns nil, nil when the key is absent. Update is an atomic
// read-modify-write, also against other processes sharing the storage.
type Blob interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open selects a Blob backend by name: "sqlite", "badger" or "bolt".
func Open(backend, dataSourceName string) (Blob, error) {
	switch backend {
	case "sqlite", "":
		return NewSQLiteStore(dataSourceName)
	case "badger":
		return NewBadgerStore(dataSourceName)
	case "bolt":
		return NewBoltStore(dataSourceName)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
