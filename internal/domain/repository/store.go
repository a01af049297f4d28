package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when a key holds no record.
var ErrNotFound = errors.New("record not found")

// ErrExists is returned by Store.Create when key already holds a record.
var ErrExists = errors.New("record already exists")

// Store is the persistence boundary. Records are whole serialized documents;
// every write replaces the record under key. Keys have the form
// "<collection>/<id>".
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Create writes value only if key is empty, atomically with respect to
	// other writers. It returns ErrExists otherwise.
	Create(ctx context.Context, key string, value []byte) error
}

// Deleter is implemented by stores that can drop a record.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}
