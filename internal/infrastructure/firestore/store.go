// Package firestore stores records as Cloud Firestore documents. A key
// "users/<uid>" is the document path.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
)

type Store struct {
	client *gfs.Client
}

// NewStore opens a Firestore client from a Firebase app.
func NewStore(ctx context.Context, app *firebase.App) (*Store, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) doc(key string) (*gfs.DocumentRef, error) {
	ref := s.client.Doc(key)
	if ref == nil {
		return nil, fmt.Errorf("invalid document key %q", key)
	}
	return ref, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	ref, err := s.doc(key)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap.Data())
}

// Put replaces the document with the JSON object in value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	ref, err := s.doc(key)
	if err != nil {
		return err
	}
	var data map[string]any
	if err := json.Unmarshal(value, &data); err != nil {
		return fmt.Errorf("firestore documents must be JSON objects: %w", err)
	}
	_, err = ref.Set(ctx, data)
	return err
}

func (s *Store) Create(ctx context.Context, key string, value []byte) error {
	ref, err := s.doc(key)
	if err != nil {
		return err
	}
	var data map[string]any
	if err := json.Unmarshal(value, &data); err != nil {
		return fmt.Errorf("firestore documents must be JSON objects: %w", err)
	}
	_, err = ref.Create(ctx, data)
	if status.Code(err) == codes.AlreadyExists {
		return repository.ErrExists
	}
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	ref, err := s.doc(key)
	if err != nil {
		return err
	}
	_, err = ref.Delete(ctx)
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}

var (
	_ repository.Store   = (*Store)(nil)
	_ repository.Deleter = (*Store)(nil)
)
