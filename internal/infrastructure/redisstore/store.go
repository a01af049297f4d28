// Package redisstore keeps storefront records as plain Redis string keys.
package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "storefront:"

type Store struct {
	rdb    *redis.Client
	prefix string
}

func NewStore(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Put writes the record without expiry.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *Store) Create(ctx context.Context, key string, value []byte) error {
	ok, err := s.rdb.SetNX(ctx, s.prefix+key, value, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrExists
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

var (
	_ repository.Store   = (*Store)(nil)
	_ repository.Deleter = (*Store)(nil)
)
