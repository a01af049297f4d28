package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_GetPut(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewStore(client, "")
	ctx := context.Background()

	_, err := s.Get(ctx, "users/u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Put(ctx, "users/u1", []byte(`{"email":"a@b.mx"}`)))

	got, err := s.Get(ctx, "users/u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.mx"}`, string(got))
	assert.True(t, mr.Exists("storefront:users/u1"))
	assert.Equal(t, int64(0), int64(mr.TTL("storefront:users/u1")))
}

func TestStore_PutOverwrites(t *testing.T) {
	_, client := setupTestRedis(t)
	s := NewStore(client, "test:")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k/1", []byte("one")))
	require.NoError(t, s.Put(ctx, "k/1", []byte("two")))

	got, err := s.Get(ctx, "k/1")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestStore_Delete(t *testing.T) {
	_, client := setupTestRedis(t)
	s := NewStore(client, "")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "sessions/x", []byte("{}")))
	require.NoError(t, s.Delete(ctx, "sessions/x"))

	_, err := s.Get(ctx, "sessions/x")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_ConnectionFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = client.Close() }()
	s := NewStore(client, "")
	mr.Close()

	err = s.Put(context.Background(), "users/u1", []byte("{}"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_CreateKeepsExisting(t *testing.T) {
	_, client := setupTestRedis(t)
	s := NewStore(client, "")
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "accounts/ana", []byte(`{"id":"u1"}`)))
	err := s.Create(ctx, "accounts/ana", []byte(`{"id":"u2"}`))
	assert.ErrorIs(t, err, repository.ErrExists)

	got, err := s.Get(ctx, "accounts/ana")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(got))
}
