package document

import (
	"context"
	"encoding/json"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
)

func sessionKey(sessionID string) string { return "sessions/" + sessionID }

type SessionRepository struct {
	store repository.Store
}

func NewSessionRepository(store repository.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*repository.SessionPointer, error) {
	b, err := r.store.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	var s repository.SessionPointer
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if s.SessionID == "" {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *SessionRepository) Put(ctx context.Context, s *repository.SessionPointer) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, sessionKey(s.SessionID), b)
}

// Delete removes the pointer. Stores without delete support get an empty
// record instead, which Get treats as missing.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if d, ok := r.store.(repository.Deleter); ok {
		return d.Delete(ctx, sessionKey(sessionID))
	}
	return r.store.Put(ctx, sessionKey(sessionID), []byte(`{}`))
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
