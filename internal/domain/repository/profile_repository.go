package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
)

// ProfileRepository reads and writes the per-user profile record.
type ProfileRepository interface {
	// Load returns ErrNotFound when the user has no record yet.
	Load(ctx context.Context, userID string) (*entity.Profile, error)
	// Save overwrites the whole record. identifier is stored alongside so the
	// record stays attributable.
	Save(ctx context.Context, userID, identifier string, p *entity.Profile) error
}

// SessionPointer is the durable "current session" record of a logged-in client.
type SessionPointer struct {
	SessionID  string `json:"sid"`
	UserID     string `json:"user_id"`
	Identifier string `json:"email"`
	CreatedAt  string `json:"created_at"`
}

// SessionRepository persists session pointers so a client survives a restart.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*SessionPointer, error)
	Put(ctx context.Context, s *SessionPointer) error
	Delete(ctx context.Context, sessionID string) error
}
