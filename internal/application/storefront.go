// Package application owns the storefront's session lifecycle and the
// gestures a client performs inside a session.
package application

import (
	"context"
	"errors"
	"expvar"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/catalog"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-storefront/internal/domain/repository"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/view"
	"github.com/oksasatya/go-ddd-storefront/pkg/helpers"
)

var (
	metricLogins    = expvar.NewInt("storefront_logins")
	metricGuests    = expvar.NewInt("storefront_guest_sessions")
	metricCheckouts = expvar.NewInt("storefront_checkouts")
	metricContacts  = expvar.NewMap("storefront_contact_status")
)

// DefaultCallTimeout bounds every call to the auth, document and email
// services. Calls are never retried.
const DefaultCallTimeout = 10 * time.Second

type Storefront struct {
	Auth     service.Authenticator
	Profiles repo.ProfileRepository
	// Pointers may be nil; sessions then do not survive a restart.
	Pointers repo.SessionRepository
	Catalog  *catalog.Catalog
	Notifier service.Notifier
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger

	Timeout time.Duration
	Now     func() time.Time

	sessions *SessionRegistry
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewStorefront(auth service.Authenticator, profiles repo.ProfileRepository, pointers repo.SessionRepository, cat *catalog.Catalog, notifier service.Notifier, jwt *helpers.JWTManager, logger *logrus.Logger) *Storefront {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Storefront{
		Auth:     auth,
		Profiles: profiles,
		Pointers: pointers,
		Catalog:  cat,
		Notifier: notifier,
		JWT:      jwt,
		Logger:   logger,
		Timeout:  DefaultCallTimeout,
		Now:      time.Now,
		sessions: NewSessionRegistry(),
	}
}

func (s *Storefront) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func (s *Storefront) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Register creates an account with an empty profile. It does not log in.
func (s *Storefront) Register(ctx context.Context, identifier, secret string) error {
	identifier = entity.NormalizeIdentifier(identifier)
	c, cancel := s.withTimeout(ctx)
	defer cancel()
	userID, err := s.Auth.SignUp(c, identifier, secret)
	if err != nil {
		return err
	}

	c2, cancel2 := s.withTimeout(ctx)
	defer cancel2()
	if err := s.Profiles.Save(c2, userID, identifier, &entity.Profile{}); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("create profile failed")
		return apperr.Persistence(err)
	}
	s.Logger.WithField("user_id", userID).Info("account registered")
	return nil
}

// Login authenticates, loads the profile and opens a session on the catalog
// screen.
func (s *Storefront) Login(ctx context.Context, identifier, secret string) (*Session, error) {
	identifier = entity.NormalizeIdentifier(identifier)
	c, cancel := s.withTimeout(ctx)
	defer cancel()
	userID, err := s.Auth.SignIn(c, identifier, secret)
	if err != nil {
		if !errors.Is(err, apperr.ErrInvalidCredentials) {
			return nil, err
		}
		s.Logger.WithError(err).Debug("sign in rejected")
		return nil, apperr.ErrInvalidCredentials
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess := newSession(s, uuid.NewString(), &entity.User{ID: userID, Identifier: identifier, Profile: profile})
	if err := sess.router.Show(view.Catalog); err != nil {
		return nil, err
	}

	if s.Pointers != nil {
		c, cancel := s.withTimeout(ctx)
		defer cancel()
		ptr := &repo.SessionPointer{
			SessionID:  sess.ID,
			UserID:     userID,
			Identifier: identifier,
			CreatedAt:  sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := s.Pointers.Put(c, ptr); err != nil {
			return nil, apperr.Persistence(err)
		}
	}
	s.sessions.Add(sess)
	metricLogins.Add(1)
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "sid": sess.ID}).Info("session opened")
	return sess, nil
}

func (s *Storefront) loadProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	c, cancel := s.withTimeout(ctx)
	defer cancel()
	profile, err := s.Profiles.Load(c, userID)
	if errors.Is(err, repo.ErrNotFound) {
		// accounts created outside the storefront start empty
		return &entity.Profile{}, nil
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return profile, nil
}

// EnterAsGuest opens a session whose profile never reaches the store.
func (s *Storefront) EnterAsGuest() *Session {
	sess := newSession(s, uuid.NewString(), entity.NewGuest())
	_ = sess.router.Show(view.Catalog)
	s.sessions.Add(sess)
	metricGuests.Add(1)
	return sess
}

// Current resolves a session id. Sessions missing from memory are restored
// from their stored pointer; guests cannot be restored.
func (s *Storefront) Current(ctx context.Context, sessionID string) (*Session, error) {
	if sess, ok := s.sessions.Get(sessionID); ok {
		return sess, nil
	}
	if s.Pointers == nil || sessionID == "" || s.sessions.Closed(sessionID) {
		return nil, apperr.ErrNoSession
	}
	c, cancel := s.withTimeout(ctx)
	defer cancel()
	ptr, err := s.Pointers.Get(c, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.ErrNoSession
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	profile, err := s.loadProfile(ctx, ptr.UserID)
	if err != nil {
		return nil, err
	}
	sess := newSession(s, ptr.SessionID, &entity.User{ID: ptr.UserID, Identifier: ptr.Identifier, Profile: profile})
	if t, err := time.Parse(time.RFC3339Nano, ptr.CreatedAt); err == nil {
		sess.CreatedAt = t
	}
	_ = sess.router.Show(view.Catalog)
	kept, ok := s.sessions.AddIfAbsent(sess)
	if !ok {
		// logged out while the pointer was being read
		return nil, apperr.ErrNoSession
	}
	return kept, nil
}

// Logout closes the session. The id is marked closed before the remote
// pointer is deleted, so no request can rehydrate it in between. Failures to
// clean up remote state are logged; the session is gone from this process
// either way.
func (s *Storefront) Logout(ctx context.Context, sessionID string) {
	sess, ok := s.sessions.Remove(sessionID)
	if ok {
		sess.close()
		if sess.Guest() {
			return
		}
	}
	if s.Pointers != nil {
		c, cancel := s.withTimeout(ctx)
		if err := s.Pointers.Delete(c, sessionID); err != nil {
			s.Logger.WithError(err).WithField("sid", sessionID).Warn("delete session pointer failed")
		}
		cancel()
	}
	if ok {
		c, cancel := s.withTimeout(ctx)
		if err := s.Auth.SignOut(c, sess.UserID()); err != nil {
			s.Logger.WithError(err).WithField("user_id", sess.UserID()).Warn("sign out failed")
		}
		cancel()
	}
	s.Logger.WithField("sid", sessionID).Info("session closed")
}

// IssueTokens signs an access/refresh pair bound to the session.
func (s *Storefront) IssueTokens(sess *Session) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(sess.UserID(), sess.ID, sess.Guest())
	if err != nil {
		s.Logger.WithError(err).WithField("sid", sess.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(sess.UserID(), sess.ID, sess.Guest())
	if err != nil {
		s.Logger.WithError(err).WithField("sid", sess.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh re-issues tokens for a still-open session.
func (s *Storefront) Refresh(ctx context.Context, refreshToken string) (TokenPair, *Session, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, nil, apperr.ErrNoSession
	}
	sess, err := s.Current(ctx, claims.SessionID)
	if err != nil {
		return TokenPair{}, nil, err
	}
	if sess.UserID() != claims.UserID {
		return TokenPair{}, nil, apperr.ErrNoSession
	}
	pair, err := s.IssueTokens(sess)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, sess, nil
}

// ActiveSessions reports how many sessions this process holds.
func (s *Storefront) ActiveSessions() int {
	return s.sessions.Len()
}
