package repository

import (
	"context"

	"example.com/fieldtrack/agent/internal/kvstore"
)

// SessionStore persists the authenticated driver's identity.
type SessionStore struct {
	kv kvstore.KV
}

// NewSessionStore creates a session store over the given key/value store.
func NewSessionStore(kv kvstore.KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// User returns the stored username, or "" when nobody is logged in.
func (s *SessionStore) User(ctx context.Context) (string, error) {
	value, _, err := s.kv.Get(ctx, KeyUser)
	return value, err
}

// UserID returns the stored user id, or "" when nobody is logged in.
func (s *SessionStore) UserID(ctx context.Context) (string, error) {
	value, _, err := s.kv.Get(ctx, KeyUserID)
	return value, err
}

// SetSession stores the identity returned by a successful login.
func (s *SessionStore) SetSession(ctx context.Context, user, userID string) error {
	if err := s.kv.Set(ctx, KeyUser, user); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyUserID, userID)
}

// ClearSession blanks the stored identity.
func (s *SessionStore) ClearSession(ctx context.Context) error {
	if err := s.kv.Set(ctx, KeyUser, ""); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyUserID, "")
}
