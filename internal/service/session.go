package service

import (
	"context"

	"example.com/fieldtrack/agent/internal/client"

	"github.com/pkg/errors"
)

// Login authenticates the driver against the remote service and stores the
// returned identity.
func (s *Service) Login(ctx context.Context, user, password string) (*client.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.remote.Login(ctx, user, password)
	if err != nil {
		return nil, err
	}

	if err := s.session.SetSession(ctx, session.User, session.UserID); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	s.log.WithField("user", session.User).Info("Driver logged in")
	return session, nil
}

// CurrentSession returns the stored identity; both fields are empty when
// nobody is logged in.
func (s *Service) CurrentSession(ctx context.Context) (*client.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.session.User(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := s.session.UserID(ctx)
	if err != nil {
		return nil, err
	}
	return &client.Session{User: user, UserID: userID}, nil
}

// Logout clears the session and every local collection: records, staged
// photos, and the dirty flag. Unsynced data is lost, which the UI warns
// about before calling this.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.ClearSession(ctx); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}
	if err := s.records.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear records")
	}
	if err := s.attachments.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear queued images")
	}
	if err := s.staging.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear staged images")
	}
	if err := s.dirty.Set(ctx, false); err != nil {
		return errors.Wrap(err, "failed to reset dirty flag")
	}

	s.log.Info("Driver logged out, local data cleared")
	return nil
}
