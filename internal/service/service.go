// Package service is the reconciliation layer's orchestrator: it owns the
// dirty-flag protocol, gates the pull/push/upload flows, and drives the
// record and attachment stores. All flows run under one mutex; the persisted
// collections are read-modify-write and must never interleave.
package service

import (
	"context"
	"io"
	"sync"

	"example.com/fieldtrack/agent/internal/client"
	"example.com/fieldtrack/agent/internal/models"
	"example.com/fieldtrack/agent/internal/repository"
	"example.com/fieldtrack/agent/internal/storage"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RemoteClient is the boundary to the remote delivery service.
type RemoteClient interface {
	Login(ctx context.Context, user, password string) (*client.Session, error)
	FetchRecords(ctx context.Context, userID string) ([]models.DeliveryRecord, error)
	SubmitRecords(ctx context.Context, userID string, records []models.DeliveryRecord) error
	UploadImage(ctx context.Context, instID, filename string, image io.Reader) error
}

// Service exposes every driver-facing operation of the reconciliation layer.
type Service struct {
	records *repository.RecordStore
	// attachments is the upload queue; staging holds photos captured but
	// not yet bound to a finalized record. Both are persisted, so a
	// restart between capture and finalize loses nothing.
	attachments *repository.AttachmentStore
	staging     *repository.AttachmentStore
	dirty       *repository.DirtyFlag
	session     *repository.SessionStore
	remote      RemoteClient
	media       *storage.MediaStore
	camera      storage.Camera
	log         *logrus.Logger

	// mu serializes every flow. The original design relied on a
	// single-threaded UI; the local API server is not, so the
	// read-modify-write discipline needs an explicit lock.
	mu sync.Mutex
}

// ServiceConfig holds the configuration for the service
type ServiceConfig struct {
	Records     *repository.RecordStore
	Attachments *repository.AttachmentStore
	Staging     *repository.AttachmentStore
	Dirty       *repository.DirtyFlag
	Session     *repository.SessionStore
	Remote      RemoteClient
	Media       *storage.MediaStore
	Camera      storage.Camera
	Logger      *logrus.Logger
}

// NewService creates a new service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Records == nil {
		return nil, errors.New("record store is required")
	}
	if cfg.Attachments == nil {
		return nil, errors.New("attachment store is required")
	}
	if cfg.Staging == nil {
		return nil, errors.New("staging store is required")
	}
	if cfg.Dirty == nil {
		return nil, errors.New("dirty flag is required")
	}
	if cfg.Session == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Remote == nil {
		return nil, errors.New("remote client is required")
	}
	if cfg.Media == nil {
		return nil, errors.New("media store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Service{
		records:     cfg.Records,
		attachments: cfg.Attachments,
		staging:     cfg.Staging,
		dirty:       cfg.Dirty,
		session:     cfg.Session,
		remote:      cfg.Remote,
		media:       cfg.Media,
		camera:      cfg.Camera,
		log:         cfg.Logger,
	}, nil
}

// userID returns the stored driver id or ErrNotLoggedIn.
func (s *Service) userID(ctx context.Context) (string, error) {
	id, err := s.session.UserID(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to read session")
	}
	if id == "" {
		return "", ErrNotLoggedIn
	}
	return id, nil
}
