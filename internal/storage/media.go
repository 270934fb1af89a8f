// Package storage owns the photo binaries: durable writes into the agent's
// media directory, an optional per-day gallery mirror, and the display URIs
// the UI renders. Attachment metadata lives in the repository layer; only
// bytes live here.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MediaStore persists captured photo binaries.
type MediaStore struct {
	dataDir        string
	galleryDir     string
	galleryEnabled bool
	gallery        Gallery
	log            *logrus.Logger

	now func() time.Time
}

// MediaConfig holds the MediaStore configuration.
type MediaConfig struct {
	DataDir        string
	GalleryDir     string
	GalleryEnabled bool
	Gallery        Gallery
	Logger         *logrus.Logger
}

// NewMediaStore creates a media store, ensuring the data directory exists.
func NewMediaStore(cfg MediaConfig) (*MediaStore, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create media directory")
	}
	if cfg.Gallery == nil {
		cfg.Gallery = AlwaysGranted{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &MediaStore{
		dataDir:        cfg.DataDir,
		galleryDir:     cfg.GalleryDir,
		galleryEnabled: cfg.GalleryEnabled && cfg.GalleryDir != "",
		gallery:        cfg.Gallery,
		log:            cfg.Logger,
		now:            time.Now,
	}, nil
}

// Gallery returns the permission collaborator guarding shared storage.
func (m *MediaStore) Gallery() Gallery {
	return m.gallery
}

// GalleryEnabled reports whether captures are mirrored to shared storage.
func (m *MediaStore) GalleryEnabled() bool {
	return m.galleryEnabled
}

// SavePhoto writes the image bytes under a collision-resistant generated
// filename and returns the stored path plus a URI the UI can render. When the
// gallery mirror is enabled the photo also lands in a per-day folder there;
// an already-existing folder is fine, any other filesystem error surfaces.
func (m *MediaStore) SavePhoto(data []byte) (localPath, displayPath string, err error) {
	// Two captures can land in the same millisecond; the random suffix
	// keeps them from overwriting each other.
	filename := fmt.Sprintf("image_%d_%s.jpg", m.now().UnixMilli(), uuid.NewString()[:8])

	localPath = filepath.Join(m.dataDir, filename)
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return "", "", errors.Wrap(err, "failed to store photo")
	}

	if m.galleryEnabled {
		dayDir := filepath.Join(m.galleryDir, m.now().Format("2006-01-02"))
		if err := os.MkdirAll(dayDir, 0o755); err != nil {
			return "", "", errors.Wrap(err, "failed to create gallery folder")
		}
		if err := os.WriteFile(filepath.Join(dayDir, filename), data, 0o644); err != nil {
			// Mirror failures don't lose the capture; the durable copy is
			// already in the data dir.
			m.log.WithError(err).Warn("Failed to mirror photo to gallery")
		}
	}

	return localPath, m.DisplayPath(localPath), nil
}

// DisplayPath resolves a stored path to a renderable URI.
func (m *MediaStore) DisplayPath(localPath string) string {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		abs = localPath
	}
	return "file://" + abs
}

// Read returns the stored bytes for a photo.
func (m *MediaStore) Read(localPath string) ([]byte, error) {
	data, err := os.ReadFile(m.resolve(localPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read photo")
	}
	return data, nil
}

// Delete removes the stored binary. Deleting an already-gone file is not an
// error; the metadata cleanup must proceed either way.
func (m *MediaStore) Delete(localPath string) error {
	err := os.Remove(m.resolve(localPath))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete photo")
	}
	return nil
}

// resolve maps a stored reference back to a path inside the data dir. Older
// entries may hold a bare filename.
func (m *MediaStore) resolve(localPath string) string {
	if filepath.Dir(localPath) == "." {
		return filepath.Join(m.dataDir, localPath)
	}
	return localPath
}
