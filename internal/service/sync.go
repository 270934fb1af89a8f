package service

import (
	"bytes"
	"context"
	"path/filepath"

	"example.com/fieldtrack/agent/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Refresh pulls the full record collection from the server and replaces the
// local copy. The pull is refused with ErrUnsyncedChanges, without any
// network call, while the dirty flag is set. Callers reset their search
// filter on success.
func (s *Service) Refresh(ctx context.Context) ([]models.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirty, err := s.dirty.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read dirty flag")
	}
	if dirty {
		return nil, ErrUnsyncedChanges
	}

	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.remote.FetchRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.records.ReplaceAll(ctx, records); err != nil {
		return nil, errors.Wrap(err, "failed to persist fetched records")
	}

	s.log.WithField("records", len(records)).Info("Record collection refreshed from server")
	return records, nil
}

// Push submits the full local collection to the server. With nothing flagged
// dirty it returns ErrNothingToPush. The dirty flag is cleared only after the
// server confirms success; every failure leaves it untouched.
func (s *Service) Push(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirty, err := s.dirty.Get(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read dirty flag")
	}
	if !dirty {
		return ErrNothingToPush
	}

	userID, err := s.userID(ctx)
	if err != nil {
		return err
	}

	records, err := s.records.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load records")
	}

	if err := s.remote.SubmitRecords(ctx, userID, records); err != nil {
		return err
	}

	if err := s.dirty.Set(ctx, false); err != nil {
		return errors.Wrap(err, "push succeeded but clearing the dirty flag failed")
	}

	s.log.WithField("records", len(records)).Info("Record collection pushed to server")
	return nil
}

// UploadImages uploads every staged photo, institution by institution. Each
// confirmed upload deletes the local binary and drops the image from the
// persisted collection immediately, so an abort always leaves the collection
// describing exactly the binaries still on disk. The first failure aborts the
// whole flow; prior deletions are not rolled back. Full success clears the
// collection. Returns the number of images uploaded.
func (s *Service) UploadImages(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets, err := s.attachments.LoadAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load staged images")
	}
	if len(sets) == 0 {
		return 0, ErrNoAttachments
	}

	uploaded := 0
	for _, set := range sets {
		paths := append([]string(nil), set.LocalPaths...)
		for _, localPath := range paths {
			data, err := s.media.Read(localPath)
			if err != nil {
				return uploaded, err
			}

			filename := filepath.Base(localPath)
			if err := s.remote.UploadImage(ctx, set.InstID, filename, bytes.NewReader(data)); err != nil {
				return uploaded, err
			}

			if err := s.media.Delete(localPath); err != nil {
				s.log.WithError(err).WithField("path", localPath).Warn("Uploaded photo could not be deleted locally")
			}
			if err := s.attachments.RemoveImage(ctx, set.InstID, localPath); err != nil {
				return uploaded, errors.Wrap(err, "failed to update staged images after upload")
			}

			uploaded++
			s.log.WithFields(logrus.Fields{
				"institution": set.InstID,
				"file":        filename,
			}).Info("Photo uploaded")
		}
	}

	if err := s.attachments.Clear(ctx); err != nil {
		return uploaded, errors.Wrap(err, "failed to clear attachment collection")
	}
	return uploaded, nil
}
