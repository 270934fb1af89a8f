package service

import (
	"context"
	"os"

	"example.com/fieldtrack/agent/internal/models"
	"example.com/fieldtrack/agent/internal/repository"
	"example.com/fieldtrack/agent/internal/storage"

	"github.com/pkg/errors"
)

// PhotoState describes the photos associated with an institution: the ones
// captured since the record was last saved, and the ones already queued for
// upload. Both sets are persisted.
type PhotoState struct {
	Staged   models.AttachmentSet `json:"staged"`
	Saved    models.AttachmentSet `json:"saved"`
	Count    int                  `json:"count"`
	Capacity int                  `json:"capacity"`
}

// Photos returns the current photo state for an institution.
func (s *Service) Photos(ctx context.Context, instID string) (*PhotoState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photoState(ctx, instID)
}

// Capture takes a photo with the configured camera collaborator and stages
// it. The capacity check happens before the camera is invoked; a rejected
// capture changes no state.
func (s *Service) Capture(ctx context.Context, instID string) (*PhotoState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.camera == nil {
		return nil, storage.ErrNoCamera
	}

	if err := s.checkCapacity(ctx, instID); err != nil {
		return nil, err
	}
	if err := s.checkPermission(ctx); err != nil {
		return nil, err
	}

	transient, err := s.camera.TakePhoto(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "camera capture failed")
	}

	data, err := os.ReadFile(transient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read captured photo")
	}

	return s.stagePhoto(ctx, instID, data)
}

// StagePhoto stages an externally captured photo (the UI shell owns the
// camera hardware when the agent runs behind the local API). Same policy as
// Capture.
func (s *Service) StagePhoto(ctx context.Context, instID string, data []byte) (*PhotoState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCapacity(ctx, instID); err != nil {
		return nil, err
	}
	if err := s.checkPermission(ctx); err != nil {
		return nil, err
	}

	return s.stagePhoto(ctx, instID, data)
}

// RemoveStaged drops a not-yet-saved photo from the staging pair.
func (s *Service) RemoveStaged(ctx context.Context, instID string, index int) (*PhotoState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged, err := s.staging.LoadForInstitution(ctx, instID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load staged photos")
	}
	if index < 0 || index >= len(staged.LocalPaths) {
		return nil, repository.ErrIndexOutOfRange
	}

	staged.LocalPaths = append(staged.LocalPaths[:index], staged.LocalPaths[index+1:]...)
	if index < len(staged.DisplayPaths) {
		staged.DisplayPaths = append(staged.DisplayPaths[:index], staged.DisplayPaths[index+1:]...)
	}

	if staged.Empty() {
		err = s.staging.Drop(ctx, instID)
	} else {
		err = s.staging.Save(ctx, staged)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update staged photos")
	}

	return s.photoState(ctx, instID)
}

// RemoveSaved drops an already-persisted photo from the institution's upload
// queue and re-persists the collection. Any staged photos for the
// institution are reset alongside, matching the UI's preview behavior.
func (s *Service) RemoveSaved(ctx context.Context, instID string, index int) (*PhotoState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.attachments.RemoveSaved(ctx, instID, index); err != nil {
		return nil, err
	}
	if err := s.staging.Drop(ctx, instID); err != nil {
		return nil, errors.Wrap(err, "failed to reset staged photos")
	}

	return s.photoState(ctx, instID)
}

// checkCapacity rejects a capture once staged plus saved photos reach the
// configured per-institution maximum.
func (s *Service) checkCapacity(ctx context.Context, instID string) error {
	count, err := s.photoCount(ctx, instID)
	if err != nil {
		return err
	}
	if count >= s.attachments.Capacity() {
		return &CaptureRejectedError{Reason: ReasonMaxReached}
	}
	return nil
}

// checkPermission acquires the shared-storage permission when the gallery
// mirror is enabled. A denial aborts the capture before anything is written.
func (s *Service) checkPermission(ctx context.Context) error {
	if !s.media.GalleryEnabled() {
		return nil
	}
	if err := s.media.Gallery().EnsurePermission(ctx); err != nil {
		if errors.Is(err, storage.ErrPermissionDenied) {
			return &CaptureRejectedError{Reason: ReasonPermissionDenied}
		}
		return errors.Wrap(err, "storage permission check failed")
	}
	return nil
}

// stagePhoto persists the binary and the staging pair. Callers hold the
// mutex and have already run the capacity and permission checks.
func (s *Service) stagePhoto(ctx context.Context, instID string, data []byte) (*PhotoState, error) {
	localPath, displayPath, err := s.media.SavePhoto(data)
	if err != nil {
		return nil, err
	}

	staged, err := s.staging.LoadForInstitution(ctx, instID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load staged photos")
	}
	staged.LocalPaths = append(staged.LocalPaths, localPath)
	staged.DisplayPaths = append(staged.DisplayPaths, displayPath)

	if err := s.staging.Save(ctx, staged); err != nil {
		return nil, errors.Wrap(err, "failed to persist staged photo")
	}

	return s.photoState(ctx, instID)
}

// persistStaged merges the staged photos for an institution into the upload
// queue and clears the staging entry. A record save with nothing staged
// leaves the queue untouched.
func (s *Service) persistStaged(ctx context.Context, instID string) error {
	staged, err := s.staging.LoadForInstitution(ctx, instID)
	if err != nil {
		return errors.Wrap(err, "failed to load staged photos")
	}
	if staged.Empty() {
		return nil
	}

	saved, err := s.attachments.LoadForInstitution(ctx, instID)
	if err != nil {
		return errors.Wrap(err, "failed to load saved photos")
	}

	saved.LocalPaths = append(saved.LocalPaths, staged.LocalPaths...)
	saved.DisplayPaths = append(saved.DisplayPaths, staged.DisplayPaths...)

	if err := s.attachments.Save(ctx, saved); err != nil {
		return errors.Wrap(err, "failed to persist photos")
	}

	if err := s.staging.Drop(ctx, instID); err != nil {
		return errors.Wrap(err, "failed to clear staged photos")
	}
	return nil
}

func (s *Service) photoState(ctx context.Context, instID string) (*PhotoState, error) {
	staged, err := s.staging.LoadForInstitution(ctx, instID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load staged photos")
	}
	saved, err := s.attachments.LoadForInstitution(ctx, instID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load saved photos")
	}

	return &PhotoState{
		Staged:   staged,
		Saved:    saved,
		Count:    len(staged.LocalPaths) + len(saved.LocalPaths),
		Capacity: s.attachments.Capacity(),
	}, nil
}

func (s *Service) photoCount(ctx context.Context, instID string) (int, error) {
	state, err := s.photoState(ctx, instID)
	if err != nil {
		return 0, err
	}
	return state.Count, nil
}
