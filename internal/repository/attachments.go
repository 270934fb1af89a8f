package repository

import (
	"context"
	"encoding/json"

	"example.com/fieldtrack/agent/internal/kvstore"
	"example.com/fieldtrack/agent/internal/models"

	"github.com/sirupsen/logrus"
)

// AttachmentStore manages a persisted collection of captured-photo
// references, keyed by institution. It owns the metadata only; the binaries
// belong to the filesystem. Two collections use it: the upload queue under
// KeyAttachments and the not-yet-finalized staging area under KeyStaged.
type AttachmentStore struct {
	kv       kvstore.KV
	key      string
	capacity int
	log      *logrus.Logger
}

// NewAttachmentStore creates the upload-queue store enforcing the given
// per-institution capacity.
func NewAttachmentStore(kv kvstore.KV, capacity int, log *logrus.Logger) *AttachmentStore {
	return newAttachmentStore(kv, KeyAttachments, capacity, log)
}

// NewStagingStore creates the store for photos captured but not yet bound to
// a finalized record.
func NewStagingStore(kv kvstore.KV, capacity int, log *logrus.Logger) *AttachmentStore {
	return newAttachmentStore(kv, KeyStaged, capacity, log)
}

func newAttachmentStore(kv kvstore.KV, key string, capacity int, log *logrus.Logger) *AttachmentStore {
	if capacity < 1 {
		capacity = 1
	}
	return &AttachmentStore{kv: kv, key: key, capacity: capacity, log: log}
}

// Capacity returns the maximum number of photos kept per institution.
func (s *AttachmentStore) Capacity() int {
	return s.capacity
}

// LoadAll returns every persisted attachment set. Absent or corrupt payloads
// read as empty; corruption is logged only.
func (s *AttachmentStore) LoadAll(ctx context.Context) ([]models.AttachmentSet, error) {
	value, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok || value == "" {
		return []models.AttachmentSet{}, nil
	}

	var sets []models.AttachmentSet
	if err := json.Unmarshal([]byte(value), &sets); err != nil {
		s.log.WithError(err).Warn("Corrupt attachment collection in storage, treating as empty")
		return []models.AttachmentSet{}, nil
	}
	if sets == nil {
		sets = []models.AttachmentSet{}
	}
	return sets, nil
}

// LoadForInstitution returns the attachment set for instID, or an empty set
// if none exists. Both path lists are clamped to capacity; older revisions
// stored up to four, and the clamped view is what counts against the capture
// limit.
func (s *AttachmentStore) LoadForInstitution(ctx context.Context, instID string) (models.AttachmentSet, error) {
	sets, err := s.LoadAll(ctx)
	if err != nil {
		return models.AttachmentSet{}, err
	}

	for _, set := range sets {
		if set.InstID == instID {
			if len(set.LocalPaths) > s.capacity {
				set.LocalPaths = set.LocalPaths[:s.capacity]
			}
			if len(set.DisplayPaths) > s.capacity {
				set.DisplayPaths = set.DisplayPaths[:s.capacity]
			}
			return set, nil
		}
	}
	return models.AttachmentSet{InstID: instID}, nil
}

// Save merges the given set into the persisted collection: replace if an
// entry for the institution exists, append otherwise.
func (s *AttachmentStore) Save(ctx context.Context, set models.AttachmentSet) error {
	sets, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range sets {
		if sets[i].InstID == set.InstID {
			sets[i] = set
			replaced = true
			break
		}
	}
	if !replaced {
		sets = append(sets, set)
	}

	return s.ReplaceAll(ctx, sets)
}

// RemoveSaved removes the image at index from the persisted set for instID
// and re-persists the collection.
func (s *AttachmentStore) RemoveSaved(ctx context.Context, instID string, index int) error {
	sets, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	for i := range sets {
		if sets[i].InstID != instID {
			continue
		}
		if index < 0 || index >= len(sets[i].LocalPaths) {
			return ErrIndexOutOfRange
		}
		sets[i].LocalPaths = append(sets[i].LocalPaths[:index], sets[i].LocalPaths[index+1:]...)
		if index < len(sets[i].DisplayPaths) {
			sets[i].DisplayPaths = append(sets[i].DisplayPaths[:index], sets[i].DisplayPaths[index+1:]...)
		}
		return s.ReplaceAll(ctx, sets)
	}
	return ErrNotFound
}

// RemoveImage drops a single uploaded image, identified by its local path,
// from the persisted set for instID. Entries left without images are removed
// entirely. Used by the upload flow so the collection always reflects which
// binaries still exist locally.
func (s *AttachmentStore) RemoveImage(ctx context.Context, instID, localPath string) error {
	sets, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	out := sets[:0]
	for _, set := range sets {
		if set.InstID == instID {
			for i, p := range set.LocalPaths {
				if p == localPath {
					set.LocalPaths = append(set.LocalPaths[:i], set.LocalPaths[i+1:]...)
					if i < len(set.DisplayPaths) {
						set.DisplayPaths = append(set.DisplayPaths[:i], set.DisplayPaths[i+1:]...)
					}
					break
				}
			}
		}
		if !set.Empty() {
			out = append(out, set)
		}
	}

	return s.ReplaceAll(ctx, out)
}

// Drop removes the whole attachment entry for instID, if any.
func (s *AttachmentStore) Drop(ctx context.Context, instID string) error {
	sets, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	out := sets[:0]
	for _, set := range sets {
		if set.InstID != instID {
			out = append(out, set)
		}
	}
	return s.ReplaceAll(ctx, out)
}

// ReplaceAll overwrites the entire persisted collection.
func (s *AttachmentStore) ReplaceAll(ctx context.Context, sets []models.AttachmentSet) error {
	if sets == nil {
		sets = []models.AttachmentSet{}
	}
	payload, err := json.Marshal(sets)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(payload))
}

// Clear resets the persisted collection to empty.
func (s *AttachmentStore) Clear(ctx context.Context) error {
	return s.kv.Set(ctx, s.key, "")
}
