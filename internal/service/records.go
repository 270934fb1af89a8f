package service

import (
	"context"
	"fmt"
	"time"

	"example.com/fieldtrack/agent/internal/models"

	"github.com/pkg/errors"
)

// timeNow is stubbed in tests.
var timeNow = time.Now

// DraftUpdate carries the editable fields of a record. Nil pointers leave a
// field unchanged; Delivered maps product line id to the entered quantity.
type DraftUpdate struct {
	Delivered    map[string]string
	Observations *string
	ReceivedBy   *string
}

// Records returns the local collection filtered by the search term.
func (s *Service) Records(ctx context.Context, term string) ([]models.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.records.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load records")
	}
	return models.FilterRecords(records, term), nil
}

// Record returns one record by institution assignment id.
func (s *Service) Record(ctx context.Context, instID string) (*models.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.Find(ctx, instID)
}

// UpdateRecord applies a draft edit to an editable record and persists the
// collection. Quantity entries must match the optional integer/decimal
// pattern; the empty string is allowed while editing.
func (s *Service) UpdateRecord(ctx context.Context, instID string, draft DraftUpdate) (*models.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.records.Find(ctx, instID)
	if err != nil {
		return nil, err
	}
	if record.Locked() {
		return nil, ErrRecordLocked
	}

	if err := applyDraft(record, draft); err != nil {
		return nil, err
	}

	if _, err := s.records.UpdateOne(ctx, instID, *record); err != nil {
		return nil, errors.Wrap(err, "failed to persist record")
	}
	return record, nil
}

// FillMax sets a product line's delivered quantity to the requested one.
func (s *Service) FillMax(ctx context.Context, instID, productID string) (*models.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.records.Find(ctx, instID)
	if err != nil {
		return nil, err
	}
	if record.Locked() {
		return nil, ErrRecordLocked
	}

	for i := range record.Products {
		if record.Products[i].ID == productID {
			record.Products[i].Delivered = record.Products[i].Requested
		}
	}

	if _, err := s.records.UpdateOne(ctx, instID, *record); err != nil {
		return nil, errors.Wrap(err, "failed to persist record")
	}
	return record, nil
}

// FinalizeRecord applies a last draft edit, validates the record, and locks
// it. Validation failures leave the record editable and nothing persisted.
// On success the record, the staged photos, and the dirty flag are all
// persisted before returning.
func (s *Service) FinalizeRecord(ctx context.Context, instID string, draft DraftUpdate) (*models.DeliveryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.records.Find(ctx, instID)
	if err != nil {
		return nil, err
	}
	if record.Locked() {
		return nil, ErrRecordLocked
	}

	if err := applyDraft(record, draft); err != nil {
		return nil, err
	}

	count, err := s.photoCount(ctx, instID)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, &models.ValidationError{
			Field:   "imagenes",
			Message: "you cannot save without having taken at least one photo",
		}
	}

	if err := record.ValidateForFinalize(); err != nil {
		return nil, err
	}

	record.SavedByDriver = models.RecordLocked
	record.SavedAt = finalizeTimestamp(timeNow())

	if _, err := s.records.UpdateOne(ctx, instID, *record); err != nil {
		return nil, errors.Wrap(err, "failed to persist record")
	}

	if err := s.persistStaged(ctx, instID); err != nil {
		return nil, err
	}

	s.log.WithField("institution", instID).Info("Record finalized")
	return record, nil
}

// applyDraft mutates the record with the draft fields, validating quantity
// entries.
func applyDraft(record *models.DeliveryRecord, draft DraftUpdate) error {
	for id, value := range draft.Delivered {
		if !models.ValidQuantityInput(value) {
			return ErrInvalidQuantity
		}
		for i := range record.Products {
			if record.Products[i].ID == id {
				record.Products[i].Delivered = value
			}
		}
	}
	if draft.Observations != nil {
		record.Observations = *draft.Observations
	}
	if draft.ReceivedBy != nil {
		record.ReceivedBy = *draft.ReceivedBy
	}
	return nil
}

// finalizeTimestamp renders the save time the way the server has always
// received it: unpadded date and time components.
func finalizeTimestamp(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d %d:%d:%d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}
