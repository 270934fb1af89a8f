package repository

import (
	"context"
	"encoding/json"

	"example.com/fieldtrack/agent/internal/kvstore"
	"example.com/fieldtrack/agent/internal/models"

	"github.com/sirupsen/logrus"
)

// RecordStore maintains the authoritative local copy of delivery records,
// persisted as one serialized collection. Display order is the order the
// server returned and is preserved across updates; lookup is by institution
// assignment id.
type RecordStore struct {
	kv    kvstore.KV
	dirty *DirtyFlag
	log   *logrus.Logger
}

// NewRecordStore creates a record store over the given key/value store. The
// dirty flag is set whenever UpdateOne changes the collection.
func NewRecordStore(kv kvstore.KV, dirty *DirtyFlag, log *logrus.Logger) *RecordStore {
	return &RecordStore{kv: kv, dirty: dirty, log: log}
}

// Load deserializes the persisted collection. An absent or corrupt payload is
// treated as an empty collection; corruption is logged, never surfaced.
func (s *RecordStore) Load(ctx context.Context) ([]models.DeliveryRecord, error) {
	value, ok, err := s.kv.Get(ctx, KeyRecords)
	if err != nil {
		return nil, err
	}
	if !ok || value == "" {
		return []models.DeliveryRecord{}, nil
	}

	var records []models.DeliveryRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		s.log.WithError(err).Warn("Corrupt record collection in storage, treating as empty")
		return []models.DeliveryRecord{}, nil
	}
	if records == nil {
		records = []models.DeliveryRecord{}
	}
	return records, nil
}

// ReplaceAll overwrites the entire persisted collection. Used after a
// successful pull; the caller resets any UI filter state.
func (s *RecordStore) ReplaceAll(ctx context.Context, records []models.DeliveryRecord) error {
	if records == nil {
		records = []models.DeliveryRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyRecords, string(payload))
}

// UpdateOne replaces the record whose assignment id matches id, preserving
// collection order, and persists the full collection. A missing id persists
// the collection unchanged without error. When the collection actually
// changes, the dirty flag is set before the data write so a crash between the
// two cannot leave dirty data unflagged.
func (s *RecordStore) UpdateOne(ctx context.Context, id string, updated models.DeliveryRecord) ([]models.DeliveryRecord, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.DistInstID] = i
	}

	if i, ok := index[id]; ok {
		if err := s.dirty.Set(ctx, true); err != nil {
			return nil, err
		}
		records[i] = updated
	}

	if err := s.ReplaceAll(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Find returns the record with the given assignment id, or ErrNotFound.
func (s *RecordStore) Find(ctx context.Context, id string) (*models.DeliveryRecord, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].DistInstID == id {
			return &records[i], nil
		}
	}
	return nil, ErrNotFound
}

// Clear resets the persisted collection to empty.
func (s *RecordStore) Clear(ctx context.Context) error {
	return s.kv.Set(ctx, KeyRecords, "[]")
}
