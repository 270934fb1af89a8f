package repository

import (
	"context"
	"testing"

	"example.com/fieldtrack/agent/internal/kvstore"
	"example.com/fieldtrack/agent/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testRecords() []models.DeliveryRecord {
	return []models.DeliveryRecord{
		{DistInstID: "10", Institution: "Primaria Benito Juarez", SavedByDriver: models.RecordEditable},
		{DistInstID: "20", Institution: "Jardin de Ninos Sor Juana", SavedByDriver: models.RecordEditable},
		{DistInstID: "30", Institution: "Secundaria Tecnica 5", SavedByDriver: models.RecordEditable},
	}
}

func TestRecordStoreLoadEmpty(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	store := NewRecordStore(kv, NewDirtyFlag(kv), newTestLogger())

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
	require.NotNil(t, records)
}

func TestRecordStoreLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, KeyRecords, "{not json"))

	store := NewRecordStore(kv, NewDirtyFlag(kv), newTestLogger())

	// Corruption reads as an empty collection, never an error
	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestRecordStoreReplaceAllRoundtrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	store := NewRecordStore(kv, NewDirtyFlag(kv), newTestLogger())

	require.NoError(t, store.ReplaceAll(ctx, testRecords()))

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, testRecords(), records)
}

func TestRecordStoreUpdateOne(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	dirty := NewDirtyFlag(kv)
	store := NewRecordStore(kv, dirty, newTestLogger())
	require.NoError(t, store.ReplaceAll(ctx, testRecords()))

	updated := testRecords()[1]
	updated.Observations = "delivered at the side entrance"

	records, err := store.UpdateOne(ctx, "20", updated)
	require.NoError(t, err)

	// Collection order and length are preserved
	require.Len(t, records, 3)
	require.Equal(t, "10", records[0].DistInstID)
	require.Equal(t, "20", records[1].DistInstID)
	require.Equal(t, "30", records[2].DistInstID)
	require.Equal(t, "delivered at the side entrance", records[1].Observations)

	// The change is flagged as unsynced
	isDirty, err := dirty.Get(ctx)
	require.NoError(t, err)
	require.True(t, isDirty)
}

func TestRecordStoreUpdateOneMissingID(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	dirty := NewDirtyFlag(kv)
	store := NewRecordStore(kv, dirty, newTestLogger())
	require.NoError(t, store.ReplaceAll(ctx, testRecords()))

	// A missing id is a silent no-op: no error, no dirty flag
	records, err := store.UpdateOne(ctx, "99", models.DeliveryRecord{DistInstID: "99"})
	require.NoError(t, err)
	require.Equal(t, testRecords(), records)

	isDirty, err := dirty.Get(ctx)
	require.NoError(t, err)
	require.False(t, isDirty)
}

func TestRecordStoreFind(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	store := NewRecordStore(kv, NewDirtyFlag(kv), newTestLogger())
	require.NoError(t, store.ReplaceAll(ctx, testRecords()))

	record, err := store.Find(ctx, "30")
	require.NoError(t, err)
	require.Equal(t, "Secundaria Tecnica 5", record.Institution)

	_, err = store.Find(ctx, "99")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordStoreClear(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	store := NewRecordStore(kv, NewDirtyFlag(kv), newTestLogger())
	require.NoError(t, store.ReplaceAll(ctx, testRecords()))

	require.NoError(t, store.Clear(ctx))

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestDirtyFlag(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	dirty := NewDirtyFlag(kv)

	// Absent key reads as clean
	isDirty, err := dirty.Get(ctx)
	require.NoError(t, err)
	require.False(t, isDirty)

	require.NoError(t, dirty.Set(ctx, true))
	isDirty, err = dirty.Get(ctx)
	require.NoError(t, err)
	require.True(t, isDirty)

	require.NoError(t, dirty.Set(ctx, false))
	isDirty, err = dirty.Get(ctx)
	require.NoError(t, err)
	require.False(t, isDirty)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	session := NewSessionStore(kv)

	user, err := session.User(ctx)
	require.NoError(t, err)
	require.Empty(t, user)

	require.NoError(t, session.SetSession(ctx, "chofer1", "42"))

	user, err = session.User(ctx)
	require.NoError(t, err)
	require.Equal(t, "chofer1", user)

	userID, err := session.UserID(ctx)
	require.NoError(t, err)
	require.Equal(t, "42", userID)

	require.NoError(t, session.ClearSession(ctx))
	userID, err = session.UserID(ctx)
	require.NoError(t, err)
	require.Empty(t, userID)
}
