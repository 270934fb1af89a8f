package service

import (
	"context"
	"testing"
	"time"

	"example.com/fieldtrack/agent/internal/models"
	"example.com/fieldtrack/agent/internal/repository"

	"github.com/stretchr/testify/require"
)

func seedRecords(t *testing.T, env *testEnv, records ...models.DeliveryRecord) {
	t.Helper()
	require.NoError(t, env.records.ReplaceAll(context.Background(), records))
	// Seeding is not a driver edit
	require.NoError(t, env.dirty.Set(context.Background(), false))
}

func strptr(s string) *string { return &s }

func TestRecordsFiltersBySearchTerm(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedRecords(t, env,
		editableRecord("10", "Primaria Benito Juarez"),
		editableRecord("20", "Jardin de Ninos Sor Juana"),
	)

	records, err := env.svc.Records(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 2)

	records, err = env.svc.Records(ctx, "primaria")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "10", records[0].DistInstID)
}

func TestRecordNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Record(context.Background(), "99")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateRecordPersistsDraftAndSetsDirty(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedRecords(t, env, editableRecord("10", "Primaria Benito Juarez"))

	record, err := env.svc.UpdateRecord(ctx, "10", DraftUpdate{
		Delivered:    map[string]string{"p1": "8"},
		Observations: strptr("gate was closed, delivered to the kitchen"),
	})
	require.NoError(t, err)
	require.Equal(t, "8", record.Products[0].Delivered)
	require.Equal(t, "gate was closed, delivered to the kitchen", record.Observations)

	stored, err := env.records.Find(ctx, "10")
	require.NoError(t, err)
	require.Equal(t, "8", stored.Products[0].Delivered)

	isDirty, err := env.dirty.Get(ctx)
	require.NoError(t, err)
	require.True(t, isDirty)
}

func TestUpdateRecordRejectsBadQuantity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedRecords(t, env, editableRecord("10", "Primaria Benito Juarez"))

	_, err := env.svc.UpdateRecord(ctx, "10", DraftUpdate{
		Delivered: map[string]string{"p1": "8,5"},
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	// Nothing persisted
	stored, err := env.records.Find(ctx, "10")
	require.NoError(t, err)
	require.Empty(t, stored.Products[0].Delivered)

	isDirty, err := env.dirty.Get(ctx)
	require.NoError(t, err)
	require.False(t, isDirty)
}

func TestUpdateRecordRejectsLocked(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	locked := editableRecord("10", "Primaria Benito Juarez")
	locked.SavedByDriver = models.RecordLocked
	seedRecords(t, env, locked)

	_, err := env.svc.UpdateRecord(ctx, "10", DraftUpdate{
		Observations: strptr("too late"),
	})
	require.ErrorIs(t, err, ErrRecordLocked)
}

func TestFillMaxCopiesRequestedQuantity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedRecords(t, env, editableRecord("10", "Primaria Benito Juarez"))

	record, err := env.svc.FillMax(ctx, "10", "p2")
	require.NoError(t, err)
	require.Equal(t, "4.5", record.Products[1].Delivered)
	require.Empty(t, record.Products[0].Delivered)
}

func TestFinalizeRequiresPhoto(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedRecords(t, env, editableRecord("10", "Primaria Benito Juarez"))

	_, err := env.svc.FinalizeRecord(ctx, "10", DraftUpdate{
		Delivered:  map[string]string{"p1": "10", "p2": "4.5"},
		ReceivedBy: strptr("Maria"),
	})

	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "imagenes", vErr.Field)

	// The record stays editable
	stored, err := env.records.Find(ctx, "10")
	require.NoError(t, err)
	require.False(t, stored.Locked())
}

func TestFinalizeRequiresReceiver(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedRecords(t, env, editableRecord("10", "Primaria Benito Juarez"))

	_, err := env.svc.StagePhoto(ctx, "10", []byte("jpegbytes"))
	require.NoError(t, err)

	_, err = env.svc.FinalizeRecord(ctx, "10", DraftUpdate{
		Delivered: map[string]string{"p1": "10", "p2": "4.5"},
	})

	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quien_recibe", vErr.Field)
}

func TestFinalizeLocksRecordAndPersistsPhotos(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedRecords(t, env, editableRecord("10", "Primaria Benito Juarez"))

	_, err := env.svc.StagePhoto(ctx, "10", []byte("jpegbytes"))
	require.NoError(t, err)

	timeNow = func() time.Time {
		return time.Date(2024, time.March, 5, 9, 7, 3, 0, time.UTC)
	}
	defer func() { timeNow = time.Now }()

	record, err := env.svc.FinalizeRecord(ctx, "10", DraftUpdate{
		Delivered:  map[string]string{"p1": "10", "p2": "4.5"},
		ReceivedBy: strptr("Maria"),
	})
	require.NoError(t, err)
	require.True(t, record.Locked())
	require.Equal(t, "2024-3-5 9:7:3", record.SavedAt)

	// The staged photo moved into the persisted upload queue
	sets, err := env.attachments.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Equal(t, "10", sets[0].InstID)
	require.Len(t, sets[0].LocalPaths, 1)

	// A second finalize is rejected
	_, err = env.svc.FinalizeRecord(ctx, "10", DraftUpdate{})
	require.ErrorIs(t, err, ErrRecordLocked)
}

func TestFinalizeValidationLeavesDraftUnpersisted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedRecords(t, env, editableRecord("10", "Primaria Benito Juarez"))

	_, err := env.svc.StagePhoto(ctx, "10", []byte("jpegbytes"))
	require.NoError(t, err)

	// Delivered exceeds requested
	_, err = env.svc.FinalizeRecord(ctx, "10", DraftUpdate{
		Delivered:  map[string]string{"p1": "11", "p2": "4.5"},
		ReceivedBy: strptr("Maria"),
	})

	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "entregado", vErr.Field)

	stored, err := env.records.Find(ctx, "10")
	require.NoError(t, err)
	require.False(t, stored.Locked())
	require.Empty(t, stored.Products[0].Delivered)

	// The photo stays staged, not persisted
	sets, err := env.attachments.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, sets)
}
