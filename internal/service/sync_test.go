package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"example.com/fieldtrack/agent/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRefreshReplacesLocalCollection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.loginAs(t, "chofer1", "42")

	// A stale local copy from a previous day
	require.NoError(t, env.records.ReplaceAll(ctx, []models.DeliveryRecord{editableRecord("1", "Old route")}))

	fresh := []models.DeliveryRecord{
		editableRecord("10", "Primaria Benito Juarez"),
		editableRecord("20", "Jardin de Ninos Sor Juana"),
	}
	env.remote.On("FetchRecords", mock.Anything, "42").Return(fresh, nil)

	records, err := env.svc.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	stored, err := env.records.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, fresh, stored)

	env.remote.AssertExpectations(t)
}

func TestRefreshBlockedWhileDirty(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.loginAs(t, "chofer1", "42")

	local := []models.DeliveryRecord{editableRecord("10", "Primaria Benito Juarez")}
	require.NoError(t, env.records.ReplaceAll(ctx, local))
	require.NoError(t, env.dirty.Set(ctx, true))

	// No FetchRecords expectation: the refusal must happen before any
	// network call
	_, err := env.svc.Refresh(ctx)
	require.ErrorIs(t, err, ErrUnsyncedChanges)

	stored, err := env.records.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, local, stored)

	env.remote.AssertNotCalled(t, "FetchRecords", mock.Anything, mock.Anything)
}

func TestRefreshRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Refresh(context.Background())
	require.ErrorIs(t, err, ErrNotLoggedIn)
	env.remote.AssertNotCalled(t, "FetchRecords", mock.Anything, mock.Anything)
}

func TestRefreshKeepsLocalDataOnFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.loginAs(t, "chofer1", "42")

	local := []models.DeliveryRecord{editableRecord("10", "Primaria Benito Juarez")}
	require.NoError(t, env.records.ReplaceAll(ctx, local))

	env.remote.On("FetchRecords", mock.Anything, "42").
		Return(nil, errors.New("connection failed"))

	_, err := env.svc.Refresh(ctx)
	require.Error(t, err)

	stored, err := env.records.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, local, stored)
}

func TestPushClearsDirtyFlagOnSuccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.loginAs(t, "chofer1", "42")

	local := []models.DeliveryRecord{editableRecord("10", "Primaria Benito Juarez")}
	require.NoError(t, env.records.ReplaceAll(ctx, local))
	require.NoError(t, env.dirty.Set(ctx, true))

	env.remote.On("SubmitRecords", mock.Anything, "42", local).Return(nil)

	require.NoError(t, env.svc.Push(ctx))

	isDirty, err := env.dirty.Get(ctx)
	require.NoError(t, err)
	require.False(t, isDirty)

	env.remote.AssertExpectations(t)
}

func TestPushKeepsDirtyFlagOnFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.loginAs(t, "chofer1", "42")

	local := []models.DeliveryRecord{editableRecord("10", "Primaria Benito Juarez")}
	require.NoError(t, env.records.ReplaceAll(ctx, local))
	require.NoError(t, env.dirty.Set(ctx, true))

	env.remote.On("SubmitRecords", mock.Anything, "42", local).
		Return(errors.New("connection failed"))

	require.Error(t, env.svc.Push(ctx))

	// The data still counts as unsynced; the next push retries
	isDirty, err := env.dirty.Get(ctx)
	require.NoError(t, err)
	require.True(t, isDirty)
}

func TestPushNothingToPush(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, "chofer1", "42")

	err := env.svc.Push(context.Background())
	require.ErrorIs(t, err, ErrNothingToPush)
	env.remote.AssertNotCalled(t, "SubmitRecords", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadImagesNoAttachments(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UploadImages(context.Background())
	require.ErrorIs(t, err, ErrNoAttachments)
}

func TestUploadImagesFullSuccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, withCapacity(3))

	pathA := writePhoto(t, env.mediaDir, "image_1.jpg")
	pathB := writePhoto(t, env.mediaDir, "image_2.jpg")
	require.NoError(t, env.attachments.ReplaceAll(ctx, []models.AttachmentSet{{
		InstID:       "10",
		LocalPaths:   []string{pathA, pathB},
		DisplayPaths: []string{"file://" + pathA, "file://" + pathB},
	}}))

	env.remote.On("UploadImage", mock.Anything, "10", "image_1.jpg", mock.Anything).Return(nil)
	env.remote.On("UploadImage", mock.Anything, "10", "image_2.jpg", mock.Anything).Return(nil)

	uploaded, err := env.svc.UploadImages(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, uploaded)

	// Binaries are gone and the collection is empty
	require.NoFileExists(t, pathA)
	require.NoFileExists(t, pathB)

	sets, err := env.attachments.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, sets)

	env.remote.AssertExpectations(t)
}

func TestUploadImagesAbortsOnFirstFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, withCapacity(3))

	pathA := writePhoto(t, env.mediaDir, "image_1.jpg")
	pathB := writePhoto(t, env.mediaDir, "image_2.jpg")
	require.NoError(t, env.attachments.ReplaceAll(ctx, []models.AttachmentSet{{
		InstID:       "10",
		LocalPaths:   []string{pathA, pathB},
		DisplayPaths: []string{"file://" + pathA, "file://" + pathB},
	}}))

	env.remote.On("UploadImage", mock.Anything, "10", "image_1.jpg", mock.Anything).Return(nil)
	env.remote.On("UploadImage", mock.Anything, "10", "image_2.jpg", mock.Anything).
		Return(errors.New("connection lost"))

	uploaded, err := env.svc.UploadImages(ctx)
	require.Error(t, err)
	require.Equal(t, 1, uploaded)

	// The uploaded image is deleted and dropped from the collection; the
	// failed one stays staged for a retry
	require.NoFileExists(t, pathA)
	require.FileExists(t, pathB)

	sets, err := env.attachments.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Equal(t, []string{pathB}, sets[0].LocalPaths)
}

func writePhoto(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("jpegbytes"), 0o644))
	return path
}
