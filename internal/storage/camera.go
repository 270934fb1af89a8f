package storage

import (
	"context"
	"errors"
	"os"
)

// Camera is the capture collaborator. TakePhoto returns a transient file
// reference; the caller converts it into a durable binary and a renderable
// URI. The capture primitive itself (hardware, UI) lives outside this
// module.
type Camera interface {
	TakePhoto(ctx context.Context) (string, error)
}

// ErrNoCamera is returned when no capture collaborator is configured.
var ErrNoCamera = errors.New("no camera available")

// FileCamera is a Camera that returns a fixed file path. The CLI uses it to
// stage an existing image; tests use it as a stand-in for the device camera.
type FileCamera struct {
	Path string
}

// TakePhoto returns the configured path, verifying the file exists.
func (c FileCamera) TakePhoto(_ context.Context) (string, error) {
	if c.Path == "" {
		return "", ErrNoCamera
	}
	if _, err := os.Stat(c.Path); err != nil {
		return "", err
	}
	return c.Path, nil
}

// Gallery guards writes to shared device storage. Platforms without an
// explicit permission model use AlwaysGranted.
type Gallery interface {
	EnsurePermission(ctx context.Context) error
}

// ErrPermissionDenied is returned by a Gallery when the user refused the
// storage permission.
var ErrPermissionDenied = errors.New("storage permission denied")

// AlwaysGranted is a Gallery that never denies.
type AlwaysGranted struct{}

// EnsurePermission always succeeds.
func (AlwaysGranted) EnsurePermission(_ context.Context) error { return nil }
