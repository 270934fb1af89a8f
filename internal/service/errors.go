package service

import (
	"errors"
	"fmt"
)

// Flow-gating errors. These are expected outcomes, not failures: the UI maps
// them to informational or warning messages.
var (
	// ErrUnsyncedChanges blocks a refresh while local changes have not been
	// pushed; no network call is made.
	ErrUnsyncedChanges = errors.New("cannot refresh while unsynced local changes exist")
	// ErrNothingToPush means the local data already matches the server.
	ErrNothingToPush = errors.New("local data is already up to date")
	// ErrNoAttachments means the upload flow found no staged images.
	ErrNoAttachments = errors.New("no images staged for upload")
	// ErrNotLoggedIn means no driver session is stored.
	ErrNotLoggedIn = errors.New("no active session")
	// ErrRecordLocked rejects edits to a finalized record.
	ErrRecordLocked = errors.New("record is already finalized")
	// ErrInvalidQuantity rejects a delivered-quantity entry that is not an
	// optional integer/decimal number.
	ErrInvalidQuantity = errors.New("quantity must contain only numbers and decimals")
)

// Capture rejection reasons.
const (
	ReasonMaxReached       = "max_reached"
	ReasonPermissionDenied = "permission_denied"
)

// CaptureRejectedError reports why a photo capture was refused before any
// state changed.
type CaptureRejectedError struct {
	Reason string
}

func (e *CaptureRejectedError) Error() string {
	switch e.Reason {
	case ReasonMaxReached:
		return "photo limit reached; delete the current photo to capture a new one"
	case ReasonPermissionDenied:
		return "storage permission was not granted"
	default:
		return fmt.Sprintf("capture rejected: %s", e.Reason)
	}
}
