package repository

import (
	"context"

	"example.com/fieldtrack/agent/internal/kvstore"
)

const (
	dirtyClean = "0"
	dirtySet   = "1"
)

// DirtyFlag is the persisted marker meaning "local data differs from the last
// known server state". An absent key reads as clean.
type DirtyFlag struct {
	kv kvstore.KV
}

// NewDirtyFlag creates a dirty flag repository over the given store.
func NewDirtyFlag(kv kvstore.KV) *DirtyFlag {
	return &DirtyFlag{kv: kv}
}

// Get reports whether unsynced local changes exist.
func (f *DirtyFlag) Get(ctx context.Context) (bool, error) {
	value, ok, err := f.kv.Get(ctx, KeyDirty)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return value == dirtySet, nil
}

// Set persists the flag.
func (f *DirtyFlag) Set(ctx context.Context, dirty bool) error {
	value := dirtyClean
	if dirty {
		value = dirtySet
	}
	return f.kv.Set(ctx, KeyDirty, value)
}
