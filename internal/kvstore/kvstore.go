// Package kvstore provides the durable string key to string value mapping the
// reconciliation layer is built on. Every write is a full-value overwrite;
// there are no partial updates.
package kvstore

import "context"

// KV is the persistence adapter interface. Get reports whether the key was
// present so callers can distinguish an absent key from an empty value.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
