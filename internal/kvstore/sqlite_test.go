package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "agent.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get(ctx, "distDatos")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "distDatos", "[]"))

	value, ok, err := store.Get(ctx, "distDatos")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[]", value)

	// Set on an existing key overwrites
	require.NoError(t, store.Set(ctx, "distDatos", `[{"dist_inst_id":"1"}]`))
	value, _, err = store.Get(ctx, "distDatos")
	require.NoError(t, err)
	require.Equal(t, `[{"dist_inst_id":"1"}]`, value)

	require.NoError(t, store.Delete(ctx, "distDatos"))
	_, ok, err = store.Get(ctx, "distDatos")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "agent.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "usuario_id", "42"))
	require.NoError(t, store.Close())

	// Values survive a restart
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	value, ok, err := store.Get(ctx, "usuario_id")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "42", value)
}
