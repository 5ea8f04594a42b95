package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantcare/internal/db"
	"github.com/vbonduro/plantcare/internal/session"
)

func TestFlagStoreSetGetClear(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	s := NewFlagStore(d)
	ctx := context.Background()

	ok, err := s.Get(ctx, "scope-1", session.LoggedInKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "scope-1", session.LoggedInKey))
	require.NoError(t, s.Set(ctx, "scope-1", session.LoggedInKey))

	ok, err = s.Get(ctx, "scope-1", session.LoggedInKey)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Get(ctx, "scope-2", session.LoggedInKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx, "scope-1", session.LoggedInKey))
	ok, err = s.Get(ctx, "scope-1", session.LoggedInKey)
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an unset flag is not an error.
	assert.NoError(t, s.Clear(ctx, "scope-3", session.LoggedInKey))
}

func TestFlagSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.db")
	ctx := context.Background()

	first, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, session.NewFlag(NewFlagStore(first), "tab").MarkLoggedIn(ctx))
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	flag := session.NewFlag(NewFlagStore(second), "tab")
	ok, err := flag.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, flag.ClearLoggedIn(ctx))
	ok, err = flag.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlagStoreClosedDB(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	require.NoError(t, d.Close())

	_, err = NewFlagStore(d).Get(context.Background(), "s", "k")
	assert.Error(t, err)
}
