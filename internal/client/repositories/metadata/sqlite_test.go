package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "abc"))
	require.NoError(t, r.Set(ctx, "token", "def"))

	v, ok, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestGet_EmptyValueIsPresent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", ""))
	_, ok, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelete_ManyKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "abc"))
	require.NoError(t, r.Set(ctx, "signed_in_at", "2026-10-16T08:00:00Z"))
	require.NoError(t, r.Set(ctx, "other", "x"))

	require.NoError(t, r.Delete(ctx, "token", "signed_in_at", "absent"))
	require.NoError(t, r.Delete(ctx))

	for _, k := range []string{"token", "signed_in_at"} {
		_, ok, err := r.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
	v, ok, err := r.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, `metadata get "k"`)
	require.ErrorContains(t, r.Set(ctx, "k", "v"), `metadata set "k"`)
	require.ErrorContains(t, r.Delete(ctx, "k"), "metadata delete [k]")
}
