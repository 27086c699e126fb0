package localcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(context.Background(), "file:cachetest?mode=memory&cache=shared")
	require.NoError(t, err)
	c.db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPutAndGet(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, UserKey("u1"), []byte(`{"identity":{"id":"u1"}}`)))

	v, err := c.Get(ctx, UserKey("u1"))
	require.NoError(t, err)
	require.JSONEq(t, `{"identity":{"id":"u1"}}`, string(v))
}

func TestGetAbsentReturnsNilNil(t *testing.T) {
	c := setupCache(t)

	v, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestPutUpsertOverwrites(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, GuestKey, []byte("old")))
	require.NoError(t, c.Put(ctx, GuestKey, []byte("new")))

	v, err := c.Get(ctx, GuestKey)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, MigratedKey("u1"), []byte("1")))
	require.NoError(t, c.Delete(ctx, MigratedKey("u1")))

	v, err := c.Get(ctx, MigratedKey("u1"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestOpenFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.db")

	c, err := OpenFile(context.Background(), path)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put(context.Background(), CurrentUserKey, []byte("u1")))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c1, err := OpenFile(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, c1.Put(context.Background(), GuestKey, []byte("kept")))
	require.NoError(t, c1.Close())

	c2, err := OpenFile(context.Background(), path)
	require.NoError(t, err)
	defer c2.Close()

	v, err := c2.Get(context.Background(), GuestKey)
	require.NoError(t, err)
	require.Equal(t, []byte("kept"), v)
}
