// Package localcache implements the durable local store backing both the
// user-keyed and guest profile copies: a small key/value table in a SQLite
// database. The cache is the backstop every save must reach even when both
// remote tiers are down.
package localcache

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/garciabuilder/profilesync/internal/filex"
	"github.com/garciabuilder/profilesync/internal/tiers/localcache/migrations"
)

// Well-known keys. Profile copies are keyed per user plus one shared guest
// slot written on every save so a signed-out session still sees fresh data.
const (
	GuestKey       = "profile:guest"
	CurrentUserKey = "current_user"
)

// UserKey returns the cache key holding the given user's profile copy.
func UserKey(userID string) string { return "profile:" + userID }

// MigratedKey marks a completed one-shot guest migration for the user.
func MigratedKey(userID string) string { return "guest_migrated:" + userID }

type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database and runs pending migrations.
// The dsn is passed to the sqlite driver as-is, so tests can use in-memory
// databases.
func Open(ctx context.Context, dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache open error: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache migration error: %w", err)
	}
	return &Cache{db: db}, nil
}

// OpenFile opens the cache at a filesystem path, creating parent
// directories as needed.
func OpenFile(ctx context.Context, path string) (*Cache, error) {
	if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("cache dir error: %w", err)
	}
	return Open(ctx, path)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the stored value or (nil, nil) when the key is absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx, `SELECT value FROM cache WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache[%s]: %w", key, err)
	}
	return value, nil
}

func (c *Cache) Put(ctx context.Context, key string, value []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache (key, value, updated_at) VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set cache[%s]: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache[%s]: %w", key, err)
	}
	return nil
}
