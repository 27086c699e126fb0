// Package remotetable implements the relational storage tier over a
// PostgreSQL database: a profiles row per user plus dated metric rows for
// body measurements, weight history, and progress photos.
package remotetable

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/garciabuilder/profilesync/internal/logging"
	"github.com/garciabuilder/profilesync/internal/snapshot"
	"github.com/garciabuilder/profilesync/internal/tiers/remotetable/migrations"
)

// Adapter is the relational tier. It accepts identity and body-metrics
// writes; the remaining sections live in the user-metadata blob.
type Adapter struct {
	db  *sql.DB
	log logging.Logger
}

// New wraps an existing database handle. Used directly by tests.
func New(db *sql.DB, log logging.Logger) *Adapter {
	return &Adapter{db: db, log: log}
}

// Open connects to the database and runs pending migrations.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Adapter, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// goose dialect is process-global and the local cache sets sqlite3.
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration dialect error: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return New(db, log), nil
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) Name() string { return "remote_table" }

func (a *Adapter) Supports(sec snapshot.Section) bool {
	return sec == snapshot.SectionIdentity || sec == snapshot.SectionBodyMetrics
}
