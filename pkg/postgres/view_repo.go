package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/savaki/ga-webhook/pkg/models"
)

const createNavDataTable = `CREATE TABLE IF NOT EXISTS nav_data (
	id             TEXT PRIMARY KEY,
	view           TEXT NOT NULL,
	source_session TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	expires_at     TIMESTAMPTZ
)`

const insertNavRecord = `INSERT INTO nav_data (id, view, source_session, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)`

// Execer is the subset of *sql.DB used by ViewRepository
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Open connects to Postgres and checks the connection
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// ViewRepository stores navigation records in the nav_data table
type ViewRepository struct {
	db     Execer
	logger zerolog.Logger
}

// NewViewRepository creates a new view repository
func NewViewRepository(db Execer, logger zerolog.Logger) *ViewRepository {
	return &ViewRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the nav_data table if it does not exist
func (r *ViewRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNavDataTable); err != nil {
		return fmt.Errorf("create nav_data: %w", err)
	}
	return nil
}

// InsertView stores a navigation record
func (r *ViewRepository) InsertView(ctx context.Context, rec *models.NavRecord) error {
	var expiresAt sql.NullTime
	if rec.TTL > 0 {
		expiresAt = sql.NullTime{Time: time.Unix(rec.TTL, 0).UTC(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertNavRecord, rec.ID, rec.View, rec.Session, rec.CreatedAt, expiresAt)
	if err != nil {
		return fmt.Errorf("insert nav record: %w", err)
	}

	r.logger.Debug().
		Str("record_id", rec.ID).
		Str("view", rec.View).
		Msg("Saved nav record to Postgres")
	return nil
}
