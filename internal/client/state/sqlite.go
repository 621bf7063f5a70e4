package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dpetrovs/proconnect/internal/client/migrations"
	"github.com/dpetrovs/proconnect/internal/common"
	"github.com/dpetrovs/proconnect/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const recordKey = "client_state"

// SQLiteRepository keeps the client-state record in a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Open opens (creating if needed) the state database at dsn and brings its
// schema up to date.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating state db: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (r *SQLiteRepository) Load(ctx context.Context) (*Record, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, recordKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNoSavedState
	}
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	if rec.SchemaVersion != SchemaVersion {
		// Old or future layout; safer to start fresh than to guess.
		return nil, common.ErrNoSavedState
	}
	return &rec, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, rec *Record) error {
	rec.SchemaVersion = SchemaVersion

	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, recordKey, value)
		if err != nil {
			return fmt.Errorf("saving state: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, recordKey)
	if err != nil {
		return fmt.Errorf("clearing state: %w", err)
	}
	return nil
}
