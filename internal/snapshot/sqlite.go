// Package snapshot persists the most recent server responses to a local
// SQLite database so list and dashboard views keep working offline.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/budgetiq/budgetiq/internal/common"
	"github.com/budgetiq/budgetiq/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is a SQLite-backed snapshot of server state.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the snapshot database at dbPath.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping snapshot database: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the snapshot schema.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS records (
	variant     TEXT NOT NULL,
	position    INTEGER NOT NULL,
	id          TEXT NOT NULL,
	amount      REAL NOT NULL,
	category    TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	date        TIMESTAMP NOT NULL,
	created_at  TIMESTAMP,
	PRIMARY KEY (variant, id)
);
CREATE TABLE IF NOT EXISTS summary (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	total_income    REAL NOT NULL,
	total_expense   REAL NOT NULL,
	current_balance REAL NOT NULL,
	fetched_at      TIMESTAMP NOT NULL
);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate snapshot schema: %w", err)
	}
	return nil
}

// ReplaceRecords swaps the stored collection for a variant with the given
// ordered records, mirroring the record store's wholesale reload.
func (s *Store) ReplaceRecords(ctx context.Context, variant string, recs []model.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE variant = ?`, variant); err != nil {
		return fmt.Errorf("failed to clear %s snapshot: %w", variant, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (variant, position, id, amount, category, source, description, date, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range recs {
		if _, err := stmt.ExecContext(ctx, variant, i, string(rec.ID), rec.Amount,
			rec.Category, rec.Source, rec.Description, rec.Date.Time, rec.CreatedAt.Time); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Records returns the stored collection for a variant in its original order.
func (s *Store) Records(ctx context.Context, variant string) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, amount, category, source, description, date, created_at
FROM records WHERE variant = ? ORDER BY position`, variant)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s snapshot: %w", variant, err)
	}
	defer func() { _ = rows.Close() }()

	var recs []model.Record
	for rows.Next() {
		var rec model.Record
		var id string
		var date time.Time
		var createdAt sql.NullTime
		if err := rows.Scan(&id, &rec.Amount, &rec.Category, &rec.Source,
			&rec.Description, &date, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.ID = model.RecordID(id)
		rec.Date = model.NewTime(date)
		if createdAt.Valid {
			rec.CreatedAt = model.NewTime(createdAt.Time)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s snapshot: %w", variant, err)
	}
	return recs, nil
}

// SaveSummary stores the dashboard summary along with the fetch time.
func (s *Store) SaveSummary(ctx context.Context, summary model.Summary, fetchedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO summary (id, total_income, total_expense, current_balance, fetched_at)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	total_income = excluded.total_income,
	total_expense = excluded.total_expense,
	current_balance = excluded.current_balance,
	fetched_at = excluded.fetched_at`,
		summary.TotalIncome, summary.TotalExpense, summary.CurrentBalance, fetchedAt)
	if err != nil {
		return fmt.Errorf("failed to save summary snapshot: %w", err)
	}
	return nil
}

// Summary returns the stored dashboard summary and when it was fetched.
// Returns common.ErrNoSnapshot when nothing has been stored yet.
func (s *Store) Summary(ctx context.Context) (model.Summary, time.Time, error) {
	var summary model.Summary
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx, `
SELECT total_income, total_expense, current_balance, fetched_at FROM summary WHERE id = 1`).
		Scan(&summary.TotalIncome, &summary.TotalExpense, &summary.CurrentBalance, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Summary{}, time.Time{}, common.ErrNoSnapshot
	}
	if err != nil {
		return model.Summary{}, time.Time{}, fmt.Errorf("failed to read summary snapshot: %w", err)
	}
	return summary, fetchedAt, nil
}
