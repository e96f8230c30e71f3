package journal

import (
	"database/sql"
	"fmt"

	"plannerd/internal/journal/migrations"
	"plannerd/internal/model"
	"plannerd/internal/state"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements state.Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) a journal database at path and runs
// pending migrations. path can be a file path or ":memory:".
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal database: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Record appends an entry.
func (j *SQLiteJournal) Record(entry *model.JournalEntry) error {
	var finishedAt sql.NullTime
	if entry.FinishedAt != nil {
		finishedAt = sql.NullTime{Time: *entry.FinishedAt, Valid: true}
	}

	_, err := j.db.Exec(
		`INSERT INTO journal_entries (id, operation, backup_id, status, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Operation, entry.BackupID, entry.Status, entry.StartedAt, finishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (j *SQLiteJournal) List(limit int) ([]*model.JournalEntry, error) {
	rows, err := j.db.Query(
		`SELECT id, operation, backup_id, status, started_at, finished_at
		 FROM journal_entries
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.JournalEntry
	for rows.Next() {
		var e model.JournalEntry
		var finishedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.Operation, &e.BackupID, &e.Status, &e.StartedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		if finishedAt.Valid {
			t := finishedAt.Time
			e.FinishedAt = &t
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading journal entries: %w", err)
	}

	return entries, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Compile-time check that SQLiteJournal implements state.Journal.
var _ state.Journal = (*SQLiteJournal)(nil)
