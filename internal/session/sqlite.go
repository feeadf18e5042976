package session

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteJar stores entries in a SQLite database.
type SQLiteJar struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteJar opens (or creates) a SQLite database at dbPath and migrates it.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteJar(ctx context.Context, dbPath string, logger *slog.Logger) (*SQLiteJar, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	j := &SQLiteJar{db: db, logger: logger.With("component", "session-sqlite")}
	if err := j.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

// Migrate creates the entries table if needed.
func (j *SQLiteJar) Migrate(ctx context.Context) error {
	j.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, j.db)
}

func (j *SQLiteJar) Put(ctx context.Context, entries ...Entry) error {
	j.logger.Debug("sql", "op", "upsert", "table", "cookies", "count", len(entries))

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cookies (name, value, expires_at, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
			e.Name, e.Value, formatTime(e.Expires), time.Now().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", e.Name, err)
		}
	}
	return tx.Commit()
}

func (j *SQLiteJar) Get(ctx context.Context, name string) (Entry, bool, error) {
	j.logger.Debug("sql", "op", "select", "table", "cookies", "name", name)

	e := Entry{Name: name}
	var expiresAt string
	err := j.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cookies WHERE name = ?`, name,
	).Scan(&e.Value, &expiresAt)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	if expiresAt != "" {
		t, err := time.Parse(time.RFC3339Nano, expiresAt)
		if err != nil {
			// An unreadable expiry must not turn into "never expires".
			j.logger.Warn("unreadable expires_at, treating entry as expired", "name", name, "expires_at", expiresAt)
			t = time.Unix(0, 0).UTC()
		}
		e.Expires = t
	}
	return e, true, nil
}

func (j *SQLiteJar) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	j.logger.Debug("sql", "op", "delete", "table", "cookies", "names", names)

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	_, err := j.db.ExecContext(ctx, `DELETE FROM cookies WHERE name IN (`+placeholders+`)`, args...)
	return err
}

// Close closes the underlying database connection.
func (j *SQLiteJar) Close() error {
	return j.db.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
