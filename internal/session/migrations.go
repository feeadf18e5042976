package session

import (
	"context"
	"database/sql"
	"strings"
)

// schema contains the DDL for the session database.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS cookies (
		name       TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		expires_at TEXT NOT NULL DEFAULT ''
	)`,
}

// alterStatements are column additions. SQLite has no IF NOT EXISTS for
// ALTER TABLE ADD COLUMN, so each is guarded by a table_info lookup.
var alterStatements = []struct {
	table    string
	column   string
	alterSQL string
}{
	{
		table:    "cookies",
		column:   "updated_at",
		alterSQL: "ALTER TABLE cookies ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''",
	},
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, alter := range alterStatements {
		if err := addColumnIfNotExists(ctx, db, alter.table, alter.column, alter.alterSQL); err != nil {
			return err
		}
	}
	return nil
}

func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, alterSQL string) error {
	exists, err := columnExists(ctx, db, table, column)
	if err != nil || exists {
		return err
	}
	_, err = db.ExecContext(ctx, alterSQL)
	return err
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue *string
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}
