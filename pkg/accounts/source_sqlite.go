package accounts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteSource loads accounts from a SQLite database. The database must
// contain an "accounts" table with name, api_key, description, and position
// columns; rows are returned ordered by position so configuration order is
// stable across loads.
//
// This is the one piece of persistence the gateway carries: the account
// credential list itself.
type SQLiteSource struct {
	db     *sql.DB
	dbPath string
}

// accountsSchema creates the accounts table for fresh databases.
const accountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	position    INTEGER PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	api_key     TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);`

const accountsQuery = `
SELECT name, api_key, description FROM accounts ORDER BY position;`

// NewSQLiteSource opens a SQLite-backed account source. The schema is
// created if it does not exist so that a fresh database fails account
// validation (empty list) rather than failing with a missing-table error.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &ConfigError{
			Source:  dbPath,
			Message: "failed to open account database",
			Cause:   err,
		}
	}

	// The account list is small and read-only; a single connection
	// avoids SQLite write-lock contention during reloads.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if _, err := db.Exec(accountsSchema); err != nil {
		db.Close()
		return nil, &ConfigError{
			Source:  dbPath,
			Message: "failed to initialize account schema",
			Cause:   err,
		}
	}

	return &SQLiteSource{db: db, dbPath: dbPath}, nil
}

// Load implements Source.
func (s *SQLiteSource) Load(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx, accountsQuery)
	if err != nil {
		return nil, &ConfigError{
			Source:  s.dbPath,
			Message: "failed to query accounts",
			Cause:   err,
		}
	}
	defer rows.Close()

	var list []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.Name, &a.APIKey, &a.Description); err != nil {
			return nil, &ConfigError{
				Source:  s.dbPath,
				Message: "failed to scan account row",
				Cause:   err,
			}
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &ConfigError{
			Source:  s.dbPath,
			Message: "failed to read accounts",
			Cause:   err,
		}
	}

	return list, nil
}

// Describe implements Source.
func (s *SQLiteSource) Describe() string {
	return fmt.Sprintf("sqlite:%s", s.dbPath)
}

// Close releases the underlying database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
