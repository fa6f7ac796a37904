package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added (key, seq) index on slot_revisions
const currentSchemaVersion = 1

// SQLiteMedium stores slots in a SQLite database.
// Uses WAL mode and a single connection.
type SQLiteMedium struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// Safe to call repeatedly on the same path.
func OpenSQLite(path string) (*SQLiteMedium, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteMedium{db: db}, nil
}

// Load implements Medium.
func (m *SQLiteMedium) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	err := m.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(payload), true, nil
}

// Save implements Medium. The revision row and the current row are written
// in one transaction.
func (m *SQLiteMedium) Save(ctx context.Context, rev Revision) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: begin: %w", rev.Key, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO slot_revisions (seq, key, hash, payload)
		VALUES (?, ?, ?, ?)
	`, rev.Seq, rev.Key, rev.Hash, string(rev.Payload)); err != nil {
		return fmt.Errorf("save %s: append revision: %w", rev.Key, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO slots (key, payload, hash, seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			hash = excluded.hash,
			seq = excluded.seq
	`, rev.Key, string(rev.Payload), rev.Hash, rev.Seq); err != nil {
		return fmt.Errorf("save %s: update slot: %w", rev.Key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: commit: %w", rev.Key, err)
	}
	return nil
}

// LastSeq implements Medium.
func (m *SQLiteMedium) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := m.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM slot_revisions`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

// Revisions implements Medium. Results are ordered by seq ascending.
func (m *SQLiteMedium) Revisions(ctx context.Context, key string) ([]Revision, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT seq, key, hash, payload
		FROM slot_revisions
		WHERE key = ?
		ORDER BY seq ASC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("revisions %s: %w", key, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var rev Revision
		var payload string
		if err := rows.Scan(&rev.Seq, &rev.Key, &rev.Hash, &payload); err != nil {
			return nil, fmt.Errorf("revisions %s: scan: %w", key, err)
		}
		rev.Payload = []byte(payload)
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("revisions %s: %w", key, err)
	}
	return out, nil
}

// Close closes the database connection.
func (m *SQLiteMedium) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the per-key revision index to databases created before it
// was part of schema.sql.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_slot_revisions_key
		ON slot_revisions(key, seq)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// pragma returns the current value of a pragma. Used by tests.
func (m *SQLiteMedium) pragma(name string) (string, error) {
	var value string
	if err := m.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to query %s: %w", name, err)
	}
	return value, nil
}
