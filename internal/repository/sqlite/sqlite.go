// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — works everywhere Go works.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and creates the
// schema if it is absent. Use ":memory:" for a throwaway database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The cascade deletes on
	// questions, responses, and answers depend on them being on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the four tables if they do not exist. CREATE TABLE IF
// NOT EXISTS keeps this safe to run on every startup; there is no
// versioned migration history.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS forms (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_forms_created_at ON forms(created_at);

		CREATE TABLE IF NOT EXISTS questions (
			id            TEXT PRIMARY KEY,
			form_id       TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
			question_text TEXT NOT NULL,
			question_type TEXT NOT NULL,
			options       TEXT,
			is_required   INTEGER NOT NULL DEFAULT 1,
			sort_order    INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_questions_form_id ON questions(form_id);

		CREATE TABLE IF NOT EXISTS responses (
			id               TEXT PRIMARY KEY,
			form_id          TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
			submitted_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_anonymous     INTEGER NOT NULL DEFAULT 1,
			respondent_name  TEXT,
			respondent_email TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_responses_form_id ON responses(form_id);

		CREATE TABLE IF NOT EXISTS answers (
			id           TEXT PRIMARY KEY,
			response_id  TEXT NOT NULL REFERENCES responses(id) ON DELETE CASCADE,
			question_id  TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			answer_text  TEXT,
			rating_value INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_answers_question_id ON answers(question_id);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// withTx runs fn inside a transaction: commit if fn succeeds, roll back if
// it fails. The deferred Rollback is a no-op after a successful Commit, so
// every exit path — including a panic inside fn — releases the transaction.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
