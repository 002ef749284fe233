package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Bounded retry for transient lock contention at the persistence boundary.
const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (collection, key)
);
CREATE TABLE IF NOT EXISTS counters (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (collection, key)
);
`

// SQLite is a DocStore backed by a single SQLite database file.
type SQLite struct {
	db *sql.DB
}

var _ DocStore = (*SQLite)(nil)

// Open connects to the SQLite database at dsn, applying recommended
// pragmas and creating the schema.
func Open(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// applyPragmas configures SQLite for concurrent short-lived requests.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ASCEND_DB environment variable
// 2. $XDG_DATA_HOME/ascend/ascend.db
// 3. ~/.local/share/ascend/ascend.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ASCEND_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "ascend", "ascend.db")
	return p, ensureDir(p)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, collection, key string, out any) error {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND key = ?`,
		collection, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, key)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return json.Unmarshal(data, out)
}

func (s *SQLite) Set(ctx context.Context, collection, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, key, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, key) DO UPDATE SET
			data = excluded.data, updated_at = excluded.updated_at`,
		collection, key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, collection, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND key = ?`, collection, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *SQLite) DeletePrefix(ctx context.Context, collection, prefix string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND key LIKE ? ESCAPE '\'`,
		collection, likePrefix(prefix))
	if err != nil {
		return 0, fmt.Errorf("delete prefix %s/%s*: %w", collection, prefix, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLite) List(ctx context.Context, collection, prefix string) ([]Doc, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, data FROM documents
		WHERE collection = ? AND key LIKE ? ESCAPE '\'
		ORDER BY key`,
		collection, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("list %s/%s*: %w", collection, prefix, err)
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		var d Doc
		var data []byte
		if err := rows.Scan(&d.Key, &data); err != nil {
			return nil, err
		}
		d.Data = json.RawMessage(data)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *SQLite) Increment(ctx context.Context, collection, key string, delta int64) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (collection, key, value) VALUES (?, ?, ?)
		ON CONFLICT (collection, key) DO UPDATE SET value = value + excluded.value
		RETURNING value`,
		collection, key, delta).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment %s/%s: %w", collection, key, err)
	}
	return value, nil
}

func (s *SQLite) ResetCounter(ctx context.Context, collection, key string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO counters (collection, key, value) VALUES (?, ?, 0)
		ON CONFLICT (collection, key) DO UPDATE SET value = 0`,
		collection, key)
	if err != nil {
		return fmt.Errorf("reset counter %s/%s: %w", collection, key, err)
	}
	return nil
}

// RunInTransaction executes fn inside an immediate transaction, retrying a
// bounded number of times on lock contention. fn may run more than once
// and must be idempotent-safe.
func (s *SQLite) RunInTransaction(ctx context.Context, fn func(tx Txn) error) error {
	var err error
	for attempt := 0; attempt <= busyRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(busyBackoff * time.Duration(attempt)):
			}
		}
		err = s.runOnce(ctx, fn)
		if err == nil || !isBusy(err) {
			return err
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}

func (s *SQLite) runOnce(ctx context.Context, fn func(tx Txn) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	tx := &sqliteTxn{tx: sqlTx, ctx: ctx}
	if err := fn(tx); err != nil {
		sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// likePrefix escapes LIKE metacharacters so prefix matches literally.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}

type sqliteTxn struct {
	tx  *sql.Tx
	ctx context.Context
}

func (t *sqliteTxn) Get(collection, key string, out any) error {
	var data []byte
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT data FROM documents WHERE collection = ? AND key = ?`,
		collection, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, key)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return json.Unmarshal(data, out)
}

func (t *sqliteTxn) Set(collection, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO documents (collection, key, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, key) DO UPDATE SET
			data = excluded.data, updated_at = excluded.updated_at`,
		collection, key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (t *sqliteTxn) Delete(collection, key string) error {
	_, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM documents WHERE collection = ? AND key = ?`, collection, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}
