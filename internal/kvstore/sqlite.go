package kvstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore maps the key-value contract onto a single sqlite table, for
// deployments that already carry a sqlite file around.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open sqlite db at %s", path)
	}
	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create kv table")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query key %s", key)
	}
	return value, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?);`, key, value)
	return errors.Wrapf(err, "failed to put key %s", key)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?;`, key)
	return errors.Wrapf(err, "failed to delete key %s", key)
}

func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv WHERE key LIKE ? || '%' ORDER BY key;`, prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list prefix %s", prefix)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
