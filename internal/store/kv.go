package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// KV is a string key-value store backed by the kv table.
type KV struct {
	db *sql.DB
}

// NewKV wraps an initialized database. The kv table must exist (see InitDBWithPath).
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *KV) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = RetryWithBackoff(func() error {
		return s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *KV) Set(ctx context.Context, key, value string) error {
	return Transact(ctx, s.db, func(tx *sql.Tx) error {
		return putTx(ctx, tx, key, value)
	})
}

// Update reads key, passes it to fn and writes fn's result, all in one
// transaction. If fn fails the transaction rolls back and nothing changes.
func (s *KV) Update(ctx context.Context, key string, fn func(current string, ok bool) (string, error)) error {
	return Transact(ctx, s.db, func(tx *sql.Tx) error {
		var current string
		ok := true
		err := tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			ok = false
		} else if err != nil {
			return fmt.Errorf("failed to read key %q: %w", key, err)
		}

		next, err := fn(current, ok)
		if err != nil {
			return err
		}
		return putTx(ctx, tx, key, next)
	})
}

// Keys lists stored keys in lexical order.
func (s *KV) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := RetryWithBackoff(func() error {
		var err error
		keys, err = queryStringColumn(ctx, s.db, `SELECT key FROM kv ORDER BY key`)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// SchemaVersion reports the applied and latest migration versions of the
// underlying database.
func (s *KV) SchemaVersion() (current, latest int64, err error) {
	return SchemaVersion(s.db)
}

func putTx(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}
