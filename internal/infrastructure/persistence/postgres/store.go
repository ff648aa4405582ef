package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gyaan-arena/arena-hub/internal/infrastructure/persistence/kv"
)

// Store persists raw JSON documents in the arena_documents table.
// It implements kv.Store.
type Store struct {
	conn *Connection
}

var _ kv.Store = (*Store)(nil)

// NewStore creates a Store backed by the given connection.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn}
}

// Get retrieves the document stored under key.
// Returns kv.ErrNotFound when no document exists.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, kv.ErrKeyEmpty
	}

	var doc []byte
	err := s.conn.QueryRow(ctx,
		"SELECT doc FROM arena_documents WHERE key = $1",
		key,
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: get %q: %w", key, err)
	}

	return doc, nil
}

// Set stores the document under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return kv.ErrKeyEmpty
	}
	if value == nil {
		return kv.ErrNilValue
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO arena_documents (key, doc) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc
	`, key, value)
	if err != nil {
		return fmt.Errorf("postgres: set %q: %w", key, err)
	}

	return nil
}

// Delete removes the document under key. Deleting a missing key is not
// an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return kv.ErrKeyEmpty
	}

	if _, err := s.conn.Exec(ctx,
		"DELETE FROM arena_documents WHERE key = $1",
		key,
	); err != nil {
		return fmt.Errorf("postgres: delete %q: %w", key, err)
	}

	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	s.conn.Close()
	return nil
}
