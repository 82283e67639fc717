package reskey

import (
	"context"
	"database/sql"
	"time"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new reservation-key store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Has reports whether the key has already been recorded.
// PRE: key is non-empty
// POST: no rows are modified
func (s *SQLiteStore) Has(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM reservation_key WHERE key = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add records a reserved pair. Re-adding an existing key is a no-op, so a
// successful server booking can always be recorded without a prior Has.
// PRE: key is Key(clientID, atelierID)
// POST: key is present
func (s *SQLiteStore) Add(ctx context.Context, clientID, atelierID int, key string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reservation_key (key, client_id, atelier_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(key) DO NOTHING",
		key, clientID, atelierID, time.Now().Format(time.RFC3339),
	)
	return err
}

// ListByClient returns all recorded keys for one client, oldest first.
func (s *SQLiteStore) ListByClient(ctx context.Context, clientID int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM reservation_key WHERE client_id = ? ORDER BY created_at", clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
