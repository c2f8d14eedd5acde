// Package store is the host side sync ledger. It remembers which activity
// UID was synced to or from which Runplan activity, and nothing else.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connectionURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connectionURL)
	if err != nil {
		return nil, errors.Wrap(err, "store: failed to create pool")
	}

	return &Store{
		pool: pool,
	}, nil
}

// Migrate creates the ledger table if it does not exist yet.
func (s Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createSyncedActivitiesQuery)
	if err != nil {
		return errors.Wrap(err, "store: failed to migrate")
	}
	return nil
}

const createSyncedActivitiesQuery = `
CREATE TABLE IF NOT EXISTS synced_activities (
	user_id TEXT NOT NULL,
	uid TEXT NOT NULL,
	remote_id TEXT NOT NULL,
	direction TEXT NOT NULL,
	synced_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, uid)
)`

func (s Store) Cleanup() {
	s.pool.Close()
}
