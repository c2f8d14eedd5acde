package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type Direction string

const (
	Downloaded Direction = "download"
	Uploaded   Direction = "upload"
)

type SyncedActivity struct {
	UserID    string
	UID       string
	RemoteID  string
	Direction Direction
	SyncedAt  time.Time
}

// StoreActivity records that uid is known on Runplan as remoteID. A later
// sync of the same uid replaces the earlier record.
func (s Store) StoreActivity(ctx context.Context, userID, uid, remoteID string, direction Direction) error {
	_, err := s.pool.Exec(ctx, upsertSyncedActivityQuery, userID, uid, remoteID, string(direction))
	if err != nil {
		return errors.Wrapf(err, "store: failed to store activity %s", uid)
	}
	return nil
}

const upsertSyncedActivityQuery = `
INSERT INTO synced_activities (
	user_id,
	uid,
	remote_id,
	direction
) VALUES (
	$1,
	$2,
	$3,
	$4
) ON CONFLICT (user_id, uid) DO UPDATE SET
	remote_id = EXCLUDED.remote_id,
	direction = EXCLUDED.direction,
	synced_at = now()`

// GetActivity returns the ledger entry for uid, or nil when it was never
// synced.
func (s Store) GetActivity(ctx context.Context, userID, uid string) (*SyncedActivity, error) {
	row := s.pool.QueryRow(ctx, selectSyncedActivityQuery, userID, uid)

	a := SyncedActivity{UserID: userID, UID: uid}
	var direction string
	err := row.Scan(&a.RemoteID, &direction, &a.SyncedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "store: failed to get activity %s", uid)
	}
	a.Direction = Direction(direction)
	return &a, nil
}

const selectSyncedActivityQuery = `
SELECT remote_id, direction, synced_at
FROM synced_activities
WHERE user_id = $1
AND uid = $2
`
