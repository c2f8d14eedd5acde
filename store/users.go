package store

import (
	"context"

	"github.com/pkg/errors"
)

// DeleteUser forgets every ledger entry of userID.
func (s Store) DeleteUser(ctx context.Context, userID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, deleteUserQuery, userID)
	if err != nil {
		return 0, errors.Wrapf(err, "store: failed to delete user %s", userID)
	}
	return tag.RowsAffected(), nil
}

const deleteUserQuery = `
DELETE FROM synced_activities
WHERE user_id = $1
`
