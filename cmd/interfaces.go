package cmd

import (
	"context"

	"github.com/kwoodhouse93/runplan-sync/activity"
	"github.com/kwoodhouse93/runplan-sync/runplan"
	"github.com/kwoodhouse93/runplan-sync/store"
)

// Service is the part of runplan.API the commands drive.
type Service interface {
	AuthorizationURL(state string) string
	Authenticate(ctx context.Context, code string) (string, runplan.Authorization, error)
	UserID(ctx context.Context, auth runplan.Authorization) (string, error)
	Revoke(ctx context.Context, auth runplan.Authorization) error
	ListActivities(ctx context.Context, auth runplan.Authorization, exhaustive bool) ([]*activity.Activity, []*activity.Exclusion, error)
	DownloadActivity(ctx context.Context, auth runplan.Authorization, id string) (*activity.Activity, error)
	UploadActivity(ctx context.Context, auth runplan.Authorization, act *activity.Activity) (string, error)
}

// Ledger is the part of store.Store the commands drive.
type Ledger interface {
	StoreActivity(ctx context.Context, userID, uid, remoteID string, direction store.Direction) error
	GetActivity(ctx context.Context, userID, uid string) (*store.SyncedActivity, error)
	DeleteUser(ctx context.Context, userID string) (int64, error)
}
