package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kwoodhouse93/runplan-sync/activity"
	"github.com/kwoodhouse93/runplan-sync/runplan"
	"github.com/kwoodhouse93/runplan-sync/store"
)

var errNoToken = errors.New("cmd: RUNPLAN_TOKEN is not set")

// app runs the commands for a single linked account. ledger is nil when no
// database is configured.
type app struct {
	runplan Service
	ledger  Ledger
	auth    runplan.Authorization
	out     io.Writer
	logger  *slog.Logger
}

type authenticated struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type listing struct {
	Activities []*activity.Activity  `json:"activities"`
	Exclusions []*activity.Exclusion `json:"exclusions"`
}

type uploaded struct {
	ID       string `json:"id"`
	Existing bool   `json:"existing,omitempty"`
}

func (a *app) authorizeURL() error {
	_, err := fmt.Fprintln(a.out, a.runplan.AuthorizationURL(uuid.NewString()))
	return err
}

func (a *app) authenticate(ctx context.Context, code string) error {
	userID, auth, err := a.runplan.Authenticate(ctx, code)
	if err != nil {
		return err
	}
	return a.print(authenticated{UserID: userID, Token: auth.OAuthToken})
}

func (a *app) revoke(ctx context.Context) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	var userID string
	if a.ledger != nil {
		id, err := a.runplan.UserID(ctx, a.auth)
		if err != nil {
			return err
		}
		userID = id
	}
	if err := a.runplan.Revoke(ctx, a.auth); err != nil {
		return err
	}
	if a.ledger == nil {
		return nil
	}
	n, err := a.ledger.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	a.logger.Info("cmd: forgot synced activities", "user_id", userID, "count", n)
	return nil
}

func (a *app) list(ctx context.Context, exhaustive bool) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	acts, excls, err := a.runplan.ListActivities(ctx, a.auth, exhaustive)
	if err != nil {
		return err
	}
	a.logger.Info("cmd: listed activities", "activities", len(acts), "exclusions", len(excls))
	return a.print(listing{Activities: acts, Exclusions: excls})
}

func (a *app) download(ctx context.Context, id string) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	act, err := a.runplan.DownloadActivity(ctx, a.auth, id)
	if err != nil {
		return err
	}
	if a.ledger != nil {
		userID, err := a.runplan.UserID(ctx, a.auth)
		if err != nil {
			return err
		}
		if err := a.ledger.StoreActivity(ctx, userID, act.UID, id, store.Downloaded); err != nil {
			return err
		}
	}
	return a.print(act)
}

// upload sends the activity read from r. With a ledger, an activity whose UID
// was synced before is not sent again.
func (a *app) upload(ctx context.Context, r io.Reader) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	var act activity.Activity
	if err := json.NewDecoder(r).Decode(&act); err != nil {
		return errors.Wrap(err, "cmd: failed to decode activity")
	}
	if act.UID == "" {
		act.CalculateUID()
	}

	var userID string
	if a.ledger != nil {
		id, err := a.runplan.UserID(ctx, a.auth)
		if err != nil {
			return err
		}
		userID = id
		synced, err := a.ledger.GetActivity(ctx, userID, act.UID)
		if err != nil {
			return err
		}
		if synced != nil {
			a.logger.Info("cmd: activity already synced", "uid", act.UID, "remote_id", synced.RemoteID)
			return a.print(uploaded{ID: synced.RemoteID, Existing: true})
		}
	}

	remoteID, err := a.runplan.UploadActivity(ctx, a.auth, &act)
	if err != nil {
		return err
	}
	if a.ledger != nil {
		if err := a.ledger.StoreActivity(ctx, userID, act.UID, remoteID, store.Uploaded); err != nil {
			return err
		}
	}
	return a.print(uploaded{ID: remoteID})
}

func (a *app) uploadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "cmd: failed to open activity file")
	}
	defer f.Close()
	return a.upload(ctx, f)
}

func (a *app) requireToken() error {
	if a.auth.OAuthToken == "" {
		return errNoToken
	}
	return nil
}

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "cmd: failed to write output")
}
