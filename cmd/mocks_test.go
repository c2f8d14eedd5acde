package cmd

import (
	"context"

	"github.com/kwoodhouse93/runplan-sync/activity"
	"github.com/kwoodhouse93/runplan-sync/runplan"
	"github.com/kwoodhouse93/runplan-sync/store"
)

// MockService implements Service for testing
type MockService struct {
	UserIDValue string
	Token       string
	Activities  []*activity.Activity
	Exclusions  []*activity.Exclusion
	Detail      *activity.Activity
	RemoteID    string

	AuthError     error
	UserIDError   error
	RevokeError   error
	ListError     error
	DownloadError error
	UploadError   error

	UserIDCalls   int
	RevokeCalled  bool
	Exhaustive    bool
	DownloadedIDs []string
	Uploaded      []*activity.Activity
}

func (m *MockService) AuthorizationURL(state string) string {
	return "https://runplan.example.com/oauth/authorise?state=" + state
}

func (m *MockService) Authenticate(ctx context.Context, code string) (string, runplan.Authorization, error) {
	if m.AuthError != nil {
		return "", runplan.Authorization{}, m.AuthError
	}
	return m.UserIDValue, runplan.Authorization{OAuthToken: m.Token}, nil
}

func (m *MockService) UserID(ctx context.Context, auth runplan.Authorization) (string, error) {
	m.UserIDCalls++
	return m.UserIDValue, m.UserIDError
}

func (m *MockService) Revoke(ctx context.Context, auth runplan.Authorization) error {
	m.RevokeCalled = true
	return m.RevokeError
}

func (m *MockService) ListActivities(ctx context.Context, auth runplan.Authorization, exhaustive bool) ([]*activity.Activity, []*activity.Exclusion, error) {
	m.Exhaustive = exhaustive
	if m.ListError != nil {
		return nil, nil, m.ListError
	}
	return m.Activities, m.Exclusions, nil
}

func (m *MockService) DownloadActivity(ctx context.Context, auth runplan.Authorization, id string) (*activity.Activity, error) {
	m.DownloadedIDs = append(m.DownloadedIDs, id)
	if m.DownloadError != nil {
		return nil, m.DownloadError
	}
	return m.Detail, nil
}

func (m *MockService) UploadActivity(ctx context.Context, auth runplan.Authorization, act *activity.Activity) (string, error) {
	m.Uploaded = append(m.Uploaded, act)
	if m.UploadError != nil {
		return "", m.UploadError
	}
	return m.RemoteID, nil
}

// MockLedger implements Ledger in memory
type MockLedger struct {
	Entries    map[string]*store.SyncedActivity
	StoreError error
	Deleted    []string
}

func NewMockLedger() *MockLedger {
	return &MockLedger{Entries: map[string]*store.SyncedActivity{}}
}

func (m *MockLedger) StoreActivity(ctx context.Context, userID, uid, remoteID string, direction store.Direction) error {
	if m.StoreError != nil {
		return m.StoreError
	}
	m.Entries[userID+"/"+uid] = &store.SyncedActivity{UserID: userID, UID: uid, RemoteID: remoteID, Direction: direction}
	return nil
}

func (m *MockLedger) GetActivity(ctx context.Context, userID, uid string) (*store.SyncedActivity, error) {
	return m.Entries[userID+"/"+uid], nil
}

func (m *MockLedger) DeleteUser(ctx context.Context, userID string) (int64, error) {
	m.Deleted = append(m.Deleted, userID)
	var n int64
	for key, e := range m.Entries {
		if e.UserID == userID {
			delete(m.Entries, key)
			n++
		}
	}
	return n, nil
}
