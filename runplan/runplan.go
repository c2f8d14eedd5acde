// Package runplan connects the Runplan training service to the canonical
// activity model: OAuth linking, activity listing, detail download and
// upload.
package runplan

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kwoodhouse93/runplan-sync/activity"
)

const (
	DefaultBaseURL  = "https://runplan.training"
	DefaultPageSize = 200

	authorisePath  = "/oauth/authorise"
	tokenPath      = "/oauth/token"
	revokePath     = "/api/oauth/revoke"
	userPath       = "/api/sync/user"
	activitiesPath = "/api/sync/activities"
	activityPath   = "/api/sync/activity"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	PageSize     int

	// Location is the zone Runplan's zone-less timestamps are read in.
	Location *time.Location
}

// Authorization is the credential held by the host for a linked account.
type Authorization struct {
	OAuthToken string `json:"oauth_token"`
}

// API is safe for concurrent use; it holds no per-account state.
type API struct {
	client *http.Client
	config Config
	logger *slog.Logger
}

type Option func(*API)

func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// NewAPI returns a Runplan client. Timeouts and transport policy belong to
// client; a nil client uses http.DefaultClient.
func NewAPI(config Config, client *http.Client, opts ...Option) *API {
	if client == nil {
		client = http.DefaultClient
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	a := &API{
		client: client,
		config: config,
		logger: slog.Default().With("service", Capabilities().ID),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type ServiceCapabilities struct {
	ID                       string
	DisplayName              string
	DisplayAbbreviation      string
	SupportedActivities      []activity.Type
	SupportsHR               bool
	SupportsCalories         bool
	SupportsCadence          bool
	SupportsTemp             bool
	SupportsActivityDeletion bool
}

func Capabilities() ServiceCapabilities {
	return ServiceCapabilities{
		ID:                       "runplan",
		DisplayName:              "Runplan",
		DisplayAbbreviation:      "RP",
		SupportedActivities:      []activity.Type{activity.TypeRunning},
		SupportsHR:               true,
		SupportsCalories:         true,
		SupportsCadence:          true,
		SupportsTemp:             true,
		SupportsActivityDeletion: false,
	}
}

// DeleteCachedData is a no-op: the connector keeps no data of its own.
func (a *API) DeleteCachedData(ctx context.Context, auth Authorization) error {
	return nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	contentType string
	body        []byte
}

type response struct {
	status int
	body   []byte
}

func (a *API) do(ctx context.Context, auth Authorization, r request) (*response, error) {
	target := a.config.BaseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "runplan: failed to build request")
	}
	if auth.OAuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+auth.OAuthToken)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")

	a.logger.Debug("request", "method", r.method, "path", r.path, "query", r.query.Encode())
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "runplan: %s %s", r.method, r.path)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "runplan: failed to read %s %s response", r.method, r.path)
	}
	a.logger.Debug("response", "method", r.method, "path", r.path, "status", resp.StatusCode)
	return &response{status: resp.StatusCode, body: respBody}, nil
}
