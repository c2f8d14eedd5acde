package runplan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

func (a *API) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.config.ClientID,
		ClientSecret: a.config.ClientSecret,
		RedirectURL:  a.config.RedirectURL,
		Scopes:       []string{"sync"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   a.config.BaseURL + authorisePath,
			TokenURL:  a.config.BaseURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthorizationURL is where the user is sent to grant access. state is
// handed back unchanged on the redirect.
func (a *API) AuthorizationURL(state string) string {
	return a.oauthConfig().AuthCodeURL(state)
}

// Authenticate exchanges an authorization code for a token and looks up the
// Runplan user it belongs to. Failures are returned once, without retry.
func (a *API) Authenticate(ctx context.Context, code string) (string, Authorization, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)
	token, err := a.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return "", Authorization{}, exchangeError(err)
	}
	if token.AccessToken == "" {
		return "", Authorization{}, newAuthError("exchange code", nil, errors.New("empty access token"))
	}
	auth := Authorization{OAuthToken: token.AccessToken}

	userID, err := a.UserID(ctx, auth)
	if err != nil {
		return "", Authorization{}, err
	}
	a.logger.Info("account linked", "user_id", userID)
	return userID, auth, nil
}

func exchangeError(err error) *AuthError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		resp := &response{body: retrieveErr.Body}
		if retrieveErr.Response != nil {
			resp.status = retrieveErr.Response.StatusCode
		}
		return newAuthError("exchange code", resp, err)
	}
	return newAuthError("exchange code", nil, err)
}

// UserID returns the id of the Runplan user auth belongs to.
func (a *API) UserID(ctx context.Context, auth Authorization) (string, error) {
	resp, err := a.do(ctx, auth, request{method: http.MethodGet, path: userPath})
	if err != nil {
		return "", newAuthError("get user", nil, err)
	}
	if resp.status != http.StatusOK {
		return "", newAuthError("get user", resp, nil)
	}
	var user userResponse
	if err := json.Unmarshal(resp.body, &user); err != nil {
		return "", newAuthError("get user", resp, errors.Wrap(err, "failed to decode user"))
	}
	if user.ID == "" {
		return "", newAuthError("get user", resp, errors.New("missing user id"))
	}
	return string(user.ID), nil
}

// Revoke invalidates the token on Runplan's side.
func (a *API) Revoke(ctx context.Context, auth Authorization) error {
	form := url.Values{"token": {auth.OAuthToken}}
	resp, err := a.do(ctx, auth, request{
		method:      http.MethodPost,
		path:        revokePath,
		contentType: "application/x-www-form-urlencoded",
		body:        []byte(form.Encode()),
	})
	if err != nil {
		return newAuthError("revoke token", nil, err)
	}
	if resp.status != http.StatusOK && resp.status != http.StatusNoContent {
		return newAuthError("revoke token", resp, nil)
	}
	a.logger.Info("token revoked")
	return nil
}
