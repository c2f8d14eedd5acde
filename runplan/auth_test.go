package runplan

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationURL(t *testing.T) {
	api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {})

	u, err := url.Parse(api.AuthorizationURL("state-123"))
	require.NoError(t, err)

	assert.Equal(t, authorisePath, u.Path)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "sync", q.Get("scope"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "https://sync.example.com/auth/return/runplan", q.Get("redirect_uri"))
	assert.Equal(t, 0, rec.count())
}

func TestAuthenticate(t *testing.T) {
	api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			require.NoError(t, r.ParseForm())
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "the-code", r.PostForm.Get("code"))
			assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
			assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
			assert.Equal(t, "https://sync.example.com/auth/return/runplan", r.PostForm.Get("redirect_uri"))
			writeJSON(w, http.StatusOK, `{"access_token":"new-token","token_type":"bearer"}`)
		case userPath:
			assert.Equal(t, "Bearer new-token", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{"id":4242}`)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	})

	userID, auth, err := api.Authenticate(testContext(t), "the-code")
	require.NoError(t, err)

	assert.Equal(t, "4242", userID)
	assert.Equal(t, Authorization{OAuthToken: "new-token"}, auth)
	assert.Equal(t, 2, rec.count())
}

func TestAuthenticate_StringUserID(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == tokenPath {
			writeJSON(w, http.StatusOK, `{"access_token":"new-token","token_type":"bearer"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"u-17"}`)
	})

	userID, _, err := api.Authenticate(testContext(t), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "u-17", userID)
}

func TestAuthenticate_TokenRejected(t *testing.T) {
	api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":"invalid_grant"}`)
	})

	userID, auth, err := api.Authenticate(testContext(t), "stale-code")

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "invalid_grant")
	assert.Empty(t, userID)
	assert.Empty(t, auth.OAuthToken)
	assert.Equal(t, 1, rec.count(), "identity is not looked up after a failed exchange")
}

func TestAuthenticate_IdentityFailure(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
	}{
		"server error": {http.StatusInternalServerError, `oops`},
		"missing id":   {http.StatusOK, `{}`},
		"not json":     {http.StatusOK, `<html>`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == tokenPath {
					writeJSON(w, http.StatusOK, `{"access_token":"new-token","token_type":"bearer"}`)
					return
				}
				writeJSON(w, tc.status, tc.body)
			})

			userID, auth, err := api.Authenticate(testContext(t), "the-code")

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr), "got %v", err)
			assert.Equal(t, tc.status, authErr.StatusCode)
			assert.Empty(t, userID)
			assert.Empty(t, auth.OAuthToken)
		})
	}
}

func TestRevoke(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			api, rec := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, revokePath, r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, testToken, r.PostForm.Get("token"))
				w.WriteHeader(status)
			})

			require.NoError(t, api.Revoke(testContext(t), testAuth))
			assert.Equal(t, 1, rec.count())
		})
	}
}

func TestRevoke_Failure(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error":"invalid_token"}`)
	})

	err := api.Revoke(testContext(t), testAuth)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}
