package runplan

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// MaxErrorBodySize bounds how much of a response body an error message quotes.
const MaxErrorBodySize = 500

// ErrUnauthorized matches any AuthError, DownloadError or UploadError caused
// by a 401 or 403 response. The account needs to be linked again.
var ErrUnauthorized = errors.New("runplan: authorization rejected")

// HTTPError carries the diagnostics shared by the typed errors. StatusCode is
// zero when no response was received.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

func (e *HTTPError) format(kind string) string {
	msg := fmt.Sprintf("runplan: %s: %s", kind, e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + truncate(e.Body, MaxErrorBodySize)
	}
	return msg
}

// AuthError is returned by token exchange, identity lookup and revocation.
type AuthError struct{ HTTPError }

func (e *AuthError) Error() string { return e.format("auth") }

// DownloadError is returned by the list and detail endpoints.
type DownloadError struct{ HTTPError }

func (e *DownloadError) Error() string { return e.format("download") }

// UploadError is returned by activity upload, including payloads rejected
// before sending.
type UploadError struct{ HTTPError }

func (e *UploadError) Error() string { return e.format("upload") }

func newAuthError(op string, resp *response, err error) *AuthError {
	return &AuthError{httpError(op, resp, err)}
}

func newDownloadError(op string, resp *response, err error) *DownloadError {
	return &DownloadError{httpError(op, resp, err)}
}

func newUploadError(op string, resp *response, err error) *UploadError {
	return &UploadError{httpError(op, resp, err)}
}

func httpError(op string, resp *response, err error) HTTPError {
	e := HTTPError{Op: op, Err: err}
	if resp != nil {
		e.StatusCode = resp.status
		e.Body = string(resp.body)
	}
	return e
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
