package runplan

import (
	"net/http"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPError_Format(t *testing.T) {
	err := newDownloadError("get activity 7", &response{status: http.StatusNotFound, body: []byte("missing")}, nil)
	assert.Equal(t, "runplan: download: get activity 7 (status 404): missing", err.Error())

	cause := errors.New("connection reset")
	up := newUploadError("post activity", nil, cause)
	assert.Equal(t, "runplan: upload: post activity: connection reset", up.Error())
	assert.True(t, errors.Is(up, cause))
}

func TestHTTPError_TruncatesBody(t *testing.T) {
	body := strings.Repeat("x", MaxErrorBodySize+100)
	err := newAuthError("get user", &response{status: http.StatusBadGateway, body: []byte(body)}, nil)

	assert.Len(t, err.Body, MaxErrorBodySize+100, "the full body stays available")
	assert.True(t, strings.HasSuffix(err.Error(), strings.Repeat("x", MaxErrorBodySize)+"..."))
}

func TestHTTPError_Unauthorized(t *testing.T) {
	for status, want := range map[int]bool{
		http.StatusUnauthorized:        true,
		http.StatusForbidden:           true,
		http.StatusNotFound:            false,
		http.StatusInternalServerError: false,
	} {
		err := newDownloadError("op", &response{status: status}, nil)
		assert.Equal(t, want, errors.Is(err, ErrUnauthorized), "status %d", status)
	}
	assert.False(t, errors.Is(newAuthError("op", nil, errors.New("dial")), ErrUnauthorized))
}
