package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/itblog/shared/api"
	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/middleware"
)

var (
	alice = &domain.Identity{UserId: 1, Username: "alice"}
	admin = &domain.Identity{UserId: 99, Username: "root", Admin: true}
)

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{
		BaseURL:                "http://blog.test",
		JwtTTL:                 60,
		MaxImageSize:           1 << 20,
		AllowedImageExtensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp"},
	}}
}

// newTestHandler fills every service that s leaves nil with a default mock.
func newTestHandler(s Services) *Handler {
	if s.Auth == nil {
		s.Auth = &MockAuthService{}
	}
	if s.Confirmation == nil {
		s.Confirmation = &MockConfirmationService{}
	}
	if s.User == nil {
		s.User = &MockUserService{}
	}
	if s.Post == nil {
		s.Post = &MockPostService{}
	}
	if s.Tag == nil {
		s.Tag = &MockTagService{}
	}
	if s.Comment == nil {
		s.Comment = &MockCommentService{}
	}
	if s.Image == nil {
		s.Image = &MockImageService{}
	}
	return New(s, &MockHealthChecker{}, testConfig())
}

func createRequest(t *testing.T, method, url string, body []byte, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// withIdentity attaches identity the way the auth middleware does.
func withIdentity(req *http.Request, identity *domain.Identity) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.IdentityKey, identity))
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) api.Response {
	t.Helper()
	var resp api.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}
