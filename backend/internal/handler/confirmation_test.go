package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
)

func TestConfirmUserPage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{name: "confirmed", wantStatus: http.StatusOK, wantText: "Email confirmed"},
		{name: "expired", err: errors.Expired("expired"), wantStatus: http.StatusBadRequest, wantText: "Link expired"},
		{name: "already", err: errors.AlreadyConfirmed("already"), wantStatus: http.StatusBadRequest, wantText: "Already confirmed"},
		{name: "unknown", err: errors.NotFound("missing"), wantStatus: http.StatusNotFound, wantText: "Link not found"},
		{name: "unexpected", err: fmt.Errorf("db down"), wantStatus: http.StatusInternalServerError, wantText: "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotId string
			h := newTestHandler(Services{Confirmation: &MockConfirmationService{ConfirmFunc: func(id domain.ConfirmationId) (domain.Confirmation, error) {
				gotId = id
				return domain.Confirmation{}, tt.err
			}}})
			router := chi.NewRouter()
			router.Get("/user_confirm/{id}", h.ConfirmUser)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/user_confirm/0123456789abcdef0123456789abcdef", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "0123456789abcdef0123456789abcdef", gotId)
			assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rr.Body.String(), tt.wantText)
			assert.NotContains(t, rr.Body.String(), "db down")
		})
	}
}

func TestConfirmationsEndpoints(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newTestHandler(Services{Confirmation: &MockConfirmationService{
		ListFunc: func(userId domain.UserId) (domain.ConfirmationList, error) {
			return domain.ConfirmationList{CurrentTime: now, Confirmations: []domain.Confirmation{{Id: "a", ExpiresAt: now}}}, nil
		},
		ResendFunc: func(userId domain.UserId) (domain.Confirmation, error) {
			if userId == 2 {
				return domain.Confirmation{}, errors.AlreadyConfirmed("Email is already confirmed")
			}
			return domain.Confirmation{}, nil
		},
	}})
	router := chi.NewRouter()
	router.Get("/confirmation/user/{id}", h.ListConfirmations)
	router.Post("/confirmation/user/{id}", h.ResendConfirmation)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/confirmation/user/1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"current_time":"2024-01-01T00:00:00Z"`)
	assert.Contains(t, rr.Body.String(), `"expire_at"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, createRequest(t, http.MethodPost, "/confirmation/user/1", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, createRequest(t, http.MethodPost, "/confirmation/user/2", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, errors.CodeAlreadyConfirmed, decodeResponse(t, rr).Code)
}
