package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
)

func TestCreateCommentHandler(t *testing.T) {
	var got domain.CommentCreationData
	h := newTestHandler(Services{Comment: &MockCommentService{CreateFunc: func(data domain.CommentCreationData) (domain.Comment, error) {
		got = data
		return domain.Comment{Id: 1, Body: data.Body}, nil
	}}})
	router := chi.NewRouter()
	router.Post("/posts/{id}/comment", h.CreateComment)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withIdentity(createRequest(t, http.MethodPost, "/posts/7/comment", []byte(`{"body":"nice"}`)), alice))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, domain.CommentCreationData{AuthorId: 1, PostId: 7, Body: "nice"}, got)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, withIdentity(createRequest(t, http.MethodPost, "/posts/7/comment", []byte(`{"body":""}`)), alice))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestListCommentsAll(t *testing.T) {
	var gotAll bool
	var gotIdentity *domain.Identity
	h := newTestHandler(Services{Comment: &MockCommentService{ListFunc: func(page int, all bool, identity *domain.Identity) (domain.Page[domain.Comment], error) {
		gotAll, gotIdentity = all, identity
		return domain.Page[domain.Comment]{Number: page, Size: 10}, nil
	}}})

	rr := httptest.NewRecorder()
	h.ListComments(rr, withIdentity(createRequest(t, http.MethodGet, "/comments?all=true", nil), admin))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, gotAll)
	assert.Same(t, admin, gotIdentity)

	rr = httptest.NewRecorder()
	h.ListComments(rr, createRequest(t, http.MethodGet, "/comments", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, gotAll)
	assert.Nil(t, gotIdentity)
}

func TestGetCommentHidden(t *testing.T) {
	h := newTestHandler(Services{Comment: &MockCommentService{GetFunc: func(id domain.CommentId, identity *domain.Identity) (domain.Comment, error) {
		if identity == nil {
			return domain.Comment{}, errors.NotFound("Comment not found")
		}
		return domain.Comment{Id: id}, nil
	}}})
	router := chi.NewRouter()
	router.Get("/comments/{id}", h.GetComment)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, createRequest(t, http.MethodGet, "/comments/1", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, withIdentity(createRequest(t, http.MethodGet, "/comments/1", nil), alice))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSetCommentConfirmedHandler(t *testing.T) {
	var got *bool
	h := newTestHandler(Services{Comment: &MockCommentService{SetConfirmedFunc: func(_ domain.CommentId, confirmed bool, _ *domain.Identity) error {
		got = &confirmed
		return nil
	}}})
	router := chi.NewRouter()
	router.Put("/comments/{id}/confirmed", h.SetCommentConfirmed)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withIdentity(createRequest(t, http.MethodPut, "/comments/1/confirmed", []byte(`{}`)), admin))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, "confirmed is required")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, withIdentity(createRequest(t, http.MethodPut, "/comments/1/confirmed", []byte(`{"confirmed":false}`)), admin))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, got)
	assert.False(t, *got)
}

func TestCommentMutationErrors(t *testing.T) {
	h := newTestHandler(Services{Comment: &MockCommentService{
		UpdateFunc: func(domain.CommentId, string, *domain.Identity) (domain.Comment, error) {
			return domain.Comment{}, errors.Forbidden("Only the author or an admin can do that")
		},
		DeleteFunc: func(domain.CommentId, *domain.Identity) error {
			return errors.NotFound("Comment not found")
		},
	}})
	router := chi.NewRouter()
	router.Put("/comments/{id}", h.UpdateComment)
	router.Delete("/comments/{id}", h.DeleteComment)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withIdentity(createRequest(t, http.MethodPut, "/comments/1", []byte(`{"body":"x"}`)), alice))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, withIdentity(createRequest(t, http.MethodDelete, "/comments/1", nil), alice))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
