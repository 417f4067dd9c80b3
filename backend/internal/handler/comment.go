package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/itblog/shared/api"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/middleware"
	"github.com/itchan-dev/itblog/shared/utils"
)

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	postId, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comment.Create(domain.CommentCreationData{AuthorId: caller.UserId, PostId: postId, Body: body.Body})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusCreated, "comment", comment)
}

// ListComments lists confirmed comments; ?all=true includes hidden ones for admins.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	page, err := h.comment.List(utils.ParsePage(r), all, middleware.GetIdentityFromContext(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WritePage(w, "comments", page, r.URL.Path)
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	comment, err := h.comment.Get(id, middleware.GetIdentityFromContext(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "comment", comment)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comment.Update(id, body.Body, caller)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "comment", comment)
}

// SetCommentConfirmed is the moderation switch for admins.
func (h *Handler) SetCommentConfirmed(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.SetConfirmedRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.comment.SetConfirmed(id, *body.Confirmed, caller); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteNoContent(w)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.comment.Delete(id, caller); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteNoContent(w)
}
