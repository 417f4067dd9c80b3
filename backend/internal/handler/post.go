package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/itblog/shared/api"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/utils"
)

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.post.List(utils.ParsePage(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WritePage(w, "posts", page, r.URL.Path)
}

func (h *Handler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.post.ListByAuthor(chi.URLParam(r, "username"), utils.ParsePage(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WritePage(w, "posts", page, r.URL.Path)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	id, err := h.post.Create(domain.PostCreationData{
		AuthorId: caller.UserId,
		Title:    body.Title,
		Body:     body.Body,
		Tags:     body.Tags,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	post, err := h.post.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusCreated, "post", post)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	post, err := h.post.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "post", post)
}

// ReplacePost is the full update: title and body are required, missing tags clear them.
func (h *Handler) ReplacePost(w http.ResponseWriter, r *http.Request) {
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
	var body api.ReplacePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Replace(id, domain.PostUpdateData{Title: &body.Title, Body: &body.Body, Tags: &body.Tags}, caller)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "post", post)
}

func (h *Handler) PatchPost(w http.ResponseWriter, r *http.Request) {
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
	var body api.PatchPostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Patch(id, domain.PostUpdateData{Title: body.Title, Body: body.Body, Tags: body.Tags}, caller)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "post", post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
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
	if err := h.post.Delete(id, caller); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteNoContent(w)
}
