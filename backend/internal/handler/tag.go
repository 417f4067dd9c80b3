package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/itblog/shared/api"
	"github.com/itchan-dev/itblog/shared/utils"
)

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	page, err := h.tag.List(utils.ParsePage(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WritePage(w, "tags", page, r.URL.Path)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var body api.CreateTagRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	tag, err := h.tag.Create(body.Name)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusCreated, "tag", tag)
}

func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	tag, err := h.tag.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "tag", tag)
}
