package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/itblog/shared/api"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/utils"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.user.List(utils.ParsePage(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WritePage(w, "users", page, r.URL.Path)
}

// GetUser returns the profile with its most recent confirmation and posts.
// The path segment is a numeric id or, failing that, a username.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := utils.ParseId(raw)
	if err != nil {
		user, lookupErr := h.user.ByUsername(raw)
		if lookupErr != nil {
			utils.WriteErrorAndStatusCode(w, lookupErr)
			return
		}
		id = user.Id
	}
	profile, err := h.user.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "user", profile)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
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
	var body api.UpdateUserRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.user.Update(id, domain.UserUpdateData{
		Username:  body.Username,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Bio:       body.Bio,
	}, caller)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "user", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
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
	if err := h.user.Delete(id, caller); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteNoContent(w)
}
