package handler

import (
	"net/http"

	"github.com/itchan-dev/itblog/shared/api"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/middleware"
	"github.com/itchan-dev/itblog/shared/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, err := h.auth.Register(domain.UserCreationData{
		Username:  body.Username,
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Bio:       body.Bio,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, api.Response{
		Code:    api.CodeCreated,
		Message: "Confirmation link was sent to your email",
		Data:    map[string]any{"user": user},
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, err := h.auth.Login(domain.Credentials{Email: body.Email, Username: body.Username, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.setTokenCookie(w, accessToken, int(h.cfg.JwtTTL().Seconds()))

	utils.WriteJSON(w, http.StatusOK, api.Response{
		Code:    api.CodeSuccess,
		Message: "You logged in",
		Data:    map[string]any{"access_token": accessToken},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.auth.Logout(r.Context(), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.setTokenCookie(w, "", -1)

	utils.WriteMessage(w, http.StatusOK, "You logged out")
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     middleware.AccessTokenCookie,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
