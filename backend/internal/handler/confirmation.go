package handler

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
	"github.com/itchan-dev/itblog/shared/utils"
)

var confirmPage = template.Must(template.New("confirm").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

type confirmView struct {
	Title   string
	Message string
}

// ConfirmUser consumes the confirmation link from the email and answers
// with a small html page.
func (h *Handler) ConfirmUser(w http.ResponseWriter, r *http.Request) {
	_, err := h.confirmation.Confirm(chi.URLParam(r, "id"))

	status := http.StatusOK
	view := confirmView{Title: "Email confirmed", Message: "Your email is confirmed. You can log in now."}
	switch {
	case err == nil:
	case errors.HasCode(err, errors.CodeExpired):
		status = http.StatusBadRequest
		view = confirmView{Title: "Link expired", Message: "This confirmation link has expired. Request a new one and try again."}
	case errors.HasCode(err, errors.CodeAlreadyConfirmed):
		status = http.StatusBadRequest
		view = confirmView{Title: "Already confirmed", Message: "This email was already confirmed."}
	case errors.IsNotFound(err):
		status = http.StatusNotFound
		view = confirmView{Title: "Link not found", Message: "This confirmation link does not exist."}
	default:
		logger.Log.Error("confirmation failed", "error", err)
		status = http.StatusInternalServerError
		view = confirmView{Title: "Something went wrong", Message: "Please try again later."}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := confirmPage.Execute(w, view); err != nil {
		logger.Log.Error("failed to render confirmation page", "error", err)
	}
}

// ListConfirmations returns every confirmation of the user with the server time.
func (h *Handler) ListConfirmations(w http.ResponseWriter, r *http.Request) {
	userId, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	list, err := h.confirmation.List(userId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "confirmations", list)
}

func (h *Handler) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	userId, err := utils.ParseId(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if _, err := h.confirmation.Resend(userId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusCreated, "Confirmation link was sent to your email")
}
