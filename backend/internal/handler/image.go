package handler

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
	"github.com/itchan-dev/itblog/shared/utils"
	"github.com/itchan-dev/itblog/shared/validation"
)

// pendingImage reads and validates the "image" field of a multipart upload.
// The caller removes the parsed form once the image is stored.
func (h *Handler) pendingImage(w http.ResponseWriter, r *http.Request) (*validation.PendingImage, error) {
	if err := h.imageRules.ParseMultipart(w, r); err != nil {
		return nil, err
	}

	files := r.MultipartForm.File[validation.ImageField]
	if len(files) != 1 {
		return nil, errors.Validation("Invalid input", map[string]string{validation.ImageField: "Exactly one image is required"})
	}
	return h.imageRules.Validate(files[0])
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	img, err := h.pendingImage(w, r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	name, err := h.image.Upload(img, caller)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusCreated, "filename", name)
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	img, err := h.pendingImage(w, r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	path, err := h.image.UploadAvatar(img, caller)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, "avatar", path)
}

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	file, err := h.image.Open(chi.URLParam(r, "filename"), caller)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	serveFile(w, r, file)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := h.image.Delete(chi.URLParam(r, "filename"), caller); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteNoContent(w)
}

func (h *Handler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	file, err := h.image.OpenAvatar(chi.URLParam(r, "username"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	serveFile(w, r, file)
}

func serveFile(w http.ResponseWriter, r *http.Request, file *os.File) {
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		logger.Log.Error("failed to stat file", "name", file.Name(), "error", err)
		utils.WriteErrorAndStatusCode(w, errors.Upstream("Failed to read file"))
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
}
