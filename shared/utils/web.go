package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/itchan-dev/itblog/shared/api"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return domain.UsernameProblem(fl.Field().String()) == ""
	})
	// maxbytes limits the encoded length, max counts characters
	v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteData answers with a success envelope holding value under key.
func WriteData(w http.ResponseWriter, status int, key string, value any) {
	code := api.CodeSuccess
	if status == http.StatusCreated {
		code = api.CodeCreated
	}
	WriteJSON(w, status, api.Response{Code: code, Data: map[string]any{key: value}})
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	code := api.CodeSuccess
	if status == http.StatusCreated {
		code = api.CodeCreated
	}
	WriteJSON(w, status, api.Response{Code: code, Message: message})
}

// WritePage answers with a listing and its pagination block. path is the
// request path used to build prev/next links.
func WritePage[T any](w http.ResponseWriter, key string, page domain.Page[T], path string) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, api.Response{
		Code:       api.CodeSuccess,
		Data:       map[string]any{key: items},
		Pagination: api.NewPagination(page, path),
	})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteErrorAndStatusCode renders err with the envelope. Errors outside the
// taxonomy are logged and answered with a generic server error.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if stderrors.As(err, &e) {
		if e.StatusCode >= http.StatusInternalServerError {
			logger.Log.Error("request failed", "code", e.Token(), "error", err)
		}
		WriteJSON(w, e.StatusCode, api.Response{Code: e.Token(), Message: e.Message, Errors: e.Fields})
		return
	}
	logger.Log.Error("unexpected error", "error", err)
	WriteJSON(w, http.StatusInternalServerError, api.Response{Code: errors.CodeServerError, Message: "Internal server error"})
}

func GetIP(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	if net.ParseIP(ip) != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	for _, ip := range strings.Split(r.Header.Get("X-FORWARDED-FOR"), ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if net.ParseIP(ip) != nil {
		return ip, nil
	}
	return "", fmt.Errorf("no valid ip found")
}

// DecodeValidate decodes a json body into body and validates it. Malformed
// json is a bad request, failed validation is reported per field.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	return Validate(body)
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return errors.BadRequest("Body is invalid json")
	}
	return nil
}

func Validate(body any) error {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return errors.Validation("Invalid input", fields)
}

// fieldPath drops the top level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("Must be at most %s bytes", fe.Param())
	case "username":
		if name, ok := fe.Value().(string); ok {
			return domain.UsernameProblem(name)
		}
		return "Invalid username"
	default:
		return fmt.Sprintf("Failed on %q", fe.Tag())
	}
}

// ParsePage reads the 1-indexed page query parameter; anything unusable means the first page.
func ParsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseId parses a positive numeric path id.
func ParseId(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid id")
	}
	return id, nil
}
