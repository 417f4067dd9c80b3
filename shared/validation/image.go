// Package validation checks uploaded images before they reach the file store.
package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/itchan-dev/itblog/shared/errors"
)

// ImageField is the multipart field uploads are read from.
const ImageField = "image"

// multipartOverhead leaves room for boundaries and form fields around the file.
const multipartOverhead = 1 << 20

var safeFilename = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// extensions accepted per decoded image format
var formatExtensions = map[string][]string{
	"jpeg": {".jpg", ".jpeg"},
	"png":  {".png"},
	"gif":  {".gif"},
	"webp": {".webp"},
}

// PendingImage is an upload that passed validation. Data is rewound to the start.
type PendingImage struct {
	Filename string
	Ext      string
	Size     int64
	Width    int
	Height   int
	Data     multipart.File
}

type ImageRules struct {
	AllowedExtensions []string
	MaxSize           int64
}

func invalid(message string) error {
	return errors.Validation(message, map[string]string{ImageField: message})
}

// SafeFilename rejects names that could escape the user's folder or that are
// not plain file names.
func SafeFilename(name string) error {
	if name != filepath.Base(name) || strings.Contains(name, "..") || !safeFilename.MatchString(name) {
		return invalid("Unsafe file name")
	}
	return nil
}

// Extension returns the lower-cased extension of name if it is allowed.
func (r ImageRules) Extension(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || !slices.Contains(r.AllowedExtensions, ext) {
		return "", invalid(fmt.Sprintf("Unsupported file extension %q", ext))
	}
	return ext, nil
}

// ParseMultipart bounds the request body and parses the multipart form.
func (r ImageRules) ParseMultipart(w http.ResponseWriter, req *http.Request) error {
	limit := r.MaxSize + multipartOverhead
	req.Body = http.MaxBytesReader(w, req.Body, limit)
	if err := req.ParseMultipartForm(limit); err != nil {
		return errors.BadRequest("Request is not a valid multipart form or is too large")
	}
	return nil
}

// Validate opens the uploaded file and checks name, size and that the content
// is really an image of the claimed kind. The caller owns the returned Data.
func (r ImageRules) Validate(header *multipart.FileHeader) (*PendingImage, error) {
	if err := SafeFilename(header.Filename); err != nil {
		return nil, err
	}
	ext, err := r.Extension(header.Filename)
	if err != nil {
		return nil, err
	}
	if header.Size > r.MaxSize {
		return nil, invalid(fmt.Sprintf("File is larger than %.1f MB", float64(r.MaxSize)/(1<<20)))
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		file.Close()
		return nil, invalid("File is not a supported image")
	}
	if !slices.Contains(formatExtensions[format], ext) {
		file.Close()
		return nil, invalid(fmt.Sprintf("File content is %s but extension is %s", format, ext))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	return &PendingImage{
		Filename: header.Filename,
		Ext:      ext,
		Size:     header.Size,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Data:     file,
	}, nil
}
