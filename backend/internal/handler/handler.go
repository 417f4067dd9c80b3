package handler

import (
	"context"
	"net/http"

	"github.com/itchan-dev/itblog/backend/internal/service"
	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/middleware"
	"github.com/itchan-dev/itblog/shared/validation"
)

// HealthChecker reports whether the backing database is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Services groups everything the handlers delegate to.
type Services struct {
	Auth         service.AuthService
	Confirmation service.ConfirmationService
	User         service.UserService
	Post         service.PostService
	Tag          service.TagService
	Comment      service.CommentService
	Image        service.ImageService
}

type Handler struct {
	auth         service.AuthService
	confirmation service.ConfirmationService
	user         service.UserService
	post         service.PostService
	tag          service.TagService
	comment      service.CommentService
	image        service.ImageService
	health       HealthChecker
	imageRules   validation.ImageRules
	cfg          *config.Config
}

func New(s Services, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		auth:         s.Auth,
		confirmation: s.Confirmation,
		user:         s.User,
		post:         s.Post,
		tag:          s.Tag,
		comment:      s.Comment,
		image:        s.Image,
		health:       health,
		imageRules: validation.ImageRules{
			AllowedExtensions: cfg.Public.AllowedImageExtensions,
			MaxSize:           cfg.Public.MaxImageSize,
		},
		cfg: cfg,
	}
}

// identity returns the authenticated caller. Routes behind NeedAuth always have one.
func identity(r *http.Request) (*domain.Identity, error) {
	id := middleware.GetIdentityFromContext(r)
	if id == nil {
		return nil, errors.Unauthenticated("Please sign-in")
	}
	return id, nil
}
