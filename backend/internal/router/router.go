package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/itchan-dev/itblog/backend/internal/setup"
	mw "github.com/itchan-dev/itblog/shared/middleware"
	"github.com/itchan-dev/itblog/shared/middleware/metrics"
)

// Limits for endpoints that create accounts, check passwords or send mail.
const (
	registerLimit = 10
	loginLimit    = 30
	resendLimit   = 5
	limitWindow   = time.Minute
)

// New builds the chi router with every route of the API.
// A limiter created with httprate is shared by all routes it wraps, so each
// sensitive endpoint gets its own.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config.Public

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeaders(cfg.SecureCookies, mw.DefaultCSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Auth
	r.With(httprate.LimitByIP(registerLimit, limitWindow)).Post("/register", h.Register)
	r.With(httprate.LimitByIP(loginLimit, limitWindow)).Post("/login", h.Login)
	r.With(authMw.NeedAuth()).Post("/logout", h.Logout)

	// Confirmations
	r.Get("/user_confirm/{id}", h.ConfirmUser)
	r.Route("/confirmation/user/{id}", func(r chi.Router) {
		r.Get("/", h.ListConfirmations)
		r.With(httprate.LimitByIP(resendLimit, limitWindow)).Post("/", h.ResendConfirmation)
	})

	// Users
	r.Route("/users", func(r chi.Router) {
		r.With(authMw.NeedAuth()).Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})
	})
	r.Get("/{username}/posts", h.ListUserPosts)

	// Posts
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/{id}", h.GetPost)
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Post("/", h.CreatePost)
			r.Put("/{id}", h.ReplacePost)
			r.Patch("/{id}", h.PatchPost)
			r.Delete("/{id}", h.DeletePost)
			r.Post("/{id}/comment", h.CreateComment)
		})
	})

	// Tags
	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)
		r.Post("/", h.CreateTag)
		r.Get("/{id}", h.GetTag)
	})

	// Comments
	r.Route("/comments", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMw.OptionalAuth())
			r.Get("/", h.ListComments)
			r.Get("/{id}", h.GetComment)
		})
		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Put("/{id}", h.UpdateComment)
			r.Delete("/{id}", h.DeleteComment)
		})
		r.With(authMw.AdminOnly()).Put("/{id}/confirmed", h.SetCommentConfirmed)
	})

	// Media
	r.Group(func(r chi.Router) {
		r.Use(authMw.NeedAuth())
		r.Post("/upload/image", h.UploadImage)
		r.Put("/upload/avatar", h.UploadAvatar)
		r.Get("/image/{filename}", h.GetImage)
		r.Delete("/image/{filename}", h.DeleteImage)
	})
	r.Get("/avatar/{username}", h.GetAvatar)

	return r
}
