package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/itchan-dev/itblog/shared/domain"
	"github.com/itchan-dev/itblog/shared/errors"
	jwt_internal "github.com/itchan-dev/itblog/shared/jwt"
	"github.com/itchan-dev/itblog/shared/logger"
	"github.com/itchan-dev/itblog/shared/utils"
)

// AccessTokenCookie is the cookie browser clients keep the token in.
const AccessTokenCookie = "accessToken"

// UserLookup confirms that the subject of a token still exists.
type UserLookup interface {
	UserExists(id domain.UserId) (bool, error)
}

// Key to store the identity in the request context
type key int

const IdentityKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService    jwt_internal.JwtService
	users         UserLookup
	secureCookies bool
}

// NewAuth creates a new Auth middleware instance. users may be nil, in which
// case the existence check is skipped.
func NewAuth(jwtService jwt_internal.JwtService, users UserLookup, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		users:         users,
		secureCookies: secureCookies,
	}
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires admin authentication
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates the identity if the token is valid but lets anonymous requests through.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := a.extractIdentity(r)
			if identity != nil {
				r = r.WithContext(context.WithValue(r.Context(), IdentityKey, identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest returns the bearer token, falling back to the access cookie.
func TokenFromRequest(r *http.Request) string {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (a *Auth) extractIdentity(r *http.Request) (*domain.Identity, error) {
	tokenString := TokenFromRequest(r)
	if tokenString == "" {
		return nil, errNoToken
	}

	identity, err := a.jwtService.DecodeToken(r.Context(), tokenString)
	if err != nil {
		return nil, err
	}

	if a.users != nil {
		exists, err := a.users.UserExists(identity.UserId)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errUserGone
		}
	}

	return identity, nil
}

// Sentinel errors for extractIdentity
var (
	errNoToken  = errorString("no token")
	errUserGone = errorString("user no longer exists")
)

type errorString string

func (e errorString) Error() string { return string(e) }

func (a *Auth) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.extractIdentity(r)
			if err != nil {
				switch err {
				case errNoToken:
					utils.WriteErrorAndStatusCode(w, errors.Unauthenticated("Please sign-in"))
				case errUserGone:
					logger.Log.Info("token of deleted user rejected", "path", r.URL.Path)
					a.clearCookie(w)
					utils.WriteErrorAndStatusCode(w, errors.Unauthenticated("User no longer exists"))
				case jwt_internal.ErrTokenRevoked, jwt_internal.ErrTokenExpired:
					a.clearCookie(w)
					utils.WriteErrorAndStatusCode(w, err)
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if adminOnly && !identity.Admin {
				utils.WriteErrorAndStatusCode(w, errors.Forbidden("Access denied. Only for admin"))
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentityFromContext retrieves the caller identity, nil for anonymous requests.
func GetIdentityFromContext(r *http.Request) *domain.Identity {
	identity, ok := r.Context().Value(IdentityKey).(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}
