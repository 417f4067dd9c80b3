package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/itchan-dev/itblog/shared/domain"
	internal_errors "github.com/itchan-dev/itblog/shared/errors"
	"github.com/itchan-dev/itblog/shared/logger"
	"github.com/itchan-dev/itblog/shared/revocation"
)

var (
	ErrTokenInvalid = &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized, Code: internal_errors.CodeUnauthorized}
	ErrTokenExpired = &internal_errors.ErrorWithStatusCode{Message: "Access token expired", StatusCode: http.StatusUnauthorized, Code: internal_errors.CodeUnauthorized}
	ErrTokenRevoked = &internal_errors.ErrorWithStatusCode{Message: "Access token revoked", StatusCode: http.StatusUnauthorized, Code: internal_errors.CodeUnauthorized}
)

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(ctx context.Context, jwtStr string) (*domain.Identity, error)
	Revoke(ctx context.Context, identity *domain.Identity) error
}

// Claims embedded into every access token. Admin is a snapshot of the user
// at issuance time.
type Claims struct {
	UserId   domain.UserId   `json:"uid"`
	Username domain.Username `json:"username"`
	Admin    bool            `json:"is_admin"`
	jwt.RegisteredClaims
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
	revoked   revocation.Store
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration, revoked revocation.Store) *Jwt {
	return &Jwt{secretKey: secretKey, ttl: ttl, revoked: revoked, now: time.Now}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	now := j.now()
	claims := Claims{
		UserId:   user.Id,
		Username: user.Username,
		Admin:    user.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "user_id", user.Id, "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

// DecodeToken validates the signature, then the revocation set, then expiry.
// Revocation is checked first so that a revoked token keeps reporting
// ErrTokenRevoked for as long as the store remembers it.
func (j *Jwt) DecodeToken(ctx context.Context, jwtStr string) (*domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(jwtStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		logger.Log.Debug("token parse failed", "error", err)
		return nil, ErrTokenInvalid
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}

	revoked, err := j.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	if !j.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return &domain.Identity{
		UserId:    claims.UserId,
		Username:  claims.Username,
		Admin:     claims.Admin,
		TokenId:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke adds the token id of identity to the revocation set.
func (j *Jwt) Revoke(ctx context.Context, identity *domain.Identity) error {
	return j.revoked.Revoke(ctx, identity.TokenId, identity.ExpiresAt)
}
