// Package revocation keeps track of token ids that must no longer be accepted.
package revocation

import (
	"context"
	"time"
)

// Store is the revocation set consulted on every token validation.
type Store interface {
	// Revoke records tokenId. expiresAt is the natural expiry of the token;
	// stores may use it to bound how long they remember the id.
	Revoke(ctx context.Context, tokenId string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenId string) (bool, error)
}
