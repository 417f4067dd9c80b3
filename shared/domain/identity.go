package domain

import "time"

// Identity is the caller as described by the claims of a validated token.
// Admin is a snapshot taken at token issuance and is never re-derived.
type Identity struct {
	UserId    UserId
	Username  Username
	Admin     bool
	TokenId   string
	ExpiresAt time.Time
}
