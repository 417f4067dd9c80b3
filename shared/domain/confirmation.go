package domain

import "time"

// ConfirmationTTL is the fixed lifetime of a confirmation link.
const ConfirmationTTL = 1800 * time.Second

type Confirmation struct {
	Id        ConfirmationId `json:"id"`
	UserId    UserId         `json:"-"`
	ExpiresAt time.Time      `json:"expire_at"`
	Confirmed bool           `json:"confirmed"`
	CreatedAt time.Time      `json:"-"`
}

// Expired reports whether the confirmation can no longer be consumed at now.
func (c *Confirmation) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ConfirmationList is the per-user listing with the server time it was taken at.
type ConfirmationList struct {
	CurrentTime   time.Time      `json:"current_time"`
	Confirmations []Confirmation `json:"confirmation"`
}
