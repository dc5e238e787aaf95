package models

import "time"

// PasswordReset is a single-use reset ticket. Only the sha256 hex of the
// token handed to the user is stored.
type PasswordReset struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (p *PasswordReset) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
