package models

import "time"

// Session is the locally cached login.
type Session struct {
	Email   string    `json:"email"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// Profile is what the server reports about the current token.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the token behind p has run out at now.
func (p *Profile) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}
