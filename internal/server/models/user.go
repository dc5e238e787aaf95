// Package models defines the records persisted by the server repositories.
package models

import "time"

// User is an account. Email is neither unique nor normalised; PasswordHash
// holds whatever the configured hasher produced (or the raw password in
// plaintext mode).
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// FullName is the display name carried in the token "name" claim.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
