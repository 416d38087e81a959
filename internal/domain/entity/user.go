package entity

import "time"

// User is a registered crew member. PasswordHash is a bcrypt hash; the
// plaintext never leaves the login/register handlers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
