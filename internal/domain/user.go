package domain

import "time"

// User is the domain model for account holders. The ID doubles as the
// identity embedded in issued tokens.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthPayload is returned by signup and login: a bearer token plus the user
// it authenticates.
type AuthPayload struct {
	Token string
	User  *User
}
