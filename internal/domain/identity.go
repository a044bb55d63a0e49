package domain

import "time"

// Identity is the domain model for a registered account.
type Identity struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
