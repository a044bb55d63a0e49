package domain

import "time"

// DefaultRole is granted to every registered identity.
const DefaultRole = "USER"

// Role names are unique across the store.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
