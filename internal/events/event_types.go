package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIdentityRegistered     EventType = "identity_registered"
	EventRoleCreated            EventType = "role_created"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IdentityRegisteredPayload payload.
type IdentityRegisteredPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RoleCreatedPayload payload.
type RoleCreatedPayload struct {
	Name string `json:"name"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Email string `json:"email"`
}
