package domain

// RegistrationState tracks how far a registration progressed. Role
// assignment can fail after the identity row is committed, leaving the
// account in StateCreated rather than rolling back.
type RegistrationState string

const (
	RegistrationFailed       RegistrationState = "FAILED"
	RegistrationCreated      RegistrationState = "CREATED"
	RegistrationRoleAssigned RegistrationState = "ROLE_ASSIGNED"
)
