package model

import "github.com/google/uuid"

// Principal is the authenticated caller, passed explicitly into every service
// operation. Capability checks live here so services never reach into request
// context or global state.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanMutate reports whether the caller may create or change records.
func (p Principal) CanMutate() bool {
	return p.IsAdmin()
}

// CanCorrect reports whether the caller may rewrite immutable history.
// Corrections are off unless the deployment explicitly enables them.
func (p Principal) CanCorrect(allowCorrections bool) bool {
	return allowCorrections && p.IsAdmin()
}
