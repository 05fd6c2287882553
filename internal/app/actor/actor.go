package actor

import (
	"stayhub/internal/domain/user"
)

// Actor is the authenticated caller as resolved by the HTTP layer.
// Handlers use it for target-level authorization checks.
type Actor struct {
	ID    user.ID
	Roles []user.Role
}

func (a Actor) Known() bool {
	return a.ID != ""
}

func (a Actor) HasRole(role user.Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(user.RoleAdmin)
}

// May reports whether the actor is the given principal or an admin.
func (a Actor) May(ownerID string) bool {
	return a.IsAdmin() || (a.Known() && string(a.ID) == ownerID)
}
