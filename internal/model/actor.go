package model

import "time"

// Role is the trust tier of an actor in the inspection console.
type Role string

const (
	// RoleLead has full authority: request deletion, content evaluation.
	RoleLead Role = "lead"
	// RoleMember is the day-to-day operator of the inspection team.
	RoleMember Role = "member"
	// RoleUnit is the external responder, lowest trust tier.
	RoleUnit Role = "unit"
)

// Valid reports whether the role is one of the recognized tiers.
func (r Role) Valid() bool {
	return r == RoleLead || r == RoleMember || r == RoleUnit
}

// Actor is an authenticated user of the console.
// This is a pure domain model with no database-specific dependencies or tags.
type Actor struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsLead checks if the actor holds the lead role.
func (a *Actor) IsLead() bool {
	return a.Role == RoleLead
}

// IsMember checks if the actor holds the member role.
func (a *Actor) IsMember() bool {
	return a.Role == RoleMember
}

// IsUnit checks if the actor holds the unit role.
func (a *Actor) IsUnit() bool {
	return a.Role == RoleUnit
}
