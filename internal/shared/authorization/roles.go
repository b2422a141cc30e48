// Package authorization holds the role vocabulary and the set-intersection
// rule used to gate endpoints by role membership.
package authorization

import "sort"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleEditor UserRole = "editor"
	RoleViewer UserRole = "viewer"
)

// DefaultRole is assigned to every self-registered account.
const DefaultRole = RoleViewer

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// RoleDefinition describes a role that is provisioned on first use.
type RoleDefinition struct {
	Name        UserRole
	Description string
}

// DefaultRoles are created on demand and never removed by normal operation.
var DefaultRoles = []RoleDefinition{
	{Name: RoleAdmin, Description: "Full administrative access"},
	{Name: RoleEditor, Description: "Manage content but no user administration"},
	{Name: RoleViewer, Description: "Read-only access to catalog resources"},
}

// Per-endpoint role sets.
var (
	AdminOnly      = []UserRole{RoleAdmin}
	ContentManager = []UserRole{RoleAdmin, RoleEditor}
	AnyMember      = []UserRole{RoleAdmin, RoleEditor, RoleViewer}
)

// Permits reports whether a holder of userRoles may pass a gate requiring
// allowed. An empty allowed set admits any authenticated identity.
func Permits(userRoles []string, allowed []UserRole) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, have := range userRoles {
		for _, want := range allowed {
			if have == string(want) {
				return true
			}
		}
	}
	return false
}

// HasRole checks if the user has a specific role
func HasRole(roles []string, target UserRole) bool {
	return Permits(roles, []UserRole{target})
}

// Names returns the sorted string form of roles.
func Names(roles []UserRole) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	sort.Strings(out)
	return out
}
