package usecases

import (
	"context"

	"github.com/unical-dimes/professors/internal/domain/permission"
)

// RoleManager is the role provisioning service seen from admin flows.
type RoleManager interface {
	ListRoles(ctx context.Context) ([]*permission.Role, error)
	AssignRolesByName(ctx context.Context, userID uint, names []string) ([]string, error)
}

// SessionRevoker drops every session of a user.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uint) (int64, error)
}
