package permission

import "context"

// RoleRepository persists roles and the user_roles join.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	// GetByName returns nil, nil when no role has that name.
	GetByName(ctx context.Context, name string) (*Role, error)
	GetByNames(ctx context.Context, names []string) ([]*Role, error)
	// List returns every role sorted by name.
	List(ctx context.Context) ([]*Role, error)

	AssignToUser(ctx context.Context, userID uint, roleIDs []uint) error
	RemoveFromUser(ctx context.Context, userID uint, roleIDs []uint) error
	GetUserRoles(ctx context.Context, userID uint) ([]*Role, error)
}
