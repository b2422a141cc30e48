package user

import "context"

// Repository defines the interface for user data operations.
// Lookups return nil, nil when the user does not exist.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update persists the active flag and password hash. Roles are managed
	// through the role repository.
	Update(ctx context.Context, user *User) error
	List(ctx context.Context, filter ListFilter) ([]*User, error)
}

// ListFilter selects users for the admin listing, newest first.
type ListFilter struct {
	IncludeInactive bool
}
