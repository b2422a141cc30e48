package permission

import (
	"fmt"
	"regexp"
	"time"

	"github.com/unical-dimes/professors/internal/shared/biztime"
)

const (
	maxRoleNameLength        = 64
	maxRoleDescriptionLength = 255
)

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Role is a named permission group shared by many users.
type Role struct {
	id          uint
	name        string
	description string
	createdAt   time.Time
}

func NewRole(name, description string) (*Role, error) {
	if err := ValidateRoleName(name); err != nil {
		return nil, err
	}
	if len(description) > maxRoleDescriptionLength {
		return nil, fmt.Errorf("role description too long (max %d characters)", maxRoleDescriptionLength)
	}

	return &Role{
		name:        name,
		description: description,
		createdAt:   biztime.NowUTC(),
	}, nil
}

func ReconstructRole(id uint, name, description string, createdAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &Role{
		id:          id,
		name:        name,
		description: description,
		createdAt:   createdAt,
	}, nil
}

// ValidateRoleName accepts lowercase identifiers up to 64 characters.
func ValidateRoleName(name string) error {
	if name == "" {
		return fmt.Errorf("role name is required")
	}
	if len(name) > maxRoleNameLength {
		return fmt.Errorf("role name too long (max %d characters)", maxRoleNameLength)
	}
	if !roleNamePattern.MatchString(name) {
		return fmt.Errorf("invalid role name: %s", name)
	}
	return nil
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Description() string {
	return r.description
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}
