package user

import (
	"fmt"
	"sort"
	"time"

	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/shared/biztime"
)

// User represents the user aggregate root (pure domain model without persistence concerns)
type User struct {
	id           uint
	email        *vo.Email
	passwordHash string
	isActive     bool
	roles        []string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates an active account with no roles yet.
func NewUser(email *vo.Email, passwordHash string) (*User, error) {
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	now := biztime.NowUTC()
	return &User{
		email:        email,
		passwordHash: passwordHash,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser reconstructs a user from persistence
func ReconstructUser(id uint, email *vo.Email, passwordHash string, isActive bool, roles []string, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}

	u := &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
	u.SetRoles(roles)
	return u, nil
}

func (u *User) ID() uint {
	return u.id
}

// SetID is called once by the repository after insert.
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Email() string {
	return u.email.String()
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) IsActive() bool {
	return u.isActive
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// Roles returns a sorted copy of the role names.
func (u *User) Roles() []string {
	out := make([]string, len(u.roles))
	copy(out, u.roles)
	return out
}

// SetRoles replaces the cached role names, deduplicated and sorted.
func (u *User) SetRoles(names []string) {
	seen := make(map[string]struct{}, len(names))
	roles := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok || n == "" {
			continue
		}
		seen[n] = struct{}{}
		roles = append(roles, n)
	}
	sort.Strings(roles)
	u.roles = roles
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.roles {
		if r == name {
			return true
		}
	}
	return false
}

func (u *User) Activate() {
	if !u.isActive {
		u.isActive = true
		u.updatedAt = biztime.NowUTC()
	}
}

func (u *User) Deactivate() {
	if u.isActive {
		u.isActive = false
		u.updatedAt = biztime.NowUTC()
	}
}

func (u *User) ChangePasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = hash
	u.updatedAt = biztime.NowUTC()
	return nil
}
