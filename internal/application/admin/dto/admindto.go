package dto

import (
	userdto "github.com/unical-dimes/professors/internal/application/user/dto"
	"github.com/unical-dimes/professors/internal/domain/permission"
)

// RoleResponse is one entry of the admin role listing.
type RoleResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListUsersRequest selects users for the admin listing. Inactive accounts
// are listed unless include_inactive=false is passed.
type ListUsersRequest struct {
	IncludeInactive *bool `form:"include_inactive"`
}

func (r ListUsersRequest) WantsInactive() bool {
	return r.IncludeInactive == nil || *r.IncludeInactive
}

// UpdateUserRequest changes roles and/or the active flag. Omitted fields
// are left untouched; an empty role_names list clears every role.
type UpdateUserRequest struct {
	RoleNames *[]string `json:"role_names,omitempty" binding:"omitempty,dive,role_name"`
	IsActive  *bool     `json:"is_active,omitempty"`
}

// UserResponse reuses the public account shape.
type UserResponse = userdto.UserResponse

func ToRoleResponse(r *permission.Role) *RoleResponse {
	return &RoleResponse{
		ID:          r.ID(),
		Name:        r.Name(),
		Description: r.Description(),
	}
}

func ToRoleResponses(roles []*permission.Role) []*RoleResponse {
	out := make([]*RoleResponse, len(roles))
	for i, r := range roles {
		out[i] = ToRoleResponse(r)
	}
	return out
}
