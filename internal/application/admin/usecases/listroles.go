package usecases

import (
	"context"

	"github.com/unical-dimes/professors/internal/application/admin/dto"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// ListRolesUseCase returns every role sorted by name, provisioning the
// defaults first so a fresh database never lists nothing.
type ListRolesUseCase struct {
	roles  RoleManager
	logger logger.Interface
}

func NewListRolesUseCase(roles RoleManager, log logger.Interface) *ListRolesUseCase {
	return &ListRolesUseCase{roles: roles, logger: log}
}

func (uc *ListRolesUseCase) Execute(ctx context.Context) ([]*dto.RoleResponse, error) {
	roles, err := uc.roles.ListRoles(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list roles", "error", err)
		return nil, err
	}
	return dto.ToRoleResponses(roles), nil
}
