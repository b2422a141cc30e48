package http

import (
	adminUsecases "github.com/unical-dimes/professors/internal/application/admin/usecases"
)

// allUseCases holds the use cases that handlers call directly. Auth and
// catalog use cases live behind their application services.
type allUseCases struct {
	listRolesUC  *adminUsecases.ListRolesUseCase
	listUsersUC  *adminUsecases.ListUsersUseCase
	updateUserUC *adminUsecases.UpdateUserUseCase
}

func (c *Container) newAdminUseCases() *allUseCases {
	return &allUseCases{
		listRolesUC:  adminUsecases.NewListRolesUseCase(c.permissionService, c.log),
		listUsersUC:  adminUsecases.NewListUsersUseCase(c.repos.userRepo, c.log),
		updateUserUC: adminUsecases.NewUpdateUserUseCase(c.repos.userRepo, c.permissionService, c.sessions, c.txManager, c.log),
	}
}
