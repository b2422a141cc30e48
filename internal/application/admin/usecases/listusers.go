package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/application/admin/dto"
	userdto "github.com/unical-dimes/professors/internal/application/user/dto"
	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// ListUsersUseCase lists accounts newest first. Inactive ones are hidden
// unless asked for.
type ListUsersUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewListUsersUseCase(userRepo user.Repository, log logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo, logger: log}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, req dto.ListUsersRequest) ([]*dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx, user.ListFilter{IncludeInactive: req.WantsInactive()})
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return userdto.ToUserResponses(users), nil
}
