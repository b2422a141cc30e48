package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/application/admin/dto"
	userdto "github.com/unical-dimes/professors/internal/application/user/dto"
	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

type UpdateUserCommand struct {
	UserID uint
	dto.UpdateUserRequest
}

// UpdateUserUseCase changes a user's roles and active flag in one
// transaction. Deactivation also revokes every session of the user.
type UpdateUserUseCase struct {
	userRepo  user.Repository
	roles     RoleManager
	sessions  SessionRevoker
	txManager db.Transactor
	logger    logger.Interface
}

func NewUpdateUserUseCase(
	userRepo user.Repository,
	roles RoleManager,
	sessions SessionRevoker,
	txManager db.Transactor,
	log logger.Interface,
) *UpdateUserUseCase {
	return &UpdateUserUseCase{
		userRepo:  userRepo,
		roles:     roles,
		sessions:  sessions,
		txManager: txManager,
		logger:    log,
	}
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (*dto.UserResponse, error) {
	var updated *user.User
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		u, err := uc.userRepo.GetByID(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if u == nil {
			return errors.NewNotFoundError("User not found")
		}

		if cmd.RoleNames != nil {
			names, err := uc.roles.AssignRolesByName(txCtx, u.ID(), *cmd.RoleNames)
			if err != nil {
				return err
			}
			u.SetRoles(names)
		}

		if cmd.IsActive != nil && *cmd.IsActive != u.IsActive() {
			if *cmd.IsActive {
				u.Activate()
			} else {
				u.Deactivate()
			}
			if err := uc.userRepo.Update(txCtx, u); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
			if !u.IsActive() {
				revoked, err := uc.sessions.RevokeAllForUser(txCtx, u.ID())
				if err != nil {
					return err
				}
				uc.logger.Infow("revoked sessions of deactivated user", "user_id", u.ID(), "sessions", revoked)
			}
		}

		updated = u
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to update user", "error", err, "user_id", cmd.UserID)
		}
		return nil, err
	}

	uc.logger.Infow("user updated", "user_id", updated.ID(), "roles", updated.Roles(), "is_active", updated.IsActive())
	return userdto.ToUserResponse(updated), nil
}
