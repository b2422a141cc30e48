package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/domain/user"
	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// PasswordHasher is satisfied by the infrastructure hashers.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// RoleAssigner gives a new account its default role.
type RoleAssigner interface {
	AssignDefaultRole(ctx context.Context, userID uint) ([]string, error)
}

type RegisterUserCommand struct {
	Email    string
	Password string
}

type RegisterUserResult struct {
	User *user.User
}

type RegisterUserUseCase struct {
	userRepo       user.Repository
	roleAssigner   RoleAssigner
	passwordHasher PasswordHasher
	passwordPolicy vo.PasswordPolicy
	txManager      db.Transactor
	logger         logger.Interface
}

func NewRegisterUserUseCase(
	userRepo user.Repository,
	roleAssigner RoleAssigner,
	hasher PasswordHasher,
	passwordPolicy vo.PasswordPolicy,
	txManager db.Transactor,
	logger logger.Interface,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:       userRepo,
		roleAssigner:   roleAssigner,
		passwordHasher: hasher,
		passwordPolicy: passwordPolicy,
		txManager:      txManager,
		logger:         logger,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewValidationError("invalid email", err.Error())
	}
	password, err := uc.passwordPolicy.NewPassword(cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("failed to check email", "error", err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, errors.NewDuplicateAccountError()
	}

	hash, err := uc.passwordHasher.Hash(password.String())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := user.NewUser(email, hash)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.userRepo.Create(txCtx, newUser); err != nil {
			// Another request may have taken the address since the check above.
			if errors.IsConflictError(err) {
				return errors.NewDuplicateAccountError()
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		roles, err := uc.roleAssigner.AssignDefaultRole(txCtx, newUser.ID())
		if err != nil {
			return err
		}
		newUser.SetRoles(roles)
		return nil
	})
	if err != nil {
		if !errors.HasType(err, errors.ErrorTypeDuplicateAccount) {
			uc.logger.Errorw("failed to register user", "error", err)
		}
		return nil, err
	}

	uc.logger.Infow("user registered", "user_id", newUser.ID())
	return &RegisterUserResult{User: newUser}, nil
}
