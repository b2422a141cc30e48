package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/application/user/helpers"
	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/shared/authorization"
	"github.com/unical-dimes/professors/internal/shared/constants"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// Identity is the caller behind a verified access token. Roles are the ones
// stored for the user when the request is resolved, not the token's claims,
// so a demotion takes effect on the next request.
type Identity struct {
	User  *user.User
	Roles []string
}

// Permits applies the role-set rule to the identity.
func (i *Identity) Permits(allowed []authorization.UserRole) bool {
	return authorization.Permits(i.Roles, allowed)
}

type ResolveIdentityUseCase struct {
	userRepo user.Repository
	tokens   helpers.TokenService
	logger   logger.Interface
}

func NewResolveIdentityUseCase(userRepo user.Repository, tokens helpers.TokenService, logger logger.Interface) *ResolveIdentityUseCase {
	return &ResolveIdentityUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Execute resolves a bearer access token. Decode failures and unknown
// users are Unauthenticated; a disabled account is Forbidden.
func (uc *ResolveIdentityUseCase) Execute(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, errors.NewUnauthenticatedError(constants.ErrMsgMissingCredentials)
	}

	claims, err := uc.tokens.DecodeAccess(accessToken)
	if err != nil {
		return nil, errors.NewUnauthenticatedError(constants.ErrMsgInvalidAccessToken)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, errors.NewUnauthenticatedError(constants.ErrMsgInvalidAccessToken)
	}

	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, errors.NewUnauthenticatedError("User not found")
	}
	if !u.IsActive() {
		return nil, errors.NewForbiddenError("User account disabled")
	}

	return &Identity{User: u, Roles: u.Roles()}, nil
}

// Authorize resolves the token and then requires a role in allowed. An
// empty allowed set admits any authenticated caller.
func (uc *ResolveIdentityUseCase) Authorize(ctx context.Context, accessToken string, allowed []authorization.UserRole) (*Identity, error) {
	identity, err := uc.Execute(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !identity.Permits(allowed) {
		return nil, errors.NewForbiddenError(constants.ErrMsgForbidden)
	}
	return identity, nil
}
