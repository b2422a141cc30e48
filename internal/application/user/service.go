package user

import (
	"context"

	"github.com/unical-dimes/professors/internal/application/user/dto"
	"github.com/unical-dimes/professors/internal/application/user/helpers"
	"github.com/unical-dimes/professors/internal/application/user/usecases"
	domainUser "github.com/unical-dimes/professors/internal/domain/user"
	vo "github.com/unical-dimes/professors/internal/domain/user/valueobjects"
	"github.com/unical-dimes/professors/internal/shared/authorization"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// ServiceDDD is the application service that orchestrates the auth use cases
type ServiceDDD struct {
	registerUC *usecases.RegisterUserUseCase
	loginUC    *usecases.LoginWithPasswordUseCase
	refreshUC  *usecases.RefreshTokenUseCase
	logoutUC   *usecases.LogoutUseCase
	identityUC *usecases.ResolveIdentityUseCase
	logger     logger.Interface
}

// Dependencies groups what the auth flows are built from.
type Dependencies struct {
	UserRepo       domainUser.Repository
	Sessions       *helpers.SessionStore
	Tokens         helpers.TokenService
	Hasher         usecases.PasswordHasher
	RoleAssigner   usecases.RoleAssigner
	PasswordPolicy vo.PasswordPolicy
	TxManager      db.Transactor
}

// NewServiceDDD creates a new DDD application service
func NewServiceDDD(deps Dependencies, logger logger.Interface) *ServiceDDD {
	return &ServiceDDD{
		registerUC: usecases.NewRegisterUserUseCase(deps.UserRepo, deps.RoleAssigner, deps.Hasher, deps.PasswordPolicy, deps.TxManager, logger),
		loginUC:    usecases.NewLoginWithPasswordUseCase(deps.UserRepo, deps.Hasher, deps.Tokens, deps.Sessions, logger),
		refreshUC:  usecases.NewRefreshTokenUseCase(deps.UserRepo, deps.Tokens, deps.Sessions, logger),
		logoutUC:   usecases.NewLogoutUseCase(deps.Sessions, logger),
		identityUC: usecases.NewResolveIdentityUseCase(deps.UserRepo, deps.Tokens, logger),
		logger:     logger,
	}
}

// Register creates an account holding the default role
func (s *ServiceDDD) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	result, err := s.registerUC.Execute(ctx, usecases.RegisterUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(result.User), nil
}

// Login checks credentials and opens a session
func (s *ServiceDDD) Login(ctx context.Context, req dto.LoginRequest, meta domainUser.ClientMetadata) (*dto.TokenResponse, error) {
	result, err := s.loginUC.Execute(ctx, usecases.LoginWithPasswordCommand{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	return toTokenResponse(result.TokenPair), nil
}

// Refresh rotates the session behind the refresh token
func (s *ServiceDDD) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error) {
	result, err := s.refreshUC.Execute(ctx, usecases.RefreshTokenCommand{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}
	return toTokenResponse(result.TokenPair), nil
}

// Logout revokes the session behind the refresh token
func (s *ServiceDDD) Logout(ctx context.Context, req dto.RefreshRequest) error {
	return s.logoutUC.Execute(ctx, usecases.LogoutCommand{RefreshToken: req.RefreshToken})
}

// Authorize resolves a bearer token and applies the role gate
func (s *ServiceDDD) Authorize(ctx context.Context, accessToken string, allowed []authorization.UserRole) (*usecases.Identity, error) {
	return s.identityUC.Authorize(ctx, accessToken, allowed)
}

func toTokenResponse(pair usecases.TokenPair) *dto.TokenResponse {
	return &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    pair.ExpiresIn,
	}
}
