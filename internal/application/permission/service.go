package permission

import (
	"context"
	"fmt"
	"sort"

	"github.com/unical-dimes/professors/internal/domain/permission"
	"github.com/unical-dimes/professors/internal/shared/authorization"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// Service provisions roles, manages the user/role join and answers
// resource/action questions through the policy enforcer.
type Service struct {
	roleRepo  permission.RoleRepository
	enforcer  permission.PermissionEnforcer
	txManager db.Transactor
	logger    logger.Interface
}

func NewService(
	roleRepo permission.RoleRepository,
	enforcer permission.PermissionEnforcer,
	txManager db.Transactor,
	logger logger.Interface,
) *Service {
	return &Service{
		roleRepo:  roleRepo,
		enforcer:  enforcer,
		txManager: txManager,
		logger:    logger,
	}
}

// EnsureDefaultRoles creates any missing built-in role. Existing rows are left alone.
func (s *Service) EnsureDefaultRoles(ctx context.Context) error {
	for _, def := range authorization.DefaultRoles {
		if _, err := s.GetOrCreate(ctx, def.Name.String(), def.Description); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreate returns the named role, inserting it first when absent. A
// concurrent insert of the same name is resolved by reading it back.
func (s *Service) GetOrCreate(ctx context.Context, name, description string) (*permission.Role, error) {
	role, err := s.roleRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role != nil {
		return role, nil
	}

	role, err = permission.NewRole(name, description)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		if !errors.IsConflictError(err) {
			return nil, fmt.Errorf("failed to create role: %w", err)
		}
		existing, getErr := s.roleRepo.GetByName(ctx, name)
		if getErr != nil || existing == nil {
			return nil, fmt.Errorf("failed to get role after conflict: %w", err)
		}
		return existing, nil
	}

	s.logger.Infow("role provisioned", "role", name)
	return role, nil
}

// ListRoles returns every role sorted by name.
func (s *Service) ListRoles(ctx context.Context) ([]*permission.Role, error) {
	if err := s.EnsureDefaultRoles(ctx); err != nil {
		return nil, err
	}
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// AssignRolesByName makes names the user's exact role set. Unknown names
// fail with UnknownRole before anything changes; an empty list clears all
// roles. The resulting sorted names are returned.
func (s *Service) AssignRolesByName(ctx context.Context, userID uint, names []string) ([]string, error) {
	if err := s.EnsureDefaultRoles(ctx); err != nil {
		return nil, err
	}

	var result []string
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		desired, err := s.resolveRoles(txCtx, names)
		if err != nil {
			return err
		}

		current, err := s.roleRepo.GetUserRoles(txCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user roles: %w", err)
		}

		toAdd, toRemove := permission.DiffAssignments(roleIDs(current), roleIDs(desired))
		if err := s.roleRepo.RemoveFromUser(txCtx, userID, toRemove); err != nil {
			return fmt.Errorf("failed to remove roles: %w", err)
		}
		if err := s.roleRepo.AssignToUser(txCtx, userID, toAdd); err != nil {
			return fmt.Errorf("failed to assign roles: %w", err)
		}

		result = roleNames(desired)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user roles updated", "user_id", userID, "roles", result)
	return result, nil
}

// AssignDefaultRole gives a newly registered account the viewer role.
func (s *Service) AssignDefaultRole(ctx context.Context, userID uint) ([]string, error) {
	role, err := s.GetOrCreate(ctx, authorization.DefaultRole.String(), defaultDescription(authorization.DefaultRole))
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.AssignToUser(ctx, userID, []uint{role.ID()}); err != nil {
		return nil, fmt.Errorf("failed to assign default role: %w", err)
	}
	return []string{role.Name()}, nil
}

func defaultDescription(name authorization.UserRole) string {
	for _, def := range authorization.DefaultRoles {
		if def.Name == name {
			return def.Description
		}
	}
	return ""
}

// CheckPermission is true when any of the roles is granted action on resource.
func (s *Service) CheckPermission(roles []string, resource, action string) (bool, error) {
	for _, role := range roles {
		ok, err := s.enforcer.Enforce(role, resource, action)
		if err != nil {
			return false, fmt.Errorf("failed to enforce policy: %w", err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) resolveRoles(ctx context.Context, names []string) ([]*permission.Role, error) {
	unique := dedupe(names)
	if len(unique) == 0 {
		return nil, nil
	}

	found, err := s.roleRepo.GetByNames(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}

	byName := make(map[string]struct{}, len(found))
	for _, r := range found {
		byName[r.Name()] = struct{}{}
	}
	var missing []string
	for _, n := range unique {
		if _, ok := byName[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.NewUnknownRoleError(missing)
	}
	return found, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func roleIDs(roles []*permission.Role) []uint {
	ids := make([]uint, len(roles))
	for i, r := range roles {
		ids[i] = r.ID()
	}
	return ids
}

func roleNames(roles []*permission.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name()
	}
	sort.Strings(names)
	return names
}
