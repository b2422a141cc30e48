package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unical-dimes/professors/internal/domain/permission"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/mappers"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	"github.com/unical-dimes/professors/internal/shared/biztime"
	"github.com/unical-dimes/professors/internal/shared/constants"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/errors"
)

type RoleRepositoryImpl struct {
	db *gorm.DB
}

func NewRoleRepository(gdb *gorm.DB) permission.RoleRepository {
	return &RoleRepositoryImpl{db: gdb}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *permission.Role) error {
	model := &models.RoleModel{
		Name:        role.Name(),
		Description: role.Description(),
		CreatedAt:   role.CreatedAt(),
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("role already exists", role.Name())
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	return role.SetID(model.ID)
}

func (r *RoleRepositoryImpl) GetByName(ctx context.Context, name string) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return mappers.RoleToEntity(&model)
}

func (r *RoleRepositoryImpl) GetByNames(ctx context.Context, names []string) ([]*permission.Role, error) {
	if len(names) == 0 {
		return []*permission.Role{}, nil
	}
	var rows []*models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name IN ?", names).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get roles by name: %w", err)
	}
	return mappers.RolesToEntities(rows)
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]*permission.Role, error) {
	var rows []*models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return mappers.RolesToEntities(rows)
}

// AssignToUser ignores pairs that already exist.
func (r *RoleRepositoryImpl) AssignToUser(ctx context.Context, userID uint, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}

	now := biztime.NowUTC()
	userRoles := make([]models.UserRoleModel, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		userRoles = append(userRoles, models.UserRoleModel{
			UserID:     userID,
			RoleID:     roleID,
			AssignedAt: now,
		})
	}

	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userRoles).Error
	if err != nil {
		return fmt.Errorf("failed to assign roles: %w", err)
	}
	return nil
}

func (r *RoleRepositoryImpl) RemoveFromUser(ctx context.Context, userID uint, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND role_id IN ?", userID, roleIDs).
		Delete(&models.UserRoleModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove roles: %w", err)
	}
	return nil
}

func (r *RoleRepositoryImpl) GetUserRoles(ctx context.Context, userID uint) ([]*permission.Role, error) {
	var rows []*models.RoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableRoles).
		Select(constants.TableRoles+".*").
		Joins("INNER JOIN "+constants.TableUserRoles+" ON "+constants.TableRoles+".id = "+constants.TableUserRoles+".role_id").
		Where(constants.TableUserRoles+".user_id = ?", userID).
		Order(constants.TableRoles + ".name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return mappers.RolesToEntities(rows)
}
