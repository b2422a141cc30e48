package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/mappers"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	"github.com/unical-dimes/professors/internal/shared/constants"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// UserRepository implements user.Repository on GORM. Role names are read
// from the user_roles join on every load.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(gdb *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     gdb,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, userEntity *user.User) error {
	model := r.mapper.ToModel(userEntity)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("email already registered")
		}
		r.logger.Errorw("failed to create user in database", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := userEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set user ID: %w", err)
	}

	r.logger.Infow("user created", "id", model.ID)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return r.load(ctx, &model)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("email = ?", normalizeEmail(email)).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return r.load(ctx, &model)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, userEntity *user.User) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("id = ?", userEntity.ID()).
		Updates(map[string]interface{}{
			"password_hash": userEntity.PasswordHash(),
			"is_active":     userEntity.IsActive(),
			"updated_at":    userEntity.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "id", userEntity.ID(), "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("user not found")
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).Scopes(db.NewestFirst())
	if !filter.IncludeInactive {
		query = query.Scopes(db.ActiveOnly())
	}

	var rows []*models.UserModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(rows) == 0 {
		return []*user.User{}, nil
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	roleNames, err := r.roleNamesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		entity, err := r.mapper.ToEntity(row, roleNames[row.ID])
		if err != nil {
			return nil, err
		}
		users = append(users, entity)
	}
	return users, nil
}

func (r *UserRepository) load(ctx context.Context, model *models.UserModel) (*user.User, error) {
	roleNames, err := r.roleNamesFor(ctx, []uint{model.ID})
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(model, roleNames[model.ID])
}

type userRoleName struct {
	UserID uint
	Name   string
}

func (r *UserRepository) roleNamesFor(ctx context.Context, userIDs []uint) (map[uint][]string, error) {
	var rows []userRoleName
	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableUserRoles).
		Select(constants.TableUserRoles+".user_id AS user_id, "+constants.TableRoles+".name AS name").
		Joins("INNER JOIN "+constants.TableRoles+" ON "+constants.TableRoles+".id = "+constants.TableUserRoles+".role_id").
		Where(constants.TableUserRoles+".user_id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}

	out := make(map[uint][]string, len(userIDs))
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Name)
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
