package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/mappers"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	"github.com/unical-dimes/professors/internal/shared/db"
)

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(gdb *gorm.DB) catalog.ReviewRepository {
	return &ReviewRepositoryImpl{db: gdb}
}

func (r *ReviewRepositoryImpl) Create(ctx context.Context, review *catalog.Review) error {
	model, err := mappers.ReviewToModel(review)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	review.ID = model.ID
	return nil
}

func (r *ReviewRepositoryImpl) ListByTeacher(ctx context.Context, teacherID uint) ([]*catalog.Review, error) {
	var rows []*models.ReviewModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("teacher_id = ?", teacherID).
		Scopes(db.NewestFirst()).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return toReviews(rows)
}

func (r *ReviewRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*catalog.Review, error) {
	var rows []*models.ReviewModel
	err := db.GetTxFromContext(ctx, r.db).
		Order("id ASC").
		Scopes(db.Page(offset, limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return toReviews(rows)
}

func toReviews(rows []*models.ReviewModel) ([]*catalog.Review, error) {
	out := make([]*catalog.Review, 0, len(rows))
	for _, row := range rows {
		review, err := mappers.ReviewToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, review)
	}
	return out, nil
}
