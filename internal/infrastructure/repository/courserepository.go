package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/mappers"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	"github.com/unical-dimes/professors/internal/shared/db"
)

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(gdb *gorm.DB) catalog.CourseRepository {
	return &CourseRepositoryImpl{db: gdb}
}

func (r *CourseRepositoryImpl) Create(ctx context.Context, course *catalog.Course) error {
	model := mappers.CourseToModel(course)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	course.ID = model.ID
	return nil
}

func (r *CourseRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Course, error) {
	var model models.CourseModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return mappers.CourseToDomain(&model), nil
}

func (r *CourseRepositoryImpl) ListByTeacher(ctx context.Context, teacherID uint) ([]*catalog.Course, error) {
	var rows []*models.CourseModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("teacher_id = ?", teacherID).
		Order("name ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	out := make([]*catalog.Course, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappers.CourseToDomain(row))
	}
	return out, nil
}

func (r *CourseRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*catalog.Course, error) {
	var rows []*models.CourseModel
	err := db.GetTxFromContext(ctx, r.db).
		Order("id ASC").
		Scopes(db.Page(offset, limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	out := make([]*catalog.Course, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappers.CourseToDomain(row))
	}
	return out, nil
}
