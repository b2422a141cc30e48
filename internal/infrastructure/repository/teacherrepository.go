package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/mappers"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
	"github.com/unical-dimes/professors/internal/shared/constants"
	"github.com/unical-dimes/professors/internal/shared/db"
	"github.com/unical-dimes/professors/internal/shared/errors"
)

type TeacherRepositoryImpl struct {
	db *gorm.DB
}

func NewTeacherRepository(gdb *gorm.DB) catalog.TeacherRepository {
	return &TeacherRepositoryImpl{db: gdb}
}

func (r *TeacherRepositoryImpl) Create(ctx context.Context, teacher *catalog.Teacher) error {
	model := mappers.TeacherToModel(teacher)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}
	teacher.ID = model.ID
	return nil
}

func (r *TeacherRepositoryImpl) GetByID(ctx context.Context, id uint) (*catalog.Teacher, error) {
	var model models.TeacherModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	return mappers.TeacherToDomain(&model), nil
}

func (r *TeacherRepositoryImpl) Update(ctx context.Context, teacher *catalog.Teacher) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.TeacherModel{}).
		Where("id = ?", teacher.ID).
		Updates(map[string]interface{}{
			"name":       teacher.Name,
			"department": teacher.Department,
			"updated_at": teacher.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update teacher: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewSubjectNotFoundError("Teacher")
	}
	return nil
}

func (r *TeacherRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("teacher_id = ?", id).Delete(&models.ReviewModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete teacher reviews: %w", err)
		}
		if err := tx.Where("teacher_id = ?", id).Delete(&models.CourseModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete teacher courses: %w", err)
		}
		result := tx.Delete(&models.TeacherModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete teacher: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.NewSubjectNotFoundError("Teacher")
		}
		return nil
	})
}

type teacherSummaryRow struct {
	models.TeacherModel `gorm:"embedded"`
	AverageRating       *float64
	ReviewCount         int64
}

func (r *TeacherRepositoryImpl) summaryQuery(ctx context.Context) *gorm.DB {
	t, rv := constants.TableTeachers, constants.TableReviews
	return db.GetTxFromContext(ctx, r.db).
		Table(t).
		Select(t + ".id, " + t + ".name, " + t + ".department, " + t + ".created_at, " + t + ".updated_at, " +
			"AVG(" + rv + ".rating) AS average_rating, COUNT(" + rv + ".id) AS review_count").
		Joins("LEFT JOIN " + rv + " ON " + rv + ".teacher_id = " + t + ".id").
		Group(t + ".id")
}

func (r *TeacherRepositoryImpl) ListSummaries(ctx context.Context) ([]*catalog.TeacherSummary, error) {
	var rows []teacherSummaryRow
	if err := r.summaryQuery(ctx).Order(constants.TableTeachers + ".name ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	out := make([]*catalog.TeacherSummary, 0, len(rows))
	for i := range rows {
		out = append(out, toSummary(&rows[i]))
	}
	return out, nil
}

func (r *TeacherRepositoryImpl) GetSummary(ctx context.Context, id uint) (*catalog.TeacherSummary, error) {
	var rows []teacherSummaryRow
	err := r.summaryQuery(ctx).
		Where(constants.TableTeachers+".id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toSummary(&rows[0]), nil
}

func toSummary(row *teacherSummaryRow) *catalog.TeacherSummary {
	return &catalog.TeacherSummary{
		Teacher:       *mappers.TeacherToDomain(&row.TeacherModel),
		AverageRating: row.AverageRating,
		ReviewCount:   row.ReviewCount,
	}
}
