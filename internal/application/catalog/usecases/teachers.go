package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/application/catalog/dto"
	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/mapper"
)

// ListTeachersUseCase returns every teacher with rating aggregates, by name.
type ListTeachersUseCase struct {
	teachers catalog.TeacherRepository
	logger   logger.Interface
}

func NewListTeachersUseCase(teachers catalog.TeacherRepository, log logger.Interface) *ListTeachersUseCase {
	return &ListTeachersUseCase{teachers: teachers, logger: log}
}

func (uc *ListTeachersUseCase) Execute(ctx context.Context) ([]*dto.TeacherResponse, error) {
	summaries, err := uc.teachers.ListSummaries(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list teachers", "error", err)
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return mapper.MapSlice(summaries, dto.ToTeacherResponse), nil
}

type GetTeacherUseCase struct {
	teachers catalog.TeacherRepository
	courses  catalog.CourseRepository
	logger   logger.Interface
}

func NewGetTeacherUseCase(teachers catalog.TeacherRepository, courses catalog.CourseRepository, log logger.Interface) *GetTeacherUseCase {
	return &GetTeacherUseCase{teachers: teachers, courses: courses, logger: log}
}

func (uc *GetTeacherUseCase) Execute(ctx context.Context, id uint) (*dto.TeacherDetailResponse, error) {
	summary, err := uc.teachers.GetSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if summary == nil {
		return nil, errors.NewSubjectNotFoundError("Teacher")
	}
	courses, err := uc.courses.ListByTeacher(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return &dto.TeacherDetailResponse{
		TeacherResponse: *dto.ToTeacherResponse(summary),
		Courses:         dto.ToCourseResponses(courses),
	}, nil
}

type CreateTeacherUseCase struct {
	teachers catalog.TeacherRepository
	logger   logger.Interface
}

func NewCreateTeacherUseCase(teachers catalog.TeacherRepository, log logger.Interface) *CreateTeacherUseCase {
	return &CreateTeacherUseCase{teachers: teachers, logger: log}
}

func (uc *CreateTeacherUseCase) Execute(ctx context.Context, req dto.TeacherRequest) (*dto.TeacherResponse, error) {
	teacher, err := catalog.NewTeacher(req.Name, req.Department)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.teachers.Create(ctx, teacher); err != nil {
		uc.logger.Errorw("failed to create teacher", "error", err)
		return nil, fmt.Errorf("failed to create teacher: %w", err)
	}
	uc.logger.Infow("teacher created", "teacher_id", teacher.ID)
	return dto.ToTeacherResponse(&catalog.TeacherSummary{Teacher: *teacher}), nil
}

type UpdateTeacherUseCase struct {
	teachers catalog.TeacherRepository
	logger   logger.Interface
}

func NewUpdateTeacherUseCase(teachers catalog.TeacherRepository, log logger.Interface) *UpdateTeacherUseCase {
	return &UpdateTeacherUseCase{teachers: teachers, logger: log}
}

func (uc *UpdateTeacherUseCase) Execute(ctx context.Context, id uint, req dto.TeacherRequest) (*dto.TeacherResponse, error) {
	teacher, err := loadTeacher(ctx, uc.teachers, id)
	if err != nil {
		return nil, err
	}
	if err := teacher.Rename(req.Name, req.Department); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.teachers.Update(ctx, teacher); err != nil {
		return nil, err
	}

	summary, err := uc.teachers.GetSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if summary == nil {
		return nil, errors.NewSubjectNotFoundError("Teacher")
	}
	uc.logger.Infow("teacher updated", "teacher_id", id)
	return dto.ToTeacherResponse(summary), nil
}

type DeleteTeacherUseCase struct {
	teachers catalog.TeacherRepository
	logger   logger.Interface
}

func NewDeleteTeacherUseCase(teachers catalog.TeacherRepository, log logger.Interface) *DeleteTeacherUseCase {
	return &DeleteTeacherUseCase{teachers: teachers, logger: log}
}

// Execute removes the teacher together with its courses and reviews.
func (uc *DeleteTeacherUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.teachers.Delete(ctx, id); err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to delete teacher", "error", err, "teacher_id", id)
		}
		return err
	}
	uc.logger.Infow("teacher deleted", "teacher_id", id)
	return nil
}
