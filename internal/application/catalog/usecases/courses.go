package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/application/catalog/dto"
	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

type CreateCourseUseCase struct {
	teachers catalog.TeacherRepository
	courses  catalog.CourseRepository
	logger   logger.Interface
}

func NewCreateCourseUseCase(teachers catalog.TeacherRepository, courses catalog.CourseRepository, log logger.Interface) *CreateCourseUseCase {
	return &CreateCourseUseCase{teachers: teachers, courses: courses, logger: log}
}

func (uc *CreateCourseUseCase) Execute(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if _, err := loadTeacher(ctx, uc.teachers, req.TeacherID); err != nil {
		return nil, err
	}
	course, err := catalog.NewCourse(req.Name, req.TeacherID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.courses.Create(ctx, course); err != nil {
		uc.logger.Errorw("failed to create course", "error", err)
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	uc.logger.Infow("course created", "course_id", course.ID, "teacher_id", course.TeacherID)
	return dto.ToCourseResponse(course), nil
}

type ListCoursesUseCase struct {
	teachers catalog.TeacherRepository
	courses  catalog.CourseRepository
}

func NewListCoursesUseCase(teachers catalog.TeacherRepository, courses catalog.CourseRepository) *ListCoursesUseCase {
	return &ListCoursesUseCase{teachers: teachers, courses: courses}
}

func (uc *ListCoursesUseCase) Execute(ctx context.Context, teacherID uint) ([]*dto.CourseResponse, error) {
	if _, err := loadTeacher(ctx, uc.teachers, teacherID); err != nil {
		return nil, err
	}
	courses, err := uc.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return dto.ToCourseResponses(courses), nil
}

// BrowseCoursesUseCase lists every course, one window at a time.
type BrowseCoursesUseCase struct {
	courses catalog.CourseRepository
}

func NewBrowseCoursesUseCase(courses catalog.CourseRepository) *BrowseCoursesUseCase {
	return &BrowseCoursesUseCase{courses: courses}
}

func (uc *BrowseCoursesUseCase) Execute(ctx context.Context, page dto.PageRequest) ([]*dto.CourseResponse, error) {
	offset, limit := page.Window()
	courses, err := uc.courses.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return dto.ToCourseResponses(courses), nil
}

type GetCourseUseCase struct {
	courses catalog.CourseRepository
}

func NewGetCourseUseCase(courses catalog.CourseRepository) *GetCourseUseCase {
	return &GetCourseUseCase{courses: courses}
}

func (uc *GetCourseUseCase) Execute(ctx context.Context, id uint) (*dto.CourseResponse, error) {
	course, err := uc.courses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, errors.NewSubjectNotFoundError("Course")
	}
	return dto.ToCourseResponse(course), nil
}
