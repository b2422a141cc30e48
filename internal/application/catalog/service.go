// Package catalog wires the teacher, course and review use cases behind
// one application service.
package catalog

import (
	"context"

	"github.com/unical-dimes/professors/internal/application/catalog/dto"
	"github.com/unical-dimes/professors/internal/application/catalog/usecases"
	domainCatalog "github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/domain/moderation"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

type Service struct {
	listTeachersUC   *usecases.ListTeachersUseCase
	getTeacherUC     *usecases.GetTeacherUseCase
	createTeacherUC  *usecases.CreateTeacherUseCase
	updateTeacherUC  *usecases.UpdateTeacherUseCase
	deleteTeacherUC  *usecases.DeleteTeacherUseCase
	createCourseUC   *usecases.CreateCourseUseCase
	listCoursesUC    *usecases.ListCoursesUseCase
	browseCoursesUC  *usecases.BrowseCoursesUseCase
	getCourseUC      *usecases.GetCourseUseCase
	listReviewsUC    *usecases.ListReviewsUseCase
	browseReviewsUC  *usecases.BrowseReviewsUseCase
	createReviewUC   *usecases.CreateReviewUseCase
	moderateReviewUC *usecases.ModerateReviewUseCase
}

func NewService(
	teachers domainCatalog.TeacherRepository,
	courses domainCatalog.CourseRepository,
	reviews domainCatalog.ReviewRepository,
	evaluator moderation.Evaluator,
	markdown usecases.MarkdownRenderer,
	log logger.Interface,
) *Service {
	return &Service{
		listTeachersUC:   usecases.NewListTeachersUseCase(teachers, log),
		getTeacherUC:     usecases.NewGetTeacherUseCase(teachers, courses, log),
		createTeacherUC:  usecases.NewCreateTeacherUseCase(teachers, log),
		updateTeacherUC:  usecases.NewUpdateTeacherUseCase(teachers, log),
		deleteTeacherUC:  usecases.NewDeleteTeacherUseCase(teachers, log),
		createCourseUC:   usecases.NewCreateCourseUseCase(teachers, courses, log),
		listCoursesUC:    usecases.NewListCoursesUseCase(teachers, courses),
		browseCoursesUC:  usecases.NewBrowseCoursesUseCase(courses),
		getCourseUC:      usecases.NewGetCourseUseCase(courses),
		listReviewsUC:    usecases.NewListReviewsUseCase(teachers, reviews, markdown, log),
		browseReviewsUC:  usecases.NewBrowseReviewsUseCase(reviews, markdown, log),
		createReviewUC:   usecases.NewCreateReviewUseCase(teachers, courses, reviews, evaluator, markdown, log),
		moderateReviewUC: usecases.NewModerateReviewUseCase(teachers, courses, evaluator, markdown),
	}
}

func (s *Service) ListTeachers(ctx context.Context) ([]*dto.TeacherResponse, error) {
	return s.listTeachersUC.Execute(ctx)
}

func (s *Service) GetTeacher(ctx context.Context, id uint) (*dto.TeacherDetailResponse, error) {
	return s.getTeacherUC.Execute(ctx, id)
}

func (s *Service) CreateTeacher(ctx context.Context, req dto.TeacherRequest) (*dto.TeacherResponse, error) {
	return s.createTeacherUC.Execute(ctx, req)
}

func (s *Service) UpdateTeacher(ctx context.Context, id uint, req dto.TeacherRequest) (*dto.TeacherResponse, error) {
	return s.updateTeacherUC.Execute(ctx, id, req)
}

func (s *Service) DeleteTeacher(ctx context.Context, id uint) error {
	return s.deleteTeacherUC.Execute(ctx, id)
}

func (s *Service) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	return s.createCourseUC.Execute(ctx, req)
}

func (s *Service) ListCourses(ctx context.Context, teacherID uint) ([]*dto.CourseResponse, error) {
	return s.listCoursesUC.Execute(ctx, teacherID)
}

func (s *Service) BrowseCourses(ctx context.Context, page dto.PageRequest) ([]*dto.CourseResponse, error) {
	return s.browseCoursesUC.Execute(ctx, page)
}

func (s *Service) GetCourse(ctx context.Context, id uint) (*dto.CourseResponse, error) {
	return s.getCourseUC.Execute(ctx, id)
}

func (s *Service) BrowseReviews(ctx context.Context, page dto.PageRequest) ([]*dto.ReviewResponse, error) {
	return s.browseReviewsUC.Execute(ctx, page)
}

func (s *Service) ListReviews(ctx context.Context, teacherID uint) ([]*dto.ReviewResponse, error) {
	return s.listReviewsUC.Execute(ctx, teacherID)
}

func (s *Service) CreateReview(ctx context.Context, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	return s.createReviewUC.Execute(ctx, req)
}

func (s *Service) ModerateReview(ctx context.Context, req dto.ModerateReviewRequest) (*moderation.Verdict, error) {
	return s.moderateReviewUC.Execute(ctx, req)
}
