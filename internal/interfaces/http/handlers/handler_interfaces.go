package handlers

import (
	"context"

	adminDto "github.com/unical-dimes/professors/internal/application/admin/dto"
	adminUsecases "github.com/unical-dimes/professors/internal/application/admin/usecases"
	catalogDto "github.com/unical-dimes/professors/internal/application/catalog/dto"
	"github.com/unical-dimes/professors/internal/application/user/dto"
	"github.com/unical-dimes/professors/internal/domain/moderation"
	"github.com/unical-dimes/professors/internal/domain/user"
)

// Service interfaces for the handlers; the application facades satisfy
// them and tests substitute mocks.

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest, meta user.ClientMetadata) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, req dto.RefreshRequest) error
}

type listRolesUseCase interface {
	Execute(ctx context.Context) ([]*adminDto.RoleResponse, error)
}

type listUsersUseCase interface {
	Execute(ctx context.Context, req adminDto.ListUsersRequest) ([]*adminDto.UserResponse, error)
}

type updateUserUseCase interface {
	Execute(ctx context.Context, cmd adminUsecases.UpdateUserCommand) (*adminDto.UserResponse, error)
}

type CatalogService interface {
	ListTeachers(ctx context.Context) ([]*catalogDto.TeacherResponse, error)
	GetTeacher(ctx context.Context, id uint) (*catalogDto.TeacherDetailResponse, error)
	CreateTeacher(ctx context.Context, req catalogDto.TeacherRequest) (*catalogDto.TeacherResponse, error)
	UpdateTeacher(ctx context.Context, id uint, req catalogDto.TeacherRequest) (*catalogDto.TeacherResponse, error)
	DeleteTeacher(ctx context.Context, id uint) error
	CreateCourse(ctx context.Context, req catalogDto.CreateCourseRequest) (*catalogDto.CourseResponse, error)
	ListCourses(ctx context.Context, teacherID uint) ([]*catalogDto.CourseResponse, error)
	BrowseCourses(ctx context.Context, page catalogDto.PageRequest) ([]*catalogDto.CourseResponse, error)
	GetCourse(ctx context.Context, id uint) (*catalogDto.CourseResponse, error)
	ListReviews(ctx context.Context, teacherID uint) ([]*catalogDto.ReviewResponse, error)
	BrowseReviews(ctx context.Context, page catalogDto.PageRequest) ([]*catalogDto.ReviewResponse, error)
	CreateReview(ctx context.Context, req catalogDto.CreateReviewRequest) (*catalogDto.ReviewResponse, error)
	ModerateReview(ctx context.Context, req catalogDto.ModerateReviewRequest) (*moderation.Verdict, error)
}
