package http

import (
	"gorm.io/gorm"

	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/domain/permission"
	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/infrastructure/repository"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	userRepo    user.Repository
	sessionRepo user.SessionRepository
	roleRepo    permission.RoleRepository
	teacherRepo catalog.TeacherRepository
	courseRepo  catalog.CourseRepository
	reviewRepo  catalog.ReviewRepository
}

func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:    repository.NewUserRepository(gdb, log),
		sessionRepo: repository.NewSessionRepository(gdb),
		roleRepo:    repository.NewRoleRepository(gdb),
		teacherRepo: repository.NewTeacherRepository(gdb),
		courseRepo:  repository.NewCourseRepository(gdb),
		reviewRepo:  repository.NewReviewRepository(gdb),
	}
}
