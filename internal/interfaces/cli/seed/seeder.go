package seed

import (
	"context"
	"fmt"

	catalogDto "github.com/unical-dimes/professors/internal/application/catalog/dto"
	userDto "github.com/unical-dimes/professors/internal/application/user/dto"
	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/shared/authorization"
	"github.com/unical-dimes/professors/internal/shared/logger"
)

// RoleProvisioner creates the built-in roles and replaces a user's roles.
type RoleProvisioner interface {
	EnsureDefaultRoles(ctx context.Context) error
	AssignRolesByName(ctx context.Context, userID uint, names []string) ([]string, error)
}

// Registrar creates accounts through the normal registration path.
type Registrar interface {
	Register(ctx context.Context, req userDto.RegisterRequest) (*userDto.UserResponse, error)
}

// CatalogWriter is the part of the catalog service the sample data needs.
type CatalogWriter interface {
	ListTeachers(ctx context.Context) ([]*catalogDto.TeacherResponse, error)
	CreateTeacher(ctx context.Context, req catalogDto.TeacherRequest) (*catalogDto.TeacherResponse, error)
	CreateCourse(ctx context.Context, req catalogDto.CreateCourseRequest) (*catalogDto.CourseResponse, error)
	CreateReview(ctx context.Context, req catalogDto.CreateReviewRequest) (*catalogDto.ReviewResponse, error)
}

// Report counts what a run created. Zero values mean the rows already existed.
type Report struct {
	AdminCreated bool
	Teachers     int
	Courses      int
	Reviews      int
}

// Seeder provisions roles, the default admin account and optional sample
// catalog data. Every step is idempotent.
type Seeder struct {
	roles     RoleProvisioner
	users     user.Repository
	registrar Registrar
	catalog   CatalogWriter
	logger    logger.Interface
}

func NewSeeder(roles RoleProvisioner, users user.Repository, registrar Registrar, catalog CatalogWriter, log logger.Interface) *Seeder {
	return &Seeder{
		roles:     roles,
		users:     users,
		registrar: registrar,
		catalog:   catalog,
		logger:    log,
	}
}

// Run seeds roles and the admin. Sample data is added only when requested
// and the catalog is still empty.
func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string, sample bool) (*Report, error) {
	report := &Report{}

	if err := s.roles.EnsureDefaultRoles(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure default roles: %w", err)
	}

	created, err := s.ensureAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return nil, err
	}
	report.AdminCreated = created

	if sample {
		if err := s.seedCatalog(ctx, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing != nil {
		s.logger.Infow("default admin already exists", "user_id", existing.ID())
		return false, nil
	}

	resp, err := s.registrar.Register(ctx, userDto.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return false, fmt.Errorf("failed to create default admin: %w", err)
	}

	names := []string{
		authorization.RoleAdmin.String(),
		authorization.RoleEditor.String(),
		authorization.RoleViewer.String(),
	}
	if _, err := s.roles.AssignRolesByName(ctx, resp.ID, names); err != nil {
		return false, fmt.Errorf("failed to assign admin roles: %w", err)
	}

	s.logger.Infow("created default admin", "user_id", resp.ID)
	return true, nil
}

type sampleCourse struct {
	name    string
	teacher int
}

type sampleReview struct {
	teacher, course int
	rating          int
	description     string
}

var sampleTeachers = []catalogDto.TeacherRequest{
	{Name: "Prof. John Smith", Department: "Computer Science"},
	{Name: "Dr. Maria Garcia", Department: "Mathematics"},
	{Name: "Prof. Robert Johnson", Department: "Physics"},
}

var sampleCourses = []sampleCourse{
	{"Data Structures", 0},
	{"Algorithms", 0},
	{"Calculus I", 1},
	{"Linear Algebra", 1},
	{"Quantum Mechanics", 2},
	{"Classical Physics", 2},
}

var sampleReviews = []sampleReview{
	{0, 0, 5, "Excellent professor! Very clear explanations and helpful during office hours. The course material was challenging but Prof. Smith made it engaging and understandable."},
	{0, 0, 4, "Good teacher overall. Sometimes moves a bit fast through the material, but always willing to answer questions. Fair grading and interesting assignments."},
	{0, 1, 5, "Best algorithms course I've taken! Prof. Smith really knows how to break down complex topics. Highly recommend this course to anyone interested in algorithms."},
	{1, 2, 4, "Dr. Garcia is very knowledgeable and passionate about mathematics. The course is well-structured and the homework helps reinforce the concepts."},
	{2, 4, 3, "The course content is interesting but the lectures can be hard to follow sometimes. More examples would be helpful. Prof. Johnson is approachable during office hours."},
}

func (s *Seeder) seedCatalog(ctx context.Context, report *Report) error {
	existing, err := s.catalog.ListTeachers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list teachers: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Infow("catalog already contains data, skipping sample seed", "teachers", len(existing))
		return nil
	}

	teacherIDs := make([]uint, 0, len(sampleTeachers))
	for _, req := range sampleTeachers {
		t, err := s.catalog.CreateTeacher(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create teacher %q: %w", req.Name, err)
		}
		teacherIDs = append(teacherIDs, t.ID)
		report.Teachers++
	}

	courseIDs := make([]uint, 0, len(sampleCourses))
	for _, sc := range sampleCourses {
		c, err := s.catalog.CreateCourse(ctx, catalogDto.CreateCourseRequest{
			Name:      sc.name,
			TeacherID: teacherIDs[sc.teacher],
		})
		if err != nil {
			return fmt.Errorf("failed to create course %q: %w", sc.name, err)
		}
		courseIDs = append(courseIDs, c.ID)
		report.Courses++
	}

	// Reviews pass through moderation like any other submission.
	for _, sr := range sampleReviews {
		_, err := s.catalog.CreateReview(ctx, catalogDto.CreateReviewRequest{
			TeacherID:   teacherIDs[sr.teacher],
			CourseID:    courseIDs[sr.course],
			Rating:      sr.rating,
			Description: sr.description,
		})
		if err != nil {
			return fmt.Errorf("failed to create sample review: %w", err)
		}
		report.Reviews++
	}

	return nil
}
