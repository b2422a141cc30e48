package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/shared/errors"
)

// MarkdownRenderer renders review text for reads and strips markup on writes.
type MarkdownRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
	StripTags(text string) string
}

func loadTeacher(ctx context.Context, repo catalog.TeacherRepository, id uint) (*catalog.Teacher, error) {
	teacher, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher == nil {
		return nil, errors.NewSubjectNotFoundError("Teacher")
	}
	return teacher, nil
}

// loadReviewSubject resolves the teacher and course a review is about.
// The course must be taught by the teacher.
func loadReviewSubject(
	ctx context.Context,
	teachers catalog.TeacherRepository,
	courses catalog.CourseRepository,
	teacherID, courseID uint,
) (*catalog.Teacher, *catalog.Course, error) {
	teacher, err := loadTeacher(ctx, teachers, teacherID)
	if err != nil {
		return nil, nil, err
	}
	course, err := courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, nil, errors.NewSubjectNotFoundError("Course")
	}
	if !course.BelongsTo(teacher.ID) {
		return nil, nil, errors.NewBadRequestError("Course does not belong to the selected teacher")
	}
	return teacher, course, nil
}
