package catalog

import "context"

// Lookups return nil, nil when the row does not exist.

type TeacherRepository interface {
	Create(ctx context.Context, teacher *Teacher) error
	GetByID(ctx context.Context, id uint) (*Teacher, error)
	Update(ctx context.Context, teacher *Teacher) error
	// Delete removes the teacher with its courses and reviews.
	Delete(ctx context.Context, id uint) error
	ListSummaries(ctx context.Context) ([]*TeacherSummary, error)
	GetSummary(ctx context.Context, id uint) (*TeacherSummary, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id uint) (*Course, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]*Course, error)
	// List pages through every course in id order.
	List(ctx context.Context, offset, limit int) ([]*Course, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	// ListByTeacher returns reviews newest first.
	ListByTeacher(ctx context.Context, teacherID uint) ([]*Review, error)
	// List pages through every review in id order.
	List(ctx context.Context, offset, limit int) ([]*Review, error)
}
