package usecases

import (
	"context"
	"fmt"

	"github.com/unical-dimes/professors/internal/application/catalog/dto"
	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/domain/moderation"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/utils/logutil"
)

type ListReviewsUseCase struct {
	teachers catalog.TeacherRepository
	reviews  catalog.ReviewRepository
	markdown MarkdownRenderer
	logger   logger.Interface
}

func NewListReviewsUseCase(
	teachers catalog.TeacherRepository,
	reviews catalog.ReviewRepository,
	markdown MarkdownRenderer,
	log logger.Interface,
) *ListReviewsUseCase {
	return &ListReviewsUseCase{teachers: teachers, reviews: reviews, markdown: markdown, logger: log}
}

// Execute lists a teacher's reviews newest first with rendered descriptions.
func (uc *ListReviewsUseCase) Execute(ctx context.Context, teacherID uint) ([]*dto.ReviewResponse, error) {
	if _, err := loadTeacher(ctx, uc.teachers, teacherID); err != nil {
		return nil, err
	}
	reviews, err := uc.reviews.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return renderReviews(reviews, uc.markdown, uc.logger), nil
}

// BrowseReviewsUseCase lists every review in id order, one window at a time.
type BrowseReviewsUseCase struct {
	reviews  catalog.ReviewRepository
	markdown MarkdownRenderer
	logger   logger.Interface
}

func NewBrowseReviewsUseCase(reviews catalog.ReviewRepository, markdown MarkdownRenderer, log logger.Interface) *BrowseReviewsUseCase {
	return &BrowseReviewsUseCase{reviews: reviews, markdown: markdown, logger: log}
}

func (uc *BrowseReviewsUseCase) Execute(ctx context.Context, page dto.PageRequest) ([]*dto.ReviewResponse, error) {
	offset, limit := page.Window()
	reviews, err := uc.reviews.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return renderReviews(reviews, uc.markdown, uc.logger), nil
}

// renderReviews maps reviews to responses. A description that fails to
// render is served with an empty description_html.
func renderReviews(reviews []*catalog.Review, markdown MarkdownRenderer, log logger.Interface) []*dto.ReviewResponse {
	out := make([]*dto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		html, err := markdown.ToHTMLSanitized(r.Description)
		if err != nil {
			log.Warnw("failed to render review", "error", err, "review_id", r.ID)
			html = ""
		}
		out[i] = dto.ToReviewResponse(r, html)
	}
	return out
}

// CreateReviewUseCase runs the moderation gate before anything is stored.
type CreateReviewUseCase struct {
	teachers  catalog.TeacherRepository
	courses   catalog.CourseRepository
	reviews   catalog.ReviewRepository
	evaluator moderation.Evaluator
	markdown  MarkdownRenderer
	logger    logger.Interface
}

func NewCreateReviewUseCase(
	teachers catalog.TeacherRepository,
	courses catalog.CourseRepository,
	reviews catalog.ReviewRepository,
	evaluator moderation.Evaluator,
	markdown MarkdownRenderer,
	log logger.Interface,
) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		teachers:  teachers,
		courses:   courses,
		reviews:   reviews,
		evaluator: evaluator,
		markdown:  markdown,
		logger:    log,
	}
}

// Execute fails with a *moderation.BlockedError carrying the verdict when
// the text is rejected.
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	teacher, course, err := loadReviewSubject(ctx, uc.teachers, uc.courses, req.TeacherID, req.CourseID)
	if err != nil {
		return nil, err
	}

	text := uc.markdown.StripTags(req.Description)
	review, err := catalog.NewReview(teacher.ID, course.ID, req.Rating, text)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	verdict := uc.evaluator.Evaluate(ctx, moderation.Input{
		Text:        review.Description,
		SubjectName: teacher.Name,
		TopicName:   course.Name,
	})
	if !verdict.Allowed {
		uc.logger.Infow("review blocked by moderation",
			"teacher_id", teacher.ID,
			"course_id", course.ID,
			"reasons", verdict.Reasons(),
			"excerpt", logutil.TruncateForLog(review.Description, 40),
		)
		return nil, moderation.NewBlockedError(verdict)
	}

	review.Moderation = catalog.ModerationRecord{
		Allowed:        verdict.Allowed,
		BlockedReasons: verdict.Reasons(),
		Scores:         verdict.ScoreMap(),
		ModelVersion:   verdict.ModelVersion,
		Message:        verdict.Message,
	}
	if err := uc.reviews.Create(ctx, review); err != nil {
		uc.logger.Errorw("failed to create review", "error", err)
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	html, err := uc.markdown.ToHTMLSanitized(review.Description)
	if err != nil {
		uc.logger.Warnw("failed to render review", "error", err, "review_id", review.ID)
	}
	uc.logger.Infow("review created", "review_id", review.ID, "teacher_id", teacher.ID)
	return dto.ToReviewResponse(review, html), nil
}

// ModerateReviewUseCase evaluates text without storing anything.
type ModerateReviewUseCase struct {
	teachers  catalog.TeacherRepository
	courses   catalog.CourseRepository
	evaluator moderation.Evaluator
	markdown  MarkdownRenderer
}

func NewModerateReviewUseCase(
	teachers catalog.TeacherRepository,
	courses catalog.CourseRepository,
	evaluator moderation.Evaluator,
	markdown MarkdownRenderer,
) *ModerateReviewUseCase {
	return &ModerateReviewUseCase{teachers: teachers, courses: courses, evaluator: evaluator, markdown: markdown}
}

func (uc *ModerateReviewUseCase) Execute(ctx context.Context, req dto.ModerateReviewRequest) (*moderation.Verdict, error) {
	teacher, course, err := loadReviewSubject(ctx, uc.teachers, uc.courses, req.TeacherID, req.CourseID)
	if err != nil {
		return nil, err
	}
	verdict := uc.evaluator.Evaluate(ctx, moderation.Input{
		Text:        uc.markdown.StripTags(req.Description),
		SubjectName: teacher.Name,
		TopicName:   course.Name,
	})
	return &verdict, nil
}
