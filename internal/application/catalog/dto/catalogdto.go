package dto

import (
	"time"

	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/domain/moderation"
	"github.com/unical-dimes/professors/internal/shared/mapper"
)

type TeacherRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Department string `json:"department" binding:"max=255"`
}

// DefaultPageLimit is the page size when limit is omitted.
const DefaultPageLimit = 100

// PageRequest is the skip/limit window of the flat course and review listings.
type PageRequest struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Window returns offset and limit with the default page size applied.
func (p PageRequest) Window() (int, int) {
	if p.Limit == 0 {
		return p.Skip, DefaultPageLimit
	}
	return p.Skip, p.Limit
}

type CreateCourseRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	TeacherID uint   `json:"teacher_id" binding:"required"`
}

type CreateReviewRequest struct {
	TeacherID   uint   `json:"teacher_id" binding:"required"`
	CourseID    uint   `json:"course_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Description string `json:"description" binding:"required,min=10"`
}

type ModerateReviewRequest struct {
	TeacherID   uint   `json:"teacher_id" binding:"required"`
	CourseID    uint   `json:"course_id" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type TeacherResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Department    string    `json:"department"`
	AverageRating *float64  `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TeacherDetailResponse is a teacher with the courses it teaches.
type TeacherDetailResponse struct {
	TeacherResponse
	Courses []*CourseResponse `json:"courses"`
}

type CourseResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	TeacherID uint      `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewResponse struct {
	ID                       uint               `json:"id"`
	TeacherID                uint               `json:"teacher_id"`
	CourseID                 uint               `json:"course_id"`
	Rating                   int                `json:"rating"`
	Description              string             `json:"description"`
	DescriptionHTML          string             `json:"description_html"`
	ModerationAllowed        bool               `json:"moderation_allowed"`
	ModerationBlockedReasons []string           `json:"moderation_blocked_reasons"`
	ModerationScores         map[string]float64 `json:"moderation_scores"`
	ModerationModelVersion   string             `json:"moderation_model_version"`
	ModerationMessage        string             `json:"moderation_message"`
	CreatedAt                time.Time          `json:"created_at"`
}

// VerdictResponse is the moderation preview payload.
type VerdictResponse = moderation.Verdict

func ToTeacherResponse(s *catalog.TeacherSummary) *TeacherResponse {
	return &TeacherResponse{
		ID:            s.ID,
		Name:          s.Name,
		Department:    s.Department,
		AverageRating: s.AverageRating,
		ReviewCount:   s.ReviewCount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func ToCourseResponse(c *catalog.Course) *CourseResponse {
	return &CourseResponse{
		ID:        c.ID,
		Name:      c.Name,
		TeacherID: c.TeacherID,
		CreatedAt: c.CreatedAt,
	}
}

func ToCourseResponses(courses []*catalog.Course) []*CourseResponse {
	return mapper.MapSlice(courses, ToCourseResponse)
}

// ToReviewResponse copies a review; html is the rendered description.
func ToReviewResponse(r *catalog.Review, html string) *ReviewResponse {
	reasons := r.Moderation.BlockedReasons
	if reasons == nil {
		reasons = []string{}
	}
	return &ReviewResponse{
		ID:                       r.ID,
		TeacherID:                r.TeacherID,
		CourseID:                 r.CourseID,
		Rating:                   r.Rating,
		Description:              r.Description,
		DescriptionHTML:          html,
		ModerationAllowed:        r.Moderation.Allowed,
		ModerationBlockedReasons: reasons,
		ModerationScores:         r.Moderation.Scores,
		ModerationModelVersion:   r.Moderation.ModelVersion,
		ModerationMessage:        r.Moderation.Message,
		CreatedAt:                r.CreatedAt,
	}
}
