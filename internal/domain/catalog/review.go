package catalog

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/unical-dimes/professors/internal/shared/biztime"
)

const (
	MinRating            = 1
	MaxRating            = 5
	MinDescriptionLength = 10
)

// ModerationRecord is the copy of a verdict stored with a review.
type ModerationRecord struct {
	Allowed        bool
	BlockedReasons []string
	Scores         map[string]float64
	ModelVersion   string
	Message        string
}

type Review struct {
	ID          uint
	TeacherID   uint
	CourseID    uint
	Rating      int
	Description string
	Moderation  ModerationRecord
	CreatedAt   time.Time
}

// NewReview validates rating and description; description is expected to be sanitized already.
func NewReview(teacherID, courseID uint, rating int, description string) (*Review, error) {
	if teacherID == 0 {
		return nil, fmt.Errorf("teacher_id cannot be null")
	}
	if courseID == 0 {
		return nil, fmt.Errorf("course_id cannot be null")
	}
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(description) < MinDescriptionLength {
		return nil, fmt.Errorf("description must be at least %d characters long", MinDescriptionLength)
	}
	return &Review{
		TeacherID:   teacherID,
		CourseID:    courseID,
		Rating:      rating,
		Description: description,
		CreatedAt:   biztime.NowUTC(),
	}, nil
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}
