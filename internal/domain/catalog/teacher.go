// Package catalog models the teachers, courses and reviews that the
// moderation gate and role checks protect.
package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/unical-dimes/professors/internal/shared/biztime"
)

const maxNameLength = 255

type Teacher struct {
	ID         uint
	Name       string
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewTeacher(name, department string) (*Teacher, error) {
	t := &Teacher{CreatedAt: biztime.NowUTC()}
	t.UpdatedAt = t.CreatedAt
	if err := t.Rename(name, department); err != nil {
		return nil, err
	}
	return t, nil
}

// Rename validates and applies new name and department values.
func (t *Teacher) Rename(name, department string) error {
	name = strings.TrimSpace(name)
	department = strings.TrimSpace(department)
	if err := validateName("teacher name", name); err != nil {
		return err
	}
	if utf8.RuneCountInString(department) > maxNameLength {
		return fmt.Errorf("department too long (max %d characters)", maxNameLength)
	}
	t.Name = name
	t.Department = department
	t.UpdatedAt = biztime.NowUTC()
	return nil
}

// TeacherSummary adds review aggregates to a teacher.
// AverageRating is nil when the teacher has no reviews.
type TeacherSummary struct {
	Teacher
	AverageRating *float64
	ReviewCount   int64
}

func validateName(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return fmt.Errorf("%s too long (max %d characters)", field, maxNameLength)
	}
	return nil
}
