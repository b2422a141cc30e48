package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/unical-dimes/professors/internal/shared/constants"
)

// Note: no foreign key constraints or associations. Teacher deletion
// removes its courses and reviews in the repository.

type TeacherModel struct {
	ID         uint   `gorm:"primarykey"`
	Name       string `gorm:"not null;size:255;index"`
	Department string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (TeacherModel) TableName() string {
	return constants.TableTeachers
}

type CourseModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"not null;size:255"`
	TeacherID uint   `gorm:"not null;index"`
	CreatedAt time.Time
}

func (CourseModel) TableName() string {
	return constants.TableCourses
}

type ReviewModel struct {
	ID          uint   `gorm:"primarykey"`
	TeacherID   uint   `gorm:"not null;index"`
	CourseID    uint   `gorm:"not null;index"`
	Rating      int    `gorm:"not null"`
	Description string `gorm:"type:text;not null"`
	// Moderation holds the verdict captured when the review was accepted.
	Moderation datatypes.JSON
	CreatedAt  time.Time `gorm:"index"`
}

func (ReviewModel) TableName() string {
	return constants.TableReviews
}
