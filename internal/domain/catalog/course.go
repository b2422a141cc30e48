package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/unical-dimes/professors/internal/shared/biztime"
)

type Course struct {
	ID        uint
	Name      string
	TeacherID uint
	CreatedAt time.Time
}

func NewCourse(name string, teacherID uint) (*Course, error) {
	name = strings.TrimSpace(name)
	if err := validateName("course name", name); err != nil {
		return nil, err
	}
	if teacherID == 0 {
		return nil, fmt.Errorf("teacher_id cannot be null")
	}
	return &Course{Name: name, TeacherID: teacherID, CreatedAt: biztime.NowUTC()}, nil
}

// BelongsTo reports whether the course is taught by the given teacher.
func (c *Course) BelongsTo(teacherID uint) bool {
	return c.TeacherID == teacherID
}
