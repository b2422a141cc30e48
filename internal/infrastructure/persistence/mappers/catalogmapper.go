package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/unical-dimes/professors/internal/domain/catalog"
	"github.com/unical-dimes/professors/internal/infrastructure/persistence/models"
)

// moderationColumn is the JSON shape of reviews.moderation.
type moderationColumn struct {
	Allowed        bool               `json:"allowed"`
	BlockedReasons []string           `json:"blocked_reasons"`
	Scores         map[string]float64 `json:"scores"`
	ModelVersion   string             `json:"model_version"`
	Message        string             `json:"message"`
}

func TeacherToModel(t *catalog.Teacher) *models.TeacherModel {
	return &models.TeacherModel{
		ID:         t.ID,
		Name:       t.Name,
		Department: t.Department,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func TeacherToDomain(m *models.TeacherModel) *catalog.Teacher {
	if m == nil {
		return nil
	}
	return &catalog.Teacher{
		ID:         m.ID,
		Name:       m.Name,
		Department: m.Department,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func CourseToModel(c *catalog.Course) *models.CourseModel {
	return &models.CourseModel{
		ID:        c.ID,
		Name:      c.Name,
		TeacherID: c.TeacherID,
		CreatedAt: c.CreatedAt,
	}
}

func CourseToDomain(m *models.CourseModel) *catalog.Course {
	if m == nil {
		return nil
	}
	return &catalog.Course{
		ID:        m.ID,
		Name:      m.Name,
		TeacherID: m.TeacherID,
		CreatedAt: m.CreatedAt,
	}
}

func ReviewToModel(r *catalog.Review) (*models.ReviewModel, error) {
	reasons := r.Moderation.BlockedReasons
	if reasons == nil {
		reasons = []string{}
	}
	raw, err := json.Marshal(moderationColumn{
		Allowed:        r.Moderation.Allowed,
		BlockedReasons: reasons,
		Scores:         r.Moderation.Scores,
		ModelVersion:   r.Moderation.ModelVersion,
		Message:        r.Moderation.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode moderation record: %w", err)
	}
	return &models.ReviewModel{
		ID:          r.ID,
		TeacherID:   r.TeacherID,
		CourseID:    r.CourseID,
		Rating:      r.Rating,
		Description: r.Description,
		Moderation:  datatypes.JSON(raw),
		CreatedAt:   r.CreatedAt,
	}, nil
}

func ReviewToDomain(m *models.ReviewModel) (*catalog.Review, error) {
	if m == nil {
		return nil, nil
	}
	var col moderationColumn
	if len(m.Moderation) > 0 {
		if err := json.Unmarshal(m.Moderation, &col); err != nil {
			return nil, fmt.Errorf("failed to decode moderation record for review %d: %w", m.ID, err)
		}
	}
	return &catalog.Review{
		ID:          m.ID,
		TeacherID:   m.TeacherID,
		CourseID:    m.CourseID,
		Rating:      m.Rating,
		Description: m.Description,
		Moderation: catalog.ModerationRecord{
			Allowed:        col.Allowed,
			BlockedReasons: col.BlockedReasons,
			Scores:         col.Scores,
			ModelVersion:   col.ModelVersion,
			Message:        col.Message,
		},
		CreatedAt: m.CreatedAt,
	}, nil
}
