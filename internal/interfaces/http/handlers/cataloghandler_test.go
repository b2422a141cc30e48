package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unical-dimes/professors/internal/application/catalog/dto"
	"github.com/unical-dimes/professors/internal/domain/moderation"
	"github.com/unical-dimes/professors/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/unical-dimes/professors/internal/shared/errors"
)

// =====================================================================
// Mock catalog service
// =====================================================================

type mockCatalogService struct {
	teachers []*dto.TeacherResponse
	teacher  *dto.TeacherResponse
	detail   *dto.TeacherDetailResponse
	course   *dto.CourseResponse
	courses  []*dto.CourseResponse
	review   *dto.ReviewResponse
	reviews  []*dto.ReviewResponse
	verdict  *moderation.Verdict
	err      error

	lastTeacherID uint
	lastCourseID  uint
	lastPage      dto.PageRequest
	deleted       []uint
}

func (m *mockCatalogService) ListTeachers(ctx context.Context) ([]*dto.TeacherResponse, error) {
	return m.teachers, m.err
}

func (m *mockCatalogService) GetTeacher(ctx context.Context, id uint) (*dto.TeacherDetailResponse, error) {
	m.lastTeacherID = id
	return m.detail, m.err
}

func (m *mockCatalogService) CreateTeacher(ctx context.Context, req dto.TeacherRequest) (*dto.TeacherResponse, error) {
	return m.teacher, m.err
}

func (m *mockCatalogService) UpdateTeacher(ctx context.Context, id uint, req dto.TeacherRequest) (*dto.TeacherResponse, error) {
	m.lastTeacherID = id
	return m.teacher, m.err
}

func (m *mockCatalogService) DeleteTeacher(ctx context.Context, id uint) error {
	if m.err == nil {
		m.deleted = append(m.deleted, id)
	}
	return m.err
}

func (m *mockCatalogService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	return m.course, m.err
}

func (m *mockCatalogService) ListCourses(ctx context.Context, teacherID uint) ([]*dto.CourseResponse, error) {
	m.lastTeacherID = teacherID
	return m.courses, m.err
}

func (m *mockCatalogService) BrowseCourses(ctx context.Context, page dto.PageRequest) ([]*dto.CourseResponse, error) {
	m.lastPage = page
	return m.courses, m.err
}

func (m *mockCatalogService) GetCourse(ctx context.Context, id uint) (*dto.CourseResponse, error) {
	m.lastCourseID = id
	return m.course, m.err
}

func (m *mockCatalogService) BrowseReviews(ctx context.Context, page dto.PageRequest) ([]*dto.ReviewResponse, error) {
	m.lastPage = page
	return m.reviews, m.err
}

func (m *mockCatalogService) ListReviews(ctx context.Context, teacherID uint) ([]*dto.ReviewResponse, error) {
	m.lastTeacherID = teacherID
	return m.reviews, m.err
}

func (m *mockCatalogService) CreateReview(ctx context.Context, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	return m.review, m.err
}

func (m *mockCatalogService) ModerateReview(ctx context.Context, req dto.ModerateReviewRequest) (*moderation.Verdict, error) {
	return m.verdict, m.err
}

func blockedVerdict() moderation.Verdict {
	return moderation.Verdict{
		Allowed:        false,
		BlockedReasons: []moderation.Category{moderation.CategoryPersonalAttack},
		Scores:         map[moderation.Category]float64{moderation.CategoryPersonalAttack: 0.9, moderation.CategorySafe: 0.1},
		ModelVersion:   "local-heuristic-v1",
		Message:        "Please keep feedback about teaching, not the person.",
	}
}

type verdictEnvelope struct {
	Allowed        bool     `json:"allowed"`
	BlockedReasons []string `json:"blocked_reasons"`
	ModelVersion   string   `json:"model_version"`
}

// =====================================================================
// Teachers
// =====================================================================

func TestCatalogHandler_GetTeacher(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockCatalogService{detail: &dto.TeacherDetailResponse{TeacherResponse: dto.TeacherResponse{ID: 3, Name: "Prof. Rossi"}}}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/api/teachers/3", nil)
		testutil.SetURLParam(c, "id", "3")
		handler.GetTeacher(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(3), svc.lastTeacherID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockCatalogService{err: apperrors.NewSubjectNotFoundError("Teacher")}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/api/teachers/3", nil)
		testutil.SetURLParam(c, "id", "3")
		handler.GetTeacher(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		handler := NewCatalogHandler(&mockCatalogService{}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/api/teachers/x", nil)
		testutil.SetURLParam(c, "id", "x")
		handler.GetTeacher(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCatalogHandler_CreateTeacher(t *testing.T) {
	t.Run("created answers 200", func(t *testing.T) {
		svc := &mockCatalogService{teacher: &dto.TeacherResponse{ID: 1, Name: "Prof. Rossi"}}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/teachers", dto.TeacherRequest{Name: "Prof. Rossi", Department: "DEMACS"})
		handler.CreateTeacher(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("name required", func(t *testing.T) {
		handler := NewCatalogHandler(&mockCatalogService{}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/teachers", map[string]string{"department": "DEMACS"})
		handler.CreateTeacher(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.Contains(t, resp.Error.Details, "name")
	})
}

func TestCatalogHandler_DeleteTeacher(t *testing.T) {
	svc := &mockCatalogService{}
	handler := NewCatalogHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/teachers/5", nil)
	testutil.SetURLParam(c, "id", "5")
	handler.DeleteTeacher(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uint{5}, svc.deleted)
}

func TestCatalogHandler_BrowseCourses(t *testing.T) {
	tests := []struct {
		name      string
		query     map[string]string
		wantCode  int
		wantPage  dto.PageRequest
		wantCalls bool
	}{
		{"defaults", nil, http.StatusOK, dto.PageRequest{}, true},
		{"window", map[string]string{"skip": "20", "limit": "10"}, http.StatusOK, dto.PageRequest{Skip: 20, Limit: 10}, true},
		{"limit above cap", map[string]string{"limit": "101"}, http.StatusBadRequest, dto.PageRequest{}, false},
		{"negative skip", map[string]string{"skip": "-1"}, http.StatusBadRequest, dto.PageRequest{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCatalogService{courses: []*dto.CourseResponse{{ID: 4, Name: "Analisi I", TeacherID: 1}}}
			handler := NewCatalogHandler(svc, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodGet, "/api/courses", nil)
			testutil.SetQueryParams(c, tt.query)
			handler.BrowseCourses(c)

			assert.Equal(t, tt.wantCode, w.Code)
			if !tt.wantCalls {
				return
			}
			assert.Equal(t, tt.wantPage, svc.lastPage)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			var courses []dto.CourseResponse
			require.NoError(t, resp.DecodeData(&courses))
			require.Len(t, courses, 1)
			assert.Equal(t, "Analisi I", courses[0].Name)
		})
	}
}

func TestCatalogHandler_GetCourse(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockCatalogService{course: &dto.CourseResponse{ID: 4, Name: "Analisi I", TeacherID: 1}}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/api/courses/4", nil)
		testutil.SetURLParam(c, "id", "4")
		handler.GetCourse(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(4), svc.lastCourseID)
	})

	t.Run("missing", func(t *testing.T) {
		svc := &mockCatalogService{err: apperrors.NewSubjectNotFoundError("Course")}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/api/courses/99", nil)
		testutil.SetURLParam(c, "id", "99")
		handler.GetCourse(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Course not found")
	})

	t.Run("bad id", func(t *testing.T) {
		handler := NewCatalogHandler(&mockCatalogService{}, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/api/courses/abc", nil)
		testutil.SetURLParam(c, "id", "abc")
		handler.GetCourse(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCatalogHandler_BrowseReviews(t *testing.T) {
	svc := &mockCatalogService{reviews: []*dto.ReviewResponse{{ID: 9, Rating: 5}}}
	handler := NewCatalogHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/reviews", nil)
	testutil.SetQueryParams(c, map[string]string{"skip": "1", "limit": "5"})
	handler.BrowseReviews(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.PageRequest{Skip: 1, Limit: 5}, svc.lastPage)
}

func TestCatalogHandler_ListReviews_InternalError(t *testing.T) {
	svc := &mockCatalogService{err: errors.New("connection refused")}
	handler := NewCatalogHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/teachers/1/reviews", nil)
	testutil.SetURLParam(c, "id", "1")
	handler.ListReviews(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

// =====================================================================
// Reviews
// =====================================================================

func TestCatalogHandler_CreateReview(t *testing.T) {
	valid := dto.CreateReviewRequest{TeacherID: 1, CourseID: 2, Rating: 4, Description: "Clear explanations and fair grading"}

	t.Run("stored", func(t *testing.T) {
		svc := &mockCatalogService{review: &dto.ReviewResponse{ID: 9, ModerationAllowed: true}}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/reviews", valid)
		handler.CreateReview(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("blocked carries the verdict", func(t *testing.T) {
		svc := &mockCatalogService{err: moderation.NewBlockedError(blockedVerdict())}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/reviews", valid)
		handler.CreateReview(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.Equal(t, string(apperrors.ErrorTypeModerationBlocked), resp.Error.Type)

		var v verdictEnvelope
		require.NoError(t, resp.DecodeData(&v))
		assert.False(t, v.Allowed)
		assert.Equal(t, []string{"PERSONAL_ATTACK"}, v.BlockedReasons)
	})

	tests := []struct {
		name string
		body interface{}
	}{
		{"rating too high", dto.CreateReviewRequest{TeacherID: 1, CourseID: 2, Rating: 6, Description: valid.Description}},
		{"rating zero", dto.CreateReviewRequest{TeacherID: 1, CourseID: 2, Rating: 0, Description: valid.Description}},
		{"description too short", dto.CreateReviewRequest{TeacherID: 1, CourseID: 2, Rating: 3, Description: "short"}},
		{"missing course", map[string]interface{}{"teacher_id": 1, "rating": 3, "description": valid.Description}},
		{"rating as string", map[string]interface{}{"teacher_id": 1, "course_id": 2, "rating": "five", "description": valid.Description}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCatalogHandler(&mockCatalogService{}, testutil.NewMockLogger())

			c, w := testutil.NewTestContext(http.MethodPost, "/api/reviews", tt.body)
			handler.CreateReview(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCatalogHandler_ModerateReview(t *testing.T) {
	req := dto.ModerateReviewRequest{TeacherID: 1, CourseID: 2, Description: "anything"}

	t.Run("allowed", func(t *testing.T) {
		svc := &mockCatalogService{verdict: &moderation.Verdict{Allowed: true, Message: "Looks good.", ModelVersion: "local-heuristic-v1"}}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/reviews/moderate", req)
		handler.ModerateReview(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Looks good.", resp.Message)
	})

	t.Run("blocked answers 422", func(t *testing.T) {
		v := blockedVerdict()
		svc := &mockCatalogService{verdict: &v}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/reviews/moderate", req)
		handler.ModerateReview(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, v.Message, resp.Message)

		var got verdictEnvelope
		require.NoError(t, resp.DecodeData(&got))
		assert.Equal(t, "local-heuristic-v1", got.ModelVersion)
	})

	t.Run("unknown subject", func(t *testing.T) {
		svc := &mockCatalogService{err: apperrors.NewSubjectNotFoundError("Course")}
		handler := NewCatalogHandler(svc, testutil.NewMockLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/api/reviews/moderate", req)
		handler.ModerateReview(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
