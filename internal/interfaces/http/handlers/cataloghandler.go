package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unical-dimes/professors/internal/application/catalog/dto"
	"github.com/unical-dimes/professors/internal/domain/moderation"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/utils"
)

// CatalogHandler serves teachers, courses and reviews. Creates answer 200
// with the stored record, matching the existing clients.
type CatalogHandler struct {
	service CatalogService
	logger  logger.Interface
}

func NewCatalogHandler(service CatalogService, logger logger.Interface) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to list teachers", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", teachers)
}

func (h *CatalogHandler) GetTeacher(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "teacher")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	teacher, err := h.service.GetTeacher(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to get teacher", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", teacher)
}

func (h *CatalogHandler) CreateTeacher(c *gin.Context) {
	var req dto.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	teacher, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "failed to create teacher", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "teacher created", teacher)
}

func (h *CatalogHandler) UpdateTeacher(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "teacher")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	teacher, err := h.service.UpdateTeacher(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, "failed to update teacher", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "teacher updated", teacher)
}

func (h *CatalogHandler) DeleteTeacher(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "teacher")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.DeleteTeacher(c.Request.Context(), id); err != nil {
		h.fail(c, "failed to delete teacher", err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "teacher")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	courses, err := h.service.ListCourses(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to list courses", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", courses)
}

// BrowseCourses lists all courses; skip and limit page through them.
func (h *CatalogHandler) BrowseCourses(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	courses, err := h.service.BrowseCourses(c.Request.Context(), page)
	if err != nil {
		h.fail(c, "failed to list courses", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", courses)
}

func (h *CatalogHandler) GetCourse(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "course")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	course, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to get course", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", course)
}

func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "failed to create course", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "course created", course)
}

func (h *CatalogHandler) ListReviews(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "teacher")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	reviews, err := h.service.ListReviews(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to list reviews", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", reviews)
}

func (h *CatalogHandler) BrowseReviews(c *gin.Context) {
	var page dto.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	reviews, err := h.service.BrowseReviews(c.Request.Context(), page)
	if err != nil {
		h.fail(c, "failed to list reviews", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", reviews)
}

// CreateReview answers 400 with the verdict as data when moderation blocks.
func (h *CatalogHandler) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	review, err := h.service.CreateReview(c.Request.Context(), req)
	if err != nil {
		var blocked *moderation.BlockedError
		if stderrors.As(err, &blocked) {
			utils.ErrorResponseWithData(c, http.StatusBadRequest, err, blocked.Verdict)
			return
		}
		h.fail(c, "failed to create review", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "review created", review)
}

// ModerateReview previews the gate: 200 when allowed, 422 when blocked,
// with the verdict as data either way.
func (h *CatalogHandler) ModerateReview(c *gin.Context) {
	var req dto.ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	verdict, err := h.service.ModerateReview(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "failed to moderate review", err)
		return
	}
	if !verdict.Allowed {
		utils.ErrorResponseWithData(c, http.StatusUnprocessableEntity, moderation.NewBlockedError(*verdict), verdict)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, verdict.Message, verdict)
}

func (h *CatalogHandler) fail(c *gin.Context, msg string, err error) {
	if !errors.IsAppError(err) {
		h.logger.Errorw(msg, "error", err, "path", c.Request.URL.Path)
	}
	utils.ErrorResponseWithError(c, err)
}
