package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unical-dimes/professors/internal/application/admin/dto"
	"github.com/unical-dimes/professors/internal/application/admin/usecases"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/utils"
)

// AdminHandler serves role and account administration.
type AdminHandler struct {
	listRolesUC  listRolesUseCase
	listUsersUC  listUsersUseCase
	updateUserUC updateUserUseCase
	logger       logger.Interface
}

func NewAdminHandler(
	listRolesUC listRolesUseCase,
	listUsersUC listUsersUseCase,
	updateUserUC updateUserUseCase,
	logger logger.Interface,
) *AdminHandler {
	return &AdminHandler{
		listRolesUC:  listRolesUC,
		listUsersUC:  listUsersUC,
		updateUserUC: updateUserUC,
		logger:       logger,
	}
}

func (h *AdminHandler) ListRoles(c *gin.Context) {
	roles, err := h.listRolesUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", roles)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	users, err := h.listUsersUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", users)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := utils.ParseIDParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	updated, err := h.updateUserUC.Execute(c.Request.Context(), usecases.UpdateUserCommand{
		UserID:            userID,
		UpdateUserRequest: req,
	})
	if err != nil {
		if !errors.IsAppError(err) {
			h.logger.Errorw("failed to update user", "error", err, "user_id", userID)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("user updated by admin", "user_id", userID, "roles", updated.Roles, "is_active", updated.IsActive)
	utils.SuccessResponse(c, http.StatusOK, "user updated", updated)
}
