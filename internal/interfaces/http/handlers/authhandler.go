package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unical-dimes/professors/internal/application/user/dto"
	"github.com/unical-dimes/professors/internal/domain/user"
	"github.com/unical-dimes/professors/internal/interfaces/http/middleware"
	"github.com/unical-dimes/professors/internal/shared/constants"
	"github.com/unical-dimes/professors/internal/shared/errors"
	"github.com/unical-dimes/professors/internal/shared/logger"
	"github.com/unical-dimes/professors/internal/shared/utils"
)

type AuthHandler struct {
	service AuthService
	logger  logger.Interface
}

func NewAuthHandler(service AuthService, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.logFailure("registration failed", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, created, "registration successful")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	meta := user.ClientMetadata{
		UserAgent: c.GetHeader(constants.HeaderUserAgent),
		IPAddress: c.ClientIP(),
	}
	tokens, err := h.service.Login(c.Request.Context(), req, meta)
	if err != nil {
		h.logFailure("login failed", err, "email", utils.MaskEmail(req.Email))
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", tokens)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		h.logFailure("token refresh failed", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "token refreshed", tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.service.Logout(c.Request.Context(), req); err != nil {
		h.logFailure("logout failed", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// Me returns the account behind the access token.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthenticatedError(constants.ErrMsgMissingCredentials))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ToUserResponse(identity.User))
}

func (h *AuthHandler) logFailure(msg string, err error, keysAndValues ...any) {
	args := append([]any{"error", err}, keysAndValues...)
	switch {
	case !errors.IsAppError(err):
		h.logger.Errorw(msg, args...)
	case errors.IsSecurityEvent(err):
		h.logger.Warnw(msg, args...)
	case errors.ShouldLogAuthError(err):
		h.logger.Infow(msg, args...)
	}
}
