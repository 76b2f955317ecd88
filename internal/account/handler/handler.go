package handler

import (
	"errors"
	"net/http"

	"npl-dashboard/internal/account/model"
	"npl-dashboard/internal/account/service"
	"npl-dashboard/internal/logger"
	"npl-dashboard/internal/middleware"
	appErrors "npl-dashboard/pkg/errors"
	"npl-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
	router.POST("/reset-password", h.SelfResetPassword)
	router.POST("/request-password-reset", h.RequestPasswordReset)
	router.POST("/confirm-password-reset", h.ConfirmPasswordReset)
	router.POST("/force-password-reset", h.ForcePasswordReset)
}

func (h *AccountHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/me", h.Me)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var request model.LoginRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	response, err := h.service.Login(c.Request.Context(), &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, response)
}

// Register creates an account on behalf of a state or county coordinator.
// The role middleware has already gated on role; the service enforces scope.
func (h *AccountHandler) Register(c *gin.Context) {
	var request model.RegisterRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	caller := middleware.GetClaims(c)
	if caller == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	if err := h.service.Register(c.Request.Context(), caller, &request); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, model.SuccessResponse{Success: true})
}

func (h *AccountHandler) SelfResetPassword(c *gin.Context) {
	var request model.SelfResetPasswordRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	if err := h.service.SelfResetPassword(c.Request.Context(), &request); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, model.SuccessResponse{Success: true})
}

func (h *AccountHandler) RequestPasswordReset(c *gin.Context) {
	var request model.RequestPasswordResetRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	if err := h.service.RequestPasswordReset(c.Request.Context(), &request); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, model.SuccessResponse{
		Success: true,
		Message: "If the email exists, a reset code has been sent.",
	})
}

func (h *AccountHandler) ConfirmPasswordReset(c *gin.Context) {
	var request model.ConfirmPasswordResetRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	if err := h.service.ConfirmPasswordReset(c.Request.Context(), &request); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, model.SuccessResponse{
		Success: true,
		Message: "Password reset successfully",
	})
}

func (h *AccountHandler) ForcePasswordReset(c *gin.Context) {
	var request model.ForcePasswordResetRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)

	if err := h.service.ForcePasswordReset(c.Request.Context(), &request); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, model.SuccessResponse{
		Success: true,
		Message: "Password updated successfully",
	})
}

func (h *AccountHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"user": claims})
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrUnauthenticated):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErrors.ErrAccountNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrDuplicateAccount),
		errors.Is(err, appErrors.ErrInvalidOrExpiredCode),
		errors.Is(err, appErrors.ErrInvalidRole):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}

		requestID := middleware.GetRequestID(c)
		logger.Error("Internal server error",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
