package handler

import (
	"errors"
	"net/http"

	"npl-dashboard/internal/logger"
	"npl-dashboard/internal/middleware"
	"npl-dashboard/internal/tract/model"
	"npl-dashboard/internal/tract/service"
	appErrors "npl-dashboard/pkg/errors"
	"npl-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TractHandler struct {
	service *service.TractService
}

func NewHandler(service *service.TractService) *TractHandler {
	return &TractHandler{service: service}
}

func (h *TractHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/coordinator/county/:countyfp", h.GetCountyCoordinator)
	router.GET("/coordinator/tract/:tractid", h.GetTractCoordinator)
	router.GET("/tract/:tractid", h.GetTract)
}

func (h *TractHandler) GetCountyCoordinator(c *gin.Context) {
	countyfp := c.Param("countyfp")

	email, err := h.service.GetCountyCoordinator(c.Request.Context(), countyfp)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, model.CoordinatorResponse{Coordinator: email})
}

func (h *TractHandler) GetTractCoordinator(c *gin.Context) {
	tractid := c.Param("tractid")

	email, err := h.service.GetTractCoordinator(c.Request.Context(), tractid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, model.CoordinatorResponse{Coordinator: email})
}

func (h *TractHandler) GetTract(c *gin.Context) {
	tractid := c.Param("tractid")

	metrics, err := h.service.GetMetrics(c.Request.Context(), tractid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, model.TractDataResponse{TractData: metrics})
}

// UpdateTract is gated to state/county/tract roles by middleware; the
// service narrows county and tract callers to their own scope.
func (h *TractHandler) UpdateTract(c *gin.Context) {
	var request model.UpdateTractRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.Coordinator != nil {
		request.Coordinator.Email = utils.SanitizeEmail(request.Coordinator.Email)
		request.Coordinator.Name = utils.SanitizeString(request.Coordinator.Name)
	}

	caller := middleware.GetClaims(c)
	if caller == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	response, err := h.service.UpdateMetrics(c.Request.Context(), caller, &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, response)
}

// AssignCountyCoordinator is gated to the state role by middleware.
func (h *TractHandler) AssignCountyCoordinator(c *gin.Context) {
	var request model.AssignCountyCoordinatorRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Email = utils.SanitizeEmail(request.Email)
	request.Name = utils.SanitizeString(request.Name)

	caller := middleware.GetClaims(c)
	if caller == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	if err := h.service.AssignCountyCoordinator(c.Request.Context(), caller, &request); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Coordinator assigned and welcome email sent",
	})
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErrors.ErrDuplicateAccount):
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
