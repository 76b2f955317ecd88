package region

import (
	"net/http"

	"npl-dashboard/internal/logger"
	"npl-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegionHandler struct {
	service *RegionService
}

func NewHandler(service *RegionService) *RegionHandler {
	return &RegionHandler{service: service}
}

func (h *RegionHandler) RegisterRoutes(router *gin.RouterGroup) {
	regions := router.Group("/regions")
	{
		regions.GET("/counties", h.Counties)
		regions.GET("/county/:countyfp/tracts", h.CountyTracts)
	}
}

func (h *RegionHandler) Counties(c *gin.Context) {
	summaries, err := h.service.CountySummaries(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build county summaries", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Database error")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"regions": summaries})
}

func (h *RegionHandler) CountyTracts(c *gin.Context) {
	countyfp := c.Param("countyfp")

	summaries, err := h.service.TractSummaries(c.Request.Context(), countyfp)
	if err != nil {
		logger.Error("Failed to build tract summaries",
			zap.String("countyfp", countyfp),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Database error")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"regions": summaries})
}
