package handler

import (
	"errors"
	"net/http"

	"github.com/khues-restaurant/khues-restaurant-sub000/internal/middleware"
	"github.com/khues-restaurant/khues-restaurant-sub000/internal/model"
	"github.com/khues-restaurant/khues-restaurant-sub000/internal/service"
	"github.com/khues-restaurant/khues-restaurant-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes binds the report endpoints to the gin RouterGroup
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.POST("", middleware.RequireRole("admin", "manager"), h.GenerateReport)
	}
}

// GenerateReport handles POST /api/reports
// @Summary      Generate business reports
// @Description  Buckets orders in the requested date ranges into time periods and returns chart-ready comparison data per category
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.ReportRequest  true  "Report Request"
// @Success      200      {object}  response.Response{data=[]model.ReportResult}
// @Failure      400      {object}  response.Response "No category requested or malformed payload"
// @Failure      401      {object}  response.Response "Unauthorized"
// @Failure      500      {object}  response.Response "Order query failed"
// @Router       /api/reports [post]
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reports, err := h.reportService.GenerateReport(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrNoCategories) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, reports))
}
