package handler

import (
	reportapp "github.com/formax/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the office dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get godoc
// @Summary      Office dashboard
// @Description  Month session counts, open pipeline, week agenda, trainer loads and open work
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}
