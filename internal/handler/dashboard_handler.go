package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahashon-source/globalship-backend/internal/middleware"
	"github.com/nahashon-source/globalship-backend/internal/service"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the authenticated user's dashboard
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	dashboard, err := h.dashboardService.UserStats(c.Request.Context(), identity.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
