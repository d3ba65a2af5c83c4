package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/services/property-service/internal/services"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

type DashboardController struct {
	service services.DashboardService
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{service: dashboardService}
}

// GET /api/v1/dashboard?timeframe=90d&property_id=
func (c *DashboardController) GetHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := q.analytics()
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	d, err := c.service.GetDashboard(r.Context(), ownerID, opts)
	respond(w, http.StatusOK, d, err)
}
