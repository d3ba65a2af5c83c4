package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

type MaintenanceController struct {
	requests repositories.MaintenanceRepository
}

func NewMaintenanceController(repos *repositories.Repositories) *MaintenanceController {
	return &MaintenanceController{requests: repos.Maintenance}
}

// GET /api/v1/maintenance
func (c *MaintenanceController) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := repositories.MaintenanceQueryOptions{
		QueryOptions: q.options(),
		PropertyID:   q.uuidPtr("property_id"),
		UnitID:       q.uuidPtr("unit_id"),
		TenantID:     q.uuidPtr("tenant_id"),
		Status:       enumPtr(q, "status", models.ParseMaintenanceStatus),
		Priority:     enumPtr(q, "priority", models.ParsePriority),
		Category:     enumPtr(q, "category", models.ParseMaintenanceCategory),
		AssignedTo:   q.str("assigned_to"),
	}
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	reqs, err := c.requests.FindByOwnerWithSearch(r.Context(), ownerID, opts)
	respondList(w, reqs, opts.QueryOptions, err)
}

// GET /api/v1/properties/{id}/maintenance
func (c *MaintenanceController) ListByPropertyHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := q.options()
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	reqs, err := c.requests.FindByProperty(r.Context(), ownerID, id, opts)
	respondList(w, reqs, opts, err)
}

// GET /api/v1/maintenance/{id}
func (c *MaintenanceController) GetHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	m, err := c.requests.FindWithDetails(r.Context(), ownerID, id)
	respondFound(w, "maintenance request", m, err)
}

// POST /api/v1/maintenance
func (c *MaintenanceController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var input models.MaintenanceRequestInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	m, err := c.requests.Create(r.Context(), ownerID, input)
	respond(w, http.StatusCreated, m, err)
}

// PATCH /api/v1/maintenance/{id}
func (c *MaintenanceController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	_, existing, ok := loadOwned(w, r, "maintenance request", c.requests.FindByID)
	if !ok {
		return
	}
	var patch models.MaintenanceRequestUpdate
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	m, err := c.requests.Update(r.Context(), existing.ID, patch)
	respondFound(w, "maintenance request", m, err)
}

// DELETE /api/v1/maintenance/{id}
func (c *MaintenanceController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	res, err := c.requests.SoftDelete(r.Context(), ownerID, id)
	respond(w, http.StatusOK, dtos.NewDeleteResponse(res), err)
}

// POST /api/v1/maintenance/{id}/assign
func (c *MaintenanceController) AssignHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	var input models.AssignMaintenanceInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	m, err := c.requests.Assign(r.Context(), ownerID, id, input)
	respond(w, http.StatusOK, m, err)
}

// POST /api/v1/maintenance/{id}/work-log
func (c *MaintenanceController) WorkLogHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	var input models.WorkLogInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	m, err := c.requests.AddWorkLog(r.Context(), ownerID, id, input)
	respond(w, http.StatusOK, m, err)
}

// POST /api/v1/maintenance/{id}/complete
func (c *MaintenanceController) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	var input models.CompleteMaintenanceInput
	if !decodeJSON(w, r, &input, true) {
		return
	}
	m, err := c.requests.Complete(r.Context(), ownerID, id, input)
	respond(w, http.StatusOK, m, err)
}

// POST /api/v1/maintenance/{id}/cancel
func (c *MaintenanceController) CancelHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	m, err := c.requests.Cancel(r.Context(), ownerID, id)
	respond(w, http.StatusOK, m, err)
}

// GET /api/v1/maintenance/stats
func (c *MaintenanceController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	stats, err := c.requests.GetStats(r.Context(), ownerID)
	respond(w, http.StatusOK, stats, err)
}

// GET /api/v1/maintenance/analytics
func (c *MaintenanceController) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
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
	a, err := c.requests.GetAnalytics(r.Context(), ownerID, opts)
	respond(w, http.StatusOK, a, err)
}
