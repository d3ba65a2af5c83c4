package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const defaultActivityLimit = 20

type TenantController struct {
	tenants repositories.TenantRepository
	leases  repositories.LeaseRepository
}

func NewTenantController(repos *repositories.Repositories) *TenantController {
	return &TenantController{tenants: repos.Tenants, leases: repos.Leases}
}

// GET /api/v1/tenants
func (c *TenantController) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := repositories.TenantQueryOptions{
		QueryOptions:   q.options(),
		Status:         enumPtr(q, "status", models.ParseTenantStatus),
		IncludeDeleted: q.bool("include_deleted"),
	}
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	tenants, err := c.tenants.FindByOwnerWithSearch(r.Context(), ownerID, opts)
	respondList(w, tenants, opts.QueryOptions, err)
}

// GET /api/v1/tenants/{id}
func (c *TenantController) GetHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	t, err := c.tenants.FindWithLeases(r.Context(), ownerID, id)
	respondFound(w, "tenant", t, err)
}

// POST /api/v1/tenants
func (c *TenantController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var input models.TenantInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	t, err := c.tenants.Create(r.Context(), ownerID, input)
	respond(w, http.StatusCreated, t, err)
}

// PATCH /api/v1/tenants/{id}
func (c *TenantController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	_, existing, ok := loadOwned(w, r, "tenant", c.tenants.FindByID)
	if !ok {
		return
	}
	var patch models.TenantUpdate
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	t, err := c.tenants.Update(r.Context(), existing.ID, patch)
	respondFound(w, "tenant", t, err)
}

// DELETE /api/v1/tenants/{id}
func (c *TenantController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	res, err := c.tenants.SoftDelete(r.Context(), ownerID, id)
	respond(w, http.StatusOK, dtos.NewDeleteResponse(res), err)
}

// GET /api/v1/tenants/{id}/leases?history=true
func (c *TenantController) ListLeasesHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	history := q.bool("history")
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	leases, err := c.leases.FindByTenant(r.Context(), ownerID, id, history)
	respond(w, http.StatusOK, nonNil(leases), err)
}

// GET /api/v1/tenants/{id}/activity?limit=
func (c *TenantController) ActivityHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	limit := q.int("limit")
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	items, err := c.tenants.GetActivity(r.Context(), ownerID, id, limit)
	respond(w, http.StatusOK, nonNil(items), err)
}

// GET /api/v1/tenants/stats
func (c *TenantController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	stats, err := c.tenants.GetStats(r.Context(), ownerID)
	respond(w, http.StatusOK, stats, err)
}

// GET /api/v1/tenants/analytics
func (c *TenantController) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
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
	a, err := c.tenants.GetAnalytics(r.Context(), ownerID, opts)
	respond(w, http.StatusOK, a, err)
}
