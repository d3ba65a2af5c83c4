package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

type UnitController struct {
	units  repositories.UnitRepository
	leases repositories.LeaseRepository
}

func NewUnitController(repos *repositories.Repositories) *UnitController {
	return &UnitController{units: repos.Units, leases: repos.Leases}
}

type unitStatusRequest struct {
	Status models.UnitStatus `json:"status"`
}

// GET /api/v1/units
func (c *UnitController) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := repositories.UnitQueryOptions{
		QueryOptions: q.options(),
		PropertyID:   q.uuidPtr("property_id"),
		Status:       enumPtr(q, "status", models.ParseUnitStatus),
		MinBedrooms:  q.intPtr("min_bedrooms"),
		MaxRent:      q.floatPtr("max_rent"),
	}
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	units, err := c.units.FindByOwnerWithSearch(r.Context(), ownerID, opts)
	respondList(w, units, opts.QueryOptions, err)
}

// GET /api/v1/units/{id}
func (c *UnitController) GetHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	u, err := c.units.FindWithDetails(r.Context(), ownerID, id)
	respondFound(w, "unit", u, err)
}

// POST /api/v1/units
func (c *UnitController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var input models.UnitInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	u, err := c.units.Create(r.Context(), ownerID, input)
	respond(w, http.StatusCreated, u, err)
}

// PATCH /api/v1/units/{id}
func (c *UnitController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	_, existing, ok := loadOwned(w, r, "unit", c.units.FindByID)
	if !ok {
		return
	}
	var patch models.UnitUpdate
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	u, err := c.units.Update(r.Context(), existing.ID, patch)
	respondFound(w, "unit", u, err)
}

// PUT /api/v1/units/{id}/status
func (c *UnitController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	_, existing, ok := loadOwned(w, r, "unit", c.units.FindByID)
	if !ok {
		return
	}
	var req unitStatusRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	u, err := c.units.UpdateStatus(r.Context(), existing.ID, req.Status)
	respondFound(w, "unit", u, err)
}

// DELETE /api/v1/units/{id}
func (c *UnitController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	if err := c.units.Delete(r.Context(), ownerID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/units/{id}/leases
func (c *UnitController) ListLeasesHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	leases, err := c.leases.FindByUnit(r.Context(), ownerID, id)
	respond(w, http.StatusOK, nonNil(leases), err)
}

// GET /api/v1/units/stats?property_id=
func (c *UnitController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	propertyID := q.uuidPtr("property_id")
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	stats, err := c.units.GetStats(r.Context(), ownerID, propertyID)
	respond(w, http.StatusOK, stats, err)
}
