package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

type PropertyController struct {
	properties repositories.PropertyRepository
	units      repositories.UnitRepository
}

func NewPropertyController(repos *repositories.Repositories) *PropertyController {
	return &PropertyController{properties: repos.Properties, units: repos.Units}
}

// GET /api/v1/properties
func (c *PropertyController) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := repositories.PropertyQueryOptions{
		QueryOptions: q.options(),
		Status:       enumPtr(q, "status", models.ParsePropertyStatus),
		Type:         enumPtr(q, "type", models.ParsePropertyType),
		City:         q.str("city"),
		Near:         q.near(),
	}
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	props, err := c.properties.FindByOwnerWithSearch(r.Context(), ownerID, opts)
	respondList(w, props, opts.QueryOptions, err)
}

// GET /api/v1/properties/{id}
func (c *PropertyController) GetHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	p, err := c.properties.FindWithUnits(r.Context(), ownerID, id)
	respondFound(w, "property", p, err)
}

// POST /api/v1/properties
func (c *PropertyController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var input models.PropertyInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	p, err := c.properties.Create(r.Context(), ownerID, input)
	respond(w, http.StatusCreated, p, err)
}

// PATCH /api/v1/properties/{id}
func (c *PropertyController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	_, existing, ok := loadOwned(w, r, "property", c.properties.FindByID)
	if !ok {
		return
	}
	var patch models.PropertyUpdate
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	p, err := c.properties.Update(r.Context(), existing.ID, patch)
	respondFound(w, "property", p, err)
}

// DELETE /api/v1/properties/{id}?hard=true
func (c *PropertyController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	hard := q.bool("hard")
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	if hard {
		if err := c.properties.Delete(r.Context(), ownerID, id); err != nil {
			utils.HandleAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	res, err := c.properties.SoftDelete(r.Context(), ownerID, id)
	respond(w, http.StatusOK, dtos.NewDeleteResponse(res), err)
}

// GET /api/v1/properties/{id}/units
func (c *PropertyController) ListUnitsHandler(w http.ResponseWriter, r *http.Request) {
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
	units, err := c.units.FindByProperty(r.Context(), ownerID, id, opts)
	respondList(w, units, opts, err)
}

// GET /api/v1/properties/stats
func (c *PropertyController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	stats, err := c.properties.GetStats(r.Context(), ownerID)
	respond(w, http.StatusOK, stats, err)
}

// GET /api/v1/properties/analytics
func (c *PropertyController) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
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
	a, err := c.properties.GetAnalytics(r.Context(), ownerID, opts)
	respond(w, http.StatusOK, a, err)
}
