package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/services/property-service/internal/services"
	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

const defaultExpiringWithin = 30 * 24 * time.Hour

type LeaseController struct {
	leases  repositories.LeaseRepository
	service services.LeaseService
}

func NewLeaseController(repos *repositories.Repositories, leaseService services.LeaseService) *LeaseController {
	return &LeaseController{leases: repos.Leases, service: leaseService}
}

// GET /api/v1/leases
func (c *LeaseController) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := repositories.LeaseQueryOptions{
		QueryOptions: q.options(),
		PropertyID:   q.uuidPtr("property_id"),
		UnitID:       q.uuidPtr("unit_id"),
		TenantID:     q.uuidPtr("tenant_id"),
		Status:       enumPtr(q, "status", models.ParseLeaseStatus),
		StartFrom:    q.timePtr("start_from"),
		StartTo:      q.timePtr("start_to"),
		EndFrom:      q.timePtr("end_from"),
		EndTo:        q.timePtr("end_to"),
	}
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	leases, err := c.leases.FindByOwnerWithSearch(r.Context(), ownerID, opts)
	respondList(w, leases, opts.QueryOptions, err)
}

// GET /api/v1/properties/{id}/leases
func (c *LeaseController) ListByPropertyHandler(w http.ResponseWriter, r *http.Request) {
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
	leases, err := c.leases.FindByProperty(r.Context(), ownerID, id, opts)
	respondList(w, leases, opts, err)
}

// GET /api/v1/leases/expiring?within=30
func (c *LeaseController) ExpiringHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	within := q.duration("within", defaultExpiringWithin)
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	leases, err := c.leases.FindExpiring(r.Context(), ownerID, within)
	respond(w, http.StatusOK, nonNil(leases), err)
}

// GET /api/v1/leases/{id}
func (c *LeaseController) GetHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	l, err := c.leases.FindWithDetails(r.Context(), ownerID, id)
	respondFound(w, "lease", l, err)
}

// POST /api/v1/leases
func (c *LeaseController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var input models.LeaseInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	l, err := c.leases.Create(r.Context(), ownerID, input)
	respond(w, http.StatusCreated, l, err)
}

// PATCH /api/v1/leases/{id}
func (c *LeaseController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	_, existing, ok := loadOwned(w, r, "lease", c.leases.FindByID)
	if !ok {
		return
	}
	var patch models.LeaseUpdate
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	l, err := c.leases.Update(r.Context(), existing.ID, patch)
	respondFound(w, "lease", l, err)
}

// DELETE /api/v1/leases/{id}
func (c *LeaseController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	res, err := c.leases.SoftDelete(r.Context(), ownerID, id)
	respond(w, http.StatusOK, dtos.NewDeleteResponse(res), err)
}

type leaseAction func(ctx context.Context, ownerID, id uuid.UUID) (*models.Lease, error)

func (c *LeaseController) transition(w http.ResponseWriter, r *http.Request, action leaseAction) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	l, err := action(r.Context(), ownerID, id)
	respond(w, http.StatusOK, l, err)
}

// POST /api/v1/leases/{id}/submit
func (c *LeaseController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.Submit)
}

// POST /api/v1/leases/{id}/withdraw
func (c *LeaseController) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.Withdraw)
}

// POST /api/v1/leases/{id}/activate
func (c *LeaseController) ActivateHandler(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.service.Activate)
}

// POST /api/v1/leases/{id}/terminate
func (c *LeaseController) TerminateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	var input models.TerminateLeaseInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	l, err := c.service.Terminate(r.Context(), ownerID, id, input)
	respond(w, http.StatusOK, l, err)
}

// POST /api/v1/leases/{id}/renew
func (c *LeaseController) RenewHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	var input models.RenewLeaseInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	l, err := c.service.Renew(r.Context(), ownerID, id, input)
	respond(w, http.StatusCreated, l, err)
}

// GET /api/v1/leases/stats
func (c *LeaseController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	stats, err := c.leases.GetStats(r.Context(), ownerID)
	respond(w, http.StatusOK, stats, err)
}

// GET /api/v1/leases/analytics
func (c *LeaseController) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
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
	a, err := c.leases.GetAnalytics(r.Context(), ownerID, opts)
	respond(w, http.StatusOK, a, err)
}

// POST /api/v1/admin/leases/expire
func (c *LeaseController) ExpireDueHandler(w http.ResponseWriter, r *http.Request) {
	n, err := c.service.ExpireDueLeases(r.Context())
	respond(w, http.StatusOK, map[string]int{"expired": n}, err)
}
