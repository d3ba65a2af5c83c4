package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

// SubscriptionController serves the caller's own billing subscriptions.
type SubscriptionController struct {
	subscriptions repositories.SubscriptionRepository
}

func NewSubscriptionController(repos *repositories.Repositories) *SubscriptionController {
	return &SubscriptionController{subscriptions: repos.Subscriptions}
}

// GET /api/v1/subscriptions
func (c *SubscriptionController) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := q.options()
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	subs, err := c.subscriptions.FindByOwnerWithSearch(r.Context(), userID, opts)
	respondList(w, dtos.SerializeSubscriptions(subs), opts, err)
}

// GET /api/v1/subscriptions/current
func (c *SubscriptionController) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	sub, err := c.subscriptions.FindByUserID(r.Context(), userID)
	respondAs(w, http.StatusOK, "subscription", sub, err, dtos.SerializeSubscription)
}

// GET /api/v1/subscriptions/{id}
func (c *SubscriptionController) GetHandler(w http.ResponseWriter, r *http.Request) {
	_, sub, ok := loadOwned(w, r, "subscription", c.subscriptions.FindByID)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SerializeSubscription(sub))
}

// POST /api/v1/subscriptions
func (c *SubscriptionController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var input models.SubscriptionInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	sub, err := c.subscriptions.Create(r.Context(), userID, input)
	respondAs(w, http.StatusCreated, "subscription", sub, err, dtos.SerializeSubscription)
}

// PATCH /api/v1/subscriptions/{id}
func (c *SubscriptionController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	_, existing, ok := loadOwned(w, r, "subscription", c.subscriptions.FindByID)
	if !ok {
		return
	}
	var patch models.SubscriptionUpdate
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	sub, err := c.subscriptions.Update(r.Context(), existing.ID, patch)
	respondAs(w, http.StatusOK, "subscription", sub, err, dtos.SerializeSubscription)
}

// POST /api/v1/subscriptions/{id}/cancel?at_period_end=true
func (c *SubscriptionController) CancelHandler(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	atPeriodEnd := q.bool("at_period_end")
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	sub, err := c.subscriptions.Cancel(r.Context(), userID, id, atPeriodEnd)
	respondAs(w, http.StatusOK, "subscription", sub, err, dtos.SerializeSubscription)
}

// POST /api/v1/subscriptions/{id}/usage
func (c *SubscriptionController) RecordUsageHandler(w http.ResponseWriter, r *http.Request) {
	_, sub, ok := loadOwned(w, r, "subscription", c.subscriptions.FindByID)
	if !ok {
		return
	}
	var input models.UsageMetricInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	m, err := c.subscriptions.RecordUsage(r.Context(), sub.ID, input)
	respondAs(w, http.StatusCreated, "subscription", m, err, dtos.SerializeUsageMetric)
}

// GET /api/v1/subscriptions/{id}/usage?metric=
func (c *SubscriptionController) ListUsageHandler(w http.ResponseWriter, r *http.Request) {
	_, sub, ok := loadOwned(w, r, "subscription", c.subscriptions.FindByID)
	if !ok {
		return
	}
	usage, err := c.subscriptions.ListUsage(r.Context(), sub.ID, newQuery(r).str("metric"))
	respond(w, http.StatusOK, dtos.SerializeUsageMetrics(usage), err)
}

// GET /api/v1/subscriptions/stats
func (c *SubscriptionController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	stats, err := c.subscriptions.GetStats(r.Context(), userID)
	respond(w, http.StatusOK, stats, err)
}
