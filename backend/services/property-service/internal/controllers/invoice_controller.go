package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/poofware/mono-repo/backend/shared/go-dtos"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

type InvoiceController struct {
	invoices repositories.InvoiceRepository
}

func NewInvoiceController(repos *repositories.Repositories) *InvoiceController {
	return &InvoiceController{invoices: repos.Invoices}
}

// GET /api/v1/invoices
func (c *InvoiceController) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	opts := repositories.InvoiceQueryOptions{
		QueryOptions:  q.options(),
		Status:        enumPtr(q, "status", models.ParseInvoiceStatus),
		CustomerEmail: q.str("customer_email"),
		DueFrom:       q.timePtr("due_from"),
		DueTo:         q.timePtr("due_to"),
	}
	if q.err != nil {
		utils.HandleAppError(w, q.err)
		return
	}
	invoices, err := c.invoices.FindByOwnerWithSearch(r.Context(), ownerID, opts)
	respondList(w, dtos.SerializeInvoices(invoices), opts.QueryOptions, err)
}

// GET /api/v1/invoices/{id}
func (c *InvoiceController) GetHandler(w http.ResponseWriter, r *http.Request) {
	_, inv, ok := loadOwned(w, r, "invoice", c.invoices.FindByID)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SerializeInvoice(inv))
}

// GET /api/v1/invoices/number/{number}
func (c *InvoiceController) GetByNumberHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	inv, err := c.invoices.FindByNumber(r.Context(), ownerID, mux.Vars(r)["number"])
	respondAs(w, http.StatusOK, "invoice", inv, err, dtos.SerializeInvoice)
}

// POST /api/v1/invoices
func (c *InvoiceController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var input models.CustomerInvoiceInput
	if !decodeJSON(w, r, &input, false) {
		return
	}
	inv, err := c.invoices.Create(r.Context(), ownerID, input)
	respondAs(w, http.StatusCreated, "invoice", inv, err, dtos.SerializeInvoice)
}

// PATCH /api/v1/invoices/{id}
func (c *InvoiceController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	_, existing, ok := loadOwned(w, r, "invoice", c.invoices.FindByID)
	if !ok {
		return
	}
	var patch models.CustomerInvoiceUpdate
	if !decodeJSON(w, r, &patch, false) {
		return
	}
	inv, err := c.invoices.Update(r.Context(), existing.ID, patch)
	respondAs(w, http.StatusOK, "invoice", inv, err, dtos.SerializeInvoice)
}

// POST /api/v1/invoices/{id}/pay
func (c *InvoiceController) MarkPaidHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	inv, err := c.invoices.MarkPaid(r.Context(), ownerID, id)
	respondAs(w, http.StatusOK, "invoice", inv, err, dtos.SerializeInvoice)
}

// POST /api/v1/invoices/{id}/void
func (c *InvoiceController) VoidHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	inv, err := c.invoices.Void(r.Context(), ownerID, id)
	respondAs(w, http.StatusOK, "invoice", inv, err, dtos.SerializeInvoice)
}

// DELETE /api/v1/invoices/{id}
func (c *InvoiceController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}
	if err := c.invoices.Delete(r.Context(), ownerID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/invoices/stats
func (c *InvoiceController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	stats, err := c.invoices.GetStats(r.Context(), ownerID)
	respond(w, http.StatusOK, stats, err)
}
