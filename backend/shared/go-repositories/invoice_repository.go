package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-analytics"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

// InvoiceRepository stores customer invoices. Unlike the property domains,
// Update on a missing invoice returns *NotFoundError.
type InvoiceRepository interface {
	Repository[models.CustomerInvoice, models.CustomerInvoiceInput, models.CustomerInvoiceUpdate, InvoiceQueryOptions]

	FindByNumber(ctx context.Context, ownerID uuid.UUID, number string) (*models.CustomerInvoice, error)
	MarkPaid(ctx context.Context, ownerID, id uuid.UUID) (*models.CustomerInvoice, error)
	Void(ctx context.Context, ownerID, id uuid.UUID) (*models.CustomerInvoice, error)
	// Delete removes a DRAFT invoice. Issued invoices are voided instead.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	GetStats(ctx context.Context, ownerID uuid.UUID) (*models.InvoiceStats, error)
}

type invoiceRepo struct {
	*env
}

func NewInvoiceRepository(s store.Store, opts ...Option) InvoiceRepository {
	return &invoiceRepo{env: newEnv(s, opts...)}
}

func indexInvoice(i *models.CustomerInvoice) ([]string, *uniqueKey) {
	var refs []string
	if i.TenantID != nil {
		refs = append(refs, store.Ref(refTenant, *i.TenantID))
	}
	if i.LeaseID != nil {
		refs = append(refs, store.Ref(refLease, *i.LeaseID))
	}
	return refs, &uniqueKey{Field: "invoice_number", Value: i.InvoiceNumber, Scope: i.OwnerID}
}

var invoiceList = listSpec[*models.CustomerInvoice]{
	searchText: func(i *models.CustomerInvoice) []string {
		return []string{i.InvoiceNumber, i.CustomerName, i.CustomerEmail, i.Notes}
	},
	sortKeys: map[string]compareFunc[*models.CustomerInvoice]{
		"invoiceNumber": byString(func(i *models.CustomerInvoice) string { return i.InvoiceNumber }),
		"customerName":  byString(func(i *models.CustomerInvoice) string { return i.CustomerName }),
		"total":         byNumber(func(i *models.CustomerInvoice) float64 { return i.Total }),
		"issueDate":     byTime(func(i *models.CustomerInvoice) time.Time { return i.IssueDate }),
		"dueDate":       byTime(func(i *models.CustomerInvoice) time.Time { return i.DueDate }),
		"status":        byString(func(i *models.CustomerInvoice) string { return string(i.Status) }),
	},
}

// invoice numbers are random; a clash is retried with a fresh one
const invoiceNumberAttempts = 3

func (r *invoiceRepo) FindByOwnerWithSearch(ctx context.Context, ownerID uuid.UUID, opts InvoiceQueryOptions) ([]*models.CustomerInvoice, error) {
	invoices, err := r.invoices.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	email := utils.NormalizeEmail(opts.CustomerEmail)
	invoices = keep(invoices, func(i *models.CustomerInvoice) bool {
		return ptrEq(opts.Status, i.Status) &&
			(email == "" || strings.EqualFold(i.CustomerEmail, email)) &&
			inRange(i.DueDate, opts.DueFrom, opts.DueTo)
	})
	return paginate(invoices, opts.QueryOptions, invoiceList), nil
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerInvoice, error) {
	return r.invoices.get(ctx, id, false)
}

func (r *invoiceRepo) FindByNumber(ctx context.Context, ownerID uuid.UUID, number string) (*models.CustomerInvoice, error) {
	return r.invoices.findUnique(ctx, uniqueKey{Field: "invoice_number", Value: number, Scope: ownerID})
}

func (r *invoiceRepo) Create(ctx context.Context, ownerID uuid.UUID, input models.CustomerInvoiceInput) (*models.CustomerInvoice, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := validateInput(input, input.Metadata); err != nil {
		return nil, err
	}
	if err := checkDue(input.IssueDate, input.DueDate); err != nil {
		return nil, err
	}

	inv := &models.CustomerInvoice{ID: uuid.New(), OwnerID: ownerID, CustomerInvoiceFields: input.CustomerInvoiceFields}
	inv.Metadata = input.Metadata.Clone()
	inv.LineItems = append([]models.InvoiceLineItem(nil), input.LineItems...)
	inv.CustomerEmail = utils.NormalizeEmail(inv.CustomerEmail)
	inv.InvoiceNumber = strings.TrimSpace(inv.InvoiceNumber)
	inv.Currency = strings.ToUpper(inv.Currency)
	if inv.Currency == "" {
		inv.Currency = utils.DefaultCurrency
	}
	switch inv.Status {
	case "":
		inv.Status = models.InvoiceStatusDraft
	case models.InvoiceStatusDraft, models.InvoiceStatusOpen:
	default:
		return nil, invalid("status", CodeInvalidTransition, "new invoices start as DRAFT or OPEN")
	}
	inv.DueDate = utils.NextBusinessDay(inv.DueDate)
	inv.RecalculateTotals()

	if inv.InvoiceNumber != "" {
		return r.invoices.insert(ctx, inv)
	}
	stamp := inv.IssueDate.UTC().Format("20060102")
	var err error
	for range invoiceNumberAttempts {
		inv.InvoiceNumber = utils.NewInvoiceNumber(stamp)
		var created *models.CustomerInvoice
		created, err = r.invoices.insert(ctx, inv)
		if !errors.Is(err, ErrDuplicate) {
			return created, err
		}
		utils.Logger.WithField("invoice_number", inv.InvoiceNumber).Warn("Generated invoice number clashed, retrying")
	}
	return nil, err
}

func (r *invoiceRepo) Update(ctx context.Context, id uuid.UUID, patch models.CustomerInvoiceUpdate) (*models.CustomerInvoice, error) {
	if err := validateInput(patch, patch.Metadata); err != nil {
		return nil, err
	}
	return r.invoices.mutate(ctx, id, func(inv *models.CustomerInvoice) error {
		if inv.Status.IsSettled() {
			return invalid("status", CodeInvalidTransition, fmt.Sprintf("invoice is %s and cannot be modified", inv.Status))
		}
		from := inv.Status
		patch.ApplyTo(inv)
		if inv.Status != from {
			if !from.CanTransitionTo(inv.Status) {
				return invalidTransition(from, inv.Status)
			}
			r.stampStatus(inv)
		}
		if patch.CustomerEmail != nil {
			inv.CustomerEmail = utils.NormalizeEmail(inv.CustomerEmail)
		}
		if patch.Currency != nil {
			inv.Currency = strings.ToUpper(inv.Currency)
		}
		if patch.DueDate != nil {
			inv.DueDate = utils.NextBusinessDay(inv.DueDate)
		}
		return checkDue(inv.IssueDate, inv.DueDate)
	})
}

func (r *invoiceRepo) MarkPaid(ctx context.Context, ownerID, id uuid.UUID) (*models.CustomerInvoice, error) {
	return r.transition(ctx, ownerID, id, models.InvoiceStatusPaid)
}

func (r *invoiceRepo) Void(ctx context.Context, ownerID, id uuid.UUID) (*models.CustomerInvoice, error) {
	return r.transition(ctx, ownerID, id, models.InvoiceStatusVoid)
}

func (r *invoiceRepo) transition(ctx context.Context, ownerID, id uuid.UUID, next models.InvoiceStatus) (*models.CustomerInvoice, error) {
	return r.invoices.mutate(ctx, id, func(inv *models.CustomerInvoice) error {
		if inv.OwnerID != ownerID {
			return r.invoices.notFound(id)
		}
		if !inv.Status.CanTransitionTo(next) {
			return invalidTransition(inv.Status, next)
		}
		inv.Status = next
		r.stampStatus(inv)
		return nil
	})
}

func (r *invoiceRepo) stampStatus(inv *models.CustomerInvoice) {
	now := r.now()
	switch inv.Status {
	case models.InvoiceStatusPaid:
		inv.PaidAt = &now
	case models.InvoiceStatusVoid:
		inv.VoidedAt = &now
	}
}

func (r *invoiceRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	inv, err := r.invoices.getOwned(ctx, ownerID, id, false)
	if err != nil {
		return err
	}
	if inv == nil {
		return r.invoices.notFound(id)
	}
	if inv.Status != models.InvoiceStatusDraft {
		return invalid("status", CodeInvalidTransition, fmt.Sprintf("only DRAFT invoices can be deleted, this one is %s", inv.Status))
	}
	return r.invoices.hardDelete(ctx, ownerID, id)
}

func (r *invoiceRepo) GetStats(ctx context.Context, ownerID uuid.UUID) (*models.InvoiceStats, error) {
	invoices, err := r.invoices.listByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	stats := analytics.InvoiceStats(invoices, r.now())
	return &stats, nil
}

// checkDue allows a due date on the issue date but not before it.
func checkDue(issue, due time.Time) error {
	if due.Before(issue) {
		return invalid("due_date", CodeInvalidRange, "due_date must not be before issue_date")
	}
	return nil
}
