package dtos

import (
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
)

// CustomerInvoice is the transport form of models.CustomerInvoice. Line
// items carry no dates and are shared with the model. They are always an
// array on the wire; an empty array maps back to nil.
type CustomerInvoice struct {
	ID            uuid.UUID                `json:"id"`
	OwnerID       uuid.UUID                `json:"owner_id"`
	InvoiceNumber string                   `json:"invoice_number"`
	CustomerName  string                   `json:"customer_name"`
	CustomerEmail string                   `json:"customer_email"`
	TenantID      *uuid.UUID               `json:"tenant_id"`
	LeaseID       *uuid.UUID               `json:"lease_id"`
	Status        models.InvoiceStatus     `json:"status"`
	Currency      string                   `json:"currency"`
	IssueDate     string                   `json:"issue_date"`
	DueDate       string                   `json:"due_date"`
	LineItems     []models.InvoiceLineItem `json:"line_items"`
	TaxRate       float64                  `json:"tax_rate"`
	Subtotal      float64                  `json:"subtotal"`
	TaxAmount     float64                  `json:"tax_amount"`
	Total         float64                  `json:"total"`
	Notes         string                   `json:"notes"`
	PaidAt        *string                  `json:"paid_at"`
	VoidedAt      *string                  `json:"voided_at"`
	Metadata      models.Metadata          `json:"metadata"`
	CreatedAt     string                   `json:"created_at"`
	UpdatedAt     string                   `json:"updated_at"`
	RowVersion    int64                    `json:"row_version"`
}

func SerializeInvoice(i *models.CustomerInvoice) CustomerInvoice {
	return CustomerInvoice{
		ID:            i.ID,
		OwnerID:       i.OwnerID,
		InvoiceNumber: i.InvoiceNumber,
		CustomerName:  i.CustomerName,
		CustomerEmail: i.CustomerEmail,
		TenantID:      i.TenantID,
		LeaseID:       i.LeaseID,
		Status:        i.Status,
		Currency:      i.Currency,
		IssueDate:     FormatTime(i.IssueDate),
		DueDate:       FormatTime(i.DueDate),
		LineItems:     nonNil(slices.Clone(i.LineItems)),
		TaxRate:       i.TaxRate,
		Subtotal:      i.Subtotal,
		TaxAmount:     i.TaxAmount,
		Total:         i.Total,
		Notes:         i.Notes,
		PaidAt:        FormatTimePtr(i.PaidAt),
		VoidedAt:      FormatTimePtr(i.VoidedAt),
		Metadata:      i.Metadata.Clone(),
		CreatedAt:     FormatTime(i.CreatedAt),
		UpdatedAt:     FormatTime(i.UpdatedAt),
		RowVersion:    i.RowVersion,
	}
}

func DeserializeInvoice(d CustomerInvoice) (*models.CustomerInvoice, error) {
	issue, err1 := ParseTime("issue_date", d.IssueDate)
	due, err2 := ParseTime("due_date", d.DueDate)
	paidAt, err3 := ParseTimePtr("paid_at", d.PaidAt)
	voidedAt, err4 := ParseTimePtr("voided_at", d.VoidedAt)
	created, err5 := ParseTime("created_at", d.CreatedAt)
	updated, err6 := ParseTime("updated_at", d.UpdatedAt)
	if err := errors.Join(err1, err2, err3, err4, err5, err6); err != nil {
		return nil, err
	}

	return &models.CustomerInvoice{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Subtotal:  d.Subtotal,
		TaxAmount: d.TaxAmount,
		Total:     d.Total,
		PaidAt:    paidAt,
		VoidedAt:  voidedAt,
		CustomerInvoiceFields: models.CustomerInvoiceFields{
			InvoiceNumber: d.InvoiceNumber,
			CustomerName:  d.CustomerName,
			CustomerEmail: d.CustomerEmail,
			TenantID:      d.TenantID,
			LeaseID:       d.LeaseID,
			Status:        d.Status,
			Currency:      d.Currency,
			IssueDate:     issue,
			DueDate:       due,
			LineItems:     lineItems(d.LineItems),
			TaxRate:       d.TaxRate,
			Notes:         d.Notes,
			Metadata:      d.Metadata.Clone(),
		},
		Timestamps: models.Timestamps{CreatedAt: created, UpdatedAt: updated},
		Versioned:  models.Versioned{RowVersion: d.RowVersion},
	}, nil
}

func lineItems(items []models.InvoiceLineItem) []models.InvoiceLineItem {
	if len(items) == 0 {
		return nil
	}
	return slices.Clone(items)
}

func SerializeInvoices(invoices []*models.CustomerInvoice) []CustomerInvoice {
	return serializeAll(invoices, SerializeInvoice)
}

func DeserializeInvoices(ds []CustomerInvoice) ([]*models.CustomerInvoice, error) {
	return deserializeAll(ds, DeserializeInvoice)
}
