package models

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusOpen          InvoiceStatus = "OPEN"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusVoid          InvoiceStatus = "VOID"
	InvoiceStatusUncollectible InvoiceStatus = "UNCOLLECTIBLE"
)

var invoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft, InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusVoid, InvoiceStatusUncollectible,
}

func (InvoiceStatus) Values() []InvoiceStatus { return slices.Clone(invoiceStatuses) }
func (s InvoiceStatus) Valid() bool           { return slices.Contains(invoiceStatuses, s) }
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	return parseEnum("invoice status", s, invoiceStatuses)
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft: {InvoiceStatusOpen, InvoiceStatusVoid},
	InvoiceStatusOpen:  {InvoiceStatusPaid, InvoiceStatusVoid, InvoiceStatusUncollectible},
}

func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	return slices.Contains(invoiceTransitions[s], next)
}

// IsSettled reports whether the invoice can no longer be edited.
func (s InvoiceStatus) IsSettled() bool {
	return s != InvoiceStatusDraft && s != InvoiceStatusOpen
}

// InvoiceLineItem is one billed line. Amount is computed as
// Quantity*UnitPrice and is ignored on input.
type InvoiceLineItem struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Amount      float64 `json:"amount"`
}

// CustomerInvoiceFields are the client-writable invoice fields. An empty
// InvoiceNumber is generated on create.
type CustomerInvoiceFields struct {
	InvoiceNumber string            `json:"invoice_number" validate:"omitempty,max=64"`
	CustomerName  string            `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string            `json:"customer_email" validate:"required,email"`
	TenantID      *uuid.UUID        `json:"tenant_id"`
	LeaseID       *uuid.UUID        `json:"lease_id"`
	Status        InvoiceStatus     `json:"status" validate:"omitempty,enum"`
	Currency      string            `json:"currency" validate:"omitempty,len=3"`
	IssueDate     time.Time         `json:"issue_date" validate:"required"`
	DueDate       time.Time         `json:"due_date" validate:"required"`
	LineItems     []InvoiceLineItem `json:"line_items" validate:"required,min=1,dive"`
	TaxRate       float64           `json:"tax_rate" validate:"gte=0,lte=1"`
	Notes         string            `json:"notes" validate:"omitempty,max=5000"`
	Metadata      Metadata          `json:"metadata"`
}

type CustomerInvoice struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Subtotal  float64    `json:"subtotal"`
	TaxAmount float64    `json:"tax_amount"`
	Total     float64    `json:"total"`
	PaidAt    *time.Time `json:"paid_at"`
	VoidedAt  *time.Time `json:"voided_at"`
	CustomerInvoiceFields
	Timestamps
	Versioned
}

func (i *CustomerInvoice) GetID() uuid.UUID      { return i.ID }
func (i *CustomerInvoice) GetOwnerID() uuid.UUID { return i.OwnerID }

// RecalculateTotals recomputes every line amount and the invoice totals,
// rounded to cents.
func (i *CustomerInvoice) RecalculateTotals() {
	var subtotal float64
	for idx := range i.LineItems {
		li := &i.LineItems[idx]
		li.Amount = RoundCents(li.Quantity * li.UnitPrice)
		subtotal += li.Amount
	}
	i.Subtotal = RoundCents(subtotal)
	i.TaxAmount = RoundCents(i.Subtotal * i.TaxRate)
	i.Total = RoundCents(i.Subtotal + i.TaxAmount)
}

// IsOverdue reports whether an open invoice is past its due date.
func (i *CustomerInvoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceStatusOpen && i.DueDate.Before(now)
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type CustomerInvoiceInput struct {
	CustomerInvoiceFields
}

type CustomerInvoiceUpdate struct {
	CustomerName  *string            `json:"customer_name" validate:"omitempty,max=200"`
	CustomerEmail *string            `json:"customer_email" validate:"omitempty,email"`
	TenantID      *uuid.UUID         `json:"tenant_id"`
	LeaseID       *uuid.UUID         `json:"lease_id"`
	Status        *InvoiceStatus     `json:"status" validate:"omitempty,enum"`
	Currency      *string            `json:"currency" validate:"omitempty,len=3"`
	IssueDate     *time.Time         `json:"issue_date"`
	DueDate       *time.Time         `json:"due_date"`
	LineItems     *[]InvoiceLineItem `json:"line_items" validate:"omitempty,min=1,dive"`
	TaxRate       *float64           `json:"tax_rate" validate:"omitempty,gte=0,lte=1"`
	Notes         *string            `json:"notes" validate:"omitempty,max=5000"`
	Metadata      Metadata           `json:"metadata"`
}

func (u *CustomerInvoiceUpdate) ApplyTo(i *CustomerInvoice) {
	setIf(&i.CustomerName, u.CustomerName)
	setIf(&i.CustomerEmail, u.CustomerEmail)
	setPtrIf(&i.TenantID, u.TenantID)
	setPtrIf(&i.LeaseID, u.LeaseID)
	setIf(&i.Status, u.Status)
	setIf(&i.Currency, u.Currency)
	setIf(&i.IssueDate, u.IssueDate)
	setIf(&i.DueDate, u.DueDate)
	if u.LineItems != nil {
		i.LineItems = slices.Clone(*u.LineItems)
	}
	setIf(&i.TaxRate, u.TaxRate)
	setIf(&i.Notes, u.Notes)
	if u.Metadata != nil {
		i.Metadata = u.Metadata.Clone()
	}
	i.RecalculateTotals()
}
