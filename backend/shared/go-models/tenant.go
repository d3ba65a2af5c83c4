package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TenantStatus string

const (
	TenantStatusProspect TenantStatus = "PROSPECT"
	TenantStatusActive   TenantStatus = "ACTIVE"
	TenantStatusPast     TenantStatus = "PAST"
)

var tenantStatuses = []TenantStatus{TenantStatusProspect, TenantStatusActive, TenantStatusPast}

func (TenantStatus) Values() []TenantStatus { return slices.Clone(tenantStatuses) }
func (s TenantStatus) Valid() bool          { return slices.Contains(tenantStatuses, s) }
func ParseTenantStatus(s string) (TenantStatus, error) {
	return parseEnum("tenant status", s, tenantStatuses)
}

type TenantFields struct {
	FirstName             string       `json:"first_name" validate:"required,max=100"`
	LastName              string       `json:"last_name" validate:"required,max=100"`
	Email                 string       `json:"email" validate:"required,email,max=254"`
	Phone                 string       `json:"phone" validate:"omitempty,max=32"`
	Status                TenantStatus `json:"status" validate:"omitempty,enum"`
	DateOfBirth           *time.Time   `json:"date_of_birth"`
	EmergencyContactName  string       `json:"emergency_contact_name" validate:"omitempty,max=200"`
	EmergencyContactPhone string       `json:"emergency_contact_phone" validate:"omitempty,max=32"`
	Notes                 string       `json:"notes" validate:"omitempty,max=5000"`
	Metadata              Metadata     `json:"metadata"`
}

type Tenant struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	TenantFields
	Timestamps
	SoftDelete
	Versioned
}

func (t *Tenant) GetID() uuid.UUID      { return t.ID }
func (t *Tenant) GetOwnerID() uuid.UUID { return t.OwnerID }

func (t *Tenant) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

type TenantInput struct {
	TenantFields
}

type TenantUpdate struct {
	FirstName             *string       `json:"first_name" validate:"omitempty,max=100"`
	LastName              *string       `json:"last_name" validate:"omitempty,max=100"`
	Email                 *string       `json:"email" validate:"omitempty,email,max=254"`
	Phone                 *string       `json:"phone" validate:"omitempty,max=32"`
	Status                *TenantStatus `json:"status" validate:"omitempty,enum"`
	DateOfBirth           *time.Time    `json:"date_of_birth"`
	EmergencyContactName  *string       `json:"emergency_contact_name" validate:"omitempty,max=200"`
	EmergencyContactPhone *string       `json:"emergency_contact_phone" validate:"omitempty,max=32"`
	Notes                 *string       `json:"notes" validate:"omitempty,max=5000"`
	Metadata              Metadata      `json:"metadata"`
}

func (u *TenantUpdate) ApplyTo(t *Tenant) {
	setIf(&t.FirstName, u.FirstName)
	setIf(&t.LastName, u.LastName)
	setIf(&t.Email, u.Email)
	setIf(&t.Phone, u.Phone)
	setIf(&t.Status, u.Status)
	setPtrIf(&t.DateOfBirth, u.DateOfBirth)
	setIf(&t.EmergencyContactName, u.EmergencyContactName)
	setIf(&t.EmergencyContactPhone, u.EmergencyContactPhone)
	setIf(&t.Notes, u.Notes)
	if u.Metadata != nil {
		t.Metadata = u.Metadata.Clone()
	}
}

type TenantWithLeases struct {
	*Tenant
	Leases      []*Lease `json:"leases"`
	ActiveLease *Lease   `json:"active_lease"`
}

// ActivityItem is one entry of a tenant's chronological activity feed.
type ActivityItem struct {
	Kind        string    `json:"kind"`
	EntityID    uuid.UUID `json:"entity_id"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	ActivityTenantCreated      = "tenant_created"
	ActivityLeaseCreated       = "lease_created"
	ActivityLeaseActivated     = "lease_activated"
	ActivityLeaseTerminated    = "lease_terminated"
	ActivityMaintenanceRequest = "maintenance_requested"
	ActivityMaintenanceClosed  = "maintenance_closed"
)
