package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "DRAFT"
	LeaseStatusPending    LeaseStatus = "PENDING"
	LeaseStatusActive     LeaseStatus = "ACTIVE"
	LeaseStatusExpired    LeaseStatus = "EXPIRED"
	LeaseStatusTerminated LeaseStatus = "TERMINATED"
)

var leaseStatuses = []LeaseStatus{
	LeaseStatusDraft, LeaseStatusPending, LeaseStatusActive, LeaseStatusExpired, LeaseStatusTerminated,
}

// A lease can be terminated before execution; PENDING -> DRAFT is a
// withdrawn submission.
var leaseTransitions = map[LeaseStatus][]LeaseStatus{
	LeaseStatusDraft:   {LeaseStatusPending, LeaseStatusTerminated},
	LeaseStatusPending: {LeaseStatusActive, LeaseStatusDraft, LeaseStatusTerminated},
	LeaseStatusActive:  {LeaseStatusExpired, LeaseStatusTerminated},
}

func (LeaseStatus) Values() []LeaseStatus { return slices.Clone(leaseStatuses) }
func (s LeaseStatus) Valid() bool         { return slices.Contains(leaseStatuses, s) }
func ParseLeaseStatus(s string) (LeaseStatus, error) {
	return parseEnum("lease status", s, leaseStatuses)
}

// IsTerminal reports whether no further transition is possible.
func (s LeaseStatus) IsTerminal() bool {
	return s == LeaseStatusExpired || s == LeaseStatusTerminated
}

func (s LeaseStatus) CanTransitionTo(next LeaseStatus) bool {
	return slices.Contains(leaseTransitions[s], next)
}

// LeaseFields are the client-writable fields of a lease. PropertyID is
// derived from the unit and is not writable.
type LeaseFields struct {
	UnitID          uuid.UUID `json:"unit_id" validate:"required"`
	TenantID        uuid.UUID `json:"tenant_id" validate:"required"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required"`
	MonthlyRent     float64   `json:"monthly_rent" validate:"gt=0"`
	SecurityDeposit float64   `json:"security_deposit" validate:"gte=0"`
	RentDueDay      int       `json:"rent_due_day" validate:"omitempty,min=1,max=28"`
	Terms           string    `json:"terms" validate:"omitempty,max=20000"`
	Metadata        Metadata  `json:"metadata"`
}

type Lease struct {
	ID                uuid.UUID   `json:"id"`
	OwnerID           uuid.UUID   `json:"owner_id"`
	PropertyID        uuid.UUID   `json:"property_id"`
	Status            LeaseStatus `json:"status"`
	PreviousLeaseID   *uuid.UUID  `json:"previous_lease_id"`
	SubmittedAt       *time.Time  `json:"submitted_at"`
	ActivatedAt       *time.Time  `json:"activated_at"`
	TerminatedAt      *time.Time  `json:"terminated_at"`
	TerminationReason string      `json:"termination_reason"`
	LeaseFields
	Timestamps
	SoftDelete
	Versioned
}

func (l *Lease) GetID() uuid.UUID      { return l.ID }
func (l *Lease) GetOwnerID() uuid.UUID { return l.OwnerID }

// ExpiresWithin reports whether an active lease ends in [now, now+d].
func (l *Lease) ExpiresWithin(now time.Time, d time.Duration) bool {
	if l.Status != LeaseStatusActive {
		return false
	}
	return !l.EndDate.Before(now) && !l.EndDate.After(now.Add(d))
}

type LeaseInput struct {
	LeaseFields
}

type LeaseUpdate struct {
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MonthlyRent     *float64   `json:"monthly_rent" validate:"omitempty,gt=0"`
	SecurityDeposit *float64   `json:"security_deposit" validate:"omitempty,gte=0"`
	RentDueDay      *int       `json:"rent_due_day" validate:"omitempty,min=1,max=28"`
	Terms           *string    `json:"terms" validate:"omitempty,max=20000"`
	Metadata        Metadata   `json:"metadata"`
}

func (u *LeaseUpdate) ApplyTo(l *Lease) {
	setIf(&l.StartDate, u.StartDate)
	setIf(&l.EndDate, u.EndDate)
	setIf(&l.MonthlyRent, u.MonthlyRent)
	setIf(&l.SecurityDeposit, u.SecurityDeposit)
	setIf(&l.RentDueDay, u.RentDueDay)
	setIf(&l.Terms, u.Terms)
	if u.Metadata != nil {
		l.Metadata = u.Metadata.Clone()
	}
}

type TerminateLeaseInput struct {
	TerminationDate time.Time `json:"termination_date" validate:"required"`
	Reason          string    `json:"reason" validate:"required,max=1000"`
}

// RenewLeaseInput describes the follow-up lease. A zero StartDate means
// the day after the previous lease ends; a zero MonthlyRent keeps the rent.
type RenewLeaseInput struct {
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	MonthlyRent float64   `json:"monthly_rent" validate:"gte=0"`
}

type LeaseWithDetails struct {
	*Lease
	Unit     *Unit     `json:"unit"`
	Property *Property `json:"property"`
	Tenant   *Tenant   `json:"tenant"`
}
