// go-models/unit.go
package models

import (
	"slices"

	"github.com/google/uuid"
)

type UnitStatus string

const (
	UnitStatusVacant      UnitStatus = "VACANT"
	UnitStatusOccupied    UnitStatus = "OCCUPIED"
	UnitStatusMaintenance UnitStatus = "MAINTENANCE"
	UnitStatusReserved    UnitStatus = "RESERVED"
)

var unitStatuses = []UnitStatus{
	UnitStatusVacant, UnitStatusOccupied, UnitStatusMaintenance, UnitStatusReserved,
}

func (UnitStatus) Values() []UnitStatus { return slices.Clone(unitStatuses) }
func (s UnitStatus) Valid() bool        { return slices.Contains(unitStatuses, s) }
func ParseUnitStatus(s string) (UnitStatus, error) {
	return parseEnum("unit status", s, unitStatuses)
}

// UnitFields are the client-writable fields of a rentable space inside a
// property. UnitNumber is unique per property.
type UnitFields struct {
	PropertyID  uuid.UUID  `json:"property_id" validate:"required"`
	UnitNumber  string     `json:"unit_number" validate:"required,max=50"`
	Status      UnitStatus `json:"status" validate:"omitempty,enum"`
	Bedrooms    int        `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms   float64    `json:"bathrooms" validate:"gte=0,lte=50"`
	SquareFeet  *int       `json:"square_feet" validate:"omitempty,gt=0"`
	Floor       *int       `json:"floor"`
	MonthlyRent float64    `json:"monthly_rent" validate:"gte=0"`
	Deposit     float64    `json:"deposit" validate:"gte=0"`
	Features    []string   `json:"features" validate:"omitempty,dive,required,max=100"`
	Metadata    Metadata   `json:"metadata"`
}

type Unit struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	UnitFields
	Timestamps
	Versioned
}

func (u *Unit) GetID() uuid.UUID      { return u.ID }
func (u *Unit) GetOwnerID() uuid.UUID { return u.OwnerID }

type UnitInput struct {
	UnitFields
}

// UnitUpdate cannot move a unit to another property.
type UnitUpdate struct {
	UnitNumber  *string     `json:"unit_number" validate:"omitempty,max=50"`
	Status      *UnitStatus `json:"status" validate:"omitempty,enum"`
	Bedrooms    *int        `json:"bedrooms" validate:"omitempty,gte=0,lte=50"`
	Bathrooms   *float64    `json:"bathrooms" validate:"omitempty,gte=0,lte=50"`
	SquareFeet  *int        `json:"square_feet" validate:"omitempty,gt=0"`
	Floor       *int        `json:"floor"`
	MonthlyRent *float64    `json:"monthly_rent" validate:"omitempty,gte=0"`
	Deposit     *float64    `json:"deposit" validate:"omitempty,gte=0"`
	Features    *[]string   `json:"features" validate:"omitempty,dive,required,max=100"`
	Metadata    Metadata    `json:"metadata"`
}

func (u *UnitUpdate) ApplyTo(unit *Unit) {
	setIf(&unit.UnitNumber, u.UnitNumber)
	setIf(&unit.Status, u.Status)
	setIf(&unit.Bedrooms, u.Bedrooms)
	setIf(&unit.Bathrooms, u.Bathrooms)
	setPtrIf(&unit.SquareFeet, u.SquareFeet)
	setPtrIf(&unit.Floor, u.Floor)
	setIf(&unit.MonthlyRent, u.MonthlyRent)
	setIf(&unit.Deposit, u.Deposit)
	if u.Features != nil {
		unit.Features = slices.Clone(*u.Features)
	}
	if u.Metadata != nil {
		unit.Metadata = u.Metadata.Clone()
	}
}

// UnitWithDetails is a unit with its property and, when occupied, the
// current lease and tenant.
type UnitWithDetails struct {
	*Unit
	Property      *Property `json:"property"`
	CurrentLease  *Lease    `json:"current_lease"`
	CurrentTenant *Tenant   `json:"current_tenant"`
}
