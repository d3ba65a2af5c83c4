package models

import (
	"slices"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "SINGLE_FAMILY"
	PropertyTypeMultiFamily  PropertyType = "MULTI_FAMILY"
	PropertyTypeApartment    PropertyType = "APARTMENT"
	PropertyTypeCondo        PropertyType = "CONDO"
	PropertyTypeTownhouse    PropertyType = "TOWNHOUSE"
	PropertyTypeCommercial   PropertyType = "COMMERCIAL"
)

var propertyTypes = []PropertyType{
	PropertyTypeSingleFamily, PropertyTypeMultiFamily, PropertyTypeApartment,
	PropertyTypeCondo, PropertyTypeTownhouse, PropertyTypeCommercial,
}

func (PropertyType) Values() []PropertyType { return slices.Clone(propertyTypes) }
func (t PropertyType) Valid() bool          { return slices.Contains(propertyTypes, t) }
func ParsePropertyType(s string) (PropertyType, error) {
	return parseEnum("property type", s, propertyTypes)
}

type PropertyStatus string

const (
	PropertyStatusActive        PropertyStatus = "ACTIVE"
	PropertyStatusInactive      PropertyStatus = "INACTIVE"
	PropertyStatusUnderContract PropertyStatus = "UNDER_CONTRACT"
	PropertyStatusSold          PropertyStatus = "SOLD"
)

var propertyStatuses = []PropertyStatus{
	PropertyStatusActive, PropertyStatusInactive, PropertyStatusUnderContract, PropertyStatusSold,
}

func (PropertyStatus) Values() []PropertyStatus { return slices.Clone(propertyStatuses) }
func (s PropertyStatus) Valid() bool            { return slices.Contains(propertyStatuses, s) }
func ParsePropertyStatus(s string) (PropertyStatus, error) {
	return parseEnum("property status", s, propertyStatuses)
}

// PropertyFields are the client-writable fields of a property.
type PropertyFields struct {
	Name          string         `json:"name" validate:"required,max=200"`
	Type          PropertyType   `json:"type" validate:"required,enum"`
	Status        PropertyStatus `json:"status" validate:"omitempty,enum"`
	Address       string         `json:"address" validate:"required,max=300"`
	City          string         `json:"city" validate:"required,max=100"`
	State         string         `json:"state" validate:"required,max=100"`
	ZipCode       string         `json:"zip_code" validate:"required,max=20"`
	Country       string         `json:"country" validate:"omitempty,max=100"`
	Latitude      *float64       `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64       `json:"longitude" validate:"omitempty,longitude"`
	TimeZone      string         `json:"timezone" validate:"omitempty,timezone"`
	YearBuilt     *int           `json:"year_built" validate:"omitempty,gte=1800,lte=2100"`
	SquareFeet    *int           `json:"square_feet" validate:"omitempty,gt=0"`
	PurchasePrice *float64       `json:"purchase_price" validate:"omitempty,gte=0"`
	Description   string         `json:"description" validate:"omitempty,max=5000"`
	Metadata      Metadata       `json:"metadata"`
}

type Property struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	PropertyFields
	Timestamps
	SoftDelete
	Versioned
}

func (p *Property) GetID() uuid.UUID      { return p.ID }
func (p *Property) GetOwnerID() uuid.UUID { return p.OwnerID }

type PropertyInput struct {
	PropertyFields
}

type PropertyUpdate struct {
	Name          *string         `json:"name" validate:"omitempty,max=200"`
	Type          *PropertyType   `json:"type" validate:"omitempty,enum"`
	Status        *PropertyStatus `json:"status" validate:"omitempty,enum"`
	Address       *string         `json:"address" validate:"omitempty,max=300"`
	City          *string         `json:"city" validate:"omitempty,max=100"`
	State         *string         `json:"state" validate:"omitempty,max=100"`
	ZipCode       *string         `json:"zip_code" validate:"omitempty,max=20"`
	Country       *string         `json:"country" validate:"omitempty,max=100"`
	Latitude      *float64        `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64        `json:"longitude" validate:"omitempty,longitude"`
	TimeZone      *string         `json:"timezone" validate:"omitempty,timezone"`
	YearBuilt     *int            `json:"year_built" validate:"omitempty,gte=1800,lte=2100"`
	SquareFeet    *int            `json:"square_feet" validate:"omitempty,gt=0"`
	PurchasePrice *float64        `json:"purchase_price" validate:"omitempty,gte=0"`
	Description   *string         `json:"description" validate:"omitempty,max=5000"`
	Metadata      Metadata        `json:"metadata"`
}

func (u *PropertyUpdate) ApplyTo(p *Property) {
	setIf(&p.Name, u.Name)
	setIf(&p.Type, u.Type)
	setIf(&p.Status, u.Status)
	setIf(&p.Address, u.Address)
	setIf(&p.City, u.City)
	setIf(&p.State, u.State)
	setIf(&p.ZipCode, u.ZipCode)
	setIf(&p.Country, u.Country)
	setPtrIf(&p.Latitude, u.Latitude)
	setPtrIf(&p.Longitude, u.Longitude)
	setIf(&p.TimeZone, u.TimeZone)
	setPtrIf(&p.YearBuilt, u.YearBuilt)
	setPtrIf(&p.SquareFeet, u.SquareFeet)
	setPtrIf(&p.PurchasePrice, u.PurchasePrice)
	setIf(&p.Description, u.Description)
	if u.Metadata != nil {
		p.Metadata = u.Metadata.Clone()
	}
}

// PropertyWithUnits is the property read together with its units.
type PropertyWithUnits struct {
	*Property
	Units         []*Unit `json:"units"`
	UnitCount     int     `json:"unit_count"`
	OccupiedUnits int     `json:"occupied_units"`
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPtrIf[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}
