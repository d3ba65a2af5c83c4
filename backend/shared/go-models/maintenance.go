package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type MaintenanceStatus string

const (
	MaintenanceStatusOpen       MaintenanceStatus = "OPEN"
	MaintenanceStatusAssigned   MaintenanceStatus = "ASSIGNED"
	MaintenanceStatusInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceStatusOnHold     MaintenanceStatus = "ON_HOLD"
	MaintenanceStatusCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceStatusCanceled   MaintenanceStatus = "CANCELED"
)

var maintenanceStatuses = []MaintenanceStatus{
	MaintenanceStatusOpen, MaintenanceStatusAssigned, MaintenanceStatusInProgress,
	MaintenanceStatusOnHold, MaintenanceStatusCompleted, MaintenanceStatusCanceled,
}

func (MaintenanceStatus) Values() []MaintenanceStatus { return slices.Clone(maintenanceStatuses) }
func (s MaintenanceStatus) Valid() bool               { return slices.Contains(maintenanceStatuses, s) }
func ParseMaintenanceStatus(s string) (MaintenanceStatus, error) {
	return parseEnum("maintenance status", s, maintenanceStatuses)
}

func (s MaintenanceStatus) IsTerminal() bool {
	return s == MaintenanceStatusCompleted || s == MaintenanceStatusCanceled
}

type MaintenanceCategory string

const (
	MaintenanceCategoryPlumbing    MaintenanceCategory = "PLUMBING"
	MaintenanceCategoryElectrical  MaintenanceCategory = "ELECTRICAL"
	MaintenanceCategoryHVAC        MaintenanceCategory = "HVAC"
	MaintenanceCategoryAppliance   MaintenanceCategory = "APPLIANCE"
	MaintenanceCategoryStructural  MaintenanceCategory = "STRUCTURAL"
	MaintenanceCategoryPestControl MaintenanceCategory = "PEST_CONTROL"
	MaintenanceCategoryLandscaping MaintenanceCategory = "LANDSCAPING"
	MaintenanceCategorySecurity    MaintenanceCategory = "SECURITY"
	MaintenanceCategoryGeneral     MaintenanceCategory = "GENERAL"
)

var maintenanceCategories = []MaintenanceCategory{
	MaintenanceCategoryPlumbing, MaintenanceCategoryElectrical, MaintenanceCategoryHVAC,
	MaintenanceCategoryAppliance, MaintenanceCategoryStructural, MaintenanceCategoryPestControl,
	MaintenanceCategoryLandscaping, MaintenanceCategorySecurity, MaintenanceCategoryGeneral,
}

func (MaintenanceCategory) Values() []MaintenanceCategory {
	return slices.Clone(maintenanceCategories)
}
func (c MaintenanceCategory) Valid() bool { return slices.Contains(maintenanceCategories, c) }
func ParseMaintenanceCategory(s string) (MaintenanceCategory, error) {
	return parseEnum("maintenance category", s, maintenanceCategories)
}

type MaintenanceRequestFields struct {
	PropertyID        uuid.UUID           `json:"property_id" validate:"required"`
	UnitID            *uuid.UUID          `json:"unit_id"`
	TenantID          *uuid.UUID          `json:"tenant_id"`
	Title             string              `json:"title" validate:"required,max=200"`
	Description       string              `json:"description" validate:"required,max=5000"`
	Category          MaintenanceCategory `json:"category" validate:"required,enum"`
	Priority          MaintenancePriority `json:"priority" validate:"required,enum"`
	PermissionToEnter bool                `json:"permission_to_enter"`
	PreferredDate     *time.Time          `json:"preferred_date"`
	EstimatedCost     *float64            `json:"estimated_cost" validate:"omitempty,gte=0"`
	Images            []string            `json:"images" validate:"omitempty,dive,url"`
	Metadata          Metadata            `json:"metadata"`
}

// WorkLogEntry records work done against a request.
type WorkLogEntry struct {
	ID         uuid.UUID `json:"id"`
	Note       string    `json:"note"`
	Author     string    `json:"author"`
	HoursSpent float64   `json:"hours_spent"`
	CreatedAt  time.Time `json:"created_at"`
}

type MaintenanceRequest struct {
	ID              uuid.UUID         `json:"id"`
	OwnerID         uuid.UUID         `json:"owner_id"`
	Status          MaintenanceStatus `json:"status"`
	AssignedTo      *string           `json:"assigned_to"`
	AssignedAt      *time.Time        `json:"assigned_at"`
	StartedAt       *time.Time        `json:"started_at"`
	CompletedAt     *time.Time        `json:"completed_at"`
	CanceledAt      *time.Time        `json:"canceled_at"`
	ActualCost      *float64          `json:"actual_cost"`
	ResolutionNotes string            `json:"resolution_notes"`
	WorkLog         []WorkLogEntry    `json:"work_log"`
	MaintenanceRequestFields
	Timestamps
	SoftDelete
	Versioned
}

func (m *MaintenanceRequest) GetID() uuid.UUID      { return m.ID }
func (m *MaintenanceRequest) GetOwnerID() uuid.UUID { return m.OwnerID }

// ResolutionTime is the time from creation to completion, or false when the
// request has not been completed.
func (m *MaintenanceRequest) ResolutionTime() (time.Duration, bool) {
	if m.CompletedAt == nil {
		return 0, false
	}
	return m.CompletedAt.Sub(m.CreatedAt), true
}

type MaintenanceRequestInput struct {
	MaintenanceRequestFields
}

type MaintenanceRequestUpdate struct {
	UnitID            *uuid.UUID           `json:"unit_id"`
	TenantID          *uuid.UUID           `json:"tenant_id"`
	Title             *string              `json:"title" validate:"omitempty,max=200"`
	Description       *string              `json:"description" validate:"omitempty,max=5000"`
	Category          *MaintenanceCategory `json:"category" validate:"omitempty,enum"`
	Priority          *MaintenancePriority `json:"priority" validate:"omitempty,enum"`
	PermissionToEnter *bool                `json:"permission_to_enter"`
	PreferredDate     *time.Time           `json:"preferred_date"`
	EstimatedCost     *float64             `json:"estimated_cost" validate:"omitempty,gte=0"`
	Images            *[]string            `json:"images" validate:"omitempty,dive,url"`
	Metadata          Metadata             `json:"metadata"`
}

func (u *MaintenanceRequestUpdate) ApplyTo(m *MaintenanceRequest) {
	setPtrIf(&m.UnitID, u.UnitID)
	setPtrIf(&m.TenantID, u.TenantID)
	setIf(&m.Title, u.Title)
	setIf(&m.Description, u.Description)
	setIf(&m.Category, u.Category)
	setIf(&m.Priority, u.Priority)
	setIf(&m.PermissionToEnter, u.PermissionToEnter)
	setPtrIf(&m.PreferredDate, u.PreferredDate)
	setPtrIf(&m.EstimatedCost, u.EstimatedCost)
	if u.Images != nil {
		m.Images = slices.Clone(*u.Images)
	}
	if u.Metadata != nil {
		m.Metadata = u.Metadata.Clone()
	}
}

type AssignMaintenanceInput struct {
	AssignedTo string `json:"assigned_to" validate:"required,max=200"`
}

type WorkLogInput struct {
	Note       string  `json:"note" validate:"required,max=5000"`
	Author     string  `json:"author" validate:"omitempty,max=200"`
	HoursSpent float64 `json:"hours_spent" validate:"gte=0,lte=24"`
	// OnHold parks the request instead of moving it to IN_PROGRESS.
	OnHold bool `json:"on_hold"`
}

type CompleteMaintenanceInput struct {
	ActualCost      *float64 `json:"actual_cost" validate:"omitempty,gte=0"`
	ResolutionNotes string   `json:"resolution_notes" validate:"omitempty,max=5000"`
}

type MaintenanceRequestWithDetails struct {
	*MaintenanceRequest
	Property *Property `json:"property"`
	Unit     *Unit     `json:"unit"`
	Tenant   *Tenant   `json:"tenant"`
}
