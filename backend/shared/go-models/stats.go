package models

import "github.com/google/uuid"

// MetricTrend compares a metric across two consecutive windows.
// PercentChange is nil whenever Previous is nil or zero.
type MetricTrend struct {
	Current       float64  `json:"current"`
	Previous      *float64 `json:"previous"`
	Change        *float64 `json:"change"`
	PercentChange *float64 `json:"percent_change"`
}

type BreakdownRow struct {
	Label      string   `json:"label"`
	Value      float64  `json:"value"`
	Percentage *float64 `json:"percentage"`
}

// Breakdown percentages sum to 100 when Total > 0 and are all nil when
// Total == 0.
type Breakdown struct {
	Rows  []BreakdownRow `json:"rows"`
	Total float64        `json:"total"`
}

type PropertyStats struct {
	TotalProperties    int       `json:"total_properties"`
	ActiveProperties   int       `json:"active_properties"`
	InactiveProperties int       `json:"inactive_properties"`
	TotalUnits         int       `json:"total_units"`
	OccupiedUnits      int       `json:"occupied_units"`
	VacantUnits        int       `json:"vacant_units"`
	OccupancyRate      float64   `json:"occupancy_rate"`
	ByType             Breakdown `json:"by_type"`
}

type UnitStats struct {
	TotalUnits    int       `json:"total_units"`
	Vacant        int       `json:"vacant"`
	Occupied      int       `json:"occupied"`
	Maintenance   int       `json:"maintenance"`
	Reserved      int       `json:"reserved"`
	OccupancyRate float64   `json:"occupancy_rate"`
	AverageRent   float64   `json:"average_rent"`
	ByStatus      Breakdown `json:"by_status"`
}

type TenantStats struct {
	TotalTenants int       `json:"total_tenants"`
	Prospect     int       `json:"prospect"`
	Active       int       `json:"active"`
	Past         int       `json:"past"`
	ByStatus     Breakdown `json:"by_status"`
}

type LeaseStats struct {
	TotalLeases     int       `json:"total_leases"`
	Draft           int       `json:"draft"`
	Pending         int       `json:"pending"`
	Active          int       `json:"active"`
	Expired         int       `json:"expired"`
	Terminated      int       `json:"terminated"`
	ExpiringSoon    int       `json:"expiring_soon"`
	MonthlyRentRoll float64   `json:"monthly_rent_roll"`
	AverageRent     float64   `json:"average_rent"`
	ByStatus        Breakdown `json:"by_status"`
}

type MaintenanceStats struct {
	TotalRequests          int       `json:"total_requests"`
	Open                   int       `json:"open"`
	InProgress             int       `json:"in_progress"`
	Completed              int       `json:"completed"`
	Canceled               int       `json:"canceled"`
	Urgent                 int       `json:"urgent"`
	AverageResolutionHours *float64  `json:"average_resolution_hours"`
	TotalActualCost        float64   `json:"total_actual_cost"`
	ByCategory             Breakdown `json:"by_category"`
	ByPriority             Breakdown `json:"by_priority"`
}

type InvoiceStats struct {
	TotalInvoices int     `json:"total_invoices"`
	Draft         int     `json:"draft"`
	Open          int     `json:"open"`
	Paid          int     `json:"paid"`
	Void          int     `json:"void"`
	Uncollectible int     `json:"uncollectible"`
	Overdue       int     `json:"overdue"`
	Outstanding   float64 `json:"outstanding"`
	OverdueAmount float64 `json:"overdue_amount"`
	Collected     float64 `json:"collected"`
}

type SubscriptionStats struct {
	TotalSubscriptions int       `json:"total_subscriptions"`
	Active             int       `json:"active"`
	Trialing           int       `json:"trialing"`
	PastDue            int       `json:"past_due"`
	Canceled           int       `json:"canceled"`
	ByTier             Breakdown `json:"by_tier"`
}

// PropertyAnalytics compares activity in the requested window with the
// window before it. PropertyID is nil for the whole portfolio. Each
// analytics result also carries the records created inside the window,
// oldest first.
type PropertyAnalytics struct {
	Timeframe           Timeframe   `json:"timeframe"`
	PropertyID          *uuid.UUID  `json:"property_id"`
	OccupancyRate       float64     `json:"occupancy_rate"`
	NewLeases           MetricTrend `json:"new_leases"`
	MaintenanceRequests MetricTrend `json:"maintenance_requests"`
	MaintenanceCost     MetricTrend `json:"maintenance_cost"`
	UnitsByStatus       Breakdown   `json:"units_by_status"`
	Records             []*Property `json:"records"`
}

type TenantAnalytics struct {
	Timeframe  Timeframe   `json:"timeframe"`
	NewTenants MetricTrend `json:"new_tenants"`
	MoveIns    MetricTrend `json:"move_ins"`
	MoveOuts   MetricTrend `json:"move_outs"`
	ByStatus   Breakdown   `json:"by_status"`
	Records    []*Tenant   `json:"records"`
}

type LeaseAnalytics struct {
	Timeframe    Timeframe   `json:"timeframe"`
	PropertyID   *uuid.UUID  `json:"property_id"`
	NewLeases    MetricTrend `json:"new_leases"`
	Renewals     MetricTrend `json:"renewals"`
	Terminations MetricTrend `json:"terminations"`
	NewRent      MetricTrend `json:"new_rent"`
	ByStatus     Breakdown   `json:"by_status"`
	Records      []*Lease    `json:"records"`
}

type MaintenanceAnalytics struct {
	Timeframe              Timeframe             `json:"timeframe"`
	PropertyID             *uuid.UUID            `json:"property_id"`
	Requests               MetricTrend           `json:"requests"`
	Completed              MetricTrend           `json:"completed"`
	Cost                   MetricTrend           `json:"cost"`
	AverageResolutionHours *float64              `json:"average_resolution_hours"`
	ByCategory             Breakdown             `json:"by_category"`
	ByPriority             Breakdown             `json:"by_priority"`
	Records                []*MaintenanceRequest `json:"records"`
}
