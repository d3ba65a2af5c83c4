package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumPercentages(t *testing.T, b models.Breakdown) float64 {
	t.Helper()
	var total float64
	for _, r := range b.Rows {
		require.NotNil(t, r.Percentage, "row %s", r.Label)
		total += *r.Percentage
	}
	return total
}

func TestNewMetricTrend(t *testing.T) {
	t.Run("no previous", func(t *testing.T) {
		tr := NewMetricTrend(5, nil)
		assert.Equal(t, 5.0, tr.Current)
		assert.Nil(t, tr.Previous)
		assert.Nil(t, tr.Change)
		assert.Nil(t, tr.PercentChange)
	})
	t.Run("previous zero", func(t *testing.T) {
		tr := NewMetricTrend(5, utils.Ptr(0.0))
		require.NotNil(t, tr.Change)
		assert.Equal(t, 5.0, *tr.Change)
		assert.Nil(t, tr.PercentChange)
	})
	t.Run("growth", func(t *testing.T) {
		tr := NewMetricTrend(15, utils.Ptr(10.0))
		require.NotNil(t, tr.PercentChange)
		assert.InDelta(t, 50.0, *tr.PercentChange, 1e-9)
	})
	t.Run("decline", func(t *testing.T) {
		tr := NewMetricTrend(3, utils.Ptr(4.0))
		require.NotNil(t, tr.PercentChange)
		assert.InDelta(t, -25.0, *tr.PercentChange, 1e-9)
	})
}

func TestNewBreakdown_SumsToHundred(t *testing.T) {
	cases := map[string][]float64{
		"thirds":           {1, 1, 1},
		"sevenths":         {1, 1, 1, 1, 1, 1, 1},
		"skewed":           {997, 2, 1},
		"single":           {42},
		"zeros in the mix": {0, 3, 0, 6},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			rows := make([]models.BreakdownRow, len(values))
			for i, v := range values {
				rows[i] = models.BreakdownRow{Label: name, Value: v}
			}
			b := NewBreakdown(rows)
			assert.InDelta(t, 100.0, sumPercentages(t, b), 0.001)
		})
	}
}

func TestNewBreakdown_Thirds(t *testing.T) {
	b := NewBreakdown([]models.BreakdownRow{
		{Label: "a", Value: 1}, {Label: "b", Value: 1}, {Label: "c", Value: 1},
	})
	assert.Equal(t, 3.0, b.Total)
	assert.Equal(t, 33.34, *b.Rows[0].Percentage)
	assert.Equal(t, 33.33, *b.Rows[1].Percentage)
	assert.Equal(t, 33.33, *b.Rows[2].Percentage)
	assert.Equal(t, "a", b.Rows[0].Label)
}

func TestNewBreakdown_ZeroTotal(t *testing.T) {
	b := NewBreakdown([]models.BreakdownRow{{Label: "a"}, {Label: "b"}})
	assert.Zero(t, b.Total)
	for _, r := range b.Rows {
		assert.Nil(t, r.Percentage)
	}

	empty := NewBreakdown(nil)
	assert.NotNil(t, empty.Rows)
	assert.Empty(t, empty.Rows)
}

func TestCountTrend_Windows(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	at := func(ts time.Time) *models.Tenant {
		tn := &models.Tenant{ID: uuid.New()}
		tn.Stamp(ts)
		return tn
	}
	tenants := []*models.Tenant{
		at(now),                    // current, boundary
		at(now.AddDate(0, 0, -3)),  // current
		at(now.AddDate(0, 0, -7)),  // previous, boundary
		at(now.AddDate(0, 0, -10)), // previous
		at(now.AddDate(0, 0, -20)), // neither
		at(now.Add(time.Hour)),     // future
	}

	tr := CountTrend(tenants, models.Timeframe7Days, now, createdAt[*models.Tenant])
	assert.Equal(t, 2.0, tr.Current)
	require.NotNil(t, tr.Previous)
	assert.Equal(t, 2.0, *tr.Previous)
	assert.Equal(t, 0.0, *tr.PercentChange)

	all := CountTrend(tenants, models.TimeframeAll, now, createdAt[*models.Tenant])
	assert.Equal(t, 5.0, all.Current)
	assert.Nil(t, all.Previous)
}

func TestCreated_WindowEdges(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	at := func(ts time.Time) *models.Tenant {
		tn := &models.Tenant{ID: uuid.New()}
		tn.Stamp(ts)
		return tn
	}
	edge := at(now)
	inside := at(now.AddDate(0, 0, -3))
	justInside := at(now.AddDate(0, 0, -7).Add(time.Nanosecond))
	start := at(now.AddDate(0, 0, -7))
	future := at(now.Add(time.Second))

	got := Created([]*models.Tenant{edge, future, start, inside, justInside}, models.Timeframe7Days, now)
	assert.Equal(t, []*models.Tenant{justInside, inside, edge}, got)

	all := Created([]*models.Tenant{edge, start, future}, models.TimeframeAll, now)
	assert.Equal(t, []*models.Tenant{start, edge}, all)

	assert.NotNil(t, Created([]*models.Tenant{}, models.Timeframe7Days, now))
}

func TestLeaseStats(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lease := func(status models.LeaseStatus, rent float64, end time.Time) *models.Lease {
		return &models.Lease{Status: status, LeaseFields: models.LeaseFields{MonthlyRent: rent, EndDate: end}}
	}
	leases := []*models.Lease{
		lease(models.LeaseStatusActive, 1200, now.AddDate(0, 0, 10)),
		lease(models.LeaseStatusActive, 1800.5, now.AddDate(1, 0, 0)),
		lease(models.LeaseStatusDraft, 900, now.AddDate(1, 0, 0)),
		lease(models.LeaseStatusTerminated, 700, now.AddDate(0, 0, 5)),
	}

	s := LeaseStats(leases, now)
	assert.Equal(t, 4, s.TotalLeases)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Draft)
	assert.Equal(t, 1, s.Terminated)
	assert.Equal(t, 1, s.ExpiringSoon)
	assert.Equal(t, 3000.5, s.MonthlyRentRoll)
	assert.Equal(t, 1500.25, s.AverageRent)
	assert.InDelta(t, 100.0, sumPercentages(t, s.ByStatus), 0.001)
}

func TestMaintenanceStats(t *testing.T) {
	created := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	done := created.Add(6 * time.Hour)
	req := func(status models.MaintenanceStatus, prio models.Priority, completed *time.Time, cost *float64) *models.MaintenanceRequest {
		r := &models.MaintenanceRequest{Status: status, CompletedAt: completed, ActualCost: cost}
		r.Priority = prio
		r.Category = models.MaintenanceCategoryPlumbing
		r.Stamp(created)
		return r
	}
	reqs := []*models.MaintenanceRequest{
		req(models.MaintenanceStatusOpen, models.PriorityEmergency, nil, nil),
		req(models.MaintenanceStatusCompleted, models.PriorityUrgent, &done, utils.Ptr(125.5)),
		req(models.MaintenanceStatusInProgress, models.PriorityLow, nil, nil),
	}

	s := MaintenanceStats(reqs)
	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 1, s.Open)
	assert.Equal(t, 1, s.InProgress)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.Urgent)
	assert.Equal(t, 125.5, s.TotalActualCost)
	require.NotNil(t, s.AverageResolutionHours)
	assert.Equal(t, 6.0, *s.AverageResolutionHours)
	assert.Equal(t, 100.0, *s.ByCategory.Rows[0].Percentage)

	assert.Nil(t, AverageResolutionHours(reqs[:1]))
}

func TestInvoiceStats(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	inv := func(status models.InvoiceStatus, total float64, due time.Time) *models.CustomerInvoice {
		i := &models.CustomerInvoice{Total: total}
		i.Status = status
		i.DueDate = due
		return i
	}
	s := InvoiceStats([]*models.CustomerInvoice{
		inv(models.InvoiceStatusOpen, 100, now.AddDate(0, 0, -1)),
		inv(models.InvoiceStatusOpen, 50, now.AddDate(0, 0, 5)),
		inv(models.InvoiceStatusPaid, 75.25, now.AddDate(0, 0, -30)),
		inv(models.InvoiceStatusVoid, 10, now),
	}, now)

	assert.Equal(t, 2, s.Open)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 150.0, s.Outstanding)
	assert.Equal(t, 100.0, s.OverdueAmount)
	assert.Equal(t, 75.25, s.Collected)
}

func TestPropertyStats_Occupancy(t *testing.T) {
	props := []*models.Property{
		{PropertyFields: models.PropertyFields{Type: models.PropertyTypeApartment, Status: models.PropertyStatusActive}},
		{PropertyFields: models.PropertyFields{Type: models.PropertyTypeCondo, Status: models.PropertyStatusSold}},
	}
	units := []*models.Unit{
		{UnitFields: models.UnitFields{Status: models.UnitStatusOccupied}},
		{UnitFields: models.UnitFields{Status: models.UnitStatusOccupied}},
		{UnitFields: models.UnitFields{Status: models.UnitStatusVacant}},
	}
	s := PropertyStats(props, units)
	assert.Equal(t, 1, s.ActiveProperties)
	assert.Equal(t, 1, s.InactiveProperties)
	assert.Equal(t, 66.67, s.OccupancyRate)
	assert.Len(t, s.ByType.Rows, len(models.PropertyType("").Values()))

	empty := PropertyStats(nil, nil)
	assert.Zero(t, empty.OccupancyRate)
	assert.Zero(t, empty.ByType.Total)
}
