package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
)

func createdAt[T models.Record](e T) time.Time { return e.GetCreatedAt() }

func leaseRent(l *models.Lease) float64 { return l.MonthlyRent }

func actualCost(r *models.MaintenanceRequest) float64 {
	if r.ActualCost == nil {
		return 0
	}
	return *r.ActualCost
}

// PropertyAnalytics expects props, units, leases and requests already narrowed to
// the property (or portfolio) being reported on.
func PropertyAnalytics(
	tf models.Timeframe,
	propertyID *uuid.UUID,
	now time.Time,
	props []*models.Property,
	units []*models.Unit,
	leases []*models.Lease,
	reqs []*models.MaintenanceRequest,
) models.PropertyAnalytics {
	unitStats := UnitStats(units)
	return models.PropertyAnalytics{
		Timeframe:           tf,
		PropertyID:          propertyID,
		OccupancyRate:       unitStats.OccupancyRate,
		NewLeases:           CountTrend(leases, tf, now, createdAt[*models.Lease]),
		MaintenanceRequests: CountTrend(reqs, tf, now, createdAt[*models.MaintenanceRequest]),
		MaintenanceCost: SumTrend(reqs, tf, now,
			func(r *models.MaintenanceRequest) time.Time { return deref(r.CompletedAt) }, actualCost),
		UnitsByStatus: unitStats.ByStatus,
		Records:       Created(props, tf, now),
	}
}

// TenantAnalytics counts move-ins by lease activation and move-outs by
// termination or end date of expired leases.
func TenantAnalytics(tf models.Timeframe, now time.Time, tenants []*models.Tenant, leases []*models.Lease) models.TenantAnalytics {
	moveOut := func(l *models.Lease) time.Time {
		switch l.Status {
		case models.LeaseStatusTerminated:
			return deref(l.TerminatedAt)
		case models.LeaseStatusExpired:
			return l.EndDate
		}
		return time.Time{}
	}
	return models.TenantAnalytics{
		Timeframe:  tf,
		NewTenants: CountTrend(tenants, tf, now, createdAt[*models.Tenant]),
		MoveIns:    CountTrend(leases, tf, now, func(l *models.Lease) time.Time { return deref(l.ActivatedAt) }),
		MoveOuts:   CountTrend(leases, tf, now, moveOut),
		ByStatus:   TenantStats(tenants).ByStatus,
		Records:    Created(tenants, tf, now),
	}
}

func LeaseAnalytics(tf models.Timeframe, propertyID *uuid.UUID, now time.Time, leases []*models.Lease) models.LeaseAnalytics {
	renewal := func(l *models.Lease) time.Time {
		if l.PreviousLeaseID == nil {
			return time.Time{}
		}
		return l.CreatedAt
	}
	return models.LeaseAnalytics{
		Timeframe:    tf,
		PropertyID:   propertyID,
		NewLeases:    CountTrend(leases, tf, now, createdAt[*models.Lease]),
		Renewals:     CountTrend(leases, tf, now, renewal),
		Terminations: CountTrend(leases, tf, now, func(l *models.Lease) time.Time { return deref(l.TerminatedAt) }),
		NewRent:      SumTrend(leases, tf, now, createdAt[*models.Lease], leaseRent),
		ByStatus: CountBy(InWindow(leases, tf, now, createdAt[*models.Lease]), models.LeaseStatus("").Values(),
			func(l *models.Lease) models.LeaseStatus { return l.Status }),
		Records: Created(leases, tf, now),
	}
}

func MaintenanceAnalytics(tf models.Timeframe, propertyID *uuid.UUID, now time.Time, reqs []*models.MaintenanceRequest) models.MaintenanceAnalytics {
	completedAt := func(r *models.MaintenanceRequest) time.Time { return deref(r.CompletedAt) }
	recent := InWindow(reqs, tf, now, createdAt[*models.MaintenanceRequest])
	return models.MaintenanceAnalytics{
		Timeframe:              tf,
		PropertyID:             propertyID,
		Requests:               CountTrend(reqs, tf, now, createdAt[*models.MaintenanceRequest]),
		Completed:              CountTrend(reqs, tf, now, completedAt),
		Cost:                   SumTrend(reqs, tf, now, completedAt, actualCost),
		AverageResolutionHours: AverageResolutionHours(InWindow(reqs, tf, now, completedAt)),
		ByCategory: CountBy(recent, models.MaintenanceCategory("").Values(),
			func(r *models.MaintenanceRequest) models.MaintenanceCategory { return r.Category }),
		ByPriority: CountBy(recent, models.Priority("").Values(),
			func(r *models.MaintenanceRequest) models.Priority { return r.Priority }),
		Records: Created(reqs, tf, now),
	}
}
