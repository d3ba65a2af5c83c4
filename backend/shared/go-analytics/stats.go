package analytics

import (
	"time"

	"github.com/poofware/mono-repo/backend/shared/go-models"
)

// ExpiringWindow is how far ahead LeaseStats looks for expiring leases.
const ExpiringWindow = 30 * 24 * time.Hour

func PropertyStats(props []*models.Property, units []*models.Unit) models.PropertyStats {
	s := models.PropertyStats{TotalProperties: len(props), TotalUnits: len(units)}
	for _, p := range props {
		if p.Status == models.PropertyStatusActive {
			s.ActiveProperties++
		} else {
			s.InactiveProperties++
		}
	}
	for _, u := range units {
		switch u.Status {
		case models.UnitStatusOccupied:
			s.OccupiedUnits++
		case models.UnitStatusVacant:
			s.VacantUnits++
		}
	}
	s.OccupancyRate = rate(s.OccupiedUnits, s.TotalUnits)
	s.ByType = CountBy(props, models.PropertyType("").Values(), func(p *models.Property) models.PropertyType { return p.Type })
	return s
}

func UnitStats(units []*models.Unit) models.UnitStats {
	s := models.UnitStats{TotalUnits: len(units)}
	var rent float64
	for _, u := range units {
		rent += u.MonthlyRent
		switch u.Status {
		case models.UnitStatusVacant:
			s.Vacant++
		case models.UnitStatusOccupied:
			s.Occupied++
		case models.UnitStatusMaintenance:
			s.Maintenance++
		case models.UnitStatusReserved:
			s.Reserved++
		}
	}
	s.OccupancyRate = rate(s.Occupied, s.TotalUnits)
	if len(units) > 0 {
		s.AverageRent = Round2(rent / float64(len(units)))
	}
	s.ByStatus = CountBy(units, models.UnitStatus("").Values(), func(u *models.Unit) models.UnitStatus { return u.Status })
	return s
}

func TenantStats(tenants []*models.Tenant) models.TenantStats {
	s := models.TenantStats{TotalTenants: len(tenants)}
	for _, t := range tenants {
		switch t.Status {
		case models.TenantStatusProspect:
			s.Prospect++
		case models.TenantStatusActive:
			s.Active++
		case models.TenantStatusPast:
			s.Past++
		}
	}
	s.ByStatus = CountBy(tenants, models.TenantStatus("").Values(), func(t *models.Tenant) models.TenantStatus { return t.Status })
	return s
}

// LeaseStats counts leases by status. The rent roll and average rent cover
// active leases only.
func LeaseStats(leases []*models.Lease, now time.Time) models.LeaseStats {
	s := models.LeaseStats{TotalLeases: len(leases)}
	for _, l := range leases {
		switch l.Status {
		case models.LeaseStatusDraft:
			s.Draft++
		case models.LeaseStatusPending:
			s.Pending++
		case models.LeaseStatusActive:
			s.Active++
			s.MonthlyRentRoll += l.MonthlyRent
		case models.LeaseStatusExpired:
			s.Expired++
		case models.LeaseStatusTerminated:
			s.Terminated++
		}
		if l.ExpiresWithin(now, ExpiringWindow) {
			s.ExpiringSoon++
		}
	}
	s.MonthlyRentRoll = Round2(s.MonthlyRentRoll)
	if s.Active > 0 {
		s.AverageRent = Round2(s.MonthlyRentRoll / float64(s.Active))
	}
	s.ByStatus = CountBy(leases, models.LeaseStatus("").Values(), func(l *models.Lease) models.LeaseStatus { return l.Status })
	return s
}

func MaintenanceStats(reqs []*models.MaintenanceRequest) models.MaintenanceStats {
	s := models.MaintenanceStats{TotalRequests: len(reqs)}
	for _, r := range reqs {
		switch r.Status {
		case models.MaintenanceStatusOpen, models.MaintenanceStatusAssigned:
			s.Open++
		case models.MaintenanceStatusInProgress, models.MaintenanceStatusOnHold:
			s.InProgress++
		case models.MaintenanceStatusCompleted:
			s.Completed++
		case models.MaintenanceStatusCanceled:
			s.Canceled++
		}
		if r.Priority.IsUrgent() && !r.Status.IsTerminal() {
			s.Urgent++
		}
		if r.ActualCost != nil {
			s.TotalActualCost += *r.ActualCost
		}
	}
	s.TotalActualCost = Round2(s.TotalActualCost)
	s.AverageResolutionHours = AverageResolutionHours(reqs)
	s.ByCategory = CountBy(reqs, models.MaintenanceCategory("").Values(),
		func(r *models.MaintenanceRequest) models.MaintenanceCategory { return r.Category })
	s.ByPriority = CountBy(reqs, models.Priority("").Values(),
		func(r *models.MaintenanceRequest) models.Priority { return r.Priority })
	return s
}

// AverageResolutionHours is nil when nothing has been completed.
func AverageResolutionHours(reqs []*models.MaintenanceRequest) *float64 {
	var (
		total time.Duration
		n     int
	)
	for _, r := range reqs {
		if d, ok := r.ResolutionTime(); ok {
			total += d
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := Round2(total.Hours() / float64(n))
	return &avg
}

func InvoiceStats(invoices []*models.CustomerInvoice, now time.Time) models.InvoiceStats {
	s := models.InvoiceStats{TotalInvoices: len(invoices)}
	for _, inv := range invoices {
		switch inv.Status {
		case models.InvoiceStatusDraft:
			s.Draft++
		case models.InvoiceStatusOpen:
			s.Open++
			s.Outstanding += inv.Total
		case models.InvoiceStatusPaid:
			s.Paid++
			s.Collected += inv.Total
		case models.InvoiceStatusVoid:
			s.Void++
		case models.InvoiceStatusUncollectible:
			s.Uncollectible++
		}
		if inv.IsOverdue(now) {
			s.Overdue++
			s.OverdueAmount += inv.Total
		}
	}
	s.Outstanding = Round2(s.Outstanding)
	s.OverdueAmount = Round2(s.OverdueAmount)
	s.Collected = Round2(s.Collected)
	return s
}

func SubscriptionStats(subs []*models.Subscription) models.SubscriptionStats {
	s := models.SubscriptionStats{TotalSubscriptions: len(subs)}
	for _, sub := range subs {
		switch sub.Status {
		case models.SubscriptionStatusActive:
			s.Active++
		case models.SubscriptionStatusTrialing:
			s.Trialing++
		case models.SubscriptionStatusPastDue:
			s.PastDue++
		case models.SubscriptionStatusCanceled:
			s.Canceled++
		}
	}
	s.ByTier = CountBy(subs, models.PlanTier("").Values(), func(sub *models.Subscription) models.PlanTier { return sub.PlanTier })
	return s
}
