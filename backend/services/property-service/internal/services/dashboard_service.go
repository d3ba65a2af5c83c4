package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-repositories"
)

// Dashboard is the owner's portfolio overview for one timeframe.
type Dashboard struct {
	Timeframe            models.Timeframe             `json:"timeframe"`
	Properties           *models.PropertyStats        `json:"properties"`
	Units                *models.UnitStats            `json:"units"`
	Tenants              *models.TenantStats          `json:"tenants"`
	Leases               *models.LeaseStats           `json:"leases"`
	Maintenance          *models.MaintenanceStats     `json:"maintenance"`
	Invoices             *models.InvoiceStats         `json:"invoices"`
	PropertyAnalytics    *models.PropertyAnalytics    `json:"property_analytics"`
	TenantAnalytics      *models.TenantAnalytics      `json:"tenant_analytics"`
	LeaseAnalytics       *models.LeaseAnalytics       `json:"lease_analytics"`
	MaintenanceAnalytics *models.MaintenanceAnalytics `json:"maintenance_analytics"`
	UnreadNotifications  int                          `json:"unread_notifications"`
}

type DashboardService interface {
	GetDashboard(ctx context.Context, ownerID uuid.UUID, opts repositories.AnalyticsOptions) (*Dashboard, error)
}

type dashboardService struct {
	repos *repositories.Repositories
	cache repositories.Cache[*Dashboard]
	ttl   time.Duration
	now   func() time.Time
}

// NewDashboardService memoizes dashboards for ttl when ttl is positive.
func NewDashboardService(repos *repositories.Repositories, ttl time.Duration, now func() time.Time) DashboardService {
	if now == nil {
		now = time.Now
	}
	s := &dashboardService{repos: repos, ttl: ttl, now: now}
	if ttl > 0 {
		s.cache = repositories.NewMapCache[*Dashboard]()
	}
	return s
}

func (s *dashboardService) GetDashboard(ctx context.Context, ownerID uuid.UUID, opts repositories.AnalyticsOptions) (*Dashboard, error) {
	if opts.Timeframe == "" {
		opts.Timeframe = models.Timeframe30Days
	}
	if s.cache == nil {
		return s.build(ctx, ownerID, opts)
	}

	key := dashboardKey(ownerID, opts)
	if e, ok := s.cache.Get(key); ok && e.Fresh(s.now()) {
		return e.Value, nil
	}
	d, err := s.build(ctx, ownerID, opts)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, repositories.CacheEntry[*Dashboard]{Value: d, StoredAt: s.now(), TTL: s.ttl})
	return d, nil
}

func dashboardKey(ownerID uuid.UUID, opts repositories.AnalyticsOptions) string {
	key := fmt.Sprintf("%s|%s", ownerID, opts.Timeframe)
	if opts.PropertyID != nil {
		key += "|" + opts.PropertyID.String()
	}
	return key
}

func (s *dashboardService) build(ctx context.Context, ownerID uuid.UUID, opts repositories.AnalyticsOptions) (*Dashboard, error) {
	d := &Dashboard{Timeframe: opts.Timeframe}
	var err error

	if d.Properties, err = s.repos.Properties.GetStats(ctx, ownerID); err != nil {
		return nil, err
	}
	if d.Units, err = s.repos.Units.GetStats(ctx, ownerID, opts.PropertyID); err != nil {
		return nil, err
	}
	if d.Tenants, err = s.repos.Tenants.GetStats(ctx, ownerID); err != nil {
		return nil, err
	}
	if d.Leases, err = s.repos.Leases.GetStats(ctx, ownerID); err != nil {
		return nil, err
	}
	if d.Maintenance, err = s.repos.Maintenance.GetStats(ctx, ownerID); err != nil {
		return nil, err
	}
	if d.Invoices, err = s.repos.Invoices.GetStats(ctx, ownerID); err != nil {
		return nil, err
	}
	if d.PropertyAnalytics, err = s.repos.Properties.GetAnalytics(ctx, ownerID, opts); err != nil {
		return nil, err
	}
	if d.TenantAnalytics, err = s.repos.Tenants.GetAnalytics(ctx, ownerID, opts); err != nil {
		return nil, err
	}
	if d.LeaseAnalytics, err = s.repos.Leases.GetAnalytics(ctx, ownerID, opts); err != nil {
		return nil, err
	}
	if d.MaintenanceAnalytics, err = s.repos.Maintenance.GetAnalytics(ctx, ownerID, opts); err != nil {
		return nil, err
	}
	if d.UnreadNotifications, err = s.repos.Notifications.CountUnread(ctx, ownerID); err != nil {
		return nil, err
	}
	return d, nil
}
