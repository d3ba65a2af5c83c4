package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-store"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

/* ------------------------------------------------------------------
   Generic contract
------------------------------------------------------------------ */

// Repository is the contract every domain repository embeds. FindByID
// returns nil, nil when the record is absent or soft-deleted. Update
// reports absence per domain: nil, nil for most, *NotFoundError for the
// billing and identity domains.
type Repository[E any, I any, U any, Q any] interface {
	FindByOwnerWithSearch(ctx context.Context, ownerID uuid.UUID, opts Q) ([]*E, error)
	FindByID(ctx context.Context, id uuid.UUID) (*E, error)
	Create(ctx context.Context, ownerID uuid.UUID, input I) (*E, error)
	Update(ctx context.Context, id uuid.UUID, patch U) (*E, error)
}

/* ------------------------------------------------------------------
   Options
------------------------------------------------------------------ */

type Options struct {
	// Now is the clock used for timestamps and time-relative queries.
	Now        func() time.Time
	MaxRetries int
}

type Option func(*Options)

func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Now = now }
}

func WithMaxRetries(n int) Option {
	return func(o *Options) { o.MaxRetries = n }
}

/* ------------------------------------------------------------------
   Shared collections
------------------------------------------------------------------ */

const (
	collProperties    = "properties"
	collUnits         = "units"
	collTenants       = "tenants"
	collLeases        = "leases"
	collMaintenance   = "maintenance_requests"
	collInvoices      = "customer_invoices"
	collSubscriptions = "subscriptions"
	collUsage         = "usage_metrics"
	collNotifications = "notifications"
	collUsers         = "users"

	refProperty     = "property"
	refUnit         = "unit"
	refTenant       = "tenant"
	refLease        = "lease"
	refSubscription = "subscription"
)

// env holds one collection per entity so repositories that join across
// domains (leases touching units and tenants, say) share a single view of
// the store and the clock.
type env struct {
	store      store.Store
	now        func() time.Time
	maxRetries int

	properties    *collection[*models.Property]
	units         *collection[*models.Unit]
	tenants       *collection[*models.Tenant]
	leases        *collection[*models.Lease]
	maintenance   *collection[*models.MaintenanceRequest]
	invoices      *collection[*models.CustomerInvoice]
	subscriptions *collection[*models.Subscription]
	usage         *collection[*models.UsageMetric]
	notifications *collection[*models.Notification]
	users         *collection[*models.User]
}

func newEnv(s store.Store, opts ...Option) *env {
	o := Options{Now: utils.NowUTC, MaxRetries: store.DefaultMaxRetries}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Now == nil {
		o.Now = utils.NowUTC
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = store.DefaultMaxRetries
	}
	now := func() time.Time { return o.Now().UTC().Truncate(time.Microsecond) }

	e := &env{store: s, now: now, maxRetries: o.MaxRetries}
	e.properties = newCollection(e, collProperties, "Property",
		func() *models.Property { return &models.Property{} }, indexProperty)
	e.units = newCollection(e, collUnits, "Unit",
		func() *models.Unit { return &models.Unit{} }, indexUnit)
	e.tenants = newCollection(e, collTenants, "Tenant",
		func() *models.Tenant { return &models.Tenant{} }, indexTenant)
	e.leases = newCollection(e, collLeases, "Lease",
		func() *models.Lease { return &models.Lease{} }, indexLease)
	e.maintenance = newCollection(e, collMaintenance, "MaintenanceRequest",
		func() *models.MaintenanceRequest { return &models.MaintenanceRequest{} }, indexMaintenance)
	e.invoices = newCollection(e, collInvoices, "CustomerInvoice",
		func() *models.CustomerInvoice { return &models.CustomerInvoice{} }, indexInvoice)
	e.subscriptions = newCollection(e, collSubscriptions, "Subscription",
		func() *models.Subscription { return &models.Subscription{} }, indexSubscription)
	e.usage = newCollection(e, collUsage, "UsageMetric",
		func() *models.UsageMetric { return &models.UsageMetric{} }, indexUsage)
	e.notifications = newCollection(e, collNotifications, "Notification",
		func() *models.Notification { return &models.Notification{} }, indexNotification)
	e.users = newCollection(e, collUsers, "User",
		func() *models.User { return &models.User{} }, indexUser)
	return e
}

func newCollection[T record](e *env, name, entity string, alloc func() T, index func(T) ([]string, *uniqueKey)) *collection[T] {
	return &collection[T]{
		name:       name,
		entity:     entity,
		store:      e.store,
		now:        e.now,
		maxRetries: e.maxRetries,
		alloc:      alloc,
		index:      index,
	}
}

/* ------------------------------------------------------------------
   Bundle
------------------------------------------------------------------ */

// Repositories wires every domain repository over one store.
type Repositories struct {
	Properties    PropertyRepository
	Units         UnitRepository
	Tenants       TenantRepository
	Leases        LeaseRepository
	Maintenance   MaintenanceRepository
	Invoices      InvoiceRepository
	Subscriptions SubscriptionRepository
	Notifications NotificationRepository
	Users         UserRepository
}

func New(s store.Store, opts ...Option) *Repositories {
	e := newEnv(s, opts...)
	return &Repositories{
		Properties:    &propertyRepo{env: e},
		Units:         &unitRepo{env: e},
		Tenants:       &tenantRepo{env: e},
		Leases:        &leaseRepo{env: e},
		Maintenance:   &maintenanceRepo{env: e},
		Invoices:      &invoiceRepo{env: e},
		Subscriptions: &subscriptionRepo{env: e},
		Notifications: &notificationRepo{env: e},
		Users:         &userRepo{env: e},
	}
}

/* ------------------------------------------------------------------
   Small shared helpers
------------------------------------------------------------------ */

func ptrEq[T comparable](want *T, got T) bool {
	return want == nil || *want == got
}

func ownerFilter(ownerID uuid.UUID) store.Filter {
	return store.Filter{OwnerID: &ownerID}
}

func inRange(ts time.Time, from, to *time.Time) bool {
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}
